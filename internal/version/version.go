// ABOUTME: Version information for ttsstudio
// ABOUTME: Shared by the CLI banner, the server and the speech client user agent
package version

const (
	// Version is the current release
	Version = "0.1.0"

	// Product is the name advertised over mDNS and in the user agent
	Product = "TTS Studio"

	// Manufacturer identifies the project
	Manufacturer = "ttsstudio-go"
)

// UserAgent returns the HTTP user agent for outbound requests
func UserAgent() string {
	return Manufacturer + "/" + Version
}
