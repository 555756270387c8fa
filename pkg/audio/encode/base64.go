// ABOUTME: Base64 transport encoding
// ABOUTME: Encodes reference audio for inline upload to the speech API
package encode

import "encoding/base64"

// EncodeBase64 encodes bytes as standard padded base64
func EncodeBase64(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}
