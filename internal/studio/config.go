// ABOUTME: Studio configuration and API key discovery
// ABOUTME: Loads an optional .env file and reads the Gemini key from the environment
package studio

import (
	"errors"
	"io/fs"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// DefaultDownloadPrefix names saved files <prefix>-<unix millis>.wav
const DefaultDownloadPrefix = "gemini-tts"

// DefaultText is the sample line the editor starts with
const DefaultText = "Tum kese hou"

// keyVars are checked in order
var keyVars = []string{"GEMINI_API_KEY", "API_KEY"}

// LoadEnv loads .env style files into the environment. Missing files
// are skipped and existing variables are never overridden.
func LoadEnv(files ...string) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				log.Printf("Failed to load %s: %v", f, err)
			}
			continue
		}
		log.Printf("Loaded environment from %s", f)
	}
}

// APIKeyFromEnv returns the first non-empty key variable
func APIKeyFromEnv() string {
	for _, name := range keyVars {
		if v := strings.TrimSpace(os.Getenv(name)); v != "" {
			return v
		}
	}
	return ""
}
