// ABOUTME: Base64 transport decoding
// ABOUTME: Decodes the speech API's base64 payload into raw audio bytes
package decode

import (
	"encoding/base64"
	"fmt"

	"github.com/harperreed/ttsstudio-go/pkg/audio"
)

// DecodeBase64 decodes standard padded base64 into raw bytes.
// Malformed input is reported as audio.ErrDecode with no partial result.
func DecodeBase64(s string) ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: base64: %v", audio.ErrDecode, err)
	}
	return data, nil
}
