// ABOUTME: Static catalog of prebuilt speech voices
// ABOUTME: Provides lookup and the default voice for standard synthesis
package voices

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownVoice indicates an ID outside the catalog
var ErrUnknownVoice = errors.New("unknown voice")

// Gender tags a voice for display
type Gender string

const (
	Male   Gender = "Male"
	Female Gender = "Female"
)

// Voice is a catalog entry
type Voice struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Gender      Gender `json:"gender"`
	Description string `json:"description"`
}

// DefaultID is the voice selected at startup
const DefaultID = "Kore"

var catalog = []Voice{
	{ID: "Puck", Name: "Puck", Gender: Male, Description: "Deep, resonant, and authoritative"},
	{ID: "Charon", Name: "Charon", Gender: Male, Description: "Calm, steady, and trustworthy"},
	{ID: "Kore", Name: "Kore", Gender: Female, Description: "Warm, clear, and engaging"},
	{ID: "Fenrir", Name: "Fenrir", Gender: Male, Description: "Energetic, enthusiastic, and fast"},
	{ID: "Zephyr", Name: "Zephyr", Gender: Female, Description: "Soft, gentle, and soothing"},
}

// All returns a copy of the catalog in display order
func All() []Voice {
	out := make([]Voice, len(catalog))
	copy(out, catalog)
	return out
}

// Lookup finds a voice by ID, ignoring case
func Lookup(id string) (Voice, error) {
	for _, v := range catalog {
		if strings.EqualFold(v.ID, id) {
			return v, nil
		}
	}
	return Voice{}, fmt.Errorf("%w: %q", ErrUnknownVoice, id)
}

// Index returns the catalog position of id, or -1
func Index(id string) int {
	for i, v := range catalog {
		if strings.EqualFold(v.ID, id) {
			return i
		}
	}
	return -1
}

// Label formats a voice for a picker line
func (v Voice) Label() string {
	return fmt.Sprintf("%s (%s) - %s", v.Name, v.Gender, v.Description)
}
