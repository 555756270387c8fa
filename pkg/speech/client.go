// ABOUTME: Gemini speech client built on the genai SDK
// ABOUTME: Builds prebuilt-voice and voice-clone requests and extracts inline audio
package speech

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/harperreed/ttsstudio-go/pkg/audio/decode"
	"github.com/harperreed/ttsstudio-go/pkg/audio/encode"
	"google.golang.org/genai"
)

const (
	// DefaultBaseURL is the Generative Language API endpoint
	DefaultBaseURL = "https://generativelanguage.googleapis.com"

	// DefaultSpeechModel synthesizes with prebuilt voices
	DefaultSpeechModel = "gemini-2.5-flash-preview-tts"

	// DefaultCloneModel accepts reference audio and speaks in its style
	DefaultCloneModel = "gemini-2.5-flash-native-audio-preview-09-2025"

	// DefaultTimeout bounds one generateContent call
	DefaultTimeout = 90 * time.Second

	apiVersion = "v1beta"
)

const clonePrompt = "Please act as a professional voice actor. Listen to the voice in the audio file provided. " +
	"Then, speak the following text aloud, strictly mimicking the voice, tone, pacing, and style of the speaker " +
	"in the audio file. Do not add any introductory or concluding remarks. Just speak the text:\n\n\"%s\""

// Config holds client configuration
type Config struct {
	// APIKey authenticates requests (x-goog-api-key)
	APIKey string

	// BaseURL overrides the API endpoint (default: DefaultBaseURL)
	BaseURL string

	// SpeechModel is used by Speak (default: DefaultSpeechModel)
	SpeechModel string

	// CloneModel is used by Clone (default: DefaultCloneModel)
	CloneModel string

	// HTTPClient sends requests (default: client with DefaultTimeout)
	HTTPClient *http.Client

	// UserAgent is sent with every request when set
	UserAgent string
}

// Client calls the remote speech API
type Client struct {
	config Config
}

// NewClient creates a client, filling unset config with defaults
func NewClient(config Config) *Client {
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	config.BaseURL = strings.TrimRight(config.BaseURL, "/")
	if config.SpeechModel == "" {
		config.SpeechModel = DefaultSpeechModel
	}
	if config.CloneModel == "" {
		config.CloneModel = DefaultCloneModel
	}
	if config.HTTPClient == nil {
		config.HTTPClient = &http.Client{Timeout: DefaultTimeout}
	}

	return &Client{config: config}
}

// Speak synthesizes text with a prebuilt voice and returns base64 audio
func (c *Client) Speak(ctx context.Context, text, voiceID string) (string, error) {
	if c.config.APIKey == "" {
		return "", ErrMissingCredential
	}
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyInput
	}

	contents := []*genai.Content{
		genai.NewContentFromText(text, genai.RoleUser),
	}
	config := &genai.GenerateContentConfig{
		ResponseModalities: []string{"AUDIO"},
		SpeechConfig: &genai.SpeechConfig{
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{VoiceName: voiceID},
			},
		},
	}

	log.Printf("Requesting speech: model=%s voice=%s chars=%d", c.config.SpeechModel, voiceID, len([]rune(text)))
	return c.generate(ctx, c.config.SpeechModel, contents, config)
}

// Clone speaks text in the style of a base64 reference sample
func (c *Client) Clone(ctx context.Context, text, mimeType, base64Sample string) (string, error) {
	if c.config.APIKey == "" {
		return "", ErrMissingCredential
	}
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyInput
	}

	sample, err := decode.DecodeBase64(base64Sample)
	if err != nil {
		return "", fmt.Errorf("invalid reference sample: %w", err)
	}

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromBytes(sample, mimeType),
			genai.NewPartFromText(fmt.Sprintf(clonePrompt, text)),
		}, genai.RoleUser),
	}
	config := &genai.GenerateContentConfig{
		ResponseModalities: []string{"AUDIO"},
	}

	log.Printf("Requesting cloned speech: model=%s reference=%s chars=%d", c.config.CloneModel, mimeType, len([]rune(text)))
	return c.generate(ctx, c.config.CloneModel, contents, config)
}

// generate sends one generateContent call and extracts the first audio part
func (c *Client) generate(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (string, error) {
	gc, err := c.newGenAI(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRemoteFailure, err)
	}

	start := time.Now()
	resp, err := gc.Models.GenerateContent(ctx, model, contents, config)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRemoteFailure, err)
	}

	data := firstAudio(resp)
	if len(data) == 0 {
		return "", fmt.Errorf("%w: %w", ErrRemoteFailure, ErrNoAudio)
	}

	log.Printf("Speech received: model=%s bytes=%d elapsed=%v", model, len(data), time.Since(start).Round(time.Millisecond))
	return encode.EncodeBase64(data), nil
}

// newGenAI builds an SDK client bound to this client's endpoint and transport
func (c *Client) newGenAI(ctx context.Context) (*genai.Client, error) {
	opts := genai.HTTPOptions{
		BaseURL:    c.config.BaseURL,
		APIVersion: apiVersion,
	}
	if c.config.UserAgent != "" {
		opts.Headers = http.Header{"User-Agent": []string{c.config.UserAgent}}
	}

	return genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      c.config.APIKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPClient:  c.config.HTTPClient,
		HTTPOptions: opts,
	})
}

// firstAudio returns candidates[0].content.parts[0].inlineData.data
func firstAudio(resp *genai.GenerateContentResponse) []byte {
	if resp == nil || len(resp.Candidates) == 0 {
		return nil
	}
	content := resp.Candidates[0].Content
	if content == nil || len(content.Parts) == 0 || content.Parts[0].InlineData == nil {
		return nil
	}
	return content.Parts[0].InlineData.Data
}
