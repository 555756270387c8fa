// ABOUTME: Studio state and orchestration shared by the TUI and the server
// ABOUTME: Drives generation, playback, reference preview and WAV export
package studio

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/ttsstudio-go/pkg/audio"
	"github.com/harperreed/ttsstudio-go/pkg/audio/decode"
	"github.com/harperreed/ttsstudio-go/pkg/audio/encode"
	"github.com/harperreed/ttsstudio-go/pkg/audio/output"
	"github.com/harperreed/ttsstudio-go/pkg/playback"
	"github.com/harperreed/ttsstudio-go/pkg/reference"
	"github.com/harperreed/ttsstudio-go/pkg/speech"
	"github.com/harperreed/ttsstudio-go/pkg/voices"
)

// Mode selects prebuilt voices or voice cloning
type Mode string

const (
	Standard Mode = "standard"
	Clone    Mode = "clone"
)

// ParseMode validates a mode name
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case Standard:
		return Standard, nil
	case Clone:
		return Clone, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
}

// Synthesizer produces base64 PCM audio. *speech.Client implements it.
type Synthesizer interface {
	Speak(ctx context.Context, text, voiceID string) (string, error)
	Clone(ctx context.Context, text, mimeType, base64Sample string) (string, error)
}

// Clip is the current generated audio
type Clip struct {
	ID        string
	PCM       []byte
	Mode      Mode
	Voice     string
	CreatedAt time.Time
}

// Config holds studio configuration
type Config struct {
	// Synth performs remote synthesis
	Synth Synthesizer

	// Output plays audio
	Output output.Output

	// DownloadPrefix names saved files (default: gemini-tts)
	DownloadPrefix string

	// Tick is the playback progress interval (default: playback.DefaultTick)
	Tick time.Duration

	// OnChange is called after every state change
	OnChange func(Snapshot)

	// Now overrides the wall clock for file names
	Now func() time.Time

	// HTTPClient downloads references given as URLs (default: reference.FetchTimeout client)
	HTTPClient *http.Client
}

// Studio holds the UI state around one current clip
type Studio struct {
	config Config
	player *playback.Controller

	mu         sync.Mutex
	mode       Mode
	voice      string
	ref        *reference.File
	refInfo    reference.Info
	clip       *Clip
	buffer     *audio.Buffer
	generating bool
	err        error
}

// New creates a studio in standard mode with the default voice
func New(config Config) (*Studio, error) {
	if config.Synth == nil {
		return nil, fmt.Errorf("studio: no synthesizer configured")
	}
	if config.DownloadPrefix == "" {
		config.DownloadPrefix = DefaultDownloadPrefix
	}
	if config.Now == nil {
		config.Now = time.Now
	}

	s := &Studio{
		config: config,
		mode:   Standard,
		voice:  voices.DefaultID,
	}

	player, err := playback.New(playback.Config{
		Output:   config.Output,
		Tick:     config.Tick,
		OnChange: func(playback.Status) { s.notify() },
	})
	if err != nil {
		return nil, err
	}
	s.player = player

	return s, nil
}

// SetMode switches between standard and clone synthesis
func (s *Studio) SetMode(mode Mode) error {
	if _, err := ParseMode(string(mode)); err != nil {
		return s.fail(err)
	}

	s.mu.Lock()
	s.mode = mode
	s.mu.Unlock()

	s.notify()
	return nil
}

// SetVoice selects a prebuilt voice
func (s *Studio) SetVoice(id string) error {
	v, err := voices.Lookup(id)
	if err != nil {
		return s.fail(err)
	}

	s.mu.Lock()
	s.voice = v.ID
	s.mu.Unlock()

	s.notify()
	return nil
}

// LoadReference reads and selects a reference from disk or an http(s) URL
func (s *Studio) LoadReference(path string) (reference.Info, error) {
	var ref *reference.File
	var err error
	if reference.IsURL(path) {
		ctx, cancel := context.WithTimeout(context.Background(), reference.FetchTimeout)
		defer cancel()
		ref, err = reference.Fetch(ctx, s.config.HTTPClient, path)
	} else {
		ref, err = reference.Load(path)
	}
	if err != nil {
		return reference.Info{}, s.fail(err)
	}
	return s.SetReference(ref)
}

// SetReference probes and selects a reference sample
func (s *Studio) SetReference(ref *reference.File) (reference.Info, error) {
	info, err := reference.Probe(ref)
	if err != nil {
		return info, s.fail(err)
	}

	s.mu.Lock()
	s.ref = ref
	s.refInfo = info
	s.err = nil
	s.mu.Unlock()

	log.Printf("Reference selected: %s (%s, %d bytes)", ref.Name, ref.MimeType, ref.Size)
	s.notify()
	return info, nil
}

// ClearReference drops the selected reference
func (s *Studio) ClearReference() {
	s.mu.Lock()
	s.ref = nil
	s.refInfo = reference.Info{}
	s.mu.Unlock()

	s.notify()
}

// Generate synthesizes text and makes it the current clip. Blank text
// is rejected up front and leaves the current clip playing. Any later
// failure clears the previous clip and becomes the current error.
func (s *Studio) Generate(ctx context.Context, text string) error {
	if strings.TrimSpace(text) == "" {
		return s.fail(speech.ErrEmptyInput)
	}

	s.mu.Lock()
	if s.generating {
		s.mu.Unlock()
		return ErrBusy
	}
	mode, voice, ref := s.mode, s.voice, s.ref
	s.generating = true
	s.err = nil
	s.clip = nil
	s.buffer = nil
	s.mu.Unlock()

	// The old clip is gone, so its playback goes too
	s.player.Detach()
	s.notify()

	clip, buf, err := s.synthesize(ctx, mode, voice, ref, text)

	s.mu.Lock()
	s.generating = false
	if err != nil {
		s.err = err
	} else {
		s.clip = clip
		s.buffer = buf
	}
	s.mu.Unlock()

	if err != nil {
		log.Printf("Generation failed: %v", err)
	} else {
		log.Printf("Generated clip %s: %s mode, %v", clip.ID, clip.Mode, buf.Duration())
	}
	s.notify()
	return err
}

func (s *Studio) synthesize(ctx context.Context, mode Mode, voice string, ref *reference.File, text string) (*Clip, *audio.Buffer, error) {
	var b64 string
	var err error
	switch mode {
	case Clone:
		if ref == nil {
			return nil, nil, ErrNoReference
		}
		b64, err = s.config.Synth.Clone(ctx, text, ref.MimeType, ref.Base64())
		voice = ""
	default:
		b64, err = s.config.Synth.Speak(ctx, text, voice)
	}
	if err != nil {
		return nil, nil, err
	}

	pcm, err := decode.DecodeBase64(b64)
	if err != nil {
		return nil, nil, err
	}
	buf, err := decode.DecodePCM(pcm, audio.DefaultSampleRate, audio.DefaultChannels)
	if err != nil {
		return nil, nil, err
	}

	clip := &Clip{
		ID:        uuid.New().String(),
		PCM:       pcm,
		Mode:      mode,
		Voice:     voice,
		CreatedAt: s.config.Now(),
	}
	return clip, buf, nil
}

// Play starts the current clip from the beginning
func (s *Studio) Play(ctx context.Context) error {
	s.mu.Lock()
	buf := s.buffer
	s.mu.Unlock()

	if buf == nil {
		return s.fail(ErrNoClip)
	}
	if err := s.player.Play(ctx, buf); err != nil {
		return s.fail(err)
	}
	return nil
}

// Stop halts playback. It is a no-op when nothing is playing.
func (s *Studio) Stop() {
	s.player.Stop()
}

// Toggle plays when idle and stops when playing
func (s *Studio) Toggle(ctx context.Context) error {
	if s.player.Status().State == playback.Playing {
		s.player.Stop()
		return nil
	}
	return s.Play(ctx)
}

// PreviewReference plays the selected reference through the output
func (s *Studio) PreviewReference(ctx context.Context) error {
	s.mu.Lock()
	ref := s.ref
	s.mu.Unlock()

	if ref == nil {
		return s.fail(ErrNoReference)
	}

	buf, err := reference.Decode(ref, audio.SpeechFormat)
	if err != nil {
		return s.fail(err)
	}
	if err := s.player.Play(ctx, buf); err != nil {
		return s.fail(err)
	}
	return nil
}

// FileName returns the download name for the current moment
func (s *Studio) FileName() string {
	return fmt.Sprintf("%s-%d.wav", s.config.DownloadPrefix, s.config.Now().UnixMilli())
}

// WAV encodes the current clip. The bytes are built fresh on every call.
func (s *Studio) WAV() ([]byte, error) {
	s.mu.Lock()
	clip := s.clip
	s.mu.Unlock()

	if clip == nil {
		return nil, ErrNoClip
	}
	return encode.EncodeWAV(clip.PCM, audio.DefaultSampleRate), nil
}

// Download writes the current clip to dir and returns the file path
func (s *Studio) Download(dir string) (string, error) {
	data, err := s.WAV()
	if err != nil {
		return "", s.fail(err)
	}

	path := filepath.Join(dir, s.FileName())
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", s.fail(fmt.Errorf("failed to save %s: %w", path, err))
	}

	log.Printf("Saved %s (%d bytes)", path, len(data))
	return path, nil
}

// SetVolume adjusts output volume when the output supports it
func (s *Studio) SetVolume(volume int) bool {
	mixer, ok := s.config.Output.(output.Mixer)
	if !ok {
		return false
	}
	mixer.SetVolume(volume)
	s.notify()
	return true
}

// ToggleMute flips mute when the output supports it
func (s *Studio) ToggleMute() bool {
	mixer, ok := s.config.Output.(output.Mixer)
	if !ok {
		return false
	}
	mixer.SetMuted(!mixer.IsMuted())
	s.notify()
	return true
}

// Clip returns the current clip, if any
func (s *Studio) Clip() *Clip {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clip
}

// Err returns the current error, if any
func (s *Studio) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Close stops playback
func (s *Studio) Close() {
	s.player.Stop()
}

// fail records err as the current message and returns it
func (s *Studio) fail(err error) error {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()

	s.notify()
	return err
}

func (s *Studio) notify() {
	if s.config.OnChange != nil {
		s.config.OnChange(s.Snapshot())
	}
}
