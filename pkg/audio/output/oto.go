// ABOUTME: Oto-based audio output implementation
// ABOUTME: Plays buffers on one shared oto context with live software volume control
package output

import (
	"context"
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
	"github.com/harperreed/ttsstudio-go/pkg/audio"
	"github.com/harperreed/ttsstudio-go/pkg/audio/encode"
)

// completionPoll is how often a voice checks whether its player drained
const completionPoll = 10 * time.Millisecond

// oto allows one context per process, so it lives at package level
var (
	sharedOnce   sync.Once
	sharedCtx    *oto.Context
	sharedFormat audio.Format
	sharedEpoch  time.Time
	sharedErr    error
)

// Oto output implementation using oto library
type Oto struct {
	format audio.Format

	mu     sync.Mutex
	volume int
	muted  bool
}

// NewOto creates a new Oto output for the given format
func NewOto(format audio.Format) *Oto {
	return &Oto{
		format: format,
		volume: 100,
		muted:  false,
	}
}

// context returns the shared oto context, creating it on first use
func (o *Oto) context() (*oto.Context, error) {
	sharedOnce.Do(func() {
		op := &oto.NewContextOptions{
			SampleRate:   o.format.SampleRate,
			ChannelCount: o.format.Channels,
			Format:       oto.FormatSignedInt16LE,
		}

		ctx, readyChan, err := oto.NewContext(op)
		if err != nil {
			sharedErr = fmt.Errorf("%w: failed to create oto context: %v", audio.ErrPlaybackUnavailable, err)
			return
		}

		<-readyChan

		sharedCtx = ctx
		sharedFormat = o.format
		sharedEpoch = time.Now()

		log.Printf("Audio output initialized: %dHz, %d channels", o.format.SampleRate, o.format.Channels)
	})

	if sharedErr != nil {
		return nil, sharedErr
	}

	// oto can't be reinitialized with a different format
	if sharedFormat.SampleRate != o.format.SampleRate || sharedFormat.Channels != o.format.Channels {
		return nil, fmt.Errorf("%w: shared context is %dHz %dch, requested %dHz %dch",
			audio.ErrPlaybackUnavailable, sharedFormat.SampleRate, sharedFormat.Channels,
			o.format.SampleRate, o.format.Channels)
	}

	return sharedCtx, nil
}

// Resume wakes the shared context, creating it if needed
func (o *Oto) Resume(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	otoCtx, err := o.context()
	if err != nil {
		return err
	}

	if err := otoCtx.Resume(); err != nil {
		return fmt.Errorf("%w: resume: %v", audio.ErrPlaybackUnavailable, err)
	}
	return nil
}

// Start plays buf on a new oto player
func (o *Oto) Start(buf *audio.Buffer) (Voice, error) {
	if buf == nil {
		return nil, fmt.Errorf("%w: nil buffer", audio.ErrPlaybackUnavailable)
	}
	if buf.Format.SampleRate != o.format.SampleRate || buf.Format.Channels != o.format.Channels {
		return nil, fmt.Errorf("%w: buffer is %dHz %dch, output is %dHz %dch",
			audio.ErrPlaybackUnavailable, buf.Format.SampleRate, buf.Format.Channels,
			o.format.SampleRate, o.format.Channels)
	}

	otoCtx, err := o.context()
	if err != nil {
		return nil, err
	}

	player := otoCtx.NewPlayer(&gainReader{out: o, samples: buf.Samples})
	player.Play()

	v := &otoVoice{
		player: player,
		done:   make(chan struct{}),
		stop:   make(chan struct{}),
	}
	go v.watch()

	return v, nil
}

// Now returns time elapsed since the shared context came up
func (o *Oto) Now() time.Duration {
	if sharedEpoch.IsZero() {
		return 0
	}
	return time.Since(sharedEpoch)
}

// SetVolume sets the volume (0-100), including for voices already playing
func (o *Oto) SetVolume(volume int) {
	if volume < 0 {
		volume = 0
	}
	if volume > 100 {
		volume = 100
	}
	o.mu.Lock()
	o.volume = volume
	o.mu.Unlock()
	log.Printf("Volume set to %d", volume)
}

// SetMuted sets mute state
func (o *Oto) SetMuted(muted bool) {
	o.mu.Lock()
	o.muted = muted
	o.mu.Unlock()
	log.Printf("Muted: %v", muted)
}

// GetVolume returns current volume
func (o *Oto) GetVolume() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.volume
}

// IsMuted returns mute state
func (o *Oto) IsMuted() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.muted
}

func (o *Oto) gain() (int, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.volume, o.muted
}

// gainReader quantizes samples as the player pulls them, at the current volume
type gainReader struct {
	out     *Oto
	samples []float32
	pos     int
}

func (r *gainReader) Read(p []byte) (int, error) {
	if r.pos >= len(r.samples) {
		return 0, io.EOF
	}

	n := len(p) / 2
	if remaining := len(r.samples) - r.pos; n > remaining {
		n = remaining
	}

	volume, muted := r.out.gain()
	chunk := applyVolume(r.samples[r.pos:r.pos+n], volume, muted)
	copy(p, encode.Int16LE(chunk))
	r.pos += n

	return n * 2, nil
}

// otoVoice is one oto player and its completion watcher
type otoVoice struct {
	player   *oto.Player
	done     chan struct{}
	stop     chan struct{}
	stopOnce sync.Once
}

// watch closes done once the player drains
func (v *otoVoice) watch() {
	ticker := time.NewTicker(completionPoll)
	defer ticker.Stop()

	for {
		select {
		case <-v.stop:
			return
		case <-ticker.C:
			if !v.player.IsPlaying() {
				if err := v.player.Err(); err != nil {
					log.Printf("Player error: %v", err)
				}
				close(v.done)
				return
			}
		}
	}
}

// Stop halts the player and releases it
func (v *otoVoice) Stop() error {
	var err error
	v.stopOnce.Do(func() {
		close(v.stop)
		v.player.Pause()
		err = v.player.Close()
	})
	return err
}

// Done is closed on natural completion
func (v *otoVoice) Done() <-chan struct{} {
	return v.done
}

// applyVolume applies volume and mute to samples with clipping protection
func applyVolume(samples []float32, volume int, muted bool) []float32 {
	multiplier := getVolumeMultiplier(volume, muted)
	if multiplier == 1.0 {
		return samples
	}

	result := make([]float32, len(samples))
	for i, sample := range samples {
		scaled := sample * multiplier

		if scaled > 1.0 {
			scaled = 1.0
		} else if scaled < -1.0 {
			scaled = -1.0
		}

		result[i] = scaled
	}

	return result
}

// getVolumeMultiplier calculates volume multiplier
func getVolumeMultiplier(volume int, muted bool) float32 {
	if muted {
		return 0.0
	}
	return float32(volume) / 100.0
}
