// ABOUTME: Playback controller implementation
// ABOUTME: Starts, stops and tracks one playback session on a shared output
package playback

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/ttsstudio-go/pkg/audio"
	"github.com/harperreed/ttsstudio-go/pkg/audio/output"
)

// DefaultTick is one display refresh at 60Hz
const DefaultTick = 16 * time.Millisecond

// ErrNoOutput indicates a controller configured without an output
var ErrNoOutput = errors.New("playback: no output configured")

// Config holds controller configuration
type Config struct {
	// Output is the shared audio device
	Output output.Output

	// Tick is the progress sampling interval (default: 16ms)
	Tick time.Duration

	// OnChange is called after every status change, outside the lock
	OnChange func(Status)
}

// Controller owns at most one playback session
type Controller struct {
	config Config

	mu      sync.Mutex
	session *session
	status  Status
}

// session is one voice and its progress loop
type session struct {
	id       string
	voice    output.Voice
	start    time.Duration
	duration time.Duration
	progress float64
	cancel   context.CancelFunc
}

// New creates a controller with the given configuration
func New(config Config) (*Controller, error) {
	if config.Output == nil {
		return nil, ErrNoOutput
	}
	if config.Tick <= 0 {
		config.Tick = DefaultTick
	}

	return &Controller{
		config: config,
		status: Status{State: Idle},
	}, nil
}

// Play tears down any active session and starts buf from the beginning
func (c *Controller) Play(ctx context.Context, buf *audio.Buffer) error {
	if buf == nil {
		return fmt.Errorf("%w: nil buffer", audio.ErrPlaybackUnavailable)
	}

	// Resume can block while the device opens, so it runs unlocked
	if err := c.config.Output.Resume(ctx); err != nil {
		c.Stop()
		return err
	}

	c.mu.Lock()
	c.teardownLocked()

	voice, err := c.config.Output.Start(buf)
	if err != nil {
		st := c.status
		c.mu.Unlock()
		c.notify(st)
		return err
	}

	loopCtx, cancel := context.WithCancel(context.Background())
	s := &session{
		id:       uuid.New().String(),
		voice:    voice,
		start:    c.config.Output.Now(),
		duration: buf.Duration(),
		cancel:   cancel,
	}
	s.progress = progressAt(0, s.duration)
	c.session = s
	c.status = Status{
		State:     Playing,
		Progress:  s.progress,
		Duration:  s.duration,
		SessionID: s.id,
	}
	st := c.status
	c.mu.Unlock()

	log.Printf("Playback started: session=%s duration=%v", s.id, s.duration)
	c.notify(st)

	go c.track(loopCtx, s)
	return nil
}

// Stop halts the active session. It is a no-op when nothing is playing.
func (c *Controller) Stop() {
	c.mu.Lock()
	if c.session == nil {
		c.mu.Unlock()
		return
	}
	c.teardownLocked()
	st := c.status
	c.mu.Unlock()

	c.notify(st)
}

// Detach releases playback when the owner of the current audio goes away
func (c *Controller) Detach() {
	c.Stop()
}

// Status returns a snapshot of the controller state
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// teardownLocked stops the active session and resets to Idle
func (c *Controller) teardownLocked() {
	s := c.session
	if s == nil {
		return
	}

	s.cancel()
	if err := s.voice.Stop(); err != nil {
		log.Printf("Failed to stop voice: %v", err)
	}
	c.session = nil
	c.status = Status{State: Idle}

	log.Printf("Playback stopped: session=%s", s.id)
}

// track samples progress until the session ends or is torn down
func (c *Controller) track(ctx context.Context, s *session) {
	ticker := time.NewTicker(c.config.Tick)
	defer ticker.Stop()

	tick := ticker.C
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.voice.Done():
			c.complete(s)
			return
		case <-tick:
			owned, full := c.sample(s)
			if !owned {
				return
			}
			if full {
				// Wait for the voice to drain without sampling again
				tick = nil
			}
		}
	}
}

// sample updates progress for s. owned is false once s is no longer active.
func (c *Controller) sample(s *session) (owned, full bool) {
	c.mu.Lock()
	if c.session != s {
		c.mu.Unlock()
		return false, false
	}

	p := progressAt(c.config.Output.Now()-s.start, s.duration)
	if p <= s.progress {
		full = s.progress >= 100
		c.mu.Unlock()
		return true, full
	}

	s.progress = p
	c.status.Progress = p
	st := c.status
	c.mu.Unlock()

	c.notify(st)
	return true, p >= 100
}

// complete marks natural completion of s
func (c *Controller) complete(s *session) {
	c.mu.Lock()
	if c.session != s {
		c.mu.Unlock()
		return
	}

	s.cancel()
	if err := s.voice.Stop(); err != nil {
		log.Printf("Failed to release voice: %v", err)
	}
	c.session = nil
	c.status = Status{
		State:     Completed,
		Progress:  100,
		Duration:  s.duration,
		SessionID: s.id,
	}
	st := c.status
	c.mu.Unlock()

	log.Printf("Playback completed: session=%s", s.id)
	c.notify(st)
}

func (c *Controller) notify(st Status) {
	if c.config.OnChange != nil {
		c.config.OnChange(st)
	}
}
