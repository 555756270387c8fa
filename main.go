// ABOUTME: Entry point for the TTS studio terminal app
// ABOUTME: Parses CLI flags and runs the TUI or a one-shot generation
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/harperreed/ttsstudio-go/internal/discovery"
	"github.com/harperreed/ttsstudio-go/internal/studio"
	"github.com/harperreed/ttsstudio-go/internal/ui"
	"github.com/harperreed/ttsstudio-go/internal/version"
	"github.com/harperreed/ttsstudio-go/pkg/audio"
	"github.com/harperreed/ttsstudio-go/pkg/audio/output"
	"github.com/harperreed/ttsstudio-go/pkg/playback"
	"github.com/harperreed/ttsstudio-go/pkg/speech"
)

var (
	text       = flag.String("text", studio.DefaultText, "Text to speak")
	mode       = flag.String("mode", "standard", "Synthesis mode: standard or clone")
	voice      = flag.String("voice", "Kore", "Prebuilt voice (Puck, Charon, Kore, Fenrir, Zephyr)")
	refPath    = flag.String("reference", "", "Reference audio file for clone mode (max 5MB)")
	outDir     = flag.String("out", ".", "Directory for saved WAV files")
	play       = flag.Bool("play", false, "Play the result before exiting (with -no-tui)")
	envFile    = flag.String("env", ".env", "Environment file to load before reading GEMINI_API_KEY")
	baseURL    = flag.String("base-url", "", "Override the Gemini API endpoint")
	logFile    = flag.String("log-file", "ttsstudio.log", "Log file path")
	noTUI      = flag.Bool("no-tui", false, "Disable TUI, generate once and save the WAV")
	streamLogs = flag.Bool("stream-logs", false, "Alias for -no-tui")
	discover   = flag.Bool("discover", false, "List studio servers on the local network and exit")
)

func main() {
	flag.Parse()

	useTUI := !(*noTUI || *streamLogs)

	f, err := os.OpenFile(*logFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		log.Fatalf("error opening log file: %v", err)
	}
	defer func() { _ = f.Close() }()

	if useTUI && !*discover {
		// TUI mode: log only to file
		log.SetOutput(f)
	} else {
		log.SetOutput(io.MultiWriter(os.Stdout, f))
	}

	if *discover {
		runDiscover()
		return
	}

	studio.LoadEnv(*envFile)
	apiKey := studio.APIKeyFromEnv()
	if apiKey == "" {
		log.Printf("Warning: GEMINI_API_KEY is not set, generation will fail")
	}

	client := speech.NewClient(speech.Config{
		APIKey:    apiKey,
		BaseURL:   *baseURL,
		UserAgent: version.UserAgent(),
	})

	var notifier *ui.Notifier
	completed := make(chan struct{}, 1)

	onChange := func(snap studio.Snapshot) {
		if snap.Playback.State == playback.Completed {
			select {
			case completed <- struct{}{}:
			default:
			}
		}
	}
	if useTUI {
		notifier = ui.NewNotifier()
		onChange = notifier.Notify
	}

	st, err := studio.New(studio.Config{
		Synth:    client,
		Output:   output.NewOto(audio.SpeechFormat),
		OnChange: onChange,
	})
	if err != nil {
		log.Fatalf("Failed to create studio: %v", err)
	}
	defer st.Close()

	if err := configure(st); err != nil {
		log.Fatalf("%s (%v)", studio.Message(err), err)
	}

	if useTUI {
		if err := ui.Run(st, notifier, *text, *outDir); err != nil {
			log.Fatalf("TUI error: %v", err)
		}
		log.Printf("Studio closed")
		return
	}

	log.Printf("Starting %s %s", version.Product, version.Version)
	if err := runOnce(st, completed); err != nil {
		log.Printf("%s", studio.Message(err))
		log.Fatalf("Generation failed: %v", err)
	}
}

// configure applies mode, voice and reference flags
func configure(st *studio.Studio) error {
	m, err := studio.ParseMode(*mode)
	if err != nil {
		return err
	}
	if err := st.SetMode(m); err != nil {
		return err
	}
	if err := st.SetVoice(*voice); err != nil {
		return err
	}
	if *refPath != "" {
		info, err := st.LoadReference(*refPath)
		if err != nil {
			return err
		}
		if info.Probed {
			log.Printf("Reference: %s, %dHz, %d channel(s), %v", info.MimeType, info.SampleRate, info.Channels, info.Duration.Round(time.Millisecond))
		} else {
			log.Printf("Reference: %s", info.MimeType)
		}
	}
	return nil
}

// runOnce generates, saves and optionally plays one clip
func runOnce(st *studio.Studio, completed <-chan struct{}) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case sig := <-sigChan:
			log.Printf("Received %v signal, stopping", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	log.Printf("Generating speech (%d characters)...", len([]rune(*text)))
	if err := st.Generate(ctx, *text); err != nil {
		return err
	}

	path, err := st.Download(*outDir)
	if err != nil {
		return err
	}
	fmt.Println(path)

	if !*play {
		return nil
	}

	if err := st.Play(ctx); err != nil {
		return err
	}
	log.Printf("Playing %s", path)

	select {
	case <-completed:
		log.Printf("Playback complete")
	case <-ctx.Done():
		st.Stop()
	}
	return nil
}

// runDiscover prints studio servers found on the LAN
func runDiscover() {
	log.Printf("Browsing for %s services...", discovery.ServiceType)

	servers, err := discovery.Browse(context.Background(), discovery.DefaultBrowseTimeout)
	if err != nil {
		log.Printf("Discovery error: %v", err)
	}
	if len(servers) == 0 {
		fmt.Println("No studio servers found")
		return
	}
	for _, s := range servers {
		fmt.Printf("%s\t%s\t%s\n", s.Name, s.URL(), s.Version)
	}
}
