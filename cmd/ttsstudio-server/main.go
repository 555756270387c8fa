// ABOUTME: Entry point for the TTS studio HTTP server
// ABOUTME: Parses CLI flags and serves the studio API and websocket stream
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/harperreed/ttsstudio-go/internal/server"
	"github.com/harperreed/ttsstudio-go/internal/studio"
	"github.com/harperreed/ttsstudio-go/internal/version"
	"github.com/harperreed/ttsstudio-go/pkg/audio"
	"github.com/harperreed/ttsstudio-go/pkg/audio/output"
	"github.com/harperreed/ttsstudio-go/pkg/speech"
)

var (
	port    = flag.Int("port", 8080, "HTTP server port")
	name    = flag.String("name", "", "Server friendly name (default: hostname-ttsstudio)")
	logFile = flag.String("log-file", "ttsstudio-server.log", "Log file path")
	envFile = flag.String("env", ".env", "Environment file to load before reading GEMINI_API_KEY")
	baseURL = flag.String("base-url", "", "Override the Gemini API endpoint")
	prefix  = flag.String("download-prefix", studio.DefaultDownloadPrefix, "File name prefix for WAV downloads")
	debug   = flag.Bool("debug", false, "Enable debug logging")
	noMDNS  = flag.Bool("no-mdns", false, "Disable mDNS advertisement")
	useTUI  = flag.Bool("tui", false, "Show the server status TUI")
)

func main() {
	flag.Parse()

	f, err := os.OpenFile(*logFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		log.Fatalf("error opening log file: %v", err)
	}
	defer f.Close()

	if *useTUI {
		log.SetOutput(f)
	} else {
		log.SetOutput(io.MultiWriter(os.Stdout, f))
	}

	serverName := *name
	if serverName == "" {
		hostname, err := os.Hostname()
		if err != nil {
			hostname = "unknown"
		}
		serverName = fmt.Sprintf("%s-ttsstudio", hostname)
	}

	log.Printf("Starting %s %s: %s on port %d", version.Product, version.Version, serverName, *port)
	if *debug {
		log.Printf("Debug logging enabled")
	}
	log.Printf("Logging to: %s", *logFile)

	studio.LoadEnv(*envFile)
	apiKey := studio.APIKeyFromEnv()
	if apiKey == "" {
		log.Printf("Warning: GEMINI_API_KEY is not set, generation will fail")
	}

	srv := server.New(server.Config{
		Port:       *port,
		Name:       serverName,
		EnableMDNS: !*noMDNS,
		Debug:      *debug,
		UseTUI:     *useTUI,
	})

	st, err := studio.New(studio.Config{
		Synth: speech.NewClient(speech.Config{
			APIKey:    apiKey,
			BaseURL:   *baseURL,
			UserAgent: version.UserAgent(),
		}),
		Output:         output.NewOto(audio.SpeechFormat),
		DownloadPrefix: *prefix,
		OnChange:       srv.Broadcast,
	})
	if err != nil {
		log.Fatalf("Failed to create studio: %v", err)
	}
	defer st.Close()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		log.Printf("Received %v signal, shutting down gracefully...", sig)
		srv.Stop()
	}()

	if err := srv.Start(st); err != nil {
		log.Fatalf("Server error: %v", err)
	}

	log.Printf("Server stopped")
}
