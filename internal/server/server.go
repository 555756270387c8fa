// ABOUTME: Studio HTTP server with a websocket state stream
// ABOUTME: Manages client connections, mDNS advertisement and graceful shutdown
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/harperreed/ttsstudio-go/internal/discovery"
	"github.com/harperreed/ttsstudio-go/internal/studio"
	"github.com/harperreed/ttsstudio-go/internal/version"
	"github.com/harperreed/ttsstudio-go/pkg/reference"
)

const (
	// maxUploadBody caps a speech request: the reference plus form overhead
	maxUploadBody = reference.MaxSize + 1<<20

	writeDeadline = 10 * time.Second
	pingInterval  = 30 * time.Second
	sendBuffer    = 32
)

// Studio is the subset of *studio.Studio the server drives
type Studio interface {
	Snapshot() studio.Snapshot
	Generate(ctx context.Context, text string) error
	SetMode(mode studio.Mode) error
	SetVoice(id string) error
	SetReference(ref *reference.File) (reference.Info, error)
	ClearReference()
	Play(ctx context.Context) error
	Stop()
	Toggle(ctx context.Context) error
	PreviewReference(ctx context.Context) error
	WAV() ([]byte, error)
	FileName() string
}

// Config holds server configuration
type Config struct {
	Port       int
	Name       string
	EnableMDNS bool
	Debug      bool
	UseTUI     bool
}

// Server serves one studio over HTTP and websocket
type Server struct {
	config   Config
	serverID string
	studio   Studio

	// WebSocket upgrader
	upgrader websocket.Upgrader

	// HTTP server
	httpServer *http.Server
	mux        *http.ServeMux

	// Client management
	clients   map[string]*Client
	clientsMu sync.RWMutex

	// mDNS discovery
	mdnsManager *discovery.Manager

	// TUI
	tui       *ServerTUI
	startTime time.Time

	// Control
	stopChan   chan struct{}
	stopOnce   sync.Once
	shutdownMu sync.RWMutex
	isShutdown bool
	wg         sync.WaitGroup
}

// Client is one websocket connection
type Client struct {
	ID          string
	Addr        string
	Conn        *websocket.Conn
	ConnectedAt time.Time

	// Output channel for encoded messages
	sendChan chan []byte
}

// New creates a new server instance. Broadcast may be used as the
// studio OnChange callback before Start is called.
func New(config Config) *Server {
	if config.Name == "" {
		config.Name = version.Product
	}

	return &Server{
		config:   config,
		serverID: uuid.New().String(),
		mux:      http.NewServeMux(),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// The studio is meant for trusted local networks
				if origin := r.Header.Get("Origin"); origin != "" && config.Debug {
					log.Printf("[DEBUG] WebSocket from origin: %s", origin)
				}
				return true
			},
		},
		clients:   make(map[string]*Client),
		startTime: time.Now(),
		stopChan:  make(chan struct{}),
	}
}

// Start serves st until Stop is called or the listener fails
func (s *Server) Start(st Studio) error {
	s.mount(st)

	if s.config.UseTUI {
		s.tui = NewServerTUI()

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			if err := s.tui.Start(s.config.Name, s.config.Port); err != nil {
				log.Printf("TUI error: %v", err)
			}
		}()

		// Give TUI time to initialize
		time.Sleep(100 * time.Millisecond)
		s.updateTUI()
	}

	log.Printf("Server starting: %s (ID: %s)", s.config.Name, s.serverID)

	if s.config.EnableMDNS {
		s.mdnsManager = discovery.NewManager(discovery.Config{
			ServiceName: s.config.Name,
			Port:        s.config.Port,
			Version:     version.Version,
		})

		if err := s.mdnsManager.Advertise(); err != nil {
			log.Printf("Failed to start mDNS advertisement: %v", err)
		} else {
			log.Printf("mDNS advertisement started")
		}
	}

	addr := fmt.Sprintf(":%d", s.config.Port)
	log.Printf("Studio listening on %s", addr)

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	var serverErr error
	var tuiQuitChan <-chan struct{}
	if s.tui != nil {
		tuiQuitChan = s.tui.QuitChan()
	}

	select {
	case <-s.stopChan:
		log.Printf("Server shutting down...")
	case <-tuiQuitChan:
		log.Printf("TUI quit requested, shutting down...")
	case err := <-errChan:
		log.Printf("HTTP server error: %v", err)
		serverErr = err
	}

	s.shutdownMu.Lock()
	s.isShutdown = true
	s.shutdownMu.Unlock()

	if s.tui != nil {
		s.tui.Stop()
	}

	if s.mdnsManager != nil {
		s.mdnsManager.Stop()
	}

	st.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}
	s.closeClients()

	s.wg.Wait()
	log.Printf("Server stopped cleanly")

	if serverErr != nil {
		return fmt.Errorf("HTTP server failed: %w", serverErr)
	}
	return nil
}

// Stop stops the server
func (s *Server) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopChan)
	})
}

// mount registers the routes for st
func (s *Server) mount(st Studio) {
	s.studio = st

	s.mux.HandleFunc("GET /api/voices", s.handleVoices)
	s.mux.HandleFunc("GET /api/state", s.handleState)
	s.mux.HandleFunc("POST /api/speech", s.handleSpeech)
	s.mux.HandleFunc("GET /api/speech/current.wav", s.handleDownload)
	s.mux.HandleFunc("POST /api/playback/play", s.handlePlay)
	s.mux.HandleFunc("POST /api/playback/stop", s.handleStop)
	s.mux.HandleFunc("POST /api/playback/preview", s.handlePreview)
	s.mux.HandleFunc("DELETE /api/reference", s.handleClearReference)
	s.mux.HandleFunc("GET /ws", s.handleWebSocket)
}

// Broadcast pushes a snapshot to every connected client
func (s *Server) Broadcast(snap studio.Snapshot) {
	data, err := json.Marshal(stateMessage(snap))
	if err != nil {
		log.Printf("Error marshaling state: %v", err)
		return
	}

	s.clientsMu.RLock()
	for _, client := range s.clients {
		if err := s.sendRaw(client, data); err != nil && s.config.Debug {
			log.Printf("[DEBUG] Dropping state for %s: %v", client.Addr, err)
		}
	}
	s.clientsMu.RUnlock()

	s.updateTUI()
}

// handleWebSocket handles WebSocket connections
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	s.shutdownMu.RLock()
	shutdown := s.isShutdown
	s.shutdownMu.RUnlock()
	if shutdown {
		http.Error(w, "server shutting down", http.StatusServiceUnavailable)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}

	log.Printf("New WebSocket connection from %s", r.RemoteAddr)
	s.handleConnection(conn, r.RemoteAddr)
}

// handleConnection manages a client connection
func (s *Server) handleConnection(conn *websocket.Conn, addr string) {
	defer conn.Close()

	client := &Client{
		ID:          uuid.New().String(),
		Addr:        addr,
		Conn:        conn,
		ConnectedAt: time.Now(),
		sendChan:    make(chan []byte, sendBuffer),
	}

	// Queue the greeting before registering so it precedes any broadcast
	s.sendMessage(client, TypeServerHello, ServerHello{
		ServerID: s.serverID,
		Name:     s.config.Name,
		Version:  version.Version,
	})
	s.sendMessage(client, TypeState, s.studio.Snapshot())

	s.clientsMu.Lock()
	s.clients[client.ID] = client
	s.clientsMu.Unlock()
	s.updateTUI()

	defer func() {
		s.removeClient(client)
		log.Printf("Client disconnected: %s", addr)
		s.updateTUI()
	}()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.clientWriter(client)
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			return
		}

		s.handleClientMessage(client, data)
	}
}

// removeClient unregisters client and closes its send channel once
func (s *Server) removeClient(client *Client) {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()

	if _, ok := s.clients[client.ID]; !ok {
		return
	}
	delete(s.clients, client.ID)
	close(client.sendChan)
}

// closeClients disconnects everyone during shutdown
func (s *Server) closeClients() {
	s.clientsMu.RLock()
	clients := make([]*Client, 0, len(s.clients))
	for _, c := range s.clients {
		clients = append(clients, c)
	}
	s.clientsMu.RUnlock()

	for _, c := range clients {
		c.Conn.Close()
	}
}

// clientWriter sends queued messages and keepalive pings
func (s *Server) clientWriter(client *Client) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case data, ok := <-client.sendChan:
			if !ok {
				return
			}
			client.Conn.SetWriteDeadline(time.Now().Add(writeDeadline))
			if err := client.Conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Printf("Error writing message: %v", err)
				return
			}

		case <-ticker.C:
			if err := client.Conn.WriteControl(websocket.PingMessage, []byte{}, time.Now().Add(writeDeadline)); err != nil {
				return
			}
		}
	}
}

// handleClientMessage processes playback commands from clients
func (s *Server) handleClientMessage(client *Client, data []byte) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		log.Printf("Error unmarshaling message: %v", err)
		return
	}

	if s.config.Debug {
		log.Printf("[DEBUG] %s from %s", msg.Type, client.Addr)
	}

	ctx := context.Background()
	var err error
	switch msg.Type {
	case TypePlay:
		err = s.studio.Play(ctx)
	case TypeStop:
		s.studio.Stop()
	case TypeToggle:
		err = s.studio.Toggle(ctx)
	case TypePreview:
		err = s.studio.PreviewReference(ctx)
	default:
		log.Printf("Unknown message type: %s", msg.Type)
		err = fmt.Errorf("unknown message type %q", msg.Type)
	}

	if err != nil {
		s.sendMessage(client, TypeError, ErrorPayload{Error: err.Error(), Message: studio.Message(err)})
	}
}

// sendMessage queues a JSON message for one client
func (s *Server) sendMessage(client *Client, msgType string, payload interface{}) error {
	data, err := json.Marshal(Message{Type: msgType, Payload: payload})
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", msgType, err)
	}
	return s.sendRaw(client, data)
}

// sendRaw queues encoded bytes without blocking
func (s *Server) sendRaw(client *Client, data []byte) error {
	select {
	case client.sendChan <- data:
		return nil
	default:
		return fmt.Errorf("client send buffer full")
	}
}

// clientCount returns the number of connected websocket clients
func (s *Server) clientCount() int {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()
	return len(s.clients)
}
