// ABOUTME: Tests for the studio HTTP API and websocket stream
// ABOUTME: Drives a real studio with a fake synthesizer and output through httptest
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/harperreed/ttsstudio-go/internal/studio"
	"github.com/harperreed/ttsstudio-go/pkg/audio"
	"github.com/harperreed/ttsstudio-go/pkg/audio/encode"
	"github.com/harperreed/ttsstudio-go/pkg/audio/output"
	"github.com/harperreed/ttsstudio-go/pkg/reference"
	"github.com/harperreed/ttsstudio-go/pkg/speech"
	"github.com/harperreed/ttsstudio-go/pkg/voices"
)

type fakeSynth struct {
	mu       sync.Mutex
	calls    int
	mimeType string
	result   string
}

func (f *fakeSynth) Speak(ctx context.Context, text, voiceID string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.result, nil
}

func (f *fakeSynth) Clone(ctx context.Context, text, mimeType, base64Sample string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.mimeType = mimeType
	return f.result, nil
}

func (f *fakeSynth) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeOutput struct{}

func (fakeOutput) Resume(ctx context.Context) error { return nil }
func (fakeOutput) Now() time.Duration { return 0 }

func (fakeOutput) Start(buf *audio.Buffer) (output.Voice, error) {
	return &fakeVoice{done: make(chan struct{})}, nil
}

type fakeVoice struct{ done chan struct{} }

func (v *fakeVoice) Stop() error { return nil }
func (v *fakeVoice) Done() <-chan struct{} { return v.done }

// wireSnapshot mirrors studio.Snapshot with plain strings for decoding
type wireSnapshot struct {
	Mode  string `json:"mode"`
	Voice string `json:"voice"`
	Clip  *struct {
		ID      string  `json:"id"`
		Seconds float64 `json:"seconds"`
	} `json:"clip"`
	Playback struct {
		State    string  `json:"state"`
		Progress float64 `json:"progress"`
	} `json:"playback"`
	Error string `json:"error"`
}

type testEnv struct {
	srv   *Server
	synth *fakeSynth
	ts    *httptest.Server
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	srv := New(Config{Name: "Test Studio"})
	synth := &fakeSynth{result: "AAECAw=="}

	st, err := studio.New(studio.Config{
		Synth:    synth,
		Output:   fakeOutput{},
		Tick:     time.Millisecond,
		OnChange: srv.Broadcast,
		Now:      func() time.Time { return time.UnixMilli(1700000000123) },
	})
	if err != nil {
		t.Fatalf("studio.New() failed: %v", err)
	}
	t.Cleanup(st.Close)

	srv.mount(st)
	ts := httptest.NewServer(srv.mux)
	t.Cleanup(ts.Close)

	return &testEnv{srv: srv, synth: synth, ts: ts}
}

// postForm sends a multipart speech request
func (e *testEnv) postForm(t *testing.T, fields map[string]string, fileName string, file []byte) *http.Response {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		mw.WriteField(k, v)
	}
	if fileName != "" {
		fw, err := mw.CreateFormFile("reference", fileName)
		if err != nil {
			t.Fatalf("CreateFormFile() failed: %v", err)
		}
		fw.Write(file)
	}
	mw.Close()

	resp, err := http.Post(e.ts.URL+"/api/speech", mw.FormDataContentType(), &body)
	if err != nil {
		t.Fatalf("POST /api/speech failed: %v", err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
}

func TestVoices(t *testing.T) {
	env := newTestEnv(t)

	resp, err := http.Get(env.ts.URL + "/api/voices")
	if err != nil {
		t.Fatalf("GET /api/voices failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var got []voices.Voice
	decodeBody(t, resp, &got)
	if len(got) != 5 {
		t.Fatalf("expected 5 voices, got %d", len(got))
	}
	if got[0].ID != "Puck" {
		t.Errorf("first voice = %q, want Puck", got[0].ID)
	}
}

func TestSpeechAndDownload(t *testing.T) {
	env := newTestEnv(t)

	resp, err := http.Get(env.ts.URL + "/api/speech/current.wav")
	if err != nil {
		t.Fatalf("GET current.wav failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 before generation, got %d", resp.StatusCode)
	}

	resp = env.postForm(t, map[string]string{"text": "Hello", "voice": "Zephyr"}, "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var snap wireSnapshot
	decodeBody(t, resp, &snap)
	if snap.Voice != "Zephyr" || snap.Clip == nil {
		t.Fatalf("snapshot = %+v", snap)
	}

	resp, err = http.Get(env.ts.URL + "/api/speech/current.wav")
	if err != nil {
		t.Fatalf("GET current.wav failed: %v", err)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); ct != "audio/wav" {
		t.Errorf("Content-Type = %q", ct)
	}
	want := `attachment; filename="gemini-tts-1700000000123.wav"`
	if cd := resp.Header.Get("Content-Disposition"); cd != want {
		t.Errorf("Content-Disposition = %q, want %q", cd, want)
	}

	data, _ := io.ReadAll(resp.Body)
	if !bytes.Equal(data, encode.EncodeWAV([]byte{0, 1, 2, 3}, 24000)) {
		t.Error("downloaded WAV does not match the clip")
	}
}

func TestSpeech_Errors(t *testing.T) {
	tests := []struct {
		name    string
		fields  map[string]string
		status  int
		message string
	}{
		{
			name:    "empty text",
			fields:  map[string]string{"text": "  "},
			status:  http.StatusBadRequest,
			message: "Please enter some text to generate speech.",
		},
		{
			name:    "clone without reference",
			fields:  map[string]string{"text": "Hi", "mode": "clone"},
			status:  http.StatusBadRequest,
			message: "Please upload an audio reference file for voice cloning.",
		},
		{
			name:    "unknown mode",
			fields:  map[string]string{"text": "Hi", "mode": "karaoke"},
			status:  http.StatusBadRequest,
			message: "Please choose standard or clone mode.",
		},
		{
			name:    "unknown voice",
			fields:  map[string]string{"text": "Hi", "voice": "Nobody"},
			status:  http.StatusBadRequest,
			message: "Please choose one of the available voices.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)

			resp := env.postForm(t, tt.fields, "", nil)
			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.status)
			}

			var body errorResponse
			decodeBody(t, resp, &body)
			if body.Message != tt.message {
				t.Errorf("message = %q, want %q", body.Message, tt.message)
			}
			if env.synth.callCount() != 0 {
				t.Error("expected no remote call")
			}
		})
	}
}

func TestSpeech_CloneWithReference(t *testing.T) {
	env := newTestEnv(t)

	ref := encode.EncodeWAV(make([]byte, 4800), 24000)
	resp := env.postForm(t, map[string]string{"text": "Copy me", "mode": "clone"}, "me.wav", ref)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var snap wireSnapshot
	decodeBody(t, resp, &snap)
	if snap.Mode != "clone" || snap.Clip == nil {
		t.Errorf("snapshot = %+v", snap)
	}
	if env.synth.mimeType != "audio/wav" {
		t.Errorf("mimeType = %q", env.synth.mimeType)
	}
}

func TestSpeech_OversizedReference(t *testing.T) {
	env := newTestEnv(t)

	resp := env.postForm(t, map[string]string{"text": "Copy me", "mode": "clone"}, "big.wav", make([]byte, reference.MaxSize+1))
	if resp.StatusCode != http.StatusRequestEntityTooLarge {
		t.Fatalf("status = %d, want 413", resp.StatusCode)
	}

	var body errorResponse
	decodeBody(t, resp, &body)
	if body.Message != "File size too large. Please upload an audio file under 5MB." {
		t.Errorf("message = %q", body.Message)
	}
	if env.synth.callCount() != 0 {
		t.Error("expected no remote call")
	}
}

func TestSpeech_UnsupportedReference(t *testing.T) {
	env := newTestEnv(t)

	resp := env.postForm(t, map[string]string{"text": "Copy me", "mode": "clone"}, "notes.txt", []byte("just text"))
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestPlayback(t *testing.T) {
	env := newTestEnv(t)

	resp, err := http.Post(env.ts.URL+"/api/playback/play", "", nil)
	if err != nil {
		t.Fatalf("POST play failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 with no clip, got %d", resp.StatusCode)
	}

	env.postForm(t, map[string]string{"text": "Hello"}, "", nil)

	resp, err = http.Post(env.ts.URL+"/api/playback/play", "", nil)
	if err != nil {
		t.Fatalf("POST play failed: %v", err)
	}
	var snap wireSnapshot
	decodeBody(t, resp, &snap)
	resp.Body.Close()
	if snap.Playback.State != "playing" {
		t.Errorf("state = %q, want playing", snap.Playback.State)
	}

	resp, err = http.Post(env.ts.URL+"/api/playback/stop", "", nil)
	if err != nil {
		t.Fatalf("POST stop failed: %v", err)
	}
	decodeBody(t, resp, &snap)
	resp.Body.Close()
	if snap.Playback.State != "idle" {
		t.Errorf("state = %q, want idle", snap.Playback.State)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	env := newTestEnv(t)

	resp, err := http.Get(env.ts.URL + "/api/speech")
	if err != nil {
		t.Fatalf("GET /api/speech failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", resp.StatusCode)
	}
}

// readMessage reads one envelope with a deadline
func readMessage(t *testing.T, conn *websocket.Conn) (string, json.RawMessage) {
	t.Helper()

	var msg struct {
		Type    string          `json:"type"`
		Payload json.RawMessage `json:"payload"`
	}
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("ReadJSON() failed: %v", err)
	}
	return msg.Type, msg.Payload
}

// waitForState reads until a state message satisfies ok
func waitForState(t *testing.T, conn *websocket.Conn, ok func(wireSnapshot) bool) wireSnapshot {
	t.Helper()
	for i := 0; i < 100; i++ {
		typ, payload := readMessage(t, conn)
		if typ != TypeState {
			continue
		}
		var snap wireSnapshot
		if err := json.Unmarshal(payload, &snap); err != nil {
			t.Fatalf("bad state payload: %v", err)
		}
		if ok(snap) {
			return snap
		}
	}
	t.Fatal("state never matched")
	return wireSnapshot{}
}

func TestWebSocket(t *testing.T) {
	env := newTestEnv(t)

	url := "ws" + strings.TrimPrefix(env.ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial() failed: %v", err)
	}
	defer conn.Close()

	typ, payload := readMessage(t, conn)
	if typ != TypeServerHello {
		t.Fatalf("first message = %q, want %q", typ, TypeServerHello)
	}
	var hello ServerHello
	json.Unmarshal(payload, &hello)
	if hello.Name != "Test Studio" || hello.ServerID == "" {
		t.Errorf("hello = %+v", hello)
	}

	typ, _ = readMessage(t, conn)
	if typ != TypeState {
		t.Fatalf("second message = %q, want %q", typ, TypeState)
	}

	deadline := time.Now().Add(time.Second)
	for env.srv.clientCount() != 1 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}

	env.postForm(t, map[string]string{"text": "Hello"}, "", nil)
	waitForState(t, conn, func(s wireSnapshot) bool { return s.Clip != nil })

	if err := conn.WriteJSON(Message{Type: TypePlay}); err != nil {
		t.Fatalf("WriteJSON() failed: %v", err)
	}
	waitForState(t, conn, func(s wireSnapshot) bool { return s.Playback.State == "playing" })

	if err := conn.WriteJSON(Message{Type: TypeStop}); err != nil {
		t.Fatalf("WriteJSON() failed: %v", err)
	}
	waitForState(t, conn, func(s wireSnapshot) bool { return s.Playback.State == "idle" })

	conn.WriteJSON(Message{Type: "bogus"})
	for i := 0; i < 100; i++ {
		typ, payload := readMessage(t, conn)
		if typ != TypeError {
			continue
		}
		var e ErrorPayload
		json.Unmarshal(payload, &e)
		if !strings.Contains(e.Error, "bogus") {
			t.Errorf("error payload = %+v", e)
		}
		break
	}
}

func TestWebSocket_ClientRemovedOnClose(t *testing.T) {
	env := newTestEnv(t)

	url := "ws" + strings.TrimPrefix(env.ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial() failed: %v", err)
	}
	readMessage(t, conn)
	conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for env.srv.clientCount() != 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if n := env.srv.clientCount(); n != 0 {
		t.Errorf("expected client removed, %d remain", n)
	}

	// Broadcasting with no clients must not panic
	env.srv.Broadcast(studio.Snapshot{})
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{speech.ErrEmptyInput, http.StatusBadRequest},
		{studio.ErrNoReference, http.StatusBadRequest},
		{fmt.Errorf("x: %w", voices.ErrUnknownVoice), http.StatusBadRequest},
		{reference.ErrUnsupportedReference, http.StatusBadRequest},
		{reference.ErrOversizedUpload, http.StatusRequestEntityTooLarge},
		{studio.ErrNoClip, http.StatusNotFound},
		{studio.ErrBusy, http.StatusConflict},
		{fmt.Errorf("%w: %w", speech.ErrRemoteFailure, speech.ErrNoAudio), http.StatusBadGateway},
		{audio.ErrDecode, http.StatusBadGateway},
		{speech.ErrMissingCredential, http.StatusServiceUnavailable},
		{audio.ErrPlaybackUnavailable, http.StatusServiceUnavailable},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := statusFor(tt.err); got != tt.want {
			t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestStop_Idempotent(t *testing.T) {
	srv := New(Config{})
	if srv.config.Name == "" {
		t.Error("expected default name")
	}
	srv.Stop()
	srv.Stop()
}
