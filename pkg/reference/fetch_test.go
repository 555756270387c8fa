// ABOUTME: Tests for remote reference download
// ABOUTME: Tests HTTP download, size limits and error handling
package reference

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/harperreed/ttsstudio-go/pkg/audio/encode"
)

func TestFetchSuccess(t *testing.T) {
	wav := encode.EncodeWAV(make([]byte, 480), 24000)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "audio/x-wav")
		w.Write(wav)
	}))
	defer server.Close()

	f, err := Fetch(context.Background(), server.Client(), server.URL+"/voices/me.wav?token=abc")
	if err != nil {
		t.Fatalf("Fetch() failed: %v", err)
	}

	if f.Name != "me.wav" {
		t.Errorf("Name = %q, want me.wav", f.Name)
	}
	if f.MimeType != "audio/wav" {
		t.Errorf("MimeType = %q, want audio/wav", f.MimeType)
	}
	if f.Size != int64(len(wav)) {
		t.Errorf("Size = %d, want %d", f.Size, len(wav))
	}
}

func TestFetchOversizedByHeader(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", strconv.Itoa(MaxSize+1))
		w.Header().Set("Content-Type", "audio/wav")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	_, err := Fetch(context.Background(), server.Client(), server.URL+"/big.wav")
	if !errors.Is(err, ErrOversizedUpload) {
		t.Fatalf("expected ErrOversizedUpload, got %v", err)
	}
}

func TestFetchOversizedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// No Content-Length: chunked body larger than the limit
		w.Header().Set("Content-Type", "audio/wav")
		flusher := w.(http.Flusher)
		chunk := make([]byte, 1<<20)
		for i := 0; i < 6; i++ {
			w.Write(chunk)
			flusher.Flush()
		}
	}))
	defer server.Close()

	_, err := Fetch(context.Background(), server.Client(), server.URL+"/big.wav")
	if !errors.Is(err, ErrOversizedUpload) {
		t.Fatalf("expected ErrOversizedUpload, got %v", err)
	}
}

func TestFetchErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		want    error
	}{
		{
			name: "not found",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.NotFound(w, r)
			},
		},
		{
			name: "not audio",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "text/html")
				w.Write([]byte("<html></html>"))
			},
			want: ErrUnsupportedReference,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			_, err := Fetch(context.Background(), server.Client(), server.URL+"/page")
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestFetchInvalidURL(t *testing.T) {
	if _, err := Fetch(context.Background(), nil, "http://[::1"); err == nil {
		t.Error("expected error for invalid URL")
	}
}

func TestIsURL(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"https://example.com/a.wav", true},
		{"http://example.com/a.wav", true},
		{"/home/me/a.wav", false},
		{"ftp://example.com/a.wav", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsURL(tt.in); got != tt.want {
			t.Errorf("IsURL(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNameFromURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://example.com/voices/me.mp3", "me.mp3"},
		{"https://example.com/voices/me.mp3?x=1", "me.mp3"},
		{"https://example.com/", "reference"},
		{"https://example.com", "reference"},
	}

	for _, tt := range tests {
		if got := nameFromURL(tt.in); got != tt.want {
			t.Errorf("nameFromURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
