// ABOUTME: HTTP API handlers for the studio server
// ABOUTME: Voices, speech generation with reference upload, WAV download and playback
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/harperreed/ttsstudio-go/internal/studio"
	"github.com/harperreed/ttsstudio-go/pkg/audio"
	"github.com/harperreed/ttsstudio-go/pkg/reference"
	"github.com/harperreed/ttsstudio-go/pkg/speech"
	"github.com/harperreed/ttsstudio-go/pkg/voices"
)

// errorResponse is the JSON body of every failed request
type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (s *Server) handleVoices(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, voices.All())
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.studio.Snapshot())
}

// handleSpeech accepts form fields text, mode, voice and an optional
// reference file, then generates a new clip
func (s *Server) handleSpeech(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBody)

	if err := parseForm(r); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeError(w, fmt.Errorf("%w: request body over %d bytes", reference.ErrOversizedUpload, tooLarge.Limit))
			return
		}
		http.Error(w, "invalid form: "+err.Error(), http.StatusBadRequest)
		return
	}
	if r.MultipartForm != nil {
		defer r.MultipartForm.RemoveAll()
	}

	if mode := r.FormValue("mode"); mode != "" {
		m, err := studio.ParseMode(mode)
		if err != nil {
			s.writeError(w, err)
			return
		}
		if err := s.studio.SetMode(m); err != nil {
			s.writeError(w, err)
			return
		}
	}

	if voice := r.FormValue("voice"); voice != "" {
		if err := s.studio.SetVoice(voice); err != nil {
			s.writeError(w, err)
			return
		}
	}

	if fh := referenceHeader(r); fh != nil {
		ref, err := readReference(fh)
		if err != nil {
			s.writeError(w, err)
			return
		}
		if _, err := s.studio.SetReference(ref); err != nil {
			s.writeError(w, err)
			return
		}
	}

	if err := s.studio.Generate(r.Context(), r.FormValue("text")); err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, s.studio.Snapshot())
}

// handleDownload serves the current clip as a freshly encoded WAV
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	data, err := s.studio.WAV()
	if err != nil {
		s.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "audio/wav")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", s.studio.FileName()))
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func (s *Server) handlePlay(w http.ResponseWriter, r *http.Request) {
	if err := s.studio.Play(r.Context()); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.studio.Snapshot())
}

func (s *Server) handleStop(w http.ResponseWriter, r *http.Request) {
	s.studio.Stop()
	writeJSON(w, http.StatusOK, s.studio.Snapshot())
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	if err := s.studio.PreviewReference(r.Context()); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.studio.Snapshot())
}

func (s *Server) handleClearReference(w http.ResponseWriter, r *http.Request) {
	s.studio.ClearReference()
	writeJSON(w, http.StatusOK, s.studio.Snapshot())
}

// parseForm handles both multipart and urlencoded bodies
func parseForm(r *http.Request) error {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
		return r.ParseMultipartForm(maxUploadBody)
	}
	return r.ParseForm()
}

// referenceHeader returns the uploaded reference, if any
func referenceHeader(r *http.Request) *multipart.FileHeader {
	if r.MultipartForm == nil {
		return nil
	}
	files := r.MultipartForm.File["reference"]
	if len(files) == 0 {
		return nil
	}
	return files[0]
}

// readReference checks the declared size before the file is opened
func readReference(fh *multipart.FileHeader) (*reference.File, error) {
	if fh.Size > reference.MaxSize {
		return nil, fmt.Errorf("%w: %d bytes", reference.ErrOversizedUpload, fh.Size)
	}

	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, reference.MaxSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}

	return reference.FromBytes(fh.Filename, data, fh.Header.Get("Content-Type"))
}

// statusFor maps an error kind to an HTTP status
func statusFor(err error) int {
	switch {
	case errors.Is(err, speech.ErrEmptyInput),
		errors.Is(err, studio.ErrNoReference),
		errors.Is(err, studio.ErrUnknownMode),
		errors.Is(err, voices.ErrUnknownVoice),
		errors.Is(err, reference.ErrUnsupportedReference):
		return http.StatusBadRequest
	case errors.Is(err, reference.ErrOversizedUpload):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, studio.ErrNoClip):
		return http.StatusNotFound
	case errors.Is(err, studio.ErrBusy):
		return http.StatusConflict
	case errors.Is(err, speech.ErrRemoteFailure), errors.Is(err, audio.ErrDecode):
		return http.StatusBadGateway
	case errors.Is(err, speech.ErrMissingCredential), errors.Is(err, audio.ErrPlaybackUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError || s.config.Debug {
		log.Printf("Request failed (%d): %v", status, err)
	}
	writeJSON(w, status, errorResponse{Error: err.Error(), Message: studio.Message(err)})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}
