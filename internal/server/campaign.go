package server

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/I-PingLin/Nano-Banana-Pro---AI-Marketing-Suite/internal/studio"
	"github.com/I-PingLin/Nano-Banana-Pro---AI-Marketing-Suite/internal/types"
)

// PUT /api/campaign/prompt { prompt }
func (s *Server) handleSetPrompt(w http.ResponseWriter, r *http.Request) {
	var req types.PromptRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	ws := s.workspace(w, r)
	ws.Orchestrator.SetPrompt(req.Prompt)
	s.writeWorkspace(w, http.StatusOK, ws, "")
}

// POST /api/campaign/generate { prompt? }
// Blocks until the campaign and its first image are done. A prompt in the body
// replaces the stored one first.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req types.PromptRequest
	if err := decodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	ws := s.workspace(w, r)
	if req.Prompt != "" {
		ws.Orchestrator.SetPrompt(req.Prompt)
	}

	err := ws.Orchestrator.GenerateAll(r.Context())
	switch {
	case errors.Is(err, studio.ErrGenerateRejected):
		s.writeWorkspace(w, http.StatusConflict, ws, "prompt must be longer than 10 characters and no generation may be running")
	case err != nil:
		s.writeWorkspace(w, http.StatusBadGateway, ws, "campaign generation failed")
	default:
		s.writeWorkspace(w, http.StatusOK, ws, "")
	}
}

// POST /api/campaign/image
func (s *Server) handleRegenerateImage(w http.ResponseWriter, r *http.Request) {
	ws := s.workspace(w, r)
	if err := ws.Orchestrator.RegenerateImage(r.Context()); errors.Is(err, studio.ErrImageBusy) {
		s.writeWorkspace(w, http.StatusConflict, ws, "an image is already being generated")
		return
	}
	s.writeWorkspace(w, http.StatusOK, ws, "")
}

// PUT /api/campaign/image/size { size }
func (s *Server) handleSetImageSize(w http.ResponseWriter, r *http.Request) {
	var req types.ImageSizeRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Size) == "" {
		s.writeError(w, http.StatusBadRequest, "size is required")
		return
	}
	ws := s.workspace(w, r)
	ws.Orchestrator.SetImageSize(req.Size)
	s.writeWorkspace(w, http.StatusOK, ws, "")
}

// POST /api/campaign/copy { text }
func (s *Server) handleCopy(w http.ResponseWriter, r *http.Request) {
	var req types.CopyRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	ws := s.workspace(w, r)
	ws.Orchestrator.CopyToClipboard(req.Text)
	w.WriteHeader(http.StatusAccepted)
}
