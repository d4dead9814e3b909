package server

import (
	"errors"
	"net/http"

	"github.com/I-PingLin/Nano-Banana-Pro---AI-Marketing-Suite/internal/store"
	"github.com/I-PingLin/Nano-Banana-Pro---AI-Marketing-Suite/internal/studio"
	"github.com/I-PingLin/Nano-Banana-Pro---AI-Marketing-Suite/internal/types"
)

func (s *Server) handleChatMessages(w http.ResponseWriter, r *http.Request) {
	ws := s.workspace(w, r)
	writeJSON(w, http.StatusOK, chatMessages(ws))
}

// POST /api/chat/messages { message }
// Returns once the assistant replied (or the fallback reply was appended).
func (s *Server) handleChatSend(w http.ResponseWriter, r *http.Request) {
	var req types.ChatRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	ws := s.workspace(w, r)
	switch err := ws.Chat.SendMessage(r.Context(), req.Message); {
	case errors.Is(err, studio.ErrEmptyMessage):
		s.writeError(w, http.StatusBadRequest, "message is required")
	case errors.Is(err, studio.ErrChatBusy):
		s.writeError(w, http.StatusConflict, "assistant is still replying")
	default:
		writeJSON(w, http.StatusOK, chatMessages(ws))
	}
}

// PUT /api/chat/input { input }
func (s *Server) handleChatInput(w http.ResponseWriter, r *http.Request) {
	var req types.ChatInputRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	ws := s.workspace(w, r)
	ws.Chat.SetInput(req.Input)
	s.writeWorkspace(w, http.StatusOK, ws, "")
}

func (s *Server) handleChatToggle(w http.ResponseWriter, r *http.Request) {
	ws := s.workspace(w, r)
	ws.Chat.Toggle()
	s.writeWorkspace(w, http.StatusOK, ws, "")
}

func (s *Server) handleChatClose(w http.ResponseWriter, r *http.Request) {
	ws := s.workspace(w, r)
	ws.Chat.Close()
	s.writeWorkspace(w, http.StatusOK, ws, "")
}

func chatMessages(ws *store.Workspace) types.ChatMessagesResponse {
	snap := ws.Chat.Snapshot()
	return types.ChatMessagesResponse{
		SessionID: ws.ID,
		Messages:  snap.Messages,
		IsTyping:  snap.IsTyping,
	}
}
