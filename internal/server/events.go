package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// eventsKeepAlive is how often an idle stream sends a comment line and
// refreshes its workspace.
const eventsKeepAlive = 15 * time.Second

// GET /api/workspace/events
// Server-sent events: one workspace snapshot on connect and another after every
// change. Each connection has its own subscription; a burst of updates yields
// one event per connection.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		s.writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}
	ws := s.workspace(w, r)
	campaignChanges, stopCampaign := ws.Orchestrator.Subscribe()
	defer stopCampaign()
	chatChanges, stopChat := ws.Chat.Subscribe()
	defer stopChat()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	send := func() bool {
		// A watching tab counts as activity for the idle sweep.
		s.store.Touch(ws)
		b, err := json.Marshal(s.workspaceResponse(ws, ""))
		if err != nil {
			s.logger.Errorw("encode workspace event", "session", ws.ID, "error", err)
			return false
		}
		if _, err := fmt.Fprintf(w, "data: %s\n\n", b); err != nil {
			return false
		}
		flusher.Flush()
		return true
	}

	if !send() {
		return
	}
	keepAlive := time.NewTicker(eventsKeepAlive)
	defer keepAlive.Stop()
	for {
		select {
		case <-r.Context().Done():
			return
		case <-keepAlive.C:
			s.store.Touch(ws)
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return
			}
			flusher.Flush()
			continue
		case <-campaignChanges:
		case <-chatChanges:
		}
		if !send() {
			return
		}
	}
}
