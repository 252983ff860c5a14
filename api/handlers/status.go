package handlers

import (
	"net/http"

	"github.com/linesmerrill/chat-relay-api/api"
	"github.com/linesmerrill/chat-relay-api/chat"
)

// Status exported for testing purposes
type Status struct {
	Registry *chat.Registry
}

// StatusHandler refreshes the last seen time of the user header
func (s Status) StatusHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.Registry.Heartbeat(r.Context(), api.UserFromContext(r.Context())); err != nil {
		chatErrorStatus("failed to refresh status", w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}
