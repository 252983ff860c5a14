package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/linesmerrill/chat-relay-api/chat"
	"github.com/linesmerrill/chat-relay-api/config"
	"github.com/linesmerrill/chat-relay-api/models"
)

// Participant exported for testing purposes
type Participant struct {
	Registry *chat.Registry
}

// ParticipantsHandler returns every active participant
func (p Participant) ParticipantsHandler(w http.ResponseWriter, r *http.Request) {
	participants, err := p.Registry.ListActive(r.Context())
	if err != nil {
		chatErrorStatus("failed to get participants", w, err)
		return
	}

	b, err := json.Marshal(participants)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b)
}

// CreateParticipantHandler joins a new participant
func (p Participant) CreateParticipantHandler(w http.ResponseWriter, r *http.Request) {
	var body models.ParticipantRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusUnprocessableEntity, w, err)
		return
	}

	if err := p.Registry.Join(r.Context(), body.Name); err != nil {
		chatErrorStatus("failed to join", w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}
