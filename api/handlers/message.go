package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/linesmerrill/chat-relay-api/api"
	"github.com/linesmerrill/chat-relay-api/chat"
	"github.com/linesmerrill/chat-relay-api/config"
	"github.com/linesmerrill/chat-relay-api/models"
)

// Message exported for testing purposes
type Message struct {
	Router *chat.Router
	Feed   *chat.Feed
}

// CreateMessageHandler sends a message on behalf of the user header
func (m Message) CreateMessageHandler(w http.ResponseWriter, r *http.Request) {
	from := api.UserFromContext(r.Context())

	// a body that does not decode carries no fields, the sender is still checked first
	var body models.MessageRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		zap.S().Debugw("failed to decode request body", "from", from, "error", err)
		body = models.MessageRequest{}
	}

	if err := m.Router.Send(r.Context(), from, body); err != nil {
		chatErrorStatus("failed to send message", w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

// MessagesHandler returns the messages visible to the user header, newest first
func (m Message) MessagesHandler(w http.ResponseWriter, r *http.Request) {
	requester := api.UserFromContext(r.Context())
	limit := chat.ParseLimit(r.URL.Query().Get("limit"), m.Feed.DefaultLimit)

	messages, err := m.Feed.Fetch(r.Context(), requester, limit)
	if err != nil {
		chatErrorStatus("failed to get messages", w, err)
		return
	}

	b, err := json.Marshal(messages)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b)
}
