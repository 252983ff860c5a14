package handlers_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/linesmerrill/chat-relay-api/databases/mocks"
	"github.com/linesmerrill/chat-relay-api/models"
)

func join(t *testing.T, h http.Handler, names ...string) {
	t.Helper()
	for _, name := range names {
		require.Equal(t, http.StatusCreated, do(t, h, "POST", "/participants", "", fmt.Sprintf(`{"name":%q}`, name)).Code)
	}
}

func fetch(t *testing.T, h http.Handler, target, user string) []models.Message {
	t.Helper()
	rr := do(t, h, "GET", target, user, "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var messages []models.Message
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &messages))
	return messages
}

func texts(messages []models.Message) []string {
	out := make([]string, 0, len(messages))
	for _, m := range messages {
		out = append(out, m.Text)
	}
	return out
}

func TestMessage_CreateMessageHandler(t *testing.T) {
	_, h := newTestApp(t)
	join(t, h, "Ana")

	rr := do(t, h, "POST", "/messages", "Ana", `{"to":"Todos","text":"oi","type":"message"}`)

	assert.Equal(t, http.StatusCreated, rr.Code)
	messages := fetch(t, h, "/messages?limit=1", "Ana")
	require.Len(t, messages, 1)
	assert.Equal(t, "Ana", messages[0].From)
	assert.Equal(t, "oi", messages[0].Text)
	assert.Regexp(t, `^\d{2}:\d{2}:\d{2}$`, messages[0].Time)
}

func TestMessage_CreateMessageHandlerUnknownSender(t *testing.T) {
	_, h := newTestApp(t)

	for _, body := range []string{`{"to":"Todos","text":"oi","type":"message"}`, `{}`, `not json`} {
		rr := do(t, h, "POST", "/messages", "Ana", body)

		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code, body)
		assert.Equal(t, models.MessageError{Message: "failed to send message", Error: "sender is not an active participant"}, decodeError(t, rr), body)
	}

	rr := do(t, h, "POST", "/messages", "", `{"to":"Todos","text":"oi","type":"message"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
}

func TestMessage_CreateMessageHandlerInvalidMessage(t *testing.T) {
	_, h := newTestApp(t)
	join(t, h, "Ana")

	tests := []struct {
		body    string
		details []string
	}{
		{`{"to":"","text":"oi","type":"message"}`, []string{"to is required"}},
		{`{"to":"Todos","text":"","type":"message"}`, []string{"text is required"}},
		{`{"to":"Todos","text":"oi","type":"status"}`, []string{"type must be one of [message private_message]"}},
		{`{}`, []string{"to is required", "text is required", "type is required"}},
		{`not json`, []string{"to is required", "text is required", "type is required"}},
	}
	for _, tt := range tests {
		rr := do(t, h, "POST", "/messages", "Ana", tt.body)

		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code, tt.body)
		assert.Equal(t, tt.details, decodeError(t, rr).Details, tt.body)
	}
}

func TestMessage_MessagesHandlerUnknownRequester(t *testing.T) {
	_, h := newTestApp(t)

	rr := do(t, h, "GET", "/messages", "Ana", "")

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, models.MessageError{Message: "failed to get messages", Error: "participant not registered"}, decodeError(t, rr))
}

func TestMessage_MessagesHandlerVisibility(t *testing.T) {
	_, h := newTestApp(t)
	join(t, h, "Ana", "Bruno", "Carla")

	require.Equal(t, http.StatusCreated, do(t, h, "POST", "/messages", "Ana", `{"to":"Bruno","text":"psst","type":"private_message"}`).Code)
	require.Equal(t, http.StatusCreated, do(t, h, "POST", "/messages", "Bruno", `{"to":"Todos","text":"hello","type":"message"}`).Code)

	assert.Equal(t, []string{"hello", "psst", "joined", "joined", "joined"}, texts(fetch(t, h, "/messages", "Ana")))
	assert.Equal(t, []string{"hello", "psst", "joined", "joined", "joined"}, texts(fetch(t, h, "/messages", "Bruno")))
	assert.Equal(t, []string{"hello", "joined", "joined", "joined"}, texts(fetch(t, h, "/messages", "Carla")))
}

func TestMessage_MessagesHandlerLimit(t *testing.T) {
	_, h := newTestApp(t)
	join(t, h, "Ana")
	for i := 0; i < 5; i++ {
		body := fmt.Sprintf(`{"to":"Todos","text":"m%d","type":"message"}`, i)
		require.Equal(t, http.StatusCreated, do(t, h, "POST", "/messages", "Ana", body).Code)
	}

	assert.Equal(t, []string{"m4", "m3"}, texts(fetch(t, h, "/messages?limit=2", "Ana")))
	assert.Len(t, fetch(t, h, "/messages?limit=100", "Ana"), 6)
	for _, raw := range []string{"0", "-3", "abc", ""} {
		assert.Len(t, fetch(t, h, "/messages?limit="+raw, "Ana"), 6, raw)
	}
}

func TestMessage_MessagesHandlerStoreFailure(t *testing.T) {
	pdb := &mocks.ParticipantDatabase{}
	pdb.On("FindOne", mock.Anything, "Ana").Return(&models.Participant{Name: "Ana"}, nil)
	mdb := &mocks.MessageDatabase{}
	mdb.On("FindVisible", mock.Anything, "Ana", 100).Return(nil, errors.New("mocked-error"))
	h := newMockedApp(t, pdb, mdb)

	rr := do(t, h, "GET", "/messages", "Ana", "")

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.JSONEq(t, `{"response":{"message":"failed to get messages"}}`, rr.Body.String())
}

func TestMessage_CreateMessageHandlerStoreFailure(t *testing.T) {
	pdb := &mocks.ParticipantDatabase{}
	pdb.On("FindOne", mock.Anything, "Ana").Return(&models.Participant{Name: "Ana"}, nil)
	mdb := &mocks.MessageDatabase{}
	mdb.On("InsertOne", mock.Anything, mock.Anything).Return(errors.New("mocked-error"))
	h := newMockedApp(t, pdb, mdb)

	rr := do(t, h, "POST", "/messages", "Ana", `{"to":"Todos","text":"oi","type":"message"}`)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}
