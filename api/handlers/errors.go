package handlers

import (
	"errors"
	"net/http"

	"github.com/linesmerrill/chat-relay-api/chat"
	"github.com/linesmerrill/chat-relay-api/config"
)

// chatErrorStatus maps an error out of the chat package onto its http status
func chatErrorStatus(message string, w http.ResponseWriter, err error) {
	var verr *chat.ValidationError
	switch {
	case errors.As(err, &verr):
		config.ValidationStatus(message, w, verr.Details)
	case errors.Is(err, chat.ErrNameTaken):
		config.ErrorStatus(message, http.StatusConflict, w, err)
	case errors.Is(err, chat.ErrNotRegistered):
		config.ErrorStatus(message, http.StatusNotFound, w, err)
	case errors.Is(err, chat.ErrInvalidSender):
		config.ErrorStatus(message, http.StatusUnprocessableEntity, w, err)
	default:
		config.ErrorStatus(message, http.StatusInternalServerError, w, err)
	}
}
