// Package docs Chat Relay API.
//
// Documentation of Chat Relay API.
//
//     Schemes: https, http
//     BasePath: /
//     Version: 1.0.0
//
//     Consumes:
//     - application/json
//
//     Produces:
//     - application/json
//
// swagger:meta
package docs

import (
	"github.com/linesmerrill/chat-relay-api/api"
	"github.com/linesmerrill/chat-relay-api/models"
)

// swagger:route GET /health health healthEndpointID
// Lists the healthchex of the web service api.
// responses:
//   200: healthResponse

// Shows the current health of the api. true means it is alive, false means it is not.
// swagger:response healthResponse
type healthResponseWrapper struct {
	// in:body
	Body models.HealthCheckResponse
}

// swagger:route GET /metrics metrics metricsEndpointID
// Request and reaper counters since the process started.
// responses:
//   200: metricsResponse

// swagger:response metricsResponse
type metricsResponseWrapper struct {
	// in:body
	Body api.MetricsSummary
}

// swagger:route GET /participants participants participantsList
// Lists the active participants.
// responses:
//   200: participantsResponse
//   500: errorResponse

// swagger:response participantsResponse
type participantsResponseWrapper struct {
	// in:body
	Body []models.Participant
}

// swagger:route POST /participants participants participantCreate
// Joins the chat under a display name. Announces the join to everyone.
// responses:
//   201:
//   409: errorResponse
//   422: errorResponse
//   500: errorResponse

// swagger:parameters participantCreate
type participantCreateParams struct {
	// in:body
	Body models.ParticipantRequest
}

// swagger:route POST /messages messages messageCreate
// Sends a public or private message as the participant named in the user header.
// responses:
//   201:
//   422: errorResponse
//   500: errorResponse

// swagger:parameters messageCreate
type messageCreateParams struct {
	// in:header
	// required: true
	User string `json:"user"`
	// in:body
	Body models.MessageRequest
}

// swagger:route GET /messages messages messagesList
// Lists the messages visible to the participant in the user header, newest first.
// responses:
//   200: messagesResponse
//   404: errorResponse
//   500: errorResponse

// swagger:parameters messagesList
type messagesListParams struct {
	// in:header
	// required: true
	User string `json:"user"`
	// Maximum number of messages, anything that is not a positive integer means 100.
	// in:query
	Limit int `json:"limit"`
}

// swagger:response messagesResponse
type messagesResponseWrapper struct {
	// in:body
	Body []models.Message
}

// swagger:route POST /status status statusRefresh
// Refreshes the last seen time of the participant in the user header.
// responses:
//   200:
//   404: errorResponse
//   500: errorResponse

// swagger:parameters statusRefresh
type statusRefreshParams struct {
	// in:header
	// required: true
	User string `json:"user"`
}

// swagger:response errorResponse
type errorResponseWrapper struct {
	// in:body
	Body models.ErrorMessageResponse
}
