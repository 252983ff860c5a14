package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Participant holds the structure for the participants collection in mongo
type Participant struct {
	ID         primitive.ObjectID `json:"-" bson:"_id,omitempty"`
	Name       string             `json:"name" bson:"name"`
	LastStatus int64              `json:"lastStatus" bson:"lastStatus"` // epoch ms
}

// ParticipantRequest is the body accepted when joining the chat
type ParticipantRequest struct {
	Name string `json:"name" validate:"required"`
}

// LastSeen returns the last heartbeat as a time
func (p Participant) LastSeen() time.Time {
	return time.UnixMilli(p.LastStatus)
}

// IdleSince reports how long the participant has been silent at now
func (p Participant) IdleSince(now time.Time) time.Duration {
	return now.Sub(p.LastSeen())
}
