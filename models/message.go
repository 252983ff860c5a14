package models

import "go.mongodb.org/mongo-driver/bson/primitive"

const (
	// Broadcast is the recipient every participant can read
	Broadcast = "Todos"

	// MessageTypePublic is a user message addressed to everyone or tagged to someone
	MessageTypePublic = "message"
	// MessageTypePrivate is only visible to its sender and recipient
	MessageTypePrivate = "private_message"
	// MessageTypeStatus is generated by the api when someone joins or leaves
	MessageTypeStatus = "status"

	// StatusJoined is the text of the status message emitted on join
	StatusJoined = "joined"
	// StatusLeft is the text of the status message emitted on eviction
	StatusLeft = "left"

	// TimeLayout formats Message.Time (HH:mm:ss)
	TimeLayout = "15:04:05"
)

// Message holds the structure for the messages collection in mongo
type Message struct {
	ID   primitive.ObjectID `json:"-" bson:"_id,omitempty"`
	From string             `json:"from" bson:"from"`
	To   string             `json:"to" bson:"to"`
	Text string             `json:"text" bson:"text"`
	Type string             `json:"type" bson:"type"`
	Time string             `json:"time" bson:"time"`
}

// MessageRequest is the body accepted when posting a message. The sender
// comes from the user header, never from the body.
type MessageRequest struct {
	To   string `json:"to" validate:"required"`
	Text string `json:"text" validate:"required"`
	Type string `json:"type" validate:"required,oneof=message private_message"`
}

// VisibleTo reports whether name is allowed to read the message
func (m Message) VisibleTo(name string) bool {
	return m.To == Broadcast || m.To == name || m.From == name
}

// NewStatusMessage builds the system message announcing name joined or left
func NewStatusMessage(name, text string) Message {
	return Message{
		From: name,
		To:   Broadcast,
		Text: text,
		Type: MessageTypeStatus,
	}
}
