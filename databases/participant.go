package databases

// go generate: mockery --name ParticipantDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/linesmerrill/chat-relay-api/models"
)

const participantName = "participants"

// ParticipantDatabase contains the methods to use with the participant database
type ParticipantDatabase interface {
	// InsertOne fails with ErrDuplicate when the name is already taken
	InsertOne(ctx context.Context, participant models.Participant) error
	// FindOne fails with ErrNotFound when nobody holds the name
	FindOne(ctx context.Context, name string) (*models.Participant, error)
	Find(ctx context.Context) ([]models.Participant, error)
	// UpdateLastStatus fails with ErrNotFound when nobody holds the name
	UpdateLastStatus(ctx context.Context, name string, lastStatus int64) error
	// DeleteStale removes the participant only while its lastStatus still
	// equals the observed value and reports whether a record was removed
	DeleteStale(ctx context.Context, name string, lastStatus int64) (bool, error)
}

type participantDatabase struct {
	db DatabaseHelper
}

// NewParticipantDatabase initializes a new instance of participant database with the provided db connection
func NewParticipantDatabase(db DatabaseHelper) ParticipantDatabase {
	return &participantDatabase{
		db: db,
	}
}

// EnsureParticipantIndexes creates the unique name index the join conflict check relies on
func EnsureParticipantIndexes(ctx context.Context, db DatabaseHelper) error {
	return db.Collection(participantName).CreateIndex(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("name_unique"),
	})
}

func (c *participantDatabase) InsertOne(ctx context.Context, participant models.Participant) error {
	_, err := c.db.Collection(participantName).InsertOne(ctx, participant)
	return translate(err)
}

func (c *participantDatabase) FindOne(ctx context.Context, name string) (*models.Participant, error) {
	participant := &models.Participant{}
	err := c.db.Collection(participantName).FindOne(ctx, bson.M{"name": name}).Decode(&participant)
	if err != nil {
		return nil, translate(err)
	}
	return participant, nil
}

func (c *participantDatabase) Find(ctx context.Context) ([]models.Participant, error) {
	var participants []models.Participant
	cr, err := c.db.Collection(participantName).Find(ctx, bson.D{})
	if err != nil {
		return nil, err
	}
	err = cr.All(ctx, &participants)
	if err != nil {
		return nil, err
	}
	return participants, nil
}

func (c *participantDatabase) UpdateLastStatus(ctx context.Context, name string, lastStatus int64) error {
	matched, err := c.db.Collection(participantName).UpdateOne(ctx,
		bson.M{"name": name},
		bson.M{"$set": bson.M{"lastStatus": lastStatus}},
	)
	if err != nil {
		return err
	}
	if matched == 0 {
		return ErrNotFound
	}
	return nil
}

func (c *participantDatabase) DeleteStale(ctx context.Context, name string, lastStatus int64) (bool, error) {
	deleted, err := c.db.Collection(participantName).DeleteOne(ctx, bson.M{"name": name, "lastStatus": lastStatus})
	if err != nil {
		return false, err
	}
	return deleted > 0, nil
}
