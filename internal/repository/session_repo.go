package repository

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"aiinterviewer/internal/model"
)

// SessionArchive keeps finished sessions after the live record expires
type SessionArchive interface {
	ArchiveSession(ctx context.Context, session *model.Session) error
	GetArchivedSession(ctx context.Context, id string) (*model.Session, error)
}

type sessionArchive struct {
	collection *mongo.Collection
}

func NewSessionArchive(db *mongo.Database) SessionArchive {
	return &sessionArchive{
		collection: db.Collection("sessions"),
	}
}

func (r *sessionArchive) ArchiveSession(ctx context.Context, session *model.Session) error {
	opts := options.Replace().SetUpsert(true)
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": session.ID}, session, opts)
	return errors.Wrap(err, "mongo session archive: save")
}

func (r *sessionArchive) GetArchivedSession(ctx context.Context, id string) (*model.Session, error) {
	var session model.Session
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&session)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "mongo session archive: get")
	}
	return &session, nil
}
