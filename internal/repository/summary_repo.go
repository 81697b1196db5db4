package repository

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"aiinterviewer/internal/model"
)

// SummaryRepo stores write-once session summaries keyed by session id
type SummaryRepo interface {
	// SaveSummary keeps the first summary written for a session and ignores later ones
	SaveSummary(ctx context.Context, summary *model.Summary) error
	GetSummary(ctx context.Context, sessionID string) (*model.Summary, error)
}

type summaryRepo struct {
	summaries *mongo.Collection
}

// NewSummaryRepo creates a new summary repository
func NewSummaryRepo(db *mongo.Database) SummaryRepo {
	return &summaryRepo{
		summaries: db.Collection("summaries"),
	}
}

func (r *summaryRepo) SaveSummary(ctx context.Context, summary *model.Summary) error {
	_, err := r.summaries.InsertOne(ctx, summary)
	if mongo.IsDuplicateKeyError(err) {
		return nil
	}
	return errors.Wrap(err, "mongo summary repo: save")
}

func (r *summaryRepo) GetSummary(ctx context.Context, sessionID string) (*model.Summary, error) {
	var summary model.Summary
	err := r.summaries.FindOne(ctx, bson.M{"_id": sessionID}).Decode(&summary)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "mongo summary repo: get")
	}
	return &summary, nil
}
