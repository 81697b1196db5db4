package repository

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"aiinterviewer/internal/model"
)

// ResponseRepo stores analyzed answers and the permanent insight log
type ResponseRepo interface {
	SaveResponse(ctx context.Context, resp *model.ResponseRecord) error
	AppendInsight(ctx context.Context, insight *model.InsightRecord) error
	ListResponses(ctx context.Context, sessionID string) ([]*model.ResponseRecord, error)
	ListInsights(ctx context.Context, sessionID string) ([]*model.InsightRecord, error)
}

type responseRepo struct {
	responses *mongo.Collection
	insights  *mongo.Collection
}

// NewResponseRepo creates a new response repository
func NewResponseRepo(db *mongo.Database) ResponseRepo {
	return &responseRepo{
		responses: db.Collection("responses"),
		insights:  db.Collection("insights"),
	}
}

func (r *responseRepo) SaveResponse(ctx context.Context, resp *model.ResponseRecord) error {
	if resp.CreatedAt.IsZero() {
		resp.CreatedAt = time.Now()
	}
	opts := options.Replace().SetUpsert(true)
	_, err := r.responses.ReplaceOne(ctx, bson.M{"_id": resp.ID}, resp, opts)
	return errors.Wrap(err, "mongo response repo: save response")
}

func (r *responseRepo) AppendInsight(ctx context.Context, insight *model.InsightRecord) error {
	if insight.CreatedAt.IsZero() {
		insight.CreatedAt = time.Now()
	}
	_, err := r.insights.InsertOne(ctx, insight)
	return errors.Wrap(err, "mongo response repo: append insight")
}

func (r *responseRepo) ListResponses(ctx context.Context, sessionID string) ([]*model.ResponseRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "ordinal", Value: 1}})
	cursor, err := r.responses.Find(ctx, bson.M{"sessionId": sessionID}, opts)
	if err != nil {
		return nil, errors.Wrap(err, "mongo response repo: list responses")
	}
	defer cursor.Close(ctx)

	var out []*model.ResponseRecord
	if err := cursor.All(ctx, &out); err != nil {
		return nil, errors.Wrap(err, "mongo response repo: decode responses")
	}
	return out, nil
}

func (r *responseRepo) ListInsights(ctx context.Context, sessionID string) ([]*model.InsightRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := r.insights.Find(ctx, bson.M{"sessionId": sessionID}, opts)
	if err != nil {
		return nil, errors.Wrap(err, "mongo response repo: list insights")
	}
	defer cursor.Close(ctx)

	var out []*model.InsightRecord
	if err := cursor.All(ctx, &out); err != nil {
		return nil, errors.Wrap(err, "mongo response repo: decode insights")
	}
	return out, nil
}
