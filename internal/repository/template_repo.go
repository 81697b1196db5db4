package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"aiinterviewer/internal/model"
)

// TemplateRepo handles storage of interview templates
type TemplateRepo interface {
	CreateTemplate(ctx context.Context, tpl *model.Template) (string, error)
	UpsertTemplate(ctx context.Context, tpl *model.Template) error
	GetTemplate(ctx context.Context, id string) (*model.Template, error)
	// ListTemplates returns built-in templates plus those owned by ownerID
	ListTemplates(ctx context.Context, ownerID string) ([]*model.Template, error)
}

type templateRepo struct {
	collection *mongo.Collection
}

// NewTemplateRepo creates a new template repository
func NewTemplateRepo(db *mongo.Database) TemplateRepo {
	return &templateRepo{
		collection: db.Collection("templates"),
	}
}

func (r *templateRepo) CreateTemplate(ctx context.Context, tpl *model.Template) (string, error) {
	if tpl.ID == "" {
		tpl.ID = uuid.New().String()
	}
	tpl.CreatedAt = time.Now()
	tpl.UpdatedAt = tpl.CreatedAt

	if _, err := r.collection.InsertOne(ctx, tpl); err != nil {
		return "", errors.Wrap(err, "mongo template repo: create")
	}
	return tpl.ID, nil
}

func (r *templateRepo) UpsertTemplate(ctx context.Context, tpl *model.Template) error {
	now := time.Now()
	if tpl.CreatedAt.IsZero() {
		tpl.CreatedAt = now
	}
	tpl.UpdatedAt = now
	opts := options.Replace().SetUpsert(true)
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": tpl.ID}, tpl, opts)
	return errors.Wrap(err, "mongo template repo: upsert")
}

func (r *templateRepo) GetTemplate(ctx context.Context, id string) (*model.Template, error) {
	var tpl model.Template
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&tpl)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "mongo template repo: get")
	}
	return &tpl, nil
}

func (r *templateRepo) ListTemplates(ctx context.Context, ownerID string) ([]*model.Template, error) {
	filter := bson.M{"$or": bson.A{bson.M{"builtIn": true}, bson.M{"ownerId": ownerID}}}
	opts := options.Find().SetSort(bson.D{{Key: "builtIn", Value: -1}, {Key: "name", Value: 1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, errors.Wrap(err, "mongo template repo: list")
	}
	defer cursor.Close(ctx)

	var templates []*model.Template
	if err := cursor.All(ctx, &templates); err != nil {
		return nil, errors.Wrap(err, "mongo template repo: decode")
	}
	return templates, nil
}
