package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"mindmeld/internal/model"
)

// RoundRepo is the store interface for the shared round slot. There is
// one round document, living at a well-known id.
type RoundRepo interface {
	Get(ctx context.Context, id string) (*model.Round, error)
	Upsert(ctx context.Context, round *model.Round) error
}

type roundRepo struct {
	collection *mongo.Collection
}

// NewRoundRepo creates a Mongo-backed round repository.
func NewRoundRepo(db *mongo.Database) RoundRepo {
	return &roundRepo{collection: db.Collection("rounds")}
}

func (r *roundRepo) Get(ctx context.Context, id string) (*model.Round, error) {
	var round model.Round
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&round)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &round, nil
}

func (r *roundRepo) Upsert(ctx context.Context, round *model.Round) error {
	opts := options.Replace().SetUpsert(true)
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": round.ID}, round, opts)
	return err
}
