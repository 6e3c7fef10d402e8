package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"mindmeld/internal/model"
)

// PlayerRepo is the store interface for player accounts.
type PlayerRepo interface {
	Create(ctx context.Context, player *model.Player) error
	GetByID(ctx context.Context, id string) (*model.Player, error)
	GetByUsername(ctx context.Context, username string) (*model.Player, error)
	TopByScore(ctx context.Context, limit int) ([]*model.Player, error)
	Update(ctx context.Context, player *model.Player) error
	Delete(ctx context.Context, id string) error
}

type playerRepo struct {
	collection *mongo.Collection
}

// NewPlayerRepo creates a Mongo-backed player repository.
func NewPlayerRepo(db *mongo.Database) PlayerRepo {
	return &playerRepo{collection: db.Collection("players")}
}

func (r *playerRepo) Create(ctx context.Context, player *model.Player) error {
	_, err := r.collection.InsertOne(ctx, player)
	return err
}

func (r *playerRepo) GetByID(ctx context.Context, id string) (*model.Player, error) {
	var player model.Player
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&player)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &player, nil
}

func (r *playerRepo) GetByUsername(ctx context.Context, username string) (*model.Player, error) {
	var player model.Player
	err := r.collection.FindOne(ctx, bson.M{"username": username}).Decode(&player)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &player, nil
}

func (r *playerRepo) TopByScore(ctx context.Context, limit int) ([]*model.Player, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "score", Value: -1}}).
		SetLimit(int64(limit))
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var players []*model.Player
	if err := cursor.All(ctx, &players); err != nil {
		return nil, err
	}
	return players, nil
}

func (r *playerRepo) Update(ctx context.Context, player *model.Player) error {
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": player.ID}, player)
	return err
}

func (r *playerRepo) Delete(ctx context.Context, id string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}
