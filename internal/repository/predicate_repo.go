package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"mindmeld/internal/model"
)

// PredicateRepo is the store interface for the predicate ledger.
// Records are identified by the full (predicate, arguments,
// argument types) tuple.
type PredicateRepo interface {
	Find(ctx context.Context, predicate string, arguments, argumentTypes []string) (*model.PredicateRecord, error)
	Create(ctx context.Context, record *model.PredicateRecord) error
	Update(ctx context.Context, record *model.PredicateRecord) error
	ListByFrequency(ctx context.Context) ([]*model.PredicateRecord, error)
}

type predicateRepo struct {
	collection *mongo.Collection
}

// NewPredicateRepo creates a Mongo-backed predicate ledger repository.
func NewPredicateRepo(db *mongo.Database) PredicateRepo {
	return &predicateRepo{collection: db.Collection("predicates")}
}

func (r *predicateRepo) Find(ctx context.Context, predicate string, arguments, argumentTypes []string) (*model.PredicateRecord, error) {
	var record model.PredicateRecord
	err := r.collection.FindOne(ctx, bson.M{
		"predicate":     predicate,
		"arguments":     arguments,
		"argumentTypes": argumentTypes,
	}).Decode(&record)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

func (r *predicateRepo) Create(ctx context.Context, record *model.PredicateRecord) error {
	_, err := r.collection.InsertOne(ctx, record)
	return err
}

func (r *predicateRepo) Update(ctx context.Context, record *model.PredicateRecord) error {
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": record.ID}, record)
	return err
}

func (r *predicateRepo) ListByFrequency(ctx context.Context) ([]*model.PredicateRecord, error) {
	opts := options.Find().SetSort(bson.D{
		{Key: "frequency", Value: -1},
		{Key: "predicate", Value: 1},
	})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var records []*model.PredicateRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}
