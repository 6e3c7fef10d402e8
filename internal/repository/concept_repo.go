package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"mindmeld/internal/model"
)

// ConceptRepo is the store interface for the concept vocabulary.
type ConceptRepo interface {
	Create(ctx context.Context, concept *model.Concept) error
	GetByID(ctx context.Context, id string) (*model.Concept, error)
	GetByName(ctx context.Context, name string) (*model.Concept, error)
	List(ctx context.Context) ([]*model.Concept, error)
	ListByType(ctx context.Context, conceptType string) ([]*model.Concept, error)
	Update(ctx context.Context, concept *model.Concept) error
	Delete(ctx context.Context, id string) error
}

type conceptRepo struct {
	collection *mongo.Collection
}

// NewConceptRepo creates a Mongo-backed concept repository.
func NewConceptRepo(db *mongo.Database) ConceptRepo {
	return &conceptRepo{collection: db.Collection("concepts")}
}

func (r *conceptRepo) Create(ctx context.Context, concept *model.Concept) error {
	_, err := r.collection.InsertOne(ctx, concept)
	return err
}

func (r *conceptRepo) GetByID(ctx context.Context, id string) (*model.Concept, error) {
	var concept model.Concept
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&concept)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &concept, nil
}

func (r *conceptRepo) GetByName(ctx context.Context, name string) (*model.Concept, error) {
	var concept model.Concept
	err := r.collection.FindOne(ctx, bson.M{"name": name}).Decode(&concept)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &concept, nil
}

func (r *conceptRepo) List(ctx context.Context) ([]*model.Concept, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var concepts []*model.Concept
	if err := cursor.All(ctx, &concepts); err != nil {
		return nil, err
	}
	return concepts, nil
}

func (r *conceptRepo) ListByType(ctx context.Context, conceptType string) ([]*model.Concept, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"conceptTypes": conceptType})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var concepts []*model.Concept
	if err := cursor.All(ctx, &concepts); err != nil {
		return nil, err
	}
	return concepts, nil
}

func (r *conceptRepo) Update(ctx context.Context, concept *model.Concept) error {
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": concept.ID}, concept)
	return err
}

func (r *conceptRepo) Delete(ctx context.Context, id string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}
