package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"mindmeld/internal/model"
)

// TemplateRepo is the store interface for question templates.
type TemplateRepo interface {
	Create(ctx context.Context, template *model.QuestionTemplate) error
	GetByID(ctx context.Context, id string) (*model.QuestionTemplate, error)
	GetByQuestion(ctx context.Context, question string) (*model.QuestionTemplate, error)
	List(ctx context.Context) ([]*model.QuestionTemplate, error)
	Delete(ctx context.Context, id string) error
}

type templateRepo struct {
	collection *mongo.Collection
}

// NewTemplateRepo creates a Mongo-backed template repository.
func NewTemplateRepo(db *mongo.Database) TemplateRepo {
	return &templateRepo{collection: db.Collection("templates")}
}

func (r *templateRepo) Create(ctx context.Context, template *model.QuestionTemplate) error {
	_, err := r.collection.InsertOne(ctx, template)
	return err
}

func (r *templateRepo) GetByID(ctx context.Context, id string) (*model.QuestionTemplate, error) {
	var template model.QuestionTemplate
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&template)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &template, nil
}

func (r *templateRepo) GetByQuestion(ctx context.Context, question string) (*model.QuestionTemplate, error) {
	var template model.QuestionTemplate
	err := r.collection.FindOne(ctx, bson.M{"question": question}).Decode(&template)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &template, nil
}

func (r *templateRepo) List(ctx context.Context) ([]*model.QuestionTemplate, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var templates []*model.QuestionTemplate
	if err := cursor.All(ctx, &templates); err != nil {
		return nil, err
	}
	return templates, nil
}

func (r *templateRepo) Delete(ctx context.Context, id string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}
