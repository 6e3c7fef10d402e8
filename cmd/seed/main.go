package main

import (
	"context"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"mindmeld/internal/config"
	"mindmeld/internal/model"
	"mindmeld/internal/repository"
	"mindmeld/internal/service"
)

// seedConcepts maps concept types to their starting vocabulary.
var seedConcepts = map[string][]string{
	"animal": {"dog", "cat", "horse", "monkey", "elephant", "mouse", "rabbit"},
	"food":   {"bone", "cheese", "banana", "carrot", "apple", "grass"},
	"place":  {"house", "forest", "farm", "zoo", "river"},
	"object": {"ball", "stick", "rope", "box"},
}

type seedTemplate struct {
	question   string
	predicate  string
	answerType string
}

var seedTemplates = []seedTemplate{
	{"What does a [animal] like to eat?", "eats", "food"},
	{"Where does a [animal] live?", "lives_in", "place"},
	{"What does a [animal] play with?", "plays_with", "object"},
	{"What animal would eat a [food]?", "eats", "animal"},
	{"What can you find in a [place]?", "found_in", "object"},
}

func main() {
	log := zerolog.New(os.Stderr).With().Timestamp().Logger()
	ctx := context.Background()

	cfg := config.Load()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to MongoDB")
	}
	defer client.Disconnect(ctx)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		log.Fatal().Err(err).Msg("failed to ping MongoDB")
	}

	db := client.Database(cfg.MongoDB)
	conceptRepo := repository.NewConceptRepo(db)
	templateRepo := repository.NewTemplateRepo(db)
	vocabSvc := service.NewVocabService(conceptRepo)

	for conceptType, names := range seedConcepts {
		for _, name := range names {
			if _, err := vocabSvc.Tag(ctx, name, conceptType); err != nil {
				log.Fatal().Err(err).Str("concept", name).Msg("failed to seed concept")
			}
		}
		log.Info().Str("type", conceptType).Int("count", len(names)).Msg("seeded concepts")
	}

	for _, s := range seedTemplates {
		existing, err := templateRepo.GetByQuestion(ctx, s.question)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to look up template")
		}
		if existing != nil {
			continue
		}

		template := &model.QuestionTemplate{
			ID:            uuid.New().String(),
			Question:      s.question,
			PredicateName: s.predicate,
			AnswerType:    s.answerType,
			CreatedAt:     time.Now(),
		}
		template.ArgumentTypes = template.ExtractArgumentTypes()
		if err := templateRepo.Create(ctx, template); err != nil {
			log.Fatal().Err(err).Str("question", s.question).Msg("failed to seed template")
		}
	}
	log.Info().Int("count", len(seedTemplates)).Msg("seeded templates")
}
