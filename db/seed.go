package db

import (
	"bytes"
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"log"
	"os"
	"strconv"

	"quizbank/models"
	"quizbank/quiz"

	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var defaultSeed []byte

// LoadSeedFile reads a seed document. An empty path selects the built-in seed.
func LoadSeedFile(path string) (models.SeedFile, error) {
	data := defaultSeed
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return models.SeedFile{}, fmt.Errorf("read seed file: %w", err)
		}
	}
	return ParseSeed(data)
}

func ParseSeed(data []byte) (models.SeedFile, error) {
	var seed models.SeedFile
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&seed); err != nil {
		return models.SeedFile{}, fmt.Errorf("parse seed yaml: %w", err)
	}
	return seed, nil
}

// Setup recreates the schema from scratch and loads seed into it.
func Setup(ctx context.Context, db *sql.DB, driver string, seed models.SeedFile) error {
	if err := DropSchema(ctx, db); err != nil {
		return err
	}
	log.Println("schema dropped")

	if err := InitSchema(ctx, db, driver); err != nil {
		return err
	}
	log.Println("schema created")

	if err := SeedData(ctx, quiz.NewService(NewStore(db, driver)), seed); err != nil {
		return err
	}
	log.Println("data inserted")
	return nil
}

// SeedData inserts seed through the same validation the forms use.
func SeedData(ctx context.Context, service *quiz.Service, seed models.SeedFile) error {
	for _, seedCategory := range seed.Categories {
		category, err := service.CreateCategory(ctx, seedCategory.Name)
		if err != nil {
			return fmt.Errorf("error seeding category %q: %w", seedCategory.Name, err)
		}

		for _, seedQuestion := range seedCategory.Questions {
			_, err := service.CreateQuestion(ctx, models.CreateQuestionRequest{
				Question:      seedQuestion.Question,
				Category:      strconv.Itoa(category.ID),
				Answers:       seedQuestion.Answers,
				CorrectAnswer: strconv.Itoa(seedQuestion.CorrectAnswer),
			})
			if err != nil {
				return fmt.Errorf("error seeding question %q: %w", seedQuestion.Question, err)
			}
		}
	}
	return nil
}
