package quiz

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"quizbank/models"
)

const (
	MinQuestionLength     = 10
	MinAnswers            = 2
	MinCategoryNameLength = 3
	MaxCategoryNameLength = 255
)

// Field names used in validation issues. They match the form input names.
const (
	FieldQuestion      = "question"
	FieldCategory      = "category"
	FieldAnswers       = "answers"
	FieldCorrectAnswer = "correctAnswer"
	FieldName          = "name"
)

// ValidateSubmission checks a raw question submission and normalizes it.
//
// Every rule runs, so a failing submission reports all of its problems at once.
// CorrectAnswer indexes the answers as submitted, blanks included; on success the
// correct flag is moved onto the matching entry of the blank-free answer list.
func ValidateSubmission(req models.CreateQuestionRequest) (models.NewQuestion, error) {
	collector := &issueCollector{}

	text := strings.TrimSpace(req.Question)
	if utf8.RuneCountInString(text) < MinQuestionLength {
		collector.add(FieldQuestion, "Question must be at least 10 characters long")
	}

	categoryID, err := strconv.Atoi(strings.TrimSpace(req.Category))
	if err != nil || categoryID <= 0 {
		collector.add(FieldCategory, "A category must be selected")
	}

	raw := []string(req.Answers)
	nonBlank := 0
	for _, answer := range raw {
		if strings.TrimSpace(answer) != "" {
			nonBlank++
		}
	}
	if nonBlank < MinAnswers {
		collector.add(FieldAnswers, "At least two answers are required")
	}

	selected, err := strconv.Atoi(strings.TrimSpace(req.CorrectAnswer))
	if err != nil || selected < 0 || selected >= len(raw) || strings.TrimSpace(raw[selected]) == "" {
		collector.add(FieldCorrectAnswer, "The correct answer must be one of the filled in answers")
	}

	if err := collector.result(); err != nil {
		return models.NewQuestion{}, err
	}

	answers := make([]models.NewAnswer, 0, nonBlank)
	for idx, answer := range raw {
		answer = strings.TrimSpace(answer)
		if answer == "" {
			continue
		}
		answers = append(answers, models.NewAnswer{
			Answer:    answer,
			IsCorrect: idx == selected,
		})
	}

	return models.NewQuestion{
		Question:   text,
		CategoryID: categoryID,
		Answers:    answers,
	}, nil
}

// ValidateCategoryName trims name and checks its length.
func ValidateCategoryName(name string) (string, error) {
	name = strings.TrimSpace(name)
	length := utf8.RuneCountInString(name)
	if length < MinCategoryNameLength || length > MaxCategoryNameLength {
		return "", &ValidationError{Issues: []Issue{{
			Field:   FieldName,
			Message: "Name must be between 3 and 255 characters",
		}}}
	}
	return name, nil
}
