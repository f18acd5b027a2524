package quiz

import (
	"errors"
	"sort"

	"quizbank/models"
)

// Resolve orders a question's answers by id and assigns each its display index.
// It returns the display index of the single correct answer. The resolved answers
// are returned even when the question turns out to be ungradable, so callers can
// still render them.
func Resolve(answers []models.Answer) ([]models.Answer, int, error) {
	resolved := make([]models.Answer, len(answers))
	copy(resolved, answers)
	sort.SliceStable(resolved, func(i, j int) bool {
		return resolved[i].ID < resolved[j].ID
	})

	correctIndex := -1
	correctCount := 0
	for idx := range resolved {
		resolved[idx].DisplayIndex = idx
		if resolved[idx].IsCorrect {
			correctCount++
			correctIndex = idx
		}
	}

	switch {
	case len(resolved) == 0:
		return resolved, -1, ErrNoAnswers
	case correctCount == 0:
		return resolved, -1, ErrNoCorrectAnswer
	case correctCount > 1:
		return resolved, -1, ErrMultipleCorrectAnswers
	}
	return resolved, correctIndex, nil
}

// IsUngradable reports whether err means a question cannot be scored.
func IsUngradable(err error) bool {
	return errors.Is(err, ErrNoAnswers) ||
		errors.Is(err, ErrNoCorrectAnswer) ||
		errors.Is(err, ErrMultipleCorrectAnswers)
}
