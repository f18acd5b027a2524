package quiz

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strconv"
	"strings"

	"quizbank/models"
)

// Store is the data access the quiz logic needs. Implementations return
// ErrCategoryNotFound for unknown categories and ErrNoAnswersInserted when a
// question write ends up without answers.
type Store interface {
	FetchCategories(ctx context.Context) ([]models.Category, error)
	FetchCategory(ctx context.Context, id int) (models.Category, error)
	CategoryExistsByName(ctx context.Context, name string) (bool, error)
	FetchQuestions(ctx context.Context, categoryID int) ([]models.Question, error)
	FetchAnswersForQuestions(ctx context.Context, questionIDs []int) (map[int][]models.Answer, error)
	InsertCategory(ctx context.Context, name string) (int, error)
	CreateQuestion(ctx context.Context, question models.NewQuestion) (int, error)
}

// CategoryCache holds the category list between requests.
type CategoryCache interface {
	Get(ctx context.Context) ([]models.Category, bool)
	Set(ctx context.Context, categories []models.Category)
	Invalidate(ctx context.Context)
}

type Service struct {
	store Store
	cache CategoryCache
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// WithCategoryCache makes Categories read through cache.
func (s *Service) WithCategoryCache(cache CategoryCache) *Service {
	s.cache = cache
	return s
}

func (s *Service) Categories(ctx context.Context) ([]models.Category, error) {
	if s.cache != nil {
		if categories, ok := s.cache.Get(ctx); ok {
			return categories, nil
		}
	}

	categories, err := s.store.FetchCategories(ctx)
	if err != nil {
		return nil, &PersistenceError{Op: "load categories", Err: err}
	}

	if s.cache != nil {
		s.cache.Set(ctx, categories)
	}
	return categories, nil
}

// CreateCategory validates name and stores a new category.
func (s *Service) CreateCategory(ctx context.Context, name string) (models.Category, error) {
	name, err := ValidateCategoryName(name)
	if err != nil {
		return models.Category{}, err
	}

	exists, err := s.store.CategoryExistsByName(ctx, name)
	if err != nil {
		return models.Category{}, &PersistenceError{Op: "check category", Err: err}
	}
	if exists {
		return models.Category{}, duplicateCategoryError()
	}

	id, err := s.store.InsertCategory(ctx, name)
	if err != nil {
		if errors.Is(err, ErrDuplicateCategory) {
			return models.Category{}, duplicateCategoryError()
		}
		log.Printf("Error creating category %q: %v", name, err)
		return models.Category{}, &PersistenceError{Op: "category", Err: err}
	}

	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}
	return models.Category{ID: id, Name: name}, nil
}

func duplicateCategoryError() error {
	return &ValidationError{Issues: []Issue{{
		Field:   FieldName,
		Message: "A category with this name already exists",
	}}}
}

// CreateQuestion validates a submission and writes the question with its answers.
//
// A *ValidationError lists everything wrong with the submission. ErrCategoryNotFound
// means the selected category does not exist. Nothing is written unless the
// submission passes validation.
func (s *Service) CreateQuestion(ctx context.Context, req models.CreateQuestionRequest) (int, error) {
	question, err := ValidateSubmission(req)
	if err != nil {
		return 0, err
	}
	if len(question.Answers) < MinAnswers {
		log.Printf("Validated question has %d answers", len(question.Answers))
		return 0, &AnomalyError{Err: ErrNoAnswersInserted}
	}

	if _, err := s.store.FetchCategory(ctx, question.CategoryID); err != nil {
		if errors.Is(err, ErrCategoryNotFound) {
			return 0, err
		}
		return 0, &PersistenceError{Op: "load category", Err: err}
	}

	id, err := s.store.CreateQuestion(ctx, question)
	switch {
	case err == nil:
		return id, nil
	case errors.Is(err, ErrCategoryNotFound):
		return 0, err
	case errors.Is(err, ErrNoAnswersInserted):
		log.Printf("Error creating question in category %d: %v", question.CategoryID, err)
		return 0, &AnomalyError{Err: err}
	default:
		log.Printf("Error creating question in category %d: %v", question.CategoryID, err)
		return 0, &PersistenceError{Op: "question", Err: err}
	}
}

// CategoryQuiz loads a category and its questions with answers in display order.
func (s *Service) CategoryQuiz(ctx context.Context, categoryID int) (models.CategoryQuiz, error) {
	category, err := s.store.FetchCategory(ctx, categoryID)
	if err != nil {
		if errors.Is(err, ErrCategoryNotFound) {
			return models.CategoryQuiz{}, err
		}
		return models.CategoryQuiz{}, &PersistenceError{Op: "load category", Err: err}
	}

	questions, err := s.store.FetchQuestions(ctx, categoryID)
	if err != nil {
		return models.CategoryQuiz{}, &PersistenceError{Op: "load questions", Err: err}
	}

	ids := make([]int, 0, len(questions))
	for _, question := range questions {
		ids = append(ids, question.ID)
	}

	answers := map[int][]models.Answer{}
	if len(ids) > 0 {
		answers, err = s.store.FetchAnswersForQuestions(ctx, ids)
		if err != nil {
			return models.CategoryQuiz{}, &PersistenceError{Op: "load answers", Err: err}
		}
	}

	for idx := range questions {
		resolved, _, err := Resolve(answers[questions[idx].ID])
		if err != nil {
			log.Printf("Question %d cannot be graded: %v", questions[idx].ID, err)
		}
		questions[idx].Answers = resolved
	}

	return models.CategoryQuiz{Category: category, Questions: questions}, nil
}

// Grade scores the selections made for questions of one category.
//
// Keys are question ids and values the selected display index, both as submitted.
// Entries that do not parse, name a question outside the category or point at an
// ungradable question are skipped and do not count towards the total.
func (s *Service) Grade(ctx context.Context, categoryID int, selections map[string]string) (models.GradingResult, error) {
	if _, err := s.store.FetchCategory(ctx, categoryID); err != nil {
		if errors.Is(err, ErrCategoryNotFound) {
			return models.GradingResult{}, err
		}
		return models.GradingResult{}, &PersistenceError{Op: "load category", Err: err}
	}

	questions, err := s.store.FetchQuestions(ctx, categoryID)
	if err != nil {
		return models.GradingResult{}, &PersistenceError{Op: "load questions", Err: err}
	}
	inCategory := make(map[int]struct{}, len(questions))
	for _, question := range questions {
		inCategory[question.ID] = struct{}{}
	}

	chosen := parseSelections(selections)
	ids := make([]int, 0, len(chosen))
	for questionID := range chosen {
		if _, ok := inCategory[questionID]; !ok {
			log.Printf("Ignoring selection for question %d outside category %d", questionID, categoryID)
			continue
		}
		ids = append(ids, questionID)
	}
	sort.Ints(ids)

	var result models.GradingResult
	if len(ids) > 0 {
		answers, err := s.store.FetchAnswersForQuestions(ctx, ids)
		if err != nil {
			return models.GradingResult{}, &PersistenceError{Op: "load answers", Err: err}
		}
		result = score(ids, chosen, answers)
	}

	result.Message = fmt.Sprintf("You answered %d of %d questions correctly.", result.Correct, result.Total)
	return result, nil
}

func score(ids []int, chosen map[int]int, answers map[int][]models.Answer) models.GradingResult {
	var result models.GradingResult
	for _, questionID := range ids {
		_, correctIndex, err := Resolve(answers[questionID])
		if err != nil {
			log.Printf("Skipping question %d while grading: %v", questionID, &AnomalyError{QuestionID: questionID, Err: err})
			continue
		}
		result.Total++
		if chosen[questionID] == correctIndex {
			result.Correct++
		}
	}
	return result
}

// parseSelections keeps the entries whose key and value are both integers.
// Keys are visited in sorted order so that aliases such as "1" and "01" resolve
// the same way on every call.
func parseSelections(selections map[string]string) map[int]int {
	keys := make([]string, 0, len(selections))
	for key := range selections {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	chosen := make(map[int]int, len(keys))
	for _, key := range keys {
		questionID, err := strconv.Atoi(strings.TrimSpace(key))
		if err != nil {
			continue
		}
		selected, err := strconv.Atoi(strings.TrimSpace(selections[key]))
		if err != nil {
			continue
		}
		chosen[questionID] = selected
	}
	return chosen
}
