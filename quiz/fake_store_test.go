package quiz

import (
	"context"
	"sort"

	"quizbank/models"
)

// fakeStore keeps categories, questions and answers in memory.
type fakeStore struct {
	categories []models.Category
	questions  []models.Question
	answers    []models.Answer

	nextID      int
	answerReads int
	failWith    error
	dropAnswers bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{nextID: 100}
}

func (s *fakeStore) id() int {
	s.nextID++
	return s.nextID
}

func (s *fakeStore) addCategory(id int, name string) {
	s.categories = append(s.categories, models.Category{ID: id, Name: name})
}

func (s *fakeStore) addQuestion(id, categoryID int, text string) {
	s.questions = append(s.questions, models.Question{ID: id, CategoryID: categoryID, Question: text})
}

func (s *fakeStore) addAnswer(id, questionID int, text string, correct bool) {
	s.answers = append(s.answers, models.Answer{ID: id, QuestionID: questionID, Answer: text, IsCorrect: correct})
}

func (s *fakeStore) FetchCategories(ctx context.Context) ([]models.Category, error) {
	if s.failWith != nil {
		return nil, s.failWith
	}
	return append([]models.Category(nil), s.categories...), nil
}

func (s *fakeStore) FetchCategory(ctx context.Context, id int) (models.Category, error) {
	if s.failWith != nil {
		return models.Category{}, s.failWith
	}
	for _, category := range s.categories {
		if category.ID == id {
			return category, nil
		}
	}
	return models.Category{}, ErrCategoryNotFound
}

func (s *fakeStore) CategoryExistsByName(ctx context.Context, name string) (bool, error) {
	for _, category := range s.categories {
		if category.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeStore) FetchQuestions(ctx context.Context, categoryID int) ([]models.Question, error) {
	questions := make([]models.Question, 0)
	for _, question := range s.questions {
		if question.CategoryID == categoryID {
			questions = append(questions, question)
		}
	}
	sort.Slice(questions, func(i, j int) bool { return questions[i].ID < questions[j].ID })
	return questions, nil
}

func (s *fakeStore) FetchAnswersForQuestions(ctx context.Context, questionIDs []int) (map[int][]models.Answer, error) {
	s.answerReads++
	wanted := make(map[int]bool, len(questionIDs))
	for _, id := range questionIDs {
		wanted[id] = true
	}
	byQuestion := make(map[int][]models.Answer)
	for _, answer := range s.answers {
		if wanted[answer.QuestionID] {
			byQuestion[answer.QuestionID] = append(byQuestion[answer.QuestionID], answer)
		}
	}
	return byQuestion, nil
}

func (s *fakeStore) InsertCategory(ctx context.Context, name string) (int, error) {
	if s.failWith != nil {
		return 0, s.failWith
	}
	id := s.id()
	s.addCategory(id, name)
	return id, nil
}

func (s *fakeStore) CreateQuestion(ctx context.Context, question models.NewQuestion) (int, error) {
	if s.failWith != nil {
		return 0, s.failWith
	}
	if s.dropAnswers {
		return 0, ErrNoAnswersInserted
	}
	id := s.id()
	s.addQuestion(id, question.CategoryID, question.Question)
	for _, answer := range question.Answers {
		s.addAnswer(s.id(), id, answer.Answer, answer.IsCorrect)
	}
	return id, nil
}

// fakeCache is an in-memory CategoryCache.
type fakeCache struct {
	categories []models.Category
	ok         bool
}

func (c *fakeCache) Get(ctx context.Context) ([]models.Category, bool) {
	return c.categories, c.ok
}

func (c *fakeCache) Set(ctx context.Context, categories []models.Category) {
	c.categories = categories
	c.ok = true
}

func (c *fakeCache) Invalidate(ctx context.Context) {
	c.categories = nil
	c.ok = false
}
