package routes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"testing"

	"quizbank/db"
	"quizbank/middleware"
	"quizbank/models"
	"quizbank/quiz"
	"quizbank/templates"

	"github.com/gin-gonic/gin"
)

var csrfInput = regexp.MustCompile(`name="_csrf" value="([^"]+)"`)

type testApp struct {
	t      *testing.T
	router *gin.Engine
	store  *db.Store
	cookie *http.Cookie
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	database, err := db.Open(db.DriverSQLite, ":memory:")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	if err := db.InitSchema(context.Background(), database, db.DriverSQLite); err != nil {
		t.Fatalf("InitSchema: %v", err)
	}

	pages, err := templates.Load()
	if err != nil {
		t.Fatalf("templates.Load: %v", err)
	}

	store := db.NewStore(database, db.DriverSQLite)
	r := gin.New()
	r.SetHTMLTemplate(pages)
	SetupRoutes(r, quiz.NewService(store), Options{
		Tokens:      middleware.NewTokenService([]byte("test-secret")),
		DB:          store,
		CORSOrigins: []string{"*"},
	})
	return &testApp{t: t, router: r, store: store}
}

func (app *testApp) do(req *http.Request) *httptest.ResponseRecorder {
	if app.cookie != nil {
		req.AddCookie(app.cookie)
	}
	w := httptest.NewRecorder()
	app.router.ServeHTTP(w, req)
	for _, cookie := range w.Result().Cookies() {
		app.cookie = cookie
	}
	return w
}

func (app *testApp) get(path string) *httptest.ResponseRecorder {
	return app.do(httptest.NewRequest(http.MethodGet, path, nil))
}

// postForm loads formPage for a CSRF token and posts form to path with it.
func (app *testApp) postForm(formPage, path string, form url.Values) *httptest.ResponseRecorder {
	app.t.Helper()
	page := app.get(formPage)
	match := csrfInput.FindStringSubmatch(page.Body.String())
	if match == nil {
		app.t.Fatalf("no CSRF token on %s: %s", formPage, page.Body.String())
	}
	form.Set(middleware.CSRFFormField, match[1])

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return app.do(req)
}

func (app *testApp) postJSON(path string, body any) *httptest.ResponseRecorder {
	app.t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		app.t.Fatalf("Marshal: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(string(data)))
	req.Header.Set("Content-Type", "application/json")
	return app.do(req)
}

func (app *testApp) seedCapitals() (categoryID, questionID int) {
	app.t.Helper()
	ctx := context.Background()
	categoryID, err := app.store.InsertCategory(ctx, "Capitals")
	if err != nil {
		app.t.Fatalf("InsertCategory: %v", err)
	}
	questionID, err = app.store.CreateQuestion(ctx, models.NewQuestion{
		Question:   "What is the capital of France?",
		CategoryID: categoryID,
		Answers: []models.NewAnswer{
			{Answer: "Paris", IsCorrect: true},
			{Answer: "London"},
			{Answer: "Berlin"},
		},
	})
	if err != nil {
		app.t.Fatalf("CreateQuestion: %v", err)
	}
	return categoryID, questionID
}

func TestIndexListsCategories(t *testing.T) {
	app := newTestApp(t)
	app.seedCapitals()

	w := app.get("/")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `href="/categories/1"`) {
		t.Fatalf("category link missing: %s", w.Body.String())
	}
	if w.Header().Get("X-Frame-Options") == "" {
		t.Fatalf("security headers missing")
	}
}

func TestGradeCategoryPage(t *testing.T) {
	app := newTestApp(t)
	_, questionID := app.seedCapitals()

	w := app.postForm("/categories/1", "/categories/1", url.Values{
		"selectedAnswers[" + strconv.Itoa(questionID) + "]": {"0"},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "You answered 1 of 1 questions correctly.") {
		t.Fatalf("result missing: %s", w.Body.String())
	}
}

func TestUnknownCategoryIsNotFound(t *testing.T) {
	app := newTestApp(t)

	for _, path := range []string{"/categories/42", "/categories/abc", "/nowhere"} {
		if w := app.get(path); w.Code != http.StatusNotFound {
			t.Fatalf("GET %s status = %d, want 404", path, w.Code)
		}
	}
}

func TestCreateQuestionForm(t *testing.T) {
	app := newTestApp(t)
	app.seedCapitals()

	w := app.postForm("/form", "/form", url.Values{
		"question":      {"What is the capital of Spain?"},
		"category":      {"1"},
		"answers":       {"", "Madrid", "", "Lisbon"},
		"correctAnswer": {"1"},
	})
	if w.Code != http.StatusSeeOther || w.Header().Get("Location") != "/" {
		t.Fatalf("status = %d location = %q body = %s", w.Code, w.Header().Get("Location"), w.Body.String())
	}

	questions, err := app.store.FetchQuestions(context.Background(), 1)
	if err != nil {
		t.Fatalf("FetchQuestions: %v", err)
	}
	if len(questions) != 2 {
		t.Fatalf("got %d questions, want 2", len(questions))
	}
}

func TestCreateQuestionFormRerendersErrors(t *testing.T) {
	app := newTestApp(t)
	app.seedCapitals()

	w := app.postForm("/form", "/form", url.Values{
		"question":      {"Too short"},
		"category":      {"1"},
		"answers":       {"Madrid", "Lisbon"},
		"correctAnswer": {"0"},
	})
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "Question must be at least 10 characters long") {
		t.Fatalf("error message missing: %s", body)
	}
	if !strings.Contains(body, `value="Madrid"`) {
		t.Fatalf("submitted answers not kept: %s", body)
	}
}

func TestFormPostWithoutTokenIsRejected(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest(http.MethodPost, "/categories", strings.NewReader("name=Rivers"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if w := app.do(req); w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", w.Code)
	}
}

func TestCreateCategoryForm(t *testing.T) {
	app := newTestApp(t)

	w := app.postForm("/categories/new", "/categories", url.Values{"name": {"Rivers"}})
	if w.Code != http.StatusSeeOther {
		t.Fatalf("status = %d body = %s", w.Code, w.Body.String())
	}

	w = app.postForm("/categories/new", "/categories", url.Values{"name": {"Rivers"}})
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("duplicate status = %d, want 422", w.Code)
	}
	if !strings.Contains(w.Body.String(), "A category with this name already exists") {
		t.Fatalf("duplicate message missing: %s", w.Body.String())
	}
}

func TestAPIGrade(t *testing.T) {
	app := newTestApp(t)
	_, questionID := app.seedCapitals()

	w := app.postJSON("/api/categories/1/grade", models.GradeRequest{
		SelectedAnswers: map[string]string{strconv.Itoa(questionID): "2"},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", w.Code, w.Body.String())
	}
	var result models.GradingResult
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if result.Total != 1 || result.Correct != 0 {
		t.Fatalf("result = %+v, want 0 of 1", result)
	}

	if w := app.postJSON("/api/categories/7/grade", models.GradeRequest{}); w.Code != http.StatusNotFound {
		t.Fatalf("unknown category status = %d, want 404", w.Code)
	}
}

func TestAPIQuestions(t *testing.T) {
	app := newTestApp(t)
	app.seedCapitals()

	w := app.postJSON("/api/questions", map[string]any{
		"question":      "What is the capital of Italy?",
		"category":      "1",
		"answers":       []string{"Rome", "Milan"},
		"correctAnswer": "0",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d body = %s", w.Code, w.Body.String())
	}

	w = app.postJSON("/api/questions", map[string]any{
		"question":      "What is the capital of Italy?",
		"category":      "1",
		"answers":       "Rome",
		"correctAnswer": "0",
	})
	if w.Code != http.StatusUnprocessableEntity || !strings.Contains(w.Body.String(), `"field":"answers"`) {
		t.Fatalf("status = %d body = %s", w.Code, w.Body.String())
	}

	w = app.get("/api/categories/1/questions")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var categoryQuiz models.CategoryQuiz
	if err := json.Unmarshal(w.Body.Bytes(), &categoryQuiz); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len(categoryQuiz.Questions) != 2 {
		t.Fatalf("got %d questions, want 2", len(categoryQuiz.Questions))
	}
	if strings.Contains(w.Body.String(), "is_correct") {
		t.Fatalf("correct flags leaked: %s", w.Body.String())
	}
}

func TestHealth(t *testing.T) {
	app := newTestApp(t)

	if w := app.get("/health"); w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
}
