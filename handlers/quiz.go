package handlers

import (
	"net/http"

	"quizbank/middleware"
	"quizbank/models"
	"quizbank/quiz"

	"github.com/gin-gonic/gin"
)

type QuizHandler struct {
	service *quiz.Service
}

func NewQuizHandler(service *quiz.Service) *QuizHandler {
	return &QuizHandler{service: service}
}

// Index lists the categories.
func (h *QuizHandler) Index(c *gin.Context) {
	categories, err := h.service.Categories(c.Request.Context())
	if err != nil {
		renderFailure(c, "fetching categories", err)
		return
	}

	c.HTML(http.StatusOK, "index.html", gin.H{
		"title":      "Categories",
		"categories": categories,
	})
}

// ShowCategory renders the questions of a category.
func (h *QuizHandler) ShowCategory(c *gin.Context) {
	h.renderCategory(c, nil, map[string]string{})
}

// GradeCategory scores the submitted answers and renders the questions again
// with the result on top.
func (h *QuizHandler) GradeCategory(c *gin.Context) {
	categoryID, ok := categoryIDParam(c)
	if !ok {
		NotFound(c)
		return
	}

	selected := c.PostFormMap("selectedAnswers")
	result, err := h.service.Grade(c.Request.Context(), categoryID, selected)
	if err != nil {
		renderFailure(c, "grading answers", err)
		return
	}

	h.renderCategory(c, &result, selected)
}

func (h *QuizHandler) renderCategory(c *gin.Context, result *models.GradingResult, selected map[string]string) {
	categoryID, ok := categoryIDParam(c)
	if !ok {
		NotFound(c)
		return
	}

	categoryQuiz, err := h.service.CategoryQuiz(c.Request.Context(), categoryID)
	if err != nil {
		renderFailure(c, "fetching questions", err)
		return
	}

	c.HTML(http.StatusOK, "questions.html", gin.H{
		"title":      categoryQuiz.Category.Name,
		"categoryId": categoryID,
		"questions":  categoryQuiz.Questions,
		"result":     result,
		"selected":   selected,
		"csrfToken":  c.GetString(middleware.CSRFContextKey),
	})
}
