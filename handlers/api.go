package handlers

import (
	"errors"
	"log"
	"net/http"

	"quizbank/models"
	"quizbank/quiz"

	"github.com/gin-gonic/gin"
)

// APIHandler exposes the quiz operations as JSON.
type APIHandler struct {
	service *quiz.Service
}

func NewAPIHandler(service *quiz.Service) *APIHandler {
	return &APIHandler{service: service}
}

func (h *APIHandler) GetCategories(c *gin.Context) {
	categories, err := h.service.Categories(c.Request.Context())
	if err != nil {
		h.fail(c, "fetching categories", err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

func (h *APIHandler) CreateCategory(c *gin.Context) {
	var req models.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	category, err := h.service.CreateCategory(c.Request.Context(), req.Name)
	if err != nil {
		h.fail(c, "creating category", err)
		return
	}
	c.JSON(http.StatusCreated, category)
}

func (h *APIHandler) GetQuestions(c *gin.Context) {
	categoryID, ok := categoryIDParam(c)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		return
	}

	categoryQuiz, err := h.service.CategoryQuiz(c.Request.Context(), categoryID)
	if err != nil {
		h.fail(c, "fetching questions", err)
		return
	}
	c.JSON(http.StatusOK, categoryQuiz)
}

func (h *APIHandler) Grade(c *gin.Context) {
	categoryID, ok := categoryIDParam(c)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		return
	}

	var req models.GradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.service.Grade(c.Request.Context(), categoryID, req.SelectedAnswers)
	if err != nil {
		h.fail(c, "grading answers", err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *APIHandler) CreateQuestion(c *gin.Context) {
	var req models.CreateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id, err := h.service.CreateQuestion(c.Request.Context(), req)
	if err != nil {
		h.fail(c, "creating question", err)
		return
	}
	c.JSON(http.StatusCreated, models.CreateQuestionResponse{ID: id})
}

func (h *APIHandler) fail(c *gin.Context, action string, err error) {
	var validationErr *quiz.ValidationError
	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":  "Validation failed",
			"issues": validationErr.Issues,
		})
	case errors.Is(err, quiz.ErrCategoryNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
	default:
		log.Printf("Error %s: %v", action, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process request"})
	}
}
