package handlers

import (
	"errors"
	"net/http"

	"quizbank/middleware"
	"quizbank/models"
	"quizbank/quiz"

	"github.com/gin-gonic/gin"
)

const answerSlots = 4

type QuestionHandler struct {
	service *quiz.Service
}

func NewQuestionHandler(service *quiz.Service) *QuestionHandler {
	return &QuestionHandler{service: service}
}

// NewForm renders an empty question form.
func (h *QuestionHandler) NewForm(c *gin.Context) {
	h.renderForm(c, http.StatusOK, models.CreateQuestionRequest{}, nil, nil)
}

// CreateQuestion validates the posted form and stores the question. Invalid
// input re-renders the form with every problem marked.
func (h *QuestionHandler) CreateQuestion(c *gin.Context) {
	req := models.CreateQuestionRequest{
		Question:      c.PostForm("question"),
		Category:      c.PostForm("category"),
		Answers:       c.PostFormArray("answers"),
		CorrectAnswer: c.PostForm("correctAnswer"),
	}

	_, err := h.service.CreateQuestion(c.Request.Context(), req)
	if err == nil {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}

	var validationErr *quiz.ValidationError
	switch {
	case errors.As(err, &validationErr):
		h.renderForm(c, http.StatusUnprocessableEntity, req, validationErr.Messages(), validationErr.Fields())
	case errors.Is(err, quiz.ErrCategoryNotFound):
		h.renderForm(c, http.StatusUnprocessableEntity, req,
			[]string{"The selected category does not exist"}, []string{quiz.FieldCategory})
	default:
		renderFailure(c, "creating question", err)
	}
}

func (h *QuestionHandler) renderForm(c *gin.Context, status int, data models.CreateQuestionRequest, errs, invalidFields []string) {
	categories, err := h.service.Categories(c.Request.Context())
	if err != nil {
		renderFailure(c, "fetching categories", err)
		return
	}

	slots := make([]string, 0, answerSlots)
	slots = append(slots, data.Answers...)
	for len(slots) < answerSlots {
		slots = append(slots, "")
	}

	c.HTML(status, "form.html", gin.H{
		"title":         "Add a question",
		"data":          data,
		"errors":        errs,
		"invalidFields": invalidFields,
		"categories":    categories,
		"answerSlots":   slots,
		"csrfToken":     c.GetString(middleware.CSRFContextKey),
	})
}
