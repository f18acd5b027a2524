package handlers

import (
	"errors"
	"net/http"
	"strings"

	"quizbank/middleware"
	"quizbank/quiz"

	"github.com/gin-gonic/gin"
)

type CategoryHandler struct {
	service *quiz.Service
}

func NewCategoryHandler(service *quiz.Service) *CategoryHandler {
	return &CategoryHandler{service: service}
}

func (h *CategoryHandler) NewForm(c *gin.Context) {
	h.renderForm(c, http.StatusOK, "", "")
}

// CreateCategory stores a new category and sends the visitor back to the front page.
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	name := c.PostForm("name")

	_, err := h.service.CreateCategory(c.Request.Context(), name)
	if err == nil {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}

	var validationErr *quiz.ValidationError
	if errors.As(err, &validationErr) {
		h.renderForm(c, http.StatusUnprocessableEntity, name, strings.Join(validationErr.Messages(), " "))
		return
	}
	renderFailure(c, "creating category", err)
}

func (h *CategoryHandler) renderForm(c *gin.Context, status int, name, message string) {
	c.HTML(status, "category_form.html", gin.H{
		"title":     "Create a category",
		"name":      name,
		"error":     message,
		"csrfToken": c.GetString(middleware.CSRFContextKey),
	})
}
