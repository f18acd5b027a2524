package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"quizbank/middleware"
	"quizbank/quiz"

	"github.com/gin-gonic/gin"
)

// NotFound renders the 404 page.
func NotFound(c *gin.Context) {
	c.HTML(http.StatusNotFound, "404.html", gin.H{"title": "Page not found"})
}

// renderFailure turns a service error into the matching error page.
func renderFailure(c *gin.Context, action string, err error) {
	if errors.Is(err, quiz.ErrCategoryNotFound) {
		NotFound(c)
		return
	}
	log.Printf("Error %s [%s]: %v", action, c.GetString(middleware.RequestIDContextKey), err)
	c.HTML(http.StatusInternalServerError, "error.html", gin.H{
		"title": "Error",
		"error": "Something went wrong. Please try again later.",
	})
}

func categoryIDParam(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
