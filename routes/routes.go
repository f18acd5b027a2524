package routes

import (
	"quizbank/handlers"
	"quizbank/middleware"
	"quizbank/quiz"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Options carries what SetupRoutes needs besides the quiz service.
type Options struct {
	Tokens      *middleware.TokenService
	DB          handlers.Pinger
	Cache       handlers.Pinger // optional
	CORSOrigins []string
	PublicDir   string
}

// SetupRoutes configures all the routes for the application
func SetupRoutes(r *gin.Engine, service *quiz.Service, opts Options) {
	// Initialize handlers
	quizHandler := handlers.NewQuizHandler(service)
	questionHandler := handlers.NewQuestionHandler(service)
	categoryHandler := handlers.NewCategoryHandler(service)
	apiHandler := handlers.NewAPIHandler(service)
	healthHandler := handlers.NewHealthHandler(opts.DB)
	if opts.Cache != nil {
		healthHandler.WithOptional("cache", opts.Cache)
	}

	r.Use(middleware.RequestID())
	r.Use(middleware.SecurityHeaders())

	if opts.PublicDir != "" {
		r.Static("/public", opts.PublicDir)
	}
	r.GET("/health", healthHandler.HealthCheck)

	// HTML pages
	pages := r.Group("/")
	pages.Use(middleware.CSRF(opts.Tokens))
	{
		pages.GET("/", quizHandler.Index)

		// Category routes
		pages.GET("/categories/new", categoryHandler.NewForm)
		pages.POST("/categories", categoryHandler.CreateCategory)
		pages.GET("/categories/:id", quizHandler.ShowCategory)
		pages.POST("/categories/:id", quizHandler.GradeCategory)

		// Question routes
		pages.GET("/form", questionHandler.NewForm)
		pages.POST("/form", questionHandler.CreateQuestion)
	}

	// JSON API
	api := r.Group("/api")
	api.Use(cors.New(corsConfig(opts.CORSOrigins)))
	{
		api.GET("/categories", apiHandler.GetCategories)
		api.POST("/categories", apiHandler.CreateCategory)
		api.GET("/categories/:id/questions", apiHandler.GetQuestions)
		api.POST("/categories/:id/grade", apiHandler.Grade)
		api.POST("/questions", apiHandler.CreateQuestion)
	}

	r.NoRoute(handlers.NotFound)
}

func corsConfig(origins []string) cors.Config {
	config := cors.DefaultConfig()
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		config.AllowAllOrigins = true
	} else {
		config.AllowOrigins = origins
	}
	config.AllowHeaders = []string{
		"Origin",
		"Content-Length",
		"Content-Type",
		middleware.RequestIDHeader,
	}
	config.AllowMethods = []string{
		"GET",
		"POST",
	}
	return config
}
