package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"quizbank/config"
	"quizbank/db"
	"quizbank/middleware"
	"quizbank/quiz"
	"quizbank/routes"
	"quizbank/templates"

	"github.com/gin-gonic/gin"
)

func main() {
	setup := flag.Bool("setup", false, "drop and recreate the schema, then load seed data")
	seedPath := flag.String("seed", "", "seed YAML file used with -setup (built-in seed when empty)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}

	// Connect to database
	database, err := db.Open(cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Error connecting to the database: %v", err)
	}
	defer database.Close()

	if *setup {
		if err := runSetup(database, cfg.DBDriver, *seedPath); err != nil {
			database.Close()
			log.Fatalf("Error setting up database: %v", err)
		}
		return
	}

	// Initialize database schema
	if err := db.InitSchema(context.Background(), database, cfg.DBDriver); err != nil {
		database.Close()
		log.Fatalf("Error initializing database schema: %v", err)
	}

	store := db.NewStore(database, cfg.DBDriver)
	service := quiz.NewService(store)
	opts := routes.Options{
		Tokens:      middleware.NewTokenService([]byte(cfg.CSRFSecret)),
		DB:          store,
		CORSOrigins: cfg.CORSOrigins,
		PublicDir:   "./public",
	}
	if cfg.RedisAddr != "" {
		client := db.InitRedis(cfg.RedisAddr)
		defer client.Close()
		cache := db.NewRedisCategoryCache(client, cfg.CategoryCacheTTL)
		service.WithCategoryCache(cache)
		opts.Cache = cache
		log.Printf("Caching categories in Redis at %s", cfg.RedisAddr)
	}

	pages, err := templates.Load()
	if err != nil {
		database.Close()
		log.Fatalf("Error parsing templates: %v", err)
	}

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize router
	r := gin.New()
	r.Use(middleware.Logger(), gin.Recovery())
	r.SetHTMLTemplate(pages)

	// Setup routes
	routes.SetupRoutes(r, service, opts)

	// Run server
	srv := &http.Server{
		Addr:    cfg.Addr(),
		Handler: r,
	}

	go func() {
		log.Printf("Listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Println("Server forced to shutdown:", err)
	}
}

func runSetup(database *sql.DB, driver, seedPath string) error {
	seed, err := db.LoadSeedFile(seedPath)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	return db.Setup(ctx, database, driver, seed)
}
