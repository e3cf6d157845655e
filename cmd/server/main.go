package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/pillpal/pillpal/internal/catalog"
	"github.com/pillpal/pillpal/internal/config"
	"github.com/pillpal/pillpal/internal/es"
	"github.com/pillpal/pillpal/internal/handlers"
	"github.com/pillpal/pillpal/internal/logging"
	"github.com/pillpal/pillpal/internal/mykafka"
	"github.com/pillpal/pillpal/internal/recommend"
	"github.com/pillpal/pillpal/internal/service/token"
	"github.com/pillpal/pillpal/internal/session"
	httpserver "github.com/pillpal/pillpal/internal/transport/http"
)

func main() {
	configuration, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(configuration.LOG_LEVEL)

	db, err := config.InitDB(configuration)
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}

	if err := catalog.Seed(db); err != nil {
		log.Fatalf("catalog seed error: %v", err)
	}
	if err := handlers.SeedAccounts(db, configuration.ADMIN_EMAIL, configuration.ADMIN_PASSWORD); err != nil {
		log.Fatalf("account seed error: %v", err)
	}

	jwtSecret := []byte(configuration.JWT_SECRET)
	refreshSecret := []byte(configuration.REFRESH_SECRET)

	prod := mykafka.NewProducer([]string{configuration.KAFKA_ADDRESS})

	esClient, err := es.NewClient(configuration)
	if err != nil {
		log.Fatalf("elasticsearch error: %v", err)
	}

	var recommender recommend.Recommender
	if configuration.GEMINI_API_KEY != "" {
		recommender, err = recommend.NewGemini(context.Background(), configuration.GEMINI_API_KEY, configuration.GEMINI_MODEL)
		if err != nil {
			log.Fatalf("recommender error: %v", err)
		}
	} else {
		logger.Warn("GEMINI_API_KEY not set, recommendations disabled")
	}

	validate := validator.New()
	sessionStore := session.NewGormStore(db)
	registry := session.NewRegistry(sessionStore, configuration.ADMIN_EMAIL, logger)

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())

	deps := httpserver.Deps{
		Sessions:         registry,
		AuthHandler:      &handlers.AuthHandler{DB: db, JWTSecret: jwtSecret, RefreshSecret: refreshSecret, Producer: prod, Validate: validate},
		CatalogHandler:   &handlers.CatalogHandler{DB: db, Producer: prod, Validate: validate},
		CartHandler:      &handlers.CartHandler{DB: db, Producer: prod},
		AdminHandler:     &handlers.AdminHandler{DB: db},
		RecommendHandler: &handlers.RecommendHandler{Recommender: recommender, Validate: validate},
		SearchHandler:    &handlers.SearchHandler{ES: esClient, Index: "medicines"},
		TokenService:     &token.TokenService{DB: db, JWTSecret: jwtSecret, RefreshSecret: refreshSecret},
	}
	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         configuration.HTTP_ADDR,
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http server error: %v", err)
		}
	}()
	logger.Info("server started", "addr", configuration.HTTP_ADDR)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("db close error: %v", err)
		}
	} else {
		log.Printf("db() error: %v", err)
	}

	if err := prod.Close(); err != nil {
		log.Printf("kafka close error: %v", err)
	}

	logger.Info("shutdown complete")
}
