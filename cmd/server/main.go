package main // Entry point package

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/favorite-places/internal/config"
	"github.com/iliyamo/favorite-places/internal/database"
	"github.com/iliyamo/favorite-places/internal/geo"
	"github.com/iliyamo/favorite-places/internal/handler"
	"github.com/iliyamo/favorite-places/internal/middleware"
	"github.com/iliyamo/favorite-places/internal/queue"
	"github.com/iliyamo/favorite-places/internal/repository"
	"github.com/iliyamo/favorite-places/internal/router"
	"github.com/iliyamo/favorite-places/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using process environment")
	}
	cfg := config.Load() // Load environment config

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	if err := database.EnsureSchema(context.Background(), db); err != nil {
		log.Fatalf("database: %v", err)
	}

	rdb := config.NewRedisClient() // nil when Redis is unreachable
	if rdb == nil {
		log.Println("redis unavailable, rate limiting disabled")
	}

	resolver := geo.NewClient(cfg.GeocoderBaseURL, cfg.GeocoderTimeout)
	publisher := queue.NewPublisher()
	svc := service.NewPlaceService(repository.NewPlaceRepo(db), resolver, publisher)

	// Out-of-band consumer appending change events to logs/places.log.
	go func() {
		if err := queue.StartEventConsumer(); err != nil {
			log.Printf("event consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	router.RegisterRoutes(e)
	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	router.RegisterPlaces(e, handler.NewPlaceHandler(svc), limiter)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil { // Start HTTP server
		log.Fatal(err)
	}
}
