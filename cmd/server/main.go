package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/laskarj/theatre-api/internal/config"
	"github.com/laskarj/theatre-api/internal/database"
	"github.com/laskarj/theatre-api/internal/handler"
	"github.com/laskarj/theatre-api/internal/middleware"
	"github.com/laskarj/theatre-api/internal/queue"
	"github.com/laskarj/theatre-api/internal/repository"
	"github.com/laskarj/theatre-api/internal/router"
	"github.com/laskarj/theatre-api/migrations"
)

func main() {
	// .env is optional; deployments usually set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	if err := migrations.Up(db); err != nil {
		log.Fatalf("migrations: %v", err)
	}

	// Redis is optional: a nil client disables caching and rate limiting.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; cache and rate limiting disabled")
	}

	userRepo := repository.NewUserRepo(db)
	tokenRepo := repository.NewTokenRepo(db)
	genreRepo := repository.NewGenreRepo(db)
	artistRepo := repository.NewArtistRepo(db)
	hallRepo := repository.NewHallRepo(db)
	playRepo := repository.NewPlayRepo(db)
	performanceRepo := repository.NewPerformanceRepo(db)
	reservationRepo := repository.NewReservationRepo(db)

	authHandler := handler.NewAuthHandler(cfg, userRepo, tokenRepo)
	catalogHandler := handler.NewCatalogHandler(genreRepo, artistRepo, playRepo, hallRepo, performanceRepo)
	reservationHandler := handler.NewReservationHandler(reservationRepo, performanceRepo)

	e := echo.New()
	e.Validator = handler.NewValidator()
	e.Use(echomw.RequestID())
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	e.Use(middleware.NewRedisCache(config.LoadCacheConfig(), rdb))

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authHandler, cfg.JWTSecret)
	router.RegisterCatalog(e, catalogHandler, cfg.JWTSecret)
	router.RegisterReservations(e, reservationHandler, cfg.JWTSecret)

	if cfg.AMQPURL != "" {
		// The consumer keeps its own reconnect loop for the life of the
		// process.
		go func() { _ = queue.StartReservationConsumer() }()
	} else {
		log.Println("amqp not configured; reservation event consumer disabled")
	}

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
