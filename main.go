package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"courtagent/config"
	"courtagent/cron"
	"courtagent/database"
	venueRepoPkg "courtagent/database/repository/venue"
	"courtagent/handlers"
	"courtagent/middleware"
	"courtagent/models"
	"courtagent/routes"
	"courtagent/scanner"
	"courtagent/services/booking"
	ai "courtagent/services/intelligence"
	"courtagent/services/request"
	"courtagent/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()
	utils.InitSessionCache()

	// Resolve the active venue: the catalog wins over config defaults, and a
	// venue seen for the first time is seeded into the catalog.
	venueRepo := venueRepoPkg.NewMongoVenueRepo()
	venue := venueFromConfig(logger)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if stored, err := venueRepo.GetByID(ctx, venue.ID); err != nil {
		logger.Warn("venue catalog lookup failed, using config defaults", zap.Error(err))
	} else if stored != nil {
		venue = *stored
	} else if err := venueRepo.Upsert(ctx, venue); err != nil {
		logger.Warn("failed to seed venue catalog", zap.Error(err))
	}
	cancel()

	// One browser session backs both scanning and committing.
	session := scanner.New(venue.BookingURL, config.AppConfig.Headless,
		time.Duration(config.AppConfig.ScanTimeoutSec)*time.Second)
	defer session.Close()

	parser := request.NewParser(config.AppConfig.DefaultYear, venue.FlexibilityMins)

	var intentParser booking.IntentParser = parser
	var ranker booking.RankingStrategy
	if config.AppConfig.GeminiAPIKey != "" {
		gemini, err := ai.NewGeminiClient(context.Background(), config.AppConfig.GeminiAPIKey)
		if err != nil {
			logger.Warn("gemini unavailable, running deterministic only", zap.Error(err))
		} else {
			defer gemini.Close()
			ranker = ai.NewOracle(gemini)
			intentParser = ai.NewOracleParser(gemini, parser)
			logger.Info("gemini oracle enabled")
		}
	}

	sessions := booking.NewRedisSessionStore(utils.GetSessionCacheClient(), 10*time.Minute)
	engine := booking.NewDefaultBookingWorkflow(venue, session, session, intentParser, ranker, sessions)

	cron.InitAvailabilityWorker(engine)
	if err := cron.EnqueueRefresh("", time.Now().Add(time.Minute)); err != nil {
		logger.Warn("failed to enqueue initial availability refresh", zap.Error(err))
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(cors.Default())
	router.Use(middleware.RateLimitMiddleware())

	bookingHandler := handlers.NewBookingHandler(engine, engine, logger)
	venueHandler := handlers.NewVenueHandler(venueRepo)
	routes.RegisterRoutes(router, bookingHandler, venueHandler)

	srv := &http.Server{
		Addr:    ":" + config.AppConfig.AppPort,
		Handler: router,
	}

	go func() {
		logger.Info("server listening", zap.String("port", config.AppConfig.AppPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("forced shutdown", zap.Error(err))
	}
}

// venueFromConfig assembles the default venue from config values.
func venueFromConfig(logger *zap.Logger) models.VenueConfig {
	opening, err := models.ParseClock24(config.AppConfig.OpeningTime)
	if err != nil {
		logger.Fatal("invalid OPENING_TIME", zap.Error(err))
	}
	closing, err := models.ParseClock24(config.AppConfig.ClosingTime)
	if err != nil {
		logger.Fatal("invalid CLOSING_TIME", zap.Error(err))
	}
	if opening >= closing {
		logger.Fatal("opening time must be before closing time")
	}

	var durations []int
	for _, part := range strings.Split(config.AppConfig.AllowedDurations, ",") {
		d, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || d <= 0 {
			logger.Fatal("invalid ALLOWED_DURATIONS entry", zap.String("entry", part))
		}
		durations = append(durations, d)
	}

	return models.VenueConfig{
		ID:               config.AppConfig.VenueID,
		Name:             config.AppConfig.VenueID,
		BookingURL:       config.AppConfig.VenueURL,
		CourtCount:       config.AppConfig.CourtCount,
		OpeningMinutes:   opening,
		ClosingMinutes:   closing,
		AllowedDurations: durations,
		StepMinutes:      config.AppConfig.StepMinutes,
		ClusterTolerance: config.AppConfig.ClusterTolerance,
		FlexibilityMins:  config.AppConfig.FlexibilityMins,
		MaxAlternatives:  config.AppConfig.MaxAlternatives,
	}
}
