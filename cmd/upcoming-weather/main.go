package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	httpapi "github.com/i474232898/upcoming-weather/internal/api/http"
	"github.com/i474232898/upcoming-weather/internal/config"
	"github.com/i474232898/upcoming-weather/internal/refresh"
	"github.com/i474232898/upcoming-weather/internal/scheduler"
	"github.com/i474232898/upcoming-weather/internal/store"
	"github.com/i474232898/upcoming-weather/internal/weather"
	"github.com/i474232898/upcoming-weather/internal/weather/providers"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.FetchTimeout,
	}

	loc := cfg.Location
	if cfg.GeocoderAPIKey != "" {
		resolved, err := providers.ResolveLocation(loc, providers.GoogleGeocoder(cfg.GeocoderAPIKey))
		if err != nil {
			log.Printf("ERROR: %v; using configured coordinates", err)
		} else {
			loc = resolved
		}
	}

	var provider weather.ForecastProvider
	switch cfg.ForecastProvider {
	case config.ProviderOpenMeteo:
		provider = providers.NewOpenMeteoProvider(httpClient, cfg.ForecastBaseURL, cfg.FetchMaxRetries)
	default:
		provider = providers.NewDarkSkyProvider(httpClient, cfg.ForecastAPIKey, cfg.ForecastBaseURL, cfg.FetchMaxRetries)
	}

	// The store owns the display state; everything else reads snapshots.
	st := store.New(store.Reduce)
	st.Subscribe(func(s store.AppState) {
		log.Printf("DEBUG: state: status=%s loading=%t days=%d", s.Status, s.IsLoading, len(s.UpcomingWeather))
	})

	service := refresh.NewService(provider, st, loc, refresh.Options{
		Timeout:          cfg.FetchTimeout,
		RecoverOnFailure: cfg.RecoverOnFetchFailure,
	})

	sched := scheduler.New(service, cfg.RefreshInterval)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	app := fiber.New(fiber.Config{
		AppName:               "upcoming-weather",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	app.Use(logger.New())
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "upcoming-weather",
		})
	})

	httpapi.RegisterRoutes(app, service, httpapi.SceneOptions{TimeZone: cfg.TimeZone})

	// Mount: load the forecast once at startup.
	go func() {
		if err := service.Refresh(context.Background()); err != nil {
			log.Printf("ERROR: initial forecast load failed: %v", err)
		}
	}()

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}
