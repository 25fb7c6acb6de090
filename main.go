package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "geoloc193/docs"
	"geoloc193/internal/config"
	"geoloc193/internal/events"
	"geoloc193/internal/handler"
	"geoloc193/internal/mpostgres"
	"geoloc193/internal/pkg/gpostgresql"
	"geoloc193/internal/pkg/gredis"
	"geoloc193/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/useinsider/go-pkg/inslogger"
	"googlemaps.github.io/maps"
)

// @title geoloc193 API
// @version 1.0
// @description Emergency caller geolocation intake: SMS links, location capture, transcript and delivery reports.

// @host localhost:8080
// @BasePath /
func main() {
	logger := inslogger.NewLogger(inslogger.Debug)

	if err := run(logger); err != nil {
		logger.Error(err)
		os.Exit(1)
	}
}

func run(logger inslogger.Interface) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	pool, err := gpostgresql.NewDBConnection(ctx, &cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer gpostgresql.Close(pool, logger)

	if err := mpostgres.Migrate(ctx, pool); err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}

	var cache service.CacheClient
	redisClient, err := gredis.NewClient(&cfg.Redis, logger)
	if err != nil {
		logger.Warnf("Transcript cache disabled: %v", err)
	} else if redisClient != nil {
		defer redisClient.Close()
		cache = redisClient
	}

	publisher := service.NewNopPublisher()
	if cfg.EventsQueueURL != "" {
		sqsClient, err := events.NewSQSClient(ctx, cfg.AWSRegion)
		if err != nil {
			return err
		}
		publisher = events.NewPublisher(sqsClient, cfg.EventsQueueURL)
		logger.Logf("Publishing lifecycle events to %s", cfg.EventsQueueURL)
	}

	geocoder := service.NewNopGeocoder()
	if cfg.MapsAPIKey != "" {
		mapsClient, err := maps.NewClient(maps.WithAPIKey(cfg.MapsAPIKey))
		if err != nil {
			return fmt.Errorf("create maps client: %w", err)
		}
		geocoder = service.NewMapsGeocoder(mapsClient, cfg.GeocodingTimeout, cfg.GeocodingLang)
	}

	requestStore := mpostgres.NewRequestStore(pool)
	messageStore := mpostgres.NewMessageStore(pool)
	tokens := service.NewTokenService(cfg.LinkTTL)

	dispatcher := service.NewDispatcher(
		service.NewMessageSender(&cfg.SMSGatewayConfig),
		service.NewTemplateRotator(),
		service.NewLinkShortener(&cfg.ShortenerConfig, &cfg.LinkConfig),
		logger,
		service.DispatcherOptions{
			CountryCode:   cfg.CountryCode,
			PublicBaseURL: cfg.PublicBaseURL,
			Timeout:       cfg.GatewayTimeout,
		},
	)

	requests := service.NewRequestService(requestStore, tokens, dispatcher, geocoder, publisher, logger)
	transcript := service.NewTranscriptService(messageStore, requests, cache, cfg.Redis.CacheTTL, publisher, logger)
	reconciler := service.NewDeliveryReconciler(requestStore, tokens, publisher, logger)
	validate := handler.NewValidator()

	gin.SetMode(gin.ReleaseMode)
	router := &handler.Router{
		Requests:       handler.NewRequestHandler(requests, transcript, validate, logger),
		Public:         handler.NewPublicHandler(requests, transcript, cfg.MessagePollInterval, cfg.StatusPollInterval, validate, logger),
		Webhooks:       handler.NewWebhookHandler(reconciler, validate, logger),
		Health:         handler.NewHealthHandler(pool, logger),
		PublicLimiter:  handler.NewIPRateLimiter(cfg.PublicRatePerSecond, cfg.PublicBurst, time.Hour),
		AllowedOrigins: cfg.Server.AllowedOrigins,
		TrustedProxies: cfg.Server.TrustedProxies,
	}
	engine, err := router.Engine()
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Logf("Listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	logger.Log("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
