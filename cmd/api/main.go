package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"constellationapi/internal/bootstrap"
	"constellationapi/internal/config"
	handlers "constellationapi/internal/http/handler"
	"constellationapi/internal/http/middleware"
	"constellationapi/internal/logging"
	appotel "constellationapi/internal/otel"
	"constellationapi/internal/secrets"
	"constellationapi/internal/service"
)

const shutdownTimeout = 10 * time.Second

// @title Constellation API
// @version 1.0
// @BasePath /
func main() {
	cfg := config.Load()
	loc := logging.LoadLocation(cfg.Timezone)
	log := logging.New(os.Stdout, loc, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := appotel.Init(ctx, log)
	if err != nil {
		log.WithError(err).Fatal("failed to initialize tracing")
	}

	// Credentials missing from the environment are pulled from the secret provider.
	secretStore, err := secrets.NewStore(cfg.Secrets)
	if err != nil {
		log.WithError(err).Fatal("failed to initialize secret store")
	}
	if err := secrets.Hydrate(ctx, secretStore, cfg); err != nil {
		log.WithError(err).Fatal("failed to resolve credentials")
	}

	repo, closeRepo, err := bootstrap.OpenRepository(ctx, cfg, log)
	if err != nil {
		log.WithError(err).Fatal("failed to open store")
	}

	svc := service.NewConstellationService(repo, log)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	promMiddleware, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		log.WithError(err).Fatal("failed to register metrics")
	}

	app := fiber.New(fiber.Config{
		ErrorHandler:          handlers.ErrorHandler(),
		DisableStartupMessage: true,
	})
	app.Use(middleware.RequestID())
	app.Use(otelfiber.Middleware())
	app.Use(promMiddleware.Handler())
	app.Use(middleware.Logger(log))

	handlers.ConfigureDocs(cfg.AppHost)
	handlers.RegisterRoutes(app, repo, svc, reg)

	go func() {
		<-ctx.Done()
		log.Info("shutting down")
		if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
			log.WithError(err).Error("http shutdown")
		}
	}()

	addr := ":" + cfg.Port
	log.WithField("addr", addr).Info("listening")
	if err := app.Listen(addr); err != nil {
		log.WithError(err).Error("server stopped")
	}

	if err := closeRepo(); err != nil {
		log.WithError(err).Error("close store")
	}
	flushCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := shutdownTracing(flushCtx); err != nil {
		log.WithError(err).Error("tracing shutdown")
	}
}
