package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/nagarik-sahayak/sahayak/internal/config"
	"github.com/nagarik-sahayak/sahayak/internal/infra/database"
	"github.com/nagarik-sahayak/sahayak/internal/infra/memory"
	"github.com/nagarik-sahayak/sahayak/internal/infra/repository"
	"github.com/nagarik-sahayak/sahayak/internal/present/rest"
	restmiddleware "github.com/nagarik-sahayak/sahayak/internal/present/rest/middleware"
	"github.com/nagarik-sahayak/sahayak/internal/scheduler"
	"github.com/nagarik-sahayak/sahayak/internal/seed"
	"github.com/nagarik-sahayak/sahayak/internal/service"
	"github.com/nagarik-sahayak/sahayak/internal/usecase"
)

const serviceName = "sahayak"

var version = "dev"

func main() {
	configPath := flag.String("config", os.Getenv("SAHAYAK_CONFIG"), "path to the YAML config")
	flag.Parse()

	conf, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()), slog.String("module", "main"))
		os.Exit(1)
	}

	if err := run(conf); err != nil {
		slog.Error("server stopped", slog.String("error", err.Error()), slog.String("module", "main"))
		os.Exit(1)
	}
}

func run(conf config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if conf.Server.EnableTrace {
		cleanup, err := setupTraceProvider(conf.Server.TraceEndpoint, serviceName, version)
		if err != nil {
			return err
		}
		defer cleanup()
	}

	var repo usecase.IssueRepository
	switch conf.Server.Storage {
	case config.StoragePostgres:
		db, err := database.NewPostgres(conf.Server.PostgresDsn, database.PostgresOptions{})
		if err != nil {
			return err
		}
		err = database.MigratePostgres(db)
		if err != nil {
			return err
		}
		repo = repository.NewIssueRepository(db)
	default:
		repo = memory.NewStore()
	}

	if conf.Server.Seed {
		inserted, err := seed.Load(ctx, repo)
		if err != nil {
			return err
		}
		slog.Info("seeded issues", slog.Int("inserted", inserted), slog.String("module", "main"))
	}

	start, err := usecase.NextSequence(ctx, repo, seed.FirstFreeSequence)
	if err != nil {
		return err
	}

	var ids usecase.IDGenerator = memory.NewSequence(start)
	if conf.Server.MemcachedAddr != "" {
		mc, err := database.NewMemcached(conf.Server.MemcachedAddr, 0)
		if err != nil {
			return err
		}
		ids = repository.NewIssueSequence(mc, func(ctx context.Context) (int64, error) {
			return usecase.NextSequence(ctx, repo, seed.FirstFreeSequence)
		})
	}

	var publisher usecase.EventPublisher
	var subscriber rest.Subscriber
	if conf.Server.RedisAddr != "" {
		rdb, err := database.NewRedis(ctx, conf.Server.RedisAddr, conf.Server.RedisPassword, conf.Server.RedisDB)
		if err != nil {
			return err
		}
		defer rdb.Close()
		signals := service.NewSignalService(rdb, conf.Server.RedisChannel)
		publisher, subscriber = signals, signals
	} else {
		hub := service.NewHub()
		publisher, subscriber = hub, hub
	}

	sched := scheduler.NewReal()
	issues := usecase.NewIssueUsecase(repo, ids, publisher, sched)
	feedback := usecase.NewFeedbackUsecase(seed.Feedback())
	timeline := seed.Timeline()
	timeline.Duration = conf.Demo.Duration

	handler := rest.NewHandler(issues, feedback, timeline, subscriber, sched, rest.Options{
		Form: usecase.FormConfig{
			SubmitDelay: conf.Session.SubmitDelay,
			Tick:        conf.Session.Tick,
			AutoReset:   conf.Session.AutoReset,
		},
		SessionExpiry: conf.Session.Expiry,
	})
	defer handler.Close()

	e := echo.New()
	e.HideBanner = true
	e.Validator = rest.NewValidator()
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	if conf.Server.EnableTrace {
		e.Use(otelecho.Middleware(serviceName))
		e.Use(restmiddleware.Annotate)
	}
	handler.RegisterRoutes(e)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := e.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown failed", slog.String("error", err.Error()), slog.String("module", "main"))
		}
	}()

	slog.Info("listening", slog.String("addr", conf.Server.Listen), slog.String("storage", conf.Server.Storage), slog.String("module", "main"))
	err = e.Start(conf.Server.Listen)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func setupTraceProvider(endpoint string, serviceName string, serviceVersion string) (func(), error) {
	exporter, err := otlptracehttp.New(
		context.Background(),
		otlptracehttp.WithEndpoint(endpoint),
		otlptracehttp.WithInsecure(),
	)
	if err != nil {
		return nil, err
	}

	res := resource.NewSchemaless(
		attribute.String("service.name", serviceName),
		attribute.String("service.version", serviceVersion),
	)

	tracerProvider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(0.1))),
	)
	otel.SetTracerProvider(tracerProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))

	cleanup := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracerProvider.Shutdown(ctx); err != nil {
			slog.Error("failed to shutdown tracer provider", slog.String("error", err.Error()), slog.String("module", "main"))
		}
	}
	return cleanup, nil
}
