package app

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/noah-isme/solvesync/internal/capture"
	"github.com/noah-isme/solvesync/internal/config"
	"github.com/noah-isme/solvesync/internal/database"
	"github.com/noah-isme/solvesync/internal/handler"
	"github.com/noah-isme/solvesync/internal/middleware"
	"github.com/noah-isme/solvesync/internal/observability"
	"github.com/noah-isme/solvesync/internal/repository"
	"github.com/noah-isme/solvesync/internal/router"
	"github.com/noah-isme/solvesync/internal/service"
	"github.com/noah-isme/solvesync/internal/utils"
	"github.com/noah-isme/solvesync/pkg/judge"
)

// Container holds the wired services of one running instance.
type Container struct {
	Config   config.Config
	Logger   zerolog.Logger
	Store    *database.Store
	Repo     repository.SolutionRepository
	Pipeline *capture.Pipeline
	Capture  service.CaptureService
	Settings service.ConfigService
	Push     service.PushService

	validate *validator.Validate
	nats     *nats.Conn
}

// New opens storage and builds the capture and push services.
func New(ctx context.Context, cfg config.Config, logger zerolog.Logger) (*Container, error) {
	observability.RegisterMetrics()

	store, err := database.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}

	c := &Container{
		Config:   cfg,
		Logger:   logger,
		Store:    store,
		Repo:     repository.NewSolutionRepository(store.KV),
		validate: utils.NewValidator(),
	}

	var publisher capture.Publisher
	if cfg.NATSURL != "" {
		conn, err := nats.Connect(cfg.NATSURL, nats.Name(cfg.AppName), nats.Timeout(5*time.Second))
		if err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("failed to connect to nats: %w", err)
		}
		c.nats = conn
		publisher = service.NewNATSPublisher(conn, cfg.NATSSubject, logger)
	}

	fetcher := service.NewJudgeMetadataFetcher(judge.NewClient(judge.Config{
		Endpoint: cfg.JudgeGraphQLURL,
		Timeout:  cfg.JudgeTimeout,
	}))

	c.Pipeline = capture.NewPipeline(c.Repo, fetcher, publisher, capture.Config{
		DedupWindow:      cfg.DedupWindow,
		StatsGuardWindow: cfg.StatsGuardWindow,
		RecentLimit:      cfg.RecentLimit,
		DOMThrottle:      cfg.DOMThrottle,
		DOMSettle:        cfg.DOMSettle,
		CodeTTL:          cfg.CodeTTL,
		Location:         cfg.Location,
	}, logger)

	c.Capture = service.NewCaptureService(c.Pipeline, c.Repo, c.validate, logger)
	c.Settings = service.NewConfigService(c.Repo, c.validate, logger)
	c.Push = service.NewPushService(c.Repo, service.NewGitHubWriterFactory(cfg.GitHubAPIURL), c.validate, logger)

	return c, nil
}

// HTTP builds the fiber application serving the capture API.
func (c *Container) HTTP() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      c.Config.AppName,
		ServerHeader: c.Config.AppName,
		BodyLimit:    8 * 1024 * 1024,
		Immutable:    true,
	})

	middleware.Register(app, middleware.Config{Logger: &c.Logger, AllowOrigins: c.Config.CORSOrigins})
	router.Register(app, c.Config, router.Dependencies{
		CaptureHandler:  handler.NewCaptureHandler(c.Capture, c.Logger),
		SolutionHandler: handler.NewSolutionHandler(c.Capture, c.Logger),
		ConfigHandler:   handler.NewConfigHandler(c.Settings, c.Logger),
		PushHandler:     handler.NewPushHandler(c.Push, c.Logger),
		PendingCount: func(ctx context.Context) (int, error) {
			pending, err := c.Repo.ListPending(ctx)
			return len(pending), err
		},
	})

	return app
}

// RunJanitor sweeps expired capture state until ctx is cancelled.
func (c *Container) RunJanitor(ctx context.Context) {
	c.Pipeline.RunJanitor(ctx, c.Config.JanitorInterval)
}

// Close stops the pipeline and releases connections.
func (c *Container) Close() error {
	if c.Pipeline != nil {
		c.Pipeline.Close()
	}
	if c.nats != nil {
		if err := c.nats.Drain(); err != nil {
			c.Logger.Warn().Err(err).Msg("nats drain failed")
		}
	}
	return c.Store.Close()
}
