package main

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"golang.org/x/sync/errgroup"

	shopassist "github.com/set-night/shopassist"
	"github.com/set-night/shopassist/internal/config"
	"github.com/set-night/shopassist/internal/handler"
	"github.com/set-night/shopassist/internal/middleware"
	"github.com/set-night/shopassist/internal/repository"
	"github.com/set-night/shopassist/internal/server"
	"github.com/set-night/shopassist/internal/service"
	"github.com/set-night/shopassist/internal/telegram"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Setup structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(logger)

	// Setup context with graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	blobs, closeBlobs, err := openBlobStore(ctx, cfg)
	if err != nil {
		slog.Error("failed to open blob storage", "error", err)
		os.Exit(1)
	}
	defer closeBlobs()

	if cfg.BackendURL == "" {
		slog.Warn("BACKEND_URL is not set, chat and transcription requests will fail")
	}

	// Initialize services
	workspaces := service.NewWorkspaces()
	dispatcher := service.NewDispatcher(service.NewAssistantClient(cfg.BackendURL))
	voice := service.NewVoicePipeline(blobs, service.NewTranscriptionClient(cfg.BackendURL), dispatcher)
	janitor := service.NewBlobJanitor(blobs, config.VoiceCategory, config.VoiceRetention)

	// Handler pointer for use in default handler closure
	var h *handler.Handler
	var tgLogger *telegram.TelegramLogger

	// Create bot
	opts := []bot.Option{
		bot.WithMiddlewares(
			middleware.Recover(reporterFunc(func(err error, where string) { tgLogger.LogError(err, where) })),
			middleware.Logging(),
			middleware.WorkspaceLoader(workspaces),
		),
		bot.WithDefaultHandler(func(ctx context.Context, b *bot.Bot, update *models.Update) {
			if h == nil {
				return
			}
			h.HandleDefault(ctx, b, update)
		}),
	}

	b, err := bot.New(cfg.BotToken, opts...)
	if err != nil {
		slog.Error("failed to create bot", "error", err)
		os.Exit(1)
	}

	// Get bot info
	me, err := b.GetMe(ctx)
	if err != nil {
		slog.Error("failed to get bot info", "error", err)
		os.Exit(1)
	}

	if cfg.DropPendingUpdates {
		if _, err := b.DeleteWebhook(ctx, &bot.DeleteWebhookParams{DropPendingUpdates: true}); err != nil {
			slog.Warn("failed to drop pending updates", "error", err)
		}
	}

	// Initialize telegram logger
	tgLogger = telegram.NewTelegramLogger(b, cfg)

	// Initialize handler
	h = handler.New(handler.Deps{
		Bot:        b,
		Cfg:        cfg,
		Workspaces: workspaces,
		Dispatcher: dispatcher,
		Voice:      voice,
		Blobs:      blobs,
		Catalog:    service.DefaultCatalog(),
		TgLogger:   tgLogger,
	})

	// Register all handlers
	h.Register()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return server.New(cfg.Port, blobs).Run(gctx)
	})

	g.Go(func() error {
		janitor.Run(gctx, config.VoiceCleanupPeriod)
		return nil
	})

	g.Go(func() error {
		slog.Info("starting bot", "username", me.Username, "id", me.ID, "admins", cfg.AdminIDsString())
		b.Start(gctx)
		return nil
	})

	if err := g.Wait(); err != nil {
		slog.Error("shutdown with error", "error", err)
		os.Exit(1)
	}

	// Graceful shutdown
	slog.Info("bot stopped gracefully")
}

// openBlobStore picks Postgres when DATABASE_URL is set and an in-memory
// store otherwise.
func openBlobStore(ctx context.Context, cfg *config.Config) (service.BlobStore, func(), error) {
	if cfg.DatabaseURL == "" {
		slog.Info("DATABASE_URL is not set, keeping blobs in memory")
		return repository.NewMemoryBlobStore(cfg.PublicURL), func() {}, nil
	}

	// Connect to database
	pool, err := repository.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}

	// Run migrations
	migrationsFS, err := fs.Sub(shopassist.MigrationsFS, "migrations")
	if err != nil {
		pool.Close()
		return nil, nil, err
	}
	if err := repository.RunMigrations(cfg.DatabaseURL, migrationsFS); err != nil {
		pool.Close()
		return nil, nil, err
	}

	return repository.NewPostgresBlobStore(pool, cfg.PublicURL), pool.Close, nil
}

type reporterFunc func(err error, where string)

func (f reporterFunc) LogError(err error, where string) { f(err, where) }
