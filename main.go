// Command quotecaster is the main entrypoint for the quote bot.
// It:
//   - Loads configuration and initializes structured logging.
//   - Loads the quote collection from its durable JSON file.
//   - Connects to the Discord gateway and registers the slash commands.
//   - Starts the autoquote scheduler when enabled.
//   - Exposes a minimal HTTP server with /healthz, /readyz, /metrics,
//     the quote collection, and the avatar assets.
//
// Shutdown is graceful on SIGINT/SIGTERM.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/onnwee/quotecaster/config"
	"github.com/onnwee/quotecaster/discord"
	"github.com/onnwee/quotecaster/quotes"
	"github.com/onnwee/quotecaster/scheduler"
	"github.com/onnwee/quotecaster/server"
	"github.com/onnwee/quotecaster/telemetry"
)

// stopGrace bounds how long shutdown waits for the scheduler loop to exit.
const stopGrace = 5 * time.Second

func main() {
	// Load .env file if present (local dev convenience only; production relies on real env)
	_ = godotenv.Load(".env")

	// Configure logging (level + format). Defaults: level=info, format=text.
	lvl := slog.LevelInfo
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	case "info", "":
		// keep default
	default:
		tmp := slog.New(slog.NewTextHandler(os.Stdout, nil))
		tmp.Warn("unknown LOG_LEVEL, using info", slog.String("value", os.Getenv("LOG_LEVEL")))
	}
	var handler slog.Handler
	switch strings.ToLower(os.Getenv("LOG_FORMAT")) {
	case "json":
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	default:
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	}
	slog.SetDefault(slog.New(handler))

	// Config
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", slog.Any("err", err))
		os.Exit(1)
	}

	// Metrics / telemetry init
	telemetry.Init()
	shutdownTracing, err := telemetry.InitTracing("quotecaster", "1.0.0")
	if err != nil {
		slog.Error("tracing initialization failed", slog.Any("err", err))
		os.Exit(1)
	}
	defer shutdownTracing()

	// Quote store and avatar resolver
	store := quotes.NewStore(cfg.QuotesFile)
	store.Load()
	avatars := &quotes.Avatars{Dir: cfg.AvatarDir, BaseURL: cfg.AvatarBaseURL, DefaultURL: cfg.DefaultAvatarURL}

	// Discord gateway
	client, err := discord.New(cfg.DiscordToken)
	if err != nil {
		slog.Error("discord client init failed", slog.Any("err", err))
		os.Exit(1)
	}
	if err := client.Open(); err != nil {
		slog.Error("discord gateway connect failed", slog.Any("err", err))
		os.Exit(1)
	}
	defer func() {
		if err := client.Close(); err != nil {
			slog.Error("discord gateway close failed", slog.Any("err", err))
		}
	}()

	publisher := discord.NewPublisher(client)

	// Slash commands (guild-scoped when a guild is configured)
	if cfg.AutoQuoteGuildID != "" {
		cmds := discord.NewCommands(client, store, avatars, publisher)
		if err := cmds.Register(cfg.AutoQuoteGuildID); err != nil {
			slog.Error("slash command registration failed", slog.Any("err", err))
		}
	} else {
		slog.Info("no guild configured; slash commands not registered")
	}

	// Root context with graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Autoquote scheduler
	enabled := cfg.AutoQuoteEnabled
	if enabled {
		if err := cfg.ValidateAutoQuoteReady(); err != nil {
			slog.Error("autoquote misconfigured; scheduler disabled", slog.Any("err", err))
			enabled = false
		}
	}
	job := scheduler.Start(ctx, scheduler.Options{
		Enabled:   enabled,
		Store:     store,
		Avatars:   avatars,
		Transport: client,
		Publisher: publisher,
		GuildID:   cfg.AutoQuoteGuildID,
		ChannelID: cfg.AutoQuoteChannelID,
		MinDelay:  cfg.AutoQuoteMinDelay,
		MaxDelay:  cfg.AutoQuoteMaxDelay,
	})

	// HTTP server (health/readiness/metrics/quotes/avatars)
	go func() {
		handlers := server.NewHandlers(store, avatars, client.Ready)
		if err := server.Start(ctx, handlers, cfg.HTTPAddr); err != nil {
			slog.Error("http server exited with error", slog.Any("err", err))
		}
	}()

	// Block until shutdown signal
	<-ctx.Done()
	slog.Info("shutting down")
	job.Stop(stopGrace)
}
