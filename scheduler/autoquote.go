// Package scheduler runs the autoquote job: a background loop that waits a
// randomized interval and then publishes a random quote to the configured
// channel. A failed iteration never terminates the loop; it is logged and
// followed by a fixed cooldown so a broken external dependency isn't hammered.
package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"time"

	"github.com/onnwee/quotecaster/quotes"
	"github.com/onnwee/quotecaster/telemetry"
)

// Transport is the slice of the gateway client the scheduler needs.
type Transport interface {
	Ready() bool
	ResolveChannel(guildID, channelID string) (string, error)
}

// Publisher delivers one quote under a resolved avatar URL.
type Publisher interface {
	Publish(ctx context.Context, channelID string, q quotes.Quote, avatarURL string) error
}

// test seams
var (
	readyPollInterval = 5 * time.Second
	errorCooldown     = time.Minute
)

// Options configures the autoquote job.
type Options struct {
	Enabled   bool
	Store     *quotes.Store
	Avatars   *quotes.Avatars
	Transport Transport
	Publisher Publisher
	GuildID   string
	ChannelID string
	MinDelay  time.Duration
	MaxDelay  time.Duration
}

// Job is a handle to the running loop.
type Job struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Start launches the autoquote loop. When disabled by configuration no
// goroutine is spawned and the returned handle is already stopped.
func Start(ctx context.Context, opts Options) *Job {
	j := &Job{done: make(chan struct{}), cancel: func() {}}
	if !opts.Enabled {
		slog.Info("autoquote disabled; scheduler not started")
		close(j.done)
		return j
	}
	if opts.MinDelay >= opts.MaxDelay {
		slog.Warn("autoquote delay window invalid; using min delay only",
			slog.Duration("min", opts.MinDelay), slog.Duration("max", opts.MaxDelay))
	}
	ctx, j.cancel = context.WithCancel(ctx)
	go j.run(ctx, opts)
	return j
}

// Stop cancels the loop and waits for it to observe the cancellation, bounded
// by grace. If the grace timeout elapses, Stop proceeds anyway.
func (j *Job) Stop(grace time.Duration) {
	j.cancel()
	select {
	case <-j.done:
	case <-time.After(grace):
		slog.Warn("autoquote stop grace elapsed; abandoning loop")
	}
}

func (j *Job) run(ctx context.Context, opts Options) {
	defer close(j.done)
	slog.Info("autoquote job starting",
		slog.Duration("min_delay", opts.MinDelay), slog.Duration("max_delay", opts.MaxDelay),
		slog.String("guild_id", opts.GuildID), slog.String("channel_id", opts.ChannelID))

	// Never publish before the gateway is connected.
	if !waitForReady(ctx, opts.Transport) {
		slog.Info("autoquote job stopped")
		return
	}

	for {
		if !sleepCtx(ctx, randomDelay(opts.MinDelay, opts.MaxDelay)) {
			slog.Info("autoquote job stopped")
			return
		}
		if err := publishOnce(ctx, opts); err != nil {
			slog.Error("autoquote publish failed; cooling down", slog.Any("err", err))
			telemetry.IncCooldown()
			if !sleepCtx(ctx, errorCooldown) {
				slog.Info("autoquote job stopped")
				return
			}
		}
	}
}

// publishOnce runs a single publish iteration. A missing channel or an empty
// store is a skipped cycle, not an error; only publish failures propagate
// (and trigger the cooldown).
func publishOnce(ctx context.Context, opts Options) error {
	channelID, err := opts.Transport.ResolveChannel(opts.GuildID, opts.ChannelID)
	if err != nil {
		slog.Error("autoquote destination unavailable", slog.Any("err", err))
		return nil
	}
	q, err := opts.Store.Random()
	if err != nil {
		if errors.Is(err, quotes.ErrNoQuotes) {
			slog.Info("autoquote skipped: no quotes available")
			return nil
		}
		return err
	}
	name := ""
	if q.Avatar != nil {
		name = *q.Avatar
	}
	return opts.Publisher.Publish(ctx, channelID, q, opts.Avatars.ResolveURL(name))
}

// waitForReady polls transport readiness until connected or ctx is done.
func waitForReady(ctx context.Context, tr Transport) bool {
	if tr.Ready() {
		return true
	}
	slog.Info("autoquote waiting for gateway connection")
	ticker := time.NewTicker(readyPollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return false
		case <-ticker.C:
			if tr.Ready() {
				slog.Info("autoquote gateway connected")
				return true
			}
		}
	}
}

// randomDelay draws a uniform integer number of seconds in [min, max]
// inclusive. An inverted window degrades to the minimum.
func randomDelay(min, max time.Duration) time.Duration {
	if min >= max {
		return min
	}
	spread := int64(max/time.Second) - int64(min/time.Second) + 1
	return min + time.Duration(rand.Int63n(spread))*time.Second
}

// sleepCtx waits d or until ctx is done; it reports whether the full wait
// elapsed.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
