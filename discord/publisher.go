package discord

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/onnwee/quotecaster/quotes"
	"github.com/onnwee/quotecaster/telemetry"
)

// fallbackName is the display name used when a quote carries no avatar.
const fallbackName = "Quotes"

// DeliveryError reports a failed webhook creation or message send.
type DeliveryError struct {
	Stage string
	Err   error
}

func (e *DeliveryError) Error() string { return fmt.Sprintf("delivery (%s): %v", e.Stage, e.Err) }
func (e *DeliveryError) Unwrap() error { return e.Err }

// webhookAPI is the slice of the discordgo session the publisher needs;
// tests substitute a fake.
type webhookAPI interface {
	WebhookCreate(channelID, name, avatar string, options ...discordgo.RequestOption) (*discordgo.Webhook, error)
	WebhookExecute(webhookID, token string, wait bool, data *discordgo.WebhookParams, options ...discordgo.RequestOption) (*discordgo.Message, error)
	WebhookDelete(webhookID string, options ...discordgo.RequestOption) error
}

// Publisher posts quotes into a channel under a spoofed display identity.
// Each publish creates a uniquely named webhook, sends exactly one message
// through it with the per-message username/avatar override, and deletes the
// webhook again. The webhook never outlives the call: a lingering webhook
// would let anyone post under the configured identity.
type Publisher struct {
	api webhookAPI
}

// NewPublisher returns a publisher sending through the client's session.
func NewPublisher(c *Client) *Publisher { return &Publisher{api: c.s} }

// Publish delivers one quote to the channel. The display name is the quote's
// avatar name (or a fixed fallback) and the avatar is avatarURL when
// non-empty. Teardown runs on every exit path; its errors are logged but
// never returned, so they cannot mask the original failure.
func (p *Publisher) Publish(ctx context.Context, channelID string, q quotes.Quote, avatarURL string) error {
	ctx, span := telemetry.StartSpan(ctx, "discord-publisher", "publish quote",
		attribute.String("channel_id", channelID))
	defer span.End()

	name := fallbackName
	if q.Avatar != nil && *q.Avatar != "" {
		name = *q.Avatar
	}

	wh, err := p.api.WebhookCreate(channelID, "quotecaster-"+uuid.NewString(), "", discordgo.WithContext(ctx))
	if err != nil {
		telemetry.IncPublish(false, 0)
		derr := &DeliveryError{Stage: "create webhook", Err: err}
		telemetry.RecordError(span, derr)
		return derr
	}
	defer func() {
		// Teardown must happen even when ctx is already cancelled.
		if err := p.api.WebhookDelete(wh.ID, discordgo.WithContext(context.WithoutCancel(ctx))); err != nil {
			slog.Warn("webhook teardown failed", slog.String("webhook_id", wh.ID), slog.Any("err", err))
		}
	}()

	params := &discordgo.WebhookParams{Content: q.Text, Username: name}
	if avatarURL != "" {
		params.AvatarURL = avatarURL
	}
	start := time.Now()
	_, err = p.api.WebhookExecute(wh.ID, wh.Token, true, params, discordgo.WithContext(ctx))
	telemetry.IncPublish(err == nil, time.Since(start))
	if err != nil {
		derr := &DeliveryError{Stage: "execute webhook", Err: err}
		telemetry.RecordError(span, derr)
		return derr
	}
	return nil
}
