// Package discord wraps the Discord gateway session, the webhook publisher
// used to post quotes under spoofed identities, and the slash-command surface.
package discord

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/bwmarrin/discordgo"
)

// ErrChannelNotFound is returned when the configured guild or channel is not
// visible to the session. Callers treat it as non-fatal: channel topology can
// change independently of the bot.
var ErrChannelNotFound = errors.New("destination channel not found")

// Client owns the gateway session and tracks its readiness.
type Client struct {
	s     *discordgo.Session
	ready atomic.Bool
}

// New creates a gateway client for the given bot token. The session is not
// opened yet; call Open.
func New(token string) (*Client, error) {
	if token == "" {
		return nil, fmt.Errorf("discord token empty")
	}
	s, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	s.Identify.Intents = discordgo.IntentsGuilds

	c := &Client{s: s}
	s.AddHandler(func(_ *discordgo.Session, _ *discordgo.Ready) { c.ready.Store(true) })
	s.AddHandler(func(_ *discordgo.Session, _ *discordgo.Resumed) { c.ready.Store(true) })
	s.AddHandler(func(_ *discordgo.Session, _ *discordgo.Disconnect) { c.ready.Store(false) })
	return c, nil
}

// Open connects to the gateway.
func (c *Client) Open() error { return c.s.Open() }

// Close disconnects from the gateway.
func (c *Client) Close() error {
	c.ready.Store(false)
	return c.s.Close()
}

// Ready reports whether the gateway handshake has completed and the session
// is currently connected.
func (c *Client) Ready() bool { return c.ready.Load() }

// ResolveChannel verifies that the guild is known to the session and that the
// channel belongs to it, returning the channel id to publish into.
func (c *Client) ResolveChannel(guildID, channelID string) (string, error) {
	if _, err := c.s.State.Guild(guildID); err != nil {
		return "", fmt.Errorf("guild %s: %w", guildID, ErrChannelNotFound)
	}
	ch, err := c.s.State.Channel(channelID)
	if err != nil || ch.GuildID != guildID {
		return "", fmt.Errorf("channel %s in guild %s: %w", channelID, guildID, ErrChannelNotFound)
	}
	return ch.ID, nil
}
