package discord

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/onnwee/quotecaster/quotes"
	"github.com/onnwee/quotecaster/telemetry"
)

// commandTimeout bounds the outbound work done for one interaction.
const commandTimeout = 15 * time.Second

// genericErrorReply is what users see for any failure that isn't their input.
const genericErrorReply = "Something went wrong, please try again later."

// Commands wires the slash-command surface to the quote store, avatar
// resolver, and publisher.
type Commands struct {
	client  *Client
	store   *quotes.Store
	avatars *quotes.Avatars
	pub     *Publisher
}

// NewCommands builds the command surface; call Register after the session is
// open.
func NewCommands(c *Client, store *quotes.Store, avatars *quotes.Avatars, pub *Publisher) *Commands {
	return &Commands{client: c, store: store, avatars: avatars, pub: pub}
}

// Register creates the guild-scoped slash commands and installs the
// interaction handler. The session must be open (command creation needs the
// application id from the READY payload).
func (c *Commands) Register(guildID string) error {
	defs := []*discordgo.ApplicationCommand{
		{
			Name:        "addquote",
			Description: "Add a quote to the collection",
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionString, Name: "text", Description: "The quote text", Required: true},
				{Type: discordgo.ApplicationCommandOptionString, Name: "avatar", Description: "Avatar name the quote is delivered under", Required: false},
			},
		},
		{Name: "quote", Description: "Post a random quote to this channel"},
		{Name: "avatars", Description: "List available avatar names"},
	}
	appID := c.client.s.State.User.ID
	for _, def := range defs {
		if _, err := c.client.s.ApplicationCommandCreate(appID, guildID, def); err != nil {
			return fmt.Errorf("register /%s: %w", def.Name, err)
		}
	}
	c.client.s.AddHandler(c.handleInteraction)
	slog.Info("slash commands registered", slog.String("guild_id", guildID), slog.Int("count", len(defs)))
	return nil
}

func (c *Commands) handleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}
	telemetry.IncCommand()
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	data := i.ApplicationCommandData()
	var reply string
	var err error
	switch data.Name {
	case "addquote":
		reply, err = c.addQuote(optString(data, "text"), optString(data, "avatar"))
	case "quote":
		reply, err = c.postQuote(ctx, i.ChannelID)
	case "avatars":
		reply = c.listAvatars()
	default:
		return
	}
	if err != nil {
		slog.Error("command failed", slog.String("command", data.Name), slog.Any("err", err))
		reply = userMessage(err)
	}
	c.respond(s, i, reply)
}

// addQuote validates the avatar name, appends the quote, and persists.
func (c *Commands) addQuote(text, avatar string) (string, error) {
	var avatarPtr *string
	if avatar != "" {
		if !quotes.ValidName(avatar) {
			return "", &quotes.ValidationError{Reason: "avatar names may only contain letters, digits, '_' and '-' (max 50)"}
		}
		if !c.avatars.Exists(avatar) {
			return "", &quotes.ValidationError{Reason: fmt.Sprintf("no avatar named %q exists", avatar)}
		}
		avatarPtr = &avatar
	}
	if err := c.store.Add(text, avatarPtr); err != nil {
		return "", err
	}
	if err := c.store.Persist(); err != nil {
		return "", err
	}
	return fmt.Sprintf("Quote added (%d total).", c.store.Len()), nil
}

// postQuote publishes a random quote to the invoking channel right away.
func (c *Commands) postQuote(ctx context.Context, channelID string) (string, error) {
	q, err := c.store.Random()
	if errors.Is(err, quotes.ErrNoQuotes) {
		return "No quotes available yet. Add one with /addquote.", nil
	}
	if err != nil {
		return "", err
	}
	name := ""
	if q.Avatar != nil {
		name = *q.Avatar
	}
	if err := c.pub.Publish(ctx, channelID, q, c.avatars.ResolveURL(name)); err != nil {
		return "", err
	}
	return "Quote posted.", nil
}

func (c *Commands) listAvatars() string {
	names := c.avatars.List()
	if len(names) == 0 {
		return "No avatars available."
	}
	return "Available avatars: " + strings.Join(names, ", ")
}

// userMessage maps an internal error onto the single line shown to the user.
// Validation failures carry their reason; everything else collapses to one
// generic message while the structured error stays in the logs.
func userMessage(err error) string {
	var ve *quotes.ValidationError
	if errors.As(err, &ve) {
		return "That didn't work: " + ve.Reason
	}
	return genericErrorReply
}

func (c *Commands) respond(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		slog.Warn("interaction respond failed", slog.Any("err", err))
	}
}

// optString returns the named string option or "".
func optString(data discordgo.ApplicationCommandInteractionData, name string) string {
	for _, opt := range data.Options {
		if opt.Name == name {
			return opt.StringValue()
		}
	}
	return ""
}
