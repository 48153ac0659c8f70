package ticketing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/karma-bot/karma/pkg/entities"
	"github.com/karma-bot/karma/pkg/logging"
)

// panelEmbedColor is the embed color of the published panel message.
const panelEmbedColor = 0x3498DB

// maxPanelButtons is the component limit of a single message (five rows of
// five buttons).
const maxPanelButtons = 25

// PanelEmbed is the content of the panel message, as captured from the panel
// form. Author and image are optional.
type PanelEmbed struct {
	Author      string
	Title       string
	Description string
	ImageURL    string
}

// PanelRegistry manages the panel message and the buttons attached to it.
// Each guild has at most one panel at a time; publishing a new one supersedes
// the previous message and orphans its buttons.
type PanelRegistry struct {
	l         *slog.Logger
	guilds    GuildStore
	channels  ChannelManager
	messenger Messenger
}

// NewPanelRegistry creates a new panel registry.
func NewPanelRegistry(l *slog.Logger, guilds GuildStore, channels ChannelManager, messenger Messenger) *PanelRegistry {
	return &PanelRegistry{
		l:         l.With(slog.String("component", "panel")),
		guilds:    guilds,
		channels:  channels,
		messenger: messenger,
	}
}

// CreatePanel publishes a new panel message in the given channel and records
// it as the guild's panel, replacing any prior reference. The button list is
// reset; buttons on the superseded message keep rendering but their presses
// resolve against the encoded category only.
func (p *PanelRegistry) CreatePanel(ctx context.Context, guildID, channelID string, content PanelEmbed) (*discordgo.Message, error) {
	embed := &discordgo.MessageEmbed{
		Title:       content.Title,
		Description: content.Description,
		Color:       panelEmbedColor,
	}
	if content.Author != "" {
		embed.Author = &discordgo.MessageEmbedAuthor{Name: content.Author}
	}
	if content.ImageURL != "" {
		embed.Image = &discordgo.MessageEmbedImage{URL: content.ImageURL}
	}

	msg, err := p.messenger.SendMessage(channelID, &discordgo.MessageSend{Embed: embed})
	if err != nil {
		return nil, fmt.Errorf("error publishing panel message: %w", err)
	}

	if err := p.guilds.UpsertField(ctx, guildID, entities.FieldPanelChannel, channelID); err != nil {
		return nil, err
	}
	if err := p.guilds.UpsertField(ctx, guildID, entities.FieldPanelMessage, msg.ID); err != nil {
		return nil, err
	}
	if err := p.guilds.UpsertField(ctx, guildID, entities.FieldButtons, []entities.PanelButton{}); err != nil {
		return nil, err
	}

	p.l.Info("Published new ticket panel",
		slog.String(logging.KeyGuild, guildID),
		slog.String(logging.KeyChannel, channelID))
	return msg, nil
}

// AttachButton validates the destination category, appends a button to the
// guild's panel and re-renders the panel's control rows, preserving the
// buttons attached before it.
func (p *PanelRegistry) AttachButton(ctx context.Context, guildID, label, categoryID string) (entities.PanelButton, error) {
	if SanitizeLabel(label) == "" {
		return entities.PanelButton{}, ErrInvalidLabel
	}

	guild, err := p.guilds.GetGuildByID(ctx, guildID)
	if err != nil {
		return entities.PanelButton{}, err
	}

	cfg := guild.Ticketing
	if cfg.PanelMessageID == "" || cfg.PanelChannelID == "" {
		return entities.PanelButton{}, ErrPanelNotFound
	}

	category, err := p.channels.Channel(categoryID)
	if err != nil || category.Type != discordgo.ChannelTypeGuildCategory {
		return entities.PanelButton{}, ErrInvalidCategory
	}

	if len(cfg.Buttons) >= maxPanelButtons {
		return entities.PanelButton{}, fmt.Errorf("panel already has %d buttons", maxPanelButtons)
	}

	button := entities.PanelButton{
		ID:         BuildButtonID(label, categoryID),
		Label:      SanitizeLabel(label),
		CategoryID: categoryID,
	}

	// IDs are unique within the guild; attaching the same label and category
	// twice is a no-op.
	for _, existing := range cfg.Buttons {
		if existing.ID == button.ID {
			return existing, nil
		}
	}

	// The panel message must still exist before anything is persisted.
	if _, err := p.messenger.Message(cfg.PanelChannelID, cfg.PanelMessageID); err != nil {
		var restErr *discordgo.RESTError
		if errors.As(err, &restErr) && restErr.Message != nil && restErr.Message.Code == discordgo.ErrCodeUnknownMessage {
			return entities.PanelButton{}, ErrPanelNotFound
		}
		return entities.PanelButton{}, fmt.Errorf("error fetching panel message: %w", err)
	}

	if err := p.guilds.AppendPanelButton(ctx, guildID, button); err != nil {
		return entities.PanelButton{}, err
	}

	rows := buttonRows(append(cfg.Buttons, button))
	if err := p.messenger.EditMessageComponents(cfg.PanelChannelID, cfg.PanelMessageID, rows); err != nil {
		return entities.PanelButton{}, fmt.Errorf("error re-rendering panel: %w", err)
	}

	p.l.Info("Attached panel button",
		slog.String(logging.KeyGuild, guildID),
		slog.String("button_id", button.ID))
	return button, nil
}

// buttonRows lays the panel buttons out in action rows of five.
func buttonRows(buttons []entities.PanelButton) []discordgo.MessageComponent {
	var rows []discordgo.MessageComponent
	for start := 0; start < len(buttons); start += 5 {
		end := start + 5
		if end > len(buttons) {
			end = len(buttons)
		}

		row := discordgo.ActionsRow{}
		for _, b := range buttons[start:end] {
			row.Components = append(row.Components, discordgo.Button{
				Label:    b.Label,
				Style:    discordgo.SuccessButton,
				CustomID: b.ID,
			})
		}
		rows = append(rows, row)
	}
	return rows
}
