package ticketing

import (
	"context"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/karma-bot/karma/pkg/entities"
)

// ChannelManager is the channel-management collaborator. In production it is
// backed by the Discord session; tests inject fakes.
type ChannelManager interface {
	// Channel fetches a channel by ID.
	Channel(id string) (*discordgo.Channel, error)

	// CreateChannel creates a guild channel.
	CreateChannel(guildID string, data discordgo.GuildChannelCreateData) (*discordgo.Channel, error)

	// DeleteChannel deletes a channel. Irreversible.
	DeleteChannel(id string) error

	// RenameChannel renames a channel in place.
	RenameChannel(id, name string) error

	// SetOverwrite grants or denies permissions for one subject on a channel.
	SetOverwrite(channelID, subjectID string, subjectType discordgo.PermissionOverwriteType, allow, deny int64) error

	// DeleteOverwrite removes a subject's overwrite from a channel.
	DeleteOverwrite(channelID, subjectID string) error
}

// Messenger is the message-send collaborator.
type Messenger interface {
	// SendMessage sends a message to a channel.
	SendMessage(channelID string, msg *discordgo.MessageSend) (*discordgo.Message, error)

	// EditMessageComponents replaces the control rows on a message.
	EditMessageComponents(channelID, messageID string, components []discordgo.MessageComponent) error

	// Message fetches a message by channel and ID.
	Message(channelID, messageID string) (*discordgo.Message, error)
}

// GuildStore persists per-guild configuration. Implemented by the guild DAL.
type GuildStore interface {
	GetGuildByID(ctx context.Context, id string) (*entities.Guild, error)
	UpsertField(ctx context.Context, guildID string, path string, value any) error
	AppendPanelButton(ctx context.Context, guildID string, button entities.PanelButton) error
}

// TicketStore persists ticket records. Implemented by the ticket DAL.
type TicketStore interface {
	SaveTicket(ctx context.Context, ticket *entities.Ticket) error
	GetTicket(ctx context.Context, guildID, channelID string) (*entities.Ticket, error)
	GetOpenTicketByCreator(ctx context.Context, guildID, creatorID string) (*entities.Ticket, error)
}

// WebhookPoster delivers a JSON payload to a webhook URL. Fire-and-forget;
// errors are only ever logged.
type WebhookPoster interface {
	PostJSON(ctx context.Context, url string, payload any) error
}

// EventSink receives lifecycle events. Implemented by the audit dispatcher.
type EventSink interface {
	Emit(ctx context.Context, guildID string, event Event)
}
