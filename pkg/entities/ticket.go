package entities

import (
	"github.com/karma-bot/karma/pkg/custom"
)

// Ticket states. Closed is terminal.
const (
	TicketStateOpen    = "open"
	TicketStateClaimed = "claimed"
	TicketStateClosed  = "closed"
)

// Ticket records one support request. The channel is the ticket's identity;
// the document exists for claim tracking and audit continuity and is never
// authoritative over channel existence.
type Ticket struct {
	// GuildID is the ID of the guild that the ticket is in.
	GuildID string `json:"guild_id" bson:"guild_id"`

	// ChannelID is the ID of the channel backing the ticket.
	ChannelID string `json:"channel_id" bson:"channel_id"`

	// CreatorID is the ID of the user that opened the ticket.
	CreatorID string `json:"creator_id" bson:"creator_id"`

	// CreatorName is the username of the user that opened the ticket. It is
	// part of the channel name.
	CreatorName string `json:"creator_name" bson:"creator_name"`

	// ButtonLabel is the label of the panel button that spawned the ticket.
	ButtonLabel string `json:"button_label" bson:"button_label"`

	// CategoryID is the parent category the ticket channel was created under.
	CategoryID string `json:"category_id" bson:"category_id"`

	// WelcomeMessageID is the ID of the message carrying the lifecycle
	// controls.
	WelcomeMessageID string `json:"welcome_message_id" bson:"welcome_message_id"`

	// ClaimedBy is the ID of the staff member that claimed the ticket, if any.
	ClaimedBy string `json:"claimed_by" bson:"claimed_by"`

	// ClosedBy is the ID of the user that closed the ticket.
	ClosedBy string `json:"closed_by" bson:"closed_by"`

	// CloseReason is the captured reason, when the ticket was closed with one.
	CloseReason string `json:"close_reason" bson:"close_reason"`

	// State is one of open, claimed or closed.
	State string `json:"state" bson:"state"`

	// CreatedAt is the time that the ticket was opened.
	CreatedAt custom.Datetime `json:"created_at" bson:"created_at"`

	// ClosedAt is the time that the ticket was closed.
	ClosedAt custom.Datetime `json:"closed_at" bson:"closed_at"`
}
