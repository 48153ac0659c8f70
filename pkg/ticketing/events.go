package ticketing

import "fmt"

// EventKind identifies a lifecycle event.
type EventKind string

const (
	EventTicketOpened    EventKind = "ticket_opened"
	EventTicketClaimed   EventKind = "ticket_claimed"
	EventTicketUnclaimed EventKind = "ticket_unclaimed"
	EventTicketClosed    EventKind = "ticket_closed"
)

// Embed colors for the audit sinks. Informational events are green, closes
// are red, matching the panel embeds users already see.
const (
	colorInfo  = 0x2ECC71
	colorAlert = 0xE74C3C
)

// Event is one lifecycle event, emitted by the controller and fanned out by
// the audit dispatcher.
type Event struct {
	// Kind is the lifecycle transition that happened.
	Kind EventKind

	// GuildID is the guild the ticket belongs to.
	GuildID string

	// ChannelID is the ticket channel.
	ChannelID string

	// ActorID is the user that triggered the transition.
	ActorID string

	// CategoryName is the destination category, set for opened events.
	CategoryName string

	// Reason is the captured close reason, when one was given.
	Reason string
}

// Title returns the embed title for the event.
func (e Event) Title() string {
	switch e.Kind {
	case EventTicketOpened:
		return "New Ticket Opened"
	case EventTicketClaimed:
		return "Ticket Claimed"
	case EventTicketUnclaimed:
		return "Ticket Unclaimed"
	case EventTicketClosed:
		return "Ticket Closed"
	}
	return string(e.Kind)
}

// Description returns the embed description for the event.
func (e Event) Description() string {
	switch e.Kind {
	case EventTicketOpened:
		return fmt.Sprintf("Ticket channel: <#%s>\nCategory: %s", e.ChannelID, e.CategoryName)
	case EventTicketClaimed:
		return fmt.Sprintf("Claimed by <@%s>", e.ActorID)
	case EventTicketUnclaimed:
		return fmt.Sprintf("Unclaimed by <@%s>", e.ActorID)
	case EventTicketClosed:
		if e.Reason != "" {
			return fmt.Sprintf("Closed by <@%s> with reason: %s", e.ActorID, e.Reason)
		}
		return fmt.Sprintf("Closed by <@%s>", e.ActorID)
	}
	return ""
}

// Color returns the embed color code for the event.
func (e Event) Color() int {
	if e.Kind == EventTicketClosed {
		return colorAlert
	}
	return colorInfo
}

// Content returns the plain-text line accompanying the embed.
func (e Event) Content() string {
	switch e.Kind {
	case EventTicketOpened:
		return fmt.Sprintf("Ticket created by <@%s> in category %s.", e.ActorID, e.CategoryName)
	case EventTicketClaimed:
		return fmt.Sprintf("Ticket claimed by <@%s>.", e.ActorID)
	case EventTicketUnclaimed:
		return fmt.Sprintf("Ticket unclaimed by <@%s>.", e.ActorID)
	case EventTicketClosed:
		return fmt.Sprintf("Ticket closed by <@%s>.", e.ActorID)
	}
	return ""
}
