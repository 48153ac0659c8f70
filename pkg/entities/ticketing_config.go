package entities

// Field paths used with GuildDal.UpsertField. Each path addresses exactly one
// field of the ticketing configuration.
const (
	FieldStaffRole        = "ticketing.staff_role_id"
	FieldPanelChannel     = "ticketing.panel_channel_id"
	FieldPanelMessage     = "ticketing.panel_message_id"
	FieldLogChannel       = "ticketing.log_channel_id"
	FieldWebhookURL       = "ticketing.webhook_url"
	FieldReuseOpenTickets = "ticketing.reuse_open_tickets"
	FieldButtons          = "ticketing.buttons"
)

// TicketingConfig holds everything the ticketing system needs to know about a
// guild. All fields are independently upsertable.
type TicketingConfig struct {
	// StaffRoleID is the role granted standing visibility into tickets.
	StaffRoleID string `json:"staff_role_id" bson:"staff_role_id"`

	// PanelChannelID is the channel the panel message was published in.
	PanelChannelID string `json:"panel_channel_id" bson:"panel_channel_id"`

	// PanelMessageID is the published panel message. Creating a new panel
	// replaces this reference; buttons on the old message become orphaned.
	PanelMessageID string `json:"panel_message_id" bson:"panel_message_id"`

	// LogChannelID is the destination channel for audit messages.
	LogChannelID string `json:"log_channel_id" bson:"log_channel_id"`

	// WebhookURL is an alternate audit sink, used independently of the log
	// channel.
	WebhookURL string `json:"webhook_url" bson:"webhook_url"`

	// ReuseOpenTickets makes repeated presses by the same user resolve to
	// their existing open ticket instead of creating a fresh channel.
	ReuseOpenTickets bool `json:"reuse_open_tickets" bson:"reuse_open_tickets"`

	// Buttons are the buttons currently attached to the panel, in the order
	// they were added.
	Buttons []PanelButton `json:"buttons" bson:"buttons"`
}

// PanelButton is one button on the panel, bound to a destination category.
type PanelButton struct {
	// ID is the component custom ID. It encodes the label and category so an
	// interaction can be resolved without a lookup.
	ID string `json:"id" bson:"id"`

	// Label is the text shown on the button.
	Label string `json:"label" bson:"label"`

	// CategoryID is the parent category for channels spawned by this button.
	CategoryID string `json:"category_id" bson:"category_id"`
}
