package entities

// Guild is the per-guild configuration document. One document exists per
// guild, keyed by the guild ID.
type Guild struct {
	// ID is the ID of the guild.
	ID string `json:"id" bson:"id"`

	// Ticketing is the ticketing configuration.
	Ticketing TicketingConfig `json:"ticketing" bson:"ticketing"`
}

// NewGuild returns an empty configuration for the given guild. Every field of
// the ticketing configuration is optional, so the zero value is valid.
func NewGuild(id string) *Guild {
	return &Guild{ID: id}
}
