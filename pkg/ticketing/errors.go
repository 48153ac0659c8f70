package ticketing

import "errors"

var (
	// ErrStoreUnavailable is returned when the configuration store cannot be
	// reached. The triggering command is aborted, nothing is retried.
	ErrStoreUnavailable = errors.New("configuration store unavailable")

	// ErrPanelNotFound is returned when no panel message is configured, or
	// the referenced message no longer exists.
	ErrPanelNotFound = errors.New("panel message not found")

	// ErrInvalidButton is returned when an interaction's custom ID cannot be
	// resolved to a panel button.
	ErrInvalidButton = errors.New("invalid ticket button")

	// ErrInvalidCategory is returned when a button's destination category
	// does not resolve to an existing category channel.
	ErrInvalidCategory = errors.New("invalid category")

	// ErrInvalidLabel is returned when a button label is empty once
	// sanitised. Such a label would encode an unparseable custom ID, leaving
	// a dead button on the panel.
	ErrInvalidLabel = errors.New("invalid button label")

	// ErrInvalidName is returned when a rename target does not slug to a
	// valid ticket channel name.
	ErrInvalidName = errors.New("invalid ticket channel name")

	// ErrNotATicketChannel is returned when a lifecycle operation targets a
	// channel that is not a ticket channel.
	ErrNotATicketChannel = errors.New("not a ticket channel")

	// ErrCloseTimedOut is returned when a close-with-reason form arrives
	// after the pending close has expired. The channel is left untouched.
	ErrCloseTimedOut = errors.New("close request timed out")

	// ErrChannelOperation is returned when the channel management
	// collaborator fails during create, delete or rename.
	ErrChannelOperation = errors.New("channel operation failed")
)
