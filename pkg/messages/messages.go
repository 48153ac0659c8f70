package messages

const (
	// ErrUserErrorProcessing is sent when a command fails for an internal reason.
	ErrUserErrorProcessing = "Something went wrong processing your request, please try again."

	// ErrStoreUnavailable is sent when the configuration store cannot be reached.
	ErrStoreUnavailable = "The configuration store is unavailable right now, please try again shortly."

	// ErrNotATicketChannel is sent when a ticket command is used outside a ticket channel.
	ErrNotATicketChannel = "This command can only be used inside a ticket channel."

	// ErrPanelNotFound is sent when a button is added before a panel exists.
	ErrPanelNotFound = "No ticket panel was found. Create one with `/panel` first."

	// ErrInvalidCategory is sent when a button references a missing category.
	ErrInvalidCategory = "That category does not exist. Provide a valid category ID."

	// ErrInvalidLabel is sent when a button label is empty after sanitising.
	ErrInvalidLabel = "That button label is not usable. It needs at least one letter or number."

	// ErrInvalidName is sent when a rename target is not a usable ticket channel name.
	ErrInvalidName = "That name is not usable. Ticket channels are named like `label-name`."

	// ErrCloseTimedOut is sent when a close-with-reason form is submitted too late.
	ErrCloseTimedOut = "The close request timed out. The ticket has been left open."
)
