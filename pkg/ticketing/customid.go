package ticketing

import (
	"strings"
)

// Component custom IDs. The fixed controls carry a bare verb; panel buttons
// carry everything needed to open a ticket so that no registry lookup is
// required when they are pressed.
const (
	// ClaimButtonID is the custom ID of the claim control on a ticket.
	ClaimButtonID = "claim"

	// CloseButtonID is the custom ID of the immediate close control.
	CloseButtonID = "close"

	// CloseReasonButtonID is the custom ID of the close-with-reason control.
	CloseReasonButtonID = "close_reason"

	// CloseReasonModalID is the custom ID of the close reason form.
	CloseReasonModalID = "close_reason_modal"

	// PanelEmbedModalID is the custom ID of the panel embed form.
	PanelEmbedModalID = "panel_embed_modal"

	// openButtonPrefix prefixes every dynamically generated panel button.
	openButtonPrefix = "ticket"

	idSeparator = "_"
)

// ButtonRef is a parsed panel-button custom ID.
type ButtonRef struct {
	// Label is the button label, as sanitised at attach time.
	Label string

	// CategoryID is the destination category for spawned ticket channels.
	CategoryID string
}

// SanitizeLabel normalises a button label so the resulting custom ID can be
// split back into its fields. The separator character is reserved.
func SanitizeLabel(label string) string {
	label = strings.TrimSpace(label)
	label = strings.ReplaceAll(label, idSeparator, "-")
	label = strings.Join(strings.Fields(label), "-")
	return strings.Trim(label, "-")
}

// BuildButtonID encodes a label and destination category into a component
// custom ID of the form "ticket_<label>_<categoryID>".
func BuildButtonID(label, categoryID string) string {
	return strings.Join([]string{openButtonPrefix, SanitizeLabel(label), categoryID}, idSeparator)
}

// ParseButtonID reverses BuildButtonID. The second return is false for IDs
// that are not panel-button IDs; those are ignored by the router so stale
// controls from superseded panels fail soft.
func ParseButtonID(customID string) (ButtonRef, bool) {
	rest, ok := strings.CutPrefix(customID, openButtonPrefix+idSeparator)
	if !ok {
		return ButtonRef{}, false
	}

	// The label cannot contain the separator, so the last field is always the
	// category ID.
	label, categoryID, ok := strings.Cut(rest, idSeparator)
	if !ok || label == "" || categoryID == "" {
		return ButtonRef{}, false
	}

	return ButtonRef{
		Label:      label,
		CategoryID: categoryID,
	}, true
}
