package ticketing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildButtonID(t *testing.T) {
	tests := []struct {
		name       string
		label      string
		categoryID string
		want       string
	}{
		{
			name:       "Simple",
			label:      "Billing",
			categoryID: "123456",
			want:       "ticket_Billing_123456",
		},
		{
			name:       "LabelWithSpaces",
			label:      "Bug Reports",
			categoryID: "42",
			want:       "ticket_Bug-Reports_42",
		},
		{
			name:       "LabelWithSeparator",
			label:      "first_line",
			categoryID: "7",
			want:       "ticket_first-line_7",
		},
		{
			name:       "LabelWithEdgeSeparators",
			label:      "_Billing_",
			categoryID: "9",
			want:       "ticket_Billing_9",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BuildButtonID(tt.label, tt.categoryID)
			require.Equal(t, tt.want, got)

			// Every generated ID must be parseable without a lookup.
			ref, ok := ParseButtonID(got)
			require.True(t, ok)
			assert.Equal(t, tt.categoryID, ref.CategoryID)
			assert.Equal(t, SanitizeLabel(tt.label), ref.Label)
		})
	}
}

func TestParseButtonID_Rejects(t *testing.T) {
	tests := []struct {
		name string
		id   string
	}{
		{name: "FixedClaimControl", id: ClaimButtonID},
		{name: "FixedCloseControl", id: CloseButtonID},
		{name: "FixedCloseReasonControl", id: CloseReasonButtonID},
		{name: "Empty", id: ""},
		{name: "PrefixOnly", id: "ticket_"},
		{name: "MissingCategory", id: "ticket_Billing"},
		{name: "UnknownControl", id: "verify_user_1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := ParseButtonID(tt.id)
			assert.False(t, ok)
		})
	}
}
