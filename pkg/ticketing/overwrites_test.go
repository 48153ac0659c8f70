package ticketing

import (
	"testing"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeOverwrites(t *testing.T) {
	tests := []struct {
		name        string
		staffRoleID string
		wantLen     int
	}{
		{
			name:        "WithStaffRole",
			staffRoleID: "staff-role",
			wantLen:     3,
		},
		{
			name:        "NoStaffRole",
			staffRoleID: "",
			wantLen:     2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeOverwrites("guild-1", "creator-1", tt.staffRoleID)
			require.Len(t, got, tt.wantLen)

			// The default role is always denied view.
			assert.Equal(t, "guild-1", got[0].ID)
			assert.Equal(t, discordgo.PermissionOverwriteTypeRole, got[0].Type)
			assert.EqualValues(t, 0, got[0].Allow)
			assert.EqualValues(t, discordgo.PermissionViewChannel, got[0].Deny)

			// The creator is always granted view and send.
			assert.Equal(t, "creator-1", got[1].ID)
			assert.Equal(t, discordgo.PermissionOverwriteTypeMember, got[1].Type)
			assert.EqualValues(t, discordgo.PermissionViewChannel|discordgo.PermissionSendMessages, got[1].Allow)

			if tt.staffRoleID != "" {
				assert.Equal(t, tt.staffRoleID, got[2].ID)
				assert.Equal(t, discordgo.PermissionOverwriteTypeRole, got[2].Type)
				assert.EqualValues(t, discordgo.PermissionViewChannel|discordgo.PermissionSendMessages, got[2].Allow)
			}
		})
	}
}

func TestComputeUnclaimOverwrites(t *testing.T) {
	current := []*discordgo.PermissionOverwrite{
		{ID: "guild-1", Type: discordgo.PermissionOverwriteTypeRole, Deny: discordgo.PermissionViewChannel},
		{ID: "creator-1", Type: discordgo.PermissionOverwriteTypeMember, Allow: ticketMemberPermissions},
		{ID: "staff-role", Type: discordgo.PermissionOverwriteTypeRole, Allow: ticketMemberPermissions},
		{ID: "staff-member", Type: discordgo.PermissionOverwriteTypeMember, Allow: ticketMemberPermissions},
		{ID: "guest", Type: discordgo.PermissionOverwriteTypeMember, Allow: ticketMemberPermissions},
	}

	got := ComputeUnclaimOverwrites(current, "creator-1")
	require.Len(t, got, 3)

	ids := make([]string, 0, len(got))
	for _, ow := range got {
		ids = append(ids, ow.ID)
	}

	// The creator's grant and the role overwrites survive; every other
	// individually granted member is stripped.
	assert.Contains(t, ids, "creator-1")
	assert.Contains(t, ids, "guild-1")
	assert.Contains(t, ids, "staff-role")
	assert.NotContains(t, ids, "staff-member")
	assert.NotContains(t, ids, "guest")
}

func TestComputeUnclaimOverwrites_Empty(t *testing.T) {
	got := ComputeUnclaimOverwrites(nil, "creator-1")
	assert.Empty(t, got)
}
