package ticketing

import (
	"github.com/Jacobbrewer1/discordgo"
)

// ticketMemberPermissions are the permissions granted to individual subjects
// of a ticket channel.
const ticketMemberPermissions = discordgo.PermissionViewChannel | discordgo.PermissionSendMessages

// ComputeOverwrites computes the full overwrite set for a fresh ticket
// channel. The guild's default role is denied view so the channel is hidden,
// the creator can view and send, and the staff role (when configured) can
// view and send. Claim and unclaim re-derive from this rather than
// accumulating ad hoc edits.
func ComputeOverwrites(guildID, creatorID, staffRoleID string) []*discordgo.PermissionOverwrite {
	overwrites := []*discordgo.PermissionOverwrite{
		// Deny @everyone from seeing the ticket.
		{
			ID:    guildID,
			Type:  discordgo.PermissionOverwriteTypeRole,
			Allow: 0,
			Deny:  discordgo.PermissionViewChannel,
		},
		// The creator of the ticket can see the ticket.
		{
			ID:    creatorID,
			Type:  discordgo.PermissionOverwriteTypeMember,
			Allow: ticketMemberPermissions,
			Deny:  0,
		},
	}

	if staffRoleID != "" {
		overwrites = append(overwrites, &discordgo.PermissionOverwrite{
			ID:    staffRoleID,
			Type:  discordgo.PermissionOverwriteTypeRole,
			Allow: ticketMemberPermissions,
			Deny:  0,
		})
	}

	return overwrites
}

// ComputeUnclaimOverwrites returns the overwrites to retain after an unclaim.
// Every individually granted member except the exempt user (the ticket
// creator) is stripped; role overwrites, including the staff role and the
// default-role denial, are untouched.
func ComputeUnclaimOverwrites(current []*discordgo.PermissionOverwrite, exemptUserID string) []*discordgo.PermissionOverwrite {
	retained := make([]*discordgo.PermissionOverwrite, 0, len(current))
	for _, ow := range current {
		if ow.Type == discordgo.PermissionOverwriteTypeMember && ow.ID != exemptUserID {
			continue
		}
		retained = append(retained, ow)
	}
	return retained
}
