package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/karma-bot/karma/pkg/logging"
	"github.com/karma-bot/karma/pkg/messages"
	"github.com/karma-bot/karma/pkg/ticketing"
)

const (
	// ticketCmdName is the command for controlling tickets.
	ticketCmdName = "ticket"

	// claimCmdName is the sub command for claiming a ticket.
	claimCmdName = "claim"

	// unclaimCmdName is the sub command for releasing a claimed ticket.
	unclaimCmdName = "unclaim"

	// closeCmdName is the sub command for closing a ticket.
	closeCmdName = "close"

	// renameCmdName is the sub command for renaming a ticket channel.
	renameCmdName = "rename"

	// addCmdName is the sub command for adding a member to a ticket.
	addCmdName = "add"

	// reasonCmdName is the text for the reason option.
	reasonCmdName = "reason"

	// userCmdName is the text for the user option.
	userCmdName = "user"

	// closeReasonField is the field ID of the reason input on the close form.
	closeReasonField = "reason"
)

var (
	// ticketCmd is the command for controlling tickets.
	ticketCmd = &discordgo.ApplicationCommand{
		Name:        ticketCmdName,
		Type:        discordgo.ChatApplicationCommand,
		Description: "This is the command for controlling tickets.",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Name:        claimCmdName,
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Description: "This claims the ticket for the channel that the command was executed in.",
			},
			{
				Name:        unclaimCmdName,
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Description: "This releases the claim on the ticket for the channel that the command was executed in.",
			},
			{
				Name:        closeCmdName,
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Description: "This closes the ticket for the channel that the command was executed in.",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Name:        reasonCmdName,
						Type:        discordgo.ApplicationCommandOptionString,
						Description: "This is the reason the ticket is being closed.",
						Required:    false,
					},
				},
			},
			{
				Name:        renameCmdName,
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Description: "This renames the ticket channel that the command was executed in.",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Name:        nameCmdName,
						Type:        discordgo.ApplicationCommandOptionString,
						Description: "This is the new name for the ticket channel.",
						Required:    true,
					},
				},
			},
			{
				Name:        addCmdName,
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Description: "This adds a member to the ticket for the channel that the command was executed in.",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Name:        userCmdName,
						Type:        discordgo.ApplicationCommandOptionUser,
						Description: "This is the member you want to add to the ticket.",
						Required:    true,
					},
				},
			},
		},
	}
)

func ticketCmdController(a IApp, i *discordgo.InteractionCreate) (commandProcessor, error) {
	// Extract the sub command.
	subCmd := i.ApplicationCommandData().Options[0].Name

	switch subCmd {
	case claimCmdName:
		return claimTicketHandler, nil
	case unclaimCmdName:
		return unclaimTicketHandler, nil
	case closeCmdName:
		return closeTicketCmdHandler, nil
	case renameCmdName:
		return renameTicketHandler, nil
	case addCmdName:
		return addTicketMemberHandler, nil
	default:
		return nil, fmt.Errorf("unhandled sub command %s", subCmd)
	}
}

// requireStaffRole responds ephemerally and returns false when the invoking
// member does not carry the configured staff role.
func requireStaffRole(a IApp, i *discordgo.InteractionCreate) (bool, error) {
	guild, err := a.GuildDal().GetGuildByID(context.Background(), i.GuildID)
	if err != nil {
		return false, fmt.Errorf("error getting guild configuration: %w", err)
	}

	if guild.Ticketing.StaffRoleID == "" {
		if err := respondEphemeral(a, i, "No staff role is configured. Run `/setup` first."); err != nil {
			return false, fmt.Errorf("error responding to interaction: %w", err)
		}
		return false, nil
	}

	// Get the member that executed the command.
	member, err := a.Session().GuildMember(i.GuildID, i.Member.User.ID)
	if err != nil {
		return false, fmt.Errorf("error getting member: %w", err)
	}

	if !hasRole(member, guild.Ticketing.StaffRoleID) {
		if err := respondEphemeral(a, i, "You do not have the staff role to manage tickets. [<@&"+guild.Ticketing.StaffRoleID+">]"); err != nil {
			return false, fmt.Errorf("error responding to interaction: %w", err)
		}
		return false, nil
	}
	return true, nil
}

// openTicketHandler creates a ticket from a panel button press. The button's
// custom ID carries everything needed; nothing is read from the panel message.
func openTicketHandler(a IApp, i *discordgo.InteractionCreate) error {
	customID := i.MessageComponentData().CustomID

	ticket, err := a.Tickets().Create(context.Background(), i.GuildID, customID, i.Member.User.ID, i.Member.User.Username)
	switch {
	case errors.Is(err, ticketing.ErrInvalidCategory):
		return respondEphemeral(a, i, messages.ErrInvalidCategory)
	case errors.Is(err, ticketing.ErrStoreUnavailable):
		return respondEphemeral(a, i, messages.ErrStoreUnavailable)
	case err != nil:
		return fmt.Errorf("error creating ticket: %w", err)
	}

	if err := respondEphemeral(a, i, fmt.Sprintf("Your ticket is ready: <#%s>", ticket.ChannelID)); err != nil {
		return fmt.Errorf("error responding to interaction: %w", err)
	}
	return nil
}

func claimTicketHandler(a IApp, i *discordgo.InteractionCreate) error {
	ok, err := requireStaffRole(a, i)
	if err != nil || !ok {
		return err
	}

	err = a.Tickets().Claim(context.Background(), i.GuildID, i.ChannelID, i.Member.User.ID)
	switch {
	case errors.Is(err, ticketing.ErrNotATicketChannel):
		return respondEphemeral(a, i, messages.ErrNotATicketChannel)
	case errors.Is(err, ticketing.ErrStoreUnavailable):
		return respondEphemeral(a, i, messages.ErrStoreUnavailable)
	case err != nil:
		return fmt.Errorf("error claiming ticket: %w", err)
	}

	// Announce the claim in the channel so the creator knows who has it.
	err = a.Session().InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: fmt.Sprintf("<@%s> has claimed this ticket.", i.Member.User.ID),
		},
	})
	if err != nil {
		return fmt.Errorf("error responding to interaction: %w", err)
	}
	return nil
}

func unclaimTicketHandler(a IApp, i *discordgo.InteractionCreate) error {
	ok, err := requireStaffRole(a, i)
	if err != nil || !ok {
		return err
	}

	err = a.Tickets().Unclaim(context.Background(), i.GuildID, i.ChannelID, i.Member.User.ID)
	switch {
	case errors.Is(err, ticketing.ErrNotATicketChannel):
		return respondEphemeral(a, i, messages.ErrNotATicketChannel)
	case errors.Is(err, ticketing.ErrStoreUnavailable):
		return respondEphemeral(a, i, messages.ErrStoreUnavailable)
	case err != nil:
		return fmt.Errorf("error releasing ticket: %w", err)
	}

	err = a.Session().InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: fmt.Sprintf("<@%s> has released this ticket.", i.Member.User.ID),
		},
	})
	if err != nil {
		return fmt.Errorf("error responding to interaction: %w", err)
	}
	return nil
}

// closeTicket closes the backing channel and acknowledges the interaction.
// The acknowledgement is best-effort; the channel the interaction came from no
// longer exists once the close has gone through.
func closeTicket(a IApp, i *discordgo.InteractionCreate, reason string) error {
	err := a.Tickets().Close(context.Background(), i.GuildID, i.ChannelID, i.Member.User.ID, reason)
	switch {
	case errors.Is(err, ticketing.ErrNotATicketChannel):
		return respondEphemeral(a, i, messages.ErrNotATicketChannel)
	case errors.Is(err, ticketing.ErrStoreUnavailable):
		return respondEphemeral(a, i, messages.ErrStoreUnavailable)
	case err != nil:
		return fmt.Errorf("error closing ticket: %w", err)
	}

	if err := respondEphemeral(a, i, "Ticket closed."); err != nil {
		a.Log().Debug("Could not acknowledge close, channel already deleted",
			slog.String(logging.KeyChannel, i.ChannelID),
			slog.String(logging.KeyError, err.Error()))
	}
	return nil
}

// closeTicketHandler is the close control on the ticket message.
func closeTicketHandler(a IApp, i *discordgo.InteractionCreate) error {
	return closeTicket(a, i, "")
}

// closeTicketCmdHandler is the close sub command, with an optional reason.
func closeTicketCmdHandler(a IApp, i *discordgo.InteractionCreate) error {
	reason := ""
	if opts := i.ApplicationCommandData().Options[0].Options; len(opts) > 0 {
		reason = opts[0].StringValue()
	}
	return closeTicket(a, i, reason)
}

// closeReasonHandler is the close-with-reason control. The close is suspended
// until the reason form comes back or the timeout expires.
func closeReasonHandler(a IApp, i *discordgo.InteractionCreate) error {
	a.Tickets().BeginCloseWithReason(i.ChannelID, i.Member.User.ID)

	return a.Session().InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseModal,
		Data: &discordgo.InteractionResponseData{
			CustomID: ticketing.CloseReasonModalID,
			Title:    "Close Ticket",
			Components: []discordgo.MessageComponent{
				discordgo.ActionsRow{
					Components: []discordgo.MessageComponent{
						discordgo.TextInput{
							CustomID:  closeReasonField,
							Label:     "Reason",
							Style:     discordgo.TextInputParagraph,
							Required:  true,
							MaxLength: 1000,
						},
					},
				},
			},
		},
	})
}

func closeReasonModalHandler(a IApp, i *discordgo.InteractionCreate) error {
	reason := modalValue(i.ModalSubmitData(), closeReasonField)

	err := a.Tickets().CompleteCloseWithReason(context.Background(), i.GuildID, i.ChannelID, i.Member.User.ID, reason)
	switch {
	case errors.Is(err, ticketing.ErrCloseTimedOut):
		return respondEphemeral(a, i, messages.ErrCloseTimedOut)
	case errors.Is(err, ticketing.ErrNotATicketChannel):
		return respondEphemeral(a, i, messages.ErrNotATicketChannel)
	case errors.Is(err, ticketing.ErrStoreUnavailable):
		return respondEphemeral(a, i, messages.ErrStoreUnavailable)
	case err != nil:
		return fmt.Errorf("error closing ticket: %w", err)
	}

	if err := respondEphemeral(a, i, "Ticket closed."); err != nil {
		a.Log().Debug("Could not acknowledge close, channel already deleted",
			slog.String(logging.KeyChannel, i.ChannelID),
			slog.String(logging.KeyError, err.Error()))
	}
	return nil
}

func renameTicketHandler(a IApp, i *discordgo.InteractionCreate) error {
	ok, err := requireStaffRole(a, i)
	if err != nil || !ok {
		return err
	}

	newName := i.ApplicationCommandData().Options[0].Options[0].StringValue()

	err = a.Tickets().Rename(context.Background(), i.GuildID, i.ChannelID, newName, i.Member.User.ID)
	switch {
	case errors.Is(err, ticketing.ErrInvalidName):
		return respondEphemeral(a, i, messages.ErrInvalidName)
	case errors.Is(err, ticketing.ErrNotATicketChannel):
		return respondEphemeral(a, i, messages.ErrNotATicketChannel)
	case errors.Is(err, ticketing.ErrStoreUnavailable):
		return respondEphemeral(a, i, messages.ErrStoreUnavailable)
	case err != nil:
		return fmt.Errorf("error renaming ticket: %w", err)
	}

	if err := respondEphemeral(a, i, "Ticket renamed."); err != nil {
		return fmt.Errorf("error responding to interaction: %w", err)
	}
	return nil
}

func addTicketMemberHandler(a IApp, i *discordgo.InteractionCreate) error {
	ok, err := requireStaffRole(a, i)
	if err != nil || !ok {
		return err
	}

	user := i.ApplicationCommandData().Options[0].Options[0].UserValue(a.Session())

	err = a.Tickets().AddParticipant(context.Background(), i.GuildID, i.ChannelID, user.ID)
	switch {
	case errors.Is(err, ticketing.ErrNotATicketChannel):
		return respondEphemeral(a, i, messages.ErrNotATicketChannel)
	case errors.Is(err, ticketing.ErrStoreUnavailable):
		return respondEphemeral(a, i, messages.ErrStoreUnavailable)
	case err != nil:
		return fmt.Errorf("error adding member to ticket: %w", err)
	}

	err = a.Session().InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: fmt.Sprintf("<@%s> has been added to this ticket.", user.ID),
		},
	})
	if err != nil {
		return fmt.Errorf("error responding to interaction: %w", err)
	}
	return nil
}
