package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/karma-bot/karma/pkg/entities"
)

const (
	// setupCmdName is the command for all configuration commands.
	setupCmdName = "setup"

	// initCmdName is the sub command that bootstraps ticketing for a guild.
	initCmdName = "init"

	// staffRoleCmdName is the sub command that points ticketing at an existing role.
	staffRoleCmdName = "staffrole"

	// reuseCmdName is the sub command that toggles open-ticket reuse.
	reuseCmdName = "reuse"

	// logChannelCmdName is the command for configuring the audit log channel.
	logChannelCmdName = "logchannel"

	// webhookCmdName is the command for configuring the audit webhook.
	webhookCmdName = "webhook"

	// roleCmdName is the text for the role option.
	roleCmdName = "role"

	// channelCmdName is the text for the channel option.
	channelCmdName = "channel"

	// enabledCmdName is the text for the enabled option.
	enabledCmdName = "enabled"

	// urlCmdName is the text for the url option.
	urlCmdName = "url"

	// staffRoleName is the name of the role created by the init sub command.
	staffRoleName = "Ticket Staff"
)

var (
	// setupCmd is the command for all configuration commands.
	setupCmd = &discordgo.ApplicationCommand{
		Name:        setupCmdName,
		Type:        discordgo.ChatApplicationCommand,
		Description: "This is the command for all configuration commands.",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Name:        initCmdName,
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Description: "This creates the staff role and enables ticketing for your server.",
			},
			{
				Name:        staffRoleCmdName,
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Description: "This sets an existing role as the ticket staff role.",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Name:        roleCmdName,
						Type:        discordgo.ApplicationCommandOptionRole,
						Description: "This is the role you want to handle tickets.",
						Required:    true,
					},
				},
			},
			{
				Name:        reuseCmdName,
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Description: "This toggles whether repeat panel presses reuse an open ticket.",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Name:        enabledCmdName,
						Type:        discordgo.ApplicationCommandOptionBoolean,
						Description: "Whether repeat presses should reuse the open ticket.",
						Required:    true,
					},
				},
			},
		},
	}

	// logChannelCmd is the command for configuring the audit log channel.
	logChannelCmd = &discordgo.ApplicationCommand{
		Name:        logChannelCmdName,
		Type:        discordgo.ChatApplicationCommand,
		Description: "This sets the channel that ticket lifecycle events are logged to.",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Name:        channelCmdName,
				Type:        discordgo.ApplicationCommandOptionChannel,
				Description: "This is the channel you want lifecycle events logged to.",
				Required:    true,
			},
		},
	}

	// webhookCmd is the command for configuring the audit webhook.
	webhookCmd = &discordgo.ApplicationCommand{
		Name:        webhookCmdName,
		Type:        discordgo.ChatApplicationCommand,
		Description: "This sets the webhook that ticket lifecycle events are posted to.",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Name:        urlCmdName,
				Type:        discordgo.ApplicationCommandOptionString,
				Description: "This is the webhook URL you want lifecycle events posted to.",
				Required:    true,
			},
		},
	}
)

// requireAdministrator responds ephemerally and returns false when the
// invoking member is not an administrator.
func requireAdministrator(a IApp, i *discordgo.InteractionCreate) (bool, error) {
	if i.Member.Permissions&discordgo.PermissionAdministrator != discordgo.PermissionAdministrator {
		if err := respondEphemeral(a, i, "You must be an administrator to use this command"); err != nil {
			return false, fmt.Errorf("error responding to interaction: %w", err)
		}
		return false, nil
	}
	return true, nil
}

func setupCmdController(a IApp, i *discordgo.InteractionCreate) (commandProcessor, error) {
	ok, err := requireAdministrator(a, i)
	if err != nil || !ok {
		return nil, err
	}

	// Extract the sub command.
	subCmd := i.ApplicationCommandData().Options[0].Name

	switch subCmd {
	case initCmdName:
		return initCmdProcessor, nil
	case staffRoleCmdName:
		return staffRoleCmdProcessor, nil
	case reuseCmdName:
		return reuseCmdProcessor, nil
	default:
		return nil, fmt.Errorf("unhandled sub command %s", subCmd)
	}
}

// initCmdProcessor creates the staff role and stores it against the guild.
func initCmdProcessor(a IApp, i *discordgo.InteractionCreate) error {
	mentionable := true
	role, err := a.Session().GuildRoleCreate(i.GuildID, &discordgo.RoleParams{
		Name:        staffRoleName,
		Mentionable: &mentionable,
	})
	if err != nil {
		return fmt.Errorf("error creating staff role: %w", err)
	}

	if err := a.GuildDal().UpsertField(context.Background(), i.GuildID, entities.FieldStaffRole, role.ID); err != nil {
		return fmt.Errorf("error saving staff role: %w", err)
	}

	if err := respondEphemeral(a, i, fmt.Sprintf("Ticketing is ready. Staff members need the <@&%s> role.", role.ID)); err != nil {
		return fmt.Errorf("error responding to interaction: %w", err)
	}
	return nil
}

// staffRoleCmdProcessor points ticketing at an existing role.
func staffRoleCmdProcessor(a IApp, i *discordgo.InteractionCreate) error {
	role := i.ApplicationCommandData().Options[0].Options[0].RoleValue(a.Session(), i.GuildID)

	if err := a.GuildDal().UpsertField(context.Background(), i.GuildID, entities.FieldStaffRole, role.ID); err != nil {
		return fmt.Errorf("error saving staff role: %w", err)
	}

	if err := respondEphemeral(a, i, fmt.Sprintf("Tickets will now be handled by <@&%s>", role.ID)); err != nil {
		return fmt.Errorf("error responding to interaction: %w", err)
	}
	return nil
}

// reuseCmdProcessor toggles whether repeat panel presses reuse an open ticket.
func reuseCmdProcessor(a IApp, i *discordgo.InteractionCreate) error {
	enabled := i.ApplicationCommandData().Options[0].Options[0].BoolValue()

	if err := a.GuildDal().UpsertField(context.Background(), i.GuildID, entities.FieldReuseOpenTickets, enabled); err != nil {
		return fmt.Errorf("error saving reuse setting: %w", err)
	}

	msg := "Repeat panel presses will now open independent tickets"
	if enabled {
		msg = "Repeat panel presses will now reuse the member's open ticket"
	}
	if err := respondEphemeral(a, i, msg); err != nil {
		return fmt.Errorf("error responding to interaction: %w", err)
	}
	return nil
}

func logChannelCmdController(a IApp, i *discordgo.InteractionCreate) (commandProcessor, error) {
	ok, err := requireAdministrator(a, i)
	if err != nil || !ok {
		return nil, err
	}
	return logChannelCmdProcessor, nil
}

func logChannelCmdProcessor(a IApp, i *discordgo.InteractionCreate) error {
	// Extract the channel provided.
	channel := i.ApplicationCommandData().Options[0].ChannelValue(a.Session())

	// Ensure the channel is a text channel.
	if channel.Type != discordgo.ChannelTypeGuildText {
		return respondEphemeral(a, i, "You must provide a text channel for the ticket log.")
	}

	if err := a.GuildDal().UpsertField(context.Background(), i.GuildID, entities.FieldLogChannel, channel.ID); err != nil {
		return fmt.Errorf("error saving log channel: %w", err)
	}

	if err := respondEphemeral(a, i, fmt.Sprintf("Ticket events will now be logged to <#%s>", channel.ID)); err != nil {
		return fmt.Errorf("error responding to interaction: %w", err)
	}
	return nil
}

func webhookCmdController(a IApp, i *discordgo.InteractionCreate) (commandProcessor, error) {
	ok, err := requireAdministrator(a, i)
	if err != nil || !ok {
		return nil, err
	}
	return webhookCmdProcessor, nil
}

func webhookCmdProcessor(a IApp, i *discordgo.InteractionCreate) error {
	url := i.ApplicationCommandData().Options[0].StringValue()

	if !strings.HasPrefix(url, "https://") {
		return respondEphemeral(a, i, "The webhook URL must start with `https://`.")
	}

	if err := a.GuildDal().UpsertField(context.Background(), i.GuildID, entities.FieldWebhookURL, url); err != nil {
		return fmt.Errorf("error saving webhook: %w", err)
	}

	if err := respondEphemeral(a, i, "Ticket events will now be posted to the webhook"); err != nil {
		return fmt.Errorf("error responding to interaction: %w", err)
	}
	return nil
}
