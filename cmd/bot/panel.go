package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/karma-bot/karma/pkg/messages"
	"github.com/karma-bot/karma/pkg/ticketing"
)

const (
	// panelCmdName is the command for publishing the ticket panel.
	panelCmdName = "panel"

	// buttonCmdName is the command for attaching a spawn button to the panel.
	buttonCmdName = "button"

	// nameCmdName is the text for the name option.
	nameCmdName = "name"

	// categoryCmdName is the text for the category option.
	categoryCmdName = "category"
)

// Panel form field IDs.
const (
	panelFieldAuthor      = "author"
	panelFieldTitle       = "title"
	panelFieldDescription = "description"
	panelFieldImage       = "image_url"
)

var (
	// panelCmd is the command for publishing the ticket panel. The panel is
	// published in the channel the command is executed in.
	panelCmd = &discordgo.ApplicationCommand{
		Name:        panelCmdName,
		Type:        discordgo.ChatApplicationCommand,
		Description: "This publishes the ticket panel in the channel the command is executed in.",
	}

	// buttonCmd is the command for attaching a spawn button to the panel.
	buttonCmd = &discordgo.ApplicationCommand{
		Name:        buttonCmdName,
		Type:        discordgo.ChatApplicationCommand,
		Description: "This attaches a button to the ticket panel.",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Name:        nameCmdName,
				Type:        discordgo.ApplicationCommandOptionString,
				Description: "This is the label of the button.",
				Required:    true,
			},
			{
				Name:        categoryCmdName,
				Type:        discordgo.ApplicationCommandOptionChannel,
				Description: "This is the category that tickets from this button are created under.",
				Required:    true,
			},
		},
	}
)

func panelCmdController(a IApp, i *discordgo.InteractionCreate) (commandProcessor, error) {
	ok, err := requireAdministrator(a, i)
	if err != nil || !ok {
		return nil, err
	}
	return panelCmdProcessor, nil
}

// panelCmdProcessor presents the panel embed form. The panel itself is
// published when the form is submitted.
func panelCmdProcessor(a IApp, i *discordgo.InteractionCreate) error {
	return a.Session().InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseModal,
		Data: &discordgo.InteractionResponseData{
			CustomID: ticketing.PanelEmbedModalID,
			Title:    "Ticket Panel",
			Components: []discordgo.MessageComponent{
				discordgo.ActionsRow{
					Components: []discordgo.MessageComponent{
						discordgo.TextInput{
							CustomID:  panelFieldAuthor,
							Label:     "Author",
							Style:     discordgo.TextInputShort,
							Required:  false,
							MaxLength: 256,
						},
					},
				},
				discordgo.ActionsRow{
					Components: []discordgo.MessageComponent{
						discordgo.TextInput{
							CustomID:  panelFieldTitle,
							Label:     "Title",
							Style:     discordgo.TextInputShort,
							Required:  true,
							MaxLength: 256,
						},
					},
				},
				discordgo.ActionsRow{
					Components: []discordgo.MessageComponent{
						discordgo.TextInput{
							CustomID:  panelFieldDescription,
							Label:     "Description",
							Style:     discordgo.TextInputParagraph,
							Required:  true,
							MaxLength: 4000,
						},
					},
				},
				discordgo.ActionsRow{
					Components: []discordgo.MessageComponent{
						discordgo.TextInput{
							CustomID:  panelFieldImage,
							Label:     "Image URL",
							Style:     discordgo.TextInputShort,
							Required:  false,
							MaxLength: 512,
						},
					},
				},
			},
		},
	})
}

// panelEmbedModalHandler publishes the panel from the submitted form.
func panelEmbedModalHandler(a IApp, i *discordgo.InteractionCreate) error {
	data := i.ModalSubmitData()

	content := ticketing.PanelEmbed{
		Author:      modalValue(data, panelFieldAuthor),
		Title:       modalValue(data, panelFieldTitle),
		Description: modalValue(data, panelFieldDescription),
		ImageURL:    modalValue(data, panelFieldImage),
	}

	msg, err := a.Panel().CreatePanel(context.Background(), i.GuildID, i.ChannelID, content)
	if err != nil {
		if errors.Is(err, ticketing.ErrStoreUnavailable) {
			return respondEphemeral(a, i, messages.ErrStoreUnavailable)
		}
		return fmt.Errorf("error creating panel: %w", err)
	}

	if err := respondEphemeral(a, i, fmt.Sprintf("Panel published in <#%s>. Attach buttons with `/button`.", msg.ChannelID)); err != nil {
		return fmt.Errorf("error responding to interaction: %w", err)
	}
	return nil
}

// modalValue extracts a field value from a submitted form.
func modalValue(m discordgo.ModalSubmitInteractionData, fieldID string) string {
	for _, comp := range m.Components {
		row, ok := comp.(*discordgo.ActionsRow)
		if !ok {
			continue
		}
		for _, c := range row.Components {
			if ti, ok := c.(*discordgo.TextInput); ok && ti.CustomID == fieldID {
				return ti.Value
			}
		}
	}
	return ""
}

func buttonCmdController(a IApp, i *discordgo.InteractionCreate) (commandProcessor, error) {
	ok, err := requireAdministrator(a, i)
	if err != nil || !ok {
		return nil, err
	}
	return buttonCmdProcessor, nil
}

func buttonCmdProcessor(a IApp, i *discordgo.InteractionCreate) error {
	opts := i.ApplicationCommandData().Options
	name := opts[0].StringValue()
	category := opts[1].ChannelValue(a.Session())

	button, err := a.Panel().AttachButton(context.Background(), i.GuildID, name, category.ID)
	switch {
	case errors.Is(err, ticketing.ErrInvalidLabel):
		return respondEphemeral(a, i, messages.ErrInvalidLabel)
	case errors.Is(err, ticketing.ErrPanelNotFound):
		return respondEphemeral(a, i, messages.ErrPanelNotFound)
	case errors.Is(err, ticketing.ErrInvalidCategory):
		return respondEphemeral(a, i, messages.ErrInvalidCategory)
	case errors.Is(err, ticketing.ErrStoreUnavailable):
		return respondEphemeral(a, i, messages.ErrStoreUnavailable)
	case err != nil:
		return fmt.Errorf("error attaching button: %w", err)
	}

	if err := respondEphemeral(a, i, fmt.Sprintf("Button **%s** added. Tickets will be created under **%s**.", button.Label, category.Name)); err != nil {
		return fmt.Errorf("error responding to interaction: %w", err)
	}
	return nil
}
