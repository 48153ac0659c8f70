package ticketing

import (
	"context"
	"testing"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/karma-bot/karma/pkg/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type panelFixture struct {
	registry  *PanelRegistry
	channels  *fakeChannels
	messenger *fakeMessenger
	guilds    *memGuildStore
}

func newPanelFixture(t *testing.T) *panelFixture {
	t.Helper()

	channels := newFakeChannels()
	channels.addCategory("cat-1", "Support")

	guilds := newMemGuildStore()
	messenger := newFakeMessenger()

	return &panelFixture{
		registry:  NewPanelRegistry(testLogger(), guilds, channels, messenger),
		channels:  channels,
		messenger: messenger,
		guilds:    guilds,
	}
}

func TestPanelRegistry_CreatePanel(t *testing.T) {
	f := newPanelFixture(t)

	msg, err := f.registry.CreatePanel(context.Background(), "g1", "panel-chan", PanelEmbed{
		Title:       "Support",
		Description: "Press a button to open a ticket.",
	})
	require.NoError(t, err)

	guild, err := f.guilds.GetGuildByID(context.Background(), "g1")
	require.NoError(t, err)
	assert.Equal(t, "panel-chan", guild.Ticketing.PanelChannelID)
	assert.Equal(t, msg.ID, guild.Ticketing.PanelMessageID)
	assert.Empty(t, guild.Ticketing.Buttons)
}

func TestPanelRegistry_CreatePanel_Supersedes(t *testing.T) {
	f := newPanelFixture(t)

	first, err := f.registry.CreatePanel(context.Background(), "g1", "panel-chan", PanelEmbed{Title: "Old"})
	require.NoError(t, err)
	_, err = f.registry.AttachButton(context.Background(), "g1", "Billing", "cat-1")
	require.NoError(t, err)

	second, err := f.registry.CreatePanel(context.Background(), "g1", "panel-chan", PanelEmbed{Title: "New"})
	require.NoError(t, err)
	require.NotEqual(t, first.ID, second.ID)

	// At most one panel per guild; the old buttons are orphaned.
	guild, err := f.guilds.GetGuildByID(context.Background(), "g1")
	require.NoError(t, err)
	assert.Equal(t, second.ID, guild.Ticketing.PanelMessageID)
	assert.Empty(t, guild.Ticketing.Buttons)
}

func TestPanelRegistry_AttachButton_BeforePanel(t *testing.T) {
	f := newPanelFixture(t)

	_, err := f.registry.AttachButton(context.Background(), "g1", "Billing", "cat-1")
	require.ErrorIs(t, err, ErrPanelNotFound)
}

func TestPanelRegistry_AttachButton_InvalidCategory(t *testing.T) {
	f := newPanelFixture(t)

	_, err := f.registry.CreatePanel(context.Background(), "g1", "panel-chan", PanelEmbed{Title: "Support"})
	require.NoError(t, err)

	_, err = f.registry.AttachButton(context.Background(), "g1", "Billing", "missing")
	require.ErrorIs(t, err, ErrInvalidCategory)
}

func TestPanelRegistry_AttachButton(t *testing.T) {
	f := newPanelFixture(t)

	msg, err := f.registry.CreatePanel(context.Background(), "g1", "panel-chan", PanelEmbed{Title: "Support"})
	require.NoError(t, err)

	button, err := f.registry.AttachButton(context.Background(), "g1", "Billing", "cat-1")
	require.NoError(t, err)
	assert.Equal(t, "ticket_Billing_cat-1", button.ID)

	// A second button re-renders the panel preserving the first.
	f.channels.addCategory("cat-2", "Bugs")
	_, err = f.registry.AttachButton(context.Background(), "g1", "Bug Reports", "cat-2")
	require.NoError(t, err)

	rows := f.messenger.edited[msg.ID]
	require.Len(t, rows, 1)
	row, ok := rows[0].(discordgo.ActionsRow)
	require.True(t, ok)
	require.Len(t, row.Components, 2)

	first, ok := row.Components[0].(discordgo.Button)
	require.True(t, ok)
	assert.Equal(t, "Billing", first.Label)

	guild, err := f.guilds.GetGuildByID(context.Background(), "g1")
	require.NoError(t, err)
	require.Len(t, guild.Ticketing.Buttons, 2)
	assert.Equal(t, []entities.PanelButton{
		{ID: "ticket_Billing_cat-1", Label: "Billing", CategoryID: "cat-1"},
		{ID: "ticket_Bug-Reports_cat-2", Label: "Bug-Reports", CategoryID: "cat-2"},
	}, guild.Ticketing.Buttons)
}

func TestPanelRegistry_AttachButton_BlankLabel(t *testing.T) {
	f := newPanelFixture(t)

	_, err := f.registry.CreatePanel(context.Background(), "g1", "panel-chan", PanelEmbed{Title: "Support"})
	require.NoError(t, err)

	// A label with nothing left after sanitising would render a button whose
	// presses can never resolve.
	for _, label := range []string{"", "   ", "_", "_ _"} {
		_, err = f.registry.AttachButton(context.Background(), "g1", label, "cat-1")
		require.ErrorIs(t, err, ErrInvalidLabel)
	}

	guild, err := f.guilds.GetGuildByID(context.Background(), "g1")
	require.NoError(t, err)
	assert.Empty(t, guild.Ticketing.Buttons)
	assert.Empty(t, f.messenger.edited)
}

func TestPanelRegistry_AttachButton_DuplicateIsNoop(t *testing.T) {
	f := newPanelFixture(t)

	_, err := f.registry.CreatePanel(context.Background(), "g1", "panel-chan", PanelEmbed{Title: "Support"})
	require.NoError(t, err)

	_, err = f.registry.AttachButton(context.Background(), "g1", "Billing", "cat-1")
	require.NoError(t, err)
	_, err = f.registry.AttachButton(context.Background(), "g1", "Billing", "cat-1")
	require.NoError(t, err)

	guild, err := f.guilds.GetGuildByID(context.Background(), "g1")
	require.NoError(t, err)
	assert.Len(t, guild.Ticketing.Buttons, 1)
}
