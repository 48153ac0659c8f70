package ticketing

import (
	"context"
	"errors"
	"testing"

	"github.com/karma-bot/karma/pkg/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditDispatcher_BothSinks(t *testing.T) {
	guilds := newMemGuildStore()
	require.NoError(t, guilds.UpsertField(context.Background(), "g1", entities.FieldLogChannel, "log-chan"))
	require.NoError(t, guilds.UpsertField(context.Background(), "g1", entities.FieldWebhookURL, "https://example.com/hook"))

	messenger := newFakeMessenger()
	poster := &fakePoster{}
	d := NewAuditDispatcher(testLogger(), guilds, messenger, poster)

	d.Emit(context.Background(), "g1", Event{
		Kind:         EventTicketOpened,
		GuildID:      "g1",
		ChannelID:    "chan-1",
		ActorID:      "user-1",
		CategoryName: "Support",
	})

	sent := messenger.sentTo("log-chan")
	require.Len(t, sent, 1)
	require.NotNil(t, sent[0].msg.Embed)
	assert.Equal(t, colorInfo, sent[0].msg.Embed.Color)

	require.Len(t, poster.urls, 1)
	assert.Equal(t, "https://example.com/hook", poster.urls[0])
	payload, ok := poster.payloads[0].(webhookPayload)
	require.True(t, ok)
	require.Len(t, payload.Embeds, 1)
	assert.Equal(t, colorInfo, payload.Embeds[0].Color)
}

func TestAuditDispatcher_LogChannelFailureDoesNotBlockWebhook(t *testing.T) {
	guilds := newMemGuildStore()
	require.NoError(t, guilds.UpsertField(context.Background(), "g1", entities.FieldLogChannel, "log-chan"))
	require.NoError(t, guilds.UpsertField(context.Background(), "g1", entities.FieldWebhookURL, "https://example.com/hook"))

	messenger := newFakeMessenger()
	messenger.sendErr = errors.New("missing access")
	poster := &fakePoster{}
	d := NewAuditDispatcher(testLogger(), guilds, messenger, poster)

	d.Emit(context.Background(), "g1", Event{Kind: EventTicketClosed, GuildID: "g1", ChannelID: "chan-1", ActorID: "user-1"})

	assert.Len(t, poster.urls, 1)
}

func TestAuditDispatcher_WebhookFailureIsSwallowed(t *testing.T) {
	guilds := newMemGuildStore()
	require.NoError(t, guilds.UpsertField(context.Background(), "g1", entities.FieldWebhookURL, "https://example.com/hook"))

	poster := &fakePoster{err: errors.New("bad gateway")}
	d := NewAuditDispatcher(testLogger(), guilds, newFakeMessenger(), poster)

	// Emit has no error return; a failing webhook must not panic or retry.
	d.Emit(context.Background(), "g1", Event{Kind: EventTicketClaimed, GuildID: "g1", ChannelID: "chan-1", ActorID: "user-1"})

	assert.Len(t, poster.urls, 1)
}

func TestAuditDispatcher_NoSinksConfigured(t *testing.T) {
	messenger := newFakeMessenger()
	poster := &fakePoster{}
	d := NewAuditDispatcher(testLogger(), newMemGuildStore(), messenger, poster)

	d.Emit(context.Background(), "g1", Event{Kind: EventTicketOpened, GuildID: "g1", ChannelID: "chan-1", ActorID: "user-1"})

	assert.Empty(t, messenger.sentTo("log-chan"))
	assert.Empty(t, poster.urls)
}
