package ticketing

import (
	"context"
	"log/slog"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/karma-bot/karma/pkg/logging"
	"github.com/karma-bot/karma/pkg/ticketing/monitoring"
)

// AuditDispatcher fans lifecycle events out to the guild's configured audit
// sinks: a log channel, an external webhook, or both. Delivery is best-effort
// and at-most-once; the two sinks are independent and neither failure reaches
// the user-facing operation that emitted the event.
type AuditDispatcher struct {
	l         *slog.Logger
	guilds    GuildStore
	messenger Messenger
	webhook   WebhookPoster
}

// NewAuditDispatcher creates a new audit dispatcher.
func NewAuditDispatcher(l *slog.Logger, guilds GuildStore, messenger Messenger, webhook WebhookPoster) *AuditDispatcher {
	return &AuditDispatcher{
		l:         l.With(slog.String("component", "audit")),
		guilds:    guilds,
		messenger: messenger,
		webhook:   webhook,
	}
}

// webhookPayload is the body posted to the external webhook. The shape is the
// standard webhook message format: a content line plus a single embed.
type webhookPayload struct {
	Content string         `json:"content"`
	Embeds  []webhookEmbed `json:"embeds"`
}

type webhookEmbed struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Color       int    `json:"color"`
}

// Emit delivers the event to every configured sink. The guild configuration
// is read fresh on every emit so sink changes take effect immediately.
func (d *AuditDispatcher) Emit(ctx context.Context, guildID string, event Event) {
	monitoring.TicketLifecycleEvents.WithLabelValues(string(event.Kind)).Inc()

	guild, err := d.guilds.GetGuildByID(ctx, guildID)
	if err != nil {
		d.l.Warn("Skipping audit delivery, could not read guild configuration",
			slog.String(logging.KeyGuild, guildID),
			slog.String(logging.KeyError, err.Error()))
		return
	}

	if logChannel := guild.Ticketing.LogChannelID; logChannel != "" {
		if _, err := d.messenger.SendMessage(logChannel, &discordgo.MessageSend{
			Embed: &discordgo.MessageEmbed{
				Title:       event.Title(),
				Description: event.Description(),
				Color:       event.Color(),
			},
		}); err != nil {
			monitoring.AuditDeliveryFailures.WithLabelValues("log_channel").Inc()
			d.l.Warn("Error sending audit message to log channel",
				slog.String(logging.KeyGuild, guildID),
				slog.String(logging.KeyChannel, logChannel),
				slog.String(logging.KeyError, err.Error()))
		}
	}

	if url := guild.Ticketing.WebhookURL; url != "" {
		payload := webhookPayload{
			Content: event.Content(),
			Embeds: []webhookEmbed{
				{
					Title:       event.Title(),
					Description: event.Description(),
					Color:       event.Color(),
				},
			},
		}
		if err := d.webhook.PostJSON(ctx, url, payload); err != nil {
			monitoring.AuditDeliveryFailures.WithLabelValues("webhook").Inc()
			d.l.Warn("Error posting audit event to webhook",
				slog.String(logging.KeyGuild, guildID),
				slog.String(logging.KeyError, err.Error()))
		}
	}
}
