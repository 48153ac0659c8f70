package ticketing

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/karma-bot/karma/pkg/custom"
	"github.com/karma-bot/karma/pkg/entities"
	"github.com/karma-bot/karma/pkg/logging"
	"github.com/karma-bot/karma/pkg/ticketing/monitoring"
)

// DefaultCloseTimeout bounds how long a close-with-reason request may wait
// for its form submission before the close is abandoned.
const DefaultCloseTimeout = 60 * time.Second

// channelNamePattern matches the deterministic ticket channel name,
// "<label>-<username>" after slugging.
var channelNamePattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)+$`)

var slugInvalid = regexp.MustCompile(`[^a-z0-9-]`)

// Controller is the ticket lifecycle state machine. All side effects go
// through the injected collaborators; the controller holds no channel
// references beyond the operation working on them.
type Controller struct {
	l            *slog.Logger
	channels     ChannelManager
	messenger    Messenger
	guilds       GuildStore
	tickets      TicketStore
	events       EventSink
	closeTimeout time.Duration

	// mtx guards pendingCloses. Keys are channelID + "|" + userID; a close
	// form is correlated by both.
	mtx           sync.Mutex
	pendingCloses map[string]*time.Timer
}

// NewController creates a new lifecycle controller.
func NewController(l *slog.Logger, channels ChannelManager, messenger Messenger, guilds GuildStore, tickets TicketStore, events EventSink) *Controller {
	return &Controller{
		l:             l.With(slog.String("component", "lifecycle")),
		channels:      channels,
		messenger:     messenger,
		guilds:        guilds,
		tickets:       tickets,
		events:        events,
		closeTimeout:  DefaultCloseTimeout,
		pendingCloses: make(map[string]*time.Timer),
	}
}

// SetCloseTimeout overrides the close-with-reason timeout.
func (c *Controller) SetCloseTimeout(d time.Duration) {
	c.closeTimeout = d
}

// channelSlug lowercases a name component and strips everything a channel
// name cannot carry.
func channelSlug(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, " ", "-")
	s = slugInvalid.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// ChannelName returns the deterministic name for a ticket channel.
func ChannelName(label, username string) string {
	return channelSlug(label) + "-" + channelSlug(username)
}

// TicketControls is the lifecycle control row sent with every welcome
// message.
func TicketControls() []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "Claim",
					Style:    discordgo.PrimaryButton,
					CustomID: ClaimButtonID,
				},
				discordgo.Button{
					Label:    "Close",
					Style:    discordgo.DangerButton,
					CustomID: CloseButtonID,
				},
				discordgo.Button{
					Label:    "Close w/ Reason",
					Style:    discordgo.SecondaryButton,
					CustomID: CloseReasonButtonID,
				},
			},
		},
	}
}

// Create opens a new ticket from a panel button press. The custom ID alone
// resolves the destination category; nothing is looked up from the pressing
// message. Repeated presses create independent channels unless the guild has
// opted into reuse.
func (c *Controller) Create(ctx context.Context, guildID, customID, userID, username string) (*entities.Ticket, error) {
	ref, ok := ParseButtonID(customID)
	if !ok {
		return nil, ErrInvalidButton
	}

	guild, err := c.guilds.GetGuildByID(ctx, guildID)
	if err != nil {
		return nil, err
	}

	if guild.Ticketing.ReuseOpenTickets {
		for {
			existing, err := c.tickets.GetOpenTicketByCreator(ctx, guildID, userID)
			if err != nil {
				return nil, err
			}
			if existing == nil {
				break
			}

			// The record is advisory; the channel decides whether the ticket
			// still exists.
			if _, err := c.channels.Channel(existing.ChannelID); err == nil {
				return existing, nil
			}

			// The backing channel is gone, so the record no longer describes
			// a ticket. Retire it, otherwise it keeps shadowing the creator's
			// live ticket on every later press.
			existing.State = entities.TicketStateClosed
			existing.ClosedAt = custom.Datetime(time.Now().UTC())
			if err := c.tickets.SaveTicket(ctx, existing); err != nil {
				return nil, err
			}
			c.l.Info("Retired stale open ticket record",
				slog.String(logging.KeyChannel, existing.ChannelID),
				slog.String(logging.KeyUser, userID))
		}
	}

	category, err := c.channels.Channel(ref.CategoryID)
	if err != nil || category.Type != discordgo.ChannelTypeGuildCategory {
		return nil, ErrInvalidCategory
	}

	overwrites := ComputeOverwrites(guildID, userID, guild.Ticketing.StaffRoleID)

	channel, err := c.channels.CreateChannel(guildID, discordgo.GuildChannelCreateData{
		Name:                 ChannelName(ref.Label, username),
		Type:                 discordgo.ChannelTypeGuildText,
		Topic:                fmt.Sprintf("Ticket created by %s", username),
		ParentID:             ref.CategoryID,
		PermissionOverwrites: overwrites,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: creating ticket channel: %v", ErrChannelOperation, err)
	}

	ticket := &entities.Ticket{
		GuildID:     guildID,
		ChannelID:   channel.ID,
		CreatorID:   userID,
		CreatorName: username,
		ButtonLabel: ref.Label,
		CategoryID:  ref.CategoryID,
		State:       entities.TicketStateOpen,
		CreatedAt:   custom.Datetime(time.Now().UTC()),
	}

	// The channel exists from here on. Everything below is best-effort; a
	// failure leaves a usable channel behind rather than rolling back.
	msg, err := c.messenger.SendMessage(channel.ID, &discordgo.MessageSend{
		Embed: &discordgo.MessageEmbed{
			Title:       "\U0001F3AB Ticket Opened",
			Description: fmt.Sprintf("Hey <@%s> \U0001F44B\nA staff member will assist you shortly.", userID),
			Color:       colorInfo,
		},
		Components: TicketControls(),
	})
	if err != nil {
		c.l.Warn("Error sending ticket welcome message",
			slog.String(logging.KeyChannel, channel.ID),
			slog.String(logging.KeyError, err.Error()))
	} else {
		ticket.WelcomeMessageID = msg.ID
	}

	if err := c.tickets.SaveTicket(ctx, ticket); err != nil {
		c.l.Warn("Error saving ticket record",
			slog.String(logging.KeyChannel, channel.ID),
			slog.String(logging.KeyError, err.Error()))
	}

	c.events.Emit(ctx, guildID, Event{
		Kind:         EventTicketOpened,
		GuildID:      guildID,
		ChannelID:    channel.ID,
		ActorID:      userID,
		CategoryName: category.Name,
	})

	return ticket, nil
}

// Claim grants the claiming staff member explicit access to the ticket.
// Re-claiming by the same user is a no-op; a different user replaces the
// prior claimant's individual grant. The creator's grant is never touched.
func (c *Controller) Claim(ctx context.Context, guildID, channelID, staffUserID string) error {
	ticket, err := c.ticketFor(ctx, guildID, channelID)
	if err != nil {
		return err
	}

	if ticket.ClaimedBy == staffUserID {
		return nil
	}

	if prior := ticket.ClaimedBy; prior != "" {
		if err := c.channels.DeleteOverwrite(channelID, prior); err != nil {
			c.l.Warn("Error revoking prior claimant's access",
				slog.String(logging.KeyChannel, channelID),
				slog.String(logging.KeyUser, prior),
				slog.String(logging.KeyError, err.Error()))
		}
	}

	if err := c.channels.SetOverwrite(channelID, staffUserID, discordgo.PermissionOverwriteTypeMember, ticketMemberPermissions, 0); err != nil {
		return fmt.Errorf("%w: granting claimant access: %v", ErrChannelOperation, err)
	}

	ticket.ClaimedBy = staffUserID
	ticket.State = entities.TicketStateClaimed
	if err := c.tickets.SaveTicket(ctx, ticket); err != nil {
		return err
	}

	c.events.Emit(ctx, guildID, Event{
		Kind:      EventTicketClaimed,
		GuildID:   guildID,
		ChannelID: channelID,
		ActorID:   staffUserID,
	})
	return nil
}

// Unclaim strips every individually granted member from the channel except
// the ticket creator, reverting anything claim or add-participant granted.
func (c *Controller) Unclaim(ctx context.Context, guildID, channelID, userID string) error {
	ticket, err := c.ticketFor(ctx, guildID, channelID)
	if err != nil {
		return err
	}

	channel, err := c.channels.Channel(channelID)
	if err != nil {
		return fmt.Errorf("%w: fetching channel: %v", ErrChannelOperation, err)
	}

	retained := ComputeUnclaimOverwrites(channel.PermissionOverwrites, ticket.CreatorID)
	keep := make(map[string]struct{}, len(retained))
	for _, ow := range retained {
		keep[ow.ID] = struct{}{}
	}

	for _, ow := range channel.PermissionOverwrites {
		if _, ok := keep[ow.ID]; ok {
			continue
		}
		if err := c.channels.DeleteOverwrite(channelID, ow.ID); err != nil {
			c.l.Warn("Error removing overwrite on unclaim",
				slog.String(logging.KeyChannel, channelID),
				slog.String(logging.KeyUser, ow.ID),
				slog.String(logging.KeyError, err.Error()))
		}
	}

	ticket.ClaimedBy = ""
	ticket.State = entities.TicketStateOpen
	if err := c.tickets.SaveTicket(ctx, ticket); err != nil {
		return err
	}

	c.events.Emit(ctx, guildID, Event{
		Kind:      EventTicketUnclaimed,
		GuildID:   guildID,
		ChannelID: channelID,
		ActorID:   userID,
	})
	return nil
}

// Close sends the closing message, deletes the backing channel and emits the
// closed event. Deletion is the last step; a failed closing message is logged
// and never blocks it.
func (c *Controller) Close(ctx context.Context, guildID, channelID, userID, reason string) error {
	ticket, err := c.ticketFor(ctx, guildID, channelID)
	if err != nil {
		return err
	}

	content := fmt.Sprintf("Ticket closed by <@%s>", userID)
	if reason != "" {
		content = fmt.Sprintf("Ticket closed by <@%s> with reason: %s", userID, reason)
	}
	if _, err := c.messenger.SendMessage(channelID, &discordgo.MessageSend{Content: content}); err != nil {
		c.l.Warn("Error sending closing message",
			slog.String(logging.KeyChannel, channelID),
			slog.String(logging.KeyError, err.Error()))
	}

	if err := c.channels.DeleteChannel(channelID); err != nil {
		return fmt.Errorf("%w: deleting ticket channel: %v", ErrChannelOperation, err)
	}

	ticket.State = entities.TicketStateClosed
	ticket.ClosedBy = userID
	ticket.CloseReason = reason
	ticket.ClosedAt = custom.Datetime(time.Now().UTC())
	if err := c.tickets.SaveTicket(ctx, ticket); err != nil {
		// The channel is already gone; the record is audit continuity only.
		c.l.Warn("Error saving closed ticket record",
			slog.String(logging.KeyChannel, channelID),
			slog.String(logging.KeyError, err.Error()))
	}

	c.events.Emit(ctx, guildID, Event{
		Kind:      EventTicketClosed,
		GuildID:   guildID,
		ChannelID: channelID,
		ActorID:   userID,
		Reason:    reason,
	})
	return nil
}

// BeginCloseWithReason suspends a close pending the reason form, bounded by
// the close timeout. On expiry the close is abandoned, the channel untouched.
func (c *Controller) BeginCloseWithReason(channelID, userID string) {
	key := channelID + "|" + userID

	c.mtx.Lock()
	defer c.mtx.Unlock()

	if timer, ok := c.pendingCloses[key]; ok {
		timer.Stop()
	}
	c.pendingCloses[key] = time.AfterFunc(c.closeTimeout, func() {
		c.expireClose(key, channelID)
	})
}

func (c *Controller) expireClose(key, channelID string) {
	c.mtx.Lock()
	_, ok := c.pendingCloses[key]
	delete(c.pendingCloses, key)
	c.mtx.Unlock()
	if !ok {
		return
	}

	monitoring.CloseReasonTimeouts.Inc()
	c.l.Info("Close request timed out", slog.String(logging.KeyChannel, channelID))

	if _, err := c.messenger.SendMessage(channelID, &discordgo.MessageSend{
		Content: "The close request timed out. The ticket has been left open.",
	}); err != nil {
		c.l.Warn("Error reporting close timeout",
			slog.String(logging.KeyChannel, channelID),
			slog.String(logging.KeyError, err.Error()))
	}
}

// CompleteCloseWithReason resolves a pending close with the captured reason.
// Returns ErrCloseTimedOut when the pending close already expired.
func (c *Controller) CompleteCloseWithReason(ctx context.Context, guildID, channelID, userID, reason string) error {
	key := channelID + "|" + userID

	c.mtx.Lock()
	timer, ok := c.pendingCloses[key]
	if ok {
		timer.Stop()
		delete(c.pendingCloses, key)
	}
	c.mtx.Unlock()

	if !ok {
		return ErrCloseTimedOut
	}

	return c.Close(ctx, guildID, channelID, userID, reason)
}

// Rename renames a ticket channel. Guarded so arbitrary channels cannot be
// renamed through the bot.
func (c *Controller) Rename(ctx context.Context, guildID, channelID, newName, userID string) error {
	if _, err := c.ticketFor(ctx, guildID, channelID); err != nil {
		return err
	}

	channel, err := c.channels.Channel(channelID)
	if err != nil {
		return fmt.Errorf("%w: fetching channel: %v", ErrChannelOperation, err)
	}
	if !channelNamePattern.MatchString(channel.Name) {
		return ErrNotATicketChannel
	}

	// The new name must keep the "<label>-<name>" shape the guard above
	// expects, or the ticket could never be renamed again.
	name := channelSlug(newName)
	if !channelNamePattern.MatchString(name) {
		return ErrInvalidName
	}

	if err := c.channels.RenameChannel(channelID, name); err != nil {
		return fmt.Errorf("%w: renaming channel: %v", ErrChannelOperation, err)
	}
	return nil
}

// AddParticipant grants an arbitrary user view and send access to the ticket
// without changing its lifecycle state. Unclaim revokes it again.
func (c *Controller) AddParticipant(ctx context.Context, guildID, channelID, targetUserID string) error {
	if _, err := c.ticketFor(ctx, guildID, channelID); err != nil {
		return err
	}

	if err := c.channels.SetOverwrite(channelID, targetUserID, discordgo.PermissionOverwriteTypeMember, ticketMemberPermissions, 0); err != nil {
		return fmt.Errorf("%w: granting participant access: %v", ErrChannelOperation, err)
	}
	return nil
}

// ticketFor resolves the ticket backing a channel, guarding every channel
// command. Closed tickets have no backing channel, so any interaction
// arriving for one is treated the same as a non-ticket channel.
func (c *Controller) ticketFor(ctx context.Context, guildID, channelID string) (*entities.Ticket, error) {
	ticket, err := c.tickets.GetTicket(ctx, guildID, channelID)
	if err != nil {
		return nil, err
	}
	if ticket == nil || ticket.State == entities.TicketStateClosed {
		return nil, ErrNotATicketChannel
	}
	return ticket, nil
}
