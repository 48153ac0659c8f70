package ticketing

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/karma-bot/karma/pkg/entities"
)

// fakeChannels is an in-memory ChannelManager.
type fakeChannels struct {
	mtx      sync.Mutex
	nextID   int
	channels map[string]*discordgo.Channel

	deleted []string
	renamed map[string]string

	createErr error
	deleteErr error
}

func newFakeChannels() *fakeChannels {
	return &fakeChannels{
		channels: make(map[string]*discordgo.Channel),
		renamed:  make(map[string]string),
	}
}

func (f *fakeChannels) addCategory(id, name string) {
	f.channels[id] = &discordgo.Channel{ID: id, Name: name, Type: discordgo.ChannelTypeGuildCategory}
}

func (f *fakeChannels) Channel(id string) (*discordgo.Channel, error) {
	f.mtx.Lock()
	defer f.mtx.Unlock()
	ch, ok := f.channels[id]
	if !ok {
		return nil, errors.New("unknown channel")
	}
	return ch, nil
}

func (f *fakeChannels) CreateChannel(guildID string, data discordgo.GuildChannelCreateData) (*discordgo.Channel, error) {
	f.mtx.Lock()
	defer f.mtx.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.nextID++
	ch := &discordgo.Channel{
		ID:                   fmt.Sprintf("chan-%d", f.nextID),
		GuildID:              guildID,
		Name:                 data.Name,
		Type:                 data.Type,
		ParentID:             data.ParentID,
		PermissionOverwrites: data.PermissionOverwrites,
	}
	f.channels[ch.ID] = ch
	return ch, nil
}

func (f *fakeChannels) DeleteChannel(id string) error {
	f.mtx.Lock()
	defer f.mtx.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.channels, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeChannels) RenameChannel(id, name string) error {
	f.mtx.Lock()
	defer f.mtx.Unlock()
	ch, ok := f.channels[id]
	if !ok {
		return errors.New("unknown channel")
	}
	ch.Name = name
	f.renamed[id] = name
	return nil
}

func (f *fakeChannels) SetOverwrite(channelID, subjectID string, subjectType discordgo.PermissionOverwriteType, allow, deny int64) error {
	f.mtx.Lock()
	defer f.mtx.Unlock()
	ch, ok := f.channels[channelID]
	if !ok {
		return errors.New("unknown channel")
	}
	for _, ow := range ch.PermissionOverwrites {
		if ow.ID == subjectID {
			ow.Type = subjectType
			ow.Allow = allow
			ow.Deny = deny
			return nil
		}
	}
	ch.PermissionOverwrites = append(ch.PermissionOverwrites, &discordgo.PermissionOverwrite{
		ID:    subjectID,
		Type:  subjectType,
		Allow: allow,
		Deny:  deny,
	})
	return nil
}

func (f *fakeChannels) DeleteOverwrite(channelID, subjectID string) error {
	f.mtx.Lock()
	defer f.mtx.Unlock()
	ch, ok := f.channels[channelID]
	if !ok {
		return errors.New("unknown channel")
	}
	kept := ch.PermissionOverwrites[:0]
	for _, ow := range ch.PermissionOverwrites {
		if ow.ID != subjectID {
			kept = append(kept, ow)
		}
	}
	ch.PermissionOverwrites = kept
	return nil
}

func (f *fakeChannels) overwriteFor(channelID, subjectID string) *discordgo.PermissionOverwrite {
	f.mtx.Lock()
	defer f.mtx.Unlock()
	ch, ok := f.channels[channelID]
	if !ok {
		return nil
	}
	for _, ow := range ch.PermissionOverwrites {
		if ow.ID == subjectID {
			return ow
		}
	}
	return nil
}

// sentMessage records one SendMessage call.
type sentMessage struct {
	channelID string
	msg       *discordgo.MessageSend
}

// fakeMessenger is an in-memory Messenger.
type fakeMessenger struct {
	mtx    sync.Mutex
	nextID int
	sent   []sentMessage
	edited map[string][]discordgo.MessageComponent

	messages map[string]*discordgo.Message

	sendErr  error
	fetchErr error
}

func newFakeMessenger() *fakeMessenger {
	return &fakeMessenger{
		edited:   make(map[string][]discordgo.MessageComponent),
		messages: make(map[string]*discordgo.Message),
	}
}

func (f *fakeMessenger) SendMessage(channelID string, msg *discordgo.MessageSend) (*discordgo.Message, error) {
	f.mtx.Lock()
	defer f.mtx.Unlock()
	if f.sendErr != nil {
		return nil, f.sendErr
	}
	f.nextID++
	m := &discordgo.Message{ID: fmt.Sprintf("msg-%d", f.nextID), ChannelID: channelID}
	f.sent = append(f.sent, sentMessage{channelID: channelID, msg: msg})
	f.messages[m.ID] = m
	return m, nil
}

func (f *fakeMessenger) EditMessageComponents(channelID, messageID string, components []discordgo.MessageComponent) error {
	f.mtx.Lock()
	defer f.mtx.Unlock()
	f.edited[messageID] = components
	return nil
}

func (f *fakeMessenger) Message(channelID, messageID string) (*discordgo.Message, error) {
	f.mtx.Lock()
	defer f.mtx.Unlock()
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	m, ok := f.messages[messageID]
	if !ok {
		return nil, errors.New("unknown message")
	}
	return m, nil
}

func (f *fakeMessenger) sentTo(channelID string) []sentMessage {
	f.mtx.Lock()
	defer f.mtx.Unlock()
	var out []sentMessage
	for _, s := range f.sent {
		if s.channelID == channelID {
			out = append(out, s)
		}
	}
	return out
}

// memGuildStore is an in-memory GuildStore. Field paths mirror the Mongo
// document paths the real DAL uses.
type memGuildStore struct {
	mtx    sync.Mutex
	guilds map[string]*entities.Guild

	err error
}

func newMemGuildStore() *memGuildStore {
	return &memGuildStore{guilds: make(map[string]*entities.Guild)}
}

func (s *memGuildStore) get(guildID string) *entities.Guild {
	g, ok := s.guilds[guildID]
	if !ok {
		g = entities.NewGuild(guildID)
		s.guilds[guildID] = g
	}
	return g
}

func (s *memGuildStore) GetGuildByID(_ context.Context, id string) (*entities.Guild, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	g := *s.get(id)
	return &g, nil
}

func (s *memGuildStore) UpsertField(_ context.Context, guildID string, path string, value any) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	if s.err != nil {
		return s.err
	}
	g := s.get(guildID)
	switch path {
	case entities.FieldStaffRole:
		g.Ticketing.StaffRoleID = value.(string)
	case entities.FieldPanelChannel:
		g.Ticketing.PanelChannelID = value.(string)
	case entities.FieldPanelMessage:
		g.Ticketing.PanelMessageID = value.(string)
	case entities.FieldLogChannel:
		g.Ticketing.LogChannelID = value.(string)
	case entities.FieldWebhookURL:
		g.Ticketing.WebhookURL = value.(string)
	case entities.FieldReuseOpenTickets:
		g.Ticketing.ReuseOpenTickets = value.(bool)
	case entities.FieldButtons:
		g.Ticketing.Buttons = value.([]entities.PanelButton)
	default:
		return fmt.Errorf("unknown field path %q", path)
	}
	return nil
}

func (s *memGuildStore) AppendPanelButton(_ context.Context, guildID string, button entities.PanelButton) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	if s.err != nil {
		return s.err
	}
	g := s.get(guildID)
	g.Ticketing.Buttons = append(g.Ticketing.Buttons, button)
	return nil
}

// memTicketStore is an in-memory TicketStore.
type memTicketStore struct {
	mtx     sync.Mutex
	tickets map[string]*entities.Ticket
}

func newMemTicketStore() *memTicketStore {
	return &memTicketStore{tickets: make(map[string]*entities.Ticket)}
}

func (s *memTicketStore) key(guildID, channelID string) string {
	return guildID + "/" + channelID
}

func (s *memTicketStore) SaveTicket(_ context.Context, ticket *entities.Ticket) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	cp := *ticket
	s.tickets[s.key(ticket.GuildID, ticket.ChannelID)] = &cp
	return nil
}

func (s *memTicketStore) GetTicket(_ context.Context, guildID, channelID string) (*entities.Ticket, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	t, ok := s.tickets[s.key(guildID, channelID)]
	if !ok {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

// GetOpenTicketByCreator returns the oldest non-closed ticket, matching the
// ascending created_at sort of the real store.
func (s *memTicketStore) GetOpenTicketByCreator(_ context.Context, guildID, creatorID string) (*entities.Ticket, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	var oldest *entities.Ticket
	for _, t := range s.tickets {
		if t.GuildID != guildID || t.CreatorID != creatorID || t.State == entities.TicketStateClosed {
			continue
		}
		if oldest == nil || time.Time(t.CreatedAt).Before(time.Time(oldest.CreatedAt)) {
			oldest = t
		}
	}
	if oldest == nil {
		return nil, nil
	}
	cp := *oldest
	return &cp, nil
}

// recordingSink records emitted events in order.
type recordingSink struct {
	mtx    sync.Mutex
	events []Event
}

func (r *recordingSink) Emit(_ context.Context, _ string, event Event) {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	r.events = append(r.events, event)
}

func (r *recordingSink) all() []Event {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	return append([]Event(nil), r.events...)
}

// fakePoster records webhook posts.
type fakePoster struct {
	mtx      sync.Mutex
	urls     []string
	payloads []any
	err      error
}

func (f *fakePoster) PostJSON(_ context.Context, url string, payload any) error {
	f.mtx.Lock()
	defer f.mtx.Unlock()
	f.urls = append(f.urls, url)
	f.payloads = append(f.payloads, payload)
	return f.err
}
