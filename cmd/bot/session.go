package main

import (
	"github.com/Jacobbrewer1/discordgo"
	"github.com/karma-bot/karma/pkg/ticketing"
)

// sessionChannels adapts the discord session to the channel management
// interface the ticketing package depends on.
type sessionChannels struct {
	s *discordgo.Session
}

func newSessionChannels(s *discordgo.Session) ticketing.ChannelManager {
	return &sessionChannels{s: s}
}

func (c *sessionChannels) Channel(id string) (*discordgo.Channel, error) {
	return c.s.Channel(id)
}

func (c *sessionChannels) CreateChannel(guildID string, data discordgo.GuildChannelCreateData) (*discordgo.Channel, error) {
	return c.s.GuildChannelCreateComplex(guildID, data)
}

func (c *sessionChannels) DeleteChannel(id string) error {
	_, err := c.s.ChannelDelete(id)
	return err
}

func (c *sessionChannels) RenameChannel(id, name string) error {
	_, err := c.s.ChannelEditComplex(id, &discordgo.ChannelEdit{
		Name: name,
	})
	return err
}

func (c *sessionChannels) SetOverwrite(channelID, subjectID string, subjectType discordgo.PermissionOverwriteType, allow, deny int64) error {
	return c.s.ChannelPermissionSet(channelID, subjectID, subjectType, allow, deny)
}

func (c *sessionChannels) DeleteOverwrite(channelID, subjectID string) error {
	return c.s.ChannelPermissionDelete(channelID, subjectID)
}

// sessionMessenger adapts the discord session to the messaging interface the
// ticketing package depends on.
type sessionMessenger struct {
	s *discordgo.Session
}

func newSessionMessenger(s *discordgo.Session) ticketing.Messenger {
	return &sessionMessenger{s: s}
}

func (m *sessionMessenger) SendMessage(channelID string, msg *discordgo.MessageSend) (*discordgo.Message, error) {
	return m.s.ChannelMessageSendComplex(channelID, msg)
}

func (m *sessionMessenger) EditMessageComponents(channelID, messageID string, components []discordgo.MessageComponent) error {
	_, err := m.s.ChannelMessageEditComplex(&discordgo.MessageEdit{
		Channel:    channelID,
		ID:         messageID,
		Components: components,
	})
	return err
}

func (m *sessionMessenger) Message(channelID, messageID string) (*discordgo.Message, error) {
	return m.s.ChannelMessage(channelID, messageID)
}
