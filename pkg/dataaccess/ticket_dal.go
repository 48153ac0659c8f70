package dataaccess

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/karma-bot/karma/pkg/dataaccess/monitoring"
	"github.com/karma-bot/karma/pkg/entities"
	"github.com/karma-bot/karma/pkg/logging"
	"github.com/karma-bot/karma/pkg/ticketing"
	"github.com/prometheus/client_golang/prometheus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	ticketDalName    = "ticket_dal"
	ticketCollection = "tickets"
)

type TicketDal interface {
	// SaveTicket saves a ticket, keyed by guild and channel.
	SaveTicket(ctx context.Context, ticket *entities.Ticket) error

	// GetTicket gets the ticket backed by the given channel. Returns nil with
	// no error when the channel is not a ticket channel.
	GetTicket(ctx context.Context, guildID, channelID string) (*entities.Ticket, error)

	// GetOpenTicketByCreator gets the creator's oldest non-closed ticket in
	// the guild, or nil when they have none.
	GetOpenTicketByCreator(ctx context.Context, guildID, creatorID string) (*entities.Ticket, error)
}

type ticketDalImpl struct {
	// l is the logger.
	l *slog.Logger

	// client is the database.
	client *mongo.Client
}

// NewTicketDal creates a new ticket data access layer.
func NewTicketDal() TicketDal {
	l := slog.Default().With(slog.String(logging.KeyDal, ticketDalName))

	if MongoDB == nil {
		l.Warn("MongoDB is nil, this can cause a panic. Proceeding...")
	}

	return &ticketDalImpl{
		l:      l,
		client: MongoDB,
	}
}

func (d *ticketDalImpl) SaveTicket(ctx context.Context, ticket *entities.Ticket) error {
	collection := d.client.Database(mongoDatabase).Collection(ticketCollection)

	// Start the prometheus metrics.
	monitoring.MongoTotalRequests.WithLabelValues(ticketDalName, "save_ticket", mongoDatabase, ticketCollection).Inc()
	t := prometheus.NewTimer(monitoring.MongoLatency.WithLabelValues(ticketDalName, "save_ticket", mongoDatabase, ticketCollection))
	defer t.ObserveDuration()

	opts := options.Update().SetUpsert(true)
	_, err := collection.UpdateOne(ctx, bson.M{"guild_id": ticket.GuildID, "channel_id": ticket.ChannelID}, bson.M{"$set": ticket}, opts)
	if err != nil {
		return fmt.Errorf("%w: saving ticket: %v", ticketing.ErrStoreUnavailable, err)
	}
	return nil
}

func (d *ticketDalImpl) GetTicket(ctx context.Context, guildID, channelID string) (*entities.Ticket, error) {
	collection := d.client.Database(mongoDatabase).Collection(ticketCollection)

	monitoring.MongoTotalRequests.WithLabelValues(ticketDalName, "get_ticket", mongoDatabase, ticketCollection).Inc()
	t := prometheus.NewTimer(monitoring.MongoLatency.WithLabelValues(ticketDalName, "get_ticket", mongoDatabase, ticketCollection))
	defer t.ObserveDuration()

	var ticket entities.Ticket
	err := collection.FindOne(ctx, bson.M{
		"guild_id":   guildID,
		"channel_id": channelID,
	}).Decode(&ticket)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("%w: getting ticket: %v", ticketing.ErrStoreUnavailable, err)
	}

	return &ticket, nil
}

func (d *ticketDalImpl) GetOpenTicketByCreator(ctx context.Context, guildID, creatorID string) (*entities.Ticket, error) {
	collection := d.client.Database(mongoDatabase).Collection(ticketCollection)

	monitoring.MongoTotalRequests.WithLabelValues(ticketDalName, "get_open_ticket_by_creator", mongoDatabase, ticketCollection).Inc()
	t := prometheus.NewTimer(monitoring.MongoLatency.WithLabelValues(ticketDalName, "get_open_ticket_by_creator", mongoDatabase, ticketCollection))
	defer t.ObserveDuration()

	opts := options.FindOne().SetSort(bson.M{"created_at": 1})

	var ticket entities.Ticket
	err := collection.FindOne(ctx, bson.M{
		"guild_id":   guildID,
		"creator_id": creatorID,
		"state":      bson.M{"$ne": entities.TicketStateClosed},
	}, opts).Decode(&ticket)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("%w: getting open ticket: %v", ticketing.ErrStoreUnavailable, err)
	}

	return &ticket, nil
}
