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
	guildDalName    = "guild_dal"
	guildCollection = "config"
)

type GuildDal interface {
	// GetGuildByID gets the configuration for a guild. A guild with no stored
	// configuration gets an empty one back, never an error.
	GetGuildByID(ctx context.Context, id string) (*entities.Guild, error)

	// UpsertField sets a single configuration field, creating the document if
	// it does not exist yet.
	UpsertField(ctx context.Context, guildID string, path string, value any) error

	// AppendPanelButton appends a button to the guild's panel button list.
	AppendPanelButton(ctx context.Context, guildID string, button entities.PanelButton) error
}

type guildDalImpl struct {
	// l is the logger.
	l *slog.Logger

	// client is the database.
	client *mongo.Client
}

// NewGuildDal creates a new guild data access layer.
func NewGuildDal() GuildDal {
	l := slog.Default().With(slog.String(logging.KeyDal, guildDalName))

	if MongoDB == nil {
		l.Warn("MongoDB is nil, this can cause a panic. Proceeding...")
	}

	return &guildDalImpl{
		l:      l,
		client: MongoDB,
	}
}

func (g *guildDalImpl) GetGuildByID(ctx context.Context, id string) (*entities.Guild, error) {
	collection := g.client.Database(mongoDatabase).Collection(guildCollection)

	// Start the prometheus metrics.
	monitoring.MongoTotalRequests.WithLabelValues(guildDalName, "get_guild_by_id", mongoDatabase, guildCollection).Inc()
	t := prometheus.NewTimer(monitoring.MongoLatency.WithLabelValues(guildDalName, "get_guild_by_id", mongoDatabase, guildCollection))
	defer t.ObserveDuration()

	guild := new(entities.Guild)

	err := collection.FindOne(ctx, bson.M{"id": id}).Decode(guild)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return entities.NewGuild(id), nil
	} else if err != nil {
		return nil, fmt.Errorf("%w: getting guild: %v", ticketing.ErrStoreUnavailable, err)
	}
	return guild, nil
}

func (g *guildDalImpl) UpsertField(ctx context.Context, guildID string, path string, value any) error {
	collection := g.client.Database(mongoDatabase).Collection(guildCollection)

	monitoring.MongoTotalRequests.WithLabelValues(guildDalName, "upsert_field", mongoDatabase, guildCollection).Inc()
	t := prometheus.NewTimer(monitoring.MongoLatency.WithLabelValues(guildDalName, "upsert_field", mongoDatabase, guildCollection))
	defer t.ObserveDuration()

	opts := options.Update().SetUpsert(true)
	_, err := collection.UpdateOne(ctx, bson.M{"id": guildID}, bson.M{"$set": bson.M{path: value}}, opts)
	if err != nil {
		return fmt.Errorf("%w: upserting field %s: %v", ticketing.ErrStoreUnavailable, path, err)
	}
	return nil
}

func (g *guildDalImpl) AppendPanelButton(ctx context.Context, guildID string, button entities.PanelButton) error {
	collection := g.client.Database(mongoDatabase).Collection(guildCollection)

	monitoring.MongoTotalRequests.WithLabelValues(guildDalName, "append_panel_button", mongoDatabase, guildCollection).Inc()
	t := prometheus.NewTimer(monitoring.MongoLatency.WithLabelValues(guildDalName, "append_panel_button", mongoDatabase, guildCollection))
	defer t.ObserveDuration()

	opts := options.Update().SetUpsert(true)
	_, err := collection.UpdateOne(ctx, bson.M{"id": guildID}, bson.M{"$push": bson.M{entities.FieldButtons: button}}, opts)
	if err != nil {
		return fmt.Errorf("%w: appending panel button: %v", ticketing.ErrStoreUnavailable, err)
	}
	return nil
}
