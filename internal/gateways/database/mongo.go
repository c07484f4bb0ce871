package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/twicebot/twicebot/internal/gateways/database/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

type MongoConfig struct {
	URI      string `toml:"uri"`
	Database string `toml:"database"`
}

// Mongo wraps the client holding the players and meta collections.
type Mongo struct {
	client *mongo.Client
	db     *mongo.Database
}

func ConnectMongo(ctx context.Context, cfg MongoConfig) (*Mongo, error) {
	if cfg.URI == "" {
		return nil, errors.New("mongo uri is empty")
	}

	start := time.Now()
	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI(cfg.URI).
		SetConnectTimeout(defaultConnTimeout))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	slog.Info("Mongo connected",
		slog.String("type", "db"),
		slog.String("database", cfg.Database),
		slog.Duration("took", time.Since(start)))

	return &Mongo{client: client, db: client.Database(cfg.Database)}, nil
}

func (m *Mongo) Database() *mongo.Database {
	return m.db
}

// EnsureIndexes makes the player id unique so concurrent upserts cannot fork a player.
func (m *Mongo) EnsureIndexes(ctx context.Context) error {
	_, err := m.db.Collection(models.PlayersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "id", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("uniq_player_id"),
	})
	if err != nil {
		return fmt.Errorf("failed to create player index: %w", err)
	}
	return nil
}

func (m *Mongo) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}
