package database

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/stemsi/academic-tracker/internal/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// NewMongoClient creates the process-wide MongoDB client. Connect does not
// dial, so an unreachable server shows up as a failed ping; the client is
// still returned in that case and later calls fail within the configured
// timeouts.
func NewMongoClient(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*mongo.Client, error) {
	opts := options.Client().
		ApplyURI(cfg.MongoURI).
		SetConnectTimeout(cfg.StoreConnectTimeout).
		SetServerSelectionTimeout(cfg.StoreConnectTimeout).
		SetTimeout(cfg.StoreTimeout).
		SetBSONOptions(&options.BSONOptions{DefaultDocumentM: true})

	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("parse mongo URI: %w", err)
	}

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("create mongo client: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, cfg.StoreConnectTimeout)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		return client, fmt.Errorf("ping mongo: %w", err)
	}

	log.Info().
		Str("database", cfg.MongoDatabase).
		Msg("MongoDB connected")

	return client, nil
}
