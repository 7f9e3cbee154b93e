package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/stemsi/academic-tracker/internal/document"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/x/mongo/driver/topology"
)

// MongoStore keeps documents in one MongoDB database, one collection per
// record kind.
type MongoStore struct {
	client  *mongo.Client
	db      *mongo.Database
	timeout time.Duration
}

func NewMongoStore(client *mongo.Client, database string, timeout time.Duration) *MongoStore {
	return &MongoStore{
		client:  client,
		db:      client.Database(database),
		timeout: timeout,
	}
}

func (s *MongoStore) InsertOne(ctx context.Context, collection string, doc any) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	res, err := s.db.Collection(collection).InsertOne(ctx, doc)
	if err != nil {
		return "", classifyMongo("insert", collection, err)
	}
	id, ok := document.IDString(res.InsertedID)
	if !ok {
		id = fmt.Sprint(res.InsertedID)
	}
	return id, nil
}

func (s *MongoStore) Find(ctx context.Context, collection string, filter document.Filter, limit int64) ([]document.Document, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	query := bson.M{}
	for k, v := range filter {
		query[k] = v
	}

	cursor, err := s.db.Collection(collection).Find(ctx, query, options.Find().SetLimit(limit))
	if err != nil {
		return nil, classifyMongo("find", collection, err)
	}
	defer cursor.Close(ctx)

	var raw []bson.M
	if err := cursor.All(ctx, &raw); err != nil {
		return nil, classifyMongo("find", collection, err)
	}

	docs := make([]document.Document, len(raw))
	for i, m := range raw {
		docs[i] = document.Document(m)
	}
	return docs, nil
}

func (s *MongoStore) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if err := s.client.Ping(ctx, nil); err != nil {
		return classifyMongo("ping", "", err)
	}
	return nil
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func classifyMongo(op, collection string, err error) error {
	var (
		selErr  topology.ServerSelectionError
		connErr topology.ConnectionError
	)
	if mongo.IsNetworkError(err) || mongo.IsTimeout(err) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, mongo.ErrClientDisconnected) ||
		errors.As(err, &selErr) || errors.As(err, &connErr) {
		return fmt.Errorf("mongo %s %s: %w: %v", op, collection, ErrStoreUnavailable, err)
	}
	return fmt.Errorf("mongo %s %s: %w", op, collection, err)
}
