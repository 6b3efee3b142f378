// Package mongostore implements the sink.RecordSink contract against
// MongoDB, mirroring the connection-pool-plus-DAO shape of the original
// MongoDatabase/VcfDao pairing: one client acquired lazily from a pool, one
// collection, a compound index, and an unordered bulk insert
// that tolerates individual document failures.
package mongostore

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/inodb/vibevcf/internal/apperr"
	"github.com/inodb/vibevcf/internal/vcfmodel"
)

// Config identifies the MongoDB connection and collection to write to.
type Config struct {
	URI            string
	DatabaseName   string
	CollectionName string
}

// Store is a sink.RecordSink backed by a MongoDB collection.
type Store struct {
	cfg    Config
	logger *zap.Logger
	client *mongo.Client
	coll   *mongo.Collection
}

// New constructs a Store. It does not connect; call EnsureReady to
// establish and verify the connection before use.
func New(cfg Config, logger *zap.Logger) *Store {
	return &Store{cfg: cfg, logger: logger}
}

// EnsureReady connects to MongoDB, pings it to confirm reachability, and
// creates the {chromosome, position} compound index, tolerating the
// "index already exists" case. Calling it again once connected does
// nothing.
func (s *Store) EnsureReady(ctx context.Context) error {
	if s.client != nil {
		return nil
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(s.cfg.URI))
	if err != nil {
		return apperr.Database(fmt.Sprintf("connect to %s", s.cfg.URI)).Wrap(err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return apperr.Database("ping mongodb").Wrap(err)
	}

	s.client = client
	s.coll = client.Database(s.cfg.DatabaseName).Collection(s.cfg.CollectionName)

	indexModel := mongo.IndexModel{
		Keys: bson.D{{Key: "chromosome", Value: 1}, {Key: "position", Value: 1}},
	}
	if _, err := s.coll.Indexes().CreateOne(ctx, indexModel); err != nil {
		s.logger.Debug("mongostore: index creation note", zap.Error(err))
	}

	s.logger.Info("mongostore: connected",
		zap.String("db", s.cfg.DatabaseName),
		zap.String("collection", s.cfg.CollectionName),
	)
	return nil
}

// InsertBatch performs an unordered bulk insert so that one malformed
// document does not abort the rest of the batch, matching the original
// bulk_insert's ordered(false) policy. On a partial failure it returns the
// count that mongo reports as inserted, together with the error.
func (s *Store) InsertBatch(ctx context.Context, batch []vcfmodel.VcfRecord) (int, error) {
	if len(batch) == 0 {
		return 0, nil
	}

	docs := make([]interface{}, len(batch))
	for i, rec := range batch {
		docs[i] = rec
	}

	res, err := s.coll.InsertMany(ctx, docs, options.InsertMany().SetOrdered(false))
	inserted := 0
	if res != nil {
		inserted = len(res.InsertedIDs)
	}
	if err != nil {
		return inserted, apperr.Database("bulk insert").Wrap(err)
	}
	return inserted, nil
}

// Close disconnects the underlying client. Safe to call even if EnsureReady
// was never called or failed.
func (s *Store) Close(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	return s.client.Disconnect(ctx)
}
