// Package mongostore implements artifact.Store on a MongoDB collection.
package mongostore

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/museummap/pkg/artifact"
	mmerrors "github.com/matzehuels/museummap/pkg/errors"
)

// Defaults for [Config].
const (
	DefaultDatabase   = "museum"
	DefaultCollection = "artifacts"
)

// Config selects the collection.
type Config struct {
	URI        string
	Database   string
	Collection string

	// Timeout bounds connecting and each operation. Zero means 10s.
	Timeout time.Duration
}

// Store reads and writes artifact documents.
type Store struct {
	client  *mongo.Client
	coll    *mongo.Collection
	timeout time.Duration
	logger  *log.Logger
}

// Open connects to MongoDB and pings the server.
func Open(ctx context.Context, cfg Config, logger *log.Logger) (*Store, error) {
	if cfg.URI == "" {
		return nil, mmerrors.New(mmerrors.ErrCodeInvalidConfig, "mongo uri is required")
	}
	if cfg.Database == "" {
		cfg.Database = DefaultDatabase
	}
	if cfg.Collection == "" {
		cfg.Collection = DefaultCollection
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, mmerrors.Wrap(mmerrors.ErrCodeUpstreamUnavailable, err, "connect to mongo")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, mmerrors.Wrap(mmerrors.ErrCodeUpstreamUnavailable, err, "ping mongo")
	}
	logger.Debug("connected to mongo", "database", cfg.Database, "collection", cfg.Collection)

	return &Store{
		client:  client,
		coll:    client.Database(cfg.Database).Collection(cfg.Collection),
		timeout: cfg.Timeout,
		logger:  logger,
	}, nil
}

// List loads every document in the collection, in natural order.
func (s *Store) List(ctx context.Context) ([]artifact.Record, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	cursor, err := s.coll.Find(ctx, bson.D{})
	if err != nil {
		return nil, mmerrors.Wrap(mmerrors.ErrCodeUpstream, err, "find artifacts")
	}
	var raw []bson.M
	if err := cursor.All(ctx, &raw); err != nil {
		return nil, mmerrors.Wrap(mmerrors.ErrCodeUpstream, err, "decode artifacts")
	}

	docs := make([]artifact.Document, len(raw))
	for i, m := range raw {
		docs[i] = toDocument(m)
	}
	records, skipped := artifact.Ingest(docs)
	for _, err := range skipped {
		s.logger.Warn("skipped artifact document", "source", "mongo", "err", err)
	}
	s.logger.Debug("loaded artifacts", "source", "mongo", "count", len(records))
	return records, nil
}

// Add inserts the draft and returns the new ObjectID in hex.
func (s *Store) Add(ctx context.Context, d artifact.Draft) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	res, err := s.coll.InsertOne(ctx, bson.M(d.Document()))
	if err != nil {
		return "", mmerrors.Wrap(mmerrors.ErrCodeUpstream, err, "insert artifact")
	}
	switch id := res.InsertedID.(type) {
	case primitive.ObjectID:
		return id.Hex(), nil
	default:
		return fmt.Sprint(id), nil
	}
}

// Import inserts raw documents unordered. A document's "id" becomes its
// _id so that re-importing an export keeps the ids stable.
func (s *Store) Import(ctx context.Context, docs []artifact.Document) (int, error) {
	if len(docs) == 0 {
		return 0, nil
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	batch := make([]any, len(docs))
	for i, doc := range docs {
		batch[i] = fromDocument(doc)
	}
	res, err := s.coll.InsertMany(ctx, batch, options.InsertMany().SetOrdered(false))
	if res == nil {
		return 0, mmerrors.Wrap(mmerrors.ErrCodeUpstream, err, "import artifacts")
	}
	if err != nil {
		s.logger.Warn("partial import", "inserted", len(res.InsertedIDs), "err", err)
	}
	return len(res.InsertedIDs), nil
}

// Close disconnects the client.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// toDocument maps a BSON document to the ingestion form: the ObjectID
// becomes the hex "id", nested BSON numbers stay as Go integers.
func toDocument(m bson.M) artifact.Document {
	doc := make(artifact.Document, len(m))
	for k, v := range m {
		if k == "_id" {
			switch id := v.(type) {
			case primitive.ObjectID:
				doc["id"] = id.Hex()
			default:
				doc["id"] = fmt.Sprint(id)
			}
			continue
		}
		doc[k] = v
	}
	return doc
}

var (
	_ artifact.Store    = (*Store)(nil)
	_ artifact.Importer = (*Store)(nil)
)

// fromDocument is the inverse of toDocument.
func fromDocument(doc artifact.Document) bson.M {
	m := make(bson.M, len(doc))
	for k, v := range doc {
		if k == "id" {
			if oid, err := primitive.ObjectIDFromHex(fmt.Sprint(v)); err == nil {
				m["_id"] = oid
			} else if v != "" {
				m["_id"] = v
			}
			continue
		}
		m[k] = v
	}
	return m
}
