package store

import (
	"context"
	stderrors "errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/rauzy/pkg/errors"
)

// DefaultCollection holds classes in a MongoStore.
const DefaultCollection = "classes"

// MongoConfig configures a MongoStore.
type MongoConfig struct {
	URI        string
	Database   string
	Collection string // DefaultCollection when empty
}

// MongoStore is a Store backed by a MongoDB collection.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore connects to MongoDB, pings the server and ensures an index
// on size.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	if cfg.URI == "" || cfg.Database == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "mongo uri and database are required")
	}
	if cfg.Collection == "" {
		cfg.Collection = DefaultCollection
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	coll := client.Database(cfg.Database).Collection(cfg.Collection)
	_, err = coll.Indexes().CreateOne(ctx, mongo.IndexModel{Keys: bson.D{{Key: "size", Value: 1}}})
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("create index: %w", err)
	}
	return &MongoStore{client: client, coll: coll}, nil
}

func (s *MongoStore) SaveClass(ctx context.Context, c Class) error {
	if c.Key == "" {
		return errors.New(errors.ErrCodeInvalidInput, "class without key")
	}
	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": c.Key}, c, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save class %s: %w", c.Key, err)
	}
	return nil
}

func (s *MongoStore) LoadClass(ctx context.Context, key string) (*Class, error) {
	var c Class
	err := s.coll.FindOne(ctx, bson.M{"_id": key}).Decode(&c)
	if stderrors.Is(err, mongo.ErrNoDocuments) {
		return nil, errors.New(errors.ErrCodeNotFound, "class %q not found", key)
	}
	if err != nil {
		return nil, fmt.Errorf("load class %s: %w", key, err)
	}
	return &c, nil
}

func (s *MongoStore) ListClasses(ctx context.Context, size int) ([]Class, error) {
	filter := bson.M{}
	if size > 0 {
		filter["size"] = size
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetProjection(bson.M{"snapshot": 0})
	cur, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list classes: %w", err)
	}
	var out []Class
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode classes: %w", err)
	}
	return out, nil
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
