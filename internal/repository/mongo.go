package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Mongo owns the process-wide MongoDB client and the database it serves.
type Mongo struct {
	client *mongo.Client
	db     *mongo.Database
}

var _ DB = (*Mongo)(nil)

// NewMongo は MongoDB に接続し、疎通確認まで行う
func NewMongo(ctx context.Context, uri, database string) (*Mongo, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	return &Mongo{client: client, db: client.Database(database)}, nil
}

// Ping performs a lightweight round-trip to the primary.
func (m *Mongo) Ping(ctx context.Context) error {
	return m.client.Ping(ctx, readpref.Primary())
}

// Close disconnects the client.
func (m *Mongo) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

// Collection returns a handle to the named collection.
func (m *Mongo) Collection(name string) *mongo.Collection {
	return m.db.Collection(name)
}

// contactIndexes: unique id for lookup, email for admin search, created_at for sorting.
var contactIndexes = []mongo.IndexModel{
	{
		Keys:    bson.D{{Key: "id", Value: 1}},
		Options: options.Index().SetName("id_unique").SetUnique(true),
	},
	{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetName("email"),
	},
	{
		Keys:    bson.D{{Key: "created_at", Value: -1}},
		Options: options.Index().SetName("created_at_desc"),
	},
}

// EnsureContactIndexes creates the contact collection indexes. It is idempotent.
func (m *Mongo) EnsureContactIndexes(ctx context.Context, collection string) ([]string, error) {
	names, err := m.Collection(collection).Indexes().CreateMany(ctx, contactIndexes)
	if err != nil {
		return nil, fmt.Errorf("create indexes on %s: %w", collection, err)
	}
	return names, nil
}

// DropCollection removes the collection and all of its indexes.
func (m *Mongo) DropCollection(ctx context.Context, collection string) error {
	return m.Collection(collection).Drop(ctx)
}
