package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/groundcrew/crewbot/crewbot/crew"
)

type mongoState struct {
	ID        string    `bson:"_id"`
	Document  string    `bson:"document"`
	Version   int       `bson:"version"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// Mongo keeps the document in one record of a collection.
type Mongo struct {
	client *mongo.Client
	coll   *mongo.Collection
	key    string
}

func NewMongo(ctx context.Context, cfg MongoConfig) (*Mongo, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping: %w", err)
	}

	dbName, collName := cfg.Database, cfg.Collection
	if dbName == "" {
		dbName = DocumentKey
	}
	if collName == "" {
		collName = "state"
	}
	return &Mongo{
		client: client,
		coll:   client.Database(dbName).Collection(collName),
		key:    DocumentKey,
	}, nil
}

func (m *Mongo) Name() string {
	return "mongo"
}

func (m *Mongo) Read(ctx context.Context) ([]byte, error) {
	var rec mongoState
	err := m.coll.FindOne(ctx, bson.M{"_id": m.key}).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, crew.ErrNoDocument
	}
	if err != nil {
		return nil, fmt.Errorf("find state: %w", err)
	}
	return []byte(rec.Document), nil
}

func (m *Mongo) Write(ctx context.Context, data []byte) error {
	rec := mongoState{
		ID:        m.key,
		Document:  string(data),
		Version:   crew.SchemaVersion,
		UpdatedAt: time.Now().UTC(),
	}
	_, err := m.coll.ReplaceOne(ctx, bson.M{"_id": m.key}, rec, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("replace state: %w", err)
	}
	return nil
}

func (m *Mongo) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return m.client.Disconnect(ctx)
}
