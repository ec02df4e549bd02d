package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoKV stores values as documents keyed by _id.
type MongoKV struct {
	Collection *mongo.Collection
}

type kvDocument struct {
	Key       string    `bson:"_id"`
	Value     string    `bson:"value"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// NewMongoKV uses the "storage" collection of database.
func NewMongoKV(client *mongo.Client, database string) *MongoKV {
	return &MongoKV{
		Collection: client.Database(database).Collection("storage"),
	}
}

func (m *MongoKV) Get(ctx context.Context, key string) ([]byte, error) {
	var doc kvDocument
	err := m.Collection.FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", key, err)
	}
	return []byte(doc.Value), nil
}

func (m *MongoKV) Set(ctx context.Context, key string, value []byte) error {
	doc := kvDocument{
		Key:       key,
		Value:     string(value),
		UpdatedAt: time.Now().UTC(),
	}
	_, err := m.Collection.ReplaceOne(ctx, bson.M{"_id": key}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("upsert %s: %w", key, err)
	}
	return nil
}

func (m *MongoKV) Delete(ctx context.Context, key string) error {
	if _, err := m.Collection.DeleteOne(ctx, bson.M{"_id": key}); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}
