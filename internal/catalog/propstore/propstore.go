// Package propstore backs Capability.GetProperty with a durable Mongo
// collection: tokenizer configuration versions, rule-set revisions,
// country grid metadata. Mirrors the donor's MongoDB-as-L2 pattern
// (app/services/mongo_cache_service.go) but as a flat property store
// rather than a TTL cache.
package propstore

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type property struct {
	Name  string `bson:"_id"`
	Value string `bson:"value"`
}

type Store struct {
	collection *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{collection: db.Collection("properties")}
}

func (s *Store) Get(ctx context.Context, name string) (string, error) {
	var p property
	err := s.collection.FindOne(ctx, bson.M{"_id": name}).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return "", fmt.Errorf("property %q not set", name)
	}
	if err != nil {
		return "", err
	}
	return p.Value, nil
}

func (s *Store) Set(ctx context.Context, name, value string) error {
	upsert := true
	_, err := s.collection.UpdateByID(ctx, name,
		bson.M{"$set": bson.M{"value": value}},
		&mongo.UpdateOptions{Upsert: &upsert})
	return err
}
