// Package mongo is the canonical document store backend. Documents live in
// their natural collections; the "id" field maps to Mongo's "_id".
package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	mongod "go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/xraph/grove"
	"github.com/xraph/grove/drivers/mongodriver"

	"github.com/pawhub/leash/store"
)

// Collection name constants.
const (
	colUsers         = "paw_users"
	colShelters      = "paw_shelters"
	colAnimals       = "paw_animals"
	colApplications  = "paw_applications"
	colMessages      = "paw_messages"
	colNotifications = "paw_notifications"
	colAudit         = "paw_audit"
)

// Compile-time interface check.
var _ store.Store = (*Store)(nil)

// Store is a MongoDB implementation backed by Grove.
type Store struct {
	db  *grove.DB
	mdb *mongodriver.MongoDB
}

// New creates a MongoDB store over a Grove connection.
func New(db *grove.DB) *Store {
	return &Store{
		db:  db,
		mdb: mongodriver.Unwrap(db),
	}
}

// Migrate creates indexes for all collections.
func (s *Store) Migrate(ctx context.Context) error {
	for col, models := range migrationIndexes() {
		if len(models) == 0 {
			continue
		}
		_, err := s.mdb.Collection(col).Indexes().CreateMany(ctx, models)
		if err != nil {
			return fmt.Errorf("leash/mongo: migrate %s indexes: %w", col, err)
		}
	}
	return nil
}

// Ping verifies the database connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Find(ctx context.Context, collection string, f *store.Filter, srt store.Sort, p store.Page) ([]store.Document, error) {
	bf, err := toBSON(f)
	if err != nil {
		return nil, err
	}
	opts := options.Find().SetSort(toSort(srt))
	if p.Limit > 0 {
		opts = opts.SetLimit(int64(p.Limit))
	}
	if p.Offset > 0 {
		opts = opts.SetSkip(int64(p.Offset))
	}
	cur, err := s.mdb.Collection(collection).Find(ctx, bf, opts)
	if err != nil {
		return nil, fmt.Errorf("leash/mongo: find %s: %w", collection, err)
	}
	defer cur.Close(ctx)

	var docs []store.Document
	for cur.Next(ctx) {
		var raw bson.M
		if err := cur.Decode(&raw); err != nil {
			return nil, fmt.Errorf("leash/mongo: decode %s: %w", collection, err)
		}
		docs = append(docs, fromBSON(raw))
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("leash/mongo: cursor %s: %w", collection, err)
	}
	return docs, nil
}

func (s *Store) Count(ctx context.Context, collection string, f *store.Filter) (int64, error) {
	bf, err := toBSON(f)
	if err != nil {
		return 0, err
	}
	n, err := s.mdb.Collection(collection).CountDocuments(ctx, bf)
	if err != nil {
		return 0, fmt.Errorf("leash/mongo: count %s: %w", collection, err)
	}
	return n, nil
}

func (s *Store) Get(ctx context.Context, collection, docID string) (store.Document, error) {
	var raw bson.M
	err := s.mdb.Collection(collection).
		FindOne(ctx, bson.M{"_id": docID}).
		Decode(&raw)
	if err != nil {
		if errors.Is(err, mongod.ErrNoDocuments) {
			return nil, fmt.Errorf("%s/%s: %w", collection, docID, store.ErrNoDocument)
		}
		return nil, fmt.Errorf("leash/mongo: get %s: %w", collection, err)
	}
	return fromBSON(raw), nil
}

func (s *Store) Insert(ctx context.Context, collection string, doc store.Document) error {
	if doc.ID() == "" {
		return fmt.Errorf("leash/mongo: insert into %s: document has no id", collection)
	}
	if _, err := s.mdb.Collection(collection).InsertOne(ctx, toModel(doc)); err != nil {
		return fmt.Errorf("leash/mongo: insert %s: %w", collection, err)
	}
	return nil
}

func (s *Store) Update(ctx context.Context, collection string, doc store.Document) error {
	id := doc.ID()
	if id == "" {
		return fmt.Errorf("leash/mongo: update in %s: document has no id", collection)
	}
	res, err := s.mdb.Collection(collection).
		ReplaceOne(ctx, bson.M{"_id": id}, toModel(doc))
	if err != nil {
		return fmt.Errorf("leash/mongo: update %s: %w", collection, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%s/%s: %w", collection, id, store.ErrNoDocument)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, collection, docID string) error {
	res, err := s.mdb.Collection(collection).
		DeleteOne(ctx, bson.M{"_id": docID})
	if err != nil {
		return fmt.Errorf("leash/mongo: delete %s: %w", collection, err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("%s/%s: %w", collection, docID, store.ErrNoDocument)
	}
	return nil
}

// migrationIndexes returns the index definitions per collection. Indexes
// follow the scope and lookup access paths.
func migrationIndexes() map[string][]mongod.IndexModel {
	return map[string][]mongod.IndexModel{
		colUsers: {
			{
				Keys:    bson.D{{Key: "email", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
			{Keys: bson.D{{Key: "userName", Value: 1}}},
			{Keys: bson.D{{Key: "shelterId", Value: 1}}},
		},
		colShelters: {
			{Keys: bson.D{{Key: "city", Value: 1}}},
		},
		colAnimals: {
			{Keys: bson.D{{Key: "shelterId", Value: 1}, {Key: "adoptionStatus", Value: 1}}},
			{Keys: bson.D{{Key: "species", Value: 1}}},
		},
		colApplications: {
			{Keys: bson.D{{Key: "userId", Value: 1}}},
			{Keys: bson.D{{Key: "shelterId", Value: 1}, {Key: "status", Value: 1}}},
			{Keys: bson.D{{Key: "animalId", Value: 1}}},
		},
		colMessages: {
			{Keys: bson.D{{Key: "senderId", Value: 1}}},
			{Keys: bson.D{{Key: "recipientId", Value: 1}, {Key: "readAt", Value: 1}}},
			{Keys: bson.D{{Key: "applicationId", Value: 1}}},
		},
		colNotifications: {
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "deliveredAt", Value: 1}}},
		},
		colAudit: {
			{Keys: bson.D{{Key: "userId", Value: 1}}},
			{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		},
	}
}
