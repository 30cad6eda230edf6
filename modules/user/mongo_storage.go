package user

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const usersCollection = "users"

// MongoStorage implements Storage over a MongoDB collection.
type MongoStorage struct {
	col *mongo.Collection
}

// NewMongoStorage creates user storage bound to the "users" collection.
func NewMongoStorage(db *mongo.Database) *MongoStorage {
	return &MongoStorage{col: db.Collection(usersCollection)}
}

// EnsureIndexes creates the unique index on username. Uniqueness is enforced
// by the store, not by application-level lookups, so concurrent signups with
// the same username cannot both succeed.
func (s *MongoStorage) EnsureIndexes(ctx context.Context) error {
	_, err := s.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return errors.Join(ErrStorageUnavailable, err)
	}
	return nil
}

// CreateUser persists a new user, mapping the duplicate-key violation to
// ErrUsernameAlreadyExists.
func (s *MongoStorage) CreateUser(ctx context.Context, user *User) error {
	if _, err := s.col.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrUsernameAlreadyExists
		}
		return errors.Join(ErrStorageUnavailable, err)
	}
	return nil
}

// GetUserByUsername looks up a user by exact username match.
func (s *MongoStorage) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	var u User
	if err := s.col.FindOne(ctx, bson.M{"username": username}).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		return nil, errors.Join(ErrStorageUnavailable, err)
	}
	return &u, nil
}

// GetUserByID looks up a user by id.
func (s *MongoStorage) GetUserByID(ctx context.Context, id uuid.UUID) (*User, error) {
	var u User
	if err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		return nil, errors.Join(ErrStorageUnavailable, err)
	}
	return &u, nil
}

// Compile-time interface assertion
var _ Storage = (*MongoStorage)(nil)
