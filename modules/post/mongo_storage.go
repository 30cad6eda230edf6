package post

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const postsCollection = "posts"

// MongoStorage implements Storage over a MongoDB collection.
type MongoStorage struct {
	col *mongo.Collection
}

// NewMongoStorage creates post storage bound to the "posts" collection.
func NewMongoStorage(db *mongo.Database) *MongoStorage {
	return &MongoStorage{col: db.Collection(postsCollection)}
}

func (s *MongoStorage) CreatePost(ctx context.Context, p *Post) error {
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now

	res, err := s.col.InsertOne(ctx, p)
	if err != nil {
		return errors.Join(ErrStorageUnavailable, err)
	}

	if oid, ok := res.InsertedID.(bson.ObjectID); ok {
		p.ID = oid
	}
	return nil
}

func (s *MongoStorage) GetPost(ctx context.Context, id string) (*Post, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrPostNotFound
	}

	var p Post
	if err := s.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrPostNotFound
		}
		return nil, errors.Join(ErrStorageUnavailable, err)
	}
	return &p, nil
}

func (s *MongoStorage) ListPosts(ctx context.Context) ([]Post, error) {
	cur, err := s.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, errors.Join(ErrStorageUnavailable, err)
	}

	posts := make([]Post, 0)
	if err := cur.All(ctx, &posts); err != nil {
		return nil, errors.Join(ErrStorageUnavailable, err)
	}
	return posts, nil
}

// UpdatePost mutates only the named fields in a single find-and-modify round
// trip and returns the document as stored after the update.
func (s *MongoStorage) UpdatePost(ctx context.Context, id string, upd Update) (*Post, error) {
	if upd.IsEmpty() {
		return nil, ErrEmptyUpdate
	}

	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrPostNotFound
	}

	set := bson.M{"updated_at": time.Now()}
	if upd.Title != nil {
		set["title"] = *upd.Title
	}
	if upd.Body != nil {
		set["body"] = *upd.Body
	}

	var p Post
	err = s.col.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrPostNotFound
		}
		return nil, errors.Join(ErrStorageUnavailable, err)
	}
	return &p, nil
}

func (s *MongoStorage) DeletePost(ctx context.Context, id string) error {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return ErrPostNotFound
	}

	res, err := s.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return errors.Join(ErrStorageUnavailable, err)
	}
	if res.DeletedCount == 0 {
		return ErrPostNotFound
	}
	return nil
}

// Compile-time interface assertion
var _ Storage = (*MongoStorage)(nil)
