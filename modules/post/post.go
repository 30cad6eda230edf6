package post

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Post is a blog entry. The id is assigned by the posts collection on insert
// and is opaque to clients.
type Post struct {
	ID        bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Title     string        `bson:"title" json:"title"`
	Body      string        `bson:"body" json:"body"`
	CreatedAt time.Time     `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time     `bson:"updated_at" json:"updated_at"`
}

// Update carries a partial post mutation. Nil fields are left untouched.
type Update struct {
	Title *string
	Body  *string
}

// IsEmpty reports whether the update would change nothing.
func (u Update) IsEmpty() bool {
	return u.Title == nil && u.Body == nil
}
