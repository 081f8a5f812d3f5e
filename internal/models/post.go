package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Comment is embedded in a post document.
type Comment struct {
	ID        string    `bson:"id" json:"id"`
	AuthorID  string    `bson:"authorId" json:"authorId"`
	Content   string    `bson:"content" json:"content"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

// Post is an announcement-board entry written by one or more authors.
type Post struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	AuthorIDs    StringList         `bson:"authorIds" json:"authorIds"`
	Title        string             `bson:"title" json:"title"`
	TextContent  string             `bson:"textContent" json:"textContent"`
	Comments     []Comment          `bson:"comments" json:"comments"`
	PostedByRole Role               `bson:"postedByRole" json:"postedByRole"`
	Hashtags     StringList         `bson:"hashtags" json:"hashtags"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
}
