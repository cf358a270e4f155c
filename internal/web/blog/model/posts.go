// Package model contains the models stored by the blog.
package model

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post blog post
type Post struct {
	// ID assigned by mongodb on insert
	ID primitive.ObjectID `bson:"_id,omitempty" json:"mongo_id"`
	// Title title of the post
	Title string `bson:"title" json:"title"`
	// Summary short abstract shown in listings
	Summary string `bson:"summary" json:"summary"`
	// Content body of the post, stored verbatim
	Content string `bson:"content" json:"content"`
}
