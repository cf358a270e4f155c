// Package service is the service layer of blog.
package service

import (
	"context"

	glog "github.com/Laisky/go-utils/v6/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Laisky/blog-publisher/internal/web/blog/model"
)

// PostStore is the storage the blog service reads and writes posts through.
// *dao.Blog implements it.
type PostStore interface {
	Ping(ctx context.Context) error
	LoadPosts(ctx context.Context) ([]*model.Post, error)
	LoadPostDocuments(ctx context.Context) ([]bson.D, error)
	InsertPost(ctx context.Context, post *model.Post) (primitive.ObjectID, error)
}

// Blog blog service
type Blog struct {
	logger   glog.Logger
	store    PostStore
	settings Settings
}

// New new blog service
func New(logger glog.Logger, store PostStore, settings Settings) *Blog {
	return &Blog{
		logger:   logger,
		store:    store,
		settings: settings,
	}
}

// Settings returns the settings the service runs with
func (s *Blog) Settings() Settings {
	return s.settings
}

// Ping checks the post store is reachable
func (s *Blog) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}
