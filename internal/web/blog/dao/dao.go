// Package dao contains all the data access object used in the application.
package dao

import (
	"context"

	"github.com/Laisky/errors/v2"
	glog "github.com/Laisky/go-utils/v6/log"
	"github.com/Laisky/zap"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	mongoLib "go.mongodb.org/mongo-driver/mongo"

	"github.com/Laisky/blog-publisher/internal/web/blog/model"
	"github.com/Laisky/blog-publisher/library/db/mongo"
)

// Blog dao type
type Blog struct {
	logger  glog.Logger
	db      mongo.DB
	postCol string
}

// New create new dao, postCol is the collection holding posts
func New(logger glog.Logger, db mongo.DB, postCol string) *Blog {
	return &Blog{
		logger:  logger,
		db:      db,
		postCol: postCol,
	}
}

// GetPostsCol get posts collection
func (d *Blog) GetPostsCol() *mongoLib.Collection {
	return d.db.GetCol(d.postCol)
}

// Ping checks the blog db is reachable
func (d *Blog) Ping(ctx context.Context) error {
	return d.db.Ping(ctx)
}

// LoadPosts load every post in natural order
func (d *Blog) LoadPosts(ctx context.Context) ([]*model.Post, error) {
	cur, err := d.GetPostsCol().Find(ctx, bson.D{})
	if err != nil {
		return nil, errors.Wrap(err, "find posts")
	}
	defer cur.Close(ctx) //nolint:errcheck

	posts := []*model.Post{}
	if err = cur.All(ctx, &posts); err != nil {
		return nil, errors.Wrap(err, "load posts")
	}

	return posts, nil
}

// LoadPostDocuments load every post as raw ordered documents,
// keeping fields that model.Post does not know about.
func (d *Blog) LoadPostDocuments(ctx context.Context) ([]bson.D, error) {
	cur, err := d.GetPostsCol().Find(ctx, bson.D{})
	if err != nil {
		return nil, errors.Wrap(err, "find posts")
	}
	defer cur.Close(ctx) //nolint:errcheck

	docus := []bson.D{}
	if err = cur.All(ctx, &docus); err != nil {
		return nil, errors.Wrap(err, "load post documents")
	}

	return docus, nil
}

// InsertPost insert one post and set its ID
func (d *Blog) InsertPost(ctx context.Context, post *model.Post) (primitive.ObjectID, error) {
	ret, err := d.GetPostsCol().InsertOne(ctx, post)
	if err != nil {
		return primitive.NilObjectID, errors.Wrap(err, "insert post")
	}

	oid, ok := ret.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.Errorf("unexpected inserted id type %T", ret.InsertedID)
	}

	post.ID = oid
	d.logger.Debug("inserted post", zap.String("id", oid.Hex()))
	return oid, nil
}
