package service

import (
	"bytes"
	"context"

	"github.com/Laisky/errors/v2"
	"github.com/Laisky/zap"
	"github.com/jinzhu/copier"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/Laisky/blog-publisher/internal/web/blog/dto"
	"github.com/Laisky/blog-publisher/internal/web/blog/model"
)

// ListPosts load all posts in the store's natural order
func (s *Blog) ListPosts(ctx context.Context) ([]*model.Post, error) {
	posts, err := s.store.LoadPosts(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list posts")
	}

	s.logger.Debug("list posts done", zap.Int("n", len(posts)))
	return posts, nil
}

// ListPostsExtJSON load all posts and marshal them into
// a json array of mongodb extended json documents
func (s *Blog) ListPostsExtJSON(ctx context.Context) ([]byte, error) {
	docus, err := s.store.LoadPostDocuments(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list post documents")
	}

	return MarshalExtJSONArray(docus, s.settings.CanonicalJSON)
}

// MarshalExtJSONArray marshal docus into `[doc,doc,...]`.
// bson only marshals documents at top level, so the array is joined by hand.
func MarshalExtJSONArray(docus []bson.D, canonical bool) ([]byte, error) {
	buf := bytes.NewBuffer(make([]byte, 0, 64*len(docus)+2))
	buf.WriteByte('[')
	for i, docu := range docus {
		if i > 0 {
			buf.WriteByte(',')
		}

		cnt, err := bson.MarshalExtJSON(docu, canonical, false)
		if err != nil {
			return nil, errors.Wrapf(err, "marshal document %d", i)
		}
		buf.Write(cnt)
	}
	buf.WriteByte(']')

	return buf.Bytes(), nil
}

// CreatePost insert new post, fields are stored verbatim
func (s *Blog) CreatePost(ctx context.Context, args *dto.NewPostArgs) (*model.Post, error) {
	post := new(model.Post)
	if err := copier.Copy(post, args); err != nil {
		return nil, errors.Wrap(err, "copy post args")
	}

	if s.settings.Dry {
		s.logger.Info("dry run, skip insert post",
			zap.String("title", post.Title),
			zap.Int("content_len", len(post.Content)),
		)
		return post, nil
	}

	if _, err := s.store.InsertPost(ctx, post); err != nil {
		return nil, errors.Wrap(err, "create post")
	}

	s.logger.Info("created post",
		zap.String("id", post.ID.Hex()),
		zap.String("title", post.Title),
	)
	return post, nil
}
