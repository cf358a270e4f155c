package service

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/Laisky/errors/v2"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Laisky/blog-publisher/internal/web/blog/dto"
	"github.com/Laisky/blog-publisher/internal/web/blog/model"
	"github.com/Laisky/blog-publisher/library/log"
)

// memStore keeps posts in insertion order, like a collection without indexes.
type memStore struct {
	mu    sync.Mutex
	posts []model.Post
	err   error
}

func (m *memStore) Ping(context.Context) error { return m.err }

func (m *memStore) LoadPosts(context.Context) ([]*model.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}

	posts := []*model.Post{}
	for i := range m.posts {
		p := m.posts[i]
		posts = append(posts, &p)
	}
	return posts, nil
}

func (m *memStore) LoadPostDocuments(context.Context) ([]bson.D, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}

	docus := []bson.D{}
	for i := range m.posts {
		raw, err := bson.Marshal(m.posts[i])
		if err != nil {
			return nil, err
		}
		var docu bson.D
		if err = bson.Unmarshal(raw, &docu); err != nil {
			return nil, err
		}
		docus = append(docus, docu)
	}
	return docus, nil
}

func (m *memStore) InsertPost(_ context.Context, post *model.Post) (primitive.ObjectID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return primitive.NilObjectID, m.err
	}

	post.ID = primitive.NewObjectID()
	m.posts = append(m.posts, *post)
	return post.ID, nil
}

type extPost struct {
	ID struct {
		OID string `json:"$oid"`
	} `json:"_id"`
	Title   string `json:"title"`
	Summary string `json:"summary"`
	Content string `json:"content"`
}

func decodeExtPosts(t *testing.T, cnt []byte) []extPost {
	t.Helper()
	var posts []extPost
	require.NoError(t, json.Unmarshal(cnt, &posts))
	return posts
}

func TestBlogCreateThenList(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := New(log.Logger, &memStore{}, Settings{})

	inputs := []dto.NewPostArgs{
		{Title: "b", Summary: "2", Content: "second"},
		{Title: "a", Summary: "1", Content: "first"},
		{Title: "", Summary: "", Content: ""},
	}
	for i := range inputs {
		post, err := svc.CreatePost(ctx, &inputs[i])
		require.NoError(t, err)
		require.False(t, post.ID.IsZero())
	}

	posts, err := svc.ListPosts(ctx)
	require.NoError(t, err)
	require.Len(t, posts, len(inputs))
	for i, p := range posts {
		require.Equal(t, inputs[i].Title, p.Title)
		require.Equal(t, inputs[i].Summary, p.Summary)
		require.Equal(t, inputs[i].Content, p.Content)
	}

	cnt, err := svc.ListPostsExtJSON(ctx)
	require.NoError(t, err)
	ext := decodeExtPosts(t, cnt)
	require.Len(t, ext, len(inputs))
	for i, p := range ext {
		require.Equal(t, posts[i].ID.Hex(), p.ID.OID)
		require.Equal(t, inputs[i].Title, p.Title)
		require.Equal(t, inputs[i].Summary, p.Summary)
		require.Equal(t, inputs[i].Content, p.Content)
	}
}

func TestBlogListIsIdempotent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := New(log.Logger, &memStore{}, Settings{})
	_, err := svc.CreatePost(ctx, &dto.NewPostArgs{Title: "T", Summary: "S", Content: "C"})
	require.NoError(t, err)

	first, err := svc.ListPostsExtJSON(ctx)
	require.NoError(t, err)
	second, err := svc.ListPostsExtJSON(ctx)
	require.NoError(t, err)
	require.JSONEq(t, string(first), string(second))

	p1, err := svc.ListPosts(ctx)
	require.NoError(t, err)
	p2, err := svc.ListPosts(ctx)
	require.NoError(t, err)
	require.Equal(t, p1, p2)
}

func TestBlogCreateIsNotIdempotent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := New(log.Logger, &memStore{}, Settings{})

	args := &dto.NewPostArgs{Title: "T", Summary: "S", Content: "C"}
	p1, err := svc.CreatePost(ctx, args)
	require.NoError(t, err)
	p2, err := svc.CreatePost(ctx, args)
	require.NoError(t, err)
	require.NotEqual(t, p1.ID, p2.ID)

	cnt, err := svc.ListPostsExtJSON(ctx)
	require.NoError(t, err)
	require.Len(t, decodeExtPosts(t, cnt), 2)
}

func TestBlogCreateKeepsValuesVerbatim(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := &memStore{}
	svc := New(log.Logger, store, Settings{})

	args := &dto.NewPostArgs{Title: "  <b>T</b> ", Summary: "\tS\n", Content: "1 < 2 & 3"}
	_, err := svc.CreatePost(ctx, args)
	require.NoError(t, err)
	require.Equal(t, args.Title, store.posts[0].Title)
	require.Equal(t, args.Summary, store.posts[0].Summary)
	require.Equal(t, args.Content, store.posts[0].Content)

	cnt, err := svc.ListPostsExtJSON(ctx)
	require.NoError(t, err)
	require.Contains(t, string(cnt), `"1 < 2 & 3"`)
}

func TestBlogCreateDry(t *testing.T) {
	t.Parallel()
	store := &memStore{}
	svc := New(log.Logger, store, Settings{Dry: true})

	_, err := svc.CreatePost(context.Background(), &dto.NewPostArgs{Title: "T"})
	require.NoError(t, err)
	require.Empty(t, store.posts)
}

func TestBlogStoreErrors(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := New(log.Logger, &memStore{err: errors.New("connection refused")}, Settings{})

	_, err := svc.ListPosts(ctx)
	require.ErrorContains(t, err, "connection refused")
	_, err = svc.ListPostsExtJSON(ctx)
	require.ErrorContains(t, err, "connection refused")
	_, err = svc.CreatePost(ctx, &dto.NewPostArgs{})
	require.ErrorContains(t, err, "connection refused")
	require.Error(t, svc.Ping(ctx))
}

func TestMarshalExtJSONArray(t *testing.T) {
	t.Parallel()

	cnt, err := MarshalExtJSONArray(nil, false)
	require.NoError(t, err)
	require.Equal(t, "[]", string(cnt))

	oid, err := primitive.ObjectIDFromHex("5f1d7f3e9d1b2c3a4b5c6d7e")
	require.NoError(t, err)
	docus := []bson.D{
		{{Key: "_id", Value: oid}, {Key: "title", Value: "T"}},
		{{Key: "n", Value: int32(7)}},
	}

	cnt, err = MarshalExtJSONArray(docus, false)
	require.NoError(t, err)
	require.JSONEq(t, `[{"_id":{"$oid":"5f1d7f3e9d1b2c3a4b5c6d7e"},"title":"T"},{"n":7}]`, string(cnt))

	cnt, err = MarshalExtJSONArray(docus, true)
	require.NoError(t, err)
	require.JSONEq(t, `[{"_id":{"$oid":"5f1d7f3e9d1b2c3a4b5c6d7e"},"title":"T"},{"n":{"$numberInt":"7"}}]`, string(cnt))
}
