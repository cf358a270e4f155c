// Package controller blog http handlers
package controller

import (
	"html/template"
	"net/http"

	"github.com/Laisky/errors/v2"
	gmw "github.com/Laisky/gin-middlewares/v7"
	"github.com/Laisky/zap"
	"github.com/gin-gonic/gin"

	"github.com/Laisky/blog-publisher/internal/web/blog/dto"
	"github.com/Laisky/blog-publisher/internal/web/blog/service"
	"github.com/Laisky/blog-publisher/library/log"
)

const (
	// PageTemplate is the template rendering the post list
	PageTemplate = "blog"
	// InsertComplete is the body answered after a post is stored
	InsertComplete = "Insert Complete"
)

// Blog blog handlers
type Blog struct {
	svc *service.Blog
}

// New new blog handlers
func New(svc *service.Blog) *Blog {
	return &Blog{svc: svc}
}

// RegisterRoutes mounts the blog pages on r
func (h *Blog) RegisterRoutes(r gin.IRoutes) {
	r.GET("/", h.ListPosts)
	r.GET("/json", h.ListPostsJSON)
	r.POST("/new", h.CreatePost)
}

// TemplateFuncs returns the funcs PageTemplate depends on
func (h *Blog) TemplateFuncs() template.FuncMap {
	renderMarkdown := h.svc.Settings().RenderMarkdown
	return template.FuncMap{
		"content": func(cnt string) any {
			if !renderMarkdown {
				return cnt
			}

			return template.HTML(service.ParseMarkdown2HTML([]byte(cnt))) //nolint:gosec // raw html is skipped by the renderer
		},
	}
}

// ListPosts render all posts as html
func (h *Blog) ListPosts(c *gin.Context) {
	posts, err := h.svc.ListPosts(c.Request.Context())
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, err)
		return
	}

	c.HTML(http.StatusOK, PageTemplate, gin.H{
		"Posts": posts,
	})
}

// ListPostsJSON answer all posts as mongodb extended json
func (h *Blog) ListPostsJSON(c *gin.Context) {
	cnt, err := h.svc.ListPostsExtJSON(c.Request.Context())
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, err)
		return
	}

	c.Data(http.StatusOK, "application/json; charset=utf-8", cnt)
}

// CreatePost store the submitted post
func (h *Blog) CreatePost(c *gin.Context) {
	args, err := bindNewPostForm(c)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err)
		return
	}

	if _, err = h.svc.CreatePost(c.Request.Context(), args); err != nil {
		abortWithError(c, http.StatusInternalServerError, err)
		return
	}

	c.String(http.StatusOK, InsertComplete)
}

// bindNewPostForm read title, summary and content from the form.
// Fields only have to be present, empty values are accepted.
func bindNewPostForm(c *gin.Context) (*dto.NewPostArgs, error) {
	args := new(dto.NewPostArgs)
	for _, field := range []struct {
		key string
		val *string
	}{
		{"title", &args.Title},
		{"summary", &args.Summary},
		{"content", &args.Content},
	} {
		v, ok := c.GetPostForm(field.key)
		if !ok {
			return nil, errors.Errorf("missing form field `%s`", field.key)
		}

		*field.val = v
	}

	return args, nil
}

// abortWithError log err and answer a generic body,
// store errors are never echoed to clients
func abortWithError(c *gin.Context, code int, err error) {
	logger := log.Logger
	if ctxLogger := gmw.GetLogger(c); ctxLogger != nil {
		logger = ctxLogger
	}

	if code >= http.StatusInternalServerError {
		logger.Error("handle request", zap.Error(err), zap.String("path", c.Request.URL.Path))
		c.String(code, "internal server error")
	} else {
		logger.Debug("bad request", zap.Error(err), zap.String("path", c.Request.URL.Path))
		c.String(code, "bad request: %s", err.Error())
	}

	c.Abort()
}
