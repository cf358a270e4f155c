// Package web gin server
package web

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Laisky/errors/v2"
	ginMw "github.com/Laisky/gin-middlewares/v7"
	"github.com/Laisky/zap"
	"github.com/gin-contrib/secure"
	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/Laisky/blog-publisher/internal/web/blog/controller"
	"github.com/Laisky/blog-publisher/internal/web/templates"
	"github.com/Laisky/blog-publisher/library/log"
)

const (
	healthTimeout   = 3 * time.Second
	shutdownTimeout = 10 * time.Second
)

// Pinger reports whether the backing store is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// Options of the http engine
type Options struct {
	// CORSAllowedDomains lists domains whose origins (and subdomains) get CORS headers
	CORSAllowedDomains []string
	// EnableMetric mounts the prometheus and pprof handlers
	EnableMetric bool
}

// NewEngine builds the gin engine serving the blog pages
func NewEngine(blog *controller.Blog, pinger Pinger, opt Options) (*gin.Engine, error) {
	server := gin.New()
	server.HandleMethodNotAllowed = true

	tpl, err := templates.Load(blog.TemplateFuncs())
	if err != nil {
		return nil, errors.Wrap(err, "load templates")
	}
	server.SetHTMLTemplate(tpl)

	server.Use(
		gin.Recovery(),
		requestID,
		ginMw.NewLoggerMiddleware(
			ginMw.WithLoggerMwColored(),
			ginMw.WithLevel(log.Logger.Level().String()),
			ginMw.WithLogger(log.Logger.Named("gin")),
		),
		secure.New(secure.Config{
			FrameDeny:          true,
			ContentTypeNosniff: true,
			BrowserXssFilter:   true,
			ReferrerPolicy:     "strict-origin-when-cross-origin",
		}),
		newCORSMiddleware(opt.CORSAllowedDomains),
	)

	if opt.EnableMetric {
		if err = ginMw.EnableMetric(server); err != nil {
			return nil, errors.Wrap(err, "enable metric server")
		}
	}

	health := newHealthHandler(pinger)
	server.GET("/health", health)
	server.HEAD("/health", health)

	blog.RegisterRoutes(server)
	return server, nil
}

func newHealthHandler(pinger Pinger) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		pingCtx, cancel := context.WithTimeout(ctx.Request.Context(), healthTimeout)
		defer cancel()

		if err := pinger.Ping(pingCtx); err != nil {
			log.Logger.Warn("health check failed", zap.Error(err))
			ctx.String(http.StatusServiceUnavailable, "db unavailable")
			return
		}

		ctx.String(http.StatusOK, "ok")
	}
}

// RunServer serve handler on addr until ctx is done,
// then wait for in-flight requests to finish.
func RunServer(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Logger.Info("listening on http", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrapf(err, "listen on `%s`", addr)
		}

		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Logger.Info("shutting down http server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return errors.Wrap(err, "shutdown http server")
		}

		return nil
	})

	return g.Wait()
}

// newCORSMiddleware allow origins whose host is one of domains or a subdomain of one.
// Each entry may hold several comma separated domains.
// Preflights from other origins are denied.
func newCORSMiddleware(domains []string) gin.HandlerFunc {
	allowed := make([]string, 0, len(domains))
	for _, d := range domains {
		for _, part := range strings.Split(d, ",") {
			if part = strings.ToLower(strings.TrimSpace(part)); part != "" {
				allowed = append(allowed, part)
			}
		}
	}

	isAllowed := func(host string) bool {
		for _, d := range allowed {
			if host == d || strings.HasSuffix(host, "."+d) {
				return true
			}
		}
		return false
	}

	return func(ctx *gin.Context) {
		origin := ctx.Request.Header.Get("Origin")
		allowedOrigin := ""

		if origin != "" {
			parsedOriginURL, err := url.Parse(origin)
			if err == nil && isAllowed(strings.ToLower(parsedOriginURL.Hostname())) {
				allowedOrigin = origin
			}
		}

		if allowedOrigin != "" {
			ctx.Header("Access-Control-Allow-Origin", allowedOrigin)
			ctx.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS, HEAD")
			ctx.Header("Access-Control-Allow-Headers", "Content-Type, Accept, Origin, X-Requested-With, X-Request-Id")
			ctx.Header("Access-Control-Max-Age", "86400") // 24 hours
			ctx.Header("Vary", "Origin")

			if ctx.Request.Method == http.MethodOptions {
				ctx.AbortWithStatus(http.StatusNoContent)
				return
			}
		} else if origin != "" && ctx.Request.Method == http.MethodOptions {
			ctx.AbortWithStatus(http.StatusForbidden)
			return
		}

		ctx.Next()
	}
}
