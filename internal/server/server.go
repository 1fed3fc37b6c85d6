package server

import (
	"context"
	"embed"
	"errors"
	"io/fs"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/betbot/gobet-dashboard/internal/notify"
	"github.com/betbot/gobet-dashboard/internal/shell"
	"github.com/betbot/gobet-dashboard/internal/ui"
	"github.com/betbot/gobet-dashboard/pkg/logger"
	"github.com/betbot/gobet-dashboard/pkg/ratelimit"
)

//go:embed static
var staticFiles embed.FS

// GlobalStylesheet is the path of the embedded global stylesheet.
const GlobalStylesheet = "/static/globals.css"

// Page builds the body of one route per request.
type Page func(r *http.Request) ui.Component

type Config struct {
	Shell *shell.Shell
	Hub   *notify.Hub

	// Pages maps GET paths to page bodies.
	Pages map[string]Page
	// NotFound renders unknown paths; nil uses a plain 404.
	NotFound Page
	// PublishLimit throttles POST /api/notifications per client IP. Optional.
	PublishLimit *ratelimit.Keyed
}

type Server struct {
	cfg Config
	log *logrus.Entry
}

func New(cfg Config) (*Server, error) {
	if cfg.Shell == nil {
		return nil, errors.New("shell is required")
	}
	if cfg.Hub == nil {
		return nil, errors.New("notification hub is required")
	}
	return &Server{cfg: cfg, log: logger.WithField("component", "server")}, nil
}

func (s *Server) Router() http.Handler {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(s.requestLog())

	r.GET("/healthz", s.wrap(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) }))

	// 只暴露具体文件，不提供目录列表
	static, _ := fs.Sub(staticFiles, "static")
	assets, _ := fs.ReadDir(static, ".")
	for _, a := range assets {
		if !a.IsDir() {
			r.StaticFileFS("/static/"+a.Name(), a.Name(), http.FS(static))
		}
	}

	api := r.Group("/api")
	api.GET("/metadata", s.wrap(s.handleMetadata))
	api.GET("/notifications", s.wrap(s.handleNotificationsList))
	api.POST("/notifications", s.limitPublish(), s.wrap(s.handleNotificationsCreate))

	r.GET("/ws/notifications", s.wrap(s.cfg.Hub.ServeWS))

	for path, page := range s.cfg.Pages {
		r.Match([]string{http.MethodGet, http.MethodHead}, path, s.wrap(s.handlePage(http.StatusOK, page)))
	}
	r.NoRoute(s.wrap(s.handleNotFound))

	return r
}

// wrap adapts net/http handlers to gin.
func (s *Server) wrap(h func(http.ResponseWriter, *http.Request)) gin.HandlerFunc {
	return func(c *gin.Context) {
		h(c.Writer, c.Request)
	}
}

type requestIDKeyType string

const requestIDKey requestIDKeyType = "dashboard_request_id"

// RequestID returns the id assigned to the request by the router.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

func (s *Server) requestLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Header("X-Request-ID", id)
		c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), requestIDKey, id))

		c.Next()

		s.log.WithFields(logrus.Fields{
			"request_id": id,
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"latency":    time.Since(start).String(),
		}).Debug("request")
	}
}

func (s *Server) limitPublish() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.cfg.PublishLimit == nil {
			c.Next()
			return
		}
		ok, wait := s.cfg.PublishLimit.Allow(c.ClientIP())
		if !ok {
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
			writeError(c.Writer, http.StatusTooManyRequests, "too many notifications")
			c.Abort()
			return
		}
		c.Next()
	}
}
