package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/betbot/gobet-dashboard/internal/metrics"
	"github.com/betbot/gobet-dashboard/internal/notify"
	"github.com/betbot/gobet-dashboard/internal/pages"
	"github.com/betbot/gobet-dashboard/internal/shell"
	"github.com/betbot/gobet-dashboard/internal/site/fonts"
	"github.com/betbot/gobet-dashboard/internal/site/metadata"
	"github.com/betbot/gobet-dashboard/internal/ui"
	"github.com/betbot/gobet-dashboard/pkg/ratelimit"
)

type fixture struct {
	hub    *notify.Hub
	router http.Handler
}

func newFixture(t *testing.T, opts ...func(*Config)) *fixture {
	t.Helper()
	l := logrus.New()
	l.SetOutput(io.Discard)

	sh, err := shell.New(shell.Options{
		Metadata:    metadata.Default(),
		Fonts:       fonts.Default(),
		Stylesheets: []string{GlobalStylesheet},
		Toaster:     notify.DefaultToaster(),
		Log:         logrus.NewEntry(l),
	})
	require.NoError(t, err)

	hub := notify.NewHub(notify.NewMemoryStore(10, time.Hour))
	t.Cleanup(hub.Close)

	cfg := Config{
		Shell: sh,
		Hub:   hub,
		Pages: map[string]Page{
			"/": func(*http.Request) ui.Component { return pages.Home(metadata.Default()) },
			"/broken": func(*http.Request) ui.Component {
				return ui.ComponentFunc(func(context.Context, io.Writer) error { panic("strategy feed offline") })
			},
		},
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	srv, err := New(cfg)
	require.NoError(t, err)
	return &fixture{hub: hub, router: srv.Router()}
}

func (f *fixture) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func TestNew_RequiresCollaborators(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)
}

func TestHome(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodGet, "/", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	body := rec.Body.String()
	assert.True(t, strings.HasPrefix(body, "<!DOCTYPE html><html lang=\"en\">"))
	assert.Contains(t, body, "<title>SuperTrend Trading Bot</title>")
	assert.Contains(t, body, `<body class="font-geist-sans font-geist-mono antialiased bg-background text-foreground">`)
	assert.Contains(t, body, `<link rel="stylesheet" href="/static/globals.css">`)
	assert.Equal(t, 1, strings.Count(body, "data-toaster "))
	assert.Less(t, strings.Index(body, "<main"), strings.Index(body, `<section id="toaster"`))
}

func TestHeadServesPages(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodHead, "/", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))

	assert.Equal(t, http.StatusNotFound, f.do(t, http.MethodHead, "/missing", "").Code)
}

func TestBrokenPageFallsBack(t *testing.T) {
	f := newFixture(t)
	before := metrics.BoundaryFallbacks.Value()
	rec := f.do(t, http.MethodGet, "/broken", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, before+1, metrics.BoundaryFallbacks.Value())
	body := rec.Body.String()
	assert.Contains(t, body, "data-error-boundary")
	assert.NotContains(t, body, "strategy feed offline")
	assert.Equal(t, 1, strings.Count(body, "data-toaster "))
}

func TestNotFound(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/missing", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "<h1>Page not found</h1>")
	assert.Contains(t, rec.Body.String(), "data-toaster")

	rec = f.do(t, http.MethodGet, "/api/missing", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"not found"}`, rec.Body.String())
}

func TestHealthzAndStatic(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, http.StatusOK, f.do(t, http.MethodGet, "/healthz", "").Code)

	rec := f.do(t, http.MethodGet, "/static/globals.css", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), ".antialiased")

	rec = f.do(t, http.MethodGet, "/static/toaster.js", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "WebSocket")

	// no directory listing of the embedded assets
	rec = f.do(t, http.MethodGet, "/static/", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.NotContains(t, rec.Body.String(), `href="globals.css"`)
}

func TestMetadataEndpoint(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodGet, "/api/metadata", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var got struct {
		Title     string             `json:"title"`
		OpenGraph metadata.OpenGraph `json:"openGraph"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "SuperTrend Trading Bot", got.Title)
	assert.Equal(t, "website", got.OpenGraph.Type)
}

func TestNotifications_CreateAndList(t *testing.T) {
	f := newFixture(t)
	sub := f.hub.Subscribe()
	defer sub.Close()

	rec := f.do(t, http.MethodPost, "/api/notifications",
		`{"level":"success","title":"Order filled","message":"BTC <i>long</i>","duration":"8s"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created notify.Toast
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, notify.LevelSuccess, created.Level)
	assert.Equal(t, 8*time.Second, created.Duration)
	assert.Equal(t, "BTC <i>long</i>", created.Message)

	select {
	case got := <-sub.C():
		assert.Equal(t, created.ID, got.ID)
	case <-time.After(time.Second):
		t.Fatal("toast not broadcast")
	}

	rec = f.do(t, http.MethodGet, "/api/notifications?limit=5", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list []notify.Toast
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, created.ID, list[0].ID)
}

func TestNotifications_CreateRejectsBadInput(t *testing.T) {
	f := newFixture(t)
	for name, body := range map[string]string{
		"malformed":    `{"title":`,
		"no title":     `{"level":"info"}`,
		"bad level":    `{"level":"panic","title":"x"}`,
		"bad duration": `{"title":"x","duration":"forever"}`,
	} {
		t.Run(name, func(t *testing.T) {
			rec := f.do(t, http.MethodPost, "/api/notifications", body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), `"error"`)
		})
	}
}

func TestNotifications_ListEmpty(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodGet, "/api/notifications", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestNotifications_CreateIsRateLimited(t *testing.T) {
	f := newFixture(t, func(c *Config) {
		c.PublishLimit = ratelimit.NewKeyed(2, 0.01, time.Minute)
	})

	for i := 0; i < 2; i++ {
		rec := f.do(t, http.MethodPost, "/api/notifications", `{"title":"tick"}`)
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := f.do(t, http.MethodPost, "/api/notifications", `{"title":"tick"}`)
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	assert.JSONEq(t, `{"error":"too many notifications"}`, rec.Body.String())

	// reads are not throttled
	assert.Equal(t, http.StatusOK, f.do(t, http.MethodGet, "/api/notifications", "").Code)
}
