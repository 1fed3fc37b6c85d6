package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/betbot/gobet-dashboard/internal/metrics"
	"github.com/betbot/gobet-dashboard/internal/notify"
	"github.com/betbot/gobet-dashboard/internal/pages"
	"github.com/betbot/gobet-dashboard/internal/ui"
)

// handlePage renders the page inside the shell. The document is buffered so
// a failed write never leaves half a page on the wire.
func (s *Server) handlePage(status int, page Page) func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		var buf bytes.Buffer
		if err := s.cfg.Shell.Render(r.Context(), &buf, page(r)); err != nil {
			metrics.PageRenderErrors.Add(1)
			s.log.WithField("request_id", RequestID(r.Context())).WithError(err).Error("render page failed")
			http.Error(w, "render failed", http.StatusInternalServerError)
			return
		}
		metrics.PagesRendered.Add(1)
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(status)
		_, _ = buf.WriteTo(w)
	}
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	if strings.HasPrefix(r.URL.Path, "/api/") {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	page := s.cfg.NotFound
	if page == nil {
		page = func(r *http.Request) ui.Component { return pages.NotFound(r.URL.Path) }
	}
	s.handlePage(http.StatusNotFound, page)(w, r)
}

func (s *Server) handleMetadata(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.cfg.Shell.Metadata())
}

func (s *Server) handleNotificationsList(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if v := strings.TrimSpace(r.URL.Query().Get("limit")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 500 {
			limit = n
		}
	}
	toasts, err := s.cfg.Hub.Recent(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "load notifications: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, toasts)
}

type createNotificationRequest struct {
	Level    notify.Level `json:"level"`
	Title    string       `json:"title"`
	Message  string       `json:"message"`
	Duration string       `json:"duration"` // Go duration, e.g. 8s
}

func (s *Server) handleNotificationsCreate(w http.ResponseWriter, r *http.Request) {
	var req createNotificationRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 64<<10)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	var d time.Duration
	if req.Duration != "" {
		var err error
		if d, err = time.ParseDuration(req.Duration); err != nil {
			writeError(w, http.StatusBadRequest, "invalid duration: "+err.Error())
			return
		}
	}

	t, err := notify.NewToast(req.Level, req.Title, req.Message, d)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.cfg.Hub.Publish(r.Context(), t); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"error": msg})
}
