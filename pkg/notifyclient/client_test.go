package notifyclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/betbot/gobet-dashboard/internal/notify"
)

func TestSend(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/notifications", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		toast, err := notify.NewToast(notify.LevelWarning, "Drawdown", "5%", 8*time.Second)
		assert.NoError(t, err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(toast)
	}))
	defer srv.Close()

	c := New(srv.URL + "/")
	toast, err := c.Send(context.Background(), Request{
		Level:    notify.LevelWarning,
		Title:    "Drawdown",
		Message:  "5%",
		Duration: 8 * time.Second,
	})
	require.NoError(t, err)

	assert.Equal(t, "warning", got["level"])
	assert.Equal(t, "8s", got["duration"])
	assert.Equal(t, "Drawdown", toast.Title)
	assert.Equal(t, 8*time.Second, toast.Duration)
}

func TestSend_ServerRejects(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"notify: empty title"}`))
	}))
	defer srv.Close()

	_, err := New(srv.URL).Send(context.Background(), Request{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")
	assert.Contains(t, err.Error(), "empty title")
}

func TestRecent_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "3", r.URL.Query().Get("limit"))
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"title":"a","level":"info"},{"title":"b","level":"error"}]`))
	}))
	defer srv.Close()

	c := New(srv.URL, WithRetry(2, 10*time.Millisecond))
	toasts, err := c.Recent(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, toasts, 2)
	assert.Equal(t, "a", toasts[0].Title)
	assert.Equal(t, notify.LevelError, toasts[1].Level)
	assert.Equal(t, int32(2), calls.Load())
}
