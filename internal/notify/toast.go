// Package notify implements the dashboard's notification surface: toasts
// published by the rest of the application, kept for a short retention
// window and streamed to every open page.
package notify

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
)

// Level 通知级别
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// DefaultDuration is how long a toast stays on screen unless set.
const DefaultDuration = 5 * time.Second

var (
	// ErrEmptyTitle is returned for a toast without a title.
	ErrEmptyTitle = errors.New("notify: empty title")
	// ErrInvalidLevel is returned for an unknown level.
	ErrInvalidLevel = errors.New("notify: invalid level")
)

// messagePolicy allows basic inline formatting in toast bodies.
var messagePolicy = bluemonday.UGCPolicy()

// Valid reports whether l is a known level.
func (l Level) Valid() bool {
	switch l {
	case LevelInfo, LevelSuccess, LevelWarning, LevelError:
		return true
	}
	return false
}

// Toast is a transient message shown by the notification surface.
type Toast struct {
	ID        uuid.UUID     `json:"id"`
	Level     Level         `json:"level"`
	Title     string        `json:"title"`
	Message   string        `json:"message,omitempty"` // sanitised HTML
	Duration  time.Duration `json:"duration"`
	CreatedAt time.Time     `json:"createdAt"`
}

// NewToast validates the input and returns a toast with a fresh id. An empty
// level means info; a zero duration means DefaultDuration. The message is
// sanitised so it can be inserted into the page as HTML.
func NewToast(level Level, title, message string, duration time.Duration) (Toast, error) {
	if level == "" {
		level = LevelInfo
	}
	if !level.Valid() {
		return Toast{}, fmt.Errorf("%q: %w", level, ErrInvalidLevel)
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return Toast{}, ErrEmptyTitle
	}
	if duration <= 0 {
		duration = DefaultDuration
	}
	return Toast{
		ID:        uuid.New(),
		Level:     level,
		Title:     title,
		Message:   messagePolicy.Sanitize(strings.TrimSpace(message)),
		Duration:  duration,
		CreatedAt: time.Now().UTC(),
	}, nil
}
