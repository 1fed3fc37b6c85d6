package notify

import (
	"context"
	"io"

	"github.com/betbot/gobet-dashboard/internal/ui"
)

// Toaster is the notification surface mount point. The shell renders it once
// per page after the content; the client script fills it from the stream.
type Toaster struct {
	// Stream is the websocket path the surface subscribes to.
	Stream string
	// Script is the client script path. Empty renders no script tag.
	Script string
	// Position is a hint for the stylesheet, e.g. bottom-right.
	Position string
}

// DefaultToaster mounts the surface for the routes served by the dashboard.
func DefaultToaster() Toaster {
	return Toaster{
		Stream:   "/ws/notifications",
		Script:   "/static/toaster.js",
		Position: "bottom-right",
	}
}

// Render implements ui.Component.
func (t Toaster) Render(ctx context.Context, w io.Writer) error {
	position := t.Position
	if position == "" {
		position = "bottom-right"
	}
	mount := ui.Element("section", [][2]string{
		{"id", "toaster"},
		{"data-toaster", ""},
		{"aria-live", "polite"},
		{"aria-label", "Notifications"},
		{"data-position", position},
		{"data-stream", t.Stream},
	}, ui.Element("ol", [][2]string{{"data-toaster-list", ""}}))

	if err := mount.Render(ctx, w); err != nil {
		return err
	}
	if t.Script == "" {
		return nil
	}
	return ui.Element("script", [][2]string{{"src", t.Script}, {"defer", ""}}).Render(ctx, w)
}
