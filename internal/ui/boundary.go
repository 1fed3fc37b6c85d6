package ui

import (
	"bytes"
	"context"
	"io"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/betbot/gobet-dashboard/pkg/logger"
)

// DefaultFallback is rendered when a boundary has no fallback of its own.
var DefaultFallback = HTML(`<div role="alert" data-error-boundary>` +
	`<h2>Something went wrong.</h2>` +
	`<p>This section failed to load. Try refreshing the page.</p>` +
	`</div>`)

// BoundaryOption configures an ErrorBoundary.
type BoundaryOption func(*boundary)

// OnError registers a hook that receives every failure intercepted by the
// boundary. The error carries a stack trace.
func OnError(fn func(context.Context, error)) BoundaryOption {
	return func(b *boundary) { b.onError = fn }
}

// WithLogger sets the entry failures are logged to.
func WithLogger(entry *logrus.Entry) BoundaryOption {
	return func(b *boundary) { b.log = entry }
}

type boundary struct {
	child    Component
	fallback Component
	onError  func(context.Context, error)
	log      *logrus.Entry
}

// ErrorBoundary isolates failures of child. The child is rendered into a
// buffer first: if it returns an error or panics, its partial output is
// dropped and fallback is rendered in its place. Either the complete child
// output or the fallback reaches w, never both.
//
// Only write errors on w are returned.
func ErrorBoundary(child, fallback Component, opts ...BoundaryOption) Component {
	b := &boundary{child: child, fallback: fallback}
	if b.fallback == nil {
		b.fallback = DefaultFallback
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *boundary) Render(ctx context.Context, w io.Writer) error {
	var buf bytes.Buffer
	if err := b.renderChild(ctx, &buf); err != nil {
		b.report(ctx, err)
		return b.renderFallback(ctx, w)
	}
	_, err := buf.WriteTo(w)
	return err
}

func (b *boundary) renderChild(ctx context.Context, w io.Writer) (err error) {
	if b.child == nil {
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = errors.Wrap(e, "panic while rendering")
				return
			}
			err = errors.Errorf("panic while rendering: %v", r)
		}
	}()
	if err := b.child.Render(ctx, w); err != nil {
		return errors.WithStack(err)
	}
	return nil
}

// The fallback is rendered through a buffer as well, so a failing fallback
// still leaves w untouched.
func (b *boundary) renderFallback(ctx context.Context, w io.Writer) error {
	var buf bytes.Buffer
	if err := b.fallback.Render(ctx, &buf); err != nil {
		b.report(ctx, errors.Wrap(err, "fallback failed"))
		buf.Reset()
		if err := DefaultFallback.Render(ctx, &buf); err != nil {
			return err
		}
	}
	_, err := buf.WriteTo(w)
	return err
}

func (b *boundary) report(ctx context.Context, err error) {
	entry := b.log
	if entry == nil {
		entry = logger.WithField("component", "error_boundary")
	}
	entry.WithError(err).Error("render failed, fallback used")
	entry.Debugf("%+v", err)
	if b.onError != nil {
		b.onError(ctx, err)
	}
}
