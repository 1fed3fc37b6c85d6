// Package ui holds the small set of render primitives the dashboard pages and
// the shell are composed from.
package ui

import (
	"context"
	"html"
	"io"
)

// Component is anything that can write itself as HTML.
type Component interface {
	Render(ctx context.Context, w io.Writer) error
}

// ComponentFunc adapts a function to Component.
type ComponentFunc func(ctx context.Context, w io.Writer) error

// Render calls f(ctx, w).
func (f ComponentFunc) Render(ctx context.Context, w io.Writer) error {
	return f(ctx, w)
}

// Text renders s HTML-escaped.
func Text(s string) Component {
	return ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := io.WriteString(w, html.EscapeString(s))
		return err
	})
}

// HTML renders trusted markup as is.
func HTML(s string) Component {
	return ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := io.WriteString(w, s)
		return err
	})
}

// Group renders components in order and stops at the first error.
func Group(children ...Component) Component {
	return ComponentFunc(func(ctx context.Context, w io.Writer) error {
		for _, c := range children {
			if c == nil {
				continue
			}
			if err := c.Render(ctx, w); err != nil {
				return err
			}
		}
		return nil
	})
}

// Element wraps children in <tag attrs...>...</tag>. Attribute values are
// escaped; pairs are emitted in order.
func Element(tag string, attrs [][2]string, children ...Component) Component {
	return ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, openTag(tag, attrs)); err != nil {
			return err
		}
		if err := Group(children...).Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, "</"+tag+">")
		return err
	})
}

func openTag(tag string, attrs [][2]string) string {
	s := "<" + tag
	for _, a := range attrs {
		s += " " + a[0]
		if a[1] != "" {
			s += `="` + html.EscapeString(a[1]) + `"`
		}
	}
	return s + ">"
}
