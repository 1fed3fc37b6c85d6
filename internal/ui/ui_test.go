package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, c Component) string {
	t.Helper()
	var b strings.Builder
	require.NoError(t, c.Render(context.Background(), &b))
	return b.String()
}

func quietLog() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

func TestText_Escapes(t *testing.T) {
	assert.Equal(t, "&lt;b&gt;x&amp;y&lt;/b&gt;", render(t, Text("<b>x&y</b>")))
}

func TestElement(t *testing.T) {
	c := Element("p", [][2]string{{"class", `a"b`}, {"hidden", ""}}, Text("hi"), nil, HTML("<br>"))
	assert.Equal(t, `<p class="a&#34;b" hidden>hi<br></p>`, render(t, c))
}

func TestGroup_StopsAtFirstError(t *testing.T) {
	boom := errors.New("boom")
	var b strings.Builder
	err := Group(HTML("a"), ComponentFunc(func(context.Context, io.Writer) error { return boom }), HTML("c")).
		Render(context.Background(), &b)
	require.ErrorIs(t, err, boom)
	assert.Equal(t, "a", b.String())
}

func TestErrorBoundary_PassesChildThrough(t *testing.T) {
	out := render(t, ErrorBoundary(HTML("<p>Hello</p>"), HTML("fallback"), WithLogger(quietLog())))
	assert.Equal(t, "<p>Hello</p>", out)
}

func TestErrorBoundary_ReplacesFailingChild(t *testing.T) {
	var reported error
	child := ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, _ = io.WriteString(w, "<p>partial")
		return errors.New("db down")
	})

	out := render(t, ErrorBoundary(child, HTML("<p>fallback</p>"),
		WithLogger(quietLog()),
		OnError(func(_ context.Context, err error) { reported = err }),
	))

	assert.Equal(t, "<p>fallback</p>", out)
	require.Error(t, reported)
	assert.Contains(t, reported.Error(), "db down")
	assert.Contains(t, fmt.Sprintf("%+v", reported), "boundary.go", "error should carry a stack")
}

func TestErrorBoundary_RecoversPanics(t *testing.T) {
	for name, v := range map[string]any{
		"string": "kaboom",
		"error":  errors.New("kaboom"),
	} {
		t.Run(name, func(t *testing.T) {
			var reported error
			child := ComponentFunc(func(_ context.Context, w io.Writer) error {
				_, _ = io.WriteString(w, "<p>half")
				panic(v)
			})

			out := render(t, ErrorBoundary(child, nil,
				WithLogger(quietLog()),
				OnError(func(_ context.Context, err error) { reported = err }),
			))

			assert.Equal(t, render(t, DefaultFallback), out)
			assert.NotContains(t, out, "half")
			require.Error(t, reported)
			assert.Contains(t, reported.Error(), "kaboom")
		})
	}
}

func TestErrorBoundary_FailingFallbackUsesDefault(t *testing.T) {
	fail := ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, _ = io.WriteString(w, "junk")
		return errors.New("nope")
	})

	var count int
	out := render(t, ErrorBoundary(fail, fail,
		WithLogger(quietLog()),
		OnError(func(context.Context, error) { count++ }),
	))

	assert.Equal(t, render(t, DefaultFallback), out)
	assert.Equal(t, 2, count)
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("closed") }

func TestErrorBoundary_ReturnsWriteErrors(t *testing.T) {
	err := ErrorBoundary(HTML("x"), nil, WithLogger(quietLog())).Render(context.Background(), failingWriter{})
	assert.EqualError(t, err, "closed")
}

func TestErrorBoundary_NilChildRendersNothing(t *testing.T) {
	assert.Equal(t, "", render(t, ErrorBoundary(nil, nil, WithLogger(quietLog()))))
}
