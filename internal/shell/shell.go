// Package shell renders the document wrapper shared by every dashboard page:
//
//	<html lang=..><head>metadata, fonts, styles</head>
//	<body class="fonts antialiased ..">ErrorBoundary(children) Toaster</body></html>
//
// A Shell is built once at startup and is safe for concurrent use.
package shell

import (
	"context"
	"html"
	"io"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/betbot/gobet-dashboard/internal/metrics"
	"github.com/betbot/gobet-dashboard/internal/site/fonts"
	"github.com/betbot/gobet-dashboard/internal/site/metadata"
	"github.com/betbot/gobet-dashboard/internal/ui"
	"github.com/betbot/gobet-dashboard/pkg/logger"
)

// DefaultBodyClasses are the utility classes that follow the font bindings
// on <body>.
var DefaultBodyClasses = []string{"antialiased", "bg-background", "text-foreground"}

// Options 外壳配置
type Options struct {
	Lang        string              // 文档语言，默认 en
	Metadata    metadata.Descriptor // 文档元数据
	Fonts       fonts.Set           // 两种字体
	BodyClasses []string            // body 上的工具类，nil 时使用 DefaultBodyClasses
	Stylesheets []string            // 全局样式表
	Toaster     ui.Component        // 通知挂载点，nil 时不渲染
	Fallback    ui.Component        // 错误边界的兜底内容，nil 时使用 ui.DefaultFallback

	// SuppressHydrationWarning marks <html> so client scripts that adjust
	// theme or font classes before first paint know the server markup may
	// differ from what they produce.
	SuppressHydrationWarning bool

	// OnError is called for every failure caught by the boundary.
	OnError func(context.Context, error)
	Log     *logrus.Entry
}

// Shell is the application shell.
type Shell struct {
	opts Options

	// head is rendered once; it depends only on Options.
	head    string
	bodyTag string
	htmlTag string
}

// New composes a Shell. The descriptor needs a title and the fonts must be
// valid; everything else is taken as given.
func New(opts Options) (*Shell, error) {
	if opts.Metadata.Title() == "" {
		return nil, metadata.ErrEmptyTitle
	}
	if err := opts.Fonts.Validate(); err != nil {
		return nil, err
	}
	if opts.Lang == "" {
		opts.Lang = "en"
	}
	if opts.BodyClasses == nil {
		opts.BodyClasses = DefaultBodyClasses
	}
	if opts.Log == nil {
		opts.Log = logger.WithField("component", "shell")
	}

	s := &Shell{opts: opts}

	var head strings.Builder
	head.WriteString(`<meta charset="utf-8">`)
	head.WriteString(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
	if err := opts.Metadata.RenderHead(&head); err != nil {
		return nil, err
	}
	if err := opts.Fonts.RenderHead(&head); err != nil {
		return nil, err
	}
	for _, href := range opts.Stylesheets {
		head.WriteString(`<link rel="stylesheet" href="` + html.EscapeString(href) + `">`)
	}
	s.head = head.String()

	s.htmlTag = `<html lang="` + html.EscapeString(opts.Lang) + `"`
	if opts.SuppressHydrationWarning {
		s.htmlTag += ` data-suppress-hydration-warning`
	}
	s.htmlTag += ">"

	classes := append(opts.Fonts.Classes(), opts.BodyClasses...)
	s.bodyTag = `<body class="` + html.EscapeString(strings.Join(classes, " ")) + `">`

	return s, nil
}

// Metadata returns the descriptor the shell emits.
func (s *Shell) Metadata() metadata.Descriptor {
	return s.opts.Metadata
}

// BodyClass returns the class attribute of <body>.
func (s *Shell) BodyClass() string {
	return strings.Join(append(s.opts.Fonts.Classes(), s.opts.BodyClasses...), " ")
}

// Render writes the complete document around children. Failures inside
// children are replaced by the fallback; only write errors are returned.
func (s *Shell) Render(ctx context.Context, w io.Writer, children ui.Component) error {
	return s.Document(children).Render(ctx, w)
}

// Document returns the shell around children as a component.
func (s *Shell) Document(children ui.Component) ui.Component {
	return ui.Group(
		ui.HTML("<!DOCTYPE html>"+s.htmlTag+"<head>"+s.head+"</head>"+s.bodyTag),
		ui.ErrorBoundary(children, s.opts.Fallback,
			ui.WithLogger(s.opts.Log),
			ui.OnError(s.reportFallback),
		),
		s.opts.Toaster,
		ui.HTML("</body></html>"),
	)
}

// reportFallback counts every boundary fallback before calling the
// configured hook.
func (s *Shell) reportFallback(ctx context.Context, err error) {
	metrics.BoundaryFallbacks.Add(1)
	if s.opts.OnError != nil {
		s.opts.OnError(ctx, err)
	}
}
