// Package fonts is the typography provider of the dashboard. Each Font binds
// a CSS custom property through a class that the shell puts on <body>.
package fonts

import (
	"fmt"
	"html"
	"io"
	"strings"
)

// Font 字体配置
type Font struct {
	Family   string   `yaml:"family" json:"family"`     // 字体名称，例如 Geist
	Variable string   `yaml:"variable" json:"variable"` // CSS 变量名，必须以 -- 开头
	Subsets  []string `yaml:"subsets" json:"subsets"`   // 支持的字符子集，例如 latin
	Fallback []string `yaml:"fallback" json:"fallback"` // 后备字体栈
	Href     string   `yaml:"href" json:"href"`         // 字体样式表地址（可选）
}

// ClassName returns the class that binds the font's CSS variable.
func (f Font) ClassName() string {
	return strings.TrimPrefix(f.Variable, "--")
}

// Validate 验证字体配置
func (f Font) Validate() error {
	if strings.TrimSpace(f.Family) == "" {
		return fmt.Errorf("font family is required")
	}
	if !strings.HasPrefix(f.Variable, "--") || len(f.Variable) == 2 {
		return fmt.Errorf("font %s: variable %q must start with --", f.Family, f.Variable)
	}
	if len(f.Subsets) == 0 {
		return fmt.Errorf("font %s: at least one subset is required", f.Family)
	}
	return nil
}

func (f Font) stack() string {
	parts := make([]string, 0, len(f.Fallback)+1)
	parts = append(parts, fmt.Sprintf("%q", f.Family))
	parts = append(parts, f.Fallback...)
	return strings.Join(parts, ", ")
}

// Set is the pair of typography variants used by every page.
type Set struct {
	Sans Font `yaml:"sans" json:"sans"`
	Mono Font `yaml:"mono" json:"mono"`
}

// Default returns Geist Sans and Geist Mono with the latin subset.
func Default() Set {
	return Set{
		Sans: Font{
			Family:   "Geist",
			Variable: "--font-geist-sans",
			Subsets:  []string{"latin"},
			Fallback: []string{"ui-sans-serif", "system-ui", "sans-serif"},
			Href:     "https://fonts.googleapis.com/css2?family=Geist:wght@100..900&subset=latin&display=swap",
		},
		Mono: Font{
			Family:   "Geist Mono",
			Variable: "--font-geist-mono",
			Subsets:  []string{"latin"},
			Fallback: []string{"ui-monospace", "SFMono-Regular", "monospace"},
			Href:     "https://fonts.googleapis.com/css2?family=Geist+Mono:wght@100..900&subset=latin&display=swap",
		},
	}
}

// Validate 验证两个字体，变量名不能重复
func (s Set) Validate() error {
	if err := s.Sans.Validate(); err != nil {
		return fmt.Errorf("sans: %w", err)
	}
	if err := s.Mono.Validate(); err != nil {
		return fmt.Errorf("mono: %w", err)
	}
	if s.Sans.Variable == s.Mono.Variable {
		return fmt.Errorf("sans and mono share variable %s", s.Sans.Variable)
	}
	return nil
}

// Classes returns the binding classes, sans first.
func (s Set) Classes() []string {
	return []string{s.Sans.ClassName(), s.Mono.ClassName()}
}

// RenderHead writes the stylesheet links and the class to variable bindings.
func (s Set) RenderHead(w io.Writer) error {
	var b strings.Builder
	for _, f := range []Font{s.Sans, s.Mono} {
		if f.Href == "" {
			continue
		}
		fmt.Fprintf(&b, `<link rel="stylesheet" href="%s">`, html.EscapeString(f.Href))
	}
	b.WriteString("<style>")
	for _, f := range []Font{s.Sans, s.Mono} {
		fmt.Fprintf(&b, ".%s{%s:%s}", f.ClassName(), f.Variable, f.stack())
	}
	b.WriteString("</style>")
	_, err := io.WriteString(w, b.String())
	return err
}
