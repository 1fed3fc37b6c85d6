// Package metadata describes the document-level metadata of every dashboard
// page: title, description, keywords, authors and the social preview cards.
package metadata

import (
	"encoding/json"
	"errors"
	"strings"
)

// ErrEmptyTitle is returned when building a Descriptor without a title.
var ErrEmptyTitle = errors.New("metadata: empty title")

// Author is a named author of the site, optionally with a profile URL.
type Author struct {
	Name string `json:"name" yaml:"name"`
	URL  string `json:"url,omitempty" yaml:"url"`
}

// OpenGraph is the Open Graph preview of a page.
type OpenGraph struct {
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	Type        string `json:"type" yaml:"type"`
}

// Twitter is the card-style preview of a page.
type Twitter struct {
	Card        string `json:"card" yaml:"card"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
}

// Descriptor is the immutable metadata of the dashboard. Build it once with
// New and share it by value.
type Descriptor struct {
	title       string
	description string
	keywords    []string
	authors     []Author
	openGraph   OpenGraph
	twitter     Twitter
}

// Option configures a Descriptor under construction.
type Option func(*Descriptor)

// Title sets the document title.
func Title(title string) Option {
	return func(d *Descriptor) { d.title = strings.TrimSpace(title) }
}

// Description sets the document description.
func Description(desc string) Option {
	return func(d *Descriptor) { d.description = strings.TrimSpace(desc) }
}

// Keywords adds keywords to the keyword set.
func Keywords(keywords ...string) Option {
	return func(d *Descriptor) { d.keywords = append(d.keywords, keywords...) }
}

// Authors appends authors, keeping their order.
func Authors(authors ...Author) Option {
	return func(d *Descriptor) { d.authors = append(d.authors, authors...) }
}

// WithOpenGraph sets the Open Graph preview.
func WithOpenGraph(og OpenGraph) Option {
	return func(d *Descriptor) { d.openGraph = og }
}

// WithTwitter sets the card preview.
func WithTwitter(tw Twitter) Option {
	return func(d *Descriptor) { d.twitter = tw }
}

// New builds a Descriptor. Keywords containing commas are split, since the
// keywords tag is comma-separated; the set is then de-duplicated
// case-insensitively, keeping the first spelling and the original order.
func New(opts ...Option) (Descriptor, error) {
	var d Descriptor
	for _, opt := range opts {
		opt(&d)
	}
	if d.title == "" {
		return Descriptor{}, ErrEmptyTitle
	}
	d.keywords = uniqueKeywords(d.keywords)

	authors := make([]Author, 0, len(d.authors))
	for _, a := range d.authors {
		a.Name = strings.TrimSpace(a.Name)
		if a.Name == "" {
			continue
		}
		authors = append(authors, a)
	}
	d.authors = authors

	return d, nil
}

// Default returns the built-in metadata of the SuperTrend dashboard.
func Default() Descriptor {
	d, err := New(
		Title("SuperTrend Trading Bot"),
		Description("Automated cryptocurrency trading dashboard driven by the SuperTrend indicator."),
		Keywords("trading bot", "supertrend", "crypto", "cryptocurrency", "algorithmic trading", "dashboard"),
		Authors(Author{Name: "SuperTrend Bot Team"}),
		WithOpenGraph(OpenGraph{
			Title:       "SuperTrend Trading Bot",
			Description: "Automated cryptocurrency trading dashboard driven by the SuperTrend indicator.",
			Type:        "website",
		}),
		WithTwitter(Twitter{
			Card:        "summary_large_image",
			Title:       "SuperTrend Trading Bot",
			Description: "Automated cryptocurrency trading dashboard driven by the SuperTrend indicator.",
		}),
	)
	if err != nil {
		panic(err)
	}
	return d
}

// Title returns the document title.
func (d Descriptor) Title() string { return d.title }

// Description returns the document description.
func (d Descriptor) Description() string { return d.description }

// OpenGraph returns the Open Graph preview.
func (d Descriptor) OpenGraph() OpenGraph { return d.openGraph }

// Twitter returns the card preview.
func (d Descriptor) Twitter() Twitter { return d.twitter }

// Keywords returns a copy of the keyword set in insertion order.
func (d Descriptor) Keywords() []string {
	return append([]string(nil), d.keywords...)
}

// Authors returns a copy of the author list.
func (d Descriptor) Authors() []Author {
	return append([]Author(nil), d.authors...)
}

type jsonDescriptor struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Keywords    []string  `json:"keywords"`
	Authors     []Author  `json:"authors"`
	OpenGraph   OpenGraph `json:"openGraph"`
	Twitter     Twitter   `json:"twitter"`
}

// MarshalJSON implements json.Marshaler.
func (d Descriptor) MarshalJSON() ([]byte, error) {
	return json.Marshal(jsonDescriptor{
		Title:       d.title,
		Description: d.description,
		Keywords:    d.Keywords(),
		Authors:     d.Authors(),
		OpenGraph:   d.openGraph,
		Twitter:     d.twitter,
	})
}

// JSON marshals the Descriptor into a JSON string.
func (d Descriptor) JSON() (string, error) {
	b, err := json.Marshal(d)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func uniqueKeywords(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, raw := range in {
		for _, k := range strings.Split(raw, ",") {
			k = strings.TrimSpace(k)
			if k == "" {
				continue
			}
			key := strings.ToLower(k)
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, k)
		}
	}
	return out
}

// Config is the file representation of a Descriptor. Empty preview fields
// inherit the document title and description.
type Config struct {
	Title       string    `yaml:"title" json:"title"`
	Description string    `yaml:"description" json:"description"`
	Keywords    []string  `yaml:"keywords" json:"keywords"`
	Authors     []Author  `yaml:"authors" json:"authors"`
	OpenGraph   OpenGraph `yaml:"open_graph" json:"open_graph"`
	Twitter     Twitter   `yaml:"twitter" json:"twitter"`
}

// Build converts c into a Descriptor.
func (c Config) Build() (Descriptor, error) {
	og := c.OpenGraph
	if og.Title == "" {
		og.Title = c.Title
	}
	if og.Description == "" {
		og.Description = c.Description
	}
	if og.Type == "" {
		og.Type = "website"
	}

	tw := c.Twitter
	if tw.Card == "" {
		tw.Card = "summary_large_image"
	}
	if tw.Title == "" {
		tw.Title = c.Title
	}
	if tw.Description == "" {
		tw.Description = c.Description
	}

	return New(
		Title(c.Title),
		Description(c.Description),
		Keywords(c.Keywords...),
		Authors(c.Authors...),
		WithOpenGraph(og),
		WithTwitter(tw),
	)
}
