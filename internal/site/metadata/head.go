package metadata

import (
	"html"
	"io"
	"strings"
)

// Tag is a single document head element derived from a Descriptor.
type Tag struct {
	// Element is "title", "meta" or "link".
	Element string
	// Attrs are emitted in order.
	Attrs [][2]string
	// Text is the element body (title only).
	Text string
}

// HeadTags returns the head elements for d in a fixed order. Empty fields
// produce no tag.
func (d Descriptor) HeadTags() []Tag {
	tags := []Tag{{Element: "title", Text: d.title}}

	meta := func(key, name, content string) {
		if content == "" {
			return
		}
		tags = append(tags, Tag{Element: "meta", Attrs: [][2]string{{key, name}, {"content", content}}})
	}

	meta("name", "description", d.description)
	meta("name", "keywords", strings.Join(d.keywords, ","))
	for _, a := range d.authors {
		meta("name", "author", a.Name)
		if a.URL != "" {
			tags = append(tags, Tag{Element: "link", Attrs: [][2]string{{"rel", "author"}, {"href", a.URL}}})
		}
	}

	meta("property", "og:title", d.openGraph.Title)
	meta("property", "og:description", d.openGraph.Description)
	meta("property", "og:type", d.openGraph.Type)

	meta("name", "twitter:card", d.twitter.Card)
	meta("name", "twitter:title", d.twitter.Title)
	meta("name", "twitter:description", d.twitter.Description)

	return tags
}

// RenderHead writes the head tags of d to w.
func (d Descriptor) RenderHead(w io.Writer) error {
	var b strings.Builder
	for _, t := range d.HeadTags() {
		t.write(&b)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func (t Tag) write(b *strings.Builder) {
	b.WriteByte('<')
	b.WriteString(t.Element)
	for _, a := range t.Attrs {
		b.WriteByte(' ')
		b.WriteString(a[0])
		b.WriteString(`="`)
		b.WriteString(html.EscapeString(a[1]))
		b.WriteByte('"')
	}
	b.WriteByte('>')
	if t.Element == "title" {
		b.WriteString(html.EscapeString(t.Text))
		b.WriteString("</title>")
	}
}
