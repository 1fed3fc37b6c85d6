package fonts

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	s := Default()
	require.NoError(t, s.Validate())
	assert.Equal(t, []string{"font-geist-sans", "font-geist-mono"}, s.Classes())
	assert.Equal(t, []string{"latin"}, s.Sans.Subsets)
}

func TestFont_Validate(t *testing.T) {
	cases := []struct {
		name string
		font Font
	}{
		{"no family", Font{Variable: "--x", Subsets: []string{"latin"}}},
		{"bad variable", Font{Family: "X", Variable: "font-x", Subsets: []string{"latin"}}},
		{"bare dashes", Font{Family: "X", Variable: "--", Subsets: []string{"latin"}}},
		{"no subsets", Font{Family: "X", Variable: "--x"}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Error(t, c.font.Validate())
		})
	}
}

func TestSet_ValidateRejectsSharedVariable(t *testing.T) {
	s := Default()
	s.Mono.Variable = s.Sans.Variable
	assert.Error(t, s.Validate())
}

func TestSet_RenderHead(t *testing.T) {
	s := Set{
		Sans: Font{Family: "Inter", Variable: "--font-sans", Subsets: []string{"latin"}, Fallback: []string{"sans-serif"}, Href: "/f.css?a=1&b=2"},
		Mono: Font{Family: "Mono", Variable: "--font-mono", Subsets: []string{"latin"}},
	}

	var b strings.Builder
	require.NoError(t, s.RenderHead(&b))

	assert.Equal(t,
		`<link rel="stylesheet" href="/f.css?a=1&amp;b=2">`+
			`<style>.font-sans{--font-sans:"Inter", sans-serif}.font-mono{--font-mono:"Mono"}</style>`,
		b.String())
}
