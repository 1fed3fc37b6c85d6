package pages

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/betbot/gobet-dashboard/internal/site/metadata"
)

func TestHome(t *testing.T) {
	var b strings.Builder
	require.NoError(t, Home(metadata.Default()).Render(context.Background(), &b))

	out := b.String()
	assert.True(t, strings.HasPrefix(out, `<main class="container"><header><h1>SuperTrend Trading Bot</h1>`))
	assert.Contains(t, out, `&#34;title&#34;:&#34;Order filled&#34;`)
}

func TestNotFound_EscapesPath(t *testing.T) {
	var b strings.Builder
	require.NoError(t, NotFound("/<script>").Render(context.Background(), &b))
	assert.Contains(t, b.String(), "<code>/&lt;script&gt;</code>")
}
