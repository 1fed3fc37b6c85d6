package metrics

import "expvar"

var (
	PagesRendered     = expvar.NewInt("pages_rendered")
	PageRenderErrors  = expvar.NewInt("page_render_errors")
	BoundaryFallbacks = expvar.NewInt("boundary_fallbacks")
	ToastsPublished   = expvar.NewInt("toasts_published")
	ToastsDropped     = expvar.NewInt("toasts_dropped")
	StreamClients     = expvar.NewInt("stream_clients")
)
