// Package pages holds the page bodies the server hands to the shell.
package pages

import (
	"github.com/betbot/gobet-dashboard/internal/site/metadata"
	"github.com/betbot/gobet-dashboard/internal/ui"
)

func attrs(kv ...string) [][2]string {
	out := make([][2]string, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		out = append(out, [2]string{kv[i], kv[i+1]})
	}
	return out
}

// Home is the dashboard landing page.
func Home(meta metadata.Descriptor) ui.Component {
	return ui.Element("main", attrs("class", "container"),
		ui.Element("header", nil,
			ui.Element("h1", nil, ui.Text(meta.Title())),
			ui.Element("p", attrs("class", "lead"), ui.Text(meta.Description())),
		),
		ui.Element("section", attrs("class", "panel", "aria-labelledby", "status-heading"),
			ui.Element("h2", attrs("id", "status-heading"), ui.Text("Status")),
			ui.Element("p", nil, ui.Text("Trade signals, fills and risk alerts show up as notifications in the corner of every page.")),
		),
		ui.Element("section", attrs("class", "panel", "aria-labelledby", "api-heading"),
			ui.Element("h2", attrs("id", "api-heading"), ui.Text("Pushing notifications")),
			ui.Element("pre", nil, ui.Element("code", nil,
				ui.Text(`curl -X POST localhost:3000/api/notifications -d '{"level":"success","title":"Order filled"}'`),
			)),
		),
	)
}

// NotFound is rendered for unknown routes.
func NotFound(path string) ui.Component {
	return ui.Element("main", attrs("class", "container"),
		ui.Element("h1", nil, ui.Text("Page not found")),
		ui.Element("p", nil, ui.Text("Nothing lives at "), ui.Element("code", nil, ui.Text(path)), ui.Text(".")),
		ui.Element("p", nil, ui.Element("a", attrs("href", "/"), ui.Text("Back to the dashboard"))),
	)
}
