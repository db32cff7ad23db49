package exporter

import (
	"fmt"
	"html"
	"strings"

	"github.com/nikbrunner/kiosk/internal/model"
)

// panelTitles are the headings used by the default dashboard markup.
var panelTitles = map[model.PanelID]string{
	model.InfoFeed:   "Info Feed",
	model.News:       "News",
	model.Timer:      "Timer",
	model.Music:      "Music",
	model.Cyberspace: "Cyberspace",
	model.Video:      "Video",
	model.System:     "System",
}

// Title returns a display title for a panel id.
func Title(id model.PanelID) string {
	if t, ok := panelTitles[id]; ok {
		return t
	}
	words := strings.Split(string(id), "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

// DashboardHTML returns the default dashboard markup with one container per
// known panel, in registry order. Composite containers hold one element per
// hosted feature.
func DashboardHTML(r *model.Registry) string {
	var b strings.Builder

	b.WriteString("<!DOCTYPE html>\n")
	b.WriteString("<html>\n<head>\n")
	b.WriteString("<meta charset=\"UTF-8\">\n")
	b.WriteString("<title>Cyber Kiosk</title>\n")
	b.WriteString("<style>\n")
	b.WriteString("  .kiosk-grid { display: grid; gap: 8px; height: 100vh; }\n")
	b.WriteString("  .panel { overflow: hidden; }\n")
	b.WriteString("</style>\n")
	b.WriteString("</head>\n<body>\n")
	b.WriteString("<main class=\"kiosk-grid\" data-kiosk-grid>\n")

	for _, id := range r.Panels() {
		writePanel(&b, r, id)
	}

	b.WriteString("</main>\n")
	b.WriteString("</body>\n</html>\n")
	return b.String()
}

func writePanel(b *strings.Builder, r *model.Registry, id model.PanelID) {
	fmt.Fprintf(b, "  <section class=\"panel\" data-panel=\"%s\">\n", html.EscapeString(string(id)))
	fmt.Fprintf(b, "    <h2>%s</h2>\n", html.EscapeString(Title(id)))
	if r.IsComposite(id) {
		for _, f := range r.Features(id) {
			fmt.Fprintf(b, "    <div class=\"feature\" data-feature=\"%s\"></div>\n", html.EscapeString(string(f)))
		}
	}
	b.WriteString("  </section>\n")
}
