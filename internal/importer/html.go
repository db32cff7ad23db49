package importer

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/nikbrunner/kiosk/internal/model"
)

// ParseDashboardHTML recovers a layout from dashboard markup that already
// carries inline grid styles. Elements tagged with a feature id count for
// their container. Elements without a grid-column and grid-row are skipped.
func ParseDashboardHTML(r io.Reader, reg *model.Registry) (*model.Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	doc := model.EmptyDocument()
	seen := map[model.PanelID]bool{}

	var parse func(*html.Node)
	parse = func(n *html.Node) {
		if n.Type == html.ElementNode {
			style := parseInlineStyle(getAttr(n, "style"))

			if hasAttr(n, "data-kiosk-grid") {
				if cols, ok := parseRepeat(style["grid-template-columns"]); ok {
					doc.Columns = cols
				}
				if rows, ok := parseRepeat(style["grid-template-rows"]); ok {
					doc.Rows = rows
				}
			}

			if raw := getAttr(n, "data-panel"); raw != "" {
				id := model.PanelID(raw)
				if !reg.Known(id) {
					if c, ok := reg.ContainerFor(model.FeatureID(raw)); ok {
						id = c
					}
				}
				if reg.Known(id) && !seen[id] {
					col, width, okCol := parseSpan(style["grid-column"])
					row, height, okRow := parseSpan(style["grid-row"])
					if okCol && okRow {
						seen[id] = true
						doc.Panels = append(doc.Panels, model.Placement{
							ID: id, Row: row - 1, Col: col - 1, Width: width, Height: height,
						})
						if style["display"] == "none" {
							doc.ActivePanels = append(doc.ActivePanels, model.Visibility{ID: id, Visible: false})
						}
					}
				}
				return // Panel contents are not scanned
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			parse(c)
		}
	}

	parse(root)
	doc.Normalize()
	return doc, nil
}

// parseSpan parses "C / span W" (or a bare "C") into start and span.
func parseSpan(s string) (start, span int, ok bool) {
	if s == "" {
		return 0, 0, false
	}
	first, rest, hasRest := strings.Cut(s, "/")
	start, err := strconv.Atoi(strings.TrimSpace(first))
	if err != nil || start < 1 {
		return 0, 0, false
	}
	if !hasRest {
		return start, 1, true
	}
	rest = strings.TrimSpace(rest)
	if n, found := strings.CutPrefix(rest, "span"); found {
		span, err = strconv.Atoi(strings.TrimSpace(n))
		if err != nil || span < 1 {
			return 0, 0, false
		}
		return start, span, true
	}
	// "C / E" with an explicit end line
	end, err := strconv.Atoi(rest)
	if err != nil || end <= start {
		return 0, 0, false
	}
	return start, end - start, true
}

// parseRepeat parses "repeat(N, 1fr)".
func parseRepeat(s string) (int, bool) {
	var n int
	if _, err := fmt.Sscanf(s, "repeat(%d,", &n); err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

func parseInlineStyle(s string) map[string]string {
	out := map[string]string{}
	for _, part := range strings.Split(s, ";") {
		k, v, ok := strings.Cut(part, ":")
		if !ok {
			continue
		}
		out[strings.ToLower(strings.TrimSpace(k))] = strings.TrimSpace(v)
	}
	return out
}

// getAttr returns the value of an attribute, case-insensitive.
func getAttr(n *html.Node, key string) string {
	key = strings.ToLower(key)
	for _, attr := range n.Attr {
		if strings.ToLower(attr.Key) == key {
			return attr.Val
		}
	}
	return ""
}

func hasAttr(n *html.Node, key string) bool {
	key = strings.ToLower(key)
	for _, attr := range n.Attr {
		if strings.ToLower(attr.Key) == key {
			return true
		}
	}
	return false
}
