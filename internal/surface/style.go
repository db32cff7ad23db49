package surface

import (
	"strings"

	"golang.org/x/net/html"
)

type declaration struct {
	property string
	value    string
}

// parseStyle splits an inline style attribute into declarations, keeping
// their order.
func parseStyle(s string) []declaration {
	var decls []declaration
	for _, part := range strings.Split(s, ";") {
		prop, val, ok := strings.Cut(part, ":")
		if !ok {
			continue
		}
		prop = strings.ToLower(strings.TrimSpace(prop))
		val = strings.TrimSpace(val)
		if prop == "" {
			continue
		}
		decls = append(decls, declaration{property: prop, value: val})
	}
	return decls
}

func formatStyle(decls []declaration) string {
	parts := make([]string, len(decls))
	for i, d := range decls {
		parts[i] = d.property + ": " + d.value
	}
	return strings.Join(parts, "; ")
}

func styleValue(n *html.Node, property string) string {
	for _, d := range parseStyle(getAttr(n, "style")) {
		if d.property == property {
			return d.value
		}
	}
	return ""
}

func setStyle(n *html.Node, property, value string) {
	decls := parseStyle(getAttr(n, "style"))
	found := false
	for i := range decls {
		if decls[i].property == property {
			decls[i].value = value
			found = true
		}
	}
	if !found {
		decls = append(decls, declaration{property: property, value: value})
	}
	setAttr(n, "style", formatStyle(decls))
}

func removeStyle(n *html.Node, property string) {
	decls := parseStyle(getAttr(n, "style"))
	kept := decls[:0]
	for _, d := range decls {
		if d.property != property {
			kept = append(kept, d)
		}
	}
	if len(kept) == 0 {
		removeAttr(n, "style")
		return
	}
	setAttr(n, "style", formatStyle(kept))
}
