package surface

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"

	"github.com/nikbrunner/kiosk/internal/dashboard"
)

// Attributes that tag the grid container and panel containers.
const (
	GridAttr  = "data-kiosk-grid"
	PanelAttr = "data-panel"
)

// Page is an HTML dashboard document whose panel containers can be
// positioned on a CSS grid.
type Page struct {
	root *html.Node
	grid *html.Node
}

// Parse reads an HTML dashboard document.
func Parse(r io.Reader) (*Page, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, err
	}
	p := &Page{root: root}
	p.grid = findNode(root, func(n *html.Node) bool { return hasAttr(n, GridAttr) })
	return p, nil
}

// ParseString is Parse for an in-memory document.
func ParseString(s string) (*Page, error) {
	return Parse(strings.NewReader(s))
}

// SetGridTemplate implements dashboard.Surface. Pages without a grid
// container are left unchanged.
func (p *Page) SetGridTemplate(columns, rows int) {
	if p.grid == nil {
		return
	}
	setStyle(p.grid, "grid-template-columns", fmt.Sprintf("repeat(%d, 1fr)", columns))
	setStyle(p.grid, "grid-template-rows", fmt.Sprintf("repeat(%d, 1fr)", rows))
}

// FindPanel implements dashboard.Surface. The first element in document
// order tagged with the id wins.
func (p *Page) FindPanel(id string) (dashboard.Element, bool) {
	n := p.panelNode(id)
	if n == nil {
		return nil, false
	}
	return &element{n: n}, true
}

func (p *Page) panelNode(id string) *html.Node {
	return findNode(p.root, func(n *html.Node) bool {
		return n.Type == html.ElementNode && getAttr(n, PanelAttr) == id
	})
}

// PanelIDs returns every tagged panel id in document order.
func (p *Page) PanelIDs() []string {
	var ids []string
	walk(p.root, func(n *html.Node) {
		if n.Type == html.ElementNode && hasAttr(n, PanelAttr) {
			ids = append(ids, getAttr(n, PanelAttr))
		}
	})
	return ids
}

// HasGrid reports whether the page has a grid container.
func (p *Page) HasGrid() bool {
	return p.grid != nil
}

// Style returns the value of a style property on a panel, "" if unset.
func (p *Page) Style(id, property string) string {
	n := p.panelNode(id)
	if n == nil {
		return ""
	}
	return styleValue(n, property)
}

// GridStyle returns the value of a style property on the grid container.
func (p *Page) GridStyle(property string) string {
	if p.grid == nil {
		return ""
	}
	return styleValue(p.grid, property)
}

// Render writes the document as HTML.
func (p *Page) Render(w io.Writer) error {
	return html.Render(w, p.root)
}

// String renders the document, "" on error.
func (p *Page) String() string {
	var buf bytes.Buffer
	if err := p.Render(&buf); err != nil {
		return ""
	}
	return buf.String()
}

// Clone returns an independent copy of the page.
func (p *Page) Clone() *Page {
	c := &Page{}
	var gridCopy *html.Node
	c.root = cloneNode(p.root, func(orig, copied *html.Node) {
		if orig == p.grid {
			gridCopy = copied
		}
	})
	c.grid = gridCopy
	return c
}

type element struct {
	n *html.Node
}

func (e *element) SetGridArea(row, col, width, height int) {
	setStyle(e.n, "grid-column", fmt.Sprintf("%d / span %d", col, width))
	setStyle(e.n, "grid-row", fmt.Sprintf("%d / span %d", row, height))
}

func (e *element) SetVisible(visible bool) {
	if visible {
		removeStyle(e.n, "display")
		return
	}
	setStyle(e.n, "display", "none")
}

func cloneNode(n *html.Node, visit func(orig, copied *html.Node)) *html.Node {
	c := &html.Node{
		Type:      n.Type,
		DataAtom:  n.DataAtom,
		Data:      n.Data,
		Namespace: n.Namespace,
		Attr:      append([]html.Attribute(nil), n.Attr...),
	}
	visit(n, c)
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		c.AppendChild(cloneNode(child, visit))
	}
	return c
}

func walk(n *html.Node, fn func(*html.Node)) {
	fn(n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, fn)
	}
}

func findNode(n *html.Node, match func(*html.Node) bool) *html.Node {
	if match(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findNode(c, match); found != nil {
			return found
		}
	}
	return nil
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
	if n.Type != html.ElementNode {
		return false
	}
	key = strings.ToLower(key)
	for _, attr := range n.Attr {
		if strings.ToLower(attr.Key) == key {
			return true
		}
	}
	return false
}

func setAttr(n *html.Node, key, val string) {
	for i := range n.Attr {
		if strings.EqualFold(n.Attr[i].Key, key) {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

func removeAttr(n *html.Node, key string) {
	for i := range n.Attr {
		if strings.EqualFold(n.Attr[i].Key, key) {
			n.Attr = append(n.Attr[:i], n.Attr[i+1:]...)
			return
		}
	}
}
