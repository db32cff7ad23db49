package model

import (
	"encoding/json"
)

// Visibility is an explicit show/hide override for a placed panel.
type Visibility struct {
	ID      PanelID `json:"id" yaml:"id"`
	Visible bool    `json:"visible" yaml:"visible"`
}

// Document is the persisted panel configuration.
type Document struct {
	Layout        `yaml:",inline"`
	ActivePanels  []Visibility     `json:"activePanels" yaml:"activePanels"`
	PanelsEnabled map[PanelID]bool `json:"panelsEnabled,omitempty" yaml:"panelsEnabled,omitempty"`
}

// NewDocument builds a document for saving. A panel is recorded as enabled
// when it is placed or when its toggles enable it.
func NewDocument(layout Layout, visibility []Visibility, r *Registry, e Enablement) *Document {
	doc := &Document{
		Layout:        layout.Clone(),
		ActivePanels:  append([]Visibility{}, visibility...),
		PanelsEnabled: map[PanelID]bool{},
	}
	for _, id := range r.Panels() {
		doc.PanelsEnabled[id] = layout.Has(id) || r.PanelEnabled(id, e)
	}
	for _, p := range layout.Panels {
		doc.PanelsEnabled[p.ID] = true
	}
	return doc
}

// EmptyDocument returns a document with an empty default layout.
func EmptyDocument() *Document {
	return &Document{Layout: NewLayout(), ActivePanels: []Visibility{}}
}

// Hidden reports whether an explicit override hides the panel.
func (d *Document) Hidden(id PanelID) bool {
	for _, v := range d.ActivePanels {
		if v.ID == id && !v.Visible {
			return true
		}
	}
	return false
}

// Normalize applies defaults: grid dimensions below one become 4, nil lists
// become empty.
func (d *Document) Normalize() {
	if d.Rows < 1 {
		d.Rows = DefaultRows
	}
	if d.Columns < 1 {
		d.Columns = DefaultColumns
	}
	if d.Panels == nil {
		d.Panels = []Placement{}
	}
	if d.ActivePanels == nil {
		d.ActivePanels = []Visibility{}
	}
}

type wireDocument struct {
	Rows          int              `json:"rows"`
	Columns       int              `json:"columns"`
	Panels        json.RawMessage  `json:"panels"`
	ActivePanels  json.RawMessage  `json:"activePanels"`
	PanelsEnabled map[PanelID]bool `json:"panelsEnabled"`
}

// UnmarshalJSON decodes a document leniently: panels or activePanels that are
// not arrays decode as empty lists, and missing dimensions default to 4.
func (d *Document) UnmarshalJSON(data []byte) error {
	var w wireDocument
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	*d = Document{
		Layout:        Layout{Rows: w.Rows, Columns: w.Columns},
		PanelsEnabled: w.PanelsEnabled,
	}
	if isArray(w.Panels) {
		if err := json.Unmarshal(w.Panels, &d.Panels); err != nil {
			return err
		}
	}
	if isArray(w.ActivePanels) {
		if err := json.Unmarshal(w.ActivePanels, &d.ActivePanels); err != nil {
			return err
		}
	}
	d.Normalize()
	return nil
}

func isArray(raw json.RawMessage) bool {
	for _, b := range raw {
		switch b {
		case ' ', '\t', '\n', '\r':
			continue
		case '[':
			return true
		default:
			return false
		}
	}
	return false
}
