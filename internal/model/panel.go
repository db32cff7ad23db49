package model

// PanelID names a panel container on the dashboard (e.g. "info_feed", "news").
type PanelID string

// FeatureID names a single feature toggle. Composite containers host several.
type FeatureID string

// Known panel ids.
const (
	InfoFeed   PanelID = "info_feed"
	News       PanelID = "news"
	Timer      PanelID = "timer"
	Music      PanelID = "music"
	Cyberspace PanelID = "cyberspace"
	Video      PanelID = "video"
	System     PanelID = "system"
)

// Features hosted by composite containers.
const (
	Weather FeatureID = "weather"
	Markets FeatureID = "markets"
	Mesh    FeatureID = "mesh"
)

// PanelDef declares one panel container and the features it hosts.
// An empty Features list means the panel hosts a single feature of the same id.
type PanelDef struct {
	ID       PanelID
	Features []FeatureID
}

// Registry is the declared, ordered enumeration of panel containers.
type Registry struct {
	defs []PanelDef
}

// NewRegistry creates a registry from the given definitions, in order.
func NewRegistry(defs ...PanelDef) *Registry {
	r := &Registry{defs: make([]PanelDef, len(defs))}
	for i, d := range defs {
		r.defs[i] = PanelDef{ID: d.ID, Features: append([]FeatureID(nil), d.Features...)}
	}
	return r
}

// DefaultRegistry returns the kiosk's panel containers.
func DefaultRegistry() *Registry {
	return NewRegistry(
		PanelDef{ID: InfoFeed, Features: []FeatureID{Weather, Markets}},
		PanelDef{ID: News},
		PanelDef{ID: Timer},
		PanelDef{ID: Music},
		PanelDef{ID: Cyberspace, Features: []FeatureID{Mesh}},
		PanelDef{ID: Video},
		PanelDef{ID: System},
	)
}

// Panels returns every known panel id in declaration order.
func (r *Registry) Panels() []PanelID {
	ids := make([]PanelID, len(r.defs))
	for i, d := range r.defs {
		ids[i] = d.ID
	}
	return ids
}

// Known reports whether id is a declared panel.
func (r *Registry) Known(id PanelID) bool {
	return r.def(id) != nil
}

// Features returns the features hosted by the panel, nil if unknown.
func (r *Registry) Features(id PanelID) []FeatureID {
	d := r.def(id)
	if d == nil {
		return nil
	}
	if len(d.Features) == 0 {
		return []FeatureID{FeatureID(d.ID)}
	}
	return append([]FeatureID(nil), d.Features...)
}

// IsComposite reports whether the panel groups features under a different id.
func (r *Registry) IsComposite(id PanelID) bool {
	d := r.def(id)
	return d != nil && len(d.Features) > 0
}

// ContainerFor returns the panel hosting the given feature.
func (r *Registry) ContainerFor(feature FeatureID) (PanelID, bool) {
	for _, d := range r.defs {
		for _, f := range r.Features(d.ID) {
			if f == feature {
				return d.ID, true
			}
		}
	}
	return "", false
}

// EnabledPanels returns the panels with at least one enabled feature, in
// declaration order.
func (r *Registry) EnabledPanels(e Enablement) []PanelID {
	var ids []PanelID
	for _, d := range r.defs {
		if r.PanelEnabled(d.ID, e) {
			ids = append(ids, d.ID)
		}
	}
	return ids
}

// PanelEnabled reports whether any feature of the panel is enabled.
func (r *Registry) PanelEnabled(id PanelID, e Enablement) bool {
	if e == nil {
		return false
	}
	for _, f := range r.Features(id) {
		if e.Enabled(f) {
			return true
		}
	}
	return false
}

func (r *Registry) def(id PanelID) *PanelDef {
	for i := range r.defs {
		if r.defs[i].ID == id {
			return &r.defs[i]
		}
	}
	return nil
}

// Enablement reports whether a feature toggle is checked.
type Enablement interface {
	Enabled(feature FeatureID) bool
}

// Toggles is a map-backed Enablement. Missing features are disabled.
type Toggles map[FeatureID]bool

// Enabled implements Enablement.
func (t Toggles) Enabled(feature FeatureID) bool {
	return t[feature]
}

// AllEnabled returns toggles with every feature of the registry checked.
func AllEnabled(r *Registry) Toggles {
	t := Toggles{}
	for _, id := range r.Panels() {
		for _, f := range r.Features(id) {
			t[f] = true
		}
	}
	return t
}
