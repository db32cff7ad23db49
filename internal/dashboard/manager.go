package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/nikbrunner/kiosk/internal/model"
)

// Element is one panel container on the rendering surface.
type Element interface {
	// SetGridArea positions the element. row and col are 1-indexed.
	SetGridArea(row, col, width, height int)
	SetVisible(visible bool)
}

// Surface is the dashboard the layout is applied to.
type Surface interface {
	SetGridTemplate(columns, rows int)
	FindPanel(id string) (Element, bool)
}

// Loader fetches the persisted panel configuration.
type Loader interface {
	Load(ctx context.Context) (*model.Document, error)
}

// Logger is the subset of *log.Logger the manager writes to.
type Logger interface {
	Printf(format string, v ...any)
}

type discardLogger struct{}

func (discardLogger) Printf(string, ...any) {}

// Params configures a Manager.
type Params struct {
	Loader   Loader
	Surface  Surface
	Registry *model.Registry
	Logger   Logger
	Tracer   trace.Tracer
}

// Report summarizes one Apply pass.
type Report struct {
	// Placed panels were positioned and shown.
	Placed []model.PanelID
	// Skipped placements had no element or violated the grid.
	Skipped []model.PanelID
	// Hidden panels were hidden by an explicit visibility override.
	Hidden []model.PanelID
}

// Manager replays a persisted layout onto a surface. It is safe for
// concurrent use.
type Manager struct {
	loader   Loader
	surface  Surface
	registry *model.Registry
	logger   Logger
	tracer   trace.Tracer

	mu         sync.Mutex
	doc        *model.Document
	generation uint64
	last       Report
}

// New creates a Manager.
func New(p Params) *Manager {
	m := &Manager{
		loader:   p.Loader,
		surface:  p.Surface,
		registry: p.Registry,
		logger:   p.Logger,
		tracer:   p.Tracer,
	}
	if m.registry == nil {
		m.registry = model.DefaultRegistry()
	}
	if m.logger == nil {
		m.logger = discardLogger{}
	}
	if m.tracer == nil {
		m.tracer = noop.NewTracerProvider().Tracer("kiosk/dashboard")
	}
	return m
}

// Init loads the persisted layout and applies it. When loading fails the
// surface keeps its default arrangement. It never fails.
func (m *Manager) Init(ctx context.Context) bool {
	return m.Refresh(ctx)
}

// Refresh reloads and reapplies the layout. A refresh overtaken by a newer
// one discards its result. It reports whether a layout was applied.
func (m *Manager) Refresh(ctx context.Context) bool {
	m.mu.Lock()
	m.generation++
	gen := m.generation
	m.mu.Unlock()

	doc, err := m.load(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()
	if gen != m.generation {
		m.logger.Printf("dashboard: discarding stale layout load (generation %d)", gen)
		return false
	}
	if err != nil {
		m.logger.Printf("dashboard: using default layout: %v", err)
		return false
	}
	if doc == nil {
		m.logger.Printf("dashboard: no saved layout, using default layout")
		return false
	}
	m.doc = doc
	m.last = m.apply(ctx)
	return true
}

func (m *Manager) load(ctx context.Context) (*model.Document, error) {
	ctx, span := m.tracer.Start(ctx, "dashboard.load")
	defer span.End()

	if m.loader == nil {
		return nil, fmt.Errorf("no loader configured: %w", model.ErrPersistenceUnavailable)
	}
	doc, err := m.loader.Load(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		if !errors.Is(err, model.ErrPersistenceUnavailable) {
			err = fmt.Errorf("%w: %v", model.ErrPersistenceUnavailable, err)
		}
		return nil, err
	}
	if doc != nil {
		doc.Normalize()
	}
	return doc, nil
}

// Use replaces the loaded document without going through the loader, then
// applies it. A nil document leaves the surface as it is.
func (m *Manager) Use(ctx context.Context, doc *model.Document) Report {
	m.mu.Lock()
	defer m.mu.Unlock()
	if doc == nil {
		m.logger.Printf("dashboard: no layout given, keeping current layout")
		return Report{}
	}
	m.generation++
	d := *doc
	d.Layout = doc.Layout.Clone()
	d.Normalize()
	m.doc = &d
	m.last = m.apply(ctx)
	return m.last
}

// Apply reapplies the loaded layout to the surface. Without a loaded layout
// it does nothing.
func (m *Manager) Apply(ctx context.Context) Report {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.doc == nil {
		return Report{}
	}
	m.last = m.apply(ctx)
	return m.last
}

// Document returns a copy of the loaded document, nil before a successful load.
func (m *Manager) Document() *model.Document {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.doc == nil {
		return nil
	}
	d := *m.doc
	d.Layout = m.doc.Layout.Clone()
	d.ActivePanels = append([]model.Visibility(nil), m.doc.ActivePanels...)
	return &d
}

// LastReport returns the report of the most recent apply.
func (m *Manager) LastReport() Report {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.last
}

// WithSurface runs fn while holding the manager's lock, so the surface is not
// rewritten underneath it.
func (m *Manager) WithSurface(fn func(Surface)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	fn(m.surface)
}

func (m *Manager) apply(ctx context.Context) Report {
	_, span := m.tracer.Start(ctx, "dashboard.apply")
	defer span.End()

	var report Report
	doc := m.doc
	span.SetAttributes(
		attribute.Int("grid.rows", doc.Rows),
		attribute.Int("grid.columns", doc.Columns),
		attribute.Int("panels", len(doc.Panels)),
	)

	m.surface.SetGridTemplate(doc.Columns, doc.Rows)

	for _, id := range m.registry.Panels() {
		if el, ok := m.ResolvePanelElement(id); ok {
			el.SetVisible(false)
		}
	}

	var accepted []model.Placement
	for _, p := range doc.Panels {
		if reason := m.reject(p, doc.Layout, accepted); reason != "" {
			m.logger.Printf("dashboard: skipping %s: %s", p.ID, reason)
			report.Skipped = append(report.Skipped, p.ID)
			continue
		}
		el, ok := m.ResolvePanelElement(p.ID)
		if !ok {
			m.logger.Printf("dashboard: skipping %s: no panel element", p.ID)
			report.Skipped = append(report.Skipped, p.ID)
			continue
		}
		el.SetGridArea(p.Row+1, p.Col+1, p.Width, p.Height)
		el.SetVisible(true)
		accepted = append(accepted, p)
		report.Placed = append(report.Placed, p.ID)
	}

	for _, v := range doc.ActivePanels {
		if v.Visible {
			continue
		}
		if el, ok := m.ResolvePanelElement(v.ID); ok {
			el.SetVisible(false)
			report.Hidden = append(report.Hidden, v.ID)
		}
	}

	span.SetAttributes(attribute.Int("panels.skipped", len(report.Skipped)))
	return report
}

func (m *Manager) reject(p model.Placement, l model.Layout, accepted []model.Placement) string {
	if !p.FitsIn(l.Rows, l.Columns) {
		return fmt.Sprintf("does not fit %dx%d grid", l.Rows, l.Columns)
	}
	for _, a := range accepted {
		if a.ID == p.ID {
			return "placed more than once"
		}
		if p.Overlaps(a) {
			return fmt.Sprintf("overlaps %s", a.ID)
		}
	}
	return ""
}

// ResolvePanelElement finds the element for a panel: an element tagged with
// the panel id, else the first element tagged with one of its features.
func (m *Manager) ResolvePanelElement(id model.PanelID) (Element, bool) {
	if el, ok := m.surface.FindPanel(string(id)); ok {
		return el, true
	}
	if !m.registry.IsComposite(id) {
		return nil, false
	}
	for _, f := range m.registry.Features(id) {
		if el, ok := m.surface.FindPanel(string(f)); ok {
			return el, true
		}
	}
	return nil, false
}
