package exporter

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/nikbrunner/kiosk/internal/model"
)

func TestDashboardHTML_HasEveryPanel(t *testing.T) {
	html := DashboardHTML(model.DefaultRegistry())

	if !strings.Contains(html, "data-kiosk-grid") {
		t.Error("expected grid container")
	}
	for _, id := range model.DefaultRegistry().Panels() {
		if !strings.Contains(html, `data-panel="`+string(id)+`"`) {
			t.Errorf("expected container for %s", id)
		}
	}
	if !strings.Contains(html, `data-feature="weather"`) {
		t.Error("expected weather feature inside info_feed")
	}
}

func TestDashboardHTML_RegistryOrder(t *testing.T) {
	r := model.NewRegistry(model.PanelDef{ID: "b"}, model.PanelDef{ID: "a"})

	html := DashboardHTML(r)

	if strings.Index(html, `data-panel="b"`) > strings.Index(html, `data-panel="a"`) {
		t.Error("expected containers in registry order")
	}
}

func TestTitle(t *testing.T) {
	tests := []struct {
		id   model.PanelID
		want string
	}{
		{model.InfoFeed, "Info Feed"},
		{"air_quality", "Air Quality"},
		{"clock", "Clock"},
	}
	for _, tt := range tests {
		if got := Title(tt.id); got != tt.want {
			t.Errorf("Title(%q) = %q, want %q", tt.id, got, tt.want)
		}
	}
}

func TestWriteDocument_JSON(t *testing.T) {
	layout := model.NewLayout()
	layout.Panels = append(layout.Panels, model.Placement{ID: model.News, Row: 1, Col: 2, Width: 2, Height: 1})
	doc := model.NewDocument(layout, nil, model.DefaultRegistry(), model.Toggles{})

	var buf bytes.Buffer
	if err := WriteDocument(&buf, doc, FormatJSON); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var got model.Document
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if !got.Layout.Equal(layout) {
		t.Errorf("layout mismatch: got %+v, want %+v", got.Layout, layout)
	}
}

func TestWriteDocument_YAML(t *testing.T) {
	layout := model.NewLayout()
	layout.Panels = append(layout.Panels, model.Placement{ID: model.Timer, Row: 0, Col: 0, Width: 1, Height: 1})
	doc := model.NewDocument(layout, []model.Visibility{{ID: model.Timer, Visible: true}}, model.DefaultRegistry(), model.Toggles{})

	var buf bytes.Buffer
	if err := WriteDocument(&buf, doc, FormatYAML); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"rows: 4", "columns: 4", "- id: timer", "activePanels:"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in YAML output:\n%s", want, out)
		}
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatJSON, false},
		{"JSON", FormatJSON, false},
		{"yml", FormatYAML, false},
		{"toml", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}

	if FormatForPath("layout.YAML") != FormatYAML {
		t.Error("expected yaml for .YAML extension")
	}
}
