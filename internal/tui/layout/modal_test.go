package layout

import "testing"

func TestCalculateModalWidth(t *testing.T) {
	cfg := DefaultConfig().Modal

	tests := []struct {
		name          string
		terminalWidth int
		want          int
	}{
		{"percentage", 120, 48},    // 120*40/100
		{"clamps to max", 200, 70}, // 80 > 70
		{"clamps to min", 80, 40},  // 32 < 40
		{"fits terminal", 30, 26},  // min 40 exceeds 30-4
		{"tiny terminal clamps to 1", 3, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateModalWidth(tt.terminalWidth, cfg.DefaultWidthPercent, cfg)
			if got != tt.want {
				t.Errorf("CalculateModalWidth(%d) = %d, want %d", tt.terminalWidth, got, tt.want)
			}
		})
	}
}

func TestCalculateVisibleListItems(t *testing.T) {
	tests := []struct {
		name                        string
		maxVisible, selected, total int
		wantStart, wantEnd          int
	}{
		{"all fit", 8, 2, 5, 0, 5},
		{"selection in first page", 3, 1, 7, 0, 3},
		{"selection scrolls", 3, 4, 7, 2, 5},
		{"selection at end", 3, 6, 7, 4, 7},
		{"empty", 3, 0, 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := CalculateVisibleListItems(tt.maxVisible, tt.selected, tt.total)
			if start != tt.wantStart || end != tt.wantEnd {
				t.Errorf("CalculateVisibleListItems(%d, %d, %d) = (%d, %d), want (%d, %d)",
					tt.maxVisible, tt.selected, tt.total, start, end, tt.wantStart, tt.wantEnd)
			}
		})
	}
}
