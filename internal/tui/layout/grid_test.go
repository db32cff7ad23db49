package layout

import "testing"

func TestCalculateCellSize(t *testing.T) {
	cfg := DefaultConfig().Grid

	tests := []struct {
		name          string
		width, height int
		rows, cols    int
		want          CellSize
	}{
		{"standard terminal", 80, 24, 4, 4, CellSize{Width: 12, Height: 4}}, // (80-28-3)/4, (24-6)/4
		{"large terminal clamps to max", 200, 50, 4, 4, CellSize{Width: 24, Height: 5}},
		{"small terminal clamps to min", 40, 10, 4, 4, CellSize{Width: 6, Height: 1}},
		{"degenerate grid treated as 1x1", 80, 24, 0, 0, CellSize{Width: 24, Height: 5}},
		{"wide grid", 100, 24, 2, 8, CellSize{Width: 8, Height: 5}}, // (100-28-7)/8, 18/2 clamps
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateCellSize(tt.width, tt.height, tt.rows, tt.cols, cfg)
			if got != tt.want {
				t.Errorf("CalculateCellSize(%d, %d, %d, %d) = %+v, want %+v",
					tt.width, tt.height, tt.rows, tt.cols, got, tt.want)
			}
		})
	}
}

func TestGridWidth(t *testing.T) {
	cfg := DefaultConfig().Grid

	if got := GridWidth(CellSize{Width: 12, Height: 4}, 4, cfg); got != 51 {
		t.Errorf("GridWidth = %d, want 51", got)
	}
	if got := GridWidth(CellSize{Width: 12, Height: 4}, 0, cfg); got != 0 {
		t.Errorf("GridWidth with no columns = %d, want 0", got)
	}
}
