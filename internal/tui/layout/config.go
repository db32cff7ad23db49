package layout

// LayoutConfig holds all layout-related configuration values.
type LayoutConfig struct {
	Grid    GridConfig
	Modal   ModalConfig
	Input   InputConfig
	Text    TextConfig
	Palette PaletteConfig
}

// GridConfig holds the editor grid dimension configuration.
type GridConfig struct {
	// HeightReduction is subtracted from terminal height before dividing by rows.
	// Accounts for: app padding (1) + header (2) + status line (1) + help bar (2) = 6
	HeightReduction int

	// SidebarWidth is the width reserved right of the grid for the panel list.
	SidebarWidth int

	// CellGap is the horizontal space between two cells.
	CellGap int

	MinCellWidth  int
	MaxCellWidth  int
	MinCellHeight int
	MaxCellHeight int
}

// ModalConfig holds modal dialog configuration.
type ModalConfig struct {
	// DefaultWidthPercent is the standard modal width as percentage of terminal width.
	DefaultWidthPercent int

	MinWidth int
	MaxWidth int
}

// InputConfig holds text input configuration.
type InputConfig struct {
	PaletteCharLimit int
	PaletteWidth     int
}

// TextConfig holds text truncation configuration.
type TextConfig struct {
	// Ellipsis is the string used to indicate truncation.
	Ellipsis string
}

// PaletteConfig holds the panel palette configuration.
type PaletteConfig struct {
	// MaxVisible is the number of palette rows shown at once.
	MaxVisible int
}

// DefaultConfig returns the default layout configuration.
func DefaultConfig() LayoutConfig {
	return LayoutConfig{
		Grid: GridConfig{
			HeightReduction: 6,
			SidebarWidth:    28,
			CellGap:         1,
			MinCellWidth:    6,
			MaxCellWidth:    24,
			MinCellHeight:   1,
			MaxCellHeight:   5,
		},
		Modal: ModalConfig{
			DefaultWidthPercent: 40,
			MinWidth:            40,
			MaxWidth:            70,
		},
		Input: InputConfig{
			PaletteCharLimit: 40,
			PaletteWidth:     30,
		},
		Text: TextConfig{
			Ellipsis: "…",
		},
		Palette: PaletteConfig{
			MaxVisible: 8,
		},
	}
}
