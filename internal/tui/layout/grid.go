package layout

// CellSize holds the rendered size of one grid cell, in terminal cells.
type CellSize struct {
	Width  int
	Height int
}

// CalculateCellSize divides the terminal area left of the sidebar among the
// grid's columns and rows, clamped to the configured bounds.
func CalculateCellSize(terminalWidth, terminalHeight, rows, cols int, cfg GridConfig) CellSize {
	if rows < 1 {
		rows = 1
	}
	if cols < 1 {
		cols = 1
	}

	avail := terminalWidth - cfg.SidebarWidth - cfg.CellGap*(cols-1)
	width := clamp(avail/cols, cfg.MinCellWidth, cfg.MaxCellWidth)

	height := clamp((terminalHeight-cfg.HeightReduction)/rows, cfg.MinCellHeight, cfg.MaxCellHeight)

	return CellSize{Width: width, Height: height}
}

// GridWidth returns the rendered width of a grid with cols columns.
func GridWidth(cell CellSize, cols int, cfg GridConfig) int {
	if cols < 1 {
		return 0
	}
	return cell.Width*cols + cfg.CellGap*(cols-1)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if hi > 0 && v > hi {
		return hi
	}
	return v
}
