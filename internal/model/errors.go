package model

import (
	"errors"
	"fmt"
)

var (
	// ErrOutOfBounds means a candidate placement extends past the grid.
	ErrOutOfBounds = errors.New("placement out of bounds")
	// ErrOccupiedCell means a candidate cell is held by another panel.
	ErrOccupiedCell = errors.New("cell occupied by another panel")
	// ErrNotPlaced means the panel is not on the grid.
	ErrNotPlaced = errors.New("panel not placed")
	// ErrNotAvailable means the panel is disabled or already placed.
	ErrNotAvailable = errors.New("panel not available")
	// ErrNoSelection means no panel is pending placement.
	ErrNoSelection = errors.New("no panel selected for placement")
	// ErrInvalidGrid means rows or columns is below one.
	ErrInvalidGrid = errors.New("grid dimensions must be at least 1")
	// ErrPersistenceUnavailable means loading or saving the layout failed.
	ErrPersistenceUnavailable = errors.New("persistence unavailable")
)

// PlacementError describes a rejected editor operation.
type PlacementError struct {
	Op  string
	ID  PanelID
	Row int
	Col int
	Err error
}

func (e *PlacementError) Error() string {
	switch {
	case e.ID == "":
		return fmt.Sprintf("%s at row %d, col %d: %v", e.Op, e.Row+1, e.Col+1, e.Err)
	case errors.Is(e.Err, ErrNotPlaced), errors.Is(e.Err, ErrNotAvailable):
		return fmt.Sprintf("%s %s: %v", e.Op, e.ID, e.Err)
	default:
		return fmt.Sprintf("%s %s at row %d, col %d: %v", e.Op, e.ID, e.Row+1, e.Col+1, e.Err)
	}
}

func (e *PlacementError) Unwrap() error {
	return e.Err
}
