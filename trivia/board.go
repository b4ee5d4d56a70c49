/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package trivia

import (
	"fmt"
)

const (
	NumCategories    = 6
	CluesPerCategory = 5
	NumCells         = NumCategories * CluesPerCategory
)

type Category struct {
	ID    int
	Title string
	Clues []Clue
}

// Board holds one game's grid. Cells are stored row-major: row r is the
// r-th clue of every category, column c is category c.
type Board struct {
	titles []string
	cells  []Clue
}

// NewBoard lays out the first CluesPerCategory clues of each category,
// every cell starting Hidden. The input is not retained.
func NewBoard(categories []Category) (*Board, error) {
	if len(categories) != NumCategories {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrCategoryCount, len(categories), NumCategories)
	}

	b := &Board{
		titles: make([]string, NumCategories),
		cells:  make([]Clue, NumCells),
	}

	for c, cat := range categories {
		if len(cat.Clues) < CluesPerCategory {
			return nil, fmt.Errorf("%w: %q has %d", ErrTooFewClues, cat.Title, len(cat.Clues))
		}

		b.titles[c] = cat.Title

		for r := 0; r < CluesPerCategory; r++ {
			b.cells[r*NumCategories+c] = Clue{
				Question: cat.Clues[r].Question,
				Answer:   cat.Clues[r].Answer,
				State:    Hidden,
			}
		}
	}

	return b, nil
}

func (b *Board) Len() int {
	return len(b.cells)
}

func (b *Board) Titles() []string {
	return append([]string(nil), b.titles...)
}

// Cell returns a copy of the clue at index i.
func (b *Board) Cell(i int) (Clue, error) {
	if i < 0 || i >= len(b.cells) {
		return Clue{}, fmt.Errorf("%w: %d", ErrNoSuchCell, i)
	}

	return b.cells[i], nil
}

// At returns the clue for category c and clue row r.
func (b *Board) At(c, r int) (Clue, error) {
	if c < 0 || c >= NumCategories || r < 0 || r >= CluesPerCategory {
		return Clue{}, fmt.Errorf("%w: (%d, %d)", ErrNoSuchCell, c, r)
	}

	return b.cells[r*NumCategories+c], nil
}

// Reveal advances the cell at index i.
func (b *Board) Reveal(i int) (bool, error) {
	if i < 0 || i >= len(b.cells) {
		return false, fmt.Errorf("%w: %d", ErrNoSuchCell, i)
	}

	return b.cells[i].Advance(), nil
}
