package main

import (
	"fmt"
	"strings"
)

type startKey struct {
	row, col int
	dir      direction
}

// compilePuzzle turns a finished layout into a dense, numbered puzzle.
// Coordinates are shifted so the bounding box starts at (0,0); every
// coordinate that never received a letter becomes a block cell. Clue
// numbers are assigned by a row-major scan, an across-start and a
// down-start on the same cell sharing one number.
func compilePuzzle(l *layout) (*Puzzle, error) {
	rows := l.bounds.height()
	cols := l.bounds.width()

	grid := make([][]Cell, rows)
	for r := range grid {
		grid[r] = make([]Cell, cols)
		for c := range grid[r] {
			grid[r][c] = Cell{Row: r, Col: c, Block: true}
		}
	}
	for _, cell := range l.grid.cells {
		r, c := cell.row-l.bounds.minRow, cell.col-l.bounds.minCol
		grid[r][c] = Cell{Row: r, Col: c, Solution: string(cell.letter)}
	}

	// Index each placement by its shifted start; the numbering pass
	// below must find exactly one entry per run it discovers.
	starts := make(map[startKey]int, len(l.placements))
	for _, p := range l.placements {
		k := startKey{row: p.row - l.bounds.minRow, col: p.col - l.bounds.minCol, dir: p.dir}
		if other, dup := starts[k]; dup {
			return nil, fmt.Errorf("%q et %q partagent le départ (%d,%d,%s)",
				l.entries[other].Answer, l.entries[p.entryIndex].Answer, k.row, k.col, k.dir)
		}
		starts[k] = p.entryIndex
	}

	letter := func(r, c int) bool {
		return r >= 0 && r < rows && c >= 0 && c < cols && !grid[r][c].Block
	}

	used := make([]bool, len(l.entries))
	clues := ClueList{}
	number := 0

	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			if grid[r][c].Block {
				continue
			}
			acrossStart := !letter(r, c-1) && letter(r, c+1)
			downStart := !letter(r-1, c) && letter(r+1, c)
			if !acrossStart && !downStart {
				continue
			}

			number++
			grid[r][c].Number = number

			if acrossStart {
				clue, err := buildClue(l, grid, starts, used, number, r, c, across)
				if err != nil {
					return nil, err
				}
				clues.Across = append(clues.Across, clue)
			}
			if downStart {
				clue, err := buildClue(l, grid, starts, used, number, r, c, down)
				if err != nil {
					return nil, err
				}
				clues.Down = append(clues.Down, clue)
			}
		}
	}

	var unused []string
	for i, u := range used {
		if !u {
			unused = append(unused, l.entries[i].Answer)
		}
	}
	if len(unused) > 0 {
		return nil, fmt.Errorf("entrées sans définition dans la grille : %s", strings.Join(unused, ", "))
	}

	return &Puzzle{Rows: rows, Cols: cols, Grid: grid, Clues: clues}, nil
}

// buildClue walks the run starting at (r, c) along dir, collects its
// cells and binds them to the entry placed there.
func buildClue(l *layout, grid [][]Cell, starts map[startKey]int, used []bool, number, r, c int, dir direction) (Clue, error) {
	idx, ok := starts[startKey{row: r, col: c, dir: dir}]
	if !ok {
		return Clue{}, fmt.Errorf("aucun placement ne commence en (%d,%d,%s)", r, c, dir)
	}

	dr, dc := dir.delta()
	var cells []CellRef
	var word strings.Builder
	for r >= 0 && r < len(grid) && c >= 0 && c < len(grid[0]) && !grid[r][c].Block {
		cells = append(cells, CellRef{Row: r, Col: c})
		word.WriteString(grid[r][c].Solution)
		r += dr
		c += dc
	}

	if word.String() != l.entries[idx].Answer {
		return Clue{}, fmt.Errorf("la grille contient %q là où %q était placé", word.String(), l.entries[idx].Answer)
	}
	used[idx] = true

	return Clue{Number: number, Text: l.entries[idx].Clue, Cells: cells}, nil
}

// BuildPuzzle runs the full pipeline: placement then compilation.
func BuildPuzzle(entries []Entry) (*Puzzle, error) {
	l, err := placeEntries(entries)
	if err != nil {
		return nil, err
	}
	return compilePuzzle(l)
}
