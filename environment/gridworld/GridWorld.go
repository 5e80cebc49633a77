// Package gridworld implements a 2D gridworld with stochastic slip
// transitions, solved by tabular value iteration
package gridworld

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// CellType classifies a single cell of the grid
type CellType int

const (
	// Free cells can be occupied and have their action values updated
	Free CellType = iota

	// Terminal cells end an episode and pay out their stored reward
	Terminal

	// Blocked cells cannot be entered; moves into them are nullified
	Blocked
)

// Direction indexes the four movement directions. The indices form a
// 4-cycle (up, right, down, left) so that relative slip offsets are
// mod-4 additions on the intended direction.
type Direction int

const (
	Up Direction = iota
	Right
	Down
	Left
)

// NumDirections is the size of the action space
const NumDirections int = 4

// Offset returns the unit movement vector of a direction as a
// (row, column) delta
func (d Direction) Offset() (dr, dc int) {
	switch d {
	case Up:
		return -1, 0
	case Right:
		return 0, 1
	case Down:
		return 1, 0
	case Left:
		return 0, -1
	}
	panic(fmt.Sprintf("offset: no such direction %d", d))
}

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Right:
		return "right"
	case Down:
		return "down"
	case Left:
		return "left"
	}
	return fmt.Sprintf("Direction(%d)", int(d))
}

// GridWorld represents the immutable map of a gridworld: the cell
// classifications and the reward stored at each cell. Rewards are
// meaningful only at Terminal cells; free-cell entries are ignored by
// the transition model in favour of its step reward.
//
// The grid is stored flattened in row-major order, with (0, 0) the
// top-left cell.
type GridWorld struct {
	rows, cols int
	cells      []CellType
	rewards    *mat.Dense
}

// New creates a new GridWorld from a matrix of cell classifications
// and a same-shape matrix of rewards
func New(cells [][]CellType, rewards *mat.Dense) (*GridWorld, error) {
	rows := len(cells)
	if rows == 0 {
		return nil, fmt.Errorf("new: gridworld must have at least one row")
	}
	cols := len(cells[0])

	flat := make([]CellType, 0, rows*cols)
	for i, row := range cells {
		if len(row) != cols {
			return nil, fmt.Errorf("new: row %d has %d columns, expected %d",
				i, len(row), cols)
		}
		flat = append(flat, row...)
	}

	if r, c := rewards.Dims(); r != rows || c != cols {
		return nil, fmt.Errorf("new: rewards shape (%d, %d) does not match "+
			"grid shape (%d, %d)", r, c, rows, cols)
	}

	return &GridWorld{rows, cols, flat, rewards}, nil
}

// Dims gets the rows and columns of the GridWorld
func (g *GridWorld) Dims() (r, c int) {
	return g.rows, g.cols
}

// At returns the classification of cell (i, j)
func (g *GridWorld) At(i, j int) CellType {
	return g.cells[g.index(i, j)]
}

// Reward returns the reward stored at cell (i, j)
func (g *GridWorld) Reward(i, j int) float64 {
	return g.rewards.At(i, j)
}

func (g *GridWorld) index(i, j int) int {
	if i < 0 || i >= g.rows || j < 0 || j >= g.cols {
		panic(fmt.Sprintf("index: cell (%d, %d) out of bounds (%d, %d)",
			i, j, g.rows, g.cols))
	}
	return i*g.cols + j
}

func (g *GridWorld) String() string {
	return fmt.Sprintf("GridWorld | Bounds: (%d, %d)", g.rows, g.cols)
}
