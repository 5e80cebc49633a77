package gridworld

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/Fortuz/rl-education/utils/floatutils"
)

// QTable stores an action-value estimate for every (cell, direction)
// pair of a GridWorld. The table is backed by a (rows * cols) x
// NumDirections matrix in row-major cell order and is mutated in place
// by the solver.
type QTable struct {
	rows, cols int
	values     *mat.Dense
}

// NewQTable returns a zero-initialized QTable for a (rows, cols) grid
func NewQTable(rows, cols int) *QTable {
	return &QTable{rows, cols, mat.NewDense(rows*cols, NumDirections, nil)}
}

// NewQTableFrom returns a QTable initialized with the given values,
// laid out row-major by cell and then by direction
func NewQTableFrom(rows, cols int, values []float64) (*QTable, error) {
	if len(values) != rows*cols*NumDirections {
		return nil, fmt.Errorf("newQTableFrom: expected %d values, got %d",
			rows*cols*NumDirections, len(values))
	}
	return &QTable{rows, cols, mat.NewDense(rows*cols, NumDirections,
		values)}, nil
}

// Dims gets the rows and columns of the underlying grid
func (q *QTable) Dims() (r, c int) {
	return q.rows, q.cols
}

// At returns the action value of taking direction a at cell (i, j)
func (q *QTable) At(i, j int, a Direction) float64 {
	return q.values.At(q.index(i, j), int(a))
}

// Set sets the action value of taking direction a at cell (i, j)
func (q *QTable) Set(i, j int, a Direction, v float64) {
	q.values.Set(q.index(i, j), int(a), v)
}

// ActionValues returns the action values of cell (i, j) backed by the
// table's storage, so writes to the returned slice mutate the table
func (q *QTable) ActionValues(i, j int) []float64 {
	return q.values.RawRowView(q.index(i, j))
}

// Max returns the maximum action value at cell (i, j)
func (q *QTable) Max(i, j int) float64 {
	return floats.Max(q.ActionValues(i, j))
}

// GreedyActions returns the set of directions tied for the maximum
// action value at cell (i, j)
func (q *QTable) GreedyActions(i, j int) []Direction {
	_, indices := floatutils.MaxSlice(q.ActionValues(i, j))

	actions := make([]Direction, len(indices))
	for n, a := range indices {
		actions[n] = Direction(a)
	}
	return actions
}

// Copy returns a deep copy of the table
func (q *QTable) Copy() *QTable {
	values := mat.NewDense(q.rows*q.cols, NumDirections, nil)
	values.Copy(q.values)
	return &QTable{q.rows, q.cols, values}
}

// CopyFrom overwrites the table with the values of src. The two tables
// must have the same dimensions.
func (q *QTable) CopyFrom(src *QTable) {
	if src.rows != q.rows || src.cols != q.cols {
		panic(fmt.Sprintf("copyFrom: shape (%d, %d) != (%d, %d)",
			src.rows, src.cols, q.rows, q.cols))
	}
	q.values.Copy(src.values)
}

func (q *QTable) index(i, j int) int {
	if i < 0 || i >= q.rows || j < 0 || j >= q.cols {
		panic(fmt.Sprintf("index: cell (%d, %d) out of bounds (%d, %d)",
			i, j, q.rows, q.cols))
	}
	return i*q.cols + j
}
