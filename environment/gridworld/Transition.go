package gridworld

// Outcome is a single slip branch of a stochastic transition: the
// actual movement direction, its probability, the resulting cell, and
// the reward collected on entering it.
type Outcome struct {
	Dir      Direction
	Prob     float64
	Row, Col int
	Reward   float64
}

// Transition is the stochastic transition model of a GridWorld. Given
// a cell and an intended action it produces the slip-weighted set of
// possible next cells and rewards.
type Transition struct {
	grid       *GridWorld
	slip       Slip
	stepReward float64
}

// NewTransition creates a transition model over g with the given slip
// distribution. The stepReward is paid on every move that does not end
// in a Terminal cell.
func NewTransition(g *GridWorld, slip Slip, stepReward float64) *Transition {
	return &Transition{g, slip, stepReward}
}

// GridWorld returns the grid the transition model operates on
func (t *Transition) GridWorld() *GridWorld {
	return t.grid
}

// Outcomes returns the possible results of intending to move in
// direction a from cell (i, j). Only slip offsets with nonzero
// probability are included, so the probabilities of the returned
// outcomes sum to 1.
//
// Movement off the grid is a no-op against the boundary, and movement
// into a Blocked cell is nullified to the current cell.
func (t *Transition) Outcomes(i, j int, a Direction) []Outcome {
	outcomes := make([]Outcome, 0, NumDirections)

	for offset := 0; offset < NumDirections; offset++ {
		prob := t.slip.Prob(offset)
		if prob == 0 {
			continue
		}

		actual := Direction((int(a) + offset) % NumDirections)
		row, col := t.move(i, j, actual)

		reward := t.stepReward
		if t.grid.At(row, col) == Terminal {
			reward = t.grid.Reward(row, col)
		}

		outcomes = append(outcomes, Outcome{actual, prob, row, col, reward})
	}

	return outcomes
}

// move computes the cell reached by moving in direction d from (i, j),
// clamping at the grid bounds and nullifying moves into blocked cells
func (t *Transition) move(i, j int, d Direction) (int, int) {
	dr, dc := d.Offset()
	row, col := i+dr, j+dc

	if row < 0 || row >= t.grid.rows || col < 0 || col >= t.grid.cols {
		return i, j
	}
	if t.grid.At(row, col) == Blocked {
		return i, j
	}
	return row, col
}
