package solver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/Fortuz/rl-education/environment/gridworld"
)

// newCorridorWorld builds the 3x3 test map with a single +1 terminal
// in the top-right corner
func newCorridorWorld(t *testing.T) *gridworld.GridWorld {
	t.Helper()

	cells := [][]gridworld.CellType{
		{gridworld.Free, gridworld.Free, gridworld.Terminal},
		{gridworld.Free, gridworld.Free, gridworld.Free},
		{gridworld.Free, gridworld.Free, gridworld.Free},
	}
	rewards := mat.NewDense(3, 3, nil)
	rewards.Set(0, 2, 1)

	grid, err := gridworld.New(cells, rewards)
	require.NoError(t, err)
	return grid
}

func TestSolveGreedyPolicyReachesGoal(t *testing.T) {
	grid := newCorridorWorld(t)
	transition := gridworld.NewTransition(grid, gridworld.ForwardSlip(), -0.01)

	vi, err := NewValueIteration(transition, Config{Gamma: 1, Theta: 1e-10})
	require.NoError(t, err)

	q := gridworld.NewQTable(3, 3)
	_, converged := vi.Solve(q)
	require.True(t, converged)

	// One step from the goal the greedy action enters it directly
	assert.Equal(t, []gridworld.Direction{gridworld.Right},
		q.GreedyActions(0, 1))
	assert.InDelta(t, 1.0, q.At(0, 1, gridworld.Right), 1e-9)

	// From the far corner the policy heads toward the goal
	assert.Equal(t, []gridworld.Direction{gridworld.Right},
		q.GreedyActions(0, 0))
	assert.InDelta(t, 0.99, q.Max(0, 0), 1e-9)

	// Terminal cells are never written
	for a := 0; a < gridworld.NumDirections; a++ {
		assert.Zero(t, q.At(0, 2, gridworld.Direction(a)))
	}
}

func TestSolveIdempotentAtFixedPoint(t *testing.T) {
	grid := newCorridorWorld(t)
	transition := gridworld.NewTransition(grid, gridworld.ForwardSlip(), -0.01)

	vi, err := NewValueIteration(transition, Config{Gamma: 1, Theta: 1e-10})
	require.NoError(t, err)

	q := gridworld.NewQTable(3, 3)
	_, converged := vi.Solve(q)
	require.True(t, converged)

	before := q.Copy()
	sweeps, converged := vi.Solve(q)
	assert.True(t, converged)
	assert.Equal(t, 1, sweeps)

	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			for a := 0; a < gridworld.NumDirections; a++ {
				action := gridworld.Direction(a)
				assert.InDelta(t, before.At(i, j, action),
					q.At(i, j, action), 1e-10)
			}
		}
	}
}

func TestSolveSynchronousMatchesInPlace(t *testing.T) {
	grid := newCorridorWorld(t)

	slip, err := gridworld.NewSlip(0.1, 0, 0.1)
	require.NoError(t, err)
	transition := gridworld.NewTransition(grid, slip, -0.01)

	inPlace, err := NewValueIteration(transition, Config{
		Gamma: 0.9,
		Theta: 1e-12,
	})
	require.NoError(t, err)

	synchronous, err := NewValueIteration(transition, Config{
		Gamma:       0.9,
		Theta:       1e-12,
		Synchronous: true,
		Workers:     4,
	})
	require.NoError(t, err)

	qa := gridworld.NewQTable(3, 3)
	qb := gridworld.NewQTable(3, 3)

	_, converged := inPlace.Solve(qa)
	require.True(t, converged)
	_, converged = synchronous.Solve(qb)
	require.True(t, converged)

	// Both sweep orders converge to the same fixed point
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			for a := 0; a < gridworld.NumDirections; a++ {
				action := gridworld.Direction(a)
				assert.InDelta(t, qa.At(i, j, action), qb.At(i, j, action),
					1e-9)
			}
		}
	}
}

func TestSolveSweepCap(t *testing.T) {
	grid := newCorridorWorld(t)
	transition := gridworld.NewTransition(grid, gridworld.ForwardSlip(), -0.01)

	// Theta 0 is unreachable on the first sweeps; the cap acts as the
	// safety valve
	vi, err := NewValueIteration(transition, Config{
		Gamma:     1,
		Theta:     0,
		MaxSweeps: 3,
	})
	require.NoError(t, err)

	q := gridworld.NewQTable(3, 3)
	sweeps, converged := vi.Solve(q)
	assert.False(t, converged)
	assert.Equal(t, 3, sweeps)
}

func TestNewValueIterationValidation(t *testing.T) {
	grid := newCorridorWorld(t)
	transition := gridworld.NewTransition(grid, gridworld.ForwardSlip(), -0.01)

	_, err := NewValueIteration(transition, Config{Gamma: 1.5, Theta: 1e-3})
	assert.Error(t, err)

	_, err = NewValueIteration(transition, Config{Gamma: 1, Theta: -1e-3})
	assert.Error(t, err)
}
