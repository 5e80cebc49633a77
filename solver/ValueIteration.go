// Package solver implements iterative solvers for tabular
// reinforcement learning problems
package solver

import (
	"fmt"
	"math"
	"runtime"
	"sync"

	"gonum.org/v1/gonum/floats"

	"github.com/Fortuz/rl-education/environment/gridworld"
)

// Config describes a configuration of the value iteration solver
type Config struct {
	// Gamma is the discount factor applied to the bootstrapped
	// lookahead term
	Gamma float64

	// Theta is the convergence threshold: the solver stops once the
	// largest absolute change to any table entry over a full sweep
	// falls below Theta. A Theta of 0 may be unreachable due to
	// floating point noise; pair it with MaxSweeps.
	Theta float64

	// MaxSweeps caps the number of sweeps performed, with 0 meaning
	// no cap
	MaxSweeps int

	// Synchronous switches from in-place sweeps, where updates within
	// a sweep may see partially updated neighbours, to double-buffered
	// sweeps computed entirely from the previous sweep's table. Only
	// synchronous sweeps are parallelized.
	Synchronous bool

	// Workers is the number of goroutines used for synchronous
	// sweeps. Values < 1 default to the number of CPUs.
	Workers int
}

// ValueIteration computes the fixed point of the Bellman optimality
// backup over a gridworld's action-value table by repeated full
// sweeps of all free cells and directions.
type ValueIteration struct {
	transition *gridworld.Transition
	config     Config
}

// NewValueIteration returns a new value iteration solver over the
// given transition model
func NewValueIteration(t *gridworld.Transition, c Config) (*ValueIteration,
	error) {
	if c.Gamma < 0 || c.Gamma > 1 {
		return nil, fmt.Errorf("newValueIteration: discount factor %v "+
			"outside [0, 1]", c.Gamma)
	}
	if c.Theta < 0 {
		return nil, fmt.Errorf("newValueIteration: convergence threshold "+
			"%v < 0", c.Theta)
	}
	if c.Workers < 1 {
		c.Workers = runtime.NumCPU()
	}

	return &ValueIteration{t, c}, nil
}

// Solve converges the action-value table in place, sweeping until the
// largest absolute change over a sweep is below the configured
// threshold or the sweep cap is hit. It returns the number of sweeps
// performed and whether convergence was reached.
//
// Terminal and blocked cells are never written, so their entries act
// as read-only sources for the lookahead term.
func (v *ValueIteration) Solve(q *gridworld.QTable) (sweeps int,
	converged bool) {
	rows, cols := v.transition.GridWorld().Dims()
	if qr, qc := q.Dims(); qr != rows || qc != cols {
		panic(fmt.Sprintf("solve: table shape (%d, %d) does not match "+
			"grid shape (%d, %d)", qr, qc, rows, cols))
	}

	var prev *gridworld.QTable
	if v.config.Synchronous {
		prev = q.Copy()
	}

	for {
		var delta float64
		if v.config.Synchronous {
			delta = v.sweepSynchronous(q, prev)
		} else {
			delta = v.sweep(q)
		}
		sweeps++

		if delta < v.config.Theta {
			return sweeps, true
		}
		if v.config.MaxSweeps > 0 && sweeps >= v.config.MaxSweeps {
			return sweeps, false
		}
	}
}

// sweep performs one in-place sweep, where the backup for each entry
// reads whatever mixture of old and new values the table currently
// holds, and returns the largest absolute change made
func (v *ValueIteration) sweep(q *gridworld.QTable) float64 {
	grid := v.transition.GridWorld()
	rows, cols := grid.Dims()

	var delta float64
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if grid.At(i, j) != gridworld.Free {
				continue
			}

			for a := 0; a < gridworld.NumDirections; a++ {
				action := gridworld.Direction(a)
				value := v.backup(q, i, j, action)

				if d := math.Abs(value - q.At(i, j, action)); d > delta {
					delta = d
				}
				q.Set(i, j, action, value)
			}
		}
	}
	return delta
}

// sweepSynchronous performs one double-buffered sweep: every backup
// reads from a snapshot of the table at the start of the sweep, so
// cells are independent and are fanned out over a worker pool. The
// barrier at the end of the sweep computes the convergence delta.
func (v *ValueIteration) sweepSynchronous(q,
	prev *gridworld.QTable) float64 {
	grid := v.transition.GridWorld()
	rows, cols := grid.Dims()
	prev.CopyFrom(q)

	workers := v.config.Workers
	work := make(chan int, rows)
	deltas := make([]float64, workers)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := range work {
				for j := 0; j < cols; j++ {
					if grid.At(i, j) != gridworld.Free {
						continue
					}

					for a := 0; a < gridworld.NumDirections; a++ {
						action := gridworld.Direction(a)
						value := v.backup(prev, i, j, action)

						d := math.Abs(value - prev.At(i, j, action))
						if d > deltas[w] {
							deltas[w] = d
						}
						q.Set(i, j, action, value)
					}
				}
			}
		}(w)
	}

	for i := 0; i < rows; i++ {
		work <- i
	}
	close(work)
	wg.Wait()

	return floats.Max(deltas)
}

// backup computes the slip-weighted Bellman optimality backup for
// taking direction a at cell (i, j), reading lookahead values from q.
// Terminal cells are never updated, so their lookahead contribution
// is always zero and the backup at a terminal successor reduces to
// its reward.
func (v *ValueIteration) backup(q *gridworld.QTable, i, j int,
	a gridworld.Direction) float64 {
	var value float64
	for _, o := range v.transition.Outcomes(i, j, a) {
		value += o.Prob * (o.Reward + v.config.Gamma*q.Max(o.Row, o.Col))
	}
	return value
}
