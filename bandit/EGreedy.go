package bandit

import (
	"fmt"

	"golang.org/x/exp/rand"

	"github.com/Fortuz/rl-education/utils/floatutils"
)

// EGreedy implements the ε-greedy strategy: with probability ε it
// explores uniformly at random, otherwise it exploits an arm with the
// highest running-average estimate, breaking ties uniformly at random
type EGreedy struct {
	k       int
	epsilon float64
	initial float64

	estimates  []float64
	selections []int

	rng *rand.Rand
}

// NewEGreedy returns a new EGreedy strategy over k arms with
// exploration probability epsilon and optimistic initial estimate
// initial
func NewEGreedy(k int, epsilon, initial float64, seed uint64) *EGreedy {
	e := &EGreedy{
		k:          k,
		epsilon:    epsilon,
		initial:    initial,
		estimates:  make([]float64, k),
		selections: make([]int, k),
		rng:        rand.New(rand.NewSource(seed)),
	}
	e.Reset()
	return e
}

// NewGreedy returns a purely greedy strategy over k arms
func NewGreedy(k int, initial float64, seed uint64) *EGreedy {
	return NewEGreedy(k, 0, initial, seed)
}

// SelectAction returns the arm to pull
func (e *EGreedy) SelectAction() int {
	if e.rng.Float64() < e.epsilon {
		return e.rng.Intn(e.k)
	}

	_, greedy := floatutils.MaxSlice(e.estimates)
	return greedy[e.rng.Intn(len(greedy))]
}

// Update applies the incremental sample-average update for the given
// arm. The selection count is incremented before dividing, so the
// denominator is never zero.
func (e *EGreedy) Update(action int, reward float64) {
	e.selections[action]++
	e.estimates[action] += (reward - e.estimates[action]) /
		float64(e.selections[action])
}

// Reset restores the estimates to the initial value and zeroes the
// selection counts
func (e *EGreedy) Reset() {
	for i := range e.estimates {
		e.estimates[i] = e.initial
		e.selections[i] = 0
	}
}

// Name returns a display name describing the strategy parameters
func (e *EGreedy) Name() string {
	name := "Greedy"
	if e.epsilon != 0 {
		name = fmt.Sprintf("ε-greedy, ε = %v", e.epsilon)
	}
	if e.initial != 0 {
		name += fmt.Sprintf(", init: %v", e.initial)
	}
	return name
}

// Clone returns a fresh EGreedy with the same parameters and its own
// random number stream
func (e *EGreedy) Clone(seed uint64) Strategy {
	return NewEGreedy(e.k, e.epsilon, e.initial, seed)
}
