package bandit

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"

	"github.com/Fortuz/rl-education/utils/floatutils"
)

// ucbEpsilon keeps the confidence bonus finite for arms that have
// never been selected. Unselected arms still receive a bonus large
// enough to dominate any explored arm.
const ucbEpsilon float64 = 1e-5

// UCB implements the upper-confidence-bound strategy: arms are scored
// by their running-average estimate plus a confidence bonus that
// shrinks as an arm is selected more often
type UCB struct {
	k       int
	c       float64
	initial float64

	estimates  []float64
	selections []int
	t          int

	rng *rand.Rand
}

// NewUCB returns a new UCB strategy over k arms with confidence
// scaling c and initial estimate initial
func NewUCB(k int, c, initial float64, seed uint64) *UCB {
	u := &UCB{
		k:          k,
		c:          c,
		initial:    initial,
		estimates:  make([]float64, k),
		selections: make([]int, k),
		rng:        rand.New(rand.NewSource(seed)),
	}
	u.Reset()
	return u
}

// SelectAction returns the arm with the highest upper confidence
// bound, breaking ties uniformly at random
func (u *UCB) SelectAction() int {
	scores := make([]float64, u.k)
	for i := range scores {
		bonus := math.Sqrt(math.Log(float64(u.t)+1) /
			(float64(u.selections[i]) + ucbEpsilon))
		scores[i] = u.estimates[i] + u.c*bonus
	}

	_, best := floatutils.MaxSlice(scores)
	return best[u.rng.Intn(len(best))]
}

// Update applies the incremental sample-average update for the given
// arm and advances the step counter
func (u *UCB) Update(action int, reward float64) {
	u.t++
	u.selections[action]++
	u.estimates[action] += (reward - u.estimates[action]) /
		float64(u.selections[action])
}

// Reset restores the estimates to the initial value and zeroes the
// selection counts and step counter
func (u *UCB) Reset() {
	u.t = 0
	for i := range u.estimates {
		u.estimates[i] = u.initial
		u.selections[i] = 0
	}
}

// Name returns a display name describing the strategy parameters
func (u *UCB) Name() string {
	return fmt.Sprintf("UCB, c = %v", u.c)
}

// Clone returns a fresh UCB with the same parameters and its own
// random number stream
func (u *UCB) Clone(seed uint64) Strategy {
	return NewUCB(u.k, u.c, u.initial, seed)
}
