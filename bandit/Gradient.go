package bandit

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"
)

// Gradient implements the gradient bandit strategy: a preference is
// kept per arm, actions are sampled from the softmax of the
// preferences, and preferences ascend the gradient of expected reward
// against a running baseline
type Gradient struct {
	k     int
	alpha float64

	preferences []float64
	baseline    float64
	t           int

	source rand.Source
}

// NewGradient returns a new Gradient strategy over k arms with step
// size alpha
func NewGradient(k int, alpha float64, seed uint64) *Gradient {
	g := &Gradient{
		k:           k,
		alpha:       alpha,
		preferences: make([]float64, k),
		source:      rand.NewSource(seed),
	}
	g.Reset()
	return g
}

// SelectAction samples an arm from the softmax distribution over the
// current preferences
func (g *Gradient) SelectAction() int {
	dist := distuv.NewCategorical(Softmax(g.preferences), g.source)
	return int(dist.Rand())
}

// Update advances the reward baseline and moves the preferences along
// the gradient bandit update: the chosen arm's preference grows in
// proportion to how much the reward beat the baseline, all others
// shrink by their share of the softmax mass
func (g *Gradient) Update(action int, reward float64) {
	g.t++
	g.baseline += (reward - g.baseline) / float64(g.t)

	probs := Softmax(g.preferences)
	step := g.alpha * (reward - g.baseline)
	for i := range g.preferences {
		if i == action {
			g.preferences[i] += step * (1 - probs[i])
		} else {
			g.preferences[i] -= step * probs[i]
		}
	}
}

// Reset zeroes the preferences, baseline, and step counter
func (g *Gradient) Reset() {
	g.t = 0
	g.baseline = 0
	for i := range g.preferences {
		g.preferences[i] = 0
	}
}

// Name returns a display name describing the strategy parameters
func (g *Gradient) Name() string {
	return fmt.Sprintf("Gradient, α = %v", g.alpha)
}

// Clone returns a fresh Gradient with the same parameters and its own
// random number stream
func (g *Gradient) Clone(seed uint64) Strategy {
	return NewGradient(g.k, g.alpha, seed)
}

// Softmax returns the normalized exponential of x. The maximum is
// subtracted before exponentiating so that large preferences do not
// overflow.
func Softmax(x []float64) []float64 {
	max := floats.Max(x)

	probs := make([]float64, len(x))
	var sum float64
	for i, v := range x {
		probs[i] = math.Exp(v - max)
		sum += probs[i]
	}

	for i := range probs {
		probs[i] /= sum
	}
	return probs
}
