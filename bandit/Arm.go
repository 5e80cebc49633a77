// Package bandit implements the k-armed bandit testbed: stochastic
// reward arms and the exploration strategies that learn which arm to
// pull
package bandit

import (
	"fmt"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/Fortuz/rl-education/utils/floatutils"
)

// Distribution identifies the payout distribution of an Arm
type Distribution string

// Available payout distributions
const (
	// Normal pays the arm's mean plus standard normal noise
	Normal Distribution = "normal"

	// Uniform pays the arm's mean plus uniform noise on [0, 1)
	Uniform Distribution = "uniform"

	// Constant pays the arm's mean exactly
	Constant Distribution = "constant"
)

// Arm is a single lever of a k-armed bandit. Its true mean and payout
// distribution are fixed once created.
type Arm struct {
	mean  float64
	dist  Distribution
	noise distuv.Rander // nil for Constant
}

// NewArm returns a new Arm with the given payout distribution and a
// true mean drawn once from the standard normal distribution over the
// given random number source
func NewArm(dist Distribution, source rand.Source) (*Arm, error) {
	standardNormal := distuv.Normal{Mu: 0, Sigma: 1, Src: source}
	return NewArmWithMean(standardNormal.Rand(), dist, source)
}

// NewArmWithMean returns a new Arm with a caller-supplied true mean
func NewArmWithMean(mean float64, dist Distribution,
	source rand.Source) (*Arm, error) {
	var noise distuv.Rander
	switch dist {
	case Normal:
		noise = distuv.Normal{Mu: 0, Sigma: 1, Src: source}

	case Uniform:
		noise = distuv.Uniform{Min: 0, Max: 1, Src: source}

	case Constant:
		noise = nil

	default:
		return nil, fmt.Errorf("newArmWithMean: no such distribution %q",
			dist)
	}

	return &Arm{mean, dist, noise}, nil
}

// Mean returns the arm's true mean payout
func (a *Arm) Mean() float64 {
	return a.mean
}

// Sample returns one draw from the arm's payout distribution
func (a *Arm) Sample() float64 {
	if a.noise == nil {
		return a.mean
	}
	return a.mean + a.noise.Rand()
}

// NewArms draws k fresh arms over a shared random number source
func NewArms(k int, dist Distribution, source rand.Source) ([]*Arm, error) {
	if k < 1 {
		return nil, fmt.Errorf("newArms: need at least one arm, got %d", k)
	}

	arms := make([]*Arm, k)
	for i := range arms {
		arm, err := NewArm(dist, source)
		if err != nil {
			return nil, err
		}
		arms[i] = arm
	}
	return arms, nil
}

// OptimalArm returns the index of the arm with the highest true mean
func OptimalArm(arms []*Arm) int {
	means := make([]float64, len(arms))
	for i, arm := range arms {
		means[i] = arm.Mean()
	}
	return floatutils.ArgMax(means)
}
