package gridworld

import "fmt"

// Relative slip offsets on the direction 4-cycle
const (
	slipForward int = iota
	slipRight
	slipBackward
	slipLeft
)

// Slip is a probability distribution over the actual movement
// direction relative to the intended one, modelling environment
// stochasticity. The forward mass is derived as the remainder of the
// three caller-supplied masses.
type Slip struct {
	probs [NumDirections]float64
}

// NewSlip creates a Slip from the probabilities of veering right,
// moving backward, and veering left of the intended direction. The
// forward probability is 1 minus their sum. An error is returned when
// the forward probability would be negative.
func NewSlip(right, backward, left float64) (Slip, error) {
	forward := 1.0 - right - backward - left
	if forward < 0 {
		return Slip{}, fmt.Errorf("newSlip: slip probabilities sum to %v > 1",
			right+backward+left)
	}

	return Slip{[NumDirections]float64{forward, right, backward, left}}, nil
}

// ForwardSlip returns the deterministic slip model: the agent always
// moves in the intended direction.
func ForwardSlip() Slip {
	return Slip{[NumDirections]float64{1, 0, 0, 0}}
}

// Prob returns the probability of the relative offset (0 = forward,
// 1 = right, 2 = backward, 3 = left)
func (s Slip) Prob(offset int) float64 {
	return s.probs[offset]
}
