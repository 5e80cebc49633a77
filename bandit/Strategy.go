package bandit

// Strategy is an action-selection and update policy over the arms of
// a k-armed bandit. A Strategy owns its mutable estimates exclusively:
// it must not be shared between concurrently running trials. Use Clone
// to hand each trial an independent instance.
type Strategy interface {
	// SelectAction returns the index of the arm to pull
	SelectAction() int

	// Update informs the strategy of the reward received for pulling
	// the given arm
	Update(action int, reward float64)

	// Reset restores the strategy's estimates for a fresh trial
	Reset()

	// Name returns a display name describing the strategy and its
	// parameters
	Name() string

	// Clone returns an identically parameterized strategy with fresh
	// estimates, drawing random numbers from its own stream seeded
	// with seed
	Clone(seed uint64) Strategy
}
