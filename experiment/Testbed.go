// Package experiment implements functionality for running experiments
// that evaluate bandit strategies over many independent trials
package experiment

import (
	"fmt"
	"runtime"
	"sync"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"

	"github.com/Fortuz/rl-education/bandit"
	"github.com/Fortuz/rl-education/utils/matutils"
	"github.com/Fortuz/rl-education/utils/progressbar"
)

// TestbedConfig describes a configuration of the bandit testbed
type TestbedConfig struct {
	// Arms is the number of arms k of each freshly drawn bandit
	Arms int

	// Distribution is the payout distribution of every arm
	Distribution bandit.Distribution

	// Runs is the number of independent trials per strategy
	Runs int

	// Horizon is the number of steps per trial
	Horizon int

	// Seed seeds every random stream of the testbed: arm draws, arm
	// payouts, and the strategies' action selection
	Seed uint64

	// Workers bounds the goroutines running trials concurrently.
	// Values < 1 default to the number of CPUs.
	Workers int

	// SharedArms reuses a single set of true means for every trial
	// instead of redrawing the arms each trial. Redrawing is the
	// statistically sound default; the shared variant exists for
	// compatibility with testbeds that draw the bandit once.
	SharedArms bool

	// Progress prints a progress bar over trials to the terminal
	Progress bool
}

// Result holds the outcome of all trials of a single strategy
type Result struct {
	// Strategy is the display name of the evaluated strategy
	Strategy string

	// Rewards holds the reward collected at every (run, step)
	Rewards *mat.Dense

	// OptimalChoices holds 1 at every (run, step) where the strategy
	// pulled the arm with the highest true mean, and 0 elsewhere
	OptimalChoices *mat.Dense
}

// MeanRewards reduces the run axis by mean, returning the average
// reward curve over the horizon
func (r *Result) MeanRewards() *mat.VecDense {
	return matutils.ColMean(r.Rewards)
}

// MeanOptimal reduces the run axis by mean, returning the fraction of
// runs selecting the optimal arm at each step
func (r *Result) MeanOptimal() *mat.VecDense {
	return matutils.ColMean(r.OptimalChoices)
}

// Testbed evaluates a set of bandit strategies against freshly drawn
// bandits over repeated independent trials. Trials are independent by
// construction: each owns a cloned strategy, its own arms, and its own
// random streams, so the runs axis is fanned out over a worker pool.
type Testbed struct {
	strategies []bandit.Strategy
	config     TestbedConfig
}

// NewTestbed returns a new Testbed evaluating the given strategies
func NewTestbed(strategies []bandit.Strategy,
	c TestbedConfig) (*Testbed, error) {
	if len(strategies) == 0 {
		return nil, fmt.Errorf("newTestbed: no strategies to evaluate")
	}
	if c.Arms < 1 {
		return nil, fmt.Errorf("newTestbed: need at least one arm, got %d",
			c.Arms)
	}
	if c.Runs < 1 || c.Horizon < 1 {
		return nil, fmt.Errorf("newTestbed: runs (%d) and horizon (%d) "+
			"must be positive", c.Runs, c.Horizon)
	}
	if c.Distribution == "" {
		c.Distribution = bandit.Normal
	}
	if c.Workers < 1 {
		c.Workers = runtime.NumCPU()
	}

	return &Testbed{strategies, c}, nil
}

// Run evaluates every strategy for the configured number of trials and
// returns one Result per strategy, in the order the strategies were
// given
func (t *Testbed) Run() ([]Result, error) {
	c := t.config

	var sharedMeans []float64
	if c.SharedArms {
		means, err := t.drawMeans(rand.NewSource(c.Seed))
		if err != nil {
			return nil, err
		}
		sharedMeans = means
	}

	var pbar *progressbar.ProgressBar
	if c.Progress {
		pbar = progressbar.New(50, len(t.strategies)*c.Runs)
		defer pbar.Close()
	}

	results := make([]Result, len(t.strategies))
	for i, strategy := range t.strategies {
		result, err := t.runStrategy(i, strategy, sharedMeans, pbar)
		if err != nil {
			return nil, err
		}
		results[i] = result
	}

	return results, nil
}

// runStrategy runs all trials of one strategy over the worker pool,
// one result row per trial
func (t *Testbed) runStrategy(index int, strategy bandit.Strategy,
	sharedMeans []float64, pbar *progressbar.ProgressBar) (Result, error) {
	c := t.config

	rewards := mat.NewDense(c.Runs, c.Horizon, nil)
	optimal := mat.NewDense(c.Runs, c.Horizon, nil)

	work := make(chan int, c.Runs)
	errs := make(chan error, c.Workers)

	var wg sync.WaitGroup
	for w := 0; w < c.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for run := range work {
				// Rows are disjoint between runs, so workers write
				// without synchronization.
				err := t.trial(index, run, strategy, sharedMeans,
					rewards.RawRowView(run), optimal.RawRowView(run))
				if err != nil {
					errs <- err
					return
				}
				if pbar != nil {
					pbar.Increment()
				}
			}
		}()
	}

	for run := 0; run < c.Runs; run++ {
		work <- run
	}
	close(work)
	wg.Wait()

	select {
	case err := <-errs:
		return Result{}, err
	default:
	}

	return Result{strategy.Name(), rewards, optimal}, nil
}

// trial plays one independent trial: fresh arms, a cloned strategy,
// and horizon act-sample-update steps recorded into the given rows
func (t *Testbed) trial(strategyIndex, run int, strategy bandit.Strategy,
	sharedMeans []float64, rewards, optimal []float64) error {
	c := t.config

	// Distinct streams per (strategy, run) for the arms and the
	// strategy itself keep trials reproducible under any worker
	// schedule.
	trialSeed := c.Seed + 1 + 2*uint64(strategyIndex*c.Runs+run)
	source := rand.NewSource(trialSeed)

	var arms []*bandit.Arm
	var err error
	if sharedMeans != nil {
		arms, err = t.armsWithMeans(sharedMeans, source)
	} else {
		arms, err = bandit.NewArms(c.Arms, c.Distribution, source)
	}
	if err != nil {
		return fmt.Errorf("trial: %v", err)
	}
	best := bandit.OptimalArm(arms)

	trial := strategy.Clone(trialSeed + 1)
	trial.Reset()

	for step := 0; step < c.Horizon; step++ {
		action := trial.SelectAction()
		reward := arms[action].Sample()

		rewards[step] = reward
		if action == best {
			optimal[step] = 1
		}

		trial.Update(action, reward)
	}

	return nil
}

// drawMeans draws the true means of one bandit
func (t *Testbed) drawMeans(source rand.Source) ([]float64, error) {
	arms, err := bandit.NewArms(t.config.Arms, t.config.Distribution, source)
	if err != nil {
		return nil, err
	}

	means := make([]float64, len(arms))
	for i, arm := range arms {
		means[i] = arm.Mean()
	}
	return means, nil
}

// armsWithMeans builds a trial-local arm set over the shared true
// means, so concurrent trials never share a payout stream
func (t *Testbed) armsWithMeans(means []float64,
	source rand.Source) ([]*bandit.Arm, error) {
	arms := make([]*bandit.Arm, len(means))
	for i, mean := range means {
		arm, err := bandit.NewArmWithMean(mean, t.config.Distribution, source)
		if err != nil {
			return nil, err
		}
		arms[i] = arm
	}
	return arms, nil
}
