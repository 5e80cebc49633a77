// Package plot renders the learning curves of a bandit testbed as
// line charts. It is a read-only consumer of experiment results.
package plot

import (
	"fmt"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"gonum.org/v1/gonum/mat"

	"github.com/Fortuz/rl-education/experiment"
)

// LearningCurves renders two stacked charts to an HTML file: the
// average reward per step and the fraction of runs selecting the
// optimal arm per step, with one series per strategy
func LearningCurves(results []experiment.Result, filename string) error {
	if len(results) == 0 {
		return fmt.Errorf("learningCurves: no results to plot")
	}

	_, steps := results[0].Rewards.Dims()
	xAxis := make([]string, steps)
	for i := range xAxis {
		xAxis[i] = fmt.Sprintf("%d", i)
	}

	rewards := newLine("Average reward", xAxis)
	optimal := newLine("% Optimal action", xAxis)

	for _, result := range results {
		rewards.AddSeries(result.Strategy, lineData(result.MeanRewards()))
		optimal.AddSeries(result.Strategy, lineData(result.MeanOptimal()))
	}

	page := components.NewPage()
	page.AddCharts(rewards, optimal)

	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("learningCurves: could not create %v: %v",
			filename, err)
	}
	defer f.Close()

	if err := page.Render(f); err != nil {
		return fmt.Errorf("learningCurves: could not render: %v", err)
	}
	return nil
}

func newLine(title string, xAxis []string) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title: title,
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Name: "Steps",
		}),
	)
	line.SetXAxis(xAxis)
	return line
}

func lineData(curve *mat.VecDense) []opts.LineData {
	items := make([]opts.LineData, curve.Len())
	for i := range items {
		items[i] = opts.LineData{Value: curve.AtVec(i)}
	}
	return items
}
