package util

import (
	"fmt"

	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"

	"github.com/cstnsystems/minotaur/pkg/multiobjective/framework"
)

// PlotFront creates a scatter plot of a bi-objective front. When a
// reference front is supplied (e.g. the analytic Pareto front of a
// benchmark problem), it is drawn as a second series for comparison.
func PlotFront(results, reference []framework.ObjectiveSpacePoint, problemName, algorithmName, path string) error {
	if len(results) == 0 {
		return fmt.Errorf("results are empty for %s", problemName)
	}

	if len(results[0]) != 2 {
		return fmt.Errorf("can only plot 2D for %s", problemName)
	}

	// Create scatter chart
	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title: fmt.Sprintf("%s Results for %s", algorithmName, problemName),
		}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithInitializationOpts(opts.Initialization{
			Theme: types.ThemeWesteros,
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Name: "f1(x)",
			SplitLine: &opts.SplitLine{
				Show: opts.Bool(true),
			},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name: "f2(x)",
			SplitLine: &opts.SplitLine{
				Show: opts.Bool(true),
			},
		}))

	foundX := make([]opts.ScatterData, len(results))
	for i, res := range results {
		foundX[i] = opts.ScatterData{
			Value:      []float64{res[0], res[1]},
			Symbol:     "triangle",
			SymbolSize: 10,
		}
	}
	scatter.AddSeries(fmt.Sprintf("%s Solutions", algorithmName), foundX)

	if len(reference) > 0 {
		refX := make([]opts.ScatterData, len(reference))
		for i, p := range reference {
			refX[i] = opts.ScatterData{
				Value:      p,
				Symbol:     "circle",
				SymbolSize: 10,
			}
		}
		scatter.AddSeries("True Pareto Front", refX)
	}

	scatter.SetSeriesOptions(
		charts.WithLabelOpts(opts.Label{
			Show: opts.Bool(false),
		}),
		charts.WithEmphasisOpts(opts.Emphasis{}),
	)

	// Create HTML file
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return scatter.Render(f)
}
