package report

import (
	"fmt"
	"os"

	chart "github.com/wcharczuk/go-chart/v2"

	"fleet-reliability/internal/planner"
)

// WritePlanPNG renders the degradation/cost picture for one plan run: the
// sampled MTBF curve on the primary axis, cost per hour on the secondary
// axis, and a marker at the recommended intervention time.
func WritePlanPNG(path string, points []planner.CostPoint, rec *planner.Recommendation) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	x := make([]float64, len(points))
	mtbf := make([]float64, len(points))
	cost := make([]float64, len(points))
	for i, p := range points {
		x[i] = p.T
		mtbf[i] = p.MTBF
		cost[i] = p.CostPerHour.InexactFloat64()
	}

	graph := chart.Chart{
		Width:  1280,
		Height: 720,
		XAxis: chart.XAxis{
			Name: "Hours since PM",
		},
		YAxis: chart.YAxis{
			Name: "MTBF (h)",
		},
		YAxisSecondary: chart.YAxis{
			Name: "Cost per hour",
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    fmt.Sprintf("MTBF (%s)", rec.Model),
				XValues: x,
				YValues: mtbf,
			},
			chart.ContinuousSeries{
				Name:    "Cost/h",
				XValues: x,
				YValues: cost,
				YAxis:   chart.YAxisSecondary,
			},
			chart.AnnotationSeries{
				YAxis: chart.YAxisSecondary,
				Annotations: []chart.Value2{
					{
						XValue: rec.OptimalTime,
						YValue: rec.CostPerHourAtOptimal.InexactFloat64(),
						Label:  fmt.Sprintf("optimal %.0fh", rec.OptimalTime),
					},
				},
			},
		},
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return graph.Render(chart.PNG, file)
}
