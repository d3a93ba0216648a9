package report

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/banshee-data/vehgeom/internal/scenario"
)

// Charts writes an interactive HTML page with the curvature profile and the
// nearest-neighbour distance of every ego.
func (w *Writer) Charts(res *scenario.Result) (string, error) {
	path := filepath.Join(w.dir, ChartFile)
	f, err := w.fs.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := RenderCharts(f, res); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close %s: %w", path, err)
	}
	return path, nil
}

// RenderCharts renders the HTML chart page for res to out.
func RenderCharts(out io.Writer, res *scenario.Result) error {
	page := components.NewPage()
	page.AddCharts(nearestChart(res))
	if len(res.Curvature) > 0 {
		page.AddCharts(curvatureChart(res))
	}
	if err := page.Render(out); err != nil {
		return fmt.Errorf("render error: %w", err)
	}
	return nil
}

func curvatureChart(res *scenario.Result) *charts.Line {
	x := make([]string, len(res.Curvature))
	y := make([]opts.LineData, len(res.Curvature))
	for i, s := range res.Curvature {
		x[i] = fmt.Sprintf("%.1f", s.ArcLength)
		y[i] = opts.LineData{Value: s.Curvature}
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "100%", Height: "480px"}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Path curvature",
			Subtitle: fmt.Sprintf("scenario=%s length=%.1fm max|k|=%.4f", res.Scenario, res.PathLength, res.CurvatureSummary.MaxAbs),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "s (m)", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Name: "k (1/m)", NameLocation: "middle", NameGap: 40}),
	)
	line.SetXAxis(x).AddSeries("curvature", y)
	return line
}

func nearestChart(res *scenario.Result) *charts.Bar {
	x := make([]string, 0, len(res.Egos))
	y := make([]opts.BarData, 0, len(res.Egos))
	for _, e := range res.Egos {
		if len(e.Neighbors) == 0 {
			continue
		}
		x = append(x, shortKey(e.Ego))
		y = append(y, opts.BarData{Value: e.Neighbors[0].Distance, Name: e.Neighbors[0].Key})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "100%", Height: "480px"}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Nearest neighbour distance",
			Subtitle: fmt.Sprintf("run=%s radius=%.1fm", res.RunID, res.SearchRadius),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(x).AddSeries("distance (m)", y)
	return bar
}
