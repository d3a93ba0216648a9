package report

import (
	"fmt"
	"image/color"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/banshee-data/vehgeom/internal/fsutil"
	"github.com/banshee-data/vehgeom/internal/monitoring"
	"github.com/banshee-data/vehgeom/internal/scenario"
)

// Output file names written into the report directory.
const (
	FootprintPlotFile = "footprints.png"
	CurvaturePlotFile = "curvature.png"
	ChartFile         = "report.html"
)

var (
	egoFill     = color.RGBA{R: 31, G: 119, B: 180, A: 160}
	otherFill   = color.RGBA{R: 150, G: 150, B: 150, A: 120}
	outlineGrey = color.RGBA{R: 60, G: 60, B: 60, A: 255}
	pathRed     = color.RGBA{R: 214, G: 39, B: 40, A: 255}
)

// Writer renders analysis artefacts into a directory.
type Writer struct {
	fs  fsutil.FileSystem
	dir string
}

// NewWriter creates a Writer targeting dir on fsys. A nil fsys writes to
// the OS filesystem.
func NewWriter(fsys fsutil.FileSystem, dir string) *Writer {
	if fsys == nil {
		fsys = fsutil.OSFileSystem{}
	}
	return &Writer{fs: fsys, dir: dir}
}

// WriteAll renders every artefact and returns the paths written. The
// curvature plot is skipped when the scenario has no path.
func (w *Writer) WriteAll(sc *scenario.Scenario, res *scenario.Result) ([]string, error) {
	if err := w.fs.MkdirAll(w.dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create report directory: %w", err)
	}

	var written []string
	p, err := w.FootprintPlot(sc)
	if err != nil {
		return written, err
	}
	written = append(written, p)

	if len(res.Curvature) > 0 {
		p, err = w.CurvaturePlot(res)
		if err != nil {
			return written, err
		}
		written = append(written, p)
	}

	p, err = w.Charts(res)
	if err != nil {
		return written, err
	}
	written = append(written, p)

	monitoring.Logf("report: wrote %d files to %s", len(written), w.dir)
	return written, nil
}

// FootprintPlot draws every footprint, ego vehicles highlighted, and the
// reference path when present.
func (w *Writer) FootprintPlot(sc *scenario.Scenario) (string, error) {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("Footprints: %s", sc.Name)
	p.X.Label.Text = "X (m)"
	p.Y.Label.Text = "Y (m)"
	p.Add(plotter.NewGrid())

	egos := make(map[string]bool, len(sc.Egos))
	for _, e := range sc.Egos {
		egos[e] = true
	}

	labelXYs := make(plotter.XYs, 0, len(sc.Footprints))
	labels := make([]string, 0, len(sc.Footprints))
	for _, fp := range sc.Footprints {
		poly := fp.Polygon()
		xys := make(plotter.XYs, poly.Len())
		for i, v := range poly.Vertices {
			xys[i] = plotter.XY{X: v.X, Y: v.Y}
		}
		pg, err := plotter.NewPolygon(xys)
		if err != nil {
			return "", fmt.Errorf("failed to create footprint polygon %s: %w", fp.Key, err)
		}
		pg.Color = otherFill
		if egos[fp.Key] {
			pg.Color = egoFill
		}
		pg.LineStyle.Color = outlineGrey
		pg.LineStyle.Width = vg.Points(0.5)
		p.Add(pg)

		c := fp.Center()
		labelXYs = append(labelXYs, plotter.XY{X: c.X, Y: c.Y})
		labels = append(labels, shortKey(fp.Key))
	}

	if len(labels) > 0 {
		lbl, err := plotter.NewLabels(plotter.XYLabels{XYs: labelXYs, Labels: labels})
		if err != nil {
			return "", fmt.Errorf("failed to create labels: %w", err)
		}
		p.Add(lbl)
	}

	if len(sc.Path) > 1 {
		xys := make(plotter.XYs, len(sc.Path))
		for i, v := range sc.Path {
			xys[i] = plotter.XY{X: v.X, Y: v.Y}
		}
		line, err := plotter.NewLine(xys)
		if err != nil {
			return "", fmt.Errorf("failed to create path line: %w", err)
		}
		line.Color = pathRed
		line.Width = vg.Points(1)
		p.Add(line)
		p.Legend.Add("path", line)
	}

	return w.save(p, FootprintPlotFile, 10*vg.Inch, 10*vg.Inch)
}

// CurvaturePlot draws the resampled curvature profile against arc length,
// with the per-vertex values as points.
func (w *Writer) CurvaturePlot(res *scenario.Result) (string, error) {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("Path curvature: %s", res.Scenario)
	p.X.Label.Text = "Arc length (m)"
	p.Y.Label.Text = "Curvature (1/m)"
	p.Add(plotter.NewGrid())

	pts := make(plotter.XYs, len(res.Curvature))
	for i, s := range res.Curvature {
		pts[i] = plotter.XY{X: s.ArcLength, Y: s.Curvature}
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return "", fmt.Errorf("failed to create curvature line: %w", err)
	}
	line.Color = pathRed
	line.Width = vg.Points(1)
	p.Add(line)
	p.Legend.Add("resampled", line)

	if len(res.VertexCurvature) > 0 {
		vpts := make(plotter.XYs, len(res.VertexCurvature))
		for i, s := range res.VertexCurvature {
			vpts[i] = plotter.XY{X: s.ArcLength, Y: s.Curvature}
		}
		sc, err := plotter.NewScatter(vpts)
		if err != nil {
			return "", fmt.Errorf("failed to create vertex scatter: %w", err)
		}
		sc.GlyphStyle.Color = egoFill
		sc.GlyphStyle.Radius = vg.Points(2)
		p.Add(sc)
		p.Legend.Add("vertices", sc)
	}

	return w.save(p, CurvaturePlotFile, 14*vg.Inch, 6*vg.Inch)
}

func (w *Writer) save(p *plot.Plot, name string, width, height vg.Length) (string, error) {
	path := filepath.Join(w.dir, name)
	wt, err := p.WriterTo(width, height, "png")
	if err != nil {
		return "", fmt.Errorf("failed to render %s: %w", name, err)
	}
	f, err := w.fs.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", path, err)
	}
	if _, err := wt.WriteTo(f); err != nil {
		f.Close()
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close %s: %w", path, err)
	}
	return path, nil
}

// shortKey trims generated UUID keys so plot labels stay legible.
func shortKey(key string) string {
	if len(key) > 8 {
		return key[:8]
	}
	return key
}
