// Package report renders analysis results for people and other programs.
//
// Outputs:
//   - footprints.png: gonum/plot drawing of every footprint and the path
//   - curvature.png: curvature against arc length
//   - report.html: go-echarts page with nearest-neighbour and curvature charts
//   - text and JSON summaries, distances rounded to the configured resolution
package report
