// Command obb-query runs footprint proximity and path curvature analysis over
// a vehicle scenario snapshot.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/banshee-data/vehgeom/internal/config"
	"github.com/banshee-data/vehgeom/internal/monitoring"
	"github.com/banshee-data/vehgeom/internal/obb"
	"github.com/banshee-data/vehgeom/internal/report"
	"github.com/banshee-data/vehgeom/internal/scenario"
	"github.com/banshee-data/vehgeom/internal/store"
	"github.com/banshee-data/vehgeom/internal/version"
)

type options struct {
	configPath   string
	scenarioPath string
	radius       float64
	plotDir      string
	dbPath       string
	jsonOut      bool
	verbose      bool
	history      string
}

func main() {
	var (
		opts        options
		showVersion bool
	)

	flag.StringVar(&opts.configPath, "config", "", "path to analysis config JSON (defaults built in)")
	flag.StringVar(&opts.scenarioPath, "scenario", "", "path to scenario JSON")
	flag.Float64Var(&opts.radius, "radius", 0, "search radius in metres (overrides config)")
	flag.StringVar(&opts.plotDir, "plot-dir", "", "directory for PNG/HTML reports (overrides config)")
	flag.StringVar(&opts.dbPath, "db", "", "sqlite database to record the run in (overrides config)")
	flag.BoolVar(&opts.jsonOut, "json", false, "print the result as JSON")
	flag.BoolVar(&opts.verbose, "verbose", false, "log per-ego detail")
	flag.StringVar(&opts.history, "history", "", "print stored distances for EGO,TARGET from -db and exit")
	flag.BoolVar(&showVersion, "version", false, "print version and exit")
	flag.Parse()

	if showVersion {
		fmt.Println(version.String("obb-query"))
		return
	}

	monitoring.SetVerbose(opts.verbose)
	if opts.jsonOut {
		// Keep stdout clean for the JSON document.
		log.SetOutput(os.Stderr)
	}

	if err := run(opts); err != nil {
		log.Fatal(err)
	}
}

func run(opts options) error {
	cfg := config.DefaultAnalysisConfig()
	if opts.configPath != "" {
		var err error
		if cfg, err = config.LoadAnalysisConfig(opts.configPath); err != nil {
			return fmt.Errorf("load config: %w", err)
		}
	}
	if opts.radius > 0 {
		cfg.SearchRadius = &opts.radius
	}
	if opts.plotDir != "" {
		cfg.PlotDir = &opts.plotDir
	}
	if opts.dbPath != "" {
		cfg.DBPath = &opts.dbPath
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if opts.history != "" {
		if err := printHistory(ctx, cfg.GetDBPath(), opts.history); err != nil {
			return fmt.Errorf("history: %w", err)
		}
		return nil
	}

	if opts.scenarioPath == "" {
		return fmt.Errorf("-scenario must be provided")
	}
	sc, err := scenario.Load(opts.scenarioPath, cfg)
	if err != nil {
		return fmt.Errorf("load scenario: %w", err)
	}

	res, err := scenario.NewAnalyzer(cfg, obb.Engine{}).Run(ctx, sc)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	if p := cfg.GetDBPath(); p != "" {
		st, err := store.Open(p)
		if err != nil {
			return fmt.Errorf("open db: %w", err)
		}
		defer st.Close()
		if err := st.SaveResult(ctx, res); err != nil {
			return fmt.Errorf("save run: %w", err)
		}
		monitoring.Logf("recorded run %s in %s", res.RunID, p)
	}

	if dir := cfg.GetPlotDir(); dir != "" {
		if _, err := report.NewWriter(nil, dir).WriteAll(sc, res); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
	}

	if opts.jsonOut {
		err = report.WriteJSON(os.Stdout, res, cfg.GetReportResolution())
	} else {
		err = report.WriteSummary(os.Stdout, res, cfg.GetReportResolution())
	}
	if err != nil {
		return fmt.Errorf("output: %w", err)
	}
	return nil
}

func printHistory(ctx context.Context, dbPath, pair string) error {
	if dbPath == "" {
		return fmt.Errorf("-db must be provided")
	}
	ego, target, ok := strings.Cut(pair, ",")
	if !ok || ego == "" || target == "" {
		return fmt.Errorf("want EGO,TARGET, got %q", pair)
	}

	st, err := store.Open(dbPath)
	if err != nil {
		return err
	}
	defer st.Close()

	records, err := st.PairHistory(ctx, ego, target)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Printf("no recorded runs with %s within range of %s\n", target, ego)
		return nil
	}
	for _, r := range records {
		fmt.Printf("%s  %s  rank=%d  distance=%.3fm\n", r.CreatedAt.Format(time.RFC3339), r.RunID, r.Rank+1, r.Distance)
	}
	return nil
}
