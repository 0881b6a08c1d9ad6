// Command dehnscan scans Dehn-filling volume grids for coincidences that the
// known volume-formula symmetries do not explain.
//
// Volumes come from an external solver binary (-solver) or, in dev mode, from
// a fixture table (-fixtures). The known symmetries are read from a flat text
// database (-symmetries); manifolds without an entry are scanned with no
// exclusions. The per-manifold report goes to stdout.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/volumetry/dehnscan/internal/config"
	"github.com/volumetry/dehnscan/internal/scan"
	"github.com/volumetry/dehnscan/internal/symmetry"
	"github.com/volumetry/dehnscan/internal/version"
	"github.com/volumetry/dehnscan/internal/volume"
)

var (
	configPath   = flag.String("config", "", "Path to a JSON tuning config")
	symmetryPath = flag.String("symmetries", "", "Path to the symmetry database")
	manifoldList = flag.String("manifolds", "", "Comma-separated manifold names to scan")
	manifoldFile = flag.String("manifold-file", "", "File with one manifold name per line")
	numb         = flag.Int("numb", 0, "Grid half-width (overrides config)")
	solver       = flag.String("solver", "", "External volume solver command (overrides config)")
	fixtures     = flag.String("fixtures", "", "Volume fixture file; replaces the solver (dev mode)")
	heatmapDir   = flag.String("heatmap", "", "Directory for per-manifold volume heatmap PNGs")
	showVersion  = flag.Bool("version", false, "Print version and exit")
)

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}

	cfg := config.Empty()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			log.Fatalf("load config: %v", err)
		}
	}

	manifolds, err := resolveManifolds(*manifoldList, *manifoldFile)
	if err != nil {
		log.Fatal(err)
	}
	if len(manifolds) == 0 {
		log.Fatal("no manifolds given: use -manifolds or -manifold-file")
	}

	store := symmetry.NewStore(nil)
	if path := firstOf(*symmetryPath, cfg.GetSymmetryFile()); path != "" {
		store, err = symmetry.Load(path)
		if err != nil {
			log.Fatalf("load symmetries: %v", err)
		}
	}

	oracle, err := resolveOracle(cfg, *solver, *fixtures)
	if err != nil {
		log.Fatal(err)
	}

	halfWidth := cfg.GetNumb()
	if *numb > 0 {
		halfWidth = *numb
	}

	scanner := scan.NewScanner(oracle, store, halfWidth)
	scanner.HeatmapDir = *heatmapDir
	scanner.Matcher.Tolerance = cfg.GetTolerance()
	scanner.Matcher.PrecTolerance = cfg.GetPrecTolerance()
	scanner.Matcher.HighTolerance = scan.MustParseHighTolerance(cfg.GetHighTolerance())
	scanner.Matcher.GroupCap = cfg.GetGroupCap()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := scanner.Run(ctx, os.Stdout, manifolds); err != nil {
		log.Fatalf("scan aborted: %v", err)
	}
}

// resolveOracle picks the fixture table when one is given, otherwise the
// external solver.
func resolveOracle(cfg *config.Config, solverFlag, fixturePath string) (volume.Oracle, error) {
	if fixturePath != "" {
		table, err := volume.LoadTable(fixturePath)
		if err != nil {
			return nil, err
		}
		return table, nil
	}
	command := firstOf(solverFlag, cfg.GetSolverCommand())
	if command == "" {
		return nil, fmt.Errorf("no volume source: use -solver, -fixtures, or solver_command in the config")
	}
	return volume.NewExecOracle(command, cfg.GetSolverTimeout()), nil
}

func resolveManifolds(list, file string) ([]string, error) {
	var names []string
	for _, n := range strings.Split(list, ",") {
		if n = strings.TrimSpace(n); n != "" {
			names = append(names, n)
		}
	}
	if file != "" {
		f, err := os.Open(file)
		if err != nil {
			return nil, fmt.Errorf("open manifold file: %w", err)
		}
		defer f.Close()
		sc := bufio.NewScanner(f)
		for sc.Scan() {
			if n := strings.TrimSpace(sc.Text()); n != "" && !strings.HasPrefix(n, "#") {
				names = append(names, n)
			}
		}
		if err := sc.Err(); err != nil {
			return nil, fmt.Errorf("read manifold file: %w", err)
		}
	}
	return names, nil
}

func firstOf(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
