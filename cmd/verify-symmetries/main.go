// Command verify-symmetries checks that every symmetry in the database
// preserves volume at the highest precision tier for a given filling ratio
// (p, q). It is the sanity pass run after editing the database: a reported
// mismatch means the data is wrong, not the solver.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/volumetry/dehnscan/internal/config"
	"github.com/volumetry/dehnscan/internal/symmetry"
	"github.com/volumetry/dehnscan/internal/version"
	"github.com/volumetry/dehnscan/internal/volume"
)

var (
	configPath   = flag.String("config", "", "Path to a JSON tuning config")
	symmetryPath = flag.String("symmetries", "", "Path to the symmetry database")
	p            = flag.Int("p", 1, "First filling ratio coefficient")
	q            = flag.Int("q", 1, "Second filling ratio coefficient")
	solver       = flag.String("solver", "", "External volume solver command (overrides config)")
	fixtures     = flag.String("fixtures", "", "Volume fixture file; replaces the solver (dev mode)")
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

	path := *symmetryPath
	if path == "" {
		path = cfg.GetSymmetryFile()
	}
	if path == "" {
		log.Fatal("no symmetry database: use -symmetries or symmetry_file in the config")
	}
	store, err := symmetry.Load(path)
	if err != nil {
		log.Fatalf("load symmetries: %v", err)
	}

	var oracle volume.Oracle
	if *fixtures != "" {
		oracle, err = volume.LoadTable(*fixtures)
		if err != nil {
			log.Fatal(err)
		}
	} else {
		command := *solver
		if command == "" {
			command = cfg.GetSolverCommand()
		}
		if command == "" {
			log.Fatal("no volume source: use -solver, -fixtures, or solver_command in the config")
		}
		oracle = volume.NewExecOracle(command, cfg.GetSolverTimeout())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	verifier := &symmetry.Verifier{Store: store, Oracle: oracle}
	violations, err := verifier.Check(ctx, *p, *q)
	if err != nil {
		log.Fatalf("verification aborted: %v", err)
	}
	symmetry.Report(os.Stdout, *p, *q, violations)
	if len(violations) > 0 {
		os.Exit(1)
	}
}
