package volume

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/volumetry/dehnscan/internal/filling"
)

// TableOracle serves volumes from an in-memory fixture table instead of a
// solver process. It backs the -dev mode of the scan command and the test
// suites. Values are stored as decimal strings so a single fixture yields
// consistent volumes at every tier (the 212-bit tier re-parses the same
// digits at full precision).
type TableOracle struct {
	values map[tableKey]string

	// Calls counts oracle invocations per tier, letting tests pin down
	// escalation and caching behaviour.
	Calls map[Tier]int
}

type tableKey struct {
	manifold string
	f        filling.Filling
}

// NewTableOracle returns an empty fixture oracle.
func NewTableOracle() *TableOracle {
	return &TableOracle{
		values: make(map[tableKey]string),
		Calls:  make(map[Tier]int),
	}
}

// Set records the volume of one filling as a decimal string, or the word
// "nonhyperbolic" for a degenerate filling.
func (o *TableOracle) Set(manifold string, f filling.Filling, value string) {
	o.values[tableKey{manifold, f}] = value
}

// Volume implements Oracle. Fillings absent from the table fail, the same way
// a solver fails on a degenerate triangulation.
func (o *TableOracle) Volume(_ context.Context, manifold string, f filling.Filling, tier Tier) Result {
	o.Calls[tier]++
	raw, ok := o.values[tableKey{manifold, f}]
	if !ok {
		return Result{Status: Failed, Err: fmt.Errorf("no fixture for %s%v", manifold, f)}
	}
	return parseSolverOutput(raw, tier)
}

// LoadTable reads a fixture file into a TableOracle. Each line holds
// "manifold x y value", where value is a decimal volume or "nonhyperbolic";
// blank lines and '#' comments are skipped.
func LoadTable(path string) (*TableOracle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("volume: open fixtures: %w", err)
	}
	defer f.Close()
	o, err := ParseTable(f)
	if err != nil {
		return nil, fmt.Errorf("volume: %s: %w", path, err)
	}
	return o, nil
}

// ParseTable reads the fixture format from r. See LoadTable.
func ParseTable(r io.Reader) (*TableOracle, error) {
	o := NewTableOracle()
	sc := bufio.NewScanner(r)
	lineno := 0
	for sc.Scan() {
		lineno++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 4 {
			return nil, fmt.Errorf("line %d: want \"manifold x y value\", got %q", lineno, line)
		}
		x, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineno, err)
		}
		y, err := strconv.Atoi(fields[2])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineno, err)
		}
		o.Set(fields[0], filling.Filling{X: x, Y: y}, fields[3])
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read fixtures: %w", err)
	}
	return o, nil
}
