package symmetry

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/volumetry/dehnscan/internal/filling"
	"github.com/volumetry/dehnscan/internal/volume"
)

const weeksish = "3.663862376708876012342351054906893140332875058272537357756305287"

func loadTestStore(t *testing.T, db string) *Store {
	t.Helper()
	store, err := Parse(strings.NewReader(db))
	require.NoError(t, err)
	return store
}

func TestVerifierAllHold(t *testing.T) {
	// One reflection symmetry of m003: (p, q) -> (p, -q). Fixtures give both
	// sides of the record the same high-precision volume.
	store := loadTestStore(t, `['m003', [1, 0, 0, -1, 1]]`)

	oracle := volume.NewTableOracle()
	oracle.Set("m003", filling.Filling{X: 2, Y: 3}, weeksish)
	oracle.Set("m003", filling.Filling{X: 2, Y: -3}, weeksish)

	v := &Verifier{Store: store, Oracle: oracle}
	violations, err := v.Check(context.Background(), 2, 3)
	require.NoError(t, err)
	assert.Empty(t, violations)

	var out bytes.Buffer
	Report(&out, 2, 3, violations)
	assert.Equal(t, "All symmetries verified for n(2, 3).\n", out.String())
}

func TestVerifierDetectsMismatch(t *testing.T) {
	store := loadTestStore(t, `['m003', [1, 0, 0, -1, 1]]`)

	oracle := volume.NewTableOracle()
	oracle.Set("m003", filling.Filling{X: 2, Y: 3}, weeksish)
	// Differs in the final digit: an exact 212-bit comparison must catch it.
	oracle.Set("m003", filling.Filling{X: 2, Y: -3}, weeksish[:len(weeksish)-1]+"8")

	v := &Verifier{Store: store, Oracle: oracle}
	violations, err := v.Check(context.Background(), 2, 3)
	require.NoError(t, err)
	require.Len(t, violations, 1)
	assert.Equal(t, "m003", violations[0].Manifold)

	var out bytes.Buffer
	Report(&out, 2, 3, violations)
	assert.Equal(t, "Symmetry error detected for m003 at n(2, 3).\n", out.String())
}

func TestVerifierScalesByN(t *testing.T) {
	// n = 2 record: the original side is M(2p, 2q), the symmetric side
	// M(pa+qb, pc+qd). For (p, q) = (1, 2): M(2, 4) versus M(8, 1).
	store := loadTestStore(t, `['m136', [0, 4, 1, 0, 2]]`)

	oracle := volume.NewTableOracle()
	oracle.Set("m136", filling.Filling{X: 2, Y: 4}, weeksish)
	oracle.Set("m136", filling.Filling{X: 8, Y: 1}, weeksish)

	v := &Verifier{Store: store, Oracle: oracle}
	violations, err := v.Check(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.Empty(t, violations)
	// Both sides were queried at the high tier.
	assert.Equal(t, 2, oracle.Calls[volume.TierHigh])
}

func TestVerifierBothSidesFailedAgree(t *testing.T) {
	// Neither filling is in the table, so both computations fail; a failure
	// on both sides of a record is not a symmetry violation.
	store := loadTestStore(t, `['m003', [1, 0, 0, -1, 1]]`)

	v := &Verifier{Store: store, Oracle: volume.NewTableOracle()}
	violations, err := v.Check(context.Background(), 5, 1)
	require.NoError(t, err)
	assert.Empty(t, violations)
}
