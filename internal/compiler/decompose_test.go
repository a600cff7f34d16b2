package compiler

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/qlite/internal/ir"
)

func TestDecomposeQFTInPlace(t *testing.T) {
	p := ir.NewProgram(
		ir.Declare("q", 3),
		ir.Gate(ir.GateX, 0),
		ir.Gate(ir.GateQFT, 0, 1, 2),
		ir.Measure(2, "c"),
	)

	out := Decompose(p)

	want := ir.NewProgram(
		ir.Declare("q", 3),
		ir.Gate(ir.GateX, 0),
		ir.Gate(ir.GateH, 0),
		ir.RotGate(ir.GateCP, 2, 1, 0),
		ir.RotGate(ir.GateCP, 3, 2, 0),
		ir.Gate(ir.GateH, 1),
		ir.RotGate(ir.GateCP, 2, 2, 1),
		ir.Gate(ir.GateH, 2),
		ir.Measure(2, "c"),
	)
	assert.True(t, want.Equal(out), cmp.Diff(want, out))
}

func TestDecomposeQFTCounts(t *testing.T) {
	for k := 1; k <= 5; k++ {
		ops := make([]int, k)
		for i := range ops {
			ops[i] = i
		}
		out := Decompose(ir.NewProgram(ir.Declare("q", k), ir.Gate(ir.GateQFT, ops...)))

		counts := map[ir.GateKind]int{}
		for _, s := range out.Statements[1:] {
			counts[s.(ir.GateApplication).Gate]++
		}
		assert.Equal(t, k, counts[ir.GateH])
		assert.Equal(t, k*(k-1)/2, counts[ir.GateCP])
		assert.Len(t, counts, min(k, 2))
	}
}

func TestDecomposeIdempotent(t *testing.T) {
	p := ir.NewProgram(
		ir.Declare("a", 2),
		ir.Declare("b", 2),
		ir.Gate(ir.GateQFT, 0, 1, 2, 3),
		ir.Gate(ir.GateAdder, 0, 2, 3),
		ir.Gate(ir.GateKind("VENDOR"), 1),
		ir.Measure(3, "m"),
	)

	once := Decompose(p)
	twice := Decompose(once)

	assert.True(t, once.Equal(twice), cmp.Diff(once, twice))
	for _, s := range once.Statements {
		if g, ok := s.(ir.GateApplication); ok {
			assert.False(t, g.Gate.IsComposite(), "composite %s survived", g.Gate)
		}
	}
}

func TestDecomposeCarriesUnknownGates(t *testing.T) {
	unknown := ir.RotGate(ir.GateKind("U3"), 0.1, 0)
	p := ir.NewProgram(ir.Declare("q", 1), unknown, ir.Gate(ir.GateH, 0))

	out := Decompose(p)

	require.Equal(t, 3, out.Len())
	assert.True(t, ir.StatementEqual(unknown, out.Statements[1]))
	assert.Equal(t, ir.Gate(ir.GateH, 0), out.Statements[2], "H is not rewritten")
}

func TestDecomposeDoesNotMutateInput(t *testing.T) {
	p := ir.NewProgram(ir.Declare("q", 2), ir.RotGate(ir.GateCP, 1, 0, 1), ir.Gate(ir.GateQFT, 0, 1))
	before := p.Clone()

	out := Decompose(p)
	out.Statements[1].(ir.GateApplication).Operands[0] = 1

	assert.True(t, before.Equal(p))
}

func TestDecomposeCustomExpansion(t *testing.T) {
	bell := func(g ir.GateApplication) ([]ir.Statement, bool) {
		if len(g.Operands) != 2 {
			return nil, false
		}
		return []ir.Statement{
			ir.Gate(ir.GateH, g.Operands[0]),
			ir.Gate(ir.GateCNOT, g.Operands[0], g.Operands[1]),
		}, true
	}
	d := NewDecomposer(WithExpansion("BELL", bell))

	out := d.Decompose(ir.NewProgram(ir.Declare("q", 2), ir.Gate("BELL", 0, 1)))

	require.Equal(t, 3, out.Len())
	assert.Equal(t, ir.Gate(ir.GateH, 0), out.Statements[1])
	assert.Equal(t, map[ir.GateKind]int{"BELL": 1}, d.Stats())
}

func TestDecomposeNestedExpansion(t *testing.T) {
	// An expansion that emits a composite is expanded again.
	d := NewDecomposer(WithExpansion("QFT2", func(g ir.GateApplication) ([]ir.Statement, bool) {
		return []ir.Statement{ir.Gate(ir.GateQFT, g.Operands...)}, true
	}))

	out := d.Decompose(ir.NewProgram(ir.Declare("q", 2), ir.Gate("QFT2", 0, 1)))

	assert.Equal(t, 4, out.Len())
	assert.Equal(t, []ir.GateKind{ir.GateQFT, "QFT2"}, d.ExpandedKinds())
}

func TestDecomposeRunawayExpansionStops(t *testing.T) {
	d := NewDecomposer(WithExpansion("LOOP", func(g ir.GateApplication) ([]ir.Statement, bool) {
		return []ir.Statement{g}, true
	}))

	out := d.Decompose(ir.NewProgram(ir.Declare("q", 1), ir.Gate("LOOP", 0)))

	require.Equal(t, 2, out.Len())
	assert.Equal(t, maxExpansionDepth, d.Stats()["LOOP"])
}
