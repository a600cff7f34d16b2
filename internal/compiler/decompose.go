package compiler

import (
	"log/slog"
	"sort"

	"github.com/roach88/qlite/internal/ir"
	"github.com/roach88/qlite/internal/library"
)

// maxExpansionDepth bounds re-expansion of fragments that themselves
// contain composite gates.
const maxExpansionDepth = 8

// Expansion maps a composite gate application to its primitive fragment.
// It returns false to leave the application unchanged.
type Expansion func(ir.GateApplication) ([]ir.Statement, bool)

// Decomposer rewrites composite gate applications into primitive gates.
//
// A Decomposer is cheap to build and holds only per-call statistics;
// create one per compilation.
type Decomposer struct {
	extra  map[ir.GateKind]Expansion
	logger *slog.Logger
	stats  map[ir.GateKind]int
}

// DecomposerOption configures a Decomposer.
type DecomposerOption func(*Decomposer)

// WithExpansion registers an expansion for an extension gate, or
// overrides the library expansion of a built-in composite.
func WithExpansion(kind ir.GateKind, fn Expansion) DecomposerOption {
	return func(d *Decomposer) {
		d.extra[kind] = fn
	}
}

// WithDecomposerLogger sets the logger for expansion diagnostics.
func WithDecomposerLogger(l *slog.Logger) DecomposerOption {
	return func(d *Decomposer) {
		d.logger = l
	}
}

// NewDecomposer creates a Decomposer.
func NewDecomposer(opts ...DecomposerOption) *Decomposer {
	d := &Decomposer{
		extra:  make(map[ir.GateKind]Expansion),
		logger: slog.Default(),
		stats:  make(map[ir.GateKind]int),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Decompose returns a new program in which every recognized composite
// gate application is replaced in place by its expansion. All other
// statements, including unknown gates, are copied unchanged and in order.
//
// Decompose is idempotent: a decomposed program has no composite forms
// left, so a second pass returns an equal program.
func (d *Decomposer) Decompose(p ir.Program) ir.Program {
	out := make([]ir.Statement, 0, len(p.Statements))
	for _, s := range p.Statements {
		out = d.expandInto(out, s, 0)
	}
	return ir.Program{Statements: out}
}

func (d *Decomposer) expandInto(out []ir.Statement, s ir.Statement, depth int) []ir.Statement {
	switch st := s.(type) {
	case ir.GateApplication:
		frag, ok := d.expand(st)
		if !ok || depth >= maxExpansionDepth {
			return append(out, ir.Clone(st))
		}
		d.stats[st.Gate]++
		d.logger.Debug("expanded composite gate",
			"gate", string(st.Gate),
			"operands", st.Operands,
			"statements", len(frag))
		for _, f := range frag {
			out = d.expandInto(out, f, depth+1)
		}
		return out
	case ir.Declaration, ir.Measurement:
		return append(out, st)
	default:
		// Unknown variants pass through; consumers reject them.
		return append(out, s)
	}
}

func (d *Decomposer) expand(g ir.GateApplication) ([]ir.Statement, bool) {
	if fn, ok := d.extra[g.Gate]; ok {
		return fn(g)
	}
	return library.Expand(g)
}

// Stats returns how many applications of each composite gate were
// expanded since the Decomposer was created.
func (d *Decomposer) Stats() map[ir.GateKind]int {
	out := make(map[ir.GateKind]int, len(d.stats))
	for k, v := range d.stats {
		out[k] = v
	}
	return out
}

// ExpandedKinds returns the expanded gate kinds in sorted order.
func (d *Decomposer) ExpandedKinds() []ir.GateKind {
	kinds := make([]ir.GateKind, 0, len(d.stats))
	for k := range d.stats {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// Decompose is a convenience wrapper using a fresh default Decomposer.
func Decompose(p ir.Program) ir.Program {
	return NewDecomposer().Decompose(p)
}
