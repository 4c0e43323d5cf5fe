package analyzer

import (
	"github.com/samber/lo"

	"github.com/ludo-technologies/ktscan/internal/parser"
)

// ComplexityRecord holds the branch metrics of one function identity
type ComplexityRecord struct {
	// BranchCount is the number of conditional, loop and when constructs
	BranchCount int
	// MaxDepth is the deepest branch nesting reached
	MaxDepth int

	// StartLine and EndLine locate the first declaration with this identity.
	// Both are 0 for the bucket of branches outside any function.
	StartLine int
	EndLine   int
	// Declarations counts the declarations sharing this identity (overloads)
	Declarations int
	// DeepestLine is the line of the branch that set MaxDepth
	DeepestLine int
}

// Metrics aggregates complexity records keyed by function identity.
// The empty name collects branches found outside any function.
type Metrics struct {
	records map[string]*ComplexityRecord
	order   []string
}

func newMetrics() *Metrics {
	return &Metrics{
		records: make(map[string]*ComplexityRecord),
	}
}

// RecordFor returns the record for a function identity
func (m *Metrics) RecordFor(name string) (ComplexityRecord, bool) {
	record, ok := m.records[name]
	if !ok {
		return ComplexityRecord{}, false
	}
	return *record, true
}

// Functions returns the function identities in first-seen order
func (m *Metrics) Functions() []string {
	functions := make([]string, len(m.order))
	copy(functions, m.order)
	return functions
}

// Len returns the number of function identities
func (m *Metrics) Len() int {
	return len(m.order)
}

// Records returns a copy of all records
func (m *Metrics) Records() map[string]ComplexityRecord {
	return lo.MapValues(m.records, func(record *ComplexityRecord, _ string) ComplexityRecord {
		return *record
	})
}

// ensure returns the record for name, creating it at zero if absent
func (m *Metrics) ensure(name string) *ComplexityRecord {
	record, ok := m.records[name]
	if !ok {
		record = &ComplexityRecord{}
		m.records[name] = record
		m.order = append(m.order, name)
	}
	return record
}

// declare registers a function declaration without resetting an existing record
func (m *Metrics) declare(name string, location parser.Location) {
	record := m.ensure(name)
	if record.Declarations == 0 {
		record.StartLine = location.StartLine
		record.EndLine = location.EndLine
	}
	record.Declarations++
}

// recordBranch counts one branch at the given nesting depth
func (m *Metrics) recordBranch(name string, depth int, location parser.Location) {
	record := m.ensure(name)
	record.BranchCount++
	if depth > record.MaxDepth {
		record.MaxDepth = depth
		record.DeepestLine = location.StartLine
	}
}
