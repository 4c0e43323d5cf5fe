package analyzer

import (
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/samber/lo"
)

// Metric selects which value of a record is ranked
type Metric string

const (
	MetricBranchCount Metric = "count"
	MetricMaxDepth    Metric = "depth"
)

// ParseMetric accepts the metric names and the numeric choices of the
// interactive prompt (1 for count, 2 for depth)
func ParseMetric(value string) (Metric, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "count", "branches", "branch_count":
		return MetricBranchCount, nil
	case "2", "depth", "max_depth", "nesting":
		return MetricMaxDepth, nil
	default:
		return "", errors.Errorf("invalid metric %q, must be one of: count (1), depth (2)", value)
	}
}

// Value extracts the metric from a record
func (m Metric) Value(record ComplexityRecord) int {
	if m == MetricMaxDepth {
		return record.MaxDepth
	}
	return record.BranchCount
}

// Description returns a human readable name of the metric
func (m Metric) Description() string {
	if m == MetricMaxDepth {
		return "maximum depth of conditional statements"
	}
	return "number of conditional statements"
}

// RankedFunction is one entry of a ranking
type RankedFunction struct {
	Name   string
	Value  int
	Record ComplexityRecord
}

// Rank returns every function sorted by the metric, highest first.
// Equal values keep the order in which functions were first seen.
func Rank(metrics *Metrics, metric Metric) []RankedFunction {
	if metrics == nil {
		return nil
	}

	ranked := lo.Map(metrics.order, func(name string, _ int) RankedFunction {
		record := *metrics.records[name]
		return RankedFunction{
			Name:   name,
			Value:  metric.Value(record),
			Record: record,
		}
	})

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Value > ranked[j].Value
	})

	return ranked
}

// Top returns at most n entries; n <= 0 means all
func Top(ranked []RankedFunction, n int) []RankedFunction {
	if n <= 0 || n >= len(ranked) {
		return ranked
	}
	return ranked[:n]
}
