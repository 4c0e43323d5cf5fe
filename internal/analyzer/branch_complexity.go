package analyzer

import (
	"fmt"
	"strings"

	"github.com/ludo-technologies/ktscan/internal/config"
	"github.com/ludo-technologies/ktscan/internal/parser"
)

// TraversalContext is the state carried from a node to its children
type TraversalContext struct {
	// Depth is the number of enclosing branch constructs
	Depth int
	// FunctionName is the identity of the nearest enclosing function,
	// empty outside any function
	FunctionName string
}

// Options tunes the traversal
type Options struct {
	// ResetDepthAtFunction restarts nesting at 0 inside every function
	// declaration. By default a function declared inside a branch inherits
	// the enclosing depth.
	ResetDepthAtFunction bool
}

type workItem struct {
	node    *parser.Node
	context TraversalContext
}

// Analyze walks the tree and returns per-function branch metrics
func Analyze(root *parser.Node) (*Metrics, error) {
	return AnalyzeWithOptions(root, Options{})
}

// AnalyzeWithOptions walks the tree with the given options. Either the whole
// tree is visited and complete metrics are returned, or the first defect
// found aborts the walk.
func AnalyzeWithOptions(root *parser.Node, opts Options) (*Metrics, error) {
	metrics := newMetrics()

	// Children are pushed in reverse so they are visited in source order.
	stack := []workItem{{node: root}}
	for len(stack) > 0 {
		item := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		node := item.node
		if err := checkShape(node); err != nil {
			return nil, err
		}
		if node.IsLeaf() {
			continue
		}

		childContext := item.context
		switch Classify(node) {
		case RoleBranch:
			childContext.Depth++
			metrics.recordBranch(item.context.FunctionName, childContext.Depth, node.Location)
		case RoleFunctionDeclaration:
			name, err := functionIdentity(node)
			if err != nil {
				return nil, err
			}
			metrics.declare(name, node.Location)
			childContext.FunctionName = name
			if opts.ResetDepthAtFunction {
				childContext.Depth = 0
			}
		}

		for i := len(node.Children) - 1; i >= 0; i-- {
			child := node.Children[i]
			if child == nil {
				return nil, &MalformedTreeError{Node: node, Reason: fmt.Sprintf("nil child at index %d", i)}
			}
			stack = append(stack, workItem{node: child, context: childContext})
		}
	}

	return metrics, nil
}

// checkShape rejects nodes that are neither interior nor leaf
func checkShape(node *parser.Node) error {
	if node == nil {
		return &MalformedTreeError{Reason: "nil node"}
	}

	switch node.Kind {
	case parser.KindInterior:
		return nil
	case parser.KindLeaf:
		if len(node.Children) > 0 {
			return &MalformedTreeError{Node: node, Reason: "leaf node has children"}
		}
		return nil
	default:
		return &MalformedTreeError{Node: node, Reason: fmt.Sprintf("unknown node kind %s", node.Kind)}
	}
}

// functionIdentity joins the Identifier texts of the declaration's direct
// simpleIdentifier children with dots, e.g. "Outer.inner"
func functionIdentity(node *parser.Node) (string, error) {
	segments := node.ChildrenOfType(parser.NodeSimpleIdentifier)
	if len(segments) == 0 {
		return "", &MissingIdentifierError{Location: node.Location}
	}

	names := make([]string, 0, len(segments))
	for _, segment := range segments {
		ident := segment.FirstLeafOfType(parser.NodeIdentifier)
		if ident == nil || ident.Text == "" {
			return "", &MissingIdentifierError{Location: node.Location}
		}
		names = append(names, ident.Text)
	}

	return strings.Join(names, "."), nil
}

// BranchComplexityAnalyzer runs the branch traversal with configured options
type BranchComplexityAnalyzer struct {
	cfg *config.ComplexityConfig
}

// NewBranchComplexityAnalyzer creates an analyzer from complexity configuration
func NewBranchComplexityAnalyzer(cfg *config.ComplexityConfig) *BranchComplexityAnalyzer {
	if cfg == nil {
		cfg = &config.DefaultConfig().Complexity
	}
	return &BranchComplexityAnalyzer{cfg: cfg}
}

// AnalyzeFile computes the metrics of one parsed file
func (a *BranchComplexityAnalyzer) AnalyzeFile(ast *parser.Node) (*Metrics, error) {
	return AnalyzeWithOptions(ast, Options{
		ResetDepthAtFunction: a.cfg.ResetDepthAtFunction,
	})
}

// RiskLevel assesses a record against the configured thresholds
func (a *BranchComplexityAnalyzer) RiskLevel(record ComplexityRecord) string {
	return a.cfg.AssessRiskLevel(record.BranchCount)
}
