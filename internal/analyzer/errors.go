package analyzer

import (
	"fmt"

	"github.com/ludo-technologies/ktscan/internal/parser"
)

// MalformedTreeError reports a node that is neither a valid interior node nor a leaf.
// It means the tree provider broke its contract; the analysis is aborted.
type MalformedTreeError struct {
	Node   *parser.Node
	Reason string
}

// Error implements the error interface
func (e *MalformedTreeError) Error() string {
	if e.Node == nil {
		return fmt.Sprintf("malformed syntax tree: %s", e.Reason)
	}
	return fmt.Sprintf("malformed syntax tree at %s (%s): %s", e.Node.Location, e.Node.Type, e.Reason)
}

// MissingIdentifierError reports a function declaration whose name cannot be extracted
type MissingIdentifierError struct {
	Location parser.Location
}

// Error implements the error interface
func (e *MissingIdentifierError) Error() string {
	return fmt.Sprintf("function declaration at %s has no identifier", e.Location)
}
