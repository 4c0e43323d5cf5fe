package analyzer

import "github.com/ludo-technologies/ktscan/internal/parser"

// Role is the semantic role a node plays in the branch traversal
type Role int

const (
	// RoleOther nodes pass the traversal context through unchanged
	RoleOther Role = iota
	// RoleBranch nodes are counted and deepen the nesting
	RoleBranch
	// RoleFunctionDeclaration nodes switch the active function identity
	RoleFunctionDeclaration
)

// String returns the name of the role
func (r Role) String() string {
	switch r {
	case RoleBranch:
		return "branch"
	case RoleFunctionDeclaration:
		return "function"
	default:
		return "other"
	}
}

// Classify maps a node's grammar category to its role. Leaves and unknown
// categories (classes, lambdas, blocks, ...) are RoleOther.
func Classify(node *parser.Node) Role {
	if node == nil || !node.IsInterior() {
		return RoleOther
	}

	switch node.Type {
	case parser.NodeIfExpression, parser.NodeLoopStatement, parser.NodeWhenExpression:
		return RoleBranch
	case parser.NodeFunctionDeclaration:
		return RoleFunctionDeclaration
	default:
		return RoleOther
	}
}
