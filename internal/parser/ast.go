package parser

import "fmt"

// NodeType is the grammar category label of a node
type NodeType string

// Kotlin grammar categories consumed by the analyzers.
// tree-sitter node types are normalised to these names by the ASTBuilder;
// every other node keeps its tree-sitter type.
const (
	// File structure
	NodeKotlinFile NodeType = "kotlinFile"

	// Declarations
	NodeFunctionDeclaration NodeType = "functionDeclaration"
	NodeClassDeclaration    NodeType = "classDeclaration"
	NodeObjectDeclaration   NodeType = "objectDeclaration"
	NodeLambdaLiteral       NodeType = "lambdaLiteral"
	NodeAnonymousFunction   NodeType = "anonymousFunction"

	// Identifiers
	NodeSimpleIdentifier NodeType = "simpleIdentifier"
	NodeIdentifier       NodeType = "Identifier"

	// Control flow
	NodeIfExpression   NodeType = "ifExpression"
	NodeLoopStatement  NodeType = "loopStatement"
	NodeWhenExpression NodeType = "whenExpression"
	NodeWhenEntry      NodeType = "whenEntry"
	NodeTryExpression  NodeType = "tryExpression"
	NodeCatchBlock     NodeType = "catchBlock"
	NodeJumpExpression NodeType = "jumpExpression"

	// Blocks
	NodeStatements           NodeType = "statements"
	NodeControlStructureBody NodeType = "controlStructureBody"
	NodeFunctionBody         NodeType = "functionBody"
	NodeClassBody            NodeType = "classBody"
)

// NodeKind distinguishes the two node variants
type NodeKind int

const (
	// KindInvalid is the zero value and never produced by the builder
	KindInvalid NodeKind = iota
	// KindInterior nodes carry ordered children
	KindInterior
	// KindLeaf nodes carry a literal text fragment and no children
	KindLeaf
)

// String returns the name of the kind
func (k NodeKind) String() string {
	switch k {
	case KindInterior:
		return "interior"
	case KindLeaf:
		return "leaf"
	default:
		return fmt.Sprintf("NodeKind(%d)", int(k))
	}
}

// Location represents the position of a node in the source code
type Location struct {
	File      string
	StartLine int
	StartCol  int
	EndLine   int
	EndCol    int
}

// String returns a string representation of the location
func (l Location) String() string {
	return fmt.Sprintf("%s:%d:%d", l.File, l.StartLine, l.StartCol)
}

// Node is a syntax tree node. Interior nodes have a category and ordered
// children; leaf nodes have a category and the source text they cover.
type Node struct {
	Kind     NodeKind
	Type     NodeType
	Text     string
	Children []*Node
	Location Location
}

// NewInterior creates an interior node
func NewInterior(nodeType NodeType, children ...*Node) *Node {
	n := &Node{
		Kind:     KindInterior,
		Type:     nodeType,
		Children: []*Node{},
	}
	for _, child := range children {
		n.AddChild(child)
	}
	return n
}

// NewLeaf creates a leaf node
func NewLeaf(nodeType NodeType, text string) *Node {
	return &Node{
		Kind: KindLeaf,
		Type: nodeType,
		Text: text,
	}
}

// AddChild appends a child to an interior node
func (n *Node) AddChild(child *Node) {
	if child == nil {
		return
	}
	n.Children = append(n.Children, child)
}

// IsLeaf reports whether the node is a leaf
func (n *Node) IsLeaf() bool {
	return n.Kind == KindLeaf
}

// IsInterior reports whether the node is an interior node
func (n *Node) IsInterior() bool {
	return n.Kind == KindInterior
}

// ChildrenOfType returns the direct interior children with the given category
func (n *Node) ChildrenOfType(nodeType NodeType) []*Node {
	var result []*Node
	for _, child := range n.Children {
		if child != nil && child.IsInterior() && child.Type == nodeType {
			result = append(result, child)
		}
	}
	return result
}

// FirstLeafOfType returns the first direct leaf child with the given category
func (n *Node) FirstLeafOfType(nodeType NodeType) *Node {
	for _, child := range n.Children {
		if child != nil && child.IsLeaf() && child.Type == nodeType {
			return child
		}
	}
	return nil
}

// Walk traverses the tree depth-first in source order and calls the visitor
// for each node. If the visitor returns false, the node's children are skipped.
func (n *Node) Walk(visitor func(*Node) bool) {
	if n == nil {
		return
	}

	stack := []*Node{n}
	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if current == nil || !visitor(current) {
			continue
		}

		for i := len(current.Children) - 1; i >= 0; i-- {
			stack = append(stack, current.Children[i])
		}
	}
}

// String returns a string representation of the node
func (n *Node) String() string {
	if n.IsLeaf() {
		return fmt.Sprintf("%s(%q) at %s", n.Type, n.Text, n.Location)
	}
	return fmt.Sprintf("%s at %s", n.Type, n.Location)
}
