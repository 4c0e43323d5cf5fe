package parser

import (
	sitter "github.com/alexaandru/go-tree-sitter-bare"
)

// categoryByTreeSitterType maps tree-sitter-kotlin node types onto the
// grammar categories used throughout ktscan. Mapped nodes are always built
// as interior nodes, even when they have no named children.
var categoryByTreeSitterType = map[string]NodeType{
	"source_file":            NodeKotlinFile,
	"function_declaration":   NodeFunctionDeclaration,
	"class_declaration":      NodeClassDeclaration,
	"object_declaration":     NodeObjectDeclaration,
	"lambda_literal":         NodeLambdaLiteral,
	"anonymous_function":     NodeAnonymousFunction,
	"if_expression":          NodeIfExpression,
	"for_statement":          NodeLoopStatement,
	"while_statement":        NodeLoopStatement,
	"do_while_statement":     NodeLoopStatement,
	"when_expression":        NodeWhenExpression,
	"when_entry":             NodeWhenEntry,
	"try_expression":         NodeTryExpression,
	"catch_block":            NodeCatchBlock,
	"jump_expression":        NodeJumpExpression,
	"statements":             NodeStatements,
	"control_structure_body": NodeControlStructureBody,
	"function_body":          NodeFunctionBody,
	"class_body":             NodeClassBody,
	"simple_identifier":      NodeSimpleIdentifier,
}

// ASTBuilder builds our syntax tree from the tree-sitter CST
type ASTBuilder struct {
	filename string
	source   []byte
}

// NewASTBuilder creates a new AST builder
func NewASTBuilder(filename string, source []byte) *ASTBuilder {
	return &ASTBuilder{
		filename: filename,
		source:   source,
	}
}

type buildFrame struct {
	tsNode sitter.Node
	parent *Node
}

// Build converts a tree-sitter node and all its named descendants.
// The conversion uses an explicit stack so that deeply nested input cannot
// exhaust the goroutine stack.
func (b *ASTBuilder) Build(tsNode sitter.Node) *Node {
	if tsNode.IsNull() {
		return nil
	}

	root := b.buildNode(tsNode)
	if !b.hasStructure(root) {
		return root
	}

	stack := b.pushChildren(nil, tsNode, root)
	for len(stack) > 0 {
		frame := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		node := b.buildNode(frame.tsNode)
		frame.parent.AddChild(node)

		if b.hasStructure(node) {
			stack = b.pushChildren(stack, frame.tsNode, node)
		}
	}

	return root
}

// buildNode converts a single tree-sitter node without its descendants
func (b *ASTBuilder) buildNode(tsNode sitter.Node) *Node {
	nodeType := tsNode.Type()
	location := b.getLocation(tsNode)

	category, mapped := categoryByTreeSitterType[nodeType]
	if mapped && category == NodeSimpleIdentifier {
		return b.buildSimpleIdentifier(tsNode, location)
	}

	var node *Node
	switch {
	case mapped:
		node = NewInterior(category)
	case tsNode.NamedChildCount() == 0:
		node = NewLeaf(NodeType(nodeType), tsNode.Content(b.source))
	default:
		node = NewInterior(NodeType(nodeType))
	}
	node.Location = location

	return node
}

// buildSimpleIdentifier wraps the identifier text in an Identifier leaf, the
// shape name extraction expects
func (b *ASTBuilder) buildSimpleIdentifier(tsNode sitter.Node, location Location) *Node {
	leaf := NewLeaf(NodeIdentifier, tsNode.Content(b.source))
	leaf.Location = location

	node := NewInterior(NodeSimpleIdentifier, leaf)
	node.Location = location
	return node
}

// hasStructure reports whether the node's tree-sitter children still need converting
func (b *ASTBuilder) hasStructure(node *Node) bool {
	return node.IsInterior() && node.Type != NodeSimpleIdentifier
}

// pushChildren pushes the kept children in reverse so they are popped in source order
func (b *ASTBuilder) pushChildren(stack []buildFrame, tsNode sitter.Node, parent *Node) []buildFrame {
	for i := tsNode.ChildCount(); i > 0; i-- {
		child := tsNode.Child(i - 1)
		if child.IsNull() || !child.IsNamed() || child.IsMissing() || b.isTrivia(child) {
			continue
		}
		stack = append(stack, buildFrame{tsNode: child, parent: parent})
	}
	return stack
}

// getLocation extracts location information from a tree-sitter node
func (b *ASTBuilder) getLocation(tsNode sitter.Node) Location {
	return Location{
		File:      b.filename,
		StartLine: int(tsNode.StartPoint().Row) + 1,
		StartCol:  int(tsNode.StartPoint().Column),
		EndLine:   int(tsNode.EndPoint().Row) + 1,
		EndCol:    int(tsNode.EndPoint().Column),
	}
}

// isTrivia checks if a node is trivia (comments, shebang)
func (b *ASTBuilder) isTrivia(tsNode sitter.Node) bool {
	nodeType := tsNode.Type()
	return nodeType == "comment" ||
		nodeType == "line_comment" ||
		nodeType == "multiline_comment" ||
		nodeType == "shebang_line" ||
		nodeType == ""
}
