// Package testutil provides helper functions for testing ktscan components
package testutil

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/ludo-technologies/ktscan/internal/parser"
)

// CreateTestAST parses Kotlin source code and fails the test on error
func CreateTestAST(t *testing.T, source string) *parser.Node {
	t.Helper()
	p := parser.NewParser()
	defer p.Close()

	ast, err := p.ParseFile(context.Background(), "Test.kt", []byte(source))
	if err != nil {
		t.Fatalf("Failed to parse test code: %v", err)
	}
	return ast
}

// CreateTestASTNoFail parses Kotlin source code, returning the error instead of failing
func CreateTestASTNoFail(source string) (*parser.Node, error) {
	p := parser.NewParser()
	defer p.Close()
	return p.ParseString(source)
}

// WriteKotlinFile writes source to name inside a temporary directory and returns its path
func WriteKotlinFile(t *testing.T, name, source string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(source), 0o644); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
	return path
}

// Hand-built trees mirror the shapes produced by the parser

// Ident builds a simpleIdentifier node wrapping an Identifier leaf
func Ident(name string) *parser.Node {
	return parser.NewInterior(parser.NodeSimpleIdentifier, parser.NewLeaf(parser.NodeIdentifier, name))
}

// Func builds a function declaration named by one or more identifier segments
func Func(names []string, body ...*parser.Node) *parser.Node {
	children := make([]*parser.Node, 0, len(names)+len(body)+1)
	children = append(children, parser.NewLeaf("fun", "fun"))
	for _, name := range names {
		children = append(children, Ident(name))
	}
	children = append(children, body...)
	return parser.NewInterior(parser.NodeFunctionDeclaration, children...)
}

// Fn builds a function declaration with a single name
func Fn(name string, body ...*parser.Node) *parser.Node {
	return Func([]string{name}, body...)
}

// If builds an if expression
func If(body ...*parser.Node) *parser.Node {
	return parser.NewInterior(parser.NodeIfExpression, body...)
}

// Loop builds a loop statement
func Loop(body ...*parser.Node) *parser.Node {
	return parser.NewInterior(parser.NodeLoopStatement, body...)
}

// When builds a when expression with the given number of empty arms
func When(arms int) *parser.Node {
	children := make([]*parser.Node, 0, arms)
	for i := 0; i < arms; i++ {
		children = append(children, parser.NewInterior(parser.NodeWhenEntry, parser.NewLeaf("integer_literal", "0")))
	}
	return parser.NewInterior(parser.NodeWhenExpression, children...)
}

// Lambda builds a lambda literal
func Lambda(body ...*parser.Node) *parser.Node {
	return parser.NewInterior(parser.NodeLambdaLiteral, body...)
}

// Block builds a statements node
func Block(children ...*parser.Node) *parser.Node {
	return parser.NewInterior(parser.NodeStatements, children...)
}

// Class builds a class declaration with a body
func Class(name string, members ...*parser.Node) *parser.Node {
	return parser.NewInterior(parser.NodeClassDeclaration,
		Ident(name),
		parser.NewInterior(parser.NodeClassBody, members...),
	)
}

// File builds a kotlinFile root
func File(children ...*parser.Node) *parser.Node {
	return parser.NewInterior(parser.NodeKotlinFile, children...)
}

// AssertNoError fails the test if err is not nil
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil
func AssertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("Expected error but got nil")
	}
}
