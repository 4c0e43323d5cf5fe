package parser

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/alexaandru/go-sitter-forest/kotlin"
	sitter "github.com/alexaandru/go-tree-sitter-bare"
	"github.com/pkg/errors"
)

// kotlinLanguage is loaded once and shared by every parser
var kotlinLanguage = sync.OnceValue(func() *sitter.Language {
	return sitter.NewLanguage(kotlin.GetLanguage())
})

// parserPool recycles tree-sitter parsers already bound to Kotlin
var parserPool = sync.Pool{
	New: func() any {
		tsParser := sitter.NewParser()
		tsParser.SetLanguage(kotlinLanguage())
		return tsParser
	},
}

// Parser wraps a pooled tree-sitter parser for Kotlin. A Parser is not safe
// for concurrent use; create one per goroutine.
type Parser struct {
	parser *sitter.Parser
}

// NewParser creates a new Kotlin parser
func NewParser() *Parser {
	tsParser, ok := parserPool.Get().(*sitter.Parser)
	if !ok {
		tsParser = sitter.NewParser()
		tsParser.SetLanguage(kotlinLanguage())
	}
	return &Parser{parser: tsParser}
}

// ParseFile parses a Kotlin source file. Source that tree-sitter can only
// recover with ERROR nodes or missing tokens is rejected with a *ParseError.
func (p *Parser) ParseFile(ctx context.Context, filename string, source []byte) (*Node, error) {
	if p.parser == nil {
		return nil, errors.New("parser is closed")
	}

	tree, err := p.parser.ParseString(ctx, nil, source)
	if err != nil {
		return nil, errors.Wrap(err, "tree-sitter parse failed")
	}
	if tree == nil {
		return nil, errors.New("tree-sitter returned no tree")
	}
	defer tree.Close()

	rootNode := tree.RootNode()
	if rootNode.IsNull() {
		return nil, errors.New("tree-sitter returned no root node")
	}

	if rootNode.HasError() {
		if parseErr := findSyntaxError(filename, rootNode, source); parseErr != nil {
			return nil, parseErr
		}
	}

	builder := NewASTBuilder(filename, source)
	return builder.Build(rootNode), nil
}

// Parse parses Kotlin source code
func (p *Parser) Parse(source []byte) (*Node, error) {
	return p.ParseFile(context.Background(), "<input>", source)
}

// ParseString parses Kotlin source code from a string
func (p *Parser) ParseString(source string) (*Node, error) {
	return p.Parse([]byte(source))
}

// Close returns the underlying parser to the pool
func (p *Parser) Close() {
	if p.parser != nil {
		parserPool.Put(p.parser)
		p.parser = nil
	}
}

// ParseKotlinFile parses a single file with a short-lived parser
func ParseKotlinFile(ctx context.Context, filename string, source []byte) (*Node, error) {
	parser := NewParser()
	defer parser.Close()

	return parser.ParseFile(ctx, filename, source)
}

// isAutomaticSemicolon reports a zero-width statement terminator inserted
// during recovery, as after the last member of a one-line class body
func isAutomaticSemicolon(node sitter.Node) bool {
	if node.StartByte() != node.EndByte() {
		return false
	}
	switch node.Type() {
	case "_automatic_semicolon", "automatic_semicolon", "_semi", "_semis":
		return true
	}
	return false
}

// findSyntaxError returns the first ERROR node or missing token in source
// order, or nil when the only recoveries are automatic semicolons
func findSyntaxError(filename string, root sitter.Node, source []byte) *ParseError {
	stack := []sitter.Node{root}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if node.IsMissing() {
			if isAutomaticSemicolon(node) {
				continue
			}
			return &ParseError{
				File:    filename,
				Line:    int(node.StartPoint().Row) + 1,
				Column:  int(node.StartPoint().Column) + 1,
				Message: fmt.Sprintf("missing %q", node.Type()),
			}
		}
		if node.Type() == "ERROR" {
			return &ParseError{
				File:    filename,
				Line:    int(node.StartPoint().Row) + 1,
				Column:  int(node.StartPoint().Column) + 1,
				Message: fmt.Sprintf("unexpected %q", snippet(node.Content(source))),
			}
		}

		for i := node.ChildCount(); i > 0; i-- {
			if child := node.Child(i - 1); !child.IsNull() {
				stack = append(stack, child)
			}
		}
	}

	return nil
}

func snippet(text string) string {
	const maxLen = 40
	text = strings.TrimSpace(text)
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = text[:i]
	}
	if len(text) > maxLen {
		text = text[:maxLen] + "..."
	}
	return text
}
