package analyzer

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ludo-technologies/ktscan/internal/config"
	"github.com/ludo-technologies/ktscan/internal/parser"
	tu "github.com/ludo-technologies/ktscan/internal/testutil"
)

func requireRecord(t *testing.T, metrics *Metrics, name string, branches, depth int) {
	t.Helper()
	record, ok := metrics.RecordFor(name)
	require.True(t, ok, "no record for %q", name)
	assert.Equal(t, branches, record.BranchCount, "branch count of %q", name)
	assert.Equal(t, depth, record.MaxDepth, "max depth of %q", name)
}

func TestAnalyze_Scenarios(t *testing.T) {
	tests := []struct {
		name     string
		tree     *parser.Node
		branches int
		depth    int
	}{
		{
			name:     "single if/else",
			tree:     tu.File(tu.Fn("f", tu.Block(tu.If(tu.Block(), tu.Block())))),
			branches: 1,
			depth:    1,
		},
		{
			name:     "single for",
			tree:     tu.File(tu.Fn("f", tu.Block(tu.Loop(tu.Block())))),
			branches: 1,
			depth:    1,
		},
		{
			name:     "single while",
			tree:     tu.File(tu.Fn("f", tu.Block(tu.Loop()))),
			branches: 1,
			depth:    1,
		},
		{
			name: "nested if, for, lambda and trailing while",
			tree: tu.File(tu.Fn("f", tu.Block(
				tu.If(tu.Block(tu.If(), tu.Loop())),
				tu.Lambda(tu.Block(tu.If())),
				tu.Loop(),
			))),
			branches: 5,
			depth:    2,
		},
		{
			name:     "five nested ifs holding a for",
			tree:     tu.File(tu.Fn("f", tu.If(tu.If(tu.If(tu.If(tu.If(tu.Loop()))))))),
			branches: 6,
			depth:    6,
		},
		{
			name:     "no branches",
			tree:     tu.File(tu.Fn("f", tu.Block(parser.NewLeaf("integer_literal", "1")))),
			branches: 0,
			depth:    0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			metrics, err := Analyze(tt.tree)
			require.NoError(t, err)
			requireRecord(t, metrics, "f", tt.branches, tt.depth)
			assert.Equal(t, 1, metrics.Len())
		})
	}
}

func TestAnalyze_IndependentFunctions(t *testing.T) {
	tree := tu.File(
		tu.Fn("first", tu.If(tu.If())),
		tu.Fn("second", tu.Loop(), tu.Loop(), tu.Loop()),
	)

	metrics, err := Analyze(tree)
	require.NoError(t, err)

	requireRecord(t, metrics, "first", 2, 2)
	requireRecord(t, metrics, "second", 3, 1)
	assert.Equal(t, []string{"first", "second"}, metrics.Functions())
}

func TestAnalyze_WhenIsOneBranch(t *testing.T) {
	for _, arms := range []int{0, 1, 2, 7} {
		metrics, err := Analyze(tu.File(tu.Fn("f", tu.When(arms))))
		require.NoError(t, err)
		requireRecord(t, metrics, "f", 1, 1)
	}
}

func TestAnalyze_ClassMethodUsesSimpleName(t *testing.T) {
	tree := tu.File(tu.Class("MyClass", tu.Fn("myMethod", tu.If())))

	metrics, err := Analyze(tree)
	require.NoError(t, err)

	requireRecord(t, metrics, "myMethod", 1, 1)
	_, ok := metrics.RecordFor("MyClass.myMethod")
	assert.False(t, ok)
}

func TestAnalyze_DottedIdentity(t *testing.T) {
	tree := tu.File(tu.Func([]string{"Outer", "inner"}, tu.Loop()))

	metrics, err := Analyze(tree)
	require.NoError(t, err)
	requireRecord(t, metrics, "Outer.inner", 1, 1)
}

func TestAnalyze_OverloadsAccumulate(t *testing.T) {
	tree := tu.File(
		tu.Fn("parse", tu.If()),
		tu.Fn("other"),
		tu.Fn("parse", tu.If(tu.If(tu.If()))),
	)

	metrics, err := Analyze(tree)
	require.NoError(t, err)

	requireRecord(t, metrics, "parse", 4, 3)
	record, _ := metrics.RecordFor("parse")
	assert.Equal(t, 2, record.Declarations)
	assert.Equal(t, []string{"parse", "other"}, metrics.Functions())
}

func TestAnalyze_DeclaredFunctionWithoutBranches(t *testing.T) {
	metrics, err := Analyze(tu.File(tu.Fn("empty")))
	require.NoError(t, err)
	requireRecord(t, metrics, "empty", 0, 0)
}

func TestAnalyze_BranchesOutsideFunctions(t *testing.T) {
	tree := tu.File(tu.If(tu.Loop()), tu.Fn("f"))

	metrics, err := Analyze(tree)
	require.NoError(t, err)

	requireRecord(t, metrics, "", 2, 2)
	requireRecord(t, metrics, "f", 0, 0)
}

func TestAnalyze_ScopeRestoredAfterNestedFunction(t *testing.T) {
	// The branch after the nested declaration belongs to the outer function again
	tree := tu.File(tu.Fn("outer", tu.Block(
		tu.Fn("inner", tu.If()),
		tu.Loop(),
	)))

	metrics, err := Analyze(tree)
	require.NoError(t, err)

	requireRecord(t, metrics, "outer", 1, 1)
	requireRecord(t, metrics, "inner", 1, 1)
}

func TestAnalyze_DepthAtFunctionBoundary(t *testing.T) {
	tree := tu.File(tu.Fn("outer", tu.If(tu.If(tu.Fn("inner", tu.If())))))

	t.Run("inherited by default", func(t *testing.T) {
		metrics, err := Analyze(tree)
		require.NoError(t, err)
		requireRecord(t, metrics, "outer", 2, 2)
		requireRecord(t, metrics, "inner", 1, 3)
	})

	t.Run("reset when requested", func(t *testing.T) {
		metrics, err := AnalyzeWithOptions(tree, Options{ResetDepthAtFunction: true})
		require.NoError(t, err)
		requireRecord(t, metrics, "outer", 2, 2)
		requireRecord(t, metrics, "inner", 1, 1)
	})
}

func TestAnalyze_MissingIdentifier(t *testing.T) {
	anonymous := parser.NewInterior(parser.NodeFunctionDeclaration,
		parser.NewLeaf("fun", "fun"),
		tu.If(),
	)
	anonymous.Location = parser.Location{File: "A.kt", StartLine: 3, StartCol: 1}

	_, err := Analyze(tu.File(anonymous))
	require.Error(t, err)

	var missing *MissingIdentifierError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, 3, missing.Location.StartLine)
}

func TestAnalyze_SegmentWithoutIdentifierLeaf(t *testing.T) {
	broken := parser.NewInterior(parser.NodeFunctionDeclaration,
		parser.NewInterior(parser.NodeSimpleIdentifier, parser.NewLeaf("comment", "/* */")),
	)

	_, err := Analyze(tu.File(broken))

	var missing *MissingIdentifierError
	assert.True(t, errors.As(err, &missing))
}

func TestAnalyze_MalformedTrees(t *testing.T) {
	leafWithChildren := parser.NewLeaf(parser.NodeIdentifier, "x")
	leafWithChildren.Children = []*parser.Node{parser.NewLeaf(parser.NodeIdentifier, "y")}

	withNilChild := tu.Fn("f")
	withNilChild.Children = append(withNilChild.Children, nil)

	tests := []struct {
		name string
		tree *parser.Node
	}{
		{"nil root", nil},
		{"nil child", tu.File(withNilChild)},
		{"unknown kind", tu.File(&parser.Node{Type: "mystery"})},
		{"leaf with children", tu.File(tu.Fn("f", leafWithChildren))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			metrics, err := Analyze(tt.tree)
			assert.Nil(t, metrics)

			var malformed *MalformedTreeError
			require.True(t, errors.As(err, &malformed), "expected MalformedTreeError, got %v", err)
			assert.NotEmpty(t, malformed.Error())
		})
	}
}

func TestAnalyze_IsPure(t *testing.T) {
	tree := tu.File(
		tu.Fn("a", tu.If(tu.Loop()), tu.When(3)),
		tu.Fn("b", tu.Lambda(tu.If())),
	)

	first, err := Analyze(tree)
	require.NoError(t, err)
	second, err := Analyze(tree)
	require.NoError(t, err)

	assert.Equal(t, first.Records(), second.Records())
	assert.Equal(t, first.Functions(), second.Functions())
}

func TestAnalyze_ConcurrentCalls(t *testing.T) {
	tree := tu.File(tu.Fn("f", tu.If(tu.If(tu.Loop())), tu.When(2)))

	var wg sync.WaitGroup
	results := make([]*Metrics, 8)
	errs := make([]error, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = Analyze(tree)
		}(i)
	}
	wg.Wait()

	for i := range results {
		require.NoError(t, errs[i])
		requireRecord(t, results[i], "f", 4, 3)
	}
}

func TestAnalyze_DepthInvariants(t *testing.T) {
	tree := tu.File(
		tu.Fn("a", tu.If(), tu.If(), tu.If()),
		tu.Fn("b", tu.Loop(tu.When(1), tu.If(tu.Loop()))),
		tu.Fn("c"),
		tu.Fn("d", tu.Lambda(tu.When(4))),
	)

	metrics, err := Analyze(tree)
	require.NoError(t, err)

	for name, record := range metrics.Records() {
		assert.LessOrEqual(t, record.MaxDepth, record.BranchCount, name)
		assert.Equal(t, record.BranchCount == 0, record.MaxDepth == 0, name)
	}
}

func TestAnalyze_DeepTreeDoesNotRecurse(t *testing.T) {
	const depth = 100000
	node := parser.NewLeaf(parser.NodeIdentifier, "x")
	for i := 0; i < depth; i++ {
		node = parser.NewInterior("parenthesized_expression", node)
	}

	metrics, err := Analyze(tu.File(tu.Fn("f", tu.If(node))))
	require.NoError(t, err)
	requireRecord(t, metrics, "f", 1, 1)
}

func TestAnalyze_RealSource(t *testing.T) {
	source := `
fun d(items: List<Int>, flag: Boolean) {
    if (flag) {
        if (items.isEmpty()) {
            println("empty")
        }
        for (i in items) {
            println(i)
        }
    }
    val check = { x: Int -> if (x > 0) println(x) }
    var n = 0
    while (n < 3) {
        n++
    }
}

fun e(a: Boolean) {
    if (a) { if (a) { if (a) { if (a) { if (a) {
        for (i in 0..3) println(i)
    } } } } }
}

fun c(n: Int) {
    var i = n
    do {
        i--
    } while (i > 0)
}

fun w(x: Int): String = when (x) {
    1 -> "one"
    2 -> "two"
    else -> "many"
}

class MyClass {
    fun myMethod(x: Int) {
        if (x > 0) println(x) else println(-x)
    }
}
`
	metrics, err := Analyze(tu.CreateTestAST(t, source))
	require.NoError(t, err)

	requireRecord(t, metrics, "d", 5, 2)
	requireRecord(t, metrics, "e", 6, 6)
	requireRecord(t, metrics, "c", 1, 1)
	requireRecord(t, metrics, "w", 1, 1)
	requireRecord(t, metrics, "myMethod", 1, 1)
}

func TestBranchComplexityAnalyzer(t *testing.T) {
	tree := tu.File(tu.Fn("outer", tu.If(tu.Fn("inner", tu.If()))))

	analyzer := NewBranchComplexityAnalyzer(nil)
	metrics, err := analyzer.AnalyzeFile(tree)
	require.NoError(t, err)
	requireRecord(t, metrics, "inner", 1, 2)

	cfg := config.DefaultConfig().Complexity
	cfg.ResetDepthAtFunction = true
	metrics, err = NewBranchComplexityAnalyzer(&cfg).AnalyzeFile(tree)
	require.NoError(t, err)
	requireRecord(t, metrics, "inner", 1, 1)

	assert.Equal(t, "low", analyzer.RiskLevel(ComplexityRecord{BranchCount: 4}))
	assert.Equal(t, "medium", analyzer.RiskLevel(ComplexityRecord{BranchCount: 5}))
	assert.Equal(t, "high", analyzer.RiskLevel(ComplexityRecord{BranchCount: 10}))
}

func TestClassify(t *testing.T) {
	tests := []struct {
		node *parser.Node
		want Role
	}{
		{tu.If(), RoleBranch},
		{tu.Loop(), RoleBranch},
		{tu.When(2), RoleBranch},
		{tu.Fn("f"), RoleFunctionDeclaration},
		{tu.Lambda(), RoleOther},
		{tu.Class("C"), RoleOther},
		{parser.NewInterior("some_future_node"), RoleOther},
		{parser.NewLeaf(parser.NodeIfExpression, "if"), RoleOther},
		{nil, RoleOther},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.node), "%v", tt.node)
	}
	assert.Equal(t, "branch", RoleBranch.String())
	assert.Equal(t, "function", RoleFunctionDeclaration.String())
	assert.Equal(t, "other", RoleOther.String())
}
