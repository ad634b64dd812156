package parser_test

import (
	"testing"

	"ripple/pkg/lexer"
	"ripple/pkg/parser"
	"ripple/pkg/parser/codegen"

	"github.com/stretchr/testify/require"
)

// compileMain wraps body in `func main() { ... }` and returns main's code
func compileMain(t *testing.T, body string) []codegen.Instruction {
	t.Helper()
	table, err := parser.CompileSource("func main() {\n" + body + "\n}")
	require.NoError(t, err)
	fn, ok := table.Lookup("main")
	require.True(t, ok)
	return fn.Code
}

// listing renders code as compact instruction strings
func listing(code []codegen.Instruction) []string {
	out := make([]string, len(code))
	for i, in := range code {
		out[i] = in.String()
	}
	return out
}

func TestExpressionPrecedence(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{"mul binds tighter", "x = 2 + 3 * 4", []string{"(num 2)", "(num 3)", "(num 4)", "(mul)", "(add)", "(assign x)"}},
		{"grouping", "x = (2 + 3) * 4", []string{"(num 2)", "(num 3)", "(add)", "(num 4)", "(mul)", "(assign x)"}},
		{"left associative", "x = 1 - 2 - 3", []string{"(num 1)", "(num 2)", "(sub)", "(num 3)", "(sub)", "(assign x)"}},
		{"modulo and division", "x = 8 / 2 % 3", []string{"(num 8)", "(num 2)", "(div)", "(num 3)", "(mod)", "(assign x)"}},
		{"unary before equality", "x = not a == b", []string{"(resolve a)", "(not)", "(resolve b)", "(eq)", "(assign x)"}},
		{"double negation", "x = - -1", []string{"(num 1)", "(neg)", "(neg)", "(assign x)"}},
		{"and before or", "x = a or b and c", []string{"(resolve a)", "(resolve b)", "(resolve c)", "(and)", "(or)", "(assign x)"}},
		{"comparison before equality", "x = 1 < 2 != 3 >= 4", []string{"(num 1)", "(num 2)", "(lt)", "(num 3)", "(num 4)", "(ge)", "(ne)", "(assign x)"}},
		{"literals", `x = "hi" == null`, []string{`(str "hi")`, "(null)", "(eq)", "(assign x)"}},
		{"booleans", "x = true and false", []string{"(true)", "(false)", "(and)", "(assign x)"}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			require.Equal(t, test.expected, listing(compileMain(t, test.input)))
		})
	}
}

func TestIfElseBackpatch(t *testing.T) {
	code := compileMain(t, "if c { print 1 } else { print 2 }")
	require.Equal(t, []string{
		"(resolve c)", "(jmpf 3)", "(num 1)", "(print)", "(jmp 2)", "(num 2)", "(print)",
	}, listing(code))

	require.Equal(t, 5, code[1].Target(1)) // first instruction of the else branch
	require.Equal(t, 7, code[4].Target(4)) // just past the else branch
}

func TestIfWithoutElse(t *testing.T) {
	code := compileMain(t, "if c {\n print 1\n print 2\n}\nprint 3")
	require.Equal(t, []string{
		"(resolve c)", "(jmpf 5)", "(num 1)", "(print)", "(num 2)", "(print)", "(jmp 0)", "(num 3)", "(print)",
	}, listing(code))
}

func TestElseIfChain(t *testing.T) {
	code := compileMain(t, "if a { print 1 } else if b { print 2 } else { print 3 }")
	require.Equal(t, []string{
		"(resolve a)", "(jmpf 3)", "(num 1)", "(print)", "(jmp 7)",
		"(resolve b)", "(jmpf 3)", "(num 2)", "(print)", "(jmp 2)",
		"(num 3)", "(print)",
	}, listing(code))

	for idx, in := range code {
		if in.IsJump() {
			target := in.Target(idx)
			require.True(t, target >= 0 && target <= len(code), "jump at %d lands on %d", idx, target)
		}
	}
}

func TestWhileLoop(t *testing.T) {
	code := compileMain(t, "i = 0\nwhile i < 3 {\n println i\n i = i + 1\n}")
	require.Equal(t, []string{
		"(num 0)", "(assign i)",
		"(resolve i)", "(num 3)", "(lt)", "(jmpf 7)",
		"(resolve i)", "(println)",
		"(resolve i)", "(num 1)", "(add)", "(assign i)",
		"(loop 11)",
	}, listing(code))

	require.Equal(t, 2, code[12].Target(12))
	require.Equal(t, 13, code[5].Target(5))
}

func TestCalls(t *testing.T) {
	code := compileMain(t, "print add(2, 3)\nlog()\nx = f(g(1), 2)")
	require.Equal(t, []string{
		"(num 2)", "(num 3)", "(list 2)", "(call add)", "(print)",
		"(list 0)", "(call log)", "(pop)",
		"(num 1)", "(list 1)", "(call g)", "(num 2)", "(list 2)", "(call f)", "(assign x)",
	}, listing(code))
}

func TestSubscripts(t *testing.T) {
	code := compileMain(t, "a[1][0] = 9\nprint a[i][j + 1]")
	require.Equal(t, []string{
		"(num 1)", "(num 0)", "(num 9)", "(assign a)", "(subscript)", "(subscript)",
		"(resolve i)", "(resolve j)", "(num 1)", "(add)", "(resolve a)", "(subscript)", "(subscript)", "(print)",
	}, listing(code))
}

func TestListLiterals(t *testing.T) {
	code := compileMain(t, "a = [[1, 2], [3, 4]]\nb = [\n  1,\n  \"x\",\n]\nc = []")
	require.Equal(t, []string{
		"(num 1)", "(num 2)", "(list 2)", "(num 3)", "(num 4)", "(list 2)", "(list 2)", "(assign a)",
		"(num 1)", `(str "x")`, "(list 2)", "(assign b)",
		"(list 0)", "(assign c)",
	}, listing(code))
}

func TestBuiltinStatements(t *testing.T) {
	code := compileMain(t, "sleep 0.5\nappend xs, 1\nappend xs 2\nclrscrn\nreturn\n")
	require.Equal(t, []string{
		"(num 0.5)", "(sleep)",
		"(num 1)", "(append xs)",
		"(num 2)", "(append xs)",
		"(clrscrn)",
		"(null)", "(ret)",
	}, listing(code))
}

func TestReturnForms(t *testing.T) {
	table, err := parser.CompileSource("func f(a, b) { return a + b }\nfunc g() { return }\nfunc main() {\n}")
	require.NoError(t, err)

	f, _ := table.Lookup("f")
	require.Equal(t, []string{"a", "b"}, f.Params)
	require.Equal(t, []string{"(resolve a)", "(resolve b)", "(add)", "(ret)"}, listing(f.Code))

	g, _ := table.Lookup("g")
	require.Empty(t, g.Params)
	require.Equal(t, []string{"(null)", "(ret)"}, listing(g.Code))

	main, _ := table.Lookup("main")
	require.Empty(t, main.Code)
	require.Equal(t, []string{"f", "g", "main"}, table.Names())
}

func TestSemicolonTerminators(t *testing.T) {
	code := compileMain(t, "a = [[1,2],[3,4]]; a[1][0] = 9; print a")
	require.Len(t, code, 16)
	require.Equal(t, "(print)", code[len(code)-1].String())
}

func TestInstructionLines(t *testing.T) {
	code := compileMain(t, "x = 1\n\ny = [\n  2\n]")
	require.Equal(t, 2, code[0].Line) // line 1 is the func header
	require.Equal(t, 2, code[1].Line)
	require.Equal(t, 5, code[2].Line)
	require.Equal(t, 6, code[3].Line) // list is built where it closes
	require.Equal(t, codegen.OpAssign, code[4].Op)
	require.Equal(t, 4, code[4].Line)
}

func TestDeterministic(t *testing.T) {
	src := `
func fib(n) {
	if n < 2 { return n }
	return fib(n - 1) + fib(n - 2)
}

func main() {
	i = 0
	while i < 10 {
		if i % 2 == 0 { println fib(i) } else if i == 3 { println "three" } else { println -i }
		i = i + 1
	}
}`
	first, err := parser.CompileSource(src)
	require.NoError(t, err)
	second, err := parser.CompileSource(src)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		errMsg string
	}{
		{"top level statement", "x = 1", "line 1: Expect all top-level code to be function declarations"},
		{"missing name", "func () {}", "line 1: Expect function name after `func` keyword"},
		{"missing paren", "func main {}", "line 1: Expect `(` after function name"},
		{"bad parameter", "func f(a, 1) {}", "line 1: Malformed parameter list: expect parameter name"},
		{"unclosed parameters", "func f(a b) {}", "line 1: Malformed parameter list: expect `,` or `)`"},
		{"duplicate parameter", "func f(a, a) {}", "line 1: Duplicate parameter `a`"},
		{"missing brace", "func f() print 1", "line 1: Expect `{` before body of `f`"},
		{"missing close brace", "func f() {\n print 1\n", "line 3: Expect `}` to close block"},
		{"missing equals", "func f() {\n x 1\n}", "line 2: Expect `=` after identifier `x`"},
		{"missing terminator", "func f() {\n print 1 print 2\n}", "line 2: Expect newline after statement, not token `print`"},
		{"missing expression", "func f() {\n x =\n}", "line 2: Unexpected newline, expected expression"},
		{"missing subscript bracket", "func f() {\n print a[1\n}", "line 2: Expect `]` after subscript"},
		{"missing grouping paren", "func f() {\n print (1 + 2\n}", "line 2: Expect `)` after grouping"},
		{"missing argument comma", "func f() {\n g(1 2)\n}", "line 2: Unexpected token `2`, expected `,` to separate arguments"},
		{"unterminated list", "func f() {\n x = [1, 2\n", "line 2: Unterminated list literal"},
		{"bad list separator", "func f() {\n x = [1 2]\n}", "line 2: Unexpected token `2`, expected `,` or `]` in list literal"},
		{"bad else", "func f() {\n if true { } else print 1\n}", "line 2: Unexpected token `print`, expected `{` or `if` after else"},
		{"unexpected statement", "func f() {\n else\n}", "line 2: Unexpected token `else`, expected statement"},
		{"unterminated string", "func f() {\n print \"abc\n}", "line 2: Unexpected unterminated string \"abc, expected expression"},
		{"illegal character", "func f() {\n print 1 @ 2\n}", "line 2: Expect newline after statement, not character `@`"},
		{"append target", "func f() {\n append 1, 2\n}", "line 2: Expect identifier after append"},
		{"duplicate function", "func f() {}\nfunc f() {}", "line 2: function `f` already declared on line 1"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			table, err := parser.CompileSource(test.input)
			require.Nil(t, table)
			require.EqualError(t, err, test.errMsg)
		})
	}
}

func TestErrorRecovery(t *testing.T) {
	src := "func a( {\n}\n" +
		"func b() {\n x =\n}\n" +
		"func c() {\n print 1\n}\n"

	p := parser.NewParser(lexer.Tokenize(src))
	p.Parse()

	errs := p.Errors()
	require.Len(t, errs, 2)
	require.EqualError(t, errs[0], "line 1: Malformed parameter list: expect parameter name")
	require.EqualError(t, errs[1], "line 4: Unexpected newline, expected expression")
	require.EqualError(t, p.Err(), "line 1: Malformed parameter list: expect parameter name\nline 4: Unexpected newline, expected expression")

	// the valid declaration after the broken ones still compiles
	require.Equal(t, []string{"c"}, p.Functions().Names())

	var perr *parser.Error
	require.ErrorAs(t, errs[1], &perr)
	require.Equal(t, 4, perr.Line())
	require.Equal(t, "\n", perr.Lexeme)
}

func TestRecoveryAtNestedFunc(t *testing.T) {
	src := "func a() {\n print 1\nfunc b() {\n print 2\n}\n"

	p := parser.NewParser(lexer.Tokenize(src))
	p.Parse()

	require.Len(t, p.Errors(), 1)
	require.EqualError(t, p.Errors()[0], "line 3: Unexpected token `func`, expected statement")
	require.Equal(t, []string{"b"}, p.Functions().Names())
}

func TestNoErrors(t *testing.T) {
	p := parser.NewParser(lexer.Tokenize("\n\nfunc main() {}\n\n"))
	p.Parse()
	require.NoError(t, p.Err())
	require.Empty(t, p.Errors())
}

func TestMissingEOFToken(t *testing.T) {
	tokens := lexer.Tokenize("func main() { print 1 }")
	tokens = tokens[:len(tokens)-1]

	table, err := parser.Compile(tokens)
	require.NoError(t, err)
	_, ok := table.Lookup("main")
	require.True(t, ok)
}
