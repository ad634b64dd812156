package repl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"ripple/internal/driver"
	"ripple/pkg/color"
	"ripple/pkg/interpreter"
	"ripple/pkg/lexer"
	"ripple/pkg/parser"
	"ripple/pkg/parser/codegen"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/go-multierror"
)

// snippetName is the throwaway function each entered statement runs as. The
// scanner cannot produce it, so no declaration can collide with it.
const snippetName = "<repl>"

const helpText = `Enter statements to run them, or expressions to print their value.
Lines starting with func declare a function for the rest of the session.
Commands:
  :funcs  list declared functions
  :vars   list session variables
  :dis    disassemble declared functions
  :help   show this help
  :quit   leave the REPL`

// Session holds the declarations and variables that persist between inputs.
type Session struct {
	functions []*codegen.Function         // declarations, in the order they were entered
	sources   map[string]string           // function name -> declaration text
	locals    map[string]interpreter.Value // session variables
	it        *interpreter.Interpreter

	out    io.Writer
	errOut io.Writer
}

// NewSession creates an empty session. Program output goes to out and
// diagnostics to errOut.
func NewSession(out, errOut io.Writer, opts ...interpreter.Option) *Session {
	opts = append([]interpreter.Option{interpreter.WithWriter(out)}, opts...)
	return &Session{
		sources: make(map[string]string),
		locals:  make(map[string]interpreter.Value),
		it:      interpreter.NewInterpreter(nil, opts...),
		out:     out,
		errOut:  errOut,
	}
}

// Execute handles one complete input and reports whether the session should end
func (s *Session) Execute(ctx context.Context, input string) bool {
	trimmed := strings.TrimSpace(input)
	switch {
	case trimmed == "":
		return false
	case strings.HasPrefix(trimmed, ":"):
		return s.command(trimmed)
	case lexer.Tokenize(trimmed)[0].Type == lexer.FUNC:
		s.declare(input)
		return false
	}

	s.evaluate(ctx, input)
	return false
}

func (s *Session) command(cmd string) bool {
	switch strings.ToLower(cmd) {
	case ":quit", ":q", ":exit":
		return true
	case ":funcs":
		for _, fn := range s.functions {
			fmt.Fprintf(s.out, "%s(%s)\n", fn.Name, strings.Join(fn.Params, ", "))
		}
	case ":vars":
		for _, name := range slices.Sorted(maps.Keys(s.locals)) {
			fmt.Fprintf(s.out, "%s = %s\n", name, s.locals[name].Repr())
		}
	case ":dis":
		if err := codegen.Disassemble(s.out, s.table()); err != nil {
			fmt.Fprintln(s.errOut, color.Error(err.Error()))
		}
	case ":help":
		fmt.Fprintln(s.out, helpText)
	default:
		fmt.Fprintln(s.errOut, color.Warning(fmt.Sprintf("unknown command %s, type :help", cmd)))
	}
	return false
}

// declare compiles function declarations and adds them to the session,
// replacing earlier declarations of the same name
func (s *Session) declare(src string) {
	p := parser.NewParser(lexer.Tokenize(src))
	p.Parse()
	if errs := p.Errors(); len(errs) > 0 {
		driver.ReportCompileErrors(s.errOut, errs, src)
		return
	}

	declared := p.Functions()
	for _, name := range declared.Names() {
		fn, _ := declared.Lookup(name)
		s.functions = slices.DeleteFunc(s.functions, func(f *codegen.Function) bool { return f.Name == name })
		s.functions = append(s.functions, fn)
		s.sources[name] = src
		log.Debug("Declared function", "name", name)
	}
}

// evaluate runs input as the body of a throwaway function sharing the
// session variables. Input that is not a statement is printed as an expression.
func (s *Session) evaluate(ctx context.Context, input string) {
	snippet, err := compileSnippet(input)
	if err != nil {
		echo, echoErr := compileSnippet("println " + input)
		if echoErr != nil {
			errs := []error{err}
			var merr *multierror.Error
			if errors.As(err, &merr) {
				errs = merr.Errors
			}
			driver.ReportCompileErrors(s.errOut, errs, input)
			return
		}
		snippet = echo
	}

	table := s.table()
	if err := table.Define(snippet); err != nil {
		fmt.Fprintln(s.errOut, color.Error(err.Error()))
		return
	}

	s.it.Load(table)
	if _, err := s.it.Eval(ctx, snippetName, s.locals); err != nil {
		driver.ReportRuntimeError(s.errOut, err, func(fn string) string {
			if src, ok := s.sources[fn]; ok {
				return src
			}
			return input
		})
	}
}

// table builds a function table from the session declarations
func (s *Session) table() *codegen.FunctionTable {
	table := codegen.NewFunctionTable()
	for _, fn := range s.functions {
		_ = table.Define(fn)
	}
	return table
}

// compileSnippet wraps input in a function whose first line is the first
// line of input, so reported lines match what was typed
func compileSnippet(input string) (*codegen.Function, error) {
	table, err := parser.CompileSource("func snippet() { " + input + "\n}")
	if err != nil {
		return nil, err
	}
	fn, _ := table.Lookup("snippet")
	fn.Name = snippetName
	return fn, nil
}
