package driver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"ripple/internal/config"
	"ripple/pkg/color"
	"ripple/pkg/interpreter"
	"ripple/pkg/lexer"
	"ripple/pkg/parser"
	"ripple/pkg/parser/codegen"

	"github.com/charmbracelet/log"
)

var (
	ErrCompileFailed = errors.New("compilation failed")
	ErrRuntime       = errors.New("runtime error")
)

type Driver struct {
	Help        bool   // Show help message
	Verbose     bool   // Enable debug logging
	Disassemble bool   // Dump the compiled bytecode before running
	NoColor     bool   // Disable colored output
	ConfigFile  string // Path to ripple.toml, searched from the working directory when empty
	SourceFile  string // Path to the source file

	Config *config.Config // VM settings, defaults when nil
	Out    io.Writer      // program output, stdout when nil
	Err    io.Writer      // diagnostics, stderr when nil
}

// Run reads the source file, compiles it and executes main
func (d *Driver) Run(ctx context.Context) error {
	log.Debug("Processing file", "file", d.SourceFile)

	input, err := os.ReadFile(d.SourceFile)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", d.SourceFile, err)
	}

	return d.RunSource(ctx, string(input))
}

// RunSource compiles and executes source text
func (d *Driver) RunSource(ctx context.Context, src string) error {
	table, err := d.Compile(src)
	if err != nil {
		return err
	}

	if d.Disassemble {
		fmt.Fprintln(d.stdout(), color.GreenText("=== Bytecode ==="))
		if err := codegen.Disassemble(d.stdout(), table); err != nil {
			return err
		}
		fmt.Fprintln(d.stdout(), color.GreenText("=== Program Output ==="))
	}

	it := interpreter.NewInterpreter(table, d.Options()...)
	if err := it.Run(ctx); err != nil {
		ReportRuntimeError(d.stderr(), err, func(string) string { return src })
		return fmt.Errorf("%w: %w", ErrRuntime, err)
	}

	log.Debug("Program finished", "steps", it.Steps())
	return nil
}

// Compile tokenizes and compiles src, reporting every syntax error
func (d *Driver) Compile(src string) (*codegen.FunctionTable, error) {
	p := parser.NewParser(lexer.Tokenize(src))
	p.Parse()

	if errs := p.Errors(); len(errs) > 0 {
		fmt.Fprintln(d.stderr(), color.BrightRedText("=== Syntax Errors ==="))
		ReportCompileErrors(d.stderr(), errs, src)
		return nil, fmt.Errorf("%w with %d error(s)", ErrCompileFailed, len(errs))
	}

	log.Debug("Compiled program", "functions", p.Functions().Len())
	return p.Functions(), nil
}

// Options translates the configuration into interpreter options
func (d *Driver) Options() []interpreter.Option {
	cfg := d.Config
	if cfg == nil {
		cfg = config.Default()
	}

	return []interpreter.Option{
		interpreter.WithWriter(d.stdout()),
		interpreter.WithMaxDepth(cfg.VM.MaxDepth),
		interpreter.WithMaxSteps(cfg.VM.MaxSteps),
		interpreter.WithTraceHistory(cfg.VM.Trace == config.TraceHistory),
	}
}

func (d *Driver) stdout() io.Writer {
	if d.Out == nil {
		return os.Stdout
	}
	return d.Out
}

func (d *Driver) stderr() io.Writer {
	if d.Err == nil {
		return os.Stderr
	}
	return d.Err
}

// ReportCompileErrors prints each syntax error with the source line it points at
func ReportCompileErrors(w io.Writer, errs []error, src string) {
	for _, err := range errs {
		var perr *parser.Error
		if errors.As(err, &perr) {
			fmt.Fprintln(w, color.ErrorWithLine(perr.Line(), perr.Msg, sourceLine(src, perr.Line())))
			continue
		}
		fmt.Fprintln(w, color.Error(err.Error()))
	}
}

// ReportRuntimeError prints a runtime error, the failing source line and the
// call trace. source returns the text a function was compiled from.
func ReportRuntimeError(w io.Writer, err error, source func(fn string) string) {
	var rerr *interpreter.RuntimeError
	if !errors.As(err, &rerr) {
		fmt.Fprintln(w, color.Error(err.Error()))
		return
	}

	if rerr.Func == "" {
		fmt.Fprintln(w, color.Error(rerr.Error()))
	} else {
		msg := fmt.Sprintf("%s: %s (in %s)", rerr.Kind, rerr.Msg, rerr.Func)
		fmt.Fprintln(w, color.ErrorWithLine(rerr.Line, msg, sourceLine(source(rerr.Func), rerr.Line)))
	}

	if len(rerr.Trace) > 0 {
		fmt.Fprintln(w, color.BoldText("Call trace (most recent call last):"))
		for _, name := range rerr.Trace {
			fmt.Fprintf(w, "  %s\n", name)
		}
	}
}

// sourceLine returns the trimmed text of a 1-based line, or "" if out of range
func sourceLine(src string, line int) string {
	lines := strings.Split(src, "\n")
	if line < 1 || line > len(lines) {
		return ""
	}
	return strings.TrimSpace(lines[line-1])
}
