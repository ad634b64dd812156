package interpreter

import (
	"context"
	"errors"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"

	"ripple/pkg/parser/codegen"
	"ripple/pkg/stack"
)

// DefaultMaxDepth bounds the number of active call frames
const DefaultMaxDepth = 1000

// Sleeper pauses execution for d, returning early with the context error
// when ctx is done
type Sleeper func(ctx context.Context, d time.Duration) error

// Interpreter executes the code segments of a function table on a stack VM
type Interpreter struct {
	functions *codegen.FunctionTable

	out  io.Writer       // output writer for print
	term *termenv.Output // terminal control for clrscrn, writes to out

	trace        *stack.Stack[string] // call trace
	traceHistory bool                 // keep returned calls in the trace

	depth    int // active frames
	maxDepth int // maximum active frames (0 = unlimited)

	maxSteps int // maximum steps (0 = unlimited)
	steps    int // steps executed

	sleep Sleeper
}

type Option func(*Interpreter)

// WithWriter sets the output writer for print statements
func WithWriter(w io.Writer) Option {
	return func(i *Interpreter) { i.out = w }
}

// WithMaxSteps sets a maximum number of interpreter steps before returning ErrMaxStepsExceeded
func WithMaxSteps(n int) Option {
	return func(i *Interpreter) { i.maxSteps = n }
}

// WithMaxDepth sets the call depth that raises ErrStackOverflow
func WithMaxDepth(n int) Option {
	return func(i *Interpreter) { i.maxDepth = n }
}

// WithTraceHistory records every call ever made instead of only active ones
func WithTraceHistory(enabled bool) Option {
	return func(i *Interpreter) { i.traceHistory = enabled }
}

// WithSleeper replaces the function used by sleep
func WithSleeper(fn Sleeper) Option {
	return func(i *Interpreter) { i.sleep = fn }
}

// NewInterpreter creates a new Interpreter instance
func NewInterpreter(functions *codegen.FunctionTable, opts ...Option) *Interpreter {
	it := &Interpreter{
		functions: functions,
		trace:     stack.New[string](),
		maxDepth:  DefaultMaxDepth,
		maxSteps:  0, // 0 => unlimited
	}

	for _, o := range opts {
		o(it)
	}

	if it.functions == nil {
		it.functions = codegen.NewFunctionTable()
	}

	if it.out == nil {
		it.out = os.Stdout
	}

	if it.sleep == nil {
		it.sleep = sleepContext
	}

	it.term = termenv.NewOutput(it.out, termenv.WithProfile(termenv.Ascii))
	return it
}

// Load replaces the function table, resetting state
func (i *Interpreter) Load(functions *codegen.FunctionTable) {
	i.functions = functions
	i.Reset()
}

// Reset clears runtime state (trace, depth, counters)
func (i *Interpreter) Reset() {
	i.trace.Clear()
	i.depth = 0
	i.steps = 0
}

// Steps returns the number of instructions executed since the last reset
func (i *Interpreter) Steps() int {
	return i.steps
}

// Trace returns the call trace, outermost call first
func (i *Interpreter) Trace() []string {
	return i.trace.Array()
}

// Run executes the program by calling main with no arguments
func (i *Interpreter) Run(ctx context.Context) error {
	i.Reset()
	log.Debug("Running program", "functions", i.functions.Len())

	if _, err := i.Call(ctx, "main", nil); err != nil {
		return i.attachTrace(err)
	}
	return nil
}

// Call invokes a function by name with positional arguments
func (i *Interpreter) Call(ctx context.Context, name string, args []Value) (Value, error) {
	fn, ok := i.functions.Lookup(name)
	if !ok {
		return Null(), newError(ErrUndefinedFunction, "function `%s` is not declared", name)
	}

	if len(args) != fn.Arity() {
		return Null(), newError(ErrArityMismatch, "`%s` takes %d argument(s) but %d were given", name, fn.Arity(), len(args))
	}

	locals := make(map[string]Value, len(fn.Params))
	for idx, param := range fn.Params {
		locals[param] = args[idx]
	}

	return i.invoke(ctx, fn, locals)
}

// Eval runs the named function against an existing set of locals. The map is
// updated in place so bindings survive across calls.
func (i *Interpreter) Eval(ctx context.Context, name string, locals map[string]Value) (Value, error) {
	i.Reset()

	fn, ok := i.functions.Lookup(name)
	if !ok {
		return Null(), newError(ErrUndefinedFunction, "function `%s` is not declared", name)
	}

	v, err := i.invoke(ctx, fn, locals)
	if err != nil {
		return Null(), i.attachTrace(err)
	}
	return v, nil
}

// invoke pushes a frame for fn and executes it to completion
func (i *Interpreter) invoke(ctx context.Context, fn *codegen.Function, locals map[string]Value) (Value, error) {
	if i.maxDepth > 0 && i.depth >= i.maxDepth {
		return Null(), newError(ErrStackOverflow, "call depth limit of %d reached calling `%s`", i.maxDepth, fn.Name)
	}

	caller := ""
	if !i.traceHistory {
		caller, _ = i.trace.Peek()
	}
	i.depth++
	i.trace.Push(fn.Name)
	log.Debug("Entering function", "name", fn.Name, "caller", caller, "depth", i.depth)

	result, err := i.execute(ctx, newFrame(fn, locals))
	i.depth--
	if err != nil {
		return Null(), err
	}

	if !i.traceHistory {
		i.trace.Pop()
	}
	return result, nil
}

// attachTrace records the call trace on runtime errors that have none yet
func (i *Interpreter) attachTrace(err error) error {
	var rerr *RuntimeError
	if errors.As(err, &rerr) && rerr.Trace == nil {
		rerr.Trace = i.Trace()
	}
	return err
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
