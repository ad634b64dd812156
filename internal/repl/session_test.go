package repl

import (
	"bytes"
	"context"
	"testing"

	"ripple/pkg/color"
	"ripple/pkg/interpreter"

	"github.com/stretchr/testify/require"
)

func newSession(t *testing.T, opts ...interpreter.Option) (*Session, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()

	enabled := color.IsColorEnabled()
	color.EnableColor(false)
	t.Cleanup(func() { color.EnableColor(enabled) })

	var out, errOut bytes.Buffer
	return NewSession(&out, &errOut, opts...), &out, &errOut
}

func TestSessionVariablesPersist(t *testing.T) {
	s, out, errOut := newSession(t)
	ctx := context.Background()

	require.False(t, s.Execute(ctx, "x = 40"))
	require.False(t, s.Execute(ctx, "x = x + 2"))
	require.False(t, s.Execute(ctx, "println x"))

	require.Equal(t, "42.0\n", out.String())
	require.Empty(t, errOut.String())
}

func TestSessionFunctions(t *testing.T) {
	s, out, errOut := newSession(t)
	ctx := context.Background()

	s.Execute(ctx, "func sq(n) {\n  return n * n\n}")
	s.Execute(ctx, "sq(3)")
	s.Execute(ctx, "sq(4) + 1")
	require.Equal(t, "17.0\n", out.String())

	out.Reset()
	s.Execute(ctx, "func sq(n) { return n * n * n }")
	s.Execute(ctx, "func half(n) { return n / 2 }")
	s.Execute(ctx, "sq(2)")
	s.Execute(ctx, ":funcs")
	require.Equal(t, "8.0\nsq(n)\nhalf(n)\n", out.String())
	require.Empty(t, errOut.String())
}

func TestSessionExpressionEcho(t *testing.T) {
	s, out, _ := newSession(t)
	ctx := context.Background()

	s.Execute(ctx, "xs = [1, \"a\"]")
	s.Execute(ctx, "xs")
	s.Execute(ctx, "xs[1]")
	s.Execute(ctx, "funky = true")
	s.Execute(ctx, ":vars")
	require.Equal(t, "[1.0, \"a\"]\na\nfunky = true\nxs = [1.0, \"a\"]\n", out.String())
}

func TestSessionErrors(t *testing.T) {
	s, out, errOut := newSession(t)
	ctx := context.Background()

	s.Execute(ctx, "x = ")
	require.Contains(t, errOut.String(), "Error at line 1: Unexpected newline, expected expression")

	errOut.Reset()
	s.Execute(ctx, "println missing")
	require.Contains(t, errOut.String(), "undefined variable: variable `missing` is not defined (in <repl>)")

	errOut.Reset()
	s.Execute(ctx, "func broken( {")
	require.Contains(t, errOut.String(), "Malformed parameter list")

	errOut.Reset()
	s.Execute(ctx, ":nope")
	require.Contains(t, errOut.String(), "unknown command :nope")

	// the session survives errors
	s.Execute(ctx, "println 1")
	require.Equal(t, "1.0\n", out.String())
}

func TestSessionSnippetNameIsReserved(t *testing.T) {
	s, out, errOut := newSession(t)
	ctx := context.Background()

	s.Execute(ctx, "func __repl__() { println \"mine\" }")
	s.Execute(ctx, "func snippet() { println \"also mine\" }")
	s.Execute(ctx, "__repl__()")
	s.Execute(ctx, "snippet()")
	s.Execute(ctx, "println 1")

	require.Equal(t, "mine\nalso mine\n1.0\n", out.String())
	require.Empty(t, errOut.String())
}

func TestSessionCommands(t *testing.T) {
	s, out, _ := newSession(t)
	ctx := context.Background()

	s.Execute(ctx, "func f() { print 1 }")
	s.Execute(ctx, ":dis")
	require.Contains(t, out.String(), "func f() line=1")

	out.Reset()
	s.Execute(ctx, ":help")
	require.Contains(t, out.String(), ":quit")

	require.True(t, s.Execute(ctx, ":quit"))
	require.False(t, s.Execute(ctx, "   "))
}

func TestSessionOptions(t *testing.T) {
	s, _, errOut := newSession(t, interpreter.WithMaxSteps(50))
	s.Execute(context.Background(), "while true { }")
	require.Contains(t, errOut.String(), "maximum steps exceeded")
}

func TestIncomplete(t *testing.T) {
	require.True(t, incomplete("func f() {"))
	require.True(t, incomplete("x = [1,"))
	require.False(t, incomplete("func f() { }"))
	require.False(t, incomplete("print \"{\""))
	require.False(t, incomplete("}"))
}
