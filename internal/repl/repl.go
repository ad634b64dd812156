package repl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"ripple/pkg/color"
	"ripple/pkg/interpreter"
	"ripple/pkg/lexer"

	"github.com/charmbracelet/log"
	"github.com/peterh/liner"
)

const (
	promptMain  = "ripple> "
	promptCont  = "   ...> "
	historyFile = ".ripple_history"
	banner      = "Ripple REPL. Type :help for commands, :quit or Ctrl-D to leave."
)

// Run starts an interactive session on the terminal until :quit, end of
// input or ctx is done. Ctrl-C discards the current input, or interrupts a
// running evaluation.
func Run(ctx context.Context, opts ...interpreter.Option) error {
	fmt.Println(color.BoldText(banner))

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	histPath := ""
	if home, err := os.UserHomeDir(); err == nil {
		histPath = filepath.Join(home, historyFile)
	}

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	defer func() {
		if histPath == "" {
			return
		}
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		} else {
			log.Warn("Failed to save history", "file", histPath, "error", err)
		}
	}()

	session := NewSession(os.Stdout, os.Stderr, opts...)
	for ctx.Err() == nil {
		code, ok := readInput(ln)
		if !ok {
			fmt.Println()
			break
		}
		if strings.TrimSpace(code) == "" {
			continue
		}

		evalCtx, stop := signal.NotifyContext(ctx, os.Interrupt)
		quit := session.Execute(evalCtx, code)
		stop()

		ln.AppendHistory(strings.ReplaceAll(code, "\n", " "))
		if quit {
			break
		}
	}

	return nil
}

// readInput prompts until the braces of the input balance. Returns false at
// end of input.
func readInput(ln *liner.State) (string, bool) {
	var b strings.Builder

	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}

		line, err := ln.Prompt(prompt)
		if errors.Is(err, liner.ErrPromptAborted) {
			return "", true
		}
		if errors.Is(err, io.EOF) {
			if b.Len() > 0 {
				return b.String(), true
			}
			return "", false
		}
		if err != nil {
			return "", false
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		if !incomplete(b.String()) {
			return b.String(), true
		}
	}
}

// incomplete reports whether src opens more braces or brackets than it closes
func incomplete(src string) bool {
	depth := 0
	for _, tok := range lexer.Tokenize(src) {
		switch tok.Type {
		case lexer.LBRACE, lexer.LSBRACE:
			depth++
		case lexer.RBRACE, lexer.RSBRACE:
			depth--
		}
	}
	return depth > 0
}
