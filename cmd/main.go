package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"ripple/internal/config"
	"ripple/internal/driver"
	"ripple/internal/logger"
	"ripple/internal/repl"
	"ripple/pkg/color"

	"github.com/charmbracelet/log"
)

// Main entry point for the Ripple interpreter.
func main() {
	options := driver.Driver{}
	var maxDepth, maxSteps int
	var history bool

	flag.BoolVar(&options.Help, "h", false, "Show help")
	flag.BoolVar(&options.Verbose, "v", false, "Verbose mode")
	flag.BoolVar(&options.NoColor, "n", false, "No color")
	flag.BoolVar(&options.Disassemble, "d", false, "Dump bytecode before running")
	flag.StringVar(&options.ConfigFile, "c", "", "Config file (default: nearest "+config.FileName+")")
	flag.IntVar(&maxDepth, "depth", 0, "Maximum call depth")
	flag.IntVar(&maxSteps, "steps", 0, "Maximum instructions to execute (0 = unlimited)")
	flag.BoolVar(&history, "history", false, "Keep returned calls in the call trace")

	flag.Parse()
	args := flag.Args()

	logger.Init(options.Verbose, options.NoColor)
	if options.Help {
		fmt.Printf("Usage: %s [options] [file]\n", os.Args[0])
		fmt.Println("Without a file an interactive session is started.")
		fmt.Println("Options:")
		flag.PrintDefaults()
		return
	}

	cfg, err := loadConfig(options.ConfigFile)
	if err != nil {
		log.Fatal("Invalid configuration", "error", err)
	}

	// flags given on the command line override the configuration
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "depth":
			cfg.VM.MaxDepth = maxDepth
		case "steps":
			cfg.VM.MaxSteps = maxSteps
		case "history":
			if history {
				cfg.VM.Trace = config.TraceHistory
			} else {
				cfg.VM.Trace = config.TraceStack
			}
		case "n":
			cfg.Output.Color = !options.NoColor
		}
	})
	if err := cfg.Validate(); err != nil {
		log.Fatal("Invalid configuration", "error", err)
	}
	options.Config = cfg

	if !cfg.Output.Color {
		color.EnableColor(false)
		logger.Init(options.Verbose, true)
	}

	if len(args) == 0 {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
		defer stop()

		if err := repl.Run(ctx, options.Options()...); err != nil {
			log.Fatal("REPL failed", "error", err)
		}
		return
	}

	options.SourceFile = args[0]

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := options.Run(ctx); err != nil {
		stop()
		log.Fatal("Execution failed", "error", err)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}

	wd, err := os.Getwd()
	if err != nil {
		return config.Default(), nil
	}
	return config.Find(wd)
}
