package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/swordcube/cubescript/cube"
)

func main() {
	if err := runCLI(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runCLI(args []string) error {
	if len(args) < 2 {
		return usageError()
	}
	switch args[1] {
	case "run":
		return runCommand(args[2:])
	case "repl":
		return runREPL()
	case "help", "-h", "--help":
		printUsage()
		return nil
	default:
		return usageError()
	}
}

func runCommand(args []string) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(new(flagErrorSink))
	call := fs.String("call", "", "function to invoke after the script starts")
	checkOnly := fs.Bool("check", false, "only compile the script without executing")
	guard := fs.Bool("guard", false, "enable the accessor re-entrancy guard")
	verbose := fs.Bool("verbose", false, "log trace output with timestamps to stderr")
	if err := fs.Parse(args); err != nil {
		return err
	}
	remaining := fs.Args()
	if len(remaining) == 0 {
		return errors.New("cube run: script path required")
	}
	scriptPath, err := filepath.Abs(remaining[0])
	if err != nil {
		return fmt.Errorf("resolve script path: %w", err)
	}
	input, err := os.ReadFile(scriptPath)
	if err != nil {
		return fmt.Errorf("read script: %w", err)
	}

	cfg := cube.Config{AccessorGuard: *guard}
	if *verbose {
		logger := logrus.New()
		logger.SetOutput(os.Stderr)
		cfg.Logger = logger
	} else {
		cfg.TraceWriter = os.Stdout
	}

	engine := cube.NewEngine(cfg)
	script, err := engine.Compile(filepath.Base(scriptPath), string(input))
	if err != nil {
		return fmt.Errorf("compile failed: %w", err)
	}
	if *checkOnly {
		return nil
	}

	ctx := context.Background()
	if err := script.Start(ctx); err != nil {
		return fmt.Errorf("execution failed: %w", err)
	}
	defer script.Stop()

	if *call == "" {
		return nil
	}
	callArgs := make([]cube.Value, len(remaining)-1)
	for i, raw := range remaining[1:] {
		callArgs[i] = cube.NewString(raw)
	}
	result, err := script.Call(ctx, *call, callArgs)
	if err != nil {
		return fmt.Errorf("execution failed: %w", err)
	}
	if !result.IsNil() {
		fmt.Println(result.String())
	}
	return nil
}

func usageError() error {
	printUsage()
	return errors.New("invalid command")
}

func printUsage() {
	prog := filepath.Base(os.Args[0])
	fmt.Fprintf(os.Stderr, "Usage: %s run [flags] <script> [args...]\n", prog)
	fmt.Fprintf(os.Stderr, "       %s repl\n", prog)
	fmt.Fprintln(os.Stderr, "Flags:")
	fmt.Fprintln(os.Stderr, "  -call string")
	fmt.Fprintln(os.Stderr, "    function to invoke after the script starts")
	fmt.Fprintln(os.Stderr, "  -check")
	fmt.Fprintln(os.Stderr, "    only compile the script without executing")
	fmt.Fprintln(os.Stderr, "  -guard")
	fmt.Fprintln(os.Stderr, "    enable the accessor re-entrancy guard")
	fmt.Fprintln(os.Stderr, "  -verbose")
	fmt.Fprintln(os.Stderr, "    log trace output with timestamps to stderr")
}

type flagErrorSink struct{}

func (flagErrorSink) Write(p []byte) (int, error) {
	return len(p), nil
}
