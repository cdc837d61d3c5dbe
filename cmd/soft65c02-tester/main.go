// Command soft65c02-tester runs a DSL test plan against the 65C02
// emulator, reading from stdin or a file and writing results to stdout or
// a file.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"

	"soft65c02/cpu"
	"soft65c02/tester"
	"soft65c02/tester/display"
)

func main() {
	app := &cli.App{
		Name:  "soft65c02-tester",
		Usage: "run a 65C02 DSL test plan",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "input_filepath",
				Aliases: []string{"i"},
				Value:   "-",
				Usage:   "script to read, - for stdin",
			},
			&cli.StringFlag{
				Name:    "output_filepath",
				Aliases: []string{"o"},
				Value:   "-",
				Usage:   "where to write results, - for stdout",
			},
			&cli.BoolFlag{
				Name:    "continue_on_failure",
				Aliases: []string{"c"},
				Usage:   "keep running after a failed assertion or parser error",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "also print setup notes and full run traces",
			},
			&cli.BoolFlag{
				Name:    "parse",
				Aliases: []string{"p"},
				Usage:   "parse the plan without executing it",
			},
			&cli.BoolFlag{
				Name:  "monitor",
				Usage: "after running, open an interactive viewer over the last run's instructions",
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	in, err := openInput(c.String("input_filepath"))
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := openOutput(c.String("output_filepath"))
	if err != nil {
		return err
	}
	defer out.Close()

	continueOnFailure := c.Bool("continue_on_failure")
	cfg := tester.ExecutorConfiguration{
		StopOnFailure:         !continueOnFailure,
		StopOnFailedAssertion: !continueOnFailure,
		Verbose:               c.Bool("verbose"),
	}

	if c.Bool("parse") {
		return parseOnly(in, out)
	}

	tokens := make(chan tester.OutputToken)
	done := make(chan struct{})
	displayer := display.CliDisplayer{Out: out, Verbose: cfg.Verbose}
	var lastRun []cpu.LogLine
	go func() {
		for tok := range tokens {
			if tok.Kind == tester.TokenRun {
				lastRun = tok.LogLines
			}
			displayer.Print(tok)
		}
		close(done)
	}()

	executor := tester.NewExecutor(cfg)
	runErr := executor.Run(in, tokens)
	close(tokens)
	<-done

	if c.Bool("monitor") && runErr == nil {
		if len(lastRun) == 0 {
			return fmt.Errorf("monitor: no run command produced any instructions to step through")
		}
		program := display.NewMonitor(executor.Round.Memory, lastRun)
		if _, err := program.Run(); err != nil {
			return err
		}
	}
	return runErr
}

func parseOnly(in io.Reader, out io.Writer) error {
	symbols := tester.NewSymbolTable()
	data, err := io.ReadAll(in)
	if err != nil {
		return err
	}
	for _, line := range splitLines(string(data)) {
		cmd, err := tester.Parse(line, symbols)
		if err != nil {
			fmt.Fprintf(out, "error: %s\n", err)
			continue
		}
		if cmd != nil {
			fmt.Fprintf(out, "%#v\n", cmd)
		}
	}
	return nil
}

func splitLines(s string) []string {
	var lines []string
	start := 0
	for i, r := range s {
		if r == '\n' {
			lines = append(lines, s[start:i])
			start = i + 1
		}
	}
	if start < len(s) {
		lines = append(lines, s[start:])
	}
	return lines
}

func openInput(path string) (io.ReadCloser, error) {
	if path == "-" || path == "" {
		return io.NopCloser(os.Stdin), nil
	}
	return os.Open(path)
}

func openOutput(path string) (io.WriteCloser, error) {
	if path == "-" || path == "" {
		return nopWriteCloser{os.Stdout}, nil
	}
	return os.Create(path)
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }
