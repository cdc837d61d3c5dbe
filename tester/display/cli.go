package display

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/davecgh/go-spew/spew"

	"soft65c02/tester"
)

var (
	markerStyle    = lipgloss.NewStyle().Bold(true).Underline(true)
	passStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("83"))
	failStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	setupLineStyle = lipgloss.NewStyle().Faint(true)
)

// CliDisplayer drains a stream of tester.OutputToken and prints each one to
// w: markers as underlined section headers, assertions as pass/fail lines,
// setup notes only when Verbose is set, and run tokens as a one-line
// instruction count (followed by a full spew dump of every LogLine when
// Verbose).
type CliDisplayer struct {
	Out     io.Writer
	Verbose bool
}

// Drain reads tokens off in until it closes, printing each as it arrives.
func (d CliDisplayer) Drain(in <-chan tester.OutputToken) {
	for tok := range in {
		d.Print(tok)
	}
}

// Print renders a single token to Out.
func (d CliDisplayer) Print(tok tester.OutputToken) {
	switch tok.Kind {
	case tester.TokenMarker:
		fmt.Fprintln(d.Out, markerStyle.Render("=== "+tok.Description+" ==="))
	case tester.TokenSetup:
		if !d.Verbose {
			return
		}
		for _, note := range tok.Setup {
			fmt.Fprintln(d.Out, setupLineStyle.Render(note))
		}
	case tester.TokenAssertion:
		style, mark := passStyle, "ok"
		if !tok.Success {
			style, mark = failStyle, "FAILED"
		}
		fmt.Fprintln(d.Out, style.Render(fmt.Sprintf("[%s] %s", mark, tok.Description)))
	case tester.TokenRun:
		fmt.Fprintf(d.Out, "ran %d instruction(s)\n", len(tok.LogLines))
		if d.Verbose {
			spew.Fdump(d.Out, tok.LogLines)
		}
	}
}
