// Package display renders a running emulation to the terminal: a styled
// scrolling log of executed instructions for non-interactive runs, and an
// optional interactive monitor for stepping through one already-recorded.
package display

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/davecgh/go-spew/spew"

	"soft65c02/cpu"
)

var (
	pcStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	faultStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	headerStyle = lipgloss.NewStyle().Faint(true)
)

// monitor is the interactive `run` viewer: space/j steps forward through a
// recorded Run token's LogLines one instruction at a time, k/b steps back,
// redrawing the register file and a window of memory around that
// instruction's fetch address.
type monitor struct {
	mem   memReader
	lines []cpu.LogLine
	idx   int
}

// memReader is the slice of *mem.MemoryStack the monitor needs to render a
// page of bytes around the current instruction; kept as an interface so the
// monitor can be driven by anything the DSL's memory subsystem backs.
type memReader interface {
	Read(addr uint32, length uint32) ([]byte, error)
}

// NewMonitor builds a bubbletea program that steps through lines, one
// instruction at a time, reading surrounding memory from m as it goes.
func NewMonitor(m memReader, lines []cpu.LogLine) *tea.Program {
	return tea.NewProgram(monitor{mem: m, lines: lines})
}

func (m monitor) Init() tea.Cmd { return nil }

func (m monitor) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch keyMsg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case " ", "j":
		if m.idx < len(m.lines)-1 {
			m.idx++
		}
	case "k", "b":
		if m.idx > 0 {
			m.idx--
		}
	}
	return m, nil
}

func (m monitor) current() (cpu.LogLine, bool) {
	if m.idx < 0 || m.idx >= len(m.lines) {
		return cpu.LogLine{}, false
	}
	return m.lines[m.idx], true
}

func (m monitor) renderPage(start uint16, mark uint16) string {
	s := fmt.Sprintf("%04x | ", start)
	bytes, err := m.mem.Read(uint32(start), 16)
	if err != nil {
		return s + "????????????????????"
	}
	for i, b := range bytes {
		cell := fmt.Sprintf(" %02x ", b)
		if start+uint16(i) == mark {
			cell = pcStyle.Render(fmt.Sprintf("[%02x]", b))
		}
		s += cell
	}
	return s
}

func (m monitor) pageTable(around uint16) string {
	lines := []string{headerStyle.Render("addr |  0  1  2  3  4  5  6  7  8  9  a  b  c  d  e  f")}
	base := around &^ 0x000F
	for p := -2; p <= 2; p++ {
		start := int(base) + p*16
		if start < 0 || start > 0xFFF0 {
			continue
		}
		lines = append(lines, m.renderPage(uint16(start), around))
	}
	return strings.Join(lines, "\n")
}

func (m monitor) status(line cpu.LogLine) string {
	r := line.RegistersAfter
	flags := ""
	for _, f := range []bool{r.Negative(), r.Overflow(), true, r.Break(), r.Decimal(), r.Interrupt(), r.Zero(), r.Carry()} {
		if f {
			flags += "1 "
		} else {
			flags += "0 "
		}
	}
	return fmt.Sprintf("step %d/%d\nCP: 0x%04X\nA:  0x%02X\nX:  0x%02X\nY:  0x%02X\nSP: 0x%02X\ncycles: %d\nN V U B D I Z C\n%s",
		m.idx+1, len(m.lines), line.FetchCP, r.A, r.X, r.Y, r.SP, r.CycleCount, flags)
}

func (m monitor) View() string {
	line, ok := m.current()
	if !ok {
		return faultStyle.Render("no instructions were recorded for this run")
	}
	footer := fmt.Sprintf("%s %s", line.Mnemonic, spew.Sdump(line.Resolved))
	return lipgloss.JoinVertical(
		lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, m.pageTable(line.FetchCP), "   ", m.status(line)),
		"",
		footer,
	)
}
