package tester

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runScript(t *testing.T, script string) []OutputToken {
	t.Helper()
	tokens := make(chan OutputToken, 64)
	executor := NewExecutor(DefaultExecutorConfiguration())
	err := executor.Run(strings.NewReader(script), tokens)
	close(tokens)
	require.NoError(t, err)
	var out []OutputToken
	for tok := range tokens {
		out = append(out, tok)
	}
	return out
}

func TestExecutorLoadAccumulatorAndAssert(t *testing.T) {
	tokens := runScript(t, strings.Join([]string{
		`marker $$load accumulator$$`,
		`memory write #0x0800 0x(a9,c0)`,
		`run #0x0800`,
		`assert A=0xc0 $$accumulator is loaded$$`,
	}, "\n"))

	require.Len(t, tokens, 4)
	assert.Equal(t, TokenMarker, tokens[0].Kind)
	assert.Equal(t, TokenSetup, tokens[1].Kind)
	assert.Equal(t, TokenRun, tokens[2].Kind)
	assert.Equal(t, TokenAssertion, tokens[3].Kind)
	assert.True(t, tokens[3].Success)
}

func TestExecutorMarkerResetsRoundButKeepsSymbols(t *testing.T) {
	tokens := runScript(t, strings.Join([]string{
		`symbols add entry=0x0800`,
		`marker $$first$$`,
		`memory write $entry 0x(a9,c0)`,
		`run $entry`,
		`assert A=0xc0 $$loaded$$`,
		`marker $$second$$`,
		`assert A=0x00 $$fresh round has A=0$$`,
	}, "\n"))

	require.Len(t, tokens, 7)
	assert.True(t, tokens[4].Success) // loaded, against the first round
	assert.True(t, tokens[6].Success) // after the second marker, A is reset to 0
}

// S2 -- BRK vector: BRK at 0x0800, IRQ/BRK vector at 0xFFFE points to 0x8000
// (RTI). BRK jumps to 0x8000 and RTI returns to CP=0x0802 (BRK pushes CP+2).
func TestExecutorBRKThenRTI(t *testing.T) {
	tokens := runScript(t, strings.Join([]string{
		`memory write #0x0800 0x(00)`,      // BRK
		`memory write #0xfffe 0x(00,80)`,   // vector -> 0x8000
		`memory write #0x8000 0x(40)`,      // RTI
		`registers set CP=0x0800`,
		`run #0x0800 until CP=0x0802`,
		`assert CP=0x0802 $$returned past BRK$$`,
	}, "\n"))

	last := tokens[len(tokens)-1]
	assert.Equal(t, TokenAssertion, last.Kind)
	assert.True(t, last.Success)
}

func TestExecutorSelfLoopHalts(t *testing.T) {
	tokens := runScript(t, strings.Join([]string{
		`memory write #0x1000 0x(80,fe)`, // BRA $1000 (branch to self)
		`run #0x1000`,
	}, "\n"))

	require.Len(t, tokens, 1)
	assert.Equal(t, TokenRun, tokens[0].Kind)
	assert.GreaterOrEqual(t, len(tokens[0].LogLines), 1)
}

func TestExecutorStopOnFailedAssertionHaltsPlan(t *testing.T) {
	tokens := make(chan OutputToken, 64)
	executor := NewExecutor(DefaultExecutorConfiguration())
	script := strings.Join([]string{
		`assert A=0x01 $$never true on a fresh round$$`,
		`assert A=0x00 $$would also run if plan hadn't stopped$$`,
	}, "\n")
	err := executor.Run(strings.NewReader(script), tokens)
	close(tokens)
	assert.Error(t, err)

	var out []OutputToken
	for tok := range tokens {
		out = append(out, tok)
	}
	require.Len(t, out, 1)
	assert.False(t, out[0].Success)
}
