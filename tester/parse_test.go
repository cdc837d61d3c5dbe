package tester

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBlankAndCommentLinesAreNil(t *testing.T) {
	for _, line := range []string{"", "   ", "// a comment", "; also a comment"} {
		cmd, err := Parse(line, NewSymbolTable())
		assert.NoError(t, err)
		assert.Nil(t, cmd)
	}
}

func TestParseMarker(t *testing.T) {
	cmd, err := Parse("marker $$first thing$$", NewSymbolTable())
	require.NoError(t, err)
	require.IsType(t, Marker{}, cmd)
	assert.Equal(t, "first thing", cmd.(Marker).Text)
}

func TestParseMemoryWriteByteList(t *testing.T) {
	cmd, err := Parse("memory write #0x0800 0x(a9,c0)", NewSymbolTable())
	require.NoError(t, err)
	w := cmd.(MemoryWrite)
	assert.Equal(t, uint16(0x0800), w.Addr)
	assert.Equal(t, []byte{0xa9, 0xc0}, w.Bytes)
}

func TestParseMemoryWriteStringLiteral(t *testing.T) {
	cmd, err := Parse(`memory write #0x1000 "hi\n"`, NewSymbolTable())
	require.NoError(t, err)
	w := cmd.(MemoryWrite)
	assert.Equal(t, []byte("hi\n"), w.Bytes)
}

func TestParseAssertSimpleComparisonGluedOperator(t *testing.T) {
	cmd, err := Parse("assert A=0xc0 $$accumulator is loaded$$", NewSymbolTable())
	require.NoError(t, err)
	a := cmd.(Assert)
	assert.Equal(t, "accumulator is loaded", a.Description)
	cmp := a.Condition.(Compare)
	assert.Equal(t, RegisterSource(SourceAccumulator), cmp.Left)
	assert.Equal(t, OpEqual, cmp.Op)
	assert.Equal(t, ValueSource(0xc0), cmp.Right)
}

func TestParseAssertSpacedComparison(t *testing.T) {
	cmd, err := Parse("assert X = 0x05 $$x is five$$", NewSymbolTable())
	require.NoError(t, err)
	a := cmd.(Assert)
	cmp := a.Condition.(Compare)
	assert.Equal(t, RegisterSource(SourceRegisterX), cmp.Left)
	assert.Equal(t, ValueSource(0x05), cmp.Right)
}

func TestParseAssertAndOr(t *testing.T) {
	cmd, err := Parse("assert A=0x00 AND X=0x00 $$both zero$$", NewSymbolTable())
	require.NoError(t, err)
	a := cmd.(Assert)
	assert.IsType(t, And{}, a.Condition)
}

func TestParseAssertNotWithParens(t *testing.T) {
	cmd, err := Parse("assert NOT (A=0x00) $$a is not zero$$", NewSymbolTable())
	require.NoError(t, err)
	a := cmd.(Assert)
	assert.IsType(t, Not{}, a.Condition)
}

func TestParseRunWithUntil(t *testing.T) {
	cmd, err := Parse("run #0x0800 until CP=0x0810", NewSymbolTable())
	require.NoError(t, err)
	r := cmd.(Run)
	require.NotNil(t, r.Start)
	assert.Equal(t, uint16(0x0800), r.Start.Addr)
	require.NotNil(t, r.StopWhen)
}

func TestParseRunInit(t *testing.T) {
	cmd, err := Parse("run init", NewSymbolTable())
	require.NoError(t, err)
	r := cmd.(Run)
	require.NotNil(t, r.Start)
	assert.True(t, r.Start.FromVector)
}

func TestParseSymbolsAddAndLookup(t *testing.T) {
	symbols := NewSymbolTable()
	cmd, err := Parse("symbols add ptr=0x1000", symbols)
	require.NoError(t, err)
	_, err = cmd.Execute(&ExecutionRound{Registers: nil, Memory: nil, Symbols: symbols})
	require.NoError(t, err)
	addr, ok := symbols.Lookup("ptr")
	assert.True(t, ok)
	assert.Equal(t, uint16(0x1000), addr)
}

// S6 -- pointer assertion with wrap: $ptr -> $near_end + 0x30
func TestParsePointerAssertionWithWrap(t *testing.T) {
	symbols := NewSymbolTable()
	symbols.Add("ptr", 0x1000)
	symbols.Add("near_end", 0xFFE0)

	cmd, err := Parse("assert $ptr -> $near_end + 0x30 $$pointer matches$$", symbols)
	require.NoError(t, err)
	a := cmd.(Assert)

	round := NewExecutionRound()
	require.NoError(t, round.Memory.Write(0x1000, []byte{0x10, 0x00}))
	assert.True(t, a.Condition.Eval(round.Registers, round.Memory))
}

func TestParseRegistersSetRejectsOversizedByte(t *testing.T) {
	_, err := Parse("registers set A=0x100", NewSymbolTable())
	assert.Error(t, err)
}

func TestParseRegistersSetCP(t *testing.T) {
	cmd, err := Parse("registers set CP=0x1234", NewSymbolTable())
	require.NoError(t, err)
	s := cmd.(RegistersSet)
	assert.Equal(t, RegCP, s.Register)
	assert.Equal(t, uint64(0x1234), s.Value)
}

func TestParseMemorySequence(t *testing.T) {
	symbols := NewSymbolTable()
	cmd, err := Parse(`assert #0x2000 ~ 0x(01,02,03) $$header matches$$`, symbols)
	require.NoError(t, err)
	a := cmd.(Assert)
	round := NewExecutionRound()
	require.NoError(t, round.Memory.Write(0x2000, []byte{1, 2, 3}))
	assert.True(t, a.Condition.Eval(round.Registers, round.Memory))
}
