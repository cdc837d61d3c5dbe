package disasm

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"soft65c02/mem"
)

func TestDisassembleBasicSequence(t *testing.T) {
	m := mem.NewStackWithRAM()
	assert.NoError(t, m.Write(0x0800, []byte{0xA9, 0xC0, 0xAA, 0xE8, 0x69, 0x14, 0xDB}))

	lines, err := Disassemble(m, 0x0800, 0x0807)
	assert.NoError(t, err)
	assert.Len(t, lines, 5)
	assert.Equal(t, "LDA  #$C0", lines[0].Text)
	assert.Equal(t, "TAX", lines[1].Text)
	assert.Equal(t, "INX", lines[2].Text)
	assert.Equal(t, "ADC  #$14", lines[3].Text)
	assert.Equal(t, "STP", lines[4].Text)
}

func TestDisassemblerIsRestartable(t *testing.T) {
	m := mem.NewStackWithRAM()
	assert.NoError(t, m.Write(0x1000, []byte{0x4C, 0x00, 0x10})) // JMP $1000

	d := New(m, 0x1000)
	first, err := d.Next()
	assert.NoError(t, err)
	assert.Equal(t, "JMP  $1000", first.Text)

	d2 := New(m, 0x1000)
	second, err := d2.Next()
	assert.NoError(t, err)
	assert.Equal(t, first, second)
}
