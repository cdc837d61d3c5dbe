package mem

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddSubsystemOverlayWinsOnOverlap(t *testing.T) {
	m := NewStackWithRAM()

	rom := make([]byte, 0x4000)
	rom[0] = 0xAE
	rom[1] = 0xAE
	m.AddSubsystem("ROM", 0xC000, NewROM(rom))

	got, err := m.Read(0xBFFE, 4)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00, 0x00, 0xAE, 0xAE}, got)
}

func TestAddSubsystemOverlayCoversFullNewRange(t *testing.T) {
	m := NewStackWithRAM()

	rom := make([]byte, 0x4000)
	for i := range rom {
		rom[i] = 0xFF
	}
	m.AddSubsystem("ROM", 0xC000, NewROM(rom))

	got, err := m.Read(0xC000, 0x4000)
	require.NoError(t, err)
	for _, b := range got {
		assert.Equal(t, byte(0xFF), b)
	}

	// Outside the overlay, routing falls back to RAM.
	got, err = m.Read(0x0000, 1)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00}, got)
}

func TestAddSubsystemReaddingSameRangeNewestWins(t *testing.T) {
	m := NewStackWithRAM()
	m.AddSubsystem("ROM1", 0xC000, NewROM([]byte{0x11, 0x11}))
	m.AddSubsystem("ROM2", 0xC000, NewROM([]byte{0x22, 0x22}))

	got, err := m.Read(0xC000, 2)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x22, 0x22}, got)
}

func TestReadSpansSubsystemBoundary(t *testing.T) {
	m := NewStack()
	m.AddSubsystem("LOW", 0x0000, NewRAM(0x10))
	m.AddSubsystem("HIGH", 0x0010, NewRAM(0x10))

	require.NoError(t, m.Write(0x000E, []byte{0xAA, 0xBB, 0xCC, 0xDD}))

	got, err := m.Read(0x000E, 4)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xAA, 0xBB, 0xCC, 0xDD}, got)
}

func TestWriteSpansSubsystemBoundary(t *testing.T) {
	m := NewStack()
	m.AddSubsystem("LOW", 0x0000, NewRAM(0x10))
	m.AddSubsystem("HIGH", 0x0010, NewRAM(0x10))

	require.NoError(t, m.Write(0x000C, []byte{1, 2, 3, 4, 5, 6}))

	low, err := m.Read(0x000C, 4)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3, 4}, low)

	high, err := m.Read(0x0010, 2)
	require.NoError(t, err)
	assert.Equal(t, []byte{5, 6}, high)
}

func TestReadUnmappedGapFailsCleanly(t *testing.T) {
	m := NewStack()
	m.AddSubsystem("HIGH", 0x0010, NewRAM(0x10))

	_, err := m.Read(0x0000, 1)
	require.Error(t, err)
	var merr *Error
	require.ErrorAs(t, err, &merr)
	assert.Equal(t, Other, merr.Kind)
}

func TestWriteUnmappedGapFailsCleanly(t *testing.T) {
	m := NewStack()
	m.AddSubsystem("HIGH", 0x0010, NewRAM(0x10))

	err := m.Write(0x0000, []byte{0x01})
	require.Error(t, err)
	var merr *Error
	require.ErrorAs(t, err, &merr)
	assert.Equal(t, Other, merr.Kind)
}

func TestReadPastMappedMemoryOverflows(t *testing.T) {
	m := NewStack()
	m.AddSubsystem("LOW", 0x0000, NewRAM(0x10))

	_, err := m.Read(0x000E, 4)
	require.Error(t, err)
	var merr *Error
	require.ErrorAs(t, err, &merr)
	assert.Equal(t, ReadOverflow, merr.Kind)
}

func TestWriteToROMFails(t *testing.T) {
	m := NewStackWithRAM()
	m.AddSubsystem("ROM", 0xC000, NewROM(make([]byte, 0x4000)))

	err := m.Write(0xC000, []byte{0x01})
	require.Error(t, err)
	var merr *Error
	require.ErrorAs(t, err, &merr)
	assert.Equal(t, Other, merr.Kind)
}
