package formats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mirrors original_source's create_simple_binary() fixture: one data block
// at $1000 followed by a run-address block pointing at $1001.
func simpleAtariBinary() []byte {
	return []byte{
		0xff, 0xff,
		0x00, 0x10, 0x04, 0x10,
		0x01, 0x01, 0x01, 0x01, 0x01,
		0xe0, 0x02, 0xe1, 0x02,
		0x01, 0x10,
	}
}

// mirrors create_complex_binary(): data, init, data, run.
func complexAtariBinary() []byte {
	return []byte{
		0xff, 0xff,
		0x00, 0x10, 0x04, 0x10,
		0x01, 0x01, 0x01, 0x01, 0x01,
		0xe2, 0x02, 0xe3, 0x02,
		0x01, 0x10,
		0x00, 0x20, 0x04, 0x20,
		0x02, 0x02, 0x02, 0x02, 0x02,
		0xe0, 0x02, 0xe1, 0x02,
		0x02, 0x20,
	}
}

func TestParseAtariBinarySimple(t *testing.T) {
	img, err := ParseAtariBinary(simpleAtariBinary())
	require.NoError(t, err)

	require.Len(t, img.Segments, 1)
	assert.Equal(t, uint16(0x1000), img.Segments[0].Address)
	assert.Equal(t, []byte{0x01, 0x01, 0x01, 0x01, 0x01}, img.Segments[0].Bytes)

	require.NotNil(t, img.RunAddr)
	assert.Equal(t, uint16(0x1001), *img.RunAddr)
	assert.Nil(t, img.InitAddr)
}

func TestParseAtariBinaryComplex(t *testing.T) {
	img, err := ParseAtariBinary(complexAtariBinary())
	require.NoError(t, err)

	require.Len(t, img.Segments, 2)
	assert.Equal(t, uint16(0x1000), img.Segments[0].Address)
	assert.Equal(t, []byte{0x01, 0x01, 0x01, 0x01, 0x01}, img.Segments[0].Bytes)
	assert.Equal(t, uint16(0x2000), img.Segments[1].Address)
	assert.Equal(t, []byte{0x02, 0x02, 0x02, 0x02, 0x02}, img.Segments[1].Bytes)

	require.NotNil(t, img.InitAddr)
	assert.Equal(t, uint16(0x1001), *img.InitAddr)
	require.NotNil(t, img.RunAddr)
	assert.Equal(t, uint16(0x2002), *img.RunAddr)
}

func TestParseAtariBinaryInvalidHeader(t *testing.T) {
	b := simpleAtariBinary()
	b[0] = 0x00
	_, err := ParseAtariBinary(b)
	assert.Error(t, err)
}

func TestParseAtariBinaryRunMustBeFinalBlock(t *testing.T) {
	b := append(append([]byte{}, simpleAtariBinary()...), 0x00)
	_, err := ParseAtariBinary(b)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "final block")
}
