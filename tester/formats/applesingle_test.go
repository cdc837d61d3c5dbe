package formats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mirrors original_source's create_simple_apple_single() fixture: a data
// fork entry (5 bytes) plus a ProDOS info entry whose auxiliary_type's low
// 16 bits (0x1234) become the load address.
func simpleAppleSingle() []byte {
	b := []byte{}
	b = append(b, 0x00, 0x05, 0x16, 0x00) // magic
	b = append(b, 0x00, 0x02, 0x00, 0x00) // version
	b = append(b, make([]byte, 16)...)    // filler
	b = append(b, 0x00, 0x02)             // 2 entries

	b = append(b, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x32, 0x00, 0x00, 0x00, 0x05) // data fork: id 1, offset 50, len 5
	b = append(b, 0x00, 0x00, 0x00, 0x0B, 0x00, 0x00, 0x00, 0x37, 0x00, 0x00, 0x00, 0x08) // ProDOS info: id 11, offset 55, len 8

	b = append(b, 0x01, 0x02, 0x03, 0x04, 0x05) // data fork content

	b = append(b, 0x00, 0xC3, 0x00, 0xFF, 0x00, 0x00, 0x12, 0x34) // access, file type, auxiliary type

	return b
}

func TestParseAppleSingleDataForkAndLoadAddress(t *testing.T) {
	img, err := ParseAppleSingle(simpleAppleSingle())
	require.NoError(t, err)
	assert.Equal(t, []byte{0x01, 0x02, 0x03, 0x04, 0x05}, img.Data)
	assert.Equal(t, uint16(0x1234), img.LoadAddress)
}

func TestParseAppleSingleInvalidMagicNumber(t *testing.T) {
	b := simpleAppleSingle()
	b[0] = 0xFF
	_, err := ParseAppleSingle(b)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid magic number")
}

func TestParseAppleSingleUnsupportedEntryID(t *testing.T) {
	b := simpleAppleSingle()
	// entry 1's id field lives right after the 26-byte header.
	b[26], b[27], b[28], b[29] = 0x00, 0x00, 0x00, 0x02
	_, err := ParseAppleSingle(b)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported entry type")
}

func TestParseAppleSingleTruncatedHeader(t *testing.T) {
	_, err := ParseAppleSingle([]byte{0x00, 0x05, 0x16, 0x00})
	require.Error(t, err)
}
