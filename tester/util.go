package tester

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
)

func readFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

func bytesReader(b []byte) io.Reader {
	return bytes.NewReader(b)
}

// formatHexDump renders data as rows of width bytes, each row showing the
// starting address, the hex bytes (space-padded to a full row), and the
// printable-ASCII column.
func formatHexDump(addr uint16, data []byte, width int) string {
	var out strings.Builder
	for start := 0; start < len(data); start += width {
		end := start + width
		if end > len(data) {
			end = len(data)
		}
		chunk := data[start:end]

		fmt.Fprintf(&out, "%04X : ", int(addr)+start)
		for _, b := range chunk {
			fmt.Fprintf(&out, "%02X ", b)
		}
		for i := len(chunk); i < width; i++ {
			out.WriteString("   ")
		}
		out.WriteString("| ")
		for _, b := range chunk {
			if b >= 0x20 && b <= 0x7E {
				out.WriteByte(b)
			} else {
				out.WriteByte('.')
			}
		}
		if end < len(data) {
			out.WriteByte('\n')
		}
	}
	return out.String()
}
