package mem

// ROM is an immutable, arbitrary-length byte vector. Writes always fail.
type ROM struct {
	bytes []byte
}

// NewROM wraps the given data as a read-only subsystem. The slice is not
// copied; callers should not mutate it afterwards.
func NewROM(data []byte) *ROM {
	return &ROM{bytes: data}
}

func (r *ROM) Read(addr uint32, length uint32) ([]byte, error) {
	if uint64(addr)+uint64(length) > uint64(len(r.bytes)) {
		return nil, readOverflow(addr, length)
	}
	out := make([]byte, length)
	copy(out, r.bytes[addr:addr+length])
	return out, nil
}

func (r *ROM) Write(addr uint32, _ []byte) error {
	return otherErr(addr, "trying to write in a read-only memory")
}

func (r *ROM) Size() uint32 {
	return uint32(len(r.bytes))
}
