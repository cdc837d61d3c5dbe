// Package mem implements the 65C02's 16-bit address space: the
// AddressableIO contract any memory-mapped subsystem must satisfy, the
// concrete RAM and ROM subsystems, and the MemoryStack that overlays them
// into a single flat bus.
package mem

// MaxAddress is the highest addressable byte (64 KiB address space).
const MaxAddress = 0xFFFF

// AddressableIO is the contract for anything mappable into the 65C02
// address space: RAM, ROM, or a memory-mapped device.
type AddressableIO interface {
	// Read returns len bytes starting at addr. addr and len are relative
	// to the subsystem's own address space, not the bus's.
	Read(addr uint32, len uint32) ([]byte, error)
	// Write stores data starting at addr, relative to the subsystem's own
	// address space.
	Write(addr uint32, data []byte) error
	// Size reports how many bytes this subsystem occupies.
	Size() uint32
}

// LittleEndian combines two bytes (low, high) into a 16-bit address, the
// 65C02's native byte order.
func LittleEndian(lo, hi byte) uint16 {
	return uint16(hi)<<8 | uint16(lo)
}

// LittleEndianBytes combines a little-endian byte slice into an address. Only
// the first two bytes are consulted.
func LittleEndianBytes(bytes []byte) uint16 {
	var lo, hi byte
	if len(bytes) > 0 {
		lo = bytes[0]
	}
	if len(bytes) > 1 {
		hi = bytes[1]
	}
	return LittleEndian(lo, hi)
}
