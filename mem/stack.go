package mem

import (
	"fmt"
	"sort"
)

// subsystem wraps an AddressableIO with the bookkeeping MemoryStack needs:
// its base address, name (for debugging / Info), and size.
type subsystem struct {
	name    string
	start   uint32
	end     uint32 // half-open: [start, end)
	backing AddressableIO
}

func (s *subsystem) contains(addr uint32) bool {
	return addr >= s.start && addr < s.end
}

func (s *subsystem) String() string {
	return fmt.Sprintf("Subsystem %-12s, address range=#0x%04X -> #0x%04X, size = %d bytes",
		s.name, s.start, s.end-1, s.backing.Size())
}

// boundary is one entry of the derived routing map: every address strictly
// below "at" (and at or above the previous boundary) is routed to
// subsystems[index].
type boundary struct {
	at    uint32
	index int
}

// MemoryStack layers subsystems (RAM, ROM, devices) into a single 16-bit
// bus. Later insertions mask earlier ones wherever their ranges overlap;
// routing is recomputed on every AddSubsystem call.
//
// This mirrors soft65c02's memory_stack: an ordered list of subsystems plus
// a derived address -> subsystem-index map, split-read/split-write across
// subsystem boundaries.
type MemoryStack struct {
	subsystems []*subsystem
	boundaries []boundary // sorted ascending by "at"
}

// NewStack returns an empty MemoryStack with nothing mapped.
func NewStack() *MemoryStack {
	return &MemoryStack{}
}

// NewStackWithRAM returns a MemoryStack preloaded with a 64 KiB RAM at
// 0x0000, so unmapped regions are the exception rather than the rule.
func NewStackWithRAM() *MemoryStack {
	m := NewStack()
	m.AddSubsystem("RAM", 0x0000, NewRAM(MaxAddress+1))
	return m
}

// AddSubsystem maps backing at [start, start+backing.Size()) into the bus.
// Insertion order is priority: a later AddSubsystem call wins over an
// earlier one wherever their ranges overlap. Re-adding a subsystem over the
// same range is allowed; the newest one wins on future accesses.
func (m *MemoryStack) AddSubsystem(name string, start uint32, backing AddressableIO) {
	sub := &subsystem{name: name, start: start, end: start + backing.Size(), backing: backing}
	index := len(m.subsystems)
	m.subsystems = append(m.subsystems, sub)

	// Apply the old boundaries first, then the new subsystem's own
	// boundaries on top: a shared "at" (e.g. the new end coinciding with an
	// old boundary) must resolve to the new subsystem, not the old one.
	next := make(map[uint32]int, len(m.boundaries)+2)
	for _, b := range m.boundaries {
		if !sub.contains(b.at) {
			next[b.at] = b.index
		}
	}

	if start != 0 {
		// Find the subsystem (if any) that owned the byte immediately
		// before this one's start, so reads/writes just below the new
		// range still route correctly.
		for i := len(m.subsystems) - 2; i >= 0; i-- {
			if m.subsystems[i].contains(start - 1) {
				next[start] = i
				break
			}
		}
	}
	next[sub.end] = index

	boundaries := make([]boundary, 0, len(next))
	for at, idx := range next {
		boundaries = append(boundaries, boundary{at: at, index: idx})
	}
	sort.Slice(boundaries, func(i, j int) bool { return boundaries[i].at < boundaries[j].at })
	m.boundaries = boundaries
}

// Info lists all mapped subsystems in insertion order, formatted for
// debugging/display.
func (m *MemoryStack) Info() []string {
	out := make([]string, 0, len(m.subsystems))
	for i, s := range m.subsystems {
		out = append(out, fmt.Sprintf("#%d: %s", i, s))
	}
	return out
}

// Read walks the routing map, splitting the requested range across
// subsystem boundaries and concatenating the results in address order. An
// address with no owning subsystem fails with Other; a range extending past
// the last boundary fails with ReadOverflow.
func (m *MemoryStack) Read(addr uint32, length uint32) ([]byte, error) {
	results := make([]byte, 0, length)
	remaining := length
	cur := addr

	for _, b := range m.boundaries {
		if b.at <= cur {
			continue
		}
		sub := m.subsystems[b.index]
		if sub.start > cur {
			return nil, otherErr(cur, "reading unallocated memory")
		}
		chunk := b.at - cur
		if chunk > remaining {
			chunk = remaining
		}
		bytes, err := sub.backing.Read(cur-sub.start, chunk)
		if err != nil {
			return nil, err
		}
		results = append(results, bytes...)
		remaining -= chunk
		cur += chunk
		if remaining == 0 {
			break
		}
	}

	if remaining > 0 {
		return nil, readOverflow(cur, remaining)
	}
	return results, nil
}

// Write splits data across subsystem boundaries and writes each segment to
// its owning subsystem. A write that fails partway (e.g. the segment lands
// in ROM) leaves any preceding segment's effect in place: callers needing
// atomicity must range-check before writing.
func (m *MemoryStack) Write(addr uint32, data []byte) error {
	remaining := uint32(len(data))
	cur := addr
	offset := uint32(0)

	for _, b := range m.boundaries {
		if b.at <= cur {
			continue
		}
		sub := m.subsystems[b.index]
		if sub.start > cur {
			return otherErr(cur, "writing unallocated memory")
		}
		chunk := b.at - cur
		if chunk > remaining {
			chunk = remaining
		}
		if err := sub.backing.Write(cur-sub.start, data[offset:offset+chunk]); err != nil {
			return err
		}
		offset += chunk
		remaining -= chunk
		cur += chunk
		if remaining == 0 {
			break
		}
	}

	if remaining > 0 {
		return writeOverflow(cur, remaining)
	}
	return nil
}

// Size reports the full 16-bit address space, regardless of how much of it
// is actually mapped.
func (m *MemoryStack) Size() uint32 {
	return MaxAddress + 1
}
