package fat12

// Special FAT12 entry values.
const (
	FreeCluster uint16 = 0x000
	MaxCluster  uint16 = 0xFF0 // highest value that still links to a cluster
	BadCluster  uint16 = 0xFF7
	EndOfChain  uint16 = 0xFF8 // value written to terminate a chain

	entryMask uint16 = 0x0FFF
)

// IsLink reports whether v points at another cluster of the same chain.
func IsLink(v uint16) bool {
	return v > FreeCluster && v <= MaxCluster
}

// Packed12 is a view over raw FAT bytes that stores 12-bit entries two per
// three bytes. Index i lives at byte i*3/2.
type Packed12 []byte

// Len returns the number of entries the slice can hold.
func (p Packed12) Len() int {
	return len(p) * 2 / 3
}

// entryOffset returns the offset of the two bytes holding entry i.
func entryOffset(i int) int {
	return i * 3 / 2
}

func unpack(i int, b0, b1 byte) uint16 {
	if i%2 == 0 {
		return uint16(b0) | uint16(b1&0x0F)<<8
	}
	return uint16(b0>>4) | uint16(b1)<<4
}

// pack merges v into the two bytes of entry i, keeping the nibble owned by
// the neighbouring entry.
func pack(i int, b0, b1 byte, v uint16) (byte, byte) {
	v &= entryMask
	if i%2 == 0 {
		return byte(v), b1&0xF0 | byte(v>>8)
	}
	return b0&0x0F | byte(v<<4), byte(v >> 4)
}

func (p Packed12) Get(i int) uint16 {
	off := entryOffset(i)
	return unpack(i, p[off], p[off+1])
}

func (p Packed12) Put(i int, v uint16) {
	off := entryOffset(i)
	p[off], p[off+1] = pack(i, p[off], p[off+1], v)
}
