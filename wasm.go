package wasmdoom

// Memory represents guest linear memory
type Memory interface {
	// Read returns a view of guest memory. The slice aliases linear memory and
	// is only valid until the guest grows its memory or the next call into it.
	Read(offset uint32, length uint32) ([]byte, error)
	Write(offset uint32, data []byte) error
	ReadU8(offset uint32) (uint8, error)
	ReadU32(offset uint32) (uint32, error)
	WriteU8(offset uint32, value uint8) error
	WriteU32(offset uint32, value uint32) error
}

// MemorySizer provides the current size of guest linear memory in bytes.
type MemorySizer interface {
	Size() uint32
}

// Allocator allocates memory in guest linear memory.
// Allocations made through it are owned by the guest heap.
type Allocator interface {
	Alloc(size, align uint32) (uint32, error)
}
