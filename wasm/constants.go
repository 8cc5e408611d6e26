package wasm

// WebAssembly binary format magic number and version.
const (
	// Magic is the WebAssembly binary magic number ("\0asm" in little-endian).
	Magic uint32 = 0x6D736100

	// Version is the supported WebAssembly binary format version.
	Version uint32 = 0x01
)

// Section IDs define the binary identifiers for each module section.
// Sections must appear in increasing order by ID (except custom sections).
const (
	SectionCustom   byte = 0
	SectionType     byte = 1
	SectionImport   byte = 2
	SectionFunction byte = 3
	SectionTable    byte = 4
	SectionMemory   byte = 5
	SectionGlobal   byte = 6
	SectionExport   byte = 7
	SectionStart    byte = 8
	SectionElement  byte = 9
	SectionCode     byte = 10
	SectionData     byte = 11
)

// Import/Export descriptor kinds identify the type of imported or exported item.
const (
	KindFunc   byte = 0
	KindTable  byte = 1
	KindMemory byte = 2
	KindGlobal byte = 3
)

// Value type encodings as defined in the WebAssembly binary format.
const (
	ValI32 ValType = 0x7F
	ValI64 ValType = 0x7E
	ValF32 ValType = 0x7D
	ValF64 ValType = 0x7C
)

// FuncTypeByte prefixes every function type in the type section.
const FuncTypeByte byte = 0x60

// BlockTypeVoid is the empty block type.
const BlockTypeVoid byte = 0x40

// Limits flags.
const (
	LimitsNoMax  byte = 0x00
	LimitsHasMax byte = 0x01
)

// Control flow opcodes
const (
	OpUnreachable byte = 0x00
	OpNop         byte = 0x01
	OpBlock       byte = 0x02
	OpLoop        byte = 0x03
	OpIf          byte = 0x04
	OpElse        byte = 0x05
	OpEnd         byte = 0x0B
	OpBr          byte = 0x0C
	OpBrIf        byte = 0x0D
	OpReturn      byte = 0x0F
	OpCall        byte = 0x10
)

// Parametric opcodes
const (
	OpDrop   byte = 0x1A
	OpSelect byte = 0x1B
)

// Variable access opcodes
const (
	OpLocalGet  byte = 0x20
	OpLocalSet  byte = 0x21
	OpLocalTee  byte = 0x22
	OpGlobalGet byte = 0x23
	OpGlobalSet byte = 0x24
)

// Memory opcodes
const (
	OpI32Load    byte = 0x28
	OpI32Load8U  byte = 0x2D
	OpI32Store   byte = 0x36
	OpI32Store8  byte = 0x3A
	OpMemorySize byte = 0x3F
	OpMemoryGrow byte = 0x40
)

// Numeric opcodes (i32 subset)
const (
	OpI32Const byte = 0x41
	OpI32Eqz   byte = 0x45
	OpI32Eq    byte = 0x46
	OpI32Ne    byte = 0x47
	OpI32LtU   byte = 0x49
	OpI32GtU   byte = 0x4B
	OpI32LeU   byte = 0x4D
	OpI32GeU   byte = 0x4F
	OpI32Add   byte = 0x6A
	OpI32Sub   byte = 0x6B
	OpI32Mul   byte = 0x6C
	OpI32DivU  byte = 0x6E
	OpI32RemU  byte = 0x70
	OpI32And   byte = 0x71
	OpI32Or    byte = 0x72
	OpI32Xor   byte = 0x73
	OpI32Shl   byte = 0x74
	OpI32ShrU  byte = 0x76
)

// PageSize is the size of one linear memory page.
const PageSize = 65536
