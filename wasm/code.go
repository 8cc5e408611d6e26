package wasm

// Code emits instructions for a function body or constant expression.
type Code struct {
	buf sink
}

// NewCode returns an empty instruction stream.
func NewCode() *Code {
	return &Code{}
}

// Bytes returns the encoded instructions.
func (c *Code) Bytes() []byte {
	return c.buf
}

// Op emits a bare opcode.
func (c *Code) Op(op byte) *Code {
	c.buf.put(op)
	return c
}

func (c *Code) opU32(op byte, v uint32) *Code {
	c.buf.put(op)
	c.buf.u32(v)
	return c
}

func (c *Code) memOp(op byte, alignExp, offset uint32) *Code {
	c.buf.put(op)
	c.buf.u32(alignExp)
	c.buf.u32(offset)
	return c
}

func (c *Code) End() *Code    { return c.Op(OpEnd) }
func (c *Code) Else() *Code   { return c.Op(OpElse) }
func (c *Code) Return() *Code { return c.Op(OpReturn) }
func (c *Code) Drop() *Code   { return c.Op(OpDrop) }

// Block opens a block with no result.
func (c *Code) Block() *Code {
	c.buf.put(OpBlock)
	c.buf.put(BlockTypeVoid)
	return c
}

// Loop opens a loop with no result.
func (c *Code) Loop() *Code {
	c.buf.put(OpLoop)
	c.buf.put(BlockTypeVoid)
	return c
}

// If opens an if with no result.
func (c *Code) If() *Code {
	c.buf.put(OpIf)
	c.buf.put(BlockTypeVoid)
	return c
}

func (c *Code) Br(depth uint32) *Code       { return c.opU32(OpBr, depth) }
func (c *Code) BrIf(depth uint32) *Code     { return c.opU32(OpBrIf, depth) }
func (c *Code) Call(idx uint32) *Code       { return c.opU32(OpCall, idx) }
func (c *Code) LocalGet(idx uint32) *Code   { return c.opU32(OpLocalGet, idx) }
func (c *Code) LocalSet(idx uint32) *Code   { return c.opU32(OpLocalSet, idx) }
func (c *Code) LocalTee(idx uint32) *Code   { return c.opU32(OpLocalTee, idx) }
func (c *Code) GlobalGet(idx uint32) *Code  { return c.opU32(OpGlobalGet, idx) }
func (c *Code) GlobalSet(idx uint32) *Code  { return c.opU32(OpGlobalSet, idx) }
func (c *Code) MemorySize() *Code           { return c.opU32(OpMemorySize, 0) }
func (c *Code) MemoryGrow() *Code           { return c.opU32(OpMemoryGrow, 0) }
func (c *Code) I32Load(offset uint32) *Code { return c.memOp(OpI32Load, 2, offset) }

func (c *Code) I32Load8U(offset uint32) *Code { return c.memOp(OpI32Load8U, 0, offset) }
func (c *Code) I32Store(offset uint32) *Code  { return c.memOp(OpI32Store, 2, offset) }
func (c *Code) I32Store8(offset uint32) *Code { return c.memOp(OpI32Store8, 0, offset) }

// I32Const pushes v.
func (c *Code) I32Const(v int32) *Code {
	c.buf.put(OpI32Const)
	c.buf.s32(v)
	return c
}

func (c *Code) I32Eqz() *Code  { return c.Op(OpI32Eqz) }
func (c *Code) I32Eq() *Code   { return c.Op(OpI32Eq) }
func (c *Code) I32Ne() *Code   { return c.Op(OpI32Ne) }
func (c *Code) I32LtU() *Code  { return c.Op(OpI32LtU) }
func (c *Code) I32GtU() *Code  { return c.Op(OpI32GtU) }
func (c *Code) I32LeU() *Code  { return c.Op(OpI32LeU) }
func (c *Code) I32GeU() *Code  { return c.Op(OpI32GeU) }
func (c *Code) I32Add() *Code  { return c.Op(OpI32Add) }
func (c *Code) I32Sub() *Code  { return c.Op(OpI32Sub) }
func (c *Code) I32Mul() *Code  { return c.Op(OpI32Mul) }
func (c *Code) I32DivU() *Code { return c.Op(OpI32DivU) }
func (c *Code) I32RemU() *Code { return c.Op(OpI32RemU) }
func (c *Code) I32And() *Code  { return c.Op(OpI32And) }
func (c *Code) I32Or() *Code   { return c.Op(OpI32Or) }
func (c *Code) I32Xor() *Code  { return c.Op(OpI32Xor) }
func (c *Code) I32Shl() *Code  { return c.Op(OpI32Shl) }
func (c *Code) I32ShrU() *Code { return c.Op(OpI32ShrU) }
