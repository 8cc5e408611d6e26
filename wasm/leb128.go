package wasm

import (
	"errors"
	"io"
)

// ErrOverflow reports a varint that does not fit in 32 bits.
var ErrOverflow = errors.New("leb128: overflow")

// maxVarint32 is the longest legal encoding of a 32-bit varint.
const maxVarint32 = 5

// AppendUvarint appends v as unsigned LEB128.
func AppendUvarint(dst []byte, v uint32) []byte {
	for v >= 0x80 {
		dst = append(dst, byte(v)|0x80)
		v >>= 7
	}
	return append(dst, byte(v))
}

// AppendVarint appends v as signed LEB128.
func AppendVarint(dst []byte, v int32) []byte {
	for {
		b := byte(v) & 0x7f
		v >>= 7
		done := (v == 0 && b&0x40 == 0) || (v == -1 && b&0x40 != 0)
		if done {
			return append(dst, b)
		}
		dst = append(dst, b|0x80)
	}
}

// Uvarint decodes an unsigned LEB128 value.
func Uvarint(r io.ByteReader) (uint32, error) {
	var v uint32
	for i := 0; i < maxVarint32; i++ {
		b, err := r.ReadByte()
		if err != nil {
			return 0, err
		}
		v |= uint32(b&0x7f) << (7 * i)
		if b < 0x80 {
			return v, nil
		}
	}
	return 0, ErrOverflow
}

// Varint decodes a signed LEB128 value.
func Varint(r io.ByteReader) (int32, error) {
	var v int32
	for i := 0; i < maxVarint32; i++ {
		b, err := r.ReadByte()
		if err != nil {
			return 0, err
		}
		shift := uint(7 * (i + 1))
		v |= int32(b&0x7f) << (7 * i)
		if b < 0x80 {
			if shift < 32 && b&0x40 != 0 {
				v |= -1 << shift
			}
			return v, nil
		}
	}
	return 0, ErrOverflow
}

// sink accumulates encoded bytes for a section or body.
type sink []byte

func (s *sink) put(b byte)     { *s = append(*s, b) }
func (s *sink) raw(p []byte)   { *s = append(*s, p...) }
func (s *sink) u32(v uint32)   { *s = AppendUvarint(*s, v) }
func (s *sink) s32(v int32)    { *s = AppendVarint(*s, v) }
func (s *sink) name(n string)  { s.u32(uint32(len(n))); *s = append(*s, n...) }
func (s *sink) vec(n int)      { s.u32(uint32(n)) }
func (s *sink) sized(p []byte) { s.u32(uint32(len(p))); s.raw(p) }
func (s *sink) flag(set bool)  { s.put(boolByte(set)) }
func (s *sink) le32(v uint32)  { *s = append(*s, byte(v), byte(v>>8), byte(v>>16), byte(v>>24)) }
func (s *sink) section(id byte, body sink) {
	s.put(id)
	s.sized(body)
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}
