package bridge

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	wasmdoom "github.com/wippyai/wasm-doom"
	"github.com/wippyai/wasm-doom/errors"
)

// ArgSource is the host's ordered argument list.
type ArgSource interface {
	Arg(i int) (string, error)
}

// Args is an ArgSource over a string slice.
type Args []string

// Arg returns item i.
func (a Args) Arg(i int) (string, error) {
	if i < 0 || i >= len(a) {
		return "", fmt.Errorf("index %d out of range (length %d)", i, len(a))
	}
	return a[i], nil
}

// Argv is a C-style argument vector laid out in engine memory.
type Argv struct {
	// Items holds the host-side text of every populated entry, in order.
	Items []string
	// Pointers holds the engine address of each NUL-terminated copy.
	Pointers []uint32
	// Ptr is the address of the pointer array, 0 for a null vector.
	Ptr uint32
}

// Count returns the number of populated entries.
func (a Argv) Count() int {
	return len(a.Pointers)
}

// MarshalArgs copies n items from src into engine memory and builds the
// pointer array the engine entry point expects, terminated by a null entry.
//
// An item that cannot be retrieved or copied is logged and skipped, so the
// vector may hold fewer than n entries. n <= 0 or a nil src yields a null
// vector. Only failure to place the pointer array itself is an error.
func MarshalArgs(mem wasmdoom.Memory, alloc wasmdoom.Allocator, n int, src ArgSource) (Argv, error) {
	if n <= 0 || src == nil {
		return Argv{}, nil
	}

	log := Logger()
	argv := Argv{
		Items:    make([]string, 0, n),
		Pointers: make([]uint32, 0, n),
	}

	for i := 0; i < n; i++ {
		s, err := src.Arg(i)
		if err != nil {
			log.Error("failed to get argument", zap.Int("index", i), zap.Error(err))
			continue
		}
		if strings.IndexByte(s, 0) >= 0 {
			log.Error("argument contains NUL byte", zap.Int("index", i))
			continue
		}

		ptr, err := dupString(mem, alloc, s)
		if err != nil {
			log.Error("failed to copy argument into engine memory", zap.Int("index", i), zap.Error(err))
			continue
		}

		argv.Items = append(argv.Items, s)
		argv.Pointers = append(argv.Pointers, ptr)
	}

	if len(argv.Pointers) == 0 {
		return Argv{}, nil
	}

	vecSize := uint32(len(argv.Pointers)+1) * 4
	vec, err := alloc.Alloc(vecSize, 4)
	if err != nil {
		return Argv{}, errors.Wrap(errors.PhaseMarshal, errors.KindAllocation, err, "allocate argv array")
	}
	for i, p := range argv.Pointers {
		if err := mem.WriteU32(vec+uint32(i)*4, p); err != nil {
			return Argv{}, errors.Wrap(errors.PhaseMarshal, errors.KindOutOfBounds, err, "write argv array")
		}
	}
	if err := mem.WriteU32(vec+uint32(len(argv.Pointers))*4, 0); err != nil {
		return Argv{}, errors.Wrap(errors.PhaseMarshal, errors.KindOutOfBounds, err, "terminate argv array")
	}
	argv.Ptr = vec

	for i, s := range argv.Items {
		log.Info("argv", zap.Int("index", i), zap.String("value", s))
	}
	return argv, nil
}

// dupString copies s plus a NUL terminator into a fresh engine allocation.
func dupString(mem wasmdoom.Memory, alloc wasmdoom.Allocator, s string) (uint32, error) {
	size := uint32(len(s) + 1)
	ptr, err := alloc.Alloc(size, 1)
	if err != nil {
		return 0, err
	}
	buf := make([]byte, size)
	copy(buf, s)
	if err := mem.Write(ptr, buf); err != nil {
		return 0, err
	}
	return ptr, nil
}
