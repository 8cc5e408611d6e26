package host

import (
	"maps"
	"slices"
	"sync"

	"github.com/wippyai/wasm-doom/keys"
)

// DefaultHoldMs is how long a tapped key stays down when the input source
// has no key-up events.
const DefaultHoldMs = 150

// KeyQueue is a FIFO of encoded key events shared between an input goroutine
// and the engine's GetKey polls.
//
// Press and Release enqueue events directly for sources with key-up events.
// Tap is for sources without them: the first tap enqueues a press and holds
// the key; further taps extend the hold; Poll enqueues the release once the
// hold expires.
type KeyQueue struct {
	mu     sync.Mutex
	events []int32
	held   map[uint8]uint64
	holdMs uint64
}

// NewKeyQueue returns a queue whose tapped keys are held for holdMs.
// A zero holdMs uses DefaultHoldMs.
func NewKeyQueue(holdMs uint64) *KeyQueue {
	if holdMs == 0 {
		holdMs = DefaultHoldMs
	}
	return &KeyQueue{held: make(map[uint8]uint64), holdMs: holdMs}
}

// Press enqueues a key-down event.
func (q *KeyQueue) Press(code uint8) {
	q.push(keys.Event{Pressed: true, Code: code})
}

// Release enqueues a key-up event.
func (q *KeyQueue) Release(code uint8) {
	q.push(keys.Event{Pressed: false, Code: code})
}

// Tap records a key seen at time now (milliseconds). A key not already held
// is pressed; a held key has its release pushed back.
func (q *KeyQueue) Tap(code uint8, now uint64) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if _, ok := q.held[code]; !ok {
		q.events = append(q.events, keys.Encode(keys.Event{Pressed: true, Code: code}))
	}
	q.held[code] = now + q.holdMs
}

// Poll releases expired holds as of now and returns the oldest event, or
// keys.None when the queue is empty.
func (q *KeyQueue) Poll(now uint64) int32 {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.expire(now)
	if len(q.events) == 0 {
		return keys.None
	}
	v := q.events[0]
	q.events = q.events[1:]
	return v
}

// ReleaseAll enqueues a release for every held key.
func (q *KeyQueue) ReleaseAll() {
	q.mu.Lock()
	defer q.mu.Unlock()
	for _, code := range slices.Sorted(maps.Keys(q.held)) {
		q.events = append(q.events, keys.Encode(keys.Event{Pressed: false, Code: code}))
		delete(q.held, code)
	}
}

// Len returns the number of queued events.
func (q *KeyQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.events)
}

// Held reports whether code is currently held by Tap.
func (q *KeyQueue) Held(code uint8) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	_, ok := q.held[code]
	return ok
}

func (q *KeyQueue) push(e keys.Event) {
	q.mu.Lock()
	q.events = append(q.events, keys.Encode(e))
	q.mu.Unlock()
}

func (q *KeyQueue) expire(now uint64) {
	for _, code := range slices.Sorted(maps.Keys(q.held)) {
		if now >= q.held[code] {
			q.events = append(q.events, keys.Encode(keys.Event{Pressed: false, Code: code}))
			delete(q.held, code)
		}
	}
}
