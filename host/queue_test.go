package host

import (
	"sync"
	"testing"

	"github.com/wippyai/wasm-doom/keys"
)

func press(code uint8) int32   { return keys.Encode(keys.Event{Pressed: true, Code: code}) }
func release(code uint8) int32 { return keys.Encode(keys.Event{Code: code}) }

func TestKeyQueue_EmptyReturnsNone(t *testing.T) {
	q := NewKeyQueue(0)
	if v := q.Poll(0); v != keys.None {
		t.Fatalf("Poll() = %d, want None", v)
	}
}

func TestKeyQueue_PressReleaseFIFO(t *testing.T) {
	q := NewKeyQueue(0)
	q.Press(keys.Fire)
	q.Press('w')
	q.Release(keys.Fire)

	want := []int32{press(keys.Fire), press('w'), release(keys.Fire), keys.None}
	for i, w := range want {
		if got := q.Poll(0); got != w {
			t.Errorf("poll %d = %#x, want %#x", i, got, w)
		}
	}
}

func TestKeyQueue_TapHold(t *testing.T) {
	tests := []struct {
		name  string
		taps  []uint64
		polls []uint64
		want  []int32
	}{
		{
			name:  "release after hold window",
			taps:  []uint64{0},
			polls: []uint64{10, 50, 100},
			want:  []int32{press('a'), keys.None, release('a')},
		},
		{
			name:  "repeat extends hold",
			taps:  []uint64{0, 80},
			polls: []uint64{1, 100, 179, 180},
			want:  []int32{press('a'), keys.None, keys.None, release('a')},
		},
		{
			name:  "tap after release presses again",
			taps:  []uint64{0, 200},
			polls: []uint64{1, 150, 201},
			want:  []int32{press('a'), release('a'), press('a')},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := NewKeyQueue(100)
			taps := tt.taps
			for i, now := range tt.polls {
				for len(taps) > 0 && taps[0] <= now {
					q.Tap('a', taps[0])
					taps = taps[1:]
				}
				if got := q.Poll(now); got != tt.want[i] {
					t.Errorf("Poll(%d) = %#x, want %#x", now, got, tt.want[i])
				}
			}
		})
	}
}

func TestKeyQueue_TapRepeatQueuesOnePress(t *testing.T) {
	q := NewKeyQueue(100)
	q.Tap(keys.UpArrow, 0)
	q.Tap(keys.UpArrow, 30)
	q.Tap(keys.UpArrow, 60)
	if q.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", q.Len())
	}
	if !q.Held(keys.UpArrow) {
		t.Error("key not held")
	}
}

func TestKeyQueue_ReleaseAll(t *testing.T) {
	q := NewKeyQueue(100)
	q.Tap('b', 0)
	q.Tap('a', 0)
	q.ReleaseAll()

	want := []int32{press('b'), press('a'), release('a'), release('b'), keys.None}
	for i, w := range want {
		if got := q.Poll(0); got != w {
			t.Errorf("poll %d = %#x, want %#x", i, got, w)
		}
	}
	if q.Held('a') || q.Held('b') {
		t.Error("keys still held after ReleaseAll")
	}
}

func TestKeyQueue_Concurrent(t *testing.T) {
	q := NewKeyQueue(0)
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				q.Press('x')
			}
		}()
	}
	wg.Wait()

	n := 0
	for q.Poll(0) != keys.None {
		n++
	}
	if n != 400 {
		t.Fatalf("drained %d events, want 400", n)
	}
}
