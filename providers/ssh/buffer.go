package ssh

import (
	"sync"
	"unicode/utf8"
)

// outputBuffer accumulates one remote stream. It is written by the session's
// copy goroutine and drained by Stdout/Stderr.
type outputBuffer struct {
	mu  sync.Mutex
	buf []byte

	// sealed is the length of the leading bytes that belong to a shell that
	// has ended; they are returned as-is and never held back.
	sealed int
}

// Write appends p. It never fails.
func (b *outputBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.buf = append(b.buf, p...)

	return len(p), nil
}

// seal marks everything buffered so far as final, so a partial rune left by
// an ended shell is not joined with the output of the next one.
func (b *outputBuffer) seal() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.sealed = len(b.buf)
}

// take removes and returns the buffered content.
// Unless final is set, a trailing incomplete UTF-8 sequence stays buffered
// until the rest of it arrives.
func (b *outputBuffer) take(final bool) string {
	b.mu.Lock()
	defer b.mu.Unlock()

	n := len(b.buf)
	if !final {
		n = max(completePrefix(b.buf), b.sealed)
	}

	out := string(b.buf[:n])
	b.sealed = 0

	if n == len(b.buf) {
		b.buf = nil
	} else {
		b.buf = append([]byte(nil), b.buf[n:]...)
	}

	return out
}

// completePrefix returns the length of the longest prefix of p that does not
// end inside a multi-byte UTF-8 sequence.
func completePrefix(p []byte) int {
	for i := len(p) - 1; i >= 0 && i >= len(p)-utf8.UTFMax; i-- {
		if !utf8.RuneStart(p[i]) {
			continue
		}

		if utf8.FullRune(p[i:]) {
			return len(p)
		}

		return i
	}

	return len(p)
}
