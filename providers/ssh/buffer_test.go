package ssh

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompletePrefix(t *testing.T) {
	t.Parallel()

	euro := []byte("€") // e2 82 ac

	tests := []struct {
		name string
		in   []byte
		want int
	}{
		{name: "empty", in: nil, want: 0},
		{name: "ascii", in: []byte("hello"), want: 5},
		{name: "complete multibyte", in: []byte("a€"), want: 4},
		{name: "one byte of three", in: append([]byte("a"), euro[:1]...), want: 1},
		{name: "two bytes of three", in: append([]byte("ab"), euro[:2]...), want: 2},
		{name: "lone continuation byte", in: []byte{'a', 0x82}, want: 2},
		{name: "invalid start byte", in: []byte{'a', 0xff}, want: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, completePrefix(tt.in))
		})
	}
}

func TestOutputBuffer_Take(t *testing.T) {
	t.Parallel()

	euro := []byte("€")

	var b outputBuffer

	assert.Empty(t, b.take(false))

	_, _ = b.Write([]byte("price: "))
	_, _ = b.Write(euro[:2])
	assert.Equal(t, "price: ", b.take(false), "partial rune is held back")

	_, _ = b.Write(euro[2:])
	_, _ = b.Write([]byte("5\n"))
	assert.Equal(t, "€5\n", b.take(false))
	assert.Empty(t, b.take(false), "take resets the buffer")

	_, _ = b.Write(euro[:1])
	assert.Empty(t, b.take(false))
	assert.Equal(t, string(euro[:1]), b.take(true), "final take flushes partial runes")
}

func TestOutputBuffer_DrainReleasesStorage(t *testing.T) {
	t.Parallel()

	var b outputBuffer

	_, _ = b.Write(make([]byte, 1<<20))
	assert.Len(t, b.take(false), 1<<20)
	assert.Nil(t, b.buf)

	euro := []byte("€")
	_, _ = b.Write(append(make([]byte, 1<<20), euro[:1]...))
	assert.Len(t, b.take(false), 1<<20)
	assert.Less(t, cap(b.buf), 64, "held back bytes must not pin the drained storage")
}

func TestOutputBuffer_Seal(t *testing.T) {
	t.Parallel()

	euro := []byte("€")

	var b outputBuffer

	// A shell ended mid-rune and the next shell has not written yet.
	_, _ = b.Write([]byte("x"))
	_, _ = b.Write(euro[:1])
	b.seal()
	assert.Equal(t, "x"+string(euro[:1]), b.take(false), "sealed partial rune is not held back")
	assert.Nil(t, b.buf)

	// Output after the seal is held back as usual.
	_, _ = b.Write([]byte("old"))
	b.seal()
	_, _ = b.Write([]byte("new"))
	_, _ = b.Write(euro[:2])
	assert.Equal(t, "oldnew", b.take(false))
	assert.Equal(t, string(euro[:2]), b.take(true))
}

func TestOutputBuffer_ConcurrentWrites(t *testing.T) {
	t.Parallel()

	var (
		b  outputBuffer
		wg sync.WaitGroup
	)

	for range 10 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for range 100 {
				_, _ = b.Write([]byte("x"))
			}
		}()
	}

	wg.Wait()
	assert.Len(t, b.take(false), 1000)
}
