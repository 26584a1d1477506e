package inference

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLineBounds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		qual   string
		wantLo byte
		wantHi byte
		wantOk bool
	}{
		{
			name:   "typical Illumina-era line",
			qual:   "DLXYXXRXWYYTPMLUUQWTXTRSXSWMDMTRNDNSMJFJFFRMV",
			wantLo: 68,
			wantHi: 89,
			wantOk: true,
		},
		{
			name:   "single character",
			qual:   "I",
			wantLo: 'I',
			wantHi: 'I',
			wantOk: true,
		},
		{
			name:   "minimum first",
			qual:   "!IIII",
			wantLo: '!',
			wantHi: 'I',
			wantOk: true,
		},
		{
			name:   "maximum last",
			qual:   "IIIIh",
			wantLo: 'I',
			wantHi: 'h',
			wantOk: true,
		},
		{
			name:   "empty line",
			qual:   "",
			wantOk: false,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			lo, hi, ok := LineBounds([]byte(tt.qual))
			assert.Equal(t, tt.wantOk, ok)
			if !tt.wantOk {
				return
			}
			assert.Equal(t, tt.wantLo, lo)
			assert.Equal(t, tt.wantHi, hi)
			assert.LessOrEqual(t, lo, hi)
			assert.Contains(t, tt.qual, string(lo))
			assert.Contains(t, tt.qual, string(hi))
		})
	}
}

func TestBoundsExtend(t *testing.T) {
	t.Parallel()

	var b Bounds
	assert.False(t, b.Set())

	assert.True(t, b.Extend(68, 89))
	require.True(t, b.Set())
	assert.Equal(t, byte(68), b.Min)
	assert.Equal(t, byte(89), b.Max)

	// Narrower observation changes nothing.
	assert.False(t, b.Extend(70, 80))
	assert.Equal(t, byte(68), b.Min)
	assert.Equal(t, byte(89), b.Max)

	// Min only ever decreases, max only ever increases.
	assert.True(t, b.Extend(64, 75))
	assert.Equal(t, byte(64), b.Min)
	assert.Equal(t, byte(89), b.Max)

	assert.True(t, b.Extend(70, 104))
	assert.Equal(t, byte(64), b.Min)
	assert.Equal(t, byte(104), b.Max)
}

func TestHistogramTopValues(t *testing.T) {
	t.Parallel()

	var h Histogram
	h.AddAll([]byte("BBBBhhhg@f"))

	top := h.TopValues(4)
	require.Len(t, top, 4)
	assert.Equal(t, byte('B'), top[0])
	assert.Equal(t, byte('h'), top[1])
	// Singleton counts tie, broken by ascending ASCII value.
	assert.Equal(t, byte('@'), top[2])
	assert.Equal(t, byte('f'), top[3])

	// Asking for more values than exist returns what is there.
	all := h.TopValues(10)
	assert.Len(t, all, 5)

	h.Reset()
	assert.Empty(t, h.TopValues(4))
}

func BenchmarkLineBounds(b *testing.B) {
	qual := make([]byte, 152)
	for i := range qual {
		qual[i] = byte(33 + (i % 40))
	}

	b.ResetTimer()
	b.SetBytes(int64(len(qual)))

	for i := 0; i < b.N; i++ {
		LineBounds(qual)
	}
}
