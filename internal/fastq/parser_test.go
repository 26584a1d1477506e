package fastq

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParserRecord(t *testing.T) {
	t.Parallel()

	input := `@SEQ_ID description
ACGTACGT
+
IIIIIIII
`
	p := NewParser(strings.NewReader(input))
	rec, err := p.Next()
	require.NoError(t, err)

	assert.Equal(t, []byte("SEQ_ID description"), rec.Header)
	assert.Equal(t, []byte("ACGTACGT"), rec.Sequence)
	assert.Empty(t, rec.PlusLine)
	assert.Equal(t, []byte("IIIIIIII"), rec.Quality)

	_, err = p.Next()
	assert.ErrorIs(t, err, io.EOF)
}

func TestParserPlusLinePayload(t *testing.T) {
	t.Parallel()

	input := `@SEQ_1
ACGTACGT
+SEQ_1 comment
IIIIIIII
`
	p := NewParser(strings.NewReader(input))
	rec, err := p.Next()
	require.NoError(t, err)
	assert.Equal(t, []byte("SEQ_1 comment"), rec.PlusLine)
}

func TestParserMalformed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
	}{
		{
			name:  "missing @ on header",
			input: "SEQ_ID\nACGT\n+\nIIII\n",
		},
		{
			name:  "missing + separator",
			input: "@SEQ_ID\nACGT\nIIII\nIIII\n",
		},
		{
			name:  "length mismatch",
			input: "@SEQ_ID\nACGTACGT\n+\nIII\n",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p := NewParser(strings.NewReader(tt.input))
			_, err := p.Next()
			assert.Error(t, err)
		})
	}
}

func TestParserNextBatch(t *testing.T) {
	t.Parallel()

	var sb strings.Builder
	for i := 0; i < 25; i++ {
		sb.WriteString("@r\nACGT\n+\nIIII\n")
	}
	p := NewParser(strings.NewReader(sb.String()))

	batch, err := p.NextBatch(10)
	require.NoError(t, err)
	assert.Len(t, batch, 10)

	batch, err = p.NextBatch(10)
	require.NoError(t, err)
	assert.Len(t, batch, 10)

	// Short batch at end of input.
	batch, err = p.NextBatch(10)
	require.NoError(t, err)
	assert.Len(t, batch, 5)

	batch, err = p.NextBatch(10)
	assert.ErrorIs(t, err, io.EOF)
	assert.Empty(t, batch)
}

func TestQualScanner(t *testing.T) {
	t.Parallel()

	input := "@r1\nACGT\n+\nIIII\n@r2\nGGGG\n+\nhhhh\n"
	s := NewQualScanner(strings.NewReader(input))

	q, err := s.Next()
	require.NoError(t, err)
	assert.Equal(t, []byte("IIII"), q)

	q, err = s.Next()
	require.NoError(t, err)
	assert.Equal(t, []byte("hhhh"), q)

	_, err = s.Next()
	assert.ErrorIs(t, err, io.EOF)
}

func TestQualScannerCRLF(t *testing.T) {
	t.Parallel()

	input := "@r1\r\nACGT\r\n+\r\nII!I\r\n"
	s := NewQualScanner(strings.NewReader(input))

	q, err := s.Next()
	require.NoError(t, err)
	assert.Equal(t, []byte("II!I"), q)
}

func TestQualScannerTruncatedRecord(t *testing.T) {
	t.Parallel()

	// Final record cut off before its quality line: no quality yielded
	// for it, no error either.
	input := "@r1\nACGT\n+\nIIII\n@r2\nGGGG\n"
	s := NewQualScanner(strings.NewReader(input))

	q, err := s.Next()
	require.NoError(t, err)
	assert.Equal(t, []byte("IIII"), q)

	_, err = s.Next()
	assert.ErrorIs(t, err, io.EOF)
}

func TestQualScannerEmptyQualityLine(t *testing.T) {
	t.Parallel()

	// Garbage input can produce an empty 4th line; the scanner passes it
	// through for the caller to decide.
	input := "@r1\nACGT\n+\n\n"
	s := NewQualScanner(strings.NewReader(input))

	q, err := s.Next()
	require.NoError(t, err)
	assert.Empty(t, q)
}
