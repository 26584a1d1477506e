package fastq

import (
	"bufio"
	"bytes"
	"errors"
	"io"
)

// Record is a single FASTQ record.
type Record struct {
	Header   []byte // header line without the leading '@'
	Sequence []byte
	PlusLine []byte // separator payload after '+', usually empty
	Quality  []byte // quality scores, one byte per base
}

// Parser reads strict 4-line FASTQ records from an input stream.
type Parser struct {
	reader *bufio.Reader
	line   []byte // reusable buffer for reading lines
}

// NewParser creates a FASTQ parser over r.
func NewParser(r io.Reader) *Parser {
	return &Parser{
		reader: bufio.NewReaderSize(r, 1<<20),
		line:   make([]byte, 0, 512),
	}
}

// Next reads and returns the next record. Returns io.EOF when no more
// records are available.
func (p *Parser) Next() (*Record, error) {
	rec := &Record{}

	line, err := p.readLine()
	if err != nil {
		return nil, err
	}
	if len(line) == 0 || line[0] != '@' {
		return nil, errors.New("invalid FASTQ: header line must start with @")
	}
	rec.Header = bytes.Clone(line[1:])

	line, err = p.readLine()
	if err != nil {
		return nil, err
	}
	rec.Sequence = bytes.Clone(line)

	line, err = p.readLine()
	if err != nil {
		return nil, err
	}
	if len(line) == 0 || line[0] != '+' {
		return nil, errors.New("invalid FASTQ: separator line must start with +")
	}
	rec.PlusLine = bytes.Clone(line[1:])

	line, err = p.readLine()
	if err != nil {
		return nil, err
	}
	rec.Quality = bytes.Clone(line)

	if len(rec.Sequence) != len(rec.Quality) {
		return nil, errors.New("invalid FASTQ: sequence and quality lengths must match")
	}

	return rec, nil
}

// NextBatch reads up to n records. A short batch means end of input;
// io.EOF is only returned alongside an empty batch.
func (p *Parser) NextBatch(n int) ([]*Record, error) {
	batch := make([]*Record, 0, n)
	for i := 0; i < n; i++ {
		rec, err := p.Next()
		if err != nil {
			if errors.Is(err, io.EOF) && len(batch) > 0 {
				return batch, nil
			}
			return batch, err
		}
		batch = append(batch, rec)
	}
	return batch, nil
}

// readLine reads a line, stripping the newline and any trailing CR.
// The returned slice is valid until the next call.
func (p *Parser) readLine() ([]byte, error) {
	p.line = p.line[:0]

	for {
		segment, isPrefix, err := p.reader.ReadLine()
		if err != nil {
			return nil, err
		}

		p.line = append(p.line, segment...)

		if !isPrefix {
			break
		}
	}

	p.line = bytes.TrimSuffix(p.line, []byte{'\r'})

	return p.line, nil
}

// QualScanner extracts quality lines from a FASTQ stream without
// validating record structure: every 4th line, starting at the 4th, is a
// quality line. Malformed input yields garbage lines rather than errors,
// which is what an encoding guesser wants to be robust against.
type QualScanner struct {
	scanner *bufio.Scanner
	line    int
}

// NewQualScanner creates a quality-line scanner over r.
func NewQualScanner(r io.Reader) *QualScanner {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 1<<20), 1<<20)
	return &QualScanner{scanner: sc}
}

// Next returns the next quality line, stripped of its newline. Returns
// io.EOF at end of input. The slice is only valid until the next call.
func (s *QualScanner) Next() ([]byte, error) {
	for s.scanner.Scan() {
		pos := s.line % 4
		s.line++
		if pos == 3 {
			return s.scanner.Bytes(), nil
		}
	}
	if err := s.scanner.Err(); err != nil {
		return nil, err
	}
	return nil, io.EOF
}
