// Package recode converts FASTQ quality strings between encodings.
package recode

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/vertti/fqdetect/internal/inference"
)

// scheme describes how an encoding maps scores to ASCII.
type scheme struct {
	offset int
	solexa bool // scores are on the Solexa log-odds scale, not Phred
	minQ   int
	maxQ   int
}

var schemes = map[string]scheme{
	inference.Sanger:     {offset: 33, minQ: 0, maxQ: 93},
	inference.Illumina18: {offset: 33, minQ: 0, maxQ: 93},
	inference.Illumina13: {offset: 64, minQ: 0, maxQ: 62},
	// Illumina-1.5 never emits Q0/Q1; 'B' (Q2) is the floor.
	inference.Illumina15: {offset: 64, minQ: 2, maxQ: 62},
	inference.Solexa:     {offset: 64, solexa: true, minQ: -5, maxQ: 62},
}

// Names returns the supported encoding names, sorted.
func Names() []string {
	names := make([]string, 0, len(schemes))
	for name := range schemes {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Canonical resolves a case-insensitive encoding name to its canonical
// form.
func Canonical(name string) (string, bool) {
	for canonical := range schemes {
		if strings.EqualFold(canonical, name) {
			return canonical, true
		}
	}
	return "", false
}

// Convert rewrites qual in place from one encoding to another. Scores
// outside the target's representable range are clamped.
func Convert(qual []byte, from, to string) error {
	src, ok := schemes[from]
	if !ok {
		return fmt.Errorf("unknown quality encoding %q", from)
	}
	dst, ok := schemes[to]
	if !ok {
		return fmt.Errorf("unknown quality encoding %q", to)
	}
	if from == to {
		return nil
	}

	for i, b := range qual {
		q := int(b) - src.offset

		// Cross the scale boundary via Phred.
		if src.solexa && !dst.solexa {
			q = solexaToPhred(q)
		} else if !src.solexa && dst.solexa {
			q = phredToSolexa(q)
		}

		if q < dst.minQ {
			q = dst.minQ
		}
		if q > dst.maxQ {
			q = dst.maxQ
		}
		qual[i] = byte(q + dst.offset)
	}
	return nil
}

// solexaToPhred maps a Solexa log-odds score to the nearest Phred score.
func solexaToPhred(q int) int {
	return int(math.Round(10 * math.Log10(math.Pow(10, float64(q)/10)+1)))
}

// phredToSolexa maps a Phred score to the nearest Solexa score. Phred 0
// has no Solexa equivalent and maps to the -5 floor.
func phredToSolexa(q int) int {
	if q <= 0 {
		return -5
	}
	s := 10 * math.Log10(math.Pow(10, float64(q)/10)-1)
	if s < -5 {
		return -5
	}
	return int(math.Round(s))
}
