// Package inference guesses the quality-score encoding of FASTQ data by
// narrowing a set of candidate encodings against the observed ASCII range
// of quality lines.
package inference

import "slices"

// Encoding names as they appear in results.
const (
	Sanger     = "Sanger"
	Illumina18 = "Illumina-1.8"
	Solexa     = "Solexa"
	Illumina13 = "Illumina-1.3"
	Illumina15 = "Illumina-1.5"
)

// Range is an inclusive ASCII interval of quality characters an encoding
// produces in typical data.
type Range struct {
	Min byte
	Max byte
}

// Ranges maps each known encoding to its typical ASCII interval.
// The theoretical maximum for all encodings is 126; the upper limits
// here are for typical data only.
var Ranges = map[string]Range{
	Sanger:     {33, 73},
	Illumina18: {33, 74},
	Solexa:     {59, 104},
	Illumina13: {64, 104},
	Illumina15: {66, 105},
}

// EncodingsInRange returns the encodings whose range contains [lo, hi],
// sorted by name for reproducible output.
func EncodingsInRange(lo, hi byte) []string {
	var valid []string
	for name, r := range Ranges {
		if r.Min <= lo && r.Max >= hi {
			valid = append(valid, name)
		}
	}
	slices.Sort(valid)
	return valid
}
