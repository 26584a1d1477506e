package inference

import "slices"

// ASCII values with special meaning under the Phred+64 family.
// Illumina-1.5 reserves Q0 and Q1 (never emitted) and uses 'B' (Q2) as
// the read-segment quality control indicator, which dominates low-quality
// tails in 1.5-era data.
const (
	phred64Q0 = 64 // '@'
	phred64Q1 = 65 // 'A'
	phred64Q2 = 66 // 'B'
)

// topRank is how deep into a line's frequency ranking the control
// indicator must appear before it counts as strong evidence.
const topRank = 4

// disambiguate narrows candidates using per-line histogram evidence when
// the Illumina-1.3 / Illumina-1.5 overlap is in play. The hard rule always
// applies: observing Q0 or Q1 codes rules out Illumina-1.5, which never
// emits them. The soft rule applies only when allowUncertain is true and
// the hard rule did not fire: a 'B' among the line's most frequent values
// is taken as the 1.5 control indicator and collapses the set to
// Illumina-1.5 alone. heuristic reports whether the soft rule actually
// narrowed the set.
func disambiguate(candidates []string, hist *Histogram, allowUncertain bool) (narrowed []string, heuristic bool) {
	if !slices.Contains(candidates, Illumina13) && !slices.Contains(candidates, Illumina15) {
		return candidates, false
	}

	if hist.Count(phred64Q0) > 0 || hist.Count(phred64Q1) > 0 {
		if i := slices.Index(candidates, Illumina15); i >= 0 {
			candidates = slices.Delete(slices.Clone(candidates), i, i+1)
		}
		return candidates, false
	}

	if allowUncertain && slices.Contains(hist.TopValues(topRank), byte(phred64Q2)) {
		if len(candidates) != 1 || candidates[0] != Illumina15 {
			return []string{Illumina15}, true
		}
	}

	return candidates, false
}
