package inference

import "fmt"

// State is the scan state of an Engine.
type State uint8

// Engine states.
const (
	StateScanning        State = iota // still narrowing candidates
	StateUniqueFound                  // a single candidate remains
	StateHeuristicLocked              // unique via soft heuristic, answer frozen, still scanning
	StateExhausted                    // line limit reached
	StateError                        // no encoding fits the observed range
)

func (s State) String() string {
	switch s {
	case StateScanning:
		return "scanning"
	case StateUniqueFound:
		return "unique"
	case StateHeuristicLocked:
		return "unique-heuristic-locked"
	case StateExhausted:
		return "exhausted"
	case StateError:
		return "error"
	}
	return fmt.Sprintf("State(%d)", uint8(s))
}

// NoEncodingError reports that the observed ASCII range is not contained
// in any known encoding's range. It is fatal: no later line can shrink
// the range back.
type NoEncodingError struct {
	Min byte
	Max byte
}

func (e *NoEncodingError) Error() string {
	return fmt.Sprintf("no encodings for range: (%d, %d)", e.Min, e.Max)
}

// Options configures an Engine.
type Options struct {
	// MaxLines limits how many quality lines are examined. Zero or
	// negative means scan until a unique candidate or end of input.
	MaxLines int
	// DisableEarlyStop keeps scanning after the soft heuristic produced
	// a unique candidate, freezing the answer while still accumulating
	// bound evidence.
	DisableEarlyStop bool
	// DisableUncertainHeuristics turns off the soft (probabilistic)
	// heuristic rule. Range narrowing and the hard rule still apply.
	DisableUncertainHeuristics bool
}

// Result is the outcome of a scan.
type Result struct {
	Encodings  []string // sorted candidate encodings
	Min        byte     // smallest ASCII value observed
	Max        byte     // largest ASCII value observed
	HasBounds  bool     // false if no non-empty line was seen
	Heuristic  bool     // true if the answer came from the soft heuristic
	State      State
	Lines      int // quality lines consumed, empty ones included
	EmptyLines int
}

// Engine incrementally narrows the set of plausible quality encodings as
// quality lines are observed. It is not safe for concurrent use.
type Engine struct {
	opts       Options
	bounds     Bounds
	candidates []string
	hist       Histogram
	heuristic  bool
	state      State
	lines      int
	empty      int
	err        error
}

// New returns an Engine ready to scan.
func New(opts Options) *Engine {
	return &Engine{opts: opts}
}

// Observe feeds one quality line to the engine and reports whether
// scanning is finished. Empty lines are counted but otherwise skipped.
func (e *Engine) Observe(qual []byte) (done bool) {
	if e.state != StateScanning && e.state != StateHeuristicLocked {
		return true
	}
	e.lines++

	lo, hi, ok := LineBounds(qual)
	if !ok {
		e.empty++
		return e.checkExhausted()
	}

	extended := e.bounds.Extend(lo, hi)
	if e.state != StateScanning {
		// Heuristic lock: bounds keep accumulating as evidence but the
		// frozen candidate set is never recomputed.
		return e.checkExhausted()
	}

	if extended {
		e.candidates = EncodingsInRange(e.bounds.Min, e.bounds.Max)
		if len(e.candidates) == 0 {
			e.state = StateError
			e.err = &NoEncodingError{Min: e.bounds.Min, Max: e.bounds.Max}
			return true
		}
		// Range recomputation discards any earlier heuristic narrowing.
		e.heuristic = false
	}

	e.hist.Reset()
	e.hist.AddAll(qual)
	var heur bool
	e.candidates, heur = disambiguate(e.candidates, &e.hist, !e.opts.DisableUncertainHeuristics)
	if heur {
		e.heuristic = true
	}
	if len(e.candidates) == 0 {
		e.state = StateError
		e.err = &NoEncodingError{Min: e.bounds.Min, Max: e.bounds.Max}
		return true
	}

	if len(e.candidates) == 1 && e.opts.MaxLines <= 0 {
		if e.heuristic && e.opts.DisableEarlyStop {
			e.state = StateHeuristicLocked
		} else {
			e.state = StateUniqueFound
			return true
		}
	}

	return e.checkExhausted()
}

func (e *Engine) checkExhausted() bool {
	if e.opts.MaxLines > 0 && e.lines >= e.opts.MaxLines {
		if e.state == StateScanning {
			e.state = StateExhausted
		}
		return true
	}
	return false
}

// Err returns the fatal scan error, if any.
func (e *Engine) Err() error { return e.err }

// Result reports the current candidates and observed bounds. It may be
// called at any point; after input runs out it is the final answer.
func (e *Engine) Result() Result {
	return Result{
		Encodings:  e.candidates,
		Min:        e.bounds.Min,
		Max:        e.bounds.Max,
		HasBounds:  e.bounds.Set(),
		Heuristic:  e.heuristic,
		State:      e.state,
		Lines:      e.lines,
		EmptyLines: e.empty,
	}
}
