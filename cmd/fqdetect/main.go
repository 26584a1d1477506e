// fqdetect guesses the quality-score encoding of a FASTQ file by scanning
// quality lines and narrowing the set of encodings whose ASCII range fits
// the observed values.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/vertti/fqdetect/internal/fastq"
	"github.com/vertti/fqdetect/internal/inference"
)

var version = "dev"

const (
	exitSuccess = 0
	exitError   = 1
	exitUsage   = 2
)

type config struct {
	inputFile             string
	maxLines              int
	noHeuristicEarlyStop  bool
	noUncertainHeuristics bool
}

func main() {
	os.Exit(run())
}

func run() int {
	cfg, done := parseFlags()
	if done {
		return exitSuccess
	}

	args := flag.Args()
	if len(args) > 1 {
		fmt.Fprintln(os.Stderr, "Only a single input file is supported.")
		return exitUsage
	}
	if len(args) == 1 {
		cfg.inputFile = args[0]
	}

	input, cleanup, err := fastq.Open(cfg.inputFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return exitError
	}
	defer cleanup()

	if err := detect(cfg, input, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return exitError
	}

	return exitSuccess
}

func parseFlags() (config, bool) {
	var cfg config
	var showVersion, showHelp bool

	flag.IntVar(&cfg.maxLines, "n", -1, "number of quality lines to test (-1: until end of file or a unique match)")
	flag.BoolVar(&cfg.noHeuristicEarlyStop, "no-heuristic-early-stop", false, "keep scanning after a heuristic-only unique match")
	flag.BoolVar(&cfg.noUncertainHeuristics, "no-uncertain-heuristics", false, "disable the probabilistic control-indicator heuristic")
	flag.BoolVar(&showVersion, "version", false, "show version and exit")
	flag.BoolVar(&showHelp, "h", false, "show help")

	flag.Usage = usage
	flag.Parse()

	if showHelp {
		flag.Usage()
		return cfg, true
	}

	if showVersion {
		fmt.Printf("fqdetect version %s\n", version)
		return cfg, true
	}

	return cfg, false
}

func usage() {
	fmt.Fprintf(os.Stderr, `fqdetect - Guess the quality encoding of a FASTQ file

Usage:
  fqdetect [options] [reads.fastq]      Read from a file (.gz and .zst work)
  cat reads.fastq | fqdetect [options]  Read from stdin

Options:
`)
	flag.PrintDefaults()
	fmt.Fprintf(os.Stderr, `
The result is written to stderr as the comma-separated candidate
encodings followed by the observed ASCII min and max, tab-separated.

Examples:
  fqdetect reads.fastq
  fqdetect -n 1000 reads.fastq.gz
  zcat reads.fastq.gz | fqdetect
`)
}

// detect drives the inference engine over the quality lines of input,
// writing diagnostics and the final result to diag.
func detect(cfg config, input io.Reader, diag io.Writer) error {
	eng := inference.New(inference.Options{
		MaxLines:                   cfg.maxLines,
		DisableEarlyStop:           cfg.noHeuristicEarlyStop,
		DisableUncertainHeuristics: cfg.noUncertainHeuristics,
	})

	sc := fastq.NewQualScanner(input)
	lineNo := 0
	for {
		qual, err := sc.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("reading input: %w", err)
		}

		if lineNo == 0 {
			fmt.Fprintf(diag, "# reading qualities from %s\n", fastq.DisplayName(cfg.inputFile))
		}
		lineNo++

		if len(qual) == 0 {
			fmt.Fprintf(diag, "# skipping empty quality line %d\n", lineNo)
		}

		if eng.Observe(qual) {
			break
		}
	}

	if err := eng.Err(); err != nil {
		return err
	}

	res := eng.Result()
	if !res.HasBounds {
		return errors.New("no quality lines in input")
	}

	fmt.Fprintf(diag, "%s\t%d\t%d\n", strings.Join(res.Encodings, ","), res.Min, res.Max)
	if res.Heuristic {
		fmt.Fprintln(diag, "# derived from heuristic evidence")
	}

	return nil
}
