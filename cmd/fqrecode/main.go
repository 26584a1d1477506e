// fqrecode converts the quality strings of a FASTQ file between
// encodings, for example Illumina-1.3 (Phred+64) to Sanger (Phred+33).
// The source encoding can be detected automatically.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/vertti/fqdetect/internal/fastq"
	"github.com/vertti/fqdetect/internal/inference"
	"github.com/vertti/fqdetect/internal/recode"
)

var version = "dev"

const (
	exitSuccess = 0
	exitError   = 1
)

// DefaultBatchSize is the default number of records per work unit.
const DefaultBatchSize = 10000

type config struct {
	inputFile  string
	outputFile string
	from       string
	to         string
	workers    int
	batchSize  int
}

func main() {
	os.Exit(run())
}

func run() int {
	cfg, done := parseFlags()
	if done {
		return exitSuccess
	}

	input, cleanup, err := fastq.Open(cfg.inputFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return exitError
	}
	defer cleanup()

	output, cleanup, err := openOutput(cfg.outputFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return exitError
	}
	defer cleanup()

	if err := execute(cfg, input, output, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return exitError
	}

	return exitSuccess
}

func parseFlags() (config, bool) {
	var cfg config
	var showVersion, showHelp bool

	flag.StringVar(&cfg.inputFile, "i", "", "input FASTQ file (default: stdin, .gz and .zst work)")
	flag.StringVar(&cfg.outputFile, "o", "", "output FASTQ file (default: stdout)")
	flag.StringVar(&cfg.from, "from", "auto", "source encoding (auto or one of "+strings.Join(recode.Names(), ", ")+")")
	flag.StringVar(&cfg.to, "to", inference.Sanger, "target encoding")
	flag.IntVar(&cfg.workers, "w", 0, "re-encoding workers (default: NumCPU)")
	flag.IntVar(&cfg.batchSize, "b", DefaultBatchSize, "records per work unit")
	flag.BoolVar(&showVersion, "version", false, "show version and exit")
	flag.BoolVar(&showHelp, "h", false, "show help")

	flag.Usage = usage
	flag.Parse()

	if showHelp {
		flag.Usage()
		return cfg, true
	}

	if showVersion {
		fmt.Printf("fqrecode version %s\n", version)
		return cfg, true
	}

	if cfg.inputFile == "" && flag.NArg() > 0 {
		cfg.inputFile = flag.Arg(0)
	}

	return cfg, false
}

func usage() {
	fmt.Fprintf(os.Stderr, `fqrecode - Convert FASTQ quality encodings

Usage:
  fqrecode [options] [-i input.fq] [-o output.fq]

Options:
`)
	flag.PrintDefaults()
	fmt.Fprintf(os.Stderr, `
Examples:
  fqrecode -i old_illumina.fq -o sanger.fq
  fqrecode -from Illumina-1.3 -to Sanger -i reads.fq.gz
  zcat reads.fq.gz | fqrecode > sanger.fq
`)
}

func openOutput(path string) (io.Writer, func(), error) {
	if path == "" || path == "-" {
		bw := bufio.NewWriterSize(os.Stdout, 1<<20)
		return bw, func() { _ = bw.Flush() }, nil
	}

	f, err := os.Create(path) //nolint:gosec // CLI tool needs to create user-specified files
	if err != nil {
		return nil, nil, fmt.Errorf("cannot create output: %w", err)
	}
	bw := bufio.NewWriterSize(f, 1<<20)
	return bw, func() { _ = bw.Flush(); _ = f.Close() }, nil
}

func execute(cfg config, input io.Reader, output io.Writer, diag io.Writer) error {
	if cfg.workers == 0 {
		cfg.workers = runtime.NumCPU()
	}
	if cfg.batchSize <= 0 {
		cfg.batchSize = DefaultBatchSize
	}

	to, ok := recode.Canonical(cfg.to)
	if !ok {
		return fmt.Errorf("unknown target encoding %q", cfg.to)
	}

	// Parse the first batch up front so the source encoding can be
	// detected from it.
	p := fastq.NewParser(input)
	firstBatch, err := p.NextBatch(cfg.batchSize)
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("parsing FASTQ: %w", err)
	}
	firstBatchEOF := errors.Is(err, io.EOF)

	var from string
	if strings.EqualFold(cfg.from, "auto") {
		from, err = detectEncoding(firstBatch, diag)
		if err != nil {
			return err
		}
	} else if from, ok = recode.Canonical(cfg.from); !ok {
		return fmt.Errorf("unknown source encoding %q", cfg.from)
	}

	if cfg.workers == 1 {
		return recodeSingleWorker(firstBatch, p, output, cfg, from, to, firstBatchEOF)
	}

	return recodeParallel(firstBatch, p, output, cfg, from, to, firstBatchEOF)
}

// detectEncoding guesses the source encoding from the quality strings of
// the first batch. An ambiguous guess picks the first candidate in sorted
// order and says so on diag.
func detectEncoding(records []*fastq.Record, diag io.Writer) (string, error) {
	eng := inference.New(inference.Options{})
	for _, rec := range records {
		if eng.Observe(rec.Quality) {
			break
		}
	}
	if err := eng.Err(); err != nil {
		return "", fmt.Errorf("detecting source encoding: %w", err)
	}

	res := eng.Result()
	if !res.HasBounds || len(res.Encodings) == 0 {
		return "", errors.New("detecting source encoding: no quality data")
	}
	if len(res.Encodings) > 1 {
		fmt.Fprintf(diag, "# ambiguous source encoding %s; using %s\n",
			strings.Join(res.Encodings, ","), res.Encodings[0])
	}
	return res.Encodings[0], nil
}

type recodeJob struct {
	seqNum  int
	records []*fastq.Record
}

type recodeResult struct {
	seqNum int
	data   []byte
	err    error
}

func recodeSingleWorker(firstBatch []*fastq.Record, p *fastq.Parser, w io.Writer, cfg config, from, to string, firstBatchEOF bool) error {
	if len(firstBatch) > 0 {
		data, err := renderBatch(firstBatch, from, to)
		if err != nil {
			return err
		}
		if _, err := w.Write(data); err != nil {
			return fmt.Errorf("writing output: %w", err)
		}
	}

	if firstBatchEOF {
		return nil
	}

	for {
		batch, err := p.NextBatch(cfg.batchSize)
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("parsing FASTQ: %w", err)
		}
		if len(batch) == 0 {
			break
		}

		data, renderErr := renderBatch(batch, from, to)
		if renderErr != nil {
			return renderErr
		}
		if _, err := w.Write(data); err != nil {
			return fmt.Errorf("writing output: %w", err)
		}

		if errors.Is(err, io.EOF) {
			break
		}
	}

	return nil
}

func recodeParallel(firstBatch []*fastq.Record, p *fastq.Parser, w io.Writer, cfg config, from, to string, firstBatchEOF bool) error {
	jobs := make(chan recodeJob, cfg.workers*2)
	results := make(chan recodeResult, cfg.workers*2)

	g, ctx := errgroup.WithContext(context.Background())

	// Start workers
	for i := 0; i < cfg.workers; i++ {
		g.Go(func() error {
			return runRecodeWorker(ctx, jobs, results, from, to)
		})
	}

	// Producer: dispatch first batch and continue parsing
	g.Go(func() error {
		defer close(jobs)
		return produceRecodeJobs(ctx, jobs, firstBatch, p, cfg.batchSize, firstBatchEOF)
	})

	// Collector: write results in order
	var collectorErr error
	collectorDone := make(chan struct{})
	go func() {
		defer close(collectorDone)
		collectorErr = collectAndWriteResults(results, w)
	}()

	workerErr := g.Wait()
	close(results)
	<-collectorDone

	if workerErr != nil {
		return workerErr
	}
	return collectorErr
}

func runRecodeWorker(ctx context.Context, jobs <-chan recodeJob, results chan<- recodeResult, from, to string) error {
	for job := range jobs {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		data, err := renderBatch(job.records, from, to)
		results <- recodeResult{seqNum: job.seqNum, data: data, err: err}
	}
	return nil
}

func produceRecodeJobs(ctx context.Context, jobs chan<- recodeJob, firstBatch []*fastq.Record, p *fastq.Parser, batchSize int, firstBatchEOF bool) error {
	seqNum := 0

	if len(firstBatch) > 0 {
		select {
		case jobs <- recodeJob{seqNum: seqNum, records: firstBatch}:
			seqNum++
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	if firstBatchEOF {
		return nil
	}

	for {
		batch, err := p.NextBatch(batchSize)
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("parsing FASTQ: %w", err)
		}
		if len(batch) == 0 {
			break
		}

		select {
		case jobs <- recodeJob{seqNum: seqNum, records: batch}:
			seqNum++
		case <-ctx.Done():
			return ctx.Err()
		}

		if errors.Is(err, io.EOF) {
			break
		}
	}
	return nil
}

func collectAndWriteResults(results <-chan recodeResult, w io.Writer) error {
	pending := make(map[int][]byte)
	nextSeqNum := 0

	for result := range results {
		if result.err != nil {
			return fmt.Errorf("re-encoding batch %d: %w", result.seqNum, result.err)
		}

		pending[result.seqNum] = result.data

		// Write all sequential results available
		for {
			data, ok := pending[nextSeqNum]
			if !ok {
				break
			}
			if _, err := w.Write(data); err != nil {
				return fmt.Errorf("writing batch %d: %w", nextSeqNum, err)
			}
			delete(pending, nextSeqNum)
			nextSeqNum++
		}
	}

	return nil
}

// renderBatch converts each record's quality in place and renders the
// batch as FASTQ text.
func renderBatch(records []*fastq.Record, from, to string) ([]byte, error) {
	size := 0
	for _, rec := range records {
		size += len(rec.Header) + len(rec.Sequence) + len(rec.PlusLine) + len(rec.Quality) + 6
	}

	buf := make([]byte, 0, size)
	for _, rec := range records {
		if err := recode.Convert(rec.Quality, from, to); err != nil {
			return nil, err
		}
		buf = append(buf, '@')
		buf = append(buf, rec.Header...)
		buf = append(buf, '\n')
		buf = append(buf, rec.Sequence...)
		buf = append(buf, '\n', '+')
		buf = append(buf, rec.PlusLine...)
		buf = append(buf, '\n')
		buf = append(buf, rec.Quality...)
		buf = append(buf, '\n')
	}
	return buf, nil
}
