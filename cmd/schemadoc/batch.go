package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/sourcegraph/conc/pool"

	schemadoc "github.com/alnah/go-schemadoc"
	"github.com/alnah/go-schemadoc/internal/fileutil"
)

// Sentinel errors for batch operations.
var (
	ErrNoInput      = errors.New("no input specified")
	ErrReadHTML     = errors.New("failed to read HTML file")
	ErrWriteHTML    = errors.New("failed to write HTML file")
	ErrInvalidFlags = errors.New("invalid flags")
)

// DocumentProcessor is the interface for the post-processing service.
type DocumentProcessor interface {
	Process(ctx context.Context, html string) (*schemadoc.Result, error)
}

// Compile-time interface implementation check.
var _ DocumentProcessor = (*schemadoc.Processor)(nil)

// FileResult holds the outcome of processing a single file.
type FileResult struct {
	Path     string
	Err      error
	Duration time.Duration
	Stats    schemadoc.Stats
	Size     int  // bytes of processed output
	Written  bool // output written back to Path
}

// batchParams groups parameters shared by every file of a batch.
type batchParams struct {
	workers int
	dryRun  bool
	stdout  io.Writer                        // non-nil: print output instead of writing
	onWrite func(path string, data []byte) // called before a file is overwritten
}

// processBatch processes files concurrently with at most params.workers goroutines.
// Results keep the order of files.
func processBatch(ctx context.Context, proc DocumentProcessor, files []string, params *batchParams) []FileResult {
	if len(files) == 0 {
		return nil
	}

	concurrency := max(1, min(params.workers, len(files)))
	results := make([]FileResult, len(files))

	p := pool.New().WithMaxGoroutines(concurrency)
	for i, path := range files {
		p.Go(func() {
			if err := ctx.Err(); err != nil {
				results[i] = FileResult{Path: path, Err: err}
				return
			}
			results[i] = processFile(ctx, proc, path, params)
		})
	}
	p.Wait()

	return results
}

// processFile rewrites a single file and returns the result.
func processFile(ctx context.Context, proc DocumentProcessor, path string, params *batchParams) FileResult {
	start := time.Now()
	result := FileResult{Path: path}

	content, err := os.ReadFile(path) // #nosec G304 -- discovered path
	if err != nil {
		result.Err = fmt.Errorf("%w: %w", ErrReadHTML, err)
		result.Duration = time.Since(start)
		return result
	}

	out, err := proc.Process(ctx, string(content))
	if err != nil {
		result.Err = err
		result.Duration = time.Since(start)
		return result
	}
	result.Stats = out.Stats
	result.Size = len(out.HTML)

	switch {
	case params.dryRun:
	case params.stdout != nil:
		if _, err := io.WriteString(params.stdout, out.HTML); err != nil {
			result.Err = fmt.Errorf("%w: %w", ErrWriteHTML, err)
		}
	default:
		data := []byte(out.HTML)
		if params.onWrite != nil {
			params.onWrite(path, data)
		}
		if err := fileutil.WriteFileAtomic(path, data); err != nil {
			result.Err = fmt.Errorf("%w: %w", ErrWriteHTML, err)
			break
		}
		result.Written = true
	}

	result.Duration = time.Since(start)
	return result
}

// ResultSummary holds the count of succeeded and failed files.
type ResultSummary struct {
	Succeeded int
	Failed    int
}

// countResults tallies succeeded and failed files.
func countResults(results []FileResult) ResultSummary {
	var summary ResultSummary
	for _, r := range results {
		if r.Err != nil {
			summary.Failed++
		} else {
			summary.Succeeded++
		}
	}
	return summary
}

// printOptions selects how results are reported.
type printOptions struct {
	quiet   bool
	verbose bool
	dryRun  bool
	stdout  bool // stdout carries the document; only failures are printed
}

// printResults outputs per-file results and returns the number of failures.
func printResults(results []FileResult, opts printOptions, env *Environment) int {
	summary := countResults(results)

	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(env.Stderr, "FAILED %s: %v\n", r.Path, r.Err)
			continue
		}

		if opts.quiet || opts.stdout {
			continue
		}

		switch {
		case opts.dryRun && !r.Stats.Changed():
			fmt.Fprintf(env.Stdout, "Unchanged %s\n", r.Path)
		case opts.dryRun:
			fmt.Fprintf(env.Stdout, "Would update %s (%d mappings, %d terms linked)\n",
				r.Path, r.Stats.Mappings, r.Stats.TermsLinked)
		case opts.verbose:
			fmt.Fprintf(env.Stdout, "Processed %s (%v, %s, %d mappings, %d terms linked)\n",
				r.Path, r.Duration.Round(time.Millisecond), humanize.Bytes(uint64(r.Size)), // #nosec G115 -- length is non-negative
				r.Stats.Mappings, r.Stats.TermsLinked)
		default:
			fmt.Fprintf(env.Stdout, "Processed %s\n", r.Path)
		}
	}

	if !opts.quiet && !opts.stdout && len(results) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d succeeded, %d failed\n", summary.Succeeded, summary.Failed)
	}

	return summary.Failed
}

// firstError returns the first failure of results, if any.
func firstError(results []FileResult) error {
	for _, r := range results {
		if r.Err != nil {
			return r.Err
		}
	}
	return nil
}
