package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/alnah/go-schemadoc/internal/fileutil"
	"github.com/alnah/go-schemadoc/internal/hints"
	"github.com/bmatcuk/doublestar/v4"
)

// MaxWorkers bounds --workers and SCHEMADOC_WORKERS.
const MaxWorkers = 64

// ErrInvalidWorkerCount is returned for --workers outside [0, MaxWorkers].
var ErrInvalidWorkerCount = errors.New("invalid worker count")

// inputKind classifies a positional argument.
type inputKind int

const (
	inputFile inputKind = iota
	inputDir
	inputGlob
)

// classifyInput reports how arg is expanded into files.
// An existing path is taken literally, even when its name holds glob
// metacharacters. Explicitly named files are accepted whatever their
// extension; the HTML filter only applies to directory and glob discovery.
func classifyInput(arg string) (inputKind, error) {
	info, err := os.Stat(arg)
	if err == nil {
		if info.IsDir() {
			return inputDir, nil
		}
		return inputFile, nil
	}

	if hasGlobMeta(arg) {
		if !doublestar.ValidatePathPattern(arg) {
			return 0, fmt.Errorf("%w: %s", doublestar.ErrBadPattern, arg)
		}
		return inputGlob, nil
	}
	return 0, fmt.Errorf("%w%s", err, hints.ForInputNotFound())
}

// discoverFiles expands files, directories and glob patterns into the files
// to process, de-duplicated and in argument order.
func discoverFiles(args []string) ([]string, error) {
	var files []string
	seen := make(map[string]bool)
	add := func(path string) {
		path = filepath.Clean(path)
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}

	for _, arg := range args {
		kind, err := classifyInput(arg)
		if err != nil {
			return nil, err
		}

		switch kind {
		case inputFile:
			add(arg)

		case inputDir:
			err := filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
				if err != nil {
					return fmt.Errorf("scanning %s: %w", path, err)
				}
				if !d.IsDir() && fileutil.IsHTMLFile(path) {
					add(path)
				}
				return nil
			})
			if err != nil {
				return nil, err
			}

		case inputGlob:
			matches, err := doublestar.FilepathGlob(arg, doublestar.WithFilesOnly())
			if err != nil {
				return nil, fmt.Errorf("expanding %s: %w", arg, err)
			}
			for _, m := range matches {
				if fileutil.IsHTMLFile(m) {
					add(m)
				}
			}
		}
	}

	return files, nil
}

// hasGlobMeta reports whether arg contains doublestar metacharacters.
func hasGlobMeta(arg string) bool {
	return strings.ContainsAny(arg, "*?[{")
}

// validateWorkers checks that the worker count is within valid bounds.
func validateWorkers(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d (must be >= 0, 0 means auto)", ErrInvalidWorkerCount, n)
	}
	if n > MaxWorkers {
		return fmt.Errorf("%w: %d (maximum is %d)", ErrInvalidWorkerCount, n, MaxWorkers)
	}
	return nil
}

// resolveWorkers determines the number of concurrent workers.
// Priority: explicit flag > environment > GOMAXPROCS (adjusted by automaxprocs
// for containers). Processing is CPU-bound, so auto uses every available core.
func resolveWorkers(flagWorkers, envWorkers int) int {
	if flagWorkers > 0 {
		return flagWorkers
	}
	if envWorkers > 0 {
		return min(envWorkers, MaxWorkers)
	}
	return max(1, min(runtime.GOMAXPROCS(0), MaxWorkers))
}
