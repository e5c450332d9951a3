package main

import (
	"context"
	"fmt"
	"time"

	"github.com/alnah/go-schemadoc/internal/logger"
	"github.com/alnah/go-schemadoc/internal/watch"
)

// runWatch processes files once, then reprocesses each input whenever its
// content changes, until ctx is cancelled.
func runWatch(ctx context.Context, proc DocumentProcessor, inputs, files []string, params *batchParams, opts printOptions, debounce time.Duration, env *Environment) error {
	w, err := watch.New(watch.Config{Debounce: debounce, Logger: logger.Get()})
	if err != nil {
		return err
	}
	defer func() {
		if n := w.DroppedEvents(); n > 0 {
			logger.Warn("some changes were not reprocessed", "dropped", n)
		}
		_ = w.Close()
	}()

	if err := registerInputs(w, inputs); err != nil {
		return err
	}

	// Record processed output so our own writes are not reported back.
	if !params.dryRun {
		params.onWrite = w.Record
	}

	printResults(processBatch(ctx, proc, files, params), opts, env)

	w.Start(ctx)
	if !opts.quiet {
		fmt.Fprintf(env.Stdout, "Watching %d input(s) for changes (Ctrl+C to stop)\n", len(inputs))
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events():
			if !ok {
				return nil
			}
			if ev.Op == watch.OpRemove {
				logger.Debug("watched file removed", "path", ev.Path)
				continue
			}
			printResults(processBatch(ctx, proc, []string{ev.Path}, params), opts, env)
		}
	}
}

// registerInputs adds every positional argument to w according to its kind.
func registerInputs(w *watch.Watcher, inputs []string) error {
	for _, arg := range inputs {
		kind, err := classifyInput(arg)
		if err != nil {
			return err
		}

		switch kind {
		case inputFile:
			err = w.AddFile(arg)
		case inputDir:
			err = w.AddDir(arg)
		case inputGlob:
			err = w.AddGlob(arg)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
