package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	flag "github.com/spf13/pflag"
	"github.com/tidwall/pretty"

	"github.com/alnah/go-schemadoc/internal/report"
)

// runTermsCmd lists the ontology mappings of one processed page.
func runTermsCmd(args []string, env *Environment) error {
	f, positional, err := parseTermsFlags(args, env)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrInvalidFlags, err)
	}
	if len(positional) != 1 {
		return fmt.Errorf("%w: terms takes exactly one file, got %d", ErrInvalidFlags, len(positional))
	}

	path := positional[0]

	file, err := os.Open(path) // #nosec G304 -- user-provided path
	if err != nil {
		return fmt.Errorf("%w: %w", ErrReadHTML, err)
	}
	defer file.Close()

	rep, err := report.Collect(file)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrReadHTML, err)
	}

	if f.json {
		return writeJSON(env.Stdout, rep)
	}
	if len(rep.Mappings) == 0 && len(rep.Unprocessed) == 0 {
		fmt.Fprintf(env.Stdout, "No ontology mappings found in %s\n", path)
		return nil
	}
	return rep.WriteText(env.Stdout)
}

// writeJSON writes v as indented JSON, colorized when w is a terminal.
func writeJSON(w io.Writer, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}

	data = pretty.Pretty(data)
	if isTerminal(w) {
		data = pretty.Color(data, nil)
	}

	_, err = w.Write(data)
	return err
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
