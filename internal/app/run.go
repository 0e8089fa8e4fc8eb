package app

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/davecgh/go-spew/spew"

	"github.com/vk/logdissect/internal/ctxlog"
)

// Run executes the main application logic based on the provided configuration.
func (a *App) Run(ctx context.Context, appConfig *Config) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	if appConfig.ShowPaths {
		return a.showPossiblePaths(appConfig.MaxDepth)
	}

	if err := a.parser.Compile(); err != nil {
		return fmt.Errorf("failed to compile dissection plan: %w", err)
	}
	a.logger.Debug("Dissection plan compiled.",
		"intermediates", a.parser.UsefulIntermediateFields())

	in, closeIn, err := openInput(appConfig.InputPath)
	if err != nil {
		return err
	}
	defer closeIn()

	a.logger.Info("Starting record dissection.", "output", appConfig.Output)

	scanner := bufio.NewScanner(in)
	lineNo := 0
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		lineNo++
		line := scanner.Text()
		if line == "" {
			continue
		}

		record, err := a.parser.Parse(line)
		if err != nil {
			// A failed record is fatal to that record only.
			a.logger.Error("Failed to dissect record.", "line", lineNo, "error", err)
			continue
		}

		if appConfig.Debug {
			spew.Fdump(a.outW, record)
			continue
		}
		if err := a.emit(record, appConfig.Output); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed reading input: %w", err)
	}

	a.logger.Info("Dissection finished.", "records", lineNo)
	return nil
}

// showPossiblePaths prints every identifier reachable from the root type.
func (a *App) showPossiblePaths(maxDepth int) error {
	for _, path := range a.parser.PossiblePaths(maxDepth) {
		if _, err := fmt.Fprintln(a.outW, path); err != nil {
			return err
		}
	}
	return nil
}

// emit writes one record as a JSON object or as sorted "key = value" lines.
func (a *App) emit(record *Record, format string) error {
	if format == "json" {
		encoded, err := json.Marshal(record.Fields)
		if err != nil {
			return fmt.Errorf("failed to encode record: %w", err)
		}
		_, err = fmt.Fprintln(a.outW, string(encoded))
		return err
	}

	keys := make([]string, 0, len(record.Fields))
	for k := range record.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if _, err := fmt.Fprintf(a.outW, "%s = %q\n", k, record.Fields[k]); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(a.outW)
	return err
}

// openInput returns the record source: a file when path is set, else stdin.
func openInput(path string) (io.Reader, func(), error) {
	if path == "" {
		return os.Stdin, func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open input %s: %w", path, err)
	}
	return f, func() { f.Close() }, nil
}
