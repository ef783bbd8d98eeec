// Package common contains shared functionality for command handlers
package common

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"fjacquet/revenue-dash/cmd/root"
	"fjacquet/revenue-dash/internal/common"
	"fjacquet/revenue-dash/internal/container"
	"fjacquet/revenue-dash/internal/fileutils"
	"fjacquet/revenue-dash/internal/logging"
	"fjacquet/revenue-dash/internal/preparer"
	"fjacquet/revenue-dash/internal/validation"
)

// DemoSource names the built-in table in reports.
const DemoSource = "demo"

// LoadAndPrepare reads the table selected by the flags (the demo table or the input
// file) and runs it through the container's preparer. It returns the source name
// used in reports.
func LoadAndPrepare(c *container.Container, flags root.CommonFlags) (string, *preparer.Result, error) {
	if c == nil {
		return "", nil, fmt.Errorf("container not initialized")
	}

	source := DemoSource
	raw := common.DemoTable()
	if !flags.Demo {
		if flags.Input == "" {
			return "", nil, fmt.Errorf("an input file is required (use --input or --demo)")
		}
		if err := validation.IsValidInputFile(flags.Input, common.IsSupportedFile); err != nil {
			return "", nil, err
		}
		var err error
		raw, err = common.LoadTable(flags.Input, c.GetCSVOptions())
		if err != nil {
			return "", nil, err
		}
		source = flags.Input
	}

	result, err := c.GetPreparer().Prepare(raw)
	if err != nil {
		return "", nil, err
	}
	return source, result, nil
}

// OpenOutput returns a writer for path, or stdout when path is empty. The returned
// close function must always be called.
func OpenOutput(path string, stdout io.Writer) (io.Writer, func() error, error) {
	if path == "" {
		return stdout, func() error { return nil }, nil
	}
	if err := fileutils.EnsureDirectoryExists(filepath.Dir(path)); err != nil {
		return nil, nil, err
	}
	file, err := os.Create(path) // #nosec G304 -- CLI tool requires user-provided file paths
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return file, file.Close, nil
}

// WriteOutput writes data to path, or to stdout when path is empty.
func WriteOutput(path string, stdout io.Writer, data []byte, logger logging.Logger) error {
	w, closeFn, err := OpenOutput(path, stdout)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		_ = closeFn()
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := closeFn(); err != nil {
		return fmt.Errorf("failed to close output: %w", err)
	}
	if path != "" && logger != nil {
		logger.Info("Output written", logging.F(logging.FieldFile, path))
	}
	return nil
}
