// Package validation checks command-line inputs before any work is done.
package validation

import (
	"fmt"
	"os"
	"strings"
	"unicode/utf8"
)

// IsValidInputFile checks that path is an existing regular file accepted by supported.
func IsValidInputFile(path string, supported func(string) bool) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return fmt.Errorf("path does not exist: %s", path)
	}
	if err != nil {
		return fmt.Errorf("error checking path %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("path %s is not a regular file", path)
	}
	if supported != nil && !supported(path) {
		return fmt.Errorf("unsupported input file: %s. Supported formats are .csv and .xlsx", path)
	}
	return nil
}

// IsValidDirectory checks that path is an existing directory.
func IsValidDirectory(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return fmt.Errorf("directory does not exist: %s", path)
	}
	if err != nil {
		return fmt.Errorf("error checking path %s: %w", path, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("path %s is not a directory", path)
	}
	return nil
}

// IsValidOutputFormat checks if the given report format is supported.
func IsValidOutputFormat(format string) error {
	switch strings.ToLower(format) {
	case "text", "json", "yaml", "yml":
		return nil
	default:
		return fmt.Errorf("unsupported output format: %s. Supported formats are 'text', 'json', 'yaml'", format)
	}
}

// IsValidDelimiter checks that a delimiter is exactly one character other than a quote
// or line break.
func IsValidDelimiter(delimiter string) error {
	if utf8.RuneCountInString(delimiter) != 1 {
		return fmt.Errorf("delimiter must be a single character, got %q", delimiter)
	}
	switch delimiter {
	case "\"", "\r", "\n":
		return fmt.Errorf("invalid delimiter %q", delimiter)
	}
	return nil
}
