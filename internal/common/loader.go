package common

import (
	"path/filepath"
	"strings"

	"fjacquet/revenue-dash/internal/logging"
	"fjacquet/revenue-dash/internal/models"
	"fjacquet/revenue-dash/internal/parsererror"
)

// Supported input file extensions.
const (
	ExtCSV  = ".csv"
	ExtXLSX = ".xlsx"
)

// IsSupportedFile reports whether LoadTable can read the file, by extension.
func IsSupportedFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ExtCSV, ExtXLSX:
		return true
	default:
		return false
	}
}

// LoadTable reads a CSV or XLSX file into a raw table.
func LoadTable(path string, opts CSVOptions) (models.RawTable, error) {
	ext := strings.ToLower(filepath.Ext(path))
	log.Info("Loading revenue table",
		logging.F(logging.FieldFile, path),
		logging.F(logging.FieldFormat, strings.TrimPrefix(ext, ".")))

	switch ext {
	case ExtCSV:
		return ReadRawCSVFile(path, opts)
	case ExtXLSX:
		return ReadRawXLSXFile(path)
	default:
		return models.RawTable{}, &parsererror.InvalidFormatError{
			FilePath:       path,
			ExpectedFormat: "CSV (.csv) or Excel (.xlsx)",
			Msg:            "unsupported file extension " + ext,
		}
	}
}
