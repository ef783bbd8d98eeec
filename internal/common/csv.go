// Package common provides table reading and writing shared by the commands.
package common

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"fjacquet/revenue-dash/internal/currencyutils"
	"fjacquet/revenue-dash/internal/logging"
	"fjacquet/revenue-dash/internal/models"
	"fjacquet/revenue-dash/internal/parsererror"

	"github.com/gocarina/gocsv"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/transform"
)

var log = logging.NewLogrusAdapter("info", "text")

// Supported text encodings for CSV input.
const (
	EncodingUTF8  = "utf-8"
	EncodingEUCKR = "euc-kr"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVOptions controls how CSV files are read and written.
type CSVOptions struct {
	Delimiter rune
	// Encoding is utf-8 (default) or euc-kr. cp949 is accepted as an alias of euc-kr.
	Encoding string
}

// DefaultCSVOptions returns comma-separated UTF-8.
func DefaultCSVOptions() CSVOptions {
	return CSVOptions{Delimiter: ',', Encoding: EncodingUTF8}
}

func (o CSVOptions) delimiter() rune {
	if o.Delimiter == 0 {
		return ','
	}
	return o.Delimiter
}

// SetLogger allows setting a configured logger
func SetLogger(logger logging.Logger) {
	if logger == nil {
		return
	}
	log = logger
}

// NormalizeEncoding maps the accepted encoding spellings to the package constants.
func NormalizeEncoding(name string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "utf-8", "utf8":
		return EncodingUTF8, nil
	case "euc-kr", "euckr", "cp949":
		return EncodingEUCKR, nil
	default:
		return "", fmt.Errorf("unsupported encoding %q (expected utf-8 or euc-kr)", name)
	}
}

// ReadRawCSV reads a delimited table. The first record is the header; a leading
// UTF-8 byte order mark is removed from it. Rows are padded or truncated to the
// header width.
func ReadRawCSV(r io.Reader, opts CSVOptions) (models.RawTable, error) {
	encoding, err := NormalizeEncoding(opts.Encoding)
	if err != nil {
		return models.RawTable{}, err
	}
	if encoding == EncodingEUCKR {
		r = transform.NewReader(r, korean.EUCKR.NewDecoder())
	}

	reader := csv.NewReader(r)
	reader.Comma = opts.delimiter()
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return models.RawTable{}, &parsererror.InvalidFormatError{
			ExpectedFormat: "CSV with a header row",
			Msg:            "file is empty",
		}
	}
	if err != nil {
		return models.RawTable{}, fmt.Errorf("error reading CSV header: %w", err)
	}
	header[0] = string(bytes.TrimPrefix([]byte(header[0]), utf8BOM))

	table := models.RawTable{Columns: header}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return models.RawTable{}, fmt.Errorf("error reading CSV row %d: %w", len(table.Rows)+1, err)
		}
		table.Rows = append(table.Rows, fitRow(record, len(header)))
	}

	return table, nil
}

// ReadRawCSVFile opens and reads a CSV file.
func ReadRawCSVFile(filePath string, opts CSVOptions) (models.RawTable, error) {
	log.Debug("Reading CSV file",
		logging.F(logging.FieldFile, filePath),
		logging.F(logging.FieldDelimiter, string(opts.delimiter())),
		logging.F(logging.FieldEncoding, opts.Encoding))

	file, err := os.Open(filePath) // #nosec G304 -- path comes from the command line
	if err != nil {
		return models.RawTable{}, fmt.Errorf("error opening CSV file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			log.WithError(err).Warn("Failed to close file", logging.F(logging.FieldFile, filePath))
		}
	}()

	table, err := ReadRawCSV(file, opts)
	if err != nil {
		var formatErr *parsererror.InvalidFormatError
		if errors.As(err, &formatErr) {
			formatErr.FilePath = filePath
		}
		return models.RawTable{}, err
	}
	return table, nil
}

func fitRow(record []string, width int) []string {
	if len(record) == width {
		return record
	}
	row := make([]string, width)
	copy(row, record)
	return row
}

// PreviewRow is one line of the canonical CSV output.
type PreviewRow struct {
	PeriodLabel       string `csv:"period_label" json:"period_label" yaml:"period_label"`
	Revenue           string `csv:"revenue" json:"revenue" yaml:"revenue"`
	PriorYearRevenue  string `csv:"prior_year_revenue" json:"prior_year_revenue" yaml:"prior_year_revenue"`
	YoYPercent        string `csv:"yoy_percent" json:"yoy_percent" yaml:"yoy_percent"`
	Delta             string `csv:"delta" json:"delta" yaml:"delta"`
	CumulativeRevenue string `csv:"cumulative_revenue" json:"cumulative_revenue" yaml:"cumulative_revenue"`
}

// NewPreviewRows converts records to their CSV representation; null values are empty.
func NewPreviewRows(records []models.CanonicalRecord) []PreviewRow {
	rows := make([]PreviewRow, len(records))
	for i, rec := range records {
		rows[i] = PreviewRow{
			PeriodLabel:       rec.PeriodLabel,
			Revenue:           models.FormatNullable(rec.Revenue),
			PriorYearRevenue:  models.FormatNullable(rec.PriorYearRevenue),
			YoYPercent:        models.FormatNullable(rec.YoYPercent),
			Delta:             models.FormatNullable(rec.Delta),
			CumulativeRevenue: models.FormatNullable(rec.CumulativeRevenue),
		}
	}
	return rows
}

// WriteRecordsCSV writes canonical records with a header row.
func WriteRecordsCSV(records []models.CanonicalRecord, w io.Writer, opts CSVOptions) error {
	if records == nil {
		return fmt.Errorf("cannot write nil records to CSV")
	}

	csvWriter := csv.NewWriter(w)
	csvWriter.Comma = opts.delimiter()

	if err := gocsv.MarshalCSV(NewPreviewRows(records), gocsv.NewSafeCSVWriter(csvWriter)); err != nil {
		return fmt.Errorf("error writing CSV data: %w", err)
	}
	csvWriter.Flush()
	return csvWriter.Error()
}

// WriteRecordsCSVFile writes canonical records to a file, creating its directory.
func WriteRecordsCSVFile(records []models.CanonicalRecord, csvFile string, opts CSVOptions) error {
	log.Info("Writing records to CSV file",
		logging.F(logging.FieldFile, csvFile),
		logging.F(logging.FieldCount, len(records)))

	if err := os.MkdirAll(filepath.Dir(csvFile), 0750); err != nil {
		return fmt.Errorf("error creating directory: %w", err)
	}

	file, err := os.Create(csvFile) // #nosec G304 -- path comes from the command line
	if err != nil {
		return fmt.Errorf("error creating CSV file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			log.WithError(err).Warn("Failed to close file", logging.F(logging.FieldFile, csvFile))
		}
	}()

	return WriteRecordsCSV(records, file, opts)
}

// FormatPreviewRows renders records for people: won amounts, percentages, "-" for null.
func FormatPreviewRows(records []models.CanonicalRecord) []PreviewRow {
	rows := make([]PreviewRow, len(records))
	for i, rec := range records {
		label := rec.PeriodLabel
		if label == "" {
			label = rec.Period.String()
		}
		rows[i] = PreviewRow{
			PeriodLabel:       label,
			Revenue:           currencyutils.FormatNullableWon(rec.Revenue),
			PriorYearRevenue:  currencyutils.FormatNullableWon(rec.PriorYearRevenue),
			YoYPercent:        currencyutils.FormatPercent(rec.YoYPercent),
			Delta:             currencyutils.FormatNullableWon(rec.Delta),
			CumulativeRevenue: currencyutils.FormatNullableWon(rec.CumulativeRevenue),
		}
	}
	return rows
}
