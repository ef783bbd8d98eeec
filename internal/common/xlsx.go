package common

import (
	"errors"
	"fmt"
	"io"
	"os"

	"fjacquet/revenue-dash/internal/logging"
	"fjacquet/revenue-dash/internal/models"
	"fjacquet/revenue-dash/internal/parsererror"

	"github.com/xuri/excelize/v2"
)

// ReadRawXLSX reads the first sheet of a workbook. The first row is the header and
// cells are taken as displayed, so formatted numbers keep their separators.
func ReadRawXLSX(r io.Reader) (models.RawTable, error) {
	file, err := excelize.OpenReader(r)
	if err != nil {
		return models.RawTable{}, &parsererror.InvalidFormatError{
			ExpectedFormat: "XLSX workbook",
			Msg:            err.Error(),
		}
	}
	defer func() {
		if err := file.Close(); err != nil {
			log.WithError(err).Warn("Failed to close workbook")
		}
	}()

	sheet := file.GetSheetName(0)
	if sheet == "" {
		return models.RawTable{}, &parsererror.InvalidFormatError{
			ExpectedFormat: "XLSX workbook",
			Msg:            "workbook has no sheets",
		}
	}

	rows, err := file.GetRows(sheet)
	if err != nil {
		return models.RawTable{}, fmt.Errorf("error reading sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return models.RawTable{}, &parsererror.InvalidFormatError{
			ExpectedFormat: "XLSX workbook with a header row",
			Msg:            fmt.Sprintf("sheet %q is empty", sheet),
		}
	}

	header := rows[0]
	table := models.RawTable{Columns: header}
	for _, row := range rows[1:] {
		if isBlankRow(row) {
			continue
		}
		table.Rows = append(table.Rows, fitRow(row, len(header)))
	}

	log.Debug("Read XLSX sheet",
		logging.F("sheet", sheet),
		logging.F(logging.FieldCount, len(table.Rows)))

	return table, nil
}

// ReadRawXLSXFile opens and reads a workbook file.
func ReadRawXLSXFile(filePath string) (models.RawTable, error) {
	file, err := os.Open(filePath) // #nosec G304 -- path comes from the command line
	if err != nil {
		return models.RawTable{}, fmt.Errorf("error opening XLSX file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			log.WithError(err).Warn("Failed to close file", logging.F(logging.FieldFile, filePath))
		}
	}()

	table, err := ReadRawXLSX(file)
	if err != nil {
		var formatErr *parsererror.InvalidFormatError
		if errors.As(err, &formatErr) {
			formatErr.FilePath = filePath
		}
		return models.RawTable{}, err
	}
	return table, nil
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if cell != "" {
			return false
		}
	}
	return true
}
