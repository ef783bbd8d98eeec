package preparer

import (
	"errors"

	"fjacquet/revenue-dash/internal/logging"
	"fjacquet/revenue-dash/internal/models"
	"fjacquet/revenue-dash/internal/parsererror"
)

// Preparer runs the preparation pipeline with a fixed synonym table and reports
// what happened through its logger.
type Preparer struct {
	synonyms SynonymTable
	logger   logging.Logger
}

// NewPreparer creates a Preparer. A nil synonym table means DefaultSynonyms and a nil
// logger means a logrus logger at info level.
func NewPreparer(synonyms SynonymTable, logger logging.Logger) *Preparer {
	if synonyms == nil {
		synonyms = DefaultSynonyms()
	}
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &Preparer{synonyms: synonyms, logger: logger}
}

// SetLogger replaces the logger; nil is ignored.
func (p *Preparer) SetLogger(logger logging.Logger) {
	if logger != nil {
		p.logger = logger
	}
}

// Synonyms returns the table used for column matching.
func (p *Preparer) Synonyms() SynonymTable {
	return p.synonyms
}

// Prepare normalizes, orders and derives the given table.
func (p *Preparer) Prepare(raw models.RawTable) (*Result, error) {
	p.logger.Debug("Preparing revenue table",
		logging.F(logging.FieldCount, raw.Len()),
		logging.F(logging.FieldColumn, raw.Columns))

	result, err := Prepare(raw, p.synonyms)
	if err != nil {
		var missing *parsererror.MissingColumnsError
		if errors.As(err, &missing) {
			p.logger.Error("Required columns are missing",
				logging.F(logging.FieldMissing, missing.Fields),
				logging.F(logging.FieldColumn, raw.Columns))
		}
		return nil, err
	}

	if pw := result.PeriodWarning(); pw != nil {
		p.logger.Warn("Some period values could not be parsed as a month (YYYY-MM recommended)",
			logging.F(logging.FieldCount, pw.Count),
			logging.F(logging.FieldValue, pw.Values))
	}
	for _, vw := range result.ValueWarnings() {
		p.logger.WithError(vw.Err).Warn("Non-numeric value treated as missing",
			logging.F(logging.FieldRow, vw.Row),
			logging.F(logging.FieldField, vw.Field),
			logging.F(logging.FieldValue, vw.Value))
	}

	p.logger.Info("Prepared revenue table",
		logging.F(logging.FieldCount, len(result.Records)),
		logging.F("warnings", len(result.Warnings)))

	return result, nil
}
