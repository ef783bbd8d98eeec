// Package batch prepares every revenue table in a directory and can merge the
// results into one continuous series.
package batch

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"

	"fjacquet/revenue-dash/internal/common"
	"fjacquet/revenue-dash/internal/fileutils"
	"fjacquet/revenue-dash/internal/logging"
	"fjacquet/revenue-dash/internal/models"
	"fjacquet/revenue-dash/internal/parsererror"
	"fjacquet/revenue-dash/internal/preparer"
)

// OutputSuffix is appended to the input base name of each prepared file.
const OutputSuffix = "-prepared.csv"

// MergedFileName is the output name of a merged series.
const MergedFileName = "merged" + OutputSuffix

// PeriodRange is the first and last known month of a table.
type PeriodRange struct {
	First models.Period
	Last  models.Period
}

// RangeOf returns the range of the valid periods in records.
func RangeOf(records []models.CanonicalRecord) PeriodRange {
	var r PeriodRange
	for _, rec := range records {
		r = r.Merge(PeriodRange{First: rec.Period, Last: rec.Period})
	}
	return r
}

// String returns the range as "YYYY-MM_YYYY-MM", or "" when it is empty.
func (pr PeriodRange) String() string {
	if !pr.First.Valid || !pr.Last.Valid {
		return ""
	}
	return fmt.Sprintf("%s_%s", pr.First.Label(), pr.Last.Label())
}

// Merge combines this range with another, returning the overall range
func (pr PeriodRange) Merge(other PeriodRange) PeriodRange {
	first, last := pr.First, pr.Last

	if !first.Valid || (other.First.Valid && other.First.Before(first)) {
		first = other.First
	}
	if !last.Valid || (other.Last.Valid && last.Before(other.Last)) {
		last = other.Last
	}

	return PeriodRange{First: first, Last: last}
}

// FileResult describes one prepared file.
type FileResult struct {
	Input    string
	Output   string
	Records  []models.CanonicalRecord
	Range    PeriodRange
	Warnings []error
}

// FileFailure is a file that could not be prepared.
type FileFailure struct {
	Input string
	Err   error
}

// Result is the outcome of a directory run.
type Result struct {
	Processed []FileResult
	Failed    []FileFailure
}

// WarningCount returns the number of warnings over all processed files.
func (r *Result) WarningCount() int {
	n := 0
	for _, f := range r.Processed {
		n += len(f.Warnings)
	}
	return n
}

// BatchAggregator prepares files one after another with a shared Preparer.
type BatchAggregator struct {
	preparer *preparer.Preparer
	csvOpts  common.CSVOptions
	logger   logging.Logger
}

// NewBatchAggregator creates a new BatchAggregator instance
func NewBatchAggregator(p *preparer.Preparer, csvOpts common.CSVOptions, logger logging.Logger) *BatchAggregator {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	if p == nil {
		p = preparer.NewPreparer(nil, logger)
	}
	return &BatchAggregator{preparer: p, csvOpts: csvOpts, logger: logger}
}

// PrepareFile loads and prepares a single file without writing anything.
func (ba *BatchAggregator) PrepareFile(input string) (FileResult, error) {
	raw, err := common.LoadTable(input, ba.csvOpts)
	if err != nil {
		return FileResult{}, err
	}
	result, err := ba.preparer.Prepare(raw)
	if err != nil {
		return FileResult{}, err
	}
	return FileResult{
		Input:    input,
		Records:  result.Records,
		Range:    RangeOf(result.Records),
		Warnings: result.Warnings,
	}, nil
}

// ProcessFile prepares input and writes the canonical CSV into outDir.
func (ba *BatchAggregator) ProcessFile(input, outDir string) (FileResult, error) {
	return ba.processFile(input, fileutils.OutputPath(input, outDir, OutputSuffix))
}

func (ba *BatchAggregator) processFile(input, output string) (FileResult, error) {
	fr, err := ba.PrepareFile(input)
	if err != nil {
		return FileResult{}, err
	}

	fr.Output = output
	if err := common.WriteRecordsCSVFile(fr.Records, fr.Output, ba.csvOpts); err != nil {
		return FileResult{}, err
	}
	return fr, nil
}

// outputFor picks the output path of input. The default "<name>-prepared.csv" is
// used unless an earlier file of the run or the merged series already owns it, in
// which case the source extension is kept ("<name>.xlsx-prepared.csv").
func outputFor(input, outDir string, taken map[string]string) (string, error) {
	candidates := []string{
		fileutils.OutputPath(input, outDir, OutputSuffix),
		filepath.Join(outDir, filepath.Base(input)+OutputSuffix),
	}
	for _, output := range candidates {
		if _, ok := taken[output]; !ok {
			return output, nil
		}
	}
	return "", fmt.Errorf("output %s is already written for %s", filepath.Base(candidates[0]), taken[candidates[0]])
}

// ProcessDirectory prepares every .csv and .xlsx file directly inside inDir, in
// name order. No two files, nor a file and MergedFileName, share an output path.
// A file that fails is recorded in Result.Failed and the run goes on; only
// problems with the directories themselves are returned as errors.
func (ba *BatchAggregator) ProcessDirectory(inDir, outDir string) (*Result, error) {
	files, err := fileutils.ListFiles(inDir, common.IsSupportedFile)
	if err != nil {
		return nil, err
	}
	if err := fileutils.EnsureDirectoryExists(outDir); err != nil {
		return nil, err
	}

	ba.logger.Info("Processing directory",
		logging.F(logging.FieldInputDir, inDir),
		logging.F(logging.FieldOutputDir, outDir),
		logging.F(logging.FieldCount, len(files)))

	result := &Result{}
	taken := map[string]string{filepath.Join(outDir, MergedFileName): "the merged series"}
	for _, file := range files {
		output, err := outputFor(file, outDir, taken)
		if err != nil {
			ba.logFailure(file, err)
			result.Failed = append(result.Failed, FileFailure{Input: file, Err: err})
			continue
		}
		if output != fileutils.OutputPath(file, outDir, OutputSuffix) {
			ba.logger.Warn("Output name already used, keeping the source extension",
				logging.F(logging.FieldFile, filepath.Base(file)),
				logging.F("output", filepath.Base(output)))
		}
		taken[output] = filepath.Base(file)

		fr, err := ba.processFile(file, output)
		if err != nil {
			ba.logFailure(file, err)
			result.Failed = append(result.Failed, FileFailure{Input: file, Err: err})
			continue
		}
		ba.logger.Info("Prepared file",
			logging.F(logging.FieldFile, filepath.Base(file)),
			logging.F(logging.FieldCount, len(fr.Records)),
			logging.F("range", fr.Range.String()))
		result.Processed = append(result.Processed, fr)
	}

	ba.logger.Info("Directory processed",
		logging.F("processed", len(result.Processed)),
		logging.F("failed", len(result.Failed)),
		logging.F("warnings", result.WarningCount()))

	return result, nil
}

func (ba *BatchAggregator) logFailure(file string, err error) {
	var missing *parsererror.MissingColumnsError
	if errors.As(err, &missing) {
		ba.logger.Warn("Skipping file without the required columns",
			logging.F(logging.FieldFile, filepath.Base(file)),
			logging.F(logging.FieldMissing, missing.Fields))
		return
	}
	ba.logger.WithError(err).Error("Failed to process file",
		logging.F(logging.FieldFile, file))
}

// AggregateRecords merges the records of several files into one series: they are
// re-sorted by period (unknown last, file order kept on ties) and the derived
// metrics are recomputed over the merged order. Months present in more than one
// file are kept and logged.
func (ba *BatchAggregator) AggregateRecords(files []FileResult) []models.CanonicalRecord {
	var all []models.CanonicalRecord
	for _, f := range files {
		all = append(all, f.Records...)
	}

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Period.Before(all[j].Period)
	})

	ba.detectAndLogDuplicates(all)

	ba.logger.Info("Merged prepared files",
		logging.F(logging.FieldCount, len(all)),
		logging.F("files", len(files)))

	return preparer.DeriveMetrics(all)
}

// detectAndLogDuplicates reports months that appear more than once in sorted records.
func (ba *BatchAggregator) detectAndLogDuplicates(sorted []models.CanonicalRecord) {
	for i := 1; i < len(sorted); i++ {
		prev, cur := sorted[i-1].Period, sorted[i].Period
		if cur.Valid && prev.Valid && prev.Compare(cur) == 0 {
			ba.logger.Warn("Duplicate month across merged files",
				logging.F(logging.FieldValue, cur.Label()))
		}
	}
}
