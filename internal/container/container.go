// Package container provides dependency injection for the revenue-dash application.
// It centralizes the creation and wiring of all application dependencies,
// making them explicit and testable.
package container

import (
	"context"
	"fmt"

	"fjacquet/revenue-dash/internal/batch"
	"fjacquet/revenue-dash/internal/common"
	"fjacquet/revenue-dash/internal/config"
	"fjacquet/revenue-dash/internal/insight"
	"fjacquet/revenue-dash/internal/logging"
	"fjacquet/revenue-dash/internal/models"
	"fjacquet/revenue-dash/internal/preparer"
	"fjacquet/revenue-dash/internal/report"
	"fjacquet/revenue-dash/internal/store"
)

// Container holds all application dependencies and provides methods to access them.
//
// Container is immutable after creation - all fields are private and can only
// be accessed through getter methods.
type Container struct {
	logger     logging.Logger
	config     *config.Config
	store      store.SynonymRepository
	synonyms   preparer.SynonymTable
	preparer   *preparer.Preparer
	reporter   *report.ReportGenerator
	aggregator *batch.BatchAggregator
	insight    insight.Client
	csvOptions common.CSVOptions
}

// Option overrides a dependency before wiring, mostly for tests.
type Option func(*options)

type options struct {
	logger  logging.Logger
	store   store.SynonymRepository
	insight insight.Client
}

// WithLogger replaces the logger built from the configuration.
func WithLogger(logger logging.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithSynonymRepository replaces the file-backed synonym store.
func WithSynonymRepository(repo store.SynonymRepository) Option {
	return func(o *options) { o.store = repo }
}

// WithInsightClient replaces the Gemini client, even when AI is disabled.
func WithInsightClient(client insight.Client) Option {
	return func(o *options) { o.insight = client }
}

// NewContainer creates and wires all application dependencies.
//
// Extra synonyms from the store are merged after the built-in ones, so a broken
// synonyms file fails here rather than on the first table.
func NewContainer(cfg *config.Config, opts ...Option) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	// Create logger first as it's needed by other components
	logger := o.logger
	if logger == nil {
		logger = config.ConfigureLoggingFromConfig(cfg)
	}
	common.SetLogger(logger)

	encoding, err := common.NormalizeEncoding(cfg.CSV.Encoding)
	if err != nil {
		return nil, err
	}
	csvOptions := common.CSVOptions{Delimiter: cfg.DelimiterRune(), Encoding: encoding}

	synonymStore := o.store
	if synonymStore == nil {
		synonymStore = store.NewSynonymStore(cfg.Synonyms.File, logger)
	}
	extra, err := synonymStore.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load synonyms: %w", err)
	}
	defaults := preparer.DefaultSynonyms()
	for _, field := range models.RequiredFields {
		for _, name := range extra[field] {
			if owner, ok := defaults.FieldOf(name); ok && owner != field {
				logger.Warn("Ignoring stored synonym already accepted for another field",
					logging.F(logging.FieldField, string(field)),
					logging.F(logging.FieldValue, name),
					logging.F("accepted_for", string(owner)))
			}
		}
	}
	synonyms := defaults.Merge(extra)

	prep := preparer.NewPreparer(synonyms, logger)

	aiClient := o.insight
	if aiClient == nil && cfg.AI.Enabled && cfg.AI.APIKey != "" {
		gemini, err := insight.NewGeminiClient(context.Background(), cfg.AI.APIKey, cfg.AI.Model, cfg.AI.Timeout(), logger)
		if err != nil {
			return nil, err
		}
		aiClient = gemini
		logger.Info("AI executive summary enabled", logging.F(logging.FieldModel, cfg.AI.Model))
	} else if aiClient == nil {
		logger.Debug("AI executive summary disabled")
	}

	logger.Debug("Container initialized successfully",
		logging.F("extra_synonyms", len(extra)),
		logging.F("ai_enabled", aiClient != nil))

	return &Container{
		logger:     logger,
		config:     cfg,
		store:      synonymStore,
		synonyms:   synonyms,
		preparer:   prep,
		reporter:   report.NewReportGenerator(logger),
		aggregator: batch.NewBatchAggregator(prep, csvOptions, logger),
		insight:    aiClient,
		csvOptions: csvOptions,
	}, nil
}

// GetLogger returns the container's logger instance.
func (c *Container) GetLogger() logging.Logger {
	return c.logger
}

// GetConfig returns the container's configuration instance.
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetStore returns the synonym store.
func (c *Container) GetStore() store.SynonymRepository {
	return c.store
}

// GetSynonyms returns the built-in synonyms merged with the stored ones.
func (c *Container) GetSynonyms() preparer.SynonymTable {
	return c.synonyms
}

// GetPreparer returns the preparer wired with the merged synonyms.
func (c *Container) GetPreparer() *preparer.Preparer {
	return c.preparer
}

// GetReportGenerator returns the report generator.
func (c *Container) GetReportGenerator() *report.ReportGenerator {
	return c.reporter
}

// GetBatchAggregator returns the directory processor.
func (c *Container) GetBatchAggregator() *batch.BatchAggregator {
	return c.aggregator
}

// GetInsightClient returns the executive summary client.
// Returns nil if AI is not enabled.
func (c *Container) GetInsightClient() insight.Client {
	return c.insight
}

// GetCSVOptions returns the CSV delimiter and encoding from the configuration.
func (c *Container) GetCSVOptions() common.CSVOptions {
	return c.csvOptions
}

// Close releases the insight client connection, if any.
func (c *Container) Close() error {
	if closer, ok := c.insight.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			return fmt.Errorf("failed to close insight client: %w", err)
		}
	}
	return nil
}
