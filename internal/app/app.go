// Package app wires the merge pipeline: validation, the two parsers,
// the rule engine, the aggregator, the merger and the exporters. One
// Run call is one complete report; there is no state between runs.
package app

import (
	"context"
	"log/slog"
	"time"

	"dmreport/internal/config"
	"dmreport/internal/dataprocessing"
	"dmreport/internal/exporter"
	"dmreport/internal/infrastructure"
	"dmreport/internal/validation"
	"dmreport/pkg/contracts/domain"
)

// Options are the invocation paths of one run. CSVPath is optional.
type Options struct {
	TopMPath    string
	AddisonPath string
	OutputPath  string
	CSVPath     string
}

// App is the assembled pipeline.
type App struct {
	cfg    *config.Config
	logger *slog.Logger

	validator  *validation.FileValidator
	rules      *dataprocessing.RuleEngine
	aggregator *dataprocessing.Aggregator
	merger     *dataprocessing.Merger
	excel      *exporter.ExcelWriter
	csv        *exporter.CSVWriter
}

// New builds the application container. The column-treatment
// declaration is validated here, before any file is touched.
func New(cfg *config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}

	aggregator, err := dataprocessing.NewAggregator(dataprocessing.DefaultColumnRules(), logger)
	if err != nil {
		return nil, err
	}

	return &App{
		cfg:        cfg,
		logger:     logger,
		validator:  validation.NewFileValidator(logger),
		rules:      dataprocessing.NewRuleEngine(logger),
		aggregator: aggregator,
		merger:     dataprocessing.NewMerger(logger),
		excel:      exporter.NewExcelWriter(cfg.Report, logger),
		csv:        exporter.NewCSVWriter(logger),
	}, nil
}

// Run executes the pipeline once: validate paths, load both exports,
// classify, aggregate, merge, export. Any error aborts the run before
// an output file is produced.
func (a *App) Run(ctx context.Context, opts Options) error {
	runID := infrastructure.GetRunID(ctx)
	if runID == "" {
		runID = infrastructure.GenerateRunID()
	}
	logger := a.logger.With(slog.String("run_id", runID))
	start := time.Now()

	logger.Info("Starting report run",
		slog.String("topm", opts.TopMPath),
		slog.String("addison", opts.AddisonPath),
		slog.String("output", opts.OutputPath))

	// Pre-flight: surface path problems before any parsing work
	if err := a.validator.ValidateInputFile(opts.TopMPath); err != nil {
		return err
	}
	if err := a.validator.ValidateInputFile(opts.AddisonPath); err != nil {
		return err
	}
	if err := a.validator.ValidateOutputPath(opts.OutputPath); err != nil {
		return err
	}
	if opts.CSVPath != "" {
		if err := a.validator.ValidateOutputPath(opts.CSVPath); err != nil {
			return err
		}
	}

	topmRows, err := dataprocessing.ParseTopMFile(opts.TopMPath, logger)
	if err != nil {
		return err
	}

	classified, err := a.rules.ClassifyAll(topmRows)
	if err != nil {
		return err
	}

	aggregates := a.aggregator.Aggregate(classified)

	addisonRows, err := dataprocessing.ParseAddisonFile(opts.AddisonPath, logger)
	if err != nil {
		return err
	}
	figures := dataprocessing.PivotAddison(addisonRows)

	report := &domain.Report{
		Rows:        a.merger.Merge(aggregates, figures),
		GeneratedAt: time.Now(),
	}

	if err := a.excel.Write(opts.OutputPath, report); err != nil {
		return err
	}
	if opts.CSVPath != "" {
		if err := a.csv.WriteReport(opts.CSVPath, report); err != nil {
			return err
		}
	}

	logger.Info("Report run finished",
		slog.String("output", opts.OutputPath),
		slog.Int("cost_centers", len(report.Rows)),
		slog.Duration("elapsed", time.Since(start)))

	return nil
}
