package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"dmreport/internal/app"
	"dmreport/internal/config"
	"dmreport/internal/infrastructure"
)

var (
	cfgFile     string
	logLevel    string
	topmPath    string
	addisonPath string
	outPath     string
	csvPath     string

	rootCmd = &cobra.Command{
		Use:   "dmreport",
		Short: "Merge DeltaMaster TopM + Addison exports into one Excel report",
		Long: `dmreport reads a TopM contribution-margin export and an Addison
revenue/expense export, applies the Modifikationen rules, aggregates to
cost-center granularity, joins both sources and writes one formatted
Excel report with the key columns highlighted.`,
		SilenceUsage: true,
		RunE:         run,
	}
)

func init() {
	rootCmd.Flags().StringVar(&cfgFile, "config", "", "optional YAML config file (logging and presentation only)")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "", "log level override (debug, info, warn, error)")
	rootCmd.Flags().StringVar(&topmPath, "topm", "", "path to TopM Excel export")
	rootCmd.Flags().StringVar(&addisonPath, "addison", "", "path to Addison Excel export")
	rootCmd.Flags().StringVar(&outPath, "out", "", "output Excel path")
	rootCmd.Flags().StringVar(&csvPath, "csv", "", "optional CSV sidecar path")

	_ = rootCmd.MarkFlagRequired("topm")
	_ = rootCmd.MarkFlagRequired("addison")
	_ = rootCmd.MarkFlagRequired("out")
}

func run(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer infrastructure.CloseLogger()

	application, err := app.New(cfg, logger)
	if err != nil {
		return err
	}

	ctx := infrastructure.WithRunID(cmd.Context(), infrastructure.GenerateRunID())
	if err := application.Run(ctx, app.Options{
		TopMPath:    topmPath,
		AddisonPath: addisonPath,
		OutputPath:  outPath,
		CSVPath:     csvPath,
	}); err != nil {
		logger.Error("Report run failed", slog.String("error", err.Error()))
		return err
	}

	fmt.Printf("Done. Output written to: %s\n", outPath)
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
