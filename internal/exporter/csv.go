package exporter

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"

	"dmreport/internal/errors"
	"dmreport/pkg/contracts/domain"
)

// CSVWriter provides the optional CSV sidecar export of the merged
// report.
type CSVWriter struct {
	logger *slog.Logger
}

// NewCSVWriter creates a new CSV writer instance
func NewCSVWriter(logger *slog.Logger) *CSVWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVWriter{logger: logger}
}

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	Headers   []string
	Records   [][]string
	BOMPrefix bool // Add UTF-8 BOM for Excel compatibility
}

// WriteCSV writes data to a CSV file with the given options
func (w *CSVWriter) WriteCSV(filePath string, options WriteOptions) error {
	if dir := filepath.Dir(filePath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	file, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	// BOM helps Excel recognize UTF-8, the umlauts depend on it
	if options.BOMPrefix {
		if _, err := file.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if len(options.Headers) > 0 {
		if err := writer.Write(options.Headers); err != nil {
			return fmt.Errorf("failed to write headers: %w", err)
		}
	}

	for i, record := range options.Records {
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	return writer.Error()
}

// WriteReport writes the merged report to a CSV file using the same
// column order as the Excel export. NaN ratios render as empty fields.
func (w *CSVWriter) WriteReport(filePath string, report *domain.Report) error {
	records := make([][]string, 0, len(report.Rows))
	for i := range report.Rows {
		row := &report.Rows[i]
		record := make([]string, len(reportColumns))
		for j, col := range reportColumns {
			switch col.Kind {
			case kindText:
				record[j] = col.str(row)
			case kindRatio:
				record[j] = formatRatio(col.num(row))
			default:
				v := col.num(row)
				if math.IsNaN(v) {
					record[j] = ""
				} else {
					record[j] = formatFloat(v)
				}
			}
		}
		records = append(records, record)
	}

	err := w.WriteCSV(filePath, WriteOptions{
		Headers:   Headers(),
		Records:   records,
		BOMPrefix: true,
	})
	if err != nil {
		return errors.NewExportError(filePath, err)
	}

	w.logger.Info("CSV report written",
		slog.String("file", filePath),
		slog.Int("rows", len(records)))

	return nil
}
