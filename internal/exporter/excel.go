package exporter

import (
	"log/slog"
	"math"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"dmreport/internal/config"
	"dmreport/internal/errors"
	"dmreport/pkg/contracts/domain"
)

const (
	moneyNumFmt = "#,##0.00"
	ratioNumFmt = "0.0%"
)

// ExcelWriter renders the merged report as a styled .xlsx workbook.
// Pure presentation: no value is altered, NaN ratios become empty
// cells.
type ExcelWriter struct {
	cfg    config.ReportConfig
	logger *slog.Logger
}

// NewExcelWriter creates a new Excel report writer
func NewExcelWriter(cfg config.ReportConfig, logger *slog.Logger) *ExcelWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExcelWriter{cfg: cfg, logger: logger}
}

// Write renders the report to filePath. On any failure the partial
// output file is removed so a failed run never leaves a half-written
// report behind.
func (w *ExcelWriter) Write(filePath string, report *domain.Report) error {
	if dir := filepath.Dir(filePath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errors.NewExportError(filePath, err)
		}
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := w.cfg.SheetName
	if sheet != "Sheet1" {
		if _, err := f.NewSheet(sheet); err != nil {
			return errors.NewExportError(filePath, err)
		}
		if err := f.DeleteSheet("Sheet1"); err != nil {
			return errors.NewExportError(filePath, err)
		}
	}

	styles, err := w.buildStyles(f)
	if err != nil {
		return errors.NewExportError(filePath, err)
	}

	for j, col := range reportColumns {
		cellRef, err := excelize.CoordinatesToCellName(j+1, 1)
		if err != nil {
			return errors.NewExportError(filePath, err)
		}
		if err := f.SetCellValue(sheet, cellRef, col.Header); err != nil {
			return errors.NewExportError(filePath, err)
		}
		if err := f.SetCellStyle(sheet, cellRef, cellRef, styles.header); err != nil {
			return errors.NewExportError(filePath, err)
		}

		colName, err := excelize.ColumnNumberToName(j + 1)
		if err != nil {
			return errors.NewExportError(filePath, err)
		}
		if err := f.SetColWidth(sheet, colName, colName, col.Width); err != nil {
			return errors.NewExportError(filePath, err)
		}
	}

	for i := range report.Rows {
		row := &report.Rows[i]
		for j, col := range reportColumns {
			cellRef, err := excelize.CoordinatesToCellName(j+1, i+2)
			if err != nil {
				return errors.NewExportError(filePath, err)
			}

			switch col.Kind {
			case kindText:
				if err := f.SetCellValue(sheet, cellRef, col.str(row)); err != nil {
					return errors.NewExportError(filePath, err)
				}
			default:
				// NaN marks a ratio with no defined value; the cell
				// stays empty rather than carrying a fake zero
				if v := col.num(row); !math.IsNaN(v) {
					if err := f.SetCellValue(sheet, cellRef, v); err != nil {
						return errors.NewExportError(filePath, err)
					}
				}
			}

			if style := styles.forColumn(col); style != 0 {
				if err := f.SetCellStyle(sheet, cellRef, cellRef, style); err != nil {
					return errors.NewExportError(filePath, err)
				}
			}
		}
	}

	if err := f.SaveAs(filePath); err != nil {
		os.Remove(filePath)
		return errors.NewExportError(filePath, err)
	}

	w.logger.Info("Excel report written",
		slog.String("file", filePath),
		slog.String("sheet", sheet),
		slog.Int("rows", len(report.Rows)),
		slog.Any("highlighted_columns", HighlightedColumns()))

	return nil
}

// cellStyles holds the style IDs used by the writer.
type cellStyles struct {
	header         int
	money          int
	ratio          int
	moneyHighlight int
	ratioHighlight int
}

func (s cellStyles) forColumn(col reportColumn) int {
	switch col.Kind {
	case kindMoney:
		if col.Highlight {
			return s.moneyHighlight
		}
		return s.money
	case kindRatio:
		if col.Highlight {
			return s.ratioHighlight
		}
		return s.ratio
	default:
		return 0
	}
}

func (w *ExcelWriter) buildStyles(f *excelize.File) (cellStyles, error) {
	var styles cellStyles
	var err error

	moneyFmt := moneyNumFmt
	ratioFmt := ratioNumFmt
	highlightFill := excelize.Fill{
		Type:    "pattern",
		Color:   []string{w.cfg.HighlightColor},
		Pattern: 1,
	}

	if styles.header, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	}); err != nil {
		return styles, err
	}
	if styles.money, err = f.NewStyle(&excelize.Style{
		CustomNumFmt: &moneyFmt,
	}); err != nil {
		return styles, err
	}
	if styles.ratio, err = f.NewStyle(&excelize.Style{
		CustomNumFmt: &ratioFmt,
	}); err != nil {
		return styles, err
	}
	if styles.moneyHighlight, err = f.NewStyle(&excelize.Style{
		CustomNumFmt: &moneyFmt,
		Fill:         highlightFill,
	}); err != nil {
		return styles, err
	}
	if styles.ratioHighlight, err = f.NewStyle(&excelize.Style{
		CustomNumFmt: &ratioFmt,
		Fill:         highlightFill,
	}); err != nil {
		return styles, err
	}

	return styles, nil
}
