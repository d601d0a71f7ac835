package dataprocessing

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/xuri/excelize/v2"

	"dmreport/internal/errors"
	"dmreport/pkg/contracts/domain"
)

// The Addison export carries eight leading rows of metadata before the
// header row.
const addisonHeaderRowIdx = 8

// Normalized header keys of the Addison export.
const (
	keyKSt   = "kst"
	keyArt   = "art"
	keyWert4 = "wert4"
	keyWert6 = "wert6"
)

var addisonRequiredColumns = []struct {
	key     string
	display string
}{
	{keyKSt, "KSt"},
	{keyArt, "Art"},
	{keyWert4, "Wert4"},
	{keyWert6, "Wert6"},
}

// ParseAddisonFile reads an Addison revenue/expense export. Every row
// is one Art (revenue, expense, gross result, or something else) for
// one cost center; filtering to the relevant Arten happens in
// PivotAddison.
func ParseAddisonFile(filePath string, logger *slog.Logger) ([]domain.AddisonRow, error) {
	if logger == nil {
		logger = slog.Default()
	}

	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, errors.NewFormatError(
			fmt.Sprintf("cannot open %s as a spreadsheet", filePath), err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.NewFormatError(
			fmt.Sprintf("%s contains no sheets", filePath), nil)
	}
	sheetName := sheets[len(sheets)-1]

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, errors.NewFormatError(
			fmt.Sprintf("cannot read sheet %q of %s", sheetName, filePath), err)
	}
	if len(rows) <= addisonHeaderRowIdx+1 {
		return nil, errors.NewFormatError(
			fmt.Sprintf("Addison report %s looks empty or has unexpected structure", filePath), nil)
	}

	header := rows[addisonHeaderRowIdx]
	columnMap := make(map[string]int)
	for j, h := range header {
		key := normalizeHeader(h)
		for _, col := range addisonRequiredColumns {
			if key == col.key {
				if _, seen := columnMap[col.key]; !seen {
					columnMap[col.key] = j
				}
				break
			}
		}
	}

	var missing []string
	for _, col := range addisonRequiredColumns {
		if _, ok := columnMap[col.key]; !ok {
			missing = append(missing, col.display)
		}
	}
	if len(missing) > 0 {
		return nil, errors.NewSchemaError("Addison report", missing, header)
	}

	logger.Info("Parsing Addison report",
		slog.String("file", filePath),
		slog.String("sheet", sheetName),
		slog.Int("total_rows", len(rows)))

	var result []domain.AddisonRow
	for i := addisonHeaderRowIdx + 1; i < len(rows); i++ {
		row := rows[i]
		rowNum := i + 1

		if isEmptyRow(row) {
			continue
		}

		kst := cell(row, columnMap[keyKSt])
		art := cell(row, columnMap[keyArt])
		if kst == "" || art == "" {
			// Subtotal or spacer line
			continue
		}

		wert4, err := parseNumericCell(cell(row, columnMap[keyWert4]))
		if err != nil {
			return nil, errors.NewFormatError(
				fmt.Sprintf("Addison report row %d, column \"Wert4\": not a number", rowNum), err).
				WithContext("row", rowNum).
				WithContext("column", "Wert4")
		}
		wert6, err := parseNumericCell(cell(row, columnMap[keyWert6]))
		if err != nil {
			return nil, errors.NewFormatError(
				fmt.Sprintf("Addison report row %d, column \"Wert6\": not a number", rowNum), err).
				WithContext("row", rowNum).
				WithContext("column", "Wert6")
		}

		result = append(result, domain.AddisonRow{
			RowNumber: rowNum,
			KSt:       kst,
			Art:       art,
			Wert4:     wert4,
			Wert6:     wert6,
		})
	}

	logger.Info("Addison report parsed",
		slog.String("file", filePath),
		slog.Int("rows", len(result)))

	return result, nil
}

// PivotAddison turns the row-per-Art export into one AddisonFigures
// record per cost center: current-period values (Wert4) per Art, plus
// the cumulative values (Wert6) for revenue and expenses. Rows with an
// irrelevant Art are dropped; duplicate Art rows per cost center are
// summed. Output is sorted by cost center ascending.
func PivotAddison(rows []domain.AddisonRow) []domain.AddisonFigures {
	byKSt := make(map[string]*domain.AddisonFigures)
	for _, r := range rows {
		switch r.Art {
		case domain.ArtUmsatzerloese, domain.ArtAufwendungen, domain.ArtRohergebnis:
		default:
			continue
		}
		fig, ok := byKSt[r.KSt]
		if !ok {
			fig = &domain.AddisonFigures{KSt: r.KSt}
			byKSt[r.KSt] = fig
		}
		switch r.Art {
		case domain.ArtUmsatzerloese:
			fig.Umsatzerloese += r.Wert4
			fig.UmsatzerloeseKum += r.Wert6
		case domain.ArtAufwendungen:
			fig.Aufwendungen += r.Wert4
			fig.AufwendungenKum += r.Wert6
		case domain.ArtRohergebnis:
			fig.Rohergebnis += r.Wert4
		}
	}

	result := make([]domain.AddisonFigures, 0, len(byKSt))
	for _, fig := range byKSt {
		result = append(result, *fig)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].KSt < result[j].KSt })
	return result
}
