package dataprocessing

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/xuri/excelize/v2"

	"dmreport/internal/errors"
	"dmreport/pkg/contracts/domain"
)

// The TopM export carries six rows of DeltaMaster metadata before the
// header row; data follows on the last sheet of the workbook.
const topmHeaderRowIdx = 6

// kstPrefixLen is the number of leading Filiale characters that form
// the cost center identifier.
const kstPrefixLen = 5

// Normalized header keys of the TopM numeric columns (see
// normalizeHeader: lowercased, all whitespace stripped).
const (
	keyAuftraege       = "aufträge"
	keyUmsatz          = "(1)umsatz-berechnung"
	keyNettoEK         = "(2)nettoek"
	keyNettoEKOhneWK   = "(3)nettoekohnewk"
	keyWKEK            = "(4)wkek"
	keyAPEKVerrechnung = "ap_ek_verrechnung_wk_mit_fp"
	keySumme5          = "(5)=(3)+(4)"
	keyDBI             = "(6)dbi=(1)-(5)"
	keyAPDBI           = "apdbimitfp"
)

// topmColumn binds a header key to the TopMRow field it fills.
type topmColumn struct {
	key      string
	display  string
	required bool
	assign   func(*domain.TopMRow, float64)
}

// topmColumns is the expected numeric schema of the TopM export.
// Unknown extra columns in the file are ignored, never fatal.
var topmColumns = []topmColumn{
	{keyAuftraege, "Aufträge", false, func(r *domain.TopMRow, v float64) { r.Auftraege = v }},
	{keyUmsatz, "(1) Umsatz-berechnung", true, func(r *domain.TopMRow, v float64) { r.Umsatz = v }},
	{keyNettoEK, "(2) Netto EK", false, func(r *domain.TopMRow, v float64) { r.NettoEK = v }},
	{keyNettoEKOhneWK, "(3) Netto EK Ohne WK", false, func(r *domain.TopMRow, v float64) { r.NettoEKOhneWK = v }},
	{keyWKEK, "(4) WK EK", false, func(r *domain.TopMRow, v float64) { r.WKEK = v }},
	{keyAPEKVerrechnung, "AP_EK_Verrechnung_WK_mit_FP", false, func(r *domain.TopMRow, v float64) { r.APEKVerrechnung = v }},
	{keySumme5, "(5) = (3) + (4)", false, func(r *domain.TopMRow, v float64) { r.Summe5 = v }},
	{keyDBI, "(6) DB I = (1) - (5)", true, func(r *domain.TopMRow, v float64) { r.DBI = v }},
	{keyAPDBI, "AP DB I mit FP", true, func(r *domain.TopMRow, v float64) { r.APDBIMitFP = v }},
}

// Collective positions excluded before any processing: the grand-total
// line and the "Einlagen" Sammelposition.
var topmExcludedLabels = map[string]bool{
	"Alle Hilfsmittel": true,
	"08 - Einlagen":    true,
}

// ParseTopMFile reads a TopM contribution-margin export and extracts
// its line items. The first column is the Hilfsmittel label, the
// second the Filiale; the cost center is the Filiale's five-character
// prefix.
func ParseTopMFile(filePath string, logger *slog.Logger) ([]domain.TopMRow, error) {
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
	// DeltaMaster places the data on the last sheet
	sheetName := sheets[len(sheets)-1]

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, errors.NewFormatError(
			fmt.Sprintf("cannot read sheet %q of %s", sheetName, filePath), err)
	}
	if len(rows) <= topmHeaderRowIdx+1 {
		return nil, errors.NewFormatError(
			fmt.Sprintf("TopM report %s looks empty or has unexpected structure", filePath), nil)
	}

	header := rows[topmHeaderRowIdx]
	if len(header) < 2 {
		return nil, errors.NewFormatError(
			fmt.Sprintf("TopM report %s header row has fewer than two columns", filePath), nil)
	}

	// Columns 0 and 1 are positional (Hilfsmittel, Filiale); numeric
	// columns are located by normalized header name.
	columnMap := make(map[string]int)
	for j := 2; j < len(header); j++ {
		key := normalizeHeader(header[j])
		for _, col := range topmColumns {
			if key == col.key {
				if _, seen := columnMap[col.key]; !seen {
					columnMap[col.key] = j
				}
				break
			}
		}
	}

	var missing []string
	for _, col := range topmColumns {
		if !col.required {
			continue
		}
		if _, ok := columnMap[col.key]; !ok {
			missing = append(missing, col.display)
		}
	}
	if len(missing) > 0 {
		return nil, errors.NewSchemaError("TopM report", missing, header)
	}

	logger.Info("Parsing TopM report",
		slog.String("file", filePath),
		slog.String("sheet", sheetName),
		slog.Int("total_rows", len(rows)))

	var result []domain.TopMRow
	skipped := 0
	for i := topmHeaderRowIdx + 1; i < len(rows); i++ {
		row := rows[i]
		rowNum := i + 1

		if isEmptyRow(row) {
			continue
		}

		hilfsmittel := cell(row, 0)
		if hilfsmittel == "" {
			// Section or merged-cell row without an account label
			skipped++
			continue
		}
		if topmExcludedLabels[hilfsmittel] {
			skipped++
			continue
		}

		filiale := cell(row, 1)
		if filiale == "" {
			return nil, errors.NewFormatError(
				fmt.Sprintf("TopM report row %d (%s) has no Filiale", rowNum, hilfsmittel), nil)
		}

		r := domain.TopMRow{
			RowNumber:   rowNum,
			Hilfsmittel: hilfsmittel,
			Filiale:     filiale,
			KSt:         kstFromFiliale(filiale),
		}
		for _, col := range topmColumns {
			idx, ok := columnMap[col.key]
			if !ok {
				continue
			}
			v, err := parseNumericCell(cell(row, idx))
			if err != nil {
				return nil, errors.NewFormatError(
					fmt.Sprintf("TopM report row %d, column %q: not a number", rowNum, col.display), err).
					WithContext("row", rowNum).
					WithContext("column", col.display)
			}
			col.assign(&r, v)
		}
		result = append(result, r)
	}

	logger.Info("TopM report parsed",
		slog.String("file", filePath),
		slog.Int("line_items", len(result)),
		slog.Int("skipped_rows", skipped))

	return result, nil
}

// kstFromFiliale derives the cost center from the Filiale label: its
// five-character prefix, trimmed.
func kstFromFiliale(filiale string) string {
	runes := []rune(filiale)
	if len(runes) > kstPrefixLen {
		runes = runes[:kstPrefixLen]
	}
	return strings.TrimSpace(string(runes))
}
