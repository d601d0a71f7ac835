package dataprocessing

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"dmreport/internal/errors"
)

// topmTestHeader mimics the real export: line-broken headers, header
// on row 7, data on the last sheet.
var topmTestHeader = []interface{}{
	"Hilfsmittel", "Filiale", "Aufträge",
	"(1) Umsatz-\nberechnung", "(2) Netto EK", "(3) Netto EK\nOhne WK",
	"(4) WK EK", "AP_EK_Verrechnung_WK_mit_FP", "(5) =\n(3) + (4)",
	"(6) DB I =\n(1) - (5)", "AP DB I mit FP",
}

func writeTopMFixture(t *testing.T, header []interface{}, dataRows [][]interface{}) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "topm.xlsx")
	f := excelize.NewFile()
	defer f.Close()

	// The data sheet is the last sheet of the workbook, like the
	// DeltaMaster export; Sheet1 stays as a decoy first sheet.
	_, err := f.NewSheet("Daten")
	require.NoError(t, err)
	require.NoError(t, f.SetCellValue("Daten", "A1", "TopM Auswertung"))

	require.NoError(t, f.SetSheetRow("Daten", "A7", &header))
	for i, row := range dataRows {
		ref := fmt.Sprintf("A%d", 8+i)
		require.NoError(t, f.SetSheetRow("Daten", ref, &row))
	}

	require.NoError(t, f.SaveAs(path))
	return path
}

func TestParseTopMFile(t *testing.T) {
	path := writeTopMFixture(t, topmTestHeader, [][]interface{}{
		{"09 - Elektrostimulationsgeräte", "4711 Musterstadt", 3.0, 1200.0, -400.0, -350.0, -50.0, -20.0, -400.0, -500.0, -450.0},
		{"Alle Hilfsmittel", "4711 Musterstadt", 99.0, 9999.0, 0.0, 0.0, 0.0, 0.0, 0.0, 0.0, 0.0},
		{"08 - Einlagen", "4711 Musterstadt", 5.0, 300.0, 0.0, 0.0, 0.0, 0.0, 0.0, -100.0, 0.0},
		{"11 - Hilfsmittel gegen Dekubitus", "4722 Beispielhausen", 2.0, 800.0, -300.0, -250.0, -50.0, -10.0, -300.0, -300.0, -250.0},
	})

	rows, err := ParseTopMFile(path, nil)
	require.NoError(t, err)
	require.Len(t, rows, 2, "grand-total and Einlagen rows must be filtered")

	first := rows[0]
	assert.Equal(t, "09 - Elektrostimulationsgeräte", first.Hilfsmittel)
	assert.Equal(t, "4711 Musterstadt", first.Filiale)
	assert.Equal(t, "4711", first.KSt)
	assert.Equal(t, 8, first.RowNumber)
	assert.InDelta(t, 3, first.Auftraege, 1e-9)
	assert.InDelta(t, 1200, first.Umsatz, 1e-9)
	assert.InDelta(t, -400, first.NettoEK, 1e-9)
	assert.InDelta(t, -350, first.NettoEKOhneWK, 1e-9)
	assert.InDelta(t, -50, first.WKEK, 1e-9)
	assert.InDelta(t, -20, first.APEKVerrechnung, 1e-9)
	assert.InDelta(t, -400, first.Summe5, 1e-9)
	assert.InDelta(t, -500, first.DBI, 1e-9)
	assert.InDelta(t, -450, first.APDBIMitFP, 1e-9)

	second := rows[1]
	assert.Equal(t, "4722", second.KSt)
	assert.InDelta(t, 800, second.Umsatz, 1e-9)
}

func TestParseTopMFile_ExtraColumnsIgnored(t *testing.T) {
	header := append(append([]interface{}{}, topmTestHeader...), "Interne Notiz")
	path := writeTopMFixture(t, header, [][]interface{}{
		{"11 - Hilfsmittel gegen Dekubitus", "4711 Musterstadt", 1.0, 100.0, 0.0, 0.0, 0.0, 0.0, 0.0, -50.0, -40.0, "kein Zahlenwert"},
	})

	rows, err := ParseTopMFile(path, nil)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.InDelta(t, 100, rows[0].Umsatz, 1e-9)
}

func TestParseTopMFile_MissingRequiredColumn(t *testing.T) {
	header := []interface{}{
		"Hilfsmittel", "Filiale", "Aufträge",
		"(1) Umsatz-\nberechnung", "(6) DB I =\n(1) - (5)",
		// "AP DB I mit FP" absent
	}
	path := writeTopMFixture(t, header, [][]interface{}{
		{"11 - Hilfsmittel gegen Dekubitus", "4711 Musterstadt", 1.0, 100.0, -50.0},
	})

	_, err := ParseTopMFile(path, nil)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrTypeSchema))
	assert.Contains(t, err.Error(), "AP DB I mit FP")
}

func TestParseTopMFile_NonNumericCell(t *testing.T) {
	path := writeTopMFixture(t, topmTestHeader, [][]interface{}{
		{"11 - Hilfsmittel gegen Dekubitus", "4711 Musterstadt", 1.0, "k.A.", 0.0, 0.0, 0.0, 0.0, 0.0, -50.0, -40.0},
	})

	_, err := ParseTopMFile(path, nil)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrTypeFormat))
	assert.Contains(t, err.Error(), "row 8")
	assert.Contains(t, err.Error(), "(1) Umsatz-berechnung")
}

func TestParseTopMFile_ThousandsSeparators(t *testing.T) {
	path := writeTopMFixture(t, topmTestHeader, [][]interface{}{
		{"11 - Hilfsmittel gegen Dekubitus", "4711 Musterstadt", "2", "1,234.50", "0", "0", "0", "0", "0", "-1,000", "-900"},
	})

	rows, err := ParseTopMFile(path, nil)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.InDelta(t, 1234.5, rows[0].Umsatz, 1e-9)
	assert.InDelta(t, -1000, rows[0].DBI, 1e-9)
}

func TestParseTopMFile_NotASpreadsheet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.xlsx")
	require.NoError(t, os.WriteFile(path, []byte("definitely not a workbook"), 0644))

	_, err := ParseTopMFile(path, nil)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrTypeFormat))
}

func TestParseTopMFile_EmptyStructure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.xlsx")
	f := excelize.NewFile()
	require.NoError(t, f.SetCellValue("Sheet1", "A1", "nur Metadaten"))
	require.NoError(t, f.SaveAs(path))
	f.Close()

	_, err := ParseTopMFile(path, nil)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrTypeFormat))
	assert.Contains(t, err.Error(), "empty or has unexpected structure")
}
