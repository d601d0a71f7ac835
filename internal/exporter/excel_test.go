package exporter

import (
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"dmreport/internal/config"
	"dmreport/internal/errors"
	"dmreport/pkg/contracts/domain"
)

func testReportConfig() config.ReportConfig {
	return config.ReportConfig{SheetName: "Auswertung", HighlightColor: "FFFF00"}
}

func sampleReport() *domain.Report {
	return &domain.Report{
		GeneratedAt: time.Now(),
		Rows: []domain.MergedRow{
			{
				KSt: "4711", Filiale: "4711 Musterstadt",
				HasTopM: true, HasAddison: true,
				Umsatz: 2000, DBI: -800, Modifikation: -800, Mod0932: 660,
				DBIPct: -0.4, APDBIPct: -0.35, ModPct: -0.4, Mod0932Pct: 0.33,
				Umsatzerloese: 2000, Aufwendungen: -700, Rohergebnis: 1300,
				UmsatzerloeseKum: 24000, AufwendungenKum: -8400,
				AufwendungenFinal: 2100,
			},
			{
				KSt: "4999", HasAddison: true,
				DBIPct: math.NaN(), APDBIPct: math.NaN(),
				ModPct: math.NaN(), Mod0932Pct: math.NaN(),
				Umsatzerloese: 500, Aufwendungen: -150, Rohergebnis: 350,
				AufwendungenFinal: -150,
			},
		},
	}
}

func TestExcelWriter_Write(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "report.xlsx")
	writer := NewExcelWriter(testReportConfig(), nil)

	require.NoError(t, writer.Write(path, sampleReport()))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Auswertung"}, f.GetSheetList())

	// Header row matches the declared column order
	for j, want := range Headers() {
		ref, err := excelize.CoordinatesToCellName(j+1, 1)
		require.NoError(t, err)
		got, err := f.GetCellValue("Auswertung", ref)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	raw := excelize.Options{RawCellValue: true}

	// Key figures of the first data row
	v, err := f.GetCellValue("Auswertung", cellFor(t, "KSt", 2), raw)
	require.NoError(t, err)
	assert.Equal(t, "4711", v)

	v, err = f.GetCellValue("Auswertung", cellFor(t, "Aufwendungen final", 2), raw)
	require.NoError(t, err)
	assert.Equal(t, "2100", v)

	v, err = f.GetCellValue("Auswertung", cellFor(t, "DBI % Modifikationen", 2), raw)
	require.NoError(t, err)
	assert.Equal(t, "-0.4", v)

	// NaN ratios of the Addison-only row render as empty cells
	v, err = f.GetCellValue("Auswertung", cellFor(t, "DBI % Modifikationen", 3), raw)
	require.NoError(t, err)
	assert.Empty(t, v)

	// TopM monetary fields of the Addison-only row are explicit zeros
	v, err = f.GetCellValue("Auswertung", cellFor(t, "(1) Umsatz-berechnung", 3), raw)
	require.NoError(t, err)
	assert.Equal(t, "0", v)
}

func TestExcelWriter_HighlightStyles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.xlsx")
	writer := NewExcelWriter(testReportConfig(), nil)
	require.NoError(t, writer.Write(path, sampleReport()))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	highlighted, err := f.GetCellStyle("Auswertung", cellFor(t, "Aufwendungen final", 2))
	require.NoError(t, err)
	plain, err := f.GetCellStyle("Auswertung", cellFor(t, "Rohergebnis", 2))
	require.NoError(t, err)

	assert.NotZero(t, highlighted)
	assert.NotEqual(t, plain, highlighted, "key columns must carry a distinct style")

	style, err := f.GetStyle(highlighted)
	require.NoError(t, err)
	require.NotNil(t, style)
	require.NotEmpty(t, style.Fill.Color)
	assert.Contains(t, style.Fill.Color[0], "FFFF00")
}

func TestExcelWriter_ColumnWidths(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.xlsx")
	writer := NewExcelWriter(testReportConfig(), nil)
	require.NoError(t, writer.Write(path, sampleReport()))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	width, err := f.GetColWidth("Auswertung", "B")
	require.NoError(t, err)
	assert.InDelta(t, 28, width, 0.01)
}

func TestExcelWriter_UnwritableDestination(t *testing.T) {
	dir := t.TempDir()
	writer := NewExcelWriter(testReportConfig(), nil)

	// The destination is an existing directory, not a writable file
	err := writer.Write(dir, sampleReport())
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrTypeExport))
}

// cellFor resolves a header name to the cell reference in the given row.
func cellFor(t *testing.T, header string, row int) string {
	t.Helper()
	for j, col := range reportColumns {
		if col.Header == header {
			ref, err := excelize.CoordinatesToCellName(j+1, row)
			require.NoError(t, err)
			return ref
		}
	}
	t.Fatalf("unknown header %q", header)
	return ""
}

func TestHighlightedColumns(t *testing.T) {
	assert.Equal(t, []string{"DBI % Modifikationen", "Aufwendungen final"}, HighlightedColumns())
}
