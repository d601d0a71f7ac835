package exporter

import (
	"bytes"
	"encoding/csv"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVWriter_WriteReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.csv")
	writer := NewCSVWriter(nil)

	require.NoError(t, writer.WriteReport(path, sampleReport()))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	// Excel needs the UTF-8 BOM to pick up the umlauts
	require.True(t, bytes.HasPrefix(raw, []byte{0xEF, 0xBB, 0xBF}))

	reader := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(raw, []byte{0xEF, 0xBB, 0xBF})))
	records, err := reader.ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, Headers(), records[0])

	col := indexOf(t, records[0], "Aufwendungen final")
	assert.Equal(t, "2100.00", records[1][col])
	assert.Equal(t, "-150.00", records[2][col])

	col = indexOf(t, records[0], "DBI % Modifikationen")
	assert.Equal(t, "-0.4000", records[1][col])
	assert.Empty(t, records[2][col], "undefined ratio must render as empty field")

	col = indexOf(t, records[0], "Filiale")
	assert.Equal(t, "4711 Musterstadt", records[1][col])
	assert.Empty(t, records[2][col])
}

func TestCSVWriter_WriteCSV_NoBOM(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plain.csv")
	writer := NewCSVWriter(nil)

	err := writer.WriteCSV(path, WriteOptions{
		Headers: []string{"a", "b"},
		Records: [][]string{{"1", "2"}},
	})
	require.NoError(t, err)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.False(t, bytes.HasPrefix(raw, []byte{0xEF, 0xBB, 0xBF}))
	assert.Equal(t, "a,b\n1,2\n", string(raw))
}

func TestFormatRatio(t *testing.T) {
	assert.Equal(t, "-0.4000", formatRatio(-0.4))
	assert.Equal(t, "0.0000", formatRatio(0))
	assert.Empty(t, formatRatio(math.NaN()))
}

func TestFormatFloat(t *testing.T) {
	assert.Equal(t, "13.40", formatFloat(13.4))
	assert.Equal(t, "-1000.00", formatFloat(-1000))
}

func indexOf(t *testing.T, headers []string, want string) int {
	t.Helper()
	for i, h := range headers {
		if h == want {
			return i
		}
	}
	t.Fatalf("header %q not found", want)
	return -1
}
