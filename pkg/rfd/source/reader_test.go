package source

import (
	"io/fs"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukaji3/rfdgen/pkg/rfd/config"
	"github.com/xuri/excelize/v2"
)

const sheet = "RFAS GHG Saving Calculation"

// writeSource saves a workbook whose sheet holds the given rows starting at A1.
func writeSource(t *testing.T, rows [][]interface{}) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	require.NoError(t, f.SetSheetName("Sheet1", sheet))
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}

	path := filepath.Join(t.TempDir(), "source.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestOpenErrors(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.xlsx"), sheet)
	require.Error(t, err)
	assert.ErrorIs(t, err, fs.ErrNotExist)

	path := writeSource(t, [][]interface{}{{"Customer"}})
	_, err = Open(path, "Other")
	assert.ErrorIs(t, err, ErrSheetNotFound)
}

func TestLastRowStopsAtFirstGap(t *testing.T) {
	path := writeSource(t, [][]interface{}{
		{"Customer"},
		{"Alpha"},
		{"Beta"},
		{nil},
		{"Orphan"},
	})

	r, err := Open(path, sheet)
	require.NoError(t, err)

	last, err := r.LastRow("A")
	require.NoError(t, err)
	assert.Equal(t, 3, last)

	last, err = r.LastRow("Z")
	require.NoError(t, err)
	assert.Equal(t, 0, last)

	_, err = r.LastRow("1A")
	assert.Error(t, err)
}

func TestScanFiltersByBlend(t *testing.T) {
	path := writeSource(t, [][]interface{}{
		{"Customer", "Name", nil, "Volume", "FF blend"},
		{"Alpha", "Alpha Ltd", nil, 100, 0.05},
		{"Beta", "Beta Ltd", nil, 200, 0.009},
		{"Gamma", "Gamma Ltd", nil, 300, "n/a"},
		{"Delta", "Delta Ltd", nil, 400, 0.01},
		{"Epsilon", "Epsilon Ltd", nil, 500, nil},
		{"Zeta", "Zeta Ltd", nil, 600, 1},
	})

	r, err := Open(path, sheet)
	require.NoError(t, err)

	got, err := r.Scan(config.Default().Source)
	require.NoError(t, err)

	rows := make([]int, 0, len(got))
	for _, c := range got {
		rows = append(rows, c.Row)
	}
	assert.Equal(t, []int{2, 5, 7}, rows)
	assert.Equal(t, "Alpha", got[0].Key)
	assert.InDelta(t, 0.05, got[0].Blend, 1e-9)
}

func TestExtract(t *testing.T) {
	path := writeSource(t, [][]interface{}{
		{"Customer", "Name", nil, "Volume"},
		{"Alpha", "Alpha Ltd", nil, 1234.56},
	})

	r, err := Open(path, sheet)
	require.NoError(t, err)

	rec, err := r.Extract(2, map[string]string{
		"customer_name":           "B",
		"volume_of_fuel_supplied": "D",
		"feedstock":               "T",
	})
	require.NoError(t, err)

	assert.Equal(t, 2, rec.Row)
	assert.Equal(t, "Alpha Ltd", rec.Get("customer_name"))
	assert.Equal(t, 1234.56, rec.Get("volume_of_fuel_supplied"))
	assert.Nil(t, rec.Get("feedstock"))

	_, err = r.Extract(0, nil)
	assert.Error(t, err)

	_, err = r.Extract(2, map[string]string{"bad": "??"})
	assert.Error(t, err)
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		input    string
		expected interface{}
	}{
		{"123", int64(123)},
		{"123.45", 123.45},
		{"-100", int64(-100)},
		{"hello", "hello"},
		{"", nil},
	}

	for _, tt := range tests {
		result := parseValue(tt.input)
		if result != tt.expected {
			t.Errorf("parseValue(%q) = %v (type: %T), expected %v (type: %T)",
				tt.input, result, result, tt.expected, tt.expected)
		}
	}
}
