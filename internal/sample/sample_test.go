package sample

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWriteSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "source.xlsx")
	require.NoError(t, WriteSource(path, Customers()))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SourceSheet)
	require.NoError(t, err)
	require.Len(t, rows, 6)
	assert.Equal(t, "Customer", rows[0][1])
	assert.Equal(t, "C-001", rows[1][0])
	assert.Equal(t, "Alpha Haulage Ltd", rows[1][1])
	assert.Equal(t, "Jan to Mar 2025", rows[1][14])
	assert.Equal(t, "ISCC EU", rows[1][22])
	assert.Equal(t, "RFD-1002", rows[2][12])
}

func TestWriteTemplate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "template.xlsx")
	require.NoError(t, WriteTemplate(path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	v, err := f.GetCellValue(TemplateSheet, "A1")
	require.NoError(t, err)
	assert.Equal(t, "Renewable Fuel Declaration", v)

	var found bool
	for _, dn := range f.GetDefinedName() {
		if dn.Name == "_xlnm.Print_Area" {
			found = true
			assert.Contains(t, dn.RefersTo, "$A$1:$W$36")
		}
	}
	assert.True(t, found, "print area defined")
}
