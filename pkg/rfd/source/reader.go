// Package source reads declaration records from the allocation workbook.
package source

import (
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/ukaji3/rfdgen/pkg/rfd/config"
	"github.com/ukaji3/rfdgen/pkg/rfd/models"
	"github.com/xuri/excelize/v2"
)

// ErrSheetNotFound indicates the configured sheet is missing from the workbook.
var ErrSheetNotFound = errors.New("sheet not found")

// Reader holds the raw cell values of one sheet in memory.
type Reader struct {
	rows [][]string
}

// Open reads every row of sheet from the workbook at path. Cell values are
// read unformatted, so a blend shown as "5%" is returned as "0.05".
func Open(path, sheet string) (*Reader, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, errors.Wrap(err, "opening source workbook")
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening source workbook %s", path)
	}
	defer f.Close()

	if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return nil, errors.Wrapf(ErrSheetNotFound, "%q in %s", sheet, path)
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, errors.Wrapf(err, "reading sheet %q", sheet)
	}

	return &Reader{rows: rows}, nil
}

// LastRow returns the last row of the contiguous non-empty run in col that
// starts at row 1, the way Excel's End(xlDown) from the first cell finds it.
// It returns 0 when the first cell is empty.
func (r *Reader) LastRow(col string) (int, error) {
	colIdx, err := excelize.ColumnNameToNumber(col)
	if err != nil {
		return 0, err
	}

	last := 0
	for row := 1; row <= len(r.rows); row++ {
		if strings.TrimSpace(r.at(colIdx, row)) == "" {
			break
		}
		last = row
	}
	return last, nil
}

// Scan returns the rows from cfg.FirstRow to LastRow(cfg.KeyColumn) whose
// blend value is a number at or above cfg.BlendThreshold and whose key cell
// is non-empty. Rows with a non-numeric blend are skipped.
func (r *Reader) Scan(cfg config.SourceConfig) ([]models.Candidate, error) {
	last, err := r.LastRow(cfg.KeyColumn)
	if err != nil {
		return nil, errors.Wrap(err, "key column")
	}

	keyIdx, err := excelize.ColumnNameToNumber(cfg.KeyColumn)
	if err != nil {
		return nil, errors.Wrap(err, "key column")
	}
	blendIdx, err := excelize.ColumnNameToNumber(cfg.BlendColumn)
	if err != nil {
		return nil, errors.Wrap(err, "blend column")
	}

	var result []models.Candidate
	for row := cfg.FirstRow; row <= last; row++ {
		raw := strings.TrimSpace(r.at(blendIdx, row))
		if raw == "" {
			continue
		}
		blend, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			continue
		}

		key := strings.TrimSpace(r.at(keyIdx, row))
		if blend >= cfg.BlendThreshold && key != "" {
			result = append(result, models.Candidate{Row: row, Key: key, Blend: blend})
		}
	}

	return result, nil
}

// Extract reads one record. fields maps field names to column letters.
func (r *Reader) Extract(row int, fields map[string]string) (models.Record, error) {
	if row < 1 {
		return models.Record{}, errors.Errorf("invalid row %d", row)
	}

	values := make(map[string]interface{}, len(fields))
	for field, col := range fields {
		colIdx, err := excelize.ColumnNameToNumber(col)
		if err != nil {
			return models.Record{}, errors.Wrapf(err, "field %s", field)
		}
		values[field] = parseValue(r.at(colIdx, row))
	}

	return models.Record{Row: row, Values: values}, nil
}

// at returns the cell at 1-based column and row, or "" outside the data.
func (r *Reader) at(col, row int) string {
	if row < 1 || row > len(r.rows) {
		return ""
	}
	cells := r.rows[row-1]
	if col < 1 || col > len(cells) {
		return ""
	}
	return cells[col-1]
}

// parseValue attempts to parse a string value as a number.
// Returns int64 for integers, float64 for decimals, nil for empty cells,
// or the original string.
func parseValue(s string) interface{} {
	if s == "" {
		return nil
	}
	// Try integer first
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	// Try float
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	// Return as string
	return s
}
