package template

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
)

// ErrEmptyLayout indicates a sheet with no print area and no values.
var ErrEmptyLayout = errors.New("sheet has nothing to print")

// Cell is one printable cell.
type Cell struct {
	// Text is the value as displayed, with the cell's number format applied.
	Text string
	// Numeric reports whether the underlying value is a number.
	Numeric bool
	// Bold is set when the cell font is bold.
	Bold bool
}

// Grid is the printable region of a sheet.
type Grid struct {
	Sheet string
	Area  Area
	// ColWidths holds one width in points per column of Area.
	ColWidths []float64
	// RowHeights holds one height in points per row of Area.
	RowHeights []float64
	// Cells is indexed [row-Area.R1][col-Area.C1].
	Cells [][]Cell
	// Merges lists merged ranges clipped to Area.
	Merges []Area
}

// Width returns the total width of the grid in points.
func (g Grid) Width() float64 {
	var w float64
	for _, cw := range g.ColWidths {
		w += cw
	}
	return w
}

// MergeAt returns the merged range whose top-left cell is col, row.
func (g Grid) MergeAt(col, row int) (Area, bool) {
	for _, m := range g.Merges {
		if m.C1 == col && m.R1 == row {
			return m, true
		}
	}
	return Area{}, false
}

// Covered reports whether col, row lies inside a merged range but is not
// its top-left cell.
func (g Grid) Covered(col, row int) bool {
	for _, m := range g.Merges {
		if m.Contains(col, row) && !(m.C1 == col && m.R1 == row) {
			return true
		}
	}
	return false
}

// Layout returns the printable grid of sheet: its first print area when one
// is defined, otherwise the bounding box of non-empty cells.
func Layout(f *excelize.File, sheet string) (Grid, error) {
	target, err := ResolveSheet(f, sheet)
	if err != nil {
		return Grid{}, err
	}

	area, ok := printArea(f, target)
	if !ok {
		rows, err := f.GetRows(target)
		if err != nil {
			return Grid{}, errors.Wrapf(err, "reading sheet %q", target)
		}
		minRow, maxRow, minCol, maxCol := findDataBounds(rows)
		if minRow < 0 {
			return Grid{}, errors.Wrapf(ErrEmptyLayout, "%q", target)
		}
		area = Area{R1: minRow + 1, C1: minCol + 1, R2: maxRow + 1, C2: maxCol + 1}
	}

	g := Grid{Sheet: target, Area: area}

	for col := area.C1; col <= area.C2; col++ {
		name, err := excelize.ColumnNumberToName(col)
		if err != nil {
			return Grid{}, err
		}
		w, err := f.GetColWidth(target, name)
		if err != nil {
			return Grid{}, errors.Wrapf(err, "column %s width", name)
		}
		g.ColWidths = append(g.ColWidths, ColumnWidthToPoints(w))
	}

	for row := area.R1; row <= area.R2; row++ {
		h, err := f.GetRowHeight(target, row)
		if err != nil {
			return Grid{}, errors.Wrapf(err, "row %d height", row)
		}
		g.RowHeights = append(g.RowHeights, h)

		cells := make([]Cell, 0, area.C2-area.C1+1)
		for col := area.C1; col <= area.C2; col++ {
			c, err := readCell(f, target, col, row)
			if err != nil {
				return Grid{}, err
			}
			cells = append(cells, c)
		}
		g.Cells = append(g.Cells, cells)
	}

	merges, err := f.GetMergeCells(target)
	if err != nil {
		return Grid{}, errors.Wrapf(err, "merged cells of %q", target)
	}
	for _, mc := range merges {
		m, ok := ParseRange(mc.GetStartAxis() + ":" + mc.GetEndAxis())
		if !ok {
			continue
		}
		if clipped, ok := clip(m, area); ok {
			g.Merges = append(g.Merges, clipped)
		}
	}

	return g, nil
}

func printArea(f *excelize.File, sheet string) (Area, bool) {
	areas := PrintAreas(f)[sheet]
	if len(areas) == 0 {
		return Area{}, false
	}
	return areas[0], true
}

func readCell(f *excelize.File, sheet string, col, row int) (Cell, error) {
	name, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return Cell{}, err
	}

	text, err := f.GetCellValue(sheet, name)
	if err != nil {
		return Cell{}, errors.Wrapf(err, "reading %s", name)
	}
	raw, err := f.GetCellValue(sheet, name, excelize.Options{RawCellValue: true})
	if err != nil {
		return Cell{}, errors.Wrapf(err, "reading %s", name)
	}
	_, numErr := strconv.ParseFloat(strings.TrimSpace(raw), 64)

	c := Cell{Text: text, Numeric: raw != "" && numErr == nil}

	if styleID, err := f.GetCellStyle(sheet, name); err == nil && styleID > 0 {
		if style, err := f.GetStyle(styleID); err == nil && style.Font != nil {
			c.Bold = style.Font.Bold
		}
	}
	return c, nil
}

// clip intersects m with area.
func clip(m, area Area) (Area, bool) {
	out := Area{
		R1: max(m.R1, area.R1),
		C1: max(m.C1, area.C1),
		R2: min(m.R2, area.R2),
		C2: min(m.C2, area.C2),
	}
	if out.R1 > out.R2 || out.C1 > out.C2 {
		return Area{}, false
	}
	return out, true
}

// findDataBounds finds the bounding box of non-empty cells.
func findDataBounds(rows [][]string) (minRow, maxRow, minCol, maxCol int) {
	minRow, maxRow = -1, -1
	minCol, maxCol = -1, -1

	for rowIdx, row := range rows {
		for colIdx, cell := range row {
			if cell != "" {
				if minRow < 0 || rowIdx < minRow {
					minRow = rowIdx
				}
				if maxRow < 0 || rowIdx > maxRow {
					maxRow = rowIdx
				}
				if minCol < 0 || colIdx < minCol {
					minCol = colIdx
				}
				if maxCol < 0 || colIdx > maxCol {
					maxCol = colIdx
				}
			}
		}
	}

	return
}
