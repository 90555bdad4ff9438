package template

import (
	"strings"

	"github.com/xuri/excelize/v2"
)

// Area represents cell coordinate bounds.
type Area struct {
	// R1 is the start row (1-based).
	R1 int `json:"r1"`
	// C1 is the start column (1-based).
	C1 int `json:"c1"`
	// R2 is the end row (1-based, inclusive).
	R2 int `json:"r2"`
	// C2 is the end column (1-based, inclusive).
	C2 int `json:"c2"`
}

// Contains reports whether the cell at col, row lies inside a.
func (a Area) Contains(col, row int) bool {
	return col >= a.C1 && col <= a.C2 && row >= a.R1 && row <= a.R2
}

// PrintAreas extracts print areas from a workbook.
// Returns a map of sheet name to list of print areas.
func PrintAreas(f *excelize.File) map[string][]Area {
	result := make(map[string][]Area)

	for _, dn := range f.GetDefinedName() {
		// Look for _xlnm.Print_Area defined name
		if !strings.EqualFold(dn.Name, "_xlnm.Print_Area") {
			continue
		}
		sheetName, areas := parsePrintAreaReference(dn.RefersTo)
		if sheetName == "" {
			sheetName = dn.Scope
		}
		if sheetName != "" && len(areas) > 0 {
			result[sheetName] = append(result[sheetName], areas...)
		}
	}

	return result
}

// parsePrintAreaReference parses a print area reference string.
// Format: 'SheetName'!$A$1:$D$10 or SheetName!$A$1:$D$10
func parsePrintAreaReference(ref string) (string, []Area) {
	var areas []Area

	// Split by comma for multiple print areas
	parts := strings.Split(ref, ",")

	var sheetName string
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		rangeStr := part
		if idx := strings.LastIndex(part, "!"); idx >= 0 {
			sheet := strings.Trim(part[:idx], "'")
			rangeStr = part[idx+1:]
			if sheetName == "" {
				sheetName = sheet
			}
		}

		if area, ok := ParseRange(rangeStr); ok {
			areas = append(areas, area)
		}
	}

	return sheetName, areas
}

// ParseRange parses a range string like $A$1:$D$10 or B2:F40. A single cell
// yields a one-cell area.
func ParseRange(rangeStr string) (Area, bool) {
	rangeStr = strings.ReplaceAll(rangeStr, "$", "")

	parts := strings.Split(rangeStr, ":")
	if len(parts) == 1 {
		parts = append(parts, parts[0])
	}
	if len(parts) != 2 {
		return Area{}, false
	}

	startCol, startRow, err := excelize.CellNameToCoordinates(parts[0])
	if err != nil {
		return Area{}, false
	}

	endCol, endRow, err := excelize.CellNameToCoordinates(parts[1])
	if err != nil {
		return Area{}, false
	}

	if endCol < startCol {
		startCol, endCol = endCol, startCol
	}
	if endRow < startRow {
		startRow, endRow = endRow, startRow
	}

	return Area{R1: startRow, C1: startCol, R2: endRow, C2: endCol}, true
}
