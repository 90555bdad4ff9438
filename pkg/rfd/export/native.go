package export

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/pkg/errors"
	"github.com/ukaji3/rfdgen/pkg/rfd/config"
	"github.com/ukaji3/rfdgen/pkg/rfd/template"
	"github.com/xuri/excelize/v2"
)

// Page geometry in millimetres.
const (
	pageWidth    = 210.0
	pageHeight   = 297.0
	pageMargin   = 10.0
	baseFontSize = 10.0
	minFontSize  = 5.0
	cellPadding  = 1.0
)

// Native renders the print area of one sheet onto A4 pages.
type Native struct {
	sheet string
}

// NewNative returns a native exporter for sheet. An empty sheet selects the
// workbook's active sheet.
func NewNative(sheet string) *Native {
	return &Native{sheet: sheet}
}

// Name implements Exporter.
func (n *Native) Name() string { return config.EngineNative }

// Export implements Exporter.
func (n *Native) Export(ctx context.Context, workbookPath, pdfPath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	f, err := excelize.OpenFile(workbookPath)
	if err != nil {
		return errors.Wrapf(err, "opening %s", workbookPath)
	}
	defer f.Close()

	grid, err := template.Layout(f, n.sheet)
	if err != nil {
		return err
	}

	pdf := Render(grid, strings.TrimSuffix(filepath.Base(pdfPath), filepath.Ext(pdfPath)))
	if err := pdf.OutputFileAndClose(pdfPath); err != nil {
		return errors.Wrapf(err, "writing %s", pdfPath)
	}
	return nil
}

// Render draws grid scaled to the printable page width. Rows that do not
// fit on the current page continue on a new one.
func Render(grid template.Grid, title string) *fpdf.Fpdf {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(title, true)
	pdf.SetCreator("rfdgen", true)
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(false, pageMargin)
	pdf.SetDrawColor(160, 160, 160)
	pdf.SetLineWidth(0.1)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	usable := pageWidth - 2*pageMargin
	scale := 1.0
	if total := template.PointsToMM(grid.Width()); total > usable {
		scale = usable / total
	}
	fontSize := baseFontSize * scale
	if fontSize < minFontSize {
		fontSize = minFontSize
	}

	colX := make([]float64, len(grid.ColWidths)+1)
	colX[0] = pageMargin
	for i, w := range grid.ColWidths {
		colX[i+1] = colX[i] + template.PointsToMM(w)*scale
	}

	// rowY holds the top of each row on its page; rowPage its page number.
	rowY := make([]float64, len(grid.RowHeights))
	rowPage := make([]int, len(grid.RowHeights))
	page, y := 1, pageMargin
	for i, h := range grid.RowHeights {
		hmm := template.PointsToMM(h) * scale
		if y+hmm > pageHeight-pageMargin && y > pageMargin {
			page++
			y = pageMargin
		}
		rowY[i], rowPage[i] = y, page
		y += hmm
	}

	current := 0
	for ri := range grid.RowHeights {
		for current < rowPage[ri] {
			pdf.AddPage()
			current++
		}

		row := grid.Area.R1 + ri
		for ci := range grid.ColWidths {
			col := grid.Area.C1 + ci
			if grid.Covered(col, row) {
				continue
			}

			cell := grid.Cells[ri][ci]
			if cell.Text == "" {
				continue
			}
			x, w := colX[ci], colX[ci+1]-colX[ci]
			top, h := rowY[ri], template.PointsToMM(grid.RowHeights[ri])*scale

			if merged, ok := grid.MergeAt(col, row); ok {
				endCol := merged.C2 - grid.Area.C1 + 1
				endRow := merged.R2 - grid.Area.R1
				w = colX[endCol] - x
				// Merged ranges that cross a page break are cut at the break.
				h = 0
				for r := ri; r <= endRow && rowPage[r] == rowPage[ri]; r++ {
					h += template.PointsToMM(grid.RowHeights[r]) * scale
				}
			}

			drawCell(pdf, tr, cell, x, top, w, h, fontSize)
		}
	}

	if current == 0 {
		pdf.AddPage()
	}
	return pdf
}

func drawCell(pdf *fpdf.Fpdf, tr func(string) string, cell template.Cell, x, y, w, h, fontSize float64) {
	pdf.Rect(x, y, w, h, "D")

	style := ""
	if cell.Bold {
		style = "B"
	}
	pdf.SetFont("Helvetica", style, fontSize)

	align := "LM"
	if cell.Numeric {
		align = "RM"
	}

	pdf.ClipRect(x, y, w, h, false)
	pdf.SetXY(x+cellPadding, y)
	pdf.CellFormat(max(w-2*cellPadding, cellPadding), h, tr(cell.Text), "", 0, align, false, 0, "")
	pdf.ClipEnd()
}
