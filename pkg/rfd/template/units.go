package template

import "math"

// MaxDigitWidth is the pixel width of the widest digit in Excel's default
// font (Calibri 11) at 96 DPI.
const MaxDigitWidth = 7

// PointsPerPixel converts 96 DPI pixels to points (72 per inch).
const PointsPerPixel = 0.75

// ColumnWidthToPixels converts an Excel column width, measured in characters
// of the default font, to pixels at 96 DPI.
func ColumnWidthToPixels(width float64) float64 {
	if width <= 0 {
		return 0
	}
	return math.Trunc(((256*width + math.Trunc(128/MaxDigitWidth)) / 256) * MaxDigitWidth)
}

// ColumnWidthToPoints converts an Excel column width to points.
func ColumnWidthToPoints(width float64) float64 {
	return ColumnWidthToPixels(width) * PointsPerPixel
}

// PointsToMM converts points to millimetres.
func PointsToMM(pt float64) float64 {
	return pt * 25.4 / 72
}
