// Package period expands declaration periods such as "Jan to Mar 2025"
// into "3 months - Jan to Mar 2025".
package period

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// ErrInvalidPeriod indicates a period that is not "<Mon> to <Mon> [year]".
var ErrInvalidPeriod = errors.New("invalid declaration period")

var monthAbbr = map[string]int{
	"Jan": 1, "Feb": 2, "Mar": 3, "Apr": 4, "May": 5, "Jun": 6,
	"Jul": 7, "Aug": 8, "Sep": 9, "Oct": 10, "Nov": 11, "Dec": 12,
}

// Months returns the inclusive month count of p. The month names must be
// English three-letter abbreviations with an initial capital.
func Months(p string) (int, error) {
	parts := strings.SplitN(p, " to ", 2)
	if len(parts) != 2 {
		return 0, errors.Wrapf(ErrInvalidPeriod, "%q: missing \" to \"", p)
	}

	start := strings.TrimSpace(parts[0])
	endFields := strings.Fields(parts[1])
	if len(endFields) == 0 {
		return 0, errors.Wrapf(ErrInvalidPeriod, "%q: missing end month", p)
	}
	end := endFields[0]

	startNum, ok := monthAbbr[start]
	if !ok {
		return 0, errors.Wrapf(ErrInvalidPeriod, "%q: unknown month %q", p, start)
	}
	endNum, ok := monthAbbr[end]
	if !ok {
		return 0, errors.Wrapf(ErrInvalidPeriod, "%q: unknown month %q", p, end)
	}

	// A period running backwards (e.g. "Nov to Jan") yields zero or a
	// negative count, the same as subtracting month indexes in the workbook.
	return endNum - startNum + 1, nil
}

// Expand prefixes p with its month count. When p cannot be parsed it is
// returned unchanged together with the parse error.
func Expand(p string) (string, error) {
	n, err := Months(p)
	if err != nil {
		return p, err
	}
	return fmt.Sprintf("%d months - %s", n, p), nil
}
