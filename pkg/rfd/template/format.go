package template

import (
	"fmt"
	"math"
	"strings"

	"github.com/pkg/errors"
	"github.com/ukaji3/rfdgen/pkg/rfd/models"
)

// FormatValue applies an optional fmt pattern to a cell value. With no
// pattern the value is returned unchanged so numbers stay numeric in the
// template. Float verbs (%f, %e, %g) and %d require a numeric value.
func FormatValue(v interface{}, format string) (interface{}, error) {
	if format == "" {
		return v, nil
	}

	switch verb := formatVerb(format); verb {
	case 'f', 'F', 'e', 'E', 'g', 'G':
		f, ok := models.ToFloat(v)
		if !ok {
			return nil, errors.Errorf("format %q needs a number, got %q", format, models.Stringify(v))
		}
		return fmt.Sprintf(format, f), nil
	case 'd':
		f, ok := models.ToFloat(v)
		if !ok {
			return nil, errors.Errorf("format %q needs a number, got %q", format, models.Stringify(v))
		}
		return fmt.Sprintf(format, int64(math.Round(f))), nil
	case 0:
		return format, nil
	default:
		return fmt.Sprintf(format, models.Stringify(v)), nil
	}
}

// formatVerb returns the verb of the first directive in format, or 0 when
// there is none. "%%" is a literal percent and is skipped.
func formatVerb(format string) byte {
	for i := 0; i < len(format); i++ {
		if format[i] != '%' {
			continue
		}
		j := i + 1
		for j < len(format) && strings.IndexByte("+-# 0123456789.", format[j]) >= 0 {
			j++
		}
		if j >= len(format) {
			return 0
		}
		if format[j] == '%' {
			i = j
			continue
		}
		return format[j]
	}
	return 0
}
