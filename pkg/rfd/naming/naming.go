// Package naming builds safe output file names from record values.
package naming

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/pkg/errors"
	"github.com/ukaji3/rfdgen/pkg/rfd/config"
)

// Sanitize keeps letters, digits, spaces, hyphens and underscores, and trims
// trailing whitespace.
func Sanitize(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' || r == '-' || r == '_' {
			b.WriteRune(r)
		}
	}
	return strings.TrimRightFunc(b.String(), unicode.IsSpace)
}

// Render replaces {{name}} placeholders with vars values. A missing
// variable, an unclosed placeholder or an empty placeholder is an error.
func Render(pattern string, vars map[string]string) (string, error) {
	if pattern == "" {
		return "", nil
	}

	var out strings.Builder
	rest := pattern
	for {
		start := strings.Index(rest, "{{")
		if start == -1 {
			out.WriteString(rest)
			return out.String(), nil
		}

		out.WriteString(rest[:start])
		rest = rest[start+2:]

		end := strings.Index(rest, "}}")
		if end == -1 {
			return "", errors.Errorf("naming pattern %q: unclosed placeholder", pattern)
		}

		key := strings.TrimSpace(rest[:end])
		if key == "" {
			return "", errors.Errorf("naming pattern %q: empty placeholder", pattern)
		}

		value, ok := vars[key]
		if !ok {
			return "", errors.Errorf("naming pattern %q: missing variable %q", pattern, key)
		}

		out.WriteString(value)
		rest = rest[end+2:]
	}
}

// Paths are the files a single record may produce.
type Paths struct {
	// Temp is the working copy of the template.
	Temp string
	// PDF is the final declaration.
	PDF string
	// Workbook is the final populated workbook, written only when kept.
	Workbook string
}

// Plan renders cfg.Naming and cfg.TempNaming with sanitized vars and returns
// the output paths for row. ext is the template workbook extension including the dot.
func Plan(cfg config.OutputConfig, row int, vars map[string]string, ext string) (Paths, error) {
	safe := make(map[string]string, len(vars))
	for k, v := range vars {
		safe[k] = Sanitize(v)
	}

	base, err := Render(cfg.Naming, safe)
	if err != nil {
		return Paths{}, err
	}
	base = strings.TrimSpace(base)
	if base == "" {
		return Paths{}, errors.Errorf("naming pattern %q rendered an empty name for row %d", cfg.Naming, row)
	}

	tempBase := base
	if cfg.TempNaming != "" {
		if tempBase, err = Render(cfg.TempNaming, safe); err != nil {
			return Paths{}, err
		}
		if tempBase = strings.TrimSpace(tempBase); tempBase == "" {
			return Paths{}, errors.Errorf("naming pattern %q rendered an empty name for row %d", cfg.TempNaming, row)
		}
	}

	return Paths{
		Temp:     filepath.Join(cfg.Dir, fmt.Sprintf("%s%d_%s%s", cfg.TempPrefix, row, tempBase, ext)),
		PDF:      filepath.Join(cfg.Dir, base+".pdf"),
		Workbook: filepath.Join(cfg.Dir, base+ext),
	}, nil
}
