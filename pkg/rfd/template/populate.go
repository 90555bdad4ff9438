// Package template fills copies of the declaration template and describes
// its printable layout.
package template

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/ukaji3/rfdgen/pkg/rfd/config"
	"github.com/xuri/excelize/v2"
)

// CopyFile copies src to dst, preserving the permission bits and
// modification time of src.
func CopyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return errors.Wrap(err, "opening template")
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return errors.Wrap(err, "reading template info")
	}

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, info.Mode().Perm())
	if err != nil {
		return errors.Wrap(err, "creating working copy")
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return errors.Wrap(err, "copying template")
	}
	if err := out.Close(); err != nil {
		return errors.Wrap(err, "closing working copy")
	}

	return os.Chtimes(dst, info.ModTime(), info.ModTime())
}

// ResolveSheet returns sheet when it exists in f, or the active sheet when
// sheet is empty.
func ResolveSheet(f *excelize.File, sheet string) (string, error) {
	if sheet == "" {
		return f.GetSheetName(f.GetActiveSheetIndex()), nil
	}
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return "", errors.Errorf("template sheet %q not found", sheet)
	}
	return sheet, nil
}

// Populate copies the template at templatePath to dst and writes each
// mapped value into its cell on sheet. values is keyed by field name;
// missing fields clear their cell.
func Populate(templatePath, dst, sheet string, cells []config.CellMapping, values map[string]interface{}) error {
	if err := CopyFile(templatePath, dst); err != nil {
		return err
	}

	f, err := excelize.OpenFile(dst)
	if err != nil {
		return errors.Wrapf(err, "opening working copy %s", dst)
	}
	defer f.Close()

	target, err := ResolveSheet(f, sheet)
	if err != nil {
		return err
	}

	for _, m := range cells {
		v, err := FormatValue(values[m.Field], m.Format)
		if err != nil {
			return errors.Wrapf(err, "cell %s (%s)", m.Cell, m.Field)
		}
		if err := f.SetCellValue(target, m.Cell, v); err != nil {
			return errors.Wrapf(err, "writing cell %s", m.Cell)
		}
	}

	if err := f.Save(); err != nil {
		return errors.Wrapf(err, "saving working copy %s", dst)
	}
	return nil
}
