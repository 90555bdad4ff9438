// Package export converts populated declaration workbooks to PDF.
//
// Two engines are available. The soffice engine drives a headless
// LibreOffice and reproduces the template's page setup faithfully. The
// native engine renders the template's print area in-process and needs no
// external software.
package export

import (
	"context"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/ukaji3/rfdgen/pkg/rfd/config"
)

// Exporter converts a workbook to a PDF file.
type Exporter interface {
	// Name returns the engine name.
	Name() string
	// Export writes workbookPath as a PDF to pdfPath, replacing any
	// existing file.
	Export(ctx context.Context, workbookPath, pdfPath string) error
}

// New returns the exporter selected by cfg.Engine. The auto engine prefers
// LibreOffice when its binary can be found and falls back to native.
func New(cfg config.ExportConfig, sheet string) (Exporter, error) {
	return newExporter(cfg, sheet, defaultExec)
}

func newExporter(cfg config.ExportConfig, sheet string, exec executor) (Exporter, error) {
	switch cfg.Engine {
	case config.EngineSoffice:
		s := newSoffice(cfg, exec)
		if !s.Available() {
			return nil, errors.Errorf("LibreOffice binary %q not found", s.bin)
		}
		return s, nil
	case config.EngineNative:
		return NewNative(sheet), nil
	case config.EngineAuto, "":
		if s := newSoffice(cfg, exec); s.Available() {
			return s, nil
		}
		return NewNative(sheet), nil
	default:
		return nil, errors.Errorf("unknown export engine %q", cfg.Engine)
	}
}

// moveFile renames src to dst, copying across filesystems when a rename is
// not possible.
func moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}

	in, err := os.Open(src)
	if err != nil {
		return errors.Wrap(err, "opening converted file")
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return errors.Wrap(err, "creating pdf")
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return errors.Wrap(err, "writing pdf")
	}
	if err := out.Close(); err != nil {
		return errors.Wrap(err, "closing pdf")
	}
	return os.Remove(src)
}
