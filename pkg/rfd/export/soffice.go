package export

import (
	"bytes"
	"context"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/ukaji3/rfdgen/pkg/rfd/config"
)

// sofficeCandidates are the binary names tried when no path is configured.
var sofficeCandidates = []string{"soffice", "libreoffice"}

const defaultTimeout = 2 * time.Minute

// executor abstracts command execution for testing.
type executor interface {
	LookPath(file string) (string, error)
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// osExecutor is the production executor backed by os/exec.
type osExecutor struct{}

func (osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (osExecutor) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	var out bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &out
	cmd.Stderr = &out
	err := cmd.Run()
	return out.Bytes(), err
}

var defaultExec executor = osExecutor{}

// Soffice exports through a headless LibreOffice.
type Soffice struct {
	bin     string
	timeout time.Duration
	exec    executor
}

func newSoffice(cfg config.ExportConfig, exec executor) *Soffice {
	s := &Soffice{timeout: cfg.Timeout, exec: exec}
	if s.timeout <= 0 {
		s.timeout = defaultTimeout
	}

	if cfg.SofficePath != "" {
		s.bin = cfg.SofficePath
		return s
	}
	s.bin = sofficeCandidates[0]
	for _, name := range sofficeCandidates {
		if path, err := exec.LookPath(name); err == nil {
			s.bin = path
			break
		}
	}
	return s
}

// Name implements Exporter.
func (s *Soffice) Name() string { return config.EngineSoffice }

// Available reports whether the binary can be found.
func (s *Soffice) Available() bool {
	_, err := s.exec.LookPath(s.bin)
	return err == nil
}

// Export converts the workbook into a scratch directory and moves the result
// to pdfPath. A private user profile keeps concurrent desktop sessions of
// LibreOffice from locking the conversion.
func (s *Soffice) Export(ctx context.Context, workbookPath, pdfPath string) error {
	scratch, err := os.MkdirTemp("", "rfdgen-soffice-")
	if err != nil {
		return errors.Wrap(err, "creating scratch directory")
	}
	defer os.RemoveAll(scratch)

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	args := []string{
		"-env:UserInstallation=" + fileURL(filepath.Join(scratch, "profile")),
		"--headless",
		"--norestore",
		"--convert-to", "pdf",
		"--outdir", scratch,
		workbookPath,
	}
	out, err := s.exec.Run(ctx, s.bin, args...)
	if ctx.Err() == context.DeadlineExceeded {
		return errors.Errorf("%s timed out after %s converting %s", s.bin, s.timeout, filepath.Base(workbookPath))
	}
	if err != nil {
		return errors.Wrapf(err, "%s: %s", s.bin, strings.TrimSpace(string(out)))
	}

	base := strings.TrimSuffix(filepath.Base(workbookPath), filepath.Ext(workbookPath))
	produced := filepath.Join(scratch, base+".pdf")
	if _, err := os.Stat(produced); err != nil {
		return errors.Errorf("%s produced no pdf for %s: %s", s.bin, filepath.Base(workbookPath), strings.TrimSpace(string(out)))
	}

	return moveFile(produced, pdfPath)
}

// fileURL turns a local path into a file URL. Windows paths such as
// C:\x get a leading slash so the drive letter is not read as the host.
func fileURL(path string) string {
	p := filepath.ToSlash(path)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return (&url.URL{Scheme: "file", Path: p}).String()
}
