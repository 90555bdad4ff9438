// Package report prints the end-of-run summary.
package report

import (
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/ukaji3/rfdgen/pkg/rfd/models"
)

var (
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#4CAF50")).Bold(true)
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true)
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F7B801"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#999999"))
	headerStyle = lipgloss.NewStyle().Bold(true)
)

// Summary writes the outcome of a run: created files, skipped rows, errors
// and the output folder.
func Summary(w io.Writer, sum models.Summary) error {
	var b strings.Builder

	created := sum.Created()
	if len(created) > 0 {
		b.WriteString(okStyle.Render(fmt.Sprintf("✓ Created %d %s file(s):", len(created), sum.Format)))
		b.WriteString("\n")
		for _, o := range created {
			fmt.Fprintf(&b, "  - %s\n", filepath.Base(o.Output))
			if o.Workbook != "" {
				fmt.Fprintf(&b, "    %s\n", mutedStyle.Render("workbook: "+filepath.Base(o.Workbook)))
			}
		}
	} else {
		b.WriteString(warnStyle.Render("No files were created."))
		b.WriteString("\n")
	}

	if skipped := sum.Skipped(); len(skipped) > 0 {
		rows := make([]string, len(skipped))
		for i, o := range skipped {
			rows[i] = strconv.Itoa(o.Row)
		}
		b.WriteString(warnStyle.Render(fmt.Sprintf("Skipped %d row(s) with no customer name: %s", len(skipped), strings.Join(rows, ", "))))
		b.WriteString("\n")
	}

	if errs := sum.Errors(); len(errs) > 0 {
		b.WriteString(errStyle.Render(fmt.Sprintf("✗ %d error(s):", len(errs))))
		b.WriteString("\n")
		for _, o := range errs {
			name := o.Customer
			if name == "" {
				name = "row " + strconv.Itoa(o.Row)
			}
			fmt.Fprintf(&b, "  - %s: %v\n", name, o.Err)
			if o.Status == models.StatusFallback && o.Output != "" {
				fmt.Fprintf(&b, "    %s\n", mutedStyle.Render("kept workbook: "+filepath.Base(o.Output)))
			}
		}
	}

	b.WriteString(headerStyle.Render("Output folder: "))
	b.WriteString(sum.OutputDir)
	b.WriteString("\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// Candidates writes the rows a run would process.
func Candidates(w io.Writer, cands []models.Candidate) error {
	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("%d qualifying row(s)", len(cands))))
	b.WriteString("\n")
	for _, c := range cands {
		fmt.Fprintf(&b, "  row %-5d %-30s blend %s\n", c.Row, c.Key, strconv.FormatFloat(c.Blend, 'f', -1, 64))
	}
	_, err := io.WriteString(w, b.String())
	return err
}
