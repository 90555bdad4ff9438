package report

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukaji3/rfdgen/pkg/rfd/models"
)

func TestSummary(t *testing.T) {
	sum := models.Summary{OutputDir: "/data/out", Format: "PDF"}
	sum.Add(models.Outcome{Row: 2, Customer: "Alpha", Status: models.StatusCreated, Output: "/data/out/Alpha.pdf", Workbook: "/data/out/Alpha.xlsm"})
	sum.Add(models.Outcome{Row: 3, Status: models.StatusSkipped})
	sum.Add(models.Outcome{Row: 5, Status: models.StatusSkipped})
	sum.Add(models.Outcome{Row: 4, Customer: "Gamma", Status: models.StatusFallback, Output: "/data/out/Gamma.xlsm", Err: errors.New("converter crashed")})

	var b strings.Builder
	require.NoError(t, Summary(&b, sum))
	out := b.String()

	assert.Contains(t, out, "Created 1 PDF file(s)")
	assert.Contains(t, out, "  - Alpha.pdf")
	assert.Contains(t, out, "workbook: Alpha.xlsm")
	assert.Contains(t, out, "Skipped 2 row(s) with no customer name: 3, 5")
	assert.Contains(t, out, "1 error(s)")
	assert.Contains(t, out, "  - Gamma: converter crashed")
	assert.Contains(t, out, "kept workbook: Gamma.xlsm")
	assert.Contains(t, out, "/data/out")
}

func TestSummaryNothingCreated(t *testing.T) {
	sum := models.Summary{OutputDir: "out", Format: "PDF"}
	sum.Add(models.Outcome{Row: 9, Status: models.StatusFailed, Err: errors.New("bad cell")})

	var b strings.Builder
	require.NoError(t, Summary(&b, sum))
	assert.Contains(t, b.String(), "No files were created.")
	assert.Contains(t, b.String(), "  - row 9: bad cell")
}

func TestCandidates(t *testing.T) {
	var b strings.Builder
	require.NoError(t, Candidates(&b, []models.Candidate{{Row: 2, Key: "C-001", Blend: 0.2}}))
	assert.Contains(t, b.String(), "1 qualifying row(s)")
	assert.Contains(t, b.String(), "C-001")
	assert.Contains(t, b.String(), "blend 0.2")
}
