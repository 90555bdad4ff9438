package naming

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukaji3/rfdgen/pkg/rfd/config"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Gasrec Ltd.", "Gasrec Ltd"},
		{"A/B: C & D", "AB C  D"},
		{"RFAS-2025_001", "RFAS-2025_001"},
		{"Jan to Mar 2025", "Jan to Mar 2025"},
		{"trailing   ", "trailing"},
		{"Zürich Fuels", "Zürich Fuels"},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Sanitize(tt.input), "Sanitize(%q)", tt.input)
	}
}

func TestRender(t *testing.T) {
	vars := map[string]string{"a": "1", "b": "two"}

	got, err := Render("x-{{a}}-{{ b }}", vars)
	require.NoError(t, err)
	assert.Equal(t, "x-1-two", got)

	got, err = Render("", vars)
	require.NoError(t, err)
	assert.Equal(t, "", got)

	_, err = Render("{{a", vars)
	assert.ErrorContains(t, err, "unclosed")

	_, err = Render("{{ }}", vars)
	assert.ErrorContains(t, err, "empty placeholder")

	_, err = Render("{{c}}", vars)
	assert.ErrorContains(t, err, `missing variable "c"`)
}

func TestPlan(t *testing.T) {
	cfg := config.Default().Output
	cfg.Dir = "out"

	paths, err := Plan(cfg, 7, map[string]string{
		"certificate_number": "CERT/001",
		"declaration_period": "Jan to Mar 2025",
		"customer_name":      "Acme Haulage Ltd.",
	}, ".xlsm")
	require.NoError(t, err)

	base := "Renewable_Fuel_Declaration - CERT001 - Jan to Mar 2025 - Acme Haulage Ltd"
	assert.Equal(t, filepath.Join("out", base+".pdf"), paths.PDF)
	assert.Equal(t, filepath.Join("out", base+".xlsm"), paths.Workbook)
	assert.Equal(t, filepath.Join("out", "temp_7_Renewable_Fuel_Declaration - Acme Haulage Ltd.xlsm"), paths.Temp)
}

func TestPlanTempFallsBackToNaming(t *testing.T) {
	cfg := config.OutputConfig{Dir: "out", Naming: "{{customer_name}} {{row}}", TempPrefix: "tmp-"}

	paths, err := Plan(cfg, 4, map[string]string{"customer_name": "Beta", "row": "4"}, ".xlsx")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("out", "tmp-4_Beta 4.xlsx"), paths.Temp)
	assert.Equal(t, filepath.Join("out", "Beta 4.pdf"), paths.PDF)
}

func TestPlanRejectsEmptyName(t *testing.T) {
	cfg := config.OutputConfig{Dir: "out", Naming: "{{customer_name}}"}

	_, err := Plan(cfg, 3, map[string]string{"customer_name": "..."}, ".xlsx")
	assert.ErrorContains(t, err, "empty name")

	_, err = Plan(cfg, 3, map[string]string{}, ".xlsx")
	assert.ErrorContains(t, err, "missing variable")
}
