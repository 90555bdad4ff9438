// Package config holds the paths, cell mappings and processing options for a
// declaration run.
//
// The defaults reproduce the layout of the RFAS allocation workbook and the
// 25-26 declaration template. A YAML file, RFDGEN_* environment variables or
// command-line flags override individual keys.
package config

import (
	"io"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"github.com/xuri/excelize/v2"
	"go.yaml.in/yaml/v3"
)

// EnvPrefix is the prefix for environment variable overrides.
const EnvPrefix = "RFDGEN"

// Engine names accepted by ExportConfig.Engine.
const (
	EngineAuto    = "auto"
	EngineSoffice = "soffice"
	EngineNative  = "native"
)

// Derived field names computed per record rather than read from the source.
const (
	FieldTotalPeriod = "total_declaration_period"
	FieldDateIssued  = "date_dec_issued"
)

// Config is the complete configuration for a run.
type Config struct {
	Source   SourceConfig   `mapstructure:"source" yaml:"source"`
	Template TemplateConfig `mapstructure:"template" yaml:"template"`
	Output   OutputConfig   `mapstructure:"output" yaml:"output"`
	Export   ExportConfig   `mapstructure:"export" yaml:"export"`
	Ledger   LedgerConfig   `mapstructure:"ledger" yaml:"ledger"`
	Log      LogConfig      `mapstructure:"log" yaml:"log"`
}

// SourceConfig describes where records are read from.
type SourceConfig struct {
	// Path is the source workbook.
	Path string `mapstructure:"path" yaml:"path"`
	// Sheet is the worksheet holding one record per row.
	Sheet string `mapstructure:"sheet" yaml:"sheet"`
	// FirstRow is the first data row (1-based, after the header).
	FirstRow int `mapstructure:"first_row" yaml:"first_row"`
	// KeyColumn must be non-empty for a row to qualify. Its contiguous run
	// from row 1 also bounds the scan.
	KeyColumn string `mapstructure:"key_column" yaml:"key_column"`
	// BlendColumn holds the fossil fuel blend fraction.
	BlendColumn string `mapstructure:"blend_column" yaml:"blend_column"`
	// BlendThreshold is the minimum blend fraction for a row to qualify.
	BlendThreshold float64 `mapstructure:"blend_threshold" yaml:"blend_threshold"`
	// NameField is the field whose emptiness causes a row to be skipped.
	NameField string `mapstructure:"name_field" yaml:"name_field"`
	// Fields maps field names to source column letters.
	Fields map[string]string `mapstructure:"fields" yaml:"fields"`
}

// CellMapping writes one field into one template cell.
type CellMapping struct {
	Cell  string `mapstructure:"cell" yaml:"cell"`
	Field string `mapstructure:"field" yaml:"field"`
	// Format is an optional fmt pattern such as "%.1f kg".
	Format string `mapstructure:"format" yaml:"format,omitempty"`
}

// TemplateConfig describes the declaration template.
type TemplateConfig struct {
	Path string `mapstructure:"path" yaml:"path"`
	// Sheet is the sheet to populate. Empty selects the active sheet.
	Sheet string        `mapstructure:"sheet" yaml:"sheet"`
	Cells []CellMapping `mapstructure:"cells" yaml:"cells"`
}

// OutputConfig controls where and under which names files are written.
type OutputConfig struct {
	Dir string `mapstructure:"dir" yaml:"dir"`
	// Naming is the base name pattern for final files, with {{field}}
	// placeholders replaced by sanitized record values.
	Naming string `mapstructure:"naming" yaml:"naming"`
	// TempNaming is the base name pattern of the working copy. Empty uses
	// Naming.
	TempNaming string `mapstructure:"temp_naming" yaml:"temp_naming"`
	// TempPrefix prefixes the working copy of the template.
	TempPrefix string `mapstructure:"temp_prefix" yaml:"temp_prefix"`
}

// ExportConfig controls PDF export.
type ExportConfig struct {
	SaveAsPDF bool `mapstructure:"save_as_pdf" yaml:"save_as_pdf"`
	// KeepWorkbook keeps the populated workbook next to the PDF.
	KeepWorkbook bool   `mapstructure:"keep_workbook" yaml:"keep_workbook"`
	Engine       string `mapstructure:"engine" yaml:"engine"`
	// SofficePath overrides the LibreOffice binary looked up on PATH.
	SofficePath string        `mapstructure:"soffice_path" yaml:"soffice_path,omitempty"`
	Timeout     time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// LedgerConfig enables the SQLite run ledger when Path is set.
type LedgerConfig struct {
	Path string `mapstructure:"path" yaml:"path"`
}

// LogConfig selects log verbosity and format ("text" or "json").
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// DefaultNaming is the base name of every generated declaration.
const DefaultNaming = "Renewable_Fuel_Declaration - {{certificate_number}} - {{declaration_period}} - {{customer_name}}"

// DefaultTempNaming is the base name of the working copy, after TempPrefix
// and the row number.
const DefaultTempNaming = "Renewable_Fuel_Declaration - {{customer_name}}"

// Default returns the configuration matching the RFAS workbook layout.
// Paths are left empty and must be supplied.
func Default() Config {
	return Config{
		Source: SourceConfig{
			Sheet:          "RFAS GHG Saving Calculation",
			FirstRow:       2,
			KeyColumn:      "A",
			BlendColumn:    "E",
			BlendThreshold: 0.01,
			NameField:      "customer_name",
			Fields: map[string]string{
				"customer_name":               "B",
				"volume_of_fuel_supplied":     "D",
				"renewable_percentage":        "F",
				"ghg_emissions_intensity":     "I",
				"certificate_number":          "K",
				"declaration_number":          "M",
				"customer_address":            "N",
				"declaration_period":          "O",
				"production_process":          "Q",
				"country_of_production":       "R",
				"distribution_of_fuel":        "S",
				"feedstock":                   "T",
				"country_of_origin":           "U",
				"traceability_from_origin":    "V",
				"sc_voluntary_sustain_scheme": "W",
			},
		},
		Template: TemplateConfig{
			Cells: []CellMapping{
				{Cell: "D5", Field: "customer_name"},
				{Cell: "Q5", Field: "customer_address"},
				{Cell: "D8", Field: "declaration_number"},
				{Cell: "Q7", Field: FieldTotalPeriod},
				{Cell: "Q8", Field: FieldDateIssued},
				{Cell: "D12", Field: "renewable_percentage"},
				{Cell: "D13", Field: "volume_of_fuel_supplied", Format: "%.1f kg"},
				{Cell: "U11", Field: "ghg_emissions_intensity"},
				{Cell: "D15", Field: "production_process"},
				{Cell: "D17", Field: "country_of_production"},
				{Cell: "D19", Field: "distribution_of_fuel"},
				{Cell: "D26", Field: "feedstock"},
				{Cell: "D29", Field: "country_of_origin"},
				{Cell: "D32", Field: "traceability_from_origin"},
				{Cell: "D34", Field: "sc_voluntary_sustain_scheme"},
			},
		},
		Output: OutputConfig{
			Naming:     DefaultNaming,
			TempNaming: DefaultTempNaming,
			TempPrefix: "temp_",
		},
		Export: ExportConfig{
			SaveAsPDF: true,
			Engine:    EngineAuto,
			Timeout:   2 * time.Minute,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// SetDefaults registers every default key on v so that environment
// variables and flags can override them individually.
func SetDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("source.path", d.Source.Path)
	v.SetDefault("source.sheet", d.Source.Sheet)
	v.SetDefault("source.first_row", d.Source.FirstRow)
	v.SetDefault("source.key_column", d.Source.KeyColumn)
	v.SetDefault("source.blend_column", d.Source.BlendColumn)
	v.SetDefault("source.blend_threshold", d.Source.BlendThreshold)
	v.SetDefault("source.name_field", d.Source.NameField)
	for field, col := range d.Source.Fields {
		v.SetDefault("source.fields."+field, col)
	}

	v.SetDefault("template.path", d.Template.Path)
	v.SetDefault("template.sheet", d.Template.Sheet)
	v.SetDefault("template.cells", d.Template.Cells)

	v.SetDefault("output.dir", d.Output.Dir)
	v.SetDefault("output.naming", d.Output.Naming)
	v.SetDefault("output.temp_naming", d.Output.TempNaming)
	v.SetDefault("output.temp_prefix", d.Output.TempPrefix)

	v.SetDefault("export.save_as_pdf", d.Export.SaveAsPDF)
	v.SetDefault("export.keep_workbook", d.Export.KeepWorkbook)
	v.SetDefault("export.engine", d.Export.Engine)
	v.SetDefault("export.soffice_path", d.Export.SofficePath)
	v.SetDefault("export.timeout", d.Export.Timeout)

	v.SetDefault("ledger.path", d.Ledger.Path)

	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
}

// Load decodes the effective configuration from v. SetDefaults must have
// been called on v first.
func Load(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, errors.Wrap(err, "decoding configuration")
	}
	return cfg, nil
}

// Validate reports the first problem that would make a run fail before any
// record is processed.
func (c Config) Validate() error {
	if c.Source.Path == "" {
		return errors.New("source.path is required")
	}
	if c.Template.Path == "" {
		return errors.New("template.path is required")
	}
	if c.Output.Dir == "" {
		return errors.New("output.dir is required")
	}
	if c.Source.Sheet == "" {
		return errors.New("source.sheet is required")
	}
	if c.Source.FirstRow < 1 {
		return errors.Errorf("source.first_row must be at least 1, got %d", c.Source.FirstRow)
	}
	if err := checkColumn("source.key_column", c.Source.KeyColumn); err != nil {
		return err
	}
	if err := checkColumn("source.blend_column", c.Source.BlendColumn); err != nil {
		return err
	}
	for _, field := range c.Source.SortedFields() {
		if err := checkColumn("source.fields."+field, c.Source.Fields[field]); err != nil {
			return err
		}
	}
	if _, ok := c.Source.Fields[c.Source.NameField]; !ok {
		return errors.Errorf("source.name_field %q is not a mapped field", c.Source.NameField)
	}

	known := c.KnownFields()
	for i, m := range c.Template.Cells {
		if _, _, err := excelize.CellNameToCoordinates(m.Cell); err != nil {
			return errors.Wrapf(err, "template.cells[%d]", i)
		}
		if !known[m.Field] {
			return errors.Errorf("template.cells[%d]: unknown field %q", i, m.Field)
		}
	}

	if strings.TrimSpace(c.Output.Naming) == "" {
		return errors.New("output.naming is required")
	}

	switch c.Export.Engine {
	case EngineAuto, EngineSoffice, EngineNative:
	default:
		return errors.Errorf("export.engine must be %s, %s or %s, got %q",
			EngineAuto, EngineSoffice, EngineNative, c.Export.Engine)
	}
	return nil
}

// KnownFields returns every field a template cell or the naming pattern may
// reference.
func (c Config) KnownFields() map[string]bool {
	known := map[string]bool{
		FieldTotalPeriod: true,
		FieldDateIssued:  true,
	}
	for field := range c.Source.Fields {
		known[field] = true
	}
	return known
}

// SortedFields returns the mapped source field names in a stable order.
func (s SourceConfig) SortedFields() []string {
	fields := make([]string, 0, len(s.Fields))
	for f := range s.Fields {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}

// WorkbookExt returns the template's extension (".xlsx" or ".xlsm").
func (t TemplateConfig) WorkbookExt() string {
	if ext := filepath.Ext(t.Path); ext != "" {
		return ext
	}
	return ".xlsx"
}

// WriteYAML serialises cfg as a YAML document.
func WriteYAML(w io.Writer, cfg Config) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return errors.Wrap(err, "encoding configuration")
	}
	return enc.Close()
}

func checkColumn(key, col string) error {
	if col == "" {
		return errors.Errorf("%s is required", key)
	}
	if _, err := excelize.ColumnNameToNumber(col); err != nil {
		return errors.Wrapf(err, "%s", key)
	}
	return nil
}
