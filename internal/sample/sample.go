// Package sample writes small allocation and template workbooks for demos
// and tests. Their layout matches config.Default.
package sample

import (
	"strconv"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
)

// SourceSheet and TemplateSheet are the sheet names of the sample workbooks.
const (
	SourceSheet   = "RFAS GHG Saving Calculation"
	TemplateSheet = "Declaration"
)

// Customer is one allocation row of the sample source workbook.
type Customer struct {
	Key                 string
	Name                string
	Volume              float64
	Blend               float64
	RenewablePct        float64
	GHGIntensity        float64
	Certificate         string
	DeclarationNumber   string
	Address             string
	Period              string
	Process             string
	CountryOfProduction string
	Distribution        string
	Feedstock           string
	CountryOfOrigin     string
	Traceability        string
	Scheme              string
}

// Customers returns a handful of rows: three qualifying, one below the blend
// threshold and one with no customer name.
func Customers() []Customer {
	base := Customer{
		Certificate:         "RFAS-2025-0042",
		Process:             "HEFA",
		CountryOfProduction: "Netherlands",
		Distribution:        "Road tanker",
		Feedstock:           "Used cooking oil",
		CountryOfOrigin:     "Malaysia",
		Traceability:        "Mass balance",
		Scheme:              "ISCC EU",
		Period:              "Jan to Mar 2025",
		RenewablePct:        0.2,
		GHGIntensity:        14.3,
	}

	rows := []Customer{
		{Key: "C-001", Name: "Alpha Haulage Ltd", Address: "1 Dock Road, Bristol", Volume: 12500.25, Blend: 0.2},
		{Key: "C-002", Name: "Beta Logistics", Address: "22 Mill Lane, Leeds", Volume: 800, Blend: 0.005},
		{Key: "C-003", Name: "Gamma & Sons / Fuels", Address: "3 High St, York", Volume: 4300.5, Blend: 0.07, Period: "Apr to Jun 2025"},
		{Key: "C-004", Name: "", Address: "Unknown", Volume: 10, Blend: 0.3},
		{Key: "C-005", Name: "Delta Marine", Address: "Pier 4, Hull", Volume: 99000, Blend: 0.01, Period: "Q3 2025"},
	}
	for i := range rows {
		r := base
		r.Key, r.Name, r.Address, r.Volume, r.Blend = rows[i].Key, rows[i].Name, rows[i].Address, rows[i].Volume, rows[i].Blend
		if rows[i].Period != "" {
			r.Period = rows[i].Period
		}
		r.DeclarationNumber = "RFD-" + strconv.Itoa(1001+i)
		rows[i] = r
	}
	return rows
}

var sourceHeader = []interface{}{
	"Customer ID", "Customer", "Product", "Volume (kg)", "Blend",
	"Renewable %", "", "", "GHG intensity", "",
	"Certificate", "", "Declaration", "Address", "Period",
	"", "Process", "Country of production", "Distribution", "Feedstock",
	"Country of origin", "Traceability", "Scheme",
}

// WriteSource saves an allocation workbook holding customers from row 2.
func WriteSource(path string, customers []Customer) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SourceSheet); err != nil {
		return errors.Wrap(err, "naming source sheet")
	}
	if err := f.SetSheetRow(SourceSheet, "A1", &sourceHeader); err != nil {
		return errors.Wrap(err, "writing header")
	}

	for i, c := range customers {
		row := []interface{}{
			c.Key, nilIfEmpty(c.Name), "HVO", c.Volume, c.Blend,
			c.RenewablePct, nil, nil, c.GHGIntensity, nil,
			c.Certificate, nil, c.DeclarationNumber, c.Address, c.Period,
			nil, c.Process, c.CountryOfProduction, c.Distribution, c.Feedstock,
			c.CountryOfOrigin, c.Traceability, c.Scheme,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SourceSheet, cell, &row); err != nil {
			return errors.Wrapf(err, "writing row %d", i+2)
		}
	}

	return errors.Wrap(f.SaveAs(path), "saving source workbook")
}

// labels are the captions printed beside each populated cell.
var labels = map[string]string{
	"B5":  "Customer",
	"O5":  "Address",
	"O7":  "Period",
	"O8":  "Date issued",
	"B8":  "Declaration no.",
	"B12": "Renewable share",
	"B13": "Volume supplied",
	"S11": "GHG intensity",
	"B15": "Production process",
	"B17": "Country of production",
	"B19": "Distribution",
	"B26": "Feedstock",
	"B29": "Country of origin",
	"B32": "Traceability",
	"B34": "Scheme",
}

// WriteTemplate saves a one-page declaration template with a print area of
// A1:W36 on TemplateSheet.
func WriteTemplate(path string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", TemplateSheet); err != nil {
		return errors.Wrap(err, "naming template sheet")
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}})
	if err != nil {
		return errors.Wrap(err, "creating title style")
	}
	if err := f.SetCellValue(TemplateSheet, "A1", "Renewable Fuel Declaration"); err != nil {
		return err
	}
	if err := f.MergeCell(TemplateSheet, "A1", "W2"); err != nil {
		return errors.Wrap(err, "merging title")
	}
	if err := f.SetCellStyle(TemplateSheet, "A1", "A1", bold); err != nil {
		return err
	}

	for cell, text := range labels {
		if err := f.SetCellValue(TemplateSheet, cell, text); err != nil {
			return errors.Wrapf(err, "writing label %s", cell)
		}
	}
	if err := f.SetCellValue(TemplateSheet, "B36", "Issued under the Renewable Fuel Assurance Scheme."); err != nil {
		return err
	}
	if err := f.SetColWidth(TemplateSheet, "A", "W", 6); err != nil {
		return errors.Wrap(err, "setting column widths")
	}

	if err := f.SetDefinedName(&excelize.DefinedName{
		Name:     "_xlnm.Print_Area",
		RefersTo: "'" + TemplateSheet + "'!$A$1:$W$36",
		Scope:    TemplateSheet,
	}); err != nil {
		return errors.Wrap(err, "setting print area")
	}

	return errors.Wrap(f.SaveAs(path), "saving template workbook")
}

func nilIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
