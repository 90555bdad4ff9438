package models

// Candidate is a source row that passed the blend filter.
type Candidate struct {
	// Row is the 1-based source row number.
	Row int `json:"row"`
	// Key is the key column value (customer name in the RFAS sheet).
	Key string `json:"key"`
	// Blend is the parsed blend fraction.
	Blend float64 `json:"blend"`
}

// Status is the result of processing one record.
type Status string

const (
	// StatusCreated means the PDF (and, if requested, the workbook) was written.
	StatusCreated Status = "created"
	// StatusKept means only the populated workbook was written, as requested.
	StatusKept Status = "kept"
	// StatusSkipped means the record had no customer name.
	StatusSkipped Status = "skipped"
	// StatusFallback means PDF export failed and the workbook was kept instead.
	StatusFallback Status = "fallback"
	// StatusFailed means nothing usable was produced for the record.
	StatusFailed Status = "failed"
)

// Outcome describes what happened to one record.
type Outcome struct {
	Row      int    `json:"row"`
	Customer string `json:"customer,omitempty"`
	Status   Status `json:"status"`
	// Output is the delivered file: the PDF, or the workbook for kept and
	// fallback outcomes.
	Output string `json:"output,omitempty"`
	// Workbook is the kept workbook alongside a created PDF, if any.
	Workbook string `json:"workbook,omitempty"`
	// Err holds the failure for fallback and failed outcomes.
	Err error `json:"-"`
}

// Failed reports whether the outcome needs operator attention.
func (o Outcome) Failed() bool {
	return o.Status == StatusFailed || o.Status == StatusFallback
}

// Summary aggregates the outcomes of a run.
type Summary struct {
	OutputDir string    `json:"output_dir"`
	Format    string    `json:"format"`
	Outcomes  []Outcome `json:"outcomes"`
}

// Add appends an outcome.
func (s *Summary) Add(o Outcome) {
	s.Outcomes = append(s.Outcomes, o)
}

// Created returns outcomes that delivered the requested file format.
func (s Summary) Created() []Outcome {
	return s.filter(func(o Outcome) bool {
		return o.Status == StatusCreated || o.Status == StatusKept
	})
}

// Skipped returns outcomes for rows with no customer name.
func (s Summary) Skipped() []Outcome {
	return s.filter(func(o Outcome) bool { return o.Status == StatusSkipped })
}

// Errors returns fallback and failed outcomes.
func (s Summary) Errors() []Outcome {
	return s.filter(Outcome.Failed)
}

// HasErrors reports whether any record failed.
func (s Summary) HasErrors() bool {
	for _, o := range s.Outcomes {
		if o.Failed() {
			return true
		}
	}
	return false
}

func (s Summary) filter(keep func(Outcome) bool) []Outcome {
	var out []Outcome
	for _, o := range s.Outcomes {
		if keep(o) {
			out = append(out, o)
		}
	}
	return out
}
