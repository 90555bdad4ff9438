package rfd

import (
	"errors"
	"fmt"
)

// ErrFileNotFound indicates a configured input file does not exist.
var ErrFileNotFound = errors.New("file not found")

// ErrNoQualifyingRows indicates the scan found no row above the blend threshold.
var ErrNoQualifyingRows = errors.New("no qualifying rows")

// Stage names the step of record processing that failed.
type Stage string

const (
	StageExtract  Stage = "extract"
	StagePlan     Stage = "plan"
	StagePopulate Stage = "populate"
	StageExport   Stage = "export"
	StageSave     Stage = "save"
)

// RecordError represents a failure while processing one source row.
type RecordError struct {
	Row   int
	Stage Stage
	Err   error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("row %d (%s): %v", e.Row, e.Stage, e.Err)
}

func (e *RecordError) Unwrap() error {
	return e.Err
}

// NewRecordError creates a new RecordError.
func NewRecordError(row int, stage Stage, err error) *RecordError {
	return &RecordError{
		Row:   row,
		Stage: stage,
		Err:   err,
	}
}
