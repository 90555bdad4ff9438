package models

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStringify(t *testing.T) {
	tests := []struct {
		input    interface{}
		expected string
	}{
		{nil, ""},
		{"Gasrec Ltd", "Gasrec Ltd"},
		{int64(1200), "1200"},
		{0.05, "0.05"},
		{1234.5, "1234.5"},
		{true, "true"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, Stringify(tt.input), "Stringify(%#v)", tt.input)
	}
}

func TestToFloat(t *testing.T) {
	f, ok := ToFloat(int64(3))
	assert.True(t, ok)
	assert.Equal(t, 3.0, f)

	f, ok = ToFloat(" 0.25 ")
	assert.True(t, ok)
	assert.Equal(t, 0.25, f)

	_, ok = ToFloat("n/a")
	assert.False(t, ok)

	_, ok = ToFloat(nil)
	assert.False(t, ok)
}

func TestRecordAccessors(t *testing.T) {
	r := Record{Row: 4, Values: map[string]interface{}{
		"customer_name": "  ",
		"volume":        int64(10),
	}}

	assert.True(t, r.IsBlank("customer_name"))
	assert.True(t, r.IsBlank("missing"))
	assert.False(t, r.IsBlank("volume"))

	v, ok := r.Float("volume")
	assert.True(t, ok)
	assert.Equal(t, 10.0, v)

	assert.Nil(t, Record{}.Get("anything"))
}

func TestSummaryPartitions(t *testing.T) {
	var s Summary
	s.Add(Outcome{Row: 2, Status: StatusCreated})
	s.Add(Outcome{Row: 3, Status: StatusSkipped})
	s.Add(Outcome{Row: 4, Status: StatusFallback, Err: errors.New("export failed")})
	s.Add(Outcome{Row: 5, Status: StatusKept})
	s.Add(Outcome{Row: 6, Status: StatusFailed, Err: errors.New("boom")})

	assert.Len(t, s.Created(), 2)
	assert.Len(t, s.Skipped(), 1)
	assert.Len(t, s.Errors(), 2)
	assert.True(t, s.HasErrors())

	assert.False(t, Summary{Outcomes: []Outcome{{Status: StatusCreated}}}.HasErrors())
}
