package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseExamDate(t *testing.T) {
	tests := []struct {
		in   string
		ok   bool
		want time.Time
	}{
		{"15-09-2023", true, time.Date(2023, 9, 15, 0, 0, 0, 0, time.UTC)},
		{"29-02-2024", true, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)},
		{"31-02-2023", false, time.Time{}},
		{"29-02-2023", false, time.Time{}},
		{"2023-09-15", false, time.Time{}},
		{"5-9-2023", false, time.Time{}},
		{"15/09/2023", false, time.Time{}},
		{"", false, time.Time{}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseExamDate(tt.in)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.True(t, tt.want.Equal(got), "got %s", got)
				assert.Equal(t, time.UTC, got.Location())
			}
		})
	}
}

func TestMonthWindow(t *testing.T) {
	from, to := MonthWindow(2023, 9)
	assert.Equal(t, time.Date(2023, 9, 1, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2023, 10, 1, 0, 0, 0, 0, time.UTC), to)

	from, to = MonthWindow(2023, 12)
	assert.Equal(t, 2023, from.Year())
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), to)
}
