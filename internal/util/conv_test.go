package util

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexibleMarks(t *testing.T) {
	type entry struct {
		Marks FlexibleMarks `json:"marksObtained"`
	}

	tests := []struct {
		name    string
		body    string
		present bool
		want    *float64
		wantErr bool
	}{
		{"number", `{"marksObtained": 40}`, true, ptr(40), false},
		{"decimal string", `{"marksObtained": " 42.5 "}`, true, ptr(42.5), false},
		{"null", `{"marksObtained": null}`, true, nil, false},
		{"omitted", `{}`, false, nil, false},
		{"text", `{"marksObtained": "abc"}`, true, nil, true},
		{"empty string", `{"marksObtained": ""}`, true, nil, true},
		{"bool", `{"marksObtained": true}`, true, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var e entry
			require.NoError(t, json.Unmarshal([]byte(tt.body), &e))
			assert.Equal(t, tt.present, e.Marks.Present)

			got, err := e.Marks.Float()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMarksHelpers(t *testing.T) {
	v, err := MarksOf(12.5).Float()
	require.NoError(t, err)
	assert.Equal(t, 12.5, *v)

	v, err = NullMarks().Float()
	require.NoError(t, err)
	assert.Nil(t, v)

	v, err = MarksText("7").Float()
	require.NoError(t, err)
	assert.Equal(t, 7.0, *v)
}

func ptr(f float64) *float64 { return &f }
