package util

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FlexibleMarks holds a marks value as sent by a client: a JSON number, a
// numeric string, or null. Present is false when the field was omitted.
type FlexibleMarks struct {
	Present bool
	Null    bool
	raw     []byte
}

func (m *FlexibleMarks) UnmarshalJSON(data []byte) error {
	m.Present = true
	m.raw = append([]byte(nil), bytes.TrimSpace(data)...)
	m.Null = bytes.Equal(m.raw, []byte("null"))
	return nil
}

// Float coerces the value. A null value yields (nil, nil).
func (m FlexibleMarks) Float() (*float64, error) {
	if !m.Present || m.Null {
		return nil, nil
	}

	var text string
	if len(m.raw) > 0 && m.raw[0] == '"' {
		if err := json.Unmarshal(m.raw, &text); err != nil {
			return nil, fmt.Errorf("%s is not a number", m.raw)
		}
	} else {
		text = string(m.raw)
	}

	f, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, fmt.Errorf("%q is not a number", text)
	}
	return &f, nil
}

func MarksOf(v float64) FlexibleMarks {
	return FlexibleMarks{Present: true, raw: []byte(strconv.FormatFloat(v, 'f', -1, 64))}
}

func NullMarks() FlexibleMarks {
	return FlexibleMarks{Present: true, Null: true, raw: []byte("null")}
}

func MarksText(s string) FlexibleMarks {
	b, _ := json.Marshal(s)
	return FlexibleMarks{Present: true, raw: b}
}
