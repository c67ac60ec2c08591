package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuestionValidate(t *testing.T) {
	tests := []struct {
		name    string
		q       Question
		wantErr bool
	}{
		{"short answer", Question{QuestionText: "2+2?", Type: QuestionShortAnswer}, false},
		{"mcq with options", Question{QuestionText: "Pick", Type: QuestionMCQ, Options: []string{"a", "b"}}, false},
		{"mcq without options", Question{QuestionText: "Pick", Type: QuestionMCQ}, true},
		{"true false without options", Question{QuestionText: "Sky is blue", Type: QuestionTrueFalse}, true},
		{"matching without pairs", Question{QuestionText: "Match", Type: QuestionMatching}, true},
		{"coding without signature", Question{QuestionText: "Sum", Type: QuestionCoding, Coding: &CodingQuestion{ProblemStatement: "add"}}, true},
		{"coding", Question{QuestionText: "Sum", Type: QuestionCoding, Coding: &CodingQuestion{ProblemStatement: "add", FunctionSignature: "func add(a, b int) int"}}, false},
		{"blank text", Question{QuestionText: " ", Type: QuestionEssay}, true},
		{"unknown type", Question{QuestionText: "x", Type: "ORAL"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.q.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidQuestion)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
