package model

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

type QuestionType string

const (
	QuestionMCQ            QuestionType = "MCQ"
	QuestionTrueFalse      QuestionType = "TRUE_FALSE"
	QuestionShortAnswer    QuestionType = "SHORT_ANSWER"
	QuestionFillInTheBlank QuestionType = "FILL_IN_THE_BLANK"
	QuestionMatching       QuestionType = "MATCHING"
	QuestionEssay          QuestionType = "ESSAY"
	QuestionCoding         QuestionType = "CODING"
)

var ErrInvalidQuestion = errors.New("invalid question")

func (t QuestionType) Valid() bool {
	switch t {
	case QuestionMCQ, QuestionTrueFalse, QuestionShortAnswer, QuestionFillInTheBlank,
		QuestionMatching, QuestionEssay, QuestionCoding:
		return true
	}
	return false
}

type MatchingPair struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type TestCase struct {
	Input          string `json:"input"`
	ExpectedOutput string `json:"expectedOutput"`
}

type CodingQuestion struct {
	ProblemStatement  string     `json:"problemStatement"`
	FunctionSignature string     `json:"functionSignature"`
	Constraints       []string   `json:"constraints,omitempty"`
	SampleTestCases   []TestCase `json:"sampleTestCases,omitempty"`
	Hints             []string   `json:"hints,omitempty"`
}

// swagger:model Question
type Question struct {
	BaseModel
	SchoolID      uint            `gorm:"index;not null" json:"schoolId"`
	QuestionText  string          `gorm:"type:text;not null" json:"questionText"`
	Type          QuestionType    `gorm:"size:30;not null;index" json:"questionType"`
	ClassName     string          `gorm:"size:50;index" json:"className"`
	Subject       string          `gorm:"size:100;not null;index" json:"subject"`
	Topic         string          `gorm:"size:200;not null;index" json:"topic"`
	SubTopic      string          `gorm:"size:200" json:"subTopic,omitempty"`
	Difficulty    string          `gorm:"size:10;default:'Easy'" json:"difficulty"`
	Options       []string        `gorm:"type:text;serializer:json" json:"options,omitempty"`
	MatchingPairs []MatchingPair  `gorm:"type:text;serializer:json" json:"matchingPairs,omitempty"`
	Coding        *CodingQuestion `gorm:"type:text;serializer:json" json:"codingQuestion,omitempty"`
	CorrectAnswer string          `gorm:"type:text" json:"correctAnswer,omitempty"`
	Explanation   string          `gorm:"type:text" json:"explanation,omitempty"`
	Tags          []string        `gorm:"type:text;serializer:json" json:"tags,omitempty"`
	CreatedByID   uint            `gorm:"index" json:"createdBy"`
}

// Validate enforces the payload each question type needs.
func (q *Question) Validate() error {
	if strings.TrimSpace(q.QuestionText) == "" {
		return fmt.Errorf("%w: question text is required", ErrInvalidQuestion)
	}
	if !q.Type.Valid() {
		return fmt.Errorf("%w: unknown question type %q", ErrInvalidQuestion, q.Type)
	}

	switch q.Type {
	case QuestionMCQ, QuestionTrueFalse:
		if len(q.Options) == 0 {
			return fmt.Errorf("%w: options are required for MCQ and TRUE_FALSE questions: %s", ErrInvalidQuestion, q.QuestionText)
		}
	case QuestionMatching:
		if len(q.MatchingPairs) == 0 {
			return fmt.Errorf("%w: matching pairs are required for MATCHING questions: %s", ErrInvalidQuestion, q.QuestionText)
		}
	case QuestionCoding:
		if q.Coding == nil || strings.TrimSpace(q.Coding.ProblemStatement) == "" || strings.TrimSpace(q.Coding.FunctionSignature) == "" {
			return fmt.Errorf("%w: problem statement and function signature are required for CODING questions: %s", ErrInvalidQuestion, q.QuestionText)
		}
	}
	return nil
}

func (q *Question) BeforeCreate(tx *gorm.DB) error {
	return q.Validate()
}
