package model

import "time"

// RetestInterval is how long a student waits before taking a personality test again.
const RetestInterval = 30 * 24 * time.Hour

// LikertOptions are the answers every personality test question offers, in
// ascending agreement.
var LikertOptions = []string{"Strongly Disagree", "Disagree", "Not Sure", "Agree", "Strongly Agree"}

// LikertMark scores an answer from 1 (Strongly Disagree) to 5 (Strongly Agree).
func LikertMark(answer string) (int, bool) {
	for i, opt := range LikertOptions {
		if opt == answer {
			return i + 1, true
		}
	}
	return 0, false
}

type TestQuestion struct {
	Label   string   `json:"label"`
	Text    string   `json:"text"`
	Options []string `json:"options"`
}

// swagger:model PersonalityTest
type PersonalityTest struct {
	BaseModel
	Title       string         `gorm:"size:200;uniqueIndex;not null" json:"title"`
	Description string         `gorm:"type:text" json:"description"`
	Questions   []TestQuestion `gorm:"type:text;serializer:json" json:"questions,omitempty"`
}

func (PersonalityTest) TableName() string {
	return "personality_tests"
}

// Labels returns the question labels in order.
func (t *PersonalityTest) Labels() []string {
	labels := make([]string, len(t.Questions))
	for i, q := range t.Questions {
		labels[i] = q.Label
	}
	return labels
}

type TestAnswer struct {
	QuestionLabel string `json:"questionLabel"`
	Answer        string `json:"answer"`
	Mark          int    `json:"mark"`
}

// swagger:model PersonalityTestResponse
type PersonalityTestResponse struct {
	BaseModel
	StudentID uint             `gorm:"index;not null" json:"studentId"`
	Student   *User            `gorm:"foreignKey:StudentID" json:"student,omitempty"`
	TestID    uint             `gorm:"index;not null" json:"testId"`
	Test      *PersonalityTest `gorm:"foreignKey:TestID" json:"test,omitempty"`
	Responses []TestAnswer     `gorm:"type:text;serializer:json" json:"responses"`
	TotalMark int              `json:"totalMark"`
}

func (PersonalityTestResponse) TableName() string {
	return "personality_test_responses"
}

// NextAllowedAt is when the student may take the test again.
func (r *PersonalityTestResponse) NextAllowedAt() time.Time {
	return r.CreatedAt.Add(RetestInterval)
}
