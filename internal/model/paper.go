package model

import (
	"sort"
	"time"
)

// swagger:model Paper
type Paper struct {
	BaseModel
	SchoolID    uint      `gorm:"index;not null" json:"school"`
	CreatedByID uint      `gorm:"index;not null" json:"createdBy"`
	ClassName   string    `gorm:"size:50;index;not null" json:"className"`
	Subject     string    `gorm:"size:100;not null" json:"subject"`
	ExamName    string    `gorm:"size:200;not null" json:"examName"`
	Topic       string    `gorm:"size:200;not null" json:"topic"`
	SubTopic    string    `gorm:"size:200;not null" json:"subTopic"`
	TotalMarks  float64   `gorm:"not null" json:"totalMarks"`
	DateOfExam  time.Time `gorm:"index;not null" json:"dateOfExam"`
	Version     int       `gorm:"not null;default:1" json:"version"`

	Questions   []PaperQuestion `gorm:"foreignKey:PaperID" json:"-"`
	QuestionIDs []uint          `gorm:"-" json:"questions"`
	Results     []PaperResult   `gorm:"foreignKey:PaperID" json:"results"`
}

// PaperQuestion orders the questions attached to a paper.
type PaperQuestion struct {
	PaperID    uint `gorm:"primaryKey;autoIncrement:false"`
	QuestionID uint `gorm:"primaryKey;autoIncrement:false"`
	Position   int  `gorm:"not null"`
}

// PaperResult is one row of the roster snapshot taken when the paper was assigned.
type PaperResult struct {
	ID            uint     `gorm:"primaryKey;autoIncrement" json:"-"`
	PaperID       uint     `gorm:"uniqueIndex:idx_paper_student;not null" json:"-"`
	StudentID     uint     `gorm:"uniqueIndex:idx_paper_student;not null" json:"student"`
	StudentName   string   `gorm:"size:100" json:"studentName"`
	MarksObtained *float64 `json:"marksObtained"`
	Remarks       string   `gorm:"size:500" json:"remarks"`
}

// MarksInRange reports whether m is an acceptable score for this paper.
func (p *Paper) MarksInRange(m float64) bool {
	return m >= 0 && m <= p.TotalMarks
}

func (p *Paper) HasStudent(studentID uint) bool {
	for _, r := range p.Results {
		if r.StudentID == studentID {
			return true
		}
	}
	return false
}

// SyncQuestionIDs fills QuestionIDs from the loaded join rows in position order.
func (p *Paper) SyncQuestionIDs() {
	qs := append([]PaperQuestion(nil), p.Questions...)
	sort.Slice(qs, func(i, j int) bool { return qs[i].Position < qs[j].Position })
	p.QuestionIDs = make([]uint, 0, len(qs))
	for _, q := range qs {
		p.QuestionIDs = append(p.QuestionIDs, q.QuestionID)
	}
}
