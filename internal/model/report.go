package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrInvalidReport = errors.New("invalid report")

// ReportStatus tracks the generated artifact of a speech or personality report.
type ReportStatus struct {
	ReportGenerated bool       `gorm:"not null;default:false;index" json:"reportGenerated"`
	ReportSent      bool       `gorm:"not null;default:false" json:"reportSent"`
	ReportURL       string     `gorm:"size:500" json:"reportUrl,omitempty"`
	ReportPath      string     `gorm:"size:500" json:"-"`
	GeneratedAt     *time.Time `json:"generatedAt,omitempty"`
}

// ScoredAxis is one rated dimension of a speech evaluation.
type ScoredAxis struct {
	Score  int    `gorm:"not null;default:0" json:"score"`
	Remark string `gorm:"size:50" json:"remark"`
}

type SpeechAxes struct {
	LanguageProficiency ScoredAxis `gorm:"embedded;embeddedPrefix:language_proficiency_" json:"languageProficiency"`
	Speed               ScoredAxis `gorm:"embedded;embeddedPrefix:speed_" json:"speed"`
	Pitch               ScoredAxis `gorm:"embedded;embeddedPrefix:pitch_" json:"pitch"`
	Fillers             ScoredAxis `gorm:"embedded;embeddedPrefix:fillers_" json:"fillers"`
	Grammar             ScoredAxis `gorm:"embedded;embeddedPrefix:grammar_" json:"grammar"`
	SpeechStructure     ScoredAxis `gorm:"embedded;embeddedPrefix:speech_structure_" json:"speechStructure"`
	Accent              ScoredAxis `gorm:"embedded;embeddedPrefix:accent_" json:"accent"`
	NeckEyeMovements    ScoredAxis `gorm:"embedded;embeddedPrefix:neck_eye_movements_" json:"neckEyeMovements"`
	HandMovements       ScoredAxis `gorm:"embedded;embeddedPrefix:hand_movements_" json:"handMovements"`
	BodyMovementPosture ScoredAxis `gorm:"embedded;embeddedPrefix:body_movement_posture_" json:"bodyMovementPosture"`
	Confidence          ScoredAxis `gorm:"embedded;embeddedPrefix:confidence_" json:"confidence"`
}

// SpeechAxis describes one axis: its display name and the remarks it accepts.
type SpeechAxis struct {
	Key     string
	Domain  string
	Remarks []string
}

// SpeechAxisCatalog lists the axes in report order.
var SpeechAxisCatalog = []SpeechAxis{
	{"languageProficiency", "Language Proficiency", []string{"Fluent", "Limited vocabulary", "Native-like", "Basic", "Advanced"}},
	{"speed", "Speed", []string{"Too fast", "Too slow", "Steady", "Rushed", "Variable pace"}},
	{"pitch", "Pitch", []string{"Flat", "High-pitched", "Low-pitched", "Modulated", "Monotone"}},
	{"fillers", "Fillers", []string{"Excessive", "Minimal", "Noticeable", "Frequent pauses", "Smooth delivery"}},
	{"grammar", "Grammar", []string{"Accurate", "Frequent errors", "Occasional slips", "Needs improvement", "Flawless"}},
	{"speechStructure", "Speech Structure", []string{"Well-organized", "Disorganized", "Clear flow", "Abrupt transitions", "Logical"}},
	{"accent", "Accent", []string{"Neutral", "Regional", "Heavy", "Light", "Distinct"}},
	{"neckEyeMovements", "Neck & Eye Movements", []string{"Engaging eye contact", "Avoids eye contact", "Stiff neck", "Natural gaze", "Nervous glances"}},
	{"handMovements", "Hand Movements", []string{"Overused", "Minimal", "Natural", "Jerky", "Distracting"}},
	{"bodyMovementPosture", "Body Movement/Posture", []string{"Steady posture", "Swaying", "Nervous gestures", "Confident stance", "Slouched"}},
	{"confidence", "Confidence", []string{"High", "Moderate", "Low", "Unsure", "Commanding"}},
}

// AxisEntry pairs a catalog axis with its stored rating.
type AxisEntry struct {
	SpeechAxis
	ScoredAxis
}

// Entries returns the ratings in catalog order.
func (a *SpeechAxes) Entries() []AxisEntry {
	vals := []ScoredAxis{
		a.LanguageProficiency, a.Speed, a.Pitch, a.Fillers, a.Grammar, a.SpeechStructure,
		a.Accent, a.NeckEyeMovements, a.HandMovements, a.BodyMovementPosture, a.Confidence,
	}
	out := make([]AxisEntry, len(SpeechAxisCatalog))
	for i, axis := range SpeechAxisCatalog {
		out[i] = AxisEntry{SpeechAxis: axis, ScoredAxis: vals[i]}
	}
	return out
}

func (a *SpeechAxes) Validate() error {
	for _, e := range a.Entries() {
		if e.Score < 0 || e.Score > 10 {
			return fmt.Errorf("%w: %s score must be between 0 and 10", ErrInvalidReport, e.Key)
		}
		if !contains(e.Remarks, e.Remark) {
			return fmt.Errorf("%w: %s remark %q is not one of %s", ErrInvalidReport, e.Key, e.Remark, strings.Join(e.Remarks, ", "))
		}
	}
	return nil
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

// swagger:model SpeechReport
type SpeechReport struct {
	BaseModel
	SchoolID    uint      `gorm:"index;not null" json:"school"`
	StudentID   uint      `gorm:"index;not null" json:"student"`
	CreatedByID uint      `gorm:"index;not null" json:"createdBy"`
	ReportDate  time.Time `gorm:"not null" json:"reportDate"`
	SpeechAxes
	OverallComments string `gorm:"type:text" json:"overallComments,omitempty"`
	ReportStatus
}

// PersonalityTraits holds the five trait levels, normally High, Moderate or Low.
type PersonalityTraits struct {
	Neuroticism          string `gorm:"size:20;not null" json:"neuroticism"`
	Agreeableness        string `gorm:"size:20;not null" json:"agreeableness"`
	Extraversion         string `gorm:"size:20;not null" json:"extraversion"`
	Conscientiousness    string `gorm:"size:20;not null" json:"conscientiousness"`
	OpennessToExperience string `gorm:"size:20;not null" json:"opennessToExperience"`
}

// TraitEntry is a trait in report order with its snake_case key.
type TraitEntry struct {
	Key   string
	Label string
	Level string
}

func (t *PersonalityTraits) Entries() []TraitEntry {
	return []TraitEntry{
		{"neuroticism", "Neuroticism", t.Neuroticism},
		{"agreeableness", "Agreeableness", t.Agreeableness},
		{"extraversion", "Extraversion", t.Extraversion},
		{"conscientiousness", "Conscientiousness", t.Conscientiousness},
		{"openness_to_experience", "Openness To Experience", t.OpennessToExperience},
	}
}

// swagger:model PersonalityReport
type PersonalityReport struct {
	BaseModel
	SchoolID    uint `gorm:"index;not null" json:"school"`
	StudentID   uint `gorm:"index;not null" json:"student"`
	CreatedByID uint `gorm:"index;not null" json:"createdBy"`
	PersonalityTraits
	Gender     string  `gorm:"size:20;not null" json:"gender"`
	Age        string  `gorm:"size:10;not null" json:"age"`
	Center     string  `gorm:"size:100;not null" json:"center"`
	ExternalID *string `gorm:"size:100;uniqueIndex" json:"externalId,omitempty"`
	ReportStatus
}
