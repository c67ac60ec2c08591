package service

import (
	"testing"

	"school_exam_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepairJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"fenced", "```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"bare json tag", "json {\"a\": 1}", `{"a": 1}`},
		{"smart quotes", "{“a”: “it’s”}", `{"a": "it's"}`},
		{"trailing commas", `{"a": [1, 2,], "b": 3,}`, `{"a": [1, 2], "b": 3}`},
		{"comma inside string kept", `{"a": "x,]"}`, `{"a": "x,]"}`},
		{
			"bare object list",
			`{"evaluation_breakdown": {"domain": "A"}, {"domain": "B"}, "overall_conclusion": "ok"}`,
			`{"evaluation_breakdown": [{"domain": "A"}, {"domain": "B"}], "overall_conclusion": "ok"}`,
		},
		{
			"bare string list stops at next key",
			`{"skills_priorities": "a", "b", "overall_conclusion": "ok"}`,
			`{"skills_priorities": ["a", "b"], "overall_conclusion": "ok"}`,
		},
		{"proper list untouched", `{"skills_priorities": ["a"]}`, `{"skills_priorities": ["a"]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, repairJSON(tt.in))
		})
	}
}

func TestParseGenerated(t *testing.T) {
	content, repaired, err := parseGenerated[SpeechContent](speechReply)
	require.NoError(t, err)
	assert.False(t, repaired)
	assert.Len(t, content.EvaluationBreakdown, 2)

	content, repaired, err = parseGenerated[SpeechContent]("```\n" + speechReply + "\n```")
	require.NoError(t, err)
	assert.True(t, repaired)
	assert.Equal(t, "Confidence", content.EvaluationBreakdown[1].Domain)

	_, _, err = parseGenerated[SpeechContent](`{"overview": "x", "evaluation_breakdown": [], "overall_conclusion": "y"}`)
	assert.Error(t, err)

	_, _, err = parseGenerated[SpeechContent](`{"overview": "x", "mood": "happy"}`)
	assert.Error(t, err, "unknown keys are rejected")

	_, _, err = parseGenerated[SpeechContent](speechReply + ` {"extra": true}`)
	assert.Error(t, err)
}

func TestTraitChartValue(t *testing.T) {
	assert.Equal(t, 80.0, traitChartValue("High"))
	assert.Equal(t, 50.0, traitChartValue(" moderate "))
	assert.Equal(t, 20.0, traitChartValue("LOW"))
	assert.Equal(t, 0.0, traitChartValue("Very High"))
}

func TestSpeechDocumentUsesStoredRatings(t *testing.T) {
	report := &model.SpeechReport{SpeechAxes: validAxes(), OverallComments: "Well done"}
	content := &SpeechContent{
		Overview: "o",
		EvaluationBreakdown: []SpeechDomain{
			{Domain: "confidence", Score: []byte("2"), Remark: "Low", Observation: "Calm", Improvement: "More eye contact"},
		},
		OverallConclusion: "c",
	}

	doc := speechDocument(ReportSubject{Name: "Asha"}, report, content)
	require.Len(t, doc.Sections, len(model.SpeechAxisCatalog))
	last := doc.Sections[len(doc.Sections)-1]
	assert.Equal(t, "Confidence (8/10, High)", last.Heading)
	assert.Equal(t, "Calm", last.Fields[0].Text)
	assert.Equal(t, 80.0, doc.Chart[len(doc.Chart)-1].Value)
	assert.Equal(t, []string{"Well done"}, doc.Bullets)
	assert.Equal(t, [2]string{"Class", notAvailable}, doc.Info[1])
}

func TestSpeechPromptCarriesRatings(t *testing.T) {
	axes := validAxes()
	prompt := speechPrompt(ReportSubject{Name: "Asha"}, &axes)
	assert.Contains(t, prompt, `"domain": "Body Movement/Posture"`)
	assert.Contains(t, prompt, `"remark": "Steady posture"`)
	assert.Contains(t, prompt, `"class": "Not Available"`)
}
