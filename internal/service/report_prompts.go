package service

import (
	"encoding/json"
	"fmt"
	"strings"

	"school_exam_backend/internal/model"
	"school_exam_backend/pkg/pdf"
)

const notAvailable = "Not Available"

// ReportSubject is who the report is about, as printed on the PDF.
type ReportSubject struct {
	Name   string
	Class  string
	Gender string
	School string
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return notAvailable
	}
	return s
}

func marshalTemplate(v interface{}) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		// only maps of strings and numbers are passed in
		panic(err)
	}
	return string(b)
}

const generatePlaceholder = "Generate this from the score and remark."

func speechPrompt(who ReportSubject, axes *model.SpeechAxes) string {
	breakdown := make([]map[string]interface{}, 0, len(model.SpeechAxisCatalog))
	for _, e := range axes.Entries() {
		breakdown = append(breakdown, map[string]interface{}{
			"domain":      e.Domain,
			"score":       e.Score,
			"remark":      e.Remark,
			"observation": generatePlaceholder,
			"improvement": generatePlaceholder,
		})
	}
	template := map[string]interface{}{
		"name":                 orNA(who.Name),
		"class":                orNA(who.Class),
		"gender":               orNA(who.Gender),
		"overview":             "A brief overview of the assessment and the student's overall performance.",
		"evaluation_breakdown": breakdown,
		"overall_conclusion":   "A final summary of the speaker's strengths and areas to work on.",
	}

	var b strings.Builder
	b.WriteString("Write a speech assessment report for a school student as a single JSON object.\n")
	b.WriteString("Keep every \"domain\", \"score\" and \"remark\" exactly as given. ")
	b.WriteString("Fill in \"overview\", \"observation\", \"improvement\" and \"overall_conclusion\". ")
	b.WriteString("Use exactly these keys and no others:\n\n")
	b.WriteString(marshalTemplate(template))
	return b.String()
}

func personalityPrompt(who ReportSubject, traits *model.PersonalityTraits) string {
	scores := map[string]string{}
	domains := map[string]interface{}{}
	for _, t := range traits.Entries() {
		scores[t.Key] = orNA(t.Level)
		domains[t.Key] = map[string]string{
			"explanation": fmt.Sprintf("What a %s level of %s means for this student.", strings.ToLower(orNA(t.Level)), strings.ToLower(t.Label)),
			"remarks":     "Observed strengths and challenges.",
			"suggestions": "Practical suggestions for parents and teachers.",
		}
	}
	template := map[string]interface{}{
		"name":               orNA(who.Name),
		"class":              orNA(who.Class),
		"gender":             orNA(who.Gender),
		"school":             orNA(who.School),
		"personality_scores": scores,
		"domains":            domains,
		"overall_conclusion": "A summary of the student's personality profile.",
		"skills_priorities":  []string{"A skill the student should develop first."},
	}

	var b strings.Builder
	b.WriteString("Write a Big Five personality report for a school student as a single JSON object.\n")
	b.WriteString("Keep \"personality_scores\" exactly as given. ")
	b.WriteString("Fill in every domain, \"overall_conclusion\" and between three and five \"skills_priorities\". ")
	b.WriteString("Use exactly these keys and no others:\n\n")
	b.WriteString(marshalTemplate(template))
	return b.String()
}

// traitChartValue maps a trait level to its chart value.
func traitChartValue(level string) float64 {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "high":
		return 80
	case "moderate":
		return 50
	case "low":
		return 20
	}
	return 0
}

func speechDocument(who ReportSubject, report *model.SpeechReport, content *SpeechContent) pdf.ReportDocument {
	entries := report.SpeechAxes.Entries()
	byDomain := make(map[string]SpeechDomain, len(content.EvaluationBreakdown))
	for _, d := range content.EvaluationBreakdown {
		byDomain[strings.ToLower(strings.TrimSpace(d.Domain))] = d
	}

	doc := pdf.ReportDocument{
		Title: "Speech Assessment Report",
		Info: [][2]string{
			{"Name", orNA(who.Name)},
			{"Class", orNA(who.Class)},
			{"School", orNA(who.School)},
			{"Date", report.ReportDate.Format("02 Jan 2006")},
		},
		Overview:   content.Overview,
		Conclusion: content.OverallConclusion,
		ChartTitle: "Speech Scores",
	}
	for _, e := range entries {
		// stored ratings win over whatever the model echoed back
		d := byDomain[strings.ToLower(e.Domain)]
		doc.Sections = append(doc.Sections, pdf.ReportSection{
			Heading: fmt.Sprintf("%s (%d/10, %s)", e.Domain, e.Score, e.Remark),
			Fields: []pdf.ReportField{
				{Label: "Observation", Text: d.Observation},
				{Label: "Improvement", Text: d.Improvement},
			},
		})
		doc.Chart = append(doc.Chart, pdf.ChartPoint{Label: e.Domain, Value: float64(e.Score * 10)})
	}
	if report.OverallComments != "" {
		doc.BulletsHeading = "Teacher's Comments"
		doc.Bullets = []string{report.OverallComments}
	}
	return doc
}

func personalityDocument(who ReportSubject, report *model.PersonalityReport, content *PersonalityContent) pdf.ReportDocument {
	doc := pdf.ReportDocument{
		Title: "Personality Assessment Report",
		Info: [][2]string{
			{"Name", orNA(who.Name)},
			{"Class", orNA(who.Class)},
			{"Gender", orNA(who.Gender)},
			{"Age", orNA(report.Age)},
			{"Center", orNA(report.Center)},
			{"School", orNA(who.School)},
		},
		Conclusion:     content.OverallConclusion,
		BulletsHeading: "Skills to Prioritise",
		Bullets:        content.SkillsPriorities,
		ChartTitle:     "Trait Levels",
	}
	narratives := content.Domains.ordered()
	for i, t := range report.PersonalityTraits.Entries() {
		n := narratives[i]
		doc.Sections = append(doc.Sections, pdf.ReportSection{
			Heading: fmt.Sprintf("%s (%s)", t.Label, orNA(t.Level)),
			Fields: []pdf.ReportField{
				{Label: "Explanation", Text: n.Explanation},
				{Label: "Remarks", Text: n.Remarks},
				{Label: "Suggestions", Text: n.Suggestions},
			},
		})
		doc.Chart = append(doc.Chart, pdf.ChartPoint{Label: t.Label, Value: traitChartValue(t.Level)})
	}
	return doc
}
