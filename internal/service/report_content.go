package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// SpeechContent is the JSON document the model returns for a speech report.
type SpeechContent struct {
	Name                string         `json:"name"`
	Class               string         `json:"class"`
	Gender              string         `json:"gender"`
	Overview            string         `json:"overview"`
	EvaluationBreakdown []SpeechDomain `json:"evaluation_breakdown"`
	OverallConclusion   string         `json:"overall_conclusion"`
}

type SpeechDomain struct {
	Domain string `json:"domain"`
	// Score and Remark are replaced by the stored values after parsing.
	Score       json.RawMessage `json:"score"`
	Remark      string          `json:"remark"`
	Observation string          `json:"observation"`
	Improvement string          `json:"improvement"`
}

func (c *SpeechContent) validate() error {
	if strings.TrimSpace(c.Overview) == "" {
		return errors.New("overview is empty")
	}
	if len(c.EvaluationBreakdown) == 0 {
		return errors.New("evaluation_breakdown is empty")
	}
	for i, d := range c.EvaluationBreakdown {
		if strings.TrimSpace(d.Domain) == "" {
			return fmt.Errorf("evaluation_breakdown[%d] has no domain", i)
		}
	}
	if strings.TrimSpace(c.OverallConclusion) == "" {
		return errors.New("overall_conclusion is empty")
	}
	return nil
}

type TraitScores struct {
	Neuroticism          string `json:"neuroticism"`
	Agreeableness        string `json:"agreeableness"`
	Extraversion         string `json:"extraversion"`
	Conscientiousness    string `json:"conscientiousness"`
	OpennessToExperience string `json:"openness_to_experience"`
}

type TraitNarrative struct {
	Explanation string `json:"explanation"`
	Remarks     string `json:"remarks"`
	Suggestions string `json:"suggestions"`
}

type TraitDomains struct {
	Neuroticism          TraitNarrative `json:"neuroticism"`
	Agreeableness        TraitNarrative `json:"agreeableness"`
	Extraversion         TraitNarrative `json:"extraversion"`
	Conscientiousness    TraitNarrative `json:"conscientiousness"`
	OpennessToExperience TraitNarrative `json:"openness_to_experience"`
}

// PersonalityContent is the JSON document the model returns for a
// personality report.
type PersonalityContent struct {
	Name              string       `json:"name"`
	Class             string       `json:"class"`
	Gender            string       `json:"gender"`
	School            string       `json:"school"`
	PersonalityScores TraitScores  `json:"personality_scores"`
	Domains           TraitDomains `json:"domains"`
	OverallConclusion string       `json:"overall_conclusion"`
	SkillsPriorities  []string     `json:"skills_priorities"`
}

func (d *TraitDomains) ordered() []TraitNarrative {
	return []TraitNarrative{d.Neuroticism, d.Agreeableness, d.Extraversion, d.Conscientiousness, d.OpennessToExperience}
}

func (c *PersonalityContent) validate() error {
	for i, n := range c.Domains.ordered() {
		if strings.TrimSpace(n.Explanation) == "" {
			return fmt.Errorf("domain %d has no explanation", i)
		}
	}
	if strings.TrimSpace(c.OverallConclusion) == "" {
		return errors.New("overall_conclusion is empty")
	}
	if len(c.SkillsPriorities) == 0 {
		return errors.New("skills_priorities is empty")
	}
	return nil
}

type validatable interface {
	validate() error
}

// decodeStrict decodes exactly one JSON value with no unknown fields.
func decodeStrict(raw string, v validatable) error {
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if _, err := dec.Token(); err != io.EOF {
		return errors.New("unexpected data after the JSON object")
	}
	return v.validate()
}

// parseGenerated decodes raw model output into a fresh T. When the strict
// decode fails, the repair steps run once and the result is decoded again.
// It reports whether the repair was needed.
func parseGenerated[T any, PT interface {
	*T
	validatable
}](raw string) (*T, bool, error) {
	var first T
	firstErr := decodeStrict(raw, PT(&first))
	if firstErr == nil {
		return &first, false, nil
	}

	var repaired T
	if err := decodeStrict(repairJSON(raw), PT(&repaired)); err != nil {
		return nil, true, fmt.Errorf("unparseable model output (%v), after repair: %w", firstErr, err)
	}
	return &repaired, true, nil
}

// repairJSON applies the fixed sequence of repairs for common model mistakes.
func repairJSON(s string) string {
	s = stripFences(s)
	s = asciiQuotes(s)
	s = dropStrayCommas(s)
	s = wrapBareObjectList(s, "evaluation_breakdown")
	s = wrapBareStringList(s, "skills_priorities")
	return s
}

// stripFences removes surrounding markdown code fences and a leading "json" tag.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
		s = strings.TrimSpace(s)
	}
	if len(s) >= 4 && strings.EqualFold(s[:4], "json") {
		s = strings.TrimSpace(s[4:])
	}
	return s
}

var quoteReplacer = strings.NewReplacer("“", `"`, "”", `"`, "‘", "'", "’", "'")

func asciiQuotes(s string) string {
	return quoteReplacer.Replace(s)
}

// dropStrayCommas removes commas that precede a closing bracket or another
// comma. Commas inside string literals are left alone.
func dropStrayCommas(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inString, escaped := false, false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			b.WriteByte(c)
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		if c == '"' {
			inString = true
			b.WriteByte(c)
			continue
		}
		if c == ',' {
			j := skipSpace(s, i+1)
			if j < len(s) && (s[j] == ']' || s[j] == '}' || s[j] == ',') {
				continue
			}
		}
		b.WriteByte(c)
	}
	return b.String()
}

func skipSpace(s string, i int) int {
	for i < len(s) && (s[i] == ' ' || s[i] == '\n' || s[i] == '\r' || s[i] == '\t') {
		i++
	}
	return i
}

// stringEnd returns the index just past the string literal starting at i.
func stringEnd(s string, i int) int {
	for j := i + 1; j < len(s); j++ {
		switch s[j] {
		case '\\':
			j++
		case '"':
			return j + 1
		}
	}
	return -1
}

// objectEnd returns the index just past the object starting at i.
func objectEnd(s string, i int) int {
	depth := 0
	for j := i; j < len(s); j++ {
		switch s[j] {
		case '"':
			end := stringEnd(s, j)
			if end < 0 {
				return -1
			}
			j = end - 1
		case '{', '[':
			depth++
		case '}', ']':
			depth--
			if depth == 0 {
				return j + 1
			}
		}
	}
	return -1
}

// valueStart finds key outside string literals and returns the index of the
// first character of its value, or -1.
func valueStart(s, key string) int {
	quoted := `"` + key + `"`
	for i := 0; i < len(s); i++ {
		if s[i] != '"' {
			continue
		}
		end := stringEnd(s, i)
		if end < 0 {
			return -1
		}
		if s[i:end] == quoted {
			j := skipSpace(s, end)
			if j < len(s) && s[j] == ':' {
				return skipSpace(s, j+1)
			}
		}
		i = end - 1
	}
	return -1
}

// wrapBareObjectList turns `"key": {..}, {..}` into `"key": [{..}, {..}]`.
func wrapBareObjectList(s, key string) string {
	start := valueStart(s, key)
	if start < 0 || start >= len(s) || s[start] != '{' {
		return s
	}

	last := objectEnd(s, start)
	if last < 0 {
		return s
	}
	for {
		comma := skipSpace(s, last)
		if comma >= len(s) || s[comma] != ',' {
			break
		}
		next := skipSpace(s, comma+1)
		if next >= len(s) || s[next] != '{' {
			break
		}
		end := objectEnd(s, next)
		if end < 0 {
			break
		}
		last = end
	}
	return s[:start] + "[" + s[start:last] + "]" + s[last:]
}

// wrapBareStringList turns `"key": "a", "b"` into `"key": ["a", "b"]`. A
// string followed by a colon is the next key and ends the list.
func wrapBareStringList(s, key string) string {
	start := valueStart(s, key)
	if start < 0 || start >= len(s) || s[start] != '"' {
		return s
	}

	last := stringEnd(s, start)
	if last < 0 {
		return s
	}
	for {
		comma := skipSpace(s, last)
		if comma >= len(s) || s[comma] != ',' {
			break
		}
		next := skipSpace(s, comma+1)
		if next >= len(s) || s[next] != '"' {
			break
		}
		end := stringEnd(s, next)
		if end < 0 {
			break
		}
		if after := skipSpace(s, end); after < len(s) && s[after] == ':' {
			break
		}
		last = end
	}
	return s[:start] + "[" + s[start:last] + "]" + s[last:]
}
