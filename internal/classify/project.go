package classify

import (
	"strings"
	"unicode"

	"github.com/dgallion1/careermap/internal/model"
	"github.com/dgallion1/careermap/internal/profile"
	"github.com/dgallion1/careermap/internal/segment"
)

var stopWords = map[string]bool{
	"a": true, "an": true, "the": true, "and": true, "or": true, "of": true,
	"to": true, "for": true, "in": true, "on": true, "with": true, "my": true,
	"our": true, "it": true, "this": true, "that": true, "by": true, "at": true,
	"as": true, "from": true, "into": true, "up": true, "out": true, "me": true,
	"we": true, "i": true, "them": true, "their": true, "its": true,
}

// Project matches accomplishment statements: a past-tense action verb
// followed by a concrete object.
type Project struct {
	rules    profile.ProjectRules
	maxLabel int
}

// NewProject returns a project classifier.
func NewProject(rules profile.ProjectRules, maxLabel int) *Project {
	return &Project{rules: rules, maxLabel: maxLabel}
}

func (p *Project) Type() model.NodeType { return model.TypeProject }

func (p *Project) Classify(seg segment.Segment) []Candidate {
	lower := strings.ToLower(seg.Text)
	verb, idx := firstWord(lower, p.rules.Keywords)
	if idx < 0 {
		return nil
	}
	object := strings.Fields(lower[idx+len(verb):])
	if len(object) < p.rules.MinObject || !hasContentWord(object) {
		return nil
	}

	conf := p.rules.Base + p.rules.KeywordBonus*float64(countWords(lower, p.rules.Keywords)-1)
	if countWords(lower, p.rules.Nouns) > 0 {
		conf += p.rules.NounBonus
	}
	if strings.ContainsFunc(seg.Text, func(r rune) bool { return unicode.IsDigit(r) || r == '%' }) {
		conf += p.rules.MetricBonus
	}
	tf := attachTimeframe(seg)
	if tf != nil {
		conf += p.rules.DateBonus
	}
	if inSection(seg, p.rules.Sections) {
		conf += p.rules.SectionBonus
	}

	start := idx
	if len(lower) != len(seg.Text) {
		start = 0
	}
	return []Candidate{{
		Type:       model.TypeProject,
		Label:      cleanLabel(capitalize(seg.Text[start:]), p.maxLabel),
		Confidence: score(conf),
		Span:       seg.Text[start:],
		Timeframe:  tf,
	}}
}

func hasContentWord(words []string) bool {
	for _, w := range words {
		w = strings.TrimFunc(w, func(r rune) bool { return !unicode.IsLetter(r) && !unicode.IsDigit(r) })
		if len(w) >= 3 && !stopWords[w] {
			return true
		}
	}
	return false
}
