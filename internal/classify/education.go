package classify

import (
	"strings"

	"github.com/dgallion1/careermap/internal/model"
	"github.com/dgallion1/careermap/internal/profile"
	"github.com/dgallion1/careermap/internal/segment"
)

// Education matches lines naming a degree or institution.
type Education struct {
	rules    profile.Rule
	maxLabel int
}

// NewEducation returns an education classifier.
func NewEducation(rules profile.Rule, maxLabel int) *Education {
	return &Education{rules: rules, maxLabel: maxLabel}
}

func (e *Education) Type() model.NodeType { return model.TypeEducation }

func (e *Education) Classify(seg segment.Segment) []Candidate {
	hits := countWords(strings.ToLower(seg.Text), e.rules.Keywords)
	if hits == 0 {
		return nil
	}
	label := cleanLabel(seg.Text, e.maxLabel)
	if !hasLetter(label) {
		return nil
	}

	conf := e.rules.Base + e.rules.KeywordBonus*float64(hits-1)
	tf := attachTimeframe(seg)
	if tf != nil {
		conf += e.rules.DateBonus
	}
	if inSection(seg, e.rules.Sections) {
		conf += e.rules.SectionBonus
	}
	return []Candidate{{
		Type:       model.TypeEducation,
		Label:      label,
		Confidence: score(conf),
		Span:       seg.Text,
		Timeframe:  tf,
	}}
}
