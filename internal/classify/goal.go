package classify

import (
	"strings"

	"github.com/dgallion1/careermap/internal/model"
	"github.com/dgallion1/careermap/internal/profile"
	"github.com/dgallion1/careermap/internal/segment"
	"github.com/dgallion1/careermap/internal/timeframe"
)

// Goal matches statements of forward intent. A past-tense marker anywhere
// in the segment vetoes the match.
type Goal struct {
	rules    profile.GoalRules
	maxLabel int
}

// NewGoal returns a goal classifier.
func NewGoal(rules profile.GoalRules, maxLabel int) *Goal {
	return &Goal{rules: rules, maxLabel: maxLabel}
}

func (g *Goal) Type() model.NodeType { return model.TypeGoal }

func (g *Goal) Classify(seg segment.Segment) []Candidate {
	lower := strings.ToLower(seg.Text)
	hits := countWords(lower, g.rules.Keywords)
	if hits == 0 || countWords(lower, g.rules.Past) > 0 {
		return nil
	}
	label := cleanLabel(seg.Text, g.maxLabel)
	if wordCount(label) < 2 {
		return nil
	}

	conf := g.rules.Base + g.rules.KeywordBonus*float64(hits-1)
	if inSection(seg, g.rules.Sections) {
		conf += g.rules.SectionBonus
	}
	var tf *model.Timeframe
	if r, ok := timeframe.Find(seg.Text); ok {
		conf += g.rules.DateBonus
		t := r.Timeframe()
		tf = &t
	}
	return []Candidate{{
		Type:       model.TypeGoal,
		Label:      label,
		Confidence: score(conf),
		Span:       seg.Text,
		Timeframe:  tf,
	}}
}
