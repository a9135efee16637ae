package classify

import (
	"strings"

	"github.com/dgallion1/careermap/internal/model"
	"github.com/dgallion1/careermap/internal/profile"
	"github.com/dgallion1/careermap/internal/segment"
)

// Interest is the weak catch-all for personal interests. It fires on
// interest phrasing or on any line inside an interests section.
type Interest struct {
	rules    profile.InterestRules
	maxLabel int
}

// NewInterest returns an interest classifier.
func NewInterest(rules profile.InterestRules, maxLabel int) *Interest {
	return &Interest{rules: rules, maxLabel: maxLabel}
}

func (c *Interest) Type() model.NodeType { return model.TypeInterest }

func (c *Interest) Classify(seg segment.Segment) []Candidate {
	if !hasLetter(seg.Text) {
		return nil
	}
	lower := strings.ToLower(seg.Text)
	section := inSection(seg, c.rules.Sections)
	hits := countWords(lower, c.rules.Keywords)
	if hits == 0 && !section {
		return nil
	}

	label := seg.Text
	if kw, idx := firstWord(lower, c.rules.Keywords); idx >= 0 && len(lower) == len(seg.Text) {
		rest := strings.Trim(seg.Text[idx+len(kw):], " :,-–—")
		if hasLetter(rest) {
			label = capitalize(rest)
		}
	}
	label = cleanLabel(label, c.maxLabel)
	if wordCount(seg.Text) < c.rules.MinWords || label == "" {
		return nil
	}

	conf := c.rules.Base
	if hits > 1 {
		conf += c.rules.KeywordBonus * float64(hits-1)
	}
	if section {
		conf += c.rules.SectionBonus
	}
	return []Candidate{{
		Type:       model.TypeInterest,
		Label:      label,
		Confidence: score(conf),
		Span:       seg.Text,
	}}
}

// sectioned reports whether seg sits under an interests heading.
func (c *Interest) sectioned(seg segment.Segment) bool {
	return inSection(seg, c.rules.Sections)
}
