package classify

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/dgallion1/careermap/internal/model"
	"github.com/dgallion1/careermap/internal/profile"
	"github.com/dgallion1/careermap/internal/segment"
)

var (
	listHeaderRe = regexp.MustCompile(`^([\p{L}][\p{L} /&+'-]{1,40}):\s*(.*)$`)
	listSplitRe  = regexp.MustCompile(`\s*(?:[,;|•·]|\s+and\s+)\s*`)
)

// bareListWords caps item length for lists outside a skills section so
// ordinary comma-separated prose is not taken for a list.
const bareListWords = 2

// Skill matches list-like lines and emits one candidate per item.
//
// Three shapes are recognized: a known header followed by items
// ("Programming: Go, Python"), a bare separated list of short tokens, and
// inside a skills section a "Name: description" line or a lone short item.
type Skill struct {
	rules profile.SkillRules
}

// NewSkill returns a skill classifier.
func NewSkill(rules profile.SkillRules) *Skill {
	return &Skill{rules: rules}
}

func (s *Skill) Type() model.NodeType { return model.TypeSkill }

func (s *Skill) Classify(seg segment.Segment) []Candidate {
	text := seg.Text
	section := inSection(seg, s.rules.Sections)
	bonus := 0.0
	if section {
		bonus = s.rules.SectionBonus
	}

	if m := listHeaderRe.FindStringSubmatch(text); m != nil {
		header := strings.ToLower(strings.TrimSpace(m[1]))
		if countWords(header, s.rules.Keywords) > 0 {
			if items := s.items(m[2], 1, s.rules.MaxItemWords); len(items) > 0 {
				return s.candidates(items, s.rules.Base+bonus, text)
			}
			return nil
		}
		if section && s.validItem(m[1]) {
			return s.candidates([]string{m[1]}, s.rules.ListBase+bonus, text)
		}
	}

	maxWords := bareListWords
	if section {
		maxWords = s.rules.MaxItemWords
	}
	if items := s.items(text, s.rules.MinListItems, maxWords); len(items) > 0 {
		return s.candidates(items, s.rules.ListBase+bonus, text)
	}
	if section && !strings.ContainsAny(text, ".!?:") && s.validItem(text) {
		return s.candidates([]string{text}, s.rules.ListBase+bonus, text)
	}
	return nil
}

// items splits a list and returns its entries when there are at least minItems of
// them and every one is short enough to be a skill name.
func (s *Skill) items(list string, minItems, maxWords int) []string {
	list = strings.TrimRight(strings.TrimSpace(list), ".")
	if list == "" {
		return nil
	}
	parts := listSplitRe.Split(list, -1)
	if len(parts) < minItems {
		return nil
	}
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if !s.validItem(p) || wordCount(p) > maxWords {
			return nil
		}
		out = append(out, p)
	}
	if len(out) < minItems {
		return nil
	}
	return out
}

func (s *Skill) validItem(item string) bool {
	item = strings.TrimSpace(item)
	return item != "" &&
		hasLetter(item) &&
		utf8.RuneCountInString(item) <= s.rules.MaxItemLength &&
		wordCount(item) <= s.rules.MaxItemWords &&
		!strings.ContainsAny(item, "!?")
}

func (s *Skill) candidates(items []string, conf float64, span string) []Candidate {
	seen := make(map[string]bool, len(items))
	out := make([]Candidate, 0, len(items))
	for _, item := range items {
		label := s.Normalize(item)
		key := strings.ToLower(label)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, Candidate{
			Type:       model.TypeSkill,
			Label:      label,
			Confidence: score(conf),
			Span:       span,
		})
	}
	return out
}

// Normalize maps a skill name to its canonical spelling ("golang" -> "Go")
// and capitalizes lowercase single words.
func (s *Skill) Normalize(name string) string {
	name = strings.TrimSpace(name)
	lower := strings.ToLower(name)
	if canonical, ok := s.rules.Aliases[lower]; ok {
		return canonical
	}
	if name == lower && !strings.Contains(name, " ") {
		return capitalize(name)
	}
	return name
}
