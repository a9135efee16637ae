// Package classify scores segments against one heuristic matcher per node
// type and picks the winning candidates.
package classify

import (
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dgallion1/careermap/internal/model"
	"github.com/dgallion1/careermap/internal/profile"
	"github.com/dgallion1/careermap/internal/segment"
	"github.com/dgallion1/careermap/internal/timeframe"
)

// Candidate is one possible node found in a segment.
type Candidate struct {
	Type       model.NodeType
	Label      string
	Confidence float64
	Span       string // matched substring of the segment text
	Timeframe  *model.Timeframe
}

// Classifier recognizes one node type. It returns no candidates for a
// segment it does not match; only skills may return more than one.
type Classifier interface {
	Type() model.NodeType
	Classify(seg segment.Segment) []Candidate
}

// sentenceTypes are the classifiers that also see multi-line sentences.
var sentenceTypes = map[model.NodeType]bool{
	model.TypeProject:  true,
	model.TypeGoal:     true,
	model.TypeInterest: true,
}

// Set runs every enabled classifier of a profile.
type Set struct {
	classifiers []Classifier
	threshold   float64
}

// NewSet builds the classifiers enabled in p, in type-priority order.
func NewSet(p profile.Profile) *Set {
	s := &Set{threshold: p.AcceptThreshold}
	if p.Role.Enabled {
		s.classifiers = append(s.classifiers, NewRole(p.Role, p.MaxLabelLength))
	}
	if p.Education.Enabled {
		s.classifiers = append(s.classifiers, NewEducation(p.Education, p.MaxLabelLength))
	}
	if p.Project.Enabled {
		s.classifiers = append(s.classifiers, NewProject(p.Project, p.MaxLabelLength))
	}
	if p.Goal.Enabled {
		s.classifiers = append(s.classifiers, NewGoal(p.Goal, p.MaxLabelLength))
	}
	if p.Skill.Enabled {
		s.classifiers = append(s.classifiers, NewSkill(p.Skill))
	}
	if p.Interest.Enabled {
		s.classifiers = append(s.classifiers, NewInterest(p.Interest, p.MaxLabelLength))
	}
	return s
}

// Classify returns the accepted candidates for seg: those of the single
// classifier with the highest confidence, ties going to the higher-priority
// type. Candidates under the acceptance threshold are dropped. Interest is a
// fallback: outside an interests section it is only tried when no other
// classifier accepted the segment.
func (s *Set) Classify(seg segment.Segment) []Candidate {
	var (
		best     []Candidate
		bestConf = -1.0
		bestType model.NodeType
	)
	for _, c := range s.classifiers {
		if seg.Kind == segment.KindSentence && !sentenceTypes[c.Type()] {
			continue
		}
		if in, ok := c.(*Interest); ok && best != nil && !in.sectioned(seg) {
			continue
		}
		var accepted []Candidate
		top := -1.0
		for _, cand := range c.Classify(seg) {
			if cand.Confidence < s.threshold {
				continue
			}
			accepted = append(accepted, cand)
			top = math.Max(top, cand.Confidence)
		}
		if len(accepted) == 0 {
			continue
		}
		if top > bestConf || (top == bestConf && c.Type().Priority() < bestType.Priority()) {
			best, bestConf, bestType = accepted, top, c.Type()
		}
	}
	return best
}

// score clamps and rounds a confidence so equal evidence compares equal.
func score(v float64) float64 {
	v = math.Max(0, math.Min(1, v))
	return math.Round(v*100) / 100
}

// inSection reports whether a segment's section heading names one of the
// given sections.
func inSection(seg segment.Segment, sections []string) bool {
	if seg.Section == "" {
		return false
	}
	for _, s := range sections {
		if strings.Contains(seg.Section, s) {
			return true
		}
	}
	return false
}

// wordIndex finds kw in lower at a word boundary. A trailing "s" is allowed
// so plurals match.
func wordIndex(lower, kw string) int {
	from := 0
	for {
		i := strings.Index(lower[from:], kw)
		if i < 0 {
			return -1
		}
		i += from
		end := i + len(kw)
		if boundaryBefore(lower, i) && (boundaryAfter(lower, end) || (end < len(lower) && lower[end] == 's' && boundaryAfter(lower, end+1))) {
			return i
		}
		from = i + 1
	}
}

func boundaryBefore(s string, i int) bool {
	if i == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(s[:i])
	return !isWordRune(r)
}

func boundaryAfter(s string, i int) bool {
	if i >= len(s) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(s[i:])
	return !isWordRune(r)
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// countWords counts distinct keywords present in lower.
func countWords(lower string, keywords []string) int {
	n := 0
	for _, kw := range keywords {
		if wordIndex(lower, strings.ToLower(kw)) >= 0 {
			n++
		}
	}
	return n
}

// firstWord returns the earliest keyword occurrence in lower.
func firstWord(lower string, keywords []string) (kw string, idx int) {
	idx = -1
	for _, k := range keywords {
		k = strings.ToLower(k)
		if i := wordIndex(lower, k); i >= 0 && (idx < 0 || i < idx) {
			kw, idx = k, i
		}
	}
	return kw, idx
}

// attachTimeframe resolves the date range on or right below the segment.
func attachTimeframe(seg segment.Segment) *model.Timeframe {
	r, ok := timeframe.Around(seg.Text, seg.Next)
	if !ok {
		return nil
	}
	tf := r.Timeframe()
	return &tf
}

// cleanLabel strips a date expression, surrounding punctuation and excess
// length from a label.
func cleanLabel(text string, max int) string {
	text = timeframe.Strip(text)
	text = strings.Join(strings.Fields(text), " ")
	text = strings.TrimRight(text, " .,;:!-–—•·|")
	text = strings.TrimLeft(text, " .,;:!-–—•·|")
	if max > 3 && utf8.RuneCountInString(text) > max {
		runes := []rune(text)
		text = strings.TrimSpace(string(runes[:max-3])) + "..."
	}
	return text
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

func wordCount(s string) int {
	return len(strings.Fields(s))
}

func hasLetter(s string) bool {
	return strings.IndexFunc(s, unicode.IsLetter) >= 0
}
