package classify

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/dgallion1/careermap/internal/model"
	"github.com/dgallion1/careermap/internal/profile"
	"github.com/dgallion1/careermap/internal/segment"
	"github.com/dgallion1/careermap/internal/timeframe"
)

var (
	roleSepRe    = regexp.MustCompile(`(?i)\s+at\s+|\s*@\s*`)
	rolePrefixRe = regexp.MustCompile(`(?i)^(?:i\s+(?:was|am|worked|work|started|joined|served)|i'm|started|worked|working|joined|served|currently|previously)\s+(?:(?:as|working as)\s+)?(?:an?\s+)?`)
	companyEnd   = []string{"(", "•", "·", "|", " - ", " – ", " — ", ",", ";", ". "}
)

// Role matches "<title> at <company>" lines.
type Role struct {
	rules    profile.RoleRules
	maxLabel int
}

// NewRole returns a role classifier.
func NewRole(rules profile.RoleRules, maxLabel int) *Role {
	return &Role{rules: rules, maxLabel: maxLabel}
}

func (r *Role) Type() model.NodeType { return model.TypeRole }

func (r *Role) Classify(seg segment.Segment) []Candidate {
	text := seg.Text
	loc := roleSepRe.FindStringIndex(text)
	if loc == nil {
		return nil
	}

	title := strings.TrimSpace(text[:loc[0]])
	if m := rolePrefixRe.FindStringIndex(title); m != nil {
		title = title[m[1]:]
	}
	title = strings.Trim(timeframe.Strip(title), " :-–—|")

	company := text[loc[1]:]
	end := len(company)
	for _, sep := range companyEnd {
		if i := strings.Index(company, sep); i >= 0 && i < end {
			end = i
		}
	}
	if d, ok := timeframe.Find(company); ok && d.Index < end {
		end = d.Index
	}
	company = strings.TrimRight(strings.TrimSpace(company[:end]), " .:")

	tl, cl := utf8.RuneCountInString(title), utf8.RuneCountInString(company)
	if tl <= r.rules.MinTitle || tl >= r.rules.MaxTitle {
		return nil
	}
	if cl <= r.rules.MinCompany || cl >= r.rules.MaxCompany || !hasLetter(company) {
		return nil
	}
	hits := countWords(strings.ToLower(title), r.rules.Keywords)
	if hits == 0 {
		return nil
	}

	conf := r.rules.Base + r.rules.KeywordBonus*float64(hits-1)
	tf := attachTimeframe(seg)
	if tf != nil {
		conf += r.rules.DateBonus
	}
	if inSection(seg, r.rules.Sections) {
		conf += r.rules.SectionBonus
	}

	label := cleanLabel(capitalize(title)+" at "+company, r.maxLabel)
	return []Candidate{{
		Type:       model.TypeRole,
		Label:      label,
		Confidence: score(conf),
		Span:       strings.TrimSpace(text[:loc[1]+end]),
		Timeframe:  tf,
	}}
}
