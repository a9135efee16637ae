// Package profile holds the tunable parameters of the analysis pipeline.
// The standard, simple and smart presets replace separate analyzer variants
// with one pipeline run at different strictness.
package profile

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// ErrUnknownProfile is returned for a preset name that does not exist and is
// not a readable file.
var ErrUnknownProfile = errors.New("unknown analyzer profile")

var validate = validator.New()

// Profile is the full parameter set of one analysis run.
type Profile struct {
	Name string `yaml:"name" json:"name" validate:"required"`

	AcceptThreshold float64 `yaml:"accept_threshold" json:"acceptThreshold" validate:"gt=0,lte=1"`
	MergeSimilarity float64 `yaml:"merge_similarity" json:"mergeSimilarity" validate:"gt=0,lte=1"`

	MaxSegments      int `yaml:"max_segments" json:"maxSegments" validate:"gte=1"`
	MaxSegmentLength int `yaml:"max_segment_length" json:"maxSegmentLength" validate:"gte=20"`
	MaxLabelLength   int `yaml:"max_label_length" json:"maxLabelLength" validate:"gte=10"`
	AdjacencyMonths  int `yaml:"adjacency_months" json:"adjacencyMonths" validate:"gte=0"`
	Workers          int `yaml:"workers" json:"workers" validate:"gte=0"`

	Role      RoleRules     `yaml:"role" json:"role"`
	Education Rule          `yaml:"education" json:"education"`
	Project   ProjectRules  `yaml:"project" json:"project"`
	Goal      GoalRules     `yaml:"goal" json:"goal"`
	Skill     SkillRules    `yaml:"skill" json:"skill"`
	Interest  InterestRules `yaml:"interest" json:"interest"`
	Layout    Layout        `yaml:"layout" json:"layout"`
}

// Rule is the scoring shared by every classifier.
type Rule struct {
	Enabled      bool     `yaml:"enabled" json:"enabled"`
	Base         float64  `yaml:"base" json:"base" validate:"gte=0,lte=1"`
	KeywordBonus float64  `yaml:"keyword_bonus" json:"keywordBonus" validate:"gte=0,lte=1"`
	DateBonus    float64  `yaml:"date_bonus" json:"dateBonus" validate:"gte=0,lte=1"`
	SectionBonus float64  `yaml:"section_bonus" json:"sectionBonus" validate:"gte=0,lte=1"`
	Keywords     []string `yaml:"keywords" json:"keywords"`
	Sections     []string `yaml:"sections" json:"sections"`
}

// RoleRules scores "<title> at <company>" lines.
type RoleRules struct {
	Rule       `yaml:",inline"`
	MinTitle   int `yaml:"min_title" json:"minTitle" validate:"gte=0"`
	MaxTitle   int `yaml:"max_title" json:"maxTitle" validate:"gtfield=MinTitle"`
	MinCompany int `yaml:"min_company" json:"minCompany" validate:"gte=0"`
	MaxCompany int `yaml:"max_company" json:"maxCompany" validate:"gtfield=MinCompany"`
}

// ProjectRules scores accomplishment statements. Keywords are the verbs;
// Nouns mark a concrete object.
type ProjectRules struct {
	Rule        `yaml:",inline"`
	Nouns       []string `yaml:"nouns" json:"nouns"`
	NounBonus   float64  `yaml:"noun_bonus" json:"nounBonus" validate:"gte=0,lte=1"`
	MetricBonus float64  `yaml:"metric_bonus" json:"metricBonus" validate:"gte=0,lte=1"`
	MinObject   int      `yaml:"min_object_words" json:"minObjectWords" validate:"gte=1"`
}

// GoalRules scores forward-looking statements. Keywords are future markers;
// Past markers veto a match.
type GoalRules struct {
	Rule `yaml:",inline"`
	Past []string `yaml:"past" json:"past"`
}

// SkillRules scores list-like lines. Base applies to lists under a known
// header ("Skills:", "Tools:"); ListBase to bare separated lists.
type SkillRules struct {
	Rule          `yaml:",inline"`
	ListBase      float64           `yaml:"list_base" json:"listBase" validate:"gte=0,lte=1"`
	MinListItems  int               `yaml:"min_list_items" json:"minListItems" validate:"gte=2"`
	MaxItemLength int               `yaml:"max_item_length" json:"maxItemLength" validate:"gte=2"`
	MaxItemWords  int               `yaml:"max_item_words" json:"maxItemWords" validate:"gte=1"`
	Aliases       map[string]string `yaml:"aliases" json:"aliases"`
}

// InterestRules scores personal-interest phrasing.
type InterestRules struct {
	Rule     `yaml:",inline"`
	MinWords int `yaml:"min_words" json:"minWords" validate:"gte=1"`
}

// Layout positions nodes on the canvas.
type Layout struct {
	MarginX     float64 `yaml:"margin_x" json:"marginX" validate:"gte=0"`
	MarginY     float64 `yaml:"margin_y" json:"marginY" validate:"gte=0"`
	ColumnWidth float64 `yaml:"column_width" json:"columnWidth" validate:"gt=0"`
	LaneHeight  float64 `yaml:"lane_height" json:"laneHeight" validate:"gt=0"`
	StackOffset float64 `yaml:"stack_offset" json:"stackOffset" validate:"gte=0"`
}

// Names lists the built-in presets.
func Names() []string {
	return []string{"standard", "simple", "smart"}
}

// Preset returns a copy of a built-in profile.
func Preset(name string) (Profile, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "standard":
		return Standard(), nil
	case "simple":
		return Simple(), nil
	case "smart":
		return Smart(), nil
	}
	return Profile{}, fmt.Errorf("%w: %q", ErrUnknownProfile, name)
}

// Load resolves a preset name, or reads a YAML file layered over the
// standard preset. The result is validated.
func Load(nameOrPath string) (Profile, error) {
	if p, err := Preset(nameOrPath); err == nil {
		return p, nil
	}
	data, err := os.ReadFile(nameOrPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Profile{}, fmt.Errorf("%w: %q", ErrUnknownProfile, nameOrPath)
		}
		return Profile{}, fmt.Errorf("read profile: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML over the standard preset. A "base" key selects a
// different preset to layer over.
func Parse(data []byte) (Profile, error) {
	var head struct {
		Base string `yaml:"base"`
	}
	if err := yaml.Unmarshal(data, &head); err != nil {
		return Profile{}, fmt.Errorf("parse profile: %w", err)
	}
	p, err := Preset(head.Base)
	if err != nil {
		return Profile{}, err
	}
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Profile{}, fmt.Errorf("parse profile: %w", err)
	}
	if err := p.Validate(); err != nil {
		return Profile{}, err
	}
	return p, nil
}

// Validate checks struct bounds and cross-field rules.
func (p Profile) Validate() error {
	if err := validate.Struct(p); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, e := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %s", e.Namespace(), e.Tag()))
			}
			return fmt.Errorf("invalid profile: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid profile: %w", err)
	}
	ceilings := map[string]struct {
		rule  Rule
		extra float64
	}{
		"role":      {p.Role.Rule, 0},
		"education": {p.Education, 0},
		"project":   {p.Project.Rule, p.Project.NounBonus + p.Project.MetricBonus},
		"goal":      {p.Goal.Rule, 0},
		"skill":     {p.Skill.Rule, 0},
		"interest":  {p.Interest.Rule, 0},
	}
	enabled := 0
	for name, c := range ceilings {
		if !c.rule.Enabled {
			continue
		}
		enabled++
		if c.rule.Base+c.rule.KeywordBonus+c.rule.DateBonus+c.rule.SectionBonus+c.extra < p.AcceptThreshold {
			return fmt.Errorf("invalid profile: %s classifier can never reach accept threshold %.2f", name, p.AcceptThreshold)
		}
	}
	if p.Skill.ListBase > p.Skill.Base {
		return errors.New("invalid profile: skill list_base must not exceed base")
	}
	if enabled == 0 {
		return errors.New("invalid profile: no classifier enabled")
	}
	if p.Role.Enabled && len(p.Role.Keywords) == 0 {
		return errors.New("invalid profile: role classifier needs keywords")
	}
	if p.Education.Enabled && len(p.Education.Keywords) == 0 {
		return errors.New("invalid profile: education classifier needs keywords")
	}
	if p.Goal.Enabled && len(p.Goal.Keywords) == 0 {
		return errors.New("invalid profile: goal classifier needs keywords")
	}
	return nil
}

// Clone returns a deep copy so callers can tweak a preset safely.
func (p Profile) Clone() Profile {
	c := p
	c.Role.Keywords = cloneStrings(p.Role.Keywords)
	c.Role.Sections = cloneStrings(p.Role.Sections)
	c.Education.Keywords = cloneStrings(p.Education.Keywords)
	c.Education.Sections = cloneStrings(p.Education.Sections)
	c.Project.Keywords = cloneStrings(p.Project.Keywords)
	c.Project.Sections = cloneStrings(p.Project.Sections)
	c.Project.Nouns = cloneStrings(p.Project.Nouns)
	c.Goal.Keywords = cloneStrings(p.Goal.Keywords)
	c.Goal.Sections = cloneStrings(p.Goal.Sections)
	c.Goal.Past = cloneStrings(p.Goal.Past)
	c.Skill.Keywords = cloneStrings(p.Skill.Keywords)
	c.Skill.Sections = cloneStrings(p.Skill.Sections)
	c.Interest.Keywords = cloneStrings(p.Interest.Keywords)
	c.Interest.Sections = cloneStrings(p.Interest.Sections)
	if p.Skill.Aliases != nil {
		c.Skill.Aliases = make(map[string]string, len(p.Skill.Aliases))
		for k, v := range p.Skill.Aliases {
			c.Skill.Aliases[k] = v
		}
	}
	return c
}

// YAML renders the profile in the format Parse accepts.
func (p Profile) YAML() ([]byte, error) {
	return yaml.Marshal(p)
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s...)
}
