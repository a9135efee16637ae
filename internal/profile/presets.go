package profile

// Standard is the default balance between recall and precision.
func Standard() Profile {
	return Profile{
		Name:             "standard",
		AcceptThreshold:  0.4,
		MergeSimilarity:  0.6,
		MaxSegments:      20000,
		MaxSegmentLength: 500,
		MaxLabelLength:   60,
		AdjacencyMonths:  12,
		Role: RoleRules{
			Rule: Rule{
				Enabled:      true,
				Base:         0.6,
				KeywordBonus: 0.1,
				DateBonus:    0.2,
				SectionBonus: 0.05,
				Keywords: []string{
					"engineer", "developer", "manager", "analyst", "consultant",
					"designer", "architect", "director", "lead", "specialist",
					"coordinator", "administrator", "scientist", "intern", "officer",
					"associate", "president", "head", "founder", "cto", "ceo", "vp",
					"programmer", "technician", "researcher", "assistant", "executive",
					"owner", "strategist", "teacher", "instructor", "professor",
					"accountant", "writer", "editor", "recruiter", "advisor", "principal",
					"partner", "supervisor", "fellow", "contractor", "freelance",
				},
				Sections: []string{"experience", "employment", "work", "career", "positions"},
			},
			MinTitle:   3,
			MaxTitle:   80,
			MinCompany: 1,
			MaxCompany: 80,
		},
		Education: Rule{
			Enabled:      true,
			Base:         0.6,
			KeywordBonus: 0.1,
			DateBonus:    0.15,
			SectionBonus: 0.05,
			Keywords: []string{
				"university", "college", "bachelor", "master", "phd", "ph.d",
				"doctorate", "degree", "diploma", "bsc", "msc", "mba", "b.s.", "m.s.",
				"b.a.", "academy", "institute", "bootcamp", "certification", "certificate",
				"graduated", "school",
			},
			Sections: []string{"education", "academic", "qualifications", "certifications"},
		},
		Project: ProjectRules{
			Rule: Rule{
				Enabled:      true,
				Base:         0.45,
				KeywordBonus: 0.05,
				SectionBonus: 0.1,
				Keywords: []string{
					"built", "developed", "led", "implemented", "created", "designed",
					"launched", "shipped", "delivered", "architected", "migrated",
					"automated", "established", "founded", "introduced", "redesigned",
					"rebuilt", "wrote", "organized", "managed", "spearheaded", "deployed",
				},
				Sections: []string{"project", "accomplishment", "achievement", "highlights"},
			},
			Nouns: []string{
				"system", "platform", "app", "application", "service", "pipeline",
				"tool", "website", "api", "dashboard", "framework", "library",
				"infrastructure", "product", "feature", "team", "process", "project",
				"database", "integration", "migration", "model", "engine", "program",
				"campaign", "workflow", "prototype", "initiative",
			},
			NounBonus:   0.15,
			MetricBonus: 0.1,
			MinObject:   2,
		},
		Goal: GoalRules{
			Rule: Rule{
				Enabled:      true,
				Base:         0.55,
				KeywordBonus: 0.1,
				SectionBonus: 0.15,
				Keywords: []string{
					"want to", "plan to", "planning to", "aspire to", "hope to",
					"goal", "next steps", "next step", "would like to", "intend to",
					"aim to", "looking to", "wish to", "my ambition", "in the future",
					"someday", "dream of", "aiming to", "going to",
				},
				Sections: []string{"goal", "objective", "aspiration", "future", "next steps"},
			},
			Past: []string{
				"wanted to", "planned to", "hoped to", "aspired to", "intended to",
				"achieved", "accomplished", "reached my goal", "was my goal",
			},
		},
		Skill: SkillRules{
			Rule: Rule{
				Enabled:      true,
				Base:         0.75,
				SectionBonus: 0.1,
				Keywords: []string{
					"skills", "technical skills", "programming", "languages",
					"tools", "technologies", "frameworks", "tech stack", "stack",
					"expertise", "proficient in", "competencies", "platforms",
				},
				Sections: []string{"skill", "technolog", "tools", "competenc", "expertise", "languages"},
			},
			ListBase:      0.5,
			MinListItems:  3,
			MaxItemLength: 30,
			MaxItemWords:  4,
			Aliases: map[string]string{
				"golang":     "Go",
				"go lang":    "Go",
				"javascript": "JavaScript",
				"js":         "JavaScript",
				"typescript": "TypeScript",
				"ts":         "TypeScript",
				"k8s":        "Kubernetes",
				"kubernetes": "Kubernetes",
				"react.js":   "React",
				"reactjs":    "React",
				"vue.js":     "Vue",
				"vuejs":      "Vue",
				"node.js":    "Node.js",
				"nodejs":     "Node.js",
				"postgres":   "PostgreSQL",
				"postgresql": "PostgreSQL",
			},
		},
		Interest: InterestRules{
			Rule: Rule{
				Enabled:      true,
				Base:         0.42,
				KeywordBonus: 0.05,
				SectionBonus: 0.1,
				Keywords: []string{
					"interested in", "passionate about", "i enjoy", "i love",
					"fascinated by", "curious about", "hobbies", "hobby",
					"in my free time", "in my spare time", "enjoy", "love",
				},
				Sections: []string{"interest", "hobbies", "personal", "activities"},
			},
			MinWords: 2,
		},
		Layout: Layout{
			MarginX:     100,
			MarginY:     100,
			ColumnWidth: 220,
			LaneHeight:  160,
			StackOffset: 40,
		},
	}
}

// Simple is lenient: a lower threshold and a short keyword vocabulary,
// suited to sparse or informal documents such as journals.
func Simple() Profile {
	p := Standard().Clone()
	p.Name = "simple"
	p.AcceptThreshold = 0.3
	p.MergeSimilarity = 0.5
	p.Role.Keywords = []string{"engineer", "developer", "manager", "analyst", "consultant", "designer", "lead", "intern"}
	p.Education.Keywords = []string{"university", "college", "bachelor", "master", "phd", "degree", "school"}
	p.Skill.MinListItems = 2
	return p
}

// Smart is strict: only well-supported candidates survive and merging
// requires closer labels.
func Smart() Profile {
	p := Standard().Clone()
	p.Name = "smart"
	p.AcceptThreshold = 0.6
	p.MergeSimilarity = 0.8
	p.Project.MinObject = 3
	p.Skill.MaxItemWords = 3
	p.Interest.Enabled = false
	return p
}
