package analyzer

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgallion1/careermap/internal/model"
	"github.com/dgallion1/careermap/internal/profile"
	"github.com/dgallion1/careermap/internal/timeframe"
)

const resume = `EXPERIENCE
Software Engineer at TechCorp (2022-2024)
- Built a real-time analytics platform serving 2M users
Junior Developer at StartupCo (2019-2021)

EDUCATION
Bachelor of Computer Science, University of Technology (2016-2020)

SKILLS
Programming: Go, Python, JavaScript

GOALS
Want to become a senior software architect
`

func seqIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("n%d", n)
	}
}

func newAnalyzer(opts ...Option) *Analyzer {
	return New(profile.Standard(), append([]Option{WithIDGenerator(seqIDs())}, opts...)...)
}

func doc(name, content string) model.ProcessedDocument {
	return model.ProcessedDocument{FileName: name, Content: content}
}

func analyze(t *testing.T, a *Analyzer, docs ...model.ProcessedDocument) model.AnalysisResult {
	t.Helper()
	res, err := a.Analyze(context.Background(), docs)
	require.NoError(t, err)
	return res
}

func byLabel(t *testing.T, res model.AnalysisResult, label string) model.ExtractedNode {
	t.Helper()
	for _, n := range res.Nodes {
		if n.Label == label {
			return n
		}
	}
	t.Fatalf("no node labeled %q", label)
	return model.ExtractedNode{}
}

func ofType(res model.AnalysisResult, typ model.NodeType) []model.ExtractedNode {
	var out []model.ExtractedNode
	for _, n := range res.Nodes {
		if n.Type == typ {
			out = append(out, n)
		}
	}
	return out
}

func TestAnalyze_RoleLine(t *testing.T) {
	res := analyze(t, newAnalyzer(), doc("cv.txt", "Software Engineer at TechCorp (2022-2024)"))
	require.Len(t, res.Nodes, 1)
	n := res.Nodes[0]
	assert.Equal(t, model.TypeRole, n.Type)
	assert.Contains(t, n.Label, "Software Engineer")
	assert.Contains(t, n.Label, "TechCorp")
	require.NotNil(t, n.Timeframe)
	assert.Equal(t, model.Timeframe{Start: "2022", End: "2024"}, *n.Timeframe)
	assert.Equal(t, []string{"cv.txt"}, n.SourceDocuments)
	assert.Equal(t, "Software Engineer at TechCorp", n.Metadata.ExtractedText)
}

func TestAnalyze_EducationLine(t *testing.T) {
	res := analyze(t, newAnalyzer(), doc("cv.txt", "Bachelor of Computer Science, University of Technology (2016-2020)"))
	require.Len(t, res.Nodes, 1)
	assert.Equal(t, model.TypeEducation, res.Nodes[0].Type)
	require.NotNil(t, res.Nodes[0].Timeframe)
	assert.Equal(t, model.Timeframe{Start: "2016", End: "2020"}, *res.Nodes[0].Timeframe)
}

func TestAnalyze_GoalLine(t *testing.T) {
	res := analyze(t, newAnalyzer(), doc("journal.txt", "Want to become a senior software architect"))
	require.Len(t, res.Nodes, 1)
	assert.Equal(t, model.TypeGoal, res.Nodes[0].Type)
	assert.Nil(t, res.Nodes[0].Timeframe)
	assert.Empty(t, res.Timeline.Events)
}

func TestAnalyze_MergesRolesAcrossDocuments(t *testing.T) {
	res := analyze(t, newAnalyzer(),
		doc("a.txt", "Software Engineer at Google (2022 - Present) • Led the search team"),
		doc("b.md", "Software Engineer at Google (2022 - Present) • Built ads APIs"),
	)
	roles := ofType(res, model.TypeRole)
	require.Len(t, roles, 1)
	assert.Equal(t, []string{"a.txt", "b.md"}, roles[0].SourceDocuments)
	require.NotNil(t, roles[0].Timeframe)
	assert.Equal(t, "2022", roles[0].Timeframe.Start)
	assert.Empty(t, roles[0].Timeframe.End, "ongoing end stays unset")
}

func TestAnalyze_MergeIsTransitiveAndWidensTimeframe(t *testing.T) {
	res := analyze(t, newAnalyzer(),
		doc("a.txt", "Data Scientist at Umbrella (2018 - 2019)"),
		doc("b.txt", "Lead Data Scientist at Umbrella (2019 - 2021)"),
		doc("c.txt", "data scientist at umbrella"),
	)
	roles := ofType(res, model.TypeRole)
	require.Len(t, roles, 1)
	r := roles[0]
	assert.Equal(t, []string{"a.txt", "b.txt", "c.txt"}, r.SourceDocuments)
	assert.Equal(t, "Lead Data Scientist at Umbrella", r.Label, "highest confidence label wins")
	require.NotNil(t, r.Timeframe)
	assert.Equal(t, model.Timeframe{Start: "2018", End: "2021"}, *r.Timeframe)
}

func TestAnalyze_PromotionFoldsIntoOneRole(t *testing.T) {
	res := analyze(t, newAnalyzer(), doc("cv.txt",
		"Senior Software Engineer at Google (2021-2023)\n\nSoftware Engineer at Google (2018-2021)"))
	roles := ofType(res, model.TypeRole)
	require.Len(t, roles, 1, "title variants at one company are one role")
	require.NotNil(t, roles[0].Timeframe)
	assert.Equal(t, model.Timeframe{Start: "2018", End: "2023"}, *roles[0].Timeframe)

	p := profile.Standard()
	p.MergeSimilarity = 0.9
	res = analyze(t, New(p, WithIDGenerator(seqIDs())), doc("cv.txt",
		"Senior Software Engineer at Google (2021-2023)\n\nSoftware Engineer at Google (2018-2021)"))
	assert.Len(t, ofType(res, model.TypeRole), 2, "a stricter cutoff keeps promotions apart")
}

func TestAnalyze_Resume(t *testing.T) {
	res := analyze(t, newAnalyzer(), doc("resume.txt", resume))

	counts := res.CountByType()
	assert.Equal(t, 2, counts[model.TypeRole])
	assert.Equal(t, 1, counts[model.TypeEducation])
	assert.Equal(t, 1, counts[model.TypeProject])
	assert.Equal(t, 1, counts[model.TypeGoal])
	assert.Equal(t, 3, counts[model.TypeSkill])

	techcorp := byLabel(t, res, "Software Engineer at TechCorp")
	startup := byLabel(t, res, "Junior Developer at StartupCo")
	edu := byLabel(t, res, "Bachelor of Computer Science, University of Technology")
	goSkill := byLabel(t, res, "Go")

	assert.Contains(t, techcorp.Connections, startup.ID, "adjacent roles in one document")
	assert.Contains(t, startup.Connections, techcorp.ID)
	assert.Contains(t, edu.Connections, startup.ID, "overlapping timeframes")
	assert.NotContains(t, edu.Connections, techcorp.ID, "more than a year apart")
	assert.Contains(t, goSkill.Connections, techcorp.ID, "skills attach to roles")
	assert.NotContains(t, goSkill.Connections, byLabel(t, res, "Python").ID, "co-listed skills stay apart")

	dates := make([]string, 0, len(res.Timeline.Events))
	for _, e := range res.Timeline.Events {
		dates = append(dates, e.Date)
	}
	assert.Equal(t, []string{"2016", "2019", "2020", "2021", "2022", "2024"}, dates)
	assert.Equal(t, "2016", res.Timeline.StartDate)
	assert.Equal(t, "2024", res.Timeline.EndDate)
}

func TestAnalyze_Layout(t *testing.T) {
	res := analyze(t, newAnalyzer(), doc("resume.txt", resume))
	techcorp := byLabel(t, res, "Software Engineer at TechCorp")
	startup := byLabel(t, res, "Junior Developer at StartupCo")
	edu := byLabel(t, res, "Bachelor of Computer Science, University of Technology")

	assert.Equal(t, model.Position{X: 540, Y: 100}, techcorp.Position)
	assert.Equal(t, model.Position{X: 320, Y: 100}, startup.Position)
	assert.Equal(t, model.Position{X: 100, Y: 260}, edu.Position)

	seen := make(map[model.Position]string)
	for _, n := range res.Nodes {
		if other, ok := seen[n.Position]; ok {
			t.Errorf("%q overlaps %q at %+v", n.Label, other, n.Position)
		}
		seen[n.Position] = n.Label
	}
}

func TestAnalyze_SentenceSpanningLines(t *testing.T) {
	res := analyze(t, newAnalyzer(), doc("journal.txt", "I want to become a staff engineer\nwithin three years."))
	goals := ofType(res, model.TypeGoal)
	require.Len(t, goals, 1)
	assert.Equal(t, "I want to become a staff engineer within three years", goals[0].Label)
}

func TestAnalyze_Idempotent(t *testing.T) {
	docs := []model.ProcessedDocument{
		doc("resume.txt", resume),
		doc("journal.txt", "Today I led the migration of our billing service to Kubernetes.\nI hope to mentor junior developers next year."),
		doc("linkedin.csv", "title: Staff Engineer at TechCorp (2024 - Present)"),
	}
	first := analyze(t, newAnalyzer(WithWorkers(1)), docs...)
	second := analyze(t, newAnalyzer(WithWorkers(8)), docs...)
	assert.Equal(t, first, second)
}

func TestAnalyze_NoDanglingConnections(t *testing.T) {
	res := analyze(t, New(profile.Standard()), doc("resume.txt", resume), doc("other.txt", "Lead Engineer at TechCorp (2024 - Present)\nTools: Docker, Terraform"))
	ids := make(map[string]bool)
	for _, n := range res.Nodes {
		ids[n.ID] = true
	}
	for _, n := range res.Nodes {
		for _, c := range n.Connections {
			assert.True(t, ids[c], "dangling %s on %s", c, n.ID)
			assert.NotEqual(t, n.ID, c, "self connection")
		}
	}
}

func TestAnalyze_TimelineSorted(t *testing.T) {
	res := analyze(t, newAnalyzer(), doc("cv.txt", "Product Manager at Globex (Mar 2021 - 2023)\nData Analyst at Initech (2015-2017)\nEngineer at Hooli (Jun 2018 - Jan 2020)"))
	require.NotEmpty(t, res.Timeline.Events)
	prev := -1
	for _, e := range res.Timeline.Events {
		k, ok := timeframe.SortKey(e.Date)
		require.True(t, ok)
		assert.GreaterOrEqual(t, k, prev)
		prev = k
	}
}

func TestAnalyze_Empty(t *testing.T) {
	for name, docs := range map[string][]model.ProcessedDocument{
		"no documents": nil,
		"noise only":   {doc("notes.txt", "Thursday\n\n???\n12345")},
		"failure markers": {
			doc("cv.pdf", "[PDF file: cv.pdf - Could not extract text]"),
			doc("scan.png", "[Image file: scan.png - OCR processing failed]"),
		},
	} {
		t.Run(name, func(t *testing.T) {
			res := analyze(t, newAnalyzer(), docs...)
			assert.NotNil(t, res.Nodes)
			assert.Empty(t, res.Nodes)
			assert.NotNil(t, res.Timeline.Events)
			assert.Empty(t, res.Timeline.Events)
			assert.Empty(t, res.Timeline.StartDate)
		})
	}
}

func TestAnalyze_SegmentBudget(t *testing.T) {
	p := profile.Standard()
	p.MaxSegments = 2
	a := New(p, WithIDGenerator(seqIDs()))
	_, stats, err := a.AnalyzeWithStats(context.Background(), []model.ProcessedDocument{
		doc("a.txt", "Software Engineer at TechCorp (2022-2024)\nJunior Developer at StartupCo (2019-2021)"),
		doc("b.txt", "Data Analyst at Initech (2015-2017)"),
	})
	require.NoError(t, err)
	assert.True(t, stats.Truncated)
	assert.Equal(t, 2, stats.Segments)
	assert.Equal(t, 2, stats.Nodes)
}

func TestAnalyze_SegmentBudgetSingleDocument(t *testing.T) {
	p := profile.Standard()
	p.MaxSegments = 2
	a := New(p, WithIDGenerator(seqIDs()))
	_, stats, err := a.AnalyzeWithStats(context.Background(), []model.ProcessedDocument{
		doc("a.txt", "Software Engineer at TechCorp (2022-2024)\n\nJunior Developer at StartupCo (2019-2021)\n\nData Analyst at Initech (2015-2017)"),
	})
	require.NoError(t, err)
	assert.True(t, stats.Truncated)
	assert.Equal(t, 2, stats.Segments)
	assert.Equal(t, 2, stats.Nodes)

	p.MaxSegments = 3
	_, stats, err = New(p, WithIDGenerator(seqIDs())).AnalyzeWithStats(context.Background(), []model.ProcessedDocument{
		doc("a.txt", "Software Engineer at TechCorp (2022-2024)\n\nJunior Developer at StartupCo (2019-2021)\n\nData Analyst at Initech (2015-2017)"),
	})
	require.NoError(t, err)
	assert.False(t, stats.Truncated)
	assert.Equal(t, 3, stats.Nodes)
}

func TestAnalyze_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newAnalyzer().Analyze(ctx, []model.ProcessedDocument{doc("cv.txt", resume)})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAnalyze_StrictProfileFindsLess(t *testing.T) {
	docs := []model.ProcessedDocument{doc("resume.txt", resume), doc("journal.txt", "I enjoy hiking with friends on weekends")}
	standard := analyze(t, newAnalyzer(), docs...)
	smart := analyze(t, New(profile.Smart(), WithIDGenerator(seqIDs())), docs...)
	assert.Less(t, len(smart.Nodes), len(standard.Nodes))
}
