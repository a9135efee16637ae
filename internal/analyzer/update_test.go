package analyzer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgallion1/careermap/internal/model"
)

func ptr[T any](v T) *T { return &v }

func TestUpdateNode_Label(t *testing.T) {
	res := analyze(t, newAnalyzer(), doc("resume.txt", resume))
	target := byLabel(t, res, "Software Engineer at TechCorp")

	out, err := UpdateNode(res, target.ID, model.NodePatch{Label: ptr("  SWE at TechCorp ")})
	require.NoError(t, err)

	got := out.Nodes[out.Index(target.ID)]
	assert.Equal(t, "SWE at TechCorp", got.Label)
	assert.True(t, got.Metadata.UserEdited)
	assert.Equal(t, "Software Engineer at TechCorp", res.Nodes[res.Index(target.ID)].Label, "input untouched")

	for _, e := range out.Timeline.Events {
		if e.NodeID == target.ID {
			assert.Contains(t, e.Description, "SWE at TechCorp")
		}
	}
}

func TestUpdateNode_PositionAndTimeframe(t *testing.T) {
	res := analyze(t, newAnalyzer(), doc("resume.txt", resume))
	goal := ofType(res, model.TypeGoal)[0]

	out, err := UpdateNode(res, goal.ID, model.NodePatch{
		Position:  &model.Position{X: 5, Y: 7},
		Timeframe: &model.Timeframe{Start: "Jan 2026", End: "present"},
	})
	require.NoError(t, err)
	got := out.Nodes[out.Index(goal.ID)]
	assert.Equal(t, model.Position{X: 5, Y: 7}, got.Position)
	assert.True(t, got.Metadata.UserPositioned)
	require.NotNil(t, got.Timeframe)
	assert.Equal(t, model.Timeframe{Start: "2026-01"}, *got.Timeframe)
	assert.Len(t, out.Timeline.Events, len(res.Timeline.Events)+1)
	assert.Equal(t, "2026-01", out.Timeline.EndDate)

	cleared, err := UpdateNode(out, goal.ID, model.NodePatch{ClearTimeframe: true})
	require.NoError(t, err)
	assert.Nil(t, cleared.Nodes[cleared.Index(goal.ID)].Timeframe)
	assert.Len(t, cleared.Timeline.Events, len(res.Timeline.Events))
}

func TestUpdateNode_Errors(t *testing.T) {
	res := analyze(t, newAnalyzer(), doc("resume.txt", resume))
	id := res.Nodes[0].ID
	badType := model.NodeType("hobby")

	tests := []struct {
		name  string
		id    string
		patch model.NodePatch
		want  error
	}{
		{"unknown id", "missing", model.NodePatch{Label: ptr("x")}, ErrNodeNotFound},
		{"empty patch", id, model.NodePatch{}, ErrInvalidPatch},
		{"blank label", id, model.NodePatch{Label: ptr("   ")}, ErrInvalidPatch},
		{"bad type", id, model.NodePatch{Type: &badType}, ErrInvalidPatch},
		{"bad start", id, model.NodePatch{Timeframe: &model.Timeframe{Start: "soon"}}, ErrInvalidPatch},
		{"end before start", id, model.NodePatch{Timeframe: &model.Timeframe{Start: "2020", End: "2019"}}, ErrInvalidPatch},
		{"set and clear", id, model.NodePatch{Timeframe: &model.Timeframe{Start: "2020"}, ClearTimeframe: true}, ErrInvalidPatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := UpdateNode(res, tt.id, tt.patch)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestNormalizeTimeframe(t *testing.T) {
	tf, err := NormalizeTimeframe(model.Timeframe{Start: "03/2019", End: "Dec 2020"})
	require.NoError(t, err)
	assert.Equal(t, model.Timeframe{Start: "2019-03", End: "2020-12"}, tf)
}

func TestReanalyze_KeepsIDsAndUserChanges(t *testing.T) {
	a := newAnalyzer()
	docs := []model.ProcessedDocument{doc("resume.txt", resume)}
	first := analyze(t, a, docs...)

	techcorp := byLabel(t, first, "Software Engineer at TechCorp")
	startup := byLabel(t, first, "Junior Developer at StartupCo")

	edited, err := UpdateNode(first, techcorp.ID, model.NodePatch{Label: ptr("SWE @ TechCorp")})
	require.NoError(t, err)
	edited, err = UpdateNode(edited, startup.ID, model.NodePatch{Position: &model.Position{X: 1, Y: 2}})
	require.NoError(t, err)

	docs = append(docs, doc("journal.txt", "Data Analyst at Initech (2015-2017)"))
	second, _, err := a.Reanalyze(context.Background(), docs, edited)
	require.NoError(t, err)

	gotTech := second.Nodes[second.Index(techcorp.ID)]
	assert.Equal(t, "SWE @ TechCorp", gotTech.Label)
	assert.True(t, gotTech.Metadata.UserEdited)

	gotStartup := second.Nodes[second.Index(startup.ID)]
	assert.Equal(t, model.Position{X: 1, Y: 2}, gotStartup.Position)
	assert.Contains(t, gotStartup.Connections, techcorp.ID)

	for _, n := range first.Nodes {
		assert.GreaterOrEqual(t, second.Index(n.ID), 0, "node %q kept its id", n.Label)
	}
	assert.Len(t, second.Nodes, len(first.Nodes)+1)
	byLabel(t, second, "Data Analyst at Initech")
}

func TestReanalyze_KeepsVanishedNodes(t *testing.T) {
	a := newAnalyzer()
	first := analyze(t, a, doc("a.txt", "Software Engineer at TechCorp (2022-2024)"))
	second, _, err := a.Reanalyze(context.Background(), []model.ProcessedDocument{doc("b.txt", "Data Analyst at Initech (2015-2017)")}, first)
	require.NoError(t, err)
	require.Len(t, second.Nodes, 2)
	assert.GreaterOrEqual(t, second.Index(first.Nodes[0].ID), 0)
}
