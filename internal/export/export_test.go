package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgallion1/careermap/internal/model"
)

func sample() model.AnalysisResult {
	res := model.NewResult()
	res.Nodes = []model.ExtractedNode{
		{
			ID:              "n1",
			Type:            model.TypeRole,
			Label:           "Software Engineer at TechCorp, Inc",
			Position:        model.Position{X: 320, Y: 100},
			Timeframe:       &model.Timeframe{Start: "2022", End: "2024"},
			SourceDocuments: []string{"resume.pdf", "linkedin.html"},
			Connections:     []string{"n2"},
			Metadata:        model.NodeMetadata{ExtractedText: "Software Engineer at TechCorp, Inc (2022-2024)", Confidence: 0.9},
		},
		{
			ID:              "n2",
			Type:            model.TypeSkill,
			Label:           "Go",
			Position:        model.Position{X: 100.5, Y: 740},
			SourceDocuments: []string{"resume.pdf"},
			Connections:     []string{"n1"},
			Metadata:        model.NodeMetadata{ExtractedText: "Skills: Go", Confidence: 0.75},
		},
	}
	res.Timeline = model.Timeline{
		StartDate: "2022",
		EndDate:   "2024",
		Events: []model.TimelineEvent{
			{Date: "2022", NodeID: "n1", Description: "Started: Software Engineer at TechCorp, Inc"},
			{Date: "2024", NodeID: "n1", Description: "Ended: Software Engineer at TechCorp, Inc"},
		},
	}
	return res
}

func TestFigmaCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, FigmaCSV(&buf, sample().Nodes))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"id", "label", "type", "x", "y", "color", "width", "height", "source_doc", "connections"}, rows[0])
	assert.Equal(t, []string{"n1", "Software Engineer at TechCorp, Inc", "role", "320", "100", "#90EE90", "292", "60", "resume.pdf; linkedin.html", "n2"}, rows[1])
	assert.Equal(t, []string{"n2", "Go", "skill", "100.5", "740", "#F0E68C", "120", "60", "resume.pdf", "n1"}, rows[2])
}

func TestFigmaCSV_QuotesCommas(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, FigmaCSV(&buf, sample().Nodes))
	assert.Contains(t, buf.String(), `"Software Engineer at TechCorp, Inc"`)
}

func TestNodeWidth(t *testing.T) {
	assert.Equal(t, 120, NodeWidth("Go"))
	assert.Equal(t, 180, NodeWidth(strings.Repeat("a", 20)))
	assert.Equal(t, 300, NodeWidth(strings.Repeat("a", 100)))
}

func TestColor(t *testing.T) {
	assert.Equal(t, "#FFB6C1", Color(model.TypeGoal))
	assert.Equal(t, "#CCCCCC", Color("unknown"))
}

func TestTimelineCSV(t *testing.T) {
	res := sample()
	res.Timeline.Events = append(res.Timeline.Events, model.TimelineEvent{Date: "2025", NodeID: "gone", Description: "Orphan"})

	var buf bytes.Buffer
	require.NoError(t, TimelineCSV(&buf, res))
	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"date", "node_id", "node_label", "node_type", "description"}, rows[0])
	assert.Equal(t, []string{"2022", "n1", "Software Engineer at TechCorp, Inc", "role", "Started: Software Engineer at TechCorp, Inc"}, rows[1])
	assert.Equal(t, []string{"2025", "gone", "", "", "Orphan"}, rows[3])
}

func TestJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, JSON(&buf, sample()))
	assert.Contains(t, buf.String(), "\n  \"nodes\": [")

	var back model.AnalysisResult
	require.NoError(t, json.Unmarshal(buf.Bytes(), &back))
	assert.Len(t, back.Nodes, 2)
	assert.Equal(t, "2024", back.Timeline.EndDate)
}

func TestReport(t *testing.T) {
	var buf bytes.Buffer
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, Report(&buf, sample(), now))
	out := buf.String()

	assert.Contains(t, out, "Generated on: 2025-06-01")
	assert.Contains(t, out, "- Total nodes extracted: 2")
	assert.Contains(t, out, "- Timeline span: 2022 to 2024")
	assert.Contains(t, out, "- role: 1 items\n- skill: 1 items\n")
	assert.Contains(t, out, "1. 2022: Started: Software Engineer at TechCorp, Inc")
	assert.Contains(t, out, "### 2. Go (skill)")
	assert.Contains(t, out, "- Timeframe: Unknown to Present")
	assert.Contains(t, out, "- Source documents: resume.pdf, linkedin.html")
}

func TestReport_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Report(&buf, model.NewResult(), time.Now()))
	assert.Contains(t, buf.String(), "- Timeline span: Unknown to Unknown")
	assert.Contains(t, buf.String(), "- Total events: 0")
}

func TestWrite(t *testing.T) {
	for _, f := range Formats {
		t.Run(string(f), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Write(&buf, f, sample(), time.Now()))
			assert.NotEmpty(t, buf.String())
			assert.NotEmpty(t, f.ContentType())
			assert.NotEmpty(t, f.FileName())
		})
	}

	_, err := ParseFormat("pdf")
	assert.ErrorIs(t, err, ErrUnknownFormat)
	assert.ErrorIs(t, Write(&bytes.Buffer{}, "pdf", sample(), time.Now()), ErrUnknownFormat)

	f, err := ParseFormat("timeline-csv")
	require.NoError(t, err)
	assert.Equal(t, FormatTimelineCSV, f)
}
