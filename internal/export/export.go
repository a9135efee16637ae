// Package export renders an analysis result for use outside the service:
// Figma sticky-note CSV, timeline CSV, indented JSON and a text report.
package export

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dgallion1/careermap/internal/model"
)

// Format names an export format.
type Format string

const (
	FormatFigmaCSV          Format = "figma-csv"
	FormatTimelineCSV       Format = "timeline-csv"
	FormatJSON              Format = "json"
	FormatReport            Format = "report"
	FormatFigmaInstructions Format = "figma-instructions"
)

// Formats lists every supported format.
var Formats = []Format{FormatFigmaCSV, FormatTimelineCSV, FormatJSON, FormatReport, FormatFigmaInstructions}

// ErrUnknownFormat is returned for a format name not in Formats.
var ErrUnknownFormat = errors.New("unknown export format")

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	for _, f := range Formats {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// ContentType is the MIME type served for the format.
func (f Format) ContentType() string {
	switch f {
	case FormatFigmaCSV, FormatTimelineCSV:
		return "text/csv; charset=utf-8"
	case FormatJSON:
		return "application/json"
	case FormatFigmaInstructions:
		return "text/markdown; charset=utf-8"
	default:
		return "text/plain; charset=utf-8"
	}
}

// FileName is the suggested download name for the format.
func (f Format) FileName() string {
	switch f {
	case FormatFigmaCSV:
		return "sensemaking-map-figma.csv"
	case FormatTimelineCSV:
		return "career-timeline.csv"
	case FormatJSON:
		return "sensemaking-analysis.json"
	case FormatFigmaInstructions:
		return "figma-import-instructions.md"
	default:
		return "career-journey-report.txt"
	}
}

// Write renders res in format f. now stamps the text report.
func Write(w io.Writer, f Format, res model.AnalysisResult, now time.Time) error {
	switch f {
	case FormatFigmaCSV:
		return FigmaCSV(w, res.Nodes)
	case FormatTimelineCSV:
		return TimelineCSV(w, res)
	case FormatJSON:
		return JSON(w, res)
	case FormatReport:
		return Report(w, res, now)
	case FormatFigmaInstructions:
		return FigmaInstructions(w)
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, f)
}

var nodeColors = map[model.NodeType]string{
	model.TypeRole:      "#90EE90",
	model.TypeProject:   "#87CEEB",
	model.TypeEducation: "#DDA0DD",
	model.TypeSkill:     "#F0E68C",
	model.TypeGoal:      "#FFB6C1",
	model.TypeInterest:  "#FFA07A",
}

// Color returns the sticky-note color for a node type.
func Color(t model.NodeType) string {
	if c, ok := nodeColors[t]; ok {
		return c
	}
	return "#CCCCCC"
}

// NodeWidth estimates a sticky-note width from the label length.
func NodeWidth(label string) int {
	return max(120, min(300, utf8.RuneCountInString(label)*8+20))
}

const nodeHeight = 60

// FigmaCSV writes one row per node for CSV-to-sticky-note plugins.
func FigmaCSV(w io.Writer, nodes []model.ExtractedNode) error {
	cw := csv.NewWriter(w)
	cw.Write([]string{"id", "label", "type", "x", "y", "color", "width", "height", "source_doc", "connections"})
	for _, n := range nodes {
		cw.Write([]string{
			n.ID,
			n.Label,
			string(n.Type),
			formatCoord(n.Position.X),
			formatCoord(n.Position.Y),
			Color(n.Type),
			strconv.Itoa(NodeWidth(n.Label)),
			strconv.Itoa(nodeHeight),
			strings.Join(n.SourceDocuments, "; "),
			strings.Join(n.Connections, "; "),
		})
	}
	cw.Flush()
	return cw.Error()
}

// TimelineCSV writes one row per timeline event.
func TimelineCSV(w io.Writer, res model.AnalysisResult) error {
	cw := csv.NewWriter(w)
	cw.Write([]string{"date", "node_id", "node_label", "node_type", "description"})
	for _, ev := range res.Timeline.Events {
		var label, typ string
		if i := res.Index(ev.NodeID); i >= 0 {
			label = res.Nodes[i].Label
			typ = string(res.Nodes[i].Type)
		}
		cw.Write([]string{ev.Date, ev.NodeID, label, typ, ev.Description})
	}
	cw.Flush()
	return cw.Error()
}

// JSON writes res indented by two spaces.
func JSON(w io.Writer, res model.AnalysisResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
