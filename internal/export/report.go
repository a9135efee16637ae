package export

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dgallion1/careermap/internal/model"
)

// Report writes a plain-text summary of res in markdown-ish layout.
func Report(w io.Writer, res model.AnalysisResult, now time.Time) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "# Career Journey Analysis Report\n")
	fmt.Fprintf(bw, "Generated on: %s\n\n", now.Format("2006-01-02"))

	fmt.Fprintf(bw, "## Summary\n")
	fmt.Fprintf(bw, "- Total nodes extracted: %d\n", len(res.Nodes))
	fmt.Fprintf(bw, "- Timeline span: %s to %s\n", orDefault(res.Timeline.StartDate, "Unknown"), orDefault(res.Timeline.EndDate, "Unknown"))
	fmt.Fprintf(bw, "- Total events: %d\n\n", len(res.Timeline.Events))

	fmt.Fprintf(bw, "## Node Breakdown\n")
	counts := res.CountByType()
	for _, t := range model.NodeTypes {
		if counts[t] > 0 {
			fmt.Fprintf(bw, "- %s: %d items\n", t, counts[t])
		}
	}

	fmt.Fprintf(bw, "\n## Timeline Events\n")
	for i, ev := range res.Timeline.Events {
		fmt.Fprintf(bw, "%d. %s: %s\n", i+1, ev.Date, ev.Description)
	}

	fmt.Fprintf(bw, "\n## Detailed Nodes\n")
	for i, n := range res.Nodes {
		start, end := "Unknown", "Present"
		if n.Timeframe != nil {
			start = orDefault(n.Timeframe.Start, start)
			end = orDefault(n.Timeframe.End, end)
		}
		fmt.Fprintf(bw, "\n### %d. %s (%s)\n", i+1, n.Label, n.Type)
		fmt.Fprintf(bw, "- Source documents: %s\n", strings.Join(n.SourceDocuments, ", "))
		fmt.Fprintf(bw, "- Timeframe: %s to %s\n", start, end)
		fmt.Fprintf(bw, "- Connections: %d related items\n", len(n.Connections))
		fmt.Fprintf(bw, "- Extracted text: %q\n", orDefault(n.Metadata.ExtractedText, "N/A"))
	}
	return bw.Flush()
}

// FigmaInstructions writes the markdown guide for importing the Figma CSV.
func FigmaInstructions(w io.Writer) error {
	_, err := io.WriteString(w, figmaInstructions)
	return err
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

const figmaInstructions = `# How to Use This CSV in Figma

## Step 1: Install the Plugin
1. Open Figma
2. Go to Plugins → Browse plugins in Community
3. Search for "CSV to Sticky" or "Table to Sticky Notes"
4. Install the plugin

## Step 2: Import Your Data
1. Create a new Figma file or open an existing one
2. Run the "CSV to Sticky" plugin (Plugins → CSV to Sticky)
3. Upload the exported CSV file
4. Configure the mapping:
   - Text content: "label" column
   - X position: "x" column
   - Y position: "y" column
   - Color: "color" column
   - Width: "width" column
   - Height: "height" column

## Step 3: Customize Your Map
1. The sticky notes will be created with your career journey data
2. Use Figma's tools to:
   - Adjust colors and styling
   - Add arrows and connections
   - Group related items
   - Add background elements
   - Create a legend

## Pro Tips:
- Use the "connections" column data to manually draw arrows between related nodes
- The "type" column helps you identify which nodes to group together
- The "source_doc" column shows which documents each insight came from
- Green notes represent past roles
- Blue notes represent projects and achievements
- Pink notes represent future goals and aspirations

Your sensemaking map is now ready for further customization in Figma!
`
