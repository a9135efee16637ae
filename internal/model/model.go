// Package model defines the career journey graph exchanged between ingestion,
// analysis, export and the map UI.
package model

import (
	"fmt"
	"slices"
	"time"
)

// NodeType is the closed category of an extracted entity.
type NodeType string

const (
	TypeRole      NodeType = "role"
	TypeProject   NodeType = "project"
	TypeEducation NodeType = "education"
	TypeSkill     NodeType = "skill"
	TypeGoal      NodeType = "goal"
	TypeInterest  NodeType = "interest"
)

// NodeTypes lists every type in tie-break priority order, most specific first.
var NodeTypes = []NodeType{TypeRole, TypeEducation, TypeProject, TypeGoal, TypeSkill, TypeInterest}

// Priority returns the tie-break rank of t; lower wins. Unknown types rank last.
func (t NodeType) Priority() int {
	if i := slices.Index(NodeTypes, t); i >= 0 {
		return i
	}
	return len(NodeTypes)
}

// Valid reports whether t is one of the known node types.
func (t NodeType) Valid() bool {
	return slices.Contains(NodeTypes, t)
}

// ParseNodeType converts s into a NodeType.
func ParseNodeType(s string) (NodeType, error) {
	t := NodeType(s)
	if !t.Valid() {
		return "", fmt.Errorf("unknown node type %q", s)
	}
	return t, nil
}

// DocumentMetadata describes where a document's text came from.
type DocumentMetadata struct {
	FileType      string     `json:"fileType"`
	FileSize      int64      `json:"fileSize"`
	CreatedDate   *time.Time `json:"createdDate,omitempty"`
	ExtractedDate time.Time  `json:"extractedDate"`
}

// ProcessedDocument is plain text produced by the ingestion step.
type ProcessedDocument struct {
	FileName string           `json:"fileName" validate:"required"`
	Content  string           `json:"content"`
	Metadata DocumentMetadata `json:"metadata"`
}

// Position is a 2-D coordinate on the map canvas.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Timeframe is a start and optional end date in normalized "YYYY" or
// "YYYY-MM" form. An empty End means ongoing.
type Timeframe struct {
	Start string `json:"start"`
	End   string `json:"end,omitempty"`
}

// Ongoing reports whether the timeframe has no end.
func (t *Timeframe) Ongoing() bool {
	return t != nil && t.End == ""
}

// NodeMetadata carries the evidence behind a node.
type NodeMetadata struct {
	ExtractedText  string  `json:"extractedText"`
	Confidence     float64 `json:"confidence"`
	UserPositioned bool    `json:"userPositioned,omitempty"`
	UserEdited     bool    `json:"userEdited,omitempty"`
}

// ExtractedNode is one entity on the career map.
type ExtractedNode struct {
	ID              string       `json:"id"`
	Type            NodeType     `json:"type"`
	Label           string       `json:"label"`
	Position        Position     `json:"position"`
	Timeframe       *Timeframe   `json:"timeframe,omitempty"`
	SourceDocuments []string     `json:"sourceDocuments"`
	Connections     []string     `json:"connections"`
	Metadata        NodeMetadata `json:"metadata"`
}

// TimelineEvent marks one resolved timeframe boundary of a node.
type TimelineEvent struct {
	Date        string `json:"date"`
	NodeID      string `json:"nodeId"`
	Description string `json:"description"`
}

// Timeline is the chronological view of all dated nodes.
type Timeline struct {
	StartDate string          `json:"startDate,omitempty"`
	EndDate   string          `json:"endDate,omitempty"`
	Events    []TimelineEvent `json:"events"`
}

// AnalysisResult is the output of one analysis run. Nodes are in discovery order.
type AnalysisResult struct {
	Nodes    []ExtractedNode `json:"nodes"`
	Timeline Timeline        `json:"timeline"`
}

// NodePatch is a partial update keyed by node id. Nil fields are left alone.
type NodePatch struct {
	Label          *string    `json:"label,omitempty"`
	Type           *NodeType  `json:"type,omitempty"`
	Position       *Position  `json:"position,omitempty"`
	Timeframe      *Timeframe `json:"timeframe,omitempty"`
	ClearTimeframe bool       `json:"clearTimeframe,omitempty"`
}

// Empty reports whether the patch changes nothing.
func (p NodePatch) Empty() bool {
	return p.Label == nil && p.Type == nil && p.Position == nil && p.Timeframe == nil && !p.ClearTimeframe
}

// NewResult returns an empty result whose slices encode as [] rather than null.
func NewResult() AnalysisResult {
	return AnalysisResult{
		Nodes:    []ExtractedNode{},
		Timeline: Timeline{Events: []TimelineEvent{}},
	}
}

// Index returns the position of the node with the given id, or -1.
func (r AnalysisResult) Index(id string) int {
	return slices.IndexFunc(r.Nodes, func(n ExtractedNode) bool { return n.ID == id })
}

// Clone returns a deep copy of r.
func (r AnalysisResult) Clone() AnalysisResult {
	out := AnalysisResult{
		Nodes: make([]ExtractedNode, len(r.Nodes)),
		Timeline: Timeline{
			StartDate: r.Timeline.StartDate,
			EndDate:   r.Timeline.EndDate,
			Events:    append([]TimelineEvent{}, r.Timeline.Events...),
		},
	}
	for i, n := range r.Nodes {
		out.Nodes[i] = n.Clone()
	}
	return out
}

// Clone returns a deep copy of n.
func (n ExtractedNode) Clone() ExtractedNode {
	c := n
	if n.Timeframe != nil {
		tf := *n.Timeframe
		c.Timeframe = &tf
	}
	c.SourceDocuments = append([]string{}, n.SourceDocuments...)
	c.Connections = append([]string{}, n.Connections...)
	return c
}

// DropDanglingConnections removes connections that point at ids not present in
// the result, or at the node itself. It returns the number removed.
func (r *AnalysisResult) DropDanglingConnections() int {
	ids := make(map[string]bool, len(r.Nodes))
	for _, n := range r.Nodes {
		ids[n.ID] = true
	}
	removed := 0
	for i := range r.Nodes {
		n := &r.Nodes[i]
		kept := n.Connections[:0]
		for _, c := range n.Connections {
			if ids[c] && c != n.ID {
				kept = append(kept, c)
			} else {
				removed++
			}
		}
		n.Connections = kept
	}
	return removed
}

// CountByType tallies nodes per type.
func (r AnalysisResult) CountByType() map[NodeType]int {
	counts := make(map[NodeType]int)
	for _, n := range r.Nodes {
		counts[n.Type]++
	}
	return counts
}

// Edge is one undirected connection between two nodes.
type Edge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Edges lists every connection once, in node order, regardless of which
// endpoint stored it. Connections to missing nodes are skipped.
func (r AnalysisResult) Edges() []Edge {
	ids := make(map[string]bool, len(r.Nodes))
	for _, n := range r.Nodes {
		ids[n.ID] = true
	}
	seen := make(map[[2]string]bool)
	var out []Edge
	for _, n := range r.Nodes {
		for _, c := range n.Connections {
			if !ids[c] || c == n.ID {
				continue
			}
			key := [2]string{n.ID, c}
			if c < n.ID {
				key = [2]string{c, n.ID}
			}
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, Edge{From: n.ID, To: c})
		}
	}
	return out
}
