package analyzer

import (
	"slices"

	"github.com/dgallion1/careermap/internal/model"
	"github.com/dgallion1/careermap/internal/timeframe"
)

type edge struct{ a, b int }

// edgeSet collects undirected edges between node indexes.
type edgeSet map[edge]bool

func (s edgeSet) add(a, b int) {
	if a == b {
		return
	}
	if b < a {
		a, b = b, a
	}
	s[edge{a, b}] = true
}

// connect infers edges between nodes and writes them to both endpoints.
// Nodes are linked when they occur in the same segment or sentence, when
// they share a document and their timeframes overlap or lie within
// adjacency months of each other, and when a skill shares a document with
// a role or project. It returns the number of distinct edges.
func connect(nodes []model.ExtractedNode, groups []group, adjacency int) int {
	edges := make(edgeSet)
	coOccurrence(edges, nodes, groups)
	temporal(edges, nodes, adjacency)
	skillAttribution(edges, nodes)

	adj := make([][]int, len(nodes))
	for e := range edges {
		adj[e.a] = append(adj[e.a], e.b)
		adj[e.b] = append(adj[e.b], e.a)
	}
	for i := range nodes {
		slices.Sort(adj[i])
		conns := make([]string, 0, len(adj[i]))
		for _, j := range adj[i] {
			conns = append(conns, nodes[j].ID)
		}
		nodes[i].Connections = conns
	}
	return len(edges)
}

// coOccurrence links nodes whose evidence shares a line of the same
// document. Skills listed together are not linked to each other.
func coOccurrence(edges edgeSet, nodes []model.ExtractedNode, groups []group) {
	type lineKey struct{ doc, line int }
	at := make(map[lineKey][]int)
	for i, g := range groups {
		for _, s := range g.spans {
			for l := s.firstLine; l <= s.lastLine; l++ {
				k := lineKey{s.doc, l}
				if !slices.Contains(at[k], i) {
					at[k] = append(at[k], i)
				}
			}
		}
	}
	for _, idx := range at {
		for x := 0; x < len(idx); x++ {
			for y := x + 1; y < len(idx); y++ {
				a, b := idx[x], idx[y]
				if nodes[a].Type == model.TypeSkill && nodes[b].Type == model.TypeSkill {
					continue
				}
				edges.add(a, b)
			}
		}
	}
}

// temporal links dated nodes from a common document whose spans overlap or
// are separated by at most adjacency months.
func temporal(edges edgeSet, nodes []model.ExtractedNode, adjacency int) {
	type dated struct {
		idx        int
		start, end int
	}
	var ds []dated
	for i, n := range nodes {
		if s, e, ok := timeframe.Months(n.Timeframe); ok {
			ds = append(ds, dated{i, s, e})
		}
	}
	for x := 0; x < len(ds); x++ {
		for y := x + 1; y < len(ds); y++ {
			a, b := ds[x], ds[y]
			if !shareDocument(nodes[a.idx], nodes[b.idx]) {
				continue
			}
			gap := max(a.start, b.start) - min(a.end, b.end)
			if gap <= adjacency {
				edges.add(a.idx, b.idx)
			}
		}
	}
}

// skillAttribution links each skill to every role and project that shares
// one of its documents.
func skillAttribution(edges edgeSet, nodes []model.ExtractedNode) {
	for i, s := range nodes {
		if s.Type != model.TypeSkill {
			continue
		}
		for j, n := range nodes {
			if (n.Type == model.TypeRole || n.Type == model.TypeProject) && shareDocument(s, n) {
				edges.add(i, j)
			}
		}
	}
}

func shareDocument(a, b model.ExtractedNode) bool {
	for _, d := range a.SourceDocuments {
		if slices.Contains(b.SourceDocuments, d) {
			return true
		}
	}
	return false
}
