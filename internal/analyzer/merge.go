package analyzer

import (
	"strings"
	"unicode"

	"github.com/dgallion1/careermap/internal/model"
	"github.com/dgallion1/careermap/internal/timeframe"
)

// span locates one piece of evidence for a node.
type span struct {
	doc       int
	firstLine int
	lastLine  int
}

// group is a merged node with the evidence it was built from.
type group struct {
	node  model.ExtractedNode
	spans []span
}

// unionFind over candidate indexes. The root of a set is always its
// smallest index, so merging is independent of pair order.
type unionFind []int

func newUnionFind(n int) unionFind {
	uf := make(unionFind, n)
	for i := range uf {
		uf[i] = i
	}
	return uf
}

func (uf unionFind) find(i int) int {
	for uf[i] != i {
		uf[i] = uf[uf[i]]
		i = uf[i]
	}
	return i
}

func (uf unionFind) union(a, b int) {
	ra, rb := uf.find(a), uf.find(b)
	switch {
	case ra < rb:
		uf[rb] = ra
	case rb < ra:
		uf[ra] = rb
	}
}

// labelKey normalizes a label for comparison: lowercase, punctuation folded
// to single spaces.
func labelKey(label string) string {
	var b strings.Builder
	space := false
	for _, r := range strings.ToLower(label) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if space && b.Len() > 0 {
				b.WriteByte(' ')
			}
			space = false
			b.WriteRune(r)
			continue
		}
		space = true
	}
	return b.String()
}

// nearDuplicate reports whether two normalized keys name the same thing:
// equal, or one is a whole-word substring of the other and at least
// minRatio of its length.
func nearDuplicate(a, b string, minRatio float64) bool {
	if a == "" || b == "" {
		return false
	}
	if a == b {
		return true
	}
	short, long := a, b
	if len(short) > len(long) {
		short, long = long, short
	}
	if float64(len(short))/float64(len(long)) < minRatio {
		return false
	}
	return strings.Contains(" "+long+" ", " "+short+" ")
}

// merge builds one node per set of near-duplicate candidates of the same
// type. hits must be in canonical order; node order follows the first
// member of each set.
func (a *Analyzer) merge(hits []hit) []group {
	keys := make([]string, len(hits))
	for i, h := range hits {
		keys[i] = labelKey(h.cand.Label)
	}

	uf := newUnionFind(len(hits))
	type typedKey struct {
		typ model.NodeType
		key string
	}
	first := make(map[typedKey]int)
	byType := make(map[model.NodeType][]int)
	for i, h := range hits {
		k := typedKey{h.cand.Type, keys[i]}
		if j, ok := first[k]; ok {
			uf.union(j, i)
			continue
		}
		first[k] = i
		byType[h.cand.Type] = append(byType[h.cand.Type], i)
	}
	for _, idx := range byType {
		for x := 0; x < len(idx); x++ {
			for y := x + 1; y < len(idx); y++ {
				if nearDuplicate(keys[idx[x]], keys[idx[y]], a.profile.MergeSimilarity) {
					uf.union(idx[x], idx[y])
				}
			}
		}
	}

	members := make(map[int][]int)
	var roots []int
	for i := range hits {
		r := uf.find(i)
		if _, ok := members[r]; !ok {
			roots = append(roots, r)
		}
		members[r] = append(members[r], i)
	}

	groups := make([]group, 0, len(roots))
	for _, r := range roots {
		groups = append(groups, a.buildGroup(hits, members[r]))
	}
	return groups
}

func (a *Analyzer) buildGroup(hits []hit, idx []int) group {
	best := idx[0]
	for _, i := range idx[1:] {
		if hits[i].cand.Confidence > hits[best].cand.Confidence {
			best = i
		}
	}
	b := hits[best]
	n := model.ExtractedNode{
		ID:              a.newID(),
		Type:            b.cand.Type,
		Label:           b.cand.Label,
		SourceDocuments: []string{},
		Connections:     []string{},
		Metadata: model.NodeMetadata{
			ExtractedText: b.cand.Span,
			Confidence:    b.cand.Confidence,
		},
	}

	var g group
	seen := make(map[string]bool)
	for _, i := range idx {
		h := hits[i]
		if !seen[h.seg.Document] {
			seen[h.seg.Document] = true
			n.SourceDocuments = append(n.SourceDocuments, h.seg.Document)
		}
		g.spans = append(g.spans, span{doc: h.seg.DocIndex, firstLine: h.seg.FirstLine, lastLine: h.seg.LastLine})
		n.Timeframe = widen(n.Timeframe, h.cand.Timeframe)
	}
	g.node = n
	return g
}

// widen returns the smallest timeframe covering both a and b. An open end
// wins over any concrete one.
func widen(a, b *model.Timeframe) *model.Timeframe {
	if b == nil {
		return a
	}
	if a == nil {
		c := *b
		return &c
	}
	out := *a
	as, _ := timeframe.SortKey(a.Start)
	bs, _ := timeframe.SortKey(b.Start)
	if bs < as {
		out.Start = b.Start
	}
	if out.End != "" {
		if b.End == "" {
			out.End = ""
		} else if endMonth(b.End) > endMonth(a.End) {
			out.End = b.End
		}
	}
	return &out
}

// endMonth is the last month covered by a normalized end date, so "2020"
// reaches past "2020-06".
func endMonth(s string) int {
	_, end, ok := timeframe.Months(&model.Timeframe{Start: s, End: s})
	if !ok {
		return -1
	}
	return end
}
