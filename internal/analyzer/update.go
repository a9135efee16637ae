package analyzer

import (
	"fmt"
	"strings"

	"github.com/dgallion1/careermap/internal/model"
	"github.com/dgallion1/careermap/internal/timeframe"
)

// UpdateNode applies a partial edit to the node with the given id and
// returns the new result; res is not modified. Label, type and timeframe
// edits mark the node user-edited and a position edit marks it
// user-positioned, so a later Reanalyze keeps them. The timeline is rebuilt.
func UpdateNode(res model.AnalysisResult, id string, patch model.NodePatch) (model.AnalysisResult, error) {
	idx := res.Index(id)
	if idx < 0 {
		return res, fmt.Errorf("%w: %s", ErrNodeNotFound, id)
	}
	if patch.Empty() {
		return res, fmt.Errorf("%w: nothing to change", ErrInvalidPatch)
	}
	if patch.Timeframe != nil && patch.ClearTimeframe {
		return res, fmt.Errorf("%w: timeframe set and cleared", ErrInvalidPatch)
	}

	out := res.Clone()
	n := &out.Nodes[idx]

	if patch.Label != nil {
		label := strings.TrimSpace(*patch.Label)
		if label == "" {
			return res, fmt.Errorf("%w: empty label", ErrInvalidPatch)
		}
		n.Label = label
		n.Metadata.UserEdited = true
	}
	if patch.Type != nil {
		if !patch.Type.Valid() {
			return res, fmt.Errorf("%w: unknown type %q", ErrInvalidPatch, *patch.Type)
		}
		n.Type = *patch.Type
		n.Metadata.UserEdited = true
	}
	if patch.Timeframe != nil {
		tf, err := NormalizeTimeframe(*patch.Timeframe)
		if err != nil {
			return res, err
		}
		n.Timeframe = &tf
		n.Metadata.UserEdited = true
	}
	if patch.ClearTimeframe {
		n.Timeframe = nil
		n.Metadata.UserEdited = true
	}
	if patch.Position != nil {
		n.Position = *patch.Position
		n.Metadata.UserPositioned = true
	}

	out.Timeline = BuildTimeline(out.Nodes)
	out.DropDanglingConnections()
	return out, nil
}

// NormalizeTimeframe validates a user-supplied timeframe and rewrites its
// dates in normalized form. An end of "present" or "current" means ongoing.
func NormalizeTimeframe(tf model.Timeframe) (model.Timeframe, error) {
	start, ok := timeframe.Parse(tf.Start)
	if !ok {
		return tf, fmt.Errorf("%w: unparseable start %q", ErrInvalidPatch, tf.Start)
	}
	out := model.Timeframe{Start: start.String()}
	switch strings.ToLower(strings.TrimSpace(tf.End)) {
	case "", "present", "current", "now", "ongoing":
		return out, nil
	}
	end, ok := timeframe.Parse(tf.End)
	if !ok {
		return tf, fmt.Errorf("%w: unparseable end %q", ErrInvalidPatch, tf.End)
	}
	out.End = end.String()
	s, e, _ := timeframe.Months(&out)
	if e < s {
		return tf, fmt.Errorf("%w: end %q before start %q", ErrInvalidPatch, tf.End, tf.Start)
	}
	return out, nil
}

// reconcile matches fresh nodes to a previous result, first by type and
// label, then by extracted text for nodes whose label the user changed. A
// match takes over the previous id, user edits and position; unmatched
// previous nodes are appended. Connections are rewritten to the surviving
// ids.
func reconcile(fresh, prev []model.ExtractedNode, minRatio float64) []model.ExtractedNode {
	matchOf := make([]int, len(fresh))
	for i := range matchOf {
		matchOf[i] = -1
	}
	used := make([]bool, len(prev))
	pass := func(same func(n, p model.ExtractedNode) bool) {
		for i, n := range fresh {
			if matchOf[i] >= 0 {
				continue
			}
			for j, p := range prev {
				if !used[j] && same(n, p) {
					matchOf[i], used[j] = j, true
					break
				}
			}
		}
	}
	pass(func(n, p model.ExtractedNode) bool {
		return n.Type == p.Type && nearDuplicate(labelKey(n.Label), labelKey(p.Label), minRatio)
	})
	pass(func(n, p model.ExtractedNode) bool {
		return p.Metadata.UserEdited && p.Metadata.ExtractedText != "" && p.Metadata.ExtractedText == n.Metadata.ExtractedText
	})

	rename := make(map[string]string)
	for i, j := range matchOf {
		if j < 0 {
			continue
		}
		n, p := &fresh[i], prev[j]
		rename[n.ID] = p.ID
		n.ID = p.ID
		if p.Metadata.UserPositioned {
			n.Position = p.Position
			n.Metadata.UserPositioned = true
		}
		if p.Metadata.UserEdited {
			n.Label = p.Label
			n.Type = p.Type
			n.Timeframe = p.Clone().Timeframe
			n.Metadata.UserEdited = true
		}
	}

	for i := range fresh {
		for k, c := range fresh[i].Connections {
			if to, ok := rename[c]; ok {
				fresh[i].Connections[k] = to
			}
		}
	}
	for j, p := range prev {
		if !used[j] {
			fresh = append(fresh, p.Clone())
		}
	}
	return fresh
}
