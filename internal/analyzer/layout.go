package analyzer

import (
	"slices"

	"github.com/dgallion1/careermap/internal/model"
	"github.com/dgallion1/careermap/internal/profile"
	"github.com/dgallion1/careermap/internal/timeframe"
)

// Layout assigns starting coordinates. Each type has its own lane (y) in
// priority order; x is the rank of the node's start date among all distinct
// start dates, and undated nodes follow the dated columns of their lane in
// discovery order. Nodes sharing a lane and column are stacked downward.
// Nodes the user has positioned are left alone.
func Layout(nodes []model.ExtractedNode, cfg profile.Layout) {
	var starts []int
	keyOf := make([]int, len(nodes))
	dated := make([]bool, len(nodes))
	for i, n := range nodes {
		if n.Timeframe == nil {
			continue
		}
		if k, ok := timeframe.SortKey(n.Timeframe.Start); ok && n.Timeframe.Start != "" {
			keyOf[i], dated[i] = k, true
			starts = append(starts, k)
		}
	}
	slices.Sort(starts)
	starts = slices.Compact(starts)

	type cell struct {
		lane, col int
	}
	stacked := make(map[cell]int)
	undated := make(map[int]int)
	for i := range nodes {
		n := &nodes[i]
		if n.Metadata.UserPositioned {
			continue
		}
		lane := n.Type.Priority()
		var col int
		if dated[i] {
			col, _ = slices.BinarySearch(starts, keyOf[i])
		} else {
			col = len(starts) + undated[lane]
			undated[lane]++
		}
		c := cell{lane, col}
		depth := stacked[c]
		stacked[c]++
		n.Position = model.Position{
			X: cfg.MarginX + float64(col)*cfg.ColumnWidth,
			Y: cfg.MarginY + float64(lane)*cfg.LaneHeight + float64(depth)*cfg.StackOffset,
		}
	}
}
