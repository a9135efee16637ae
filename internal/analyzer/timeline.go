package analyzer

import (
	"sort"

	"github.com/dgallion1/careermap/internal/model"
	"github.com/dgallion1/careermap/internal/timeframe"
)

// BuildTimeline collects a start event for every node with a resolvable
// timeframe, plus an end event when the end is resolvable and distinct.
// Events are sorted by date; equal dates keep node discovery order.
func BuildTimeline(nodes []model.ExtractedNode) model.Timeline {
	type keyed struct {
		key int
		ev  model.TimelineEvent
	}
	var evs []keyed
	for _, n := range nodes {
		if n.Timeframe == nil {
			continue
		}
		start, ok := timeframe.SortKey(n.Timeframe.Start)
		if !ok || n.Timeframe.Start == "" {
			continue
		}
		end, endOK := timeframe.SortKey(n.Timeframe.End)
		single := n.Timeframe.End == n.Timeframe.Start

		desc := "Started: " + n.Label
		if single {
			desc = n.Label
		}
		evs = append(evs, keyed{start, model.TimelineEvent{Date: n.Timeframe.Start, NodeID: n.ID, Description: desc}})

		if n.Timeframe.End != "" && endOK && !single {
			evs = append(evs, keyed{end, model.TimelineEvent{Date: n.Timeframe.End, NodeID: n.ID, Description: "Ended: " + n.Label}})
		}
	}
	sort.SliceStable(evs, func(i, j int) bool { return evs[i].key < evs[j].key })

	tl := model.Timeline{Events: make([]model.TimelineEvent, 0, len(evs))}
	for _, e := range evs {
		tl.Events = append(tl.Events, e.ev)
	}
	if len(tl.Events) > 0 {
		tl.StartDate = tl.Events[0].Date
		tl.EndDate = tl.Events[len(tl.Events)-1].Date
	}
	return tl
}
