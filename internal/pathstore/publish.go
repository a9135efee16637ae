package pathstore

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dgallion1/careermap/internal/model"
)

// Publisher writes analysis results into pathstore as a graph.
type Publisher struct {
	client      *Client
	log         *slog.Logger
	concurrency int
	backoff     func(int) time.Duration
}

func NewPublisher(client *Client, log *slog.Logger, concurrency int) *Publisher {
	if concurrency <= 0 {
		concurrency = 4
	}
	return &Publisher{
		client:      client,
		log:         log,
		concurrency: concurrency,
		backoff:     Backoff,
	}
}

// PublishStats counts what a publish wrote.
type PublishStats struct {
	Nodes int `json:"nodes"`
	Links int `json:"links"`
}

// SessionPrefix is the key under which a session's graph lives.
func SessionPrefix(sessionID string) string {
	return fmt.Sprintf("careermap/sessions/%s", sessionID)
}

// NodeKey is the key of one node.
func NodeKey(sessionID, nodeID string) string {
	return fmt.Sprintf("%s/nodes/%s", SessionPrefix(sessionID), nodeID)
}

// Publish replaces the session's graph with res. Earlier nodes for the
// session are removed first, then every node is written, then every
// connection once as a bidirectional link.
func (p *Publisher) Publish(ctx context.Context, sessionID string, res model.AnalysisResult) (PublishStats, error) {
	log := p.log.With("session_id", sessionID)
	var stats PublishStats

	err := retry(ctx, p.backoff, func() error {
		return p.client.DeleteNode(ctx, SessionPrefix(sessionID)+"/nodes", true)
	})
	if err != nil {
		return stats, fmt.Errorf("clear session graph: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)
	for _, n := range res.Nodes {
		g.Go(func() error {
			req := nodeRequest(sessionID, n)
			key := NodeKey(sessionID, n.ID)
			if err := retry(gctx, p.backoff, func() error { return p.client.PutNode(gctx, key, req) }); err != nil {
				return fmt.Errorf("put node %s: %w", n.ID, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return stats, err
	}
	stats.Nodes = len(res.Nodes)

	edges := res.Edges()
	g, gctx = errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)
	for _, e := range edges {
		g.Go(func() error {
			req := linkRequest(sessionID, res, e)
			if err := retry(gctx, p.backoff, func() error { return p.client.PutLink(gctx, req) }); err != nil {
				return fmt.Errorf("put link %s-%s: %w", e.From, e.To, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return stats, err
	}
	stats.Links = len(edges)

	log.Info("published to pathstore", "nodes", stats.Nodes, "links", stats.Links)
	return stats, nil
}

func nodeRequest(sessionID string, n model.ExtractedNode) NodeRequest {
	value := map[string]any{
		"type":       n.Type,
		"label":      n.Label,
		"confidence": n.Metadata.Confidence,
		"sources":    n.SourceDocuments,
		"position":   n.Position,
	}
	if n.Timeframe != nil {
		value["timeframe"] = n.Timeframe
	}
	return NodeRequest{
		Value:      value,
		MemoryType: "episodic",
		Salience:   n.Metadata.Confidence,
		Source:     "careermap:" + sessionID,
	}
}

func linkRequest(sessionID string, res model.AnalysisResult, e model.Edge) LinkRequest {
	from := res.Nodes[res.Index(e.From)]
	to := res.Nodes[res.Index(e.To)]
	return LinkRequest{
		From:          NodeKey(sessionID, e.From),
		To:            NodeKey(sessionID, e.To),
		Weight:        min(from.Metadata.Confidence, to.Metadata.Confidence),
		Summary:       string(from.Type) + "~" + string(to.Type),
		Bidirectional: true,
	}
}
