// Package recommend keeps co-purchase statistics and ranks related products.
package recommend

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"catalogcore/internal/graph"
	"catalogcore/pkg/domain"
)

var (
	errEmptyOrder = errors.New("order must contain at least one product id")
	errEmptyID    = errors.New("product id must not be empty")
)

// Graph is an undirected co-purchase graph. Edge weight counts how many
// orders contained both products. It is not safe for concurrent use.
type Graph struct {
	edges *graph.WeightedEdges
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{edges: graph.NewWeightedEdges()}
}

// RecordPurchase counts one co-purchase for every unordered pair of
// distinct ids in the order. Ids are trimmed; repeated ids inside one order
// count once and blank ids are rejected before anything changes.
func (g *Graph) RecordPurchase(ids []string) error {
	if len(ids) == 0 {
		return domain.InvalidArgument("recommend.record", domain.EntityCoPurchase, "", errEmptyOrder)
	}
	unique := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for i, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			return domain.InvalidArgument("recommend.record", domain.EntityCoPurchase, "",
				fmt.Errorf("position %d: %w", i, errEmptyID))
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	for i := 0; i < len(unique); i++ {
		for j := i + 1; j < len(unique); j++ {
			g.edges.Add(unique[i], unique[j], 1)
		}
	}
	return nil
}

// TopRecommendations returns up to k neighbours of id by descending weight,
// ties broken by id ascending. No recorded edges or k <= 0 yields an empty
// result.
func (g *Graph) TopRecommendations(id string, k int) []string {
	if k <= 0 {
		return []string{}
	}
	type scored struct {
		id     string
		weight int
	}
	nbrs := g.edges.Neighbors(id)
	ranked := make([]scored, 0, len(nbrs))
	for n, w := range nbrs {
		ranked = append(ranked, scored{id: n, weight: w})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].weight != ranked[j].weight {
			return ranked[i].weight > ranked[j].weight
		}
		return ranked[i].id < ranked[j].id
	})
	if len(ranked) > k {
		ranked = ranked[:k]
	}
	out := make([]string, len(ranked))
	for i, s := range ranked {
		out[i] = s.id
	}
	return out
}

// Weight returns how many times a and b were bought together.
func (g *Graph) Weight(a, b string) int { return g.edges.Weight(a, b) }

// RemoveProduct forgets every edge touching id.
func (g *Graph) RemoveProduct(id string) { g.edges.RemoveNode(id) }

// Edges exports every edge once with A < B.
func (g *Graph) Edges() []domain.CoPurchaseEdge {
	edges := g.edges.Edges()
	out := make([]domain.CoPurchaseEdge, len(edges))
	for i, e := range edges {
		out[i] = domain.CoPurchaseEdge{A: e.A, B: e.B, Weight: e.Weight}
	}
	return out
}

// Import replaces the graph with the given edges. Self-edges, empty ids,
// non-positive weights or a pair listed twice reject the whole import.
func (g *Graph) Import(edges []domain.CoPurchaseEdge) error {
	next := graph.NewWeightedEdges()
	for _, e := range edges {
		switch {
		case e.A == "" || e.B == "":
			return domain.InvalidArgument("recommend.import", domain.EntityCoPurchase, e.A+"|"+e.B, errEmptyID)
		case e.A == e.B:
			return domain.InvalidArgument("recommend.import", domain.EntityCoPurchase, e.A, errors.New("self edge"))
		case e.Weight < 1:
			return domain.InvalidArgument("recommend.import", domain.EntityCoPurchase, e.A+"|"+e.B,
				fmt.Errorf("weight %d must be positive", e.Weight))
		case next.Weight(e.A, e.B) != 0:
			return domain.DuplicateKey("recommend.import", domain.EntityCoPurchase, e.A+"|"+e.B)
		}
		next.Add(e.A, e.B, e.Weight)
	}
	g.edges = next
	return nil
}
