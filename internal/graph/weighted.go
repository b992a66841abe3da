// Package graph provides the symmetric adjacency structures used by the
// recommendation and supply-chain components. Every mutation updates both
// directions so the two views can never diverge.
package graph

import "sort"

// Edge is one undirected weighted edge with A < B.
type Edge struct {
	A, B   string
	Weight int
}

// WeightedEdges is an undirected weighted graph stored as a symmetric
// adjacency map: adj[a][b] == adj[b][a] for every edge.
type WeightedEdges struct {
	adj map[string]map[string]int
}

// NewWeightedEdges returns an empty graph.
func NewWeightedEdges() *WeightedEdges {
	return &WeightedEdges{adj: make(map[string]map[string]int)}
}

// Add increases the weight of edge (a, b) by delta, creating it if absent.
// Self-edges and non-positive deltas are ignored.
func (g *WeightedEdges) Add(a, b string, delta int) {
	if a == b || delta <= 0 {
		return
	}
	g.half(a)[b] += delta
	g.half(b)[a] += delta
}

func (g *WeightedEdges) half(id string) map[string]int {
	m, ok := g.adj[id]
	if !ok {
		m = make(map[string]int)
		g.adj[id] = m
	}
	return m
}

// Weight returns the weight of edge (a, b), zero when absent.
func (g *WeightedEdges) Weight(a, b string) int {
	return g.adj[a][b]
}

// Neighbors returns a copy of the neighbours of id and their weights.
func (g *WeightedEdges) Neighbors(id string) map[string]int {
	out := make(map[string]int, len(g.adj[id]))
	for n, w := range g.adj[id] {
		out[n] = w
	}
	return out
}

// Degree returns the number of distinct neighbours of id.
func (g *WeightedEdges) Degree(id string) int {
	return len(g.adj[id])
}

// RemoveNode deletes id and every edge touching it.
func (g *WeightedEdges) RemoveNode(id string) {
	for n := range g.adj[id] {
		delete(g.adj[n], id)
		if len(g.adj[n]) == 0 {
			delete(g.adj, n)
		}
	}
	delete(g.adj, id)
}

// Edges lists every edge once, ordered by (A, B).
func (g *WeightedEdges) Edges() []Edge {
	var out []Edge
	for a, nbrs := range g.adj {
		for b, w := range nbrs {
			if a < b {
				out = append(out, Edge{A: a, B: b, Weight: w})
			}
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].A != out[j].A {
			return out[i].A < out[j].A
		}
		return out[i].B < out[j].B
	})
	return out
}

// Len returns the number of edges.
func (g *WeightedEdges) Len() int {
	n := 0
	for _, nbrs := range g.adj {
		n += len(nbrs)
	}
	return n / 2
}
