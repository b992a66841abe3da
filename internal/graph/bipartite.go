package graph

import "sort"

// Link is one left/right pair in a Bipartite graph.
type Link struct {
	Left, Right string
}

// Bipartite links nodes of two disjoint classes. A link is present in the
// left view exactly when it is present in the right view.
type Bipartite struct {
	left  map[string]map[string]struct{}
	right map[string]map[string]struct{}
}

// NewBipartite returns an empty bipartite graph.
func NewBipartite() *Bipartite {
	return &Bipartite{
		left:  make(map[string]map[string]struct{}),
		right: make(map[string]map[string]struct{}),
	}
}

// Link connects l and r and reports whether the link is new.
func (g *Bipartite) Link(l, r string) bool {
	if g.Linked(l, r) {
		return false
	}
	insert(g.left, l, r)
	insert(g.right, r, l)
	return true
}

// Unlink removes the link between l and r and reports whether it existed.
func (g *Bipartite) Unlink(l, r string) bool {
	if !g.Linked(l, r) {
		return false
	}
	remove(g.left, l, r)
	remove(g.right, r, l)
	return true
}

// Linked reports whether l and r are connected.
func (g *Bipartite) Linked(l, r string) bool {
	_, ok := g.left[l][r]
	return ok
}

// RightOf returns the right-hand nodes linked to l, sorted.
func (g *Bipartite) RightOf(l string) []string { return sortedKeys(g.left[l]) }

// LeftOf returns the left-hand nodes linked to r, sorted.
func (g *Bipartite) LeftOf(r string) []string { return sortedKeys(g.right[r]) }

// RemoveRight deletes r and all of its links.
func (g *Bipartite) RemoveRight(r string) {
	for l := range g.right[r] {
		remove(g.left, l, r)
	}
	delete(g.right, r)
}

// Links lists every link ordered by (Left, Right).
func (g *Bipartite) Links() []Link {
	var out []Link
	for l, rs := range g.left {
		for r := range rs {
			out = append(out, Link{Left: l, Right: r})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Left != out[j].Left {
			return out[i].Left < out[j].Left
		}
		return out[i].Right < out[j].Right
	})
	return out
}

func insert(m map[string]map[string]struct{}, k, v string) {
	set, ok := m[k]
	if !ok {
		set = make(map[string]struct{})
		m[k] = set
	}
	set[v] = struct{}{}
}

func remove(m map[string]map[string]struct{}, k, v string) {
	delete(m[k], v)
	if len(m[k]) == 0 {
		delete(m, k)
	}
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
