// Package search provides a prefix index over product names. The index is
// derived from the catalog and is rebuilt, never persisted.
package search

import (
	"sort"
	"strings"

	"catalogcore/pkg/domain"
)

type node struct {
	children map[rune]*node
	ids      map[string]struct{}
}

func newNode() *node {
	return &node{children: make(map[rune]*node)}
}

// Index is a trie keyed by the runes of normalized product names. Each
// terminal node records the ids of products with exactly that name.
type Index struct {
	root *node
}

// New returns an empty index.
func New() *Index {
	return &Index{root: newNode()}
}

// Normalize trims and lower-cases names and prefixes before traversal.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Rebuild discards the current index and inserts every product's name.
func (ix *Index) Rebuild(products []domain.Product) {
	ix.root = newNode()
	for _, p := range products {
		ix.Insert(p.Name, p.ID)
	}
}

// Insert records id under name. Several ids may share one name.
func (ix *Index) Insert(name, id string) {
	n := ix.root
	for _, r := range Normalize(name) {
		child, ok := n.children[r]
		if !ok {
			child = newNode()
			n.children[r] = child
		}
		n = child
	}
	if n.ids == nil {
		n.ids = make(map[string]struct{})
	}
	n.ids[id] = struct{}{}
}

// Remove drops id from the terminal node of name and prunes branches left
// without ids or children. Unknown names are ignored.
func (ix *Index) Remove(name, id string) {
	type step struct {
		parent *node
		r      rune
	}
	var path []step
	n := ix.root
	for _, r := range Normalize(name) {
		child, ok := n.children[r]
		if !ok {
			return
		}
		path = append(path, step{parent: n, r: r})
		n = child
	}
	delete(n.ids, id)
	for i := len(path) - 1; i >= 0; i-- {
		child := path[i].parent.children[path[i].r]
		if len(child.ids) > 0 || len(child.children) > 0 {
			break
		}
		delete(path[i].parent.children, path[i].r)
	}
}

// SearchByPrefix returns every id whose name starts with prefix, ignoring
// case. An unknown prefix yields an empty result; the empty prefix yields
// every id. Results are sorted ascending.
func (ix *Index) SearchByPrefix(prefix string) []string {
	n := ix.root
	for _, r := range Normalize(prefix) {
		child, ok := n.children[r]
		if !ok {
			return []string{}
		}
		n = child
	}
	seen := make(map[string]struct{})
	collect(n, seen)
	out := make([]string, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of distinct ids in the index.
func (ix *Index) Len() int {
	seen := make(map[string]struct{})
	collect(ix.root, seen)
	return len(seen)
}

func collect(n *node, out map[string]struct{}) {
	for id := range n.ids {
		out[id] = struct{}{}
	}
	for _, child := range n.children {
		collect(child, out)
	}
}
