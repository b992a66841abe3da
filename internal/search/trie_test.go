package search

import (
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalogcore/pkg/domain"
)

func sampleProducts() []domain.Product {
	return []domain.Product{
		{ID: "p1", Name: "Apple iPhone"},
		{ID: "p2", Name: "Apple Watch"},
		{ID: "p3", Name: "apricot jam"},
		{ID: "p4", Name: "Banana"},
		{ID: "p5", Name: "Apple Watch"},
		{ID: "p6", Name: "Äpfel"},
	}
}

// bruteForce is the reference result: ids whose normalized name starts
// with the normalized prefix.
func bruteForce(products []domain.Product, prefix string) []string {
	out := []string{}
	for _, p := range products {
		if strings.HasPrefix(Normalize(p.Name), Normalize(prefix)) {
			out = append(out, p.ID)
		}
	}
	sort.Strings(out)
	return out
}

func TestSearchByPrefixMatchesBruteForce(t *testing.T) {
	products := sampleProducts()
	ix := New()
	ix.Rebuild(products)

	prefixes := []string{"", "a", "A", "ap", "APPLE", "apple ", "apple w", "apr", "b", "banana", "bananas", "z", "äp", "  apple  "}
	for _, prefix := range prefixes {
		t.Run("prefix="+prefix, func(t *testing.T) {
			assert.Equal(t, bruteForce(products, prefix), ix.SearchByPrefix(prefix))
		})
	}
}

func TestSearchEmptyPrefixReturnsAllAndUnknownReturnsEmpty(t *testing.T) {
	ix := New()
	ix.Rebuild(sampleProducts())
	assert.Equal(t, []string{"p1", "p2", "p3", "p4", "p5", "p6"}, ix.SearchByPrefix(""))

	got := ix.SearchByPrefix("nothing here")
	require.NotNil(t, got)
	assert.Empty(t, got)
	assert.Equal(t, 6, ix.Len())
}

func TestDuplicateNamesMapToDistinctIDs(t *testing.T) {
	ix := New()
	ix.Insert("Apple Watch", "p2")
	ix.Insert("apple watch", "p5")
	ix.Insert("Apple Watch", "p2")
	assert.Equal(t, []string{"p2", "p5"}, ix.SearchByPrefix("apple watch"))
}

func TestRebuildDiscardsPreviousEntries(t *testing.T) {
	ix := New()
	ix.Insert("Stale", "old")
	ix.Rebuild([]domain.Product{{ID: "p1", Name: "Fresh"}})
	assert.Empty(t, ix.SearchByPrefix("stale"))
	assert.Equal(t, []string{"p1"}, ix.SearchByPrefix("f"))
}

func TestRemovePrunesEmptyBranches(t *testing.T) {
	ix := New()
	ix.Insert("Apple", "p1")
	ix.Insert("Apple Watch", "p2")

	ix.Remove("Apple Watch", "p2")
	assert.Equal(t, []string{"p1"}, ix.SearchByPrefix("apple"))
	assert.Empty(t, ix.SearchByPrefix("apple "))

	ix.Remove("Apple", "p1")
	assert.Empty(t, ix.SearchByPrefix(""))
	assert.Empty(t, ix.root.children, "all branches pruned")

	// Unknown names are a no-op.
	ix.Remove("missing", "p9")
}

func TestRemoveKeepsSiblingIDs(t *testing.T) {
	ix := New()
	ix.Insert("Watch", "p1")
	ix.Insert("Watch", "p2")
	ix.Remove("watch", "p1")
	assert.Equal(t, []string{"p2"}, ix.SearchByPrefix("w"))
}
