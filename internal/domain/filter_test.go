package domain

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func names(products []Product) []string {
	out := make([]string, 0, len(products))
	for _, p := range products {
		out = append(out, p.Name)
	}
	return out
}

func TestFilterTruncatesToCategoryCap(t *testing.T) {
	reg := NewRegistry([]Category{*NewCategory("Basic", 2, 1000, 2000)}, 0)
	products := []Product{
		{Name: "a", CategoryName: "Basic", Price: 1500},
		{Name: "b", CategoryName: "Basic", Price: 2500},
		{Name: "c", CategoryName: "Basic", Price: 1200},
	}

	got := Filter(products, NewSelection("Basic", 0, 10000), reg)

	if diff := cmp.Diff([]string{"a", "b"}, names(got)); diff != "" {
		t.Fatalf("unexpected result (-want +got):\n%s", diff)
	}
}

func TestFilterPreservesOrderAndPredicates(t *testing.T) {
	reg := NewRegistry([]Category{
		*NewCategory("Books", 10, 0, 5000),
		*NewCategory("Home", 10, 0, 5000),
	}, 0)
	products := []Product{
		{Name: "b1", CategoryName: "Books", Price: 900},
		{Name: "h1", CategoryName: "Home", Price: 100},
		{Name: "b2", CategoryName: "Books", Price: 100},
		{Name: "b3", CategoryName: "Books", Price: 400},
	}

	got := Filter(products, NewSelection("Books", 100, 500), reg)
	assert.Equal(t, []string{"b2", "b3"}, names(got))

	for _, p := range got {
		assert.Equal(t, "Books", p.CategoryName)
		assert.True(t, p.Price >= 100 && p.Price <= 500)
	}
}

func TestFilterAllUsesDefaultCap(t *testing.T) {
	reg := NewRegistry(nil, 0)
	products := make([]Product, 0, 15)
	for i := 0; i < 15; i++ {
		products = append(products, Product{Name: string(rune('a' + i)), CategoryName: "X", Price: int64(i)})
	}

	got := Filter(products, NewSelection(AllCategories, 0, NoUpperBound), reg)
	assert.Len(t, got, DefaultMaxProducts)
	assert.Equal(t, names(products[:DefaultMaxProducts]), names(got))

	custom := NewRegistry(nil, 12)
	assert.Len(t, Filter(products, NewSelection("", 0, NoUpperBound), custom), 12)
}

func TestFilterEdgeCases(t *testing.T) {
	reg := NewRegistry([]Category{*NewCategory("Basic", 5, 0, 100)}, 0)
	products := []Product{{Name: "a", CategoryName: "Basic", Price: 50}}

	assert.Empty(t, Filter(nil, NewSelection(AllCategories, 0, 100), reg))
	assert.Empty(t, Filter(products, NewSelection("Basic", 60, 40), reg))
	assert.Empty(t, Filter(products, NewSelection("Unknown", 0, 100), reg))
	assert.NotNil(t, Filter(nil, NewSelection(AllCategories, 0, 100), reg))
}

func TestFilterUnconfiguredCategoryFallsBackToDefaultCap(t *testing.T) {
	reg := NewRegistry(nil, 3)
	products := []Product{
		{Name: "a", CategoryName: "Ghost", Price: 1},
		{Name: "b", CategoryName: "Ghost", Price: 2},
		{Name: "c", CategoryName: "Ghost", Price: 3},
		{Name: "d", CategoryName: "Ghost", Price: 4},
	}

	got := Filter(products, NewSelection("Ghost", 0, NoUpperBound), reg)
	assert.Equal(t, []string{"a", "b", "c"}, names(got))
}
