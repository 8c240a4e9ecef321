package domain

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/DRSN-tech/catalog-backend/pkg/e"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedRand всегда возвращает одно и то же значение.
type fixedRand struct {
	f float64
}

func (f fixedRand) Float64() float64 { return f.f }
func (f fixedRand) Intn(n int) int   { return int(f.f * float64(n)) }

func TestGenerateCountAndPriceBounds(t *testing.T) {
	reg := NewRegistry([]Category{
		*NewCategory("Basic", 5, 1000, 2000),
		*NewCategory("Luxury", 5, 50000, 99999),
		*NewCategory("Fixed", 5, 700, 700),
	}, 0)
	g := NewGenerator(rand.New(rand.NewSource(42)))

	products, err := g.Generate(reg, 200)
	require.NoError(t, err)
	require.Len(t, products, 200)

	for _, p := range products {
		c, ok := reg.Get(p.CategoryName)
		require.True(t, ok, "unknown category %q", p.CategoryName)
		assert.True(t, c.PriceRange.Contains(p.Price), "price %d outside %+v", p.Price, c.PriceRange)
		assert.GreaterOrEqual(t, p.Rating, MinRating)
		assert.LessOrEqual(t, p.Rating, MaxRating)
		assert.Contains(t, Tiers, p.Tier)
		assert.NotEmpty(t, p.Name)
		assert.NotEmpty(t, p.Image)
		assert.Empty(t, p.ID)
		assert.NoError(t, p.Validate())
	}
}

func TestGenerateUpperBoundIsInclusive(t *testing.T) {
	reg := NewRegistry([]Category{*NewCategory("Basic", 5, 1000, 2000)}, 0)
	g := NewGenerator(fixedRand{f: 0.9999999})

	products, err := g.Generate(reg, 3)
	require.NoError(t, err)
	for _, p := range products {
		assert.Equal(t, int64(2000), p.Price)
		assert.Equal(t, 5.0, p.Rating)
	}
}

func TestGenerateEmptyRegistry(t *testing.T) {
	g := NewGenerator(nil)

	products, err := g.Generate(NewRegistry(nil, 0), 5)
	assert.Nil(t, products)
	assert.True(t, errors.Is(err, e.ErrEmptyRegistry))
}

func TestGenerateRejectsNonPositiveCount(t *testing.T) {
	reg := NewRegistry([]Category{*NewCategory("Basic", 5, 1000, 2000)}, 0)
	_, err := NewGenerator(nil).Generate(reg, 0)

	v, ok := e.AsValidation(err)
	require.True(t, ok)
	assert.Equal(t, "count", v.Field)
}
