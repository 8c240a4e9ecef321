package domain

import (
	"math"
	"strings"
	"time"

	"github.com/DRSN-tech/catalog-backend/pkg/e"
)

const (
	MinRating = 0.0
	MaxRating = 5.0
)

// Product описывает продукт
type Product struct {
	ID             string // uuid
	Name           string
	Description    string
	Price          int64 // Цена хранится в копейках
	Rating         float64
	CategoryName   string
	Tier           string
	Image          string
	AdditionalInfo string
	Review         string
	CreatedAt      time.Time
	UpdatedAt      *time.Time
}

// Validate проверяет поля продукта, не зависящие от категории.
func (p *Product) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return e.Invalid("name", "must not be empty")
	}

	if strings.TrimSpace(p.CategoryName) == "" {
		return e.Invalid("category", "must not be empty")
	}

	if p.Price < 0 {
		return e.Invalid("price", "must not be negative")
	}

	if math.IsNaN(p.Rating) || p.Rating < MinRating || p.Rating > MaxRating {
		return e.Invalid("rating", "must be within [0, 5], got %v", p.Rating)
	}

	return nil
}

// ValidateAgainst проверяет, что цена продукта попадает в диапазон категории.
func (p *Product) ValidateAgainst(c *Category) error {
	if !c.PriceRange.Contains(p.Price) {
		return e.Invalid("price", "must be within category %q range [%d, %d] cents", c.Name, c.PriceRange.Min, c.PriceRange.Max)
	}

	return nil
}
