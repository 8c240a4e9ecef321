package domain

import (
	"strings"
	"time"

	"github.com/DRSN-tech/catalog-backend/pkg/e"
)

// PriceRange — допустимый диапазон цен категории в копейках, границы включительно.
type PriceRange struct {
	Min int64
	Max int64
}

// Contains сообщает, попадает ли цена в диапазон.
func (r PriceRange) Contains(price int64) bool {
	return r.Min <= price && price <= r.Max
}

// Category описывает категорию продукта
type Category struct {
	ID          int64
	Name        string
	MaxProducts int
	PriceRange  PriceRange
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}

func NewCategory(name string, maxProducts int, minPrice, maxPrice int64) *Category {
	return &Category{
		Name:        strings.TrimSpace(name),
		MaxProducts: maxProducts,
		PriceRange:  PriceRange{Min: minPrice, Max: maxPrice},
	}
}

// Validate проверяет инварианты категории и возвращает ValidationError с именем поля.
func (c *Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return e.Invalid("name", "must not be empty")
	}

	if c.MaxProducts <= 0 {
		return e.Invalid("maxProducts", "must be a positive integer, got %d", c.MaxProducts)
	}

	if c.PriceRange.Min < 0 {
		return e.Invalid("priceRange.min", "must not be negative")
	}

	if c.PriceRange.Max <= 0 {
		return e.Invalid("priceRange.max", "must be positive")
	}

	if c.PriceRange.Min > c.PriceRange.Max {
		return e.Invalid("priceRange.min", "must not exceed priceRange.max")
	}

	return nil
}
