package domain

import "math"

// NoUpperBound используется как верхняя граница, когда максимальная цена не задана.
const NoUpperBound int64 = math.MaxInt64

// Selection — параметры витринного фильтра. Не сохраняется.
type Selection struct {
	Category   string
	PriceRange PriceRange
}

func NewSelection(category string, minPrice, maxPrice int64) Selection {
	if category == "" {
		category = AllCategories
	}

	return Selection{
		Category:   category,
		PriceRange: PriceRange{Min: minPrice, Max: maxPrice},
	}
}

// Filter оставляет продукты выбранной категории с ценой в диапазоне, сохраняя исходный порядок,
// и обрезает результат до лимита категории из реестра.
// Диапазон с Min > Max и неизвестная категория дают пустой результат.
func Filter(products []Product, sel Selection, reg *Registry) []Product {
	result := make([]Product, 0)
	if len(products) == 0 || sel.PriceRange.Min > sel.PriceRange.Max {
		return result
	}

	limit := reg.MaxProducts(sel.Category)
	for _, p := range products {
		if len(result) >= limit {
			break
		}

		if sel.Category != AllCategories && p.CategoryName != sel.Category {
			continue
		}

		if !sel.PriceRange.Contains(p.Price) {
			continue
		}

		result = append(result, p)
	}

	return result
}
