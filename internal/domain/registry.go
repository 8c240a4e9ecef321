package domain

import "sort"

const (
	// AllCategories — значение выбора категории, означающее «все категории».
	AllCategories = "All"
	// DefaultMaxProducts — лимит выдачи для AllCategories и неизвестных категорий.
	DefaultMaxProducts = 10
)

// Registry — снимок всех категорий, собранный на время одного запроса.
type Registry struct {
	byName     map[string]Category
	names      []string
	defaultCap int
}

// NewRegistry строит реестр. defaultCap <= 0 заменяется на DefaultMaxProducts.
func NewRegistry(categories []Category, defaultCap int) *Registry {
	if defaultCap <= 0 {
		defaultCap = DefaultMaxProducts
	}

	r := &Registry{
		byName:     make(map[string]Category, len(categories)),
		names:      make([]string, 0, len(categories)),
		defaultCap: defaultCap,
	}
	for _, c := range categories {
		if _, dup := r.byName[c.Name]; !dup {
			r.names = append(r.names, c.Name)
		}
		r.byName[c.Name] = c
	}
	sort.Strings(r.names)

	return r
}

func (r *Registry) Get(name string) (Category, bool) {
	c, ok := r.byName[name]
	return c, ok
}

// Names возвращает имена категорий в отсортированном порядке.
func (r *Registry) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

func (r *Registry) Len() int {
	return len(r.names)
}

func (r *Registry) IsEmpty() bool {
	return len(r.names) == 0
}

// MaxProducts возвращает лимит выдачи для выбранной категории.
func (r *Registry) MaxProducts(category string) int {
	if category == AllCategories {
		return r.defaultCap
	}

	if c, ok := r.byName[category]; ok && c.MaxProducts > 0 {
		return c.MaxProducts
	}

	return r.defaultCap
}
