package domain

import (
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/DRSN-tech/catalog-backend/pkg/e"
)

var (
	Tiers = []string{"Basic", "Premium", "Luxury"}

	adjectives = []string{"Classic", "Modern", "Compact", "Deluxe", "Essential", "Handcrafted", "Smart", "Vintage"}
	nouns      = []string{"Kit", "Set", "Edition", "Bundle", "Model", "Collection", "Pack", "Series"}
	phrases    = []string{
		"A great %s product for everyday use",
		"Carefully selected %s item with reliable quality",
		"Popular %s choice among our customers",
		"A %s favourite that offers great value",
	}
	additionalInfo = []string{
		"Ships within 2 business days",
		"Includes a 1-year warranty",
		"Limited stock available",
		"Eco-friendly packaging",
	}
	reviews = []string{
		"Exactly as described, would buy again.",
		"Good value for the price.",
		"Solid quality and fast delivery.",
		"Better than expected!",
	}
)

const placeholderImageURL = "https://picsum.photos/seed/%d/200/300"

// RandSource — источник случайности генератора.
type RandSource interface {
	Float64() float64
	Intn(n int) int
}

// Generator синтезирует демонстрационные продукты в пределах ценовых диапазонов категорий.
type Generator struct {
	mu  sync.Mutex
	rnd RandSource
}

// NewGenerator создаёт генератор. При rnd == nil используется источник, инициализированный временем.
func NewGenerator(rnd RandSource) *Generator {
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	return &Generator{rnd: rnd}
}

// Generate возвращает count несохранённых продуктов.
// Категория каждого продукта выбирается равновероятно из реестра.
func (g *Generator) Generate(reg *Registry, count int) ([]Product, error) {
	const op = "Generator.Generate"

	if count <= 0 {
		return nil, e.Wrap(op, e.Invalid("count", "must be a positive integer, got %d", count))
	}

	if reg == nil || reg.IsEmpty() {
		return nil, e.Wrap(op, e.ErrEmptyRegistry)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	names := reg.Names()
	products := make([]Product, 0, count)
	for i := 0; i < count; i++ {
		category, _ := reg.Get(names[g.rnd.Intn(len(names))])
		products = append(products, g.product(category))
	}

	return products, nil
}

func (g *Generator) product(c Category) Product {
	return Product{
		Name:           fmt.Sprintf("%s %s %s", c.Name, pick(g.rnd, adjectives), pick(g.rnd, nouns)),
		Description:    fmt.Sprintf(pick(g.rnd, phrases), c.Name),
		Price:          g.price(c.PriceRange),
		Rating:         g.rating(),
		CategoryName:   c.Name,
		Tier:           pick(g.rnd, Tiers),
		Image:          fmt.Sprintf(placeholderImageURL, g.rnd.Intn(1_000_000)),
		AdditionalInfo: pick(g.rnd, additionalInfo),
		Review:         pick(g.rnd, reviews),
	}
}

// price возвращает min + rand*(max-min), округлённое до копеек.
func (g *Generator) price(r PriceRange) int64 {
	span := float64(r.Max - r.Min)
	price := r.Min + int64(math.Round(g.rnd.Float64()*span))
	if price > r.Max {
		return r.Max
	}
	return price
}

// rating возвращает непрерывное значение в [0, 5] с одним знаком после запятой.
func (g *Generator) rating() float64 {
	return math.Round(g.rnd.Float64()*MaxRating*10) / 10
}

func pick(rnd RandSource, values []string) string {
	return values[rnd.Intn(len(values))]
}
