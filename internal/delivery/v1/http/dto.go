package http

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/DRSN-tech/catalog-backend/internal/domain"
	"github.com/DRSN-tech/catalog-backend/internal/usecase"
	"github.com/DRSN-tech/catalog-backend/pkg/e"
	"github.com/DRSN-tech/catalog-backend/pkg/money"
	"github.com/shopspring/decimal"
)

// PRODUCTS

type productRequest struct {
	Name           string           `json:"name" validate:"required"`
	Description    string           `json:"description"`
	Price          *decimal.Decimal `json:"price" validate:"required"`
	Rating         float64          `json:"rating" validate:"gte=0,lte=5"`
	Category       string           `json:"category" validate:"required"`
	Tier           string           `json:"tier"`
	Image          string           `json:"image" validate:"omitempty,url"`
	AdditionalInfo string           `json:"additionalInfo"`
	Review         string           `json:"review"`
}

func (r *productRequest) toInput() (*usecase.ProductInput, error) {
	cents, err := money.FromDecimal(*r.Price)
	if err != nil {
		return nil, e.InvalidWrap("price", err)
	}

	return &usecase.ProductInput{
		Name:           r.Name,
		Description:    r.Description,
		Price:          cents,
		Rating:         r.Rating,
		Category:       r.Category,
		Tier:           r.Tier,
		Image:          r.Image,
		AdditionalInfo: r.AdditionalInfo,
		Review:         r.Review,
	}, nil
}

type productResponse struct {
	ID             string      `json:"id"`
	Name           string      `json:"name"`
	Description    string      `json:"description"`
	Price          json.Number `json:"price" swaggertype:"number"`
	Rating         float64     `json:"rating"`
	Category       string      `json:"category"`
	Tier           string      `json:"tier"`
	Image          string      `json:"image"`
	AdditionalInfo string      `json:"additionalInfo"`
	Review         string      `json:"review"`
	CreatedAt      time.Time   `json:"createdAt"`
	UpdatedAt      *time.Time  `json:"updatedAt,omitempty"`
}

func newProductResponse(p *domain.Product) productResponse {
	return productResponse{
		ID:             p.ID,
		Name:           p.Name,
		Description:    p.Description,
		Price:          json.Number(money.Format(p.Price)),
		Rating:         p.Rating,
		Category:       p.CategoryName,
		Tier:           p.Tier,
		Image:          p.Image,
		AdditionalInfo: p.AdditionalInfo,
		Review:         p.Review,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

func newProductResponses(products []domain.Product) []productResponse {
	res := make([]productResponse, 0, len(products))
	for i := range products {
		res = append(res, newProductResponse(&products[i]))
	}
	return res
}

type lookupRequest struct {
	IDs []string `json:"ids" validate:"required,min=1,dive,uuid"`
}

type lookupResponse struct {
	Products []productResponse `json:"products"`
	NotFound []string          `json:"not_found"`
}

// flexString принимает строку, число или null: записи импорта приходят из таблиц с произвольной типизацией.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

type importRecordDTO struct {
	Name           flexString `json:"name" swaggertype:"string"`
	Description    flexString `json:"description" swaggertype:"string"`
	Price          flexString `json:"price" swaggertype:"string"`
	Rating         flexString `json:"rating" swaggertype:"string"`
	Category       flexString `json:"category" swaggertype:"string"`
	Tier           flexString `json:"tier" swaggertype:"string"`
	Image          flexString `json:"image" swaggertype:"string"`
	AdditionalInfo flexString `json:"additionalInfo" swaggertype:"string"`
	Review         flexString `json:"review" swaggertype:"string"`
}

type bulkRequest struct {
	Products []importRecordDTO `json:"products" validate:"required"`
}

func (r *bulkRequest) toRecords() []usecase.ImportRecord {
	records := make([]usecase.ImportRecord, 0, len(r.Products))
	for _, p := range r.Products {
		records = append(records, usecase.ImportRecord{
			Name:           string(p.Name),
			Description:    string(p.Description),
			Price:          string(p.Price),
			Rating:         string(p.Rating),
			Category:       string(p.Category),
			Tier:           string(p.Tier),
			Image:          string(p.Image),
			AdditionalInfo: string(p.AdditionalInfo),
			Review:         string(p.Review),
		})
	}
	return records
}

type bulkResponse struct {
	Created int64  `json:"created"`
	Message string `json:"message"`
}

type adjustPricesRequest struct {
	Percent *decimal.Decimal `json:"percent"`
}

type adjustPricesResponse struct {
	Percent string `json:"percent"`
	Updated int    `json:"updated"`
}

// CATEGORIES

// categoryConfig — настройки категории без имени: элемент тела POST /categories/bulk.
type categoryConfig struct {
	MaxProducts int              `json:"maxProducts"`
	MinPrice    *decimal.Decimal `json:"minPrice" validate:"required"`
	MaxPrice    *decimal.Decimal `json:"maxPrice" validate:"required"`
}

func (c *categoryConfig) toReq(name string) (*usecase.UpsertCategoryReq, error) {
	minPrice, err := money.FromDecimal(*c.MinPrice)
	if err != nil {
		return nil, e.InvalidWrap("priceRange.min", err)
	}

	maxPrice, err := money.FromDecimal(*c.MaxPrice)
	if err != nil {
		return nil, e.InvalidWrap("priceRange.max", err)
	}

	return &usecase.UpsertCategoryReq{
		Name:        name,
		MaxProducts: c.MaxProducts,
		MinPrice:    minPrice,
		MaxPrice:    maxPrice,
	}, nil
}

type categoryRequest struct {
	Name        string           `json:"name" validate:"required"`
	MaxProducts int              `json:"maxProducts"`
	MinPrice    *decimal.Decimal `json:"minPrice" validate:"required"`
	MaxPrice    *decimal.Decimal `json:"maxPrice" validate:"required"`
}

func (r *categoryRequest) config() *categoryConfig {
	return &categoryConfig{
		MaxProducts: r.MaxProducts,
		MinPrice:    r.MinPrice,
		MaxPrice:    r.MaxPrice,
	}
}

type categoryResponse struct {
	ID          int64       `json:"id"`
	Name        string      `json:"name"`
	MaxProducts int         `json:"maxProducts"`
	MinPrice    json.Number `json:"minPrice" swaggertype:"number"`
	MaxPrice    json.Number `json:"maxPrice" swaggertype:"number"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   *time.Time  `json:"updatedAt,omitempty"`
}

func newCategoryResponse(c *domain.Category) categoryResponse {
	return categoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		MaxProducts: c.MaxProducts,
		MinPrice:    json.Number(money.Format(c.PriceRange.Min)),
		MaxPrice:    json.Number(money.Format(c.PriceRange.Max)),
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func newCategoryResponses(categories []domain.Category) []categoryResponse {
	res := make([]categoryResponse, 0, len(categories))
	for i := range categories {
		res = append(res, newCategoryResponse(&categories[i]))
	}
	return res
}

// GENERATOR

type generateRequest struct {
	Count   int  `json:"count" validate:"gte=0,lte=10000"`
	Replace bool `json:"replace"`
}

type generateResponse struct {
	Products []productResponse `json:"products"`
	Removed  int               `json:"removed"`
}

// HEALTH

type healthResponse struct {
	Message      string `json:"message"`
	ProductCount int64  `json:"productCount"`
}
