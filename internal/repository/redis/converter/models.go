package converter

import "time"

// ProductRedisModel — JSON-представление продукта в кэше.
type ProductRedisModel struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Description    string     `json:"description"`
	Price          int64      `json:"price"`
	Rating         float64    `json:"rating"`
	CategoryName   string     `json:"category_name"`
	Tier           string     `json:"tier"`
	Image          string     `json:"image"`
	AdditionalInfo string     `json:"additional_info"`
	Review         string     `json:"review"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      *time.Time `json:"updated_at,omitempty"`
}
