package converter

import "time"

// CategoryModel представляет запись таблицы categories в PostgreSQL.
type CategoryModel struct {
	ID          int64      `db:"id"`
	Name        string     `db:"name"`
	MaxProducts int        `db:"max_products"`
	MinPrice    int64      `db:"min_price"`
	MaxPrice    int64      `db:"max_price"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   *time.Time `db:"updated_at"`
}

// ProductModel представляет запись таблицы products в PostgreSQL.
type ProductModel struct {
	ID             string     `db:"id"`
	Name           string     `db:"name"`
	Description    string     `db:"description"`
	Price          int64      `db:"price"`
	Rating         float64    `db:"rating"`
	CategoryName   string     `db:"category_name"`
	Tier           string     `db:"tier"`
	Image          string     `db:"image"`
	AdditionalInfo string     `db:"additional_info"`
	Review         string     `db:"review"`
	CreatedAt      time.Time  `db:"created_at"`
	UpdatedAt      *time.Time `db:"updated_at"`
}

// OutboxEventModel представляет запись таблицы outbox_events в PostgreSQL.
type OutboxEventModel struct {
	ID          int64      `db:"id"`
	EventID     string     `db:"event_id"`
	EventType   string     `db:"event_type"`
	Payload     []byte     `db:"payload"`
	Status      string     `db:"status"`
	CreatedAt   time.Time  `db:"created_at"`
	ProcessedAt *time.Time `db:"processed_at"`
}
