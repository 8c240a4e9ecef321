package usecase

import (
	"time"

	"github.com/DRSN-tech/catalog-backend/internal/domain"
)

// CATEGORY USECASE

// UpsertCategoryReq — запрос на создание или обновление категории по имени.
type UpsertCategoryReq struct {
	Name        string
	MaxProducts int
	MinPrice    int64
	MaxPrice    int64
}

// PRODUCT USECASE

// ProductInput — поля продукта для создания и обновления.
type ProductInput struct {
	Name           string
	Description    string
	Price          int64
	Rating         float64
	Category       string
	Tier           string
	Image          string
	AdditionalInfo string
	Review         string
}

// ImportRecord — плоская запись массового импорта. Числовые поля приходят текстом.
type ImportRecord struct {
	Name           string
	Description    string
	Price          string
	Rating         string
	Category       string
	Tier           string
	Image          string
	AdditionalInfo string
	Review         string
}

// ProductImage представляет изображение, загруженное через multipart/form-data.
type ProductImage struct {
	Data     []byte // байты изображения
	MimeType string // Content-Type, определённый по содержимому (image/jpeg)
	Size     int64  // фактический размер в байтах
	Name     string // оригинальное имя файла (для логов)
}

// GetProductsReq запрос информации о продуктах по их идентификаторам.
type GetProductsReq struct {
	IDs []string
}

// GetProductsRes — ответ с данными запрошенных продуктов.
type GetProductsRes struct {
	Products         []domain.Product
	NotFoundProducts []string
}

type BulkCreateRes struct {
	Created int64
}

type AdjustPricesRes struct {
	Updated int
}

// GENERATOR USECASE

type GenerateReq struct {
	Count   int
	Replace bool
}

type GenerateRes struct {
	Products []domain.Product
	Removed  int
}

// INFRASTRUCTURE

type WriteRawMessageReq struct {
	Key     string
	Payload []byte
}

// UploadImageReq — запрос на загрузку изображения продукта.
type UploadImageReq struct {
	ProductID string
	Image     ProductImage
}

// UploadImageRes — ключ объекта в MinIO и публичный адрес.
type UploadImageRes struct {
	Key string
	URL string
}

// OUTBOX

type OutboxStatus string

const (
	Pending    OutboxStatus = "pending"
	Processing OutboxStatus = "processing"
	Processed  OutboxStatus = "processed"
)

type OutboxEventType string

const (
	ProductCreated        OutboxEventType = "product.created"
	ProductUpdated        OutboxEventType = "product.updated"
	ProductDeleted        OutboxEventType = "product.deleted"
	ProductsImported      OutboxEventType = "products.imported"
	ProductsGenerated     OutboxEventType = "products.generated"
	ProductsPurged        OutboxEventType = "products.purged"
	ProductsPriceAdjusted OutboxEventType = "products.prices_adjusted"
)

// OutboxEvent — событие, ожидающее публикации в Kafka.
type OutboxEvent struct {
	ID          int64
	EventID     string
	EventType   OutboxEventType
	Payload     []byte
	Status      OutboxStatus
	CreatedAt   time.Time
	ProcessedAt *time.Time
}

// ProductChangeEvent — тело сообщения об изменении продуктов.
type ProductChangeEvent struct {
	EventID    string          `json:"event_id"`
	EventType  OutboxEventType `json:"event_type"`
	ProductIDs []string        `json:"product_ids"`
	OccurredAt time.Time       `json:"occurred_at"`
}

// MAPPERS

func NewGetProductsRes(pr []domain.Product, notFoundProducts []string) *GetProductsRes {
	return &GetProductsRes{
		Products:         pr,
		NotFoundProducts: notFoundProducts,
	}
}

func NewGetProductsReq(ids []string) *GetProductsReq {
	return &GetProductsReq{ids}
}

func NewProductImage(data []byte, mimeType string, size int64, name string) *ProductImage {
	return &ProductImage{
		Data:     data,
		MimeType: mimeType,
		Size:     size,
		Name:     name,
	}
}

func NewUploadImageReq(productID string, image ProductImage) *UploadImageReq {
	return &UploadImageReq{
		ProductID: productID,
		Image:     image,
	}
}

func NewUploadImageRes(key, url string) *UploadImageRes {
	return &UploadImageRes{
		Key: key,
		URL: url,
	}
}

func NewWriteRawMessageReq(key string, payload []byte) *WriteRawMessageReq {
	return &WriteRawMessageReq{
		Key:     key,
		Payload: payload,
	}
}

func (r *ProductInput) toDomain() *domain.Product {
	return &domain.Product{
		Name:           r.Name,
		Description:    r.Description,
		Price:          r.Price,
		Rating:         r.Rating,
		CategoryName:   r.Category,
		Tier:           r.Tier,
		Image:          r.Image,
		AdditionalInfo: r.AdditionalInfo,
		Review:         r.Review,
	}
}

func (r *UpsertCategoryReq) toDomain() *domain.Category {
	return domain.NewCategory(r.Name, r.MaxProducts, r.MinPrice, r.MaxPrice)
}
