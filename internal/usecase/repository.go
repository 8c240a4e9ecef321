package usecase

import (
	"context"
	"time"

	"github.com/DRSN-tech/catalog-backend/internal/domain"
	"github.com/shopspring/decimal"
)

type ProductRepository interface {
	List(ctx context.Context) ([]domain.Product, error)
	GetByIDs(ctx context.Context, ids []string) ([]domain.Product, error)
	Create(ctx context.Context, product *domain.Product) (*domain.Product, error)
	CreateMany(ctx context.Context, products []domain.Product) (int64, error)
	Update(ctx context.Context, product *domain.Product) (*domain.Product, error)
	SetImage(ctx context.Context, id string, image string) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
	DeleteAll(ctx context.Context) ([]string, error)
	AdjustPrices(ctx context.Context, percent decimal.Decimal) ([]string, error)
	MaxPrice(ctx context.Context) (int64, error)
	Count(ctx context.Context) (int64, error)
	CountByCategory(ctx context.Context, category string) (int64, error)
}

type CategoryRepository interface {
	List(ctx context.Context) ([]domain.Category, error)
	GetByName(ctx context.Context, name string) (*domain.Category, error)
	Upsert(ctx context.Context, category *domain.Category) (*domain.Category, error)
	Delete(ctx context.Context, name string) error
}

type OutboxRepository interface {
	Create(ctx context.Context, event *OutboxEvent) (*OutboxEvent, error)
	// GetAndMarkAsProcessing забирает ожидающие события, а также события, застрявшие
	// в обработке дольше staleAfter.
	GetAndMarkAsProcessing(ctx context.Context, limit int, staleAfter time.Duration) ([]*OutboxEvent, error)
	MarkAsProcessed(ctx context.Context, id int64) error
	MarkAsPending(ctx context.Context, id int64) error
}

type CacheRepository interface {
	GetProducts(ctx context.Context, ids []string) (map[string]domain.Product, error)
	SetProducts(ctx context.Context, products []domain.Product) error
	DeleteProducts(ctx context.Context, ids []string) error
}

type ImageRepository interface {
	Upload(ctx context.Context, image *domain.Image) (string, error)
	Delete(ctx context.Context, key string) error
}

// TxManager выполняет fn в транзакции хранилища.
type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}
