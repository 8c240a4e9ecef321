package usecase

import (
	"context"

	"github.com/DRSN-tech/catalog-backend/internal/domain"
	"github.com/shopspring/decimal"
)

type CategoryUC interface {
	List(ctx context.Context) ([]domain.Category, error)
	Get(ctx context.Context, name string) (*domain.Category, error)
	Upsert(ctx context.Context, req *UpsertCategoryReq) (*domain.Category, error)
	UpsertMany(ctx context.Context, reqs []UpsertCategoryReq) ([]domain.Category, error)
	Delete(ctx context.Context, name string) error
}

type ProductUC interface {
	List(ctx context.Context) ([]domain.Product, error)
	Storefront(ctx context.Context, sel domain.Selection) ([]domain.Product, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
	GetProducts(ctx context.Context, req *GetProductsReq) (*GetProductsRes, error)
	Create(ctx context.Context, req *ProductInput) (*domain.Product, error)
	Update(ctx context.Context, id string, req *ProductInput) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
	BulkCreate(ctx context.Context, records []ImportRecord) (*BulkCreateRes, error)
	AdjustPrices(ctx context.Context, percent decimal.Decimal) (*AdjustPricesRes, error)
	SetImage(ctx context.Context, id string, image ProductImage) (*domain.Product, error)
	Count(ctx context.Context) (int64, error)
}

type GeneratorUC interface {
	Generate(ctx context.Context, req *GenerateReq) (*GenerateRes, error)
}
