package http

import (
	"context"

	"github.com/DRSN-tech/catalog-backend/internal/domain"
	"github.com/DRSN-tech/catalog-backend/internal/usecase"
	"github.com/shopspring/decimal"
)

type fakeProductUC struct {
	products []domain.Product
	err      error

	lastInput     *usecase.ProductInput
	lastID        string
	lastSelection domain.Selection
	lastRecords   []usecase.ImportRecord
	lastPercent   decimal.Decimal
	lastImage     usecase.ProductImage
}

func (f *fakeProductUC) List(context.Context) ([]domain.Product, error) {
	return f.products, f.err
}

func (f *fakeProductUC) Storefront(_ context.Context, sel domain.Selection) ([]domain.Product, error) {
	f.lastSelection = sel
	return f.products, f.err
}

func (f *fakeProductUC) Get(_ context.Context, id string) (*domain.Product, error) {
	f.lastID = id
	if f.err != nil {
		return nil, f.err
	}
	return &f.products[0], nil
}

func (f *fakeProductUC) GetProducts(_ context.Context, req *usecase.GetProductsReq) (*usecase.GetProductsRes, error) {
	if f.err != nil {
		return nil, f.err
	}
	return usecase.NewGetProductsRes(f.products, req.IDs[len(f.products):]), nil
}

func (f *fakeProductUC) Create(_ context.Context, req *usecase.ProductInput) (*domain.Product, error) {
	f.lastInput = req
	if f.err != nil {
		return nil, f.err
	}
	return &f.products[0], nil
}

func (f *fakeProductUC) Update(_ context.Context, id string, req *usecase.ProductInput) (*domain.Product, error) {
	f.lastID, f.lastInput = id, req
	if f.err != nil {
		return nil, f.err
	}
	return &f.products[0], nil
}

func (f *fakeProductUC) Delete(_ context.Context, id string) error {
	f.lastID = id
	return f.err
}

func (f *fakeProductUC) BulkCreate(_ context.Context, records []usecase.ImportRecord) (*usecase.BulkCreateRes, error) {
	f.lastRecords = records
	if f.err != nil {
		return nil, f.err
	}
	return &usecase.BulkCreateRes{Created: int64(len(records))}, nil
}

func (f *fakeProductUC) AdjustPrices(_ context.Context, percent decimal.Decimal) (*usecase.AdjustPricesRes, error) {
	f.lastPercent = percent
	if f.err != nil {
		return nil, f.err
	}
	return &usecase.AdjustPricesRes{Updated: len(f.products)}, nil
}

func (f *fakeProductUC) SetImage(_ context.Context, id string, image usecase.ProductImage) (*domain.Product, error) {
	f.lastID, f.lastImage = id, image
	if f.err != nil {
		return nil, f.err
	}
	return &f.products[0], nil
}

func (f *fakeProductUC) Count(context.Context) (int64, error) {
	return int64(len(f.products)), f.err
}

type fakeCategoryUC struct {
	categories []domain.Category
	err        error

	lastName string
	lastReqs []usecase.UpsertCategoryReq
}

func (f *fakeCategoryUC) List(context.Context) ([]domain.Category, error) {
	return f.categories, f.err
}

func (f *fakeCategoryUC) Get(_ context.Context, name string) (*domain.Category, error) {
	f.lastName = name
	if f.err != nil {
		return nil, f.err
	}
	return &f.categories[0], nil
}

func (f *fakeCategoryUC) Upsert(_ context.Context, req *usecase.UpsertCategoryReq) (*domain.Category, error) {
	f.lastReqs = []usecase.UpsertCategoryReq{*req}
	if f.err != nil {
		return nil, f.err
	}
	return domain.NewCategory(req.Name, req.MaxProducts, req.MinPrice, req.MaxPrice), nil
}

func (f *fakeCategoryUC) UpsertMany(_ context.Context, reqs []usecase.UpsertCategoryReq) ([]domain.Category, error) {
	f.lastReqs = reqs
	if f.err != nil {
		return nil, f.err
	}
	res := make([]domain.Category, 0, len(reqs))
	for _, r := range reqs {
		res = append(res, *domain.NewCategory(r.Name, r.MaxProducts, r.MinPrice, r.MaxPrice))
	}
	return res, nil
}

func (f *fakeCategoryUC) Delete(_ context.Context, name string) error {
	f.lastName = name
	return f.err
}

type fakeGeneratorUC struct {
	res     *usecase.GenerateRes
	err     error
	lastReq *usecase.GenerateReq
}

func (f *fakeGeneratorUC) Generate(_ context.Context, req *usecase.GenerateReq) (*usecase.GenerateRes, error) {
	f.lastReq = req
	return f.res, f.err
}

type fakePinger struct {
	err error
}

func (f fakePinger) Ping(context.Context) error {
	return f.err
}
