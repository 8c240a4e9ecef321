package usecase

import (
	"context"

	"github.com/DRSN-tech/catalog-backend/internal/domain"
	"github.com/DRSN-tech/catalog-backend/pkg/e"
	"github.com/DRSN-tech/catalog-backend/pkg/logger"
	"github.com/google/uuid"
)

const defaultGenerateCount = 10

// GeneratorUseCase заполняет каталог демонстрационными продуктами.
type GeneratorUseCase struct {
	generator    *domain.Generator
	productRepo  ProductRepository
	categoryRepo CategoryRepository
	outboxRepo   OutboxRepository
	cacheRepo    CacheRepository
	txManager    TxManager
	logger       logger.Logger
	defaultCap   int
}

func NewGeneratorUC(
	generator *domain.Generator,
	productRepo ProductRepository,
	categoryRepo CategoryRepository,
	outboxRepo OutboxRepository,
	cacheRepo CacheRepository,
	txManager TxManager,
	logger logger.Logger,
	defaultCap int,
) *GeneratorUseCase {
	return &GeneratorUseCase{
		generator:    generator,
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		outboxRepo:   outboxRepo,
		cacheRepo:    cacheRepo,
		txManager:    txManager,
		logger:       logger,
		defaultCap:   defaultCap,
	}
}

// Generate создаёт req.Count продуктов по текущему реестру категорий и сохраняет их.
// При req.Replace существующие продукты предварительно удаляются.
func (g *GeneratorUseCase) Generate(ctx context.Context, req *GenerateReq) (*GenerateRes, error) {
	const op = "GeneratorUseCase.Generate"

	count := req.Count
	if count == 0 {
		count = defaultGenerateCount
	}

	categories, err := g.categoryRepo.List(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	products, err := g.generator.Generate(domain.NewRegistry(categories, g.defaultCap), count)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	for i := range products {
		products[i].ID = uuid.NewString()
	}

	var removed []string
	err = g.txManager.Do(ctx, func(ctx context.Context) error {
		if req.Replace {
			var err error
			removed, err = g.productRepo.DeleteAll(ctx)
			if err != nil {
				return err
			}

			if err := recordEvent(ctx, g.outboxRepo, ProductsPurged, removed); err != nil {
				return err
			}
		}

		if _, err := g.productRepo.CreateMany(ctx, products); err != nil {
			return err
		}

		return recordEvent(ctx, g.outboxRepo, ProductsGenerated, idsOf(products))
	})
	if err != nil {
		g.logger.Errorf(err, "%s: failed to persist %d generated products", op, len(products))
		return nil, e.Wrap(op, err)
	}

	if len(removed) > 0 {
		if err := g.cacheRepo.DeleteProducts(ctx, removed); err != nil {
			g.logger.Warnf("Failed to delete products from cache: %v", err)
		}
	}

	g.logger.Infof("generated %d products across %d categories", len(products), len(categories))
	return &GenerateRes{Products: products, Removed: len(removed)}, nil
}
