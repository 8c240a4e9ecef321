package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/DRSN-tech/catalog-backend/internal/domain"
	"github.com/DRSN-tech/catalog-backend/pkg/e"
	"github.com/DRSN-tech/catalog-backend/pkg/logger"
	"github.com/DRSN-tech/catalog-backend/pkg/money"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CatalogOptions — настройки бизнес-правил каталога.
type CatalogOptions struct {
	// EnforcePriceRange включает проверку цены по диапазону категории при создании и изменении.
	EnforcePriceRange  bool
	DefaultMaxProducts int
	MaxImportRows      int
}

// ProductUseCase реализует бизнес-логику управления продуктами.
type ProductUseCase struct {
	productRepo  ProductRepository
	categoryRepo CategoryRepository
	outboxRepo   OutboxRepository
	cache        *CacheFence
	imagesInfra  ImagesInfra
	txManager    TxManager
	logger       logger.Logger
	opts         CatalogOptions
}

func NewProductUC(
	productRepo ProductRepository,
	categoryRepo CategoryRepository,
	outboxRepo OutboxRepository,
	cacheRepo CacheRepository,
	imagesInfra ImagesInfra,
	txManager TxManager,
	logger logger.Logger,
	opts CatalogOptions,
) *ProductUseCase {
	return &ProductUseCase{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		outboxRepo:   outboxRepo,
		cache:        NewCacheFence(cacheRepo),
		imagesInfra:  imagesInfra,
		txManager:    txManager,
		logger:       logger,
		opts:         opts,
	}
}

// List возвращает все продукты, новые первыми.
func (p *ProductUseCase) List(ctx context.Context) ([]domain.Product, error) {
	const op = "ProductUseCase.List"

	products, err := p.productRepo.List(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return products, nil
}

// Storefront применяет витринный фильтр к актуальному списку продуктов.
// Реестр категорий читается заново на каждый запрос.
func (p *ProductUseCase) Storefront(ctx context.Context, sel domain.Selection) ([]domain.Product, error) {
	const op = "ProductUseCase.Storefront"

	products, err := p.productRepo.List(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	categories, err := p.categoryRepo.List(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return domain.Filter(products, sel, domain.NewRegistry(categories, p.opts.DefaultMaxProducts)), nil
}

// Get возвращает продукт по идентификатору.
func (p *ProductUseCase) Get(ctx context.Context, id string) (*domain.Product, error) {
	const op = "ProductUseCase.Get"

	res, err := p.GetProducts(ctx, NewGetProductsReq([]string{id}))
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	if len(res.Products) == 0 {
		return nil, e.Wrap(op, e.ErrProductNotFound)
	}

	return &res.Products[0], nil
}

// GetProducts возвращает продукты по их идентификаторам, сначала из кэша, затем из БД.
func (p *ProductUseCase) GetProducts(ctx context.Context, req *GetProductsReq) (*GetProductsRes, error) {
	const op = "ProductUseCase.GetProducts"

	// Валидация
	if len(req.IDs) == 0 {
		return nil, e.Wrap(op, e.Invalid("ids", "must not be empty"))
	}

	// ids — канонический вид, requested — написание клиента для списка ненайденных
	ids := make([]string, 0, len(req.IDs))
	requested := make([]string, 0, len(req.IDs))
	notFound := make([]string, 0)
	for _, raw := range req.IDs {
		id, err := canonicalID(raw)
		if err != nil {
			notFound = append(notFound, raw)
			continue
		}
		ids = append(ids, id)
		requested = append(requested, raw)
	}

	if len(ids) == 0 {
		return NewGetProductsRes([]domain.Product{}, notFound), nil
	}

	// Поколение снимается до чтения из БД, иначе фоновое заполнение может перетереть инвалидацию
	gen := p.cache.Generation()

	// Поиск продуктов в кэше
	cached, err := p.cache.GetProducts(ctx, ids)
	if err != nil {
		p.logger.Warnf("Cache read failed, falling back to database: %v", e.Wrap(op, err))
		cached = nil
	}

	var nonCached []string
	for _, id := range ids {
		if _, ok := cached[id]; !ok {
			nonCached = append(nonCached, id)
		}
	}

	// Получение продуктов из БД
	var fromDB []domain.Product
	if len(nonCached) > 0 {
		fromDB, err = p.productRepo.GetByIDs(ctx, nonCached)
		if err != nil {
			return nil, e.Wrap(op, err)
		}

		if len(fromDB) > 0 {
			// Фоновое добавление продуктов в кэш
			go func(products []domain.Product) {
				bgCtx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
				defer cancel()

				stored, err := p.cache.Backfill(bgCtx, gen, products)
				if err != nil {
					p.logger.Warnf("Failed to cache products in background: %v", e.Wrap(op, err))
					return
				}
				if !stored {
					p.logger.Debugf("cache back-fill of %d products skipped: invalidated meanwhile", len(products))
				}
			}(fromDB)
		}
	}

	dbMap := make(map[string]domain.Product, len(fromDB))
	for _, pr := range fromDB {
		dbMap[pr.ID] = pr
	}

	// Формирование результата в порядке запроса
	result := make([]domain.Product, 0, len(ids))
	for i, id := range ids {
		if pr, ok := cached[id]; ok {
			result = append(result, pr)
		} else if pr, ok := dbMap[id]; ok {
			result = append(result, pr)
		} else {
			notFound = append(notFound, requested[i])
		}
	}

	return NewGetProductsRes(result, notFound), nil
}

// Create создаёт продукт в существующей категории.
func (p *ProductUseCase) Create(ctx context.Context, req *ProductInput) (*domain.Product, error) {
	const op = "ProductUseCase.Create"

	product := req.toDomain()
	if err := product.Validate(); err != nil {
		return nil, e.Wrap(op, err)
	}
	product.ID = uuid.NewString()

	var created *domain.Product
	err := p.txManager.Do(ctx, func(ctx context.Context) error {
		if err := p.checkCategory(ctx, product); err != nil {
			return err
		}

		var err error
		created, err = p.productRepo.Create(ctx, product)
		if err != nil {
			return err
		}

		return recordEvent(ctx, p.outboxRepo, ProductCreated, []string{created.ID})
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	p.logger.Debugf("product created: %s", created.ID)
	return created, nil
}

// Update полностью заменяет поля продукта. Последняя запись побеждает.
func (p *ProductUseCase) Update(ctx context.Context, id string, req *ProductInput) (*domain.Product, error) {
	const op = "ProductUseCase.Update"

	id, err := canonicalID(id)
	if err != nil {
		return nil, e.Wrap(op, e.ErrProductNotFound)
	}

	product := req.toDomain()
	if err := product.Validate(); err != nil {
		return nil, e.Wrap(op, err)
	}
	product.ID = id

	var updated *domain.Product
	err = p.txManager.Do(ctx, func(ctx context.Context) error {
		if err := p.checkCategory(ctx, product); err != nil {
			return err
		}

		var err error
		updated, err = p.productRepo.Update(ctx, product)
		if err != nil {
			return err
		}

		return recordEvent(ctx, p.outboxRepo, ProductUpdated, []string{id})
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	p.invalidate(ctx, []string{id})
	return updated, nil
}

func (p *ProductUseCase) Delete(ctx context.Context, id string) error {
	const op = "ProductUseCase.Delete"

	id, err := canonicalID(id)
	if err != nil {
		return e.Wrap(op, e.ErrProductNotFound)
	}

	err = p.txManager.Do(ctx, func(ctx context.Context) error {
		if err := p.productRepo.Delete(ctx, id); err != nil {
			return err
		}

		return recordEvent(ctx, p.outboxRepo, ProductDeleted, []string{id})
	})
	if err != nil {
		return e.Wrap(op, err)
	}

	p.invalidate(ctx, []string{id})
	return nil
}

// BulkCreate импортирует записи целиком: любая некорректная запись отклоняет весь импорт.
func (p *ProductUseCase) BulkCreate(ctx context.Context, records []ImportRecord) (*BulkCreateRes, error) {
	const op = "ProductUseCase.BulkCreate"

	if len(records) == 0 {
		return nil, e.Wrap(op, e.Invalid("products", "must not be empty"))
	}

	if p.opts.MaxImportRows > 0 && len(records) > p.opts.MaxImportRows {
		return nil, e.Wrap(op, e.Invalid("products", "at most %d records per import, got %d", p.opts.MaxImportRows, len(records)))
	}

	categories, err := p.categoryRepo.List(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	registry := domain.NewRegistry(categories, p.opts.DefaultMaxProducts)

	products := make([]domain.Product, 0, len(records))
	for i, rec := range records {
		product, err := p.parseRecord(rec, registry)
		if err != nil {
			v, _ := e.AsValidation(err)
			return nil, e.Wrap(op, e.Invalid(fmt.Sprintf("products[%d].%s", i, v.Field), "%s", v.Message))
		}
		products = append(products, *product)
	}

	var created int64
	err = p.txManager.Do(ctx, func(ctx context.Context) error {
		var err error
		created, err = p.productRepo.CreateMany(ctx, products)
		if err != nil {
			return err
		}

		return recordEvent(ctx, p.outboxRepo, ProductsImported, idsOf(products))
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	p.logger.Infof("bulk import: %d products created", created)
	return &BulkCreateRes{Created: created}, nil
}

// AdjustPrices изменяет цены всех продуктов на percent процентов.
func (p *ProductUseCase) AdjustPrices(ctx context.Context, percent decimal.Decimal) (*AdjustPricesRes, error) {
	const op = "ProductUseCase.AdjustPrices"

	if percent.LessThanOrEqual(decimal.NewFromInt(-100)) {
		return nil, e.Wrap(op, e.Invalid("percent", "must be greater than -100"))
	}

	var ids []string
	err := p.txManager.Do(ctx, func(ctx context.Context) error {
		maxPrice, err := p.productRepo.MaxPrice(ctx)
		if err != nil {
			return err
		}

		if money.ApplyPercent(maxPrice, percent).GreaterThan(decimal.NewFromInt(money.MaxCents)) {
			return e.Invalid("percent", "would raise the highest price above %s", money.Format(money.MaxCents))
		}

		ids, err = p.productRepo.AdjustPrices(ctx, percent)
		if err != nil {
			return err
		}

		return recordEvent(ctx, p.outboxRepo, ProductsPriceAdjusted, ids)
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	p.invalidate(ctx, ids)
	p.logger.Infof("prices adjusted by %s%% for %d products", percent.String(), len(ids))
	return &AdjustPricesRes{Updated: len(ids)}, nil
}

// SetImage загружает изображение продукта в хранилище и сохраняет его адрес.
// При ошибке сохранения загруженный объект удаляется в фоне.
func (p *ProductUseCase) SetImage(ctx context.Context, id string, image ProductImage) (*domain.Product, error) {
	const op = "ProductUseCase.SetImage"

	id, err := canonicalID(id)
	if err != nil {
		return nil, e.Wrap(op, e.ErrProductNotFound)
	}

	existing, err := p.productRepo.GetByIDs(ctx, []string{id})
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	if len(existing) == 0 {
		return nil, e.Wrap(op, e.ErrProductNotFound)
	}

	uploaded, err := p.imagesInfra.UploadImage(ctx, NewUploadImageReq(id, image))
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	var updated *domain.Product
	err = p.txManager.Do(ctx, func(ctx context.Context) error {
		var err error
		updated, err = p.productRepo.SetImage(ctx, id, uploaded.URL)
		if err != nil {
			return err
		}

		return recordEvent(ctx, p.outboxRepo, ProductUpdated, []string{id})
	})
	if err != nil {
		p.logger.Warnf(
			"Cleaning up orphaned image after transaction failure. product_id: %s, error: %v",
			id,
			e.Wrap(op, err),
		)
		p.imagesInfra.CleanupImages([]string{uploaded.Key})
		return nil, e.Wrap(op, err)
	}

	p.invalidate(ctx, []string{id})
	return updated, nil
}

func (p *ProductUseCase) Count(ctx context.Context) (int64, error) {
	const op = "ProductUseCase.Count"

	count, err := p.productRepo.Count(ctx)
	if err != nil {
		return 0, e.Wrap(op, err)
	}

	return count, nil
}

// checkCategory проверяет, что категория продукта существует, и при включённой настройке — диапазон цены.
func (p *ProductUseCase) checkCategory(ctx context.Context, product *domain.Product) error {
	category, err := p.categoryRepo.GetByName(ctx, product.CategoryName)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return e.Invalid("category", "unknown category %q", product.CategoryName)
		}
		return err
	}

	if p.opts.EnforcePriceRange {
		return product.ValidateAgainst(category)
	}

	return nil
}

// parseRecord переводит текстовую запись импорта в продукт.
func (p *ProductUseCase) parseRecord(rec ImportRecord, registry *domain.Registry) (*domain.Product, error) {
	price, err := money.ParseCents(rec.Price)
	if err != nil {
		return nil, e.InvalidWrap("price", err)
	}

	var rating float64
	if s := strings.TrimSpace(rec.Rating); s != "" {
		rating, err = strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, e.Invalid("rating", "not a number: %q", s)
		}
	}

	product := &domain.Product{
		ID:             uuid.NewString(),
		Name:           strings.TrimSpace(rec.Name),
		Description:    rec.Description,
		Price:          price,
		Rating:         rating,
		CategoryName:   strings.TrimSpace(rec.Category),
		Tier:           strings.TrimSpace(rec.Tier),
		Image:          strings.TrimSpace(rec.Image),
		AdditionalInfo: rec.AdditionalInfo,
		Review:         rec.Review,
	}

	if err := product.Validate(); err != nil {
		return nil, err
	}

	category, ok := registry.Get(product.CategoryName)
	if !ok {
		return nil, e.Invalid("category", "unknown category %q", product.CategoryName)
	}

	if p.opts.EnforcePriceRange {
		if err := product.ValidateAgainst(&category); err != nil {
			return nil, err
		}
	}

	return product, nil
}

// invalidate удаляет из кэша устаревшие данные продуктов.
func (p *ProductUseCase) invalidate(ctx context.Context, ids []string) {
	if len(ids) == 0 {
		return
	}

	if err := p.cache.DeleteProducts(ctx, ids); err != nil {
		p.logger.Warnf("Failed to delete products from cache: %v", err)
	}
}

// canonicalID приводит идентификатор к виду, который возвращает PostgreSQL для uuid:
// нижний регистр без фигурных скобок и префикса urn:uuid:.
func canonicalID(id string) (string, error) {
	u, err := uuid.Parse(id)
	if err != nil {
		return "", err
	}
	return u.String(), nil
}
