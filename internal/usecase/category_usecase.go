package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/DRSN-tech/catalog-backend/internal/domain"
	"github.com/DRSN-tech/catalog-backend/pkg/e"
	"github.com/DRSN-tech/catalog-backend/pkg/logger"
)

// CategoryUseCase управляет реестром категорий.
type CategoryUseCase struct {
	categoryRepo CategoryRepository
	productRepo  ProductRepository
	txManager    TxManager
	logger       logger.Logger
}

func NewCategoryUC(
	categoryRepo CategoryRepository,
	productRepo ProductRepository,
	txManager TxManager,
	logger logger.Logger,
) *CategoryUseCase {
	return &CategoryUseCase{
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
		txManager:    txManager,
		logger:       logger,
	}
}

// List возвращает все категории, отсортированные по имени.
func (c *CategoryUseCase) List(ctx context.Context) ([]domain.Category, error) {
	const op = "CategoryUseCase.List"

	categories, err := c.categoryRepo.List(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return categories, nil
}

func (c *CategoryUseCase) Get(ctx context.Context, name string) (*domain.Category, error) {
	const op = "CategoryUseCase.Get"

	category, err := c.categoryRepo.GetByName(ctx, name)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return category, nil
}

// Upsert создаёт категорию или обновляет существующую с тем же именем.
func (c *CategoryUseCase) Upsert(ctx context.Context, req *UpsertCategoryReq) (*domain.Category, error) {
	const op = "CategoryUseCase.Upsert"

	category := req.toDomain()
	if err := category.Validate(); err != nil {
		return nil, e.Wrap(op, err)
	}

	saved, err := c.categoryRepo.Upsert(ctx, category)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	c.logger.Infof("category upserted: %s", saved.Name)
	return saved, nil
}

// UpsertMany применяет набор категорий в одной транзакции. Одна некорректная запись отклоняет весь набор.
func (c *CategoryUseCase) UpsertMany(ctx context.Context, reqs []UpsertCategoryReq) ([]domain.Category, error) {
	const op = "CategoryUseCase.UpsertMany"

	if len(reqs) == 0 {
		return nil, e.Wrap(op, e.Invalid("categories", "must not be empty"))
	}

	categories := make([]*domain.Category, 0, len(reqs))
	for i := range reqs {
		category := reqs[i].toDomain()
		if err := category.Validate(); err != nil {
			v, _ := e.AsValidation(err)
			return nil, e.Wrap(op, e.Invalid(fmt.Sprintf("%s.%s", category.Name, v.Field), "%s", v.Message))
		}
		categories = append(categories, category)
	}

	saved := make([]domain.Category, 0, len(categories))
	err := c.txManager.Do(ctx, func(ctx context.Context) error {
		for _, category := range categories {
			res, err := c.categoryRepo.Upsert(ctx, category)
			if err != nil {
				return err
			}
			saved = append(saved, *res)
		}
		return nil
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	c.logger.Infof("categories upserted: %d", len(saved))
	return saved, nil
}

// Delete удаляет категорию. Если на неё ссылаются продукты, возвращается ошибка конфликта.
func (c *CategoryUseCase) Delete(ctx context.Context, name string) error {
	const op = "CategoryUseCase.Delete"

	err := c.txManager.Do(ctx, func(ctx context.Context) error {
		if _, err := c.categoryRepo.GetByName(ctx, name); err != nil {
			return err
		}

		count, err := c.productRepo.CountByCategory(ctx, name)
		if err != nil {
			return err
		}
		if count > 0 {
			return fmt.Errorf("%d product(s) in %q: %w", count, name, e.ErrCategoryInUse)
		}

		return c.categoryRepo.Delete(ctx, name)
	})
	if err != nil {
		if !errors.Is(err, e.ErrNotFound) && !errors.Is(err, e.ErrConflict) {
			c.logger.Errorf(err, "%s: failed to delete category %q", op, name)
		}
		return e.Wrap(op, err)
	}

	c.logger.Infof("category deleted: %s", name)
	return nil
}
