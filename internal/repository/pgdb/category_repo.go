package pgdb

import (
	"context"

	"github.com/DRSN-tech/catalog-backend/internal/domain"
	"github.com/DRSN-tech/catalog-backend/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/catalog-backend/pkg/e"
	"github.com/DRSN-tech/catalog-backend/pkg/tr"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
)

const categoryColumns = `id, name, max_products, min_price, max_price, created_at, updated_at`

// CategoryRepo реализует репозиторий категорий поверх PostgreSQL.
type CategoryRepo struct {
	pool *pgxpool.Pool
	conv converter.CategoryConverter
}

func NewCategoryRepo(pool *pgxpool.Pool, conv converter.CategoryConverter) *CategoryRepo {
	return &CategoryRepo{pool: pool, conv: conv}
}

// List возвращает все категории, упорядоченные по имени.
func (c *CategoryRepo) List(ctx context.Context) ([]domain.Category, error) {
	q := tr.QuerierFromCtx(ctx, c.pool)

	rows, err := q.Query(ctx, `SELECT `+categoryColumns+` FROM categories ORDER BY name`)
	if err != nil {
		return nil, e.Upstream(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	result := make([]domain.Category, 0)
	for rows.Next() {
		var model converter.CategoryModel
		if err := rows.Scan(
			&model.ID, &model.Name, &model.MaxProducts, &model.MinPrice, &model.MaxPrice,
			&model.CreatedAt, &model.UpdatedAt,
		); err != nil {
			return nil, e.Upstream(whereami.WhereAmI(), err)
		}

		result = append(result, *c.conv.ToEntity(&model))
	}

	if err := rows.Err(); err != nil {
		return nil, e.Upstream(whereami.WhereAmI(), err)
	}

	return result, nil
}

func (c *CategoryRepo) GetByName(ctx context.Context, name string) (*domain.Category, error) {
	q := tr.QuerierFromCtx(ctx, c.pool)

	var model converter.CategoryModel
	err := q.QueryRow(ctx, `SELECT `+categoryColumns+` FROM categories WHERE name = $1`, name).
		Scan(
			&model.ID, &model.Name, &model.MaxProducts, &model.MinPrice, &model.MaxPrice,
			&model.CreatedAt, &model.UpdatedAt,
		)
	if err != nil {
		return nil, mapError(whereami.WhereAmI(), err, e.ErrCategoryNotFound)
	}

	return c.conv.ToEntity(&model), nil
}

// Upsert создаёт категорию или обновляет лимит и диапазон цен существующей категории с тем же именем.
func (c *CategoryRepo) Upsert(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	q := tr.QuerierFromCtx(ctx, c.pool)

	// VALUES ($1, $2, $3, $4) name, max_products, min_price, max_price
	query := `
		INSERT INTO categories (name, max_products, min_price, max_price)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (name)
		DO UPDATE SET
			max_products = EXCLUDED.max_products,
			min_price = EXCLUDED.min_price,
			max_price = EXCLUDED.max_price,
			updated_at = NOW()
		RETURNING ` + categoryColumns

	m := c.conv.ToModel(category)
	var model converter.CategoryModel
	if err := q.QueryRow(ctx, query, m.Name, m.MaxProducts, m.MinPrice, m.MaxPrice).
		Scan(
			&model.ID, &model.Name, &model.MaxProducts, &model.MinPrice, &model.MaxPrice,
			&model.CreatedAt, &model.UpdatedAt,
		); err != nil {
		return nil, e.Upstream(whereami.WhereAmI(), err)
	}

	return c.conv.ToEntity(&model), nil
}

// Delete удаляет категорию по имени. Категория, на которую ссылаются продукты, не удаляется.
func (c *CategoryRepo) Delete(ctx context.Context, name string) error {
	q := tr.QuerierFromCtx(ctx, c.pool)

	tag, err := q.Exec(ctx, `DELETE FROM categories WHERE name = $1`, name)
	if err != nil {
		if postgresForeignKey(err) {
			return e.Wrap(whereami.WhereAmI(), e.ErrCategoryInUse)
		}
		return e.Upstream(whereami.WhereAmI(), err)
	}

	if tag.RowsAffected() == 0 {
		return e.Wrap(whereami.WhereAmI(), e.ErrCategoryNotFound)
	}

	return nil
}
