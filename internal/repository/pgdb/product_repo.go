package pgdb

import (
	"context"

	"github.com/DRSN-tech/catalog-backend/internal/domain"
	"github.com/DRSN-tech/catalog-backend/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/catalog-backend/pkg/e"
	"github.com/DRSN-tech/catalog-backend/pkg/money"
	"github.com/DRSN-tech/catalog-backend/pkg/tr"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
	"github.com/shopspring/decimal"
)

const productColumns = `id, name, description, price, rating, category_name, tier, image,
	additional_info, review, created_at, updated_at`

// ProductRepo реализует репозиторий продуктов поверх PostgreSQL.
type ProductRepo struct {
	pool *pgxpool.Pool
	conv converter.ProductConverter
}

func NewProductRepo(pool *pgxpool.Pool, conv converter.ProductConverter) *ProductRepo {
	return &ProductRepo{
		pool: pool,
		conv: conv,
	}
}

func scanProduct(row pgx.Row, model *converter.ProductModel) error {
	return row.Scan(
		&model.ID, &model.Name, &model.Description, &model.Price, &model.Rating,
		&model.CategoryName, &model.Tier, &model.Image, &model.AdditionalInfo, &model.Review,
		&model.CreatedAt, &model.UpdatedAt,
	)
}

func (p *ProductRepo) collect(rows pgx.Rows) ([]domain.Product, error) {
	defer rows.Close()

	result := make([]domain.Product, 0)
	for rows.Next() {
		var model converter.ProductModel
		if err := scanProduct(rows, &model); err != nil {
			return nil, e.Upstream(whereami.WhereAmI(), err)
		}

		result = append(result, *p.conv.ToEntity(&model))
	}

	if err := rows.Err(); err != nil {
		return nil, e.Upstream(whereami.WhereAmI(), err)
	}

	return result, nil
}

// List возвращает все продукты, новые первыми.
func (p *ProductRepo) List(ctx context.Context) ([]domain.Product, error) {
	q := tr.QuerierFromCtx(ctx, p.pool)

	rows, err := q.Query(ctx, `SELECT `+productColumns+` FROM products ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, e.Upstream(whereami.WhereAmI(), err)
	}

	return p.collect(rows)
}

// GetByIDs возвращает найденные продукты по их идентификаторам.
func (p *ProductRepo) GetByIDs(ctx context.Context, ids []string) ([]domain.Product, error) {
	q := tr.QuerierFromCtx(ctx, p.pool)

	rows, err := q.Query(ctx, `SELECT `+productColumns+` FROM products WHERE id = ANY($1::uuid[])`, ids)
	if err != nil {
		return nil, e.Upstream(whereami.WhereAmI(), err)
	}

	return p.collect(rows)
}

func (p *ProductRepo) Create(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	q := tr.QuerierFromCtx(ctx, p.pool)

	query := `
		INSERT INTO products (id, name, description, price, rating, category_name, tier, image, additional_info, review)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + productColumns

	m := p.conv.ToModel(product)
	var model converter.ProductModel
	err := scanProduct(q.QueryRow(ctx, query,
		m.ID, m.Name, m.Description, m.Price, m.Rating,
		m.CategoryName, m.Tier, m.Image, m.AdditionalInfo, m.Review,
	), &model)
	if err != nil {
		return nil, mapError(whereami.WhereAmI(), err, nil)
	}

	return p.conv.ToEntity(&model), nil
}

// CreateMany вставляет продукты одной командой COPY.
func (p *ProductRepo) CreateMany(ctx context.Context, products []domain.Product) (int64, error) {
	q := tr.QuerierFromCtx(ctx, p.pool)

	columns := []string{
		"id", "name", "description", "price", "rating", "category_name",
		"tier", "image", "additional_info", "review",
	}

	n, err := q.CopyFrom(ctx, pgx.Identifier{"products"}, columns,
		pgx.CopyFromSlice(len(products), func(i int) ([]any, error) {
			m := p.conv.ToModel(&products[i])
			id, err := uuid.Parse(m.ID)
			if err != nil {
				return nil, err
			}
			return []any{
				id, m.Name, m.Description, m.Price, m.Rating, m.CategoryName,
				m.Tier, m.Image, m.AdditionalInfo, m.Review,
			}, nil
		}),
	)
	if err != nil {
		return 0, mapError(whereami.WhereAmI(), err, nil)
	}

	return n, nil
}

// Update заменяет все изменяемые поля продукта.
func (p *ProductRepo) Update(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	q := tr.QuerierFromCtx(ctx, p.pool)

	query := `
		UPDATE products SET
			name = $2,
			description = $3,
			price = $4,
			rating = $5,
			category_name = $6,
			tier = $7,
			image = $8,
			additional_info = $9,
			review = $10,
			updated_at = NOW()
		WHERE id = $1
		RETURNING ` + productColumns

	m := p.conv.ToModel(product)
	var model converter.ProductModel
	err := scanProduct(q.QueryRow(ctx, query,
		m.ID, m.Name, m.Description, m.Price, m.Rating,
		m.CategoryName, m.Tier, m.Image, m.AdditionalInfo, m.Review,
	), &model)
	if err != nil {
		return nil, mapError(whereami.WhereAmI(), err, e.ErrProductNotFound)
	}

	return p.conv.ToEntity(&model), nil
}

func (p *ProductRepo) SetImage(ctx context.Context, id string, image string) (*domain.Product, error) {
	q := tr.QuerierFromCtx(ctx, p.pool)

	query := `UPDATE products SET image = $2, updated_at = NOW() WHERE id = $1 RETURNING ` + productColumns

	var model converter.ProductModel
	if err := scanProduct(q.QueryRow(ctx, query, id, image), &model); err != nil {
		return nil, mapError(whereami.WhereAmI(), err, e.ErrProductNotFound)
	}

	return p.conv.ToEntity(&model), nil
}

func (p *ProductRepo) Delete(ctx context.Context, id string) error {
	q := tr.QuerierFromCtx(ctx, p.pool)

	tag, err := q.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return e.Upstream(whereami.WhereAmI(), err)
	}

	if tag.RowsAffected() == 0 {
		return e.Wrap(whereami.WhereAmI(), e.ErrProductNotFound)
	}

	return nil
}

// DeleteAll удаляет все продукты и возвращает их идентификаторы.
func (p *ProductRepo) DeleteAll(ctx context.Context) ([]string, error) {
	q := tr.QuerierFromCtx(ctx, p.pool)

	rows, err := q.Query(ctx, `DELETE FROM products RETURNING id`)
	if err != nil {
		return nil, e.Upstream(whereami.WhereAmI(), err)
	}

	return collectIDs(rows)
}

// AdjustPrices умножает цены всех продуктов на (1 + percent/100) с округлением до копейки.
func (p *ProductRepo) AdjustPrices(ctx context.Context, percent decimal.Decimal) ([]string, error) {
	q := tr.QuerierFromCtx(ctx, p.pool)

	rows, err := q.Query(ctx, `
		UPDATE products
		SET price = ROUND(price * $1::numeric)::bigint, updated_at = NOW()
		RETURNING id
	`, money.PercentFactor(percent).String())
	if err != nil {
		return nil, e.Upstream(whereami.WhereAmI(), err)
	}

	return collectIDs(rows)
}

// MaxPrice возвращает наибольшую цену среди продуктов, блокируя строки до конца транзакции.
func (p *ProductRepo) MaxPrice(ctx context.Context) (int64, error) {
	q := tr.QuerierFromCtx(ctx, p.pool)

	var maxPrice int64
	if err := q.QueryRow(ctx, `
		SELECT COALESCE(MAX(price), 0) FROM (
			SELECT price FROM products FOR UPDATE
		) locked
	`).Scan(&maxPrice); err != nil {
		return 0, e.Upstream(whereami.WhereAmI(), err)
	}

	return maxPrice, nil
}

func (p *ProductRepo) Count(ctx context.Context) (int64, error) {
	q := tr.QuerierFromCtx(ctx, p.pool)

	var count int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM products`).Scan(&count); err != nil {
		return 0, e.Upstream(whereami.WhereAmI(), err)
	}

	return count, nil
}

func (p *ProductRepo) CountByCategory(ctx context.Context, category string) (int64, error) {
	q := tr.QuerierFromCtx(ctx, p.pool)

	var count int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM products WHERE category_name = $1`, category).Scan(&count); err != nil {
		return 0, e.Upstream(whereami.WhereAmI(), err)
	}

	return count, nil
}

func collectIDs(rows pgx.Rows) ([]string, error) {
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, e.Upstream(whereami.WhereAmI(), err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, e.Upstream(whereami.WhereAmI(), err)
	}

	return ids, nil
}
