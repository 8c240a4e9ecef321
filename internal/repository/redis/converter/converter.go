package converter

import (
	"github.com/DRSN-tech/catalog-backend/internal/domain"
)

type ProductConverter interface {
	ToRedisModel(entity *domain.Product) *ProductRedisModel
	ToDomain(model *ProductRedisModel) *domain.Product
	ToArrRedisModel(entities []domain.Product) []ProductRedisModel
}

type ProductConverterImpl struct{}

func (ProductConverterImpl) ToRedisModel(entity *domain.Product) *ProductRedisModel {
	if entity == nil {
		return nil
	}

	return &ProductRedisModel{
		ID:             entity.ID,
		Name:           entity.Name,
		Description:    entity.Description,
		Price:          entity.Price,
		Rating:         entity.Rating,
		CategoryName:   entity.CategoryName,
		Tier:           entity.Tier,
		Image:          entity.Image,
		AdditionalInfo: entity.AdditionalInfo,
		Review:         entity.Review,
		CreatedAt:      entity.CreatedAt,
		UpdatedAt:      entity.UpdatedAt,
	}
}

func (ProductConverterImpl) ToDomain(model *ProductRedisModel) *domain.Product {
	if model == nil {
		return nil
	}

	return &domain.Product{
		ID:             model.ID,
		Name:           model.Name,
		Description:    model.Description,
		Price:          model.Price,
		Rating:         model.Rating,
		CategoryName:   model.CategoryName,
		Tier:           model.Tier,
		Image:          model.Image,
		AdditionalInfo: model.AdditionalInfo,
		Review:         model.Review,
		CreatedAt:      model.CreatedAt,
		UpdatedAt:      model.UpdatedAt,
	}
}

func (c ProductConverterImpl) ToArrRedisModel(entities []domain.Product) []ProductRedisModel {
	out := make([]ProductRedisModel, 0, len(entities))
	for i := range entities {
		out = append(out, *c.ToRedisModel(&entities[i]))
	}
	return out
}
