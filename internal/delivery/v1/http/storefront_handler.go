package http

import (
	"net/http"

	"github.com/DRSN-tech/catalog-backend/internal/domain"
	"github.com/DRSN-tech/catalog-backend/internal/usecase"
	"github.com/DRSN-tech/catalog-backend/pkg/e"
	"github.com/DRSN-tech/catalog-backend/pkg/logger"
	"github.com/DRSN-tech/catalog-backend/pkg/money"
)

type StorefrontHandler struct {
	productUsecase usecase.ProductUC
	logger         logger.Logger
}

func NewStorefrontHandler(productUsecase usecase.ProductUC, logger logger.Logger) *StorefrontHandler {
	return &StorefrontHandler{productUsecase: productUsecase, logger: logger}
}

// listStorefront
//
//	@Summary		Витрина
//	@Description	Продукты выбранной категории в диапазоне цен, не больше лимита категории
//	@Tags			storefront
//	@Produce		json
//	@Param			category	query		string	false	"Категория или All"	default(All)
//	@Param			min_price	query		number	false	"Нижняя граница цены"
//	@Param			max_price	query		number	false	"Верхняя граница цены"
//	@Success		200			{array}		productResponse
//	@Failure		400			{object}	ErrorResponse
//	@Router			/storefront/products [get]
func (s *StorefrontHandler) listStorefront(w http.ResponseWriter, r *http.Request) {
	sel, err := parseSelection(r)
	if err != nil {
		respondError(w, r, s.logger, err)
		return
	}

	products, err := s.productUsecase.Storefront(r.Context(), sel)
	if err != nil {
		respondError(w, r, s.logger, err)
		return
	}

	WriteSuccess(w, http.StatusOK, newProductResponses(products))
}

func parseSelection(r *http.Request) (domain.Selection, error) {
	q := r.URL.Query()

	minPrice, err := priceParam(q.Get("min_price"), 0)
	if err != nil {
		return domain.Selection{}, e.InvalidWrap("min_price", err)
	}

	maxPrice, err := priceParam(q.Get("max_price"), domain.NoUpperBound)
	if err != nil {
		return domain.Selection{}, e.InvalidWrap("max_price", err)
	}

	return domain.NewSelection(q.Get("category"), minPrice, maxPrice), nil
}

func priceParam(raw string, absent int64) (int64, error) {
	if raw == "" {
		return absent, nil
	}
	return money.ParseCents(raw)
}
