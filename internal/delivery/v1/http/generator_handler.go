package http

import (
	"net/http"

	"github.com/DRSN-tech/catalog-backend/internal/usecase"
	"github.com/DRSN-tech/catalog-backend/pkg/logger"
)

type GeneratorHandler struct {
	generatorUsecase usecase.GeneratorUC
	logger           logger.Logger
}

func NewGeneratorHandler(generatorUsecase usecase.GeneratorUC, logger logger.Logger) *GeneratorHandler {
	return &GeneratorHandler{generatorUsecase: generatorUsecase, logger: logger}
}

// generateProducts
//
//	@Summary		Генерация демо-продуктов
//	@Description	Цены попадают в диапазон случайно выбранной категории. replace=true сначала удаляет все продукты
//	@Tags			generator
//	@Accept			json
//	@Produce		json
//	@Param			request	body		generateRequest	false	"Параметры (count по умолчанию 10)"
//	@Success		201		{object}	generateResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		422		{object}	ErrorResponse	"Нет ни одной категории"
//	@Router			/generate-products [post]
func (g *GeneratorHandler) generateProducts(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := decodeJSON(r, &req, true); err != nil {
		respondError(w, r, g.logger, err)
		return
	}

	res, err := g.generatorUsecase.Generate(r.Context(), &usecase.GenerateReq{
		Count:   req.Count,
		Replace: req.Replace,
	})
	if err != nil {
		respondError(w, r, g.logger, err)
		return
	}

	WriteSuccess(w, http.StatusCreated, generateResponse{
		Products: newProductResponses(res.Products),
		Removed:  res.Removed,
	})
}
