package http

import (
	"fmt"
	"net/http"

	"github.com/DRSN-tech/catalog-backend/internal/infrastructure/importer"
	"github.com/DRSN-tech/catalog-backend/internal/usecase"
	"github.com/DRSN-tech/catalog-backend/pkg/e"
	"github.com/DRSN-tech/catalog-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

// defaultPriceAdjustment — процент изменения цен, если тело запроса пустое.
var defaultPriceAdjustment = decimal.NewFromInt(10)

// UploadLimits ограничивает размеры загружаемых файлов.
type UploadLimits struct {
	MaxImportSize int64
	MaxImageSize  int64
}

type ProductHandler struct {
	productUsecase usecase.ProductUC
	limits         UploadLimits
	logger         logger.Logger
}

func NewProductHandler(productUsecase usecase.ProductUC, limits UploadLimits, logger logger.Logger) *ProductHandler {
	return &ProductHandler{productUsecase: productUsecase, limits: limits, logger: logger}
}

// listProducts
//
//	@Summary	Список продуктов
//	@Tags		products
//	@Produce	json
//	@Success	200	{array}		productResponse
//	@Failure	500	{object}	ErrorResponse
//	@Router		/products [get]
func (p *ProductHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := p.productUsecase.List(r.Context())
	if err != nil {
		respondError(w, r, p.logger, err)
		return
	}

	WriteSuccess(w, http.StatusOK, newProductResponses(products))
}

// createProduct
//
//	@Summary		Создание продукта
//	@Description	Категория должна существовать
//	@Tags			products
//	@Accept			json
//	@Produce		json
//	@Param			product	body		productRequest	true	"Продукт"
//	@Success		201		{object}	productResponse
//	@Failure		400		{object}	ErrorResponse	"Ошибка валидации"
//	@Router			/products [post]
func (p *ProductHandler) createProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := decodeJSON(r, &req, false); err != nil {
		respondError(w, r, p.logger, err)
		return
	}

	input, err := req.toInput()
	if err != nil {
		respondError(w, r, p.logger, err)
		return
	}

	product, err := p.productUsecase.Create(r.Context(), input)
	if err != nil {
		respondError(w, r, p.logger, err)
		return
	}

	WriteSuccess(w, http.StatusCreated, newProductResponse(product))
}

// getProduct
//
//	@Summary	Продукт по идентификатору
//	@Tags		products
//	@Produce	json
//	@Param		id	path		string	true	"UUID продукта"
//	@Success	200	{object}	productResponse
//	@Failure	404	{object}	ErrorResponse
//	@Router		/products/{id} [get]
func (p *ProductHandler) getProduct(w http.ResponseWriter, r *http.Request) {
	product, err := p.productUsecase.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, p.logger, err)
		return
	}

	WriteSuccess(w, http.StatusOK, newProductResponse(product))
}

// updateProduct
//
//	@Summary	Полное обновление продукта
//	@Tags		products
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string			true	"UUID продукта"
//	@Param		product	body		productRequest	true	"Продукт"
//	@Success	200		{object}	productResponse
//	@Failure	400		{object}	ErrorResponse
//	@Failure	404		{object}	ErrorResponse
//	@Router		/products/{id} [put]
func (p *ProductHandler) updateProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := decodeJSON(r, &req, false); err != nil {
		respondError(w, r, p.logger, err)
		return
	}

	input, err := req.toInput()
	if err != nil {
		respondError(w, r, p.logger, err)
		return
	}

	product, err := p.productUsecase.Update(r.Context(), chi.URLParam(r, "id"), input)
	if err != nil {
		respondError(w, r, p.logger, err)
		return
	}

	WriteSuccess(w, http.StatusOK, newProductResponse(product))
}

// deleteProduct
//
//	@Summary	Удаление продукта
//	@Tags		products
//	@Param		id	path	string	true	"UUID продукта"
//	@Success	204
//	@Failure	404	{object}	ErrorResponse
//	@Router		/products/{id} [delete]
func (p *ProductHandler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := p.productUsecase.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondError(w, r, p.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// lookupProducts
//
//	@Summary		Пакетное получение продуктов
//	@Description	Ответ содержит найденные продукты и идентификаторы, которых нет в каталоге
//	@Tags			products
//	@Accept			json
//	@Produce		json
//	@Param			ids	body		lookupRequest	true	"Идентификаторы"
//	@Success		200	{object}	lookupResponse
//	@Failure		400	{object}	ErrorResponse
//	@Router			/products/lookup [post]
func (p *ProductHandler) lookupProducts(w http.ResponseWriter, r *http.Request) {
	var req lookupRequest
	if err := decodeJSON(r, &req, false); err != nil {
		respondError(w, r, p.logger, err)
		return
	}

	res, err := p.productUsecase.GetProducts(r.Context(), usecase.NewGetProductsReq(req.IDs))
	if err != nil {
		respondError(w, r, p.logger, err)
		return
	}

	notFound := res.NotFoundProducts
	if notFound == nil {
		notFound = []string{}
	}

	WriteSuccess(w, http.StatusOK, lookupResponse{
		Products: newProductResponses(res.Products),
		NotFound: notFound,
	})
}

// bulkCreate
//
//	@Summary		Массовое создание продуктов
//	@Description	Любая некорректная запись отклоняет весь пакет
//	@Tags			products
//	@Accept			json
//	@Produce		json
//	@Param			products	body		bulkRequest	true	"Записи"
//	@Success		201			{object}	bulkResponse
//	@Failure		400			{object}	ErrorResponse
//	@Router			/products/bulk [post]
func (p *ProductHandler) bulkCreate(w http.ResponseWriter, r *http.Request) {
	var req bulkRequest
	if err := decodeJSON(r, &req, false); err != nil {
		respondError(w, r, p.logger, err)
		return
	}

	p.writeBulkResult(w, r, req.toRecords())
}

// importProducts
//
//	@Summary		Импорт продуктов из файла
//	@Description	CSV или XLSX, первая строка содержит заголовки колонок
//	@Tags			products
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			file	formData	file	true	"Файл импорта"
//	@Success		201		{object}	bulkResponse
//	@Failure		400		{object}	ErrorResponse
//	@Router			/products/import [post]
func (p *ProductHandler) importProducts(w http.ResponseWriter, r *http.Request) {
	const maxMemory = 32 << 20

	r.Body = http.MaxBytesReader(w, r.Body, p.limits.MaxImportSize+(1<<20))
	if err := ensureMultipartForm(r, maxMemory); err != nil {
		respondError(w, r, p.logger, err)
		return
	}

	fh, err := formFile(r, "file")
	if err != nil {
		respondError(w, r, p.logger, err)
		return
	}

	format, err := importer.DetectFormat(fh.Filename, fh.Header.Get("Content-Type"))
	if err != nil {
		respondError(w, r, p.logger, err)
		return
	}

	if fh.Size > p.limits.MaxImportSize {
		respondError(w, r, p.logger, e.Wrap(fh.Filename, e.ErrFileTooLarge))
		return
	}

	src, err := fh.Open()
	if err != nil {
		respondError(w, r, p.logger, err)
		return
	}
	defer src.Close()

	records, err := importer.Parse(src, format)
	if err != nil {
		respondError(w, r, p.logger, err)
		return
	}

	p.logger.Infof("import %s: %d records parsed from %s", format, len(records), fh.Filename)
	p.writeBulkResult(w, r, records)
}

func (p *ProductHandler) writeBulkResult(w http.ResponseWriter, r *http.Request, records []usecase.ImportRecord) {
	res, err := p.productUsecase.BulkCreate(r.Context(), records)
	if err != nil {
		respondError(w, r, p.logger, err)
		return
	}

	WriteSuccess(w, http.StatusCreated, bulkResponse{
		Created: res.Created,
		Message: fmt.Sprintf("%d products created successfully", res.Created),
	})
}

// adjustPrices
//
//	@Summary		Изменение цен всех продуктов
//	@Description	Умножает каждую цену на (1 + percent/100). Без тела цены поднимаются на 10%
//	@Tags			products
//	@Accept			json
//	@Produce		json
//	@Param			percent	body		adjustPricesRequest	false	"Процент"
//	@Success		200		{object}	adjustPricesResponse
//	@Failure		400		{object}	ErrorResponse
//	@Router			/products/adjust-prices [post]
func (p *ProductHandler) adjustPrices(w http.ResponseWriter, r *http.Request) {
	var req adjustPricesRequest
	if err := decodeJSON(r, &req, true); err != nil {
		respondError(w, r, p.logger, err)
		return
	}

	percent := defaultPriceAdjustment
	if req.Percent != nil {
		percent = *req.Percent
	}

	res, err := p.productUsecase.AdjustPrices(r.Context(), percent)
	if err != nil {
		respondError(w, r, p.logger, err)
		return
	}

	WriteSuccess(w, http.StatusOK, adjustPricesResponse{
		Percent: percent.String(),
		Updated: res.Updated,
	})
}

// uploadImage
//
//	@Summary		Загрузка изображения продукта
//	@Description	Поддерживаются JPEG, PNG и WebP
//	@Tags			products
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			id		path		string	true	"UUID продукта"
//	@Param			image	formData	file	true	"Изображение"
//	@Success		200		{object}	productResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Router			/products/{id}/image [post]
func (p *ProductHandler) uploadImage(w http.ResponseWriter, r *http.Request) {
	const maxMemory = 8 << 20

	r.Body = http.MaxBytesReader(w, r.Body, p.limits.MaxImageSize+(1<<20))
	if err := ensureMultipartForm(r, maxMemory); err != nil {
		respondError(w, r, p.logger, err)
		return
	}

	fh, err := formFile(r, "image")
	if err != nil {
		respondError(w, r, p.logger, err)
		return
	}

	data, mimeType, err := readFile(fh, p.limits.MaxImageSize)
	if err != nil {
		respondError(w, r, p.logger, err)
		return
	}

	image := usecase.NewProductImage(data, mimeType, int64(len(data)), fh.Filename)
	product, err := p.productUsecase.SetImage(r.Context(), chi.URLParam(r, "id"), *image)
	if err != nil {
		respondError(w, r, p.logger, err)
		return
	}

	WriteSuccess(w, http.StatusOK, newProductResponse(product))
}
