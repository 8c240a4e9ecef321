package http

import (
	"net/http"
	"sort"

	"github.com/DRSN-tech/catalog-backend/internal/usecase"
	"github.com/DRSN-tech/catalog-backend/pkg/e"
	"github.com/DRSN-tech/catalog-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
)

type CategoryHandler struct {
	categoryUsecase usecase.CategoryUC
	logger          logger.Logger
}

func NewCategoryHandler(categoryUsecase usecase.CategoryUC, logger logger.Logger) *CategoryHandler {
	return &CategoryHandler{categoryUsecase: categoryUsecase, logger: logger}
}

// listCategories
//
//	@Summary	Список категорий
//	@Tags		categories
//	@Produce	json
//	@Success	200	{array}	categoryResponse
//	@Router		/categories [get]
func (c *CategoryHandler) listCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := c.categoryUsecase.List(r.Context())
	if err != nil {
		respondError(w, r, c.logger, err)
		return
	}

	WriteSuccess(w, http.StatusOK, newCategoryResponses(categories))
}

// getCategory
//
//	@Summary	Категория по имени
//	@Tags		categories
//	@Produce	json
//	@Param		name	path		string	true	"Имя категории"
//	@Success	200		{object}	categoryResponse
//	@Failure	404		{object}	ErrorResponse
//	@Router		/categories/{name} [get]
func (c *CategoryHandler) getCategory(w http.ResponseWriter, r *http.Request) {
	category, err := c.categoryUsecase.Get(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		respondError(w, r, c.logger, err)
		return
	}

	WriteSuccess(w, http.StatusOK, newCategoryResponse(category))
}

// upsertCategory
//
//	@Summary		Создание или обновление категории
//	@Description	Категория с тем же именем перезаписывается
//	@Tags			categories
//	@Accept			json
//	@Produce		json
//	@Param			category	body		categoryRequest	true	"Категория"
//	@Success		200			{object}	categoryResponse
//	@Failure		400			{object}	ErrorResponse
//	@Router			/categories [post]
func (c *CategoryHandler) upsertCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decodeJSON(r, &req, false); err != nil {
		respondError(w, r, c.logger, err)
		return
	}

	c.upsert(w, r, req.Name, req.config())
}

// putCategory
//
//	@Summary	Создание или обновление категории по имени из пути
//	@Tags		categories
//	@Accept		json
//	@Produce	json
//	@Param		name		path		string			true	"Имя категории"
//	@Param		category	body		categoryConfig	true	"Настройки"
//	@Success	200			{object}	categoryResponse
//	@Failure	400			{object}	ErrorResponse
//	@Router		/categories/{name} [put]
func (c *CategoryHandler) putCategory(w http.ResponseWriter, r *http.Request) {
	var cfg categoryConfig
	if err := decodeJSON(r, &cfg, false); err != nil {
		respondError(w, r, c.logger, err)
		return
	}

	c.upsert(w, r, chi.URLParam(r, "name"), &cfg)
}

func (c *CategoryHandler) upsert(w http.ResponseWriter, r *http.Request, name string, cfg *categoryConfig) {
	req, err := cfg.toReq(name)
	if err != nil {
		respondError(w, r, c.logger, err)
		return
	}

	category, err := c.categoryUsecase.Upsert(r.Context(), req)
	if err != nil {
		respondError(w, r, c.logger, err)
		return
	}

	WriteSuccess(w, http.StatusOK, newCategoryResponse(category))
}

// upsertCategories
//
//	@Summary		Пакетное сохранение категорий
//	@Description	Тело — объект вида {"Имя": {maxProducts, minPrice, maxPrice}}. Сохраняется целиком или не сохраняется
//	@Tags			categories
//	@Accept			json
//	@Produce		json
//	@Param			categories	body		map[string]categoryConfig	true	"Категории"
//	@Success		200			{array}		categoryResponse
//	@Failure		400			{object}	ErrorResponse
//	@Router			/categories/bulk [post]
func (c *CategoryHandler) upsertCategories(w http.ResponseWriter, r *http.Request) {
	var body map[string]categoryConfig
	if err := readJSON(r, &body, false); err != nil {
		respondError(w, r, c.logger, err)
		return
	}

	if len(body) == 0 {
		respondError(w, r, c.logger, e.Invalid("body", "at least one category is required"))
		return
	}

	names := make([]string, 0, len(body))
	for name := range body {
		names = append(names, name)
	}
	sort.Strings(names)

	reqs := make([]usecase.UpsertCategoryReq, 0, len(body))
	for _, name := range names {
		cfg := body[name]
		if err := validateStruct(&cfg); err != nil {
			v, _ := e.AsValidation(err)
			respondError(w, r, c.logger, e.Invalid(name+"."+v.Field, "%s", v.Message))
			return
		}

		req, err := cfg.toReq(name)
		if err != nil {
			v, _ := e.AsValidation(err)
			respondError(w, r, c.logger, e.Invalid(name+"."+v.Field, "%s", v.Message))
			return
		}
		reqs = append(reqs, *req)
	}

	categories, err := c.categoryUsecase.UpsertMany(r.Context(), reqs)
	if err != nil {
		respondError(w, r, c.logger, err)
		return
	}

	WriteSuccess(w, http.StatusOK, newCategoryResponses(categories))
}

// deleteCategory
//
//	@Summary		Удаление категории
//	@Description	Категорию, на которую ссылаются продукты, удалить нельзя
//	@Tags			categories
//	@Param			name	path	string	true	"Имя категории"
//	@Success		204
//	@Failure		404	{object}	ErrorResponse
//	@Failure		409	{object}	ErrorResponse
//	@Router			/categories/{name} [delete]
func (c *CategoryHandler) deleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := c.categoryUsecase.Delete(r.Context(), chi.URLParam(r, "name")); err != nil {
		respondError(w, r, c.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
