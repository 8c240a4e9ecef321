package http

import (
	"context"
	"net/http"

	"github.com/DRSN-tech/catalog-backend/internal/usecase"
	"github.com/DRSN-tech/catalog-backend/pkg/e"
	"github.com/DRSN-tech/catalog-backend/pkg/logger"
)

// Pinger проверяет доступность базы данных.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	db             Pinger
	productUsecase usecase.ProductUC
	logger         logger.Logger
}

func NewHealthHandler(db Pinger, productUsecase usecase.ProductUC, logger logger.Logger) *HealthHandler {
	return &HealthHandler{db: db, productUsecase: productUsecase, logger: logger}
}

// healthz
//
//	@Summary	Проверка подключения к базе данных
//	@Tags		health
//	@Produce	json
//	@Success	200	{object}	healthResponse
//	@Failure	500	{object}	ErrorResponse
//	@Router		/healthz [get]
func (h *HealthHandler) healthz(w http.ResponseWriter, r *http.Request) {
	if err := h.db.Ping(r.Context()); err != nil {
		respondError(w, r, h.logger, e.Upstream("ping database", err))
		return
	}

	count, err := h.productUsecase.Count(r.Context())
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	WriteSuccess(w, http.StatusOK, healthResponse{
		Message:      "Database connection successful",
		ProductCount: count,
	})
}
