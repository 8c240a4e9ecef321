package http

import (
	"net/http"

	_ "github.com/DRSN-tech/catalog-backend/docs" // Регистрация swagger-документа
	"github.com/DRSN-tech/catalog-backend/internal/usecase"
	"github.com/DRSN-tech/catalog-backend/pkg/e"
	"github.com/DRSN-tech/catalog-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

// Deps — зависимости HTTP-слоя.
type Deps struct {
	ProductUC   usecase.ProductUC
	CategoryUC  usecase.CategoryUC
	GeneratorUC usecase.GeneratorUC
	DB          Pinger
	Limits      UploadLimits
	CORSOrigins []string
}

type Router struct {
	router *chi.Mux
	logger logger.Logger
}

func NewRouter(router *chi.Mux, logger logger.Logger) *Router {
	return &Router{router: router, logger: logger}
}

// Init регистрирует маршруты и возвращает обработчик, обёрнутый в CORS.
func (r *Router) Init(deps Deps) http.Handler {
	r.router.Use(
		middleware.RequestID,
		middleware.RealIP,
		requestLogger(r.logger),
		middleware.Recoverer,
	)

	r.router.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		WriteSuccess(w, http.StatusNotFound, NewErrorResponse(http.StatusNotFound, e.ErrNotFound.Error(), ""))
	})
	r.router.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		WriteSuccess(w, http.StatusMethodNotAllowed, NewErrorResponse(http.StatusMethodNotAllowed, "method not allowed", ""))
	})

	r.router.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	r.router.Route("/api/v1", func(v1 chi.Router) {
		registerProductRoutes(v1, NewProductHandler(deps.ProductUC, deps.Limits, r.logger))
		registerStorefrontRoutes(v1, NewStorefrontHandler(deps.ProductUC, r.logger))
		registerCategoryRoutes(v1, NewCategoryHandler(deps.CategoryUC, r.logger))
		registerGeneratorRoutes(v1, NewGeneratorHandler(deps.GeneratorUC, r.logger))
		registerHealthRoutes(v1, NewHealthHandler(deps.DB, deps.ProductUC, r.logger))
	})

	return cors.New(cors.Options{
		AllowedOrigins: deps.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id"},
	}).Handler(r.router)
}

func registerProductRoutes(router chi.Router, prHandler *ProductHandler) {
	router.Route("/products", func(pr chi.Router) {
		pr.Get("/", prHandler.listProducts)
		pr.Post("/", prHandler.createProduct)
		pr.Post("/lookup", prHandler.lookupProducts)
		pr.Post("/bulk", prHandler.bulkCreate)
		pr.Post("/import", prHandler.importProducts)
		pr.Post("/adjust-prices", prHandler.adjustPrices)
		pr.Get("/{id}", prHandler.getProduct)
		pr.Put("/{id}", prHandler.updateProduct)
		pr.Delete("/{id}", prHandler.deleteProduct)
		pr.Post("/{id}/image", prHandler.uploadImage)
	})
}

func registerStorefrontRoutes(router chi.Router, sfHandler *StorefrontHandler) {
	router.Get("/storefront/products", sfHandler.listStorefront)
}

func registerCategoryRoutes(router chi.Router, catHandler *CategoryHandler) {
	router.Route("/categories", func(cat chi.Router) {
		cat.Get("/", catHandler.listCategories)
		cat.Post("/", catHandler.upsertCategory)
		cat.Post("/bulk", catHandler.upsertCategories)
		cat.Get("/{name}", catHandler.getCategory)
		cat.Put("/{name}", catHandler.putCategory)
		cat.Delete("/{name}", catHandler.deleteCategory)
	})
}

func registerGeneratorRoutes(router chi.Router, genHandler *GeneratorHandler) {
	router.Post("/generate-products", genHandler.generateProducts)
}

func registerHealthRoutes(router chi.Router, hHandler *HealthHandler) {
	router.Get("/healthz", hHandler.healthz)
}
