package http

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DRSN-tech/catalog-backend/internal/domain"
	"github.com/DRSN-tech/catalog-backend/internal/usecase"
	"github.com/DRSN-tech/catalog-backend/pkg/e"
	"github.com/DRSN-tech/catalog-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	lampID  = "0f8fad5b-d9cb-469f-a165-70867728950e"
	chairID = "7c9e6679-7425-40de-944b-e07fc1f90ae7"
)

type testAPI struct {
	handler    http.Handler
	products   *fakeProductUC
	categories *fakeCategoryUC
	generator  *fakeGeneratorUC
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	api := &testAPI{
		products: &fakeProductUC{products: []domain.Product{{
			ID:           lampID,
			Name:         "Lamp",
			Price:        1999,
			Rating:       4.5,
			CategoryName: "Basic",
			Tier:         "Premium",
			CreatedAt:    time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		}}},
		categories: &fakeCategoryUC{categories: []domain.Category{
			*domain.NewCategory("Basic", 2, 1000, 2000),
		}},
		generator: &fakeGeneratorUC{res: &usecase.GenerateRes{}},
	}

	api.handler = NewRouter(chi.NewRouter(), logger.NewNopLogger()).Init(Deps{
		ProductUC:   api.products,
		CategoryUC:  api.categories,
		GeneratorUC: api.generator,
		DB:          fakePinger{},
		Limits:      UploadLimits{MaxImportSize: 1 << 20, MaxImageSize: 1 << 20},
		CORSOrigins: []string{"*"},
	})
	return api
}

func (a *testAPI) do(method, path, contentType string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

func (a *testAPI) doJSON(method, path, body string) *httptest.ResponseRecorder {
	return a.do(method, path, "application/json", []byte(body))
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()

	var res ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, rec.Code, res.Code)
	return res
}

func multipartBody(t *testing.T, field, filename string, content []byte) ([]byte, string) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return buf.Bytes(), mw.FormDataContentType()
}

func TestToHTTPResponse(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantCode  int
		wantField string
	}{
		{"validation", e.Wrap("op", e.Invalid("price", "bad")), http.StatusBadRequest, "price"},
		{"product not found", e.Wrap("op", e.ErrProductNotFound), http.StatusNotFound, ""},
		{"category not found", e.Wrap("op", e.ErrCategoryNotFound), http.StatusNotFound, ""},
		{"category in use", e.Wrap("op", e.ErrCategoryInUse), http.StatusConflict, ""},
		{"empty registry", e.Wrap("op", e.ErrEmptyRegistry), http.StatusUnprocessableEntity, ""},
		{"unsupported file", e.Wrap("op", e.ErrUnsupportedFileType), http.StatusBadRequest, ""},
		{"price precision", e.ErrPricePrecision, http.StatusBadRequest, ""},
		{"upstream", e.Upstream("query", assert.AnError), http.StatusInternalServerError, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, msg, field := ToHTTPResponse(tt.err)
			assert.Equal(t, tt.wantCode, code)
			assert.Equal(t, tt.wantField, field)
			assert.NotEmpty(t, msg)
		})
	}
}

func TestToHTTPResponse_HidesInternalDetails(t *testing.T) {
	_, msg, _ := ToHTTPResponse(e.Upstream("select products", assert.AnError))
	assert.Equal(t, e.ErrInternalServerError.Error(), msg)
}

func TestCreateProduct(t *testing.T) {
	api := newTestAPI(t)

	rec := api.doJSON(http.MethodPost, "/api/v1/products",
		`{"name":"Lamp","price":19.99,"rating":4.5,"category":"Basic","tier":"Premium","image":"https://img.example.com/lamp.png"}`)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, int64(1999), api.products.lastInput.Price)
	assert.Equal(t, "Basic", api.products.lastInput.Category)
	assert.Contains(t, rec.Body.String(), `"price":19.99`)
	assert.Contains(t, rec.Body.String(), `"id":"`+lampID+`"`)
}

func TestCreateProduct_Validation(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantField string
	}{
		{"missing name", `{"price":1,"category":"Basic"}`, "name"},
		{"missing price", `{"name":"Lamp","category":"Basic"}`, "price"},
		{"missing category", `{"name":"Lamp","price":1}`, "category"},
		{"rating above five", `{"name":"Lamp","price":1,"rating":6,"category":"Basic"}`, "rating"},
		{"negative rating", `{"name":"Lamp","price":1,"rating":-1,"category":"Basic"}`, "rating"},
		{"three decimals", `{"name":"Lamp","price":1.999,"category":"Basic"}`, "price"},
		{"negative price", `{"name":"Lamp","price":-3,"category":"Basic"}`, "price"},
		{"bad image url", `{"name":"Lamp","price":1,"category":"Basic","image":"lamp"}`, "image"},
		{"rating as text", `{"name":"Lamp","price":1,"rating":"high","category":"Basic"}`, "rating"},
		{"malformed json", `{"name":`, "body"},
		{"empty body", ``, "body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newTestAPI(t)

			rec := api.doJSON(http.MethodPost, "/api/v1/products", tt.body)

			require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
			assert.Equal(t, tt.wantField, decodeError(t, rec).Field)
			assert.Nil(t, api.products.lastInput)
		})
	}
}

func TestCreateProduct_UnknownCategory(t *testing.T) {
	api := newTestAPI(t)
	api.products.err = e.Wrap("ProductUseCase.Create", e.Invalid("category", "unknown category %q", "Toys"))

	rec := api.doJSON(http.MethodPost, "/api/v1/products", `{"name":"Lamp","price":1,"category":"Toys"}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "category", decodeError(t, rec).Field)
}

func TestGetProduct(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(http.MethodGet, "/api/v1/products/"+lampID, "", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, lampID, api.products.lastID)

	var res productResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, "19.99", res.Price.String())
	assert.Equal(t, "Basic", res.Category)
}

func TestGetProduct_NotFound(t *testing.T) {
	api := newTestAPI(t)
	api.products.err = e.Wrap("ProductUseCase.Get", e.ErrProductNotFound)

	rec := api.do(http.MethodGet, "/api/v1/products/"+chairID, "", nil)

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "product not found", decodeError(t, rec).Message)
}

func TestUpdateAndDeleteProduct(t *testing.T) {
	api := newTestAPI(t)

	rec := api.doJSON(http.MethodPut, "/api/v1/products/"+lampID, `{"name":"Lamp 2","price":"15","category":"Basic"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, lampID, api.products.lastID)
	assert.Equal(t, "Lamp 2", api.products.lastInput.Name)
	assert.Equal(t, int64(1500), api.products.lastInput.Price)

	rec = api.do(http.MethodDelete, "/api/v1/products/"+chairID, "", nil)
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, chairID, api.products.lastID)
	assert.Empty(t, rec.Body.String())
}

func TestListProducts_Empty(t *testing.T) {
	api := newTestAPI(t)
	api.products.products = nil

	rec := api.do(http.MethodGet, "/api/v1/products", "", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestMethodNotAllowed(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(http.MethodPatch, "/api/v1/products/"+lampID, "", nil)

	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	decodeError(t, rec)
}

func TestUnknownRoute(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(http.MethodGet, "/api/v1/nothing", "", nil)

	require.Equal(t, http.StatusNotFound, rec.Code)
	decodeError(t, rec)
}

func TestLookupProducts(t *testing.T) {
	api := newTestAPI(t)

	rec := api.doJSON(http.MethodPost, "/api/v1/products/lookup", `{"ids":["`+lampID+`","`+chairID+`"]}`)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var res lookupResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.Len(t, res.Products, 1)
	assert.Equal(t, lampID, res.Products[0].ID)
	assert.Equal(t, []string{chairID}, res.NotFound)
}

func TestLookupProducts_InvalidID(t *testing.T) {
	api := newTestAPI(t)

	rec := api.doJSON(http.MethodPost, "/api/v1/products/lookup", `{"ids":["nope"]}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "ids[0]", decodeError(t, rec).Field)
}

func TestStorefront(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  domain.Selection
	}{
		{"defaults", "", domain.NewSelection(domain.AllCategories, 0, domain.NoUpperBound)},
		{"category only", "?category=Books", domain.NewSelection("Books", 0, domain.NoUpperBound)},
		{"full range", "?category=Books&min_price=10&max_price=20.5", domain.NewSelection("Books", 1000, 2050)},
		{"inverted range is passed through", "?min_price=30&max_price=10", domain.NewSelection(domain.AllCategories, 3000, 1000)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newTestAPI(t)

			rec := api.do(http.MethodGet, "/api/v1/storefront/products"+tt.query, "", nil)

			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			if diff := cmp.Diff(tt.want, api.products.lastSelection); diff != "" {
				t.Errorf("selection mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestStorefront_InvalidPrice(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(http.MethodGet, "/api/v1/storefront/products?min_price=cheap", "", nil)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "min_price", decodeError(t, rec).Field)
}

func TestBulkCreate(t *testing.T) {
	api := newTestAPI(t)

	rec := api.doJSON(http.MethodPost, "/api/v1/products/bulk",
		`{"products":[{"name":"Lamp","price":12.5,"rating":null,"category":"Basic"},{"name":"Chair","price":"30","rating":"4","category":"Basic"}]}`)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	want := []usecase.ImportRecord{
		{Name: "Lamp", Price: "12.5", Category: "Basic"},
		{Name: "Chair", Price: "30", Rating: "4", Category: "Basic"},
	}
	if diff := cmp.Diff(want, api.products.lastRecords); diff != "" {
		t.Errorf("records mismatch (-want +got):\n%s", diff)
	}
	assert.JSONEq(t, `{"created":2,"message":"2 products created successfully"}`, rec.Body.String())
}

func TestBulkCreate_RejectedBatch(t *testing.T) {
	api := newTestAPI(t)
	api.products.err = e.Wrap("ProductUseCase.BulkCreate", e.Invalid("products[1].price", "invalid price"))

	rec := api.doJSON(http.MethodPost, "/api/v1/products/bulk", `{"products":[{"name":"A"},{"name":"B"}]}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "products[1].price", decodeError(t, rec).Field)
}

func TestImportProducts_CSV(t *testing.T) {
	api := newTestAPI(t)
	body, contentType := multipartBody(t, "file", "items.csv", []byte("Name,Price,Category\nLamp,12.50,Basic\n"))

	rec := api.do(http.MethodPost, "/api/v1/products/import", contentType, body)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	require.Len(t, api.products.lastRecords, 1)
	assert.Equal(t, "12.50", api.products.lastRecords[0].Price)
}

func TestImportProducts_Rejected(t *testing.T) {
	t.Run("unsupported extension", func(t *testing.T) {
		api := newTestAPI(t)
		body, contentType := multipartBody(t, "file", "items.txt", []byte("name,price,category\n"))

		rec := api.do(http.MethodPost, "/api/v1/products/import", contentType, body)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Nil(t, api.products.lastRecords)
	})

	t.Run("not multipart", func(t *testing.T) {
		api := newTestAPI(t)

		rec := api.doJSON(http.MethodPost, "/api/v1/products/import", `{}`)

		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing file field", func(t *testing.T) {
		api := newTestAPI(t)
		body, contentType := multipartBody(t, "upload", "items.csv", []byte("name,price,category\n"))

		rec := api.do(http.MethodPost, "/api/v1/products/import", contentType, body)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "file", decodeError(t, rec).Field)
	})
}

func TestAdjustPrices(t *testing.T) {
	t.Run("default ten percent", func(t *testing.T) {
		api := newTestAPI(t)

		rec := api.do(http.MethodPost, "/api/v1/products/adjust-prices", "", nil)

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.True(t, decimal.NewFromInt(10).Equal(api.products.lastPercent))
		assert.JSONEq(t, `{"percent":"10","updated":1}`, rec.Body.String())
	})

	t.Run("explicit percent", func(t *testing.T) {
		api := newTestAPI(t)

		rec := api.doJSON(http.MethodPost, "/api/v1/products/adjust-prices", `{"percent":-2.5}`)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, decimal.RequireFromString("-2.5").Equal(api.products.lastPercent))
	})
}

func TestUploadImage(t *testing.T) {
	api := newTestAPI(t)
	png := append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 64)...)
	body, contentType := multipartBody(t, "image", "lamp.png", png)

	rec := api.do(http.MethodPost, "/api/v1/products/"+lampID+"/image", contentType, body)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, lampID, api.products.lastID)
	assert.Equal(t, "image/png", api.products.lastImage.MimeType)
	assert.Equal(t, int64(len(png)), api.products.lastImage.Size)
	assert.Equal(t, "lamp.png", api.products.lastImage.Name)
}

func TestUploadImage_TooLarge(t *testing.T) {
	api := newTestAPI(t)
	body, contentType := multipartBody(t, "image", "huge.png", make([]byte, 2<<20))

	rec := api.do(http.MethodPost, "/api/v1/products/"+lampID+"/image", contentType, body)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, api.products.lastID)
}

func TestCategories(t *testing.T) {
	t.Run("list", func(t *testing.T) {
		api := newTestAPI(t)

		rec := api.do(http.MethodGet, "/api/v1/categories", "", nil)

		require.Equal(t, http.StatusOK, rec.Code)
		var res []categoryResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
		require.Len(t, res, 1)
		assert.Equal(t, "10.00", res[0].MinPrice.String())
		assert.Equal(t, "20.00", res[0].MaxPrice.String())
	})

	t.Run("upsert one", func(t *testing.T) {
		api := newTestAPI(t)

		rec := api.doJSON(http.MethodPost, "/api/v1/categories", `{"name":"Books","maxProducts":5,"minPrice":0,"maxPrice":"99.90"}`)

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		want := []usecase.UpsertCategoryReq{{Name: "Books", MaxProducts: 5, MinPrice: 0, MaxPrice: 9990}}
		assert.Equal(t, want, api.categories.lastReqs)
	})

	t.Run("put by path name", func(t *testing.T) {
		api := newTestAPI(t)

		rec := api.doJSON(http.MethodPut, "/api/v1/categories/Garden", `{"maxProducts":3,"minPrice":1,"maxPrice":2}`)

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		require.Len(t, api.categories.lastReqs, 1)
		assert.Equal(t, "Garden", api.categories.lastReqs[0].Name)
	})

	t.Run("invalid config from use case", func(t *testing.T) {
		api := newTestAPI(t)
		api.categories.err = e.Invalid("maxProducts", "must be a positive integer, got 0")

		rec := api.doJSON(http.MethodPost, "/api/v1/categories", `{"name":"Books","maxProducts":0,"minPrice":0,"maxPrice":1}`)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "maxProducts", decodeError(t, rec).Field)
	})

	t.Run("delete referenced", func(t *testing.T) {
		api := newTestAPI(t)
		api.categories.err = e.Wrap("CategoryUseCase.Delete", e.ErrCategoryInUse)

		rec := api.do(http.MethodDelete, "/api/v1/categories/Basic", "", nil)

		require.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, "Basic", api.categories.lastName)
	})

	t.Run("delete", func(t *testing.T) {
		api := newTestAPI(t)

		rec := api.do(http.MethodDelete, "/api/v1/categories/Basic", "", nil)

		require.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("get missing", func(t *testing.T) {
		api := newTestAPI(t)
		api.categories.err = e.ErrCategoryNotFound

		rec := api.do(http.MethodGet, "/api/v1/categories/Toys", "", nil)

		require.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "category not found", decodeError(t, rec).Message)
	})
}

func TestUpsertCategories_Bulk(t *testing.T) {
	api := newTestAPI(t)

	rec := api.doJSON(http.MethodPost, "/api/v1/categories/bulk",
		`{"Books":{"maxProducts":5,"minPrice":0,"maxPrice":100.5},"Basic":{"maxProducts":2,"minPrice":10,"maxPrice":20}}`)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	want := []usecase.UpsertCategoryReq{
		{Name: "Basic", MaxProducts: 2, MinPrice: 1000, MaxPrice: 2000},
		{Name: "Books", MaxProducts: 5, MinPrice: 0, MaxPrice: 10050},
	}
	if diff := cmp.Diff(want, api.categories.lastReqs); diff != "" {
		t.Errorf("requests mismatch (-want +got):\n%s", diff)
	}
}

func TestUpsertCategories_BulkInvalid(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantField string
	}{
		{"empty map", `{}`, "body"},
		{"missing min price", `{"Books":{"maxProducts":5,"maxPrice":1}}`, "Books.minPrice"},
		{"bad precision", `{"Books":{"maxProducts":5,"minPrice":0,"maxPrice":1.234}}`, "Books.priceRange.max"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newTestAPI(t)

			rec := api.doJSON(http.MethodPost, "/api/v1/categories/bulk", tt.body)

			require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
			assert.Equal(t, tt.wantField, decodeError(t, rec).Field)
			assert.Nil(t, api.categories.lastReqs)
		})
	}
}

func TestGenerateProducts(t *testing.T) {
	t.Run("empty body uses defaults", func(t *testing.T) {
		api := newTestAPI(t)
		api.generator.res = &usecase.GenerateRes{Products: api.products.products, Removed: 3}

		rec := api.do(http.MethodPost, "/api/v1/generate-products", "", nil)

		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		assert.Equal(t, &usecase.GenerateReq{}, api.generator.lastReq)

		var res generateResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
		assert.Len(t, res.Products, 1)
		assert.Equal(t, 3, res.Removed)
	})

	t.Run("count and replace", func(t *testing.T) {
		api := newTestAPI(t)

		rec := api.doJSON(http.MethodPost, "/api/v1/generate-products", `{"count":25,"replace":true}`)

		require.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, &usecase.GenerateReq{Count: 25, Replace: true}, api.generator.lastReq)
	})

	t.Run("negative count", func(t *testing.T) {
		api := newTestAPI(t)

		rec := api.doJSON(http.MethodPost, "/api/v1/generate-products", `{"count":-1}`)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "count", decodeError(t, rec).Field)
		assert.Nil(t, api.generator.lastReq)
	})

	t.Run("empty registry", func(t *testing.T) {
		api := newTestAPI(t)
		api.generator.err = e.Wrap("GeneratorUseCase.Generate", e.ErrEmptyRegistry)

		rec := api.doJSON(http.MethodPost, "/api/v1/generate-products", `{"count":5}`)

		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Equal(t, e.ErrEmptyRegistry.Error(), decodeError(t, rec).Message)
	})
}

func TestHealthz(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(http.MethodGet, "/api/v1/healthz", "", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Database connection successful","productCount":1}`, rec.Body.String())
}

func TestHealthz_DatabaseDown(t *testing.T) {
	api := newTestAPI(t)
	api.handler = NewRouter(chi.NewRouter(), logger.NewNopLogger()).Init(Deps{
		ProductUC:   api.products,
		CategoryUC:  api.categories,
		GeneratorUC: api.generator,
		DB:          fakePinger{err: assert.AnError},
		CORSOrigins: []string{"*"},
	})

	rec := api.do(http.MethodGet, "/api/v1/healthz", "", nil)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.False(t, strings.Contains(rec.Body.String(), assert.AnError.Error()))
}

func TestCORSPreflight(t *testing.T) {
	api := newTestAPI(t)
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/products", nil)
	req.Header.Set("Origin", "https://shop.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()

	api.handler.ServeHTTP(rec, req)

	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
