package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/DRSN-tech/catalog-backend/pkg/e"
	"github.com/DRSN-tech/catalog-backend/pkg/logger"
	"github.com/jimlawless/whereami"
)

type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

func NewErrorResponse(code int, message, field string) *ErrorResponse {
	return &ErrorResponse{
		Code:    code,
		Message: message,
		Field:   field,
	}
}

// ToHTTPResponse сопоставляет ошибку каталога с HTTP-статусом, сообщением и полем.
func ToHTTPResponse(err error) (int, string, string) {
	if v, ok := e.AsValidation(err); ok {
		return http.StatusBadRequest, v.Message, v.Field
	}

	switch {
	case errors.Is(err, e.ErrProductNotFound):
		return http.StatusNotFound, e.ErrProductNotFound.Error(), ""
	case errors.Is(err, e.ErrCategoryNotFound):
		return http.StatusNotFound, e.ErrCategoryNotFound.Error(), ""
	case errors.Is(err, e.ErrNotFound):
		return http.StatusNotFound, e.ErrNotFound.Error(), ""
	case errors.Is(err, e.ErrCategoryInUse):
		return http.StatusConflict, e.ErrCategoryInUse.Error(), ""
	case errors.Is(err, e.ErrConflict):
		return http.StatusConflict, e.ErrConflict.Error(), ""
	case errors.Is(err, e.ErrEmptyRegistry):
		return http.StatusUnprocessableEntity, e.ErrEmptyRegistry.Error(), ""
	}

	for _, target := range []error{
		e.ErrStatusBadRequest,
		e.ErrExpectedMultipart,
		e.ErrInvalidPrice,
		e.ErrPricePrecision,
		e.ErrNoImages,
		e.ErrFileTooLarge,
		e.ErrUnsupportedMediaType,
		e.ErrUnsupportedFileType,
	} {
		if errors.Is(err, target) {
			return http.StatusBadRequest, target.Error(), ""
		}
	}

	return http.StatusInternalServerError, e.ErrInternalServerError.Error(), ""
}

func WriteError(w http.ResponseWriter, err error) int {
	code, msg, field := ToHTTPResponse(err)
	WriteSuccess(w, code, NewErrorResponse(code, msg, field))
	return code
}

func WriteSuccess(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// respondError пишет ответ с ошибкой и логирует её: 4xx как предупреждение, 5xx как ошибку.
func respondError(w http.ResponseWriter, r *http.Request, log logger.Logger, err error) {
	code := WriteError(w, err)
	if code >= http.StatusInternalServerError {
		log.Errorf(err, "%s %s: %d", r.Method, r.URL.Path, code)
		return
	}
	log.Warnf("%s %s: %d %v", r.Method, r.URL.Path, code, err)
}

// decodeJSON читает тело запроса в структуру dst и проверяет её теги validate.
// Пустое тело допустимо только при allowEmpty.
func decodeJSON(r *http.Request, dst any, allowEmpty bool) error {
	if err := readJSON(r, dst, allowEmpty); err != nil {
		return err
	}
	return validateStruct(dst)
}

func readJSON(r *http.Request, dst any, allowEmpty bool) error {
	const maxBodySize = 4 << 20

	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodySize))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			if allowEmpty {
				return nil
			}
			return e.Invalid("body", "request body is empty")
		}

		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			return e.Invalid(typeErr.Field, "must be %s", typeErr.Type.String())
		}
		return e.Invalid("body", "malformed JSON: %v", err)
	}

	return nil
}

func ensureMultipartForm(r *http.Request, maxMemory int64) error {
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		return e.Wrap(whereami.WhereAmI(), e.ErrExpectedMultipart)
	}

	if err := r.ParseMultipartForm(maxMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return e.Wrap(whereami.WhereAmI(), e.ErrFileTooLarge)
		}
		return e.Wrap(whereami.WhereAmI(), fmt.Errorf("%w: %v", e.ErrStatusBadRequest, err))
	}

	return nil
}

// formFile возвращает единственный файл из поля формы.
func formFile(r *http.Request, field string) (*multipart.FileHeader, error) {
	files := r.MultipartForm.File[field]
	if len(files) == 0 {
		return nil, e.Invalid(field, "file is required")
	}
	return files[0], nil
}

// readFile читает файл целиком и определяет его MIME-тип по содержимому.
func readFile(fh *multipart.FileHeader, maxSize int64) ([]byte, string, error) {
	if fh.Size > maxSize {
		return nil, "", e.Wrap(fh.Filename, e.ErrFileTooLarge)
	}

	src, err := fh.Open()
	if err != nil {
		return nil, "", e.Wrap(whereami.WhereAmI(), err)
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, maxSize+1))
	if err != nil {
		return nil, "", e.Wrap(whereami.WhereAmI(), err)
	}
	if int64(len(data)) > maxSize {
		return nil, "", e.Wrap(fh.Filename, e.ErrFileTooLarge)
	}

	mimeType := http.DetectContentType(data[:min(len(data), 512)])
	return data, mimeType, nil
}
