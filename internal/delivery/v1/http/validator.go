package http

import (
	"errors"
	"reflect"
	"strings"

	"github.com/DRSN-tech/catalog-backend/pkg/e"
	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateStruct проверяет теги validate и возвращает первую ошибку как ValidationError с JSON-именем поля.
func validateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return e.InvalidWrap("body", err)
	}

	fe := verrs[0]
	return e.Invalid(fieldPath(fe.Namespace()), "%s", ruleMessage(fe))
}

// fieldPath отрезает имя корневой структуры: "productRequest.price" -> "price".
func fieldPath(namespace string) string {
	if i := strings.IndexByte(namespace, '.'); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}

func ruleMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min", "gte":
		return "must be at least " + fe.Param()
	case "max", "lte":
		return "must be at most " + fe.Param()
	case "url":
		return "must be a valid URL"
	case "uuid":
		return "must be a UUID"
	default:
		return "failed on '" + fe.Tag() + "' rule"
	}
}
