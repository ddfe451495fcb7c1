package catalog

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"ProductsAPI/pkg/kit"
)

const maxCreateBody = 1 << 20

// productReq uses pointers so that a missing field is told apart from a zero value.
type productReq struct {
	ID          *int     `json:"id" validate:"required"`
	Name        *string  `json:"name" validate:"required"`
	Description *string  `json:"description" validate:"required"`
	Price       *float64 `json:"price" validate:"required"`
	Stock       *int     `json:"stock" validate:"required"`
	Category    *string  `json:"category" validate:"required"`
}

func (r productReq) product() Product {
	return Product{
		ID:          *r.ID,
		Name:        *r.Name,
		Description: *r.Description,
		Price:       *r.Price,
		Stock:       *r.Stock,
		Category:    *r.Category,
	}
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// decodeProduct reads a product body. On failure it returns the issues to
// report with a 422; unknown fields are ignored.
func decodeProduct(w http.ResponseWriter, r *http.Request, v *validator.Validate) (Product, []kit.ValidationIssue) {
	r.Body = http.MaxBytesReader(w, r.Body, maxCreateBody)
	defer func() { _ = r.Body.Close() }()

	var req productReq
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(&req); err != nil {
		return Product{}, []kit.ValidationIssue{decodeIssue(err)}
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return Product{}, []kit.ValidationIssue{{
			Loc:  []any{"body"},
			Msg:  "extra data after JSON object",
			Type: "json_invalid",
		}}
	}

	if err := v.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return Product{}, []kit.ValidationIssue{{Loc: []any{"body"}, Msg: err.Error(), Type: "value_error"}}
		}
		issues := make([]kit.ValidationIssue, 0, len(verrs))
		for _, fe := range verrs {
			issues = append(issues, kit.ValidationIssue{
				Loc:  []any{"body", fe.Field()},
				Msg:  "Field required",
				Type: "missing",
			})
		}
		return Product{}, issues
	}

	return req.product(), nil
}

func decodeIssue(err error) kit.ValidationIssue {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		loc := []any{"body"}
		if typeErr.Field != "" {
			loc = append(loc, typeErr.Field)
		}
		name, kind := jsonKind(typeErr.Type)
		return kit.ValidationIssue{
			Loc:  loc,
			Msg:  "Input should be a valid " + name,
			Type: kind + "_type",
		}
	}

	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return kit.ValidationIssue{Loc: []any{"body"}, Msg: "request body too large", Type: "too_long"}
	}

	if errors.Is(err, io.EOF) {
		return kit.ValidationIssue{Loc: []any{"body"}, Msg: "Field required", Type: "missing"}
	}

	return kit.ValidationIssue{Loc: []any{"body"}, Msg: "JSON decode error: " + err.Error(), Type: "json_invalid"}
}

// jsonKind names a Go decode target in JSON terms.
func jsonKind(t reflect.Type) (name, kind string) {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "integer", "int"
	case reflect.Float32, reflect.Float64:
		return "number", "float"
	case reflect.String:
		return "string", "string"
	case reflect.Bool:
		return "boolean", "bool"
	case reflect.Slice, reflect.Array:
		return "list", "list"
	default:
		return "dictionary", "model"
	}
}
