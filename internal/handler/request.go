package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// requestError is a 400 raised before the service layer runs: a malformed
// body, a failed field validation, or an unparseable path parameter.
type requestError struct {
	message string
	fields  map[string][]string
}

func (e *requestError) Error() string { return e.message }

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their JSON names so clients can map errors to inputs.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// decodeAndValidate decodes the JSON body into dest, rejecting unknown
// fields and trailing data, then runs struct-tag validation.
func (s *Server) decodeAndValidate(r *http.Request, dest any) error {
	if r.Body == nil {
		return &requestError{message: "request body is required"}
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dest); err != nil {
		return decodeError(err)
	}
	if dec.More() {
		return &requestError{message: "request body must contain a single JSON object"}
	}
	if err := s.validate.Struct(dest); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return fieldErrors(verrs)
		}
		return err
	}
	return nil
}

func decodeError(err error) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return maxErr
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return &requestError{
			message: "invalid input",
			fields:  map[string][]string{typeErr.Field: {"must be a " + typeErr.Type.String()}},
		}
	}
	if errors.Is(err, io.EOF) {
		return &requestError{message: "request body is required"}
	}
	return &requestError{message: "malformed request body: " + err.Error()}
}

func fieldErrors(verrs validator.ValidationErrors) *requestError {
	fields := make(map[string][]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = append(fields[fe.Field()], fieldMessage(fe))
	}
	return &requestError{message: "invalid input", fields: fields}
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "email":
		return "must be a valid email"
	case "url", "http_url":
		return "must be a valid URL"
	default:
		return "failed " + fe.Tag() + " validation"
	}
}

// uuidParam binds a UUID path parameter the way generated oapi-codegen
// routers do.
func uuidParam(r *http.Request, name string) (uuid.UUID, error) {
	var id openapi_types.UUID
	err := runtime.BindStyledParameterWithOptions("simple", name, chi.URLParam(r, name), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return uuid.Nil, &requestError{
			message: "invalid path parameter",
			fields:  map[string][]string{name: {"must be a UUID"}},
		}
	}
	return id, nil
}
