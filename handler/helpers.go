package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"reflect"
	"strconv"
	"strings"

	"github.com/emzola/bookreviews/data"
	"github.com/emzola/bookreviews/internal/validator"
	"github.com/emzola/bookreviews/service"
	"github.com/julienschmidt/httprouter"
)

type envelope map[string]interface{}

// readIDParam pulls the named url parameter from the request and returns it as
// a positive id.
func (h *Handler) readIDParam(r *http.Request, name string) (int64, error) {
	params := httprouter.ParamsFromContext(r.Context())
	id, err := strconv.ParseInt(params.ByName(name), 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid %s parameter", name)
	}
	return id, nil
}

// readString returns a string value from the query string, or the provided
// default value if no matching key could be found.
func (h *Handler) readString(qs url.Values, key string, defaultValue string) string {
	s := strings.TrimSpace(qs.Get(key))
	if s == "" {
		return defaultValue
	}
	return s
}

// readInt reads a string value from the query string and converts it to an
// integer before returning. A value that can't be converted is recorded in v.
func (h *Handler) readInt(qs url.Values, key string, defaultValue int, v *validator.Validator) int {
	s := qs.Get(key)
	if s == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		v.AddError(key, "must be an integer value")
		return defaultValue
	}
	return i
}

// readFilters reads the page and limit query parameters. Zero selects the
// default, so "limit=0" behaves like an absent limit.
func (h *Handler) readFilters(qs url.Values, defaultPageSize int, v *validator.Validator) data.Filters {
	filters := data.Filters{
		Page:     h.readInt(qs, "page", 1, v),
		PageSize: h.readInt(qs, "limit", defaultPageSize, v),
	}
	if filters.Page == 0 {
		filters.Page = 1
	}
	if filters.PageSize == 0 {
		filters.PageSize = defaultPageSize
	}
	return filters
}

// encodeJSON serializes data to JSON and writes the appropriate HTTP status code and headers if necessary.
func (h *Handler) encodeJSON(w http.ResponseWriter, status int, data envelope, headers http.Header) error {
	js, err := json.MarshalIndent(data, "", "\t")
	if err != nil {
		return err
	}
	js = append(js, '\n')
	for k, v := range headers {
		w.Header()[k] = v
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(js)
	return nil
}

// decodeJSON decodes a single JSON value from the request body into dst and
// turns decoding failures into messages fit for the client.
func (h *Handler) decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	maxBytes := 1_048_576
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxBytes))
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	err := dec.Decode(dst)
	if err != nil {
		var syntaxError *json.SyntaxError
		var unmarshalTypeError *json.UnmarshalTypeError
		var invalidUnmarshalError *json.InvalidUnmarshalError
		var maxBytesError *http.MaxBytesError
		switch {
		case errors.As(err, &syntaxError):
			return fmt.Errorf("body contains badly-formed JSON (at character %d)", syntaxError.Offset)
		case errors.Is(err, io.ErrUnexpectedEOF):
			return errors.New("body contains badly-formed JSON")
		case errors.As(err, &unmarshalTypeError):
			if unmarshalTypeError.Field != "" {
				return &service.ValidationError{Errors: map[string]string{
					unmarshalTypeError.Field: jsonTypeMessage(unmarshalTypeError.Type),
				}}
			}
			return fmt.Errorf("body contains incorrect JSON type (at character %d)", unmarshalTypeError.Offset)
		case errors.Is(err, io.EOF):
			return errors.New("body must not be empty")
		case strings.HasPrefix(err.Error(), "json: unknown field "):
			fieldName := strings.TrimPrefix(err.Error(), "json: unknown field ")
			return fmt.Errorf("body contains unknown key %s", fieldName)
		case errors.As(err, &maxBytesError):
			return fmt.Errorf("body must not be larger than %d bytes", maxBytes)
		case errors.As(err, &invalidUnmarshalError):
			panic(err)
		default:
			return err
		}
	}
	err = dec.Decode(&struct{}{})
	if err != io.EOF {
		return errors.New("body must only contain a single JSON value")
	}
	return nil
}

// jsonTypeMessage describes the JSON type a request field must have.
func jsonTypeMessage(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return "must be an integer"
	case reflect.String:
		return "must be a string"
	case reflect.Bool:
		return "must be a boolean"
	default:
		return "has an incorrect JSON type"
	}
}

// decodeErrorResponse sends a 422 for body fields of the wrong type and a 400
// for anything else decodeJSON rejects.
func (h *Handler) decodeErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, service.ErrFailedValidation) {
		h.failedValidationResponse(w, r, err)
		return
	}
	h.badRequestResponse(w, r, err)
}
