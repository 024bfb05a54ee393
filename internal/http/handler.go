package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"

	"github.com/tuanvumaihuynh/stock-ledger/internal/apperr"
	"github.com/tuanvumaihuynh/stock-ledger/internal/http/apierr"
)

const maxBodyBytes = 1 << 20

// handlerFunc is an http.HandlerFunc that reports failures instead of
// writing them. Service.wrap turns the error into an ErrorResponse.
type handlerFunc func(w http.ResponseWriter, r *http.Request) error

func badRequest(param string, err error) error {
	return apperr.ValidationErr.WrapParent(&apierr.BindError{Param: param, Err: err})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			err = errors.New("request body is empty")
		}
		return badRequest("body", err)
	}
	return nil
}

func pathParam(r *http.Request, name string, dst any) error {
	err := runtime.BindStyledParameterWithOptions("simple", name, chi.URLParam(r, name), dst,
		runtime.BindStyledParameterOptions{
			ParamLocation: runtime.ParamLocationPath,
			Explode:       false,
			Required:      true,
		})
	if err != nil {
		return badRequest(name, err)
	}
	return nil
}

func pathID(r *http.Request, name string) (int64, error) {
	var id int64
	if err := pathParam(r, name, &id); err != nil {
		return 0, err
	}
	return id, nil
}

// queryParam returns fallback when the parameter is absent.
func queryParam[T any](r *http.Request, name string, fallback T) (T, error) {
	var v *T
	if err := runtime.BindQueryParameter("form", true, false, name, r.URL.Query(), &v); err != nil {
		return fallback, badRequest(name, err)
	}
	if v == nil {
		return fallback, nil
	}
	return *v, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

func noContent(w http.ResponseWriter) error {
	w.WriteHeader(http.StatusNoContent)
	return nil
}

// list keeps empty collections encoded as [] rather than null.
func list[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
