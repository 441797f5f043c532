package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/roach88/kgraph/internal/query"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// envelope is the success response body.
type envelope struct {
	Data any `json:"data"`
}

// errorBody is the error response body.
type errorBody struct {
	Error apiError `json:"error"`
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error codes returned in error bodies.
const (
	CodeBadRequest = "bad_request"
	CodeNotFound   = "not_found"
	CodeInternal   = "internal"
)

// badRequest marks a request the handler could not decode.
type badRequest struct {
	err error
}

func (e *badRequest) Error() string { return e.err.Error() }
func (e *badRequest) Unwrap() error { return e.err }

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeData(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, envelope{Data: data})
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorBody{Error: apiError{Code: code, Message: message}})
}

func writeNotFound(w http.ResponseWriter, kind, id string) {
	writeError(w, http.StatusNotFound, CodeNotFound, fmt.Sprintf("%s %q not found", kind, id))
}

// fail maps err to a status: input problems are 400, everything else 500.
// Storage failure details are logged, not returned.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	var br *badRequest
	switch {
	case errors.As(err, &br), query.IsInputError(err):
		writeError(w, http.StatusBadRequest, CodeBadRequest, err.Error())
	default:
		s.logger.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
		writeError(w, http.StatusInternalServerError, CodeInternal, "internal error")
	}
}

// decodeBody decodes a JSON request body into v, rejecting unknown fields.
// An empty body leaves v untouched.
func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return &badRequest{fmt.Errorf("decode body: %w", err)}
	}
	return nil
}

// pageParams reads limit and offset query parameters.
func pageParams(r *http.Request) (query.Page, error) {
	var p query.Page
	for name, dst := range map[string]**int{"limit": &p.Limit, "offset": &p.Offset} {
		raw := r.URL.Query().Get(name)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return query.Page{}, &badRequest{fmt.Errorf("invalid %s %q", name, raw)}
		}
		*dst = &n
	}
	return p, nil
}

// optionalParam returns a pointer to the query parameter, or nil if absent.
func optionalParam(r *http.Request, name string) *string {
	if !r.URL.Query().Has(name) {
		return nil
	}
	v := r.URL.Query().Get(name)
	return &v
}

