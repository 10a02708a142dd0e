package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"dating-backend/internal/apperr"
	"dating-backend/internal/pagination"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(v)
}

// respondError sends an error response
func respondError(w http.ResponseWriter, message string, statusCode int) {
	respondJSON(w, statusCode, ErrorResponse{Error: message})
}

// respondServiceError translates the service error taxonomy to HTTP
// status codes.
func respondServiceError(w http.ResponseWriter, err error) {
	statusCode := http.StatusInternalServerError
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		statusCode = http.StatusNotFound
	case errors.Is(err, apperr.ErrUnauthorized):
		statusCode = http.StatusForbidden
	case errors.Is(err, apperr.ErrConflict):
		statusCode = http.StatusConflict
	case errors.Is(err, apperr.ErrInvalidOperation):
		statusCode = http.StatusBadRequest
	case errors.Is(err, apperr.ErrExternalFailure):
		statusCode = http.StatusBadGateway
	}
	respondError(w, err.Error(), statusCode)
}

// paginationHeader carries the page metadata clients read from the
// Pagination response header, separate from the item payload.
type paginationHeader struct {
	CurrentPage int `json:"currentPage"`
	PageSize    int `json:"itemsPerPage"`
	TotalCount  int `json:"totalItems"`
	TotalPages  int `json:"totalPages"`
}

// writePagination adds the Pagination header for a page of results.
// Must be called before the body is written.
func writePagination[T any](w http.ResponseWriter, page pagination.Page[T]) {
	header, err := json.Marshal(paginationHeader{
		CurrentPage: page.CurrentPage,
		PageSize:    page.PageSize,
		TotalCount:  page.TotalCount,
		TotalPages:  page.TotalPages,
	})
	if err != nil {
		return
	}
	w.Header().Set("Pagination", string(header))
	w.Header().Set("Access-Control-Expose-Headers", "Pagination")
}

// pageParams parses pageNumber/pageSize query parameters
func pageParams(r *http.Request) pagination.Params {
	var params pagination.Params
	if v, err := strconv.Atoi(r.URL.Query().Get("pageNumber")); err == nil {
		params.PageNumber = v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("pageSize")); err == nil {
		params.PageSize = v
	}
	return params
}

// pathID parses a numeric id from the route
func pathID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, name), 10, 64)
}
