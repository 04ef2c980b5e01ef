package http

import (
	"encoding/json"
	"net/http"
)

// ListResponse wraps a list of items.
type ListResponse[T any] struct {
	Data  []T `json:"data"`
	Count int `json:"count"`
}

// WriteJSON writes a JSON response with the given status code
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// Log the error but don't try to write again
		// The header has already been sent
	}
}

// WriteSuccess writes a 200 response
func WriteSuccess(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusOK, data)
}

// WriteList writes a simple list response
func WriteList[T any](w http.ResponseWriter, data []T) {
	WriteJSON(w, http.StatusOK, ListResponse[T]{
		Data:  data,
		Count: len(data),
	})
}
