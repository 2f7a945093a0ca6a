// Package httpjson reads and writes the JSON bodies shared by the router and
// its middleware.
package httpjson

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"community-sport/backend/internal/apperr"
)

const maxBodyBytes = 1 << 20

type ErrorDetail struct {
	Kind    apperr.Kind `json:"kind"`
	Message string      `json:"message"`
}

type ErrorBody struct {
	Success bool        `json:"success"`
	Error   ErrorDetail `json:"error"`
}

func Write(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Read decodes a single JSON document from the request body into dst.
func Read(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return apperr.Validation("Request body is required")
		}
		return apperr.Validation("Invalid JSON body")
	}
	return nil
}

// ReadOptional is Read for endpoints whose body may be absent.
func ReadOptional(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return apperr.Validation("Invalid JSON body")
	}
	return nil
}

// Error writes err with the status of its kind. Errors without a kind are
// reported as upstream failures with a generic message.
func Error(w http.ResponseWriter, err error) {
	kind := apperr.KindOf(err)
	Write(w, apperr.HTTPStatus(kind), ErrorBody{
		Success: false,
		Error:   ErrorDetail{Kind: kind, Message: apperr.MessageOf(err)},
	})
}
