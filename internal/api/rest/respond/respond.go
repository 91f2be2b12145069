// Package respond writes JSON and RFC 7807 problem responses.
package respond

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/easy-books/easy-books-server/internal/apierrors"
)

const (
	maxBodyBytes      = 1 << 20
	retryAfterSeconds = 5
)

// Problem is an RFC 7807 problem document.
type Problem struct {
	Type   string `json:"type,omitempty"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Code   string `json:"code,omitempty"`
	Detail string `json:"detail,omitempty"`
}

// JSON sends data as a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// Error renders err as a problem document. APIErrors keep their status and
// message; anything else becomes an opaque 500.
func Error(w http.ResponseWriter, err error) {
	apiErr, ok := apierrors.As(err)
	if !ok {
		apiErr = apierrors.NewErrInternalServerError(err)
	}

	if apiErr.HTTPCode == http.StatusServiceUnavailable {
		w.Header().Set("Retry-After", strconv.Itoa(retryAfterSeconds))
	}

	detail := apiErr.Message
	if apiErr.HTTPCode >= http.StatusInternalServerError && apiErr.HTTPCode != http.StatusServiceUnavailable {
		detail = ""
	}

	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(apiErr.HTTPCode)
	_ = json.NewEncoder(w).Encode(Problem{
		Title:  http.StatusText(apiErr.HTTPCode),
		Status: apiErr.HTTPCode,
		Code:   apiErr.Code,
		Detail: detail,
	})
}

// DecodeJSON decodes a single JSON object from the request body into target.
// Unknown fields, trailing data and bodies over 1MiB are rejected as invalid input.
// Numbers bound to untyped values are kept as json.Number so no digits are lost.
func DecodeJSON(w http.ResponseWriter, r *http.Request, target any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	dec.UseNumber()

	if err := dec.Decode(target); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return apierrors.NewErrInvalidInput("request body is too large")
		}
		return apierrors.NewErrInvalidInput(fmt.Sprintf("malformed request body: %v", err))
	}

	if dec.More() {
		return apierrors.NewErrInvalidInput("request body must contain a single JSON object")
	}

	return nil
}
