package httputil

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"allmanager/internal/config"
	"allmanager/internal/domain"
)

// ParseJSON decodes a JSON request body into dest.
// The Content-Type must name application/json and the body is capped at
// config.MaxJSONBodyBytes. Errors wrap ErrUnsupportedMediaType,
// ErrPayloadTooLarge or ErrValidation.
func ParseJSON(w http.ResponseWriter, r *http.Request, dest interface{}) error {
	if err := CheckJSONRequest(r); err != nil {
		return err
	}

	r.Body = http.MaxBytesReader(w, r.Body, config.MaxJSONBodyBytes)

	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(dest); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return fmt.Errorf("request body exceeds %d bytes: %w", config.MaxJSONBodyBytes, domain.ErrPayloadTooLarge)
		}
		if errors.Is(err, io.EOF) {
			return &domain.ValidationError{Message: "Request body is required"}
		}
		return &domain.ValidationError{Message: "Invalid JSON"}
	}

	return nil
}

// CheckJSONRequest validates the Content-Type and declared Content-Length
// without reading the body.
func CheckJSONRequest(r *http.Request) error {
	contentType := strings.ToLower(r.Header.Get("Content-Type"))
	if !strings.Contains(contentType, "application/json") {
		return fmt.Errorf("content type %q: %w", contentType, domain.ErrUnsupportedMediaType)
	}
	if r.ContentLength > config.MaxJSONBodyBytes {
		return fmt.Errorf("request body exceeds %d bytes: %w", config.MaxJSONBodyBytes, domain.ErrPayloadTooLarge)
	}
	return nil
}
