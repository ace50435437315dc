package httputil

import (
	"net/http"
	"strconv"

	"allmanager/internal/domain"
)

// ParsePositiveID parses a path id. Anything but a positive integer is rejected.
func ParsePositiveID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, &domain.ValidationError{Message: "Invalid id"}
	}
	return id, nil
}

// PathID reads and parses the {id} path value.
func PathID(r *http.Request) (int64, error) {
	return ParsePositiveID(r.PathValue("id"))
}
