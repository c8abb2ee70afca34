// Package pathutil holds small helpers for pulling typed values out of
// REST-style URL paths.
package pathutil

import (
	"errors"
	"strconv"
	"strings"
)

// ErrInvalidID is returned when the trailing path segment isn't a positive
// integer.
var ErrInvalidID = errors.New("invalid id")

// ExtractID strips prefix from path and parses what remains as a positive
// int64 ID, e.g. ExtractID("/articles/123", "/articles/") == (123, nil).
func ExtractID(path, prefix string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimPrefix(path, prefix), 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidID
	}
	return id, nil
}
