// Package entity defines the entities and errors used in the application.
// It includes the URL struct, which maps a numeric short code to the original URL,
// along with the sentinel errors shared by the use case and adapter layers.
package entity

import (
	"errors"
	"time"
)

// URLSequence is the name of the counter that hands out short codes.
const URLSequence = "url_count"

var (
	// ErrShortCodeExists is returned when attempting to save a URL with a short code that already exists.
	ErrShortCodeExists = errors.New("short code exists")
	// ErrOriginalURLExists is returned when attempting to save an original URL that already has a short code.
	ErrOriginalURLExists = errors.New("original url exists")
	// ErrURLNotFound is returned when a URL with the specified short code or original URL cannot be found.
	ErrURLNotFound = errors.New("url not found")
	// ErrInvalidURL is returned when the submitted URL is malformed or its host does not resolve.
	ErrInvalidURL = errors.New("invalid url")
)

// URL represents a shortened URL.
type URL struct {
	ShortCode   int64     // ShortCode is the sequence number assigned to the original URL.
	OriginalURL string    // OriginalURL is the full URL that the short code resolves to.
	CreatedAt   time.Time // CreatedAt is the timestamp when the URL was shortened.
}
