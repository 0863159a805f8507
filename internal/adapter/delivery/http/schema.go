package http

import (
	"strings"

	"github.com/vadimbarashkov/shorturl/internal/entity"
)

// shortenRequest is the body of a shorten request. Clients send either url or input.
type shortenRequest struct {
	URL   string `json:"url"`
	Input string `json:"input"`
}

// originalURL returns url, falling back to input, with surrounding whitespace removed.
func (req shortenRequest) originalURL() string {
	if req.URL != "" {
		return strings.TrimSpace(req.URL)
	}
	return strings.TrimSpace(req.Input)
}

// urlResponse represents the structure for a response containing shortened URL information.
type urlResponse struct {
	OriginalURL string `json:"original_url"`
	ShortURL    int64  `json:"short_url"`
}

// toURLResponse converts an entity.URL to a urlResponse.
func toURLResponse(url *entity.URL) urlResponse {
	return urlResponse{
		OriginalURL: url.OriginalURL,
		ShortURL:    url.ShortCode,
	}
}

// debugResponse reports the connection string under both its current key and the
// mongoUri key older clients read.
type debugResponse struct {
	DatabaseURI string `json:"database_uri"`
	MongoURI    string `json:"mongoUri"`
}

// errorResponse represents an error reported to the client.
type errorResponse struct {
	Error string `json:"error"`
}

// Predefined error responses.
var (
	invalidURLResponse = errorResponse{
		Error: "invalid url",
	}

	wrongFormatResponse = errorResponse{
		Error: "Wrong format",
	}

	urlNotFoundResponse = errorResponse{
		Error: "No short URL found for given input",
	}

	serverErrorResponse = errorResponse{
		Error: "server error",
	}
)
