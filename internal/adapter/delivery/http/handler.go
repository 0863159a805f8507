package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"unicode"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httplog/v2"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"github.com/vadimbarashkov/shorturl/internal/entity"
)

func handlePing(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, "pong")
}

func handleIndex(staticDir string) http.HandlerFunc {
	index := filepath.Join(staticDir, "index.html")

	return func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, index)
	}
}

func handleDebug(databaseURI string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, debugResponse{
			DatabaseURI: databaseURI,
			MongoURI:    databaseURI,
		})
	}
}

type urlUseCase interface {
	ShortenURL(ctx context.Context, originalURL string) (*entity.URL, error)
	ResolveShortCode(ctx context.Context, shortCode int64) (*entity.URL, error)
}

type urlHandler struct {
	useCase  urlUseCase
	validate *validator.Validate
}

func newURLHandler(useCase urlUseCase, validate *validator.Validate) *urlHandler {
	return &urlHandler{
		useCase:  useCase,
		validate: validate,
	}
}

// shortenURL answers invalid input with a 200 and an error body, not an error status.
func (h *urlHandler) shortenURL(w http.ResponseWriter, r *http.Request) {
	req, err := decodeShortenRequest(r)
	if err != nil {
		render.JSON(w, r, invalidURLResponse)
		return
	}

	originalURL := req.originalURL()

	if err := h.validate.Var(originalURL, "required,url"); err != nil {
		render.JSON(w, r, invalidURLResponse)
		return
	}

	url, err := h.useCase.ShortenURL(r.Context(), originalURL)
	if err != nil {
		if errors.Is(err, entity.ErrInvalidURL) {
			render.JSON(w, r, invalidURLResponse)
			return
		}

		httplog.LogEntrySetField(r.Context(), "err", slog.AnyValue(err))

		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, serverErrorResponse)
		return
	}

	render.JSON(w, r, toURLResponse(url))
}

func (h *urlHandler) redirect(w http.ResponseWriter, r *http.Request) {
	shortCode, err := parseShortCode(chi.URLParam(r, "short"))
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, urlNotFoundResponse)
			return
		}

		render.JSON(w, r, wrongFormatResponse)
		return
	}

	url, err := h.useCase.ResolveShortCode(r.Context(), shortCode)
	if err != nil {
		if errors.Is(err, entity.ErrURLNotFound) {
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, urlNotFoundResponse)
			return
		}

		httplog.LogEntrySetField(r.Context(), "err", slog.AnyValue(err))

		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, serverErrorResponse)
		return
	}

	http.Redirect(w, r, url.OriginalURL, http.StatusFound)
}

// parseShortCode reads the leading base-10 integer of s after any leading whitespace,
// so "12abc" and "12.5" both yield 12. A value outside int64 reports strconv.ErrRange.
func parseShortCode(s string) (int64, error) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)

	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}

	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}

	if end == digits {
		return 0, strconv.ErrSyntax
	}

	return strconv.ParseInt(s[:end], 10, 64)
}

// decodeShortenRequest reads url-encoded forms and falls back to JSON for every other content type.
func decodeShortenRequest(r *http.Request) (shortenRequest, error) {
	var req shortenRequest

	if render.GetRequestContentType(r) == render.ContentTypeForm {
		if err := r.ParseForm(); err != nil {
			return req, err
		}

		req.URL = r.PostForm.Get("url")
		req.Input = r.PostForm.Get("input")
		return req, nil
	}

	err := render.DecodeJSON(r.Body, &req)
	return req, err
}
