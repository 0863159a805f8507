// Package usecase holds the URL shortening business logic: validating submissions,
// deduplicating them, and allocating numeric short codes.
package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/vadimbarashkov/shorturl/internal/entity"
)

type urlRepository interface {
	Save(ctx context.Context, shortCode int64, originalURL string) (*entity.URL, error)
	RetrieveByShortCode(ctx context.Context, shortCode int64) (*entity.URL, error)
	RetrieveByOriginalURL(ctx context.Context, originalURL string) (*entity.URL, error)
}

type sequenceAllocator interface {
	NextSequence(ctx context.Context, name string) (int64, error)
}

// hostResolver is satisfied by *net.Resolver.
type hostResolver interface {
	LookupHost(ctx context.Context, host string) ([]string, error)
}

type URLUseCase struct {
	urlRepo  urlRepository
	seq      sequenceAllocator
	resolver hostResolver
}

func NewURLUseCase(urlRepo urlRepository, seq sequenceAllocator, resolver hostResolver) *URLUseCase {
	return &URLUseCase{
		urlRepo:  urlRepo,
		seq:      seq,
		resolver: resolver,
	}
}

// ShortenURL returns the record for originalURL, allocating the next short code
// if the URL has not been seen before. A URL without scheme and host, or whose
// host does not resolve, yields entity.ErrInvalidURL.
func (uc *URLUseCase) ShortenURL(ctx context.Context, originalURL string) (*entity.URL, error) {
	const op = "usecase.URLUseCase.ShortenURL"

	host, err := hostname(originalURL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if _, err := uc.resolver.LookupHost(ctx, host); err != nil {
		return nil, fmt.Errorf("%s: failed to resolve host %q: %w: %w", op, host, entity.ErrInvalidURL, err)
	}

	url, err := uc.urlRepo.RetrieveByOriginalURL(ctx, originalURL)
	if err == nil {
		return url, nil
	}
	if !errors.Is(err, entity.ErrURLNotFound) {
		return nil, fmt.Errorf("%s: failed to look up original url: %w", op, err)
	}

	shortCode, err := uc.seq.NextSequence(ctx, entity.URLSequence)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to allocate short code: %w", op, err)
	}

	url, err = uc.urlRepo.Save(ctx, shortCode, originalURL)
	if err != nil {
		if !errors.Is(err, entity.ErrOriginalURLExists) {
			return nil, fmt.Errorf("%s: failed to save url: %w", op, err)
		}

		// A concurrent request stored the same URL first; its record wins.
		url, err = uc.urlRepo.RetrieveByOriginalURL(ctx, originalURL)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to look up original url: %w", op, err)
		}
	}

	return url, nil
}

func (uc *URLUseCase) ResolveShortCode(ctx context.Context, shortCode int64) (*entity.URL, error) {
	const op = "usecase.URLUseCase.ResolveShortCode"

	url, err := uc.urlRepo.RetrieveByShortCode(ctx, shortCode)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to resolve short code: %w", op, err)
	}

	return url, nil
}

func hostname(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("%w: %w", entity.ErrInvalidURL, err)
	}

	if u.Scheme == "" || u.Hostname() == "" {
		return "", entity.ErrInvalidURL
	}

	return u.Hostname(), nil
}
