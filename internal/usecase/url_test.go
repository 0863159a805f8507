package usecase

import (
	"context"
	"errors"
	"net"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/vadimbarashkov/shorturl/internal/entity"
	"github.com/vadimbarashkov/shorturl/mocks/usecase"
)

type URLUseCaseTestSuite struct {
	suite.Suite
	errUnknown   error
	urlRepoMock  *usecase.MockUrlRepository
	seqMock      *usecase.MockSequenceAllocator
	resolverMock *usecase.MockHostResolver
	uc           *URLUseCase
}

func (suite *URLUseCaseTestSuite) SetupSuite() {
	suite.errUnknown = errors.New("unknown error")
}

func (suite *URLUseCaseTestSuite) SetupSubTest() {
	suite.urlRepoMock = usecase.NewMockUrlRepository(suite.T())
	suite.seqMock = usecase.NewMockSequenceAllocator(suite.T())
	suite.resolverMock = usecase.NewMockHostResolver(suite.T())
	suite.uc = NewURLUseCase(suite.urlRepoMock, suite.seqMock, suite.resolverMock)
}

func (suite *URLUseCaseTestSuite) expectResolved(host string) {
	suite.resolverMock.
		On("LookupHost", mock.Anything, host).
		Once().
		Return([]string{"93.184.215.14"}, nil)
}

func (suite *URLUseCaseTestSuite) TestShortenURL() {
	const originalURL = "https://example.com/some/long/path"

	suite.Run("malformed url", func() {
		for _, raw := range []string{"not a url", "", "example.com", "mailto:user@example.com", "http://", "://missing-scheme"} {
			url, err := suite.uc.ShortenURL(context.Background(), raw)

			suite.ErrorIs(err, entity.ErrInvalidURL, raw)
			suite.Nil(url)
		}
	})

	suite.Run("unresolvable host", func() {
		dnsErr := &net.DNSError{Err: "no such host", Name: "this-domain-does-not-exist.invalid", IsNotFound: true}

		suite.resolverMock.
			On("LookupHost", mock.Anything, "this-domain-does-not-exist.invalid").
			Once().
			Return(nil, dnsErr)

		url, err := suite.uc.ShortenURL(context.Background(), "http://this-domain-does-not-exist.invalid")

		suite.ErrorIs(err, entity.ErrInvalidURL)
		suite.ErrorIs(err, dnsErr)
		suite.Nil(url)
	})

	suite.Run("already shortened", func() {
		suite.expectResolved("example.com")
		suite.urlRepoMock.
			On("RetrieveByOriginalURL", mock.Anything, originalURL).
			Once().
			Return(&entity.URL{ShortCode: 3, OriginalURL: originalURL}, nil)

		url, err := suite.uc.ShortenURL(context.Background(), originalURL)

		suite.NoError(err)
		suite.Equal(int64(3), url.ShortCode)
		suite.seqMock.AssertNotCalled(suite.T(), "NextSequence", mock.Anything, mock.Anything)
	})

	suite.Run("lookup error", func() {
		suite.expectResolved("example.com")
		suite.urlRepoMock.
			On("RetrieveByOriginalURL", mock.Anything, originalURL).
			Once().
			Return(nil, suite.errUnknown)

		url, err := suite.uc.ShortenURL(context.Background(), originalURL)

		suite.ErrorIs(err, suite.errUnknown)
		suite.NotErrorIs(err, entity.ErrInvalidURL)
		suite.Nil(url)
	})

	suite.Run("allocation error", func() {
		suite.expectResolved("example.com")
		suite.urlRepoMock.
			On("RetrieveByOriginalURL", mock.Anything, originalURL).
			Once().
			Return(nil, entity.ErrURLNotFound)
		suite.seqMock.
			On("NextSequence", mock.Anything, entity.URLSequence).
			Once().
			Return(int64(0), suite.errUnknown)

		url, err := suite.uc.ShortenURL(context.Background(), originalURL)

		suite.ErrorIs(err, suite.errUnknown)
		suite.Nil(url)
	})

	suite.Run("short code exists", func() {
		suite.expectResolved("example.com")
		suite.urlRepoMock.
			On("RetrieveByOriginalURL", mock.Anything, originalURL).
			Once().
			Return(nil, entity.ErrURLNotFound)
		suite.seqMock.
			On("NextSequence", mock.Anything, entity.URLSequence).
			Once().
			Return(int64(5), nil)
		suite.urlRepoMock.
			On("Save", mock.Anything, int64(5), originalURL).
			Once().
			Return(nil, entity.ErrShortCodeExists)

		url, err := suite.uc.ShortenURL(context.Background(), originalURL)

		suite.ErrorIs(err, entity.ErrShortCodeExists)
		suite.Nil(url)
	})

	suite.Run("concurrent submission of the same url", func() {
		suite.expectResolved("example.com")
		suite.urlRepoMock.
			On("RetrieveByOriginalURL", mock.Anything, originalURL).
			Once().
			Return(nil, entity.ErrURLNotFound)
		suite.seqMock.
			On("NextSequence", mock.Anything, entity.URLSequence).
			Once().
			Return(int64(6), nil)
		suite.urlRepoMock.
			On("Save", mock.Anything, int64(6), originalURL).
			Once().
			Return(nil, entity.ErrOriginalURLExists)
		suite.urlRepoMock.
			On("RetrieveByOriginalURL", mock.Anything, originalURL).
			Once().
			Return(&entity.URL{ShortCode: 5, OriginalURL: originalURL}, nil)

		url, err := suite.uc.ShortenURL(context.Background(), originalURL)

		suite.NoError(err)
		suite.Equal(int64(5), url.ShortCode)
	})

	suite.Run("success", func() {
		suite.expectResolved("example.com")
		suite.urlRepoMock.
			On("RetrieveByOriginalURL", mock.Anything, originalURL).
			Once().
			Return(nil, entity.ErrURLNotFound)
		suite.seqMock.
			On("NextSequence", mock.Anything, entity.URLSequence).
			Once().
			Return(int64(1), nil)
		suite.urlRepoMock.
			On("Save", mock.Anything, int64(1), originalURL).
			Once().
			Return(&entity.URL{ShortCode: 1, OriginalURL: originalURL}, nil)

		url, err := suite.uc.ShortenURL(context.Background(), originalURL)

		suite.NoError(err)
		suite.NotNil(url)
		suite.Equal(int64(1), url.ShortCode)
		suite.Equal(originalURL, url.OriginalURL)
	})

	suite.Run("host with port", func() {
		suite.expectResolved("localhost")
		suite.urlRepoMock.
			On("RetrieveByOriginalURL", mock.Anything, "http://localhost:8080/x").
			Once().
			Return(&entity.URL{ShortCode: 9, OriginalURL: "http://localhost:8080/x"}, nil)

		url, err := suite.uc.ShortenURL(context.Background(), "http://localhost:8080/x")

		suite.NoError(err)
		suite.Equal(int64(9), url.ShortCode)
	})
}

func (suite *URLUseCaseTestSuite) TestResolveShortCode() {
	suite.Run("url not found", func() {
		suite.urlRepoMock.
			On("RetrieveByShortCode", mock.Anything, int64(999999)).
			Once().
			Return(nil, entity.ErrURLNotFound)

		url, err := suite.uc.ResolveShortCode(context.Background(), 999999)

		suite.ErrorIs(err, entity.ErrURLNotFound)
		suite.Nil(url)
	})

	suite.Run("unknown error", func() {
		suite.urlRepoMock.
			On("RetrieveByShortCode", mock.Anything, int64(1)).
			Once().
			Return(nil, suite.errUnknown)

		url, err := suite.uc.ResolveShortCode(context.Background(), 1)

		suite.ErrorIs(err, suite.errUnknown)
		suite.Nil(url)
	})

	suite.Run("success", func() {
		suite.urlRepoMock.
			On("RetrieveByShortCode", mock.Anything, int64(1)).
			Once().
			Return(&entity.URL{ShortCode: 1, OriginalURL: "https://example.com"}, nil)

		url, err := suite.uc.ResolveShortCode(context.Background(), 1)

		suite.NoError(err)
		suite.Equal("https://example.com", url.OriginalURL)
	})
}

func TestURLUseCase(t *testing.T) {
	suite.Run(t, new(URLUseCaseTestSuite))
}
