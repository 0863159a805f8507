package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/suite"
	"github.com/vadimbarashkov/shorturl/internal/entity"
)

const uniqueViolationErrCode = "23505"

type URLRepositoryTestSuite struct {
	suite.Suite
	errUnknown error
	columns    []string
	mock       sqlmock.Sqlmock
	repo       *URLRepository
}

func (suite *URLRepositoryTestSuite) SetupSuite() {
	suite.errUnknown = errors.New("unknown error")
	suite.columns = []string{"short_code", "original_url", "created_at"}
}

func (suite *URLRepositoryTestSuite) SetupSubTest() {
	mockDB, mock, err := sqlmock.New()
	if err != nil {
		suite.T().Fatalf("Failed to create mock database: %v", err)
	}
	suite.T().Cleanup(func() {
		mockDB.Close()
	})

	suite.mock = mock
	suite.repo = NewURLRepository(sqlx.NewDb(mockDB, "sqlmock"))
}

func (suite *URLRepositoryTestSuite) TearDownSubTest() {
	suite.NoError(suite.mock.ExpectationsWereMet())
}

func (suite *URLRepositoryTestSuite) TestSave() {
	suite.Run("short code exists", func() {
		suite.mock.ExpectQuery(`INSERT INTO urls`).
			WithArgs(int64(1), "https://example.com").
			WillReturnError(&pgconn.PgError{Code: uniqueViolationErrCode, ConstraintName: shortCodeConstraint})

		url, err := suite.repo.Save(context.Background(), 1, "https://example.com")

		suite.Error(err)
		suite.ErrorIs(err, entity.ErrShortCodeExists)
		suite.Nil(url)
	})

	suite.Run("original url exists", func() {
		suite.mock.ExpectQuery(`INSERT INTO urls`).
			WithArgs(int64(2), "https://example.com").
			WillReturnError(&pgconn.PgError{Code: uniqueViolationErrCode, ConstraintName: originalURLConstraint})

		url, err := suite.repo.Save(context.Background(), 2, "https://example.com")

		suite.Error(err)
		suite.ErrorIs(err, entity.ErrOriginalURLExists)
		suite.Nil(url)
	})

	suite.Run("unknown error", func() {
		suite.mock.ExpectQuery(`INSERT INTO urls`).
			WithArgs(int64(1), "https://example.com").
			WillReturnError(suite.errUnknown)

		url, err := suite.repo.Save(context.Background(), 1, "https://example.com")

		suite.Error(err)
		suite.ErrorIs(err, suite.errUnknown)
		suite.Nil(url)
	})

	suite.Run("success", func() {
		rows := sqlmock.NewRows(suite.columns).
			AddRow(int64(1), "https://example.com", time.Time{})

		suite.mock.ExpectQuery(`INSERT INTO urls`).
			WithArgs(int64(1), "https://example.com").
			WillReturnRows(rows)

		url, err := suite.repo.Save(context.Background(), 1, "https://example.com")

		suite.NoError(err)
		suite.NotNil(url)
		suite.Equal(int64(1), url.ShortCode)
		suite.Equal("https://example.com", url.OriginalURL)
	})
}

func (suite *URLRepositoryTestSuite) TestRetrieveByShortCode() {
	suite.Run("url not found", func() {
		suite.mock.ExpectQuery(`SELECT (.+) FROM urls WHERE short_code`).
			WithArgs(int64(999999)).
			WillReturnError(sql.ErrNoRows)

		url, err := suite.repo.RetrieveByShortCode(context.Background(), 999999)

		suite.Error(err)
		suite.ErrorIs(err, entity.ErrURLNotFound)
		suite.Nil(url)
	})

	suite.Run("unknown error", func() {
		suite.mock.ExpectQuery(`SELECT (.+) FROM urls WHERE short_code`).
			WithArgs(int64(1)).
			WillReturnError(suite.errUnknown)

		url, err := suite.repo.RetrieveByShortCode(context.Background(), 1)

		suite.Error(err)
		suite.ErrorIs(err, suite.errUnknown)
		suite.Nil(url)
	})

	suite.Run("success", func() {
		rows := sqlmock.NewRows(suite.columns).
			AddRow(int64(1), "https://example.com", time.Time{})

		suite.mock.ExpectQuery(`SELECT (.+) FROM urls WHERE short_code`).
			WithArgs(int64(1)).
			WillReturnRows(rows)

		url, err := suite.repo.RetrieveByShortCode(context.Background(), 1)

		suite.NoError(err)
		suite.NotNil(url)
		suite.Equal(int64(1), url.ShortCode)
		suite.Equal("https://example.com", url.OriginalURL)
	})
}

func (suite *URLRepositoryTestSuite) TestRetrieveByOriginalURL() {
	suite.Run("url not found", func() {
		suite.mock.ExpectQuery(`SELECT (.+) FROM urls WHERE md5\(original_url\)`).
			WithArgs("https://example.com").
			WillReturnError(sql.ErrNoRows)

		url, err := suite.repo.RetrieveByOriginalURL(context.Background(), "https://example.com")

		suite.Error(err)
		suite.ErrorIs(err, entity.ErrURLNotFound)
		suite.Nil(url)
	})

	suite.Run("unknown error", func() {
		suite.mock.ExpectQuery(`SELECT (.+) FROM urls WHERE md5\(original_url\)`).
			WithArgs("https://example.com").
			WillReturnError(suite.errUnknown)

		url, err := suite.repo.RetrieveByOriginalURL(context.Background(), "https://example.com")

		suite.Error(err)
		suite.ErrorIs(err, suite.errUnknown)
		suite.Nil(url)
	})

	suite.Run("success", func() {
		rows := sqlmock.NewRows(suite.columns).
			AddRow(int64(7), "https://example.com", time.Time{})

		suite.mock.ExpectQuery(`SELECT (.+) FROM urls WHERE md5\(original_url\)`).
			WithArgs("https://example.com").
			WillReturnRows(rows)

		url, err := suite.repo.RetrieveByOriginalURL(context.Background(), "https://example.com")

		suite.NoError(err)
		suite.NotNil(url)
		suite.Equal(int64(7), url.ShortCode)
		suite.Equal("https://example.com", url.OriginalURL)
	})
}

func TestURLRepository(t *testing.T) {
	suite.Run(t, new(URLRepositoryTestSuite))
}
