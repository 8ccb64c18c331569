package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func TestStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, Validation("bad %s", "input").Status())
	assert.Equal(t, http.StatusUnauthorized, Authentication("no token").Status())
	assert.Equal(t, http.StatusForbidden, Authorization("nope").Status())
	assert.Equal(t, http.StatusNotFound, NotFound("missing").Status())
	assert.Equal(t, http.StatusInternalServerError, Internal(errors.New("boom")).Status())
}

func TestFromError(t *testing.T) {
	assert.Nil(t, FromError(nil))

	raw := errors.New("connection refused")
	e := FromError(raw)
	assert.Equal(t, KindInternal, e.Kind)
	assert.Equal(t, "connection refused", e.Message)

	wrapped := fmt.Errorf("loading: %w", NotFound("route not found"))
	assert.Equal(t, KindNotFound, FromError(wrapped).Kind)

	assert.Equal(t, KindValidation, FromError(&pq.Error{Code: "23505"}).Kind)
	assert.Equal(t, KindValidation, FromError(&pgconn.PgError{Code: "23505"}).Kind)
	assert.Equal(t, KindValidation, FromError(gorm.ErrDuplicatedKey).Kind)
	assert.Equal(t, KindInternal, FromError(&pq.Error{Code: "23503"}).Kind)
}

func TestNotFoundOr(t *testing.T) {
	assert.Nil(t, NotFoundOr(nil, "x"))

	err := NotFoundOr(gorm.ErrRecordNotFound, "trip not found")
	assert.True(t, Is(err, KindNotFound))
	assert.Equal(t, "trip not found", FromError(err).Message)

	other := errors.New("boom")
	assert.Same(t, other, NotFoundOr(other, "x"))
}

type stop struct {
	ID     uint   `gorm:"primaryKey"`
	StopID string `gorm:"uniqueIndex"`
}

// A unique violation raised by postgres through lib/pq surfaces as a 400.
func TestDuplicateKeyFromPostgres(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "stops"`)).
		WillReturnError(&pq.Error{Code: "23505", Message: `duplicate key value violates unique constraint "idx_stops_stop_id"`})
	mock.ExpectRollback()

	err = db.Create(&stop{StopID: "S1"}).Error
	require.Error(t, err)

	e := FromError(err)
	assert.Equal(t, KindValidation, e.Kind)
	assert.Equal(t, http.StatusBadRequest, e.Status())
	assert.NoError(t, mock.ExpectationsWereMet())
}
