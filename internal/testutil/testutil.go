// Package testutil builds an isolated in-memory database and the service
// graph on top of it for tests.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"transit_ops/internal/config"
	"transit_ops/internal/models"
	"transit_ops/internal/policy"
	"transit_ops/internal/repository"
	"transit_ops/internal/service"
)

const (
	Secret         = "test-secret-with-enough-length-0123456789"
	SuperAdminMail = "root@transit.test"
	Password       = "secret123"
)

// NewStore opens a private in-memory sqlite database with the full schema.
// One connection keeps the database alive and private to the test.
func NewStore(t *testing.T) *repository.Store {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?_pragma=foreign_keys(1)"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, config.Migrate(db))
	return repository.NewStore(db)
}

func NewTokens() *service.TokenService {
	return service.NewTokenService(Secret, 24*time.Hour)
}

// NewServices wires every service against store without cache or publisher.
func NewServices(t *testing.T, store *repository.Store) *service.Services {
	t.Helper()
	return service.New(service.Deps{
		Store:    store,
		Tokens:   NewTokens(),
		Accounts: policy.Accounts{ProtectedEmail: SuperAdminMail},
	})
}

// CreateUser inserts a user with Password as its password.
func CreateUser(t *testing.T, store *repository.Store, role policy.Role, email string, agencies ...models.Agency) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(Password), bcrypt.MinCost)
	require.NoError(t, err)
	u := &models.User{
		Username: string(role) + "-user",
		Email:    email,
		Password: string(hash),
		Role:     string(role),
		Agencies: agencies,
	}
	require.NoError(t, repository.Create(context.Background(), store, u))
	return u
}

// Caller returns the policy identity of u.
func Caller(u *models.User) policy.Caller {
	return service.CallerFromUser(u)
}

// Token issues a bearer token for u.
func Token(t *testing.T, tokens *service.TokenService, u *models.User) string {
	t.Helper()
	raw, _, err := tokens.Issue(u)
	require.NoError(t, err)
	return raw
}
