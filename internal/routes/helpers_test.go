package routes_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"transit_ops/internal/models"
	"transit_ops/internal/policy"
	"transit_ops/internal/realtime"
	"transit_ops/internal/repository"
	"transit_ops/internal/routes"
	"transit_ops/internal/service"
	"transit_ops/internal/testutil"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	logrus.SetOutput(io.Discard)
	os.Exit(m.Run())
}

type harness struct {
	t      *testing.T
	router *gin.Engine
	store  *repository.Store
	tokens *service.TokenService

	root   *models.User
	admin  *models.User
	parent *models.User
}

func newHarness(t *testing.T, strict bool) *harness {
	t.Helper()
	store := testutil.NewStore(t)
	tokens := testutil.NewTokens()
	services := service.New(service.Deps{
		Store:     store,
		Tokens:    tokens,
		Metrics:   service.NewMetricsService(),
		Publisher: realtime.NewHub(),
		Accounts:  policy.Accounts{ProtectedEmail: testutil.SuperAdminMail},
	})

	h := &harness{
		t:      t,
		store:  store,
		tokens: tokens,
		router: routes.SetupRouter(routes.Options{
			Services:   services,
			APIPrefix:  "/api",
			StrictAuth: strict,
		}),
	}
	h.root = testutil.CreateUser(t, store, policy.RoleSuperAdmin, testutil.SuperAdminMail)
	h.admin = testutil.CreateUser(t, store, policy.RoleAdmin, "admin@x.com")
	h.parent = testutil.CreateUser(t, store, policy.RoleParent, "p@x.com")
	return h
}

func (h *harness) token(u *models.User) string {
	return testutil.Token(h.t, h.tokens, u)
}

// do sends body as JSON with an optional bearer token.
func (h *harness) do(method, path, token string, body any) *httptest.ResponseRecorder {
	h.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(h.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)
	return rec
}

// expect asserts the status and decodes the body into a map.
func (h *harness) expect(rec *httptest.ResponseRecorder, status int) map[string]any {
	h.t.Helper()
	require.Equal(h.t, status, rec.Code, rec.Body.String())
	out := map[string]any{}
	if rec.Body.Len() > 0 && rec.Body.Bytes()[0] == '{' {
		require.NoError(h.t, json.Unmarshal(rec.Body.Bytes(), &out))
	}
	return out
}

func (h *harness) list(rec *httptest.ResponseRecorder) []map[string]any {
	h.t.Helper()
	require.Equal(h.t, http.StatusOK, rec.Code, rec.Body.String())
	var out []map[string]any
	require.NoError(h.t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func idOf(t *testing.T, doc map[string]any) uint {
	t.Helper()
	v, ok := doc["id"].(float64)
	require.True(t, ok, "document has no numeric id: %v", doc)
	return uint(v)
}

func ids(items []any) []uint {
	out := make([]uint, 0, len(items))
	for _, it := range items {
		if m, ok := it.(map[string]any); ok {
			if v, ok := m["id"].(float64); ok {
				out = append(out, uint(v))
			}
		}
	}
	return out
}

func count[T any](t *testing.T, store *repository.Store) int {
	t.Helper()
	items, err := repository.List[T](context.Background(), store)
	require.NoError(t, err)
	return len(items)
}
