package http

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"stock-api/internal/auth"
	"stock-api/internal/domain"
	"stock-api/internal/metrics"
	"stock-api/internal/repository"
	"stock-api/internal/repository/sqlite"
	"stock-api/internal/service"
	"stock-api/internal/storage"
)

type fakeExports struct {
	calls []service.StockMoveQuery
	err   error
}

func (f *fakeExports) ExportStockMoves(_ context.Context, q service.StockMoveQuery) (*service.ExportResult, error) {
	f.calls = append(f.calls, q)
	if f.err != nil {
		return nil, f.err
	}
	return &service.ExportResult{
		Key:       "stock-exports/stock-moves.csv",
		Location:  "s3://exports/stock-exports/stock-moves.csv",
		URL:       "https://signed.example/stock-moves.csv",
		Rows:      3,
		ExpiresAt: time.Date(2025, 1, 1, 0, 15, 0, 0, time.UTC),
	}, nil
}

func (f *fakeExports) ListExports(context.Context) ([]storage.ObjectInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	modified := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	return []storage.ObjectInfo{{Key: "stock-exports/stock-moves.csv", Size: 42, LastModified: &modified}}, nil
}

type testEnv struct {
	router  *gin.Engine
	db      *sql.DB
	tokens  *auth.TokenService
	stock   repository.StockRepository
	exports *fakeExports
}

func newTestEnv(t *testing.T, withExports bool) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctx := context.Background()
	logger, _ := test.NewNullLogger()

	db, err := sqlite.Open(filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	users := sqlite.NewUserRepository(db)
	stock := sqlite.NewStockRepository(db)
	require.NoError(t, sqlite.InitAll(ctx, users, stock))

	tokens, err := auth.NewTokenService(auth.TokenConfig{Secret: "http-test-secret", Algorithm: "HS256", TTL: time.Hour}, logger)
	require.NoError(t, err)

	m := metrics.New(prometheus.NewRegistry())
	env := &testEnv{db: db, tokens: tokens, stock: stock}

	var exports service.ExportService
	if withExports {
		env.exports = &fakeExports{}
		exports = env.exports
	}

	handler := NewHandler(
		service.NewAuthService(users, auth.NewPasswordHasher(bcrypt.MinCost), tokens, m, logger),
		service.NewUserService(users),
		service.NewStockService(stock),
		exports,
		m,
		logger,
		Options{Version: "1.0.0", AllowedOrigins: []string{"http://localhost:3000"}},
	)
	env.router = gin.New()
	handler.RegisterRoutes(env.router)
	return env
}

func (e *testEnv) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) registerAndLogin(t *testing.T) string {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/auth/register", adminRegistration(), "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = e.do(t, http.MethodPost, "/auth/login", map[string]string{"email": "admin@example.com", "password": "admin123"}, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp UserResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func (e *testEnv) seedStock(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	sku := "LAP-0001"
	_, err := e.stock.CreateProduct(ctx, &domain.Product{ID: "P001", Name: "Dell XPS 13", SKU: &sku})
	require.NoError(t, err)
	_, err = e.stock.CreateProduct(ctx, &domain.Product{ID: "P002", Name: "Logitech MX Master"})
	require.NoError(t, err)
	_, err = e.stock.CreateWarehouse(ctx, &domain.Warehouse{ID: "W001", Name: "Bodega Central"})
	require.NoError(t, err)

	moves := []domain.StockMove{
		{ID: "M001", Date: time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC), Product: domain.Product{ID: "P001"}, Warehouse: domain.Warehouse{ID: "W001"}, Type: domain.StockMoveIn, Quantity: 10, Reference: "PO-0001"},
		{ID: "M002", Date: time.Date(2025, 1, 11, 0, 0, 0, 0, time.UTC), Product: domain.Product{ID: "P002"}, Warehouse: domain.Warehouse{ID: "W001"}, Type: domain.StockMoveOut, Quantity: 2, Reference: "SO-0001"},
		{ID: "M003", Date: time.Date(2025, 1, 12, 0, 0, 0, 0, time.UTC), Product: domain.Product{ID: "P001"}, Warehouse: domain.Warehouse{ID: "W001"}, Type: domain.StockMoveAdjust, Quantity: 1, Reference: "ADJ-0001"},
	}
	for i := range moves {
		_, err := e.stock.CreateStockMove(ctx, &moves[i])
		require.NoError(t, err)
	}
}

func adminRegistration() map[string]string {
	return map[string]string{
		"id":       "1234567890",
		"name":     "Admin",
		"lastName": "User",
		"email":    "admin@example.com",
		"password": "admin123",
	}
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorResponse {
	t.Helper()
	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	return resp
}
