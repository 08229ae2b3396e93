package server

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/aicademy-auth/internal/config"
)

func testConfig(db config.Database) *config.Config {
	return &config.Config{
		Port:           8000,
		AllowedOrigins: []string{"http://localhost:5173"},
		Database:       db,
	}
}

func TestNew_SQLiteMemory(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := testConfig(config.Database{Driver: config.DriverSQLite, URI: ":memory:", Name: "test"})

	srv, err := New(context.Background(), cfg, logger)
	require.NoError(t, err)
	t.Cleanup(func() { srv.store.Close() })

	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/users", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"users":[]}`, rr.Body.String())
}

func TestNew_SQLiteFileCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := testConfig(config.Database{Driver: config.DriverSQLite, URI: dir, Name: "users"})

	srv, err := New(context.Background(), cfg, logger)
	require.NoError(t, err)
	t.Cleanup(func() { srv.store.Close() })

	assert.FileExists(t, filepath.Join(dir, "users.db"))
}

func TestOpenStore_Errors(t *testing.T) {
	tests := []struct {
		name string
		db   config.Database
	}{
		{"unknown driver", config.Database{Driver: "mongodb", Name: "x"}},
		{"postgres uri with wrong scheme", config.Database{Driver: config.DriverPostgres, URI: "mysql://localhost", Name: "x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, err := openStore(context.Background(), tt.db)
			assert.Error(t, err)
			assert.Nil(t, store)
		})
	}
}

func TestRoutes_UnsupportedMethod(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := testConfig(config.Database{Driver: config.DriverSQLite, URI: ":memory:", Name: "test"})

	srv, err := New(context.Background(), cfg, logger)
	require.NoError(t, err)
	t.Cleanup(func() { srv.store.Close() })

	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/users/abc", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}
