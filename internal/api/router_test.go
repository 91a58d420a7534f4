package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	mongooptions "go.mongodb.org/mongo-driver/mongo/options"

	"github.com/terangafund/citizen-projects/internal/core/ports"
	"github.com/terangafund/citizen-projects/internal/pkg/config"
)

type noopQueue struct{}

func (noopQueue) Enqueue(ports.Delivery) {}

// The mongo and redis clients below never see traffic: both connect lazily,
// and the routes exercised here don't touch a backend. The router can only be
// built once per process because the prometheus middleware registers
// collectors globally, hence the single test with subtests.
func TestRouter_Routing(t *testing.T) {
	client, err := mongodriver.Connect(context.Background(),
		mongooptions.Client().ApplyURI("mongodb://127.0.0.1:27017"))
	if err != nil {
		t.Fatalf("mongo client: %v", err)
	}
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })

	rdb := goredis.NewClient(&goredis.Options{Addr: "127.0.0.1:6379"})
	t.Cleanup(func() { _ = rdb.Close() })

	cfg := &config.Config{Port: "8080", JWTSecret: "test-secret"}
	e := NewRouter(client.Database("citizen_projects_test"), rdb, noopQueue{}, cfg, zerolog.Nop())

	t.Run("categories is public at both paths", func(t *testing.T) {
		for _, path := range []string{"/api/categories", "/api/projects/categories"} {
			req := httptest.NewRequest(http.MethodGet, path, nil)
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)
			if rec.Code != http.StatusOK {
				t.Errorf("%s: expected 200, got %d", path, rec.Code)
			}
		}
	})

	t.Run("projects require a token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/projects", nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("liveness needs no auth", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("expected 200, got %d", rec.Code)
		}
	})
}
