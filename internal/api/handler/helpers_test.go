package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/diecastgarage/storefront/internal/api/middleware"
	"github.com/diecastgarage/storefront/internal/core/domain"
	"github.com/diecastgarage/storefront/internal/core/service"
	"github.com/diecastgarage/storefront/internal/infrastructure/db/docstore"
	"github.com/diecastgarage/storefront/internal/infrastructure/db/memory"
)

type syncWrites struct{}

func (syncWrites) Enqueue(_ string, job func(ctx context.Context) error) {
	_ = job(context.Background())
}

// testEnv wires the real services on the in-memory stores.
type testEnv struct {
	e          *echo.Echo
	store      *memory.DocumentStore
	catalog    *service.CatalogService
	sessions   *service.SessionRegistry
	promotions *service.PromotionService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := memory.NewDocumentStore()
	env := &testEnv{
		e:          echo.New(),
		store:      store,
		catalog:    service.NewCatalogService(store, zerolog.Nop()),
		sessions:   service.NewSessionRegistry(memory.NewLocalCache(), store, syncWrites{}, time.Hour, zerolog.Nop()),
		promotions: service.NewPromotionService(docstore.NewPromotionRepository(store), zerolog.Nop()),
	}
	env.e.Validator = NewValidator()
	if err := env.catalog.Start(context.Background()); err != nil {
		t.Fatalf("start catalog: %v", err)
	}
	t.Cleanup(env.catalog.Stop)
	return env
}

func (env *testEnv) addProduct(t *testing.T, p domain.Product) string {
	t.Helper()
	id, err := env.catalog.AddProduct(context.Background(), p, nil)
	if err != nil {
		t.Fatalf("add product: %v", err)
	}
	return id
}

// serve runs h behind the session middleware. params are name/value pairs
// for path parameters.
func (env *testEnv) serve(req *http.Request, sessionID string, h echo.HandlerFunc, params ...string) *httptest.ResponseRecorder {
	if sessionID != "" {
		req.Header.Set(middleware.HeaderSessionID, sessionID)
	}
	rec := httptest.NewRecorder()
	c := env.e.NewContext(req, rec)
	var names, values []string
	for i := 0; i+1 < len(params); i += 2 {
		names = append(names, params[i])
		values = append(values, params[i+1])
	}
	c.SetParamNames(names...)
	c.SetParamValues(values...)
	if err := middleware.Session(env.sessions)(h)(c); err != nil {
		env.e.HTTPErrorHandler(err, c)
	}
	return rec
}
