package misc

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func setupRouterForTests(t *testing.T) *mux.Router {
	t.Helper()
	r := mux.NewRouter()
	NewHandler("v1.2.3 (abc123)").SetupRoutes(r)
	return r
}

func TestNewMiscHandler(t *testing.T) {
	mainRouter := setupRouterForTests(t)

	for caseName, route := range map[string]struct {
		name   string
		path   string
		method string
	}{
		"root":    {name: "root", path: "/", method: "GET"},
		"health":  {name: "health", path: "/health", method: "GET"},
		"version": {name: "version", path: "/version", method: "GET"},
	} {
		t.Run(caseName, func(t *testing.T) {
			req, err := http.NewRequest(route.method, route.path, nil)
			require.NoError(t, err)

			routeMatch := &mux.RouteMatch{}
			route := mainRouter.Get(route.name)
			require.NotNil(t, route)
			assert.True(t, route.Match(req, routeMatch), caseName)
		})
	}
}

func TestHandler_handleRoot(t *testing.T) {
	rr := httptest.NewRecorder()
	setupRouterForTests(t).ServeHTTP(rr, httptest.NewRequest("GET", "/", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Welcome to the Diary Notes backend!", rr.Body.String())
}

func TestHandler_handleHealth(t *testing.T) {
	rr := httptest.NewRecorder()
	setupRouterForTests(t).ServeHTTP(rr, httptest.NewRequest("GET", "/health", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"status":"OK"}`, rr.Body.String())
}

func TestHandler_handleGetVersionInfo(t *testing.T) {
	rr := httptest.NewRecorder()
	setupRouterForTests(t).ServeHTTP(rr, httptest.NewRequest("GET", "/version", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "v1.2.3 (abc123)", rr.Body.String())
}
