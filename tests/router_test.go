// Package tests contains HTTP-level tests for the wired router
package tests

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/breezeline/interiors-api/app/handlers"
	"github.com/breezeline/interiors-api/app/middleware"
	"github.com/breezeline/interiors-api/app/router"
	"github.com/breezeline/interiors-api/app/services"
	businessflow "github.com/breezeline/interiors-api/business_flow"
	"github.com/breezeline/interiors-api/config"
	testingutil "github.com/breezeline/interiors-api/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSessionCookie = "breezeline_admin_session"

type routerHarness struct {
	app      *fiber.App
	fixtures *testingutil.TestFixtures
	sessions services.SessionService
}

func newRouterHarness(t *testing.T) *routerHarness {
	t.Helper()

	fixtures := testingutil.NewTestFixtures()

	store := services.NewMemorySessionStore(time.Minute)
	t.Cleanup(store.Close)
	sessionService := services.NewSessionService(store, time.Hour)

	cfg := &config.ProductionConfig{
		Storage: config.StorageConfig{Driver: config.StorageDriverMemory},
		Server: config.ServerConfig{
			Port:         8080,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
			BodyLimit:    10 << 20,
		},
		Security: config.SecurityConfig{
			AllowedOrigins:  []string{"*"},
			AllowedMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:  []string{"Origin", "Content-Type", "Accept"},
			AuthRateLimit:   100,
			GlobalRateLimit: 1000,
			RateLimitWindow: time.Minute,
			BcryptCost:      12,
		},
		Session: config.SessionConfig{
			CookieName:     testSessionCookie,
			CookieHTTPOnly: true,
			CookieSameSite: "Lax",
			TTL:            time.Hour,
		},
		Uploads: config.UploadsConfig{
			Dir:          t.TempDir(),
			PublicPath:   "/uploads/works",
			MaxSizeBytes: 5 << 20,
		},
		Admin: config.AdminConfig{Username: "admin", Password: "SecurePass123!"},
	}

	estimationFlow := businessflow.NewEstimationFlow(fixtures.Leads, nil)
	adminAuthFlow := businessflow.NewAdminAuthFlow(fixtures.Admins, sessionService)
	portfolioFlow := businessflow.NewPortfolioFlow(
		fixtures.Portfolio.Categories(),
		fixtures.Portfolio.Works(),
		nil,
		cfg.Uploads.Dir,
		cfg.Uploads.PublicPath,
		cfg.Uploads.MaxSizeBytes,
	)

	r := router.NewFiberRouter(
		cfg,
		handlers.NewEstimationHandler(estimationFlow),
		handlers.NewAdminAuthHandler(adminAuthFlow, cfg.Session),
		handlers.NewPortfolioHandler(portfolioFlow),
		middleware.NewAuthMiddleware(sessionService, cfg.Session.CookieName),
	)
	r.SetupRoutes()

	return &routerHarness{app: r.GetApp(), fixtures: fixtures, sessions: sessionService}
}

func (h *routerHarness) request(t *testing.T, method, path, body string) *http.Request {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

func (h *routerHarness) sessionFor(t *testing.T, adminID uint, username string) *http.Cookie {
	t.Helper()
	session, err := h.sessions.CreateSession(context.Background(), adminID, username)
	require.NoError(t, err)
	return &http.Cookie{Name: testSessionCookie, Value: session.Token}
}

func decodeEnvelope(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	payload, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var envelope map[string]any
	require.NoError(t, json.Unmarshal(payload, &envelope))
	return envelope
}

func TestAdminEndpointsRejectAnonymousRequests(t *testing.T) {
	h := newRouterHarness(t)

	// seed state that an unauthorized mutation must not touch
	_, err := h.fixtures.CreateTestLead("2BHK", "Standard", 50, 11000000)
	require.NoError(t, err)
	category, err := h.fixtures.CreateTestCategory("Residential")
	require.NoError(t, err)
	work, err := h.fixtures.CreateTestWork("loft", category.ID)
	require.NoError(t, err)

	endpoints := []struct {
		method string
		path   string
		body   string
	}{
		{http.MethodGet, "/api/estimations", ""},
		{http.MethodDelete, "/api/estimations", ""},
		{http.MethodGet, "/api/estimations/export", ""},
		{http.MethodPost, "/api/categories", `{"name":"Intruder"}`},
		{http.MethodPut, "/api/categories/1", `{"name":"Intruder"}`},
		{http.MethodDelete, "/api/categories/1", ""},
		{http.MethodPost, "/api/works", ""},
		{http.MethodPut, "/api/works/1", ""},
		{http.MethodDelete, "/api/works/1", ""},
	}

	for _, endpoint := range endpoints {
		t.Run(endpoint.method+" "+endpoint.path, func(t *testing.T) {
			resp, err := h.app.Test(h.request(t, endpoint.method, endpoint.path, endpoint.body))
			require.NoError(t, err)
			require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

			envelope := decodeEnvelope(t, resp)
			assert.Equal(t, false, envelope["success"])
			errDetail, ok := envelope["error"].(map[string]any)
			require.True(t, ok)
			assert.Equal(t, "MISSING_SESSION", errDetail["code"])
		})
	}

	t.Run("NothingWasMutated", func(t *testing.T) {
		leads, err := h.fixtures.Leads.Recent(context.Background(), 0)
		require.NoError(t, err)
		assert.Len(t, leads, 1)

		still, err := h.fixtures.Portfolio.Categories().ByID(context.Background(), category.ID)
		require.NoError(t, err)
		assert.NotNil(t, still)

		stillWork, err := h.fixtures.Portfolio.Works().ByID(context.Background(), work.ID)
		require.NoError(t, err)
		assert.NotNil(t, stillWork)
	})

	t.Run("GarbageCookieIsRejectedToo", func(t *testing.T) {
		req := h.request(t, http.MethodDelete, "/api/estimations", "")
		req.AddCookie(&http.Cookie{Name: testSessionCookie, Value: "not-a-session"})

		resp, err := h.app.Test(req)
		require.NoError(t, err)
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

		envelope := decodeEnvelope(t, resp)
		errDetail, ok := envelope["error"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "SESSION_INVALID", errDetail["code"])

		leads, err := h.fixtures.Leads.Recent(context.Background(), 0)
		require.NoError(t, err)
		assert.Len(t, leads, 1, "the store is untouched")
	})
}

func TestAdminEndpointsAcceptLiveSession(t *testing.T) {
	h := newRouterHarness(t)

	admin, err := h.fixtures.CreateTestAdmin("studio")
	require.NoError(t, err)
	cookie := h.sessionFor(t, admin.ID, admin.Username)

	_, err = h.fixtures.CreateTestLead("2BHK", "Standard", 50, 11000000)
	require.NoError(t, err)

	t.Run("ListLeads", func(t *testing.T) {
		req := h.request(t, http.MethodGet, "/api/estimations", "")
		req.AddCookie(cookie)

		resp, err := h.app.Test(req)
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		envelope := decodeEnvelope(t, resp)
		assert.Equal(t, true, envelope["success"])
	})

	t.Run("CreateCategory", func(t *testing.T) {
		req := h.request(t, http.MethodPost, "/api/categories", `{"name":"Hospitality"}`)
		req.AddCookie(cookie)

		resp, err := h.app.Test(req)
		require.NoError(t, err)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	})

	t.Run("ClearLeads", func(t *testing.T) {
		req := h.request(t, http.MethodDelete, "/api/estimations", "")
		req.AddCookie(cookie)

		resp, err := h.app.Test(req)
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		leads, err := h.fixtures.Leads.Recent(context.Background(), 0)
		require.NoError(t, err)
		assert.Empty(t, leads)
	})
}

func TestPublicEndpointsNeedNoSession(t *testing.T) {
	h := newRouterHarness(t)

	t.Run("CalculateEstimation", func(t *testing.T) {
		resp, err := h.app.Test(h.request(t, http.MethodPost, "/api/calculate-estimation",
			`{"projectType":"2BHK","serviceClass":"Standard","area":50}`))
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		envelope := decodeEnvelope(t, resp)
		data, ok := envelope["data"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, float64(11000000), data["totalPrice"])
	})

	t.Run("PriceList", func(t *testing.T) {
		resp, err := h.app.Test(h.request(t, http.MethodGet, "/api/price-list", ""))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("ListCategoriesAndWorks", func(t *testing.T) {
		for _, path := range []string{"/api/categories", "/api/works"} {
			resp, err := h.app.Test(h.request(t, http.MethodGet, path, ""))
			require.NoError(t, err)
			assert.Equal(t, http.StatusOK, resp.StatusCode, path)
		}
	})

	t.Run("Health", func(t *testing.T) {
		resp, err := h.app.Test(h.request(t, http.MethodGet, "/health", ""))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}
