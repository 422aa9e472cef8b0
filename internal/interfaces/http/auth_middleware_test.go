package http_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apphttp "github.com/jhoicas/ledger-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/ledger-api/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testUserID    = "00000000-0000-0000-0000-000000000001"
	testCompanyID = "00000000-0000-0000-0000-000000000002"
	testIssuer    = "ledger-api-test"
	testExpMin    = 60
)

var testAuth = apphttp.AuthConfig{Secret: testJWTSecret, Issuer: testIssuer}

// buildTestApp app mínima: AuthMiddleware + RequireWriter y un handler dummy por método.
func buildTestApp() *fiber.App {
	app := fiber.New()
	protected := app.Group("/protected", apphttp.AuthMiddleware(testAuth), apphttp.RequireWriter())
	ok := func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"user_id":    apphttp.GetUserID(c),
			"company_id": apphttp.GetCompanyID(c),
			"role":       apphttp.GetRole(c),
		})
	}
	protected.Get("/", ok)
	protected.Post("/", ok)
	return app
}

func bearer(t *testing.T, companyID, role string, expMin int) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, companyID, role, testIssuer, expMin)
	require.NoError(t, err, "debe generarse un token JWT válido")
	return "Bearer " + tok
}

func doRequest(t *testing.T, app *fiber.App, method, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(method, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func errorCode(t *testing.T, resp *http.Response) string {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var e struct {
		Code string `json:"code"`
	}
	require.NoError(t, json.Unmarshal(body, &e), string(body))
	return e.Code
}

// ──────────────────────────────────────────────────────────────────────────────
// AuthMiddleware
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthMiddleware_ExtraeClaims(t *testing.T) {
	app := buildTestApp()
	resp := doRequest(t, app, http.MethodGet, bearer(t, testCompanyID, pkgjwt.RoleAccountant, testExpMin))
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, testUserID, body["user_id"])
	assert.Equal(t, testCompanyID, body["company_id"])
	assert.Equal(t, pkgjwt.RoleAccountant, body["role"])
}

func TestAuthMiddleware_Rechazos(t *testing.T) {
	app := buildTestApp()
	tests := []struct {
		name   string
		header string
		code   string
	}{
		{"sin header", "", "MISSING_TOKEN"},
		{"sin esquema Bearer", "Token abc", "INVALID_TOKEN"},
		{"token malformado", "Bearer token.invalido.aqui", "INVALID_TOKEN"},
		{"token expirado", bearer(t, testCompanyID, "", -1), "TOKEN_EXPIRED"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doRequest(t, app, http.MethodGet, tt.header)
			defer resp.Body.Close()
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			assert.Equal(t, tt.code, errorCode(t, resp))
		})
	}
}

func TestAuthMiddleware_EmisorDistinto(t *testing.T) {
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, testCompanyID, "", "otro-emisor", testExpMin)
	require.NoError(t, err)
	resp := doRequest(t, buildTestApp(), http.MethodGet, "Bearer "+tok)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// RequireWriter
// ──────────────────────────────────────────────────────────────────────────────

func TestRequireWriter_ViewerSoloConsulta(t *testing.T) {
	app := buildTestApp()
	viewer := bearer(t, testCompanyID, pkgjwt.RoleViewer, testExpMin)

	resp := doRequest(t, app, http.MethodGet, viewer)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doRequest(t, app, http.MethodPost, viewer)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "FORBIDDEN", errorCode(t, resp))
}

func TestRequireWriter_AccountantYRolVacio(t *testing.T) {
	app := buildTestApp()
	for _, role := range []string{pkgjwt.RoleAccountant, pkgjwt.RoleAdmin, ""} {
		resp := doRequest(t, app, http.MethodPost, bearer(t, testCompanyID, role, testExpMin))
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode, "rol %q", role)
	}
}
