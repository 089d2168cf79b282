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

	apphttp "github.com/jhoicas/Taller-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/Taller-api/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testUserID    = "00000000-0000-0000-0000-000000000001"
	testIssuer    = "taller-api-test"
	testExpMin    = 60
)

// gateApp expone /gate detrás de AuthMiddleware + RequireRole(roles...) y devuelve el operador.
func gateApp(roles ...string) *fiber.App {
	app := fiber.New()
	app.Get("/gate",
		apphttp.AuthMiddleware(testJWTSecret),
		apphttp.RequireRole(roles...),
		func(c *fiber.Ctx) error {
			return c.JSON(fiber.Map{"user_id": apphttp.GetUserID(c), "role": apphttp.GetRole(c)})
		},
	)
	return app
}

// tokenForRole genera un JWT del operador de prueba con el rol indicado.
func tokenForRole(t *testing.T, role string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, role, testIssuer, testExpMin)
	require.NoError(t, err)
	return "Bearer " + tok
}

func gate(t *testing.T, app *fiber.App, authHeader string) (int, string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/gate", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

// ──────────────────────────────────────────────────────────────────────────────
// Roles de bodega y mostrador
// ──────────────────────────────────────────────────────────────────────────────

func TestRequireRole_BodegaYMostrador(t *testing.T) {
	cases := []struct {
		name   string
		allow  []string
		role   string
		status int
	}{
		{"admin en bodega", apphttp.WarehouseRoles, pkgjwt.RoleAdmin, http.StatusOK},
		{"bodeguero en bodega", apphttp.WarehouseRoles, pkgjwt.RoleBodeguero, http.StatusOK},
		{"vendedor en bodega", apphttp.WarehouseRoles, pkgjwt.RoleVendedor, http.StatusForbidden},
		{"admin en mostrador", apphttp.CounterRoles, pkgjwt.RoleAdmin, http.StatusOK},
		{"vendedor en mostrador", apphttp.CounterRoles, pkgjwt.RoleVendedor, http.StatusOK},
		{"bodeguero en mostrador", apphttp.CounterRoles, pkgjwt.RoleBodeguero, http.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, body := gate(t, gateApp(tc.allow...), tokenForRole(t, tc.role))
			assert.Equal(t, tc.status, status, body)
			if tc.status == http.StatusForbidden {
				assert.Contains(t, body, "FORBIDDEN")
			}
		})
	}
}

func TestRequireRole_TokenSinRol_Retorna401(t *testing.T) {
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, "", testIssuer, testExpMin)
	require.NoError(t, err)

	status, body := gate(t, gateApp(apphttp.WarehouseRoles...), "Bearer "+tok)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Contains(t, body, "MISSING_ROLE")
}

// ──────────────────────────────────────────────────────────────────────────────
// AuthMiddleware
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthMiddleware_RechazaCabecerasInvalidas(t *testing.T) {
	otherSecret, err := pkgjwt.Generate("otro-secreto", testUserID, pkgjwt.RoleAdmin, testIssuer, testExpMin)
	require.NoError(t, err)
	noUser, err := pkgjwt.Generate(testJWTSecret, "", pkgjwt.RoleAdmin, testIssuer, testExpMin)
	require.NoError(t, err)
	notUUID, err := pkgjwt.Generate(testJWTSecret, "admin", pkgjwt.RoleAdmin, testIssuer, testExpMin)
	require.NoError(t, err)

	cases := []struct {
		name   string
		header string
		code   string
	}{
		{"sin cabecera", "", "MISSING_TOKEN"},
		{"sin Bearer", "Token abc", "INVALID_TOKEN"},
		{"token basura", "Bearer token.invalido.aqui", "INVALID_TOKEN"},
		{"otro secreto", "Bearer " + otherSecret, "INVALID_TOKEN"},
		{"sin operador", "Bearer " + noUser, "INVALID_TOKEN"},
		{"operador no UUID", "Bearer " + notUUID, "INVALID_TOKEN"},
	}
	app := gateApp(pkgjwt.RoleAdmin)
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, body := gate(t, app, tc.header)
			assert.Equal(t, http.StatusUnauthorized, status)
			assert.Contains(t, body, tc.code)
		})
	}
}

func TestAuthMiddleware_DejaOperadorEnLocals(t *testing.T) {
	status, body := gate(t, gateApp(pkgjwt.RoleBodeguero), tokenForRole(t, pkgjwt.RoleBodeguero))
	require.Equal(t, http.StatusOK, status, body)

	var got map[string]string
	require.NoError(t, json.Unmarshal([]byte(body), &got))
	assert.Equal(t, testUserID, got["user_id"])
	assert.Equal(t, pkgjwt.RoleBodeguero, got["role"])
}
