package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Taller-api/internal/application/dto"
	"github.com/jhoicas/Taller-api/internal/application/inventory"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
	"github.com/jhoicas/Taller-api/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/Taller-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/Taller-api/pkg/jwt"
	"github.com/jhoicas/Taller-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

// newAPI arma la API completa sobre el almacén en memoria.
func newAPI(t *testing.T, parts ...*entity.Part) *fiber.App {
	t.Helper()
	store := memory.NewStore(2 * time.Second)
	store.SeedParts(parts...)

	log := logger.Nop()
	ledger := inventory.NewStockLedger(log)
	allocator := inventory.NewFIFOAllocator(ledger)
	alerts := inventory.NewAlertMaintainer()
	repos := store.Repositories()

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		ReceivePurchase: inventory.NewReceivePurchaseUseCase(store, nil, ledger, alerts),
		CreateSale:      inventory.NewCreateSaleUseCase(store, nil, allocator, alerts),
		AdjustStock:     inventory.NewAdjustStockUseCase(store, nil, ledger, allocator, alerts),
		Query:           inventory.NewQueryUseCase(repos, store, alerts),
		Reconciliation:  inventory.NewReconciliationUseCase(store, repos, log),
		Replenishment:   inventory.NewReplenishmentUseCase(repos),
		JWTSecret:       testJWTSecret,
		Log:             log,
	})
	return app
}

func call(t *testing.T, app *fiber.App, method, path, role string, body any) (*http.Response, []byte) {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", tokenForRole(t, role))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	return resp, out
}

// pid id estable de un repuesto de prueba a partir de su etiqueta.
func pid(label string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(label)).String()
}

const supplierID = "5d7c3e2a-1f0b-4c8e-9a6d-3b2f1e0c9d8a"

var (
	p1    = pid("p1")
	p2    = pid("p2")
	ghost = pid("ghost")
)

func receipt(partID string, qty, cost int64) map[string]any {
	return map[string]any{
		"supplier_id": supplierID,
		"lines": []map[string]any{{
			"part_id":   partID,
			"quantity":  qty,
			"unit_cost": cost,
			"margin":    map[string]any{"type": "percent", "value": "20"},
		}},
	}
}

func receiptFrom(supplier string) map[string]any {
	r := receipt(p1, 1, 100)
	r["supplier_id"] = supplier
	return r
}

func saleOf(partID string, qty int64) map[string]any {
	return map[string]any{"lines": []map[string]any{{"part_id": partID, "quantity": qty}}}
}

func moto(label string, minimal int64) *entity.Part {
	return &entity.Part{ID: pid(label), Name: "Repuesto " + label, PartNumber: "PN-" + label, MinimalStock: minimal}
}

// ──────────────────────────────────────────────────────────────────────────────
// Compras y ventas
// ──────────────────────────────────────────────────────────────────────────────

func TestReceiveThenSell(t *testing.T) {
	app := newAPI(t, moto("p1", 0))

	resp, body := call(t, app, http.MethodPost, "/api/purchases/receipts", pkgjwt.RoleBodeguero, receipt(p1, 5, 10_000))
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var rec dto.ReceivePurchaseResponse
	require.NoError(t, json.Unmarshal(body, &rec))
	require.Len(t, rec.Lines, 1)
	assert.Equal(t, int64(5), rec.Lines[0].PartStock)
	assert.Equal(t, int64(12_000), rec.Lines[0].Price.FinalPrice)
	assert.Equal(t, int64(50_000), rec.Totals.GrandTotal)

	resp, body = call(t, app, http.MethodPost, "/api/sales", pkgjwt.RoleVendedor, saleOf(p1, 3))
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var sale dto.SaleResponse
	require.NoError(t, json.Unmarshal(body, &sale))
	require.Len(t, sale.Lines, 1)
	require.Len(t, sale.Lines[0].Allocations, 1)
	assert.Equal(t, rec.Lines[0].BatchID, sale.Lines[0].Allocations[0].BatchID)
	assert.Equal(t, int64(36_000), sale.Totals.GrandTotal)
	assert.Equal(t, int64(6_000), sale.GrossProfit)
	assert.Equal(t, testUserID, sale.CreatedBy)

	resp, body = call(t, app, http.MethodGet, "/api/sales/"+sale.ID, pkgjwt.RoleAdmin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var stored dto.SaleResponse
	require.NoError(t, json.Unmarshal(body, &stored))
	assert.Equal(t, sale.ID, stored.ID)
	assert.Len(t, stored.Lines, 1)
}

func TestSale_InsufficientStockNamesPart(t *testing.T) {
	app := newAPI(t, moto("p1", 0))
	resp, _ := call(t, app, http.MethodPost, "/api/purchases/receipts", pkgjwt.RoleAdmin, receipt(p1, 2, 1_000))
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body := call(t, app, http.MethodPost, "/api/sales", pkgjwt.RoleAdmin, saleOf(p1, 3))
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	var e dto.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &e))
	assert.Equal(t, "INSUFFICIENT_STOCK", e.Code)
	assert.Equal(t, p1, e.PartID)
	assert.False(t, e.Retryable)
}

func TestRoles_VendedorCannotReceiveNorAdjust(t *testing.T) {
	app := newAPI(t, moto("p1", 0))

	resp, _ := call(t, app, http.MethodPost, "/api/purchases/receipts", pkgjwt.RoleVendedor, receipt(p1, 1, 1_000))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = call(t, app, http.MethodPost, "/api/stock/adjustments", pkgjwt.RoleVendedor,
		map[string]any{"part_id": p1, "delta": 1, "reason": "conteo"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = call(t, app, http.MethodPost, "/api/sales", pkgjwt.RoleBodeguero, saleOf(p1, 1))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestReceive_RejectsBadRequests(t *testing.T) {
	app := newAPI(t, moto("p1", 0))

	tests := []struct {
		name string
		body map[string]any
		code string
	}{
		{"sin líneas", map[string]any{"supplier_id": supplierID, "lines": []any{}}, "VALIDATION"},
		{"tipo de regla desconocido", map[string]any{
			"supplier_id": supplierID,
			"lines": []map[string]any{{
				"part_id": p1, "quantity": 1, "unit_cost": 100,
				"margin": map[string]any{"type": "ratio", "value": "1"},
			}},
		}, "VALIDATION"},
		{"promo mayor a 100 %", map[string]any{
			"supplier_id": supplierID,
			"lines": []map[string]any{{
				"part_id": p1, "quantity": 1, "unit_cost": 100,
				"margin": map[string]any{"type": "percent", "value": "10"},
				"promo":  map[string]any{"type": "percent", "value": "120"},
			}},
		}, "INVALID_RULE"},
		{"part_id no UUID", map[string]any{
			"supplier_id": supplierID,
			"lines": []map[string]any{{
				"part_id": "p1", "quantity": 1, "unit_cost": 100,
				"margin": map[string]any{"type": "percent", "value": "10"},
			}},
		}, "VALIDATION"},
		{"proveedor no UUID", receiptFrom("sup-1"), "VALIDATION"},
		{"cantidad fuera de rango", receipt(p1, 1_000_001, 100), "VALIDATION"},
		{"costo fuera de rango", receipt(p1, 1, 1_000_000_000_001), "VALIDATION"},
		{"sin margen", map[string]any{
			"supplier_id": supplierID,
			"lines":       []map[string]any{{"part_id": p1, "quantity": 1, "unit_cost": 100}},
		}, "INVALID_RULE"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := call(t, app, http.MethodPost, "/api/purchases/receipts", pkgjwt.RoleAdmin, tt.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode, string(body))
			var e dto.ErrorResponse
			require.NoError(t, json.Unmarshal(body, &e))
			assert.Equal(t, tt.code, e.Code)
		})
	}
}

func TestReceive_UnknownPartIsNotFound(t *testing.T) {
	app := newAPI(t)
	resp, _ := call(t, app, http.MethodPost, "/api/purchases/receipts", pkgjwt.RoleAdmin, receipt(ghost, 1, 100))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGetSale_NotFound(t *testing.T) {
	app := newAPI(t)
	resp, _ := call(t, app, http.MethodGet, "/api/sales/"+uuid.NewString(), pkgjwt.RoleAdmin, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestIDsMustBeUUID(t *testing.T) {
	app := newAPI(t, moto("p1", 0))

	paths := []struct{ method, path string }{
		{http.MethodGet, "/api/sales/no-existe"},
		{http.MethodGet, "/api/parts/p1/movements"},
		{http.MethodGet, "/api/parts/p1/batches"},
		{http.MethodGet, "/api/parts/p1/reconciliation"},
		{http.MethodPost, "/api/stock/alerts/p1/read"},
		{http.MethodPost, "/api/stock/alerts/p1/reconcile"},
	}
	for _, tc := range paths {
		t.Run(tc.path, func(t *testing.T) {
			resp, body := call(t, app, tc.method, tc.path, pkgjwt.RoleAdmin, nil)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode, string(body))
			assert.Contains(t, string(body), "VALIDATION")
		})
	}

	bodies := []struct {
		name, path string
		body       map[string]any
	}{
		{"venta con part_id no UUID", "/api/sales", saleOf("p1", 1)},
		{"venta con cliente no UUID", "/api/sales", map[string]any{
			"customer_id": "cliente-7",
			"lines":       []map[string]any{{"part_id": p1, "quantity": 1}},
		}},
		{"ajuste con part_id no UUID", "/api/stock/adjustments", map[string]any{"part_id": "p1", "delta": 1, "reason": "conteo"}},
	}
	for _, tc := range bodies {
		t.Run(tc.name, func(t *testing.T) {
			resp, body := call(t, app, http.MethodPost, tc.path, pkgjwt.RoleAdmin, tc.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode, string(body))
			assert.Contains(t, string(body), "VALIDATION")
		})
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Ajustes, alertas y consultas por repuesto
// ──────────────────────────────────────────────────────────────────────────────

func TestAdjust_Negative(t *testing.T) {
	app := newAPI(t, moto("p1", 0))
	call(t, app, http.MethodPost, "/api/purchases/receipts", pkgjwt.RoleAdmin, receipt(p1, 5, 1_000))

	resp, body := call(t, app, http.MethodPost, "/api/stock/adjustments", pkgjwt.RoleBodeguero,
		map[string]any{"part_id": p1, "delta": -2, "reason": "rotura"})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var out dto.AdjustStockResponse
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, int64(3), out.PartStock)
	require.Len(t, out.Movements, 1)
	assert.Equal(t, "out", out.Movements[0].Direction)
	assert.Equal(t, "rotura", out.Movements[0].Reason)

	resp, _ = call(t, app, http.MethodPost, "/api/stock/adjustments", pkgjwt.RoleBodeguero,
		map[string]any{"part_id": p1, "delta": 0, "reason": "nada"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAlerts_ListReadReconcile(t *testing.T) {
	app := newAPI(t, moto("p1", 5), moto("p2", 1))
	call(t, app, http.MethodPost, "/api/purchases/receipts", pkgjwt.RoleAdmin, receipt(p1, 4, 1_000))
	call(t, app, http.MethodPost, "/api/purchases/receipts", pkgjwt.RoleAdmin, receipt(p2, 3, 1_000))

	resp, body := call(t, app, http.MethodGet, "/api/stock/alerts?sort=current_stock&order=desc", pkgjwt.RoleVendedor, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var alerts []dto.LowStockAlertDTO
	require.NoError(t, json.Unmarshal(body, &alerts))
	require.Len(t, alerts, 1)
	assert.Equal(t, p1, alerts[0].PartID)
	assert.Equal(t, "Repuesto p1", alerts[0].PartName)
	assert.Equal(t, int64(4), alerts[0].CurrentStock)
	assert.False(t, alerts[0].IsRead)

	resp, _ = call(t, app, http.MethodGet, "/api/stock/alerts?sort=price", pkgjwt.RoleAdmin, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = call(t, app, http.MethodPost, "/api/stock/alerts/"+p1+"/read", pkgjwt.RoleAdmin, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp, _ = call(t, app, http.MethodPost, "/api/stock/alerts/"+p2+"/read", pkgjwt.RoleAdmin, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, body = call(t, app, http.MethodPost, "/api/stock/alerts/"+p1+"/reconcile", pkgjwt.RoleAdmin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var alert dto.LowStockAlertDTO
	require.NoError(t, json.Unmarshal(body, &alert))
	assert.True(t, alert.IsRead, "recalcular no reinicia la marca de leída")

	resp, _ = call(t, app, http.MethodPost, "/api/stock/alerts/"+p2+"/reconcile", pkgjwt.RoleAdmin, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, body = call(t, app, http.MethodGet, "/api/stock/replenishment", pkgjwt.RoleAdmin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var repl struct {
		Total          int                              `json:"total"`
		Replenishments []dto.ReplenishmentSuggestionDTO `json:"replenishments"`
	}
	require.NoError(t, json.Unmarshal(body, &repl))
	require.Equal(t, 1, repl.Total)
	assert.Equal(t, p1, repl.Replenishments[0].PartID)
}

func TestPartQueries(t *testing.T) {
	app := newAPI(t, moto("p1", 0))
	call(t, app, http.MethodPost, "/api/purchases/receipts", pkgjwt.RoleAdmin, receipt(p1, 5, 1_000))
	call(t, app, http.MethodPost, "/api/sales", pkgjwt.RoleAdmin, saleOf(p1, 2))

	resp, body := call(t, app, http.MethodGet, "/api/parts/"+p1+"/movements?limit=10", pkgjwt.RoleAdmin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var movs dto.MovementListResponse
	require.NoError(t, json.Unmarshal(body, &movs))
	assert.Equal(t, 10, movs.Page.Limit)
	require.Len(t, movs.Movements, 2)
	assert.Equal(t, int64(5), movs.Movements[0].StockAfter)
	assert.Equal(t, movs.Movements[0].StockAfter, movs.Movements[1].StockBefore)
	assert.Equal(t, int64(3), movs.Movements[1].StockAfter)

	resp, _ = call(t, app, http.MethodGet, "/api/parts/"+p1+"/movements?limit=9999", pkgjwt.RoleAdmin, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body = call(t, app, http.MethodGet, "/api/parts/"+p1+"/batches", pkgjwt.RoleAdmin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var batches dto.BatchesResponse
	require.NoError(t, json.Unmarshal(body, &batches))
	require.Len(t, batches.Batches, 1)
	assert.Equal(t, int64(3), batches.Quantity)
	assert.Equal(t, int64(3_000), batches.TotalCost)

	resp, body = call(t, app, http.MethodGet, "/api/parts/"+p1+"/reconciliation", pkgjwt.RoleAdmin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var report dto.ReconciliationDTO
	require.NoError(t, json.Unmarshal(body, &report))
	assert.True(t, report.OK, "diferencias: %v", report.Issues)
	assert.Equal(t, int64(3), report.PartStock)

	resp, _ = call(t, app, http.MethodGet, "/api/parts/"+ghost+"/batches", pkgjwt.RoleAdmin, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
