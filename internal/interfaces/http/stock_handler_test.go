package http_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger-api/internal/application/stock"
	"github.com/jhoicas/stock-ledger-api/internal/application/usecase"
	"github.com/jhoicas/stock-ledger-api/internal/infrastructure/events"
	"github.com/jhoicas/stock-ledger-api/internal/infrastructure/memory"
	"github.com/jhoicas/stock-ledger-api/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/stock-ledger-api/internal/interfaces/http"
	"github.com/jhoicas/stock-ledger-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

// buildTestApp monta la API completa sobre el store en memoria.
func buildTestApp(t *testing.T) *fiber.App {
	t.Helper()
	store := memory.NewStore()
	productRepo := memory.NewProductRepository(store)
	warehouseRepo := memory.NewWarehouseRepository(store)
	ledgerRepo := memory.NewStockLedgerRepository(store)
	log := logger.New(logger.Config{Env: "development", Level: "error"})

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		StockUC: stock.NewUseCase(
			memory.NewTxRunner(store), productRepo, warehouseRepo,
			events.NewNopPublisher(), log,
		),
		StockQueryUC:  stock.NewQueryUseCase(ledgerRepo),
		StockReportUC: stock.NewReportUseCase(ledgerRepo, pdf.NewMarotoStockReportGenerator()),
		ProductUC:     usecase.NewProductUseCase(productRepo, ledgerRepo),
		WarehouseUC:   usecase.NewWarehouseUseCase(warehouseRepo),
	})
	return app
}

// doJSON lanza una petición con body JSON y devuelve la respuesta.
func doJSON(t *testing.T, app *fiber.App, method, path string, body any) *http.Response {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

// seedCatalog crea un producto y dos bodegas vía API y devuelve sus IDs.
func seedCatalog(t *testing.T, app *fiber.App) (productID, w1, w2 int64) {
	t.Helper()
	var product struct {
		ID int64 `json:"id"`
	}
	resp := doJSON(t, app, http.MethodPost, "/api/products", fiber.Map{
		"sku": "SKU-001", "name": "Tornillo 3/8",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	decode(t, resp, &product)

	var warehouse struct {
		ID int64 `json:"id"`
	}
	resp = doJSON(t, app, http.MethodPost, "/api/warehouses", fiber.Map{"name": "Bodega Central"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	decode(t, resp, &warehouse)
	w1 = warehouse.ID

	resp = doJSON(t, app, http.MethodPost, "/api/warehouses", fiber.Map{"name": "Bodega Norte"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	decode(t, resp, &warehouse)
	w2 = warehouse.ID

	return product.ID, w1, w2
}

func stockIn(t *testing.T, app *fiber.App, productID, warehouseID, qty int64, key string) *http.Response {
	t.Helper()
	return doJSON(t, app, http.MethodPost, "/api/stock/in", fiber.Map{
		"product_id": productID, "warehouse_id": warehouseID,
		"quantity": qty, "operation_key": key,
	})
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests de la API de stock
// ──────────────────────────────────────────────────────────────────────────────

// Caso 1: flujo feliz por HTTP — entrada, salida, traslado y resumen.
func TestStockAPI_FlujoCompleto(t *testing.T) {
	app := buildTestApp(t)
	productID, w1, w2 := seedCatalog(t, app)

	resp := stockIn(t, app, productID, w1, 10, "rcv-1")
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	var entry struct {
		Quantity     int64  `json:"quantity"`
		Operation    string `json:"operation"`
		OperationKey string `json:"operation_key"`
	}
	decode(t, resp, &entry)
	assert.Equal(t, int64(10), entry.Quantity)
	assert.Equal(t, "IN", entry.Operation)

	resp = doJSON(t, app, http.MethodPost, "/api/stock/out", fiber.Map{
		"product_id": productID, "warehouse_id": w1, "quantity": 4, "operation_key": "iss-1",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	decode(t, resp, &entry)
	assert.Equal(t, int64(-4), entry.Quantity)

	resp = doJSON(t, app, http.MethodPost, "/api/stock/transfer", fiber.Map{
		"product_id": productID, "from_warehouse_id": w1, "to_warehouse_id": w2,
		"quantity": 3, "operation_key": "tr-1",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	var pair []struct {
		Quantity     int64  `json:"quantity"`
		OperationKey string `json:"operation_key"`
	}
	decode(t, resp, &pair)
	require.Len(t, pair, 2)
	assert.Equal(t, "tr-1_OUT", pair[0].OperationKey)
	assert.Equal(t, "tr-1_IN", pair[1].OperationKey)

	resp = doJSON(t, app, http.MethodGet, "/api/stock/summary", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var summary struct {
		StockMovements []json.RawMessage `json:"stock_movements"`
		StockLevels    []struct {
			WarehouseID  int64 `json:"warehouse_id"`
			CurrentStock int64 `json:"current_stock"`
		} `json:"stock_levels"`
	}
	decode(t, resp, &summary)
	assert.Len(t, summary.StockMovements, 4)
	require.Len(t, summary.StockLevels, 2)
	assert.Equal(t, int64(3), summary.StockLevels[0].CurrentStock)
	assert.Equal(t, int64(3), summary.StockLevels[1].CurrentStock)
}

// Caso 2: operation_key repetida responde 409 DUPLICATE_OPERATION_KEY.
func TestStockAPI_KeyRepetida_409(t *testing.T) {
	app := buildTestApp(t)
	productID, w1, _ := seedCatalog(t, app)

	resp := stockIn(t, app, productID, w1, 5, "k-1")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = stockIn(t, app, productID, w1, 5, "k-1")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	var body struct {
		Code string `json:"code"`
	}
	decode(t, resp, &body)
	assert.Equal(t, "DUPLICATE_OPERATION_KEY", body.Code)
}

// Caso 3: saldo insuficiente responde 409 con disponible y solicitado en el mensaje.
func TestStockAPI_StockInsuficiente_409(t *testing.T) {
	app := buildTestApp(t)
	productID, w1, _ := seedCatalog(t, app)

	resp := stockIn(t, app, productID, w1, 3, "rcv-1")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodPost, "/api/stock/out", fiber.Map{
		"product_id": productID, "warehouse_id": w1, "quantity": 10, "operation_key": "iss-1",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	var body struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	decode(t, resp, &body)
	assert.Equal(t, "INSUFFICIENT_STOCK", body.Code)
	assert.Contains(t, body.Message, "3", "debe reportar el disponible")
	assert.Contains(t, body.Message, "10", "debe reportar lo solicitado")
}

// Caso 4: errores de validación y not found con sus códigos.
func TestStockAPI_Errores(t *testing.T) {
	app := buildTestApp(t)
	productID, w1, _ := seedCatalog(t, app)

	var body struct {
		Code string `json:"code"`
	}

	// Cantidad cero.
	resp := stockIn(t, app, productID, w1, 0, "k-0")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	decode(t, resp, &body)
	assert.Equal(t, "VALIDATION", body.Code)

	// Producto inexistente.
	resp = stockIn(t, app, 999, w1, 1, "k-1")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	decode(t, resp, &body)
	assert.Equal(t, "NOT_FOUND", body.Code)

	// Traslado a la misma bodega.
	resp = doJSON(t, app, http.MethodPost, "/api/stock/transfer", fiber.Map{
		"product_id": productID, "from_warehouse_id": w1, "to_warehouse_id": w1,
		"quantity": 1, "operation_key": "tr-1",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	decode(t, resp, &body)
	assert.Equal(t, "SAME_WAREHOUSE", body.Code)

	// Operación desconocida en el listado.
	resp = doJSON(t, app, http.MethodGet, "/api/stock/?operation=PURGE", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	decode(t, resp, &body)
	assert.Equal(t, "VALIDATION", body.Code)
}

// Caso 5: listado paginado con filtros por query string.
func TestStockAPI_ListadoFiltrado(t *testing.T) {
	app := buildTestApp(t)
	productID, w1, _ := seedCatalog(t, app)

	for i := 1; i <= 5; i++ {
		resp := stockIn(t, app, productID, w1, int64(i), fmt.Sprintf("rcv-%d", i))
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		resp.Body.Close()
	}

	resp := doJSON(t, app, http.MethodGet, "/api/stock/?page=2&limit=2&sort_by=quantity&sort_order=asc", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var result struct {
		Meta struct {
			Page  int `json:"page"`
			Limit int `json:"limit"`
			Total int `json:"total"`
		} `json:"meta"`
		Data []struct {
			Quantity int64 `json:"quantity"`
		} `json:"data"`
	}
	decode(t, resp, &result)
	assert.Equal(t, 5, result.Meta.Total)
	assert.Equal(t, 2, result.Meta.Page)
	require.Len(t, result.Data, 2)
	assert.Equal(t, int64(3), result.Data[0].Quantity)
	assert.Equal(t, int64(4), result.Data[1].Quantity)
}

// Caso 6: el reporte PDF responde bytes con el content type correcto.
func TestStockAPI_ReportePDF(t *testing.T) {
	app := buildTestApp(t)
	productID, w1, _ := seedCatalog(t, app)

	resp := stockIn(t, app, productID, w1, 7, "rcv-1")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodGet, "/api/stock/report", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Greater(t, len(raw), 5)
	assert.Equal(t, "%PDF-", string(raw[:5]), "el cuerpo debe ser un PDF")
}

// Caso 7: CRUD de productos — SKU duplicado y borrado con movimientos.
func TestProductAPI_Conflictos(t *testing.T) {
	app := buildTestApp(t)
	productID, w1, _ := seedCatalog(t, app)

	var body struct {
		Code string `json:"code"`
	}

	resp := doJSON(t, app, http.MethodPost, "/api/products", fiber.Map{
		"sku": "SKU-001", "name": "Otro",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	decode(t, resp, &body)
	assert.Equal(t, "SKU_ALREADY_EXISTS", body.Code)

	resp = stockIn(t, app, productID, w1, 1, "rcv-1")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodDelete, fmt.Sprintf("/api/products/%d", productID), nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	decode(t, resp, &body)
	assert.Equal(t, "CONFLICT", body.Code)

	// El detalle trae el stock por bodega derivado del ledger.
	resp = doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/products/%d", productID), nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var detail struct {
		StockLevels []struct {
			CurrentStock int64 `json:"current_stock"`
		} `json:"stock_levels"`
	}
	decode(t, resp, &detail)
	require.Len(t, detail.StockLevels, 1)
	assert.Equal(t, int64(1), detail.StockLevels[0].CurrentStock)
}
