package stock_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger-api/internal/application/dto"
	"github.com/jhoicas/stock-ledger-api/internal/application/stock"
	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
)

// seedMovements registra un historial conocido: 10 entran a W1, 4 salen, 3 van a W2.
func seedMovements(t *testing.T, env *testEnv) {
	t.Helper()
	ctx := context.Background()
	_, err := env.uc.StockIn(ctx, dto.StockInRequest{
		ProductID: env.productID, WarehouseID: env.w1, Quantity: 10, OperationKey: "rcv-1",
	})
	require.NoError(t, err)
	_, err = env.uc.StockOut(ctx, dto.StockOutRequest{
		ProductID: env.productID, WarehouseID: env.w1, Quantity: 4, OperationKey: "iss-1",
	})
	require.NoError(t, err)
	_, err = env.uc.Transfer(ctx, dto.StockTransferRequest{
		ProductID: env.productID, FromWarehouseID: env.w1, ToWarehouseID: env.w2,
		Quantity: 3, OperationKey: "tr-1",
	})
	require.NoError(t, err)
}

// Caso 1: el resumen trae el historial completo y los saldos por par con producto y
// bodega resueltos.
func TestQuery_GetSummary(t *testing.T) {
	env := newTestEnv(t)
	seedMovements(t, env)

	summary, err := env.query.GetSummary(context.Background(), stock.SummaryFilter{})
	require.NoError(t, err)

	assert.Len(t, summary.StockMovements, 4, "IN + OUT + par del TRANSFER")
	require.Len(t, summary.StockLevels, 2)

	// Ordenado por nombre de producto y bodega: Central antes que Norte.
	assert.Equal(t, int64(3), summary.StockLevels[0].CurrentStock)
	assert.Equal(t, "Bodega Central", summary.StockLevels[0].Warehouse.Name)
	assert.Equal(t, int64(3), summary.StockLevels[1].CurrentStock)
	assert.Equal(t, "Bodega Norte", summary.StockLevels[1].Warehouse.Name)

	for _, m := range summary.StockMovements {
		assert.NotNil(t, m.Product, "cada movimiento resuelve su producto")
		assert.NotNil(t, m.Warehouse, "cada movimiento resuelve su bodega")
	}
}

// Caso 2: el resumen respeta el filtro por bodega.
func TestQuery_GetSummary_FiltradoPorBodega(t *testing.T) {
	env := newTestEnv(t)
	seedMovements(t, env)

	summary, err := env.query.GetSummary(context.Background(), stock.SummaryFilter{
		WarehouseID: &env.w2,
	})
	require.NoError(t, err)

	assert.Len(t, summary.StockMovements, 1, "solo la mitad _IN del traslado toca W2")
	require.Len(t, summary.StockLevels, 1)
	assert.Equal(t, env.w2, summary.StockLevels[0].WarehouseID)
	assert.Equal(t, int64(3), summary.StockLevels[0].CurrentStock)
}

// Caso 3: listado paginado con total de coincidencias y orden por defecto
// (más reciente primero).
func TestQuery_GetFiltered_Paginacion(t *testing.T) {
	env := newTestEnv(t)
	seedMovements(t, env)

	page1, err := env.query.GetFiltered(context.Background(), stock.FilterRequest{}, dto.PageRequest{
		Page: 1, Limit: 3,
	})
	require.NoError(t, err)
	assert.Equal(t, 4, page1.Meta.Total)
	assert.Len(t, page1.Data, 3)

	page2, err := env.query.GetFiltered(context.Background(), stock.FilterRequest{}, dto.PageRequest{
		Page: 2, Limit: 3,
	})
	require.NoError(t, err)
	assert.Len(t, page2.Data, 1)
	assert.Equal(t, "rcv-1", page2.Data[0].OperationKey,
		"con orden descendente el primer asiento queda al final")
}

// Caso 4: búsqueda por operation_key y filtro por tipo de operación.
func TestQuery_GetFiltered_BusquedaYFiltros(t *testing.T) {
	env := newTestEnv(t)
	seedMovements(t, env)
	ctx := context.Background()

	byKey, err := env.query.GetFiltered(ctx, stock.FilterRequest{SearchTerm: "tr-1"}, dto.PageRequest{})
	require.NoError(t, err)
	assert.Equal(t, 2, byKey.Meta.Total, "las dos mitades del traslado comparten prefijo de key")

	byOp, err := env.query.GetFiltered(ctx, stock.FilterRequest{Operation: entity.OperationOUT}, dto.PageRequest{})
	require.NoError(t, err)
	require.Equal(t, 1, byOp.Meta.Total)
	assert.Equal(t, "iss-1", byOp.Data[0].OperationKey)

	// La búsqueda también alcanza el nombre de la bodega.
	byWarehouse, err := env.query.GetFiltered(ctx, stock.FilterRequest{SearchTerm: "norte"}, dto.PageRequest{})
	require.NoError(t, err)
	assert.Equal(t, 1, byWarehouse.Meta.Total)
}

// Caso 5: orden por cantidad ascendente.
func TestQuery_GetFiltered_OrdenPorCantidad(t *testing.T) {
	env := newTestEnv(t)
	seedMovements(t, env)

	result, err := env.query.GetFiltered(context.Background(), stock.FilterRequest{}, dto.PageRequest{
		SortBy: "quantity", SortOrder: "asc",
	})
	require.NoError(t, err)
	require.Len(t, result.Data, 4)

	var prev int64 = -1 << 62
	for _, e := range result.Data {
		assert.GreaterOrEqual(t, e.Quantity, prev)
		prev = e.Quantity
	}
}

// Caso 6: una operación fuera del enum se rechaza con entrada inválida.
func TestQuery_GetFiltered_OperacionInvalida(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.query.GetFiltered(context.Background(), stock.FilterRequest{
		Operation: "PURGE",
	}, dto.PageRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// Caso 7: un sort_by desconocido no falla; cae al orden por defecto.
func TestQuery_GetFiltered_SortByDesconocido(t *testing.T) {
	env := newTestEnv(t)
	seedMovements(t, env)

	result, err := env.query.GetFiltered(context.Background(), stock.FilterRequest{}, dto.PageRequest{
		SortBy: "no-existe",
	})
	require.NoError(t, err)
	require.Len(t, result.Data, 4)
	assert.Equal(t, "rcv-1", result.Data[3].OperationKey)
}
