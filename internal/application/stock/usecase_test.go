package stock_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger-api/internal/application/dto"
	"github.com/jhoicas/stock-ledger-api/internal/application/stock"
	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
	"github.com/jhoicas/stock-ledger-api/internal/infrastructure/memory"
	"github.com/jhoicas/stock-ledger-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

// capturePublisher acumula los eventos publicados para las aserciones.
type capturePublisher struct {
	mu     sync.Mutex
	events []any
}

func (p *capturePublisher) Publish(_ string, event any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *capturePublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.events)
}

type testEnv struct {
	uc        *stock.UseCase
	query     *stock.QueryUseCase
	ledger    repository.StockLedgerRepository
	publisher *capturePublisher

	productID int64
	w1, w2    int64
}

// newTestEnv arma el caso de uso sobre el store en memoria con un producto y dos
// bodegas ya creados.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := memory.NewStore()
	productRepo := memory.NewProductRepository(store)
	warehouseRepo := memory.NewWarehouseRepository(store)
	ledgerRepo := memory.NewStockLedgerRepository(store)
	publisher := &capturePublisher{}
	log := logger.New(logger.Config{Env: "development", Level: "error"})

	product := &entity.Product{SKU: "SKU-001", Name: "Tornillo 3/8"}
	require.NoError(t, productRepo.Create(product))
	w1 := &entity.Warehouse{Name: "Bodega Central"}
	require.NoError(t, warehouseRepo.Create(w1))
	w2 := &entity.Warehouse{Name: "Bodega Norte"}
	require.NoError(t, warehouseRepo.Create(w2))

	return &testEnv{
		uc:        stock.NewUseCase(memory.NewTxRunner(store), productRepo, warehouseRepo, publisher, log),
		query:     stock.NewQueryUseCase(ledgerRepo),
		ledger:    ledgerRepo,
		publisher: publisher,
		productID: product.ID,
		w1:        w1.ID,
		w2:        w2.ID,
	}
}

func (e *testEnv) balance(t *testing.T, warehouseID int64) int64 {
	t.Helper()
	balance, err := e.query.CurrentStock(context.Background(), e.productID, warehouseID)
	require.NoError(t, err)
	return balance
}

func (e *testEnv) totalEntries(t *testing.T) int {
	t.Helper()
	_, total, err := e.ledger.Scan(repository.LedgerFilter{}, repository.ScanOptions{})
	require.NoError(t, err)
	return total
}

// ──────────────────────────────────────────────────────────────────────────────
// Flujo completo: entrada, salida, traslado
// ──────────────────────────────────────────────────────────────────────────────

// Caso 1: el escenario de punta a punta — recibir 10, despachar 4, trasladar 3,
// intentar despachar 4 más desde la bodega origen.
func TestUseCase_FlujoCompleto(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	entry, err := env.uc.StockIn(ctx, dto.StockInRequest{
		ProductID: env.productID, WarehouseID: env.w1, Quantity: 10, OperationKey: "rcv-1",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(10), entry.Quantity, "la entrada se registra con cantidad positiva")
	assert.Equal(t, entity.OperationIN, entry.Operation)
	assert.Equal(t, int64(10), env.balance(t, env.w1))

	out, err := env.uc.StockOut(ctx, dto.StockOutRequest{
		ProductID: env.productID, WarehouseID: env.w1, Quantity: 4, OperationKey: "iss-1",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(-4), out.Quantity, "la salida se registra con cantidad negativa")
	assert.Equal(t, int64(6), env.balance(t, env.w1))

	pair, err := env.uc.Transfer(ctx, dto.StockTransferRequest{
		ProductID: env.productID, FromWarehouseID: env.w1, ToWarehouseID: env.w2,
		Quantity: 3, OperationKey: "tr-1",
	})
	require.NoError(t, err)
	require.Len(t, pair, 2)
	assert.Equal(t, int64(3), env.balance(t, env.w1))
	assert.Equal(t, int64(3), env.balance(t, env.w2))

	// Queda 3 en origen: despachar 4 debe fallar y reportar las cantidades.
	_, err = env.uc.StockOut(ctx, dto.StockOutRequest{
		ProductID: env.productID, WarehouseID: env.w1, Quantity: 4, OperationKey: "iss-2",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	var insufficient *domain.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, int64(3), insufficient.Available)
	assert.Equal(t, int64(4), insufficient.Requested)

	// El rechazo no dejó rastro en el ledger.
	assert.Equal(t, int64(3), env.balance(t, env.w1))
	assert.Equal(t, 4, env.totalEntries(t), "solo los movimientos confirmados quedan en el ledger")

	// Un evento por asiento confirmado: IN + OUT + par del TRANSFER.
	assert.Equal(t, 4, env.publisher.count())
}

// Caso 2: el par de asientos de un traslado tiene igual magnitud, signo opuesto y
// keys derivadas de la base.
func TestUseCase_Transfer_ParDeAsientos(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.uc.StockIn(ctx, dto.StockInRequest{
		ProductID: env.productID, WarehouseID: env.w1, Quantity: 8, OperationKey: "rcv-1",
	})
	require.NoError(t, err)

	pair, err := env.uc.Transfer(ctx, dto.StockTransferRequest{
		ProductID: env.productID, FromWarehouseID: env.w1, ToWarehouseID: env.w2,
		Quantity: 5, OperationKey: "tr-9",
	})
	require.NoError(t, err)
	require.Len(t, pair, 2)

	outEntry, inEntry := pair[0], pair[1]
	assert.Equal(t, "tr-9_OUT", outEntry.OperationKey)
	assert.Equal(t, "tr-9_IN", inEntry.OperationKey)
	assert.Equal(t, entity.OperationTRANSFER, outEntry.Operation)
	assert.Equal(t, entity.OperationTRANSFER, inEntry.Operation)
	assert.Equal(t, int64(-5), outEntry.Quantity)
	assert.Equal(t, int64(5), inEntry.Quantity)
	assert.Equal(t, env.w1, outEntry.WarehouseID)
	assert.Equal(t, env.w2, inEntry.WarehouseID)

	// Neto cero entre bodegas: el traslado no crea ni destruye unidades.
	assert.Equal(t, int64(8), env.balance(t, env.w1)+env.balance(t, env.w2))
}

// ──────────────────────────────────────────────────────────────────────────────
// Idempotencia
// ──────────────────────────────────────────────────────────────────────────────

// Caso 3: repetir una operation_key responde conflicto sin escribir nada.
func TestUseCase_OperationKeyRepetida(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.uc.StockIn(ctx, dto.StockInRequest{
		ProductID: env.productID, WarehouseID: env.w1, Quantity: 10, OperationKey: "k-1",
	})
	require.NoError(t, err)

	// Misma key en la misma operación.
	_, err = env.uc.StockIn(ctx, dto.StockInRequest{
		ProductID: env.productID, WarehouseID: env.w1, Quantity: 10, OperationKey: "k-1",
	})
	assert.ErrorIs(t, err, domain.ErrDuplicateOperationKey)

	// Misma key en otra operación: la unicidad es global, no por tipo.
	_, err = env.uc.StockOut(ctx, dto.StockOutRequest{
		ProductID: env.productID, WarehouseID: env.w1, Quantity: 1, OperationKey: "k-1",
	})
	assert.ErrorIs(t, err, domain.ErrDuplicateOperationKey)

	assert.Equal(t, 1, env.totalEntries(t), "las repeticiones no escriben asientos")
	assert.Equal(t, int64(10), env.balance(t, env.w1), "el saldo no cambia con repeticiones")
}

// Caso 4: las keys derivadas de un traslado también reservan espacio de nombres.
func TestUseCase_KeysDerivadasDeTraslado(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.uc.StockIn(ctx, dto.StockInRequest{
		ProductID: env.productID, WarehouseID: env.w1, Quantity: 10, OperationKey: "rcv-1",
	})
	require.NoError(t, err)
	_, err = env.uc.Transfer(ctx, dto.StockTransferRequest{
		ProductID: env.productID, FromWarehouseID: env.w1, ToWarehouseID: env.w2,
		Quantity: 2, OperationKey: "tr-1",
	})
	require.NoError(t, err)

	// Repetir el traslado completo.
	_, err = env.uc.Transfer(ctx, dto.StockTransferRequest{
		ProductID: env.productID, FromWarehouseID: env.w1, ToWarehouseID: env.w2,
		Quantity: 2, OperationKey: "tr-1",
	})
	assert.ErrorIs(t, err, domain.ErrDuplicateOperationKey)

	// Una entrada que choca con la key derivada ya escrita.
	_, err = env.uc.StockIn(ctx, dto.StockInRequest{
		ProductID: env.productID, WarehouseID: env.w1, Quantity: 1, OperationKey: "tr-1_OUT",
	})
	assert.ErrorIs(t, err, domain.ErrDuplicateOperationKey)

	// Un traslado cuya key derivada chocaría con un asiento existente.
	_, err = env.uc.StockIn(ctx, dto.StockInRequest{
		ProductID: env.productID, WarehouseID: env.w1, Quantity: 1, OperationKey: "tr-2_IN",
	})
	require.NoError(t, err)
	_, err = env.uc.Transfer(ctx, dto.StockTransferRequest{
		ProductID: env.productID, FromWarehouseID: env.w1, ToWarehouseID: env.w2,
		Quantity: 1, OperationKey: "tr-2",
	})
	assert.ErrorIs(t, err, domain.ErrDuplicateOperationKey)
}

// ──────────────────────────────────────────────────────────────────────────────
// Validación y precedencia de errores
// ──────────────────────────────────────────────────────────────────────────────

// Caso 5: cantidades no positivas y keys vacías se rechazan antes de tocar el store.
func TestUseCase_EntradaInvalida(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.uc.StockIn(ctx, dto.StockInRequest{
		ProductID: env.productID, WarehouseID: env.w1, Quantity: 0, OperationKey: "k",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "cantidad cero")

	_, err = env.uc.StockOut(ctx, dto.StockOutRequest{
		ProductID: env.productID, WarehouseID: env.w1, Quantity: -3, OperationKey: "k",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "cantidad negativa")

	_, err = env.uc.StockIn(ctx, dto.StockInRequest{
		ProductID: env.productID, WarehouseID: env.w1, Quantity: 1, OperationKey: "",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "operation_key vacía")

	assert.Equal(t, 0, env.totalEntries(t))
}

// Caso 6: producto o bodega inexistente responde NotFound aunque la key ya exista
// o el saldo no alcance.
func TestUseCase_NotFoundPrecedeAConflicto(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.uc.StockIn(ctx, dto.StockInRequest{
		ProductID: env.productID, WarehouseID: env.w1, Quantity: 5, OperationKey: "k-1",
	})
	require.NoError(t, err)

	// Producto inexistente + key repetida → gana NotFound.
	_, err = env.uc.StockOut(ctx, dto.StockOutRequest{
		ProductID: 999, WarehouseID: env.w1, Quantity: 1, OperationKey: "k-1",
	})
	assert.ErrorIs(t, err, domain.ErrProductNotFound)

	// Bodega inexistente.
	_, err = env.uc.StockIn(ctx, dto.StockInRequest{
		ProductID: env.productID, WarehouseID: 999, Quantity: 1, OperationKey: "k-2",
	})
	assert.ErrorIs(t, err, domain.ErrWarehouseNotFound)
}

// Caso 7: key repetida + saldo insuficiente → gana el conflicto de idempotencia.
func TestUseCase_ConflictoPrecedeAStockInsuficiente(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.uc.StockIn(ctx, dto.StockInRequest{
		ProductID: env.productID, WarehouseID: env.w1, Quantity: 2, OperationKey: "k-1",
	})
	require.NoError(t, err)

	_, err = env.uc.StockOut(ctx, dto.StockOutRequest{
		ProductID: env.productID, WarehouseID: env.w1, Quantity: 100, OperationKey: "k-1",
	})
	assert.ErrorIs(t, err, domain.ErrDuplicateOperationKey,
		"la repetición se detecta antes de evaluar el saldo")
}

// Caso 8: bodega origen igual a destino se rechaza antes que cualquier otra cosa.
func TestUseCase_TrasladoMismaBodega(t *testing.T) {
	env := newTestEnv(t)

	// Incluso con producto inexistente: el chequeo estructural no requiere I/O.
	_, err := env.uc.Transfer(context.Background(), dto.StockTransferRequest{
		ProductID: 999, FromWarehouseID: env.w1, ToWarehouseID: env.w1,
		Quantity: 1, OperationKey: "tr-1",
	})
	assert.ErrorIs(t, err, domain.ErrSameWarehouse)
}

// Caso 9: un traslado sin saldo suficiente no escribe ninguno de los dos asientos.
func TestUseCase_TrasladoInsuficienteNoEscribeNada(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.uc.StockIn(ctx, dto.StockInRequest{
		ProductID: env.productID, WarehouseID: env.w1, Quantity: 2, OperationKey: "rcv-1",
	})
	require.NoError(t, err)

	_, err = env.uc.Transfer(ctx, dto.StockTransferRequest{
		ProductID: env.productID, FromWarehouseID: env.w1, ToWarehouseID: env.w2,
		Quantity: 5, OperationKey: "tr-1",
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.Equal(t, 1, env.totalEntries(t))
	assert.Equal(t, int64(2), env.balance(t, env.w1))
	assert.Equal(t, int64(0), env.balance(t, env.w2))

	// La key base quedó libre: el mismo traslado con cantidad válida funciona.
	_, err = env.uc.Transfer(ctx, dto.StockTransferRequest{
		ProductID: env.productID, FromWarehouseID: env.w1, ToWarehouseID: env.w2,
		Quantity: 2, OperationKey: "tr-1",
	})
	assert.NoError(t, err, "el rechazo no consume la operation_key")
}

// ──────────────────────────────────────────────────────────────────────────────
// Concurrencia
// ──────────────────────────────────────────────────────────────────────────────

// Caso 10: N salidas concurrentes contra saldo B con cantidad q permiten exactamente
// floor(B/q) éxitos; el saldo nunca baja de cero.
func TestUseCase_SalidasConcurrentes(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	const initial = 5
	const workers = 20

	_, err := env.uc.StockIn(ctx, dto.StockInRequest{
		ProductID: env.productID, WarehouseID: env.w1, Quantity: initial, OperationKey: "rcv-1",
	})
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, err := env.uc.StockOut(ctx, dto.StockOutRequest{
				ProductID: env.productID, WarehouseID: env.w1,
				Quantity: 1, OperationKey: "iss-" + string(rune('a'+n)),
			})
			results <- err
		}(i)
	}
	wg.Wait()
	close(results)

	var ok, insufficient int
	for err := range results {
		switch {
		case err == nil:
			ok++
		default:
			require.ErrorIs(t, err, domain.ErrInsufficientStock)
			insufficient++
		}
	}
	assert.Equal(t, initial, ok, "exactamente floor(B/q) salidas deben confirmarse")
	assert.Equal(t, workers-initial, insufficient)
	assert.Equal(t, int64(0), env.balance(t, env.w1), "el saldo nunca queda negativo")
}

// Caso 11: la misma operation_key lanzada en paralelo confirma exactamente una vez.
func TestUseCase_KeyConcurrente_UnSoloGanador(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	const workers = 10
	var wg sync.WaitGroup
	results := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := env.uc.StockIn(ctx, dto.StockInRequest{
				ProductID: env.productID, WarehouseID: env.w1,
				Quantity: 7, OperationKey: "misma-key",
			})
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var ok int
	for err := range results {
		if err == nil {
			ok++
		} else {
			require.ErrorIs(t, err, domain.ErrDuplicateOperationKey)
		}
	}
	assert.Equal(t, 1, ok, "solo una petición puede escribir la key")
	assert.Equal(t, int64(7), env.balance(t, env.w1))
	assert.Equal(t, 1, env.totalEntries(t))
}
