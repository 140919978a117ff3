package repository

import "github.com/jhoicas/stock-ledger-api/internal/domain/entity"

// LedgerFilter filtros enumerados para Scan y GroupSums. Campos nil/vacíos no filtran.
type LedgerFilter struct {
	SearchTerm  string // busca en operation_key, sku/nombre de producto y nombre de bodega
	ProductID   *int64
	WarehouseID *int64
	Operation   string // IN, OUT o TRANSFER
}

// ScanOptions paginación y orden para Scan. Limit <= 0 significa sin límite.
// SortBy acepta id, createdAt, quantity, operation u operationKey; cualquier otro
// valor cae al orden por defecto createdAt descendente.
type ScanOptions struct {
	Limit     int
	Offset    int
	SortBy    string
	SortOrder string // asc o desc
}

// StockLedgerRepository define el puerto de persistencia del ledger de stock.
// Los asientos son inmutables: solo hay inserción y lectura, nunca update ni delete.
type StockLedgerRepository interface {
	// Create inserta un asiento. La verificación de unicidad de operation_key y la
	// inserción son una sola operación atómica; un duplicado retorna
	// domain.ErrDuplicateOperationKey.
	Create(entry *entity.StockLedgerEntry) error
	// CreateAll inserta un lote pequeño de asientos todo-o-nada (traslados).
	// Debe ejecutarse dentro de la unidad de trabajo del TxRunner.
	CreateAll(entries []*entity.StockLedgerEntry) error
	// AnyKeyExists indica si alguna de las operation keys ya fue utilizada.
	AnyKeyExists(keys ...string) (bool, error)
	// Sum retorna la suma con signo de cantidades para el par, 0 si no hay asientos.
	Sum(productID, warehouseID int64) (int64, error)
	// GroupSums retorna el saldo por cada par (producto, bodega) que cumpla el filtro,
	// con datos de producto y bodega resueltos.
	GroupSums(filter LedgerFilter) ([]*entity.StockLevel, error)
	// Scan retorna asientos filtrados y el total de coincidencias para paginación.
	Scan(filter LedgerFilter, opts ScanOptions) ([]*entity.StockLedgerEntry, int, error)
	// LockPair toma el lock exclusivo del par (producto, bodega) por lo que resta de la
	// unidad de trabajo. Serializa la secuencia leer-saldo-verificar-insertar frente a
	// otros escritores del mismo par; solo es válido dentro del TxRunner.
	LockPair(productID, warehouseID int64) error
}
