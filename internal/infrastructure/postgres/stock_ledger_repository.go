package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

var _ repository.StockLedgerRepository = (*StockLedgerRepo)(nil)

// StockLedgerRepo implementación del ledger sobre PostgreSQL (usable con pool o tx).
// La tabla stock_ledger es append-only: UNIQUE(operation_key) y nunca UPDATE/DELETE.
type StockLedgerRepo struct {
	q Querier
}

// NewStockLedgerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockLedgerRepository(q Querier) *StockLedgerRepo {
	return &StockLedgerRepo{q: q}
}

// Create inserta un asiento. El constraint único sobre operation_key hace que la
// verificación y la inserción sean una sola operación atómica: el perdedor de una
// carrera recibe domain.ErrDuplicateOperationKey, nunca hay dos escrituras.
func (r *StockLedgerRepo) Create(entry *entity.StockLedgerEntry) error {
	query := `
		INSERT INTO stock_ledger (product_id, warehouse_id, quantity, operation, operation_key, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`
	err := r.q.QueryRow(context.Background(), query,
		entry.ProductID, entry.WarehouseID, entry.Quantity,
		entry.Operation, entry.OperationKey, entry.CreatedAt,
	).Scan(&entry.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateOperationKey
		}
		return fmt.Errorf("insert ledger entry: %w", err)
	}
	return nil
}

// CreateAll inserta el lote dentro de la transacción en curso; si un insert falla la
// tx entera hace rollback, así el par de un traslado existe completo o no existe.
func (r *StockLedgerRepo) CreateAll(entries []*entity.StockLedgerEntry) error {
	for _, e := range entries {
		if err := r.Create(e); err != nil {
			return err
		}
	}
	return nil
}

// AnyKeyExists indica si alguna de las keys ya fue utilizada.
func (r *StockLedgerRepo) AnyKeyExists(keys ...string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM stock_ledger WHERE operation_key = ANY($1))`
	var exists bool
	if err := r.q.QueryRow(context.Background(), query, keys).Scan(&exists); err != nil {
		return false, fmt.Errorf("check operation keys: %w", err)
	}
	return exists, nil
}

// Sum retorna la suma con signo de cantidades para el par, 0 si no hay asientos.
func (r *StockLedgerRepo) Sum(productID, warehouseID int64) (int64, error) {
	query := `
		SELECT COALESCE(SUM(quantity), 0)
		FROM stock_ledger WHERE product_id = $1 AND warehouse_id = $2`
	var sum int64
	if err := r.q.QueryRow(context.Background(), query, productID, warehouseID).Scan(&sum); err != nil {
		return 0, fmt.Errorf("sum ledger quantities: %w", err)
	}
	return sum, nil
}

// LockPair toma un advisory lock transaccional sobre el par (producto, bodega).
// Se libera solo en el Commit/Rollback, así la secuencia leer-saldo-insertar queda
// serializada frente a cualquier otro escritor del mismo par. Solo tiene sentido
// dentro del TxRunner.
func (r *StockLedgerRepo) LockPair(productID, warehouseID int64) error {
	query := `SELECT pg_advisory_xact_lock(hashtextextended($1::text || ':' || $2::text, 0))`
	if _, err := r.q.Exec(context.Background(), query, productID, warehouseID); err != nil {
		return fmt.Errorf("lock pair: %w", err)
	}
	return nil
}

// GroupSums retorna el saldo por cada par (producto, bodega) que cumpla el filtro,
// con datos de producto y bodega resueltos en la misma consulta.
func (r *StockLedgerRepo) GroupSums(filter repository.LedgerFilter) ([]*entity.StockLevel, error) {
	where, args := buildLedgerWhere(filter)
	query := `
		SELECT l.product_id, l.warehouse_id, COALESCE(SUM(l.quantity), 0),
		       p.sku, p.name, p.price, w.name, w.location
		FROM stock_ledger l
		JOIN products p ON p.id = l.product_id
		JOIN warehouses w ON w.id = l.warehouse_id` + where + `
		GROUP BY l.product_id, l.warehouse_id, p.sku, p.name, p.price, w.name, w.location
		ORDER BY p.name, w.name`

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("group ledger sums: %w", err)
	}
	defer rows.Close()

	var levels []*entity.StockLevel
	for rows.Next() {
		var (
			l        entity.StockLevel
			p        entity.Product
			w        entity.Warehouse
			location *string
		)
		if err := rows.Scan(&l.ProductID, &l.WarehouseID, &l.CurrentStock,
			&p.SKU, &p.Name, &p.Price, &w.Name, &location); err != nil {
			return nil, fmt.Errorf("scan stock level: %w", err)
		}
		p.ID = l.ProductID
		w.ID = l.WarehouseID
		if location != nil {
			w.Location = *location
		}
		l.Product = &p
		l.Warehouse = &w
		levels = append(levels, &l)
	}
	return levels, rows.Err()
}

// Scan retorna asientos filtrados con producto y bodega resueltos, más el total de
// coincidencias para paginación. opts.Limit <= 0 significa sin límite.
func (r *StockLedgerRepo) Scan(filter repository.LedgerFilter, opts repository.ScanOptions) ([]*entity.StockLedgerEntry, int, error) {
	where, args := buildLedgerWhere(filter)
	from := `
		FROM stock_ledger l
		JOIN products p ON p.id = l.product_id
		JOIN warehouses w ON w.id = l.warehouse_id`

	var total int
	countQuery := `SELECT COUNT(*)` + from + where
	if err := r.q.QueryRow(context.Background(), countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count ledger entries: %w", err)
	}

	query := `
		SELECT l.id, l.product_id, l.warehouse_id, l.quantity, l.operation, l.operation_key, l.created_at,
		       p.sku, p.name, p.price, p.created_at, p.updated_at,
		       w.name, w.location, w.created_at, w.updated_at` +
		from + where + ` ORDER BY ` + orderClause(opts)
	if opts.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
		args = append(args, opts.Limit, opts.Offset)
	}

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("scan ledger: %w", err)
	}
	defer rows.Close()

	var entries []*entity.StockLedgerEntry
	for rows.Next() {
		var (
			e        entity.StockLedgerEntry
			p        entity.Product
			w        entity.Warehouse
			location *string
		)
		if err := rows.Scan(
			&e.ID, &e.ProductID, &e.WarehouseID, &e.Quantity, &e.Operation, &e.OperationKey, &e.CreatedAt,
			&p.SKU, &p.Name, &p.Price, &p.CreatedAt, &p.UpdatedAt,
			&w.Name, &location, &w.CreatedAt, &w.UpdatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("scan ledger entry: %w", err)
		}
		p.ID = e.ProductID
		w.ID = e.WarehouseID
		if location != nil {
			w.Location = *location
		}
		e.Product = &p
		e.Warehouse = &w
		entries = append(entries, &e)
	}
	return entries, total, rows.Err()
}

// buildLedgerWhere arma la cláusula WHERE a partir del filtro enumerado.
func buildLedgerWhere(filter repository.LedgerFilter) (string, []any) {
	var conditions []string
	var args []any

	if filter.SearchTerm != "" {
		args = append(args, "%"+filter.SearchTerm+"%")
		n := len(args)
		conditions = append(conditions, fmt.Sprintf(
			"(l.operation_key ILIKE $%d OR p.sku ILIKE $%d OR p.name ILIKE $%d OR w.name ILIKE $%d)",
			n, n, n, n))
	}
	if filter.ProductID != nil {
		args = append(args, *filter.ProductID)
		conditions = append(conditions, fmt.Sprintf("l.product_id = $%d", len(args)))
	}
	if filter.WarehouseID != nil {
		args = append(args, *filter.WarehouseID)
		conditions = append(conditions, fmt.Sprintf("l.warehouse_id = $%d", len(args)))
	}
	if filter.Operation != "" {
		args = append(args, filter.Operation)
		conditions = append(conditions, fmt.Sprintf("l.operation = $%d", len(args)))
	}
	if len(conditions) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

// Columnas ordenables de Scan; cualquier otro sortBy cae a created_at descendente.
var sortColumns = map[string]string{
	"id":           "l.id",
	"createdAt":    "l.created_at",
	"quantity":     "l.quantity",
	"operation":    "l.operation",
	"operationKey": "l.operation_key",
}

func orderClause(opts repository.ScanOptions) string {
	column, ok := sortColumns[opts.SortBy]
	if !ok {
		return "l.created_at DESC"
	}
	direction := "DESC"
	if strings.EqualFold(opts.SortOrder, "asc") {
		direction = "ASC"
	}
	return column + " " + direction
}
