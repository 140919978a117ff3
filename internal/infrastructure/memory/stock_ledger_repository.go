package memory

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

var _ repository.StockLedgerRepository = (*StockLedgerRepo)(nil)

// StockLedgerRepo implementación del ledger en memoria. Fuera del TxRunner la sesión
// es nil y LockPair no está disponible; las lecturas funcionan en ambos modos.
type StockLedgerRepo struct {
	s       *Store
	session *txSession
}

// NewStockLedgerRepository construye el adaptador de solo lectura/append sin sesión.
func NewStockLedgerRepository(s *Store) *StockLedgerRepo {
	return &StockLedgerRepo{s: s}
}

// Create agrega un asiento; operation_key repetida retorna domain.ErrDuplicateOperationKey.
func (r *StockLedgerRepo) Create(entry *entity.StockLedgerEntry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.appendLocked(entry)
}

// CreateAll agrega el lote completo o nada: valida todas las keys bajo el mismo lock
// antes de escribir el primer asiento.
func (r *StockLedgerRepo) CreateAll(entries []*entity.StockLedgerEntry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	seen := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		if _, ok := r.s.keys[e.OperationKey]; ok {
			return domain.ErrDuplicateOperationKey
		}
		if _, ok := seen[e.OperationKey]; ok {
			return domain.ErrDuplicateOperationKey
		}
		seen[e.OperationKey] = struct{}{}
	}
	for _, e := range entries {
		if err := r.s.appendLocked(e); err != nil {
			return err
		}
	}
	return nil
}

// appendLocked requiere s.mu tomado en modo escritura.
func (s *Store) appendLocked(entry *entity.StockLedgerEntry) error {
	if _, ok := s.keys[entry.OperationKey]; ok {
		return domain.ErrDuplicateOperationKey
	}
	s.nextEntryID++
	entry.ID = s.nextEntryID

	stored := *entry
	stored.Product = nil
	stored.Warehouse = nil
	s.entries = append(s.entries, &stored)
	s.keys[entry.OperationKey] = struct{}{}
	return nil
}

// AnyKeyExists indica si alguna de las keys ya fue utilizada.
func (r *StockLedgerRepo) AnyKeyExists(keys ...string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, k := range keys {
		if _, ok := r.s.keys[k]; ok {
			return true, nil
		}
	}
	return false, nil
}

// Sum retorna la suma con signo de cantidades para el par, 0 si no hay asientos.
func (r *StockLedgerRepo) Sum(productID, warehouseID int64) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var sum int64
	for _, e := range r.s.entries {
		if e.ProductID == productID && e.WarehouseID == warehouseID {
			sum += e.Quantity
		}
	}
	return sum, nil
}

// LockPair toma el mutex del par dentro de la sesión del TxRunner; se libera al
// terminar Run. Fuera de una sesión no hay a quién devolverle el lock.
func (r *StockLedgerRepo) LockPair(productID, warehouseID int64) error {
	if r.session == nil {
		return fmt.Errorf("lock pair: requiere ejecutarse dentro de TxRunner.Run")
	}
	r.session.lockPair(pairKey{productID: productID, warehouseID: warehouseID})
	return nil
}

// GroupSums retorna el saldo por cada par (producto, bodega) que cumpla el filtro,
// ordenado por nombre de producto y de bodega igual que el adaptador PostgreSQL.
func (r *StockLedgerRepo) GroupSums(filter repository.LedgerFilter) ([]*entity.StockLevel, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	sums := make(map[pairKey]int64)
	var order []pairKey
	for _, e := range r.s.entries {
		if !r.s.matchLocked(e, filter) {
			continue
		}
		k := pairKey{productID: e.ProductID, warehouseID: e.WarehouseID}
		if _, ok := sums[k]; !ok {
			order = append(order, k)
		}
		sums[k] += e.Quantity
	}

	levels := make([]*entity.StockLevel, 0, len(order))
	for _, k := range order {
		levels = append(levels, &entity.StockLevel{
			ProductID:    k.productID,
			WarehouseID:  k.warehouseID,
			CurrentStock: sums[k],
			Product:      copyProduct(r.s.products[k.productID]),
			Warehouse:    copyWarehouse(r.s.warehouses[k.warehouseID]),
		})
	}
	sort.SliceStable(levels, func(i, j int) bool {
		if levels[i].Product.Name != levels[j].Product.Name {
			return levels[i].Product.Name < levels[j].Product.Name
		}
		return levels[i].Warehouse.Name < levels[j].Warehouse.Name
	})
	return levels, nil
}

// Scan retorna asientos filtrados con producto y bodega resueltos, más el total de
// coincidencias. opts.Limit <= 0 significa sin límite.
func (r *StockLedgerRepo) Scan(filter repository.LedgerFilter, opts repository.ScanOptions) ([]*entity.StockLedgerEntry, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var matches []*entity.StockLedgerEntry
	for _, e := range r.s.entries {
		if !r.s.matchLocked(e, filter) {
			continue
		}
		cp := *e
		cp.Product = copyProduct(r.s.products[e.ProductID])
		cp.Warehouse = copyWarehouse(r.s.warehouses[e.WarehouseID])
		matches = append(matches, &cp)
	}
	total := len(matches)
	sortEntries(matches, opts)

	if opts.Limit > 0 {
		if opts.Offset >= len(matches) {
			return nil, total, nil
		}
		end := opts.Offset + opts.Limit
		if end > len(matches) {
			end = len(matches)
		}
		matches = matches[opts.Offset:end]
	}
	return matches, total, nil
}

// matchLocked requiere s.mu tomado al menos en modo lectura.
func (s *Store) matchLocked(e *entity.StockLedgerEntry, filter repository.LedgerFilter) bool {
	if filter.ProductID != nil && e.ProductID != *filter.ProductID {
		return false
	}
	if filter.WarehouseID != nil && e.WarehouseID != *filter.WarehouseID {
		return false
	}
	if filter.Operation != "" && e.Operation != filter.Operation {
		return false
	}
	if filter.SearchTerm != "" {
		term := strings.ToLower(filter.SearchTerm)
		if !strings.Contains(strings.ToLower(e.OperationKey), term) &&
			!s.productMatchesLocked(e.ProductID, term) &&
			!s.warehouseMatchesLocked(e.WarehouseID, term) {
			return false
		}
	}
	return true
}

func (s *Store) productMatchesLocked(id int64, term string) bool {
	p, ok := s.products[id]
	if !ok {
		return false
	}
	return strings.Contains(strings.ToLower(p.SKU), term) ||
		strings.Contains(strings.ToLower(p.Name), term)
}

func (s *Store) warehouseMatchesLocked(id int64, term string) bool {
	w, ok := s.warehouses[id]
	if !ok {
		return false
	}
	return strings.Contains(strings.ToLower(w.Name), term)
}

// sortEntries replica las columnas ordenables del adaptador PostgreSQL; sortBy
// desconocido cae a created_at descendente. El ID desempata para que el orden sea
// estable cuando varios asientos comparten timestamp.
func sortEntries(entries []*entity.StockLedgerEntry, opts repository.ScanOptions) {
	asc := strings.EqualFold(opts.SortOrder, "asc")
	var less func(a, b *entity.StockLedgerEntry) int

	switch opts.SortBy {
	case "id":
		less = func(a, b *entity.StockLedgerEntry) int { return compareInt64(a.ID, b.ID) }
	case "quantity":
		less = func(a, b *entity.StockLedgerEntry) int { return compareInt64(a.Quantity, b.Quantity) }
	case "operation":
		less = func(a, b *entity.StockLedgerEntry) int { return strings.Compare(a.Operation, b.Operation) }
	case "operationKey":
		less = func(a, b *entity.StockLedgerEntry) int { return strings.Compare(a.OperationKey, b.OperationKey) }
	case "createdAt":
		less = func(a, b *entity.StockLedgerEntry) int { return a.CreatedAt.Compare(b.CreatedAt) }
	default:
		asc = false
		less = func(a, b *entity.StockLedgerEntry) int { return a.CreatedAt.Compare(b.CreatedAt) }
	}

	sort.SliceStable(entries, func(i, j int) bool {
		c := less(entries[i], entries[j])
		if c == 0 {
			c = compareInt64(entries[i].ID, entries[j].ID)
		}
		if asc {
			return c < 0
		}
		return c > 0
	})
}

func compareInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
