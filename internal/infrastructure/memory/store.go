// Package memory implementa los puertos de persistencia sobre estructuras en memoria.
// Se usa en tests y como driver local (STORE_DRIVER=memory); ofrece las mismas
// garantías que el adaptador PostgreSQL: unicidad atómica de operation_key, lotes
// todo-o-nada y lock exclusivo por par (producto, bodega).
package memory

import (
	"sync"

	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
)

type pairKey struct {
	productID   int64
	warehouseID int64
}

// Store contiene el estado compartido. Un solo mutex protege los datos; los locks por
// par viven en un mapa aparte y los administra el TxRunner durante la unidad de trabajo.
type Store struct {
	mu         sync.RWMutex
	products   map[int64]*entity.Product
	warehouses map[int64]*entity.Warehouse
	entries    []*entity.StockLedgerEntry
	keys       map[string]struct{}

	nextProductID   int64
	nextWarehouseID int64
	nextEntryID     int64

	pairMuMu sync.Mutex
	pairMu   map[pairKey]*sync.Mutex
}

// NewStore construye un store vacío.
func NewStore() *Store {
	return &Store{
		products:   make(map[int64]*entity.Product),
		warehouses: make(map[int64]*entity.Warehouse),
		keys:       make(map[string]struct{}),
		pairMu:     make(map[pairKey]*sync.Mutex),
	}
}

// pairLock retorna el mutex del par, creándolo si no existe.
func (s *Store) pairLock(k pairKey) *sync.Mutex {
	s.pairMuMu.Lock()
	defer s.pairMuMu.Unlock()
	if _, ok := s.pairMu[k]; !ok {
		s.pairMu[k] = &sync.Mutex{}
	}
	return s.pairMu[k]
}

func copyProduct(p *entity.Product) *entity.Product {
	if p == nil {
		return nil
	}
	cp := *p
	return &cp
}

func copyWarehouse(w *entity.Warehouse) *entity.Warehouse {
	if w == nil {
		return nil
	}
	cw := *w
	return &cw
}
