package memory

import (
	"sort"
	"strings"

	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

var _ repository.WarehouseRepository = (*WarehouseRepo)(nil)

// WarehouseRepo implementación del puerto WarehouseRepository en memoria.
type WarehouseRepo struct {
	s *Store
}

// NewWarehouseRepository construye el adaptador de bodegas.
func NewWarehouseRepository(s *Store) *WarehouseRepo {
	return &WarehouseRepo{s: s}
}

// Create persiste una nueva bodega.
func (r *WarehouseRepo) Create(warehouse *entity.Warehouse) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.nextWarehouseID++
	warehouse.ID = r.s.nextWarehouseID
	r.s.warehouses[warehouse.ID] = copyWarehouse(warehouse)
	return nil
}

// GetByID obtiene una bodega por ID; nil si no existe.
func (r *WarehouseRepo) GetByID(id int64) (*entity.Warehouse, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return copyWarehouse(r.s.warehouses[id]), nil
}

// Update actualiza una bodega existente.
func (r *WarehouseRepo) Update(warehouse *entity.Warehouse) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.warehouses[warehouse.ID]; !ok {
		return domain.ErrWarehouseNotFound
	}
	r.s.warehouses[warehouse.ID] = copyWarehouse(warehouse)
	return nil
}

// List lista bodegas con búsqueda en nombre/ubicación y el total de coincidencias.
func (r *WarehouseRepo) List(filter repository.WarehouseFilter, limit, offset int) ([]*entity.Warehouse, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	term := strings.ToLower(filter.SearchTerm)
	var matches []*entity.Warehouse
	for _, w := range r.s.warehouses {
		if term != "" &&
			!strings.Contains(strings.ToLower(w.Name), term) &&
			!strings.Contains(strings.ToLower(w.Location), term) {
			continue
		}
		matches = append(matches, copyWarehouse(w))
	}
	sort.SliceStable(matches, func(i, j int) bool {
		if !matches[i].CreatedAt.Equal(matches[j].CreatedAt) {
			return matches[i].CreatedAt.After(matches[j].CreatedAt)
		}
		return matches[i].ID > matches[j].ID
	})
	return paginate(matches, limit, offset), len(matches), nil
}

// Delete elimina una bodega; falla con domain.ErrConflict si tiene asientos en el ledger.
func (r *WarehouseRepo) Delete(id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, e := range r.s.entries {
		if e.WarehouseID == id {
			return domain.ErrConflict
		}
	}
	delete(r.s.warehouses, id)
	return nil
}
