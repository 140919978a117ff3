package repository

import "github.com/jhoicas/stock-ledger-api/internal/domain/entity"

// WarehouseFilter filtros enumerados para listar bodegas.
type WarehouseFilter struct {
	SearchTerm string // busca en nombre y ubicación
}

// WarehouseRepository define el puerto de persistencia para Warehouse (DIP).
type WarehouseRepository interface {
	Create(warehouse *entity.Warehouse) error
	GetByID(id int64) (*entity.Warehouse, error)
	Update(warehouse *entity.Warehouse) error
	List(filter WarehouseFilter, limit, offset int) ([]*entity.Warehouse, int, error)
	Delete(id int64) error
}
