package repository

import "github.com/jhoicas/stock-ledger-api/internal/domain/entity"

// ProductFilter filtros enumerados para listar productos.
type ProductFilter struct {
	SearchTerm string // busca en sku y nombre
}

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id int64) (*entity.Product, error)
	GetBySKU(sku string) (*entity.Product, error)
	Update(product *entity.Product) error
	List(filter ProductFilter, limit, offset int) ([]*entity.Product, int, error)
	Delete(id int64) error
}
