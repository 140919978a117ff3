package memory

import (
	"sort"
	"strings"

	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación del puerto ProductRepository en memoria.
type ProductRepo struct {
	s *Store
}

// NewProductRepository construye el adaptador de productos.
func NewProductRepository(s *Store) *ProductRepo {
	return &ProductRepo{s: s}
}

// Create persiste un nuevo producto; SKU duplicado retorna domain.ErrSKUAlreadyExists.
func (r *ProductRepo) Create(product *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.products {
		if p.SKU == product.SKU {
			return domain.ErrSKUAlreadyExists
		}
	}
	r.s.nextProductID++
	product.ID = r.s.nextProductID
	r.s.products[product.ID] = copyProduct(product)
	return nil
}

// GetByID obtiene un producto por ID; nil si no existe.
func (r *ProductRepo) GetByID(id int64) (*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return copyProduct(r.s.products[id]), nil
}

// GetBySKU obtiene un producto por SKU; nil si no existe.
func (r *ProductRepo) GetBySKU(sku string) (*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, p := range r.s.products {
		if p.SKU == sku {
			return copyProduct(p), nil
		}
	}
	return nil, nil
}

// Update actualiza un producto existente.
func (r *ProductRepo) Update(product *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.products[product.ID]; !ok {
		return domain.ErrProductNotFound
	}
	for _, p := range r.s.products {
		if p.ID != product.ID && p.SKU == product.SKU {
			return domain.ErrSKUAlreadyExists
		}
	}
	r.s.products[product.ID] = copyProduct(product)
	return nil
}

// List lista productos con búsqueda en sku/nombre y el total de coincidencias,
// ordenados por created_at descendente igual que el adaptador PostgreSQL.
func (r *ProductRepo) List(filter repository.ProductFilter, limit, offset int) ([]*entity.Product, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	term := strings.ToLower(filter.SearchTerm)
	var matches []*entity.Product
	for _, p := range r.s.products {
		if term != "" &&
			!strings.Contains(strings.ToLower(p.SKU), term) &&
			!strings.Contains(strings.ToLower(p.Name), term) {
			continue
		}
		matches = append(matches, copyProduct(p))
	}
	sort.SliceStable(matches, func(i, j int) bool {
		if !matches[i].CreatedAt.Equal(matches[j].CreatedAt) {
			return matches[i].CreatedAt.After(matches[j].CreatedAt)
		}
		return matches[i].ID > matches[j].ID
	})
	return paginate(matches, limit, offset), len(matches), nil
}

// Delete elimina un producto; falla con domain.ErrConflict si tiene asientos en el ledger.
func (r *ProductRepo) Delete(id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, e := range r.s.entries {
		if e.ProductID == id {
			return domain.ErrConflict
		}
	}
	delete(r.s.products, id)
	return nil
}

// paginate corta la ventana [offset, offset+limit) de forma segura.
func paginate[T any](list []T, limit, offset int) []T {
	if offset >= len(list) {
		return nil
	}
	end := offset + limit
	if limit <= 0 || end > len(list) {
		end = len(list)
	}
	return list[offset:end]
}
