package usecase

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger-api/internal/application/dto"
	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

// ProductUseCase casos de uso CRUD para productos. El stock actual por bodega se
// deriva del ledger, nunca de un campo del producto.
type ProductUseCase struct {
	repo       repository.ProductRepository
	ledgerRepo repository.StockLedgerRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository, ledgerRepo repository.StockLedgerRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo, ledgerRepo: ledgerRepo}
}

// Create crea un producto. SKU duplicado retorna domain.ErrSKUAlreadyExists.
func (uc *ProductUseCase) Create(in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if in.SKU == "" || in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.repo.GetBySKU(in.SKU)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrSKUAlreadyExists
	}

	now := time.Now()
	product := &entity.Product{
		SKU:       in.SKU,
		Name:      in.Name,
		Price:     decimal.Zero,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if in.Price != nil {
		product.Price = *in.Price
	}
	if err := uc.repo.Create(product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto con su stock actual por bodega.
func (uc *ProductUseCase) GetByID(id int64) (*dto.ProductDetailResponse, error) {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrProductNotFound
	}
	levels, err := uc.ledgerRepo.GroupSums(repository.LedgerFilter{ProductID: &id})
	if err != nil {
		return nil, err
	}

	out := &dto.ProductDetailResponse{
		ProductResponse: *toProductResponse(product),
		StockLevels:     make([]dto.StockLevelResponse, 0, len(levels)),
	}
	for _, l := range levels {
		lvl := dto.StockLevelResponse{
			ProductID:    l.ProductID,
			WarehouseID:  l.WarehouseID,
			CurrentStock: l.CurrentStock,
		}
		if l.Warehouse != nil {
			lvl.Warehouse = &dto.WarehouseResponse{
				ID:       l.Warehouse.ID,
				Name:     l.Warehouse.Name,
				Location: l.Warehouse.Location,
			}
		}
		out.StockLevels = append(out.StockLevels, lvl)
	}
	return out, nil
}

// Update actualiza un producto; si cambia el SKU verifica que el nuevo no exista.
func (uc *ProductUseCase) Update(id int64, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrProductNotFound
	}
	if in.SKU != nil && *in.SKU != product.SKU {
		existing, err := uc.repo.GetBySKU(*in.SKU)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, domain.ErrSKUAlreadyExists
		}
		product.SKU = *in.SKU
	}
	if in.Name != nil {
		product.Name = *in.Name
	}
	if in.Price != nil {
		product.Price = *in.Price
	}
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// List lista productos con búsqueda y paginación.
func (uc *ProductUseCase) List(filter repository.ProductFilter, page dto.PageRequest) (*dto.ProductListResponse, error) {
	page.Normalize()
	list, total, err := uc.repo.List(filter, page.Limit, page.Offset())
	if err != nil {
		return nil, err
	}
	out := &dto.ProductListResponse{
		Meta: dto.PageMeta{Page: page.Page, Limit: page.Limit, Total: total},
		Data: make([]dto.ProductResponse, 0, len(list)),
	}
	for _, p := range list {
		out.Data = append(out.Data, *toProductResponse(p))
	}
	return out, nil
}

// Delete elimina un producto por ID. El store rechaza el borrado si el producto tiene
// asientos en el ledger (los asientos nunca se borran).
func (uc *ProductUseCase) Delete(id int64) error {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrProductNotFound
	}
	return uc.repo.Delete(id)
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:        p.ID,
		SKU:       p.SKU,
		Name:      p.Name,
		Price:     p.Price,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}
