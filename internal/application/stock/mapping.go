package stock

import (
	"github.com/jhoicas/stock-ledger-api/internal/application/dto"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
)

func toEntryResponse(e *entity.StockLedgerEntry) *dto.StockLedgerEntryResponse {
	if e == nil {
		return nil
	}
	return &dto.StockLedgerEntryResponse{
		ID:           e.ID,
		ProductID:    e.ProductID,
		WarehouseID:  e.WarehouseID,
		Quantity:     e.Quantity,
		Operation:    e.Operation,
		OperationKey: e.OperationKey,
		CreatedAt:    e.CreatedAt,
		Product:      toProductResponse(e.Product),
		Warehouse:    toWarehouseResponse(e.Warehouse),
	}
}

func toLevelResponse(l *entity.StockLevel) *dto.StockLevelResponse {
	if l == nil {
		return nil
	}
	return &dto.StockLevelResponse{
		ProductID:    l.ProductID,
		WarehouseID:  l.WarehouseID,
		CurrentStock: l.CurrentStock,
		Product:      toProductResponse(l.Product),
		Warehouse:    toWarehouseResponse(l.Warehouse),
	}
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

func toWarehouseResponse(w *entity.Warehouse) *dto.WarehouseResponse {
	if w == nil {
		return nil
	}
	return &dto.WarehouseResponse{
		ID:        w.ID,
		Name:      w.Name,
		Location:  w.Location,
		CreatedAt: w.CreatedAt,
		UpdatedAt: w.UpdatedAt,
	}
}
