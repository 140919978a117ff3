package stock

import (
	"context"

	"github.com/jhoicas/stock-ledger-api/internal/application/dto"
	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

// SummaryFilter filtros opcionales del resumen de stock.
type SummaryFilter struct {
	ProductID   *int64
	WarehouseID *int64
}

// FilterRequest filtros para el listado paginado de movimientos.
type FilterRequest struct {
	SearchTerm  string
	ProductID   *int64
	WarehouseID *int64
	Operation   string
}

// QueryUseCase lecturas del ledger: historial de movimientos y saldos actuales.
// No aplica validación de negocio; solo normaliza tipos de filtro.
type QueryUseCase struct {
	ledgerRepo repository.StockLedgerRepository
}

// NewQueryUseCase construye el caso de uso de lectura.
func NewQueryUseCase(ledgerRepo repository.StockLedgerRepository) *QueryUseCase {
	return &QueryUseCase{ledgerRepo: ledgerRepo}
}

// CurrentStock retorna el saldo actual del par: suma con signo de todos los asientos
// confirmados al momento de la llamada. Sin capa de caché.
func (uc *QueryUseCase) CurrentStock(_ context.Context, productID, warehouseID int64) (int64, error) {
	return uc.ledgerRepo.Sum(productID, warehouseID)
}

// GetSummary retorna el historial de movimientos (más reciente primero) y los saldos
// agrupados por par, con producto y bodega resueltos.
func (uc *QueryUseCase) GetSummary(_ context.Context, filter SummaryFilter) (*dto.StockSummaryResponse, error) {
	ledgerFilter := repository.LedgerFilter{
		ProductID:   filter.ProductID,
		WarehouseID: filter.WarehouseID,
	}
	movements, _, err := uc.ledgerRepo.Scan(ledgerFilter, repository.ScanOptions{})
	if err != nil {
		return nil, err
	}
	levels, err := uc.ledgerRepo.GroupSums(ledgerFilter)
	if err != nil {
		return nil, err
	}

	out := &dto.StockSummaryResponse{
		StockMovements: make([]dto.StockLedgerEntryResponse, 0, len(movements)),
		StockLevels:    make([]dto.StockLevelResponse, 0, len(levels)),
	}
	for _, m := range movements {
		out.StockMovements = append(out.StockMovements, *toEntryResponse(m))
	}
	for _, l := range levels {
		out.StockLevels = append(out.StockLevels, *toLevelResponse(l))
	}
	return out, nil
}

// GetFiltered retorna movimientos con búsqueda, filtros, paginación y orden, junto con
// el total de coincidencias.
func (uc *QueryUseCase) GetFiltered(_ context.Context, filter FilterRequest, page dto.PageRequest) (*dto.FilteredStockResponse, error) {
	if filter.Operation != "" && !entity.IsValidOperation(filter.Operation) {
		return nil, domain.ErrInvalidInput
	}
	page.Normalize()

	entries, total, err := uc.ledgerRepo.Scan(
		repository.LedgerFilter{
			SearchTerm:  filter.SearchTerm,
			ProductID:   filter.ProductID,
			WarehouseID: filter.WarehouseID,
			Operation:   filter.Operation,
		},
		repository.ScanOptions{
			Limit:     page.Limit,
			Offset:    page.Offset(),
			SortBy:    page.SortBy,
			SortOrder: page.SortOrder,
		},
	)
	if err != nil {
		return nil, err
	}

	out := &dto.FilteredStockResponse{
		Meta: dto.PageMeta{Page: page.Page, Limit: page.Limit, Total: total},
		Data: make([]dto.StockLedgerEntryResponse, 0, len(entries)),
	}
	for _, e := range entries {
		out.Data = append(out.Data, *toEntryResponse(e))
	}
	return out, nil
}
