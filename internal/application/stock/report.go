package stock

import (
	"context"
	"time"

	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

// ReportUseCase genera el reporte PDF de saldos actuales de inventario.
type ReportUseCase struct {
	ledgerRepo repository.StockLedgerRepository
	generator  StockReportGenerator
}

// NewReportUseCase construye el caso de uso de reportes.
func NewReportUseCase(ledgerRepo repository.StockLedgerRepository, generator StockReportGenerator) *ReportUseCase {
	return &ReportUseCase{ledgerRepo: ledgerRepo, generator: generator}
}

// GenerateStockReport agrupa los saldos según el filtro y devuelve los bytes del PDF.
func (uc *ReportUseCase) GenerateStockReport(_ context.Context, filter SummaryFilter) ([]byte, error) {
	levels, err := uc.ledgerRepo.GroupSums(repository.LedgerFilter{
		ProductID:   filter.ProductID,
		WarehouseID: filter.WarehouseID,
	})
	if err != nil {
		return nil, err
	}
	return uc.generator.GenerateStockReport(levels, time.Now())
}
