package stock

import (
	"context"
	"time"

	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una unidad de trabajo del store, pasando un
// repositorio de ledger atado a esa unidad. Garantiza que la secuencia
// verificar-idempotencia / bloquear-par / leer-saldo / insertar sea atómica y aislada:
// o se confirma completa o el ledger queda intacto.
type TxRunner interface {
	Run(ctx context.Context, fn func(ledger repository.StockLedgerRepository) error) error
}

// EventPublisher publica eventos de dominio tras confirmar un movimiento.
type EventPublisher interface {
	Publish(topic string, event any) error
}

// StockReportGenerator genera el reporte PDF de saldos actuales.
type StockReportGenerator interface {
	GenerateStockReport(levels []*entity.StockLevel, generatedAt time.Time) ([]byte, error)
}
