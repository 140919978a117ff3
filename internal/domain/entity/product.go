package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto o SKU del inventario. El stock no vive aquí:
// se deriva siempre del ledger de movimientos (StockLedgerEntry).
type Product struct {
	ID        int64
	SKU       string // código único
	Name      string
	Price     decimal.Decimal // precio de venta de referencia
	CreatedAt time.Time
	UpdatedAt time.Time
}
