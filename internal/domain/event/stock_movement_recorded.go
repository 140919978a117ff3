package event

import "time"

// TopicStockMovements tópico al que se publican los movimientos confirmados.
const TopicStockMovements = "stock.movements"

// StockMovementRecorded se emite por cada asiento confirmado en el ledger.
// La publicación es post-commit y best effort: nunca afecta la operación.
type StockMovementRecorded struct {
	EntryID      int64     `json:"entry_id"`
	ProductID    int64     `json:"product_id"`
	WarehouseID  int64     `json:"warehouse_id"`
	Operation    string    `json:"operation"`
	Quantity     int64     `json:"quantity"`
	OperationKey string    `json:"operation_key"`
	OccurredAt   time.Time `json:"occurred_at"`
}
