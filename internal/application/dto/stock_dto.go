package dto

import "time"

// StockInRequest body para POST /api/stock/in.
type StockInRequest struct {
	ProductID    int64  `json:"product_id"`
	WarehouseID  int64  `json:"warehouse_id"`
	Quantity     int64  `json:"quantity"`
	OperationKey string `json:"operation_key"`
}

// StockOutRequest body para POST /api/stock/out.
type StockOutRequest struct {
	ProductID    int64  `json:"product_id"`
	WarehouseID  int64  `json:"warehouse_id"`
	Quantity     int64  `json:"quantity"`
	OperationKey string `json:"operation_key"`
}

// StockTransferRequest body para POST /api/stock/transfer.
type StockTransferRequest struct {
	ProductID       int64  `json:"product_id"`
	FromWarehouseID int64  `json:"from_warehouse_id"`
	ToWarehouseID   int64  `json:"to_warehouse_id"`
	Quantity        int64  `json:"quantity"`
	OperationKey    string `json:"operation_key"`
}

// StockLedgerEntryResponse un asiento del ledger con producto y bodega resueltos.
type StockLedgerEntryResponse struct {
	ID           int64              `json:"id"`
	ProductID    int64              `json:"product_id"`
	WarehouseID  int64              `json:"warehouse_id"`
	Quantity     int64              `json:"quantity"`
	Operation    string             `json:"operation"`
	OperationKey string             `json:"operation_key"`
	CreatedAt    time.Time          `json:"created_at"`
	Product      *ProductResponse   `json:"product,omitempty"`
	Warehouse    *WarehouseResponse `json:"warehouse,omitempty"`
}

// StockLevelResponse saldo actual de un par (producto, bodega).
type StockLevelResponse struct {
	ProductID    int64              `json:"product_id"`
	WarehouseID  int64              `json:"warehouse_id"`
	CurrentStock int64              `json:"current_stock"`
	Product      *ProductResponse   `json:"product,omitempty"`
	Warehouse    *WarehouseResponse `json:"warehouse,omitempty"`
}

// StockSummaryResponse respuesta de GET /api/stock/summary.
type StockSummaryResponse struct {
	StockMovements []StockLedgerEntryResponse `json:"stock_movements"`
	StockLevels    []StockLevelResponse       `json:"stock_levels"`
}

// FilteredStockResponse respuesta paginada de GET /api/stock.
type FilteredStockResponse struct {
	Meta PageMeta                   `json:"meta"`
	Data []StockLedgerEntryResponse `json:"data"`
}
