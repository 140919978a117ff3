package entity

import "time"

// Operaciones del ledger de stock.
const (
	OperationIN       = "IN"       // entrada
	OperationOUT      = "OUT"      // salida
	OperationTRANSFER = "TRANSFER" // traslado entre bodegas
)

// IsValidOperation indica si op pertenece al enum de operaciones.
func IsValidOperation(op string) bool {
	switch op {
	case OperationIN, OperationOUT, OperationTRANSFER:
		return true
	}
	return false
}

// StockLedgerEntry es un asiento inmutable del ledger de stock (append-only).
// Quantity es entera y con signo: positiva aumenta el stock, negativa lo reduce.
// OperationKey es el token de idempotencia aportado por el caller, único para siempre.
type StockLedgerEntry struct {
	ID           int64
	ProductID    int64
	WarehouseID  int64
	Quantity     int64
	Operation    string
	OperationKey string
	CreatedAt    time.Time

	// Resueltos para respuesta; el ledger no los posee.
	Product   *Product
	Warehouse *Warehouse
}

// StockLevel es el saldo actual derivado para un par (producto, bodega):
// suma con signo de todas las cantidades del ledger para ese par.
type StockLevel struct {
	ProductID    int64
	WarehouseID  int64
	CurrentStock int64

	Product   *Product
	Warehouse *Warehouse
}
