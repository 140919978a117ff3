package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound              = errors.New("recurso no encontrado")
	ErrProductNotFound       = errors.New("producto no encontrado")
	ErrWarehouseNotFound     = errors.New("bodega no encontrada")
	ErrInvalidInput          = errors.New("entrada inválida")
	ErrSKUAlreadyExists      = errors.New("el SKU ya está registrado")
	ErrDuplicateOperationKey = errors.New("operation key ya utilizada")
	ErrSameWarehouse         = errors.New("bodega origen y destino deben ser distintas")
	ErrInsufficientStock     = errors.New("stock insuficiente")
	ErrConflict              = errors.New("conflicto con el estado actual")
)

// InsufficientStockError lleva las cantidades disponible y solicitada para que el
// caller pueda reportarlas. errors.Is(err, ErrInsufficientStock) sigue funcionando.
type InsufficientStockError struct {
	Available int64
	Requested int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente: disponible %d, solicitado %d", e.Available, e.Requested)
}

func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}
