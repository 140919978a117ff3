package entity

import "time"

// Warehouse representa una bodega donde se almacena inventario (multi-bodega).
type Warehouse struct {
	ID        int64
	Name      string
	Location  string // opcional
	CreatedAt time.Time
	UpdatedAt time.Time
}
