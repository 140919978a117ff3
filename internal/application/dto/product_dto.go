package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest body para POST /api/products.
type CreateProductRequest struct {
	SKU   string           `json:"sku"`
	Name  string           `json:"name"`
	Price *decimal.Decimal `json:"price,omitempty"`
}

// UpdateProductRequest body para PUT /api/products/:id (campos opcionales).
type UpdateProductRequest struct {
	SKU   *string          `json:"sku,omitempty"`
	Name  *string          `json:"name,omitempty"`
	Price *decimal.Decimal `json:"price,omitempty"`
}

// ProductResponse representación HTTP de un producto.
type ProductResponse struct {
	ID        int64           `json:"id"`
	SKU       string          `json:"sku"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// ProductDetailResponse producto con su stock actual por bodega.
type ProductDetailResponse struct {
	ProductResponse
	StockLevels []StockLevelResponse `json:"stock_levels"`
}

// ProductListResponse listado paginado de productos.
type ProductListResponse struct {
	Meta PageMeta          `json:"meta"`
	Data []ProductResponse `json:"data"`
}
