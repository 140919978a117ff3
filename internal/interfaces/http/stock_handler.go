package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-ledger-api/internal/application/dto"
	"github.com/jhoicas/stock-ledger-api/internal/application/stock"
)

// StockHandler maneja las peticiones HTTP del ledger de stock.
type StockHandler struct {
	uc     *stock.UseCase
	query  *stock.QueryUseCase
	report *stock.ReportUseCase
}

// NewStockHandler construye el handler.
func NewStockHandler(uc *stock.UseCase, query *stock.QueryUseCase, report *stock.ReportUseCase) *StockHandler {
	return &StockHandler{uc: uc, query: query, report: report}
}

// StockIn godoc
// @Summary      Registrar entrada de stock
// @Description  Agrega un asiento IN al ledger. operation_key repetida responde 409
//
//	sin escribir nada (idempotencia).
//
// @Tags         stock
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StockInRequest  true  "product_id, warehouse_id, quantity > 0, operation_key única"
// @Success      201   {object}  dto.StockLedgerEntryResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/in [post]
func (h *StockHandler) StockIn(c *fiber.Ctx) error {
	var in dto.StockInRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	entry, err := h.uc.StockIn(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(entry)
}

// StockOut godoc
// @Summary      Registrar salida de stock
// @Description  Agrega un asiento OUT con cantidad negativa. Si el saldo del par no
//
//	alcanza responde 409 INSUFFICIENT_STOCK con disponible y solicitado,
//	y el ledger queda intacto.
//
// @Tags         stock
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StockOutRequest  true  "product_id, warehouse_id, quantity > 0, operation_key única"
// @Success      201   {object}  dto.StockLedgerEntryResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/out [post]
func (h *StockHandler) StockOut(c *fiber.Ctx) error {
	var in dto.StockOutRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	entry, err := h.uc.StockOut(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(entry)
}

// Transfer godoc
// @Summary      Trasladar stock entre bodegas
// @Description  Registra el par de asientos TRANSFER (origen negativo, destino
//
//	positivo) de forma atómica, con keys derivadas operation_key_OUT y
//	operation_key_IN.
//
// @Tags         stock
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StockTransferRequest  true  "product_id, from_warehouse_id, to_warehouse_id distintos, quantity > 0, operation_key única"
// @Success      201   {array}   dto.StockLedgerEntryResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/transfer [post]
func (h *StockHandler) Transfer(c *fiber.Ctx) error {
	var in dto.StockTransferRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	entries, err := h.uc.Transfer(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(entries)
}

// GetSummary godoc
// @Summary      Resumen de stock
// @Description  Historial de movimientos (más reciente primero) y saldos actuales
//
//	agrupados por par (producto, bodega).
//
// @Tags         stock
// @Produce      json
// @Param        product_id    query  int  false  "Filtrar por producto"
// @Param        warehouse_id  query  int  false  "Filtrar por bodega"
// @Success      200  {object}  dto.StockSummaryResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/stock/summary [get]
func (h *StockHandler) GetSummary(c *fiber.Ctx) error {
	filter := stock.SummaryFilter{
		ProductID:   queryInt64Ptr(c, "product_id"),
		WarehouseID: queryInt64Ptr(c, "warehouse_id"),
	}
	summary, err := h.query.GetSummary(c.Context(), filter)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(summary)
}

// GetFiltered godoc
// @Summary      Listar movimientos del ledger
// @Description  Movimientos con búsqueda (operation_key, sku, nombres), filtros,
//
//	paginación y orden. sort_by admite id, createdAt, quantity,
//	operation y operationKey; otro valor cae a createdAt descendente.
//
// @Tags         stock
// @Produce      json
// @Param        search        query  string  false  "Término de búsqueda"
// @Param        product_id    query  int     false  "Filtrar por producto"
// @Param        warehouse_id  query  int     false  "Filtrar por bodega"
// @Param        operation     query  string  false  "IN, OUT o TRANSFER"
// @Param        page          query  int     false  "Página (desde 1)"
// @Param        limit         query  int     false  "Tamaño de página (máx 100)"
// @Param        sort_by       query  string  false  "Campo de orden"
// @Param        sort_order    query  string  false  "asc o desc"
// @Success      200  {object}  dto.FilteredStockResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/stock [get]
func (h *StockHandler) GetFiltered(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code: "VALIDATION", Message: "parámetros de paginación inválidos",
		})
	}
	filter := stock.FilterRequest{
		SearchTerm:  c.Query("search"),
		ProductID:   queryInt64Ptr(c, "product_id"),
		WarehouseID: queryInt64Ptr(c, "warehouse_id"),
		Operation:   c.Query("operation"),
	}
	result, err := h.query.GetFiltered(c.Context(), filter, page)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(result)
}

// GetReport godoc
// @Summary      Reporte PDF de saldos
// @Tags         stock
// @Produce      application/pdf
// @Param        product_id    query  int  false  "Filtrar por producto"
// @Param        warehouse_id  query  int  false  "Filtrar por bodega"
// @Success      200  {file}    binary
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/stock/report [get]
func (h *StockHandler) GetReport(c *fiber.Ctx) error {
	filter := stock.SummaryFilter{
		ProductID:   queryInt64Ptr(c, "product_id"),
		WarehouseID: queryInt64Ptr(c, "warehouse_id"),
	}
	pdfBytes, err := h.report.GenerateStockReport(c.Context(), filter)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="stock-report.pdf"`)
	return c.Send(pdfBytes)
}

// queryInt64Ptr parsea un query param numérico opcional; nil si está ausente o no parsea.
func queryInt64Ptr(c *fiber.Ctx, name string) *int64 {
	raw := c.Query(name)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil
	}
	return &v
}
