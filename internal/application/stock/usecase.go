package stock

import (
	"context"
	"time"

	"github.com/jhoicas/stock-ledger-api/internal/application/dto"
	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/event"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
	"github.com/jhoicas/stock-ledger-api/pkg/logger"
)

// Sufijos de las operation keys derivadas de un traslado.
const (
	transferOutSuffix = "_OUT"
	transferInSuffix  = "_IN"
)

// UseCase registra las operaciones mutadoras del ledger (IN, OUT, TRANSFER).
// Precedencia de errores: argumento inválido (sin I/O) → NotFound → Conflict →
// InsufficientStock. La verificación de saldo y la inserción corren dentro de una
// unidad de trabajo con el par (producto, bodega) bloqueado, así dos salidas
// concurrentes no pueden leer ambas un saldo suficiente obsoleto.
type UseCase struct {
	txRunner      TxRunner
	productRepo   repository.ProductRepository
	warehouseRepo repository.WarehouseRepository
	publisher     EventPublisher
	log           *logger.Logger
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	warehouseRepo repository.WarehouseRepository,
	publisher EventPublisher,
	log *logger.Logger,
) *UseCase {
	return &UseCase{
		txRunner:      txRunner,
		productRepo:   productRepo,
		warehouseRepo: warehouseRepo,
		publisher:     publisher,
		log:           log,
	}
}

// StockIn registra una entrada: un asiento IN con cantidad positiva.
func (uc *UseCase) StockIn(ctx context.Context, in dto.StockInRequest) (*dto.StockLedgerEntryResponse, error) {
	if in.Quantity <= 0 || in.OperationKey == "" {
		return nil, domain.ErrInvalidInput
	}
	product, warehouse, err := uc.resolveProductAndWarehouse(in.ProductID, in.WarehouseID)
	if err != nil {
		return nil, err
	}

	entry := &entity.StockLedgerEntry{
		ProductID:    in.ProductID,
		WarehouseID:  in.WarehouseID,
		Quantity:     in.Quantity,
		Operation:    entity.OperationIN,
		OperationKey: in.OperationKey,
		CreatedAt:    time.Now(),
	}
	err = uc.txRunner.Run(ctx, func(ledger repository.StockLedgerRepository) error {
		exists, err := ledger.AnyKeyExists(in.OperationKey)
		if err != nil {
			return err
		}
		if exists {
			return domain.ErrDuplicateOperationKey
		}
		return ledger.Create(entry)
	})
	if err != nil {
		return nil, err
	}

	entry.Product = product
	entry.Warehouse = warehouse
	uc.publishMovements(entry)
	return toEntryResponse(entry), nil
}

// StockOut registra una salida: verifica el saldo del par con el lock tomado y, si
// alcanza, inserta un asiento OUT con cantidad negativa. Si no alcanza no escribe nada.
func (uc *UseCase) StockOut(ctx context.Context, in dto.StockOutRequest) (*dto.StockLedgerEntryResponse, error) {
	if in.Quantity <= 0 || in.OperationKey == "" {
		return nil, domain.ErrInvalidInput
	}
	product, warehouse, err := uc.resolveProductAndWarehouse(in.ProductID, in.WarehouseID)
	if err != nil {
		return nil, err
	}

	entry := &entity.StockLedgerEntry{
		ProductID:    in.ProductID,
		WarehouseID:  in.WarehouseID,
		Quantity:     -in.Quantity,
		Operation:    entity.OperationOUT,
		OperationKey: in.OperationKey,
		CreatedAt:    time.Now(),
	}
	err = uc.txRunner.Run(ctx, func(ledger repository.StockLedgerRepository) error {
		exists, err := ledger.AnyKeyExists(in.OperationKey)
		if err != nil {
			return err
		}
		if exists {
			return domain.ErrDuplicateOperationKey
		}
		if err := ledger.LockPair(in.ProductID, in.WarehouseID); err != nil {
			return err
		}
		balance, err := ledger.Sum(in.ProductID, in.WarehouseID)
		if err != nil {
			return err
		}
		if balance < in.Quantity {
			return &domain.InsufficientStockError{Available: balance, Requested: in.Quantity}
		}
		return ledger.Create(entry)
	})
	if err != nil {
		return nil, err
	}

	entry.Product = product
	entry.Warehouse = warehouse
	uc.publishMovements(entry)
	return toEntryResponse(entry), nil
}

// Transfer registra un traslado como un par de asientos TRANSFER de igual magnitud y
// signo opuesto, con keys derivadas de la base (_OUT en origen, _IN en destino),
// insertados todo-o-nada. Solo se bloquea el par de origen: el destino únicamente gana
// stock y no puede violar el invariante de saldo no negativo.
func (uc *UseCase) Transfer(ctx context.Context, in dto.StockTransferRequest) ([]dto.StockLedgerEntryResponse, error) {
	// Chequeo estructural primero: no requiere I/O.
	if in.FromWarehouseID == in.ToWarehouseID {
		return nil, domain.ErrSameWarehouse
	}
	if in.Quantity <= 0 || in.OperationKey == "" {
		return nil, domain.ErrInvalidInput
	}
	product, err := uc.productRepo.GetByID(in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrProductNotFound
	}
	fromWh, err := uc.warehouseRepo.GetByID(in.FromWarehouseID)
	if err != nil {
		return nil, err
	}
	if fromWh == nil {
		return nil, domain.ErrWarehouseNotFound
	}
	toWh, err := uc.warehouseRepo.GetByID(in.ToWarehouseID)
	if err != nil {
		return nil, err
	}
	if toWh == nil {
		return nil, domain.ErrWarehouseNotFound
	}

	now := time.Now()
	outEntry := &entity.StockLedgerEntry{
		ProductID:    in.ProductID,
		WarehouseID:  in.FromWarehouseID,
		Quantity:     -in.Quantity,
		Operation:    entity.OperationTRANSFER,
		OperationKey: in.OperationKey + transferOutSuffix,
		CreatedAt:    now,
	}
	inEntry := &entity.StockLedgerEntry{
		ProductID:    in.ProductID,
		WarehouseID:  in.ToWarehouseID,
		Quantity:     in.Quantity,
		Operation:    entity.OperationTRANSFER,
		OperationKey: in.OperationKey + transferInSuffix,
		CreatedAt:    now,
	}
	err = uc.txRunner.Run(ctx, func(ledger repository.StockLedgerRepository) error {
		exists, err := ledger.AnyKeyExists(
			in.OperationKey,
			outEntry.OperationKey,
			inEntry.OperationKey,
		)
		if err != nil {
			return err
		}
		if exists {
			return domain.ErrDuplicateOperationKey
		}
		if err := ledger.LockPair(in.ProductID, in.FromWarehouseID); err != nil {
			return err
		}
		balance, err := ledger.Sum(in.ProductID, in.FromWarehouseID)
		if err != nil {
			return err
		}
		if balance < in.Quantity {
			return &domain.InsufficientStockError{Available: balance, Requested: in.Quantity}
		}
		return ledger.CreateAll([]*entity.StockLedgerEntry{outEntry, inEntry})
	})
	if err != nil {
		return nil, err
	}

	outEntry.Product, inEntry.Product = product, product
	outEntry.Warehouse, inEntry.Warehouse = fromWh, toWh
	uc.publishMovements(outEntry, inEntry)
	return []dto.StockLedgerEntryResponse{*toEntryResponse(outEntry), *toEntryResponse(inEntry)}, nil
}

// resolveProductAndWarehouse verifica existencia y retorna los datos para la respuesta.
func (uc *UseCase) resolveProductAndWarehouse(productID, warehouseID int64) (*entity.Product, *entity.Warehouse, error) {
	product, err := uc.productRepo.GetByID(productID)
	if err != nil {
		return nil, nil, err
	}
	if product == nil {
		return nil, nil, domain.ErrProductNotFound
	}
	warehouse, err := uc.warehouseRepo.GetByID(warehouseID)
	if err != nil {
		return nil, nil, err
	}
	if warehouse == nil {
		return nil, nil, domain.ErrWarehouseNotFound
	}
	return product, warehouse, nil
}

// publishMovements emite un evento por asiento confirmado, best effort.
func (uc *UseCase) publishMovements(entries ...*entity.StockLedgerEntry) {
	if uc.publisher == nil {
		return
	}
	for _, e := range entries {
		ev := event.StockMovementRecorded{
			EntryID:      e.ID,
			ProductID:    e.ProductID,
			WarehouseID:  e.WarehouseID,
			Operation:    e.Operation,
			Quantity:     e.Quantity,
			OperationKey: e.OperationKey,
			OccurredAt:   e.CreatedAt,
		}
		if err := uc.publisher.Publish(event.TopicStockMovements, ev); err != nil && uc.log != nil {
			uc.log.Warn().Err(err).
				Str("operation_key", e.OperationKey).
				Msg("publicar evento de movimiento")
		}
	}
}
