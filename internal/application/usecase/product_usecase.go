package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/inventario-materiales/internal/application/dto"
	"github.com/jhoicas/inventario-materiales/internal/application/inventory"
	"github.com/jhoicas/inventario-materiales/internal/domain"
	"github.com/jhoicas/inventario-materiales/internal/domain/entity"
	domaininv "github.com/jhoicas/inventario-materiales/internal/domain/inventory"
)

// Nombres de operación reportados al observador.
const (
	OpAdd      = "add"
	OpSearch   = "search"
	OpCheck    = "check"
	OpDeliver  = "deliver"
	OpWithdraw = "withdraw"
	OpEdit     = "edit"
	OpDelete   = "delete"
	OpRefresh  = "refresh"
)

// OperationObserver recibe el resultado de cada operación y el estado del inventario tras cada cambio.
type OperationObserver interface {
	ObserveOperation(op string, err error)
	ObserveInventory(s domaininv.Summary)
}

type noopObserver struct{}

func (noopObserver) ObserveOperation(string, error)     {}
func (noopObserver) ObserveInventory(domaininv.Summary) {}

// ProductUseCase expone las operaciones del formulario de inventario a cualquier front end (CLI, HTTP).
// Las variantes por posición replican la selección de fila del formulario; las variantes ByID usan la identidad estable.
type ProductUseCase struct {
	store    *inventory.Store
	observer OperationObserver
}

// NewProductUseCase construye el caso de uso. observer puede ser nil.
func NewProductUseCase(store *inventory.Store, observer OperationObserver) *ProductUseCase {
	if observer == nil {
		observer = noopObserver{}
	}
	return &ProductUseCase{store: store, observer: observer}
}

// AddProduct agrega un producto. Nombre y fabricante se recortan como en el formulario; el tipo no.
func (uc *ProductUseCase) AddProduct(ctx context.Context, in dto.CreateProductRequest) (out *dto.ProductResponse, err error) {
	defer func() { uc.done(OpAdd, err, true) }()
	p, err := uc.store.Add(ctx, entity.Product{
		Name:         strings.TrimSpace(in.Name),
		Type:         in.Type,
		Manufacturer: strings.TrimSpace(in.Manufacturer),
		Quantity:     in.Quantity,
		Price:        in.Price,
	})
	if err != nil {
		return nil, err
	}
	return uc.toResponse(p), nil
}

// SearchByType devuelve todos los productos (entity.TypeAll o vacío) en orden de inserción,
// o los del tipo pedido ordenados por precio ascendente.
func (uc *ProductUseCase) SearchByType(_ context.Context, productType string) *dto.ProductListResponse {
	if productType == "" {
		productType = entity.TypeAll
	}
	all := uc.store.List()
	filtered := domaininv.FilterByType(all, productType)
	uc.observer.ObserveOperation(OpSearch, nil)
	return toListResponse(productType, all, filtered)
}

// CheckAvailability indica si existe un registro con el mismo nombre, tipo y fabricante.
func (uc *ProductUseCase) CheckAvailability(_ context.Context, name, productType, manufacturer string) bool {
	uc.observer.ObserveOperation(OpCheck, nil)
	return domaininv.FindExact(uc.store.List(), strings.TrimSpace(name), productType, strings.TrimSpace(manufacturer))
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(_ context.Context, id string) (*dto.ProductResponse, error) {
	p, err := uc.store.Get(id)
	if err != nil {
		return nil, err
	}
	return uc.toResponse(p), nil
}

// Deliver suma amount (> 0) a la cantidad del producto en index.
func (uc *ProductUseCase) Deliver(ctx context.Context, index, amount int) (out *dto.ProductResponse, err error) {
	defer func() { uc.done(OpDeliver, err, true) }()
	if err := positiveAmount(amount); err != nil {
		return nil, err
	}
	return uc.result(uc.store.AdjustQuantityAt(ctx, index, amount))
}

// DeliverByID suma amount (> 0) a la cantidad del producto con el ID dado.
func (uc *ProductUseCase) DeliverByID(ctx context.Context, id string, amount int) (out *dto.ProductResponse, err error) {
	defer func() { uc.done(OpDeliver, err, true) }()
	if err := positiveAmount(amount); err != nil {
		return nil, err
	}
	return uc.result(uc.store.AdjustQuantity(ctx, id, amount))
}

// Withdraw resta amount (> 0) de la cantidad del producto en index; falla con domain.ErrInsufficientStock
// si no alcanza.
func (uc *ProductUseCase) Withdraw(ctx context.Context, index, amount int) (out *dto.ProductResponse, err error) {
	defer func() { uc.done(OpWithdraw, err, true) }()
	if err := positiveAmount(amount); err != nil {
		return nil, err
	}
	return uc.result(uc.store.AdjustQuantityAt(ctx, index, -amount))
}

// WithdrawByID resta amount (> 0) de la cantidad del producto con el ID dado.
func (uc *ProductUseCase) WithdrawByID(ctx context.Context, id string, amount int) (out *dto.ProductResponse, err error) {
	defer func() { uc.done(OpWithdraw, err, true) }()
	if err := positiveAmount(amount); err != nil {
		return nil, err
	}
	return uc.result(uc.store.AdjustQuantity(ctx, id, -amount))
}

// Edit reemplaza los campos presentes en in del producto en index.
func (uc *ProductUseCase) Edit(ctx context.Context, index int, in dto.UpdateProductRequest) (out *dto.ProductResponse, err error) {
	defer func() { uc.done(OpEdit, err, true) }()
	return uc.result(uc.store.UpdateAtFunc(ctx, index, func(cur entity.Product) entity.Product {
		return applyUpdate(cur, in)
	}))
}

// EditByID reemplaza los campos presentes en in del producto con el ID dado.
func (uc *ProductUseCase) EditByID(ctx context.Context, id string, in dto.UpdateProductRequest) (out *dto.ProductResponse, err error) {
	defer func() { uc.done(OpEdit, err, true) }()
	return uc.result(uc.store.UpdateFunc(ctx, id, func(cur entity.Product) entity.Product {
		return applyUpdate(cur, in)
	}))
}

// Delete elimina el producto en index. La confirmación del usuario es responsabilidad del front end.
func (uc *ProductUseCase) Delete(ctx context.Context, index int) (out *dto.ProductResponse, err error) {
	defer func() { uc.done(OpDelete, err, true) }()
	p, err := uc.store.RemoveAt(ctx, index)
	if err != nil {
		return nil, err
	}
	return toResponseAt(p, index), nil
}

// DeleteByID elimina el producto con el ID dado.
func (uc *ProductUseCase) DeleteByID(ctx context.Context, id string) (out *dto.ProductResponse, err error) {
	defer func() { uc.done(OpDelete, err, true) }()
	position := uc.store.IndexOf(id)
	p, err := uc.store.Remove(ctx, id)
	if err != nil {
		return nil, err
	}
	return toResponseAt(p, position), nil
}

// Refresh recarga el inventario desde el archivo y devuelve todos los registros.
func (uc *ProductUseCase) Refresh(ctx context.Context) (out *dto.ProductListResponse, err error) {
	defer func() { uc.done(OpRefresh, err, err == nil) }()
	list, err := uc.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	return toListResponse(entity.TypeAll, list, list), nil
}

// result traduce la respuesta del store; un error de guardado se devuelve aunque el cambio siga en memoria.
func (uc *ProductUseCase) result(p entity.Product, err error) (*dto.ProductResponse, error) {
	if err != nil {
		return nil, err
	}
	return uc.toResponse(p), nil
}

func (uc *ProductUseCase) done(op string, err error, changed bool) {
	uc.observer.ObserveOperation(op, err)
	if changed {
		uc.observer.ObserveInventory(domaininv.Summarize(uc.store.List()))
	}
}

func (uc *ProductUseCase) toResponse(p entity.Product) *dto.ProductResponse {
	return toResponseAt(p, uc.store.IndexOf(p.ID))
}

func positiveAmount(amount int) error {
	if amount <= 0 {
		return fmt.Errorf("%w: la cantidad debe ser mayor que 0", domain.ErrInvalidInput)
	}
	return nil
}

func applyUpdate(p entity.Product, in dto.UpdateProductRequest) entity.Product {
	if in.Name != nil {
		p.Name = *in.Name
	}
	if in.Type != nil {
		p.Type = *in.Type
	}
	if in.Manufacturer != nil {
		p.Manufacturer = *in.Manufacturer
	}
	if in.Quantity != nil {
		p.Quantity = *in.Quantity
	}
	if in.Price != nil {
		p.Price = *in.Price
	}
	return p
}

func toListResponse(productType string, all, items []entity.Product) *dto.ProductListResponse {
	pos := make(map[string]int, len(all))
	for i, p := range all {
		pos[p.ID] = i
	}
	out := &dto.ProductListResponse{Type: productType, Items: make([]dto.ProductResponse, 0, len(items)), Total: len(items)}
	for _, p := range items {
		out.Items = append(out.Items, *toResponseAt(p, pos[p.ID]))
	}
	return out
}

func toResponseAt(p entity.Product, position int) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:           p.ID,
		Position:     position,
		Name:         p.Name,
		Type:         p.Type,
		Manufacturer: p.Manufacturer,
		Quantity:     p.Quantity,
		Price:        p.Price,
	}
}
