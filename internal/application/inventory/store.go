package inventory

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/jhoicas/inventario-materiales/internal/domain"
	"github.com/jhoicas/inventario-materiales/internal/domain/entity"
	domaininv "github.com/jhoicas/inventario-materiales/internal/domain/inventory"
	"github.com/jhoicas/inventario-materiales/internal/domain/repository"
	"github.com/rs/zerolog"
)

// Store es dueño de la secuencia ordenada de productos en memoria y la persiste completa tras cada mutación.
// Contrato de toda mutación: validar → aplicar → persistir → devolver.
// Si la persistencia falla, el cambio queda en memoria y el error (domain.ErrStorage) llega al caller.
type Store struct {
	mu       sync.Mutex
	storage  repository.LineStorage
	codec    domaininv.Codec
	log      zerolog.Logger
	products []entity.Product
}

// NewStore construye el store vacío; llamar Load para poblarlo desde el archivo.
func NewStore(storage repository.LineStorage, codec domaininv.Codec, log zerolog.Logger) *Store {
	if codec == nil {
		codec = domaininv.PipeCodec{}
	}
	return &Store{storage: storage, codec: codec, log: log}
}

// Load reemplaza la secuencia en memoria decodificando cada línea del archivo.
// La primera línea mal formada aborta la carga (domain.ErrParse) y deja el estado anterior intacto.
// Si el archivo no existe el inventario queda vacío.
func (s *Store) Load(ctx context.Context) ([]entity.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines, err := s.storage.ReadAllLines(ctx)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		lines = nil
	}
	loaded := make([]entity.Product, 0, len(lines))
	for i, line := range lines {
		p, err := s.codec.Decode(line)
		if err != nil {
			return nil, fmt.Errorf("línea %d: %w", i+1, err)
		}
		p.ID = uuid.New().String()
		loaded = append(loaded, p)
	}
	s.products = loaded
	return s.snapshot(), nil
}

// Save persiste la secuencia actual completa.
func (s *Store) Save(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persist(ctx)
}

// List devuelve una copia de la secuencia en orden de inserción.
func (s *Store) List() []entity.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// Len devuelve el número de registros.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.products)
}

// Get obtiene un producto por ID.
func (s *Store) Get(id string) (entity.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return entity.Product{}, domain.ErrNotFound
	}
	return s.products[i], nil
}

// IndexOf devuelve la posición actual del ID o -1.
func (s *Store) IndexOf(id string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.indexOf(id)
}

// Add agrega el producto al final (sin control de duplicados) con un ID nuevo.
func (s *Store) Add(ctx context.Context, p entity.Product) (entity.Product, error) {
	if err := s.validate(p); err != nil {
		return entity.Product{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p.ID = uuid.New().String()
	s.products = append(s.products, p)
	return p, s.persist(ctx)
}

// UpdateAt reemplaza los cinco campos del registro en index, conservando posición e ID.
func (s *Store) UpdateAt(ctx context.Context, index int, p entity.Product) (entity.Product, error) {
	return s.UpdateAtFunc(ctx, index, replaceWith(p))
}

// Update reemplaza los cinco campos del registro con el ID dado.
func (s *Store) Update(ctx context.Context, id string, p entity.Product) (entity.Product, error) {
	return s.UpdateFunc(ctx, id, replaceWith(p))
}

// UpdateAtFunc lee, combina y reemplaza el registro en index bajo un único bloqueo.
// merge recibe el valor actual; el resultado se valida antes de aplicarse.
func (s *Store) UpdateAtFunc(ctx context.Context, index int, merge func(entity.Product) entity.Product) (entity.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.inRange(index) {
		return entity.Product{}, outOfRange(index, len(s.products))
	}
	return s.mergeLocked(ctx, index, merge)
}

// UpdateFunc es UpdateAtFunc para el registro con el ID dado.
func (s *Store) UpdateFunc(ctx context.Context, id string, merge func(entity.Product) entity.Product) (entity.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return entity.Product{}, domain.ErrNotFound
	}
	return s.mergeLocked(ctx, i, merge)
}

// RemoveAt elimina el registro en index; los posteriores bajan una posición.
func (s *Store) RemoveAt(ctx context.Context, index int) (entity.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.inRange(index) {
		return entity.Product{}, outOfRange(index, len(s.products))
	}
	return s.removeLocked(ctx, index)
}

// Remove elimina el registro con el ID dado.
func (s *Store) Remove(ctx context.Context, id string) (entity.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return entity.Product{}, domain.ErrNotFound
	}
	return s.removeLocked(ctx, i)
}

// AdjustQuantityAt aplica quantity += delta al registro en index.
// Un retiro que dejaría la cantidad negativa devuelve domain.ErrInsufficientStock sin cambios.
func (s *Store) AdjustQuantityAt(ctx context.Context, index, delta int) (entity.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.inRange(index) {
		return entity.Product{}, outOfRange(index, len(s.products))
	}
	return s.adjustLocked(ctx, index, delta)
}

// AdjustQuantity aplica quantity += delta al registro con el ID dado.
func (s *Store) AdjustQuantity(ctx context.Context, id string, delta int) (entity.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return entity.Product{}, domain.ErrNotFound
	}
	return s.adjustLocked(ctx, i, delta)
}

func (s *Store) updateLocked(ctx context.Context, i int, p entity.Product) (entity.Product, error) {
	p.ID = s.products[i].ID
	s.products[i] = p
	return p, s.persist(ctx)
}

func (s *Store) mergeLocked(ctx context.Context, i int, merge func(entity.Product) entity.Product) (entity.Product, error) {
	p := merge(s.products[i])
	if err := s.validate(p); err != nil {
		return entity.Product{}, err
	}
	return s.updateLocked(ctx, i, p)
}

func (s *Store) removeLocked(ctx context.Context, i int) (entity.Product, error) {
	removed := s.products[i]
	s.products = append(s.products[:i], s.products[i+1:]...)
	return removed, s.persist(ctx)
}

func (s *Store) adjustLocked(ctx context.Context, i, delta int) (entity.Product, error) {
	cur := s.products[i].Quantity
	if delta < 0 && cur+delta < 0 {
		return s.products[i], fmt.Errorf("%w: disponible %d, solicitado %d", domain.ErrInsufficientStock, cur, -delta)
	}
	if delta > 0 && cur > math.MaxInt-delta {
		return s.products[i], fmt.Errorf("%w: la cantidad desborda", domain.ErrInvalidInput)
	}
	s.products[i].Quantity = cur + delta
	return s.products[i], s.persist(ctx)
}

// persist codifica la secuencia completa y reescribe el archivo. Requiere s.mu tomado.
func (s *Store) persist(ctx context.Context) error {
	lines := make([]string, 0, len(s.products))
	for _, p := range s.products {
		line, err := s.codec.Encode(p)
		if err != nil {
			return fmt.Errorf("codificar %q: %w", p.Name, err)
		}
		lines = append(lines, line)
	}
	if err := s.storage.WriteAllLines(ctx, lines); err != nil {
		s.log.Warn().Err(err).Int("records", len(lines)).
			Msg("no se pudo guardar el inventario; el cambio queda solo en memoria")
		return err
	}
	return nil
}

// validate comprueba campos obligatorios, rangos y que el codec pueda representar el registro.
func (s *Store) validate(p entity.Product) error {
	switch {
	case strings.TrimSpace(p.Name) == "":
		return fmt.Errorf("%w: el nombre no puede estar vacío", domain.ErrInvalidInput)
	case strings.TrimSpace(p.Type) == "":
		return fmt.Errorf("%w: el tipo no puede estar vacío", domain.ErrInvalidInput)
	case strings.TrimSpace(p.Manufacturer) == "":
		return fmt.Errorf("%w: el fabricante no puede estar vacío", domain.ErrInvalidInput)
	case p.Quantity < 0:
		return fmt.Errorf("%w: cantidad negativa", domain.ErrInvalidInput)
	case p.Price.IsNegative():
		return fmt.Errorf("%w: precio negativo", domain.ErrInvalidInput)
	}
	line, err := s.codec.Encode(p)
	if err != nil {
		return err
	}
	if enc, ok := s.storage.(repository.LineEncoder); ok {
		return enc.CanEncode(line)
	}
	return nil
}

func (s *Store) inRange(i int) bool { return i >= 0 && i < len(s.products) }

func (s *Store) indexOf(id string) int {
	if id == "" {
		return -1
	}
	for i, p := range s.products {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) snapshot() []entity.Product {
	out := make([]entity.Product, len(s.products))
	copy(out, s.products)
	return out
}

func replaceWith(p entity.Product) func(entity.Product) entity.Product {
	return func(entity.Product) entity.Product { return p }
}

func outOfRange(i, n int) error {
	return fmt.Errorf("%w: %d (registros: %d)", domain.ErrOutOfRange, i, n)
}
