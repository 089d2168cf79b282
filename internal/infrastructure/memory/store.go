// Package memory implementa los repositorios en memoria: tests y modo desarrollo (DB_DRIVER=memory).
// Una sola transacción a la vez; los cambios se aplican sobre una copia y se publican en el commit.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jhoicas/Taller-api/internal/application/inventory"
	"github.com/jhoicas/Taller-api/internal/domain"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
)

var _ inventory.TxRunner = (*Store)(nil)

type state struct {
	parts     map[string]*entity.Part
	batches   map[string]*entity.PurchaseBatch
	movements []*entity.StockMovement
	seq       int64
	purchases map[string]*entity.PurchaseOrder
	sales     map[string]*entity.Sale
	lines     map[string]*entity.SaleLine
	allocs    []*entity.SaleLineAllocation
	alerts    map[string]*entity.LowStockAlert
}

func newState() *state {
	return &state{
		parts:     map[string]*entity.Part{},
		batches:   map[string]*entity.PurchaseBatch{},
		purchases: map[string]*entity.PurchaseOrder{},
		sales:     map[string]*entity.Sale{},
		lines:     map[string]*entity.SaleLine{},
		alerts:    map[string]*entity.LowStockAlert{},
	}
}

func cloneMap[T any](m map[string]*T) map[string]*T {
	out := make(map[string]*T, len(m))
	for k, v := range m {
		c := *v
		out[k] = &c
	}
	return out
}

func (s *state) clone() *state {
	c := &state{
		parts:     cloneMap(s.parts),
		batches:   cloneMap(s.batches),
		purchases: cloneMap(s.purchases),
		sales:     cloneMap(s.sales),
		lines:     cloneMap(s.lines),
		alerts:    cloneMap(s.alerts),
		seq:       s.seq,
		movements: make([]*entity.StockMovement, len(s.movements)),
		allocs:    make([]*entity.SaleLineAllocation, len(s.allocs)),
	}
	// Asientos y asignaciones son inmutables: se comparte el puntero.
	copy(c.movements, s.movements)
	copy(c.allocs, s.allocs)
	return c
}

// Store almacenamiento en memoria con semántica transaccional.
type Store struct {
	sem      chan struct{}
	lockWait time.Duration

	mu    sync.RWMutex
	state *state
}

// NewStore crea el almacenamiento. lockWait acota la espera por la transacción en curso;
// al vencer devuelve domain.ErrConcurrentModification.
func NewStore(lockWait time.Duration) *Store {
	if lockWait <= 0 {
		lockWait = 5 * time.Second
	}
	return &Store{sem: make(chan struct{}, 1), lockWait: lockWait, state: newState()}
}

func (s *Store) acquire(ctx context.Context) error {
	timer := time.NewTimer(s.lockWait)
	defer timer.Stop()
	select {
	case s.sem <- struct{}{}:
		return nil
	case <-timer.C:
		return fmt.Errorf("espera de bloqueo superó %s: %w", s.lockWait, domain.ErrConcurrentModification)
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Store) release() { <-s.sem }

// Run ejecuta fn sobre una copia del estado; solo si fn termina sin error la copia pasa a ser el estado.
func (s *Store) Run(ctx context.Context, fn func(repos inventory.Repositories) error) error {
	if err := s.acquire(ctx); err != nil {
		return err
	}
	defer s.release()

	s.mu.RLock()
	work := s.state.clone()
	s.mu.RUnlock()

	if err := fn(s.bind(work)); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	s.state = work
	s.mu.Unlock()
	return nil
}

// Repositories repositorios fuera de transacción: lecturas sobre el último estado confirmado,
// escrituras en autocommit.
func (s *Store) Repositories() inventory.Repositories { return s.bind(nil) }

func (s *Store) bind(tx *state) inventory.Repositories {
	b := &binding{store: s, tx: tx}
	return inventory.Repositories{
		Parts:     &PartRepo{b},
		Batches:   &BatchRepo{b},
		Movements: &MovementRepo{b},
		Purchases: &PurchaseRepo{b},
		Sales:     &SaleRepo{b},
		Alerts:    &AlertRepo{b},
	}
}

// SeedParts carga repuestos del catálogo. Reemplaza los que tengan el mismo ID.
// Espera a la transacción en curso; si no, su commit descartaría la carga.
func (s *Store) SeedParts(parts ...*entity.Part) {
	s.sem <- struct{}{}
	defer s.release()
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range parts {
		c := *p
		s.state.parts[p.ID] = &c
	}
}

type binding struct {
	store *Store
	tx    *state
}

func (b *binding) read(fn func(st *state) error) error {
	if b.tx != nil {
		return fn(b.tx)
	}
	b.store.mu.RLock()
	defer b.store.mu.RUnlock()
	return fn(b.store.state)
}

func (b *binding) write(ctx context.Context, fn func(st *state) error) error {
	if b.tx != nil {
		return fn(b.tx)
	}
	return b.store.Run(ctx, func(repos inventory.Repositories) error {
		return fn(repos.Parts.(*PartRepo).tx)
	})
}
