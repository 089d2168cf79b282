package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Taller-api/internal/application/inventory"
)

var _ inventory.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool        *pgxpool.Pool
	lockTimeout time.Duration
}

// NewTxRunner construye el runner. lockTimeout acota cada espera de bloqueo de fila (SET LOCAL lock_timeout).
func NewTxRunner(pool *pgxpool.Pool, lockTimeout time.Duration) *TxRunner {
	return &TxRunner{pool: pool, lockTimeout: lockTimeout}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
// Un bloqueo no obtenido a tiempo, un deadlock o un conflicto de serialización salen como
// domain.ErrConcurrentModification, también si ocurren en el commit (FKs diferidas).
func (r *TxRunner) Run(ctx context.Context, fn func(repos inventory.Repositories) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return mapError("begin transaction", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if r.lockTimeout > 0 {
		stmt := fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", r.lockTimeout.Milliseconds())
		if _, err := tx.Exec(ctx, stmt); err != nil {
			return mapError("set lock_timeout", err)
		}
	}

	if err := fn(NewRepositories(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return mapError("commit transaction", err)
	}
	return nil
}

// NewRepositories repositorios sobre un Querier (pool para lecturas sueltas, tx dentro de Run).
func NewRepositories(q Querier) inventory.Repositories {
	return inventory.Repositories{
		Parts:     NewPartRepository(q),
		Batches:   NewBatchRepository(q),
		Movements: NewStockMovementRepository(q),
		Purchases: NewPurchaseOrderRepository(q),
		Sales:     NewSaleRepository(q),
		Alerts:    NewLowStockAlertRepository(q),
	}
}
