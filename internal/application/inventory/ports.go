package inventory

import (
	"context"
	"sort"

	"github.com/jhoicas/Taller-api/internal/domain/repository"
)

// Repositories repositorios atados a una misma conexión o transacción.
type Repositories struct {
	Parts     repository.PartRepository
	Batches   repository.BatchRepository
	Movements repository.StockMovementRepository
	Purchases repository.PurchaseOrderRepository
	Sales     repository.SaleRepository
	Alerts    repository.LowStockAlertRepository
}

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn devuelve error se hace Rollback y no queda nada persistido.
// Una espera de bloqueo que supera el tiempo límite debe salir como domain.ErrConcurrentModification.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos Repositories) error) error
}

// PartLocker bloqueo exclusivo por repuesto, previo a la transacción (p. ej. Redis).
// La espera es acotada; si no se obtiene devuelve domain.ErrConcurrentModification.
type PartLocker interface {
	Lock(ctx context.Context, partIDs []string) (release func(), err error)
}

// NoopLocker no bloquea: el bloqueo de fila en la BD es la única protección.
type NoopLocker struct{}

func (NoopLocker) Lock(context.Context, []string) (func(), error) { return func() {}, nil }

// distinctSorted IDs únicos en orden ascendente; se bloquean siempre en este orden para evitar deadlocks.
func distinctSorted(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
