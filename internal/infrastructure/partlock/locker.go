// Package partlock bloqueo distribuido por repuesto sobre Redis (bsm/redislock).
// Serializa operaciones sobre el mismo repuesto entre réplicas antes de abrir la transacción;
// el bloqueo de fila en PostgreSQL sigue siendo la garantía final.
package partlock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/Taller-api/internal/application/inventory"
	"github.com/jhoicas/Taller-api/internal/domain"
	"github.com/jhoicas/Taller-api/pkg/config"
	"github.com/jhoicas/Taller-api/pkg/logger"
)

var _ inventory.PartLocker = (*Locker)(nil)

const retryStep = 100 * time.Millisecond

// NewRedisClient abre y verifica la conexión a Redis.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("conectar a Redis: %w", err)
	}
	return rdb, nil
}

// Locker obtiene lock:part:<id> para cada repuesto, en orden ascendente.
type Locker struct {
	client *redislock.Client
	ttl    time.Duration
	wait   time.Duration
	log    *logger.Logger
}

// New construye el locker. ttl es la vida del lock; wait la espera máxima por cada repuesto.
func New(rdb redis.UniversalClient, cfg config.LockConfig, log *logger.Logger) *Locker {
	if log == nil {
		log = logger.Nop()
	}
	return &Locker{client: redislock.New(rdb), ttl: cfg.TTL, wait: cfg.Wait, log: log.Component("partlock")}
}

// Key clave de Redis del repuesto.
func Key(partID string) string { return "lock:part:" + partID }

// retries intentos con espera lineal que caben en wait.
func retries(wait time.Duration) int {
	n := int(wait / retryStep)
	if n < 1 {
		return 1
	}
	return n
}

// Lock bloquea todos los repuestos o ninguno. partIDs debe venir ordenado y sin repetidos.
func (l *Locker) Lock(ctx context.Context, partIDs []string) (func(), error) {
	opts := &redislock.Options{
		RetryStrategy: redislock.LimitRetry(redislock.LinearBackoff(retryStep), retries(l.wait)),
	}
	held := make([]*redislock.Lock, 0, len(partIDs))
	release := func() {
		// Se libera con un contexto propio: el del request puede estar cancelado.
		rctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		for i := len(held) - 1; i >= 0; i-- {
			if err := held[i].Release(rctx); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
				l.log.Warn().Err(err).Str("key", held[i].Key()).Msg("no se pudo liberar el lock")
			}
		}
	}

	for _, id := range partIDs {
		lock, err := l.client.Obtain(ctx, Key(id), l.ttl, opts)
		if errors.Is(err, redislock.ErrNotObtained) {
			release()
			return nil, fmt.Errorf("repuesto %s ocupado: %w", id, domain.ErrConcurrentModification)
		}
		if err != nil {
			release()
			return nil, fmt.Errorf("obtener lock de %s: %w", id, err)
		}
		held = append(held, lock)
	}
	return release, nil
}
