// Package scheduler tareas periódicas del servicio (robfig/cron).
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/jhoicas/Taller-api/internal/application/inventory"
	"github.com/jhoicas/Taller-api/pkg/logger"
)

// Reconciler lo que el job necesita del caso de uso de conciliación.
type Reconciler interface {
	CheckAll(ctx context.Context) (checked int, failing []*inventory.ReconciliationReport, err error)
}

var _ Reconciler = (*inventory.ReconciliationUseCase)(nil)

// ReconcileJob concilia todos los repuestos. Solo lee: las diferencias se registran, no se corrigen.
type ReconcileJob struct {
	uc      Reconciler
	timeout time.Duration
	log     *logger.Logger
}

// NewReconcileJob timeout acota cada corrida.
func NewReconcileJob(uc Reconciler, timeout time.Duration, log *logger.Logger) *ReconcileJob {
	if log == nil {
		log = logger.Nop()
	}
	return &ReconcileJob{uc: uc, timeout: timeout, log: log.Component("reconcile-job")}
}

// Run una corrida completa.
func (j *ReconcileJob) Run() {
	ctx := context.Background()
	if j.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, j.timeout)
		defer cancel()
	}
	start := time.Now()
	checked, failing, err := j.uc.CheckAll(ctx)
	if err != nil {
		j.log.Error().Err(err).Int("checked", checked).Msg("conciliación con errores")
	}
	for _, r := range failing {
		j.log.Warn().Str("part_id", r.PartID).Strs("issues", r.Issues).Msg("repuesto descuadrado")
	}
	j.log.Info().Int("checked", checked).Int("failing", len(failing)).Dur("took", time.Since(start)).Msg("conciliación programada")
}

// Start registra el job con la expresión cron (5 campos) y arranca el planificador.
// Una corrida que se solapa con la anterior se salta.
func Start(schedule string, job *ReconcileJob) (*cron.Cron, error) {
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := c.AddJob(schedule, job); err != nil {
		return nil, fmt.Errorf("expresión cron %q: %w", schedule, err)
	}
	c.Start()
	return c, nil
}
