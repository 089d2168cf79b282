package scheduler_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Taller-api/internal/application/inventory"
	"github.com/jhoicas/Taller-api/internal/infrastructure/scheduler"
	"github.com/jhoicas/Taller-api/pkg/logger"
)

type fakeReconciler struct {
	calls       int
	hadDeadline bool
	err         error
}

func (f *fakeReconciler) CheckAll(ctx context.Context) (int, []*inventory.ReconciliationReport, error) {
	f.calls++
	_, f.hadDeadline = ctx.Deadline()
	return 3, []*inventory.ReconciliationReport{{PartID: "p1", Issues: []string{"stock 2 != Σ restantes 3"}}}, f.err
}

func TestReconcileJob_RunUsesTimeout(t *testing.T) {
	f := &fakeReconciler{err: errors.New("lectura fallida")}
	job := scheduler.NewReconcileJob(f, time.Minute, logger.Nop())

	job.Run()
	assert.Equal(t, 1, f.calls)
	assert.True(t, f.hadDeadline)
}

func TestStart_RejectsBadSchedule(t *testing.T) {
	_, err := scheduler.Start("cada noche", scheduler.NewReconcileJob(&fakeReconciler{}, 0, nil))
	assert.Error(t, err)
}

func TestStart_RegistersJob(t *testing.T) {
	c, err := scheduler.Start("0 3 * * *", scheduler.NewReconcileJob(&fakeReconciler{}, 0, nil))
	require.NoError(t, err)
	defer c.Stop()
	require.Len(t, c.Entries(), 1)
	assert.True(t, c.Entries()[0].Next.After(time.Now()))
}
