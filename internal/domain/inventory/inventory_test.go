package inventory_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Taller-api/internal/domain"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
	"github.com/jhoicas/Taller-api/internal/domain/inventory"
)

var t0 = time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)

func batch(id string, at time.Time, remaining, cost, price int64) *entity.PurchaseBatch {
	return &entity.PurchaseBatch{
		ID: id, PartID: "part-1", ReceivedAt: at,
		QuantityReceived: remaining, QuantityRemaining: remaining,
		UnitCost: cost, FinalPrice: price,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Plan FIFO
// ──────────────────────────────────────────────────────────────────────────────

func TestPlanFIFO_OldestFirstSplitsAcrossBatches(t *testing.T) {
	b1 := batch("b1", t0, 5, 10_000, 12_000)
	b2 := batch("b2", t0.Add(time.Hour), 5, 11_000, 13_000)
	b3 := batch("b3", t0.Add(2*time.Hour), 5, 12_000, 14_000)

	// Orden de entrada desordenado a propósito.
	takes, err := inventory.PlanFIFO("part-1", []*entity.PurchaseBatch{b3, b1, b2}, 8)
	require.NoError(t, err)
	require.Len(t, takes, 2)

	assert.Equal(t, "b1", takes[0].Batch.ID)
	assert.Equal(t, int64(5), takes[0].Quantity)
	assert.Equal(t, int64(10_000), takes[0].CostPrice)
	assert.Equal(t, int64(12_000), takes[0].SellingPrice)
	assert.Equal(t, "b2", takes[1].Batch.ID)
	assert.Equal(t, int64(3), takes[1].Quantity)

	assert.Equal(t, int64(5), b2.QuantityRemaining, "el plan no modifica lotes")
	inventory.Apply(takes)
	assert.Equal(t, int64(0), b1.QuantityRemaining)
	assert.Equal(t, int64(2), b2.QuantityRemaining)
	assert.Equal(t, int64(5), b3.QuantityRemaining)
}

func TestPlanFIFO_TieBrokenByBatchID(t *testing.T) {
	bB := batch("b-0002", t0, 4, 1, 1)
	bA := batch("b-0001", t0, 4, 1, 1)

	takes, err := inventory.PlanFIFO("part-1", []*entity.PurchaseBatch{bB, bA}, 6)
	require.NoError(t, err)
	require.Len(t, takes, 2)
	assert.Equal(t, "b-0001", takes[0].Batch.ID)
	assert.Equal(t, int64(4), takes[0].Quantity)
	assert.Equal(t, "b-0002", takes[1].Batch.ID)
	assert.Equal(t, int64(2), takes[1].Quantity)
}

func TestPlanFIFO_SkipsExhaustedBatches(t *testing.T) {
	empty := batch("b1", t0, 0, 1, 1)
	full := batch("b2", t0.Add(time.Minute), 3, 1, 1)

	takes, err := inventory.PlanFIFO("part-1", []*entity.PurchaseBatch{empty, full}, 2)
	require.NoError(t, err)
	require.Len(t, takes, 1)
	assert.Equal(t, "b2", takes[0].Batch.ID)
}

func TestPlanFIFO_InsufficientStockPlansNothing(t *testing.T) {
	b1 := batch("b1", t0, 4, 1, 1)
	b2 := batch("b2", t0.Add(time.Hour), 6, 1, 1)

	takes, err := inventory.PlanFIFO("part-1", []*entity.PurchaseBatch{b1, b2}, 11)
	require.Error(t, err)
	assert.Nil(t, takes)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	var ise *domain.InsufficientStockError
	require.True(t, errors.As(err, &ise))
	assert.Equal(t, "part-1", ise.PartID)
	assert.Equal(t, int64(11), ise.Requested)
	assert.Equal(t, int64(10), ise.Available)

	assert.Equal(t, int64(4), b1.QuantityRemaining)
	assert.Equal(t, int64(6), b2.QuantityRemaining)
}

func TestPlanFIFO_RejectsNonPositiveQuantity(t *testing.T) {
	_, err := inventory.PlanFIFO("part-1", nil, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Kardex
// ──────────────────────────────────────────────────────────────────────────────

func movement(dir entity.Direction, qty int64) *entity.StockMovement {
	return &entity.StockMovement{ID: string(dir), PartID: "part-1", Direction: dir, Quantity: qty}
}

func TestChainEntries_ChainsBeforeAfter(t *testing.T) {
	movs := []*entity.StockMovement{
		movement(entity.DirectionOut, 5),
		movement(entity.DirectionOut, 3),
		movement(entity.DirectionIn, 10),
	}
	final, err := inventory.ChainEntries(15, movs)
	require.NoError(t, err)
	assert.Equal(t, int64(17), final)

	assert.Equal(t, int64(15), movs[0].StockBefore)
	assert.Equal(t, int64(10), movs[0].StockAfter)
	for i := 0; i+1 < len(movs); i++ {
		assert.Equal(t, movs[i].StockAfter, movs[i+1].StockBefore)
	}
}

func TestChainEntries_RejectsNegativeResult(t *testing.T) {
	_, err := inventory.ChainEntries(2, []*entity.StockMovement{movement(entity.DirectionOut, 3)})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

func TestVerifyChain(t *testing.T) {
	movs := []*entity.StockMovement{movement(entity.DirectionIn, 10), movement(entity.DirectionOut, 4)}
	_, err := inventory.ChainEntries(0, movs)
	require.NoError(t, err)

	stock, err := inventory.VerifyChain(movs)
	require.NoError(t, err)
	assert.Equal(t, int64(6), stock)
	assert.Equal(t, int64(6), inventory.Replay(movs))

	movs[1].StockBefore = 9
	_, err = inventory.VerifyChain(movs)
	assert.ErrorIs(t, err, domain.ErrLedgerInconsistency)
}

// ──────────────────────────────────────────────────────────────────────────────
// Alertas y valorización
// ──────────────────────────────────────────────────────────────────────────────

func TestDecideAlert(t *testing.T) {
	assert.Equal(t, inventory.AlertUpsert, inventory.DecideAlert(4, 5))
	assert.Equal(t, inventory.AlertUpsert, inventory.DecideAlert(5, 5))
	assert.Equal(t, inventory.AlertClear, inventory.DecideAlert(6, 5))
	assert.Equal(t, inventory.AlertClear, inventory.DecideAlert(0, 0), "mínimo cero desactiva la alerta")
}

func TestCostCalculator(t *testing.T) {
	v := inventory.CostCalculator([]*entity.PurchaseBatch{
		batch("b1", t0, 2, 10_000, 0),
		batch("b2", t0, 1, 13_000, 0),
		batch("b3", t0, 0, 99_000, 0),
	})
	assert.Equal(t, int64(3), v.Quantity)
	assert.Equal(t, int64(33_000), v.TotalCost)
	assert.Equal(t, "11000", v.AverageUnitCost.String())

	assert.True(t, inventory.CostCalculator(nil).AverageUnitCost.IsZero())
}
