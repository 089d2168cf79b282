package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/jhoicas/Taller-api/internal/domain"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
	fifo "github.com/jhoicas/Taller-api/internal/domain/inventory"
	"github.com/jhoicas/Taller-api/internal/domain/repository"
)

var (
	_ repository.PartRepository          = (*PartRepo)(nil)
	_ repository.BatchRepository         = (*BatchRepo)(nil)
	_ repository.StockMovementRepository = (*MovementRepo)(nil)
	_ repository.PurchaseOrderRepository = (*PurchaseRepo)(nil)
	_ repository.SaleRepository          = (*SaleRepo)(nil)
	_ repository.LowStockAlertRepository = (*AlertRepo)(nil)
)

func copyOf[T any](v *T) *T {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

// ── Repuestos ────────────────────────────────────────────────────────────────

// PartRepo repuestos en memoria.
type PartRepo struct{ *binding }

func (r *PartRepo) GetByID(_ context.Context, id string) (*entity.Part, error) {
	var out *entity.Part
	err := r.read(func(st *state) error {
		out = copyOf(st.parts[id])
		return nil
	})
	return out, err
}

// GetForUpdate la transacción ya es exclusiva.
func (r *PartRepo) GetForUpdate(ctx context.Context, id string) (*entity.Part, error) {
	return r.GetByID(ctx, id)
}

func (r *PartRepo) UpdateStock(ctx context.Context, id string, stock int64) error {
	return r.write(ctx, func(st *state) error {
		p, ok := st.parts[id]
		if !ok {
			return domain.ErrNotFound
		}
		p.Stock = stock
		return nil
	})
}

func (r *PartRepo) UpdateSupplier(ctx context.Context, id, supplierID string) error {
	return r.write(ctx, func(st *state) error {
		p, ok := st.parts[id]
		if !ok {
			return domain.ErrNotFound
		}
		p.SupplierID = supplierID
		return nil
	})
}

func (r *PartRepo) ListIDs(_ context.Context) ([]string, error) {
	var ids []string
	err := r.read(func(st *state) error {
		ids = make([]string, 0, len(st.parts))
		for id := range st.parts {
			ids = append(ids, id)
		}
		return nil
	})
	sort.Strings(ids)
	return ids, err
}

// ── Lotes ────────────────────────────────────────────────────────────────────

// BatchRepo lotes en memoria.
type BatchRepo struct{ *binding }

func (r *BatchRepo) Create(ctx context.Context, b *entity.PurchaseBatch) error {
	return r.write(ctx, func(st *state) error {
		if _, ok := st.batches[b.ID]; ok {
			return domain.ErrDuplicate
		}
		st.batches[b.ID] = copyOf(b)
		return nil
	})
}

func (r *BatchRepo) GetByID(_ context.Context, id string) (*entity.PurchaseBatch, error) {
	var out *entity.PurchaseBatch
	err := r.read(func(st *state) error {
		out = copyOf(st.batches[id])
		return nil
	})
	return out, err
}

func (r *BatchRepo) list(partID string, availableOnly bool) ([]*entity.PurchaseBatch, error) {
	var out []*entity.PurchaseBatch
	err := r.read(func(st *state) error {
		for _, b := range st.batches {
			if b.PartID != partID || (availableOnly && b.QuantityRemaining <= 0) {
				continue
			}
			out = append(out, copyOf(b))
		}
		return nil
	})
	fifo.SortFIFO(out)
	return out, err
}

func (r *BatchRepo) ListAvailableForUpdate(_ context.Context, partID string) ([]*entity.PurchaseBatch, error) {
	return r.list(partID, true)
}

func (r *BatchRepo) ListByPart(_ context.Context, partID string) ([]*entity.PurchaseBatch, error) {
	return r.list(partID, false)
}

func (r *BatchRepo) LatestByPart(_ context.Context, partID string) (*entity.PurchaseBatch, error) {
	all, err := r.list(partID, false)
	if err != nil || len(all) == 0 {
		return nil, err
	}
	return all[len(all)-1], nil
}

func (r *BatchRepo) UpdateRemaining(ctx context.Context, id string, remaining int64) error {
	return r.write(ctx, func(st *state) error {
		b, ok := st.batches[id]
		if !ok {
			return domain.ErrNotFound
		}
		if remaining < 0 || remaining > b.QuantityReceived {
			return fmt.Errorf("lote %s: restante %d fuera de rango: %w", id, remaining, domain.ErrInvalidInput)
		}
		b.QuantityRemaining = remaining
		return nil
	})
}

// ── Kardex ───────────────────────────────────────────────────────────────────

// MovementRepo kardex en memoria; solo agrega.
type MovementRepo struct{ *binding }

func (r *MovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	return r.write(ctx, func(st *state) error {
		st.seq++
		m.Sequence = st.seq
		st.movements = append(st.movements, copyOf(m))
		return nil
	})
}

func (r *MovementRepo) LastByPart(_ context.Context, partID string) (*entity.StockMovement, error) {
	var out *entity.StockMovement
	err := r.read(func(st *state) error {
		for i := len(st.movements) - 1; i >= 0; i-- {
			if st.movements[i].PartID == partID {
				out = copyOf(st.movements[i])
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *MovementRepo) ListByPart(_ context.Context, partID string, limit, offset int) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	err := r.read(func(st *state) error {
		skipped := 0
		for _, m := range st.movements {
			if m.PartID != partID {
				continue
			}
			if skipped < offset {
				skipped++
				continue
			}
			if limit > 0 && len(out) >= limit {
				break
			}
			out = append(out, copyOf(m))
		}
		return nil
	})
	return out, err
}

// ── Compras ──────────────────────────────────────────────────────────────────

// PurchaseRepo cabeceras de compra en memoria.
type PurchaseRepo struct{ *binding }

func (r *PurchaseRepo) Create(ctx context.Context, o *entity.PurchaseOrder) error {
	return r.write(ctx, func(st *state) error {
		if _, ok := st.purchases[o.ID]; ok {
			return domain.ErrDuplicate
		}
		st.purchases[o.ID] = copyOf(o)
		return nil
	})
}

func (r *PurchaseRepo) GetByID(_ context.Context, id string) (*entity.PurchaseOrder, error) {
	var out *entity.PurchaseOrder
	err := r.read(func(st *state) error {
		out = copyOf(st.purchases[id])
		return nil
	})
	return out, err
}

// ── Ventas ───────────────────────────────────────────────────────────────────

// SaleRepo ventas en memoria.
type SaleRepo struct{ *binding }

func (r *SaleRepo) Create(ctx context.Context, s *entity.Sale) error {
	return r.write(ctx, func(st *state) error {
		if _, ok := st.sales[s.ID]; ok {
			return domain.ErrDuplicate
		}
		st.sales[s.ID] = copyOf(s)
		return nil
	})
}

func (r *SaleRepo) CreateLine(ctx context.Context, l *entity.SaleLine) error {
	return r.write(ctx, func(st *state) error {
		st.lines[l.ID] = copyOf(l)
		return nil
	})
}

func (r *SaleRepo) CreateAllocation(ctx context.Context, a *entity.SaleLineAllocation) error {
	return r.write(ctx, func(st *state) error {
		st.allocs = append(st.allocs, copyOf(a))
		return nil
	})
}

func (r *SaleRepo) GetByID(_ context.Context, id string) (*entity.Sale, error) {
	var out *entity.Sale
	err := r.read(func(st *state) error {
		out = copyOf(st.sales[id])
		return nil
	})
	return out, err
}

func (r *SaleRepo) ListLines(_ context.Context, saleID string) ([]*entity.SaleLine, error) {
	var out []*entity.SaleLine
	err := r.read(func(st *state) error {
		for _, l := range st.lines {
			if l.SaleID == saleID {
				out = append(out, copyOf(l))
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, err
}

func (r *SaleRepo) ListAllocations(_ context.Context, saleLineID string) ([]*entity.SaleLineAllocation, error) {
	var out []*entity.SaleLineAllocation
	err := r.read(func(st *state) error {
		for _, a := range st.allocs {
			if a.SaleLineID == saleLineID {
				out = append(out, copyOf(a))
			}
		}
		return nil
	})
	return out, err
}

func (r *SaleRepo) SumAllocatedByBatch(_ context.Context, batchID string) (int64, error) {
	var sum int64
	err := r.read(func(st *state) error {
		for _, a := range st.allocs {
			if a.BatchID == batchID {
				sum += a.Quantity
			}
		}
		return nil
	})
	return sum, err
}

// ── Alertas ──────────────────────────────────────────────────────────────────

// AlertRepo alertas de stock bajo en memoria (una por repuesto).
type AlertRepo struct{ *binding }

func (r *AlertRepo) Get(_ context.Context, partID string) (*entity.LowStockAlert, error) {
	var out *entity.LowStockAlert
	err := r.read(func(st *state) error {
		out = copyOf(st.alerts[partID])
		return nil
	})
	return out, err
}

func (r *AlertRepo) Upsert(ctx context.Context, a *entity.LowStockAlert) error {
	return r.write(ctx, func(st *state) error {
		st.alerts[a.PartID] = copyOf(a)
		return nil
	})
}

func (r *AlertRepo) Delete(ctx context.Context, partID string) error {
	return r.write(ctx, func(st *state) error {
		delete(st.alerts, partID)
		return nil
	})
}

func (r *AlertRepo) MarkRead(ctx context.Context, partID string) error {
	return r.write(ctx, func(st *state) error {
		a, ok := st.alerts[partID]
		if !ok {
			return fmt.Errorf("alerta de %s: %w", partID, domain.ErrNotFound)
		}
		a.IsRead = true
		return nil
	})
}

func (r *AlertRepo) List(_ context.Context, opts repository.AlertListOptions) ([]*entity.LowStockAlertView, error) {
	var out []*entity.LowStockAlertView
	err := r.read(func(st *state) error {
		for _, a := range st.alerts {
			v := &entity.LowStockAlertView{LowStockAlert: *a}
			if p, ok := st.parts[a.PartID]; ok {
				v.PartName, v.PartNumber, v.RackLocation = p.Name, p.PartNumber, p.RackLocation
			}
			out = append(out, v)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	cmp := alertCompare(opts.SortBy)
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if c := cmp(a, b); c != 0 {
			if opts.Desc {
				return c > 0
			}
			return c < 0
		}
		return a.PartID < b.PartID
	})
	return out, nil
}

func alertCompare(field string) func(a, b *entity.LowStockAlertView) int {
	cmpInt := func(x, y int64) int {
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		}
		return 0
	}
	switch field {
	case repository.AlertSortPartNumber:
		return func(a, b *entity.LowStockAlertView) int { return strings.Compare(a.PartNumber, b.PartNumber) }
	case repository.AlertSortRackLocation:
		return func(a, b *entity.LowStockAlertView) int { return strings.Compare(a.RackLocation, b.RackLocation) }
	case repository.AlertSortCurrentStock:
		return func(a, b *entity.LowStockAlertView) int { return cmpInt(a.CurrentStock, b.CurrentStock) }
	case repository.AlertSortMinimalStock:
		return func(a, b *entity.LowStockAlertView) int { return cmpInt(a.MinimalStock, b.MinimalStock) }
	default:
		return func(a, b *entity.LowStockAlertView) int { return strings.Compare(a.PartName, b.PartName) }
	}
}
