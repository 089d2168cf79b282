package pricing_test

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Taller-api/internal/domain"
	"github.com/jhoicas/Taller-api/internal/domain/money"
	"github.com/jhoicas/Taller-api/internal/domain/pricing"
)

// ──────────────────────────────────────────────────────────────────────────────
// Precio de lote
// ──────────────────────────────────────────────────────────────────────────────

func TestPriceBatch_PercentMarginWithPercentPromo(t *testing.T) {
	p, err := pricing.PriceBatch(40_000, money.MustPercent(25), money.MustPercent(10))
	require.NoError(t, err)
	assert.Equal(t, int64(10_000), p.MarginAmount)
	assert.Equal(t, int64(50_000), p.NormalPrice)
	assert.Equal(t, int64(5_000), p.PromoDiscountAmount)
	assert.Equal(t, int64(45_000), p.FinalPrice)
}

func TestPriceBatch_FixedPromoCappedAtNormalPrice(t *testing.T) {
	p, err := pricing.PriceBatch(10_000, money.MustFixed(2_000), money.MustFixed(50_000))
	require.NoError(t, err)
	assert.Equal(t, int64(12_000), p.NormalPrice)
	assert.Equal(t, int64(12_000), p.PromoDiscountAmount)
	assert.Equal(t, int64(0), p.FinalPrice, "el precio final nunca es negativo")
}

func TestPriceBatch_FixedMarginAboveCost(t *testing.T) {
	p, err := pricing.PriceBatch(5_000, money.MustFixed(7_500), money.None())
	require.NoError(t, err)
	assert.Equal(t, int64(12_500), p.NormalPrice)
	assert.Equal(t, int64(12_500), p.FinalPrice)
}

func TestPriceBatch_RejectsNoneMargin(t *testing.T) {
	_, err := pricing.PriceBatch(5_000, money.None(), money.None())
	assert.ErrorIs(t, err, domain.ErrInvalidRule)
}

func TestPriceBatch_RejectsPromoOverHundredPercent(t *testing.T) {
	_, err := pricing.PriceBatch(5_000, money.MustPercent(10), money.MustPercent(120))
	assert.ErrorIs(t, err, domain.ErrInvalidRule)
}

// Propiedad: final = costo + margen - promo y final >= 0 para toda combinación válida.
func TestPriceBatch_RejectsOverflow(t *testing.T) {
	_, err := pricing.PriceBatch(1<<62, money.MustPercent(300), money.None())
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = pricing.PriceBatch(1<<62, money.MustPercent(100), money.None())
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "costo + margen")

	_, err = pricing.PriceBatch(math.MaxInt64, money.MustFixed(1), money.None())
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestPriceBatch_Identity(t *testing.T) {
	margins := []money.Rule{money.MustPercent(0), money.MustPercent(15), money.MustPercent(200), money.MustFixed(0), money.MustFixed(3_333)}
	promos := []money.Rule{money.None(), money.MustPercent(5), money.MustPercent(100), money.MustFixed(1), money.MustFixed(1_000_000)}
	half, _ := money.Percent(decimal.RequireFromString("12.5"))
	margins = append(margins, half)

	for _, cost := range []int64{0, 1, 999, 125_000} {
		for _, m := range margins {
			for _, pr := range promos {
				p, err := pricing.PriceBatch(cost, m, pr)
				require.NoError(t, err)
				assert.Equal(t, cost+p.MarginAmount-p.PromoDiscountAmount, p.FinalPrice,
					"cost=%d margin=%s promo=%s", cost, m, pr)
				assert.GreaterOrEqual(t, p.FinalPrice, int64(0))
			}
		}
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Totales de documento
// ──────────────────────────────────────────────────────────────────────────────

func TestComputeTotals_FixedSequence(t *testing.T) {
	lines := []pricing.Line{pricing.NewLine(2, 50_000, money.MustFixed(10_000))}

	got, err := pricing.ComputeTotals(lines, money.MustPercent(10), money.MustPercent(11))
	require.NoError(t, err)

	require.Len(t, got.Lines, 1)
	assert.Equal(t, int64(100_000), got.Lines[0].Subtotal)
	assert.Equal(t, int64(10_000), got.Lines[0].DiscountAmount)
	assert.Equal(t, int64(90_000), got.Lines[0].Final)
	assert.Equal(t, int64(90_000), got.Subtotal)
	assert.Equal(t, int64(9_000), got.OrderDiscountAmount)
	assert.Equal(t, int64(81_000), got.AfterDiscount)
	assert.Equal(t, int64(8_910), got.TaxAmount)
	assert.Equal(t, int64(89_910), got.GrandTotal)
}

// Calcular el impuesto antes del descuento de pedido da otro total; ComputeTotals no debe producirlo.
func TestComputeTotals_TaxBeforeDiscountIsDifferent(t *testing.T) {
	lines := []pricing.Line{pricing.NewLine(1, 100_000, money.MustFixed(10_000))}
	got, err := pricing.ComputeTotals(lines, money.MustPercent(10), money.MustPercent(11))
	require.NoError(t, err)

	// Orden incorrecto: impuesto sobre 90.000 y luego descuento del 10 % sobre el subtotal.
	wrongTax, _ := money.Adjustment(90_000, money.MustPercent(11))
	wrongDiscount, _ := money.Adjustment(90_000, money.MustPercent(10))
	wrongTotal := 90_000 + wrongTax - wrongDiscount

	assert.NotEqual(t, wrongTotal, got.GrandTotal)
	assert.Equal(t, int64(89_910), got.GrandTotal)
}

func TestComputeTotals_MultiPieceLine(t *testing.T) {
	line := pricing.Line{
		Pieces:   []pricing.Piece{{Quantity: 5, UnitPrice: 12_000}, {Quantity: 3, UnitPrice: 13_500}},
		Discount: money.MustPercent(5),
	}
	got, err := pricing.ComputeTotals([]pricing.Line{line}, money.None(), money.None())
	require.NoError(t, err)
	assert.Equal(t, int64(8), line.Quantity())
	assert.Equal(t, int64(100_500), got.Lines[0].Subtotal)
	assert.Equal(t, int64(5_025), got.Lines[0].DiscountAmount)
	assert.Equal(t, int64(95_475), got.GrandTotal)
}

func TestComputeTotals_FixedTax(t *testing.T) {
	lines := []pricing.Line{pricing.NewLine(1, 10_000, money.None())}
	got, err := pricing.ComputeTotals(lines, money.MustFixed(15_000), money.MustFixed(500))
	require.NoError(t, err)
	assert.Equal(t, int64(10_000), got.OrderDiscountAmount, "descuento fijo acotado al subtotal")
	assert.Equal(t, int64(0), got.AfterDiscount)
	assert.Equal(t, int64(0), got.TaxAmount, "impuesto fijo acotado a la base neta")
	assert.Equal(t, int64(0), got.GrandTotal)
}

func TestComputeTotals_RejectsInvalidLines(t *testing.T) {
	_, err := pricing.ComputeTotals([]pricing.Line{pricing.NewLine(0, 1_000, money.None())}, money.None(), money.None())
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = pricing.ComputeTotals([]pricing.Line{pricing.NewLine(1, 1_000, money.MustPercent(101))}, money.None(), money.None())
	assert.ErrorIs(t, err, domain.ErrInvalidRule)

	_, err = pricing.ComputeTotals(nil, money.MustPercent(150), money.None())
	assert.ErrorIs(t, err, domain.ErrInvalidRule)
}

func TestComputeTotals_RejectsOverflow(t *testing.T) {
	_, err := pricing.ComputeTotals([]pricing.Line{pricing.NewLine(1<<33, 1<<31, money.None())}, money.None(), money.None())
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "cantidad × precio")

	half := pricing.NewLine(1, math.MaxInt64/2+1, money.None())
	_, err = pricing.ComputeTotals([]pricing.Line{half, half}, money.None(), money.None())
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "suma de líneas")

	_, err = pricing.ComputeTotals([]pricing.Line{pricing.NewLine(1, math.MaxInt64, money.None())}, money.None(), money.MustPercent(10))
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "neto + impuesto")
}
