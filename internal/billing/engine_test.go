package billing

import (
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopbill/pos/internal/domain/entity"
	"github.com/shopbill/pos/pkg/apperror"
)

func testItem(id string, sell, gst, stock string) entity.CatalogItem {
	return entity.CatalogItem{
		ID:           id,
		ItemName:     "Item " + id,
		MRP:          decimal.RequireFromString(sell).Add(decimal.NewFromInt(5)),
		SellPrice:    decimal.RequireFromString(sell),
		GST:          decimal.RequireFromString(gst),
		CurrentStock: decimal.RequireFromString(stock),
		Unit:         "PCS",
	}
}

func TestNewEngineStartsWithOneBlankLine(t *testing.T) {
	e := New()
	lines := e.Lines()
	require.Len(t, lines, 1)
	assert.False(t, lines[0].Selected())
	assert.Equal(t, "1", lines[0].Display(FieldQuantity))
	assert.True(t, e.Totals().SubTotal.IsZero())
}

func TestTaxAppliesToDiscountedAmount(t *testing.T) {
	e := New()
	id := e.Lines()[0].ID()

	require.NoError(t, e.SetLineField(id, FieldPrice, "100"))
	require.NoError(t, e.SetLineField(id, FieldQuantity, "2"))
	require.NoError(t, e.SetLineField(id, FieldDiscount, "10"))
	require.NoError(t, e.SetLineField(id, FieldTax, "18"))

	ln, err := e.Line(id)
	require.NoError(t, err)
	assert.Equal(t, "180.00", ln.Amount().StringFixed(2))
	assert.Equal(t, "212.40", ln.Total().StringFixed(2))

	tot := e.Totals()
	assert.Equal(t, "180.00", tot.SubTotal.StringFixed(2))
	assert.Equal(t, "32.40", tot.TotalTax.StringFixed(2))
	assert.Equal(t, "212.40", tot.GrandTotal.StringFixed(2))
}

func TestInvoiceDiscountAppliesOnceAfterAggregation(t *testing.T) {
	e := New()
	first := e.Lines()[0].ID()
	second := e.AddLine()

	require.NoError(t, e.SetLineField(first, FieldPrice, "100"))
	require.NoError(t, e.SetLineField(second, FieldPrice, "200"))
	require.NoError(t, e.SetInvoiceDiscount("30"))

	tot := e.Totals()
	assert.Equal(t, "300.00", tot.SubTotal.StringFixed(2))
	assert.Equal(t, "270.00", tot.GrandTotal.StringFixed(2))

	// the discount is not distributed back into lines
	for _, ln := range e.Lines() {
		assert.True(t, ln.Amount().Equal(ln.UnitPrice()))
	}
}

func TestGrandTotalClampedAtZero(t *testing.T) {
	e := New()
	id := e.Lines()[0].ID()
	require.NoError(t, e.SetLineField(id, FieldPrice, "50"))
	require.NoError(t, e.SetInvoiceDiscount("80"))

	assert.True(t, e.Totals().GrandTotal.IsZero())
}

func TestBalanceSignConvention(t *testing.T) {
	e := New()
	id := e.Lines()[0].ID()
	require.NoError(t, e.SetLineField(id, FieldPrice, "320"))

	require.NoError(t, e.SetReceivedAmount("500"))
	assert.Equal(t, "180.00", e.Totals().Balance.StringFixed(2))

	require.NoError(t, e.SetReceivedAmount("200"))
	assert.Equal(t, "-120.00", e.Totals().Balance.StringFixed(2))
}

func TestQuantityClampedToStockCeiling(t *testing.T) {
	e := New()
	id := e.Lines()[0].ID()
	require.NoError(t, e.SelectCatalogItem(id, testItem("42", "10", "0", "5")))

	require.NoError(t, e.SetLineField(id, FieldQuantity, "10"))

	ln, err := e.Line(id)
	require.NoError(t, err)
	assert.Equal(t, "5", ln.Quantity().String())
	assert.Equal(t, "5", ln.Display(FieldQuantity))
	assert.True(t, ln.AtStockCeiling())
	assert.Equal(t, "50.00", ln.Amount().StringFixed(2))
}

func TestLastLineRemovalIsNoOp(t *testing.T) {
	e := New()
	id := e.Lines()[0].ID()

	require.NoError(t, e.RemoveLine(id))
	assert.Len(t, e.Lines(), 1)
}

func TestRemoveUnknownLine(t *testing.T) {
	e := New()
	err := e.RemoveLine(LineID(999))
	require.Error(t, err)
	assert.True(t, apperror.IsLineNotFound(err))
}

func TestLineIDsNeverReused(t *testing.T) {
	e := New()
	first := e.Lines()[0].ID()
	second := e.AddLine()
	require.NoError(t, e.RemoveLine(second))

	third := e.AddLine()
	assert.NotEqual(t, second, third)
	assert.Greater(t, third, second)
	assert.NotEqual(t, first, third)
}

func TestEmptyFieldComputesAsZeroButDisplaysEmpty(t *testing.T) {
	e := New()
	id := e.Lines()[0].ID()
	require.NoError(t, e.SetLineField(id, FieldPrice, "100"))
	require.NoError(t, e.SetLineField(id, FieldDiscount, "25"))

	require.NoError(t, e.SetLineField(id, FieldDiscount, ""))

	ln, err := e.Line(id)
	require.NoError(t, err)
	assert.Equal(t, "", ln.Display(FieldDiscount))
	assert.True(t, ln.DiscountPercent().IsZero())
	assert.Equal(t, "100.00", ln.Amount().StringFixed(2))
}

func TestInvalidInputRetainsPriorValue(t *testing.T) {
	e := New()
	id := e.Lines()[0].ID()
	require.NoError(t, e.SetLineField(id, FieldPrice, "100"))

	cases := []string{"abc", "-5", "12,5", "1.2.3"}
	for _, bad := range cases {
		err := e.SetLineField(id, FieldPrice, bad)
		require.Error(t, err, "value %q", bad)
		assert.True(t, apperror.IsInvalidNumber(err))
	}

	ln, err := e.Line(id)
	require.NoError(t, err)
	assert.Equal(t, "100", ln.UnitPrice().String())
	assert.Equal(t, "100", ln.Display(FieldPrice))
}

func TestPercentAboveHundredRejected(t *testing.T) {
	e := New()
	id := e.Lines()[0].ID()

	err := e.SetLineField(id, FieldDiscount, "120")
	require.Error(t, err)
	assert.True(t, apperror.IsInvalidNumber(err))

	err = e.SetLineField(id, FieldTax, "101")
	require.Error(t, err)
	assert.True(t, apperror.IsInvalidNumber(err))
}

func TestZeroQuantityKeepsLine(t *testing.T) {
	e := New()
	id := e.Lines()[0].ID()
	require.NoError(t, e.SetLineField(id, FieldPrice, "40"))
	require.NoError(t, e.SetLineField(id, FieldQuantity, "0"))

	require.Len(t, e.Lines(), 1)
	ln, err := e.Line(id)
	require.NoError(t, err)
	assert.True(t, ln.Amount().IsZero())
	assert.True(t, ln.Total().IsZero())
}

func TestSelectCatalogItemResetsQuantityAndDiscount(t *testing.T) {
	e := New()
	id := e.Lines()[0].ID()
	require.NoError(t, e.SetLineField(id, FieldQuantity, "7"))
	require.NoError(t, e.SetLineField(id, FieldDiscount, "15"))

	require.NoError(t, e.SelectCatalogItem(id, testItem("9", "25.50", "12", "100")))

	ln, err := e.Line(id)
	require.NoError(t, err)
	assert.True(t, ln.Selected())
	assert.Equal(t, "1", ln.Quantity().String())
	assert.Equal(t, "0", ln.Display(FieldDiscount))
	assert.Equal(t, "25.5", ln.UnitPrice().String())
	assert.Equal(t, "12", ln.TaxPercent().String())
	assert.Equal(t, "28.56", ln.Total().StringFixed(2))
}

func TestRecomputeIsDeterministic(t *testing.T) {
	e := New()
	first := e.Lines()[0].ID()
	require.NoError(t, e.SelectCatalogItem(first, testItem("1", "33.33", "18", "50")))
	require.NoError(t, e.SetLineField(first, FieldQuantity, "3"))
	require.NoError(t, e.SetLineField(first, FieldDiscount, "7.5"))
	second := e.AddLine()
	require.NoError(t, e.SetLineField(second, FieldPrice, "19.99"))
	require.NoError(t, e.SetInvoiceDiscount("5"))
	require.NoError(t, e.SetReceivedAmount("120"))

	a := e.Recompute()
	b := e.Recompute()

	assert.Equal(t, totalsKey(a), totalsKey(b))
}

// Edits arriving in any order must converge to the same totals.
func TestRecomputeIndependentOfEditOrder(t *testing.T) {
	build := func(order []Field) Totals {
		e := New()
		id := e.Lines()[0].ID()
		values := map[Field]string{
			FieldPrice:    "100",
			FieldQuantity: "2",
			FieldDiscount: "10",
			FieldTax:      "18",
		}
		for _, f := range order {
			require.NoError(t, e.SetLineField(id, f, values[f]))
		}
		return e.Totals()
	}

	base := build([]Field{FieldPrice, FieldQuantity, FieldDiscount, FieldTax})
	reordered := build([]Field{FieldTax, FieldDiscount, FieldQuantity, FieldPrice})
	assert.Equal(t, totalsKey(base), totalsKey(reordered))
}

func TestAggregationIdentityOverRandomLines(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	for trial := 0; trial < 50; trial++ {
		e := New()
		n := 1 + rng.Intn(8)
		for i := 0; i < n; i++ {
			var id LineID
			if i == 0 {
				id = e.Lines()[0].ID()
			} else {
				id = e.AddLine()
			}
			require.NoError(t, e.SetLineField(id, FieldPrice, fmt.Sprintf("%.2f", rng.Float64()*500)))
			require.NoError(t, e.SetLineField(id, FieldQuantity, fmt.Sprintf("%d", rng.Intn(20))))
			require.NoError(t, e.SetLineField(id, FieldDiscount, fmt.Sprintf("%.1f", rng.Float64()*100)))
			require.NoError(t, e.SetLineField(id, FieldTax, fmt.Sprintf("%.1f", rng.Float64()*28)))
		}

		tot := e.Recompute()
		sub := decimal.Zero
		tax := decimal.Zero
		for _, ln := range e.Lines() {
			sub = sub.Add(ln.Amount())
			tax = tax.Add(ln.Total().Sub(ln.Amount()))
		}
		require.True(t, tot.SubTotal.Equal(sub), "trial %d: subtotal %s != sum %s", trial, tot.SubTotal, sub)
		require.True(t, tot.TotalTax.Equal(tax), "trial %d: tax %s != sum %s", trial, tot.TotalTax, tax)
	}
}

func TestSubtotalOfRoundedLinesDoesNotDrift(t *testing.T) {
	// three lines whose exact amounts carry sub-cent precision
	e := New()
	var ids []LineID
	ids = append(ids, e.Lines()[0].ID())
	ids = append(ids, e.AddLine(), e.AddLine())
	for _, id := range ids {
		require.NoError(t, e.SetLineField(id, FieldPrice, "10.01"))
		require.NoError(t, e.SetLineField(id, FieldQuantity, "1"))
		require.NoError(t, e.SetLineField(id, FieldDiscount, "33.33"))
	}

	tot := e.Totals()
	// the subtotal is the exact sum, not the sum of per-line roundings
	exact := decimal.RequireFromString("10.01").
		Mul(decimal.RequireFromString("0.6667")).
		Mul(decimal.NewFromInt(3))
	assert.True(t, tot.SubTotal.Equal(exact), "got %s want %s", tot.SubTotal, exact)
}

func totalsKey(t Totals) string {
	return strings.Join([]string{
		t.SubTotal.String(),
		t.TotalTax.String(),
		t.InvoiceDiscount.String(),
		t.GrandTotal.String(),
		t.Balance.String(),
	}, "|")
}
