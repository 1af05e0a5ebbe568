// Package billing implements the invoice pricing engine: it owns the
// bill's line items and invoice-level inputs and derives every computed
// monetary field from them. All arithmetic uses decimals; rounding to
// two places happens only at the submission/display boundary.
package billing

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/shopbill/pos/internal/domain/entity"
	"github.com/shopbill/pos/pkg/apperror"
)

var (
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
)

// LineID identifies a line within one bill. IDs are allocated
// monotonically and never reused, even after the line is removed.
type LineID int64

// Field names an editable numeric field of a line.
type Field string

// Editable line fields.
const (
	FieldQuantity Field = "quantity"
	FieldPrice    Field = "sellPrice"
	FieldDiscount Field = "discountPercent"
	FieldTax      Field = "taxPercent"
)

// Line is one row of the bill. Derived values (amount, total) are
// refreshed on every mutation through the engine.
type Line struct {
	id       LineID
	itemID   string
	itemName string
	unit     string
	selected bool

	mrp       decimal.Decimal
	unitPrice decimal.Decimal
	qty       decimal.Decimal
	discount  decimal.Decimal
	tax       decimal.Decimal

	// raw operator input per field; kept separate from the parsed
	// value so an empty field computes as zero without displaying "0"
	priceRaw    string
	qtyRaw      string
	discountRaw string
	taxRaw      string

	stockCeiling decimal.Decimal
	hasCeiling   bool

	amount decimal.Decimal
	total  decimal.Decimal
}

// ID returns the line's identifier.
func (l *Line) ID() LineID { return l.id }

// ItemID returns the selected catalog item id, empty when unselected.
func (l *Line) ItemID() string { return l.itemID }

// ItemName returns the selected item's name.
func (l *Line) ItemName() string { return l.itemName }

// Unit returns the selected item's unit of sale.
func (l *Line) Unit() string { return l.unit }

// Selected reports whether a catalog item has been chosen for the line.
func (l *Line) Selected() bool { return l.selected }

// MRP returns the printed ceiling price (informational).
func (l *Line) MRP() decimal.Decimal { return l.mrp }

// UnitPrice returns the sell price used in arithmetic.
func (l *Line) UnitPrice() decimal.Decimal { return l.unitPrice }

// Quantity returns the parsed quantity.
func (l *Line) Quantity() decimal.Decimal { return l.qty }

// DiscountPercent returns the per-line discount percentage.
func (l *Line) DiscountPercent() decimal.Decimal { return l.discount }

// TaxPercent returns the per-line tax (GST) percentage.
func (l *Line) TaxPercent() decimal.Decimal { return l.tax }

// Amount returns the pre-tax line value after discount.
func (l *Line) Amount() decimal.Decimal { return l.amount }

// Total returns the line value including tax.
func (l *Line) Total() decimal.Decimal { return l.total }

// AtStockCeiling reports whether the quantity sits at the known stock
// ceiling, i.e. a larger operator input would have been clamped.
func (l *Line) AtStockCeiling() bool {
	return l.hasCeiling && l.qty.Equal(l.stockCeiling)
}

// Display returns the raw input state of a field. An empty string means
// the operator cleared the field; it computes as zero.
func (l *Line) Display(f Field) string {
	switch f {
	case FieldQuantity:
		return l.qtyRaw
	case FieldPrice:
		return l.priceRaw
	case FieldDiscount:
		return l.discountRaw
	case FieldTax:
		return l.taxRaw
	}
	return ""
}

// Totals holds the invoice-level derived values.
type Totals struct {
	SubTotal        decimal.Decimal
	TotalTax        decimal.Decimal
	InvoiceDiscount decimal.Decimal
	GrandTotal      decimal.Decimal
	Balance         decimal.Decimal
}

// Engine maintains one in-progress bill. It is driven synchronously by
// a single caller; after submission the instance is discarded and a new
// one is created for the next bill.
type Engine struct {
	lines  []*Line
	nextID LineID

	invDiscount    decimal.Decimal
	invDiscountRaw string
	received       decimal.Decimal
	receivedRaw    string

	billNumber   string
	customerName string
	phoneNumber  string
	address      string

	totals Totals
}

// New creates an engine holding a single blank line, so the caller
// always has an editable row.
func New() *Engine {
	e := &Engine{nextID: 1}
	e.appendBlankLine()
	e.Recompute()
	return e
}

func (e *Engine) appendBlankLine() *Line {
	ln := &Line{
		id:     e.nextID,
		qty:    one,
		qtyRaw: "1",
	}
	e.nextID++
	e.lines = append(e.lines, ln)
	return ln
}

// Lines returns the bill's lines in insertion order.
func (e *Engine) Lines() []*Line {
	out := make([]*Line, len(e.lines))
	copy(out, e.lines)
	return out
}

// Line returns the line with the given id.
func (e *Engine) Line(id LineID) (*Line, error) {
	for _, ln := range e.lines {
		if ln.id == id {
			return ln, nil
		}
	}
	return nil, &apperror.LineNotFoundError{Line: int64(id)}
}

// AddLine appends a new blank line and returns its identifier.
func (e *Engine) AddLine() LineID {
	ln := e.appendBlankLine()
	e.Recompute()
	return ln.id
}

// RemoveLine removes the line with the given id. Removing the last
// remaining line is a no-op: a bill always keeps at least one row.
func (e *Engine) RemoveLine(id LineID) error {
	idx := -1
	for i, ln := range e.lines {
		if ln.id == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return &apperror.LineNotFoundError{Line: int64(id)}
	}
	if len(e.lines) == 1 {
		return nil
	}
	e.lines = append(e.lines[:idx], e.lines[idx+1:]...)
	e.Recompute()
	return nil
}

// SetLineField updates one numeric field of a line from raw operator
// input. An empty input is accepted and computes as zero while the
// display state stays empty. Invalid input leaves the field untouched.
// A quantity above the line's known stock ceiling is clamped, not
// rejected.
func (e *Engine) SetLineField(id LineID, f Field, value string) error {
	ln, err := e.Line(id)
	if err != nil {
		return err
	}

	switch f {
	case FieldQuantity:
		v, err := parseAmount(string(f), value)
		if err != nil {
			return err
		}
		raw := value
		if ln.hasCeiling && v.GreaterThan(ln.stockCeiling) {
			v = ln.stockCeiling
			raw = ln.stockCeiling.String()
		}
		ln.qty, ln.qtyRaw = v, raw
	case FieldPrice:
		v, err := parseAmount(string(f), value)
		if err != nil {
			return err
		}
		ln.unitPrice, ln.priceRaw = v, value
	case FieldDiscount:
		v, err := parsePercent(string(f), value)
		if err != nil {
			return err
		}
		ln.discount, ln.discountRaw = v, value
	case FieldTax:
		v, err := parsePercent(string(f), value)
		if err != nil {
			return err
		}
		ln.tax, ln.taxRaw = v, value
	default:
		return apperror.NewBadRequestError("unknown line field " + string(f))
	}

	e.Recompute()
	return nil
}

// SelectCatalogItem populates a line from a chosen search result. The
// quantity resets to 1 and the per-line discount to 0; the item's sell
// price, tax rate and current stock become the line's price, tax and
// quantity ceiling.
func (e *Engine) SelectCatalogItem(id LineID, item entity.CatalogItem) error {
	ln, err := e.Line(id)
	if err != nil {
		return err
	}

	ln.itemID = item.ID
	ln.itemName = item.ItemName
	ln.unit = item.Unit
	ln.selected = true
	ln.mrp = item.MRP
	ln.unitPrice = item.SellPrice
	ln.priceRaw = item.SellPrice.String()
	ln.qty = one
	ln.qtyRaw = "1"
	ln.discount = decimal.Zero
	ln.discountRaw = "0"
	ln.tax = item.GST
	ln.taxRaw = item.GST.String()
	ln.stockCeiling = item.CurrentStock
	ln.hasCeiling = true

	e.Recompute()
	return nil
}

// SetInvoiceDiscount sets the flat invoice-level discount amount,
// applied once after line aggregation.
func (e *Engine) SetInvoiceDiscount(value string) error {
	v, err := parseAmount("invoiceDiscount", value)
	if err != nil {
		return err
	}
	e.invDiscount, e.invDiscountRaw = v, value
	e.Recompute()
	return nil
}

// SetReceivedAmount sets the amount handed over by the customer.
func (e *Engine) SetReceivedAmount(value string) error {
	v, err := parseAmount("receivedAmount", value)
	if err != nil {
		return err
	}
	e.received, e.receivedRaw = v, value
	e.Recompute()
	return nil
}

// InvoiceDiscountDisplay returns the raw invoice discount input.
func (e *Engine) InvoiceDiscountDisplay() string { return e.invDiscountRaw }

// ReceivedAmountDisplay returns the raw received amount input.
func (e *Engine) ReceivedAmountDisplay() string { return e.receivedRaw }

// SetCustomer records the customer details carried on the bill.
func (e *Engine) SetCustomer(name, phone, address string) {
	e.customerName = name
	e.phoneNumber = phone
	e.address = address
}

// SetBillNumber overrides the generated bill number.
func (e *Engine) SetBillNumber(n string) { e.billNumber = n }

// Recompute derives every line's amount and total and the invoice
// aggregates from the current state. It depends only on that state:
// calling it repeatedly yields identical results.
func (e *Engine) Recompute() Totals {
	sub := decimal.Zero
	tax := decimal.Zero

	for _, ln := range e.lines {
		// tax applies to the discounted amount, never the raw price
		ln.amount = ln.unitPrice.Mul(ln.qty).Mul(one.Sub(ln.discount.Div(hundred)))
		ln.total = ln.amount.Mul(one.Add(ln.tax.Div(hundred)))
		sub = sub.Add(ln.amount)
		tax = tax.Add(ln.total.Sub(ln.amount))
	}

	grand := sub.Add(tax).Sub(e.invDiscount)
	if grand.IsNegative() {
		grand = decimal.Zero
	}

	e.totals = Totals{
		SubTotal:        sub,
		TotalTax:        tax,
		InvoiceDiscount: e.invDiscount,
		GrandTotal:      grand,
		Balance:         e.received.Sub(grand),
	}
	return e.totals
}

// Totals returns the aggregates from the last recomputation.
func (e *Engine) Totals() Totals { return e.totals }

func parseAmount(field, raw string) (decimal.Decimal, error) {
	if strings.TrimSpace(raw) == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil || d.IsNegative() {
		return decimal.Zero, apperror.NewInvalidNumberError(field, raw)
	}
	return d, nil
}

func parsePercent(field, raw string) (decimal.Decimal, error) {
	d, err := parseAmount(field, raw)
	if err != nil {
		return decimal.Zero, err
	}
	if d.GreaterThan(hundred) {
		return decimal.Zero, apperror.NewInvalidNumberError(field, raw)
	}
	return d, nil
}
