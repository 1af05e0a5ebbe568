package billing

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/shopbill/pos/internal/domain/entity"
)

// SubmissionPayload flattens the bill into the structure handed to the
// backend. Every monetary field is rounded to two decimals here; the
// engine keeps full precision internally. A bill number is generated if
// none was set.
func (e *Engine) SubmissionPayload(billType string) *entity.BillPayload {
	t := e.Recompute()

	if billType != entity.BillTypeCredit {
		billType = entity.BillTypeCash
	}

	number := e.billNumber
	if number == "" {
		number = fmt.Sprintf("INV-%s", uuid.New().String()[:8])
	}

	items := make([]entity.BillItemPayload, 0, len(e.lines))
	for _, ln := range e.lines {
		items = append(items, entity.BillItemPayload{
			ItemID:          ln.itemID,
			ItemName:        ln.itemName,
			MRP:             ln.mrp.Round(2),
			SellPrice:       ln.unitPrice.Round(2),
			Quantity:        ln.qty,
			DiscountPercent: ln.discount,
			TaxPercent:      ln.tax,
			Amount:          ln.amount.Round(2),
			Total:           ln.total.Round(2),
			Unit:            ln.unit,
		})
	}

	return &entity.BillPayload{
		BillNumber:      number,
		CustomerName:    e.customerName,
		PhoneNumber:     e.phoneNumber,
		Address:         e.address,
		Type:            billType,
		Date:            time.Now(),
		Items:           items,
		SubTotal:        t.SubTotal.Round(2),
		TotalTax:        t.TotalTax.Round(2),
		InvoiceDiscount: t.InvoiceDiscount.Round(2),
		GrandTotal:      t.GrandTotal.Round(2),
		ReceivedAmount:  e.received.Round(2),
		Balance:         t.Balance.Round(2),
	}
}
