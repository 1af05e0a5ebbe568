// Package receipt turns a submitted bill into printable output: the
// normalized receipt value object, an ESC/POS byte stream for thermal
// printers, and an 80mm PDF.
package receipt

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/shopbill/pos/internal/domain/entity"
	"github.com/shopbill/pos/pkg/printer"
)

// FromBill builds the normalized receipt structure from a submitted
// bill payload. Change is only shown when the customer overpaid; the
// amount still due on a credit bill is carried as a negative change.
func FromBill(p *entity.BillPayload) *entity.Receipt {
	r := &entity.Receipt{
		BillNumber:    p.BillNumber,
		Date:          p.Date.Format("02 Jan 06 15:04"),
		Customer:      p.CustomerName,
		SubTotal:      p.SubTotal,
		Discount:      p.InvoiceDiscount,
		Tax:           p.TotalTax,
		Total:         p.GrandTotal,
		PaymentMethod: p.Type,
		AmountPaid:    p.ReceivedAmount,
		Change:        p.Balance,
	}

	for _, item := range p.Items {
		if item.ItemName == "" && item.Amount.IsZero() {
			continue // blank row never filled in
		}
		name := item.ItemName
		if name == "" {
			name = "Item"
		}
		r.Items = append(r.Items, entity.ReceiptItem{
			Name:     name,
			Quantity: item.Quantity,
			Rate:     item.SellPrice,
			Amount:   item.Amount,
		})
	}
	return r
}

// FormatESCPOS converts a receipt into ESC/POS bytes. width is the
// paper width in characters (32 for 58mm, 48 for 80mm); currency is
// the symbol prefixed to totals (thermal character sets rarely carry
// the rupee sign, so "Rs." is the usual choice).
func FormatESCPOS(r *entity.Receipt, header entity.ReceiptHeader, width int, currency string) []byte {
	doc := printer.NewDocument(width)

	doc.SetAlign(printer.AlignCenter).
		SetBold(true).
		SetFontSize(printer.FontDouble).
		Text(header.StoreName).
		SetFontSize(printer.FontNormal).
		SetBold(false)

	if header.Address != "" {
		doc.Text(header.Address)
	}
	if header.Phone != "" {
		doc.Text(header.Phone)
	}
	if header.GSTIN != "" {
		doc.TextF("GSTIN: %s", header.GSTIN)
	}

	doc.SetAlign(printer.AlignLeft).
		Separator('-')

	doc.KeyValue("Bill:", shortBillNumber(r.BillNumber)).
		KeyValue("Date:", r.Date)
	if r.Customer != "" {
		doc.KeyValue("Customer:", r.Customer)
	}

	doc.Separator('-')
	doc.SetBold(true).
		ColumnLine("Item", "Qty", "Rate", "Amt").
		SetBold(false)
	doc.Separator('-')

	for _, item := range r.Items {
		doc.ColumnLine(
			item.Name,
			item.Quantity.String(),
			item.Rate.StringFixed(2),
			item.Amount.StringFixed(2),
		)
	}

	doc.Separator('-')
	doc.KeyValue("Subtotal:", money(currency, r.SubTotal))
	if r.Tax.IsPositive() {
		doc.KeyValue("GST:", money(currency, r.Tax))
	}
	if r.Discount.IsPositive() {
		doc.KeyValue("Discount:", "-"+money(currency, r.Discount))
	}

	doc.SetBold(true).
		KeyValue("TOTAL:", money(currency, r.Total)).
		SetBold(false)

	if r.AmountPaid.IsPositive() {
		doc.KeyValue(fmt.Sprintf("Paid (%s):", r.PaymentMethod), money(currency, r.AmountPaid))
	}
	if r.Change.IsPositive() {
		doc.KeyValue("Change:", money(currency, r.Change))
	} else if r.Change.IsNegative() {
		doc.KeyValue("Balance due:", money(currency, r.Change.Neg()))
	}

	doc.Separator('-')
	doc.SetAlign(printer.AlignCenter).
		Text("Thank You for Shopping!").
		Text("Visit Again").
		SetAlign(printer.AlignLeft)

	doc.FeedLines(3).
		PartialCut()

	return doc.Bytes()
}

func money(currency string, d decimal.Decimal) string {
	return currency + d.StringFixed(2)
}

// shortBillNumber keeps the tail of a long generated bill number so it
// fits a narrow receipt line.
func shortBillNumber(n string) string {
	if len(n) <= 12 {
		return n
	}
	return n[len(n)-12:]
}
