package receipt

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/jung-kurt/gofpdf"

	"github.com/shopbill/pos/internal/domain/entity"
)

const (
	pdfPaperWidth  = 80.0 // mm, standard thermal roll
	pdfPaperHeight = 297.0
	pdfMargin      = 3.0
	pdfLineHeight  = 4.2
	pdfCols        = 40 // monospace characters per line at 9pt courier
)

// RenderPDF writes the receipt as an 80mm-wide PDF to w. The layout
// mirrors the thermal output: courier, fixed columns, separators.
func RenderPDF(r *entity.Receipt, header entity.ReceiptHeader, currency string, w io.Writer) error {
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           gofpdf.SizeType{Wd: pdfPaperWidth, Ht: pdfPaperHeight},
	})
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(true, pdfMargin)
	pdf.AddPage()

	width := pdfPaperWidth - 2*pdfMargin

	center := func(style string, size float64, text string) {
		pdf.SetFont("Courier", style, size)
		pdf.CellFormat(width, pdfLineHeight, text, "", 1, "C", false, 0, "")
	}
	line := func(style, text string) {
		pdf.SetFont("Courier", style, 9)
		pdf.CellFormat(width, pdfLineHeight, text, "", 1, "L", false, 0, "")
	}
	rule := func() {
		line("", strings.Repeat("-", pdfCols))
	}
	keyValue := func(style, key, value string) {
		gap := pdfCols - utf8.RuneCountInString(key) - utf8.RuneCountInString(value)
		if gap < 1 {
			gap = 1
		}
		line(style, key+strings.Repeat(" ", gap)+value)
	}

	center("B", 12, header.StoreName)
	if header.Address != "" {
		center("", 8, header.Address)
	}
	if header.Phone != "" {
		center("", 8, "Ph: "+header.Phone)
	}
	if header.GSTIN != "" {
		center("", 8, "GSTIN: "+header.GSTIN)
	}
	rule()

	keyValue("", "Bill: "+shortBillNumber(r.BillNumber), r.Date)
	if r.Customer != "" {
		line("", "Customer: "+r.Customer)
	}
	rule()

	line("B", columnRow("Item", "Qty", "Rate", "Amt"))
	rule()
	for _, item := range r.Items {
		line("", columnRow(
			item.Name,
			item.Quantity.String(),
			item.Rate.StringFixed(2),
			item.Amount.StringFixed(2),
		))
	}
	rule()

	keyValue("", "Subtotal", money(currency, r.SubTotal))
	if r.Tax.IsPositive() {
		keyValue("", "GST", money(currency, r.Tax))
	}
	if r.Discount.IsPositive() {
		keyValue("", "Discount", "-"+money(currency, r.Discount))
	}
	keyValue("B", "TOTAL", money(currency, r.Total))

	if r.AmountPaid.IsPositive() {
		keyValue("", fmt.Sprintf("Paid (%s)", r.PaymentMethod), money(currency, r.AmountPaid))
	}
	if r.Change.IsPositive() {
		keyValue("", "Change", money(currency, r.Change))
	} else if r.Change.IsNegative() {
		keyValue("", "Balance due", money(currency, r.Change.Neg()))
	}
	rule()

	center("B", 9, "Thank You for Shopping!")
	center("B", 9, "Visit Again")

	return pdf.Output(w)
}

// columnRow lays out the item columns for a 40-character line:
// 20 for the name, then right-aligned qty/rate/amount. Widths count
// runes so multi-byte names keep the columns aligned.
func columnRow(name, qty, rate, amount string) string {
	return padCol(name, 20) + alignCol(qty, 4) + alignCol(rate, 8) + alignCol(amount, 8)
}

func padCol(s string, w int) string {
	r := []rune(s)
	if len(r) >= w {
		return string(r[:w])
	}
	return s + strings.Repeat(" ", w-len(r))
}

func alignCol(s string, w int) string {
	r := []rune(s)
	if len(r) >= w {
		return string(r[:w])
	}
	return strings.Repeat(" ", w-len(r)) + s
}
