package receipt

import (
	"bytes"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopbill/pos/internal/domain/entity"
	"github.com/shopbill/pos/pkg/printer"
)

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func samplePayload() *entity.BillPayload {
	return &entity.BillPayload{
		BillNumber:   "INV-a1b2c3d4",
		CustomerName: "Priya",
		Type:         entity.BillTypeCash,
		Date:         time.Date(2025, 3, 14, 18, 30, 0, 0, time.UTC),
		Items: []entity.BillItemPayload{
			{
				ItemName:  "Basmati Rice 5kg",
				SellPrice: dec("450.00"),
				Quantity:  dec("2"),
				Amount:    dec("900.00"),
				Total:     dec("945.00"),
			},
			{
				ItemName:  "Toor Dal 1kg",
				SellPrice: dec("160.00"),
				Quantity:  dec("1"),
				Amount:    dec("160.00"),
				Total:     dec("168.00"),
			},
		},
		SubTotal:        dec("1060.00"),
		TotalTax:        dec("53.00"),
		InvoiceDiscount: dec("13.00"),
		GrandTotal:      dec("1100.00"),
		ReceivedAmount:  dec("1200.00"),
		Balance:         dec("100.00"),
	}
}

func TestFromBillCopiesTotals(t *testing.T) {
	r := FromBill(samplePayload())

	assert.Equal(t, "INV-a1b2c3d4", r.BillNumber)
	assert.Equal(t, "14 Mar 25 18:30", r.Date)
	assert.Equal(t, "Priya", r.Customer)
	require.Len(t, r.Items, 2)
	assert.Equal(t, "Basmati Rice 5kg", r.Items[0].Name)
	assert.True(t, r.Items[0].Amount.Equal(dec("900.00")))
	assert.True(t, r.Total.Equal(dec("1100.00")))
	assert.True(t, r.Change.Equal(dec("100.00")))
}

func TestFromBillSkipsBlankRows(t *testing.T) {
	p := samplePayload()
	p.Items = append(p.Items, entity.BillItemPayload{Quantity: dec("1")})

	r := FromBill(p)
	assert.Len(t, r.Items, 2)
}

func TestFromBillNamesUnnamedItems(t *testing.T) {
	p := samplePayload()
	p.Items = []entity.BillItemPayload{
		{SellPrice: dec("50"), Quantity: dec("1"), Amount: dec("50.00"), Total: dec("50.00")},
	}

	r := FromBill(p)
	require.Len(t, r.Items, 1)
	assert.Equal(t, "Item", r.Items[0].Name)
}

func TestFormatESCPOSContainsReceiptContents(t *testing.T) {
	r := FromBill(samplePayload())
	data := FormatESCPOS(r, entity.ReceiptHeader{
		StoreName: "Shree Grocers",
		Phone:     "98765 43210",
		GSTIN:     "29ABCDE1234F1Z5",
	}, 32, "Rs.")

	out := string(data)
	assert.Contains(t, out, "Shree Grocers")
	assert.Contains(t, out, "GSTIN: 29ABCDE1234F1Z5")
	assert.Contains(t, out, "INV-a1b2c3d4")
	assert.Contains(t, out, "Basmati Rice")
	assert.Contains(t, out, "Rs.1060.00")
	assert.Contains(t, out, "-Rs.13.00")
	assert.Contains(t, out, "Rs.1100.00")
	assert.Contains(t, out, "Paid (CASH):")
	assert.Contains(t, out, "Change:")
	assert.Contains(t, out, "Thank You for Shopping!")
	assert.True(t, bytes.HasSuffix(data, []byte{printer.GS, 'V', 0x01}))
}

func TestFormatESCPOSCreditBalanceDue(t *testing.T) {
	p := samplePayload()
	p.Type = entity.BillTypeCredit
	p.ReceivedAmount = dec("500.00")
	p.Balance = dec("-600.00")

	r := FromBill(p)
	data := FormatESCPOS(r, entity.ReceiptHeader{StoreName: "Shree Grocers"}, 32, "Rs.")

	out := string(data)
	assert.Contains(t, out, "Balance due:")
	assert.Contains(t, out, "Rs.600.00")
	assert.NotContains(t, out, "Change:")
}

func TestFormatESCPOSOmitsZeroDiscountAndTax(t *testing.T) {
	p := samplePayload()
	p.TotalTax = decimal.Zero
	p.InvoiceDiscount = decimal.Zero

	r := FromBill(p)
	out := string(FormatESCPOS(r, entity.ReceiptHeader{StoreName: "S"}, 32, "Rs."))

	assert.NotContains(t, out, "GST:")
	assert.NotContains(t, out, "Discount:")
}

func TestShortBillNumber(t *testing.T) {
	assert.Equal(t, "INV-a1b2c3d4", shortBillNumber("INV-a1b2c3d4"))
	assert.Equal(t, "890123456789", shortBillNumber("BILL-1234567890123456789"))
}

func TestColumnRowCountsRunesNotBytes(t *testing.T) {
	row := columnRow("बासमती चावल पाँच किलो की बोरी", "2", "450.00", "900.00")

	assert.True(t, utf8.ValidString(row), "truncation must never cut a rune in half")
	assert.Equal(t, 40, utf8.RuneCountInString(row))
	assert.True(t, strings.HasSuffix(row, "900.00"))
}

func TestRenderPDFProducesDocument(t *testing.T) {
	r := FromBill(samplePayload())

	var buf bytes.Buffer
	err := RenderPDF(r, entity.ReceiptHeader{
		StoreName: "Shree Grocers",
		Address:   "12 MG Road, Bengaluru",
	}, "Rs.", &buf)

	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
	assert.Greater(t, buf.Len(), 500)
}
