package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Bill type constants
const (
	BillTypeCash   = "CASH"
	BillTypeCredit = "CREDIT"
)

// BillItemPayload is one line of a submitted bill. All monetary fields
// are rounded to two decimals before submission.
type BillItemPayload struct {
	ItemID          string          `json:"itemId,omitempty"`
	ItemName        string          `json:"itemName"`
	MRP             decimal.Decimal `json:"mrp"`
	SellPrice       decimal.Decimal `json:"sellPrice"`
	Quantity        decimal.Decimal `json:"quantity"`
	DiscountPercent decimal.Decimal `json:"discountPercent"`
	TaxPercent      decimal.Decimal `json:"taxPercent"`
	Amount          decimal.Decimal `json:"amount"`
	Total           decimal.Decimal `json:"total"`
	Unit            string          `json:"unit"`
}

// BillPayload is the flat structure handed to the backend when a bill
// is submitted.
type BillPayload struct {
	BillNumber      string            `json:"billNumber"`
	CustomerName    string            `json:"customerName"`
	PhoneNumber     string            `json:"phoneNumber"`
	Address         string            `json:"address"`
	Type            string            `json:"type"` // CASH or CREDIT
	Date            time.Time         `json:"date"`
	Items           []BillItemPayload `json:"items"`
	SubTotal        decimal.Decimal   `json:"subtotal"`
	TotalTax        decimal.Decimal   `json:"totalTax"`
	InvoiceDiscount decimal.Decimal   `json:"invoiceDiscount"`
	GrandTotal      decimal.Decimal   `json:"grandTotal"`
	ReceivedAmount  decimal.Decimal   `json:"receivedAmount"`
	Balance         decimal.Decimal   `json:"balance"`
}

// Bill is a persisted bill as returned by the backend. Outstanding
// tracks what the customer still owes on a credit bill.
type Bill struct {
	ID          string          `json:"id"`
	BillPayload                 // embedded submitted fields
	Paid        decimal.Decimal `json:"paid"`
	Outstanding decimal.Decimal `json:"outstanding"`
	Settled     bool            `json:"settled"`
	CreatedAt   time.Time       `json:"created_at"`
}
