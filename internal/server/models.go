// Package server is the local backend for a single shop: a gin HTTP
// API over a sqlite database, covering the item catalog, bill storage
// and credit payments.
package server

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Item is a catalog item row. Money columns are stored as decimal
// strings so no precision is lost round-tripping through the engine.
type Item struct {
	ID            uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	ItemName      string          `gorm:"size:255;not null;index" json:"itemName"`
	Category      string          `gorm:"size:100;index" json:"category"`
	Barcode       string          `gorm:"size:64;uniqueIndex" json:"barcode"`
	PurchasePrice decimal.Decimal `gorm:"type:decimal(12,2)" json:"purchasePrice"`
	MRP           decimal.Decimal `gorm:"type:decimal(12,2)" json:"mrp"`
	SellPrice     decimal.Decimal `gorm:"type:decimal(12,2)" json:"sellPrice"`
	MinSellPrice  decimal.Decimal `gorm:"type:decimal(12,2)" json:"minSellPrice"`
	GST           decimal.Decimal `gorm:"type:decimal(5,2)" json:"gst"`
	CurrentStock  decimal.Decimal `gorm:"type:decimal(12,3)" json:"currentStock"`
	MinStockLevel decimal.Decimal `gorm:"type:decimal(12,3)" json:"minStockLevel"`
	Unit          string          `gorm:"size:20" json:"unit"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	DeletedAt     gorm.DeletedAt  `gorm:"index" json:"-"`
}

func (i *Item) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

func (Item) TableName() string {
	return "items"
}

// Bill is a stored bill with its settlement state. Paid starts at the
// received amount; Outstanding tracks what a credit customer still owes.
type Bill struct {
	ID              uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	BillNumber      string          `gorm:"size:64;uniqueIndex;not null" json:"billNumber"`
	CustomerName    string          `gorm:"size:255;index" json:"customerName"`
	PhoneNumber     string          `gorm:"size:20" json:"phoneNumber"`
	Address         string          `gorm:"size:255" json:"address"`
	Type            string          `gorm:"size:10;not null" json:"type"`
	Date            time.Time       `json:"date"`
	SubTotal        decimal.Decimal `gorm:"type:decimal(12,2)" json:"subtotal"`
	TotalTax        decimal.Decimal `gorm:"type:decimal(12,2)" json:"totalTax"`
	InvoiceDiscount decimal.Decimal `gorm:"type:decimal(12,2)" json:"invoiceDiscount"`
	GrandTotal      decimal.Decimal `gorm:"type:decimal(12,2)" json:"grandTotal"`
	ReceivedAmount  decimal.Decimal `gorm:"type:decimal(12,2)" json:"receivedAmount"`
	Balance         decimal.Decimal `gorm:"type:decimal(12,2)" json:"balance"`
	Paid            decimal.Decimal `gorm:"type:decimal(12,2)" json:"paid"`
	Outstanding     decimal.Decimal `gorm:"type:decimal(12,2)" json:"outstanding"`
	Settled         bool            `gorm:"default:false" json:"settled"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`

	Items    []BillItem `gorm:"foreignKey:BillID" json:"items"`
	Payments []Payment  `gorm:"foreignKey:BillID" json:"payments,omitempty"`
}

func (b *Bill) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

func (Bill) TableName() string {
	return "bills"
}

// BillItem is one line of a stored bill, frozen at submission time.
type BillItem struct {
	ID              uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	BillID          uuid.UUID       `gorm:"type:uuid;not null;index" json:"-"`
	ItemID          *uuid.UUID      `gorm:"type:uuid;index" json:"itemId,omitempty"`
	ItemName        string          `gorm:"size:255;not null" json:"itemName"`
	MRP             decimal.Decimal `gorm:"type:decimal(12,2)" json:"mrp"`
	SellPrice       decimal.Decimal `gorm:"type:decimal(12,2)" json:"sellPrice"`
	Quantity        decimal.Decimal `gorm:"type:decimal(12,3)" json:"quantity"`
	DiscountPercent decimal.Decimal `gorm:"type:decimal(5,2)" json:"discountPercent"`
	TaxPercent      decimal.Decimal `gorm:"type:decimal(5,2)" json:"taxPercent"`
	Amount          decimal.Decimal `gorm:"type:decimal(12,2)" json:"amount"`
	Total           decimal.Decimal `gorm:"type:decimal(12,2)" json:"total"`
	Unit            string          `gorm:"size:20" json:"unit"`
}

func (bi *BillItem) BeforeCreate(tx *gorm.DB) error {
	if bi.ID == uuid.Nil {
		bi.ID = uuid.New()
	}
	return nil
}

func (BillItem) TableName() string {
	return "bill_items"
}

// Payment records money received against a credit bill after the sale.
type Payment struct {
	ID        uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	BillID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"billId"`
	Amount    decimal.Decimal `gorm:"type:decimal(12,2)" json:"amount"`
	CreatedAt time.Time       `json:"created_at"`
}

func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

func (Payment) TableName() string {
	return "payments"
}
