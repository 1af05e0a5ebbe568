package entity

import (
	"github.com/shopspring/decimal"
)

// CatalogItem is the item shape exchanged with the backend catalog API.
// Prices are decimals; MRP is the printed ceiling price and is
// informational only.
type CatalogItem struct {
	ID            string          `json:"id"`
	ItemName      string          `json:"itemName"`
	Category      string          `json:"category,omitempty"`
	Barcode       string          `json:"barcode,omitempty"`
	PurchasePrice decimal.Decimal `json:"purchasePrice"`
	MRP           decimal.Decimal `json:"mrp"`
	SellPrice     decimal.Decimal `json:"sellPrice"`
	MinSellPrice  decimal.Decimal `json:"minSellPrice"`
	GST           decimal.Decimal `json:"gst"`
	CurrentStock  decimal.Decimal `json:"currentStock"`
	MinStockLevel decimal.Decimal `json:"minStockLevel"`
	Unit          string          `json:"unit"`
}

// InStock reports whether the item has any sellable stock.
func (i *CatalogItem) InStock() bool {
	return i.CurrentStock.IsPositive()
}

// LowStock reports whether the stock has fallen to the alert level.
func (i *CatalogItem) LowStock() bool {
	return i.CurrentStock.IsPositive() &&
		i.MinStockLevel.IsPositive() &&
		i.CurrentStock.LessThanOrEqual(i.MinStockLevel)
}
