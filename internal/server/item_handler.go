package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/shopbill/pos/pkg/apperror"
)

// ItemHandler handles catalog item HTTP requests.
type ItemHandler struct {
	db *gorm.DB
}

func NewItemHandler(db *gorm.DB) *ItemHandler {
	return &ItemHandler{db: db}
}

// CreateItemRequest is the payload for adding a catalog item.
type CreateItemRequest struct {
	ItemName      string          `json:"itemName"`
	Category      string          `json:"category"`
	Barcode       string          `json:"barcode"`
	PurchasePrice decimal.Decimal `json:"purchasePrice"`
	MRP           decimal.Decimal `json:"mrp"`
	SellPrice     decimal.Decimal `json:"sellPrice"`
	MinSellPrice  decimal.Decimal `json:"minSellPrice"`
	GST           decimal.Decimal `json:"gst"`
	CurrentStock  decimal.Decimal `json:"currentStock"`
	MinStockLevel decimal.Decimal `json:"minStockLevel"`
	Unit          string          `json:"unit"`
}

func (r *CreateItemRequest) validate() []apperror.FieldError {
	var fieldErrors []apperror.FieldError
	add := func(field, message string) {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: field, Message: message})
	}

	if r.ItemName == "" {
		add("itemName", "Item name is required")
	}
	if !r.SellPrice.IsPositive() {
		add("sellPrice", "Sell price must be greater than zero")
	}
	if r.PurchasePrice.IsNegative() {
		add("purchasePrice", "Purchase price cannot be negative")
	}
	if r.SellPrice.LessThan(r.PurchasePrice) {
		add("sellPrice", "Sell price cannot be below purchase price")
	}
	if r.MRP.IsPositive() && r.SellPrice.GreaterThan(r.MRP) {
		add("sellPrice", "Sell price cannot exceed MRP")
	}
	if r.MinSellPrice.GreaterThan(r.SellPrice) {
		add("minSellPrice", "Minimum sell price cannot exceed sell price")
	}
	if r.GST.IsNegative() || r.GST.GreaterThan(decimal.NewFromInt(100)) {
		add("gst", "GST must be between 0 and 100")
	}
	if r.CurrentStock.IsNegative() {
		add("currentStock", "Stock cannot be negative")
	}
	return fieldErrors
}

// List returns the whole catalog, newest first.
func (h *ItemHandler) List(c *gin.Context) {
	var items []Item
	if err := h.db.Order("created_at DESC").Find(&items).Error; err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "Items retrieved successfully", items)
}

// Create adds a catalog item after price sanity checks.
func (h *ItemHandler) Create(c *gin.Context) {
	var req CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body")
		return
	}

	if fieldErrors := req.validate(); len(fieldErrors) > 0 {
		respondValidationError(c, fieldErrors)
		return
	}

	item := Item{
		ItemName:      req.ItemName,
		Category:      req.Category,
		Barcode:       req.Barcode,
		PurchasePrice: req.PurchasePrice,
		MRP:           req.MRP,
		SellPrice:     req.SellPrice,
		MinSellPrice:  req.MinSellPrice,
		GST:           req.GST,
		CurrentStock:  req.CurrentStock,
		MinStockLevel: req.MinStockLevel,
		Unit:          req.Unit,
	}

	if err := h.db.Create(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			respondError(c, apperror.NewAppError(http.StatusConflict, "An item with this barcode already exists"))
			return
		}
		respondError(c, err)
		return
	}
	respondCreated(c, "Item created successfully", item)
}

// Search matches items by name or category, case-insensitive prefix
// anywhere in the string. An empty query returns an empty list rather
// than the whole catalog.
func (h *ItemHandler) Search(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		respondOK(c, "Items retrieved successfully", []Item{})
		return
	}

	var items []Item
	pattern := "%" + q + "%"
	err := h.db.
		Where("item_name LIKE ? OR category LIKE ?", pattern, pattern).
		Order("item_name ASC").
		Limit(50).
		Find(&items).Error
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "Items retrieved successfully", items)
}

// GetByBarcode returns the single item with the scanned barcode.
func (h *ItemHandler) GetByBarcode(c *gin.Context) {
	code := c.Param("code")

	var item Item
	err := h.db.Where("barcode = ?", code).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		respondNotFound(c, "Item not found")
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "Item retrieved successfully", item)
}
