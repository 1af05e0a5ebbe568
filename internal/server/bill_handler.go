package server

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/shopbill/pos/internal/domain/entity"
	"github.com/shopbill/pos/pkg/apperror"
)

// BillHandler handles bill submission, lookup and credit payments.
type BillHandler struct {
	db *gorm.DB
}

func NewBillHandler(db *gorm.DB) *BillHandler {
	return &BillHandler{db: db}
}

// Create stores a submitted bill and decrements stock for every line
// tied to a catalog item. The whole submission is transactional: if any
// line asks for more than the available stock, nothing is written.
func (h *BillHandler) Create(c *gin.Context) {
	var payload entity.BillPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, "Invalid request body")
		return
	}

	if payload.BillNumber == "" {
		respondBadRequest(c, "Bill number is required")
		return
	}
	if payload.Type != entity.BillTypeCash && payload.Type != entity.BillTypeCredit {
		respondBadRequest(c, "Bill type must be CASH or CREDIT")
		return
	}

	bill := billFromPayload(&payload)

	err := h.db.Transaction(func(tx *gorm.DB) error {
		for i := range bill.Items {
			line := &bill.Items[i]
			if line.ItemID == nil {
				continue // free-form line, no stock to track
			}

			var item Item
			if err := tx.First(&item, "id = ?", *line.ItemID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return apperror.NewNotFoundError("Item " + line.ItemName)
				}
				return err
			}

			if line.Quantity.GreaterThan(item.CurrentStock) {
				stockErr := &apperror.StockExceededError{
					Item:      item.ItemName,
					Requested: line.Quantity.String(),
					Available: item.CurrentStock.String(),
				}
				return apperror.NewAppError(422, stockErr.Error())
			}

			newStock := item.CurrentStock.Sub(line.Quantity)
			if err := tx.Model(&item).Update("current_stock", newStock).Error; err != nil {
				return err
			}
		}
		return tx.Create(bill).Error
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondCreated(c, "Bill created successfully", bill)
}

// billFromPayload maps the submitted payload onto storage models and
// derives the initial settlement state.
func billFromPayload(p *entity.BillPayload) *Bill {
	bill := &Bill{
		BillNumber:      p.BillNumber,
		CustomerName:    p.CustomerName,
		PhoneNumber:     p.PhoneNumber,
		Address:         p.Address,
		Type:            p.Type,
		Date:            p.Date,
		SubTotal:        p.SubTotal,
		TotalTax:        p.TotalTax,
		InvoiceDiscount: p.InvoiceDiscount,
		GrandTotal:      p.GrandTotal,
		ReceivedAmount:  p.ReceivedAmount,
		Balance:         p.Balance,
		Paid:            p.ReceivedAmount,
	}
	if bill.Date.IsZero() {
		bill.Date = time.Now()
	}

	bill.Outstanding = p.GrandTotal.Sub(p.ReceivedAmount)
	if bill.Outstanding.IsNegative() {
		bill.Outstanding = decimal.Zero
	}
	bill.Settled = bill.Outstanding.IsZero()

	for _, item := range p.Items {
		if item.ItemName == "" && item.Amount.IsZero() {
			continue // blank engine row
		}
		line := BillItem{
			ItemName:        item.ItemName,
			MRP:             item.MRP,
			SellPrice:       item.SellPrice,
			Quantity:        item.Quantity,
			DiscountPercent: item.DiscountPercent,
			TaxPercent:      item.TaxPercent,
			Amount:          item.Amount,
			Total:           item.Total,
			Unit:            item.Unit,
		}
		if item.ItemID != "" {
			if id, err := uuid.Parse(item.ItemID); err == nil {
				line.ItemID = &id
			}
		}
		bill.Items = append(bill.Items, line)
	}
	return bill
}

// List returns stored bills, newest first.
func (h *BillHandler) List(c *gin.Context) {
	var bills []Bill
	err := h.db.Preload("Items").Order("created_at DESC").Limit(100).Find(&bills).Error
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "Bills retrieved successfully", bills)
}

// Search matches bills by bill number or customer name.
func (h *BillHandler) Search(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		respondOK(c, "Bills retrieved successfully", []Bill{})
		return
	}

	var bills []Bill
	pattern := "%" + q + "%"
	err := h.db.Preload("Items").
		Where("bill_number LIKE ? OR customer_name LIKE ?", pattern, pattern).
		Order("created_at DESC").
		Limit(50).
		Find(&bills).Error
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "Bills retrieved successfully", bills)
}

// PaymentRequest is the payload for recording a credit payment.
type PaymentRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// PayCredit records a payment against a credit bill. Paid accumulates,
// Outstanding shrinks, and the bill settles once Outstanding hits zero.
// Overpayment is rejected rather than carried as store credit.
func (h *BillHandler) PayCredit(c *gin.Context) {
	billID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondBadRequest(c, "Invalid bill ID")
		return
	}

	var req PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body")
		return
	}
	if !req.Amount.IsPositive() {
		respondBadRequest(c, "Payment amount must be greater than zero")
		return
	}

	var bill Bill
	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Items").First(&bill, "id = ?", billID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperror.NewNotFoundError("Bill")
			}
			return err
		}

		if bill.Type != entity.BillTypeCredit {
			return apperror.NewBadRequestError("Payments can only be recorded against credit bills")
		}
		if bill.Settled {
			return apperror.NewBadRequestError("Bill is already settled")
		}
		if req.Amount.GreaterThan(bill.Outstanding) {
			return apperror.NewBadRequestError("Payment exceeds outstanding balance")
		}

		bill.Paid = bill.Paid.Add(req.Amount)
		bill.Outstanding = bill.Outstanding.Sub(req.Amount)
		bill.Settled = !bill.Outstanding.IsPositive()

		if err := tx.Model(&bill).Updates(map[string]interface{}{
			"paid":        bill.Paid,
			"outstanding": bill.Outstanding,
			"settled":     bill.Settled,
		}).Error; err != nil {
			return err
		}

		payment := Payment{BillID: bill.ID, Amount: req.Amount}
		return tx.Create(&payment).Error
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, "Payment recorded successfully", bill)
}
