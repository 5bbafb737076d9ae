// Package payments orchestrates checkout against the eSewa gateway: admission
// checks and pending-payment creation at initiation, then the one-way
// pending→completed/failed transition and inventory accounting when the
// gateway calls back.
package payments

import (
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	"accesscrate/src/lib"
	"accesscrate/src/models"
	"accesscrate/src/types"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Callback amounts are decimal strings; allow a float rounding hair.
const amountTolerance = 0.01

type Reconciler struct {
	db      *gorm.DB
	gateway *lib.EsewaClient
	now     func() time.Time
}

func NewReconciler(db *gorm.DB, gateway *lib.EsewaClient, now func() time.Time) *Reconciler {
	if now == nil {
		now = time.Now
	}
	return &Reconciler{db: db, gateway: gateway, now: now}
}

type InitiateResult struct {
	PaymentID uuid.UUID              `json:"paymentId"`
	Redirect  *lib.RedirectDescriptor `json:"redirect"`
}

// Initiate validates the event and every requested line, derives unit prices
// from the stored tickets, creates a pending Payment and returns the signed
// redirect descriptor. Inventory is not reserved here; the authoritative
// check happens at Verify.
func (r *Reconciler) Initiate(userID uint, params *types.InitiatePaymentRequestBody) (*InitiateResult, error) {
	if r.gateway.Secret == "" {
		return nil, &types.GatewayError{Msg: "payment gateway is not configured"}
	}

	payment := models.Payment{
		UserID:  userID,
		EventID: params.EventID,
		Status:  types.PAYMENT_PENDING,
	}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var event models.Event
		if err := tx.
			Where(&models.Event{ID: params.EventID}).
			First(&event).
			Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &types.NotFoundError{Msg: "Event not found"}
			}
			return err
		}

		var total float64
		items := make([]models.PaymentItem, 0, len(params.Tickets))
		for _, line := range params.Tickets {
			var ticket models.Ticket
			if err := tx.
				Where(&models.Ticket{ID: line.TicketID}).
				First(&ticket).
				Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return &types.NotFoundError{Msg: fmt.Sprintf("Ticket %d not found", line.TicketID)}
				}
				return err
			}
			if ticket.EventID != params.EventID {
				return &types.ValidationError{Msg: fmt.Sprintf("Ticket %d does not belong to this event", line.TicketID)}
			}
			if ticket.SoldCount+line.Quantity > ticket.Quantity {
				return &types.InventoryError{Msg: fmt.Sprintf("Only %d %s tickets left", ticket.Remaining(), ticket.TicketType)}
			}
			items = append(items, models.PaymentItem{
				TicketID:  ticket.ID,
				Quantity:  line.Quantity,
				UnitPrice: ticket.Price,
			})
			total += ticket.Price * float64(line.Quantity)
		}

		payment.TotalAmount = total
		payment.Items = items
		if err := tx.Create(&payment).Error; err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &InitiateResult{
		PaymentID: payment.ID,
		Redirect:  r.gateway.BuildRedirect(payment.TotalAmount, payment.ID.String()),
	}, nil
}

// Verify applies a gateway callback to its Payment. Safe under duplicate
// delivery: an already-terminal payment is returned as-is, and the
// pending→completed flip is a conditional update so only one concurrent
// caller performs the inventory accounting.
func (r *Reconciler) Verify(payload *types.EsewaCallbackPayload) (*models.Payment, error) {
	paymentID, err := uuid.Parse(payload.TransactionUUID)
	if err != nil {
		return nil, &types.ValidationError{Msg: "invalid transaction_uuid"}
	}

	var payment models.Payment
	if err := r.db.
		Model(&models.Payment{}).
		Where("id = ?", paymentID).
		Preload("Items").
		First(&payment).
		Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &types.NotFoundError{Msg: "Payment not found"}
		}
		return nil, err
	}

	// Terminal payments are settled; duplicate deliveries get the stored
	// outcome and no further mutation.
	if payment.Status != types.PAYMENT_PENDING {
		return &payment, nil
	}

	amount, err := lib.ParseAmount(payload.TotalAmount)
	if err != nil {
		return &payment, &types.ValidationError{Msg: "invalid total_amount"}
	}
	if math.Abs(amount-payment.TotalAmount) > amountTolerance {
		r.markFailed(&payment)
		return &payment, &types.AmountMismatchError{Msg: "Amount mismatch"}
	}

	if !lib.CallbackComplete(payload.Status) {
		r.markFailed(&payment)
		return &payment, nil
	}

	err = r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.
			Model(&models.Payment{}).
			Where("id = ? AND status = ?", payment.ID, types.PAYMENT_PENDING).
			Updates(map[string]any{
				"status":               types.PAYMENT_COMPLETED,
				"esewa_transaction_id": payload.TransactionCode,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// A concurrent delivery won the transition.
			return nil
		}

		for _, item := range payment.Items {
			res := tx.
				Model(&models.Ticket{}).
				Where("id = ? AND sold_count + ? <= quantity", item.TicketID, item.Quantity).
				UpdateColumn("sold_count", gorm.Expr("sold_count + ?", item.Quantity))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return &types.InventoryError{Msg: "Tickets sold out before payment confirmation"}
			}
		}

		return r.settleEventAvailability(tx, payment.EventID)
	})
	if err != nil {
		var inventory *types.InventoryError
		if errors.As(err, &inventory) {
			// Tier exhausted between admission and confirmation; the whole
			// increment rolled back, so record the terminal failure.
			r.markFailed(&payment)
			return &payment, err
		}
		return &payment, err
	}

	// Reload the settled record so callers see the terminal state, whichever
	// delivery performed it.
	if err := r.db.
		Model(&models.Payment{}).
		Where("id = ?", payment.ID).
		Preload("Items").
		First(&payment).
		Error; err != nil {
		return &payment, err
	}
	return &payment, nil
}

// markFailed is a check-and-set so a late failure can never clobber a
// completed payment.
func (r *Reconciler) markFailed(payment *models.Payment) {
	res := r.db.
		Model(&models.Payment{}).
		Where("id = ? AND status = ?", payment.ID, types.PAYMENT_PENDING).
		Update("status", types.PAYMENT_FAILED)
	if res.Error != nil {
		log.Printf("[esewa] Error marking payment %s failed: %s\n", payment.ID, res.Error.Error())
		return
	}
	if res.RowsAffected > 0 {
		payment.Status = types.PAYMENT_FAILED
	}
}

// settleEventAvailability clears the event's availability once every tier is
// exhausted.
func (r *Reconciler) settleEventAvailability(tx *gorm.DB, eventID uint) error {
	var remaining int64
	if err := tx.
		Model(&models.Ticket{}).
		Where("event_id = ? AND sold_count < quantity", eventID).
		Count(&remaining).
		Error; err != nil {
		return err
	}
	if remaining > 0 {
		return nil
	}
	return tx.
		Model(&models.Event{}).
		Where("id = ?", eventID).
		Updates(map[string]any{
			"is_tickets_available": false,
			"is_active":            false,
		}).
		Error
}
