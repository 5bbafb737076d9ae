package main

import (
	"errors"
	"net/http"
	"time"

	"accesscrate/src/db"
	"accesscrate/src/lifecycle"
	"accesscrate/src/models"
	"accesscrate/src/types"
	"accesscrate/src/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ticketRouteParams struct {
	EventID  uint `uri:"eventId" binding:"required"`
	TicketID uint `uri:"ticketId"`
}

func adminTicketHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/event/:eventId/ticket", func(ctx *gin.Context) {
			var params ticketRouteParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, types.NewAPIError(err.Error(), http.StatusBadRequest))
				return
			}
			var body types.CreateTicketRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, types.NewAPIError(err.Error(), http.StatusBadRequest))
				return
			}
			if !organizerOwnsEvent(ctx, params.EventID) {
				return
			}
			ticketId, err := utils.CreateNewTicket(params.EventID, &body)
			if err != nil {
				status := types.ErrorStatus(err)
				ctx.JSON(status, types.NewAPIError(err.Error(), status))
				return
			}
			ctx.JSON(http.StatusCreated, types.NewAPIResponse("Ticket created successfully", gin.H{"id": ticketId}, http.StatusCreated))
		}).
		GET("/event/:eventId/tickets", func(ctx *gin.Context) {
			var params ticketRouteParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, types.NewAPIError(err.Error(), http.StatusBadRequest))
				return
			}
			if !organizerOwnsEvent(ctx, params.EventID) {
				return
			}
			d := db.GetDb()
			var tickets []models.Ticket
			if err := d.
				Model(&models.Ticket{}).
				Where("event_id = ?", params.EventID).
				Order("price asc").
				Find(&tickets).
				Error; err != nil {
				ctx.JSON(http.StatusInternalServerError, types.NewAPIError(err.Error(), http.StatusInternalServerError))
				return
			}
			ctx.JSON(http.StatusOK, types.NewAPIResponse("Tickets fetched successfully", tickets, http.StatusOK))
		}).
		GET("/event/:eventId/ticket/:ticketId", func(ctx *gin.Context) {
			var params ticketRouteParams
			if err := ctx.ShouldBindUri(&params); err != nil || params.TicketID == 0 {
				ctx.JSON(http.StatusBadRequest, types.NewAPIError("Invalid ticket ID", http.StatusBadRequest))
				return
			}
			if !organizerOwnsEvent(ctx, params.EventID) {
				return
			}
			d := db.GetDb()
			var ticket models.Ticket
			if err := d.
				Where("id = ? AND event_id = ?", params.TicketID, params.EventID).
				First(&ticket).
				Error; err != nil {
				ctx.JSON(http.StatusNotFound, types.NewAPIError("Ticket not found", http.StatusNotFound))
				return
			}
			ctx.JSON(http.StatusOK, types.NewAPIResponse("Ticket fetched successfully", ticket, http.StatusOK))
		}).
		PATCH("/event/:eventId/ticket/:ticketId", func(ctx *gin.Context) {
			var params ticketRouteParams
			if err := ctx.ShouldBindUri(&params); err != nil || params.TicketID == 0 {
				ctx.JSON(http.StatusBadRequest, types.NewAPIError("Invalid ticket ID", http.StatusBadRequest))
				return
			}
			var body types.UpdateTicketRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, types.NewAPIError(err.Error(), http.StatusBadRequest))
				return
			}
			if !organizerOwnsEvent(ctx, params.EventID) {
				return
			}
			d := db.GetDb()
			var ticket models.Ticket
			err := d.Transaction(func(tx *gorm.DB) error {
				if err := tx.
					Where("id = ? AND event_id = ?", params.TicketID, params.EventID).
					First(&ticket).
					Error; err != nil {
					if errors.Is(err, gorm.ErrRecordNotFound) {
						return &types.NotFoundError{Msg: "Ticket not found"}
					}
					return err
				}
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

				start := ticket.SalesStartDate
				end := ticket.SalesEndDate
				if body.SalesStartDate != nil {
					parsed, err := utils.ParseDate(*body.SalesStartDate)
					if err != nil {
						return err
					}
					start = parsed
				}
				if body.SalesEndDate != nil {
					parsed, err := utils.ParseDate(*body.SalesEndDate)
					if err != nil {
						return err
					}
					end = parsed
				}
				if start.After(end) {
					return &types.ValidationError{Msg: "Sales start date cannot be greater than sales end date"}
				}
				if end.After(lifecycle.Midnight(event.Date)) {
					return &types.ValidationError{Msg: "Sales window cannot extend beyond the event date"}
				}

				updates := map[string]any{
					"sales_start_date": start,
					"sales_end_date":   end,
					"is_active":        lifecycle.TicketActive(start, end, time.Now()),
				}
				if body.Price != nil {
					updates["price"] = *body.Price
				}
				if body.Quantity != nil {
					if *body.Quantity < ticket.SoldCount {
						return &types.ValidationError{Msg: "Quantity cannot be lower than tickets already sold"}
					}
					updates["quantity"] = *body.Quantity
				}
				if body.TicketType != nil && *body.TicketType != ticket.TicketType {
					var count int64
					if err := tx.
						Model(&models.Ticket{}).
						Where("event_id = ? AND ticket_type = ?", params.EventID, *body.TicketType).
						Count(&count).
						Error; err != nil {
						return err
					}
					if count > 0 {
						return &types.ConflictError{Msg: "Ticket type already exists"}
					}
					updates["ticket_type"] = *body.TicketType
				}

				if err := tx.
					Model(&models.Ticket{}).
					Where("id = ?", ticket.ID).
					Updates(updates).
					Error; err != nil {
					return err
				}
				return tx.
					Where("id = ?", ticket.ID).
					First(&ticket).
					Error
			})
			if err != nil {
				status := types.ErrorStatus(err)
				ctx.JSON(status, types.NewAPIError(err.Error(), status))
				return
			}
			ctx.JSON(http.StatusOK, types.NewAPIResponse("Ticket updated successfully", ticket, http.StatusOK))
		}).
		DELETE("/event/:eventId/ticket/:ticketId", func(ctx *gin.Context) {
			var params ticketRouteParams
			if err := ctx.ShouldBindUri(&params); err != nil || params.TicketID == 0 {
				ctx.JSON(http.StatusBadRequest, types.NewAPIError("Invalid ticket ID", http.StatusBadRequest))
				return
			}
			if !organizerOwnsEvent(ctx, params.EventID) {
				return
			}
			d := db.GetDb()
			err := d.Transaction(func(tx *gorm.DB) error {
				var ticket models.Ticket
				if err := tx.
					Where("id = ? AND event_id = ?", params.TicketID, params.EventID).
					First(&ticket).
					Error; err != nil {
					if errors.Is(err, gorm.ErrRecordNotFound) {
						return &types.NotFoundError{Msg: "Ticket not found"}
					}
					return err
				}
				if ticket.SoldCount > 0 {
					return &types.ConflictError{Msg: "Cannot delete a ticket that has been sold"}
				}
				if err := tx.Delete(&models.Ticket{}, ticket.ID).Error; err != nil {
					return err
				}

				var count int64
				if err := tx.
					Model(&models.Ticket{}).
					Where("event_id = ?", params.EventID).
					Count(&count).
					Error; err != nil {
					return err
				}
				if count == 0 {
					return tx.
						Model(&models.Event{}).
						Where("id = ?", params.EventID).
						Update("is_tickets_available", false).
						Error
				}
				return nil
			})
			if err != nil {
				status := types.ErrorStatus(err)
				ctx.JSON(status, types.NewAPIError(err.Error(), status))
				return
			}
			ctx.JSON(http.StatusOK, types.NewAPIResponse("Ticket deleted successfully", nil, http.StatusOK))
		})
	return g
}

// organizerOwnsEvent aborts with 404 unless the authenticated organizer owns
// the event.
func organizerOwnsEvent(ctx *gin.Context, eventId uint) bool {
	organizerId := ctx.GetUint("id")
	d := db.GetDb()
	var count int64
	if err := d.
		Model(&models.Event{}).
		Where("id = ? AND organizer_id = ?", eventId, organizerId).
		Count(&count).
		Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, types.NewAPIError(err.Error(), http.StatusInternalServerError))
		return false
	}
	if count == 0 {
		ctx.JSON(http.StatusNotFound, types.NewAPIError("Event not found", http.StatusNotFound))
		return false
	}
	return true
}
