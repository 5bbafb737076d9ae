package main

import (
	"net/http"
	"time"

	"accesscrate/src/db"
	"accesscrate/src/lifecycle"
	"accesscrate/src/models"
	"accesscrate/src/models/scopes"
	"accesscrate/src/types"
	"accesscrate/src/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func eventHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/events", func(ctx *gin.Context) {
			d := db.GetDb()
			now := time.Now()
			var events []models.Event
			query := d.
				Model(&models.Event{}).
				Preload("Tickets").
				Preload("Category").
				Preload("Organizer")
			if category := ctx.Query("category"); category != "" {
				query = query.
					Joins("JOIN categories ON categories.id = events.category_id").
					Where("categories.slug = ?", category)
			}
			if search := ctx.Query("search"); search != "" {
				query = query.Where("events.name ILIKE ?", "%"+search+"%")
			}
			if err := query.
				Order("date asc").
				Find(&events).
				Error; err != nil {
				ctx.JSON(http.StatusInternalServerError, types.NewAPIError(err.Error(), http.StatusInternalServerError))
				return
			}
			visible := make([]models.Event, 0, len(events))
			for i := range events {
				event := &events[i]
				if err := utils.RefreshEventLifecycle(d, event, now); err != nil {
					ctx.JSON(http.StatusInternalServerError, types.NewAPIError(err.Error(), http.StatusInternalServerError))
					return
				}
				if event.EventType == types.EVENT_PAST {
					continue
				}
				event.TicketRange = utils.TicketRangeFor(event)
				visible = append(visible, *event)
			}
			ctx.JSON(http.StatusOK, types.NewAPIResponse("Events fetched successfully", visible, http.StatusOK))
		}).
		GET("/events/featured", func(ctx *gin.Context) {
			d := db.GetDb()
			now := time.Now()
			var events []models.Event
			if err := d.
				Model(&models.Event{}).
				Preload("Tickets").
				Preload("Category").
				Where("date >= ?", lifecycle.Midnight(now)).
				Order("date asc").
				Limit(4).
				Find(&events).
				Error; err != nil {
				ctx.JSON(http.StatusInternalServerError, types.NewAPIError(err.Error(), http.StatusInternalServerError))
				return
			}
			for i := range events {
				event := &events[i]
				if err := utils.RefreshEventLifecycle(d, event, now); err != nil {
					ctx.JSON(http.StatusInternalServerError, types.NewAPIError(err.Error(), http.StatusInternalServerError))
					return
				}
				event.TicketRange = utils.TicketRangeFor(event)
			}
			ctx.JSON(http.StatusOK, types.NewAPIResponse("Featured events fetched successfully", events, http.StatusOK))
		}).
		GET("/events/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, types.NewAPIError(err.Error(), http.StatusBadRequest))
				return
			}
			d := db.GetDb()
			var event models.Event
			if err := d.
				Model(&models.Event{}).
				Preload("Tickets").
				Preload("Category").
				Preload("Organizer").
				Where("id = ?", params.ID).
				First(&event).
				Error; err != nil {
				ctx.JSON(http.StatusNotFound, types.NewAPIError("Event not found", http.StatusNotFound))
				return
			}
			if err := utils.RefreshEventLifecycle(d, &event, time.Now()); err != nil {
				ctx.JSON(http.StatusInternalServerError, types.NewAPIError(err.Error(), http.StatusInternalServerError))
				return
			}
			event.TicketRange = utils.TicketRangeFor(&event)
			ctx.JSON(http.StatusOK, types.NewAPIResponse("Event fetched successfully", event, http.StatusOK))
		}).
		POST("/events/:id/interested", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, types.NewAPIError(err.Error(), http.StatusBadRequest))
				return
			}
			d := db.GetDb()
			res := d.
				Model(&models.Event{}).
				Where("id = ?", params.ID).
				UpdateColumn("interested", gorm.Expr("interested + ?", 1))
			if res.Error != nil {
				ctx.JSON(http.StatusInternalServerError, types.NewAPIError(res.Error.Error(), http.StatusInternalServerError))
				return
			}
			if res.RowsAffected == 0 {
				ctx.JSON(http.StatusNotFound, types.NewAPIError("Event not found", http.StatusNotFound))
				return
			}
			ctx.JSON(http.StatusOK, types.NewAPIResponse("Marked as interested", nil, http.StatusOK))
		})
	return g
}

func adminEventHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/event", func(ctx *gin.Context) {
			var body types.CreateEventRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, types.NewAPIError(err.Error(), http.StatusBadRequest))
				return
			}
			organizerId := ctx.GetUint("id")
			eventId, err := utils.CreateNewEvent(&body, organizerId)
			if err != nil {
				status := types.ErrorStatus(err)
				ctx.JSON(status, types.NewAPIError(err.Error(), status))
				return
			}
			ctx.JSON(http.StatusCreated, types.NewAPIResponse("Event created successfully", gin.H{"id": eventId}, http.StatusCreated))
		}).
		GET("/events", func(ctx *gin.Context) {
			var query types.EventQueryParams
			if err := ctx.ShouldBindQuery(&query); err != nil {
				ctx.JSON(http.StatusBadRequest, types.NewAPIError(err.Error(), http.StatusBadRequest))
				return
			}
			organizerId := ctx.GetUint("id")
			d := db.GetDb()
			now := time.Now()
			var events []models.Event
			if err := d.
				Model(&models.Event{}).
				Preload("Tickets").
				Preload("Category").
				Scopes(scopes.ForOrganizer(organizerId)).
				Order("date asc").
				Find(&events).
				Error; err != nil {
				ctx.JSON(http.StatusInternalServerError, types.NewAPIError(err.Error(), http.StatusInternalServerError))
				return
			}
			matched := make([]models.Event, 0, len(events))
			for i := range events {
				event := &events[i]
				if err := utils.RefreshEventLifecycle(d, event, now); err != nil {
					ctx.JSON(http.StatusInternalServerError, types.NewAPIError(err.Error(), http.StatusInternalServerError))
					return
				}
				if string(event.EventType) != query.EventType {
					continue
				}
				event.TicketRange = utils.TicketRangeFor(event)
				matched = append(matched, *event)
			}
			ctx.JSON(http.StatusOK, types.NewAPIResponse("Events fetched successfully", matched, http.StatusOK))
		}).
		GET("/event/:eventId", func(ctx *gin.Context) {
			var params struct {
				EventID uint `uri:"eventId" binding:"required"`
			}
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, types.NewAPIError(err.Error(), http.StatusBadRequest))
				return
			}
			organizerId := ctx.GetUint("id")
			d := db.GetDb()
			var event models.Event
			if err := d.
				Model(&models.Event{}).
				Preload("Tickets").
				Preload("Category").
				Where("id = ? AND organizer_id = ?", params.EventID, organizerId).
				First(&event).
				Error; err != nil {
				ctx.JSON(http.StatusNotFound, types.NewAPIError("Event not found", http.StatusNotFound))
				return
			}
			if err := utils.RefreshEventLifecycle(d, &event, time.Now()); err != nil {
				ctx.JSON(http.StatusInternalServerError, types.NewAPIError(err.Error(), http.StatusInternalServerError))
				return
			}
			event.TicketRange = utils.TicketRangeFor(&event)
			ctx.JSON(http.StatusOK, types.NewAPIResponse("Event fetched successfully", event, http.StatusOK))
		})
	return g
}
