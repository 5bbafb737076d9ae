package main

import (
	"net/http"

	"accesscrate/src/db"
	"accesscrate/src/models"
	"accesscrate/src/models/scopes"
	"accesscrate/src/types"

	"github.com/gin-gonic/gin"
)

func organizerHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/organizers", func(ctx *gin.Context) {
			d := db.GetDb()
			var organizers []models.User
			if err := d.
				Model(&models.User{}).
				Scopes(scopes.WithRole(types.ROLE_ORGANIZER)).
				Order("name asc").
				Find(&organizers).
				Error; err != nil {
				ctx.JSON(http.StatusInternalServerError, types.NewAPIError(err.Error(), http.StatusInternalServerError))
				return
			}
			ctx.JSON(http.StatusOK, types.NewAPIResponse("Organizers fetched successfully", organizers, http.StatusOK))
		}).
		GET("/organizers/top", func(ctx *gin.Context) {
			d := db.GetDb()
			var organizers []models.User
			if err := d.
				Model(&models.User{}).
				Joins("LEFT JOIN events ON events.organizer_id = users.id").
				Where("users.role = ?", types.ROLE_ORGANIZER).
				Group("users.id").
				Order("COUNT(events.id) DESC").
				Limit(5).
				Find(&organizers).
				Error; err != nil {
				ctx.JSON(http.StatusInternalServerError, types.NewAPIError(err.Error(), http.StatusInternalServerError))
				return
			}
			ctx.JSON(http.StatusOK, types.NewAPIResponse("Top organizers fetched successfully", organizers, http.StatusOK))
		}).
		GET("/organizers/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, types.NewAPIError(err.Error(), http.StatusBadRequest))
				return
			}
			d := db.GetDb()
			var organizer models.User
			if err := d.
				Model(&models.User{}).
				Preload("Events").
				Preload("Events.Tickets").
				Scopes(scopes.WithID(params.ID), scopes.WithRole(types.ROLE_ORGANIZER)).
				First(&organizer).
				Error; err != nil {
				ctx.JSON(http.StatusNotFound, types.NewAPIError("Organizer not found", http.StatusNotFound))
				return
			}
			ctx.JSON(http.StatusOK, types.NewAPIResponse("Organizer fetched successfully", organizer, http.StatusOK))
		}).
		GET("/categories", func(ctx *gin.Context) {
			d := db.GetDb()
			var categories []models.Category
			if err := d.
				Model(&models.Category{}).
				Order("name asc").
				Find(&categories).
				Error; err != nil {
				ctx.JSON(http.StatusInternalServerError, types.NewAPIError(err.Error(), http.StatusInternalServerError))
				return
			}
			ctx.JSON(http.StatusOK, types.NewAPIResponse("Categories fetched successfully", categories, http.StatusOK))
		})
	return g
}
