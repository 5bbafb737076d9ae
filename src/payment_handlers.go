package main

import (
	"net/http"

	"accesscrate/src/db"
	"accesscrate/src/lib"
	"accesscrate/src/models"
	"accesscrate/src/payments"
	"accesscrate/src/types"

	"github.com/gin-gonic/gin"
)

func paymentHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/payments/esewa/initiate", func(ctx *gin.Context) {
			var body types.InitiatePaymentRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, types.NewAPIError(err.Error(), http.StatusBadRequest))
				return
			}
			userId := ctx.GetUint("id")
			r := payments.NewReconciler(db.GetDb(), lib.GetEsewaClient(), nil)
			result, err := r.Initiate(userId, &body)
			if err != nil {
				status := types.ErrorStatus(err)
				ctx.JSON(status, types.NewAPIError(err.Error(), status))
				return
			}
			ctx.JSON(http.StatusCreated, types.NewAPIResponse("Payment initiated successfully", result, http.StatusCreated))
		}).
		GET("/payments/history", func(ctx *gin.Context) {
			userId := ctx.GetUint("id")
			d := db.GetDb()
			var history []models.Payment
			if err := d.
				Model(&models.Payment{}).
				Preload("Event").
				Preload("Items").
				Preload("Items.Ticket").
				Where("user_id = ?", userId).
				Order("created_at desc").
				Find(&history).
				Error; err != nil {
				ctx.JSON(http.StatusInternalServerError, types.NewAPIError(err.Error(), http.StatusInternalServerError))
				return
			}
			ctx.JSON(http.StatusOK, types.NewAPIResponse("Payment history fetched successfully", history, http.StatusOK))
		})
	return g
}

// esewaCallbackHandlers are unauthenticated: the gateway redirects the payer's
// browser to the GET variant with a base64 data parameter and may also POST
// the payload directly.
func esewaCallbackHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/payments/esewa/verify", func(ctx *gin.Context) {
			data := ctx.Query("data")
			if data == "" {
				ctx.JSON(http.StatusBadRequest, types.NewAPIError("Missing data parameter", http.StatusBadRequest))
				return
			}
			payload, err := lib.DecodeCallbackData(data)
			if err != nil {
				ctx.JSON(http.StatusBadRequest, types.NewAPIError("Malformed callback data", http.StatusBadRequest))
				return
			}
			verifyCallback(ctx, payload)
		}).
		POST("/payments/esewa/verify", func(ctx *gin.Context) {
			var payload types.EsewaCallbackPayload
			if err := ctx.ShouldBind(&payload); err != nil {
				ctx.JSON(http.StatusBadRequest, types.NewAPIError(err.Error(), http.StatusBadRequest))
				return
			}
			verifyCallback(ctx, &payload)
		})
	return g
}

func verifyCallback(ctx *gin.Context, payload *types.EsewaCallbackPayload) {
	r := payments.NewReconciler(db.GetDb(), lib.GetEsewaClient(), nil)
	payment, err := r.Verify(payload)
	if err != nil {
		status := types.ErrorStatus(err)
		ctx.JSON(status, types.NewAPIError(err.Error(), status))
		return
	}
	if payment.Status == types.PAYMENT_COMPLETED {
		ctx.JSON(http.StatusOK, types.NewAPIResponse("Payment verified successfully", payment, http.StatusOK))
		return
	}
	ctx.JSON(http.StatusOK, types.NewAPIResponse("Payment was not completed", payment, http.StatusOK))
}
