package main

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"accesscrate/src/config"
	"accesscrate/src/db"
	"accesscrate/src/lib"
	"accesscrate/src/models"
	"accesscrate/src/types"
	"accesscrate/src/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const invitationTTL = 24 * time.Hour

func superAdminHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/invite", func(ctx *gin.Context) {
			var body types.InviteOrganizerRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, types.NewAPIError(err.Error(), http.StatusBadRequest))
				return
			}
			adminId := ctx.GetUint("id")
			d := db.GetDb()
			var invitation models.Invitation
			err := d.Transaction(func(tx *gorm.DB) error {
				var count int64
				if err := tx.
					Model(&models.User{}).
					Where("email = ?", body.OrganizerEmail).
					Count(&count).
					Error; err != nil {
					return err
				}
				if count > 0 {
					return &types.ConflictError{Msg: "A user with this email already exists"}
				}
				if err := tx.
					Model(&models.Invitation{}).
					Where("email = ?", body.OrganizerEmail).
					Count(&count).
					Error; err != nil {
					return err
				}
				if count > 0 {
					return &types.ConflictError{Msg: "This email has already been invited"}
				}
				token, err := utils.RandomHexToken(32)
				if err != nil {
					return err
				}
				invitation = models.Invitation{
					FullName:         body.OrganizerName,
					Email:            body.OrganizerEmail,
					OwnerName:        body.OwnerName,
					ContactInfo:      body.ContactInfo,
					Role:             types.ROLE_ORGANIZER,
					Status:           types.INVITATION_PENDING,
					InvitedBy:        adminId,
					InvitationToken:  token,
					InvitationExpiry: time.Now().Add(invitationTTL),
				}
				return tx.Create(&invitation).Error
			})
			if err != nil {
				status := types.ErrorStatus(err)
				ctx.JSON(status, types.NewAPIError(err.Error(), status))
				return
			}
			go sendInvitationMail(&invitation)
			ctx.JSON(http.StatusCreated, types.NewAPIResponse("Invitation sent successfully", invitation, http.StatusCreated))
		}).
		POST("/invite/:id/resend", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, types.NewAPIError(err.Error(), http.StatusBadRequest))
				return
			}
			d := db.GetDb()
			var invitation models.Invitation
			err := d.Transaction(func(tx *gorm.DB) error {
				if err := tx.
					Where("id = ?", params.ID).
					First(&invitation).
					Error; err != nil {
					if errors.Is(err, gorm.ErrRecordNotFound) {
						return &types.NotFoundError{Msg: "Invitation not found"}
					}
					return err
				}
				if invitation.Status == types.INVITATION_ACCEPTED {
					return &types.ConflictError{Msg: "Invitation has already been accepted"}
				}
				token, err := utils.RandomHexToken(32)
				if err != nil {
					return err
				}
				invitation.InvitationToken = token
				invitation.InvitationExpiry = time.Now().Add(invitationTTL)
				return tx.
					Model(&models.Invitation{}).
					Where("id = ?", invitation.ID).
					Updates(map[string]any{
						"invitation_token":  invitation.InvitationToken,
						"invitation_expiry": invitation.InvitationExpiry,
					}).
					Error
			})
			if err != nil {
				status := types.ErrorStatus(err)
				ctx.JSON(status, types.NewAPIError(err.Error(), status))
				return
			}
			go sendInvitationMail(&invitation)
			ctx.JSON(http.StatusOK, types.NewAPIResponse("Invitation re-sent successfully", invitation, http.StatusOK))
		}).
		GET("/invitations", func(ctx *gin.Context) {
			d := db.GetDb()
			var invitations []models.Invitation
			if err := d.
				Model(&models.Invitation{}).
				Order("created_at desc").
				Find(&invitations).
				Error; err != nil {
				ctx.JSON(http.StatusInternalServerError, types.NewAPIError(err.Error(), http.StatusInternalServerError))
				return
			}
			ctx.JSON(http.StatusOK, types.NewAPIResponse("Invitations fetched successfully", invitations, http.StatusOK))
		}).
		POST("/category", func(ctx *gin.Context) {
			var body types.CreateCategoryRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, types.NewAPIError(err.Error(), http.StatusBadRequest))
				return
			}
			d := db.GetDb()
			var count int64
			if err := d.
				Model(&models.Category{}).
				Where("name = ?", body.Name).
				Count(&count).
				Error; err != nil {
				ctx.JSON(http.StatusInternalServerError, types.NewAPIError(err.Error(), http.StatusInternalServerError))
				return
			}
			if count > 0 {
				ctx.JSON(http.StatusConflict, types.NewAPIError("Category already exists", http.StatusConflict))
				return
			}
			category := models.Category{
				Name: body.Name,
				Slug: utils.CategorySlug(body.Name),
			}
			if err := d.Create(&category).Error; err != nil {
				ctx.JSON(http.StatusInternalServerError, types.NewAPIError(err.Error(), http.StatusInternalServerError))
				return
			}
			ctx.JSON(http.StatusCreated, types.NewAPIResponse("Category created successfully", category, http.StatusCreated))
		})
	return g
}

func sendInvitationMail(invitation *models.Invitation) {
	link := fmt.Sprintf("%s/set-password?token=%s", config.GetFrontendURL(), invitation.InvitationToken)
	err := lib.SendMail(&lib.SendMailInput{
		From:     os.Getenv("SMTP_FROM"),
		FromName: "Access Crate",
		To:       []string{invitation.Email},
		Subject:  "You have been invited to organize events",
		Body: fmt.Sprintf(
			"Hi %s,\n\nYou have been invited to join Access Crate as an organizer.\nSet your password here: %s\n\nThe link expires in 24 hours.\n",
			invitation.FullName, link,
		),
	})
	if err != nil {
		log.Printf("[mail] Error sending invitation to %s: %s\n", invitation.Email, err.Error())
	}
}
