package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"accesscrate/src/db"
	"accesscrate/src/lib"
	"accesscrate/src/models"
	"accesscrate/src/models/scopes"
	"accesscrate/src/types"
	"accesscrate/src/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func authHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/auth/register", func(ctx *gin.Context) {
			var body types.RegisterUserRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, types.NewAPIError(err.Error(), http.StatusBadRequest))
				return
			}
			d := db.GetDb()
			var count int64
			if err := d.
				Model(&models.User{}).
				Where("email = ?", body.Email).
				Count(&count).
				Error; err != nil {
				ctx.JSON(http.StatusInternalServerError, types.NewAPIError(err.Error(), http.StatusInternalServerError))
				return
			}
			if count > 0 {
				ctx.JSON(http.StatusConflict, types.NewAPIError("User with this email already exists", http.StatusConflict))
				return
			}
			hashed, err := utils.HashPassword(body.Password)
			if err != nil {
				ctx.JSON(http.StatusInternalServerError, types.NewAPIError(err.Error(), http.StatusInternalServerError))
				return
			}
			user := models.User{
				Name:        body.Name,
				Email:       body.Email,
				Password:    hashed,
				Role:        types.ROLE_USER,
				ProfilePic:  body.ProfilePic,
				ContactInfo: body.ContactInfo,
			}
			if err := d.Create(&user).Error; err != nil {
				ctx.JSON(http.StatusInternalServerError, types.NewAPIError(err.Error(), http.StatusInternalServerError))
				return
			}
			ctx.JSON(http.StatusCreated, types.NewAPIResponse("User registered successfully", user, http.StatusCreated))
		}).
		POST("/auth/login", func(ctx *gin.Context) {
			login(ctx, types.ROLE_USER)
		}).
		POST("/auth/admin/login", func(ctx *gin.Context) {
			login(ctx, types.ROLE_ORGANIZER, types.ROLE_SUPER_ADMIN)
		}).
		POST("/auth/set-password", func(ctx *gin.Context) {
			var body types.SetPasswordRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, types.NewAPIError(err.Error(), http.StatusBadRequest))
				return
			}
			d := db.GetDb()
			var user models.User
			err := d.Transaction(func(tx *gorm.DB) error {
				var invitation models.Invitation
				if err := tx.
					Where("invitation_token = ?", body.Token).
					Scopes(scopes.PendingStatus).
					First(&invitation).
					Error; err != nil {
					if errors.Is(err, gorm.ErrRecordNotFound) {
						return &types.NotFoundError{Msg: "Invitation not found or already used"}
					}
					return err
				}
				if time.Now().After(invitation.InvitationExpiry) {
					return &types.ValidationError{Msg: "Invitation has expired"}
				}
				hashed, err := utils.HashPassword(body.Password)
				if err != nil {
					return err
				}
				user = models.User{
					Name:        invitation.FullName,
					Email:       invitation.Email,
					Password:    hashed,
					Role:        invitation.Role,
					ContactInfo: invitation.ContactInfo,
				}
				if err := tx.Create(&user).Error; err != nil {
					return err
				}
				return tx.
					Model(&models.Invitation{}).
					Where("id = ?", invitation.ID).
					Update("status", types.INVITATION_ACCEPTED).
					Error
			})
			if err != nil {
				status := types.ErrorStatus(err)
				ctx.JSON(status, types.NewAPIError(err.Error(), status))
				return
			}
			ctx.JSON(http.StatusCreated, types.NewAPIResponse("Password set successfully. You can now log in", user, http.StatusCreated))
		}).
		POST("/auth/forgot-password", func(ctx *gin.Context) {
			var body types.ForgotPasswordRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, types.NewAPIError(err.Error(), http.StatusBadRequest))
				return
			}
			d := db.GetDb()
			var user models.User
			if err := d.
				Where("email = ?", body.Email).
				First(&user).
				Error; err != nil {
				ctx.JSON(http.StatusNotFound, types.NewAPIError("User not found", http.StatusNotFound))
				return
			}
			code, err := utils.GenerateOTP()
			if err != nil {
				ctx.JSON(http.StatusInternalServerError, types.NewAPIError(err.Error(), http.StatusInternalServerError))
				return
			}
			if err := lib.StoreOTP(context.Background(), user.Email, code); err != nil {
				ctx.JSON(http.StatusInternalServerError, types.NewAPIError(err.Error(), http.StatusInternalServerError))
				return
			}
			go func() {
				err := lib.SendMail(&lib.SendMailInput{
					From:     os.Getenv("SMTP_FROM"),
					FromName: "Access Crate",
					To:       []string{user.Email},
					Subject:  "Your password reset code",
					Body:     fmt.Sprintf("Hi %s,\n\nYour password reset code is %s. It expires in 10 minutes.\n", user.Name, code),
				})
				if err != nil {
					log.Printf("[mail] Error sending OTP to %s: %s\n", user.Email, err.Error())
				}
			}()
			ctx.JSON(http.StatusOK, types.NewAPIResponse("Password reset code sent to your email", nil, http.StatusOK))
		}).
		POST("/auth/reset-password", func(ctx *gin.Context) {
			var body types.ResetPasswordRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, types.NewAPIError(err.Error(), http.StatusBadRequest))
				return
			}
			ok, err := lib.CheckOTP(context.Background(), body.Email, body.OTP)
			if err != nil {
				ctx.JSON(http.StatusInternalServerError, types.NewAPIError(err.Error(), http.StatusInternalServerError))
				return
			}
			if !ok {
				ctx.JSON(http.StatusBadRequest, types.NewAPIError("Invalid or expired code", http.StatusBadRequest))
				return
			}
			hashed, err := utils.HashPassword(body.NewPassword)
			if err != nil {
				ctx.JSON(http.StatusInternalServerError, types.NewAPIError(err.Error(), http.StatusInternalServerError))
				return
			}
			d := db.GetDb()
			res := d.
				Model(&models.User{}).
				Where("email = ?", body.Email).
				Update("password", hashed)
			if res.Error != nil {
				ctx.JSON(http.StatusInternalServerError, types.NewAPIError(res.Error.Error(), http.StatusInternalServerError))
				return
			}
			if res.RowsAffected == 0 {
				ctx.JSON(http.StatusNotFound, types.NewAPIError("User not found", http.StatusNotFound))
				return
			}
			ctx.JSON(http.StatusOK, types.NewAPIResponse("Password reset successfully", nil, http.StatusOK))
		})
	return g
}

func login(ctx *gin.Context, roles ...types.Role) {
	var body types.LoginRequestBody
	if err := ctx.ShouldBindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, types.NewAPIError(err.Error(), http.StatusBadRequest))
		return
	}
	d := db.GetDb()
	var user models.User
	if err := d.
		Where("email = ?", body.Email).
		First(&user).
		Error; err != nil {
		ctx.JSON(http.StatusUnauthorized, types.NewAPIError("Invalid email or password", http.StatusUnauthorized))
		return
	}
	allowed := false
	for _, role := range roles {
		if user.Role == role {
			allowed = true
			break
		}
	}
	if !allowed || !utils.ComparePassword(user.Password, body.Password) {
		ctx.JSON(http.StatusUnauthorized, types.NewAPIError("Invalid email or password", http.StatusUnauthorized))
		return
	}
	token, err := utils.GenerateJWT(&user)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, types.NewAPIError(err.Error(), http.StatusInternalServerError))
		return
	}
	ctx.JSON(http.StatusOK, types.NewAPIResponse("Login successful", gin.H{
		"token": token,
		"user":  user,
	}, http.StatusOK))
}

func profileHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/profile", func(ctx *gin.Context) {
			userId := ctx.GetUint("id")
			d := db.GetDb()
			var user models.User
			if err := d.
				Where(&models.User{ID: userId}).
				First(&user).
				Error; err != nil {
				ctx.JSON(http.StatusNotFound, types.NewAPIError("User not found", http.StatusNotFound))
				return
			}
			ctx.JSON(http.StatusOK, types.NewAPIResponse("Profile fetched successfully", user, http.StatusOK))
		}).
		PATCH("/profile", func(ctx *gin.Context) {
			var body types.UpdateProfileRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, types.NewAPIError(err.Error(), http.StatusBadRequest))
				return
			}
			userId := ctx.GetUint("id")
			updates := map[string]any{}
			if body.Name != nil {
				updates["name"] = *body.Name
			}
			if body.ProfilePic != nil {
				updates["profile_pic"] = *body.ProfilePic
			}
			if body.ContactInfo != nil {
				updates["contact_info"] = *body.ContactInfo
			}
			if body.About != nil {
				updates["about"] = *body.About
			}
			if len(updates) == 0 {
				ctx.JSON(http.StatusBadRequest, types.NewAPIError("Nothing to update", http.StatusBadRequest))
				return
			}
			d := db.GetDb()
			var user models.User
			err := d.Transaction(func(tx *gorm.DB) error {
				if err := tx.
					Model(&models.User{}).
					Where("id = ?", userId).
					Updates(updates).
					Error; err != nil {
					return err
				}
				return tx.
					Where(&models.User{ID: userId}).
					First(&user).
					Error
			})
			if err != nil {
				ctx.JSON(http.StatusInternalServerError, types.NewAPIError(err.Error(), http.StatusInternalServerError))
				return
			}
			ctx.JSON(http.StatusOK, types.NewAPIResponse("Profile updated successfully", user, http.StatusOK))
		}).
		POST("/auth/change-password", func(ctx *gin.Context) {
			var body types.ChangePasswordRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, types.NewAPIError(err.Error(), http.StatusBadRequest))
				return
			}
			userId := ctx.GetUint("id")
			d := db.GetDb()
			var user models.User
			if err := d.
				Where(&models.User{ID: userId}).
				First(&user).
				Error; err != nil {
				ctx.JSON(http.StatusNotFound, types.NewAPIError("User not found", http.StatusNotFound))
				return
			}
			if !utils.ComparePassword(user.Password, body.OldPassword) {
				ctx.JSON(http.StatusUnauthorized, types.NewAPIError("Old password is incorrect", http.StatusUnauthorized))
				return
			}
			hashed, err := utils.HashPassword(body.NewPassword)
			if err != nil {
				ctx.JSON(http.StatusInternalServerError, types.NewAPIError(err.Error(), http.StatusInternalServerError))
				return
			}
			if err := d.
				Model(&models.User{}).
				Where("id = ?", userId).
				Update("password", hashed).
				Error; err != nil {
				ctx.JSON(http.StatusInternalServerError, types.NewAPIError(err.Error(), http.StatusInternalServerError))
				return
			}
			ctx.JSON(http.StatusOK, types.NewAPIResponse("Password changed successfully", nil, http.StatusOK))
		})
	return g
}
