package types

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
)

type Timestamps struct {
	CreatedAt time.Time      `gorm:"autoCreateTime:nano" json:"created_at,omitempty"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime:nano" json:"updated_at,omitempty"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

type Role string

const (
	ROLE_USER        Role = "user"
	ROLE_ORGANIZER   Role = "organizer"
	ROLE_SUPER_ADMIN Role = "super-admin"
)

type EventType string

const (
	EVENT_UPCOMING EventType = "upcoming"
	EVENT_CURRENT  EventType = "current"
	EVENT_PAST     EventType = "past"
)

type PaymentStatus string

const (
	PAYMENT_PENDING   PaymentStatus = "pending"
	PAYMENT_COMPLETED PaymentStatus = "completed"
	PAYMENT_FAILED    PaymentStatus = "failed"
)

type InvitationStatus string

const (
	INVITATION_PENDING  InvitationStatus = "pending"
	INVITATION_ACCEPTED InvitationStatus = "accepted"
)

// The five tiers an event may sell, at most one of each per event.
var TicketTypes = []string{"VIP", "General", "First Phase", "Second Phase", "Third Phase"}

type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// APIResponse is the envelope every handler answers with: a success flag, a
// human-readable message, optional payload and the HTTP status repeated in
// the body.
type APIResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data"`
	Status  int    `json:"status"`
}

func NewAPIResponse(message string, data any, status int) *APIResponse {
	return &APIResponse{Success: true, Message: message, Data: data, Status: status}
}

func NewAPIError(message string, status int) *APIResponse {
	return &APIResponse{Success: false, Message: message, Status: status}
}

type SimpleRequestParams struct {
	ID uint `uri:"id" binding:"required"`
}

type RegisterUserRequestBody struct {
	Name        string `json:"name" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8"`
	ProfilePic  string `json:"profile_pic,omitempty"`
	ContactInfo string `json:"contact_info,omitempty"`
}

type LoginRequestBody struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type ChangePasswordRequestBody struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

type UpdateProfileRequestBody struct {
	Name        *string `json:"name,omitempty"`
	ProfilePic  *string `json:"profile_pic,omitempty"`
	ContactInfo *string `json:"contact_info,omitempty"`
	About       *string `json:"about,omitempty"`
}

type ForgotPasswordRequestBody struct {
	Email string `json:"email" binding:"required,email"`
}

type ResetPasswordRequestBody struct {
	Email       string `json:"email" binding:"required,email"`
	OTP         string `json:"otp" binding:"required,len=6"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

type InviteOrganizerRequestBody struct {
	OrganizerName  string `json:"organizerName" binding:"required"`
	OrganizerEmail string `json:"organizerEmail" binding:"required,email"`
	OwnerName      string `json:"ownerName" binding:"required"`
	ContactInfo    string `json:"contact_info,omitempty"`
}

type SetPasswordRequestBody struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
}

type CreateCategoryRequestBody struct {
	Name string `json:"name" binding:"required"`
}

type CreateEventRequestBody struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description,omitempty"`
	EventPic    string `json:"event_pic" binding:"required"`
	Date        string `json:"date" binding:"required,calendardate,bookabledate"`
	Venue       string `json:"venue" binding:"required"`
	Category    uint   `json:"category" binding:"required"`
	IsEntryFree *bool  `json:"isEntryFree" binding:"required"`
}

type CreateTicketRequestBody struct {
	TicketType     string  `json:"ticketType" binding:"required"`
	Price          float64 `json:"price" binding:"required,gt=0"`
	Quantity       uint    `json:"quantity" binding:"required,gt=0"`
	SalesStartDate string  `json:"sales_start_date" binding:"required,calendardate,ltedate=SalesEndDate"`
	SalesEndDate   string  `json:"sales_end_date" binding:"required,calendardate"`
}

type UpdateTicketRequestBody struct {
	TicketType     *string  `json:"ticketType,omitempty"`
	Price          *float64 `json:"price,omitempty" binding:"omitempty,gt=0"`
	Quantity       *uint    `json:"quantity,omitempty" binding:"omitempty,gt=0"`
	SalesStartDate *string  `json:"sales_start_date,omitempty" binding:"omitempty,calendardate"`
	SalesEndDate   *string  `json:"sales_end_date,omitempty" binding:"omitempty,calendardate"`
}

type PaymentLineItem struct {
	TicketID uint `json:"ticketId" binding:"required"`
	Quantity uint `json:"quantity" binding:"required,gt=0"`
}

type InitiatePaymentRequestBody struct {
	EventID uint              `json:"eventId" binding:"required"`
	Tickets []PaymentLineItem `json:"tickets" binding:"required,min=1,dive"`
}

// EsewaCallbackPayload is the gateway's confirmation, delivered either as a
// POST body or as a base64 "data" query parameter on the GET callback.
type EsewaCallbackPayload struct {
	TransactionUUID string `json:"transaction_uuid" form:"transaction_uuid"`
	TotalAmount     string `json:"total_amount" form:"total_amount"`
	Status          string `json:"status" form:"status"`
	TransactionCode string `json:"transaction_code" form:"transaction_code"`
}

type TicketRange struct {
	Lowest  float64 `json:"lowest"`
	Highest float64 `json:"highest"`
}

type EventQueryParams struct {
	EventType string `form:"eventType" binding:"required,oneof=past current upcoming"`
}
