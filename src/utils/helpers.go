package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
	"math/big"
	"os"
	"time"

	"accesscrate/src/config"
	"accesscrate/src/db"
	"accesscrate/src/lifecycle"
	"accesscrate/src/models"
	"accesscrate/src/types"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gosimple/slug"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var jwtKey = []byte(os.Getenv("JWT_SECRET"))

func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func ComparePassword(hashed, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(password)) == nil
}

func GenerateJWT(user *models.User) (string, error) {
	claims := &types.Claims{
		Email: user.Email,
		Role:  string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprint(user.ID),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtKey)
}

// RandomHexToken returns n random bytes hex-encoded. Invitation tokens use
// n=32.
func RandomHexToken(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// GenerateOTP returns a six-digit password-reset code.
func GenerateOTP() (string, error) {
	max := big.NewInt(1000000)
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

func ParseDate(value string) (time.Time, error) {
	parsed, err := time.Parse(config.DATE_PARSE_FORMAT, value)
	if err != nil {
		return time.Time{}, &types.ValidationError{Msg: fmt.Sprintf("invalid date %q, expected YYYY-MM-DD", value)}
	}
	return parsed, nil
}

// EventState derives the stored flags for an event snapshot. Tickets must be
// loaded. A fully exhausted event additionally loses availability and
// activity regardless of its date.
func EventState(event *models.Event, now time.Time) lifecycle.EventState {
	state := lifecycle.EvaluateEvent(event.Date, len(event.Tickets), now)
	if len(event.Tickets) > 0 {
		soldOut := true
		for _, t := range event.Tickets {
			if t.SoldCount < t.Quantity {
				soldOut = false
				break
			}
		}
		if soldOut {
			state.IsTicketsAvailable = false
			state.IsActive = false
		}
	}
	return state
}

// RefreshEventLifecycle recomputes and persists the derived flags for one
// event and its tickets. Read paths call this before serving so stored flags
// match computed truth.
func RefreshEventLifecycle(tx *gorm.DB, event *models.Event, now time.Time) error {
	state := EventState(event, now)
	changed := event.EventType != state.EventType ||
		event.IsActive != state.IsActive ||
		event.IsTicketsAvailable != state.IsTicketsAvailable
	event.EventType = state.EventType
	event.IsActive = state.IsActive
	event.IsTicketsAvailable = state.IsTicketsAvailable
	if changed {
		if err := tx.
			Model(&models.Event{}).
			Where("id = ?", event.ID).
			Updates(map[string]any{
				"event_type":           state.EventType,
				"is_active":            state.IsActive,
				"is_tickets_available": state.IsTicketsAvailable,
			}).
			Error; err != nil {
			return err
		}
	}
	for i := range event.Tickets {
		t := &event.Tickets[i]
		active := lifecycle.TicketActive(t.SalesStartDate, t.SalesEndDate, now)
		if t.IsActive != active {
			t.IsActive = active
			if err := tx.
				Model(&models.Ticket{}).
				Where("id = ?", t.ID).
				Update("is_active", active).
				Error; err != nil {
				return err
			}
		}
	}
	return nil
}

// SweepLifecycle rewrites stored flags across all events. Runs on a gocron
// schedule so listings filtered on stored columns stay honest between
// requests.
func SweepLifecycle() {
	now := time.Now()
	d := db.GetDb()
	var events []models.Event
	if err := d.
		Model(&models.Event{}).
		Preload("Tickets").
		Find(&events).
		Error; err != nil {
		log.Printf("[sweep] Error loading events: %s\n", err.Error())
		return
	}
	for i := range events {
		if err := RefreshEventLifecycle(d, &events[i], now); err != nil {
			log.Printf("[sweep] Error refreshing event %d: %s\n", events[i].ID, err.Error())
		}
	}
}

// TicketRangeFor summarizes tier prices for user-facing listings.
func TicketRangeFor(event *models.Event) *types.TicketRange {
	if len(event.Tickets) == 0 {
		return nil
	}
	lowest := event.Tickets[0].Price
	highest := event.Tickets[0].Price
	for _, t := range event.Tickets[1:] {
		if t.Price < lowest {
			lowest = t.Price
		}
		if t.Price > highest {
			highest = t.Price
		}
	}
	return &types.TicketRange{Lowest: lowest, Highest: highest}
}

func CreateNewEvent(params *types.CreateEventRequestBody, organizerID uint) (uint, error) {
	date, err := ParseDate(params.Date)
	if err != nil {
		return 0, err
	}

	event := models.Event{
		Name:        params.Name,
		Description: params.Description,
		EventPic:    params.EventPic,
		Date:        date,
		Venue:       params.Venue,
		CategoryID:  params.Category,
		OrganizerID: organizerID,
		IsEntryFree: *params.IsEntryFree,
	}

	d := db.GetDb()
	err = d.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.
			Model(&models.Event{}).
			Where("name = ?", params.Name).
			Count(&count).
			Error; err != nil {
			return err
		}
		if count > 0 {
			return &types.ConflictError{Msg: "Event already exists"}
		}
		if err := tx.
			Model(&models.Event{}).
			Where("date = ? AND venue = ?", date, params.Venue).
			Count(&count).
			Error; err != nil {
			return err
		}
		if count > 0 {
			return &types.ConflictError{Msg: "An event at this venue on the same date already exists"}
		}

		var category models.Category
		if err := tx.
			Where(&models.Category{ID: params.Category}).
			First(&category).
			Error; err != nil {
			return &types.ValidationError{Msg: "Invalid category ID"}
		}

		state := lifecycle.EvaluateEvent(date, 0, time.Now())
		event.EventType = state.EventType
		event.IsActive = state.IsActive
		event.IsTicketsAvailable = state.IsTicketsAvailable

		if err := tx.Create(&event).Error; err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return event.ID, nil
}

func CreateNewTicket(eventID uint, params *types.CreateTicketRequestBody) (uint, error) {
	start, err := ParseDate(params.SalesStartDate)
	if err != nil {
		return 0, err
	}
	end, err := ParseDate(params.SalesEndDate)
	if err != nil {
		return 0, err
	}
	if start.After(end) {
		return 0, &types.ValidationError{Msg: "Sales start date cannot be greater than sales end date"}
	}
	if !validTicketType(params.TicketType) {
		return 0, &types.ValidationError{Msg: "Invalid ticket type"}
	}

	ticket := models.Ticket{
		EventID:        eventID,
		TicketType:     params.TicketType,
		Price:          params.Price,
		Quantity:       params.Quantity,
		SalesStartDate: start,
		SalesEndDate:   end,
	}

	d := db.GetDb()
	err = d.Transaction(func(tx *gorm.DB) error {
		var event models.Event
		if err := tx.
			Where(&models.Event{ID: eventID}).
			First(&event).
			Error; err != nil {
			return &types.NotFoundError{Msg: "Event not found"}
		}
		if end.After(lifecycle.Midnight(event.Date)) {
			return &types.ValidationError{Msg: "Sales window cannot extend beyond the event date"}
		}

		var count int64
		if err := tx.
			Model(&models.Ticket{}).
			Where("event_id = ? AND ticket_type = ?", eventID, params.TicketType).
			Count(&count).
			Error; err != nil {
			return err
		}
		if count > 0 {
			return &types.ConflictError{Msg: "Ticket type already exists"}
		}

		ticket.IsActive = lifecycle.TicketActive(start, end, time.Now())
		if err := tx.Create(&ticket).Error; err != nil {
			return err
		}

		// First tier flips the event's availability flag.
		if err := tx.
			Model(&models.Event{}).
			Where("id = ?", eventID).
			Update("is_tickets_available", true).
			Error; err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		log.Println("Error: ", err.Error())
		return 0, err
	}
	return ticket.ID, nil
}

func validTicketType(ticketType string) bool {
	for _, t := range types.TicketTypes {
		if t == ticketType {
			return true
		}
	}
	return false
}

func CategorySlug(name string) string {
	return slug.Make(name)
}
