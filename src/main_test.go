package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"accesscrate/src/db"
	"accesscrate/src/models"
	"accesscrate/src/types"
	"accesscrate/src/utils"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"github.com/tidwall/gjson"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type TestSuite struct {
	suite.Suite
	DB             *gorm.DB
	Mock           sqlmock.Sqlmock
	UserToken      string
	OrganizerToken string
}

func NewMockDB() (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		log.Fatalf("An error '%s' was not expected when opening a stub database connection", err)
	}

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	if err != nil {
		log.Fatalf("An error '%s' was not expected when opening gorm database", err)
	}

	return gormDB, mock
}

func (s *TestSuite) SetupSuite() {
	registerValidators()

	d, mock := NewMockDB()
	db.NewDB(d)
	s.DB = d
	s.Mock = mock

	userToken, err := utils.GenerateJWT(&models.User{ID: 1, Email: "someone@example.com", Role: types.ROLE_USER})
	if err != nil {
		log.Fatalf("Error generating JWT token: %s\n", err.Error())
	}
	s.UserToken = userToken

	organizerToken, err := utils.GenerateJWT(&models.User{ID: 2, Email: "organizer@example.com", Role: types.ROLE_ORGANIZER})
	if err != nil {
		log.Fatalf("Error generating JWT token: %s\n", err.Error())
	}
	s.OrganizerToken = organizerToken
}

func (s *TestSuite) TearDownSuite() {
	inner, err := s.DB.DB()
	if err != nil {
		log.Printf("Error accessing inner db instance: %s\n", err.Error())
		return
	}
	inner.Close()
}

// expectAuthLookup queues the user row the auth middleware loads for the
// token subject.
func (s *TestSuite) expectAuthLookup(id uint, email string, role types.Role) {
	s.Mock.ExpectQuery(`SELECT (.+) FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "role"}).
			AddRow(id, "Test User", email, string(role)))
}

func (s *TestSuite) TestRegisterValidation() {
	router := setupRouter()

	w := httptest.NewRecorder()
	jbody := map[string]any{
		"email": "someone@example.com",
	}
	sbody, _ := json.Marshal(&jbody)
	req, _ := http.NewRequest("POST", "/api/auth/register", strings.NewReader(string(sbody)))
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), 400, w.Code)
	rbytes, err := io.ReadAll(w.Body)
	assert.Nil(s.T(), err)
	assert.False(s.T(), gjson.Get(string(rbytes), "success").Bool())
}

func (s *TestSuite) TestLoginUnknownUser() {
	router := setupRouter()

	s.Mock.ExpectQuery(`SELECT (.+) FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	w := httptest.NewRecorder()
	jbody := map[string]any{
		"email":    "nobody@example.com",
		"password": "password123",
	}
	sbody, _ := json.Marshal(&jbody)
	req, _ := http.NewRequest("POST", "/api/auth/login", strings.NewReader(string(sbody)))
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), 401, w.Code)
	rbytes, err := io.ReadAll(w.Body)
	assert.Nil(s.T(), err)
	assert.Equal(s.T(), "Invalid email or password", gjson.Get(string(rbytes), "message").String())
}

func (s *TestSuite) TestProfileRequiresAuth() {
	router := setupRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/profile", nil)
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), 401, w.Code)
}

func (s *TestSuite) TestAdminRoutesRequireOrganizerRole() {
	router := setupRouter()

	s.expectAuthLookup(1, "someone@example.com", types.ROLE_USER)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/admin/events?eventType=upcoming", nil)
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", s.UserToken))
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), 403, w.Code)
	rbytes, err := io.ReadAll(w.Body)
	assert.Nil(s.T(), err)
	assert.Equal(s.T(), "Access denied", gjson.Get(string(rbytes), "message").String())
}

func (s *TestSuite) TestSuperAdminRoutesRequireRole() {
	router := setupRouter()

	s.expectAuthLookup(2, "organizer@example.com", types.ROLE_ORGANIZER)

	w := httptest.NewRecorder()
	jbody := types.InviteOrganizerRequestBody{
		OrganizerName:  "New Organizer",
		OrganizerEmail: "neworg@example.com",
		OwnerName:      "Owner",
	}
	sbody, _ := json.Marshal(&jbody)
	req, _ := http.NewRequest("POST", "/api/superadmin/invite", strings.NewReader(string(sbody)))
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", s.OrganizerToken))
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), 403, w.Code)
}

func (s *TestSuite) TestCreateEventRejectsPastDate() {
	router := setupRouter()

	s.expectAuthLookup(2, "organizer@example.com", types.ROLE_ORGANIZER)

	w := httptest.NewRecorder()
	jbody := types.CreateEventRequestBody{
		Name:        "Retro Night",
		EventPic:    "https://example.com/pic.png",
		Date:        "2020-01-01",
		Venue:       "City Hall",
		Category:    1,
		IsEntryFree: new(bool),
	}
	sbody, _ := json.Marshal(&jbody)
	req, _ := http.NewRequest("POST", "/api/admin/event", strings.NewReader(string(sbody)))
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", s.OrganizerToken))
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), 400, w.Code)
}

func (s *TestSuite) TestCreateEventRejectsMalformedDate() {
	router := setupRouter()

	s.expectAuthLookup(2, "organizer@example.com", types.ROLE_ORGANIZER)

	w := httptest.NewRecorder()
	jbody := types.CreateEventRequestBody{
		Name:        "Summer Fest",
		EventPic:    "https://example.com/pic.png",
		Date:        "01-05-2030",
		Venue:       "City Hall",
		Category:    1,
		IsEntryFree: new(bool),
	}
	sbody, _ := json.Marshal(&jbody)
	req, _ := http.NewRequest("POST", "/api/admin/event", strings.NewReader(string(sbody)))
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", s.OrganizerToken))
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), 400, w.Code)
}

func (s *TestSuite) TestCreateTicketRejectsInvertedWindow() {
	router := setupRouter()

	s.expectAuthLookup(2, "organizer@example.com", types.ROLE_ORGANIZER)

	w := httptest.NewRecorder()
	jbody := types.CreateTicketRequestBody{
		TicketType:     "VIP",
		Price:          500,
		Quantity:       10,
		SalesStartDate: "2030-05-10",
		SalesEndDate:   "2030-05-01",
	}
	sbody, _ := json.Marshal(&jbody)
	req, _ := http.NewRequest("POST", "/api/admin/event/1/ticket", strings.NewReader(string(sbody)))
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", s.OrganizerToken))
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), 400, w.Code)
}

func (s *TestSuite) TestUpdateTicketRejectsWindowBeyondEventDate() {
	router := setupRouter()

	s.expectAuthLookup(2, "organizer@example.com", types.ROLE_ORGANIZER)
	s.Mock.ExpectQuery(`SELECT count(.+) FROM "events"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	s.Mock.ExpectBegin()
	s.Mock.ExpectQuery(`SELECT (.+) FROM "tickets"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "event_id", "ticket_type", "price", "quantity", "sold_count", "sales_start_date", "sales_end_date"}).
			AddRow(5, 1, "VIP", 500.0, 10, 0,
				time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC),
				time.Date(2024, time.April, 20, 0, 0, 0, 0, time.UTC)))
	s.Mock.ExpectQuery(`SELECT (.+) FROM "events"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "date", "venue"}).
			AddRow(1, time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC), "City Hall"))
	s.Mock.ExpectRollback()

	w := httptest.NewRecorder()
	jbody := map[string]any{
		"sales_end_date": "2030-12-31",
	}
	sbody, _ := json.Marshal(&jbody)
	req, _ := http.NewRequest("PATCH", "/api/admin/event/1/ticket/5", strings.NewReader(string(sbody)))
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", s.OrganizerToken))
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), 400, w.Code)
	rbytes, err := io.ReadAll(w.Body)
	assert.Nil(s.T(), err)
	assert.Equal(s.T(), "Sales window cannot extend beyond the event date", gjson.Get(string(rbytes), "message").String())
}

func (s *TestSuite) TestAuthRejectsBareBearerHeader() {
	router := setupRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/profile", nil)
	req.Header.Set("Authorization", "Bearer")
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), 401, w.Code)
}

func (s *TestSuite) TestFeaturedEventsEmpty() {
	router := setupRouter()

	s.Mock.ExpectQuery(`SELECT (.+) FROM "events"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/events/featured", nil)
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), 200, w.Code)
}

func (s *TestSuite) TestEsewaCallbackValidation() {
	router := setupRouter()

	s.Run("Should reject a GET callback without data", func() {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/payments/esewa/verify", nil)
		router.ServeHTTP(w, req)

		assert.Equal(s.T(), 400, w.Code)
		rbytes, err := io.ReadAll(w.Body)
		assert.Nil(s.T(), err)
		assert.Equal(s.T(), "Missing data parameter", gjson.Get(string(rbytes), "message").String())
	})

	s.Run("Should reject a GET callback with malformed data", func() {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/payments/esewa/verify?data=%21%21%21", nil)
		router.ServeHTTP(w, req)

		assert.Equal(s.T(), 400, w.Code)
	})
}

func (s *TestSuite) TestInitiatePaymentRequiresAuth() {
	router := setupRouter()

	w := httptest.NewRecorder()
	jbody := types.InitiatePaymentRequestBody{
		EventID: 1,
		Tickets: []types.PaymentLineItem{{TicketID: 1, Quantity: 1}},
	}
	sbody, _ := json.Marshal(&jbody)
	req, _ := http.NewRequest("POST", "/api/payments/esewa/initiate", strings.NewReader(string(sbody)))
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), 401, w.Code)
}

func TestRunner(t *testing.T) {
	suite.Run(t, new(TestSuite))
}
