package utils

import (
	"testing"
	"time"

	"accesscrate/src/models"
	"accesscrate/src/types"

	"github.com/stretchr/testify/assert"
)

func TestPasswordHashRoundTrip(t *testing.T) {
	hashed, err := HashPassword("correct horse battery staple")
	assert.Nil(t, err)
	assert.NotEqual(t, "correct horse battery staple", hashed)
	assert.True(t, ComparePassword(hashed, "correct horse battery staple"))
	assert.False(t, ComparePassword(hashed, "wrong password"))
}

func TestGenerateOTP(t *testing.T) {
	code, err := GenerateOTP()
	assert.Nil(t, err)
	assert.Len(t, code, 6)
	for _, c := range code {
		assert.True(t, c >= '0' && c <= '9')
	}
}

func TestRandomHexToken(t *testing.T) {
	token, err := RandomHexToken(32)
	assert.Nil(t, err)
	assert.Len(t, token, 64)

	other, err := RandomHexToken(32)
	assert.Nil(t, err)
	assert.NotEqual(t, token, other)
}

func TestParseDate(t *testing.T) {
	parsed, err := ParseDate("2024-05-01")
	assert.Nil(t, err)
	assert.Equal(t, time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC), parsed)

	_, err = ParseDate("01-05-2024")
	var validation *types.ValidationError
	assert.ErrorAs(t, err, &validation)
}

func TestEventStateSoldOutOverridesDate(t *testing.T) {
	now := time.Date(2024, time.May, 1, 12, 0, 0, 0, time.UTC)
	event := models.Event{
		Date: time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC),
		Tickets: []models.Ticket{
			{Quantity: 10, SoldCount: 10},
			{Quantity: 5, SoldCount: 5},
		},
	}

	state := EventState(&event, now)

	assert.Equal(t, types.EVENT_CURRENT, state.EventType)
	assert.False(t, state.IsActive)
	assert.False(t, state.IsTicketsAvailable)
}

func TestEventStateWithUnitsLeft(t *testing.T) {
	now := time.Date(2024, time.May, 1, 12, 0, 0, 0, time.UTC)
	event := models.Event{
		Date: time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC),
		Tickets: []models.Ticket{
			{Quantity: 10, SoldCount: 9},
		},
	}

	state := EventState(&event, now)

	assert.Equal(t, types.EVENT_CURRENT, state.EventType)
	assert.True(t, state.IsActive)
	assert.True(t, state.IsTicketsAvailable)
}

func TestTicketRangeFor(t *testing.T) {
	event := models.Event{
		Tickets: []models.Ticket{
			{Price: 1500},
			{Price: 500},
			{Price: 800},
		},
	}

	r := TicketRangeFor(&event)
	assert.NotNil(t, r)
	assert.Equal(t, 500.0, r.Lowest)
	assert.Equal(t, 1500.0, r.Highest)

	assert.Nil(t, TicketRangeFor(&models.Event{}))
}
