package lifecycle

import (
	"testing"
	"time"

	"accesscrate/src/types"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestEvaluateEvent(t *testing.T) {
	tests := []struct {
		name        string
		eventDate   time.Time
		ticketCount int
		now         time.Time
		wantType    types.EventType
		wantActive  bool
	}{
		{
			name:       "event dated today is current and active",
			eventDate:  date(2024, time.May, 1),
			now:        date(2024, time.May, 1),
			wantType:   types.EVENT_CURRENT,
			wantActive: true,
		},
		{
			name:       "date equality holds even late in the day",
			eventDate:  date(2024, time.May, 1),
			now:        time.Date(2024, time.May, 1, 23, 59, 0, 0, time.UTC),
			wantType:   types.EVENT_CURRENT,
			wantActive: true,
		},
		{
			name:       "yesterday's event is past",
			eventDate:  date(2024, time.May, 1),
			now:        date(2024, time.May, 2),
			wantType:   types.EVENT_PAST,
			wantActive: false,
		},
		{
			name:       "tomorrow's event is upcoming and not yet active",
			eventDate:  date(2024, time.May, 2),
			now:        date(2024, time.May, 1),
			wantType:   types.EVENT_UPCOMING,
			wantActive: false,
		},
		{
			name:        "tickets flag follows tier count",
			eventDate:   date(2024, time.May, 2),
			ticketCount: 3,
			now:         date(2024, time.May, 1),
			wantType:    types.EVENT_UPCOMING,
			wantActive:  false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EvaluateEvent(tt.eventDate, tt.ticketCount, tt.now)
			assert.Equal(t, tt.wantType, got.EventType)
			assert.Equal(t, tt.wantActive, got.IsActive)
			assert.Equal(t, tt.ticketCount > 0, got.IsTicketsAvailable)
		})
	}
}

func TestEvaluateEventCrossesDateBoundary(t *testing.T) {
	eventDate := date(2024, time.June, 15)

	before := EvaluateEvent(eventDate, 1, date(2024, time.June, 14))
	during := EvaluateEvent(eventDate, 1, date(2024, time.June, 15))
	after := EvaluateEvent(eventDate, 1, date(2024, time.June, 16))

	assert.Equal(t, types.EVENT_UPCOMING, before.EventType)
	assert.Equal(t, types.EVENT_CURRENT, during.EventType)
	assert.Equal(t, types.EVENT_PAST, after.EventType)
	assert.True(t, during.IsActive)
	assert.False(t, before.IsActive)
	assert.False(t, after.IsActive)
}

func TestTicketActive(t *testing.T) {
	start := date(2024, time.April, 1)
	end := date(2024, time.April, 30)

	assert.False(t, TicketActive(start, end, date(2024, time.March, 31)))
	assert.True(t, TicketActive(start, end, start))
	assert.True(t, TicketActive(start, end, date(2024, time.April, 15)))
	assert.True(t, TicketActive(start, end, end))
	assert.False(t, TicketActive(start, end, date(2024, time.May, 1)))
}
