package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/leadtrackr/lead-tracker-api/databases"
	"github.com/leadtrackr/lead-tracker-api/databases/mocks"
	"github.com/leadtrackr/lead-tracker-api/models"
)

func TestSumDurationSeconds(t *testing.T) {
	calls := []models.Call{
		{Duration: "15:30"},
		{Duration: "0:45"},
		{Duration: "2:00"},
	}
	assert.Equal(t, 15*60+30+45+2*60, sumDurationSeconds(calls))
}

func TestSumDurationSecondsSkipsMalformed(t *testing.T) {
	calls := []models.Call{
		{Duration: "abc"},       // skipped entirely
		{Duration: ""},          // skipped entirely
		{Duration: "5:xx"},      // bad seconds count as zero
		{Duration: "3"},         // bare minutes
		{Duration: " 1 : 30 "},  // tolerates whitespace
	}
	assert.Equal(t, 5*60+3*60+90, sumDurationSeconds(calls))
}

func TestFormatTotalDuration(t *testing.T) {
	assert.Equal(t, "0h 18m", formatTotalDuration(1095))
	assert.Equal(t, "0h 0m", formatTotalDuration(0))
	assert.Equal(t, "0h 0m", formatTotalDuration(59))
	assert.Equal(t, "2h 5m", formatTotalDuration(2*3600+5*60+59))
}

func TestCountOnDate(t *testing.T) {
	calls := []models.Call{
		{Date: "2026-08-30"},
		{Date: "2026-08-30"},
		{Date: "2026-08-29"},
		{Date: ""},
	}
	assert.Equal(t, 2, countOnDate(calls, "2026-08-30"))
	assert.Equal(t, 1, countOnDate(calls, "2026-08-29"))
	assert.Equal(t, 0, countOnDate(calls, "2026-01-01"))
}

func TestCallStatsHandler(t *testing.T) {
	req, err := http.NewRequest("GET", "/api/v1/calls/stats", nil)
	if err != nil {
		t.Fatal(err)
	}

	db := &mocks.DatabaseHelper{}
	conn := &mocks.CollectionHelper{}
	cursor := &mocks.CursorHelper{}

	today := time.Now().Format("2006-01-02")
	conn.On("Find", mock.Anything, mock.Anything).Return(cursor, nil)
	cursor.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(*[]models.Call)
		*arg = []models.Call{
			{Duration: "15:30", Date: today},
			{Duration: "0:45", Date: "2020-01-01"},
			{Duration: "2:00", Date: today},
		}
	})
	db.On("Collection", "calls").Return(conn)

	c := Call{DB: databases.NewCallDatabase(db)}
	rr := httptest.NewRecorder()
	handler := http.HandlerFunc(c.CallStatsHandler)
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var stats models.CallStats
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &stats))
	assert.Equal(t, 3, stats.TotalCalls)
	assert.Equal(t, 2, stats.CallsToday)
	assert.Equal(t, "0h 18m", stats.TotalDuration)
}

func TestCallStatsHandlerEmpty(t *testing.T) {
	req, _ := http.NewRequest("GET", "/api/v1/calls/stats", nil)

	db := &mocks.DatabaseHelper{}
	conn := &mocks.CollectionHelper{}
	cursor := &mocks.CursorHelper{}

	conn.On("Find", mock.Anything, mock.Anything).Return(cursor, nil)
	cursor.On("Decode", mock.Anything).Return(nil)
	db.On("Collection", "calls").Return(conn)

	c := Call{DB: databases.NewCallDatabase(db)}
	rr := httptest.NewRecorder()
	handler := http.HandlerFunc(c.CallStatsHandler)
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var stats models.CallStats
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &stats))
	assert.Equal(t, 0, stats.TotalCalls)
	assert.Equal(t, 0, stats.CallsToday)
	assert.Equal(t, "0h 0m", stats.TotalDuration)
}

func TestParseFollowUpDate(t *testing.T) {
	got, err := parseFollowUpDate("")
	assert.NoError(t, err)
	assert.Nil(t, got)

	got, err = parseFollowUpDate("2026-09-15")
	assert.NoError(t, err)
	if assert.NotNil(t, got) {
		assert.Equal(t, time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC), *got)
	}

	got, err = parseFollowUpDate("2026-09-15T10:30:00Z")
	assert.NoError(t, err)
	assert.NotNil(t, got)

	_, err = parseFollowUpDate("next tuesday")
	assert.Error(t, err)
}
