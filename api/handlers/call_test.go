package handlers_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/leadtrackr/lead-tracker-api/api/handlers"
	"github.com/leadtrackr/lead-tracker-api/databases"
	"github.com/leadtrackr/lead-tracker-api/databases/mocks"
	"github.com/leadtrackr/lead-tracker-api/models"
)

const validCallPayload = `{
	"leadName": "Acme Corp",
	"caller": "Priya Patel",
	"callType": "outbound",
	"duration": "15:30",
	"outcome": "interested",
	"notes": "wants a demo",
	"nextAction": "send deck",
	"nextFollowUp": "2026-09-02"
}`

func newCallHandler(db databases.DatabaseHelper) handlers.Call {
	return handlers.Call{DB: databases.NewCallDatabase(db)}
}

func TestCall_CallHandler(t *testing.T) {
	req, err := http.NewRequest("GET", "/api/v1/calls", nil)
	if err != nil {
		t.Fatal(err)
	}

	db := &mocks.DatabaseHelper{}
	conn := &mocks.CollectionHelper{}
	cursor := &mocks.CursorHelper{}

	conn.On("Find", mock.Anything, mock.Anything, mock.Anything).Return(cursor, nil)
	cursor.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(*[]models.Call)
		*arg = []models.Call{{ID: "aaaabbbbccccddddeeeeffff", LeadName: "Acme Corp", Caller: "Priya Patel"}}
	})
	db.On("Collection", "calls").Return(conn)

	rr := httptest.NewRecorder()
	handler := http.HandlerFunc(newCallHandler(db).CallHandler)
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var got []models.Call
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Len(t, got, 1)
	assert.Equal(t, "Acme Corp", got[0].LeadName)
}

func TestCall_CallHandlerEmptyResult(t *testing.T) {
	req, _ := http.NewRequest("GET", "/api/v1/calls", nil)

	db := &mocks.DatabaseHelper{}
	conn := &mocks.CollectionHelper{}
	cursor := &mocks.CursorHelper{}

	conn.On("Find", mock.Anything, mock.Anything, mock.Anything).Return(cursor, nil)
	cursor.On("Decode", mock.Anything).Return(nil)
	db.On("Collection", "calls").Return(conn)

	rr := httptest.NewRecorder()
	handler := http.HandlerFunc(newCallHandler(db).CallHandler)
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "[]", rr.Body.String())
}

func TestCall_CallHandlerPaginationIsPerRequest(t *testing.T) {
	db := &mocks.DatabaseHelper{}
	conn := &mocks.CollectionHelper{}
	cursor := &mocks.CursorHelper{}

	var skips []int64
	conn.On("Find", mock.Anything, mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		opts := args.Get(2).(*options.FindOptions)
		skips = append(skips, *opts.Skip)
	}).Return(cursor, nil)
	cursor.On("Decode", mock.Anything).Return(nil)
	db.On("Collection", "calls").Return(conn)

	handler := http.HandlerFunc(newCallHandler(db).CallHandler)

	req, _ := http.NewRequest("GET", "/api/v1/calls?limit=10&page=3", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	// a page-less request must start from the first record regardless of
	// what any earlier request asked for
	req, _ = http.NewRequest("GET", "/api/v1/calls?limit=10", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, []int64{30, 0}, skips)
}

func TestCall_CreateCallHandlerAssignsIDAndTimestamps(t *testing.T) {
	req, _ := http.NewRequest("POST", "/api/v1/calls", strings.NewReader(validCallPayload))

	db := &mocks.DatabaseHelper{}
	conn := &mocks.CollectionHelper{}

	var inserted models.Call
	conn.On("InsertOne", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		inserted = args.Get(1).(models.Call)
	}).Return(nil, nil)
	db.On("Collection", "calls").Return(conn)

	rr := httptest.NewRecorder()
	handler := http.HandlerFunc(newCallHandler(db).CreateCallHandler)
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)

	// id, date and time are assigned server side
	assert.NotEmpty(t, inserted.ID)
	assert.Equal(t, time.Now().Format("2006-01-02"), inserted.Date)
	assert.NotEmpty(t, inserted.Time)
	assert.Equal(t, "Priya Patel", inserted.Caller)

	var got models.Call
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, inserted.ID, got.ID)
}

func TestCall_CreateCallHandlerIgnoresClientID(t *testing.T) {
	payload := `{"id": "spoofed", "leadName": "Acme Corp", "caller": "Priya Patel", "callType": "inbound", "outcome": "no-answer"}`
	req, _ := http.NewRequest("POST", "/api/v1/calls", strings.NewReader(payload))

	db := &mocks.DatabaseHelper{}
	conn := &mocks.CollectionHelper{}

	var inserted models.Call
	conn.On("InsertOne", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		inserted = args.Get(1).(models.Call)
	}).Return(nil, nil)
	db.On("Collection", "calls").Return(conn)

	rr := httptest.NewRecorder()
	handler := http.HandlerFunc(newCallHandler(db).CreateCallHandler)
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.NotEqual(t, "spoofed", inserted.ID)
}

func TestCall_CreateCallHandlerMissingCaller(t *testing.T) {
	payload := `{"leadName": "Acme Corp", "callType": "outbound", "outcome": "interested"}`
	req, _ := http.NewRequest("POST", "/api/v1/calls", strings.NewReader(payload))

	db := &mocks.DatabaseHelper{}

	rr := httptest.NewRecorder()
	handler := http.HandlerFunc(newCallHandler(db).CreateCallHandler)
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)

	var resp models.ErrorMessageResponse
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "call failed validation", resp.Response.Message)
}

func TestCall_CreateCallHandlerBadCallType(t *testing.T) {
	payload := strings.Replace(validCallPayload, `"outbound"`, `"carrier-pigeon"`, 1)
	req, _ := http.NewRequest("POST", "/api/v1/calls", strings.NewReader(payload))

	db := &mocks.DatabaseHelper{}

	rr := httptest.NewRecorder()
	handler := http.HandlerFunc(newCallHandler(db).CreateCallHandler)
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestCall_UpdateCallByIDHandlerMergesSuppliedFields(t *testing.T) {
	callID := "aaaabbbbccccddddeeeeffff"
	payload := `{"outcome": "qualified"}`
	req, _ := http.NewRequest("PUT", "/api/v1/calls/"+callID, strings.NewReader(payload))
	req = mux.SetURLVars(req, map[string]string{"call_id": callID})

	db := &mocks.DatabaseHelper{}
	conn := &mocks.CollectionHelper{}
	singleResultHelper := &mocks.SingleResultHelper{}

	var update bson.M
	conn.On("UpdateOne", mock.Anything, mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		update = args.Get(2).(bson.M)
	}).Return(&mongo.UpdateResult{MatchedCount: 1}, nil)
	singleResultHelper.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(**models.Call)
		(*arg).ID = callID
		(*arg).LeadName = "Acme Corp"
		(*arg).Duration = "15:30"
		(*arg).Outcome = "qualified"
	})
	conn.On("FindOne", mock.Anything, mock.Anything).Return(singleResultHelper)
	db.On("Collection", "calls").Return(conn)

	rr := httptest.NewRecorder()
	handler := http.HandlerFunc(newCallHandler(db).UpdateCallByIDHandler)
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	// merge semantics: only the supplied field lands in the $set
	setDoc := update["$set"].(bson.M)
	assert.Len(t, setDoc, 1)
	assert.Equal(t, "qualified", setDoc["outcome"])

	var got models.Call
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, "qualified", got.Outcome)
	assert.Equal(t, "15:30", got.Duration)
}

func TestCall_UpdateCallByIDHandlerStripsImmutableFields(t *testing.T) {
	callID := "aaaabbbbccccddddeeeeffff"
	payload := fmt.Sprintf(`{"id": "%s", "date": "1999-01-01", "time": "00:00"}`, callID)
	req, _ := http.NewRequest("PUT", "/api/v1/calls/"+callID, strings.NewReader(payload))
	req = mux.SetURLVars(req, map[string]string{"call_id": callID})

	db := &mocks.DatabaseHelper{}

	rr := httptest.NewRecorder()
	handler := http.HandlerFunc(newCallHandler(db).UpdateCallByIDHandler)
	handler.ServeHTTP(rr, req)

	// everything the client sent is immutable, so nothing is left to update
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	var resp models.ErrorMessageResponse
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "no updatable fields supplied", resp.Response.Message)
}

func TestCall_UpdateCallByIDHandlerNotFound(t *testing.T) {
	callID := "aaaabbbbccccddddeeeeffff"
	payload := `{"outcome": "qualified"}`
	req, _ := http.NewRequest("PUT", "/api/v1/calls/"+callID, strings.NewReader(payload))
	req = mux.SetURLVars(req, map[string]string{"call_id": callID})

	db := &mocks.DatabaseHelper{}
	conn := &mocks.CollectionHelper{}
	singleResultHelper := &mocks.SingleResultHelper{}

	conn.On("UpdateOne", mock.Anything, mock.Anything, mock.Anything).Return(&mongo.UpdateResult{}, nil)
	singleResultHelper.On("Decode", mock.Anything).Return(mongo.ErrNoDocuments)
	conn.On("FindOne", mock.Anything, mock.Anything).Return(singleResultHelper)
	db.On("Collection", "calls").Return(conn)

	rr := httptest.NewRecorder()
	handler := http.HandlerFunc(newCallHandler(db).UpdateCallByIDHandler)
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)

	var resp models.ErrorMessageResponse
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "call not found", resp.Response.Message)
}

func TestCall_DeleteCallByIDHandler(t *testing.T) {
	callID := "aaaabbbbccccddddeeeeffff"
	req, _ := http.NewRequest("DELETE", "/api/v1/calls/"+callID, nil)
	req = mux.SetURLVars(req, map[string]string{"call_id": callID})

	db := &mocks.DatabaseHelper{}
	conn := &mocks.CollectionHelper{}

	conn.On("DeleteOne", mock.Anything, mock.Anything).Return(int64(1), nil)
	db.On("Collection", "calls").Return(conn)

	rr := httptest.NewRecorder()
	handler := http.HandlerFunc(newCallHandler(db).DeleteCallByIDHandler)
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Empty(t, rr.Body.String())
}

func TestCall_DeleteCallByIDHandlerAlreadyGone(t *testing.T) {
	callID := "aaaabbbbccccddddeeeeffff"
	req, _ := http.NewRequest("DELETE", "/api/v1/calls/"+callID, nil)
	req = mux.SetURLVars(req, map[string]string{"call_id": callID})

	db := &mocks.DatabaseHelper{}
	conn := &mocks.CollectionHelper{}

	conn.On("DeleteOne", mock.Anything, mock.Anything).Return(int64(0), nil)
	db.On("Collection", "calls").Return(conn)

	rr := httptest.NewRecorder()
	handler := http.HandlerFunc(newCallHandler(db).DeleteCallByIDHandler)
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)

	var resp models.ErrorMessageResponse
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "call not found", resp.Response.Message)
}

func TestCall_DeleteCallByIDHandlerStoreError(t *testing.T) {
	callID := "aaaabbbbccccddddeeeeffff"
	req, _ := http.NewRequest("DELETE", "/api/v1/calls/"+callID, nil)
	req = mux.SetURLVars(req, map[string]string{"call_id": callID})

	db := &mocks.DatabaseHelper{}
	conn := &mocks.CollectionHelper{}

	conn.On("DeleteOne", mock.Anything, mock.Anything).Return(int64(0), errors.New("connection reset"))
	db.On("Collection", "calls").Return(conn)

	rr := httptest.NewRecorder()
	handler := http.HandlerFunc(newCallHandler(db).DeleteCallByIDHandler)
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}
