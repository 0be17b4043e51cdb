package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/leadtrackr/lead-tracker-api/config"
	"github.com/leadtrackr/lead-tracker-api/databases"
	"github.com/leadtrackr/lead-tracker-api/models"
)

// Call exported for testing purposes
type Call struct {
	DB databases.CallDatabase
}

func getPage(page int, r *http.Request) int {
	if p, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil {
		page = p
	}
	return page
}

// CallHandler returns all calls
func (c Call) CallHandler(w http.ResponseWriter, r *http.Request) {
	Limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil {
		zap.S().Warnf(fmt.Sprintf("limit not set, using default of %v, err: %v", Limit|10, err))
	}
	limit64 := int64(Limit)
	page := getPage(0, r)
	skip64 := int64(page * Limit)
	dbResp, err := c.DB.Find(context.TODO(), bson.D{}, &options.FindOptions{Limit: &limit64, Skip: &skip64})
	if err != nil {
		config.ErrorStatus("failed to get calls", http.StatusInternalServerError, w, err)
		return
	}
	// Because the frontend requires that the data elements inside models.Call
	// exist, if len == 0 then we will just return an empty data object
	if len(dbResp) == 0 {
		dbResp = []models.Call{}
	}
	b, err := json.Marshal(dbResp)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// CreateCallHandler logs a new call. The id, date and time come from the
// serving node at the moment of insertion, never from the client.
func (c Call) CreateCallHandler(w http.ResponseWriter, r *http.Request) {
	var requestBody models.NewCallPayload
	if err := json.NewDecoder(r.Body).Decode(&requestBody); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	if err := validate.Struct(requestBody); err != nil {
		config.ErrorStatus("call failed validation", http.StatusBadRequest, w, err)
		return
	}

	now := time.Now()
	newCall := models.Call{
		ID:           primitive.NewObjectID().Hex(),
		LeadName:     requestBody.LeadName,
		Caller:       requestBody.Caller,
		CallType:     requestBody.CallType,
		Duration:     requestBody.Duration,
		Outcome:      requestBody.Outcome,
		Date:         now.Format("2006-01-02"),
		Time:         now.Format("15:04"),
		Notes:        requestBody.Notes,
		NextAction:   requestBody.NextAction,
		NextFollowUp: requestBody.NextFollowUp,
	}

	if _, err := c.DB.InsertOne(context.Background(), newCall); err != nil {
		config.ErrorStatus("failed to create call", http.StatusInternalServerError, w, err)
		return
	}

	b, err := json.Marshal(newCall)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	w.Write(b)
}

// UpdateCallByIDHandler updates a call by ID. Only the supplied fields are
// changed; everything else on the record stays as it was.
func (c Call) UpdateCallByIDHandler(w http.ResponseWriter, r *http.Request) {
	callID := mux.Vars(r)["call_id"]

	var requestBody map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&requestBody); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	// id is immutable and date/time are fixed at insertion
	for _, key := range []string{"id", "_id", "date", "time"} {
		delete(requestBody, key)
	}
	if len(requestBody) == 0 {
		config.ErrorStatus("no updatable fields supplied", http.StatusBadRequest, w, fmt.Errorf("empty update for call %s", callID))
		return
	}

	updateFields := bson.M{}
	for key, value := range requestBody {
		updateFields[key] = value
	}

	update := bson.M{
		"$set": updateFields,
	}

	dbResp, err := c.DB.UpdateOne(context.Background(), bson.M{"_id": callID}, update)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			config.ErrorStatus("call not found", http.StatusNotFound, w, err)
			return
		}
		config.ErrorStatus("failed to update call", http.StatusInternalServerError, w, err)
		return
	}

	b, err := json.Marshal(dbResp)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// DeleteCallByIDHandler deletes a call by ID. Deleting an id that is already
// gone is a not-found, consistent with the other by-id operations.
func (c Call) DeleteCallByIDHandler(w http.ResponseWriter, r *http.Request) {
	callID := mux.Vars(r)["call_id"]

	deleted, err := c.DB.DeleteOne(context.Background(), bson.M{"_id": callID})
	if err != nil {
		config.ErrorStatus("failed to delete call", http.StatusInternalServerError, w, err)
		return
	}
	if deleted == 0 {
		config.ErrorStatus("call not found", http.StatusNotFound, w, fmt.Errorf("no call found with id %s", callID))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
