package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/leadtrackr/lead-tracker-api/config"
	"github.com/leadtrackr/lead-tracker-api/databases"
	"github.com/leadtrackr/lead-tracker-api/models"
)

var validate = validator.New()

// Lead exported for testing purposes
type Lead struct {
	DB databases.LeadDatabase
}

// LeadHandler returns all leads, most recently created first
func (l Lead) LeadHandler(w http.ResponseWriter, r *http.Request) {
	sort := options.Find().SetSort(bson.D{{Key: "_id", Value: -1}})
	dbResp, err := l.DB.Find(context.TODO(), bson.D{}, sort)
	if err != nil {
		config.ErrorStatus("failed to get leads", http.StatusInternalServerError, w, err)
		return
	}
	// Because the frontend requires that the data elements inside models.Lead
	// exist, if len == 0 then we will just return an empty data object
	if len(dbResp) == 0 {
		dbResp = []models.Lead{}
	}
	b, err := json.Marshal(dbResp)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// LeadByIDHandler returns a lead by ID
func (l Lead) LeadByIDHandler(w http.ResponseWriter, r *http.Request) {
	leadID := mux.Vars(r)["lead_id"]

	zap.S().Debugf("lead_id: %v", leadID)

	id, err := strconv.Atoi(leadID)
	if err != nil {
		config.ErrorStatus("invalid lead ID", http.StatusBadRequest, w, err)
		return
	}

	dbResp, err := l.DB.FindOne(context.Background(), bson.M{"_id": id})
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			config.ErrorStatus("lead not found", http.StatusNotFound, w, err)
			return
		}
		config.ErrorStatus("failed to get lead by ID", http.StatusInternalServerError, w, err)
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

// CreateLeadHandler creates a new lead. The id comes from the counter
// sequence and email uniqueness is enforced by the unique index, so a
// duplicate surfaces as a single atomic insert failure.
func (l Lead) CreateLeadHandler(w http.ResponseWriter, r *http.Request) {
	var requestBody models.NewLead
	if err := json.NewDecoder(r.Body).Decode(&requestBody); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	if err := validate.Struct(requestBody); err != nil {
		config.ErrorStatus("lead failed validation", http.StatusBadRequest, w, err)
		return
	}

	followUp, err := parseFollowUpDate(requestBody.NextFollowUpDate)
	if err != nil {
		config.ErrorStatus("invalid nextFollowUpDate", http.StatusBadRequest, w, err)
		return
	}

	id, err := l.DB.NextID(context.Background())
	if err != nil {
		config.ErrorStatus("failed to assign lead id", http.StatusInternalServerError, w, err)
		return
	}

	newLead := models.Lead{
		ID:               id,
		CompanyName:      requestBody.CompanyName,
		Email:            requestBody.Email,
		ContactPerson:    requestBody.ContactPerson,
		Phone:            requestBody.Phone,
		Assignee:         requestBody.Assignee,
		Priority:         requestBody.Priority,
		Status:           requestBody.Status,
		Notes:            requestBody.Notes,
		NextFollowUpDate: followUp,
	}

	if _, err := l.DB.InsertOne(context.Background(), newLead); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			config.ErrorStatus("email already exists", http.StatusConflict, w, err)
			return
		}
		config.ErrorStatus("failed to create lead", http.StatusInternalServerError, w, err)
		return
	}

	zap.S().Debugw("lead created", "id", id)

	b, err := json.Marshal(newLead)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	w.Write(b)
}

// UpdateLeadByIDHandler replaces every mutable field of a lead. Unlike call
// updates this is a full replace, not a merge. The unique email index applies
// here too, so moving a lead onto another lead's email is a conflict.
func (l Lead) UpdateLeadByIDHandler(w http.ResponseWriter, r *http.Request) {
	leadID := mux.Vars(r)["lead_id"]

	id, err := strconv.Atoi(leadID)
	if err != nil {
		config.ErrorStatus("invalid lead ID", http.StatusBadRequest, w, err)
		return
	}

	var requestBody models.NewLead
	if err := json.NewDecoder(r.Body).Decode(&requestBody); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	if err := validate.Struct(requestBody); err != nil {
		config.ErrorStatus("lead failed validation", http.StatusBadRequest, w, err)
		return
	}

	followUp, err := parseFollowUpDate(requestBody.NextFollowUpDate)
	if err != nil {
		config.ErrorStatus("invalid nextFollowUpDate", http.StatusBadRequest, w, err)
		return
	}

	update := bson.M{
		"$set": bson.M{
			"companyName":      requestBody.CompanyName,
			"email":            requestBody.Email,
			"contactPerson":    requestBody.ContactPerson,
			"phone":            requestBody.Phone,
			"assignee":         requestBody.Assignee,
			"priority":         requestBody.Priority,
			"status":           requestBody.Status,
			"notes":            requestBody.Notes,
			"nextFollowUpDate": followUp,
		},
	}

	dbResp, err := l.DB.UpdateOne(context.Background(), bson.M{"_id": id}, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			config.ErrorStatus("email already exists", http.StatusConflict, w, err)
			return
		}
		if errors.Is(err, mongo.ErrNoDocuments) {
			config.ErrorStatus("lead not found", http.StatusNotFound, w, err)
			return
		}
		config.ErrorStatus("failed to update lead", http.StatusInternalServerError, w, err)
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

// parseFollowUpDate converts the wire value to a nullable timestamp. An empty
// value stores as null and must not be treated as a parse error.
func parseFollowUpDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("cannot parse %q as an ISO date", s)
}
