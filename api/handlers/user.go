package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/leadtrackr/lead-tracker-api/config"
	"github.com/leadtrackr/lead-tracker-api/databases"
	"github.com/leadtrackr/lead-tracker-api/models"
)

// User exported for testing purposes
type User struct {
	DB databases.UserDatabase
}

// UserHandler returns all users, newest first. A role query parameter narrows
// the roster to that role.
func (u User) UserHandler(w http.ResponseWriter, r *http.Request) {
	filter := bson.M{}
	if role := r.URL.Query().Get("role"); role != "" {
		filter["role"] = role
	}

	sort := options.Find().SetSort(bson.D{{Key: "_id", Value: -1}})
	dbResp, err := u.DB.Find(context.TODO(), filter, sort)
	if err != nil {
		config.ErrorStatus("failed to get users", http.StatusInternalServerError, w, err)
		return
	}
	// Because the frontend requires that the data elements inside models.User
	// exist, if len == 0 then we will just return an empty data object
	if len(dbResp) == 0 {
		dbResp = []models.User{}
	}
	b, err := json.Marshal(dbResp)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// UserByIDHandler returns a user by ID
func (u User) UserByIDHandler(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["user_id"]

	id, err := strconv.Atoi(userID)
	if err != nil {
		config.ErrorStatus("invalid user ID", http.StatusBadRequest, w, err)
		return
	}

	dbResp, err := u.DB.FindOne(context.Background(), bson.M{"_id": id})
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			config.ErrorStatus("user not found", http.StatusNotFound, w, err)
			return
		}
		config.ErrorStatus("failed to get user by ID", http.StatusInternalServerError, w, err)
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

// CreateUserHandler creates a new user. Department and status default to
// "General" and "active" when the payload leaves them empty.
func (u User) CreateUserHandler(w http.ResponseWriter, r *http.Request) {
	var requestBody models.NewUser
	if err := json.NewDecoder(r.Body).Decode(&requestBody); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	if err := validate.Struct(requestBody); err != nil {
		config.ErrorStatus("user failed validation", http.StatusBadRequest, w, err)
		return
	}

	if requestBody.Department == "" {
		requestBody.Department = "General"
	}
	if requestBody.Status == "" {
		requestBody.Status = "active"
	}

	id, err := u.DB.NextID(context.Background())
	if err != nil {
		config.ErrorStatus("failed to assign user id", http.StatusInternalServerError, w, err)
		return
	}

	newUser := models.User{
		ID:         id,
		Name:       requestBody.Name,
		Email:      requestBody.Email,
		Phone:      requestBody.Phone,
		Role:       requestBody.Role,
		Department: requestBody.Department,
		Status:     requestBody.Status,
	}

	if _, err := u.DB.InsertOne(context.Background(), newUser); err != nil {
		config.ErrorStatus("failed to create user", http.StatusInternalServerError, w, err)
		return
	}

	b, err := json.Marshal(newUser)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	w.Write(b)
}

// UpdateUserByIDHandler updates a user by ID. Only the supplied fields are
// changed, like call updates.
func (u User) UpdateUserByIDHandler(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["user_id"]

	id, err := strconv.Atoi(userID)
	if err != nil {
		config.ErrorStatus("invalid user ID", http.StatusBadRequest, w, err)
		return
	}

	var requestBody map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&requestBody); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	for _, key := range []string{"id", "_id"} {
		delete(requestBody, key)
	}
	if len(requestBody) == 0 {
		config.ErrorStatus("no updatable fields supplied", http.StatusBadRequest, w, fmt.Errorf("empty update for user %d", id))
		return
	}

	updateFields := bson.M{}
	for key, value := range requestBody {
		updateFields[key] = value
	}

	update := bson.M{
		"$set": updateFields,
	}

	dbResp, err := u.DB.UpdateOne(context.Background(), bson.M{"_id": id}, update)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			config.ErrorStatus("user not found", http.StatusNotFound, w, err)
			return
		}
		config.ErrorStatus("failed to update user", http.StatusInternalServerError, w, err)
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

// DeleteUserByIDHandler deletes a user by ID
func (u User) DeleteUserByIDHandler(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["user_id"]

	id, err := strconv.Atoi(userID)
	if err != nil {
		config.ErrorStatus("invalid user ID", http.StatusBadRequest, w, err)
		return
	}

	deleted, err := u.DB.DeleteOne(context.Background(), bson.M{"_id": id})
	if err != nil {
		config.ErrorStatus("failed to delete user", http.StatusInternalServerError, w, err)
		return
	}
	if deleted == 0 {
		config.ErrorStatus("user not found", http.StatusNotFound, w, fmt.Errorf("no user found with id %d", id))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
