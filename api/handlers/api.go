package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/leadtrackr/lead-tracker-api/api"
	"github.com/leadtrackr/lead-tracker-api/api/scheduler"
	"github.com/leadtrackr/lead-tracker-api/config"
	"github.com/leadtrackr/lead-tracker-api/databases"
	"github.com/leadtrackr/lead-tracker-api/models"
)

// App stores the router and db connection, so it can be reused
type App struct {
	Router    *mux.Router
	Config    config.Config
	Scheduler *scheduler.Scheduler
	dbHelper  databases.DatabaseHelper
}

// New creates a new mux router and all the routes
func (a *App) New() *mux.Router {
	r := mux.NewRouter()

	l := Lead{DB: databases.NewLeadDatabase(a.dbHelper)}
	c := Call{DB: databases.NewCallDatabase(a.dbHelper)}
	u := User{DB: databases.NewUserDatabase(a.dbHelper)}

	// healthchex
	r.HandleFunc("/health", healthCheckHandler)

	apiCreate := r.PathPrefix("/api/v1").Subrouter()
	apiCreate.Use(api.LoggingMiddleware)
	apiCreate.Use(api.TimeoutMiddleware(30 * time.Second))

	apiCreate.Handle("/leads", http.HandlerFunc(l.LeadHandler)).Methods("GET")
	apiCreate.Handle("/leads", http.HandlerFunc(l.CreateLeadHandler)).Methods("POST")
	apiCreate.Handle("/leads/{lead_id}", http.HandlerFunc(l.LeadByIDHandler)).Methods("GET")
	apiCreate.Handle("/leads/{lead_id}", http.HandlerFunc(l.UpdateLeadByIDHandler)).Methods("PUT")

	apiCreate.Handle("/calls", http.HandlerFunc(c.CallHandler)).Methods("GET")
	apiCreate.Handle("/calls", http.HandlerFunc(c.CreateCallHandler)).Methods("POST")
	apiCreate.Handle("/calls/stats", http.HandlerFunc(c.CallStatsHandler)).Methods("GET")
	apiCreate.Handle("/calls/{call_id}", http.HandlerFunc(c.UpdateCallByIDHandler)).Methods("PUT")
	apiCreate.Handle("/calls/{call_id}", http.HandlerFunc(c.DeleteCallByIDHandler)).Methods("DELETE")

	apiCreate.Handle("/users", http.HandlerFunc(u.UserHandler)).Methods("GET")
	apiCreate.Handle("/users", http.HandlerFunc(u.CreateUserHandler)).Methods("POST")
	apiCreate.Handle("/users/{user_id}", http.HandlerFunc(u.UserByIDHandler)).Methods("GET")
	apiCreate.Handle("/users/{user_id}", http.HandlerFunc(u.UpdateUserByIDHandler)).Methods("PUT")
	apiCreate.Handle("/users/{user_id}", http.HandlerFunc(u.DeleteUserByIDHandler)).Methods("DELETE")

	return r
}

// Initialize is invoked by main to connect with the database and create a router
func (a *App) Initialize() error {

	client, err := databases.NewClient(&a.Config)
	if err != nil {
		// if we fail to create a new database client, then kill the pod
		zap.S().With(err).Error("failed to create new client")
		return err
	}

	a.dbHelper = databases.NewDatabase(&a.Config, client)
	err = client.Connect()
	if err != nil {
		// if we fail to connect to the database, then kill the pod
		zap.S().With(err).Error("failed to connect to database")
		return err
	}
	zap.S().Info("lead-tracker-api has connected to the database")

	// the unique email index is the uniqueness guarantee for lead creation,
	// so refusing to start without it is deliberate
	leadDB := databases.NewLeadDatabase(a.dbHelper)
	if err := leadDB.EnsureIndexes(context.Background()); err != nil {
		zap.S().With(err).Error("failed to ensure lead indexes")
		return err
	}

	if a.Config.DigestEmail != "" {
		a.Scheduler = scheduler.New(leadDB, a.Config.DigestEmail)
		a.Scheduler.Start()
	}

	// initialize api router
	a.initializeRoutes()
	return nil
}

func (a *App) initializeRoutes() {
	a.Router = a.New()
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	b, _ := json.Marshal(models.HealthCheckResponse{
		Alive: true,
	})
	_, _ = io.WriteString(w, string(b))
}
