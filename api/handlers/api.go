package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	gorillahandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/linesmerrill/chat-relay-api/api"
	"github.com/linesmerrill/chat-relay-api/api/scheduler"
	"github.com/linesmerrill/chat-relay-api/chat"
	"github.com/linesmerrill/chat-relay-api/config"
	"github.com/linesmerrill/chat-relay-api/databases"
	"github.com/linesmerrill/chat-relay-api/databases/embedded"
	"github.com/linesmerrill/chat-relay-api/models"
)

// App stores the router and store handles, so it can be reused
type App struct {
	Router    *mux.Router
	Config    config.Config
	Metrics   *api.MetricsCollector
	Scheduler *scheduler.Scheduler

	participantDB databases.ParticipantDatabase
	messageDB     databases.MessageDatabase
	closers       []func(ctx context.Context) error
}

// New creates a new mux router and all the routes
func (a *App) New() *mux.Router {
	registry := chat.NewRegistry(a.participantDB, a.messageDB)
	registry.QueryTimeout = a.Config.QueryTimeout
	router := chat.NewRouter(registry, a.messageDB)
	router.QueryTimeout = a.Config.QueryTimeout
	feed := chat.NewFeed(registry, a.messageDB)
	feed.QueryTimeout = a.Config.QueryTimeout
	if a.Config.DefaultMessageLimit > 0 {
		feed.DefaultLimit = a.Config.DefaultMessageLimit
	}

	a.Metrics = api.NewMetricsCollector(a.Config.SlowRequest)
	a.Scheduler = scheduler.NewScheduler(
		chat.NewReaper(registry, a.messageDB, a.Config.InactivityThreshold),
		a.Config.ReaperPeriod,
		a.Metrics,
	)

	p := Participant{Registry: registry}
	m := Message{Router: router, Feed: feed}
	s := Status{Registry: registry}

	r := mux.NewRouter()
	r.Use(a.Metrics.Middleware)

	// healthchex
	r.HandleFunc("/", rootHandler).Methods("GET")
	r.HandleFunc("/health", healthCheckHandler).Methods("GET")
	r.HandleFunc("/metrics", a.Metrics.SummaryHandler).Methods("GET")

	r.Handle("/participants", api.Middleware(http.HandlerFunc(p.ParticipantsHandler))).Methods("GET")
	r.Handle("/participants", api.Middleware(http.HandlerFunc(p.CreateParticipantHandler))).Methods("POST")
	r.Handle("/messages", api.Middleware(http.HandlerFunc(m.MessagesHandler))).Methods("GET")
	r.Handle("/messages", api.Middleware(http.HandlerFunc(m.CreateMessageHandler))).Methods("POST")
	r.Handle("/status", api.Middleware(http.HandlerFunc(s.StatusHandler))).Methods("POST")

	return r
}

// Initialize opens the configured store and builds the router
func (a *App) Initialize(ctx context.Context) error {
	switch a.Config.StoreDriver {
	case config.StoreBadger:
		if err := a.openBadger(); err != nil {
			return err
		}
	case config.StoreMongo, "":
		if err := a.openMongo(ctx); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown store driver %q", a.Config.StoreDriver)
	}

	// initialize api router
	a.initializeRoutes()
	return nil
}

// UseStore builds the router on top of already opened databases
func (a *App) UseStore(participantDB databases.ParticipantDatabase, messageDB databases.MessageDatabase) {
	a.participantDB = participantDB
	a.messageDB = messageDB
	a.initializeRoutes()
}

func (a *App) openMongo(ctx context.Context) error {
	client, err := databases.NewClient(&a.Config)
	if err != nil {
		// if we fail to create a new database client, then kill the pod
		zap.S().Errorw("failed to create new client", "error", err)
		return err
	}

	qctx, cancel := context.WithTimeout(ctx, a.Config.QueryTimeout)
	defer cancel()
	if err := client.Connect(qctx); err != nil {
		// if we fail to connect to the database, then kill the pod
		zap.S().Errorw("failed to connect to database", "error", err)
		return err
	}
	a.closers = append(a.closers, client.Disconnect)

	dbHelper := databases.NewDatabase(&a.Config, client)
	if err := databases.EnsureParticipantIndexes(qctx, dbHelper); err != nil {
		zap.S().Errorw("failed to create participant indexes", "error", err)
		return err
	}
	a.participantDB = databases.NewParticipantDatabase(dbHelper)
	a.messageDB = databases.NewMessageDatabase(dbHelper)
	zap.S().Infow("chat-relay-api has connected to the database", "database", a.Config.DatabaseName)
	return nil
}

func (a *App) openBadger() error {
	store, err := embedded.Open(a.Config.BadgerPath)
	if err != nil {
		zap.S().Errorw("failed to open embedded store", "path", a.Config.BadgerPath, "error", err)
		return err
	}
	a.closers = append(a.closers, func(context.Context) error { return store.Close() })

	a.participantDB = store.Participants()
	a.messageDB = store.Messages()
	zap.S().Infow("chat-relay-api is using the embedded store", "path", a.Config.BadgerPath, "inMemory", a.Config.BadgerPath == "")
	return nil
}

func (a *App) initializeRoutes() {
	a.Router = a.New()
}

// Handler wraps the router with the cors policy
func (a *App) Handler() http.Handler {
	origins := a.Config.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return gorillahandlers.CORS(
		gorillahandlers.AllowedOrigins(origins),
		gorillahandlers.AllowedMethods([]string{"GET", "POST", "OPTIONS"}),
		gorillahandlers.AllowedHeaders([]string{"Content-Type", api.UserHeader}),
		gorillahandlers.ExposedHeaders([]string{api.RequestIDHeader}),
	)(a.Router)
}

// Close stops the reaper and releases the store
func (a *App) Close(ctx context.Context) error {
	if a.Scheduler != nil {
		a.Scheduler.Stop()
	}
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func rootHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, "OK")
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	b, _ := json.Marshal(models.HealthCheckResponse{
		Alive: true,
	})
	_, _ = io.WriteString(w, string(b))
}
