package server

import (
	"context"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/eventdeckhq/eventdeck/pkg/auth"
	"github.com/eventdeckhq/eventdeck/pkg/config"
	"github.com/eventdeckhq/eventdeck/pkg/server/store"
	gormstore "github.com/eventdeckhq/eventdeck/pkg/server/store/gorm"
	"github.com/eventdeckhq/eventdeck/pkg/storage"
	"github.com/eventdeckhq/eventdeck/pkg/worker"
)

// Stores bundles the storage interfaces the endpoints depend on.
type Stores struct {
	Users      store.UsersStore
	Events     store.EventsStore
	Organizers store.OrganizersStore
	Tags       store.TagsStore
	Bookmarks  store.BookmarksStore
	Places     store.PlacesStore
	Audit      store.AuditStore
	Health     store.HealthStore
}

// NewGormStores builds the full store set backed by the given database.
func NewGormStores(database *gorm.DB) Stores {
	return Stores{
		Users:      gormstore.NewUsersStore(database),
		Events:     gormstore.NewEventsStore(database),
		Organizers: gormstore.NewOrganizersStore(database),
		Tags:       gormstore.NewTagsStore(database),
		Bookmarks:  gormstore.NewBookmarksStore(database),
		Places:     gormstore.NewPlacesStore(database),
		Audit:      gormstore.NewAuditStore(database),
		Health:     gormstore.NewHealthStore(database),
	}
}

type Server struct {
	Router  *mux.Router
	DB      *gorm.DB
	Config  *config.EventdeckConfig
	Stores  Stores
	Tokens  *auth.TokenService
	Storage storage.ObjectStore
	Pool    *worker.Pool
	srv     *http.Server
}

func NewServer(
	db *gorm.DB,
	cfg *config.EventdeckConfig,
	stores Stores,
	tokens *auth.TokenService,
	objects storage.ObjectStore,
	pool *worker.Pool,
	host string,
	port string,
) *Server {

	router := mux.NewRouter().UseEncodedPath()

	cors := handlers.CORS(
		handlers.AllowedOrigins(cfg.CORSAllowedOrigins),
		handlers.AllowedMethods([]string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPatch,
			http.MethodDelete,
			http.MethodOptions,
		}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization", "Accept", "X-Requested-With"}),
		handlers.AllowCredentials(),
	)

	srv := &http.Server{
		Handler: handlers.LoggingHandler(os.Stdout, cors(router)),
		Addr:    host + ":" + port,
		// Good practice: enforce timeouts for servers you create!
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
	}

	return &Server{
		Router:  router,
		DB:      db,
		Config:  cfg,
		Stores:  stores,
		Tokens:  tokens,
		Storage: objects,
		Pool:    pool,
		srv:     srv,
	}
}

func (s *Server) Start() error {
	return s.srv.ListenAndServe()
}

// StartWithListener serves on an existing listener. Used by tests that
// need an ephemeral port.
func (s *Server) StartWithListener(l net.Listener) error {
	return s.srv.Serve(l)
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
