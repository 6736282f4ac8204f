package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/doodlesbykumbi/blog-in-go/pkg/config"
	"github.com/doodlesbykumbi/blog-in-go/pkg/logger"
	"github.com/doodlesbykumbi/blog-in-go/pkg/server/middleware"
	"github.com/doodlesbykumbi/blog-in-go/pkg/server/respond"
	"github.com/doodlesbykumbi/blog-in-go/pkg/server/store"
	"github.com/doodlesbykumbi/blog-in-go/pkg/service"
	"github.com/doodlesbykumbi/blog-in-go/pkg/token"
)

// Stores groups the storage backends a Server is built on.
type Stores struct {
	Users  store.UsersStore
	Blogs  store.BlogsStore
	Files  store.FilesStore
	Health store.HealthStore
}

type Server struct {
	Config *config.Config
	Logger *logger.Logger
	Router *mux.Router
	DB     *gorm.DB

	UsersStore  store.UsersStore
	BlogsStore  store.BlogsStore
	FilesStore  store.FilesStore
	HealthStore store.HealthStore

	Tokens        *token.Service
	Authenticator *middleware.Authenticator
	Guard         *middleware.Guard

	Users *service.UserService
	Blogs *service.BlogService
	Files *service.FileService

	// StartTime is when the process started serving
	StartTime time.Time

	srv *http.Server
}

// NewServer wires services and middleware over stores. cfg must already
// be validated; db may be nil when the stores do not need it.
func NewServer(cfg *config.Config, l *logger.Logger, db *gorm.DB, stores Stores) (*Server, error) {
	if l == nil {
		l = logger.Nop()
	}

	tokens, err := token.NewService([]byte(cfg.JWTSecret), cfg.TokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to create token service: %w", err)
	}

	var active middleware.ActiveChecker
	if cfg.RejectInactive {
		active = stores.Users
	}

	router := mux.NewRouter()
	router.Use(middleware.Instrument)
	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respond.Error(w, http.StatusNotFound, "route not found: "+r.Method+" "+r.URL.Path)
	})
	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respond.Error(w, http.StatusMethodNotAllowed, "method not allowed: "+r.Method+" "+r.URL.Path)
	})

	s := &Server{
		Config: cfg,
		Logger: l,
		Router: router,
		DB:     db,

		UsersStore:  stores.Users,
		BlogsStore:  stores.Blogs,
		FilesStore:  stores.Files,
		HealthStore: stores.Health,

		Tokens:        tokens,
		Authenticator: middleware.NewAuthenticator(tokens, active, l.Named("Authenticator")),
		Guard:         middleware.NewGuard(stores.Users, l.Named("Guard")),

		Users: service.NewUserService(stores.Users, tokens, cfg.BcryptCost, l.Logger),
		Blogs: service.NewBlogService(stores.Blogs, stores.Users, l.Logger),
		Files: service.NewFileService(stores.Files, cfg.MaxUploadSize, l.Logger),

		StartTime: time.Now(),
	}

	// Uploads lift the read and write timeouts to cfg.UploadTimeout
	s.srv = &http.Server{
		Handler:           s.Handler(),
		Addr:              cfg.Addr(),
		ReadHeaderTimeout: 15 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ErrorLog:          log.New(l.Writer(), "", 0),
	}
	return s, nil
}

// Handler returns the router wrapped in CORS, panic recovery and access
// logging.
func (s *Server) Handler() http.Handler {
	var h http.Handler = s.Router
	h = handlers.CORS(
		handlers.AllowedOrigins(s.Config.CORSAllowedOrigins),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "PATCH"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
	)(h)
	h = handlers.RecoveryHandler(
		handlers.RecoveryLogger(recoveryLogger{s.Logger.Named("Recovery")}),
	)(h)
	return handlers.LoggingHandler(s.Logger.Writer(), h)
}

// Start listens on the configured address until Shutdown is called.
func (s *Server) Start() error {
	s.Logger.Info("Server listening", zap.String("addr", s.srv.Addr))
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

type recoveryLogger struct {
	log *zap.Logger
}

func (r recoveryLogger) Println(v ...interface{}) {
	r.log.Error("Recovered from panic", zap.String("panic", fmt.Sprint(v...)))
}
