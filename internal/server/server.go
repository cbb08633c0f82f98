// Package server wires the HTTP router, middleware, and all route
// definitions. It is the composition root: every repository, service and
// handler is constructed here and nowhere else.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/plantyard/api/internal/auth"
	"github.com/plantyard/api/internal/config"
	"github.com/plantyard/api/internal/handler"
	"github.com/plantyard/api/internal/middleware"
	sqliteRepo "github.com/plantyard/api/internal/repository/sqlite"
	"github.com/plantyard/api/internal/service"
)

// Server owns the router and the database connection. The connection is
// closed during graceful shutdown in Start.
type Server struct {
	router *chi.Mux
	config config.Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New opens the database and assembles the full dependency chain:
// repositories from the DB, services over the repositories, handlers over
// the services, routes over the handlers.
func New(cfg config.Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}

	if err := s.setupRoutes(); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

func (s *Server) setupRoutes() error {
	tokens, err := auth.NewTokenService(
		s.config.JWTSecretKey,
		s.config.JWTRefreshSecretKey,
		s.config.AccessTokenTTL(),
		s.config.RefreshTokenTTL(),
	)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}
	passwords := auth.NewPasswordService(s.config.BcryptCost)

	authService := service.NewAuthService(
		s.db.Users(),
		s.db.Invites(),
		s.db.Groups(),
		tokens,
		passwords,
		s.logger,
	)
	plantService := service.NewPlantService(s.db.Plants(), s.logger)
	gardenService := service.NewGardenService(s.db.Groups(), s.db.UserPlants(), s.db.Notes(), s.logger)

	authHandler := handler.NewAuthHandler(authService, s.logger)
	userHandler := handler.NewUserHandler(authService, s.logger)
	plantHandler := handler.NewPlantHandler(plantService, s.logger)
	gardenHandler := handler.NewGardenHandler(gardenService, s.logger)

	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.config.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	s.router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	s.router.Route("/api", func(r chi.Router) {
		r.Post("/auth/login/", authHandler.HandleLogin)
		r.Get("/auth/refresh/", authHandler.HandleRefresh)

		r.Route("/users", func(r chi.Router) {
			r.Post("/register/", userHandler.HandleRegister)

			r.Group(func(r chi.Router) {
				r.Use(auth.RequireAuth(tokens))
				r.Get("/", userHandler.HandleList)
				r.Post("/invite/", userHandler.HandleInvite)
				r.Get("/invites/", userHandler.HandleListInvites)
				r.Get("/me/", userHandler.HandleMe)
				r.Post("/me/changepassword/", userHandler.HandleChangePassword)
				r.Get("/{user_id}/", userHandler.HandleGet)
			})
		})

		// The catalog resolves identity without the guard: requests without
		// a valid token still reach the handler.
		r.Route("/plants", func(r chi.Router) {
			r.Use(auth.IdentityOnly(tokens))
			r.Get("/", plantHandler.HandleList)
			r.Post("/create/", plantHandler.HandleCreate)
			r.Post("/update/", plantHandler.HandleUpdate)
			r.Get("/{plant_id}/", plantHandler.HandleGet)
		})

		r.Route("/userplants", func(r chi.Router) {
			r.Use(auth.RequireAuth(tokens))
			r.Get("/", gardenHandler.HandleDashboard)
			r.Post("/create/", gardenHandler.HandleCreateUserPlant)
			r.Post("/water/", gardenHandler.HandleWater)
			r.Get("/{plant_id}/", gardenHandler.HandleGetUserPlant)
			r.Post("/{plant_id}/update/", gardenHandler.HandleUpdateUserPlant)
			r.Delete("/{plant_id}/delete/", gardenHandler.HandleDeleteUserPlant)
			r.Post("/{plant_id}/notes/", gardenHandler.HandleAddNote)
			r.Get("/{plant_id}/notes/", gardenHandler.HandleListNotes)
		})

		r.Route("/usergroups", func(r chi.Router) {
			r.Use(auth.RequireAuth(tokens))
			r.Post("/create/", gardenHandler.HandleCreateGroup)
			r.Post("/{group_id}/update/", gardenHandler.HandleRenameGroup)
		})
	})

	return nil
}

// Router exposes the configured mux, mainly for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// Start runs the HTTP server until SIGINT/SIGTERM, then drains in-flight
// requests and closes the database.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("database", s.config.DBPath),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
