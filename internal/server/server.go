// Package server sets up the HTTP server, router, and all route definitions.
//
// SERVER ARCHITECTURE:
// This package is the "wiring" layer — it connects handlers, middleware, and routes.
// Think of it as the control centre that decides:
// - Which URL patterns map to which handler functions
// - What middleware runs on which routes
// - How the server starts and stops gracefully
//
// WHY SEPARATE FROM main.go?
// Keeping server setup in its own package makes it:
// - Testable (we can create a test server without running main)
// - Reusable (multiple entry points could use the same server config)
// - Clean (main.go stays minimal — just "load config, start the server")
//
// DEPENDENCY INJECTION FLOW:
// main.go loads config.Config and hands it to New(), which assembles the
// whole chain in one place (the "composition root"):
//
//	sqlite.DB → repositories → services → handlers → routes
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
	"github.com/prometheus/client_golang/prometheus"

	"github.com/specia/specia-server/internal/auth"
	"github.com/specia/specia-server/internal/config"
	"github.com/specia/specia-server/internal/handler"
	"github.com/specia/specia-server/internal/metrics"
	"github.com/specia/specia-server/internal/middleware"
	"github.com/specia/specia-server/internal/model"
	sqliteRepo "github.com/specia/specia-server/internal/repository/sqlite"
	"github.com/specia/specia-server/internal/service"
)

// Server represents the HTTP server and all its dependencies.
//
// RESOURCE MANAGEMENT:
// The Server owns the database connection. When the server shuts down it
// must close it to flush the WAL and release the file lock; Start() handles
// that during graceful shutdown.
type Server struct {
	router *chi.Mux
	config config.Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New creates a Server with the given config.
//
// This is where the entire dependency chain is assembled:
//  1. Open the database (sqlite.New runs the migrations)
//  2. Build the auth primitives (token + password services)
//  3. Build the service layer on the repository interfaces
//  4. Build the handlers on the services and wire the routes
//
// Each layer only receives what it needs: services see repository
// interfaces, handlers see services. The handler never touches the
// database directly, and the service never touches HTTP.
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

// setupRoutes configures all middleware and route handlers.
//
// ROUTE STRUCTURE:
//
//	Public:
//	  GET  /api/health                 → liveness probe
//	  POST /api/auth/register          → signup
//	  POST /api/auth/login             → login
//	  GET  /api/auth/check-email       → email availability
//	  GET  /api/auth/{provider}        → social-login redirect
//	  GET  /api/company                → company profile
//	  GET  /api/services               → service catalog
//	  POST /api/contact                → contact-form submission
//	  GET  /metrics                    → Prometheus scrape
//
//	Authenticated (Bearer token):
//	  GET  /api/auth/me                → own profile
//	  /api/mypage/**                   → own records
//
//	Admin (Bearer token + admin role):
//	  /api/admin/users/**              → member management
//	  contact moderation, company/catalog edit routes
//
// MIDDLEWARE ORDER MATTERS:
// Middleware executes in the order it's added:
// 1. RequestID — assigns unique ID to each request (for tracing)
// 2. RealIP — extracts real client IP from proxy headers
// 3. Logger — logs each request with timing info
// 4. Recoverer — catches panics and returns 500 instead of crashing
// 5. CORS — the frontend is served from a different origin
// 6. Metrics — counts and times every request
func (s *Server) setupRoutes() error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(chimiddleware.Recoverer)

	// The frontend is a static site on another origin, so CORS is load-bearing:
	// without it every browser call fails. An empty AllowedOrigin means
	// development — allow anything.
	origins := []string{"*"}
	if s.config.AllowedOrigin != "" {
		origins = []string{s.config.AllowedOrigin}
	}
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)
	s.router.Use(collector.Middleware)

	// === AUTH PRIMITIVES ===
	tokens, err := auth.NewTokenService(s.config.JWTSecret)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}
	passwords := auth.NewPasswordService()

	providers := []*auth.SocialProvider{
		auth.NewKakaoProvider(s.config.KakaoClientID, s.config.BaseURL),
		auth.NewNaverProvider(s.config.NaverClientID, s.config.BaseURL),
		auth.NewGoogleProvider(s.config.GoogleClientID, s.config.BaseURL),
	}

	// === SERVICES ===
	users := s.db.Users()
	authService := service.NewAuthService(users, tokens, passwords, collector, s.logger)
	recordService := service.NewRecordService(s.db.Services(), s.db.DCs(), s.logger)
	adminService := service.NewAdminService(users, s.db.Services(), s.db.DCs(), recordService, s.logger)
	inquiryService := service.NewInquiryService(s.db.Inquiries(), collector, s.logger)
	contentService := service.NewContentService(s.db.Content(), s.logger)

	// === HANDLERS ===
	authHandler := handler.NewAuthHandler(authService, providers, s.config.FrontendURL, s.logger)
	myPageHandler := handler.NewMyPageHandler(recordService, s.logger)
	adminHandler := handler.NewAdminHandler(adminService, s.logger)
	contactHandler := handler.NewContactHandler(inquiryService, s.logger)
	contentHandler := handler.NewContentHandler(contentService, s.logger)

	authenticate := auth.Authenticate(tokens, users)
	requireAdmin := auth.RequireRole(model.RoleAdmin)

	s.router.Handle("/metrics", metrics.Handler(registry))

	s.router.Route("/api", func(r chi.Router) {
		// === PUBLIC ROUTES ===
		r.Get("/health", handler.HandleHealth)

		r.Post("/auth/register", authHandler.HandleRegister)
		r.Post("/auth/login", authHandler.HandleLogin)
		r.Get("/auth/check-email", authHandler.HandleCheckEmail)
		r.Get("/auth/kakao", authHandler.HandleSocialLogin(model.ProviderKakao))
		r.Get("/auth/naver", authHandler.HandleSocialLogin(model.ProviderNaver))
		r.Get("/auth/google", authHandler.HandleSocialLogin(model.ProviderGoogle))

		r.Get("/company", contentHandler.HandleGetCompany)
		r.Get("/services", contentHandler.HandleGetCatalog)
		r.Post("/contact", contactHandler.HandleSubmit)

		// === AUTHENTICATED ROUTES ===
		r.Group(func(r chi.Router) {
			r.Use(authenticate)

			r.Get("/auth/me", authHandler.HandleMe)

			r.Route("/mypage", func(r chi.Router) {
				r.Get("/services/counts", myPageHandler.HandleCounts)
				r.Post("/services", myPageHandler.HandleCreateService)
				r.Get("/services/general", myPageHandler.HandleListServices(model.ServiceGeneral))
				r.Get("/services/subscription", myPageHandler.HandleListServices(model.ServiceSubscription))
				r.Post("/dc", myPageHandler.HandleCreateDC)
				r.Get("/dc", myPageHandler.HandleListDC)
			})
		})

		// === ADMIN ROUTES ===
		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Use(requireAdmin)

			r.Route("/admin/users", func(r chi.Router) {
				r.Get("/", adminHandler.HandleListUsers)
				r.Get("/{userID}/mypage", adminHandler.HandleUserOverview)
				r.Put("/{userID}", adminHandler.HandleUpdateUser)
				r.Delete("/{userID}", adminHandler.HandleDeleteUser)

				r.Post("/{userID}/services", adminHandler.HandleCreateUserService)
				r.Put("/{userID}/services/{id}", adminHandler.HandleUpdateUserService)
				r.Delete("/{userID}/services/{id}", adminHandler.HandleDeleteUserService)

				r.Post("/{userID}/dc", adminHandler.HandleCreateUserDC)
				r.Put("/{userID}/dc/{id}", adminHandler.HandleUpdateUserDC)
				r.Delete("/{userID}/dc/{id}", adminHandler.HandleDeleteUserDC)
			})

			r.Get("/contact", contactHandler.HandleList)
			r.Get("/contact/{id}", contactHandler.HandleGet)
			r.Put("/contact/{id}/status", contactHandler.HandleSetStatus)
			r.Delete("/contact", contactHandler.HandleDeleteMany)

			r.Post("/company", contentHandler.HandleSaveCompany)
			r.Put("/services", contentHandler.HandleSaveCatalog)
		})
	})

	return nil
}

// Router exposes the configured router for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// Start starts the HTTP server and handles graceful shutdown.
//
// GRACEFUL SHUTDOWN:
// 1. Stop accepting new HTTP connections
// 2. Wait for in-flight requests to finish (30s timeout)
// 3. Close the database connection (flushes WAL, releases the file lock)
//
// The `defer s.db.Close()` ensures step 3 happens even if something panics.
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
			slog.String("url", fmt.Sprintf("http://localhost:%d", s.config.Port)),
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

		// Give in-flight requests 30 seconds to complete
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
