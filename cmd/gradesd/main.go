package main

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	api "github.com/mind-engage/mindengage-grades/internal/api/http"
	auth "github.com/mind-engage/mindengage-grades/internal/auth/middleware"
	"github.com/mind-engage/mindengage-grades/internal/config"
	"github.com/mind-engage/mindengage-grades/internal/course"
	"github.com/mind-engage/mindengage-grades/internal/db"
	"github.com/mind-engage/mindengage-grades/internal/gradebook"
	"github.com/mind-engage/mindengage-grades/internal/logging"
	"github.com/mind-engage/mindengage-grades/internal/metrics"
	rbac "github.com/mind-engage/mindengage-grades/internal/rbac"
	storage "github.com/mind-engage/mindengage-grades/internal/storage"
	syncx "github.com/mind-engage/mindengage-grades/internal/sync"
)

func main() {
	cfg := config.FromEnv()

	log, err := logging.New(cfg.LogLevel, cfg.Mode == config.ModeOffline)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	// --- DB ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		log.Fatal("db open failed", zap.Error(err))
	}
	defer dbh.Close()

	users := auth.NewUserRepo(dbh)
	if cfg.AdminUser != "" && cfg.AdminPassHash != "" {
		if err := users.EnsureAdmin(ctx, cfg.AdminUser, cfg.AdminPassHash); err != nil {
			log.Fatal("bootstrap admin", zap.Error(err))
		}
	}
	authSvc := auth.NewAuthService(cfg.AuthSecret)

	bs, err := storage.NewFSStore(cfg.BlobBasePath)
	if err != nil {
		log.Fatal("blob store", zap.Error(err))
	}
	events := syncx.NewEventRepo(dbh, "")

	opts := []gradebook.Option{
		gradebook.WithBlobStore(bs),
		gradebook.WithEvents(events),
		gradebook.WithLogger(log.Named("gradebook")),
		gradebook.WithBounds(course.Bounds{Min: cfg.GradeMin, Max: cfg.GradeMax}),
		gradebook.WithMaxElectives(cfg.OptimizerMaxElectives),
	}
	var rec *metrics.Recorder
	if cfg.EnableMetrics {
		rec = metrics.New()
		opts = append(opts, gradebook.WithMetrics(rec))
	}
	svc := gradebook.NewService(gradebook.NewSQLStore(dbh), opts...)

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, logging.RequestLogger(log), middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins(),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Post("/auth/login", auth.LoginHandler(authSvc, users))
	if cfg.EnableRegistration {
		r.Post("/auth/register", auth.RegisterHandler(authSvc, users))
	}

	// Protected API (JWT → stored role in context → RBAC)
	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(authSvc), auth.AttachRole(users))

		pr.Route("/gradebooks", func(gr chi.Router) {
			api.MountGradebooks(gr, svc)
		})
		pr.Route("/assets", func(ar chi.Router) {
			api.MountAssets(ar, bs)
		})

		pr.With(rbac.Require("user:change_password")).
			Post("/users/change-password", api.ChangePasswordHandler(users))
		pr.With(rbac.Require("events:read")).
			Get("/events", api.ListEventsHandler(events))
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if err := dbh.PingContext(r.Context()); err != nil {
			http.Error(w, "db unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(200)
	})
	if rec != nil {
		r.Handle("/metrics", rec.Handler())
	}

	log.Info("listening",
		zap.String("addr", cfg.HTTPAddr),
		zap.String("mode", string(cfg.Mode)),
		zap.String("db", cfg.DBDriver))
	if err := http.ListenAndServe(cfg.HTTPAddr, r); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}
