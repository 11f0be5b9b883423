package server

import (
	"context"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"

	"hrportal/internal/authz"
	"hrportal/internal/domain/employees"
	"hrportal/internal/identity"
	"hrportal/internal/platform/config"
	"hrportal/internal/platform/db"
	"hrportal/internal/platform/requestctx"
	"hrportal/internal/transport/http/api"
	"hrportal/internal/transport/http/gate"
	authhandler "hrportal/internal/transport/http/handlers/auth"
	employeeshandler "hrportal/internal/transport/http/handlers/employees"
	reportshandler "hrportal/internal/transport/http/handlers/reports"
	"hrportal/internal/transport/http/middleware"
)

func Run() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config invalid: %v", err)
	}

	catalog, err := loadCatalog(cfg)
	if err != nil {
		log.Fatalf("catalog invalid: %v", err)
	}
	authorizer := authz.NewAuthorizer(catalog)

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}
	defer pool.Close()

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, "migrations"); err != nil {
			log.Fatalf("migrations failed: %v", err)
		}
	}
	if cfg.RunSeed {
		if err := db.Seed(ctx, pool, cfg); err != nil {
			log.Fatalf("seed failed: %v", err)
		}
	}

	identityStore := identity.NewStore(pool)
	identityService := identity.NewService(identityStore, cfg.JWTSecret, cfg.TokenTTL)
	employeeStore := employees.NewStore(pool)

	isProd := cfg.Environment == "production"

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.SecureHeaders(isProd))
	router.Use(middleware.Auth(cfg.JWTSecret, identityStore))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := pool.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	router.Route("/api/v1", func(r chi.Router) {
		authhandler.NewHandler(identityService, catalog, isProd).RegisterRoutes(r)
		employeeshandler.NewHandler(employeeStore, authorizer).RegisterRoutes(r)
		reportshandler.NewHandler(catalog, authorizer).RegisterRoutes(r)

		// Settings is served through the declarative gate: holders of
		// settings.view get the payload, everyone else gets nothing.
		settingsGate := gate.New(authorizer, authz.Single(authz.PermSettingsView))
		r.Method(http.MethodGet, "/settings", settingsGate.Handler(http.HandlerFunc(handleSettings), nil))
	})

	spa := spaHandler{staticPath: cfg.FrontendDir, indexPath: "index.html"}
	adminPages := middleware.PageGuard("/login", "/unauthorized", authz.RoleSuperAdmin, authz.RoleHRAdministrator)
	router.With(adminPages).Mount("/admin", spa)
	router.Mount("/", spa)

	log.Printf("HR portal listening on %s", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, router); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}

func loadCatalog(cfg config.Config) (*authz.Catalog, error) {
	if cfg.CatalogFile != "" {
		return authz.LoadCatalogFile(cfg.CatalogFile)
	}
	return authz.NewCatalog(authz.DefaultTable())
}

func handleSettings(w http.ResponseWriter, r *http.Request) {
	api.Success(w, map[string]any{
		"organizationName": "HR Portal",
		"leaveYearStart":   "01-01",
		"workingDays":      []string{"mon", "tue", "wed", "thu", "fri"},
	}, requestctx.GetRequestID(r.Context()))
}

type spaHandler struct {
	staticPath string
	indexPath  string
}

func (h spaHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	path := filepath.Join(h.staticPath, r.URL.Path)
	_, err := os.Stat(path)
	if err == nil {
		http.FileServer(http.Dir(h.staticPath)).ServeHTTP(w, r)
		return
	}
	if os.IsNotExist(err) {
		http.ServeFile(w, r, filepath.Join(h.staticPath, h.indexPath))
		return
	}
	http.NotFound(w, r)
}
