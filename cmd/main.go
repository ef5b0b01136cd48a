package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"lamf-backend/internal/clients"
	"lamf-backend/internal/config"
	"lamf-backend/internal/logger"
	"lamf-backend/internal/repository"
	"lamf-backend/internal/seed"
	"lamf-backend/internal/service"
	"lamf-backend/internal/transport/rest"
	"lamf-backend/internal/transport/websocket"
	"lamf-backend/pkg/database/postgres"
)

func main() {
	logger.Init()
	defer logger.Sync()
	log := logger.Log

	if err := godotenv.Load(); err != nil {
		log.Info("no .env file found, using system env or defaults")
	}

	// top-level context which we can cancel on shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	cfg := config.Load()

	db := mustInitPostgres(cfg.Postgres)
	defer postgres.Close(db)

	if err := repository.InitSchema(db); err != nil {
		log.Fatal("schema init error", zap.Error(err))
	}
	if cfg.Seed {
		if err := seed.Run(ctx, db, log); err != nil {
			log.Fatal("seed error", zap.Error(err))
		}
	}

	// redis is an accelerator here, not a dependency; the dashboard works
	// uncached when it is down
	redisClient, err := initRedis(cfg.Redis)
	if err != nil {
		log.Warn("redis unavailable, dashboard caching disabled", zap.Error(err))
	} else {
		defer redisClient.Close()
	}

	storageClient, err := clients.NewLocalStorage(cfg.Storage.Dir, cfg.Storage.PublicPrefix, cfg.Storage.ExternalURL)
	if err != nil {
		log.Fatal("storage init error", zap.Error(err))
	}

	wsHub := websocket.NewHub()
	go wsHub.Run(ctx)
	wsClient := clients.NewWebSocketClient(wsHub)

	productRepo := repository.NewProductRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	applicationRepo := repository.NewApplicationRepository(db)
	collateralRepo := repository.NewCollateralRepository(db)
	loanRepo := repository.NewLoanRepository(db)
	dashboardRepo := repository.NewDashboardRepository(db)

	productSvc := service.NewProductService(productRepo)
	customerSvc := service.NewCustomerService(customerRepo, applicationRepo)
	dashboardSvc := service.NewDashboardService(dashboardRepo, snapshotCache(redisClient), log)
	applicationSvc := service.NewApplicationService(applicationRepo, productRepo, wsClient, dashboardSvc, log)
	collateralSvc := service.NewCollateralService(collateralRepo)
	loanSvc := service.NewLoanService(loanRepo, wsClient, dashboardSvc, log)
	reportSvc := service.NewReportService(loanRepo, storageClient, log)

	handler := rest.NewHandler(productSvc, customerSvc, applicationSvc, collateralSvc, loanSvc, dashboardSvc, reportSvc)
	router := handler.InitRouter()

	root := chi.NewRouter()

	// public: serve generated report files
	root.Get("/files/{file}", func(w http.ResponseWriter, r *http.Request) {
		file := chi.URLParam(r, "file")
		path := filepath.Join(storageClient.BaseDir, file)
		if _, err := os.Stat(path); err != nil {
			if os.IsNotExist(err) {
				http.NotFound(w, r)
				return
			}
			http.Error(w, "failed to access file", http.StatusInternalServerError)
			return
		}

		// prefer original filename in Content-Disposition (strip random prefix)
		orig := file
		if idx := strings.IndexByte(file, '_'); idx >= 0 {
			orig = file[idx+1:]
		}
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", orig))

		http.ServeFile(w, r, path)
	})

	// live event feed for the dashboard
	root.Get("/ws", wsHub.HandleWebSocket)

	root.Mount("/", router)

	corsHandler := withCORS(root)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      corsHandler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	srvErr := make(chan error, 1)
	go func() {
		log.Info("HTTP server listening", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			srvErr <- err
			return
		}
		srvErr <- nil
	}()

	// reports are transient downloads; sweep old ones periodically
	go func() {
		ticker := time.NewTicker(15 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := storageClient.CleanupOlderThan(24 * time.Hour); err != nil {
					log.Warn("storage cleanup error", zap.Error(err))
				}
			}
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-srvErr:
		if err != nil {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	case sig := <-stop:
		log.Info("shutdown signal received", zap.String("signal", sig.String()))

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Warn("HTTP server shutdown error", zap.Error(err))
		}

		// stop the websocket hub and background workers
		cancel()

		postgres.Close(db)
		if redisClient != nil {
			redisClient.Close()
		}

		log.Info("shutdown complete")
	}
}

func mustInitPostgres(cfg config.PostgresConfig) *sql.DB {
	db, err := postgres.NewPostgresConnection(postgres.ConnectionInfo{
		Host:     cfg.Host,
		Port:     cfg.Port,
		Username: cfg.User,
		DBName:   cfg.DBName,
		SSLMode:  cfg.SSLMode,
		Password: cfg.Password,
	})
	if err != nil {
		logger.Log.Fatal("postgres init error", zap.Error(err))
	}
	return db
}

func initRedis(cfg config.RedisConfig) (*clients.RedisClient, error) {
	return clients.NewRedisClient(clients.RedisConfig{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		MaxRetries:  cfg.MaxRetries,
		DialTimeout: time.Duration(cfg.DialTimeout) * time.Second,
		Timeout:     time.Duration(cfg.Timeout) * time.Second,
		Prefix:      cfg.Prefix,
	})
}

// snapshotCache keeps a typed nil out of the service's interface field when
// redis is down.
func snapshotCache(c *clients.RedisClient) service.SnapshotCache {
	if c == nil {
		return nil
	}
	return c
}

func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Vary", "Origin")

			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
