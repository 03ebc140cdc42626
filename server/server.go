package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"BeatWave/config"
	"BeatWave/core/auth"
	"BeatWave/core/event"
	"BeatWave/core/ledger"
	"BeatWave/core/wallet"
	"BeatWave/db"
	"BeatWave/logger"
	"BeatWave/model"
	"BeatWave/repository"
	"BeatWave/storage"

	"github.com/gorilla/mux"
)

// Start initializes and starts the HTTP server.
func Start() {
	cfg := config.Load()

	logger.InitLogger(logger.Config{
		Level:      logger.LogLevel(cfg.LogLevel),
		OutputPath: cfg.LogPath,
		MaxSize:    100,
		MaxBackups: 3,
		MaxAge:     cfg.LogMaxAge,
		Compress:   true,
	})

	auth.SetJWTSecret(cfg.JWTSecret)

	server := &http.Server{
		Addr:         cfg.ListenAddr,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	if err := storage.InitMinio(cfg); err != nil {
		logger.Fatal("Failed to initialize MinIO", logger.ErrorField(err))
	}

	if err := db.ConnectDB(cfg); err != nil {
		logger.Fatal("Failed to connect to database", logger.ErrorField(err))
	}
	defer db.DB.Close()

	if err := db.InitDB(); err != nil {
		logger.Fatal("Failed to initialize database", logger.ErrorField(err))
	}

	if err := db.ConnectGormDB(cfg); err != nil {
		logger.Fatal("Failed to connect to database with GORM", logger.ErrorField(err))
	}
	defer db.CloseGormDB()

	if err := db.AutoMigrateModels(&model.LedgerEvent{}); err != nil {
		logger.Fatal("Failed to migrate event journal", logger.ErrorField(err))
	}

	if err := db.ConnectRedis(cfg); err != nil {
		logger.Fatal("Failed to connect to Redis", logger.ErrorField(err))
	}
	defer db.CloseRedis()
	logger.Info("Successfully connected to Redis")

	beatRepo := repository.NewMySQLBeatRepository(db.DB)
	userRepo := repository.NewMySQLUserRepository(db.DB)
	eventRepo := repository.NewGormEventRepository(db.GormDB)
	payments := wallet.NewMySQLPayments(db.DB)

	hub := event.NewHub()
	go hub.Run()

	emitter := event.MultiEmitter{
		hub,
		&event.JournalEmitter{Repo: eventRepo},
		&event.RedisEmitter{Channel: cfg.RedisEventChannel},
	}

	store := ledger.NewStore(beatRepo, payments, emitter)
	apiHandler := NewAPIHandler(store, userRepo, eventRepo, hub, cfg)

	router := mux.NewRouter()

	// CORS middleware
	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			w.Header().Set("Access-Control-Max-Age", "86400")

			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	})

	// Auth endpoints
	router.HandleFunc("/api/auth/register", apiHandler.RegisterHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/auth/login", apiHandler.LoginHandler).Methods(http.MethodPost)

	// Beat ledger endpoints
	router.HandleFunc("/api/beats/content", apiHandler.AuthMiddleware(apiHandler.UploadContentHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/beats", apiHandler.AuthMiddleware(apiHandler.UploadBeatHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/beats", apiHandler.BrowseBeatsHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/beats/{id}", apiHandler.GetBeatHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/beats/{id}/list", apiHandler.AuthMiddleware(apiHandler.ListBeatForSaleHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/beats/{id}/unlist", apiHandler.AuthMiddleware(apiHandler.DeleteBeatForSaleHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/beats/{id}/buy", apiHandler.AuthMiddleware(apiHandler.BuyBeatHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/beats/{id}/like", apiHandler.AuthMiddleware(apiHandler.LikeBeatHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/beats/{id}/transfer", apiHandler.AuthMiddleware(apiHandler.TransferOwnerHandler)).Methods(http.MethodPost)

	// Wallet endpoints
	router.HandleFunc("/api/wallet", apiHandler.AuthMiddleware(apiHandler.GetWalletHandler)).Methods(http.MethodGet)
	router.HandleFunc("/api/wallet/deposit", apiHandler.AuthMiddleware(apiHandler.DepositHandler)).Methods(http.MethodPost)

	// Event endpoints
	router.HandleFunc("/api/events", apiHandler.GetEventsHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/events/ws", apiHandler.EventStreamHandler).Methods(http.MethodGet)

	// Stored beat audio
	router.PathPrefix("/content/").HandlerFunc(apiHandler.ServeContentHandler).Methods(http.MethodGet)

	server.Handler = router

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Server starting", logger.String("addr", cfg.ListenAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", logger.ErrorField(err))
		}
	}()

	<-stop
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", logger.ErrorField(err))
	}

	logger.Info("Server stopped")
}
