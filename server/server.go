package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wavehub/config"
	"wavehub/db"
	"wavehub/kv"
	"wavehub/logger"
	"wavehub/repository"
	"wavehub/storage"

	"github.com/gorilla/mux"
)

// Start initializes the collaborators and runs the HTTP server until
// SIGINT/SIGTERM, then drains for up to 5 seconds.
func Start() {
	cfg := config.Load()

	logger.Init(logger.Config{
		Level:      cfg.LogLevel,
		OutputPath: cfg.LogPath,
		MaxSize:    50,
		MaxBackups: 5,
		MaxAge:     14,
		Compress:   true,
	})
	defer logger.Sync()

	if err := db.ConnectRedis(cfg); err != nil {
		logger.Fatal("failed to connect to Redis", logger.ErrorField(err))
	}
	defer db.CloseRedis()
	logger.Info("connected to Redis")

	objects, err := storage.NewMinioStore(cfg)
	if err != nil {
		logger.Fatal("failed to initialize MinIO", logger.ErrorField(err))
	}
	logger.Info("connected to MinIO")

	store := kv.NewRedisStore(db.RedisClient)
	apiHandler := NewAPIHandler(
		repository.NewProfileRepository(store),
		repository.NewTrackRepository(store),
		repository.NewPlaylistRepository(store),
		repository.NewCredentialRepository(store),
		objects,
		cfg,
	)

	router := mux.NewRouter()
	router.Use(corsMiddleware)

	// Service-tier endpoints: any bearer credential will do.
	router.HandleFunc("/health", RequireBearer(apiHandler.HealthHandler)).Methods(http.MethodGet)
	router.HandleFunc("/signup", RequireBearer(apiHandler.SignupHandler)).Methods(http.MethodPost)
	router.HandleFunc("/login", RequireBearer(apiHandler.LoginHandler)).Methods(http.MethodPost)
	router.HandleFunc("/profile/{userId}", RequireBearer(apiHandler.GetProfileHandler)).Methods(http.MethodGet)
	router.HandleFunc("/users", RequireBearer(apiHandler.ListUsersHandler)).Methods(http.MethodGet)
	router.HandleFunc("/tracks/{userId}", RequireBearer(apiHandler.ListUserTracksHandler)).Methods(http.MethodGet)
	router.HandleFunc("/playlists/{userId}", RequireBearer(apiHandler.ListUserPlaylistsHandler)).Methods(http.MethodGet)

	// Session-tier endpoints: the bearer token must verify.
	router.HandleFunc("/profile", apiHandler.AuthMiddleware(apiHandler.UpdateProfileHandler)).Methods(http.MethodPut)
	router.HandleFunc("/upload-track", apiHandler.AuthMiddleware(apiHandler.UploadTrackHandler)).Methods(http.MethodPost)
	router.HandleFunc("/my-tracks", apiHandler.AuthMiddleware(apiHandler.MyTracksHandler)).Methods(http.MethodGet)
	router.HandleFunc("/track/{trackId}", apiHandler.AuthMiddleware(apiHandler.DeleteTrackHandler)).Methods(http.MethodDelete)
	router.HandleFunc("/playlists", apiHandler.AuthMiddleware(apiHandler.CreatePlaylistHandler)).Methods(http.MethodPost)

	router.NotFoundHandler = http.HandlerFunc(apiHandler.NotFoundHandler)

	server := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("server starting", logger.String("addr", cfg.ServerAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start server", logger.ErrorField(err))
		}
	}()

	<-stop
	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", logger.ErrorField(err))
	}

	logger.Info("server stopped")
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Max-Age", "86400")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
