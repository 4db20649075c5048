package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/lavyajn/Hackathon-Vortexa/vortexa/config"
	"github.com/lavyajn/Hackathon-Vortexa/vortexa/controllers"
	"github.com/lavyajn/Hackathon-Vortexa/vortexa/middlewares"
	"github.com/lavyajn/Hackathon-Vortexa/vortexa/routes"
	"github.com/lavyajn/Hackathon-Vortexa/vortexa/services/strategist"
	"github.com/lavyajn/Hackathon-Vortexa/vortexa/sources/kv"
	"github.com/lavyajn/Hackathon-Vortexa/vortexa/store"
	"github.com/lavyajn/Hackathon-Vortexa/vortexa/utils/logging"
)

func main() {
	logging.InitLogger()
	cfg := config.LoadConfig()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	kvStore, err := openKV(ctx, cfg)
	if err != nil {
		logging.ErrorLogger.Error("kv store open error", zap.Error(err))
		os.Exit(1)
	}
	defer kvStore.Close()

	sessions := store.NewSessionStore(ctx, kvStore)
	reminders := store.NewReminderStore(ctx, kvStore)
	backend := strategist.NewHTTPClient(cfg.StrategistURL)

	chatCtrl := controllers.NewChatController(sessions, backend, cfg.ParsePrompts, cfg.HistoryWindow)
	remCtrl := controllers.NewRemindersController(reminders)
	healthCtrl := controllers.NewHealthController()

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(90 * time.Second))
	r.Use(middlewares.CORS([]string{"*"}))

	r.Get("/health", healthCtrl.HealthCheck)
	api := chi.NewRouter()
	api.Mount("/reminders", routes.ReminderRoutes(remCtrl))
	api.Mount("/", routes.ChatRoutes(chatCtrl, sessions))
	r.Mount("/api", api)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}
	go func() {
		logging.AppLogger.Info("server listening", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.ErrorLogger.Error("server listen error", zap.Error(err))
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.ErrorLogger.Error("server shutdown error", zap.Error(err))
	}
	logging.AppLogger.Info("server shutdown complete")
}

func openKV(ctx context.Context, cfg config.Config) (kv.Store, error) {
	switch cfg.KVDriver {
	case "postgres":
		return kv.NewPostgresStore(ctx, cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName)
	case "memory":
		return kv.NewMemoryStore(), nil
	default:
		return kv.NewSQLiteStore(cfg.SQLitePath)
	}
}
