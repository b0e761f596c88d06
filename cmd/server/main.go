package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tictacroom/internal/api/controller"
	apirepository "tictacroom/internal/api/repository"
	"tictacroom/internal/api/service"
	"tictacroom/internal/config"
	"tictacroom/internal/db"
	"tictacroom/internal/history"
	"tictacroom/internal/hub"
	"tictacroom/internal/logger"
	"tictacroom/internal/room"
	"tictacroom/internal/server"
	"tictacroom/internal/telemetry"
)

func main() {
	ctx := context.Background()

	conf := config.MustLoad("./config.yml")

	// Initialize telemetry
	shutdown, err := telemetry.InitOtel(conf.OTLPEndpoint)
	if err != nil {
		log.Fatalf("failed to initialize telemetry: %v", err)
	}
	defer func() {
		if err := shutdown(ctx); err != nil {
			log.Printf("Error shutting down telemetry: %v", err)
		}
	}()

	slogger := logger.Init(conf.LogLevel)

	// Initialize Redis
	rdb, err := db.NewRedisClient(ctx, conf.Redis.Addr())
	if err != nil {
		log.Fatalf("failed to initialize redis: %v", err)
	}

	// Initialize SQLite DB
	pool, err := db.Connect(conf.SQLitePath)
	if err != nil {
		log.Fatalf("failed to initialize sqlite db: %v", err)
	}
	defer pool.Close()

	// Identity provider
	userRepo := apirepository.NewUserRepository(pool)
	userService := service.NewUserService(userRepo, conf.JWTSecret, conf.TokenTTL)
	userController := controller.NewUserController(userService)

	// History store
	recorder := history.NewRecorder(history.NewRedisStore(rdb), conf.HistoryQueueSize, slogger)
	go recorder.Run(ctx)
	defer recorder.Close()
	historyController := controller.NewHistoryController(recorder)

	// Room coordination
	registry := room.NewRegistry(slogger)
	coordinator := room.NewCoordinator(registry, slogger)

	// Connection gateway
	h := hub.NewHub(coordinator, registry, recorder, conf.RoomSweepInterval, slogger)
	go h.Run()
	defer h.Stop()

	srv := server.NewServer(h, userService, userController, historyController)

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	httpServer := &http.Server{
		Addr:    ":" + conf.HTTPPort,
		Handler: srv.Engine(),
	}

	go func() {
		slogger.Info("http server started", "port", conf.HTTPPort)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("ListenAndServe: %v", err)
		}
	}()

	<-stop

	slogger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	slogger.Info("server exiting")
}
