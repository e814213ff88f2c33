package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"filesmanager/internal/api"
	"filesmanager/internal/auth"
	"filesmanager/internal/cache"
	"filesmanager/internal/config"
	"filesmanager/internal/queue"
	"filesmanager/internal/repository"
	"filesmanager/internal/service"
	"filesmanager/internal/storage"

	"github.com/joho/godotenv"
)

func main() {
	log := slog.New(slog.NewTextHandler(os.Stdout, nil))

	if err := godotenv.Load(); err != nil {
		log.Info("no .env file found, using existing environment")
	}

	var cfg config.Config
	if err := config.Load(&cfg); err != nil {
		log.Error("could not load configuration", "error", err)
		os.Exit(1)
	}

	initCtx, cancelInit := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelInit()

	store, err := repository.NewMongoStore(initCtx, cfg.MongoURI(), cfg.DBName)
	if err != nil {
		log.Error("could not connect to mongodb", "error", err)
		os.Exit(1)
	}
	defer store.Close(context.Background())
	log.Info("connected to mongodb", "db", cfg.DBName)

	sessionCache, err := cache.NewRedisCache(initCtx, cfg.RedisAddr)
	if err != nil {
		log.Error("could not connect to redis", "error", err)
		os.Exit(1)
	}
	defer sessionCache.Close()
	log.Info("connected to redis", "addr", cfg.RedisAddr)

	blobs, err := storage.NewDiskStore(cfg.FolderPath)
	if err != nil {
		log.Error("could not initialize blob storage", "error", err)
		os.Exit(1)
	}

	jobs := queue.NewAsynqClient(cfg.RedisAddr)
	defer jobs.Close()

	sessions := auth.NewSessionService(sessionCache, store)
	users := service.NewUserService(store, jobs, log)
	files := service.NewFileService(store, blobs, jobs, log)

	handler := api.NewHandler(sessions, users, files, store, sessionCache, log)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      handler.Routes(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Info("server listening", "port", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}
