package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"filesmanager/internal/config"
	"filesmanager/internal/queue"
	"filesmanager/internal/repository"
	"filesmanager/internal/storage"
	"filesmanager/internal/worker"

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

	blobs, err := storage.NewDiskStore(cfg.FolderPath)
	if err != nil {
		log.Error("could not initialize blob storage", "error", err)
		os.Exit(1)
	}

	w := worker.New(store, store, blobs, log)

	srv := queue.NewAsynqServer(cfg.RedisAddr, cfg.WorkerConcurrency)
	w.Register(srv)

	log.Info("worker starting", "concurrency", cfg.WorkerConcurrency)
	if err := srv.Run(); err != nil {
		log.Error("worker stopped with error", "error", err)
		os.Exit(1)
	}
}
