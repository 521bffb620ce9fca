package main

import (
	"log"

	"go.uber.org/zap"

	"youtrack_sync/internal/config"
	"youtrack_sync/internal/handler"
	"youtrack_sync/internal/logger"
	"youtrack_sync/internal/storage"
	"youtrack_sync/internal/sync"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.LogLevel); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	store, err := storage.NewSQLiteTaskStore(cfg.DatabasePath)
	if err != nil {
		logger.GetLogger().Fatal("failed to open task store", zap.Error(err))
	}
	defer store.Close()

	router := handler.NewRouter(handler.NewSyncHandler(sync.NewSyncer(store)))

	logger.GetLogger().Info("starting server", zap.String("addr", cfg.ListenAddr))
	if err := router.Run(cfg.ListenAddr); err != nil {
		logger.GetLogger().Fatal("server error", zap.Error(err))
	}
}
