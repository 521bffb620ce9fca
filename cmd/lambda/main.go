package main

import (
	"context"
	"log"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"go.uber.org/zap"

	"youtrack_sync/internal/config"
	"youtrack_sync/internal/handler"
	"youtrack_sync/internal/logger"
	"youtrack_sync/internal/storage"
	"youtrack_sync/internal/sync"
)

var ginLambda *ginadapter.GinLambda

func handleRequest(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	return ginLambda.ProxyWithContext(ctx, req)
}

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
	ginLambda = ginadapter.New(router)

	lambda.Start(handleRequest)
}
