package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"aora_backend/internal/aora/api/handlers"
	"aora_backend/internal/aora/api/router"
	"aora_backend/internal/aora/app"
	"aora_backend/internal/aora/domain"
	"aora_backend/internal/aora/repository"
	"aora_backend/pkg/config"
	"aora_backend/pkg/database"
	"aora_backend/pkg/logger"
	testtool "aora_backend/pkg/test_tool"

	"github.com/gofiber/fiber/v2"
)

func main() {
	logger.Log = logger.Initialize(config.EnvConfig.AoraService, config.EnvConfig.AoraServiceLogPath)

	cfg := config.LoadConfig[config.Aora](config.EnvConfig.AoraService, config.EnvConfig.AoraServiceYAMLPath)

	// 1. 連線 PostgreSQL（帳號）
	sqlParams := fmt.Sprintf("postgres://%s:%s@%s:%d/%s", cfg.PostgreSQL.User, cfg.PostgreSQL.Password, cfg.PostgreSQL.Host, cfg.PostgreSQL.Port, cfg.PostgreSQL.Database)
	pool, err := database.NewDatabaseConnection(database.Connection{
		ConnectStr:    sqlParams,
		RetryCount:    cfg.PostgreSQL.RetryCount,
		RetryInterval: time.Duration(cfg.PostgreSQL.RetryInterval),
	})
	if err != nil {
		logger.Log.Fatal(
			"Unable to connect to postgreSQL database after retries",
			zap.String("address", fmt.Sprintf("[%s]", sqlParams)),
			zap.Error(err),
		)
	}
	defer pool.Close()

	// 2. 連線 Redis（會話）
	masterName, addr, sentinel := config.GetRedisSetting()
	sessionRepo, err := database.NewRedisRepository[domain.Session](masterName, addr, sentinel, cfg.Redis.RedisDB)
	if err != nil {
		logger.Log.Fatal(fmt.Sprintf("connect redis err : %v", err))
	}

	// 3. 連線 MongoDB（使用者與影片文件）
	mongoURI := fmt.Sprintf("mongodb://%s:%s@%s:%d", cfg.Mongo.User, cfg.Mongo.Password, cfg.Mongo.Host, cfg.Mongo.Port)
	mongoDB, err := database.NewMongoDB(context.Background(), database.Connection{
		ConnectStr:    mongoURI,
		RetryCount:    cfg.Mongo.RetryCount,
		RetryInterval: time.Duration(cfg.Mongo.RetryInterval) * time.Second,
	}, cfg.Mongo.DatabaseID)
	if err != nil {
		logger.Log.Fatal(fmt.Sprintf("connect mongoDB err : %v", err))
	}
	defer mongoDB.Close(context.Background())

	// 4. 連線 MinIO（上傳檔案）
	minioClient, err := database.NewMinIOConnection(database.MinIOConnection{
		Endpoint:   fmt.Sprintf("%s:%d", cfg.MinIO.Host, cfg.MinIO.Port),
		User:       cfg.MinIO.User,
		Password:   cfg.MinIO.Password,
		BucketName: cfg.MinIO.StorageID,
		UseSSL:     cfg.MinIO.UseSSL,

		RetryCount:    cfg.MinIO.RetryCount,
		RetryInterval: time.Duration(cfg.MinIO.RetryInterval),
	})
	if err != nil {
		logger.Log.Fatal(fmt.Sprintf("connect minIO err : %v", err))
	}

	accountRepo := repository.NewAccountRepository(pool)
	userRepo := repository.NewMongoUserRepository(mongoDB.Database, cfg.Mongo.UserCollectionID)
	videoRepo := repository.NewMongoVideoRepository(mongoDB.Database, cfg.Mongo.VideoCollection)
	fileRepo := repository.NewMinIOFileRepository(minioClient)

	usecase := app.NewAoraUseCase(accountRepo, userRepo, videoRepo, fileRepo,
		sessionRepo, time.Duration(cfg.SessionTTL)*time.Minute,
		cfg.Endpoint, cfg.ProjectID, config.EnvConfig.AoraService)

	testtool.StartPprof()

	fiberApp := fiber.New(fiber.Config{
		AppName: cfg.Platform,
	})
	router.RegisterRoutes(fiberApp, handlers.NewAoraHandler(usecase))

	logger.Log.Info(fmt.Sprintf("AoraService listening on : %s", cfg.Port))
	if err := fiberApp.Listen(cfg.IP + ":" + cfg.Port); err != nil {
		logger.Log.Fatal("Failed to serve fiber app", zap.Error(err))
	}
}
