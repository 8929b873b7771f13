package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	apirouter "perfume_shop_service/internal/api/router"

	"perfume_shop_service/internal/api/handlers"
	chatapp "perfume_shop_service/internal/chat/app"
	chatrepo "perfume_shop_service/internal/chat/repository"
	chatrouter "perfume_shop_service/internal/chat/router"
	napp "perfume_shop_service/internal/notification/app"
	nrepo "perfume_shop_service/internal/notification/repository"
	"perfume_shop_service/pkg/config"
	"perfume_shop_service/pkg/database"
	"perfume_shop_service/pkg/logger"

	"github.com/gofiber/fiber/v2"
	fiber_log "github.com/gofiber/fiber/v2/middleware/logger"
	"go.uber.org/zap"
)

func main() {
	logger.Log = logger.Initialize(config.EnvConfig.ChatService, config.EnvConfig.ChatServiceLogPath)
	cfg := config.LoadConfig[config.Chat](config.EnvConfig.ChatService, config.EnvConfig.ChatServiceYAMLPath)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 1. 建立 PostgreSQL 連線
	// gorm 管 message/notification 資料表，pgx pool 只做 user 唯讀查詢
	pgURI := fmt.Sprintf("postgres://%s:%s@%s:%d/%s",
		cfg.PostgreSQL.User, cfg.PostgreSQL.Password,
		cfg.PostgreSQL.Host, cfg.PostgreSQL.Port, cfg.PostgreSQL.Database)

	gormDB, err := database.NewPGConnection(database.Connection{
		ConnectStr:    pgURI,
		RetryCount:    cfg.PostgreSQL.RetryCount,
		RetryInterval: time.Duration(cfg.PostgreSQL.RetryInterval),
	})
	if err != nil {
		logger.Log.Fatal(
			"Unable to connect to postgreSQL database after retries",
			zap.String("address", fmt.Sprintf("[%s]", pgURI)),
			zap.Error(err),
		)
	}

	pool, err := database.NewDatabaseConnection(database.Connection{
		ConnectStr:    pgURI,
		RetryCount:    cfg.PostgreSQL.RetryCount,
		RetryInterval: time.Duration(cfg.PostgreSQL.RetryInterval),
	})
	if err != nil {
		logger.Log.Fatal("Unable to create pgx pool after retries", zap.Error(err))
	}
	defer pool.Close()

	// 2. 建立 Redis 連線 (Pub/Sub)
	masterName, sentinel := config.GetRedisSetting()
	redisClient, err := database.NewRedisClient(masterName, sentinel, cfg.Redis.RedisDB)
	if err != nil {
		logger.Log.Fatal(fmt.Sprintf("connect redis err : %v", err))
	}

	// 3. 建立 RabbitMQ 連線 (訂單/申請事件)
	rabbitURI := fmt.Sprintf("amqp://%s:%s@%s:%d/",
		cfg.RabbitMQ.User, cfg.RabbitMQ.Password, cfg.RabbitMQ.Host, cfg.RabbitMQ.Port)
	rabbitConn, err := database.ConnectRabbitMQWithRetry(database.Connection{
		ConnectStr:    rabbitURI,
		RetryCount:    cfg.RabbitMQ.RetryCount,
		RetryInterval: time.Duration(cfg.RabbitMQ.RetryInterval),
	})
	if err != nil {
		logger.Log.Fatal(fmt.Sprintf("connect rabbitmq err : %v", err))
	}
	defer rabbitConn.Close()

	rabbitCh, err := database.GetRabbitMQChannelWithRetry(rabbitConn, cfg.RabbitMQ.RetryCount, time.Duration(cfg.RabbitMQ.RetryInterval))
	if err != nil {
		logger.Log.Fatal(fmt.Sprintf("rabbitmq channel err : %v", err))
	}
	defer rabbitCh.Close()

	// 4. 初始化 Repository
	msgRepo := chatrepo.NewMessageRepository(gormDB)
	notifRepo := nrepo.NewNotificationRepository(gormDB)
	userRepo := chatrepo.NewUserRepository(pool)
	pubsub := chatrepo.NewRedisPubSub(redisClient)
	rabbit := database.NewRabbitRepository(rabbitCh)

	if err := msgRepo.AutoMigrate(); err != nil {
		logger.Log.Fatal("message migrate err", zap.Error(err))
	}
	if err := notifRepo.AutoMigrate(); err != nil {
		logger.Log.Fatal("notification migrate err", zap.Error(err))
	}

	// 5. 初始化 UseCases
	presence := chatapp.NewPresenceHub()
	notifUC := napp.NewNotificationUseCase(notifRepo, presence, pubsub)
	messageUC := chatapp.NewMessageUseCase(msgRepo, userRepo, pubsub, presence, notifUC)

	// 6. 啟動 MQ 消費者
	consumer := napp.NewEventConsumer(rabbit, notifUC, userRepo)
	if err := consumer.Start(ctx, cfg.RabbitMQ.OrderQueue); err != nil {
		logger.Log.Fatal("order queue consumer err", zap.Error(err))
	}
	if err := consumer.Start(ctx, cfg.RabbitMQ.RequestQueue); err != nil {
		logger.Log.Fatal("request queue consumer err", zap.Error(err))
	}

	// 7. 啟動 Fiber
	r := fiber.New()
	file, err := os.OpenFile(fmt.Sprintf("%s/access.log", config.EnvConfig.ChatServiceLogPath), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0666)
	if err != nil {
		log.Fatalf("Failed to open log file: %v", err)
	}
	defer file.Close()

	r.Use(fiber_log.New(fiber_log.Config{
		Output: file,
	}))

	// 註冊路由
	chatrouter.RegisterRoutes(r, chatapp.NewChatWebsocketHandler(messageUC, notifUC, userRepo, presence, pubsub))
	apirouter.RegisterRoutes(r,
		handlers.NewMessageHandler(messageUC, userRepo),
		handlers.NewNotificationHandler(notifUC))

	// Listen
	port := ":" + cfg.Port
	log.Printf("Chat Service listening on %s", port)
	if err := r.Listen(port); err != nil {
		log.Fatalf("Failed to start Fiber: %v", err)
	}
}
