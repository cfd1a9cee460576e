package main

import (
	"context"
	"log"
	"time"

	"caseshop/internal/auth"
	"caseshop/internal/config"
	"caseshop/internal/controllers/http"
	"caseshop/internal/infra"
	"caseshop/internal/infra/mailer"
	mmysql "caseshop/internal/infra/mysql"
	"caseshop/internal/infra/payment"
	"caseshop/internal/infra/rabbitmq"
	"caseshop/internal/infra/storage"
	"caseshop/internal/metrics"
	mysqlrepo "caseshop/internal/repository/mysql"
	"caseshop/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	db, err := mmysql.NewMySQL(cfg.MySQLDSN())
	if err != nil {
		log.Fatalf("db: connect: %v", err)
	}

	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetMaxIdleConns(20)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)
	sqlDB.SetConnMaxIdleTime(1 * time.Minute)

	configRepo := mysqlrepo.NewConfigurationRepository(db)
	orderRepo := mysqlrepo.NewOrderRepository(db)
	userRepo := mysqlrepo.NewUserRepository(db)

	publisher, err := rabbitmq.NewPublisher(cfg.RabbitMQURL, "order.exchange")
	if err != nil {
		log.Fatalf("failed to init publisher: %v", err)
	}
	defer publisher.Close()

	store, err := storage.NewS3Store(context.Background(), storage.S3Options{
		Bucket:    cfg.S3Bucket,
		Region:    cfg.S3Region,
		Key:       cfg.S3Key,
		Secret:    cfg.S3Secret,
		Endpoint:  cfg.S3Endpoint,
		PublicURL: cfg.S3URL,
	})
	if err != nil {
		log.Fatalf("failed to init object storage: %v", err)
	}

	gateway := payment.NewStripeGateway(cfg.StripeSecretKey, cfg.StripeWebhookSecret)
	mail := mailer.NewSendGridMailer(cfg.SendGridAPIKey, cfg.MailFromName, cfg.MailFromEmail)
	images := infra.NewImageClient(5 * time.Second)

	redisClient := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisAddr(),
		DB:           0,
		PoolSize:     50,
		MinIdleConns: 5,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  500 * time.Millisecond,
		WriteTimeout: 500 * time.Millisecond,
	})

	configService := services.NewConfigurationService(configRepo, images, store)
	configService.SetRedisClient(redisClient)

	userService := services.NewUserService(userRepo)

	handler := http.NewHandler(http.Deps{
		Configs:  configService,
		Checkout: services.NewCheckoutService(configRepo, orderRepo, userService, gateway, publisher, cfg.BaseURL),
		Webhooks: services.NewWebhookService(orderRepo, mail, publisher, cfg.BaseURL),
		Orders:   services.NewOrderService(orderRepo, publisher),
		Users:    userService,
		Gateway:  gateway,
		Store:    store,
		Verifier: auth.NewVerifier(cfg.AuthJWTSecret),
		IsAdmin:  cfg.IsAdmin,
	})

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), metrics.Middleware())

	handler.RegisterRoutes(r)

	log.Printf("Starting caseshop on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server run: %v", err)
	}
}
