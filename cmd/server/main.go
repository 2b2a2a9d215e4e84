// Package main is the application entry point.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"konsul-pajak-go/internal/config"
	"konsul-pajak-go/internal/handler"
	"konsul-pajak-go/internal/middleware"
	"konsul-pajak-go/internal/model"
	"konsul-pajak-go/internal/repository"
	"konsul-pajak-go/internal/service"
	"konsul-pajak-go/pkg/database"
	"konsul-pajak-go/pkg/embedding"
	"konsul-pajak-go/pkg/es"
	"konsul-pajak-go/pkg/llm"
	"konsul-pajak-go/pkg/log"
	"konsul-pajak-go/pkg/mailer"
	"konsul-pajak-go/pkg/token"

	"github.com/gin-gonic/gin"
)

func main() {
	// 1. Configuration
	config.Init("./configs/config.yaml")
	cfg := config.Conf

	// 2. Logger
	log.Init(cfg.Log.Level, cfg.Log.Format, cfg.Log.OutputPath)
	defer log.Sync()
	log.Info("logger initialized")

	// 3. Datastores
	database.InitMySQL(cfg.Database.MySQL.DSN)
	database.InitRedis(cfg.Database.Redis.Addr, cfg.Database.Redis.Password, cfg.Database.Redis.DB)
	if err := es.InitES(cfg.Elasticsearch); err != nil {
		log.Errorf("elasticsearch initialization failed: %s", err)
		return
	}

	if err := database.DB.AutoMigrate(
		&model.User{},
		&model.Chat{},
		&model.Message{},
		&model.Feedback{},
	); err != nil {
		log.Fatalf("database migration failed: %v", err)
	}

	// 4. Repositories
	userRepository := repository.NewUserRepository(database.DB)
	chatRepository := repository.NewChatRepository(database.DB)
	messageRepository := repository.NewMessageRepository(database.DB)
	feedbackRepository := repository.NewFeedbackRepository(database.DB)
	otpRepository := repository.NewOTPRepository(database.RDB)

	// 5. Services (dependency injection)
	jwtManager := token.NewJWTManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpireHours, cfg.JWT.RefreshTokenExpireDays)
	embeddingClient := embedding.NewClient(cfg.Embedding)
	llmClient := llm.NewClient(cfg.LLM)

	var otpMailer mailer.Mailer
	if cfg.Mail.Host != "" {
		otpMailer = mailer.NewSMTPMailer(cfg.Mail)
	} else {
		log.Warnf("no SMTP host configured, OTP codes will only be logged")
		otpMailer = mailer.NewLogMailer()
	}

	userService := service.NewUserService(userRepository, otpRepository, jwtManager, otpMailer, cfg.Auth)
	retrievalService := service.NewRetrievalService(embeddingClient, es.ESClient, cfg.Elasticsearch.IndexName)
	ragService := service.NewRAGService(retrievalService, llmClient)
	chatService := service.NewChatService(chatRepository, messageRepository, feedbackRepository, ragService)

	// 6. Router
	gin.SetMode(cfg.Server.Mode)
	r := gin.New()
	r.Use(middleware.RequestLogger(), gin.Recovery())

	authHandler := handler.NewAuthHandler(userService)
	chatHandler := handler.NewChatHandler(chatService)

	apiV1 := r.Group("/api/v1")
	{
		auth := apiV1.Group("/auth")
		{
			auth.POST("/request-otp", authHandler.RequestOTP)
			auth.POST("/verify-otp", authHandler.VerifyOTP)
			auth.POST("/refreshToken", authHandler.RefreshToken)
		}

		// All chat and feedback routes require authentication.
		chats := apiV1.Group("/chats")
		chats.Use(middleware.AuthMiddleware(jwtManager, userService))
		{
			chats.GET("", chatHandler.ListChats)
			chats.POST("", chatHandler.CreateChat)
			chats.GET("/:chatId/messages", chatHandler.ListMessages)
			chats.POST("/:chatId/messages", chatHandler.SendMessage)
			chats.PUT("/:chatId", chatHandler.RenameChat)
			chats.DELETE("/:chatId", chatHandler.DeleteChat)
		}

		messages := apiV1.Group("/messages")
		messages.Use(middleware.AuthMiddleware(jwtManager, userService))
		{
			messages.PUT("/:messageId/feedback", chatHandler.SubmitFeedback)
			messages.DELETE("/:messageId/feedback", chatHandler.DeleteFeedback)
		}
	}

	// 7. HTTP server with graceful shutdown
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: r,
	}

	go func() {
		log.Infof("server listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server failed: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutdown signal received, stopping server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("HTTP server shutdown failed: %v", err)
	}

	log.Info("server stopped gracefully")
}
