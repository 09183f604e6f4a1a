package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"

	"backend/internal/config"
	"backend/internal/database"
	"backend/internal/handlers"
	"backend/internal/mailer"
	"backend/internal/middleware"
	"backend/internal/queue"
)

func main() {
	config.Load()

	client, err := database.Connect(config.AppEnv.MongoURI)
	if err != nil {
		log.Fatal(err)
	}

	db := client.Database(config.AppEnv.DBName)

	log.Println("MongoDB connected to:", db.Name())

	if err := database.EnsureUserIndexes(db); err != nil {
		log.Printf("⚠️ user index warning: %v", err)
	}
	if err := database.EnsureAddressIndexes(db); err != nil {
		log.Printf("⚠️ address index warning: %v", err)
	}
	if err := database.EnsureTwoFactorIndexes(db); err != nil {
		log.Printf("⚠️ two-factor index warning: %v", err)
	}
	if err := database.EnsurePasswordResetIndexes(db); err != nil {
		log.Printf("⚠️ password reset index warning: %v", err)
	}
	if err := database.EnsureShippingMethodIndexes(db); err != nil {
		log.Printf("⚠️ shipping method index warning: %v", err)
	}
	if err := database.EnsureOrderIndexes(db); err != nil {
		log.Printf("⚠️ order index warning: %v", err)
	}
	if err := database.EnsureShippingMethods(db); err != nil {
		log.Printf("⚠️ shipping method seed warning: %v", err)
	}

	mail := mailer.NewSMTP(
		config.AppEnv.SMTPHost,
		config.AppEnv.SMTPPort,
		config.AppEnv.SMTPUser,
		config.AppEnv.SMTPPassword,
		config.AppEnv.MailFrom,
		config.AppEnv.MailFromName,
	)

	producer := queue.NewProducer(
		config.AppEnv.KafkaBroker,
		config.AppEnv.KafkaTopic,
		config.AppEnv.KafkaUsername,
		config.AppEnv.KafkaPassword,
	)
	defer producer.Close()

	r := gin.Default()

	r.POST("/auth/register", handlers.Register(db, config.AppEnv.JWTSecret, config.AppEnv.SessionTokenTTL, config.AppEnv.BcryptCost))
	r.POST("/auth/login", handlers.Login(db, mail, config.AppEnv.JWTSecret, config.AppEnv.SessionTokenTTL))
	r.POST("/auth/verify-2fa", handlers.Verify2FA(db, config.AppEnv.JWTSecret, config.AppEnv.SessionTokenTTL))
	r.POST("/auth/resend-2fa", handlers.Resend2FA(db, mail))
	r.POST("/auth/forgot-password", handlers.ForgotPassword(db, mail, config.AppEnv.FrontendBaseURL))
	r.POST("/auth/reset-password", handlers.ResetPassword(db, config.AppEnv.BcryptCost))
	r.GET("/auth/verify-reset-token/:token", handlers.VerifyResetToken(db))

	auth := r.Group("/auth")
	auth.Use(middleware.UserAuth(config.AppEnv.JWTSecret))
	{
		auth.GET("/me", handlers.GetMe(db))
		auth.PUT("/me", handlers.UpdateProfile(db))
		auth.PUT("/change-password", handlers.ChangePassword(db, config.AppEnv.BcryptCost))
		auth.PUT("/toggle-2fa", handlers.Toggle2FA(db))

		auth.GET("/addresses", handlers.GetAddresses(db))
		auth.POST("/addresses", handlers.CreateAddress(db))
		auth.PUT("/addresses/:id", handlers.UpdateAddress(db))
		auth.DELETE("/addresses/:id", handlers.DeleteAddress(db))
	}

	r.GET("/shipping", handlers.GetShippingMethods(db))
	r.GET("/shipping/calculate", handlers.CalculateShipping(db, config.AppEnv.FreeShippingThreshold))

	orders := r.Group("/orders")
	orders.Use(middleware.UserAuth(config.AppEnv.JWTSecret))
	{
		orders.GET("", handlers.GetOrders(db))
		orders.POST("", handlers.CreateOrder(db, producer, config.AppEnv.FreeShippingThreshold))
		orders.GET("/:orderNumber", handlers.GetOrder(db))
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	r.Run(":" + port)
}
