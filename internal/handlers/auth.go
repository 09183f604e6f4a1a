package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"backend/internal/apperr"
	"backend/internal/mailer"
	"backend/internal/models"
)

type RegisterRequest struct {
	Email     string `json:"email" binding:"required"`
	Password  string `json:"password" binding:"required"`
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Phone     string `json:"phone"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type Verify2FARequest struct {
	UserID string `json:"userId" binding:"required"`
	Code   string `json:"code" binding:"required"`
}

type Resend2FARequest struct {
	UserID string `json:"userId" binding:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required"`
}

type ResetPasswordRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required"`
}

type UpdateProfileRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

type Toggle2FARequest struct {
	Enabled *bool `json:"enabled" binding:"required"`
}

func Register(db *mongo.Database, jwtSecret string, tokenTTL time.Duration, bcryptCost int) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /auth/register"
		defer handlePanic(c, route)

		var req RegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		email := strings.TrimSpace(req.Email)
		if unmet := validatePassword(req.Password); len(unmet) > 0 {
			respondError(c, route, apperr.Validation(passwordPolicyError(unmet)))
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		// Email matching is case-sensitive, exact as stored.
		err := db.Collection("users").FindOne(ctx, bson.M{"email": email}).Err()
		if err == nil {
			respondError(c, route, apperr.Conflict("Email already registered"))
			return
		}
		if err != mongo.ErrNoDocuments {
			respondError(c, route, err)
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
		if err != nil {
			respondError(c, route, err)
			return
		}

		now := time.Now()
		user := models.User{
			Email:            email,
			PasswordHash:     string(hash),
			FirstName:        strings.TrimSpace(req.FirstName),
			LastName:         strings.TrimSpace(req.LastName),
			Phone:            strings.TrimSpace(req.Phone),
			TwoFactorEnabled: true,
			CreatedAt:        now,
			UpdatedAt:        now,
		}

		res, err := db.Collection("users").InsertOne(ctx, user)
		if err != nil {
			if mongo.IsDuplicateKeyError(err) {
				respondError(c, route, apperr.Conflict("Email already registered"))
				return
			}
			respondError(c, route, err)
			return
		}
		user.ID, _ = res.InsertedID.(primitive.ObjectID)

		token, err := issueSessionToken(user.ID, user.Email, jwtSecret, tokenTTL)
		if err != nil {
			respondError(c, route, err)
			return
		}

		log.Println("[AUTH] [INFO] user registered:", user.Email)
		c.JSON(http.StatusCreated, gin.H{"user": publicUser(user), "token": token})
	}
}

func Login(db *mongo.Database, mail mailer.Mailer, jwtSecret string, tokenTTL time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /auth/login"
		defer handlePanic(c, route)

		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()

		// One generic message for both unknown email and wrong password, so
		// the endpoint never confirms which accounts exist.
		var user models.User
		err := db.Collection("users").FindOne(ctx, bson.M{"email": strings.TrimSpace(req.Email)}).Decode(&user)
		if err == mongo.ErrNoDocuments {
			respondError(c, route, apperr.Auth("Invalid email or password"))
			return
		}
		if err != nil {
			respondError(c, route, err)
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
			respondError(c, route, apperr.Auth("Invalid email or password"))
			return
		}

		if user.TwoFactorEnabled {
			code, err := issueTwoFactorCode(ctx, db, user.ID)
			if err != nil {
				respondError(c, route, err)
				return
			}

			// A failed send is not fatal; the client can hit resend.
			if err := mail.Send2FACode(ctx, user.Email, code); err != nil {
				log.Println("[AUTH] [ERROR] 2FA email dispatch failed:", err)
			}

			c.JSON(http.StatusOK, gin.H{
				"requires2FA": true,
				"userId":      user.ID.Hex(),
				"message":     "Verification code sent to your email",
			})
			return
		}

		token, err := issueSessionToken(user.ID, user.Email, jwtSecret, tokenTTL)
		if err != nil {
			respondError(c, route, err)
			return
		}

		log.Println("[AUTH] [INFO] login succeeded:", user.Email)
		c.JSON(http.StatusOK, gin.H{"user": publicUser(user), "token": token})
	}
}

func Verify2FA(db *mongo.Database, jwtSecret string, tokenTTL time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /auth/verify-2fa"
		defer handlePanic(c, route)

		var req Verify2FARequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		userID, err := primitive.ObjectIDFromHex(strings.TrimSpace(req.UserID))
		if err != nil {
			respondError(c, route, apperr.Validation("invalid userId"))
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var code models.TwoFactorCode
		err = db.Collection("two_factor_codes").FindOne(ctx, bson.M{
			"userId":    userID,
			"code":      strings.TrimSpace(req.Code),
			"used":      false,
			"expiresAt": bson.M{"$gt": time.Now()},
		}).Decode(&code)
		if err == mongo.ErrNoDocuments {
			respondError(c, route, apperr.Auth("Invalid or expired verification code"))
			return
		}
		if err != nil {
			respondError(c, route, err)
			return
		}

		// Consume by the code's own id in one conditional update, so two
		// concurrent attempts with the same code cannot both pass.
		res, err := db.Collection("two_factor_codes").UpdateOne(ctx,
			bson.M{"_id": code.ID, "used": false},
			bson.M{"$set": bson.M{"used": true}},
		)
		if err != nil {
			respondError(c, route, err)
			return
		}
		if res.ModifiedCount == 0 {
			respondError(c, route, apperr.Auth("Invalid or expired verification code"))
			return
		}

		var user models.User
		if err := db.Collection("users").FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
			respondError(c, route, err)
			return
		}

		token, err := issueSessionToken(user.ID, user.Email, jwtSecret, tokenTTL)
		if err != nil {
			respondError(c, route, err)
			return
		}

		log.Println("[AUTH] [INFO] 2FA verified:", user.Email)
		c.JSON(http.StatusOK, gin.H{"user": publicUser(user), "token": token})
	}
}

func Resend2FA(db *mongo.Database, mail mailer.Mailer) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /auth/resend-2fa"
		defer handlePanic(c, route)

		var req Resend2FARequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		userID, err := primitive.ObjectIDFromHex(strings.TrimSpace(req.UserID))
		if err != nil {
			respondError(c, route, apperr.Validation("invalid userId"))
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()

		var user models.User
		err = db.Collection("users").FindOne(ctx, bson.M{"_id": userID}).Decode(&user)
		if err == mongo.ErrNoDocuments {
			respondError(c, route, apperr.NotFound("User not found"))
			return
		}
		if err != nil {
			respondError(c, route, err)
			return
		}

		code, err := issueTwoFactorCode(ctx, db, user.ID)
		if err != nil {
			respondError(c, route, err)
			return
		}

		// The fresh code stays persisted even when dispatch fails, so the
		// caller can retry without a new issuance round.
		if err := mail.Send2FACode(ctx, user.Email, code); err != nil {
			respondError(c, route, apperr.Wrap(apperr.KindEmail, "Failed to send verification code", err))
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "New verification code sent"})
	}
}

func ForgotPassword(db *mongo.Database, mail mailer.Mailer, frontendBaseURL string) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /auth/forgot-password"
		defer handlePanic(c, route)

		var req ForgotPasswordRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()

		var user models.User
		err := db.Collection("users").FindOne(ctx, bson.M{"email": strings.TrimSpace(req.Email)}).Decode(&user)
		if err == mongo.ErrNoDocuments {
			// Reveals account existence. Kept for parity with the storefront
			// client, which shows a dedicated "no account" message.
			respondError(c, route, apperr.NotFound("No account found with this email address"))
			return
		}
		if err != nil {
			respondError(c, route, err)
			return
		}

		token, err := issuePasswordReset(ctx, db, user.ID)
		if err != nil {
			respondError(c, route, err)
			return
		}

		resetURL := buildResetURL(frontendBaseURL, token)
		if err := mail.SendPasswordReset(ctx, user.Email, resetURL); err != nil {
			// The acknowledgment stays generic either way.
			log.Println("[AUTH] [ERROR] reset email dispatch failed:", err)
		}

		c.JSON(http.StatusOK, gin.H{"message": "Password reset link has been sent to your email"})
	}
}

func VerifyResetToken(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /auth/verify-reset-token"
		defer handlePanic(c, route)

		token := strings.TrimSpace(c.Param("token"))

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		err := db.Collection("password_resets").FindOne(ctx, bson.M{
			"token":     token,
			"used":      false,
			"expiresAt": bson.M{"$gt": time.Now()},
		}).Err()
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusBadRequest, gin.H{"valid": false, "error": "Invalid or expired reset link"})
			return
		}
		if err != nil {
			respondError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"valid": true})
	}
}

func ResetPassword(db *mongo.Database, bcryptCost int) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /auth/reset-password"
		defer handlePanic(c, route)

		var req ResetPasswordRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		if unmet := validatePassword(req.NewPassword); len(unmet) > 0 {
			respondError(c, route, apperr.Validation(passwordPolicyError(unmet)))
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()

		var reset models.PasswordReset
		err := db.Collection("password_resets").FindOne(ctx, bson.M{
			"token":     strings.TrimSpace(req.Token),
			"used":      false,
			"expiresAt": bson.M{"$gt": time.Now()},
		}).Decode(&reset)
		if err == mongo.ErrNoDocuments {
			respondError(c, route, apperr.Auth("Invalid or expired reset link"))
			return
		}
		if err != nil {
			respondError(c, route, err)
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcryptCost)
		if err != nil {
			respondError(c, route, err)
			return
		}

		session, err := db.Client().StartSession()
		if err != nil {
			respondError(c, route, err)
			return
		}
		defer session.EndSession(ctx)

		// New hash and token burn land together or not at all.
		_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
			res, err := db.Collection("password_resets").UpdateOne(sessCtx,
				bson.M{"_id": reset.ID, "used": false},
				bson.M{"$set": bson.M{"used": true}},
			)
			if err != nil {
				return nil, err
			}
			if res.ModifiedCount == 0 {
				return nil, apperr.Auth("Invalid or expired reset link")
			}

			_, err = db.Collection("users").UpdateByID(sessCtx, reset.UserID, bson.M{
				"$set": bson.M{"passwordHash": string(hash), "updatedAt": time.Now()},
			})
			return nil, err
		})
		if err != nil {
			respondError(c, route, err)
			return
		}

		log.Println("[AUTH] [INFO] password reset completed for user:", reset.UserID.Hex())
		c.JSON(http.StatusOK, gin.H{"message": "Password reset successfully"})
	}
}

func ChangePassword(db *mongo.Database, bcryptCost int) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /auth/change-password"
		defer handlePanic(c, route)

		userID, ok := currentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		var req ChangePasswordRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var user models.User
		if err := db.Collection("users").FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
			respondError(c, route, apperr.NotFound("User not found"))
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)); err != nil {
			respondError(c, route, apperr.Auth("Current password is incorrect"))
			return
		}

		if unmet := validatePassword(req.NewPassword); len(unmet) > 0 {
			respondError(c, route, apperr.Validation(passwordPolicyError(unmet)))
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcryptCost)
		if err != nil {
			respondError(c, route, err)
			return
		}

		_, err = db.Collection("users").UpdateByID(ctx, userID, bson.M{
			"$set": bson.M{"passwordHash": string(hash), "updatedAt": time.Now()},
		})
		if err != nil {
			respondError(c, route, err)
			return
		}

		log.Println("[AUTH] [INFO] password changed for user:", userID.Hex())
		c.JSON(http.StatusOK, gin.H{"message": "Password changed successfully"})
	}
}

func GetMe(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /auth/me"
		defer handlePanic(c, route)

		userID, ok := currentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var user models.User
		if err := db.Collection("users").FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
			respondError(c, route, apperr.NotFound("User not found"))
			return
		}

		addresses, err := findUserAddresses(ctx, db, userID)
		if err != nil {
			respondError(c, route, err)
			return
		}

		body := publicUser(user)
		body["addresses"] = addresses
		c.JSON(http.StatusOK, body)
	}
}

func UpdateProfile(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /auth/me"
		defer handlePanic(c, route)

		userID, ok := currentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		var req UpdateProfileRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		update := bson.M{"updatedAt": time.Now()}
		if v := strings.TrimSpace(req.FirstName); v != "" {
			update["firstName"] = v
		}
		if v := strings.TrimSpace(req.LastName); v != "" {
			update["lastName"] = v
		}
		if v := strings.TrimSpace(req.Phone); v != "" {
			update["phone"] = v
		}
		if email := strings.TrimSpace(req.Email); email != "" {
			err := db.Collection("users").FindOne(ctx, bson.M{
				"email": email,
				"_id":   bson.M{"$ne": userID},
			}).Err()
			if err == nil {
				respondError(c, route, apperr.Conflict("Email already in use by another account"))
				return
			}
			if err != mongo.ErrNoDocuments {
				respondError(c, route, err)
				return
			}
			update["email"] = email
		}

		_, err := db.Collection("users").UpdateByID(ctx, userID, bson.M{"$set": update})
		if err != nil {
			respondError(c, route, err)
			return
		}

		var user models.User
		if err := db.Collection("users").FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
			respondError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, publicUser(user))
	}
}

func Toggle2FA(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /auth/toggle-2fa"
		defer handlePanic(c, route)

		userID, ok := currentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		var req Toggle2FARequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		_, err := db.Collection("users").UpdateByID(ctx, userID, bson.M{
			"$set": bson.M{"twoFactorEnabled": *req.Enabled, "updatedAt": time.Now()},
		})
		if err != nil {
			respondError(c, route, err)
			return
		}

		var user models.User
		if err := db.Collection("users").FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
			respondError(c, route, err)
			return
		}

		log.Println("[AUTH] [INFO] 2FA toggled:", user.Email, user.TwoFactorEnabled)
		c.JSON(http.StatusOK, publicUser(user))
	}
}
