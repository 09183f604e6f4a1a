package handlers

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"backend/internal/models"
)

const (
	twoFactorCodeTTL = 10 * time.Minute
	resetTokenTTL    = time.Hour
)

func issueSessionToken(userID primitive.ObjectID, email, secret string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"userId": userID.Hex(),
		"email":  email,
		"exp":    time.Now().Add(ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// generateTwoFactorCode returns a crypto-random 6-digit code, zero-padded.
func generateTwoFactorCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// generateResetToken returns 256 bits of entropy, hex encoded.
func generateResetToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// issueTwoFactorCode replaces any unused code for the user with a fresh one.
// Delete and insert run in one transaction so two concurrent logins cannot
// leave two live codes behind.
func issueTwoFactorCode(ctx context.Context, db *mongo.Database, userID primitive.ObjectID) (string, error) {
	code, err := generateTwoFactorCode()
	if err != nil {
		return "", err
	}

	session, err := db.Client().StartSession()
	if err != nil {
		return "", err
	}
	defer session.EndSession(ctx)

	now := time.Now()
	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		codes := db.Collection("two_factor_codes")

		if _, err := codes.DeleteMany(sessCtx, bson.M{"userId": userID, "used": false}); err != nil {
			return nil, err
		}

		_, err := codes.InsertOne(sessCtx, models.TwoFactorCode{
			UserID:    userID,
			Code:      code,
			ExpiresAt: now.Add(twoFactorCodeTTL),
			Used:      false,
			CreatedAt: now,
		})
		return nil, err
	})
	if err != nil {
		return "", err
	}

	return code, nil
}

// issuePasswordReset invalidates all prior unused tokens for the user and
// persists a fresh one, in one transaction.
func issuePasswordReset(ctx context.Context, db *mongo.Database, userID primitive.ObjectID) (string, error) {
	token, err := generateResetToken()
	if err != nil {
		return "", err
	}

	session, err := db.Client().StartSession()
	if err != nil {
		return "", err
	}
	defer session.EndSession(ctx)

	now := time.Now()
	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		resets := db.Collection("password_resets")

		_, err := resets.UpdateMany(sessCtx,
			bson.M{"userId": userID, "used": false},
			bson.M{"$set": bson.M{"used": true}},
		)
		if err != nil {
			return nil, err
		}

		_, err = resets.InsertOne(sessCtx, models.PasswordReset{
			UserID:    userID,
			Token:     token,
			ExpiresAt: now.Add(resetTokenTTL),
			Used:      false,
			CreatedAt: now,
		})
		return nil, err
	})
	if err != nil {
		return "", err
	}

	return token, nil
}

func buildResetURL(frontendBaseURL, token string) string {
	base := strings.TrimRight(strings.TrimSpace(frontendBaseURL), "/")
	return base + "/reset-password?token=" + url.QueryEscape(token)
}

func publicUser(user models.User) gin.H {
	return gin.H{
		"id":               user.ID.Hex(),
		"email":            user.Email,
		"firstName":        user.FirstName,
		"lastName":         user.LastName,
		"phone":            user.Phone,
		"twoFactorEnabled": user.TwoFactorEnabled,
		"createdAt":        user.CreatedAt,
	}
}
