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
	"go.mongodb.org/mongo-driver/mongo/options"

	"backend/internal/apperr"
	"backend/internal/models"
)

const defaultCountry = "Netherlands"

type AddressRequest struct {
	Street    string `json:"street" binding:"required"`
	City      string `json:"city" binding:"required"`
	Postcode  string `json:"postcode" binding:"required"`
	Country   string `json:"country"`
	IsDefault bool   `json:"isDefault"`
}

func findUserAddresses(ctx context.Context, db *mongo.Database, userID primitive.ObjectID) ([]models.Address, error) {
	cursor, err := db.Collection("addresses").Find(ctx, bson.M{"userId": userID},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	addresses := make([]models.Address, 0)
	if err := cursor.All(ctx, &addresses); err != nil {
		return nil, err
	}
	return addresses, nil
}

// loadOwnedAddress enforces the ownership check every mutation starts with:
// missing id is NotFound, someone else's address is Forbidden.
func loadOwnedAddress(ctx context.Context, db *mongo.Database, addressID, userID primitive.ObjectID) (models.Address, error) {
	var address models.Address
	err := db.Collection("addresses").FindOne(ctx, bson.M{"_id": addressID}).Decode(&address)
	if err == mongo.ErrNoDocuments {
		return models.Address{}, apperr.NotFound("Address not found")
	}
	if err != nil {
		return models.Address{}, err
	}
	if address.UserID != userID {
		return models.Address{}, apperr.Forbidden("Access denied")
	}
	return address, nil
}

func GetAddresses(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /auth/addresses"
		defer handlePanic(c, route)

		userID, ok := currentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		addresses, err := findUserAddresses(ctx, db, userID)
		if err != nil {
			respondError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"addresses": addresses})
	}
}

func CreateAddress(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /auth/addresses"
		defer handlePanic(c, route)

		userID, ok := currentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		var req AddressRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		country := strings.TrimSpace(req.Country)
		if country == "" {
			country = defaultCountry
		}

		now := time.Now()
		address := models.Address{
			UserID:    userID,
			Street:    strings.TrimSpace(req.Street),
			City:      strings.TrimSpace(req.City),
			Postcode:  strings.TrimSpace(req.Postcode),
			Country:   country,
			IsDefault: req.IsDefault,
			CreatedAt: now,
			UpdatedAt: now,
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()

		session, err := db.Client().StartSession()
		if err != nil {
			respondError(c, route, err)
			return
		}
		defer session.EndSession(ctx)

		// Clearing the old default and inserting the new address commit
		// together, so at most one default ever survives.
		_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
			if req.IsDefault {
				_, err := db.Collection("addresses").UpdateMany(sessCtx,
					bson.M{"userId": userID},
					bson.M{"$set": bson.M{"isDefault": false}},
				)
				if err != nil {
					return nil, err
				}
			}

			res, err := db.Collection("addresses").InsertOne(sessCtx, address)
			if err != nil {
				return nil, err
			}
			address.ID, _ = res.InsertedID.(primitive.ObjectID)
			return nil, nil
		})
		if err != nil {
			respondError(c, route, err)
			return
		}

		log.Println("[ADDRESS] [INFO] address created:", address.ID.Hex())
		c.JSON(http.StatusCreated, address)
	}
}

func UpdateAddress(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /auth/addresses/:id"
		defer handlePanic(c, route)

		userID, ok := currentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		addressID, err := primitive.ObjectIDFromHex(strings.TrimSpace(c.Param("id")))
		if err != nil {
			respondError(c, route, apperr.Validation("invalid address id"))
			return
		}

		var req AddressRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()

		if _, err := loadOwnedAddress(ctx, db, addressID, userID); err != nil {
			respondError(c, route, err)
			return
		}

		country := strings.TrimSpace(req.Country)
		if country == "" {
			country = defaultCountry
		}

		session, err := db.Client().StartSession()
		if err != nil {
			respondError(c, route, err)
			return
		}
		defer session.EndSession(ctx)

		_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
			if req.IsDefault {
				_, err := db.Collection("addresses").UpdateMany(sessCtx,
					bson.M{"userId": userID, "_id": bson.M{"$ne": addressID}},
					bson.M{"$set": bson.M{"isDefault": false}},
				)
				if err != nil {
					return nil, err
				}
			}

			_, err := db.Collection("addresses").UpdateByID(sessCtx, addressID, bson.M{
				"$set": bson.M{
					"street":    strings.TrimSpace(req.Street),
					"city":      strings.TrimSpace(req.City),
					"postcode":  strings.TrimSpace(req.Postcode),
					"country":   country,
					"isDefault": req.IsDefault,
					"updatedAt": time.Now(),
				},
			})
			return nil, err
		})
		if err != nil {
			respondError(c, route, err)
			return
		}

		var updated models.Address
		if err := db.Collection("addresses").FindOne(ctx, bson.M{"_id": addressID}).Decode(&updated); err != nil {
			respondError(c, route, err)
			return
		}

		log.Println("[ADDRESS] [INFO] address updated:", addressID.Hex())
		c.JSON(http.StatusOK, updated)
	}
}

func DeleteAddress(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /auth/addresses/:id"
		defer handlePanic(c, route)

		userID, ok := currentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		addressID, err := primitive.ObjectIDFromHex(strings.TrimSpace(c.Param("id")))
		if err != nil {
			respondError(c, route, apperr.Validation("invalid address id"))
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		if _, err := loadOwnedAddress(ctx, db, addressID, userID); err != nil {
			respondError(c, route, err)
			return
		}

		_, err = db.Collection("addresses").DeleteOne(ctx, bson.M{"_id": addressID, "userId": userID})
		if err != nil {
			respondError(c, route, err)
			return
		}

		log.Println("[ADDRESS] [INFO] address deleted:", addressID.Hex())
		c.JSON(http.StatusOK, gin.H{"message": "Address deleted successfully"})
	}
}
