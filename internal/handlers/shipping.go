package handlers

import (
	"context"
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
	"backend/internal/pricing"
)

func GetShippingMethods(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /shipping"
		defer handlePanic(c, route)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		cursor, err := db.Collection("shipping_methods").Find(ctx, bson.M{},
			options.Find().SetSort(bson.D{{Key: "price", Value: 1}}))
		if err != nil {
			respondError(c, route, err)
			return
		}
		defer cursor.Close(ctx)

		methods := make([]models.ShippingMethod, 0)
		if err := cursor.All(ctx, &methods); err != nil {
			respondError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, methods)
	}
}

// CalculateShipping previews the cost for a subtotal and method. The cart and
// checkout pages call it, and order creation runs the same pricing functions,
// so the three surfaces cannot disagree.
func CalculateShipping(db *mongo.Database, freeThreshold models.Money) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /shipping/calculate"
		defer handlePanic(c, route)

		subtotal, err := models.MoneyFromString(c.Query("subtotal"))
		if err != nil || subtotal.IsNegative() {
			respondError(c, route, apperr.Validation("invalid subtotal"))
			return
		}

		methodID, err := primitive.ObjectIDFromHex(strings.TrimSpace(c.Query("methodId")))
		if err != nil {
			respondError(c, route, apperr.Validation("invalid methodId"))
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var method models.ShippingMethod
		err = db.Collection("shipping_methods").FindOne(ctx, bson.M{"_id": methodID}).Decode(&method)
		if err == mongo.ErrNoDocuments {
			respondError(c, route, apperr.NotFound("Shipping method not found"))
			return
		}
		if err != nil {
			respondError(c, route, err)
			return
		}

		cost := pricing.ComputeShipping(subtotal, method.Name, method.Price, freeThreshold)

		c.JSON(http.StatusOK, gin.H{
			"method":       method,
			"subtotal":     subtotal,
			"shippingCost": cost,
			"total":        pricing.ComputeTotal(subtotal, cost),
			"isFree":       cost.IsZero(),
		})
	}
}
