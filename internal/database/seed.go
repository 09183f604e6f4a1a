package database

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"backend/internal/models"
	"backend/internal/pricing"
)

// EnsureShippingMethods upserts the reference shipping methods by name, so
// redeploys never duplicate them and price changes in code take effect.
func EnsureShippingMethods(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	methods := []models.ShippingMethod{
		{
			Name:        pricing.StandardMethodName,
			Description: "5-7 Business Days",
			Price:       models.MustMoney("5.99"),
		},
		{
			Name:        "Express Shipping",
			Description: "2-3 Business Days",
			Price:       models.MustMoney("12.99"),
		},
	}

	for _, method := range methods {
		filter := bson.M{"name": method.Name}
		update := bson.M{"$set": bson.M{
			"name":        method.Name,
			"description": method.Description,
			"price":       method.Price,
		}}

		_, err := db.Collection("shipping_methods").UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
		if err != nil {
			log.Println("EnsureShippingMethods: upsert error:", err)
			return err
		}
	}
	return nil
}
