package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// ShippingMethod is reference data seeded at startup, not user-mutable.
type ShippingMethod struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description" json:"description"`
	Price       Money              `bson:"price" json:"price"`
}
