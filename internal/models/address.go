package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Address is a delivery address owned by a single user. At most one address
// per user carries IsDefault=true.
type Address struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	Street    string             `bson:"street" json:"street"`
	City      string             `bson:"city" json:"city"`
	Postcode  string             `bson:"postcode" json:"postcode"`
	Country   string             `bson:"country" json:"country"`
	IsDefault bool               `bson:"isDefault" json:"isDefault"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}
