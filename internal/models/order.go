package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OrderItem is a denormalized snapshot of a purchased line. It stays valid
// even when the catalog changes after purchase.
type OrderItem struct {
	ProductName string `bson:"productName" json:"productName"`
	Size        string `bson:"size" json:"size"`
	Quantity    int    `bson:"quantity" json:"quantity"`
	Price       Money  `bson:"price" json:"price"`
}

// Order defines the persisted order document. Orders are immutable once
// created.
type Order struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OrderNumber      string             `bson:"orderNumber" json:"orderNumber"`
	UserID           primitive.ObjectID `bson:"userId" json:"userId"`
	AddressID        primitive.ObjectID `bson:"addressId" json:"addressId"`
	ShippingMethodID primitive.ObjectID `bson:"shippingMethodId" json:"shippingMethodId"`
	Items            []OrderItem        `bson:"items" json:"items"`
	Subtotal         Money              `bson:"subtotal" json:"subtotal"`
	ShippingCost     Money              `bson:"shippingCost" json:"shippingCost"`
	Total            Money              `bson:"total" json:"total"`
	Status           string             `bson:"status" json:"status"`
	CreatedAt        time.Time          `bson:"createdAt" json:"createdAt"`

	// Expanded relations, populated for responses only.
	ShippingMethod *ShippingMethod `bson:"-" json:"shippingMethod,omitempty"`
	Address        *Address        `bson:"-" json:"address,omitempty"`
}
