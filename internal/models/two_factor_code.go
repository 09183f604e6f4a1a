package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TwoFactorCode is a single-use 6-digit login code. Issuing a new code first
// deletes every unused one for the user, so at most one is live at a time.
type TwoFactorCode struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	Code      string             `bson:"code" json:"-"`
	ExpiresAt time.Time          `bson:"expiresAt" json:"expiresAt"`
	Used      bool               `bson:"used" json:"used"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}
