package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Token is the persisted record of a single issuance, one document per signed
// token. Validation looks it up by the token string (unique index) on every
// authenticated request, so revoking the record invalidates the token even
// while its signature and expiry are still good.
type Token struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Token          string             `bson:"token" json:"token"`
	Subject        string             `bson:"subject" json:"subject"`
	IsRefreshToken bool               `bson:"isRefreshToken" json:"isRefreshToken"`
	IsRevoked      bool               `bson:"isRevoked" json:"isRevoked"`
	IssuedAt       time.Time          `bson:"issuedAt" json:"issuedAt"`
	ExpiresAt      time.Time          `bson:"expiresAt" json:"expiresAt"`
}
