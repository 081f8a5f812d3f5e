package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Course groups enrolled students under a unique course code.
type Course struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Code       string             `bson:"code" json:"code"`
	Name       string             `bson:"name" json:"name"`
	Comments   string             `bson:"comments,omitempty" json:"comments,omitempty"`
	StudentIDs StringList         `bson:"studentIds" json:"studentIds"`
}
