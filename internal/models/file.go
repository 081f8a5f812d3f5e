package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FileDocument is the metadata record for an uploaded file. The bytes live on
// the filesystem under the configured storage directory.
type FileDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID      string             `bson:"userId" json:"userId"`
	FileName    string             `bson:"fileName" json:"fileName"`
	MimeType    string             `bson:"mimeType" json:"mimeType"`
	Size        int64              `bson:"size" json:"size"`
	DownloadURL string             `bson:"downloadUrl" json:"downloadUrl"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}
