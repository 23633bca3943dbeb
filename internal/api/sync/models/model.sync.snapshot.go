package syncmodels

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	ordermodels "order_desk/internal/api/order/models"
)

// SyncSnapshot bản sao bền của một snapshot cache read-side.
// Dùng để warm lại cache khi restart; canonical store vẫn là nguồn sự thật.
type SyncSnapshot struct {
	ID          primitive.ObjectID        `json:"id,omitempty" bson:"_id,omitempty"`
	Bucket      string                    `json:"bucket" bson:"bucket"`           // Tên bucket cache
	Key         string                    `json:"key" bson:"key"`                 // Email chuẩn hóa
	Customer    ordermodels.OrderCustomer `json:"customer" bson:"customer"`       // Snapshot tại thời điểm refresh
	RefreshedAt int64                     `json:"refreshedAt" bson:"refreshedAt"` // Lần refresh gần nhất (Unix ms)
	CreatedAt   int64                     `json:"createdAt" bson:"createdAt"`
	UpdatedAt   int64                     `json:"updatedAt" bson:"updatedAt"`
}
