// Package models - OrderCustomer thuộc domain Order (order_customers).
// Một document cho mỗi email đã chuẩn hóa; mua hàng lần hai merge vào record cũ, không bao giờ tạo bản sao.
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TimelineStep trạng thái của một bước trong order timeline.
// Completed luôn phải đồng bộ với Status ("completed" ⇔ true) — mọi write path set cả hai cùng lúc.
type TimelineStep struct {
	Status    string `json:"status" bson:"status"`                 // pending | in_progress | completed
	Completed bool   `json:"completed" bson:"completed"`           // Đồng bộ với Status
	Date      *int64 `json:"date,omitempty" bson:"date,omitempty"` // Unix ms — nil khi pending
}

// OrderProject một project trong activeProjects của khách.
type OrderProject struct {
	ProjectID        string `json:"projectId" bson:"projectId"` // UUID, duy nhất trong record
	Name             string `json:"name" bson:"name"`
	Status           string `json:"status" bson:"status"` // active | cancelled | completed
	StartDate        int64  `json:"startDate" bson:"startDate"`
	Progress         int    `json:"progress" bson:"progress"` // 0–100, derive từ timeline
	CancelledAt      *int64 `json:"cancelledAt,omitempty" bson:"cancelledAt,omitempty"`
	CancelledBy      string `json:"cancelledBy,omitempty" bson:"cancelledBy,omitempty"`
	PaymentSessionID string `json:"paymentSessionId,omitempty" bson:"paymentSessionId,omitempty"` // Idempotency key của purchase event
}

// ActivityEntry một dòng trong recentActivity (mới nhất trước).
type ActivityEntry struct {
	Type    string `json:"type" bson:"type"`
	Message string `json:"message" bson:"message"`
	Date    int64  `json:"date" bson:"date"` // Unix ms
}

// OrderCustomer lưu khách hàng đặt dịch vụ (order_customers).
type OrderCustomer struct {
	ID primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`

	// Identity — email là khóa duy nhất (unique index), luôn lowercase + trim.
	Email        string `json:"email" bson:"email"`
	Name         string `json:"name,omitempty" bson:"name,omitempty"`
	BusinessName string `json:"businessName,omitempty" bson:"businessName,omitempty"`
	Website      string `json:"website,omitempty" bson:"website,omitempty"`

	// Commercial
	PackageName        string  `json:"packageName,omitempty" bson:"packageName,omitempty"`
	MonthlyRate        float64 `json:"monthlyRate,omitempty" bson:"monthlyRate,omitempty"`
	SubscriptionStatus string  `json:"subscriptionStatus" bson:"subscriptionStatus" default:"active"` // active | cancelled
	BillingCycleAnchor int64   `json:"billingCycleAnchor,omitempty" bson:"billingCycleAnchor,omitempty"`

	// Projects — append-only khi có purchase mới; progress tracking bind vào phần tử đầu.
	ActiveProjects []OrderProject `json:"activeProjects" bson:"activeProjects"`

	// Timeline — map theo 5 StepKey cố định.
	Timeline map[string]TimelineStep `json:"orderTimeline" bson:"orderTimeline"`

	// RecentActivity — mới nhất trước, cap 50 entry qua $push/$each/$position/$slice.
	RecentActivity []ActivityEntry `json:"recentActivity" bson:"recentActivity"`

	// Provenance của purchase đầu tiên.
	PaymentSessionID  string `json:"paymentSessionId,omitempty" bson:"paymentSessionId,omitempty"`
	PaymentCustomerID string `json:"paymentCustomerId,omitempty" bson:"paymentCustomerId,omitempty"`

	// Soft delete — loại khỏi mọi query, không bao giờ xóa vật lý.
	Deleted   bool  `json:"deleted,omitempty" bson:"deleted,omitempty"`
	DeletedAt int64 `json:"deletedAt,omitempty" bson:"deletedAt,omitempty"`

	// Metadata
	CreatedAt int64 `json:"createdAt" bson:"createdAt"`
	UpdatedAt int64 `json:"updatedAt" bson:"updatedAt"`
}

// FindProject tìm project theo projectId. Trả về index và con trỏ, (-1, nil) nếu không có.
func (c *OrderCustomer) FindProject(projectID string) (int, *OrderProject) {
	for i := range c.ActiveProjects {
		if c.ActiveProjects[i].ProjectID == projectID {
			return i, &c.ActiveProjects[i]
		}
	}
	return -1, nil
}

// FindProjectBySession tìm project theo paymentSessionId (kiểm tra idempotency của ingest).
func (c *OrderCustomer) FindProjectBySession(sessionID string) *OrderProject {
	if sessionID == "" {
		return nil
	}
	for i := range c.ActiveProjects {
		if c.ActiveProjects[i].PaymentSessionID == sessionID {
			return &c.ActiveProjects[i]
		}
	}
	return nil
}
