// Package models - OnboardingSubmission thuộc domain Order (order_submissions).
// Một document cho mỗi lần khách gửi onboarding form; tham chiếu khách hàng theo email, không theo id.
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OnboardingSubmission lưu onboarding form khách gửi (order_submissions).
type OnboardingSubmission struct {
	ID primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`

	// SubmissionID định danh nghiệp vụ (UUID) — client tham chiếu theo id này.
	SubmissionID string `json:"submissionId" bson:"submissionId"`

	// CustomerEmail khóa ngoại theo email chuẩn hóa. Record khách phải tồn tại
	// khi admin xử lý; không có thì thao tác fail, không tự tạo.
	CustomerEmail string `json:"customerEmail" bson:"customerEmail"`

	ServiceName string            `json:"serviceName" bson:"serviceName"`
	FormData    map[string]string `json:"formData,omitempty" bson:"formData,omitempty"`

	Status string `json:"status" bson:"status" default:"pending_approval"` // pending_approval | approved | rejected | cancelled

	SubmittedAt int64  `json:"submittedAt" bson:"submittedAt"` // Unix ms
	ProcessedAt int64  `json:"processedAt,omitempty" bson:"processedAt,omitempty"`
	ProcessedBy string `json:"processedBy,omitempty" bson:"processedBy,omitempty"` // Email của admin xử lý
	Notes       string `json:"notes,omitempty" bson:"notes,omitempty"`

	CreatedAt int64 `json:"createdAt" bson:"createdAt"`
	UpdatedAt int64 `json:"updatedAt" bson:"updatedAt"`
}
