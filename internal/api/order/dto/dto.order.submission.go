// Package dto - DTO cho domain Order (onboarding submission).
package dto

// SubmissionCreateInput dữ liệu tạo onboarding submission từ form UI.
type SubmissionCreateInput struct {
	CustomerEmail string            `json:"customerEmail" validate:"required,email"`
	ServiceName   string            `json:"serviceName" validate:"required"`
	FormData      map[string]string `json:"formData,omitempty"`
}

// SubmissionUpdateInput dữ liệu cập nhật submission (admin CRUD — approve/reject đi route riêng).
type SubmissionUpdateInput struct {
	ServiceName string            `json:"serviceName,omitempty"`
	FormData    map[string]string `json:"formData,omitempty"`
	Notes       string            `json:"notes,omitempty"`
}

// SubmissionProcessInput dữ liệu kèm theo khi admin approve/reject.
type SubmissionProcessInput struct {
	Notes string `json:"notes,omitempty"`
}
