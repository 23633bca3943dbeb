// Package dto - DTO cho domain Order (customer).
package dto

// PurchaseEvent sự kiện thanh toán hoàn tất từ payment gateway (đã verify chữ ký ở webhook layer).
type PurchaseEvent struct {
	Email             string  `json:"email" validate:"required,email"`
	Name              string  `json:"name,omitempty"`
	BusinessName      string  `json:"businessName,omitempty"`
	Website           string  `json:"website,omitempty"`
	PackageName       string  `json:"packageName,omitempty"`
	AmountMajorUnits  float64 `json:"amount,omitempty"` // Đơn vị tiền chính (VD: 249 = $249/tháng)
	PaymentSessionID  string  `json:"paymentSessionId" validate:"required"` // Idempotency key
	PaymentCustomerID string  `json:"paymentCustomerId,omitempty"`
	OccurredAt        int64   `json:"occurredAt,omitempty"` // Unix ms — 0 thì lấy thời điểm nhận
}

// OrderCustomerCreateInput dữ liệu tạo khách hàng thủ công (admin CRUD).
type OrderCustomerCreateInput struct {
	Email        string  `json:"email" validate:"required,email"`
	Name         string  `json:"name,omitempty"`
	BusinessName string  `json:"businessName,omitempty"`
	Website      string  `json:"website,omitempty"`
	PackageName  string  `json:"packageName,omitempty"`
	MonthlyRate  float64 `json:"monthlyRate,omitempty"`
}

// OrderCustomerUpdateInput dữ liệu cập nhật thông tin khách (chỉ scalar fields,
// timeline/projects đi qua các operation lifecycle riêng).
type OrderCustomerUpdateInput struct {
	Name         string  `json:"name,omitempty"`
	BusinessName string  `json:"businessName,omitempty"`
	Website      string  `json:"website,omitempty"`
	PackageName  string  `json:"packageName,omitempty"`
	MonthlyRate  float64 `json:"monthlyRate,omitempty"`
}

// TimelineStepInput dữ liệu admin override một bước timeline.
type TimelineStepInput struct {
	Step   string `json:"step" validate:"required"`
	Action string `json:"action" validate:"required,oneof=pending in_progress completed"`
}
