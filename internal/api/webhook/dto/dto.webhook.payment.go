// Package dto - DTO cho domain Webhook (payment).
package dto

import (
	orderdto "order_desk/internal/api/order/dto"
)

// PaymentWebhookRequest payload webhook từ payment gateway.
// Gateway gửi envelope {eventType, data}; data là sự kiện thanh toán hoàn tất.
type PaymentWebhookRequest struct {
	EventType string                 `json:"eventType,omitempty"` // VD: purchase_completed
	Data      orderdto.PurchaseEvent `json:"data"`
}
