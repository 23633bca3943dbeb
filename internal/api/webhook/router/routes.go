// Package router đăng ký các route thuộc domain Webhook.
package router

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	"order_desk/internal/api/middleware"
	apirouter "order_desk/internal/api/router"
	webhookhdl "order_desk/internal/api/webhook/handler"
	"order_desk/internal/global"
)

// Register đăng ký tất cả route webhook lên v1.
// Webhook không dùng JWT admin; chữ ký HMAC được verify bởi WebhookSignatureMiddleware
// (bỏ qua khi WEBHOOK_SIGNING_SECRET rỗng).
func Register(v1 fiber.Router, r *apirouter.Router) error {
	paymentHandler, err := webhookhdl.NewPaymentWebhookHandler()
	if err != nil {
		return fmt.Errorf("tạo PaymentWebhookHandler: %w", err)
	}

	signatureMiddleware := middleware.WebhookSignatureMiddleware(global.MongoDB_ServerConfig.WebhookSigningSecret)

	// POST /webhook/payment — nhận sự kiện thanh toán hoàn tất từ gateway
	apirouter.RegisterRouteWithMiddleware(v1, "/webhook", "POST", "/payment", []fiber.Handler{signatureMiddleware}, paymentHandler.HandlePaymentWebhook)

	return nil
}
