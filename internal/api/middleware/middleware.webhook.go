package middleware

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"

	"order_desk/internal/common"
	"order_desk/internal/logger"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"
)

// WebhookSignatureMiddleware xác thực chữ ký HMAC-SHA256 của webhook thanh toán.
// Chữ ký được truyền qua header X-Webhook-Signature (hex của HMAC body với signing secret).
// Nếu signingSecret rỗng thì bỏ qua kiểm tra (môi trường development).
func WebhookSignatureMiddleware(signingSecret string) fiber.Handler {
	secret := []byte(signingSecret)

	return func(c fiber.Ctx) error {
		if signingSecret == "" {
			return c.Next()
		}

		signature := c.Get("X-Webhook-Signature")
		if signature == "" {
			logger.GetAppLogger().WithFields(logrus.Fields{
				"path": c.Path(),
				"ip":   c.IP(),
			}).Warn("❌ [WEBHOOK] Missing X-Webhook-Signature header")
			HandleErrorResponse(c, common.NewError(
				common.ErrCodeAuthCredentials,
				"Thiếu chữ ký webhook",
				common.StatusUnauthorized,
				nil,
			))
			return nil
		}

		mac := hmac.New(sha256.New, secret)
		mac.Write(c.Body())
		expected := hex.EncodeToString(mac.Sum(nil))

		if !hmac.Equal([]byte(signature), []byte(expected)) {
			logger.GetAppLogger().WithFields(logrus.Fields{
				"path": c.Path(),
				"ip":   c.IP(),
			}).Warn("❌ [WEBHOOK] Invalid webhook signature")
			HandleErrorResponse(c, common.NewError(
				common.ErrCodeAuthCredentials,
				"Chữ ký webhook không hợp lệ",
				common.StatusUnauthorized,
				nil,
			))
			return nil
		}

		return c.Next()
	}
}
