// Package webhookhdl - handler webhook thanh toán (lưu log rồi ingest).
package webhookhdl

import (
	"context"
	"encoding/json"
	"time"

	basehdl "order_desk/internal/api/base/handler"
	ordersvc "order_desk/internal/api/order/service"
	webhookdto "order_desk/internal/api/webhook/dto"
	webhookmodels "order_desk/internal/api/webhook/models"
	webhooksvc "order_desk/internal/api/webhook/service"
	"order_desk/internal/common"
	"order_desk/internal/global"
	"order_desk/internal/logger"

	"github.com/gofiber/fiber/v3"
)

// PaymentWebhookHandler nhận webhook thanh toán: luôn lưu webhook_log trước,
// sau đó chạy ingest. Delivery trùng paymentSessionId → 200 no-op.
type PaymentWebhookHandler struct {
	webhookLogService *webhooksvc.WebhookLogService
	ingestService     *ordersvc.PurchaseIngestService
}

// NewPaymentWebhookHandler tạo mới PaymentWebhookHandler
func NewPaymentWebhookHandler() (*PaymentWebhookHandler, error) {
	webhookLogService, err := webhooksvc.NewWebhookLogService()
	if err != nil {
		return nil, err
	}
	ingestService, err := ordersvc.NewPurchaseIngestService()
	if err != nil {
		return nil, err
	}
	return &PaymentWebhookHandler{
		webhookLogService: webhookLogService,
		ingestService:     ingestService,
	}, nil
}

// HandlePaymentWebhook nhận webhook từ payment gateway.
// Flow: lưu log → parse + validate → ingest → cập nhật trạng thái log.
// Lỗi validate trả 400; lỗi store trả lỗi retriable để gateway gửi lại.
func (h *PaymentWebhookHandler) HandlePaymentWebhook(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		log := logger.GetAppLogger()
		rawBody := string(c.Body())
		ctx := c.Context()

		var req webhookdto.PaymentWebhookRequest
		parseErr := json.Unmarshal(c.Body(), &req)
		if parseErr == nil {
			parseErr = global.Validate.Struct(&req.Data)
		}

		webhookLog, logErr := h.saveWebhookLog(ctx, c, req, rawBody, parseErr)
		if logErr != nil {
			log.WithError(logErr).Warn("🔔 [PAYMENT WEBHOOK] Không thể lưu webhook log")
		}

		if parseErr != nil {
			basehdl.HandleResponse(c, nil, common.NewError(common.ErrCodeValidationInput, common.MsgValidationError, common.StatusBadRequest, parseErr))
			return nil
		}

		customer, created, err := h.ingestService.IngestPurchase(ctx, &req.Data)
		if webhookLog != nil {
			errMsg := ""
			if err != nil {
				errMsg = err.Error()
			}
			if updErr := h.webhookLogService.UpdateProcessedStatus(ctx, webhookLog.ID, err == nil, errMsg); updErr != nil {
				log.WithError(updErr).Warn("🔔 [PAYMENT WEBHOOK] Không thể cập nhật trạng thái webhook log")
			}
		}
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}

		basehdl.HandleResponse(c, fiber.Map{
			"created": created,
			"email":   customer.Email,
		}, nil)
		return nil
	})
}

// saveWebhookLog lưu bản ghi webhook_log cho mọi delivery, kể cả payload hỏng.
func (h *PaymentWebhookHandler) saveWebhookLog(ctx context.Context, c fiber.Ctx, req webhookdto.PaymentWebhookRequest, rawBody string, parseErr error) (*webhookmodels.WebhookLog, error) {
	now := time.Now().UnixMilli()
	requestHeaders := make(map[string]string)
	c.Request().Header.VisitAll(func(key, value []byte) {
		requestHeaders[string(key)] = string(value)
	})

	var requestBody map[string]interface{}
	if parseErr == nil {
		requestBody = map[string]interface{}{"eventType": req.EventType, "data": req.Data}
	} else {
		requestBody = map[string]interface{}{"raw": rawBody, "parseError": parseErr.Error()}
	}

	webhookLog := webhookmodels.WebhookLog{
		Source:           "payment",
		EventType:        req.EventType,
		PaymentSessionID: req.Data.PaymentSessionID,
		CustomerEmail:    req.Data.Email,
		RequestHeaders:   requestHeaders,
		RequestBody:      requestBody,
		RawBody:          rawBody,
		Processed:        false,
		ProcessError: func() string {
			if parseErr != nil {
				return "Parse error: " + parseErr.Error()
			}
			return ""
		}(),
		IPAddress:  c.IP(),
		UserAgent:  c.Get("User-Agent"),
		ReceivedAt: now,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	return h.webhookLogService.CreateWebhookLog(ctx, webhookLog)
}
