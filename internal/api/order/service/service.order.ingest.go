// Package ordersvc - Purchase ingestor: chuyển payment-completed event thành record khách.
// Idempotency key = paymentSessionId; re-delivery cùng session là no-op thành công.
package ordersvc

import (
	"context"
	"fmt"

	orderdto "order_desk/internal/api/order/dto"
	ordermodels "order_desk/internal/api/order/models"
	"order_desk/internal/logger"
	"order_desk/internal/common"
	"order_desk/internal/utility"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// PurchaseIngestService chuyển PurchaseEvent thành record khách qua canonical store.
type PurchaseIngestService struct {
	customerService *OrderCustomerService
}

// NewPurchaseIngestService tạo PurchaseIngestService mới.
func NewPurchaseIngestService() (*PurchaseIngestService, error) {
	customerService, err := NewOrderCustomerService()
	if err != nil {
		return nil, err
	}
	return &PurchaseIngestService{customerService: customerService}, nil
}

// IngestPurchase xử lý một payment-completed event.
//
// Returns:
// - record khách sau khi ingest
// - bool: true nếu event tạo thay đổi, false nếu duplicate (no-op)
// - error: ErrMissingCustomerEmail khi thiếu email; lỗi store giữ nguyên để caller retry
func (s *PurchaseIngestService) IngestPurchase(ctx context.Context, event *orderdto.PurchaseEvent) (*ordermodels.OrderCustomer, bool, error) {
	email := utility.NormalizeEmail(event.Email)
	if email == "" {
		return nil, false, common.ErrMissingCustomerEmail
	}

	now := event.OccurredAt
	if now == 0 {
		now = utility.CurrentTimeInMilli()
	}

	// Kiểm tra idempotency: record đã có project với cùng paymentSessionId thì
	// đây là re-delivery — trả về no-op thành công, không surface lỗi cho sender.
	existing, err := s.customerService.GetByEmail(ctx, email)
	if err == nil && existing.FindProjectBySession(event.PaymentSessionID) != nil {
		// Conflict được convert thành success-no-op: sender retry không được thấy lỗi.
		logger.GetAppLogger().WithError(common.ErrDuplicatePurchase).WithFields(logrus.Fields{
			"email":            email,
			"paymentSessionId": event.PaymentSessionID,
		}).Info("🔁 [INGEST] Duplicate purchase event, bỏ qua")
		return existing, false, nil
	}

	// Project mới: orderPlaced đã hoàn thành nên progress khởi điểm = 20 (1/5 bước).
	project := ordermodels.OrderProject{
		ProjectID:        uuid.NewString(),
		Name:             event.PackageName,
		Status:           ordermodels.ProjectStatusActive,
		StartDate:        now,
		Progress:         20,
		PaymentSessionID: event.PaymentSessionID,
	}

	// Trên record cũ chỉ đụng bước orderPlaced; record mới sẽ được store overlay
	// lên default timeline 5 bước pending.
	stamp := now
	timelineSteps := map[string]ordermodels.TimelineStep{
		ordermodels.StepOrderPlaced: {
			Status:    ordermodels.StepStatusCompleted,
			Completed: true,
			Date:      &stamp,
		},
	}

	activity := ordermodels.ActivityEntry{
		Type:    ordermodels.ActivityPurchaseCompleted,
		Message: fmt.Sprintf("Thanh toán hoàn tất cho gói %s", event.PackageName),
		Date:    now,
	}

	patch := CustomerPatch{
		Name:               event.Name,
		BusinessName:       event.BusinessName,
		Website:            event.Website,
		PackageName:        event.PackageName,
		MonthlyRate:        event.AmountMajorUnits,
		BillingCycleAnchor: now,
		PaymentSessionID:   event.PaymentSessionID,
		PaymentCustomerID:  event.PaymentCustomerID,
		NewProjects:        []ordermodels.OrderProject{project},
		TimelineSteps:      timelineSteps,
		Activity:           []ordermodels.ActivityEntry{activity},
	}

	customer, err := s.customerService.UpsertByEmail(ctx, email, patch)
	if err != nil {
		// Lỗi store trả nguyên cho caller: event retriable, lần giao lại sẽ
		// đi qua bước kiểm tra idempotency phía trên.
		return nil, false, err
	}

	logger.GetAppLogger().WithFields(logrus.Fields{
		"email":            email,
		"paymentSessionId": event.PaymentSessionID,
		"projectId":        project.ProjectID,
	}).Info("✅ [INGEST] Purchase event đã được ghi nhận")

	return customer, true, nil
}
