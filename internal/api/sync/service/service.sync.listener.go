// File: service.sync.listener.go
package syncsvc

import (
	"context"

	"order_desk/internal/api/events"
	"order_desk/internal/global"
	"order_desk/internal/logger"
)

// reconcileScope quyết định phạm vi đối soát cho một event.
type reconcileScope struct {
	Email string // email cần refresh; rỗng nghĩa là full sweep
	Skip  bool   // event không liên quan, bỏ qua
}

// reconcileScopeForEvent chọn phạm vi đối soát theo event (pure, không I/O).
// Event theo từng khách hàng chỉ cần refresh đúng email đó; event không xác
// định được email (delete không kèm document, document thiếu email) rơi về
// full sweep để không bỏ sót.
func reconcileScopeForEvent(e events.DataChangeEvent) reconcileScope {
	if e.CollectionName != global.MongoDB_ColNames.OrderCustomers &&
		e.CollectionName != global.MongoDB_ColNames.OrderSubmissions {
		return reconcileScope{Skip: true}
	}
	return reconcileScope{Email: events.CustomerEmailFromDocument(e.Document)}
}

// RegisterReconcileOnChange đăng ký listener đối soát mỗi khi dữ liệu khách hàng
// hoặc bản khai thay đổi. Event xác định được email chỉ refresh snapshot của
// khách đó; full sweep dành cho worker định kỳ và endpoint reconcile thủ công.
// Gọi một lần khi khởi động, sau khi registry collections đã sẵn sàng.
func RegisterReconcileOnChange() error {
	service, err := GetReconcileService()
	if err != nil {
		return err
	}

	events.OnDataChanged(func(ctx context.Context, e events.DataChangeEvent) {
		scope := reconcileScopeForEvent(e)
		if scope.Skip {
			return
		}
		// Chạy với context riêng: request gốc có thể đã kết thúc khi handler chạy
		if scope.Email != "" {
			if err := service.RefreshEmail(context.Background(), scope.Email); err != nil {
				logger.GetAppLogger().WithError(err).WithField("email", scope.Email).Warn("🔄 [SYNC] Refresh snapshot theo event thất bại")
			}
			return
		}
		if _, err := service.Reconcile(context.Background()); err != nil {
			logger.GetAppLogger().WithError(err).Warn("🔄 [SYNC] Reconcile theo event thất bại")
		}
	})
	return nil
}
