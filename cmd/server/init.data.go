package main

import (
	"context"

	syncsvc "order_desk/internal/api/sync/service"
	"order_desk/internal/delivery"
	"order_desk/internal/logger"
)

// InitListeners warm cache đối soát từ snapshot bền và đăng ký các event listener.
// Phải chạy sau InitRegistry (các service cần collection đã đăng ký).
func InitListeners() {
	log := logger.GetAppLogger()

	// 1. Warm cache read-side từ sync_snapshots
	reconcileService, err := syncsvc.GetReconcileService()
	if err != nil {
		log.Fatalf("Failed to initialize reconcile service: %v", err)
	}
	if err := reconcileService.WarmCaches(context.Background()); err != nil {
		// Cache rỗng vẫn chạy được, reconcile đầu tiên sẽ lấp đầy
		log.WithError(err).Warn("🔄 [INIT] Warm cache thất bại, tiếp tục với cache rỗng")
	}

	// 2. Reconcile mỗi khi dữ liệu khách hàng / bản khai thay đổi
	if err := syncsvc.RegisterReconcileOnChange(); err != nil {
		log.Fatalf("Failed to register reconcile listener: %v", err)
	}
	log.Info("✅ [INIT] Reconcile-on-change listener registered")

	// 3. Email chào mừng khi khách hàng mới được tạo từ purchase đầu tiên
	delivery.RegisterWelcomeEmailOnPurchase()
	log.Info("✅ [INIT] Welcome email listener registered")
}
