package worker

import (
	"context"
	"time"

	syncsvc "order_desk/internal/api/sync/service"
	"order_desk/internal/logger"
)

// ReconcileWorker chạy đối soát định kỳ giữa canonical store và cache read-side.
// Mỗi lần chạy là một lần Reconcile đầy đủ; lỗi (VD: timeout đọc canonical)
// chỉ log và thử lại ở chu kỳ sau.
type ReconcileWorker struct {
	reconcileService *syncsvc.ReconcileService
	interval         time.Duration // Khoảng thời gian giữa các lần chạy
}

// NewReconcileWorker tạo mới ReconcileWorker.
// Tham số:
//   - interval: Khoảng thời gian giữa các lần chạy (tối thiểu 1 phút, mặc định 5 phút)
func NewReconcileWorker(interval time.Duration) (*ReconcileWorker, error) {
	reconcileService, err := syncsvc.GetReconcileService()
	if err != nil {
		return nil, err
	}
	if interval < time.Minute {
		interval = 5 * time.Minute
	}
	return &ReconcileWorker{
		reconcileService: reconcileService,
		interval:         interval,
	}, nil
}

// Start chạy worker trong vòng lặp: mỗi interval chạy một lần reconcile.
func (w *ReconcileWorker) Start(ctx context.Context) {
	log := logger.GetAppLogger()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	log.WithFields(map[string]interface{}{
		"interval": w.interval.String(),
	}).Info("🔄 [RECONCILE] Starting Reconcile Worker...")

	for {
		select {
		case <-ctx.Done():
			log.Info("🔄 [RECONCILE] Reconcile Worker stopped")
			return
		case <-ticker.C:
			func() {
				defer func() {
					if r := recover(); r != nil {
						log.WithFields(map[string]interface{}{
							"panic": r,
						}).Error("🔄 [RECONCILE] Panic khi reconcile, sẽ tiếp tục ở lần chạy tiếp theo")
					}
				}()

				result, err := w.reconcileService.Reconcile(ctx)
				if err != nil {
					log.WithError(err).Error("🔄 [RECONCILE] Reconcile thất bại")
					return
				}
				if len(result.PromotedEmails) > 0 {
					log.WithFields(map[string]interface{}{
						"promoted": result.PromotedEmails,
					}).Info("🔄 [RECONCILE] Đã promote các snapshot cache-only")
				}
			}()
		}
	}
}
