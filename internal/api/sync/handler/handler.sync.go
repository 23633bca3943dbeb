// Package synchdl - handler cho domain Sync (reconcile thủ công).
package synchdl

import (
	"github.com/gofiber/fiber/v3"

	basehdl "order_desk/internal/api/base/handler"
	syncsvc "order_desk/internal/api/sync/service"
)

// SyncHandler xử lý các request đối soát thủ công từ admin.
type SyncHandler struct {
	reconcileService *syncsvc.ReconcileService
}

// NewSyncHandler tạo mới SyncHandler
func NewSyncHandler() (*SyncHandler, error) {
	reconcileService, err := syncsvc.GetReconcileService()
	if err != nil {
		return nil, err
	}
	return &SyncHandler{
		reconcileService: reconcileService,
	}, nil
}

// HandleReconcile chạy một lần reconcile và trả thống kê.
func (h *SyncHandler) HandleReconcile(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		result, err := h.reconcileService.Reconcile(c.Context())
		basehdl.HandleResponse(c, result, err)
		return nil
	})
}
