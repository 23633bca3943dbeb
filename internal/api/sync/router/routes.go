// Package router đăng ký các route thuộc domain Sync.
package router

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	apirouter "order_desk/internal/api/router"
	synchdl "order_desk/internal/api/sync/handler"
)

// Register đăng ký tất cả route sync lên v1.
func Register(v1 fiber.Router, r *apirouter.Router) error {
	syncHandler, err := synchdl.NewSyncHandler()
	if err != nil {
		return fmt.Errorf("tạo SyncHandler: %w", err)
	}

	adminMiddlewares := []fiber.Handler{r.AdminAuth()}

	// POST /sync/reconcile — chạy đối soát thủ công
	apirouter.RegisterRouteWithMiddleware(v1, "/sync", "POST", "/reconcile", adminMiddlewares, syncHandler.HandleReconcile)

	return nil
}
