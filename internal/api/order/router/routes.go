// Package router đăng ký các route thuộc domain order: customers, timeline, submissions.
package router

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	orderhdl "order_desk/internal/api/order/handler"
	apirouter "order_desk/internal/api/router"
)

// Register đăng ký tất cả route order lên v1.
func Register(v1 fiber.Router, r *apirouter.Router) error {
	customerHandler, err := orderhdl.NewOrderCustomerHandler()
	if err != nil {
		return fmt.Errorf("tạo OrderCustomerHandler: %w", err)
	}
	submissionHandler, err := orderhdl.NewOnboardingSubmissionHandler()
	if err != nil {
		return fmt.Errorf("tạo OnboardingSubmissionHandler: %w", err)
	}

	adminMiddlewares := []fiber.Handler{r.AdminAuth()}

	// POST /order/submissions — UI onboarding gửi bản khai, không yêu cầu JWT admin
	v1.Post("/order/submissions", submissionHandler.HandleCreateSubmission)

	// GET /order/customers — danh sách toàn bộ khách hàng chưa xóa
	apirouter.RegisterRouteWithMiddleware(v1, "/order", "GET", "/customers", adminMiddlewares, customerHandler.HandleListCustomers)

	// GET /order/customers/:email — chi tiết một khách hàng theo email
	apirouter.RegisterRouteWithMiddleware(v1, "/order", "GET", "/customers/:email", adminMiddlewares, customerHandler.HandleGetCustomer)

	// DELETE /order/customers/:email — soft delete khách hàng
	apirouter.RegisterRouteWithMiddleware(v1, "/order", "DELETE", "/customers/:email", adminMiddlewares, customerHandler.HandleSoftDeleteCustomer)

	// PUT /order/customers/:email/timeline — đặt trạng thái một bước timeline. Body: {step, action}
	apirouter.RegisterRouteWithMiddleware(v1, "/order", "PUT", "/customers/:email/timeline", adminMiddlewares, customerHandler.HandleSetTimelineStep)

	// POST /order/customers/:email/projects/:projectId/cancel — hủy project + subscription
	apirouter.RegisterRouteWithMiddleware(v1, "/order", "POST", "/customers/:email/projects/:projectId/cancel", adminMiddlewares, customerHandler.HandleCancelProject)

	// POST /order/submissions/:id/approve — duyệt bản khai onboarding. Body (optional): {notes}
	apirouter.RegisterRouteWithMiddleware(v1, "/order", "POST", "/submissions/:id/approve", adminMiddlewares, submissionHandler.HandleApproveSubmission)

	// POST /order/submissions/:id/reject — từ chối bản khai onboarding. Body (optional): {notes}
	apirouter.RegisterRouteWithMiddleware(v1, "/order", "POST", "/submissions/:id/reject", adminMiddlewares, submissionHandler.HandleRejectSubmission)

	// Route CRUD chung cho tra cứu bản khai (chỉ đọc)
	r.RegisterCRUDRoutes(v1, "/order/submissions", submissionHandler, apirouter.ReadOnlyConfig)

	return nil
}
