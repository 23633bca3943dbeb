// Package orderhdl - Handler khách hàng order.
// CRUD generic qua BaseHandler + các operation theo email (get, soft-delete, timeline, cancel).
package orderhdl

import (
	"fmt"

	basehdl "order_desk/internal/api/base/handler"
	orderdto "order_desk/internal/api/order/dto"
	ordermodels "order_desk/internal/api/order/models"
	ordersvc "order_desk/internal/api/order/service"
	"order_desk/internal/common"

	"github.com/gofiber/fiber/v3"
)

// OrderCustomerHandler xử lý các route khách hàng order.
type OrderCustomerHandler struct {
	*basehdl.BaseHandler[ordermodels.OrderCustomer, orderdto.OrderCustomerCreateInput, orderdto.OrderCustomerUpdateInput]
	CustomerService  *ordersvc.OrderCustomerService
	LifecycleService *ordersvc.OrderLifecycleService
}

// NewOrderCustomerHandler tạo OrderCustomerHandler mới.
func NewOrderCustomerHandler() (*OrderCustomerHandler, error) {
	customerService, err := ordersvc.NewOrderCustomerService()
	if err != nil {
		return nil, fmt.Errorf("tạo OrderCustomerService: %w", err)
	}
	lifecycleService, err := ordersvc.NewOrderLifecycleService()
	if err != nil {
		return nil, fmt.Errorf("tạo OrderLifecycleService: %w", err)
	}
	return &OrderCustomerHandler{
		BaseHandler:      basehdl.NewBaseHandler[ordermodels.OrderCustomer, orderdto.OrderCustomerCreateInput, orderdto.OrderCustomerUpdateInput](customerService),
		CustomerService:  customerService,
		LifecycleService: lifecycleService,
	}, nil
}

// getActor lấy email admin từ context (đã được AuthMiddleware set).
func getActor(c fiber.Ctx) string {
	if actor, ok := c.Locals("actor").(string); ok {
		return actor
	}
	return ""
}

// HandleListCustomers xử lý GET /order/customers — tất cả khách chưa soft-delete.
func (h *OrderCustomerHandler) HandleListCustomers(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		customers, err := h.CustomerService.ListAll(c.Context())
		basehdl.HandleResponse(c, customers, err)
		return nil
	})
}

// HandleGetCustomer xử lý GET /order/customers/:email.
func (h *OrderCustomerHandler) HandleGetCustomer(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		email := c.Params("email")
		if email == "" {
			basehdl.HandleResponse(c, nil, common.ErrMissingCustomerEmail)
			return nil
		}
		customer, err := h.CustomerService.GetByEmail(c.Context(), email)
		basehdl.HandleResponse(c, customer, err)
		return nil
	})
}

// HandleSoftDeleteCustomer xử lý DELETE /order/customers/:email.
// Soft delete: record biến mất khỏi mọi query nhưng không bị xóa vật lý.
func (h *OrderCustomerHandler) HandleSoftDeleteCustomer(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		email := c.Params("email")
		if email == "" {
			basehdl.HandleResponse(c, nil, common.ErrMissingCustomerEmail)
			return nil
		}
		err := h.CustomerService.SoftDelete(c.Context(), email)
		basehdl.HandleResponse(c, nil, err)
		return nil
	})
}

// HandleSetTimelineStep xử lý PUT /order/customers/:email/timeline.
// Body: {step, action}. Admin override trực tiếp, cho phép out-of-order.
func (h *OrderCustomerHandler) HandleSetTimelineStep(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		email := c.Params("email")
		if email == "" {
			basehdl.HandleResponse(c, nil, common.ErrMissingCustomerEmail)
			return nil
		}

		var input orderdto.TimelineStepInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		if err := h.ValidateInput(&input); err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}

		customer, err := h.LifecycleService.SetTimelineStep(c.Context(), email, input.Step, input.Action, getActor(c))
		basehdl.HandleResponse(c, customer, err)
		return nil
	})
}

// HandleCancelProject xử lý POST /order/customers/:email/projects/:projectId/cancel.
func (h *OrderCustomerHandler) HandleCancelProject(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		email := c.Params("email")
		projectID := c.Params("projectId")
		if email == "" || projectID == "" {
			basehdl.HandleResponse(c, nil, common.ErrInvalidCancellationTarget)
			return nil
		}

		customer, err := h.LifecycleService.CancelProject(c.Context(), email, projectID, getActor(c))
		basehdl.HandleResponse(c, customer, err)
		return nil
	})
}
