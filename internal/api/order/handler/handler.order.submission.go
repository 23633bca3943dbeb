// Package orderhdl - Handler onboarding submission.
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

// OnboardingSubmissionHandler xử lý các route onboarding submission.
type OnboardingSubmissionHandler struct {
	*basehdl.BaseHandler[ordermodels.OnboardingSubmission, orderdto.SubmissionCreateInput, orderdto.SubmissionUpdateInput]
	SubmissionService *ordersvc.OnboardingSubmissionService
	LifecycleService  *ordersvc.OrderLifecycleService
}

// NewOnboardingSubmissionHandler tạo OnboardingSubmissionHandler mới.
func NewOnboardingSubmissionHandler() (*OnboardingSubmissionHandler, error) {
	submissionService, err := ordersvc.NewOnboardingSubmissionService()
	if err != nil {
		return nil, fmt.Errorf("tạo OnboardingSubmissionService: %w", err)
	}
	lifecycleService, err := ordersvc.NewOrderLifecycleService()
	if err != nil {
		return nil, fmt.Errorf("tạo OrderLifecycleService: %w", err)
	}
	return &OnboardingSubmissionHandler{
		BaseHandler:       basehdl.NewBaseHandler[ordermodels.OnboardingSubmission, orderdto.SubmissionCreateInput, orderdto.SubmissionUpdateInput](submissionService),
		SubmissionService: submissionService,
		LifecycleService:  lifecycleService,
	}, nil
}

// HandleCreateSubmission xử lý POST /order/submissions (từ onboarding form UI).
func (h *OnboardingSubmissionHandler) HandleCreateSubmission(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		var input orderdto.SubmissionCreateInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		if err := h.ValidateInput(&input); err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}

		submission, err := h.SubmissionService.Create(c.Context(), &input)
		basehdl.HandleResponse(c, submission, err)
		return nil
	})
}

// HandleApproveSubmission xử lý POST /order/submissions/:id/approve.
func (h *OnboardingSubmissionHandler) HandleApproveSubmission(c fiber.Ctx) error {
	return h.handleProcessSubmission(c, true)
}

// HandleRejectSubmission xử lý POST /order/submissions/:id/reject.
func (h *OnboardingSubmissionHandler) HandleRejectSubmission(c fiber.Ctx) error {
	return h.handleProcessSubmission(c, false)
}

func (h *OnboardingSubmissionHandler) handleProcessSubmission(c fiber.Ctx, approve bool) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		submissionID := c.Params("id")
		if submissionID == "" {
			basehdl.HandleResponse(c, nil, common.NewError(
				common.ErrCodeValidationInput,
				"Thiếu submission id trong URL params",
				common.StatusBadRequest,
				nil,
			))
			return nil
		}

		// Notes là optional — body rỗng vẫn hợp lệ.
		var input orderdto.SubmissionProcessInput
		if len(c.Body()) > 0 {
			if err := h.ParseRequestBody(c, &input); err != nil {
				basehdl.HandleResponse(c, nil, err)
				return nil
			}
		}

		actor := getActor(c)
		var customer *ordermodels.OrderCustomer
		var err error
		if approve {
			customer, err = h.LifecycleService.ApproveOnboarding(c.Context(), submissionID, actor, input.Notes)
		} else {
			customer, err = h.LifecycleService.RejectOnboarding(c.Context(), submissionID, actor, input.Notes)
		}
		basehdl.HandleResponse(c, customer, err)
		return nil
	})
}
