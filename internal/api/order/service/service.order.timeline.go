// Package ordersvc - Timeline model: pure functions, không I/O.
// Mọi creation path đều lấy default timeline từ đây để trạng thái mặc định luôn nhất quán.
package ordersvc

import (
	"fmt"
	"math"

	ordermodels "order_desk/internal/api/order/models"
	"order_desk/internal/common"
)

// NewDefaultTimeline tạo timeline mặc định: cả 5 bước pending, chưa có date.
func NewDefaultTimeline() map[string]ordermodels.TimelineStep {
	timeline := make(map[string]ordermodels.TimelineStep, ordermodels.StepCount)
	for _, key := range ordermodels.StepKeys {
		timeline[key] = ordermodels.TimelineStep{
			Status:    ordermodels.StepStatusPending,
			Completed: false,
			Date:      nil,
		}
	}
	return timeline
}

// ComputeProgress tính phần trăm hoàn thành từ timeline.
// Một bước được tính hoàn thành khi và chỉ khi Status == "completed";
// progress = round(100 * completedSteps / 5).
func ComputeProgress(timeline map[string]ordermodels.TimelineStep) int {
	completed := 0
	for _, key := range ordermodels.StepKeys {
		if step, ok := timeline[key]; ok && step.Status == ordermodels.StepStatusCompleted {
			completed++
		}
	}
	return int(math.Round(100 * float64(completed) / float64(ordermodels.StepCount)))
}

// ApplyStepTransition trả về timeline mới với đúng một bước được chuyển trạng thái.
// action ∈ {pending, in_progress, completed}. Đặt in_progress KHÔNG tự complete các
// bước trước đó — cho phép complete out-of-order (admin override là nghiệp vụ thật,
// không được "sửa"). Status và Completed luôn được set cùng nhau.
//
// Returns:
// - map mới (không mutate input)
// - error: ErrUnknownTimelineStep nếu stepKey ngoài bộ 5 bước; validation error nếu action lạ
func ApplyStepTransition(timeline map[string]ordermodels.TimelineStep, stepKey string, action string, now int64) (map[string]ordermodels.TimelineStep, error) {
	if !ordermodels.IsValidStepKey(stepKey) {
		return nil, common.ErrUnknownTimelineStep
	}
	if !ordermodels.IsValidStepAction(action) {
		return nil, common.NewError(
			common.ErrCodeValidationInput,
			fmt.Sprintf("Action '%s' không hợp lệ. Các action được phép: pending, in_progress, completed", action),
			common.StatusBadRequest,
			nil,
		)
	}

	next := make(map[string]ordermodels.TimelineStep, ordermodels.StepCount)
	for _, key := range ordermodels.StepKeys {
		if step, ok := timeline[key]; ok {
			next[key] = step
		} else {
			// Record cũ thiếu bước nào thì điền pending để timeline luôn total.
			next[key] = ordermodels.TimelineStep{Status: ordermodels.StepStatusPending}
		}
	}

	step := ordermodels.TimelineStep{
		Status:    action,
		Completed: action == ordermodels.StepStatusCompleted,
	}
	if action != ordermodels.StepStatusPending {
		stamp := now
		step.Date = &stamp
	}
	next[stepKey] = step

	return next, nil
}

// StepPhaseLabel map action sang label hiển thị. Chỉ dùng cho display, không persist.
func StepPhaseLabel(action string) string {
	switch action {
	case ordermodels.StepStatusCompleted:
		return "Completed"
	case ordermodels.StepStatusInProgress:
		return "In Progress"
	default:
		return "Pending"
	}
}
