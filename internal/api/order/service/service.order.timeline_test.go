// Package ordersvc - Test timeline model: default state, progress, step transition.
package ordersvc

import (
	"errors"
	"testing"

	ordermodels "order_desk/internal/api/order/models"
	"order_desk/internal/common"
)

func TestNewDefaultTimeline_AllStepsPending(t *testing.T) {
	timeline := NewDefaultTimeline()
	if len(timeline) != ordermodels.StepCount {
		t.Fatalf("timeline mặc định phải có %d bước, có %d", ordermodels.StepCount, len(timeline))
	}
	for _, key := range ordermodels.StepKeys {
		step, ok := timeline[key]
		if !ok {
			t.Fatalf("timeline mặc định thiếu bước %s", key)
		}
		if step.Status != ordermodels.StepStatusPending {
			t.Errorf("bước %s phải pending, có %s", key, step.Status)
		}
		if step.Completed {
			t.Errorf("bước %s không được Completed khi pending", key)
		}
		if step.Date != nil {
			t.Errorf("bước %s không được có date khi pending", key)
		}
	}
}

func TestComputeProgress(t *testing.T) {
	timeline := NewDefaultTimeline()
	if got := ComputeProgress(timeline); got != 0 {
		t.Errorf("timeline mặc định progress phải 0, có %d", got)
	}

	// orderPlaced completed sau ingest → 20%
	timeline, err := ApplyStepTransition(timeline, ordermodels.StepOrderPlaced, ordermodels.StepStatusCompleted, 1000)
	if err != nil {
		t.Fatalf("ApplyStepTransition lỗi: %v", err)
	}
	if got := ComputeProgress(timeline); got != 20 {
		t.Errorf("1/5 bước completed progress phải 20, có %d", got)
	}

	// onboardingForm completed sau approve → 40%
	timeline, _ = ApplyStepTransition(timeline, ordermodels.StepOnboardingForm, ordermodels.StepStatusCompleted, 2000)
	if got := ComputeProgress(timeline); got != 40 {
		t.Errorf("2/5 bước completed progress phải 40, có %d", got)
	}

	// in_progress không được tính vào progress
	timeline, _ = ApplyStepTransition(timeline, ordermodels.StepOrderInProgress, ordermodels.StepStatusInProgress, 3000)
	if got := ComputeProgress(timeline); got != 40 {
		t.Errorf("bước in_progress không được tính, progress phải 40, có %d", got)
	}

	// Cả 5 bước completed → 100%
	for _, key := range ordermodels.StepKeys {
		timeline, _ = ApplyStepTransition(timeline, key, ordermodels.StepStatusCompleted, 4000)
	}
	if got := ComputeProgress(timeline); got != 100 {
		t.Errorf("5/5 bước completed progress phải 100, có %d", got)
	}
}

func TestApplyStepTransition_SetsStatusAndCompletedTogether(t *testing.T) {
	timeline := NewDefaultTimeline()

	next, err := ApplyStepTransition(timeline, ordermodels.StepReviewDelivery, ordermodels.StepStatusCompleted, 5000)
	if err != nil {
		t.Fatalf("ApplyStepTransition lỗi: %v", err)
	}
	step := next[ordermodels.StepReviewDelivery]
	if step.Status != ordermodels.StepStatusCompleted || !step.Completed {
		t.Errorf("Status và Completed phải được set cùng nhau: status=%s completed=%v", step.Status, step.Completed)
	}
	if step.Date == nil || *step.Date != 5000 {
		t.Errorf("bước completed phải có date = 5000, có %v", step.Date)
	}

	// Quay về pending phải xóa Completed và Date
	next, err = ApplyStepTransition(next, ordermodels.StepReviewDelivery, ordermodels.StepStatusPending, 6000)
	if err != nil {
		t.Fatalf("ApplyStepTransition lỗi: %v", err)
	}
	step = next[ordermodels.StepReviewDelivery]
	if step.Completed || step.Date != nil {
		t.Errorf("bước pending phải xóa Completed và Date: completed=%v date=%v", step.Completed, step.Date)
	}
}

func TestApplyStepTransition_OutOfOrderAllowed(t *testing.T) {
	// Complete bước cuối khi các bước trước vẫn pending — admin override hợp lệ
	timeline := NewDefaultTimeline()
	next, err := ApplyStepTransition(timeline, ordermodels.StepOrderComplete, ordermodels.StepStatusCompleted, 7000)
	if err != nil {
		t.Fatalf("complete out-of-order phải được phép, lỗi: %v", err)
	}
	for _, key := range ordermodels.StepKeys[:4] {
		if next[key].Status != ordermodels.StepStatusPending {
			t.Errorf("bước %s không được tự chuyển trạng thái, có %s", key, next[key].Status)
		}
	}
	if got := ComputeProgress(next); got != 20 {
		t.Errorf("1/5 completed progress phải 20, có %d", got)
	}
}

func TestApplyStepTransition_FillsMissingSteps(t *testing.T) {
	// Record cũ chỉ có 2 bước — transition phải trả timeline đủ 5 bước
	partial := map[string]ordermodels.TimelineStep{
		ordermodels.StepOrderPlaced: {Status: ordermodels.StepStatusCompleted, Completed: true},
		ordermodels.StepOrderComplete: {Status: ordermodels.StepStatusPending},
	}
	next, err := ApplyStepTransition(partial, ordermodels.StepOnboardingForm, ordermodels.StepStatusInProgress, 8000)
	if err != nil {
		t.Fatalf("ApplyStepTransition lỗi: %v", err)
	}
	if len(next) != ordermodels.StepCount {
		t.Fatalf("timeline sau transition phải đủ %d bước, có %d", ordermodels.StepCount, len(next))
	}
	if next[ordermodels.StepOrderPlaced].Status != ordermodels.StepStatusCompleted {
		t.Error("bước đã completed của record cũ phải được giữ nguyên")
	}
}

func TestApplyStepTransition_DoesNotMutateInput(t *testing.T) {
	timeline := NewDefaultTimeline()
	_, err := ApplyStepTransition(timeline, ordermodels.StepOrderPlaced, ordermodels.StepStatusCompleted, 9000)
	if err != nil {
		t.Fatalf("ApplyStepTransition lỗi: %v", err)
	}
	if timeline[ordermodels.StepOrderPlaced].Status != ordermodels.StepStatusPending {
		t.Error("ApplyStepTransition không được mutate timeline đầu vào")
	}
}

func TestApplyStepTransition_UnknownStep(t *testing.T) {
	timeline := NewDefaultTimeline()
	_, err := ApplyStepTransition(timeline, "shippingLabel", ordermodels.StepStatusCompleted, 1000)
	if !errors.Is(err, common.ErrUnknownTimelineStep) {
		t.Errorf("bước lạ phải trả ErrUnknownTimelineStep, có %v", err)
	}
}

func TestApplyStepTransition_InvalidAction(t *testing.T) {
	timeline := NewDefaultTimeline()
	_, err := ApplyStepTransition(timeline, ordermodels.StepOrderPlaced, "done", 1000)
	if err == nil {
		t.Fatal("action lạ phải trả lỗi validation")
	}
	var appErr *common.Error
	if !errors.As(err, &appErr) {
		t.Fatalf("lỗi phải là *common.Error, có %T", err)
	}
	if appErr.StatusCode != common.StatusBadRequest {
		t.Errorf("lỗi action lạ phải 400, có %d", appErr.StatusCode)
	}
}

func TestStepPhaseLabel(t *testing.T) {
	cases := map[string]string{
		ordermodels.StepStatusCompleted:  "Completed",
		ordermodels.StepStatusInProgress: "In Progress",
		ordermodels.StepStatusPending:    "Pending",
		"":                               "Pending",
	}
	for action, want := range cases {
		if got := StepPhaseLabel(action); got != want {
			t.Errorf("StepPhaseLabel(%q) = %q, muốn %q", action, got, want)
		}
	}
}
