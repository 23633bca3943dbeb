// Package ordersvc - Order lifecycle controller: các thao tác admin trên timeline và project.
// Mọi mutation chạy dưới per-email lock để không interleave với ingest trên cùng khách.
package ordersvc

import (
	"context"
	"fmt"

	ordermodels "order_desk/internal/api/order/models"
	"order_desk/internal/common"
	"order_desk/internal/logger"
	"order_desk/internal/utility"

	"github.com/sirupsen/logrus"
)

// OrderLifecycleService điều phối submission + customer + timeline model.
type OrderLifecycleService struct {
	customerService   *OrderCustomerService
	submissionService *OnboardingSubmissionService
}

// NewOrderLifecycleService tạo OrderLifecycleService mới.
func NewOrderLifecycleService() (*OrderLifecycleService, error) {
	customerService, err := NewOrderCustomerService()
	if err != nil {
		return nil, err
	}
	submissionService, err := NewOnboardingSubmissionService()
	if err != nil {
		return nil, err
	}
	return &OrderLifecycleService{
		customerService:   customerService,
		submissionService: submissionService,
	}, nil
}

// syncProgressIntoPrimary ghi progress mới vào activeProjects[0] (single-primary-project).
// Progress đạt 100 trên project đang active thì promote sang completed (terminal).
func syncProgressIntoPrimary(customer *ordermodels.OrderCustomer, progress int, set map[string]interface{}) {
	if len(customer.ActiveProjects) == 0 {
		return
	}
	set["activeProjects.0.progress"] = progress
	if progress >= 100 && customer.ActiveProjects[0].Status == ordermodels.ProjectStatusActive {
		set["activeProjects.0.status"] = ordermodels.ProjectStatusCompleted
	}
}

// ApproveOnboarding duyệt onboarding submission: submission → approved,
// onboardingForm → completed, orderInProgress → in_progress trên record khách.
// Record khách phải tồn tại — không bao giờ tự tạo.
func (s *OrderLifecycleService) ApproveOnboarding(ctx context.Context, submissionID string, actor string, notes string) (*ordermodels.OrderCustomer, error) {
	submission, err := s.submissionService.GetBySubmissionID(ctx, submissionID)
	if err != nil {
		return nil, err
	}

	email := utility.NormalizeEmail(submission.CustomerEmail)
	emailLocks.Lock(email)
	defer emailLocks.Unlock(email)

	customer, err := s.customerService.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	now := utility.CurrentTimeInMilli()
	timeline, err := ApplyStepTransition(customer.Timeline, ordermodels.StepOnboardingForm, ordermodels.StepStatusCompleted, now)
	if err != nil {
		return nil, err
	}
	timeline, err = ApplyStepTransition(timeline, ordermodels.StepOrderInProgress, ordermodels.StepStatusInProgress, now)
	if err != nil {
		return nil, err
	}

	if _, err := s.submissionService.MarkProcessed(ctx, submission, ordermodels.SubmissionApproved, actor, notes); err != nil {
		return nil, err
	}

	progress := ComputeProgress(timeline)
	set := map[string]interface{}{"orderTimeline": timeline}
	syncProgressIntoPrimary(customer, progress, set)

	activity := &ordermodels.ActivityEntry{
		Type:    ordermodels.ActivityOnboardingApproved,
		Message: fmt.Sprintf("Onboarding được duyệt bởi %s", actor),
		Date:    now,
	}
	updated, err := s.customerService.applyMutation(ctx, customer, set, activity)
	if err != nil {
		return nil, err
	}

	logger.GetAppLogger().WithFields(logrus.Fields{
		"email":        email,
		"submissionId": submissionID,
		"actor":        actor,
		"progress":     progress,
	}).Info("✅ [LIFECYCLE] Onboarding approved")

	return updated, nil
}

// RejectOnboarding từ chối submission: submission → rejected,
// bước onboardingForm reset về pending trên record khách.
func (s *OrderLifecycleService) RejectOnboarding(ctx context.Context, submissionID string, actor string, notes string) (*ordermodels.OrderCustomer, error) {
	submission, err := s.submissionService.GetBySubmissionID(ctx, submissionID)
	if err != nil {
		return nil, err
	}

	email := utility.NormalizeEmail(submission.CustomerEmail)
	emailLocks.Lock(email)
	defer emailLocks.Unlock(email)

	customer, err := s.customerService.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	now := utility.CurrentTimeInMilli()
	timeline, err := ApplyStepTransition(customer.Timeline, ordermodels.StepOnboardingForm, ordermodels.StepStatusPending, now)
	if err != nil {
		return nil, err
	}

	if _, err := s.submissionService.MarkProcessed(ctx, submission, ordermodels.SubmissionRejected, actor, notes); err != nil {
		return nil, err
	}

	progress := ComputeProgress(timeline)
	set := map[string]interface{}{"orderTimeline": timeline}
	syncProgressIntoPrimary(customer, progress, set)

	activity := &ordermodels.ActivityEntry{
		Type:    ordermodels.ActivityOnboardingRejected,
		Message: fmt.Sprintf("Onboarding bị từ chối bởi %s", actor),
		Date:    now,
	}
	return s.customerService.applyMutation(ctx, customer, set, activity)
}

// SetTimelineStep admin override trực tiếp một bước timeline.
// Recompute progress và ghi vào activeProjects[0] kèm activity entry.
func (s *OrderLifecycleService) SetTimelineStep(ctx context.Context, email string, stepKey string, action string, actor string) (*ordermodels.OrderCustomer, error) {
	normalized := utility.NormalizeEmail(email)
	if normalized == "" {
		return nil, common.ErrMissingCustomerEmail
	}

	emailLocks.Lock(normalized)
	defer emailLocks.Unlock(normalized)

	customer, err := s.customerService.GetByEmail(ctx, normalized)
	if err != nil {
		return nil, err
	}

	now := utility.CurrentTimeInMilli()
	timeline, err := ApplyStepTransition(customer.Timeline, stepKey, action, now)
	if err != nil {
		return nil, err
	}

	progress := ComputeProgress(timeline)
	set := map[string]interface{}{"orderTimeline": timeline}
	syncProgressIntoPrimary(customer, progress, set)

	activity := &ordermodels.ActivityEntry{
		Type:    ordermodels.ActivityTimelineUpdated,
		Message: fmt.Sprintf("Bước %s chuyển sang %s bởi %s", stepKey, StepPhaseLabel(action), actor),
		Date:    now,
	}
	updated, err := s.customerService.applyMutation(ctx, customer, set, activity)
	if err != nil {
		return nil, err
	}

	logger.GetAppLogger().WithFields(logrus.Fields{
		"email":    normalized,
		"step":     stepKey,
		"action":   action,
		"actor":    actor,
		"progress": progress,
	}).Info("🛠️ [LIFECYCLE] Timeline step updated")

	return updated, nil
}

// buildCancelUpdate dựng update hủy project (pure, không I/O): subscription →
// cancelled luôn; project chỉ ghi status/cancelledAt/cancelledBy khi chưa bị hủy —
// gọi lặp không ghi đè CancelledAt/By đầu tiên (idempotent in effect).
// ErrProjectNotFound khi projectID không thuộc record.
func buildCancelUpdate(customer *ordermodels.OrderCustomer, projectID string, actor string, now int64) (map[string]interface{}, *ordermodels.ActivityEntry, error) {
	idx, project := customer.FindProject(projectID)
	if project == nil {
		return nil, nil, common.ErrProjectNotFound
	}

	set := map[string]interface{}{
		"subscriptionStatus": ordermodels.SubscriptionCancelled,
	}

	var activity *ordermodels.ActivityEntry
	if project.Status != ordermodels.ProjectStatusCancelled {
		set[fmt.Sprintf("activeProjects.%d.status", idx)] = ordermodels.ProjectStatusCancelled
		set[fmt.Sprintf("activeProjects.%d.cancelledAt", idx)] = now
		set[fmt.Sprintf("activeProjects.%d.cancelledBy", idx)] = actor
		activity = &ordermodels.ActivityEntry{
			Type:    ordermodels.ActivityProjectCancelled,
			Message: fmt.Sprintf("Project %s bị hủy bởi %s", project.Name, actor),
			Date:    now,
		}
	}
	return set, activity, nil
}

// CancelProject hủy một project: project → cancelled (terminal, giữ nguyên CancelledAt
// đầu tiên khi gọi lặp), subscription của record → cancelled, submission pending của
// email → cancelled. Không có uncancel.
func (s *OrderLifecycleService) CancelProject(ctx context.Context, email string, projectID string, actor string) (*ordermodels.OrderCustomer, error) {
	normalized := utility.NormalizeEmail(email)
	if normalized == "" || projectID == "" {
		return nil, common.ErrInvalidCancellationTarget
	}

	emailLocks.Lock(normalized)
	defer emailLocks.Unlock(normalized)

	customer, err := s.customerService.GetByEmail(ctx, normalized)
	if err != nil {
		return nil, err
	}

	now := utility.CurrentTimeInMilli()
	set, activity, err := buildCancelUpdate(customer, projectID, actor, now)
	if err != nil {
		return nil, err
	}

	if _, err := s.submissionService.CancelPendingForEmail(ctx, normalized); err != nil {
		return nil, err
	}

	updated, err := s.customerService.applyMutation(ctx, customer, set, activity)
	if err != nil {
		return nil, err
	}

	logger.GetAppLogger().WithFields(logrus.Fields{
		"email":     normalized,
		"projectId": projectID,
		"actor":     actor,
	}).Info("🛑 [LIFECYCLE] Project cancelled")

	return updated, nil
}
