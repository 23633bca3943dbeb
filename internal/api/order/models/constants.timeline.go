// Package models - Constants cho order timeline và các trạng thái domain.
package models

// Năm bước cố định của order timeline, theo đúng thứ tự nghiệp vụ.
// Không cho phép thêm/bớt bước — đây không phải workflow engine.
const (
	StepOrderPlaced    = "orderPlaced"
	StepOnboardingForm = "onboardingForm"
	StepOrderInProgress = "orderInProgress"
	StepReviewDelivery = "reviewDelivery"
	StepOrderComplete  = "orderComplete"
)

// StepKeys thứ tự cố định của các bước. Mọi nơi duyệt timeline đều phải theo slice này.
var StepKeys = []string{
	StepOrderPlaced,
	StepOnboardingForm,
	StepOrderInProgress,
	StepReviewDelivery,
	StepOrderComplete,
}

// StepCount số bước cố định — mẫu số của công thức progress.
const StepCount = 5

// Trạng thái của một bước timeline (đồng thời là action khi admin chuyển bước).
const (
	StepStatusPending    = "pending"
	StepStatusInProgress = "in_progress"
	StepStatusCompleted  = "completed"
)

// Trạng thái project trong activeProjects. Cancelled và Completed đều là terminal.
const (
	ProjectStatusActive    = "active"
	ProjectStatusCancelled = "cancelled"
	ProjectStatusCompleted = "completed"
)

// Trạng thái subscription của khách hàng.
const (
	SubscriptionActive    = "active"
	SubscriptionCancelled = "cancelled"
)

// Trạng thái của onboarding submission.
const (
	SubmissionPendingApproval = "pending_approval"
	SubmissionApproved        = "approved"
	SubmissionRejected        = "rejected"
	SubmissionCancelled       = "cancelled"
)

// Các loại entry trong recentActivity.
const (
	ActivityPurchaseCompleted   = "purchase_completed"
	ActivityTimelineUpdated     = "timeline_updated"
	ActivityOnboardingApproved  = "onboarding_approved"
	ActivityOnboardingRejected  = "onboarding_rejected"
	ActivityProjectCancelled    = "project_cancelled"
)

// RecentActivityLimit giới hạn số entry giữ lại trong recentActivity (mới nhất trước).
const RecentActivityLimit = 50

// IsValidStepKey kiểm tra stepKey có thuộc bộ 5 bước cố định không.
func IsValidStepKey(stepKey string) bool {
	for _, k := range StepKeys {
		if k == stepKey {
			return true
		}
	}
	return false
}

// IsValidStepAction kiểm tra action chuyển bước hợp lệ.
func IsValidStepAction(action string) bool {
	return action == StepStatusPending || action == StepStatusInProgress || action == StepStatusCompleted
}
