// Package ordersvc - Service onboarding submission (order_submissions).
package ordersvc

import (
	"context"
	"errors"
	"fmt"

	orderdto "order_desk/internal/api/order/dto"
	ordermodels "order_desk/internal/api/order/models"
	basesvc "order_desk/internal/api/base/service"
	"order_desk/internal/common"
	"order_desk/internal/global"
	"order_desk/internal/utility"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
)

// OnboardingSubmissionService xử lý logic onboarding submission.
type OnboardingSubmissionService struct {
	*basesvc.BaseServiceMongoImpl[ordermodels.OnboardingSubmission]
}

// NewOnboardingSubmissionService tạo OnboardingSubmissionService mới.
func NewOnboardingSubmissionService() (*OnboardingSubmissionService, error) {
	coll, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.OrderSubmissions)
	if !exist {
		return nil, fmt.Errorf("không tìm thấy collection %s: %w", global.MongoDB_ColNames.OrderSubmissions, common.ErrNotFound)
	}
	return &OnboardingSubmissionService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[ordermodels.OnboardingSubmission](coll),
	}, nil
}

// Create tạo submission mới từ onboarding form, status pending_approval.
func (s *OnboardingSubmissionService) Create(ctx context.Context, input *orderdto.SubmissionCreateInput) (*ordermodels.OnboardingSubmission, error) {
	email := utility.NormalizeEmail(input.CustomerEmail)
	if email == "" {
		return nil, common.ErrMissingCustomerEmail
	}
	if input.ServiceName == "" {
		return nil, common.NewError(
			common.ErrCodeValidationInput,
			"Thiếu tên dịch vụ trong onboarding form",
			common.StatusBadRequest,
			nil,
		)
	}

	submission := ordermodels.OnboardingSubmission{
		SubmissionID:  uuid.NewString(),
		CustomerEmail: email,
		ServiceName:   input.ServiceName,
		FormData:      input.FormData,
		Status:        ordermodels.SubmissionPendingApproval,
		SubmittedAt:   utility.CurrentTimeInMilli(),
	}

	created, err := s.InsertOne(ctx, submission)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// GetBySubmissionID lấy submission theo định danh nghiệp vụ (UUID).
func (s *OnboardingSubmissionService) GetBySubmissionID(ctx context.Context, submissionID string) (*ordermodels.OnboardingSubmission, error) {
	submission, err := s.FindOne(ctx, bson.M{"submissionId": submissionID}, nil)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrSubmissionNotFound
		}
		return nil, err
	}
	return &submission, nil
}

// MarkProcessed cập nhật trạng thái xử lý của submission (approved/rejected) kèm actor và notes.
func (s *OnboardingSubmissionService) MarkProcessed(ctx context.Context, submission *ordermodels.OnboardingSubmission, status string, actor string, notes string) (*ordermodels.OnboardingSubmission, error) {
	update := &basesvc.UpdateData{Set: map[string]interface{}{
		"status":      status,
		"processedAt": utility.CurrentTimeInMilli(),
		"processedBy": actor,
	}}
	if notes != "" {
		update.Set["notes"] = notes
	}
	updated, err := s.UpdateById(ctx, submission.ID, update)
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// CancelPendingForEmail chuyển mọi submission pending_approval của một email sang cancelled.
// Dùng khi project của khách bị hủy. Trả về số submission bị ảnh hưởng.
func (s *OnboardingSubmissionService) CancelPendingForEmail(ctx context.Context, email string) (int64, error) {
	normalized := utility.NormalizeEmail(email)
	if normalized == "" {
		return 0, common.ErrMissingCustomerEmail
	}
	update := &basesvc.UpdateData{Set: map[string]interface{}{
		"status": ordermodels.SubmissionCancelled,
	}}
	count, err := s.UpdateMany(ctx, bson.M{
		"customerEmail": normalized,
		"status":        ordermodels.SubmissionPendingApproval,
	}, update, nil)
	if err != nil {
		// Không có submission pending nào cũng là kết quả hợp lệ.
		if errors.Is(err, common.ErrNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return count, nil
}
