// Package ordersvc - Service khách hàng order (order_customers).
// Canonical store: một record cho mỗi email chuẩn hóa, merge-on-write.
package ordersvc

import (
	"context"
	"errors"
	"fmt"

	ordermodels "order_desk/internal/api/order/models"
	basesvc "order_desk/internal/api/base/service"
	"order_desk/internal/common"
	"order_desk/internal/global"
	"order_desk/internal/utility"

	"go.mongodb.org/mongo-driver/bson"
)

// emailLocks tuần tự hóa mọi mutation trên cùng một email (ingest, lifecycle, soft-delete).
// Khác email chạy song song hoàn toàn. Dùng chung cho cả package.
var emailLocks = utility.NewKeyedMutex()

// CustomerPatch dữ liệu merge vào record khách khi upsert.
// Scalar rỗng/zero không ghi đè giá trị cũ; NewProjects luôn append, không bao giờ replace;
// Activity prepend vào đầu recentActivity.
type CustomerPatch struct {
	Name               string
	BusinessName       string
	Website            string
	PackageName        string
	MonthlyRate        float64
	BillingCycleAnchor int64
	PaymentSessionID   string
	PaymentCustomerID  string

	NewProjects []ordermodels.OrderProject
	// TimelineSteps chỉ chứa các bước cần ghi (VD: ingest chỉ đụng orderPlaced trên record cũ).
	TimelineSteps map[string]ordermodels.TimelineStep
	Activity      []ordermodels.ActivityEntry
}

// OrderCustomerService xử lý logic khách hàng order.
type OrderCustomerService struct {
	*basesvc.BaseServiceMongoImpl[ordermodels.OrderCustomer]
}

// NewOrderCustomerService tạo OrderCustomerService mới.
func NewOrderCustomerService() (*OrderCustomerService, error) {
	coll, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.OrderCustomers)
	if !exist {
		return nil, fmt.Errorf("không tìm thấy collection %s: %w", global.MongoDB_ColNames.OrderCustomers, common.ErrNotFound)
	}
	return &OrderCustomerService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[ordermodels.OrderCustomer](coll),
	}, nil
}

// activeFilter filter chuẩn loại trừ record đã soft-delete.
func activeFilter(extra bson.M) bson.M {
	filter := bson.M{"deleted": bson.M{"$ne": true}}
	for k, v := range extra {
		filter[k] = v
	}
	return filter
}

// GetByEmail lấy record khách theo email chuẩn hóa, loại trừ soft-deleted.
func (s *OrderCustomerService) GetByEmail(ctx context.Context, email string) (*ordermodels.OrderCustomer, error) {
	normalized := utility.NormalizeEmail(email)
	if normalized == "" {
		return nil, common.ErrMissingCustomerEmail
	}
	customer, err := s.FindOne(ctx, activeFilter(bson.M{"email": normalized}), nil)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrCustomerNotFound
		}
		return nil, err
	}
	return &customer, nil
}

// GetByEmailAny lấy record khách theo email KỂ CẢ khi đã soft-delete.
// Dùng cho các đường ghi: unique index email phủ cả document đã xóa, nên
// write path phải nhìn thấy record ẩn để restore-and-merge thay vì chết
// trên duplicate key.
func (s *OrderCustomerService) GetByEmailAny(ctx context.Context, email string) (*ordermodels.OrderCustomer, error) {
	normalized := utility.NormalizeEmail(email)
	if normalized == "" {
		return nil, common.ErrMissingCustomerEmail
	}
	customer, err := s.FindOne(ctx, bson.M{"email": normalized}, nil)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrCustomerNotFound
		}
		return nil, err
	}
	return &customer, nil
}

// ListAll trả về tất cả record khách chưa bị soft-delete.
func (s *OrderCustomerService) ListAll(ctx context.Context) ([]ordermodels.OrderCustomer, error) {
	customers, err := s.Find(ctx, activeFilter(nil), nil)
	if err != nil {
		return nil, err
	}
	if customers == nil {
		customers = []ordermodels.OrderCustomer{}
	}
	return customers, nil
}

// UpsertByEmail tạo mới hoặc merge record khách theo email, dưới per-email lock.
// Tạo mới: defaults bắt buộc (subscription active, timeline 5 bước pending, projects/activity rỗng)
// rồi overlay patch. Merge: scalar non-zero ghi đè, projects APPEND, activity prepend,
// timeline chỉ ghi các bước có trong patch.
func (s *OrderCustomerService) UpsertByEmail(ctx context.Context, email string, patch CustomerPatch) (*ordermodels.OrderCustomer, error) {
	normalized := utility.NormalizeEmail(email)
	if normalized == "" {
		return nil, common.ErrMissingCustomerEmail
	}

	emailLocks.Lock(normalized)
	defer emailLocks.Unlock(normalized)

	// Đọc kể cả record đã soft-delete: unique index email vẫn giữ document ẩn,
	// purchase mới trên email đó phải restore-and-merge chứ không được tạo mới.
	existing, err := s.GetByEmailAny(ctx, normalized)
	if err != nil && !errors.Is(err, common.ErrCustomerNotFound) {
		return nil, err
	}

	if existing == nil {
		return s.createFromPatch(ctx, normalized, patch)
	}
	return s.mergePatch(ctx, existing, patch)
}

// createFromPatch tạo record mới với defaults bắt buộc rồi overlay patch.
func (s *OrderCustomerService) createFromPatch(ctx context.Context, email string, patch CustomerPatch) (*ordermodels.OrderCustomer, error) {
	timeline := NewDefaultTimeline()
	for key, step := range patch.TimelineSteps {
		timeline[key] = step
	}

	projects := patch.NewProjects
	if projects == nil {
		projects = []ordermodels.OrderProject{}
	}
	activity := patch.Activity
	if activity == nil {
		activity = []ordermodels.ActivityEntry{}
	}

	customer := ordermodels.OrderCustomer{
		Email:              email,
		Name:               patch.Name,
		BusinessName:       patch.BusinessName,
		Website:            patch.Website,
		PackageName:        patch.PackageName,
		MonthlyRate:        patch.MonthlyRate,
		SubscriptionStatus: ordermodels.SubscriptionActive,
		BillingCycleAnchor: patch.BillingCycleAnchor,
		ActiveProjects:     projects,
		Timeline:           timeline,
		RecentActivity:     activity,
		PaymentSessionID:   patch.PaymentSessionID,
		PaymentCustomerID:  patch.PaymentCustomerID,
	}

	created, err := s.InsertOne(ctx, customer)
	if err != nil {
		// Unique index trên email backstop race giữa các process: thua race thì
		// đọc lại record thắng cuộc và merge vào đó. Đọc qua GetByEmailAny vì
		// document giữ index có thể là record đã soft-delete.
		if errors.Is(err, common.ErrMongoDuplicate) {
			winner, getErr := s.GetByEmailAny(ctx, email)
			if getErr != nil {
				return nil, getErr
			}
			return s.mergePatch(ctx, winner, patch)
		}
		return nil, err
	}
	return &created, nil
}

// buildMergeUpdate dựng update merge patch vào record đã có (pure, không I/O):
// scalar non-zero ghi đè ($set), projects append ($push/$each) sau khi lọc trùng
// paymentSessionId, activity prepend có cap ($push/$each/$position/$slice),
// timeline chỉ ghi từng bước có trong patch (dot notation).
// Record đang soft-delete được restore: ghi mới vào record ẩn nghĩa là khách
// quay lại (purchase mới) — clear cờ deleted và đưa subscription về active.
func buildMergeUpdate(existing *ordermodels.OrderCustomer, patch CustomerPatch) *basesvc.UpdateData {
	update := &basesvc.UpdateData{
		Set:  make(map[string]interface{}),
		Push: make(map[string]interface{}),
	}

	if existing.Deleted {
		update.Set["deleted"] = false
		update.Set["deletedAt"] = int64(0)
		update.Set["subscriptionStatus"] = ordermodels.SubscriptionActive
	}

	if patch.Name != "" {
		update.Set["name"] = patch.Name
	}
	if patch.BusinessName != "" {
		update.Set["businessName"] = patch.BusinessName
	}
	if patch.Website != "" {
		update.Set["website"] = patch.Website
	}
	if patch.PackageName != "" {
		update.Set["packageName"] = patch.PackageName
	}
	if patch.MonthlyRate != 0 {
		update.Set["monthlyRate"] = patch.MonthlyRate
	}
	if patch.BillingCycleAnchor != 0 {
		update.Set["billingCycleAnchor"] = patch.BillingCycleAnchor
	}
	if patch.PaymentCustomerID != "" && existing.PaymentCustomerID == "" {
		update.Set["paymentCustomerId"] = patch.PaymentCustomerID
	}

	for key, step := range patch.TimelineSteps {
		update.Set["orderTimeline."+key] = step
	}

	// Backstop idempotency dưới lock: project có sessionId đã tồn tại thì không push lại.
	newProjects := make([]ordermodels.OrderProject, 0, len(patch.NewProjects))
	for _, p := range patch.NewProjects {
		if p.PaymentSessionID != "" && existing.FindProjectBySession(p.PaymentSessionID) != nil {
			continue
		}
		newProjects = append(newProjects, p)
	}
	if len(newProjects) > 0 {
		update.Push["activeProjects"] = bson.M{"$each": newProjects}
	}
	if len(patch.Activity) > 0 {
		update.Push["recentActivity"] = bson.M{
			"$each":     patch.Activity,
			"$position": 0,
			"$slice":    ordermodels.RecentActivityLimit,
		}
	}

	return update
}

// mergePatch merge patch vào record đã có qua buildMergeUpdate.
func (s *OrderCustomerService) mergePatch(ctx context.Context, existing *ordermodels.OrderCustomer, patch CustomerPatch) (*ordermodels.OrderCustomer, error) {
	update := buildMergeUpdate(existing, patch)

	if len(update.Set) == 0 && len(update.Push) == 0 {
		return existing, nil
	}

	updated, err := s.UpdateById(ctx, existing.ID, update)
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// applyMutation ghi timeline/projects/activity mới của một record (dùng bởi lifecycle).
// Gọi dưới per-email lock của caller.
func (s *OrderCustomerService) applyMutation(ctx context.Context, customer *ordermodels.OrderCustomer, set map[string]interface{}, activity *ordermodels.ActivityEntry) (*ordermodels.OrderCustomer, error) {
	update := &basesvc.UpdateData{Set: set}
	if activity != nil {
		update.Push = map[string]interface{}{
			"recentActivity": bson.M{
				"$each":     []ordermodels.ActivityEntry{*activity},
				"$position": 0,
				"$slice":    ordermodels.RecentActivityLimit,
			},
		}
	}
	updated, err := s.UpdateById(ctx, customer.ID, update)
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// SoftDelete đánh dấu record đã xóa: loại khỏi mọi query đọc nhưng giữ nguyên
// lịch sử. Restore không expose qua HTTP; purchase mới trên cùng email sẽ tự
// restore-and-merge qua UpsertByEmail.
func (s *OrderCustomerService) SoftDelete(ctx context.Context, email string) error {
	normalized := utility.NormalizeEmail(email)
	if normalized == "" {
		return common.ErrMissingCustomerEmail
	}

	emailLocks.Lock(normalized)
	defer emailLocks.Unlock(normalized)

	customer, err := s.GetByEmail(ctx, normalized)
	if err != nil {
		return err
	}

	update := &basesvc.UpdateData{Set: map[string]interface{}{
		"deleted":   true,
		"deletedAt": utility.CurrentTimeInMilli(),
	}}
	if _, err := s.UpdateById(ctx, customer.ID, update); err != nil {
		return err
	}
	return nil
}
