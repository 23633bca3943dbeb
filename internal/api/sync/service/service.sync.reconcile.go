// File: service.sync.reconcile.go
package syncsvc

import (
	"context"
	"errors"
	"sync"
	"time"

	ordermodels "order_desk/internal/api/order/models"
	ordersvc "order_desk/internal/api/order/service"
	"order_desk/internal/common"
	"order_desk/internal/global"
	"order_desk/internal/logger"
	"order_desk/internal/utility"
)

// ReconcileService đối soát canonical store với các cache read-side.
// Quy tắc: canonical luôn thắng — mọi record canonical ghi đè snapshot trong cache.
// Email chỉ có trong cache (purchase mô phỏng local) được promote lên canonical store
// qua upsert một chiều, sau đó re-cache kết quả canonical.
type ReconcileService struct {
	customerService *ordersvc.OrderCustomerService
	snapshotStore   *SyncSnapshotService
	cache           *SnapshotCache
	mu              sync.Mutex // tuần tự hóa các lần chạy reconcile
}

// ReconcileResult thống kê một lần chạy reconcile.
type ReconcileResult struct {
	CanonicalCount     int      `json:"canonicalCount"`     // Số record canonical đọc được
	RefreshedSnapshots int      `json:"refreshedSnapshots"` // Số snapshot đã ghi lại vào cache
	PromotedEmails     []string `json:"promotedEmails"`     // Các email cache-only đã promote
	Buckets            []string `json:"buckets"`            // Các bucket đã đối soát
	DurationMs         int64    `json:"durationMs"`         // Thời gian chạy
}

var (
	reconcileInstance *ReconcileService
	reconcileInitErr  error
	reconcileOnce     sync.Once
)

// GetReconcileService trả về instance dùng chung (listener, worker và handler
// phải đối soát trên cùng một bộ cache).
func GetReconcileService() (*ReconcileService, error) {
	reconcileOnce.Do(func() {
		customerService, err := ordersvc.NewOrderCustomerService()
		if err != nil {
			reconcileInitErr = err
			return
		}
		snapshotStore, err := NewSyncSnapshotService()
		if err != nil {
			reconcileInitErr = err
			return
		}
		reconcileInstance = &ReconcileService{
			customerService: customerService,
			snapshotStore:   snapshotStore,
			cache:           NewSnapshotCache(),
		}
	})
	return reconcileInstance, reconcileInitErr
}

// Cache trả về SnapshotCache đang dùng.
func (s *ReconcileService) Cache() *SnapshotCache {
	return s.cache
}

// WarmCaches nạp lại cache in-memory từ bản sao bền trong sync_snapshots.
// Gọi một lần khi khởi động, trước khi worker và listener chạy.
func (s *ReconcileService) WarmCaches(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	log := logger.GetAppLogger()
	warmed := 0
	for _, bucketName := range s.cache.BucketNames() {
		snapshots, err := s.snapshotStore.LoadBucket(ctx, bucketName)
		if err != nil {
			return err
		}
		for _, snapshot := range snapshots {
			s.cache.Put(bucketName, snapshot.Customer)
			warmed++
		}
	}
	log.WithFields(map[string]interface{}{"snapshots": warmed}).Info("🔄 [SYNC] Đã warm cache từ sync_snapshots")
	return nil
}

// Reconcile chạy một lần đối soát đầy đủ. Idempotent: chạy lại trên dữ liệu
// canonical không đổi chỉ ghi lại snapshot giống hệt.
// Fetch canonical bị giới hạn bởi SyncFetchTimeoutSeconds; timeout trả lỗi
// retriable và không đụng vào cache (không mất dữ liệu).
func (s *ReconcileService) Reconcile(ctx context.Context) (*ReconcileResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	log := logger.GetAppLogger()
	started := time.Now()

	fetchTimeout := time.Duration(global.MongoDB_ServerConfig.SyncFetchTimeoutSeconds) * time.Second
	fetchCtx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	canonical, err := s.customerService.ListAll(fetchCtx)
	if err != nil {
		log.WithError(err).Warn("🔄 [SYNC] Không đọc được canonical store, giữ nguyên cache")
		return nil, err
	}

	canonicalByEmail := make(map[string]struct{}, len(canonical))
	for _, customer := range canonical {
		canonicalByEmail[utility.NormalizeEmail(customer.Email)] = struct{}{}
	}

	buckets := s.cache.BucketNames()

	// Phase 1: promote các email chỉ có trong cache lên canonical store.
	// Email đã bị soft-delete trong canonical không được promote: snapshot
	// cũ trong cache là rác, evict thay vì resurrect record đã xóa.
	promoted := make([]string, 0)
	evicted := make(map[string]struct{})
	for _, bucketName := range buckets {
		for _, email := range s.cache.Emails(bucketName) {
			if _, exists := canonicalByEmail[email]; exists {
				continue
			}
			if _, gone := evicted[email]; gone {
				s.cache.Remove(bucketName, email)
				continue
			}
			snapshot, ok := s.cache.GetSnapshot(bucketName, email)
			if !ok {
				continue
			}
			hidden, anyErr := s.customerService.GetByEmailAny(ctx, email)
			if anyErr == nil && hidden.Deleted {
				s.evictEmail(ctx, email)
				evicted[email] = struct{}{}
				continue
			}
			result, upErr := s.customerService.UpsertByEmail(ctx, email, patchFromSnapshot(snapshot))
			if upErr != nil {
				log.WithError(upErr).WithField("email", email).Warn("🔄 [SYNC] Promote snapshot thất bại")
				continue
			}
			canonical = append(canonical, *result)
			canonicalByEmail[email] = struct{}{}
			promoted = append(promoted, email)
		}
	}

	// Phase 2: canonical thắng — ghi đè mọi snapshot trong từng bucket,
	// kèm bản sao bền để warm lại cache khi restart.
	refreshed := 0
	for _, bucketName := range buckets {
		for _, customer := range canonical {
			s.cache.Put(bucketName, customer)
			if saveErr := s.snapshotStore.SaveSnapshot(ctx, bucketName, customer); saveErr != nil {
				log.WithError(saveErr).WithField("bucket", bucketName).Warn("🔄 [SYNC] Lưu snapshot bền thất bại")
			}
			refreshed++
		}
	}

	result := &ReconcileResult{
		CanonicalCount:     len(canonical),
		RefreshedSnapshots: refreshed,
		PromotedEmails:     promoted,
		Buckets:            buckets,
		DurationMs:         time.Since(started).Milliseconds(),
	}
	log.WithFields(map[string]interface{}{
		"canonical": result.CanonicalCount,
		"refreshed": result.RefreshedSnapshots,
		"promoted":  len(result.PromotedEmails),
	}).Info("🔄 [SYNC] Reconcile hoàn tất")
	return result, nil
}

// RefreshEmail đối soát đúng một email thay vì quét toàn bộ canonical store.
// Dùng cho các lần chạy theo event: mỗi thay đổi chỉ đụng một khách hàng, nên
// chỉ snapshot của khách đó cần ghi lại. Full sweep vẫn dành cho worker định kỳ
// và endpoint reconcile thủ công.
func (s *ReconcileService) RefreshEmail(ctx context.Context, email string) error {
	normalized := utility.NormalizeEmail(email)
	if normalized == "" {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	log := logger.GetAppLogger()

	fetchTimeout := time.Duration(global.MongoDB_ServerConfig.SyncFetchTimeoutSeconds) * time.Second
	fetchCtx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	customer, err := s.customerService.GetByEmailAny(fetchCtx, normalized)
	if err != nil {
		if errors.Is(err, common.ErrCustomerNotFound) {
			// Không có record canonical nào (kể cả đã xóa): dọn snapshot mồ côi.
			s.evictEmail(ctx, normalized)
			return nil
		}
		log.WithError(err).WithField("email", normalized).Warn("🔄 [SYNC] Không đọc được canonical cho email, giữ nguyên cache")
		return err
	}

	if customer.Deleted {
		// Soft-delete: gỡ snapshot khỏi cache và bản sao bền, không resurrect.
		s.evictEmail(ctx, normalized)
		return nil
	}

	for _, bucketName := range s.cache.BucketNames() {
		s.cache.Put(bucketName, *customer)
		if saveErr := s.snapshotStore.SaveSnapshot(ctx, bucketName, *customer); saveErr != nil {
			log.WithError(saveErr).WithField("bucket", bucketName).Warn("🔄 [SYNC] Lưu snapshot bền thất bại")
		}
	}
	return nil
}

// evictEmail gỡ snapshot của một email khỏi mọi bucket cache và sync_snapshots.
// Caller phải đang giữ s.mu.
func (s *ReconcileService) evictEmail(ctx context.Context, email string) {
	for _, bucketName := range s.cache.BucketNames() {
		s.cache.Remove(bucketName, email)
	}
	if err := s.snapshotStore.DeleteByKey(ctx, email); err != nil {
		logger.GetAppLogger().WithError(err).WithField("email", email).Warn("🔄 [SYNC] Xóa snapshot bền thất bại")
	}
}

// patchFromSnapshot chuyển một snapshot cache-only thành patch upsert canonical.
// Upsert một chiều: store tự xử lý idempotency theo paymentSessionId.
func patchFromSnapshot(snapshot *ordermodels.OrderCustomer) ordersvc.CustomerPatch {
	return ordersvc.CustomerPatch{
		Name:               snapshot.Name,
		BusinessName:       snapshot.BusinessName,
		Website:            snapshot.Website,
		PackageName:        snapshot.PackageName,
		MonthlyRate:        snapshot.MonthlyRate,
		BillingCycleAnchor: snapshot.BillingCycleAnchor,
		PaymentSessionID:   snapshot.PaymentSessionID,
		PaymentCustomerID:  snapshot.PaymentCustomerID,
		NewProjects:        snapshot.ActiveProjects,
		TimelineSteps:      snapshot.Timeline,
		Activity:           snapshot.RecentActivity,
	}
}
