// Package syncsvc - đồng bộ đối soát giữa canonical store và các cache read-side.
// File: service.sync.cache.go
package syncsvc

import (
	"sync"
	"time"

	ordermodels "order_desk/internal/api/order/models"
	"order_desk/internal/utility"
)

// Tên các bucket cache read-side mặc định.
const (
	BucketAdminDashboard = "admin_dashboard"
	BucketCustomerPortal = "customer_portal"
)

// Thời gian sống snapshot và chu kỳ dọn dẹp mặc định cho mỗi bucket.
const (
	defaultSnapshotTTL     = 30 * time.Minute
	defaultSnapshotCleanup = 5 * time.Minute
)

// SnapshotCache quản lý các bucket cache chứa snapshot OrderCustomer keyed theo email chuẩn hóa.
// Mỗi bucket phục vụ một bề mặt đọc riêng (dashboard admin, portal khách hàng, ...).
type SnapshotCache struct {
	mu      sync.RWMutex
	buckets map[string]*utility.Cache
}

// NewSnapshotCache tạo SnapshotCache với các bucket mặc định đã đăng ký.
func NewSnapshotCache() *SnapshotCache {
	sc := &SnapshotCache{
		buckets: make(map[string]*utility.Cache),
	}
	sc.RegisterBucket(BucketAdminDashboard, defaultSnapshotTTL, defaultSnapshotCleanup)
	sc.RegisterBucket(BucketCustomerPortal, defaultSnapshotTTL, defaultSnapshotCleanup)
	return sc
}

// RegisterBucket đăng ký một bucket mới. Gọi lại với tên đã tồn tại là no-op.
func (sc *SnapshotCache) RegisterBucket(name string, ttl, cleanup time.Duration) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	if _, exists := sc.buckets[name]; exists {
		return
	}
	sc.buckets[name] = utility.NewCache(ttl, cleanup)
}

// BucketNames trả về tên các bucket đã đăng ký.
func (sc *SnapshotCache) BucketNames() []string {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	names := make([]string, 0, len(sc.buckets))
	for name := range sc.buckets {
		names = append(names, name)
	}
	return names
}

// bucket lấy cache theo tên, nil nếu chưa đăng ký.
func (sc *SnapshotCache) bucket(name string) *utility.Cache {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.buckets[name]
}

// Put ghi snapshot của một khách hàng vào bucket (ghi đè bản cũ).
func (sc *SnapshotCache) Put(bucketName string, customer ordermodels.OrderCustomer) {
	b := sc.bucket(bucketName)
	if b == nil {
		return
	}
	email := utility.NormalizeEmail(customer.Email)
	if email == "" {
		return
	}
	b.Set(email, customer)
}

// Remove xóa snapshot của một email khỏi bucket. Dùng khi khách hàng bị soft-delete.
func (sc *SnapshotCache) Remove(bucketName string, email string) {
	b := sc.bucket(bucketName)
	if b == nil {
		return
	}
	key := utility.NormalizeEmail(email)
	if key == "" {
		return
	}
	b.Delete(key)
}

// GetSnapshot lấy snapshot theo email từ bucket.
func (sc *SnapshotCache) GetSnapshot(bucketName string, email string) (*ordermodels.OrderCustomer, bool) {
	b := sc.bucket(bucketName)
	if b == nil {
		return nil, false
	}
	value, ok := b.Get(utility.NormalizeEmail(email))
	if !ok {
		return nil, false
	}
	customer, ok := value.(ordermodels.OrderCustomer)
	if !ok {
		return nil, false
	}
	return &customer, true
}

// Emails trả về danh sách email còn hiệu lực trong bucket.
func (sc *SnapshotCache) Emails(bucketName string) []string {
	b := sc.bucket(bucketName)
	if b == nil {
		return nil
	}
	return b.Keys()
}

// Stop dừng cleanup loop của toàn bộ bucket. Dùng khi shutdown.
func (sc *SnapshotCache) Stop() {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	for _, b := range sc.buckets {
		b.Stop()
	}
}
