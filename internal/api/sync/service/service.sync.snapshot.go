// File: service.sync.snapshot.go
package syncsvc

import (
	"context"
	"fmt"

	basesvc "order_desk/internal/api/base/service"
	ordermodels "order_desk/internal/api/order/models"
	syncmodels "order_desk/internal/api/sync/models"
	"order_desk/internal/common"
	"order_desk/internal/global"
	"order_desk/internal/utility"

	"go.mongodb.org/mongo-driver/bson"
)

// SyncSnapshotService lưu bản sao bền của snapshot cache (sync_snapshots).
type SyncSnapshotService struct {
	*basesvc.BaseServiceMongoImpl[syncmodels.SyncSnapshot]
}

// NewSyncSnapshotService tạo mới SyncSnapshotService
func NewSyncSnapshotService() (*SyncSnapshotService, error) {
	coll, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.SyncSnapshots)
	if !exist {
		return nil, fmt.Errorf("không tìm thấy collection %s: %w", global.MongoDB_ColNames.SyncSnapshots, common.ErrNotFound)
	}
	return &SyncSnapshotService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[syncmodels.SyncSnapshot](coll),
	}, nil
}

// SaveSnapshot upsert snapshot của một khách hàng vào bucket (khóa bucket+key).
func (s *SyncSnapshotService) SaveSnapshot(ctx context.Context, bucket string, customer ordermodels.OrderCustomer) error {
	key := utility.NormalizeEmail(customer.Email)
	if key == "" {
		return nil
	}
	now := utility.CurrentTimeInMilli()
	snapshot := syncmodels.SyncSnapshot{
		Bucket:      bucket,
		Key:         key,
		Customer:    customer,
		RefreshedAt: now,
		UpdatedAt:   now,
	}
	_, err := s.Upsert(ctx, bson.M{"bucket": bucket, "key": key}, snapshot)
	return err
}

// DeleteByKey xóa snapshot bền của một email khỏi mọi bucket.
// Dùng DeleteMany vì email có thể chưa có snapshot ở bucket nào.
func (s *SyncSnapshotService) DeleteByKey(ctx context.Context, key string) error {
	normalized := utility.NormalizeEmail(key)
	if normalized == "" {
		return nil
	}
	_, err := s.DeleteMany(ctx, bson.M{"key": normalized})
	return err
}

// LoadBucket đọc toàn bộ snapshot bền của một bucket (để warm cache khi restart).
func (s *SyncSnapshotService) LoadBucket(ctx context.Context, bucket string) ([]syncmodels.SyncSnapshot, error) {
	return s.Find(ctx, bson.M{"bucket": bucket}, nil)
}
