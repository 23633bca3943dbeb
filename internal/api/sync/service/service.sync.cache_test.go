package syncsvc

import (
	"sort"
	"testing"
	"time"

	ordermodels "order_desk/internal/api/order/models"
)

func TestSnapshotCache_DefaultBuckets(t *testing.T) {
	cache := NewSnapshotCache()
	defer cache.Stop()

	names := cache.BucketNames()
	sort.Strings(names)
	want := []string{BucketAdminDashboard, BucketCustomerPortal}
	sort.Strings(want)
	if len(names) != len(want) {
		t.Fatalf("phải có %d bucket mặc định, có %d", len(want), len(names))
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("bucket mặc định phải là %v, có %v", want, names)
			break
		}
	}
}

func TestSnapshotCache_PutGetSnapshot(t *testing.T) {
	cache := NewSnapshotCache()
	defer cache.Stop()

	cache.Put(BucketAdminDashboard, ordermodels.OrderCustomer{
		Email: "  John@X.Com ",
		Name:  "John",
	})

	// Key và lookup đều qua email chuẩn hóa
	snapshot, found := cache.GetSnapshot(BucketAdminDashboard, "JOHN@x.com")
	if !found {
		t.Fatal("phải tìm thấy snapshot theo email chuẩn hóa")
	}
	if snapshot.Name != "John" {
		t.Errorf("name phải là John, có %q", snapshot.Name)
	}

	// Bucket khác không bị ảnh hưởng
	if _, found := cache.GetSnapshot(BucketCustomerPortal, "john@x.com"); found {
		t.Error("Put vào một bucket không được xuất hiện ở bucket khác")
	}
}

func TestSnapshotCache_UnregisteredBucket(t *testing.T) {
	cache := NewSnapshotCache()
	defer cache.Stop()

	cache.Put("khong_ton_tai", ordermodels.OrderCustomer{Email: "a@x.com"})
	if _, found := cache.GetSnapshot("khong_ton_tai", "a@x.com"); found {
		t.Error("bucket chưa đăng ký phải trả về found = false")
	}
	if emails := cache.Emails("khong_ton_tai"); emails != nil {
		t.Errorf("Emails trên bucket chưa đăng ký phải là nil, có %v", emails)
	}
}

func TestSnapshotCache_EmptyEmailIgnored(t *testing.T) {
	cache := NewSnapshotCache()
	defer cache.Stop()

	cache.Put(BucketAdminDashboard, ordermodels.OrderCustomer{Email: "   "})
	if emails := cache.Emails(BucketAdminDashboard); len(emails) != 0 {
		t.Errorf("email rỗng không được ghi vào cache, có %v", emails)
	}
}

func TestSnapshotCache_RegisterBucketIdempotent(t *testing.T) {
	cache := NewSnapshotCache()
	defer cache.Stop()

	cache.RegisterBucket("custom", time.Minute, time.Minute)
	cache.Put("custom", ordermodels.OrderCustomer{Email: "a@x.com"})

	// Đăng ký lại cùng tên không được xóa dữ liệu đã có
	cache.RegisterBucket("custom", time.Minute, time.Minute)
	if _, found := cache.GetSnapshot("custom", "a@x.com"); !found {
		t.Error("RegisterBucket lần hai phải là no-op, dữ liệu phải còn nguyên")
	}
}
