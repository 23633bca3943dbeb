// Package ordersvc - Test buildMergeUpdate: restore soft-delete, dedup session,
// append-only projects/activity.
package ordersvc

import (
	"testing"

	ordermodels "order_desk/internal/api/order/models"

	"go.mongodb.org/mongo-driver/bson"
)

func existingCustomer() *ordermodels.OrderCustomer {
	return &ordermodels.OrderCustomer{
		Email:              "khach@example.com",
		Name:               "Khách A",
		SubscriptionStatus: ordermodels.SubscriptionActive,
		ActiveProjects: []ordermodels.OrderProject{
			{
				ProjectID:        "p-1",
				Name:             "Gói Starter",
				Status:           ordermodels.ProjectStatusActive,
				StartDate:        1000,
				Progress:         20,
				PaymentSessionID: "cs_001",
			},
		},
		Timeline: NewDefaultTimeline(),
	}
}

func TestBuildMergeUpdate_RestoreSoftDeleted(t *testing.T) {
	existing := existingCustomer()
	existing.Deleted = true
	existing.DeletedAt = 9000
	existing.SubscriptionStatus = ordermodels.SubscriptionCancelled

	update := buildMergeUpdate(existing, CustomerPatch{PackageName: "Gói Pro"})

	if got, ok := update.Set["deleted"].(bool); !ok || got {
		t.Errorf("merge vào record đã xóa phải set deleted=false, có %v", update.Set["deleted"])
	}
	if got, ok := update.Set["deletedAt"].(int64); !ok || got != 0 {
		t.Errorf("deletedAt phải reset về 0, có %v", update.Set["deletedAt"])
	}
	if got := update.Set["subscriptionStatus"]; got != ordermodels.SubscriptionActive {
		t.Errorf("subscription phải quay về active khi restore, có %v", got)
	}
}

func TestBuildMergeUpdate_ActiveRecordKhongDungCoDeleted(t *testing.T) {
	update := buildMergeUpdate(existingCustomer(), CustomerPatch{Name: "Khách B"})

	for _, key := range []string{"deleted", "deletedAt", "subscriptionStatus"} {
		if _, exists := update.Set[key]; exists {
			t.Errorf("record chưa xóa không được set %s, có %v", key, update.Set[key])
		}
	}
	if got := update.Set["name"]; got != "Khách B" {
		t.Errorf("name phải được ghi đè, có %v", got)
	}
}

func TestBuildMergeUpdate_DedupProjectTheoSession(t *testing.T) {
	existing := existingCustomer()
	patch := CustomerPatch{
		NewProjects: []ordermodels.OrderProject{
			{ProjectID: "p-dup", Name: "Gói Starter", PaymentSessionID: "cs_001"},
		},
	}

	update := buildMergeUpdate(existing, patch)
	if _, pushed := update.Push["activeProjects"]; pushed {
		t.Errorf("project với paymentSessionId đã tồn tại không được push lại, có %v", update.Push["activeProjects"])
	}
}

func TestBuildMergeUpdate_ProjectMoiLuonAppend(t *testing.T) {
	existing := existingCustomer()
	patch := CustomerPatch{
		NewProjects: []ordermodels.OrderProject{
			{ProjectID: "p-2", Name: "Gói Pro", PaymentSessionID: "cs_002"},
		},
	}

	update := buildMergeUpdate(existing, patch)

	// Append-only: activeProjects không bao giờ bị ghi đè qua $set
	if _, replaced := update.Set["activeProjects"]; replaced {
		t.Fatalf("activeProjects không được ghi đè qua $set, có %v", update.Set["activeProjects"])
	}
	push, ok := update.Push["activeProjects"].(bson.M)
	if !ok {
		t.Fatalf("activeProjects phải được push qua $each, có %T", update.Push["activeProjects"])
	}
	projects, ok := push["$each"].([]ordermodels.OrderProject)
	if !ok || len(projects) != 1 || projects[0].ProjectID != "p-2" {
		t.Errorf("$each phải chứa đúng project mới, có %v", push["$each"])
	}
}

func TestBuildMergeUpdate_ActivityPrependCoCap(t *testing.T) {
	patch := CustomerPatch{
		Activity: []ordermodels.ActivityEntry{
			{Type: ordermodels.ActivityPurchaseCompleted, Message: "Mua gói Pro", Date: 2000},
		},
	}

	update := buildMergeUpdate(existingCustomer(), patch)
	push, ok := update.Push["recentActivity"].(bson.M)
	if !ok {
		t.Fatalf("recentActivity phải được push, có %T", update.Push["recentActivity"])
	}
	if got := push["$position"]; got != 0 {
		t.Errorf("activity mới phải prepend ($position 0), có %v", got)
	}
	if got := push["$slice"]; got != ordermodels.RecentActivityLimit {
		t.Errorf("recentActivity phải cap ở %d, có %v", ordermodels.RecentActivityLimit, got)
	}
}

func TestBuildMergeUpdate_PaymentCustomerIdChiGhiLanDau(t *testing.T) {
	existing := existingCustomer()
	update := buildMergeUpdate(existing, CustomerPatch{PaymentCustomerID: "cus_001"})
	if got := update.Set["paymentCustomerId"]; got != "cus_001" {
		t.Errorf("paymentCustomerId phải được ghi khi record chưa có, có %v", got)
	}

	existing.PaymentCustomerID = "cus_001"
	update = buildMergeUpdate(existing, CustomerPatch{PaymentCustomerID: "cus_khac"})
	if _, exists := update.Set["paymentCustomerId"]; exists {
		t.Errorf("paymentCustomerId đã có không được ghi đè, có %v", update.Set["paymentCustomerId"])
	}
}

func TestBuildMergeUpdate_TimelineGhiTungBuoc(t *testing.T) {
	stamp := int64(3000)
	patch := CustomerPatch{
		TimelineSteps: map[string]ordermodels.TimelineStep{
			ordermodels.StepOrderPlaced: {Status: ordermodels.StepStatusCompleted, Completed: true, Date: &stamp},
		},
	}

	update := buildMergeUpdate(existingCustomer(), patch)
	if _, wholesale := update.Set["orderTimeline"]; wholesale {
		t.Fatalf("merge không được ghi đè cả timeline, có %v", update.Set["orderTimeline"])
	}
	step, ok := update.Set["orderTimeline."+ordermodels.StepOrderPlaced].(ordermodels.TimelineStep)
	if !ok || step.Status != ordermodels.StepStatusCompleted {
		t.Errorf("bước orderPlaced phải được ghi qua dot notation, có %v", update.Set["orderTimeline."+ordermodels.StepOrderPlaced])
	}
	for _, key := range []string{ordermodels.StepOnboardingForm, ordermodels.StepOrderInProgress} {
		if _, exists := update.Set["orderTimeline."+key]; exists {
			t.Errorf("bước %s không có trong patch thì không được ghi", key)
		}
	}
}

func TestBuildMergeUpdate_PatchRongKhongGhiGi(t *testing.T) {
	update := buildMergeUpdate(existingCustomer(), CustomerPatch{})
	if len(update.Set) != 0 || len(update.Push) != 0 {
		t.Errorf("patch rỗng trên record active phải là no-op, có Set=%v Push=%v", update.Set, update.Push)
	}
}

// Re-delivery của cùng purchase event: toàn bộ phần project của patch bị lọc
// trùng session, các scalar ghi lại giá trị cũ — record không đổi về nghiệp vụ.
func TestBuildMergeUpdate_ReDeliveryKhongNhanDoiProject(t *testing.T) {
	existing := existingCustomer()
	redelivered := CustomerPatch{
		Name:        existing.Name,
		PackageName: "Gói Starter",
		NewProjects: []ordermodels.OrderProject{
			{ProjectID: "p-moi", Name: "Gói Starter", PaymentSessionID: "cs_001"},
		},
	}

	update := buildMergeUpdate(existing, redelivered)
	if _, pushed := update.Push["activeProjects"]; pushed {
		t.Errorf("re-delivery cùng paymentSessionId không được thêm project, có %v", update.Push["activeProjects"])
	}
}
