// Package ordersvc - Test buildCancelUpdate: cancel terminal, gọi lặp không ghi đè.
package ordersvc

import (
	"errors"
	"fmt"
	"testing"

	ordermodels "order_desk/internal/api/order/models"
	"order_desk/internal/common"
)

func customerWithProjects() *ordermodels.OrderCustomer {
	return &ordermodels.OrderCustomer{
		Email:              "khach@example.com",
		SubscriptionStatus: ordermodels.SubscriptionActive,
		ActiveProjects: []ordermodels.OrderProject{
			{ProjectID: "p-1", Name: "Gói Starter", Status: ordermodels.ProjectStatusActive, StartDate: 1000},
			{ProjectID: "p-2", Name: "Gói Pro", Status: ordermodels.ProjectStatusActive, StartDate: 2000},
		},
		Timeline: NewDefaultTimeline(),
	}
}

func TestBuildCancelUpdate_LanDau(t *testing.T) {
	customer := customerWithProjects()
	set, activity, err := buildCancelUpdate(customer, "p-2", "admin@example.com", 5000)
	if err != nil {
		t.Fatalf("buildCancelUpdate lỗi: %v", err)
	}

	if got := set["subscriptionStatus"]; got != ordermodels.SubscriptionCancelled {
		t.Errorf("subscription phải cancelled, có %v", got)
	}
	// p-2 nằm ở index 1 — các key positional phải trỏ đúng phần tử
	if got := set["activeProjects.1.status"]; got != ordermodels.ProjectStatusCancelled {
		t.Errorf("status project phải cancelled ở index 1, có %v", got)
	}
	if got := set["activeProjects.1.cancelledAt"]; got != int64(5000) {
		t.Errorf("cancelledAt phải là thời điểm hủy, có %v", got)
	}
	if got := set["activeProjects.1.cancelledBy"]; got != "admin@example.com" {
		t.Errorf("cancelledBy phải là actor, có %v", got)
	}
	if activity == nil || activity.Type != ordermodels.ActivityProjectCancelled {
		t.Errorf("hủy lần đầu phải có activity project_cancelled, có %v", activity)
	}
}

func TestBuildCancelUpdate_GoiLapKhongGhiDeCancelledAt(t *testing.T) {
	customer := customerWithProjects()
	firstCancelledAt := int64(5000)
	customer.ActiveProjects[1].Status = ordermodels.ProjectStatusCancelled
	customer.ActiveProjects[1].CancelledAt = &firstCancelledAt
	customer.ActiveProjects[1].CancelledBy = "admin@example.com"
	customer.SubscriptionStatus = ordermodels.SubscriptionCancelled

	set, activity, err := buildCancelUpdate(customer, "p-2", "admin2@example.com", 9000)
	if err != nil {
		t.Fatalf("hủy lặp phải thành công (idempotent), có lỗi %v", err)
	}

	// Lần hai chỉ tái khẳng định subscription — project giữ nguyên dấu vết lần đầu
	if got := set["subscriptionStatus"]; got != ordermodels.SubscriptionCancelled {
		t.Errorf("subscription vẫn phải cancelled, có %v", got)
	}
	for _, key := range []string{"status", "cancelledAt", "cancelledBy"} {
		full := fmt.Sprintf("activeProjects.1.%s", key)
		if _, exists := set[full]; exists {
			t.Errorf("hủy lặp không được ghi %s, có %v", full, set[full])
		}
	}
	if activity != nil {
		t.Errorf("hủy lặp không được thêm activity mới, có %v", activity)
	}
}

func TestBuildCancelUpdate_ProjectKhongTonTai(t *testing.T) {
	customer := customerWithProjects()
	_, _, err := buildCancelUpdate(customer, "p-khong-co", "admin@example.com", 5000)
	if !errors.Is(err, common.ErrProjectNotFound) {
		t.Errorf("projectId lạ phải trả ErrProjectNotFound, có %v", err)
	}
}

func TestSyncProgressIntoPrimary(t *testing.T) {
	customer := customerWithProjects()
	set := map[string]interface{}{}
	syncProgressIntoPrimary(customer, 60, set)
	if got := set["activeProjects.0.progress"]; got != 60 {
		t.Errorf("progress phải ghi vào project đầu, có %v", got)
	}
	if _, promoted := set["activeProjects.0.status"]; promoted {
		t.Errorf("progress < 100 không được promote status, có %v", set["activeProjects.0.status"])
	}

	set = map[string]interface{}{}
	syncProgressIntoPrimary(customer, 100, set)
	if got := set["activeProjects.0.status"]; got != ordermodels.ProjectStatusCompleted {
		t.Errorf("progress 100 trên project active phải promote completed, có %v", got)
	}

	// Project đã cancelled là terminal — đủ 100 cũng không đổi status
	customer.ActiveProjects[0].Status = ordermodels.ProjectStatusCancelled
	set = map[string]interface{}{}
	syncProgressIntoPrimary(customer, 100, set)
	if _, promoted := set["activeProjects.0.status"]; promoted {
		t.Errorf("project cancelled không được promote, có %v", set["activeProjects.0.status"])
	}
}
