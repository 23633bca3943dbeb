// Package syncsvc - Test chọn phạm vi đối soát theo event.
package syncsvc

import (
	"testing"

	"order_desk/internal/api/events"
	ordermodels "order_desk/internal/api/order/models"
	"order_desk/internal/global"
)

func TestReconcileScopeForEvent_CustomerChiRefreshMotEmail(t *testing.T) {
	scope := reconcileScopeForEvent(events.DataChangeEvent{
		CollectionName: global.MongoDB_ColNames.OrderCustomers,
		Operation:      events.OpUpsert,
		Document:       ordermodels.OrderCustomer{Email: "  Khach@Example.COM "},
	})
	if scope.Skip {
		t.Fatal("event trên order_customers không được skip")
	}
	if scope.Email != "khach@example.com" {
		t.Errorf("event theo khách hàng phải refresh đúng email chuẩn hóa, có %q", scope.Email)
	}
}

func TestReconcileScopeForEvent_SubmissionDungCustomerEmail(t *testing.T) {
	scope := reconcileScopeForEvent(events.DataChangeEvent{
		CollectionName: global.MongoDB_ColNames.OrderSubmissions,
		Operation:      events.OpUpdate,
		Document:       ordermodels.OnboardingSubmission{CustomerEmail: "khach@example.com"},
	})
	if scope.Skip || scope.Email != "khach@example.com" {
		t.Errorf("event bản khai phải lấy email từ customerEmail, có skip=%v email=%q", scope.Skip, scope.Email)
	}
}

func TestReconcileScopeForEvent_CollectionKhacThiSkip(t *testing.T) {
	scope := reconcileScopeForEvent(events.DataChangeEvent{
		CollectionName: global.MongoDB_ColNames.SyncSnapshots,
		Operation:      events.OpUpsert,
	})
	if !scope.Skip {
		t.Error("event trên collection không liên quan phải skip")
	}
}

func TestReconcileScopeForEvent_DeleteKhongDocumentThiFullSweep(t *testing.T) {
	scope := reconcileScopeForEvent(events.DataChangeEvent{
		CollectionName: global.MongoDB_ColNames.OrderCustomers,
		Operation:      events.OpDelete,
		Document:       nil,
	})
	if scope.Skip {
		t.Fatal("delete trên order_customers không được skip")
	}
	if scope.Email != "" {
		t.Errorf("không xác định được email thì phải full sweep (email rỗng), có %q", scope.Email)
	}
}
