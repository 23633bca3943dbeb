// Package models - Test helper tra cứu project và bộ hằng số timeline.
package models

import "testing"

func TestStepKeys_FixedOrder(t *testing.T) {
	want := []string{StepOrderPlaced, StepOnboardingForm, StepOrderInProgress, StepReviewDelivery, StepOrderComplete}
	if len(StepKeys) != StepCount {
		t.Fatalf("StepKeys phải có %d bước, có %d", StepCount, len(StepKeys))
	}
	for i, key := range want {
		if StepKeys[i] != key {
			t.Errorf("StepKeys[%d] = %s, muốn %s", i, StepKeys[i], key)
		}
	}
}

func TestIsValidStepKey(t *testing.T) {
	for _, key := range StepKeys {
		if !IsValidStepKey(key) {
			t.Errorf("IsValidStepKey(%s) phải true", key)
		}
	}
	for _, key := range []string{"", "orderplaced", "shipping", "OrderPlaced"} {
		if IsValidStepKey(key) {
			t.Errorf("IsValidStepKey(%s) phải false", key)
		}
	}
}

func TestIsValidStepAction(t *testing.T) {
	for _, action := range []string{StepStatusPending, StepStatusInProgress, StepStatusCompleted} {
		if !IsValidStepAction(action) {
			t.Errorf("IsValidStepAction(%s) phải true", action)
		}
	}
	if IsValidStepAction("done") || IsValidStepAction("") {
		t.Error("action ngoài bộ 3 phải false")
	}
}

func TestFindProject(t *testing.T) {
	customer := &OrderCustomer{
		ActiveProjects: []OrderProject{
			{ProjectID: "p1", Name: "Map PowerBoost"},
			{ProjectID: "p2", Name: "SEO Sprint"},
		},
	}

	idx, project := customer.FindProject("p2")
	if idx != 1 || project == nil || project.Name != "SEO Sprint" {
		t.Errorf("FindProject(p2) = (%d, %+v), muốn index 1", idx, project)
	}

	idx, project = customer.FindProject("p9")
	if idx != -1 || project != nil {
		t.Errorf("FindProject với id lạ phải trả (-1, nil), có (%d, %+v)", idx, project)
	}

	// Con trỏ trả về phải trỏ vào slice gốc để caller đọc được trạng thái hiện tại
	_, project = customer.FindProject("p1")
	project.Status = ProjectStatusCancelled
	if customer.ActiveProjects[0].Status != ProjectStatusCancelled {
		t.Error("FindProject phải trả con trỏ vào phần tử trong slice")
	}
}

func TestFindProjectBySession(t *testing.T) {
	customer := &OrderCustomer{
		ActiveProjects: []OrderProject{
			{ProjectID: "p1", PaymentSessionID: "cs_1"},
			{ProjectID: "p2"}, // project seed không có provenance
		},
	}

	if project := customer.FindProjectBySession("cs_1"); project == nil || project.ProjectID != "p1" {
		t.Errorf("FindProjectBySession(cs_1) phải trả p1, có %+v", project)
	}
	if project := customer.FindProjectBySession("cs_2"); project != nil {
		t.Errorf("session lạ phải trả nil, có %+v", project)
	}
	// Session rỗng không được match project thiếu provenance
	if project := customer.FindProjectBySession(""); project != nil {
		t.Errorf("session rỗng phải trả nil, có %+v", project)
	}
}
