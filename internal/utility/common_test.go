package utility

import (
	"testing"
)

func TestValidateEmail(t *testing.T) {
	valid := []string{"a@x.com", "john.doe+tag@sub.example.co"}
	for _, email := range valid {
		if err := ValidateEmail(email); err != nil {
			t.Errorf("ValidateEmail(%q) phải hợp lệ, có lỗi %v", email, err)
		}
	}

	invalid := []string{"", "khong-phai-email", "a@b", "@x.com", "a @x.com"}
	for _, email := range invalid {
		if err := ValidateEmail(email); err == nil {
			t.Errorf("ValidateEmail(%q) phải trả về lỗi", email)
		}
	}
}

func TestToMap(t *testing.T) {
	type sample struct {
		Email string `bson:"email"`
		Count int    `bson:"count"`
	}
	m, err := ToMap(sample{Email: "a@x.com", Count: 3})
	if err != nil {
		t.Fatalf("ToMap trả về lỗi: %v", err)
	}
	if m["email"] != "a@x.com" {
		t.Errorf("field email phải giữ nguyên theo bson tag, có %v", m["email"])
	}
	if _, ok := m["count"]; !ok {
		t.Error("field count phải có trong map")
	}
}

func TestGoProtect_RecoversPanic(t *testing.T) {
	GoProtect(func() {
		panic("boom")
	}) // không được làm test process dừng
}
