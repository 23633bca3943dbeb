package registry

import (
	"errors"
	"sort"
	"testing"
)

func TestRegistry_RegisterAndGet(t *testing.T) {
	r := NewRegistry[string]()

	isNew, err := r.Register("mongodb", "client-1")
	if err != nil {
		t.Fatalf("Register trả về lỗi: %v", err)
	}
	if !isNew {
		t.Error("đăng ký lần đầu phải trả về isNew = true")
	}

	item, exists := r.Get("mongodb")
	if !exists || item != "client-1" {
		t.Errorf("Get phải trả về client-1, có %q (exists=%v)", item, exists)
	}

	if _, exists := r.Get("khong_ton_tai"); exists {
		t.Error("Get với tên chưa đăng ký phải trả về exists = false")
	}
}

func TestRegistry_RegisterOverwrite(t *testing.T) {
	r := NewRegistry[int]()
	r.Register("a", 1)

	isNew, err := r.Register("a", 2)
	if err != nil {
		t.Fatalf("Register trả về lỗi: %v", err)
	}
	if isNew {
		t.Error("ghi đè item cũ phải trả về isNew = false")
	}
	item, _ := r.Get("a")
	if item != 2 {
		t.Errorf("giá trị sau ghi đè phải là 2, có %d", item)
	}
}

func TestRegistry_RegisterEmptyName(t *testing.T) {
	r := NewRegistry[string]()
	if _, err := r.Register("", "x"); err == nil {
		t.Error("Register với name rỗng phải trả về lỗi")
	}
}

func TestRegistry_GetOrCreate(t *testing.T) {
	r := NewRegistry[int]()
	calls := 0
	creator := func() (int, error) {
		calls++
		return 7, nil
	}

	item, err := r.GetOrCreate("a", creator)
	if err != nil || item != 7 {
		t.Fatalf("GetOrCreate lần đầu phải tạo mới, item=%d err=%v", item, err)
	}

	item, err = r.GetOrCreate("a", creator)
	if err != nil || item != 7 {
		t.Fatalf("GetOrCreate lần hai phải trả về item đã có, item=%d err=%v", item, err)
	}
	if calls != 1 {
		t.Errorf("creator chỉ được gọi một lần, đã gọi %d lần", calls)
	}
}

func TestRegistry_GetOrCreate_CreatorError(t *testing.T) {
	r := NewRegistry[int]()
	wantErr := errors.New("tạo thất bại")

	if _, err := r.GetOrCreate("a", func() (int, error) { return 0, wantErr }); err == nil {
		t.Fatal("creator lỗi phải được propagate")
	}
	if _, exists := r.Get("a"); exists {
		t.Error("item không được lưu khi creator trả về lỗi")
	}
}

func TestRegistry_NamesAndClear(t *testing.T) {
	r := NewRegistry[int]()
	r.Register("a", 1)
	r.Register("b", 2)

	names := r.Names()
	sort.Strings(names)
	if len(names) != 2 || names[0] != "a" || names[1] != "b" {
		t.Errorf("Names phải trả về [a b], có %v", names)
	}

	cleaned := false
	deleted, err := r.Clear("a", func(item int) error {
		cleaned = true
		return nil
	})
	if err != nil || !deleted {
		t.Fatalf("Clear phải xóa item, deleted=%v err=%v", deleted, err)
	}
	if !cleaned {
		t.Error("cleanup function phải được gọi trước khi xóa")
	}
	if _, exists := r.Get("a"); exists {
		t.Error("item phải bị xóa sau Clear")
	}

	deleted, err = r.Clear("a", nil)
	if err != nil || deleted {
		t.Errorf("Clear item không tồn tại phải trả về deleted = false, có %v (err=%v)", deleted, err)
	}
}

func TestRegistry_ClearAll(t *testing.T) {
	r := NewRegistry[int]()
	r.Register("a", 1)
	r.Register("b", 2)

	count, err := r.ClearAll(nil)
	if err != nil || count != 2 {
		t.Fatalf("ClearAll phải xóa 2 items, count=%d err=%v", count, err)
	}
	if len(r.Names()) != 0 {
		t.Errorf("registry phải rỗng sau ClearAll, còn %v", r.Names())
	}
}
