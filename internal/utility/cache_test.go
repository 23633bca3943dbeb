package utility

import (
	"sort"
	"testing"
	"time"
)

func TestCache_SetGet(t *testing.T) {
	cache := NewCache(time.Minute, time.Minute)
	defer cache.Stop()

	cache.Set("a@x.com", 42)
	value, found := cache.Get("a@x.com")
	if !found {
		t.Fatal("Get sau Set phải tìm thấy entry")
	}
	if value.(int) != 42 {
		t.Errorf("giá trị phải là 42, có %v", value)
	}

	if _, found := cache.Get("b@x.com"); found {
		t.Error("key chưa set phải trả về found = false")
	}
}

func TestCache_ExpiredEntryNotReturned(t *testing.T) {
	cache := NewCache(20*time.Millisecond, time.Hour)
	defer cache.Stop()

	cache.Set("a@x.com", "v")
	time.Sleep(50 * time.Millisecond)

	if _, found := cache.Get("a@x.com"); found {
		t.Error("entry hết hạn phải được coi như không tồn tại")
	}
	if cache.Len() != 0 {
		t.Errorf("Len phải bỏ qua entries hết hạn, có %d", cache.Len())
	}
}

func TestCache_KeysAndDelete(t *testing.T) {
	cache := NewCache(time.Minute, time.Minute)
	defer cache.Stop()

	cache.Set("a@x.com", 1)
	cache.Set("b@x.com", 2)

	keys := cache.Keys()
	sort.Strings(keys)
	if len(keys) != 2 || keys[0] != "a@x.com" || keys[1] != "b@x.com" {
		t.Errorf("Keys phải trả về [a@x.com b@x.com], có %v", keys)
	}

	cache.Delete("a@x.com")
	if _, found := cache.Get("a@x.com"); found {
		t.Error("Get sau Delete phải trả về found = false")
	}
	if cache.Len() != 1 {
		t.Errorf("Len sau Delete phải là 1, có %d", cache.Len())
	}
}

func TestCache_SetOverwritesValue(t *testing.T) {
	cache := NewCache(time.Minute, time.Minute)
	defer cache.Stop()

	cache.Set("a@x.com", 1)
	cache.Set("a@x.com", 2)

	value, _ := cache.Get("a@x.com")
	if value.(int) != 2 {
		t.Errorf("Set lần hai phải ghi đè, có %v", value)
	}
	if cache.Len() != 1 {
		t.Errorf("ghi đè không được tạo entry mới, Len = %d", cache.Len())
	}
}

func TestCache_StopIdempotent(t *testing.T) {
	cache := NewCache(time.Minute, time.Minute)
	cache.Stop()
	cache.Stop() // không được panic
}
