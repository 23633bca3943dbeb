package utility

import (
	"sync"
	"testing"
	"time"
)

func TestKeyedMutex_SerializesSameKey(t *testing.T) {
	km := NewKeyedMutex()
	counter := 0

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			km.Lock("a@x.com")
			defer km.Unlock("a@x.com")
			counter++
		}()
	}
	wg.Wait()

	if counter != 50 {
		t.Errorf("50 goroutines cùng key phải tuần tự hóa, counter = %d", counter)
	}
}

func TestKeyedMutex_DifferentKeysParallel(t *testing.T) {
	km := NewKeyedMutex()

	km.Lock("a@x.com")
	defer km.Unlock("a@x.com")

	done := make(chan struct{})
	go func() {
		km.Lock("b@x.com")
		km.Unlock("b@x.com")
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("khác key phải không block lẫn nhau")
	}
}

func TestKeyedMutex_ReleasesEntryWhenIdle(t *testing.T) {
	km := NewKeyedMutex()
	km.Lock("a@x.com")
	km.Unlock("a@x.com")

	km.mu.Lock()
	remaining := len(km.locks)
	km.mu.Unlock()
	if remaining != 0 {
		t.Errorf("entry phải được giải phóng khi không còn goroutine chờ, còn %d", remaining)
	}
}

func TestNormalizeEmail(t *testing.T) {
	cases := map[string]string{
		"  John@Example.COM ": "john@example.com",
		"a@x.com":             "a@x.com",
		"   ":                 "",
	}
	for in, want := range cases {
		if got := NormalizeEmail(in); got != want {
			t.Errorf("NormalizeEmail(%q) = %q, muốn %q", in, got, want)
		}
	}
}
