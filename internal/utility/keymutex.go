package utility

import "sync"

// KeyedMutex cung cấp mutex theo từng key riêng biệt.
// Hai goroutines với cùng key sẽ tuần tự hóa, khác key chạy song song.
// Dùng để tuần tự hóa các thao tác ghi trên cùng một khách hàng (theo email).
type KeyedMutex struct {
	mu    sync.Mutex
	locks map[string]*keyLock
}

type keyLock struct {
	mu   sync.Mutex
	refs int
}

// NewKeyedMutex tạo một KeyedMutex mới
func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{
		locks: make(map[string]*keyLock),
	}
}

// Lock khóa mutex cho key. Block cho đến khi lấy được lock.
func (km *KeyedMutex) Lock(key string) {
	km.mu.Lock()
	lock, exists := km.locks[key]
	if !exists {
		lock = &keyLock{}
		km.locks[key] = lock
	}
	lock.refs++
	km.mu.Unlock()

	lock.mu.Lock()
}

// Unlock mở khóa mutex cho key.
// Lock entry được giải phóng khi không còn goroutine nào chờ.
func (km *KeyedMutex) Unlock(key string) {
	km.mu.Lock()
	lock, exists := km.locks[key]
	if !exists {
		km.mu.Unlock()
		return
	}
	lock.refs--
	if lock.refs == 0 {
		delete(km.locks, key)
	}
	km.mu.Unlock()

	lock.mu.Unlock()
}
