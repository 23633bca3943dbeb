// Package events cung cấp cơ chế event trung tâm khi dữ liệu thay đổi qua CRUD.
// Các service CRUD không cần override từng method — BaseServiceMongoImpl tự động phát event.
// Logic phản ứng (gửi email chào mừng, cache invalidation, ...) đăng ký qua OnDataChanged.
package events

import (
	"context"
	"sync"

	"order_desk/internal/utility"

	"github.com/sirupsen/logrus"
)

// OpInsert, OpUpdate, OpUpsert, OpDelete là các loại thao tác CRUD.
const (
	OpInsert = "insert"
	OpUpdate = "update"
	OpUpsert = "upsert"
	OpDelete = "delete"
)

// DataChangeEvent mô tả sự kiện thay đổi dữ liệu.
// Document là bản ghi sau khi thay đổi (nil nếu delete).
type DataChangeEvent struct {
	CollectionName string
	Operation      string
	Document       interface{}
}

// DataChangeHandler xử lý sự kiện thay đổi dữ liệu.
type DataChangeHandler func(ctx context.Context, e DataChangeEvent)

var (
	handlers   []DataChangeHandler
	handlersMu sync.RWMutex
)

// OnDataChanged đăng ký handler. Gọi khi init (ví dụ từ delivery package).
func OnDataChanged(h DataChangeHandler) {
	handlersMu.Lock()
	defer handlersMu.Unlock()
	handlers = append(handlers, h)
}

// EmitDataChanged phát sự kiện. Gọi từ BaseServiceMongoImpl sau mỗi CRUD thành công.
// Mỗi handler chạy trong goroutine riêng, panic được recover để không ảnh hưởng handler khác.
func EmitDataChanged(ctx context.Context, e DataChangeEvent) {
	handlersMu.RLock()
	list := make([]DataChangeHandler, len(handlers))
	copy(list, handlers)
	handlersMu.RUnlock()

	for _, h := range list {
		go func(fn DataChangeHandler) {
			defer func() {
				if r := recover(); r != nil {
					// Dùng logrus mặc định: an toàn cả khi app logger chưa init
					logrus.WithFields(logrus.Fields{
						"collection": e.CollectionName,
						"operation":  e.Operation,
						"panic":      r,
					}).Error("💥 [EVENTS] Panic trong data change handler")
				}
			}()
			fn(ctx, e)
		}(h)
	}
}

// CustomerEmailFromDocument trích email (đã chuẩn hóa) từ document của event.
// Document khách hàng mang field "email", bản khai onboarding mang "customerEmail".
// Trả về chuỗi rỗng nếu document nil hoặc không có field nào.
func CustomerEmailFromDocument(doc interface{}) string {
	if doc == nil {
		return ""
	}
	m, err := utility.ToMap(doc)
	if err != nil {
		return ""
	}
	email, _ := m["email"].(string)
	if email == "" {
		email, _ = m["customerEmail"].(string)
	}
	return utility.NormalizeEmail(email)
}

// ResetHandlers xóa toàn bộ handlers đã đăng ký. Chỉ dùng trong tests.
func ResetHandlers() {
	handlersMu.Lock()
	defer handlersMu.Unlock()
	handlers = nil
}
