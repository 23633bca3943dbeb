package events

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestEmitDataChanged_InvokesAllHandlers(t *testing.T) {
	ResetHandlers()
	defer ResetHandlers()

	var wg sync.WaitGroup
	wg.Add(2)

	var mu sync.Mutex
	var seen []DataChangeEvent
	record := func(ctx context.Context, e DataChangeEvent) {
		mu.Lock()
		seen = append(seen, e)
		mu.Unlock()
		wg.Done()
	}
	OnDataChanged(record)
	OnDataChanged(record)

	EmitDataChanged(context.Background(), DataChangeEvent{
		CollectionName: "order_customers",
		Operation:      OpInsert,
		Document:       map[string]string{"email": "a@x.com"},
	})

	done := make(chan struct{})
	go func() { wg.Wait(); close(done) }()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("cả hai handlers phải được gọi")
	}

	mu.Lock()
	defer mu.Unlock()
	for _, e := range seen {
		if e.CollectionName != "order_customers" || e.Operation != OpInsert {
			t.Errorf("event nhận được sai nội dung: %+v", e)
		}
	}
}

func TestEmitDataChanged_PanicInHandlerDoesNotBlockOthers(t *testing.T) {
	ResetHandlers()
	defer ResetHandlers()

	OnDataChanged(func(ctx context.Context, e DataChangeEvent) {
		panic("handler hỏng")
	})

	called := make(chan struct{})
	OnDataChanged(func(ctx context.Context, e DataChangeEvent) {
		close(called)
	})

	EmitDataChanged(context.Background(), DataChangeEvent{Operation: OpUpdate})

	select {
	case <-called:
	case <-time.After(2 * time.Second):
		t.Fatal("handler panic không được ảnh hưởng handler khác")
	}
}

func TestEmitDataChanged_NoHandlers(t *testing.T) {
	ResetHandlers()
	// Không có handler nào — không được panic
	EmitDataChanged(context.Background(), DataChangeEvent{Operation: OpDelete})
}

func TestCustomerEmailFromDocument(t *testing.T) {
	if got := CustomerEmailFromDocument(nil); got != "" {
		t.Errorf("document nil phải trả về chuỗi rỗng, có %q", got)
	}

	type doc struct {
		Email string `bson:"email"`
	}
	if got := CustomerEmailFromDocument(doc{Email: "  John@X.Com "}); got != "john@x.com" {
		t.Errorf("email phải được chuẩn hóa, có %q", got)
	}

	type submissionDoc struct {
		CustomerEmail string `bson:"customerEmail"`
	}
	if got := CustomerEmailFromDocument(submissionDoc{CustomerEmail: "Jane@X.Com"}); got != "jane@x.com" {
		t.Errorf("document bản khai phải lấy email từ customerEmail, có %q", got)
	}

	type noEmail struct {
		Name string `bson:"name"`
	}
	if got := CustomerEmailFromDocument(noEmail{Name: "A"}); got != "" {
		t.Errorf("document không có email phải trả về chuỗi rỗng, có %q", got)
	}
}
