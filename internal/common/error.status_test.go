package common

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestError_Is(t *testing.T) {
	err := NewError(ErrCodeValidationInput, "Dữ liệu đầu vào không hợp lệ", StatusBadRequest, nil)
	assert.True(t, errors.Is(err, ErrInvalidInput), "cùng code và message phải match qua errors.Is")
	assert.False(t, errors.Is(err, ErrNotFound), "khác code không được match")
	assert.False(t, errors.Is(err, nil), "target nil không được match")
}

func TestError_IsThroughWrap(t *testing.T) {
	wrapped := fmt.Errorf("upsert thất bại: %w", ErrDuplicatePurchase)
	assert.True(t, errors.Is(wrapped, ErrDuplicatePurchase), "errors.Is phải xuyên qua wrap")

	var customErr *Error
	assert.True(t, errors.As(wrapped, &customErr))
	assert.Equal(t, StatusConflict, customErr.StatusCode)
}

func TestNewError_CarriesDetails(t *testing.T) {
	details := map[string]string{"field": "email"}
	err := NewError(ErrCodeValidationInput, MsgValidationError, StatusBadRequest, details)

	var customErr *Error
	assert.True(t, errors.As(err, &customErr))
	assert.Equal(t, MsgValidationError, customErr.Error())
	assert.Equal(t, "VAL_001", customErr.Code.Code)
	assert.Equal(t, details, customErr.Details)
}

func TestConvertMongoError(t *testing.T) {
	assert.Nil(t, ConvertMongoError(nil))

	// ErrNotFound giữ nguyên để tầng trên xử lý
	assert.Equal(t, ErrNotFound, ConvertMongoError(ErrNotFound))

	// CommandError được map theo dải mã lệnh
	err := ConvertMongoError(mongo.CommandError{Code: 150, Message: "connection reset"})
	assert.True(t, errors.Is(err, ErrMongoConnection))

	err = ConvertMongoError(mongo.CommandError{Code: 250, Message: "auth failed"})
	assert.True(t, errors.Is(err, ErrMongoAuth))

	// Lỗi không nhận diện được trả về lỗi hệ thống chung kèm lỗi gốc
	raw := errors.New("lỗi lạ")
	err = ConvertMongoError(raw)
	var customErr *Error
	assert.True(t, errors.As(err, &customErr))
	assert.Equal(t, StatusInternalServerError, customErr.StatusCode)
	assert.Equal(t, raw, customErr.Details)
}
