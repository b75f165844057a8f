package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWithMessagef(t *testing.T) {
	derived := ErrForbidden.WithMessagef("无权访问用户%d的数据", 7)

	assert.Equal(t, ErrCodeForbidden, derived.Code)
	assert.Equal(t, "无权访问用户7的数据", derived.Message)
	assert.True(t, errors.Is(derived, ErrForbidden))
	assert.False(t, errors.Is(derived, ErrUnauthorized))

	// 预定义错误本身不受影响
	assert.Equal(t, "无权限访问", ErrForbidden.Message)
}

func TestWrap(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	err := Wrap(cause, "查询图书失败")

	assert.Equal(t, ErrCodeInternal, err.Code)
	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, "[50000] 查询图书失败: connection refused", err.Error())

	err = Wrapf(cause, "查询图书%d失败", 3)
	assert.Equal(t, "查询图书3失败", err.Message)
}

func TestGetAppError(t *testing.T) {
	wrapped := fmt.Errorf("handler: %w", ErrEmailDuplicate)
	assert.True(t, IsAppError(wrapped))
	assert.Same(t, ErrEmailDuplicate, GetAppError(wrapped))

	plain := errors.New("boom")
	assert.False(t, IsAppError(plain))
	appErr := GetAppError(plain)
	assert.Equal(t, ErrCodeInternal, appErr.Code)
	assert.Equal(t, plain, appErr.Err)
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		code   int
		status int
	}{
		{0, http.StatusOK},
		{ErrCodeInvalidParams, http.StatusBadRequest},
		{ErrCodeInsufficientStock, http.StatusBadRequest},
		{ErrCodeEmptyCart, http.StatusBadRequest},
		{ErrCodeUnauthorized, http.StatusUnauthorized},
		{ErrCodeTokenExpired, http.StatusUnauthorized},
		{ErrCodeForbidden, http.StatusForbidden},
		{ErrCodeBookNotFound, http.StatusNotFound},
		{ErrCodePurchaseNotFound, http.StatusNotFound},
		{ErrCodeInternal, http.StatusInternalServerError},
		{ErrCodeRedisError, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.status, HTTPStatus(tt.code), "code %d", tt.code)
	}
	assert.Equal(t, http.StatusNotFound, ErrUserNotFound.HTTPStatus())
}
