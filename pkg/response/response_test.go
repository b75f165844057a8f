package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/xiebiao/bookapp/pkg/errors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(h gin.HandlerFunc) (*httptest.ResponseRecorder, Response) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	h(c)

	var body Response
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	return w, body
}

func TestError_StatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   int
	}{
		{"not found", apperrors.New(apperrors.ErrCodeBookNotFound, "图书不存在"), http.StatusNotFound, apperrors.ErrCodeBookNotFound},
		{"business", apperrors.New(apperrors.ErrCodeInsufficientStock, "库存不足"), http.StatusBadRequest, apperrors.ErrCodeInsufficientStock},
		{"unauthorized", apperrors.ErrUnauthorized, http.StatusUnauthorized, apperrors.ErrCodeUnauthorized},
		{"forbidden", apperrors.ErrForbidden, http.StatusForbidden, apperrors.ErrCodeForbidden},
		{"plain error", errors.New("boom"), http.StatusInternalServerError, apperrors.ErrCodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, body := serve(func(c *gin.Context) { Error(c, tt.err) })
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.code, body.Code)
		})
	}
}

func TestError_HidesInternalCause(t *testing.T) {
	w, body := serve(func(c *gin.Context) {
		Error(c, apperrors.Wrap(errors.New("dial tcp 10.0.0.1:3306"), "查询图书失败"))
	})

	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "查询图书失败", body.Message)
	assert.NotContains(t, w.Body.String(), "10.0.0.1")
}

func TestCreated(t *testing.T) {
	w, body := serve(func(c *gin.Context) { Created(c, gin.H{"id": 1}) })
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, 0, body.Code)
}
