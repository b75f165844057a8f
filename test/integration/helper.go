//go:build integration

// Package integration 针对运行中服务的端到端测试
//
//	BOOKSTORE_ADMIN_PASSWORD=admin1234 go run ./cmd/api
//	BOOKAPP_ADMIN_PASSWORD=admin1234 go test -tags integration ./test/integration/...
package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// Timeout HTTP请求超时时间
const Timeout = 10 * time.Second

var client = &http.Client{Timeout: Timeout}

// Response 统一响应结构
type Response struct {
	Status  int             `json:"-"`
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type LoginData struct {
	User struct {
		ID uint `json:"id"`
	} `json:"user"`
	AccessToken string `json:"access_token"`
}

type BookData struct {
	ID    uint    `json:"id"`
	Price float64 `json:"price"`
	Stock int     `json:"stock"`
}

type OrderData struct {
	ID         string  `json:"id"`
	TotalPrice float64 `json:"totalPrice"`
	Status     string  `json:"status"`
}

// baseURL 默认本地服务，BOOKAPP_BASE_URL可覆盖
func baseURL() string {
	if u := os.Getenv("BOOKAPP_BASE_URL"); u != "" {
		return u
	}
	return "http://localhost:8080/api/v1"
}

// RequireServer 服务未启动时跳过
func RequireServer(t *testing.T) {
	t.Helper()
	resp, err := client.Get(baseURL() + "/books")
	if err != nil {
		t.Skipf("服务不可用: %v", err)
	}
	_ = resp.Body.Close()
}

// Do 发送请求并解析统一响应
func Do(t *testing.T, method, path string, data interface{}, token string) *Response {
	t.Helper()

	var body io.Reader
	if data != nil {
		raw, err := json.Marshal(data)
		require.NoError(t, err, "JSON序列化失败")
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, baseURL()+path, body)
	require.NoError(t, err, "创建HTTP请求失败")
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := client.Do(req)
	require.NoError(t, err, "发送HTTP请求失败")
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "读取响应体失败")

	result := &Response{Status: resp.StatusCode}
	require.NoError(t, json.Unmarshal(raw, result), "解析JSON响应失败: %s", string(raw))
	return result
}

// Decode 解析data字段
func Decode[T any](t *testing.T, resp *Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(resp.Data, &v))
	return v
}

// Login 登录并返回用户ID与Access Token
func Login(t *testing.T, email, password string) (uint, string) {
	t.Helper()

	resp := Do(t, http.MethodPost, "/users/login", map[string]string{
		"email": email, "password": password,
	}, "")
	require.Equal(t, http.StatusOK, resp.Status, "登录失败: %s", resp.Message)

	data := Decode[LoginData](t, resp)
	return data.User.ID, data.AccessToken
}

// LoginAdmin 使用BOOKAPP_ADMIN_EMAIL/BOOKAPP_ADMIN_PASSWORD登录管理员，未配置时跳过
func LoginAdmin(t *testing.T) string {
	t.Helper()

	password := os.Getenv("BOOKAPP_ADMIN_PASSWORD")
	if password == "" {
		t.Skip("未配置BOOKAPP_ADMIN_PASSWORD")
	}
	email := os.Getenv("BOOKAPP_ADMIN_EMAIL")
	if email == "" {
		email = "admin@bookstore.com"
	}

	_, token := Login(t, email, password)
	return token
}

// RegisterTestUser 注册唯一邮箱的测试用户并登录
func RegisterTestUser(t *testing.T, name string) (uint, string) {
	t.Helper()

	email := fmt.Sprintf("%s_%s@test.com", name, uuid.NewString()[:8])
	resp := Do(t, http.MethodPost, "/users/register", map[string]string{
		"email": email, "password": "Test1234", "name": name,
	}, "")
	require.Equal(t, http.StatusCreated, resp.Status, "注册失败: %s", resp.Message)

	return Login(t, email, "Test1234")
}

// CreateTestBook 管理员上架图书
func CreateTestBook(t *testing.T, adminToken, title string, price float64, stock int) BookData {
	t.Helper()

	resp := Do(t, http.MethodPost, "/books", map[string]interface{}{
		"title": title, "author": "Integration", "price": price, "stock": stock,
	}, adminToken)
	require.Equal(t, http.StatusCreated, resp.Status, "上架失败: %s", resp.Message)
	return Decode[BookData](t, resp)
}

// AddToCart 加入购物车
func AddToCart(t *testing.T, token string, userID, bookID uint, quantity int) {
	t.Helper()

	resp := Do(t, http.MethodPost, "/cart", map[string]interface{}{
		"userId": userID, "bookId": bookID, "quantity": quantity,
	}, token)
	require.Equal(t, http.StatusOK, resp.Status, "加入购物车失败: %s", resp.Message)
}
