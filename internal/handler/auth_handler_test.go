package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newTestGinContext создает *gin.Context для тестов с JSON body
func newTestGinContext(method, path string, body interface{}) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()

	var req *http.Request
	if body != nil {
		bodyBytes, _ := json.Marshal(body)
		req, _ = http.NewRequest(method, path, bytes.NewReader(bodyBytes))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req, _ = http.NewRequest(method, path, nil)
	}

	c, _ := gin.CreateTestContext(w)
	c.Request = req
	return c, w
}

// parseJSONResponse парсит JSON ответ из *httptest.ResponseRecorder
func parseJSONResponse(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err, "Response body should be valid JSON: %s", w.Body.String())
	return resp
}

// ============================================================================
// Request validation tests — не требуют реального AuthService:
// handler возвращает 400 до вызова сервиса
// ============================================================================

func TestRegister_ValidationErrors(t *testing.T) {
	h := &AuthHandler{} // nil service - до него дело не доходит

	tests := []struct {
		name string
		body interface{}
	}{
		{"пустое тело", nil},
		{"без email", map[string]string{"username": "ivan", "password": "secret-password"}},
		{"невалидный email", map[string]string{"username": "ivan", "email": "not-an-email", "password": "secret-password"}},
		{"короткий пароль", map[string]string{"username": "ivan", "email": "ivan@example.com", "password": "short"}},
		{"короткое имя", map[string]string{"username": "iv", "email": "ivan@example.com", "password": "secret-password"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newTestGinContext(http.MethodPost, "/api/auth/register", tt.body)

			h.Register(c)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			resp := parseJSONResponse(t, w)
			assert.Contains(t, resp, "error")
		})
	}
}

func TestLogin_ValidationErrors(t *testing.T) {
	h := &AuthHandler{}

	tests := []struct {
		name string
		body interface{}
	}{
		{"пустое тело", nil},
		{"без пароля", map[string]string{"email": "ivan@example.com"}},
		{"невалидный email", map[string]string{"email": "not-an-email", "password": "secret-password"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newTestGinContext(http.MethodPost, "/api/auth/login", tt.body)

			h.Login(c)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			resp := parseJSONResponse(t, w)
			assert.Contains(t, resp, "error")
		})
	}
}
