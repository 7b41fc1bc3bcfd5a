package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ============================================================================
// ExtractUintParam
// ============================================================================

func TestExtractUintParam(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		wantAbort bool
		wantValue uint
	}{
		{"корректный идентификатор", "42", false, 42},
		{"единица", "1", false, 1},
		{"ноль отклоняется", "0", true, 0},
		{"нечисловое значение", "abc", true, 0},
		{"отрицательное значение", "-5", true, 0},
		{"пустое значение", "", true, 0},
		{"переполнение uint32", "4294967296", true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Params = gin.Params{{Key: "id", Value: tt.raw}}

			ExtractUintParam("id", "quizID")(c)

			if tt.wantAbort {
				assert.True(t, c.IsAborted())
				assert.Equal(t, 400, w.Code)
				_, exists := c.Get("quizID")
				assert.False(t, exists)
				return
			}

			assert.False(t, c.IsAborted())
			value, exists := c.Get("quizID")
			require.True(t, exists)
			assert.Equal(t, tt.wantValue, value)
		})
	}
}
