package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// ExtractUintParam извлекает числовой параметр пути и кладёт его в
// контекст Gin под ключом contextKey. Идентификаторы начинаются с 1,
// поэтому ноль отклоняется наравне с нечисловыми значениями - цепочка
// обрывается с 400 до входа в обработчик.
func ExtractUintParam(paramName, contextKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.Param(paramName)
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil || id == 0 {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error":      "Parameter " + paramName + " must be a positive integer",
				"error_type": "invalid_param",
			})
			return
		}
		c.Set(contextKey, uint(id))
		c.Next()
	}
}
