package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "github.com/yourusername/lms-api/internal/pkg/errors"
	"github.com/yourusername/lms-api/internal/service"
)

// GamificationHandler обрабатывает запросы XP, стриков и бейджей
type GamificationHandler struct {
	gamificationService *service.GamificationService
}

// NewGamificationHandler создает новый обработчик геймификации
func NewGamificationHandler(gamificationService *service.GamificationService) *GamificationHandler {
	return &GamificationHandler{gamificationService: gamificationService}
}

// GetMyStats обрабатывает GET /api/gamification/me
func (h *GamificationHandler) GetMyStats(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)

	stats, err := h.gamificationService.GetStats(userID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// GetMyBadges обрабатывает GET /api/gamification/me/badges
func (h *GamificationHandler) GetMyBadges(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)

	badges, err := h.gamificationService.ListUserBadges(userID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"badges": badges})
}

// GetLeaderboard обрабатывает GET /api/gamification/leaderboard
func (h *GamificationHandler) GetLeaderboard(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	stats, err := h.gamificationService.Leaderboard(limit)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"leaderboard": stats})
}

func (h *GamificationHandler) handleError(c *gin.Context, err error) {
	if errors.Is(err, apperrors.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	} else {
		log.Printf("ERROR: Internal server error in GamificationHandler: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
