package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"movie-rec-go/internal/service"
	"movie-rec-go/pkg/log"
)

// HistoryHandler 负责处理查询历史相关的 API 请求。
type HistoryHandler struct {
	historyService service.HistoryService
}

// NewHistoryHandler 创建一个新的 HistoryHandler 实例。
func NewHistoryHandler(historyService service.HistoryService) *HistoryHandler {
	return &HistoryHandler{historyService: historyService}
}

// List 返回当前用户的最近查询历史。
// GET /api/v1/users/history
func (h *HistoryHandler) List(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"code":    http.StatusUnauthorized,
			"message": "未认证",
		})
		return
	}

	records, err := h.historyService.List(c.Request.Context(), user.ID)
	if err != nil {
		log.Errorf("获取查询历史失败, userID: %d, error: %v", user.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    http.StatusInternalServerError,
			"message": "获取查询历史失败",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    http.StatusOK,
		"data":    records,
		"message": "success",
	})
}

// Clear 清空当前用户的查询历史。
// DELETE /api/v1/users/history
func (h *HistoryHandler) Clear(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"code":    http.StatusUnauthorized,
			"message": "未认证",
		})
		return
	}

	if err := h.historyService.Clear(c.Request.Context(), user.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    http.StatusInternalServerError,
			"message": "清空查询历史失败",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    http.StatusOK,
		"message": "success",
	})
}
