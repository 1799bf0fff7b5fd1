// Package handler 包含了处理 HTTP 请求的控制器逻辑。
package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"movie-rec-go/internal/model"
	"movie-rec-go/internal/recommender"
	"movie-rec-go/internal/service"
	"movie-rec-go/pkg/log"
	"movie-rec-go/pkg/token"
)

// RecommendHandler 负责处理推荐相关的 API 请求。
type RecommendHandler struct {
	recommendService service.RecommendService
	jwtManager       *token.JWTManager
}

// NewRecommendHandler 创建一个新的 RecommendHandler 实例。
func NewRecommendHandler(recommendService service.RecommendService, jwtManager *token.JWTManager) *RecommendHandler {
	return &RecommendHandler{
		recommendService: recommendService,
		jwtManager:       jwtManager,
	}
}

// Recommend 处理按自由文本查询推荐的请求。
// GET /api/v1/recommendations?query=&topK=&alpha=
func (h *RecommendHandler) Recommend(c *gin.Context) {
	query := c.Query("query")
	topK, _ := strconv.Atoi(c.DefaultQuery("topK", "0"))
	alpha, err := strconv.ParseFloat(c.DefaultQuery("alpha", "-1"), 64)
	if err != nil {
		alpha = -1
	}

	user := currentUser(c)
	var userID uint
	if user != nil {
		userID = user.ID
	}

	resp, err := h.recommendService.Recommend(c.Request.Context(), userID, query, topK, alpha)
	if err != nil {
		respondRecommendError(c, query, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    http.StatusOK,
		"data":    resp,
		"message": "success",
	})
}

// RecommendByUser 处理按用户评分画像推荐的请求。
// GET /api/v1/users/:id/recommendations?topK=
func (h *RecommendHandler) RecommendByUser(c *gin.Context) {
	targetID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    http.StatusBadRequest,
			"message": "无效的用户 ID",
		})
		return
	}

	// 只允许查询自己的画像推荐，管理员除外
	user := currentUser(c)
	if user == nil || (user.ID != uint(targetID) && user.Role != "ADMIN") {
		c.JSON(http.StatusForbidden, gin.H{
			"code":    http.StatusForbidden,
			"message": "无权查看该用户的推荐",
		})
		return
	}

	topK, _ := strconv.Atoi(c.DefaultQuery("topK", "0"))
	resp, err := h.recommendService.RecommendByUser(c.Request.Context(), uint(targetID), topK)
	if err != nil {
		respondRecommendError(c, "", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    http.StatusOK,
		"data":    resp,
		"message": "success",
	})
}

// WebsocketToken 签发用于 WebSocket 握手的短时 token。
// GET /api/v1/recommend/websocket-token
func (h *RecommendHandler) WebsocketToken(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"code":    http.StatusUnauthorized,
			"message": "未认证",
		})
		return
	}

	wsToken, err := h.jwtManager.GenerateShortLivedToken(user.ID, user.Username, user.Role, 5*time.Minute)
	if err != nil {
		log.Errorf("签发 WebSocket token 失败, userID: %d, error: %v", user.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    http.StatusInternalServerError,
			"message": "签发 token 失败",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    http.StatusOK,
		"data":    gin.H{"token": wsToken},
		"message": "success",
	})
}

// respondRecommendError 把推荐核心的错误映射到合适的 HTTP 状态码。
func respondRecommendError(c *gin.Context, query string, err error) {
	switch {
	case errors.Is(err, recommender.ErrInvalidQuery):
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    http.StatusBadRequest,
			"message": "查询内容不能为空",
		})
	case errors.Is(err, recommender.ErrEmptyCatalog):
		log.Errorf("推荐失败: 片库索引为空, query: '%s'", query)
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"code":    http.StatusServiceUnavailable,
			"message": "片库尚未就绪，请稍后再试",
		})
	default:
		log.Errorf("推荐失败, query: '%s', error: %v", query, err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    http.StatusInternalServerError,
			"message": "推荐服务内部错误",
		})
	}
}

// currentUser 从上下文取出 AuthMiddleware 存入的用户对象。
func currentUser(c *gin.Context) *model.User {
	value, exists := c.Get("user")
	if !exists {
		return nil
	}
	user, ok := value.(*model.User)
	if !ok {
		return nil
	}
	return user
}
