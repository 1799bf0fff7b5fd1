package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"movie-rec-go/internal/service"
	"movie-rec-go/pkg/log"
)

// SearchHandler 负责处理片库关键词检索的 API 请求。
type SearchHandler struct {
	searchService service.SearchService
}

// NewSearchHandler 创建一个新的 SearchHandler 实例。
func NewSearchHandler(searchService service.SearchService) *SearchHandler {
	return &SearchHandler{searchService: searchService}
}

// SearchMovies 处理关键词检索请求。
// GET /api/v1/search/movies?query=&genre=&topK=
func (h *SearchHandler) SearchMovies(c *gin.Context) {
	query := c.Query("query")
	genre := c.Query("genre")
	topK, _ := strconv.Atoi(c.DefaultQuery("topK", "20"))

	if query == "" && genre == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    http.StatusBadRequest,
			"message": "query 和 genre 至少提供一个",
		})
		return
	}

	results, err := h.searchService.SearchMovies(c.Request.Context(), query, genre, topK)
	if err != nil {
		log.Errorf("关键词检索失败, query: '%s', error: %v", query, err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    http.StatusInternalServerError,
			"message": "检索服务内部错误",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    http.StatusOK,
		"data":    results,
		"message": "success",
	})
}
