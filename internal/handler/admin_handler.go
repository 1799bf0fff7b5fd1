package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"movie-rec-go/internal/service"
	"movie-rec-go/pkg/log"
)

// AdminHandler 负责处理管理端的 API 请求。
type AdminHandler struct {
	adminService   service.AdminService
	datasetService service.DatasetService
	catalogService service.CatalogService
}

// NewAdminHandler 创建一个新的 AdminHandler 实例。
func NewAdminHandler(adminService service.AdminService, datasetService service.DatasetService, catalogService service.CatalogService) *AdminHandler {
	return &AdminHandler{
		adminService:   adminService,
		datasetService: datasetService,
		catalogService: catalogService,
	}
}

// UploadDataset 处理片库数据集 CSV 的上传。
// POST /api/v1/admin/datasets (multipart form, field "file")
func (h *AdminHandler) UploadDataset(c *gin.Context) {
	user := currentUser(c)
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    http.StatusBadRequest,
			"message": "缺少数据集文件",
		})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    http.StatusInternalServerError,
			"message": "读取数据集文件失败",
		})
		return
	}
	defer file.Close()

	record, err := h.datasetService.Upload(c.Request.Context(), file, fileHeader.Size, fileHeader.Filename, user.ID)
	if err != nil {
		log.Errorf("数据集上传失败, fileName: '%s', error: %v", fileHeader.Filename, err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    http.StatusInternalServerError,
			"message": "数据集上传失败",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    http.StatusOK,
		"data":    record,
		"message": "数据集已接收，增强任务处理中",
	})
}

// ListDatasets 返回当前管理员的数据集导入记录。
// GET /api/v1/admin/datasets
func (h *AdminHandler) ListDatasets(c *gin.Context) {
	user := currentUser(c)
	records, err := h.datasetService.List(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    http.StatusInternalServerError,
			"message": "获取导入记录失败",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    http.StatusOK,
		"data":    records,
		"message": "success",
	})
}

// DeleteDataset 删除一条导入记录及其数据集文件。
// DELETE /api/v1/admin/datasets/:id
func (h *AdminHandler) DeleteDataset(c *gin.Context) {
	user := currentUser(c)
	importID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    http.StatusBadRequest,
			"message": "无效的导入记录 ID",
		})
		return
	}

	if err := h.datasetService.Delete(c.Request.Context(), uint(importID), user.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    http.StatusInternalServerError,
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    http.StatusOK,
		"message": "success",
	})
}

// RebuildCatalog 强制重建片库索引。
// POST /api/v1/admin/catalog/rebuild
func (h *AdminHandler) RebuildCatalog(c *gin.Context) {
	if err := h.catalogService.Rebuild(c.Request.Context()); err != nil {
		log.Errorf("手动重建片库索引失败: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    http.StatusInternalServerError,
			"message": "片库索引重建失败",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    http.StatusOK,
		"data":    gin.H{"catalogSize": h.catalogService.Size()},
		"message": "片库索引重建完成",
	})
}

// EvaluateRequest 定义了离线评估 API 的请求体结构。
type EvaluateRequest struct {
	Recommended []int `json:"recommended" binding:"required"`
	Relevant    []int `json:"relevant" binding:"required"`
	K           int   `json:"k"`
}

// Evaluate 对一组推荐结果计算离线指标。
// POST /api/v1/admin/evaluate
func (h *AdminHandler) Evaluate(c *gin.Context) {
	var req EvaluateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    http.StatusBadRequest,
			"message": "无效的请求负载：recommended 和 relevant 不能为空",
		})
		return
	}
	if req.K <= 0 {
		req.K = len(req.Recommended)
	}

	result := h.adminService.Evaluate(req.Recommended, req.Relevant, req.K)
	c.JSON(http.StatusOK, gin.H{
		"code":    http.StatusOK,
		"data":    result,
		"message": "success",
	})
}

// GenreAliasRequest 定义了类型别名创建/更新 API 的请求体结构。
type GenreAliasRequest struct {
	Alias       string `json:"alias" binding:"required"`
	Canonical   string `json:"canonical"`
	Description string `json:"description"`
}

// CreateGenreAlias 创建一个类型别名。
// POST /api/v1/admin/genre-aliases
func (h *AdminHandler) CreateGenreAlias(c *gin.Context) {
	user := currentUser(c)
	var req GenreAliasRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Canonical == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    http.StatusBadRequest,
			"message": "无效的请求负载：alias 和 canonical 不能为空",
		})
		return
	}

	record, err := h.adminService.CreateGenreAlias(req.Alias, req.Canonical, req.Description, user.ID)
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{
			"code":    http.StatusConflict,
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    http.StatusOK,
		"data":    record,
		"message": "success",
	})
}

// ListGenreAliases 返回全部类型别名。
// GET /api/v1/admin/genre-aliases
func (h *AdminHandler) ListGenreAliases(c *gin.Context) {
	aliases, err := h.adminService.ListGenreAliases()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    http.StatusInternalServerError,
			"message": "获取类型别名失败",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    http.StatusOK,
		"data":    aliases,
		"message": "success",
	})
}

// UpdateGenreAlias 更新一个类型别名。
// PUT /api/v1/admin/genre-aliases/:alias
func (h *AdminHandler) UpdateGenreAlias(c *gin.Context) {
	var req GenreAliasRequest
	req.Alias = c.Param("alias")
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    http.StatusBadRequest,
			"message": "无效的请求负载",
		})
		return
	}

	record, err := h.adminService.UpdateGenreAlias(c.Param("alias"), req.Canonical, req.Description)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"code":    http.StatusNotFound,
			"message": "类型别名不存在",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    http.StatusOK,
		"data":    record,
		"message": "success",
	})
}

// DeleteGenreAlias 删除一个类型别名。
// DELETE /api/v1/admin/genre-aliases/:alias
func (h *AdminHandler) DeleteGenreAlias(c *gin.Context) {
	if err := h.adminService.DeleteGenreAlias(c.Param("alias")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    http.StatusInternalServerError,
			"message": "删除类型别名失败",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    http.StatusOK,
		"message": "success",
	})
}

// ListUsers 分页返回用户列表。
// GET /api/v1/admin/users?page=&size=
func (h *AdminHandler) ListUsers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))

	users, total, err := h.adminService.ListUsers(page, size)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    http.StatusInternalServerError,
			"message": "获取用户列表失败",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code": http.StatusOK,
		"data": gin.H{
			"users": users,
			"total": total,
		},
		"message": "success",
	})
}

// SetUserRoleRequest 定义了设置用户角色 API 的请求体结构。
type SetUserRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// SetUserRole 设置指定用户的角色。
// PUT /api/v1/admin/users/:id/role
func (h *AdminHandler) SetUserRole(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    http.StatusBadRequest,
			"message": "无效的用户 ID",
		})
		return
	}

	var req SetUserRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    http.StatusBadRequest,
			"message": "无效的请求负载：role 不能为空",
		})
		return
	}

	if err := h.adminService.SetUserRole(uint(userID), req.Role); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    http.StatusBadRequest,
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    http.StatusOK,
		"message": "success",
	})
}
