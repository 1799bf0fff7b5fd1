package service

import (
	"errors"
	"strings"

	"movie-rec-go/internal/metrics"
	"movie-rec-go/internal/model"
	"movie-rec-go/internal/repository"
	"movie-rec-go/pkg/log"
)

// UserDetailResponse 定义了用户列表项的详细结构。
type UserDetailResponse struct {
	UserID    uint            `json:"userId"`
	Username  string          `json:"username"`
	Role      string          `json:"role"`
	CreatedAt model.LocalTime `json:"createdAt"`
}

// AdminService 接口定义了管理端的业务操作。
type AdminService interface {
	// 类型别名管理
	CreateGenreAlias(alias, canonical, description string, createdBy uint) (*model.GenreAlias, error)
	ListGenreAliases() ([]model.GenreAlias, error)
	UpdateGenreAlias(alias, canonical, description string) (*model.GenreAlias, error)
	DeleteGenreAlias(alias string) error

	// 用户管理
	ListUsers(page, size int) ([]UserDetailResponse, int64, error)
	SetUserRole(userID uint, role string) error

	// 离线评估
	Evaluate(recommended []int, relevant []int, k int) metrics.EvalResult
}

type adminService struct {
	aliasRepo repository.GenreAliasRepository
	userRepo  repository.UserRepository
}

// NewAdminService 创建一个新的 AdminService 实例。
func NewAdminService(aliasRepo repository.GenreAliasRepository, userRepo repository.UserRepository) AdminService {
	return &adminService{
		aliasRepo: aliasRepo,
		userRepo:  userRepo,
	}
}

// CreateGenreAlias 创建一个类型别名映射。
func (s *adminService) CreateGenreAlias(alias, canonical, description string, createdBy uint) (*model.GenreAlias, error) {
	alias = strings.ToLower(strings.TrimSpace(alias))
	canonical = strings.ToLower(strings.TrimSpace(canonical))
	if alias == "" || canonical == "" {
		return nil, errors.New("别名和规范类型名不能为空")
	}
	if alias == canonical {
		return nil, errors.New("别名不能与规范类型名相同")
	}

	record := &model.GenreAlias{
		Alias:       alias,
		Canonical:   canonical,
		Description: description,
		CreatedBy:   createdBy,
	}
	if err := s.aliasRepo.Create(record); err != nil {
		return nil, err
	}
	log.Infof("[AdminService] 创建类型别名: '%s' -> '%s', createdBy: %d", alias, canonical, createdBy)
	return record, nil
}

// ListGenreAliases 返回全部类型别名。
func (s *adminService) ListGenreAliases() ([]model.GenreAlias, error) {
	return s.aliasRepo.FindAll()
}

// UpdateGenreAlias 更新一个类型别名的映射目标或描述。
func (s *adminService) UpdateGenreAlias(alias, canonical, description string) (*model.GenreAlias, error) {
	record, err := s.aliasRepo.FindByAlias(strings.ToLower(strings.TrimSpace(alias)))
	if err != nil {
		return nil, err
	}
	if canonical = strings.ToLower(strings.TrimSpace(canonical)); canonical != "" {
		record.Canonical = canonical
	}
	if description != "" {
		record.Description = description
	}
	if err := s.aliasRepo.Update(record); err != nil {
		return nil, err
	}
	return record, nil
}

// DeleteGenreAlias 删除一个类型别名。
func (s *adminService) DeleteGenreAlias(alias string) error {
	return s.aliasRepo.Delete(strings.ToLower(strings.TrimSpace(alias)))
}

// ListUsers 分页返回用户列表。
func (s *adminService) ListUsers(page, size int) ([]UserDetailResponse, int64, error) {
	if page < 1 {
		page = 1
	}
	if size <= 0 || size > 100 {
		size = 20
	}
	users, total, err := s.userRepo.FindWithPagination((page-1)*size, size)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]UserDetailResponse, 0, len(users))
	for _, u := range users {
		responses = append(responses, UserDetailResponse{
			UserID:    u.ID,
			Username:  u.Username,
			Role:      u.Role,
			CreatedAt: model.LocalTime(u.CreatedAt),
		})
	}
	return responses, total, nil
}

// SetUserRole 设置用户角色，仅允许 USER 与 ADMIN。
func (s *adminService) SetUserRole(userID uint, role string) error {
	if role != "USER" && role != "ADMIN" {
		return errors.New("非法的角色值")
	}
	return s.userRepo.UpdateRole(userID, role)
}

// Evaluate 对一组推荐结果执行离线指标计算。
func (s *adminService) Evaluate(recommended []int, relevant []int, k int) metrics.EvalResult {
	relevantSet := make(map[int]bool, len(relevant))
	for _, id := range relevant {
		relevantSet[id] = true
	}
	return metrics.Evaluate(recommended, relevantSet, k)
}
