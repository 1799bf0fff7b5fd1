package repository

import (
	"gorm.io/gorm"
	"movie-rec-go/internal/model"
)

// GenreAliasRepository 接口定义了类型别名的数据操作方法。
type GenreAliasRepository interface {
	Create(alias *model.GenreAlias) error
	FindByAlias(alias string) (*model.GenreAlias, error)
	FindAll() ([]model.GenreAlias, error)
	AliasMap() (map[string]string, error)
	Update(alias *model.GenreAlias) error
	Delete(alias string) error
}

type genreAliasRepository struct {
	db *gorm.DB
}

// NewGenreAliasRepository 创建一个新的 GenreAliasRepository 实例。
func NewGenreAliasRepository(db *gorm.DB) GenreAliasRepository {
	return &genreAliasRepository{db: db}
}

// Create 在数据库中插入一个新的类型别名记录。
func (r *genreAliasRepository) Create(alias *model.GenreAlias) error {
	return r.db.Create(alias).Error
}

// FindByAlias 根据别名写法查找记录。
func (r *genreAliasRepository) FindByAlias(alias string) (*model.GenreAlias, error) {
	var record model.GenreAlias
	err := r.db.Where("alias = ?", alias).First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// FindAll 检索全部类型别名记录。
func (r *genreAliasRepository) FindAll() ([]model.GenreAlias, error) {
	var aliases []model.GenreAlias
	err := r.db.Find(&aliases).Error
	return aliases, err
}

// AliasMap 把全部别名组织为 alias → canonical 的映射，供归一化使用。
func (r *genreAliasRepository) AliasMap() (map[string]string, error) {
	aliases, err := r.FindAll()
	if err != nil {
		return nil, err
	}
	m := make(map[string]string, len(aliases))
	for _, a := range aliases {
		m[a.Alias] = a.Canonical
	}
	return m, nil
}

// Update 更新数据库中一个已存在的类型别名记录。
func (r *genreAliasRepository) Update(alias *model.GenreAlias) error {
	return r.db.Save(alias).Error
}

// Delete 根据别名写法删除记录。
func (r *genreAliasRepository) Delete(alias string) error {
	return r.db.Delete(&model.GenreAlias{}, "alias = ?", alias).Error
}
