package repository

import (
	"gorm.io/gorm"
	"movie-rec-go/internal/model"
)

// RatingRepository 接口定义了用户评分数据的持久化操作。
type RatingRepository interface {
	Create(rating *model.Rating) error
	FindByUserID(userID uint) ([]model.Rating, error)
	FindHighRatedByUserID(userID uint, minScore float64) ([]model.Rating, error)
	DeleteByUserAndMovie(userID uint, movieID int) error
}

type ratingRepository struct {
	db *gorm.DB
}

// NewRatingRepository 创建一个新的 RatingRepository 实例。
func NewRatingRepository(db *gorm.DB) RatingRepository {
	return &ratingRepository{db: db}
}

// Create 插入一条评分记录。同一用户对同一电影的重复评分以新记录为准。
func (r *ratingRepository) Create(rating *model.Rating) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ? AND movie_id = ?", rating.UserID, rating.MovieID).
			Delete(&model.Rating{}).Error; err != nil {
			return err
		}
		return tx.Create(rating).Error
	})
}

// FindByUserID 检索指定用户的全部评分。
func (r *ratingRepository) FindByUserID(userID uint) ([]model.Rating, error) {
	var ratings []model.Rating
	err := r.db.Where("user_id = ?", userID).Find(&ratings).Error
	return ratings, err
}

// FindHighRatedByUserID 检索指定用户评分不低于 minScore 的记录，
// 供按用户口味画像推荐使用。
func (r *ratingRepository) FindHighRatedByUserID(userID uint, minScore float64) ([]model.Rating, error) {
	var ratings []model.Rating
	err := r.db.Where("user_id = ? AND score >= ?", userID, minScore).Find(&ratings).Error
	return ratings, err
}

// DeleteByUserAndMovie 删除用户对某部电影的评分。
func (r *ratingRepository) DeleteByUserAndMovie(userID uint, movieID int) error {
	return r.db.Where("user_id = ? AND movie_id = ?", userID, movieID).Delete(&model.Rating{}).Error
}
