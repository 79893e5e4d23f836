package postgres

import (
	"errors"

	"github.com/frahmantamala/recibox/internal/category"
	"gorm.io/gorm"
)

type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) GetAllForUser(userID int64) ([]*category.Category, error) {
	var categories []*category.Category
	err := r.db.
		Where("user_id = ?", userID).
		Order("nome ASC").
		Find(&categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *CategoryRepository) GetByID(userID, id int64) (*category.Category, error) {
	var c category.Category
	err := r.db.
		Where("id = ? AND user_id = ?", id, userID).
		First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}
