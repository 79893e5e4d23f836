package postgres

import (
	"errors"

	"github.com/frahmantamala/recibox/internal/project"
	"gorm.io/gorm"
)

type ProjectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

func (r *ProjectRepository) Create(p *project.Project) error {
	return r.db.Create(p).Error
}

func (r *ProjectRepository) GetByID(userID, id int64) (*project.Project, error) {
	var p project.Project
	err := r.db.
		Where("id = ? AND user_id = ?", id, userID).
		First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *ProjectRepository) GetAllForUser(userID int64) ([]*project.Project, error) {
	var projects []*project.Project
	err := r.db.
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&projects).Error
	if err != nil {
		return nil, err
	}
	return projects, nil
}

func (r *ProjectRepository) Update(p *project.Project) error {
	result := r.db.
		Where("id = ? AND user_id = ?", p.ID, p.UserID).
		Select("nome", "descricao", "status", "orcamento", "data_inicio", "data_fim", "updated_at").
		Updates(p)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *ProjectRepository) Delete(userID, id int64) error {
	result := r.db.
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&project.Project{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
