package postgres

import (
	"errors"

	"github.com/frahmantamala/recibox/internal/expense"
	"gorm.io/gorm"
)

type ExpenseRepository struct {
	db *gorm.DB
}

func NewExpenseRepository(db *gorm.DB) *ExpenseRepository {
	return &ExpenseRepository{db: db}
}

func (r *ExpenseRepository) Create(e *expense.Expense) error {
	return r.db.Create(e).Error
}

func (r *ExpenseRepository) GetByID(userID, id int64) (*expense.Expense, error) {
	var e expense.Expense
	err := r.db.
		Where("id = ? AND user_id = ?", id, userID).
		First(&e).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &e, nil
}

func (r *ExpenseRepository) GetByUserID(userID int64, limit, offset int) ([]*expense.Expense, error) {
	var expenses []*expense.Expense
	err := r.db.
		Where("user_id = ?", userID).
		Order("data_gasto DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&expenses).Error
	if err != nil {
		return nil, err
	}
	return expenses, nil
}

func (r *ExpenseRepository) GetByProject(userID, projectID int64) ([]*expense.Expense, error) {
	var expenses []*expense.Expense
	err := r.db.
		Where("user_id = ? AND projeto_id = ?", userID, projectID).
		Order("data_gasto DESC, id DESC").
		Find(&expenses).Error
	if err != nil {
		return nil, err
	}
	return expenses, nil
}

func (r *ExpenseRepository) Update(e *expense.Expense) error {
	result := r.db.
		Where("id = ? AND user_id = ?", e.ID, e.UserID).
		Select("projeto_id", "descricao", "valor", "categoria", "observacoes", "data_gasto", "imagens", "updated_at").
		Updates(e)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *ExpenseRepository) Delete(userID, id int64) error {
	result := r.db.
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&expense.Expense{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ImagePathsByProject collects every receipt path attached to a project's
// expenses. The imagens column is JSON, so extraction happens here rather
// than in SQL to stay portable across drivers.
func (r *ExpenseRepository) ImagePathsByProject(userID, projectID int64) ([]string, error) {
	expenses, err := r.GetByProject(userID, projectID)
	if err != nil {
		return nil, err
	}

	var paths []string
	for _, e := range expenses {
		paths = append(paths, e.Images.Paths()...)
	}
	return paths, nil
}

func (r *ExpenseRepository) DeleteByProject(userID, projectID int64) error {
	return r.db.
		Where("user_id = ? AND projeto_id = ?", userID, projectID).
		Delete(&expense.Expense{}).Error
}

// TotalsByProject sums spend per project for the caller.
func (r *ExpenseRepository) TotalsByProject(userID int64) (map[int64]float64, error) {
	rows, err := r.db.
		Model(&expense.Expense{}).
		Select("projeto_id, COALESCE(SUM(valor), 0) AS total").
		Where("user_id = ?", userID).
		Group("projeto_id").
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	totals := make(map[int64]float64)
	for rows.Next() {
		var projectID int64
		var total float64
		if err := rows.Scan(&projectID, &total); err != nil {
			return nil, err
		}
		totals[projectID] = total
	}
	return totals, rows.Err()
}
