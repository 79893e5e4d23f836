package postgres

import (
	"database/sql"
	"time"

	"github.com/frahmantamala/recibox/internal/dashboard"
	"gorm.io/gorm"
)

type DashboardRepository struct {
	db *gorm.DB
}

func NewDashboardRepository(db *gorm.DB) *DashboardRepository {
	return &DashboardRepository{db: db}
}

// MonthAmounts returns the raw valor column for the given month. Values come
// back untyped; the service coerces them.
func (r *DashboardRepository) MonthAmounts(userID int64, year int, month time.Month) ([]interface{}, error) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	rows, err := r.db.
		Raw(`SELECT valor FROM gastos WHERE user_id = ? AND data_gasto >= ? AND data_gasto < ?`,
			userID, start, end).
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanAmounts(rows)
}

func (r *DashboardRepository) AllTimeAmounts(userID int64) ([]interface{}, error) {
	rows, err := r.db.
		Raw(`SELECT valor FROM gastos WHERE user_id = ?`, userID).
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanAmounts(rows)
}

func (r *DashboardRepository) ActiveProjectCount(userID int64) (int64, error) {
	var count int64
	err := r.db.
		Raw(`SELECT COUNT(*) FROM projetos WHERE user_id = ? AND status = 'ativo'`, userID).
		Scan(&count).Error
	return count, err
}

// RecentExpenses reads from the gastos_detalhados view so each row already
// carries its project name.
func (r *DashboardRepository) RecentExpenses(userID int64, limit int) ([]dashboard.RecentExpense, error) {
	rows, err := r.db.
		Raw(`SELECT id, descricao, valor, data_gasto, projeto_nome, categoria
		     FROM gastos_detalhados
		     WHERE user_id = ?
		     ORDER BY data_gasto DESC, id DESC
		     LIMIT ?`, userID, limit).
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recent []dashboard.RecentExpense
	for rows.Next() {
		var e dashboard.RecentExpense
		if err := rows.Scan(&e.ID, &e.Description, &e.Amount, &e.ExpenseDate, &e.ProjectName, &e.Category); err != nil {
			return nil, err
		}
		recent = append(recent, e)
	}
	return recent, rows.Err()
}

// CategoryTotals groups the month's spend by category name.
func (r *DashboardRepository) CategoryTotals(userID int64, year int, month time.Month) ([]dashboard.CategoryTotal, error) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	rows, err := r.db.
		Raw(`SELECT g.categoria, COALESCE(c.cor, '') AS cor, SUM(g.valor) AS total
		     FROM gastos g
		     LEFT JOIN categorias c ON c.user_id = g.user_id AND c.nome = g.categoria
		     WHERE g.user_id = ? AND g.categoria <> '' AND g.data_gasto >= ? AND g.data_gasto < ?
		     GROUP BY g.categoria, c.cor`, userID, start, end).
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var totals []dashboard.CategoryTotal
	for rows.Next() {
		var t dashboard.CategoryTotal
		if err := rows.Scan(&t.Name, &t.Color, &t.Amount); err != nil {
			return nil, err
		}
		totals = append(totals, t)
	}
	return totals, rows.Err()
}

func scanAmounts(rows *sql.Rows) ([]interface{}, error) {
	var amounts []interface{}
	for rows.Next() {
		var v interface{}
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		amounts = append(amounts, v)
	}
	return amounts, rows.Err()
}
